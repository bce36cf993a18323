// Package pattern compiles ELIZA decomposition patterns into word-level
// matchers.
//
// A pattern is a whitespace separated list of elements:
//
//	WORD        literal word, matched case-insensitively
//	*           zero or more words
//	[A|B C]     one of the alternatives; an alternative may span words
//	/NAME       a word list, see Expand
//
// Wrapping an element in parentheses, as in (*) or ([A|B]), captures the
// words it matched. Captures are numbered from 1, left to right.
package pattern

import (
	"fmt"
	"strings"
)

type kind int

const (
	kindWords kind = iota
	kindWildcard
)

type element struct {
	kind    kind
	capture bool
	options [][]string
}

// Pattern is a compiled decomposition pattern. It is immutable and safe
// for concurrent use.
type Pattern struct {
	src    string
	elems  []element
	groups int
}

// Compile parses src. Unresolved list references compile to literal words
// that never match ordinary input.
func Compile(src string) (*Pattern, error) {
	tokens, err := tokenize(src)
	if err != nil {
		return nil, fmt.Errorf("compile %q: %w", src, err)
	}
	p := &Pattern{src: src}
	for _, tok := range tokens {
		e, err := parseElement(tok)
		if err != nil {
			return nil, fmt.Errorf("compile %q: %w", src, err)
		}
		if e.capture {
			p.groups++
		}
		p.elems = append(p.elems, e)
	}
	return p, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(src string) *Pattern {
	p, err := Compile(src)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the source text.
func (p *Pattern) String() string { return p.src }

// Groups reports the number of capturing elements.
func (p *Pattern) Groups() int { return p.groups }

// tokenize splits on whitespace outside of brackets.
func tokenize(src string) ([]string, error) {
	var (
		tokens []string
		cur    strings.Builder
		depth  int
	)
	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}
	for _, r := range src {
		switch {
		case r == '[':
			if depth > 0 {
				return nil, fmt.Errorf("nested alternation")
			}
			depth++
			cur.WriteRune(r)
		case r == ']':
			if depth == 0 {
				return nil, fmt.Errorf("unbalanced ]")
			}
			depth--
			cur.WriteRune(r)
		case depth == 0 && (r == ' ' || r == '\t' || r == '\n'):
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	if depth != 0 {
		return nil, fmt.Errorf("unterminated [")
	}
	flush()
	return tokens, nil
}

func parseElement(tok string) (element, error) {
	var e element
	inner := tok
	if strings.HasPrefix(tok, "(") {
		if !strings.HasSuffix(tok, ")") || len(tok) < 3 {
			return e, fmt.Errorf("malformed group %q", tok)
		}
		e.capture = true
		inner = tok[1 : len(tok)-1]
	}
	if strings.ContainsAny(inner, "()") {
		return e, fmt.Errorf("malformed element %q", tok)
	}

	switch {
	case inner == "*":
		e.kind = kindWildcard
	case strings.HasPrefix(inner, "["):
		if !strings.HasSuffix(inner, "]") {
			return e, fmt.Errorf("malformed alternation %q", tok)
		}
		for _, alt := range strings.Split(inner[1:len(inner)-1], "|") {
			words := strings.Fields(alt)
			if len(words) == 0 {
				return e, fmt.Errorf("empty alternative in %q", tok)
			}
			e.options = append(e.options, words)
		}
	case strings.ContainsAny(inner, "[]*|"):
		return e, fmt.Errorf("malformed element %q", tok)
	default:
		e.options = [][]string{{inner}}
	}
	return e, nil
}
