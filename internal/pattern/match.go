package pattern

import "strings"

// Match searches words for the leftmost match of p and returns the
// captured text of each group. A wildcard takes as few words as possible
// unless it is the last element, in which case it takes the rest of the
// input. The pattern need not cover the whole input.
func (p *Pattern) Match(words []string) ([]string, bool) {
	if p == nil {
		return nil, false
	}
	spans := make([][2]int, len(p.elems))
	for start := 0; start <= len(words); start++ {
		if p.matchAt(words, 0, start, spans) {
			return p.captures(words, spans), true
		}
	}
	return nil, false
}

// MatchString is Match over the whitespace separated words of s.
func (p *Pattern) MatchString(s string) ([]string, bool) {
	return p.Match(strings.Fields(s))
}

func (p *Pattern) matchAt(words []string, ei, wi int, spans [][2]int) bool {
	if ei == len(p.elems) {
		return true
	}
	e := p.elems[ei]
	if e.kind == kindWildcard {
		if ei == len(p.elems)-1 {
			spans[ei] = [2]int{wi, len(words)}
			return true
		}
		for end := wi; end <= len(words); end++ {
			spans[ei] = [2]int{wi, end}
			if p.matchAt(words, ei+1, end, spans) {
				return true
			}
		}
		return false
	}
	for _, opt := range e.options {
		if !hasPrefixFold(words[wi:], opt) {
			continue
		}
		end := wi + len(opt)
		spans[ei] = [2]int{wi, end}
		if p.matchAt(words, ei+1, end, spans) {
			return true
		}
	}
	return false
}

func (p *Pattern) captures(words []string, spans [][2]int) []string {
	out := make([]string, 0, p.groups)
	for i, e := range p.elems {
		if e.capture {
			out = append(out, strings.Join(words[spans[i][0]:spans[i][1]], " "))
		}
	}
	return out
}

func hasPrefixFold(words, prefix []string) bool {
	if len(prefix) > len(words) {
		return false
	}
	for i, w := range prefix {
		if !strings.EqualFold(words[i], w) {
			return false
		}
	}
	return true
}
