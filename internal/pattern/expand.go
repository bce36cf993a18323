package pattern

import "strings"

// Expand replaces word list references in src with alternations over the
// list's words. (/NAME) becomes a capturing alternation and /NAME a plain
// one. References to lists that do not exist are left as they are.
func Expand(src string, lists map[string][]string) string {
	if len(lists) == 0 || !strings.Contains(src, "/") {
		return src
	}
	tokens, err := tokenize(src)
	if err != nil {
		return src
	}
	for i, tok := range tokens {
		captured := strings.HasPrefix(tok, "(/") && strings.HasSuffix(tok, ")")
		name := tok
		if captured {
			name = tok[1 : len(tok)-1]
		}
		if !strings.HasPrefix(name, "/") {
			continue
		}
		words, ok := lists[strings.ToUpper(name[1:])]
		if !ok || len(words) == 0 {
			continue
		}
		alt := "[" + strings.Join(words, "|") + "]"
		if captured {
			alt = "(" + alt + ")"
		}
		tokens[i] = alt
	}
	return strings.Join(tokens, " ")
}

// References lists the word list names src refers to.
func References(src string) []string {
	tokens, err := tokenize(src)
	if err != nil {
		return nil
	}
	var names []string
	for _, tok := range tokens {
		tok = strings.TrimSuffix(strings.TrimPrefix(tok, "("), ")")
		if strings.HasPrefix(tok, "/") && len(tok) > 1 {
			names = append(names, strings.ToUpper(tok[1:]))
		}
	}
	return names
}
