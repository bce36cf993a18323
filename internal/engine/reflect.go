package engine

import (
	"regexp"
	"strconv"
	"strings"
)

// safeSubstitutions apply to words the script's pre-substitutions left
// alone, so a pronoun swap is never swapped back.
var safeSubstitutions = map[string]string{
	"AM": "ARE",
}

// Reflect rewrites text word by word through the script's pre-substitutions
// and then the safe table. The word count is preserved. Reflect is not
// idempotent: a script that maps I to YOU and YOU to I flips back on a
// second pass.
func (e *Engine) Reflect(text string) string {
	words := strings.Fields(text)
	for i, w := range words {
		up := strings.ToUpper(w)
		if sub, ok := e.subs[up]; ok {
			words[i] = sub
			continue
		}
		if sub, ok := safeSubstitutions[up]; ok {
			words[i] = sub
		}
	}
	return strings.Join(words, " ")
}

var placeholderRE = regexp.MustCompile(`\{(\d+)\}`)

// reassemble fills {n} placeholders with the reflected n-th capture.
// Placeholders without a capture render empty. Only surrounding
// whitespace is trimmed; the template's inner spacing is kept.
func (e *Engine) reassemble(template string, captures []string) string {
	out := placeholderRE.ReplaceAllStringFunc(template, func(m string) string {
		n, err := strconv.Atoi(m[1 : len(m)-1])
		if err != nil || n < 1 || n > len(captures) {
			return ""
		}
		return e.Reflect(strings.TrimSpace(captures[n-1]))
	})
	return strings.TrimSpace(out)
}

// substituteWord replaces whole-word occurrences of from with to.
func substituteWord(input, from, to string) string {
	words := strings.Fields(input)
	for i, w := range words {
		if strings.EqualFold(w, from) {
			words[i] = to
		}
	}
	return strings.Join(words, " ")
}

// preInput builds the input for a Pre directive. Elements that are capture
// numbers, bare or as {n}, take the capture's literal text; others are kept.
func preInput(transform []string, captures []string) string {
	parts := make([]string, 0, len(transform))
	for _, el := range transform {
		ref := strings.TrimSuffix(strings.TrimPrefix(el, "{"), "}")
		if n, err := strconv.Atoi(ref); err == nil && ref != "" && ref[0] != '-' && ref[0] != '+' {
			if n >= 1 && n <= len(captures) {
				parts = append(parts, captures[n-1])
			}
			continue
		}
		parts = append(parts, el)
	}
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}
