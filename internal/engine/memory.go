package engine

import (
	"strings"

	"go.uber.org/zap"
)

// remember records one memory batch for kw when input, rewritten and
// reflected as for ordinary matching, matches any of kw's memory rules.
// The batch holds the rendered template of every matching rule in
// declaration order.
func (e *Engine) remember(st *State, kw, input string) bool {
	rules := e.memory[kw]
	if len(rules) == 0 {
		return false
	}
	transformed := input
	if k, ok := e.keywords[kw]; ok && k.substitution != "" {
		transformed = substituteWord(transformed, kw, k.substitution)
	}
	words := strings.Fields(e.Reflect(transformed))

	var batch []string
	for _, mr := range rules {
		caps, ok := mr.pattern.Match(words)
		if !ok {
			continue
		}
		batch = append(batch, e.reassemble(mr.template, caps))
	}
	if len(batch) == 0 {
		return false
	}
	st.PushMemory(batch)
	e.log.Debug("memory batch recorded",
		zap.String("keyword", kw),
		zap.Int("entries", len(batch)))
	return true
}

func (e *Engine) hasMemory(kw string) bool {
	return len(e.memory[kw]) > 0
}
