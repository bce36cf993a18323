package engine

import (
	"strings"

	"go.uber.org/zap"

	"github.com/rcliao/eliza/internal/script"
)

type outcome int

const (
	noMatch outcome = iota
	matched
	overflow
)

// resolve produces a reply for kw or reports noMatch. Substitution
// redirects, Goto and Pre each add one to depth; past the engine's
// ceiling the whole turn is abandoned with overflow.
func (e *Engine) resolve(st *State, kw, input string, depth int) (string, outcome) {
	if depth > e.maxDepth {
		e.log.Warn("directive depth exceeded",
			zap.String("keyword", kw),
			zap.Int("max_depth", e.maxDepth))
		return "", overflow
	}
	k, ok := e.keywords[kw]
	if !ok {
		return "", noMatch
	}

	transformed := input
	if k.substitution != "" {
		if len(k.rules) == 0 {
			return e.resolve(st, k.substitution, input, depth+1)
		}
		transformed = substituteWord(input, kw, k.substitution)
	}
	words := strings.Fields(e.Reflect(transformed))

	for i, r := range k.rules {
		if len(r.replies) == 0 {
			continue
		}
		caps, ok := r.pattern.Match(words)
		if !ok {
			continue
		}
		n := len(r.replies)
		head := r.replies[wrap(st.offset(kw, i), n)]
		e.log.Debug("rule matched",
			zap.String("keyword", kw),
			zap.Int("rule", i+1),
			zap.String("reply", script.Describe(head)))

		switch v := head.(type) {
		case script.Text:
			text := e.reassemble(v.Template, caps)
			if n > 1 {
				st.advance(kw, i, n)
			}
			if text == "" {
				return "", noMatch
			}
			return text, matched
		case script.Goto:
			return e.resolve(st, strings.ToUpper(v.Keyword), input, depth+1)
		case script.NewKey:
			return "", noMatch
		case script.Pre:
			return e.resolve(st, strings.ToUpper(v.Target), preInput(v.Transform, caps), depth+1)
		}
		return "", noMatch
	}
	return "", noMatch
}
