// Package engine turns user utterances into ELIZA replies driven by a
// script.Script.
//
// An Engine holds only compiled, read-only script data and is safe for
// concurrent use. Everything a conversation changes (reply rotation and the
// memory queue) lives in a State owned by the caller, usually through a
// Session.
package engine

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/rcliao/eliza/internal/pattern"
	"github.com/rcliao/eliza/internal/script"
)

// DefaultMaxDepth bounds Goto, Pre and substitution chains.
const DefaultMaxDepth = 32

// MemoryPolicy selects when the memory queue records a batch.
type MemoryPolicy string

const (
	// MemoryOnResponse records for the keyword that produced the reply.
	MemoryOnResponse MemoryPolicy = "response"
	// MemoryOnFirstKeyword records for the first ranked keyword that has
	// memory rules, before any reply is attempted.
	MemoryOnFirstKeyword MemoryPolicy = "first-keyword"
)

// ValidMemoryPolicies are the accepted MemoryPolicy values.
var ValidMemoryPolicies = map[MemoryPolicy]bool{
	MemoryOnResponse:     true,
	MemoryOnFirstKeyword: true,
}

// Options configure an Engine. The zero value is usable.
type Options struct {
	Logger       *zap.Logger
	MaxDepth     int
	MemoryPolicy MemoryPolicy
}

// Engine is a compiled script.
type Engine struct {
	script     *script.Script
	keywords   map[string]*keyword
	memory     map[string][]memoryRule
	delimiters map[string]bool
	subs       map[string]string
	fallback   string
	fillerText string
	log        *zap.Logger
	maxDepth   int
	policy     MemoryPolicy
}

type keyword struct {
	name         string
	rank         int
	substitution string
	rules        []rule
}

type rule struct {
	pattern *pattern.Pattern
	replies script.Replies
}

type memoryRule struct {
	pattern  *pattern.Pattern
	template string
}

// New compiles sc. Patterns that fail to compile are logged and never match.
func New(sc *script.Script, opts Options) (*Engine, error) {
	if sc == nil {
		return nil, fmt.Errorf("nil script")
	}
	if opts.MemoryPolicy == "" {
		opts.MemoryPolicy = MemoryOnResponse
	}
	if !ValidMemoryPolicies[opts.MemoryPolicy] {
		return nil, fmt.Errorf("invalid memory policy %q", opts.MemoryPolicy)
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	e := &Engine{
		script:     sc,
		keywords:   make(map[string]*keyword, len(sc.Keywords)),
		memory:     make(map[string][]memoryRule, len(sc.MemoryRules)),
		delimiters: make(map[string]bool, len(sc.DelimiterWords)),
		subs:       make(map[string]string, len(sc.PreSubstitutions)),
		fallback:   strings.ToUpper(sc.Fallback),
		fillerText: sc.Filler,
		log:        opts.Logger,
		maxDepth:   opts.MaxDepth,
		policy:     opts.MemoryPolicy,
	}
	if e.fillerText == "" {
		e.fillerText = script.DefaultFiller
	}
	for name, kw := range sc.Keywords {
		if kw == nil {
			continue
		}
		name = strings.ToUpper(name)
		k := &keyword{name: name, rank: kw.Rank, substitution: strings.ToUpper(kw.Substitution)}
		for i, r := range kw.Rules {
			k.rules = append(k.rules, rule{
				pattern: e.compile(name, i+1, r.Pattern),
				replies: r.Replies,
			})
		}
		e.keywords[name] = k
	}
	for trigger, rules := range sc.MemoryRules {
		trigger = strings.ToUpper(trigger)
		for i, mr := range rules {
			e.memory[trigger] = append(e.memory[trigger], memoryRule{
				pattern:  e.compile(trigger, i+1, mr.Pattern),
				template: mr.Template,
			})
		}
	}
	for _, w := range sc.DelimiterWords {
		e.delimiters[strings.ToUpper(w)] = true
	}
	for from, to := range sc.PreSubstitutions {
		e.subs[strings.ToUpper(from)] = strings.ToUpper(to)
	}
	return e, nil
}

func (e *Engine) compile(kw string, n int, src string) *pattern.Pattern {
	p, err := pattern.Compile(pattern.Expand(src, e.script.WordLists))
	if err != nil {
		e.log.Warn("pattern never matches",
			zap.String("keyword", kw),
			zap.Int("rule", n),
			zap.Error(err))
		return nil
	}
	return p
}

// Script returns the script the engine was compiled from.
func (e *Engine) Script() *script.Script { return e.script }

// MaxDepth reports the directive depth ceiling.
func (e *Engine) MaxDepth() int { return e.maxDepth }

// MemoryPolicy reports when memory batches are recorded.
func (e *Engine) MemoryPolicy() MemoryPolicy { return e.policy }
