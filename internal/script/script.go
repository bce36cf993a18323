// Package script defines the ELIZA script model: keywords with ranked
// decomposition rules, word lists, pre-substitutions and memory rules.
package script

import "sort"

// Defaults applied by Parse when a script leaves the field empty.
const (
	DefaultFarewell = "GOODBYE"
	DefaultFallback = "NONE"
	DefaultFiller   = "PLEASE GO ON"
)

// Script is the immutable rule table consumed by the engine.
type Script struct {
	Greeting         string                  `yaml:"greeting" json:"greeting"`
	Farewell         string                  `yaml:"farewell,omitempty" json:"farewell,omitempty"`
	Fallback         string                  `yaml:"fallback,omitempty" json:"fallback,omitempty"`
	Filler           string                  `yaml:"filler,omitempty" json:"filler,omitempty"`
	DelimiterWords   []string                `yaml:"delimiter_words,omitempty" json:"delimiter_words,omitempty"`
	WordLists        map[string][]string     `yaml:"word_lists,omitempty" json:"word_lists,omitempty"`
	PreSubstitutions map[string]string       `yaml:"pre_substitutions,omitempty" json:"pre_substitutions,omitempty"`
	Keywords         map[string]*Keyword     `yaml:"keywords" json:"keywords"`
	MemoryRules      map[string][]MemoryRule `yaml:"memory_rules,omitempty" json:"memory_rules,omitempty"`
}

// Keyword is a ranked trigger word and its decomposition rules.
type Keyword struct {
	Name         string `yaml:"-" json:"-"`
	Rank         int    `yaml:"rank,omitempty" json:"rank,omitempty"`
	Substitution string `yaml:"substitution,omitempty" json:"substitution,omitempty"`
	Rules        []Rule `yaml:"rules,omitempty" json:"rules,omitempty"`
}

// Rule pairs a decomposition pattern with its reply alternatives.
type Rule struct {
	Pattern string  `yaml:"pattern" json:"pattern"`
	Replies Replies `yaml:"replies" json:"replies"`
}

// MemoryRule renders a deferred reply when its pattern matches.
type MemoryRule struct {
	Pattern  string `yaml:"pattern" json:"pattern"`
	Template string `yaml:"template" json:"template"`
}

// Keyword returns the named keyword, or nil.
func (s *Script) Keyword(name string) *Keyword {
	if s == nil {
		return nil
	}
	return s.Keywords[name]
}

// Ranked returns every keyword sorted by descending rank, then by name.
func (s *Script) Ranked() []*Keyword {
	out := make([]*Keyword, 0, len(s.Keywords))
	for _, k := range s.Keywords {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Rank != out[j].Rank {
			return out[i].Rank > out[j].Rank
		}
		return out[i].Name < out[j].Name
	})
	return out
}
