package script

import (
	"fmt"
	"sort"

	"github.com/rcliao/eliza/internal/pattern"
)

// Issue is a script authoring defect found by Validate.
type Issue struct {
	Keyword string `json:"keyword,omitempty"`
	Rule    int    `json:"rule,omitempty"`
	Message string `json:"message"`
}

func (i Issue) String() string {
	switch {
	case i.Keyword == "":
		return i.Message
	case i.Rule > 0:
		return fmt.Sprintf("%s rule %d: %s", i.Keyword, i.Rule, i.Message)
	}
	return fmt.Sprintf("%s: %s", i.Keyword, i.Message)
}

// Validate lints sc. The engine tolerates every defect it reports by
// treating the affected rule as never matching.
func Validate(sc *Script) []Issue {
	var issues []Issue
	add := func(kw string, rule int, format string, args ...any) {
		issues = append(issues, Issue{Keyword: kw, Rule: rule, Message: fmt.Sprintf(format, args...)})
	}

	checkPattern := func(kw string, rule int, src string) {
		for _, name := range pattern.References(src) {
			if _, ok := sc.WordLists[name]; !ok {
				add(kw, rule, "unknown word list /%s", name)
			}
		}
		if _, err := pattern.Compile(pattern.Expand(src, sc.WordLists)); err != nil {
			add(kw, rule, "%v", err)
		}
	}

	names := make([]string, 0, len(sc.Keywords))
	for name := range sc.Keywords {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		kw := sc.Keywords[name]
		if kw.Substitution != "" && len(kw.Rules) == 0 {
			if _, ok := sc.Keywords[kw.Substitution]; !ok {
				add(name, 0, "substitution target %s is not a keyword", kw.Substitution)
			}
		}
		if kw.Substitution == "" && len(kw.Rules) == 0 {
			add(name, 0, "no rules and no substitution")
		}
		for i, rule := range kw.Rules {
			n := i + 1
			checkPattern(name, n, rule.Pattern)
			if len(rule.Replies) == 0 {
				add(name, n, "empty reply list")
			}
			for _, r := range rule.Replies {
				switch v := r.(type) {
				case Goto:
					if _, ok := sc.Keywords[v.Keyword]; !ok {
						add(name, n, "goto unknown keyword %s", v.Keyword)
					}
				case Pre:
					if _, ok := sc.Keywords[v.Target]; !ok {
						add(name, n, "pre targets unknown keyword %s", v.Target)
					}
				}
			}
		}
	}

	triggers := make([]string, 0, len(sc.MemoryRules))
	for trigger := range sc.MemoryRules {
		triggers = append(triggers, trigger)
	}
	sort.Strings(triggers)
	for _, trigger := range triggers {
		if _, ok := sc.Keywords[trigger]; !ok {
			add(trigger, 0, "memory rules for unknown keyword")
		}
		for i, mr := range sc.MemoryRules[trigger] {
			checkPattern(trigger, i+1, mr.Pattern)
		}
	}

	if sc.Fallback != "" {
		if _, ok := sc.Keywords[sc.Fallback]; !ok {
			add("", 0, "fallback keyword %s is not defined", sc.Fallback)
		}
	}
	return issues
}
