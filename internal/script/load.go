package script

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed doctor.yaml
var doctorYAML []byte

var (
	doctorOnce sync.Once
	doctor     *Script
)

// Default returns the embedded DOCTOR script. The value is shared and must
// not be modified.
func Default() *Script {
	doctorOnce.Do(func() {
		sc, err := Parse(doctorYAML)
		if err != nil {
			panic(fmt.Sprintf("embedded doctor script: %v", err))
		}
		doctor = sc
	})
	return doctor
}

// DefaultSource returns the embedded DOCTOR script text.
func DefaultSource() []byte {
	return append([]byte(nil), doctorYAML...)
}

// Load reads a YAML or JSON script file.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	sc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return sc, nil
}

// LoadOrDefault loads path, or returns Default when path is empty.
func LoadOrDefault(path string) (*Script, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// Parse decodes a script and normalises every keyword, list and
// substitution key to upper case.
func Parse(data []byte) (*Script, error) {
	var sc Script
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("decode script: %w", err)
	}
	if len(sc.Keywords) == 0 {
		return nil, fmt.Errorf("script defines no keywords")
	}
	normalize(&sc)
	return &sc, nil
}

func normalize(sc *Script) {
	up := strings.ToUpper

	keywords := make(map[string]*Keyword, len(sc.Keywords))
	for name, kw := range sc.Keywords {
		if kw == nil {
			kw = &Keyword{}
		}
		kw.Name = up(strings.TrimSpace(name))
		kw.Substitution = up(strings.TrimSpace(kw.Substitution))
		for i := range kw.Rules {
			kw.Rules[i].Replies = normalizeReplies(kw.Rules[i].Replies)
		}
		keywords[kw.Name] = kw
	}
	sc.Keywords = keywords

	lists := make(map[string][]string, len(sc.WordLists))
	for name, words := range sc.WordLists {
		upper := make([]string, len(words))
		for i, w := range words {
			upper[i] = up(w)
		}
		lists[up(name)] = upper
	}
	sc.WordLists = lists

	subs := make(map[string]string, len(sc.PreSubstitutions))
	for from, to := range sc.PreSubstitutions {
		subs[up(from)] = up(to)
	}
	sc.PreSubstitutions = subs

	memory := make(map[string][]MemoryRule, len(sc.MemoryRules))
	for trigger, rules := range sc.MemoryRules {
		memory[up(trigger)] = rules
	}
	sc.MemoryRules = memory

	for i, w := range sc.DelimiterWords {
		sc.DelimiterWords[i] = up(w)
	}

	if sc.Farewell == "" {
		sc.Farewell = DefaultFarewell
	}
	if sc.Fallback == "" {
		sc.Fallback = DefaultFallback
	}
	sc.Fallback = up(sc.Fallback)
	if sc.Filler == "" {
		sc.Filler = DefaultFiller
	}
}

func normalizeReplies(in Replies) Replies {
	out := make(Replies, len(in))
	for i, r := range in {
		switch v := r.(type) {
		case Goto:
			out[i] = Goto{Keyword: strings.ToUpper(v.Keyword)}
		case Pre:
			out[i] = Pre{Transform: v.Transform, Target: strings.ToUpper(v.Target)}
		default:
			out[i] = r
		}
	}
	return out
}
