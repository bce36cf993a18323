package engine

import (
	"sort"
	"strings"
)

const punctuation = ".,!?;:"

// Normalize upper-cases and tokenizes an utterance, then truncates it at
// clause delimiters. Until a keyword has been seen, a word ending in ',' or
// '.' discards everything read so far, itself included. Once a keyword has
// been seen, the first such word is kept and ends the input. A script
// delimiter word behaves the same way but is never kept.
//
// It returns the normalized input and its punctuation-free words.
func (e *Engine) Normalize(utterance string) (string, []string) {
	words := strings.Fields(strings.ToUpper(strings.TrimSpace(utterance)))
	kept := make([]string, 0, len(words))
	found := false

	for _, w := range words {
		clean := strings.Trim(w, punctuation)
		delim := strings.HasSuffix(w, ",") || strings.HasSuffix(w, ".")

		if e.delimiters[clean] {
			if found {
				break
			}
			kept = kept[:0]
			continue
		}
		if !found {
			if delim {
				kept = kept[:0]
				continue
			}
			if clean != "" {
				kept = append(kept, clean)
			}
			if _, ok := e.keywords[clean]; ok {
				found = true
			}
			continue
		}
		if clean != "" {
			kept = append(kept, clean)
		}
		if delim {
			break
		}
	}
	return strings.Join(kept, " "), kept
}

// Candidate is a keyword found in the input.
type Candidate struct {
	Word string `json:"word"`
	Rank int    `json:"rank"`
}

// RankKeywords returns the script keywords among words, highest rank first.
// Ties keep their order of first appearance; repeats are listed once.
func (e *Engine) RankKeywords(words []string) []Candidate {
	var out []Candidate
	seen := make(map[string]bool)
	for _, w := range words {
		w = strings.ToUpper(w)
		kw, ok := e.keywords[w]
		if !ok || seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, Candidate{Word: w, Rank: kw.rank})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Rank > out[j].Rank
	})
	return out
}
