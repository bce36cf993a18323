package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDelimiters(t *testing.T) {
	e := newDoctor(t)
	for _, tc := range []struct {
		in, want string
	}{
		{"Well, my boyfriend made me come here.", "MY BOYFRIEND MADE ME COME HERE"},
		{"It's true.  I am unhappy.", "I AM UNHAPPY"},
		{"I need some help, that much seems certain.", "I NEED SOME HELP"},
		{"My father.", "MY FATHER"},
		{"You are not very aggressive but I think you don't want me to notice that.", "YOU ARE NOT VERY AGGRESSIVE"},
		{"but hello there", "HELLO THERE"},
		{"Hello!!! how?", "HELLO HOW"},
		{"Bullies.", ""},
		{"no keywords here at all", "NO KEYWORDS HERE AT ALL"},
		{"", ""},
		{"   \t ", ""},
	} {
		got, words := e.Normalize(tc.in)
		assert.Equal(t, tc.want, got, tc.in)
		if tc.want == "" {
			assert.Empty(t, words, tc.in)
		}
	}
}

func TestNormalizeWordsArePunctuationFree(t *testing.T) {
	e := newDoctor(t)
	_, words := e.Normalize("Perhaps: I could; learn? to get along with my mother.")
	assert.Equal(t, []string{"PERHAPS", "I", "COULD", "LEARN", "TO", "GET", "ALONG", "WITH", "MY", "MOTHER"}, words)
}

func TestRankKeywordsStableByRank(t *testing.T) {
	e := newEngine(t, `
keywords:
  W1: {rank: 2, substitution: W4}
  W2: {rank: 5, substitution: W4}
  W3: {rank: 5, substitution: W4}
  W4: {rank: 1, rules: [{pattern: "*", replies: [X]}]}
`, Options{})

	got := e.RankKeywords([]string{"W1", "W2", "W3", "W4"})
	assert.Equal(t, []Candidate{{"W2", 5}, {"W3", 5}, {"W1", 2}, {"W4", 1}}, got)
}

func TestRankKeywordsFirstAppearanceOnly(t *testing.T) {
	e := newDoctor(t)
	got := e.RankKeywords([]string{"I", "DON'T", "KNOW", "MY", "I", "MY"})
	assert.Equal(t, []Candidate{{"MY", 2}, {"I", 0}}, got)
	assert.Empty(t, e.RankKeywords(nil))
}
