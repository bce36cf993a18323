package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReflectIsAnInvolutionOnPronouns(t *testing.T) {
	e := newEngine(t, fixture, Options{})

	assert.Equal(t, "YOU", e.Reflect("I"))
	assert.Equal(t, "I", e.Reflect("YOU"))
	assert.Equal(t, "I", e.Reflect(e.Reflect("I")))
	assert.NotEqual(t, e.Reflect("I"), e.Reflect(e.Reflect("I")))
}

func TestReflectSafeTable(t *testing.T) {
	e := newEngine(t, fixture, Options{})
	assert.Equal(t, "YOU ARE HAPPY WITH MY WORK", e.Reflect("I AM HAPPY WITH YOUR WORK"))
	assert.Equal(t, "YOU ARE happy with MY work", e.Reflect("i am happy with your work"))
}

func TestReflectKeepsWordCount(t *testing.T) {
	e := newDoctor(t)
	in := "YOUR MOTHER TAKES CARE OF ME AND MYSELF"
	out := e.Reflect(in)
	assert.Equal(t, "YOUR MOTHER TAKES CARE OF YOU AND YOURSELF", out)
	assert.Len(t, strings.Fields(out), len(strings.Fields(in)))
}

func TestReassemble(t *testing.T) {
	e := newEngine(t, fixture, Options{})

	assert.Equal(t, "WHY DO YOU SAY YOU LIKE MY DOG",
		e.reassemble("WHY DO YOU SAY {1}", []string{" I LIKE YOUR DOG "}))
	assert.Equal(t, "FIRST A THEN", e.reassemble("FIRST {1} THEN {3}", []string{"A"}))
	assert.Equal(t, "NO   PLACEHOLDERS", e.reassemble("  NO   PLACEHOLDERS ", nil))
	assert.Equal(t, "SAY  AGAIN", e.reassemble("SAY {2} AGAIN", []string{"X"}))
}

func TestPreInput(t *testing.T) {
	caps := []string{"DEPRESSED MUCH", "LATER"}
	assert.Equal(t, "YOU ARE DEPRESSED MUCH", preInput([]string{"YOU", "ARE", "1"}, caps))
	assert.Equal(t, "LATER WAS DEPRESSED MUCH", preInput([]string{"{2}", "WAS", "{1}"}, caps))
	assert.Equal(t, "X -1", preInput([]string{"3", "X", "-1"}, caps))
}

func TestSubstituteWord(t *testing.T) {
	assert.Equal(t, "YOUR MOTHER AND YOUR MYTH", substituteWord("MY MOTHER AND my MYTH", "MY", "YOUR"))
}
