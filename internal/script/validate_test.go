package script

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateReportsDefects(t *testing.T) {
	src := `
fallback: nothing
keywords:
  a:
    rules:
      - pattern: "* [X|"
        replies: [HI]
      - pattern: "* (/PETS) *"
        replies: []
  b:
    substitution: zzz
  c:
    rules:
      - pattern: "*"
        replies:
          - goto: nowhere
          - pre: ["1"]
            target: void
  d: {}
memory_rules:
  e:
    - pattern: "*"
      template: X
`
	sc, err := Parse([]byte(src))
	require.NoError(t, err)

	var got []string
	for _, issue := range Validate(sc) {
		got = append(got, issue.String())
	}
	assert.Equal(t, []string{
		`A rule 1: compile "* [X|": unterminated [`,
		"A rule 2: unknown word list /PETS",
		"A rule 2: empty reply list",
		"B: substitution target ZZZ is not a keyword",
		"C rule 1: goto unknown keyword NOWHERE",
		"C rule 1: pre targets unknown keyword VOID",
		"D: no rules and no substitution",
		"E: memory rules for unknown keyword",
		"fallback keyword NOTHING is not defined",
	}, got)
}
