package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/eliza/internal/model"
)

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.PersistentFlags().VisitAll(reset)
	c.Flags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// run executes the root command with args and stdin and returns stdout.
func run(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	resetFlags(RootCmd)

	var out bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetErr(&out)
	RootCmd.SetIn(strings.NewReader(stdin))
	RootCmd.SetArgs(args)
	require.NoError(t, RootCmd.Execute())
	return out.String()
}

func testDB(t *testing.T) string {
	return filepath.Join(t.TempDir(), "sessions.db")
}

func TestRespond(t *testing.T) {
	db := testDB(t)
	out := run(t, "", "--db", db, "respond", "Men", "are", "all", "alike.")
	assert.Equal(t, "IN WHAT WAY\n", out)
}

func TestRespondJSON(t *testing.T) {
	db := testDB(t)
	out := run(t, "", "--db", db, "--format", "json", "respond", "Men are all alike.")

	var got map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "IN WHAT WAY", got["text"])
	assert.Equal(t, "keyword", got["source"])
	assert.Equal(t, "ALIKE", got["keyword"])
	assert.NotContains(t, got, "session")
}

func TestRespondSessionResumesMemory(t *testing.T) {
	db := testDB(t)

	out := run(t, "", "--db", db, "respond", "--session", "monday", "Well, my boyfriend made me come here.")
	assert.Equal(t, "YOUR BOYFRIEND MADE YOU COME HERE\n", out)

	out = run(t, "", "--db", db, "--format", "json", "respond", "--session", "monday", "Bullies.")
	var got map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "DOES THAT HAVE ANYTHING TO DO WITH THE FACT THAT YOUR BOYFRIEND MADE YOU COME HERE", got["text"])
	assert.Equal(t, "memory", got["source"])
	assert.Equal(t, "monday", got["session"])

	// A session-less reply starts from scratch.
	out = run(t, "", "--db", db, "respond", "Bullies.")
	assert.Equal(t, "I AM NOT SURE I UNDERSTAND YOU FULLY\n", out)
}

func TestChatSavesTranscript(t *testing.T) {
	db := testDB(t)

	out := run(t, "Men are all alike.\nThey're always bugging us about something or other.\nbye\n",
		"--db", db, "chat", "--session", "therapy", "--color", "never")
	assert.Equal(t,
		"HOW DO YOU DO. PLEASE TELL ME YOUR PROBLEM\n"+
			"> IN WHAT WAY\n"+
			"> CAN YOU THINK OF A SPECIFIC EXAMPLE\n"+
			"> GOODBYE\n", out)

	out = run(t, "", "--db", db, "--format", "json", "sessions", "show", "therapy")
	var e model.SessionExport
	require.NoError(t, json.Unmarshal([]byte(out), &e))
	assert.Equal(t, "therapy", e.Name)
	assert.Equal(t, model.DefaultScript, e.Script)
	require.Len(t, e.Transcript, 2)
	assert.Equal(t, "ALWAYS", e.Transcript[1].Keyword)

	// Resuming continues the reply rotation of ALWAYS.
	out = run(t, "Always\n", "--db", db, "chat", "--session", "therapy", "--color", "never")
	assert.Equal(t,
		"HOW DO YOU DO. PLEASE TELL ME YOUR PROBLEM\n"+
			"> WHEN\n"+
			"> \nGOODBYE\n", out)

	// A trailing period before any keyword discards the clause.
	out = run(t, "", "--db", db, "respond", "Always.")
	assert.Equal(t, "I AM NOT SURE I UNDERSTAND YOU FULLY\n", out)
}

func TestRootRunsChat(t *testing.T) {
	out := run(t, "quit\n", "--db", testDB(t))
	assert.Equal(t, "HOW DO YOU DO. PLEASE TELL ME YOUR PROBLEM\n> GOODBYE\n", out)
}

func TestReplayKeepsFileOrder(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "b.txt")
	require.NoError(t, os.WriteFile(a, []byte("Men are all alike.\n\nThey're always bugging us about something or other.\n"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("Always\nAlways\n"), 0o644))

	out := run(t, "", "--db", testDB(t), "replay", a, b)
	want := "== " + a + " ==\n" +
		"> Men are all alike.\nIN WHAT WAY\n" +
		"> They're always bugging us about something or other.\nCAN YOU THINK OF A SPECIFIC EXAMPLE\n" +
		"\n== " + b + " ==\n" +
		"> Always\nCAN YOU THINK OF A SPECIFIC EXAMPLE\n" +
		"> Always\nWHEN\n"
	assert.Equal(t, want, out)
}

func TestReplayJSONFromStdin(t *testing.T) {
	out := run(t, "I need some help.\n", "--db", testDB(t), "--format", "json", "replay", "-")

	var got []Replay
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "-", got[0].File)
	require.Len(t, got[0].Exchanges, 1)
	assert.Equal(t, "WHAT WOULD IT MEAN TO YOU IF YOU GOT SOME HELP", got[0].Exchanges[0].Text)
}

func TestSessionsLifecycle(t *testing.T) {
	db := testDB(t)
	run(t, "", "--db", db, "respond", "--session", "one", "Well, my boyfriend made me come here.")
	run(t, "", "--db", db, "respond", "--session", "two", "Men are all alike.")

	out := run(t, "", "--db", db, "sessions", "list")
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "one")
	assert.Contains(t, out, "two")

	out = run(t, "", "--db", db, "sessions", "reset", "one")
	assert.Equal(t, `{"ok":true,"session":"one"}`+"\n", out)

	// Memory is gone after reset, so there is nothing to recall.
	out = run(t, "", "--db", db, "respond", "--session", "one", "Bullies.")
	assert.Equal(t, "I AM NOT SURE I UNDERSTAND YOU FULLY\n", out)

	out = run(t, "", "--db", db, "sessions", "rm", "two")
	assert.Equal(t, `{"ok":true,"session":"two","hard":false}`+"\n", out)

	out = run(t, "", "--db", db, "--format", "json", "sessions", "list")
	var sessions []model.Session
	require.NoError(t, json.Unmarshal([]byte(out), &sessions))
	require.Len(t, sessions, 1)
	assert.Equal(t, "one", sessions[0].Name)
	assert.Equal(t, 2, sessions[0].Turns)
}

func TestSearchAndStats(t *testing.T) {
	db := testDB(t)
	run(t, "", "--db", db, "respond", "--session", "one", "Well, my boyfriend made me come here.")

	out := run(t, "", "--db", db, "search", "boyfriend")
	assert.Equal(t, "one #1\n> Well, my boyfriend made me come here.\nYOUR BOYFRIEND MADE YOU COME HERE\n", out)

	out = run(t, "", "--db", db, "--format", "json", "search", "nothing like this")
	assert.Equal(t, "[]\n", out)

	out = run(t, "", "--db", db, "--format", "json", "stats")
	var stats map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.EqualValues(t, 1, stats["total_turns"])
	assert.EqualValues(t, 1, stats["active_sessions"])
}

func TestExportImport(t *testing.T) {
	src := testDB(t)
	run(t, "", "--db", src, "respond", "--session", "one", "Men are all alike.")

	exported := run(t, "", "--db", src, "export")

	dst := testDB(t)
	out := run(t, exported, "--db", dst, "import")
	assert.Equal(t, `{"ok":true,"imported":1}`+"\n", out)

	out = run(t, "", "--db", dst, "sessions", "show", "one")
	assert.Contains(t, out, "> Men are all alike.\nIN WHAT WAY\n")
}

func TestScriptCommands(t *testing.T) {
	out := run(t, "", "script", "check")
	assert.Regexp(t, `^doctor: ok, \d+ keywords\n$`, out)

	out = run(t, "", "script", "keywords")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Greater(t, len(lines), 10)
	assert.True(t, strings.HasPrefix(lines[0], "RANK"))
	assert.Contains(t, out, "MY")

	out = run(t, "", "script", "show")
	assert.Contains(t, out, "greeting: HOW DO YOU DO. PLEASE TELL ME YOUR PROBLEM")
	assert.Contains(t, out, "keywords:")
}

func TestScriptFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tiny.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
greeting: HELLO THERE
keywords:
  ping:
    rules:
      - pattern: "*"
        replies: [PONG]
  none:
    rules:
      - pattern: "*"
        replies: [SAY MORE]
`), 0o644))

	out := run(t, "", "--script", path, "respond", "ping")
	assert.Equal(t, "PONG\n", out)

	out = run(t, "", "--script", path, "--format", "json", "script", "check")
	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, true, got["ok"])
	assert.EqualValues(t, 2, got["keywords"])
}
