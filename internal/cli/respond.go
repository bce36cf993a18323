package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/eliza/internal/engine"
)

type respondOutput struct {
	engine.Response
	Session string `json:"session,omitempty"`
}

func init() {
	cmd := &cobra.Command{
		Use:   "respond [text]",
		Short: "Reply to a single utterance",
		Long:  "Reply to one utterance and exit. With --session the turn is appended to a saved conversation.",
		Args:  cobra.MinimumNArgs(1),
		Run:   runRespond,
	}

	cmd.Flags().String("session", "", "Name of a session to save and resume")

	RootCmd.AddCommand(cmd)
}

func runRespond(cmd *cobra.Command, args []string) {
	name, _ := cmd.Flags().GetString("session")
	input := strings.Join(args, " ")

	var out respondOutput
	if name == "" {
		e, err := buildEngine(scriptRef())
		if err != nil {
			exitErr("load script", err)
		}
		out.Response = engine.NewSession(e, nil).Respond(input)
	} else {
		s, err := openStore()
		if err != nil {
			exitErr("open store", err)
		}
		defer s.Close()

		sess, stored, err := resumeSession(cmd.Context(), s, name)
		if err != nil {
			exitErr("resume session", err)
		}
		out.Response = sess.Respond(input)
		out.Session = stored.Name
		if err := recordTo(s, stored.ID)(cmd.Context(), input, out.Response, sess.Snapshot()); err != nil {
			exitErr("save turn", err)
		}
	}

	if jsonOutput() {
		printJSON(cmd, out)
		return
	}
	fmt.Fprintln(cmd.OutOrStdout(), strings.ToUpper(out.Text))
}
