package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rcliao/eliza/internal/model"
	"github.com/rcliao/eliza/internal/store"
)

func init() {
	sessionsCmd := &cobra.Command{
		Use:   "sessions",
		Short: "Manage saved conversations",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List sessions, most recent first",
		Args:  cobra.NoArgs,
		Run:   runSessionsList,
	}
	listCmd.Flags().IntP("limit", "l", 20, "Max results")

	showCmd := &cobra.Command{
		Use:   "show [session]",
		Short: "Show a session and its transcript",
		Args:  cobra.ExactArgs(1),
		Run:   runSessionsShow,
	}

	rmCmd := &cobra.Command{
		Use:   "rm [session]",
		Short: "Delete a session",
		Args:  cobra.ExactArgs(1),
		Run:   runSessionsRm,
	}
	rmCmd.Flags().Bool("hard", false, "Permanent delete, including the transcript (irreversible)")

	resetCmd := &cobra.Command{
		Use:   "reset [session]",
		Short: "Forget a session's memory and reply rotation, keeping its transcript",
		Args:  cobra.ExactArgs(1),
		Run:   runSessionsReset,
	}

	sessionsCmd.AddCommand(listCmd, showCmd, rmCmd, resetCmd)
	RootCmd.AddCommand(sessionsCmd)
}

func runSessionsList(cmd *cobra.Command, args []string) {
	limit, _ := cmd.Flags().GetInt("limit")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	sessions, err := s.List(cmd.Context(), store.ListParams{Limit: limit})
	if err != nil {
		exitErr("list", err)
	}
	if sessions == nil {
		sessions = []model.Session{}
	}

	if jsonOutput() {
		printJSON(cmd, sessions)
		return
	}
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tTURNS\tSCRIPT\tUPDATED")
	for _, sess := range sessions {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", sess.Name, sess.Turns, sess.Script, sess.UpdatedAt.Local().Format("2006-01-02 15:04"))
	}
	tw.Flush()
}

func runSessionsShow(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	exports, err := s.ExportAll(cmd.Context(), args[0])
	if err != nil {
		exitErr("show", err)
	}
	e := exports[0]

	if jsonOutput() {
		printJSON(cmd, e)
		return
	}
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "session %s (%s), script %s, %d turns\n", e.Name, e.ID, e.Script, len(e.Transcript))
	for _, t := range e.Transcript {
		fmt.Fprintf(w, "> %s\n%s\n", t.Input, t.Response)
	}
}

func runSessionsRm(cmd *cobra.Command, args []string) {
	hard, _ := cmd.Flags().GetBool("hard")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	if err := s.Rm(cmd.Context(), store.RmParams{Ref: args[0], Hard: hard}); err != nil {
		exitErr("rm", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"session":%q,"hard":%t}`+"\n", args[0], hard)
}

func runSessionsReset(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	if err := s.Reset(cmd.Context(), args[0]); err != nil {
		exitErr("reset", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"session":%q}`+"\n", args[0])
}
