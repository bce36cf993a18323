package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/eliza/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search saved transcripts",
		Long:  "Search the inputs and replies of saved sessions for matching text.",
		Args:  cobra.MinimumNArgs(1),
		Run:   runSearch,
	}

	cmd.Flags().String("session", "", "Only search this session (id or name)")
	cmd.Flags().IntP("limit", "l", 20, "Max results")

	RootCmd.AddCommand(cmd)
}

func runSearch(cmd *cobra.Command, args []string) {
	session, _ := cmd.Flags().GetString("session")
	limit, _ := cmd.Flags().GetInt("limit")
	query := strings.Join(args, " ")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	results, err := s.Search(cmd.Context(), store.SearchParams{
		Query:   query,
		Session: session,
		Limit:   limit,
	})
	if err != nil {
		exitErr("search", err)
	}

	if jsonOutput() {
		if len(results) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "[]")
			return
		}
		printJSON(cmd, results)
		return
	}
	for _, r := range results {
		fmt.Fprintf(cmd.OutOrStdout(), "%s #%d\n> %s\n%s\n", r.SessionName, r.Seq, r.Input, r.Response)
	}
}
