package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show database statistics",
		Args:  cobra.NoArgs,
		Run:   runStats,
	}

	RootCmd.AddCommand(cmd)
}

func runStats(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	stats, err := s.Stats(cmd.Context(), cfg.DB)
	if err != nil {
		exitErr("stats", err)
	}

	if jsonOutput() {
		printJSON(cmd, stats)
		return
	}
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "database: %s (%d bytes)\n", stats.DBPath, stats.DBSizeBytes)
	fmt.Fprintf(w, "sessions: %d live, %d total\n", stats.ActiveSessions, stats.TotalSessions)
	fmt.Fprintf(w, "turns:    %d\n", stats.TotalTurns)
	for _, src := range stats.Sources {
		fmt.Fprintf(w, "  %-9s %d\n", src.Source, src.Count)
	}
	if len(stats.TopKeywords) > 0 {
		fmt.Fprintln(w, "top keywords:")
		for _, k := range stats.TopKeywords {
			fmt.Fprintf(w, "  %-12s %d\n", k.Keyword, k.Count)
		}
	}
}
