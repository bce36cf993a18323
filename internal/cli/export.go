package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export sessions as JSON",
		Long:  "Export live sessions with their transcripts as JSON. Limit to one session with --session.",
		Args:  cobra.NoArgs,
		Run:   runExport,
	}

	cmd.Flags().String("session", "", "Only export this session (id or name)")

	RootCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, args []string) {
	session, _ := cmd.Flags().GetString("session")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	exports, err := s.ExportAll(cmd.Context(), session)
	if err != nil {
		exitErr("export", err)
	}

	printJSON(cmd, exports)
}
