package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rcliao/eliza/internal/script"
)

type keywordInfo struct {
	Name         string `json:"name"`
	Rank         int    `json:"rank"`
	Rules        int    `json:"rules"`
	Substitution string `json:"substitution,omitempty"`
	Memory       bool   `json:"memory,omitempty"`
}

func init() {
	scriptCmd := &cobra.Command{
		Use:   "script",
		Short: "Inspect and validate scripts",
	}

	checkCmd := &cobra.Command{
		Use:   "check [file]",
		Short: "Validate a script",
		Long:  "Validate a script file (default: --script, or the built-in DOCTOR) and list every problem found.",
		Args:  cobra.MaximumNArgs(1),
		Run:   runScriptCheck,
	}

	showCmd := &cobra.Command{
		Use:   "show [file]",
		Short: "Print a script as normalised YAML",
		Args:  cobra.MaximumNArgs(1),
		Run:   runScriptShow,
	}

	keywordsCmd := &cobra.Command{
		Use:   "keywords [file]",
		Short: "List a script's keywords by rank",
		Args:  cobra.MaximumNArgs(1),
		Run:   runScriptKeywords,
	}

	scriptCmd.AddCommand(checkCmd, showCmd, keywordsCmd)
	RootCmd.AddCommand(scriptCmd)
}

func scriptArg(args []string) (*script.Script, string) {
	ref := scriptRef()
	if len(args) == 1 {
		ref = args[0]
	}
	sc, err := loadScript(ref)
	if err != nil {
		exitErr("load script", err)
	}
	return sc, ref
}

func runScriptCheck(cmd *cobra.Command, args []string) {
	sc, ref := scriptArg(args)
	issues := script.Validate(sc)

	if jsonOutput() {
		msgs := make([]string, 0, len(issues))
		for _, is := range issues {
			msgs = append(msgs, is.String())
		}
		printJSON(cmd, map[string]any{
			"script":   ref,
			"ok":       len(issues) == 0,
			"keywords": len(sc.Keywords),
			"issues":   msgs,
		})
	} else {
		for _, is := range issues {
			fmt.Fprintln(cmd.OutOrStdout(), is.String())
		}
		if len(issues) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok, %d keywords\n", ref, len(sc.Keywords))
		}
	}

	if len(issues) > 0 {
		exitErr("check", fmt.Errorf("%s: %d issues", ref, len(issues)))
	}
}

func runScriptShow(cmd *cobra.Command, args []string) {
	sc, _ := scriptArg(args)

	if jsonOutput() {
		printJSON(cmd, sc)
		return
	}
	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(sc); err != nil {
		exitErr("encode script", err)
	}
	enc.Close()
}

func runScriptKeywords(cmd *cobra.Command, args []string) {
	sc, _ := scriptArg(args)

	var infos []keywordInfo
	for _, k := range sc.Ranked() {
		infos = append(infos, keywordInfo{
			Name:         k.Name,
			Rank:         k.Rank,
			Rules:        len(k.Rules),
			Substitution: k.Substitution,
			Memory:       len(sc.MemoryRules[k.Name]) > 0,
		})
	}

	if jsonOutput() {
		printJSON(cmd, infos)
		return
	}
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tKEYWORD\tRULES\tSUBSTITUTION\tMEMORY")
	for _, k := range infos {
		mem := ""
		if k.Memory {
			mem = "yes"
		}
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\n", k.Rank, k.Name, k.Rules, k.Substitution, mem)
	}
	tw.Flush()
}
