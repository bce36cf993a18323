package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rcliao/eliza/internal/engine"
)

// Exchange is one replayed line and its reply.
type Exchange struct {
	Input string `json:"input"`
	engine.Response
}

// Replay is the transcript of one replayed file.
type Replay struct {
	File      string     `json:"file"`
	Exchanges []Exchange `json:"exchanges"`
}

func init() {
	cmd := &cobra.Command{
		Use:   "replay [file...]",
		Short: "Replay conversations from files",
		Long: `Replay each file as an independent conversation, one utterance per line.
Files run concurrently (see replay_workers) and print in the order given.
Use - to read standard input.`,
		Args: cobra.MinimumNArgs(1),
		Run:  runReplay,
	}

	RootCmd.AddCommand(cmd)
}

func runReplay(cmd *cobra.Command, args []string) {
	e, err := buildEngine(scriptRef())
	if err != nil {
		exitErr("load script", err)
	}

	results, err := replayFiles(cmd.Context(), e, args, cfg.ReplayWorkers, cmd.InOrStdin())
	if err != nil {
		exitErr("replay", err)
	}

	if jsonOutput() {
		printJSON(cmd, results)
		return
	}
	w := cmd.OutOrStdout()
	for i, r := range results {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "== %s ==\n", r.File)
		for _, x := range r.Exchanges {
			fmt.Fprintf(w, "> %s\n%s\n", x.Input, strings.ToUpper(x.Text))
		}
	}
}

// replayFiles runs one conversation per file on a shared engine, at most
// workers at a time. Results keep the order of files.
func replayFiles(ctx context.Context, e *engine.Engine, files []string, workers int, stdin io.Reader) ([]Replay, error) {
	results := make([]Replay, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			lines, err := readLines(file, stdin)
			if err != nil {
				return err
			}
			sess := engine.NewSession(e, nil)
			r := Replay{File: file, Exchanges: []Exchange{}}
			for _, line := range lines {
				if err := ctx.Err(); err != nil {
					return err
				}
				r.Exchanges = append(r.Exchanges, Exchange{Input: line, Response: sess.Respond(line)})
			}
			logger.Debug("replayed", zap.String("file", file), zap.Int("turns", len(r.Exchanges)))
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// readLines returns the non-blank lines of file, or of stdin for "-".
func readLines(file string, stdin io.Reader) ([]string, error) {
	var r io.Reader = stdin
	if file != "-" {
		f, err := os.Open(file)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", file, err)
	}
	return lines, nil
}
