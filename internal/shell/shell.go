// Package shell runs an interactive ELIZA conversation over a line-oriented
// reader and writer.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"

	"github.com/rcliao/eliza/internal/engine"
)

// DefaultPrompt is printed before each line is read.
const DefaultPrompt = "> "

// quitCommands end the conversation.
var quitCommands = map[string]bool{
	"quit": true,
	"exit": true,
	"bye":  true,
}

// Recorder persists a completed turn and the state that followed it.
type Recorder func(ctx context.Context, input string, r engine.Response, st *engine.State) error

// Shell is a read-eval-print loop around a Session.
type Shell struct {
	Session *engine.Session
	In      io.Reader
	Out     io.Writer
	Prompt  string
	Color   bool
	Record  Recorder
	Log     *zap.Logger
}

type line struct {
	text string
	err  error
}

// Run prints the greeting and converses until a quit command, end of
// input or ctx is done, then prints the farewell.
func (sh *Shell) Run(ctx context.Context) error {
	log := sh.Log
	if log == nil {
		log = zap.NewNop()
	}
	prompt := sh.Prompt
	if prompt == "" {
		prompt = DefaultPrompt
	}
	reply := color.New(color.FgCyan)
	if sh.Color {
		reply.EnableColor()
	} else {
		reply.DisableColor()
	}

	done := make(chan struct{})
	defer close(done)
	lines := make(chan line)
	go func() {
		r := bufio.NewReader(sh.In)
		for {
			text, err := r.ReadString('\n')
			select {
			case lines <- line{text: text, err: err}:
			case <-done:
				return
			}
			if err != nil {
				return
			}
		}
	}()

	reply.Fprintln(sh.Out, sh.Session.Greeting())
	for {
		fmt.Fprint(sh.Out, prompt)

		var l line
		select {
		case <-ctx.Done():
			fmt.Fprintln(sh.Out)
			reply.Fprintln(sh.Out, sh.Session.Farewell())
			return nil
		case l = <-lines:
		}
		if l.err != nil && !errors.Is(l.err, io.EOF) {
			return fmt.Errorf("read input: %w", l.err)
		}

		input := strings.TrimSpace(l.text)
		if quitCommands[strings.ToLower(input)] {
			reply.Fprintln(sh.Out, sh.Session.Farewell())
			return nil
		}
		if input != "" {
			sh.turn(ctx, log, reply, input)
		}
		if l.err != nil {
			fmt.Fprintln(sh.Out)
			reply.Fprintln(sh.Out, sh.Session.Farewell())
			return nil
		}
	}
}

func (sh *Shell) turn(ctx context.Context, log *zap.Logger, out *color.Color, input string) {
	r := sh.Session.Respond(input)
	out.Fprintln(sh.Out, strings.ToUpper(r.Text))
	log.Debug("turn",
		zap.String("source", string(r.Source)),
		zap.String("keyword", r.Keyword))

	if sh.Record == nil {
		return
	}
	if err := sh.Record(ctx, input, r, sh.Session.Snapshot()); err != nil {
		log.Warn("record turn", zap.Error(err))
	}
}

// ColorEnabled resolves a color mode of auto, always or never for f.
func ColorEnabled(mode string, f *os.File) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	if f == nil || os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
