package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/rcliao/eliza/internal/engine"
	"github.com/rcliao/eliza/internal/model"
	"github.com/rcliao/eliza/internal/shell"
	"github.com/rcliao/eliza/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive conversation",
		Long: `Start an interactive conversation. With --session the transcript, memory
and reply rotation are saved and the conversation resumes next time.
Type quit, exit or bye to end it.`,
		Args: cobra.NoArgs,
		Run:  runChat,
	}

	cmd.Flags().String("session", "", "Name of a session to save and resume")
	cmd.Flags().String("color", "auto", "Colour replies: auto, always or never")
	_ = viper.BindPFlag("color", cmd.Flags().Lookup("color"))

	RootCmd.AddCommand(cmd)
}

func runChat(cmd *cobra.Command, args []string) {
	name, _ := cmd.Flags().GetString("session")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	sh := &shell.Shell{
		In:    cmd.InOrStdin(),
		Out:   cmd.OutOrStdout(),
		Color: shell.ColorEnabled(cfg.Color, os.Stdout),
		Log:   logger,
	}

	if name == "" {
		e, err := buildEngine(scriptRef())
		if err != nil {
			exitErr("load script", err)
		}
		sh.Session = engine.NewSession(e, nil)
	} else {
		s, err := openStore()
		if err != nil {
			exitErr("open store", err)
		}
		defer s.Close()

		sess, stored, err := resumeSession(ctx, s, name)
		if err != nil {
			exitErr("resume session", err)
		}
		sh.Session = sess
		sh.Record = recordTo(s, stored.ID)
		logger.Debug("session resumed", zap.String("session", stored.Name), zap.Int("turns", stored.Turns))
	}

	if err := sh.Run(ctx); err != nil {
		exitErr("chat", err)
	}
}

// resumeSession opens (or creates) the named session and rebuilds its
// conversation with the script it was started with.
func resumeSession(ctx context.Context, s store.Store, name string) (*engine.Session, *model.Session, error) {
	stored, err := s.Open(ctx, store.OpenParams{Name: name, Script: scriptRef()})
	if err != nil {
		return nil, nil, err
	}
	if stored.Script != scriptRef() {
		logger.Warn("session uses a different script",
			zap.String("session", stored.Name),
			zap.String("script", stored.Script))
	}
	e, err := buildEngine(stored.Script)
	if err != nil {
		return nil, nil, err
	}
	st, err := decodeState(stored.State)
	if err != nil {
		return nil, nil, fmt.Errorf("session %s: %w", stored.Name, err)
	}
	return engine.NewSession(e, st), stored, nil
}

func decodeState(raw json.RawMessage) (*engine.State, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	st := engine.NewState()
	if err := json.Unmarshal(raw, st); err != nil {
		return nil, fmt.Errorf("decode state: %w", err)
	}
	return st, nil
}

// recordTo saves each turn and the state after it to the session.
func recordTo(s store.Store, sessionID string) shell.Recorder {
	return func(ctx context.Context, input string, r engine.Response, st *engine.State) error {
		raw, err := json.Marshal(st)
		if err != nil {
			return fmt.Errorf("encode state: %w", err)
		}
		_, err = s.SaveTurn(context.WithoutCancel(ctx), store.TurnParams{
			SessionID: sessionID,
			Input:     input,
			Response:  r.Text,
			Source:    string(r.Source),
			Keyword:   r.Keyword,
			State:     raw,
		})
		return err
	}
}
