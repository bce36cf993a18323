// Package cli implements the eliza CLI commands.
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/rcliao/eliza/internal/config"
	"github.com/rcliao/eliza/internal/engine"
	"github.com/rcliao/eliza/internal/model"
	"github.com/rcliao/eliza/internal/script"
	"github.com/rcliao/eliza/internal/store"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  = zap.NewNop()
)

// RootCmd is the top-level command. Without a subcommand it starts a chat.
var RootCmd = &cobra.Command{
	Use:   "eliza",
	Short: "ELIZA, the 1966 keyword-and-pattern conversation program",
	Long: `ELIZA converses by matching keywords in what you type against a script
of decomposition patterns and reassembly templates. The DOCTOR script is
built in; load another with --script.

Run without arguments to start an interactive conversation.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(viper.GetViper())
		if err != nil {
			return err
		}
		logger, err = newLogger(cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	Args: cobra.NoArgs,
	Run:  runChat,
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := RootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is .eliza.yaml, then ~/.eliza/config.yaml)")
	flags.StringP("db", "d", "", "Database path (default: $ELIZA_DB or ~/.eliza/sessions.db)")
	flags.StringP("script", "s", "", "Script file (default: built-in DOCTOR)")
	flags.StringP("format", "f", "text", "Output format: json or text")
	flags.String("log-level", "warn", "Log level: debug, info, warn or error")
	flags.BoolP("verbose", "v", false, "Enable debug logging")

	_ = viper.BindPFlag("db", flags.Lookup("db"))
	_ = viper.BindPFlag("script", flags.Lookup("script"))
	_ = viper.BindPFlag("format", flags.Lookup("format"))
	_ = viper.BindPFlag("log_level", flags.Lookup("log-level"))
	_ = viper.BindPFlag("verbose", flags.Lookup("verbose"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if path := findConfig(); path != "" {
		viper.SetConfigFile(path)
	}
	viper.SetConfigType("yaml")

	config.SetDefaults(viper.GetViper())
	viper.SetEnvPrefix(config.EnvPrefix)
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}

// findConfig returns .eliza.yaml in the working directory, else
// ~/.eliza/config.yaml, else "".
func findConfig() string {
	candidates := []string{".eliza.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".eliza", "config.yaml"))
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	return ""
}

func newLogger(c *config.Config) (*zap.Logger, error) {
	lvl, err := c.Level()
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	zc.Encoding = "console"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zc.Sampling = nil
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	return zc.Build()
}

// scriptRef is what a session records as its script: the path in use, or
// model.DefaultScript for the built-in one.
func scriptRef() string {
	if cfg.Script == "" {
		return model.DefaultScript
	}
	return cfg.Script
}

func loadScript(ref string) (*script.Script, error) {
	if ref == model.DefaultScript {
		ref = ""
	}
	return script.LoadOrDefault(ref)
}

func buildEngine(ref string) (*engine.Engine, error) {
	sc, err := loadScript(ref)
	if err != nil {
		return nil, err
	}
	opts := cfg.EngineOptions()
	opts.Logger = logger
	return engine.New(sc, opts)
}

func openStore() (*store.SQLiteStore, error) {
	return store.NewSQLiteStore(cfg.DB)
}

func jsonOutput() bool {
	return cfg.Format == "json"
}

func printJSON(cmd *cobra.Command, v any) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Fprintln(cmd.OutOrStdout(), string(b))
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
