package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/gzhole/termshield/internal/analyzer"
	"github.com/gzhole/termshield/internal/config"
	"github.com/gzhole/termshield/internal/logger"
	"github.com/gzhole/termshield/internal/patterns"
	"github.com/gzhole/termshield/internal/secrets"
)

var (
	configPath string
	logPath    string
	verbose    bool
	noColor    bool
)

var rootCmd = &cobra.Command{
	Use:   "termshield",
	Short: "TermShield - command risk classifier and secret scanner",
	Long: `TermShield checks commands before they run and text before it leaves
the machine. It classifies shell commands from safe to dangerous, blocking
the dangerous ones, and finds API keys, private keys and other credentials
in command output, clipboard content and AI prompts or responses.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file, YAML or TOML (default: ~/.termshield/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logPath, "log", "", "Path to audit log file (default: ~/.termshield/audit.jsonl)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose diagnostic output on stderr")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable coloured output")
}

// exitError carries a non-zero exit status that is not a failure, such as
// a blocked command or a scan that found secrets.
type exitError struct {
	code int
}

func (e *exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

// Execute runs the CLI and returns the process exit status.
func Execute() int {
	err := rootCmd.Execute()
	var ee *exitError
	if err != nil && !errors.As(err, &ee) {
		fmt.Fprintf(os.Stderr, "termshield: %v\n", err)
	}
	return exitCode(err)
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return 1
}

// engine is the configured classifier and scanner for one invocation.
type engine struct {
	cfg       *config.Config
	lib       *patterns.Library
	packs     []patterns.PackInfo
	validator *analyzer.Validator
	scanner   *secrets.Scanner
}

func loadEngine() (*engine, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if logPath != "" {
		cfg.LogPath = logPath
	}

	lib, packs, err := patterns.LoadPacks(cfg.PacksDir, patterns.Default())
	if err != nil {
		if lib == nil {
			return nil, fmt.Errorf("failed to load packs: %w", err)
		}
		slog.Warn("some pattern packs were skipped", "dir", cfg.PacksDir, "error", err)
	}
	if err := lib.Validate(); err != nil {
		return nil, err
	}
	slog.Debug("patterns loaded", "risk", len(lib.Risk), "secrets", len(lib.Secrets), "packs", len(packs))

	return &engine{
		cfg:       cfg,
		lib:       lib,
		packs:     packs,
		validator: analyzer.New(cfg.Validator, lib),
		scanner:   secrets.New(cfg.Scanner, lib),
	}, nil
}

// audit appends event to the audit log. Logging problems are reported but
// never change the outcome of a command.
func (e *engine) audit(event logger.AuditEvent) {
	lg, err := logger.New(e.cfg.LogPath, e.scanner)
	if err != nil {
		slog.Warn("audit log unavailable", "path", e.cfg.LogPath, "error", err)
		return
	}
	defer func() { _ = lg.Close() }()
	if err := lg.Log(event); err != nil {
		slog.Warn("audit log write failed", "path", e.cfg.LogPath, "error", err)
	}
}
