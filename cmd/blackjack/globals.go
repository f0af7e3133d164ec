package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjack/internal/config"
	"github.com/lox/blackjack/internal/fileutil"
	"github.com/lox/blackjack/internal/game"
)

// Globals are flags shared by every subcommand
type Globals struct {
	Config  string `short:"c" default:"blackjack.hcl" type:"path" help:"HCL config file, defaults are used when it is missing"`
	EnvFile string `default:".env" type:"path" help:"Env file loaded before applying BLACKJACK_* overrides"`
	Seed    int64  `help:"RNG seed for reproducible shuffles, 0 picks one from the clock"`
	LogFile string `type:"path" help:"Append logs to this file"`
}

// loadConfig reads the env file, the HCL file and the environment, in that
// order, and validates the result.
func loadConfig(g *Globals) (*config.Config, error) {
	if err := config.LoadDotEnv(g.EnvFile); err != nil {
		return nil, err
	}
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newLogger writes to the log file when one is set, otherwise to fallback.
// The returned func closes the file.
func newLogger(g *Globals, level log.Level, fallback io.Writer) (*log.Logger, func(), error) {
	out, closeFn := fallback, func() {}
	if g.LogFile != "" {
		f, err := os.OpenFile(g.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		out = f
		closeFn = func() {
			if err := f.Close(); err != nil {
				log.Error("Failed to close log file", "error", err)
			}
		}
	}

	logger := log.NewWithOptions(out, log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
	})
	return logger, closeFn, nil
}

// writeHistory exports the settled rounds when path is set
func writeHistory(path string, history []game.HistoryEntry, logger *log.Logger) error {
	if path == "" {
		return nil
	}
	if history == nil {
		history = []game.HistoryEntry{}
	}
	if err := fileutil.WriteJSONAtomic(path, history); err != nil {
		return err
	}
	logger.Info("Wrote round history", "path", path, "rounds", len(history))
	return nil
}
