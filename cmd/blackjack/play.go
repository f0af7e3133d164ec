package main

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/tui"
)

// PlayCmd runs the dealer table in the terminal
type PlayCmd struct {
	HistoryOut string `type:"path" help:"Write the round history as JSON on exit"`
}

func (c *PlayCmd) Run(g *Globals) error {
	cfg, err := loadConfig(g)
	if err != nil {
		return err
	}

	// The TUI owns the terminal, so logs go nowhere without --log-file
	logger, closeLog, err := newLogger(g, cfg.Server.Level(), io.Discard)
	if err != nil {
		return err
	}
	defer closeLog()

	seed := randutil.Seed(g.Seed)
	logger.Info("Opening table", "seed", seed, "balance", cfg.Table.StartingBalance, "payout", cfg.Table.BlackjackPayout)

	table, err := game.New(randutil.New(seed), append(cfg.Table.GameOptions(), game.WithLogger(logger))...)
	if err != nil {
		return err
	}

	model := tui.NewGameModel(table, logger)
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("terminal UI failed: %w", err)
	}

	logger.Info("Table closed", "rounds", table.Round(), "balance", table.Balance())
	return writeHistory(c.HistoryOut, model.History(), logger)
}
