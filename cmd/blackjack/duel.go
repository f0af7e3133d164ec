package main

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/tui"
)

// DuelCmd runs the two-player variant in the terminal
type DuelCmd struct {
	First      string `default:"Player 1" help:"Name of the player who acts first"`
	Second     string `default:"Player 2" help:"Name of the player who acts second"`
	HistoryOut string `type:"path" help:"Write the round history as JSON on exit"`
}

func (c *DuelCmd) Run(g *Globals) error {
	cfg, err := loadConfig(g)
	if err != nil {
		return err
	}

	logger, closeLog, err := newLogger(g, cfg.Server.Level(), io.Discard)
	if err != nil {
		return err
	}
	defer closeLog()

	seed := randutil.Seed(g.Seed)
	logger.Info("Opening duel", "seed", seed, "first", c.First, "second", c.Second)

	opts := append(cfg.Table.GameOptions(),
		game.WithPlayerNames(c.First, c.Second),
		game.WithLogger(logger))
	duel, err := game.NewDuel(randutil.New(seed), opts...)
	if err != nil {
		return err
	}

	model := tui.NewDuelModel(duel, logger)
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("terminal UI failed: %w", err)
	}
	return writeHistory(c.HistoryOut, model.History(), logger)
}
