package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjack/internal/client"
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/server"
	"github.com/lox/blackjack/internal/simulator"
)

// BotCmd plays a dealer session on a running server with a fixed strategy
type BotCmd struct {
	Server   string `default:"http://localhost:8080" help:"Server URL"`
	Rounds   int    `default:"10" help:"Rounds to play before leaving"`
	Bet      int    `default:"10" help:"Stake per round"`
	Strategy string `default:"basic" enum:"basic,mimic,stand" help:"Player strategy: basic, mimic, stand"`
}

func (c *BotCmd) Run(g *Globals) error {
	logger, closeLog, err := newLogger(g, log.InfoLevel, os.Stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	strategy, err := simulator.ParseStrategy(c.Strategy)
	if err != nil {
		return err
	}
	api, err := client.New(c.Server, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sess, err := api.CreateSession(ctx, "dealer")
	if err != nil {
		return fmt.Errorf("failed to open a table: %w", err)
	}
	defer func() {
		if err := api.Delete(context.Background(), sess.ID); err != nil {
			logger.Warn("Failed to close session", "id", sess.ID, "error", err)
		}
	}()

	stream, err := api.Dial(ctx, sess.ID)
	if err != nil {
		return err
	}
	defer stream.Close()

	view, err := playRemote(ctx, stream, strategy, c.Rounds, c.Bet, logger)
	if err != nil {
		return err
	}
	w, l, p := tally(view.History)
	fmt.Printf("Played %d rounds with %s strategy. Balance %d (W %d  L %d  P %d in the last %d)\n",
		view.Round, strategy.Name(), view.Balance, w, l, p, len(view.History))
	return nil
}

// playRemote plays up to rounds rounds over the stream and returns the final
// view. It stops early when the balance no longer covers the bet.
func playRemote(ctx context.Context, stream *client.Stream, strategy simulator.Strategy, rounds, bet int, logger *log.Logger) (game.View, error) {
	var view game.View
	if err := stream.View(ctx, &view); err != nil {
		return view, err
	}

	for range rounds {
		if err := stream.Act(ctx, game.ActionStart, bet, &view); err != nil {
			if client.IsCode(err, server.CodeInvalidBet) {
				logger.Warn("Balance too low to continue", "balance", view.Balance, "bet", bet)
				break
			}
			return view, err
		}

		for !view.Finished {
			player, err := deck.ParseCards(strings.Join(view.Player.Cards, " "))
			if err != nil {
				return view, err
			}
			up, err := deck.ParseCard(view.Dealer.Cards[0])
			if err != nil {
				return view, err
			}
			action := strategy.Decide(game.NewHand(player...), up, view.CanDouble)
			if err := stream.Act(ctx, action, 0, &view); err != nil {
				return view, err
			}
		}

		logger.Info("Round played", "round", view.Round, "result", view.Result,
			"player", view.Player.Score, "dealer", view.Dealer.Score, "balance", view.Balance)
	}
	return view, nil
}

func tally(history []game.HistoryEntry) (w, l, p int) {
	for _, h := range history {
		switch h.Result {
		case game.Win:
			w++
		case game.Loss:
			l++
		case game.Push:
			p++
		}
	}
	return w, l, p
}
