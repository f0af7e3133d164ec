package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/simulator"
	"github.com/lox/blackjack/internal/statistics"
)

// SimulateCmd estimates a strategy's return under the configured house rules
type SimulateCmd struct {
	Rounds   int    `default:"100000" help:"Number of rounds to simulate"`
	Strategy string `default:"basic" enum:"basic,mimic,stand" help:"Player strategy: basic, mimic, stand"`
	Workers  int    `help:"Parallel tables, defaults to the CPU count"`
}

func (c *SimulateCmd) Run(g *Globals) error {
	cfg, err := loadConfig(g)
	if err != nil {
		return err
	}

	logger, closeLog, err := newLogger(g, log.WarnLevel, os.Stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	strategy, err := simulator.ParseStrategy(c.Strategy)
	if err != nil {
		return err
	}
	workers := c.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	seed := randutil.Seed(g.Seed)
	fmt.Printf("Starting simulation: %d rounds with %s strategy (seed: %d, workers: %d)\n",
		c.Rounds, strategy.Name(), seed, workers)

	start := time.Now()
	stats, err := simulator.Run(ctx, simulator.Config{
		Rounds:   c.Rounds,
		Strategy: strategy,
		Seed:     seed,
		Workers:  workers,
		Options:  cfg.Table.GameOptions(),
		Logger:   logger,
	})
	if err != nil {
		return err
	}
	printResults(os.Stdout, stats, strategy.Name(), time.Since(start))
	return nil
}

func printResults(w io.Writer, stats *statistics.Statistics, strategy string, duration time.Duration) {
	low, high := stats.ConfidenceInterval95()
	pct := func(n int) float64 { return stats.Rate(n) * 100 }

	fmt.Fprintf(w, "\n=== RESULTS for %s strategy ===\n", strategy)
	fmt.Fprintf(w, "Rounds played: %d\n", stats.Rounds)
	fmt.Fprintf(w, "Total time: %v\n", duration.Round(time.Millisecond))
	if secs := duration.Seconds(); secs > 0 {
		fmt.Fprintf(w, "Performance: %.0f rounds/sec\n", float64(stats.Rounds)/secs)
	}

	fmt.Fprintf(w, "\n=== RETURN PER UNIT BET ===\n")
	fmt.Fprintf(w, "Mean: %+.4f\n", stats.Mean())
	fmt.Fprintf(w, "Std Dev: %.4f\n", stats.StdDev())
	fmt.Fprintf(w, "Std Error: %.4f\n", stats.StdError())
	fmt.Fprintf(w, "95%% CI: [%+.4f, %+.4f]\n", low, high)

	fmt.Fprintf(w, "\n=== OUTCOMES ===\n")
	fmt.Fprintf(w, "Wins: %d (%.1f%%)  Losses: %d (%.1f%%)  Pushes: %d (%.1f%%)\n",
		stats.Wins, pct(stats.Wins), stats.Losses, pct(stats.Losses), stats.Pushes, pct(stats.Pushes))
	fmt.Fprintf(w, "Naturals: %.1f%%  Player busts: %.1f%%  Dealer busts: %.1f%%\n",
		pct(stats.Naturals), pct(stats.PlayerBusts), pct(stats.DealerBusts))
	if stats.Doubles > 0 {
		fmt.Fprintf(w, "Doubles: %d (%.1f%%), %+.3f units per double\n",
			stats.Doubles, pct(stats.Doubles), stats.DoubledNet/float64(stats.Doubles))
	}
}
