// Package simulator plays many rounds against the dealer with a fixed
// strategy to estimate the player's expected return.
package simulator

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/statistics"
	"golang.org/x/sync/errgroup"
)

// UnitBet is the stake of every simulated round. It is even so a 3:2
// payout is exact.
const UnitBet = 100

// Config holds configuration for running simulations
type Config struct {
	Rounds   int
	Strategy Strategy
	Seed     int64
	Workers  int           // independent tables, each with its own shoe
	Options  []game.Option // house rules
	Logger   *log.Logger
}

// Run plays cfg.Rounds rounds split across the workers. The same seed and
// worker count always give the same statistics.
func Run(ctx context.Context, cfg Config) (*statistics.Statistics, error) {
	if cfg.Rounds <= 0 {
		return nil, fmt.Errorf("rounds must be positive: %d", cfg.Rounds)
	}
	if cfg.Strategy == nil {
		return nil, fmt.Errorf("a strategy is required")
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	cfg.Workers = min(cfg.Workers, cfg.Rounds)
	if cfg.Logger == nil {
		cfg.Logger = log.NewWithOptions(io.Discard, log.Options{Level: log.WarnLevel})
	}
	logger := cfg.Logger.WithPrefix("sim")

	results := make([]*statistics.Statistics, cfg.Workers)
	grp, ctx := errgroup.WithContext(ctx)
	for w := range cfg.Workers {
		rounds := cfg.Rounds / cfg.Workers
		if w < cfg.Rounds%cfg.Workers {
			rounds++
		}
		grp.Go(func() error {
			stats, err := runTable(ctx, cfg, cfg.Seed+int64(w), rounds)
			if err != nil {
				return fmt.Errorf("table %d: %w", w, err)
			}
			results[w] = stats
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, err
	}

	// Merge in worker order so float sums are reproducible
	stats := &statistics.Statistics{}
	for _, r := range results {
		stats.Merge(r)
	}
	if err := stats.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}

	logger.Debug("Simulation finished", "rounds", stats.Rounds, "mean", stats.Mean(), "strategy", cfg.Strategy.Name())
	return stats, nil
}

func runTable(ctx context.Context, cfg Config, seed int64, rounds int) (*statistics.Statistics, error) {
	// Enough bankroll that no sequence of losses can stop the table
	bankroll := 2 * UnitBet * (rounds + 1)
	opts := append(append([]game.Option{}, cfg.Options...),
		game.WithStartingBalance(bankroll),
		game.WithLogger(cfg.Logger))

	g, err := game.New(randutil.New(seed), opts...)
	if err != nil {
		return nil, err
	}

	stats := &statistics.Statistics{}
	for i := range rounds {
		if i%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		result, err := PlayRound(g, cfg.Strategy)
		if err != nil {
			return nil, fmt.Errorf("round %d: %w", i+1, err)
		}
		stats.Add(result)
	}
	return stats, nil
}

// PlayRound plays one UnitBet round on g with the strategy and reports the
// outcome. g must be between rounds.
func PlayRound(g *game.Game, strategy Strategy) (statistics.RoundResult, error) {
	before := g.Balance()
	if err := g.StartRound(UnitBet); err != nil {
		return statistics.RoundResult{}, err
	}

	up := g.Dealer().Cards()[0]
	natural := g.Player().IsBlackjack()
	doubled := false

	for !g.Finished() {
		action := strategy.Decide(g.Player(), up, g.CanDouble())
		if action == game.ActionDouble && !g.CanDouble() {
			action = game.ActionHit
		}
		if action != game.ActionHit && action != game.ActionDouble {
			action = game.ActionStand
		}
		if err := g.Apply(action, 0); err != nil {
			return statistics.RoundResult{}, err
		}
		doubled = doubled || action == game.ActionDouble
	}

	return statistics.RoundResult{
		Net:        float64(g.Balance()-before) / UnitBet,
		Result:     g.Result(),
		Natural:    natural,
		Doubled:    doubled,
		PlayerBust: g.Player().IsBust(),
		DealerBust: g.Dealer().IsBust(),
	}, nil
}
