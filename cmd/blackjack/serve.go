package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/server"
	"github.com/lox/blackjack/internal/session"
	"golang.org/x/sync/errgroup"
)

// ServeCmd serves tables over HTTP
type ServeCmd struct {
	Port int `help:"Override the configured port"`
}

func (c *ServeCmd) Run(g *Globals) error {
	cfg, err := loadConfig(g)
	if err != nil {
		return err
	}
	if c.Port != 0 {
		cfg.Server.Port = c.Port
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	logger, closeLog, err := newLogger(g, cfg.Server.Level(), os.Stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	seed := randutil.Seed(g.Seed)
	sessions := session.NewManager(
		session.WithLogger(logger),
		session.WithSeed(seed),
		session.WithIdleTTL(cfg.Server.IdleTTL()),
		session.WithGameOptions(cfg.Table.GameOptions()...),
	)
	srv := server.NewServer(cfg.Server.Addr(), sessions, logger)

	logger.Info("Starting blackjack server",
		"addr", cfg.Server.Addr(),
		"seed", seed,
		"idle_ttl", cfg.Server.IdleTTL(),
		"payout", cfg.Table.BlackjackPayout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	grp, ctx := errgroup.WithContext(ctx)
	grp.Go(func() error { return srv.Run(ctx) })
	grp.Go(func() error { return sessions.Run(ctx, cfg.Server.SweepEvery()) })
	return grp.Wait()
}
