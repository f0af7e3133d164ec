// Package config loads table and server settings from an HCL file, with
// environment overrides for the values most often changed per deployment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/joho/godotenv"
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
)

// Environment variables that override the file
const (
	EnvLogLevel        = "BLACKJACK_LOG_LEVEL"
	EnvPort            = "BLACKJACK_PORT"
	EnvStartingBalance = "BLACKJACK_STARTING_BALANCE"
)

// Config represents the complete configuration
type Config struct {
	Table  *TableConfig  `hcl:"table,block"`
	Server *ServerConfig `hcl:"server,block"`
}

// TableConfig holds the house rules for every table
type TableConfig struct {
	StartingBalance    int      `hcl:"starting_balance,optional"`
	DeckCount          int      `hcl:"deck_count,optional"`
	ReshuffleThreshold *int     `hcl:"reshuffle_threshold,optional"`
	HistorySize        int      `hcl:"history_size,optional"`
	HitSoft17          *bool    `hcl:"hit_soft_17,optional"`
	BlackjackPayout    string   `hcl:"blackjack_payout,optional"`
	DealerNames        []string `hcl:"dealer_names,optional"`
}

// ServerConfig holds the HTTP server settings
type ServerConfig struct {
	Address        string `hcl:"address,optional"`
	Port           int    `hcl:"port,optional"`
	LogLevel       string `hcl:"log_level,optional"`
	SessionIdleTTL string `hcl:"session_idle_ttl,optional"`
	SweepInterval  string `hcl:"sweep_interval,optional"`
}

// Default returns the configuration used when no file exists
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads filename, falling back to defaults when it does not exist.
// Zero values are defaulted but the result is not validated.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var c Config
	if diags := gohcl.DecodeBody(file.Body, nil, &c); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}
	c.applyDefaults()
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.Table == nil {
		c.Table = &TableConfig{}
	}
	if c.Server == nil {
		c.Server = &ServerConfig{}
	}

	t := c.Table
	if t.StartingBalance == 0 {
		t.StartingBalance = game.DefaultStartingBalance
	}
	if t.DeckCount == 0 {
		t.DeckCount = game.DefaultDeckCount
	}
	if t.ReshuffleThreshold == nil {
		threshold := deck.DefaultReshuffleThreshold
		t.ReshuffleThreshold = &threshold
	}
	if t.HistorySize == 0 {
		t.HistorySize = game.DefaultHistorySize
	}
	if t.HitSoft17 == nil {
		hit := game.HitSoft17
		t.HitSoft17 = &hit
	}
	if t.BlackjackPayout == "" {
		t.BlackjackPayout = game.PayoutEvenMoney.String()
	}
	if len(t.DealerNames) == 0 {
		t.DealerNames = game.DefaultDealerNames
	}

	s := c.Server
	if s.Address == "" {
		s.Address = "localhost"
	}
	if s.Port == 0 {
		s.Port = 8080
	}
	if s.LogLevel == "" {
		s.LogLevel = "info"
	}
	if s.SessionIdleTTL == "" {
		s.SessionIdleTTL = "30m"
	}
	if s.SweepInterval == "" {
		s.SweepInterval = "1m"
	}
}

// LoadDotEnv loads variables from .env files into the process environment.
// Missing files are ignored and existing variables are never overwritten.
func LoadDotEnv(paths ...string) error {
	if err := godotenv.Load(paths...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// ApplyEnv overrides settings from the environment. Pass os.LookupEnv
// outside of tests.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Server.LogLevel = v
	}
	if v, ok := lookup(EnvPort); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvPort, err)
		}
		c.Server.Port = port
	}
	if v, ok := lookup(EnvStartingBalance); ok && v != "" {
		balance, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvStartingBalance, err)
		}
		c.Table.StartingBalance = balance
	}
	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	t := c.Table
	if t.StartingBalance < 0 {
		return fmt.Errorf("starting balance must not be negative: %d", t.StartingBalance)
	}
	if t.DeckCount < 1 {
		return fmt.Errorf("deck count must be at least 1: %d", t.DeckCount)
	}
	if *t.ReshuffleThreshold < 0 {
		return fmt.Errorf("reshuffle threshold must not be negative: %d", *t.ReshuffleThreshold)
	}
	if t.HistorySize < 1 {
		return fmt.Errorf("history size must be at least 1: %d", t.HistorySize)
	}
	if _, err := game.ParsePayout(t.BlackjackPayout); err != nil {
		return err
	}
	for _, name := range t.DealerNames {
		if name == "" {
			return fmt.Errorf("dealer names must not be empty")
		}
	}

	s := c.Server
	if s.Port < 1 || s.Port > 65535 {
		return fmt.Errorf("invalid port: %d", s.Port)
	}
	if _, err := log.ParseLevel(s.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q: %w", s.LogLevel, err)
	}
	if d, err := time.ParseDuration(s.SessionIdleTTL); err != nil || d <= 0 {
		return fmt.Errorf("invalid session_idle_ttl %q", s.SessionIdleTTL)
	}
	if d, err := time.ParseDuration(s.SweepInterval); err != nil || d <= 0 {
		return fmt.Errorf("invalid sweep_interval %q", s.SweepInterval)
	}
	return nil
}

// GameOptions converts the table block into engine options. Call Validate
// first; an unparseable payout falls back to even money.
func (t *TableConfig) GameOptions() []game.Option {
	payout, _ := game.ParsePayout(t.BlackjackPayout)
	return []game.Option{
		game.WithStartingBalance(t.StartingBalance),
		game.WithDeckCount(t.DeckCount),
		game.WithReshuffleThreshold(*t.ReshuffleThreshold),
		game.WithHistorySize(t.HistorySize),
		game.WithHitSoft17(*t.HitSoft17),
		game.WithPayout(payout),
		game.WithDealerNames(t.DealerNames...),
	}
}

// Addr returns the listen address
func (s *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Address, s.Port)
}

// Level returns the parsed log level, or info if it does not parse
func (s *ServerConfig) Level() log.Level {
	level, err := log.ParseLevel(s.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// IdleTTL returns how long an untouched session survives
func (s *ServerConfig) IdleTTL() time.Duration {
	d, err := time.ParseDuration(s.SessionIdleTTL)
	if err != nil {
		return 30 * time.Minute
	}
	return d
}

// SweepEvery returns the interval between idle-session sweeps
func (s *ServerConfig) SweepEvery() time.Duration {
	d, err := time.ParseDuration(s.SweepInterval)
	if err != nil {
		return time.Minute
	}
	return d
}
