package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "blackjack.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func lookupMap(m map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Parallel()
	c, err := Load(filepath.Join(t.TempDir(), "nope.hcl"))
	require.NoError(t, err)
	require.NoError(t, c.Validate())

	assert.Equal(t, game.DefaultStartingBalance, c.Table.StartingBalance)
	assert.Equal(t, 1, c.Table.DeckCount)
	assert.Equal(t, 15, *c.Table.ReshuffleThreshold)
	assert.Equal(t, 10, c.Table.HistorySize)
	assert.True(t, *c.Table.HitSoft17)
	assert.Equal(t, "even", c.Table.BlackjackPayout)
	assert.Equal(t, game.DefaultDealerNames, c.Table.DealerNames)

	assert.Equal(t, "localhost:8080", c.Server.Addr())
	assert.Equal(t, log.InfoLevel, c.Server.Level())
	assert.Equal(t, 30*time.Minute, c.Server.IdleTTL())
	assert.Equal(t, time.Minute, c.Server.SweepEvery())
}

func TestLoadFile(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, `
table {
  starting_balance    = 1000
  deck_count          = 6
  reshuffle_threshold = 0
  hit_soft_17         = false
  blackjack_payout    = "3:2"
  dealer_names        = ["Zoe", "Yann"]
}

server {
  port             = 9090
  log_level        = "debug"
  session_idle_ttl = "5m"
}
`)
	c, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, c.Validate())

	assert.Equal(t, 1000, c.Table.StartingBalance)
	assert.Equal(t, 6, c.Table.DeckCount)
	assert.Equal(t, 0, *c.Table.ReshuffleThreshold, "explicit zero is kept")
	assert.False(t, *c.Table.HitSoft17, "explicit false is kept")
	assert.Equal(t, 10, c.Table.HistorySize)
	assert.Equal(t, []string{"Zoe", "Yann"}, c.Table.DealerNames)

	assert.Equal(t, "localhost:9090", c.Server.Addr())
	assert.Equal(t, log.DebugLevel, c.Server.Level())
	assert.Equal(t, 5*time.Minute, c.Server.IdleTTL())
	assert.Equal(t, time.Minute, c.Server.SweepEvery())
}

func TestLoadOnlyServerBlock(t *testing.T) {
	t.Parallel()
	c, err := Load(writeConfig(t, `server { port = 7000 }`))
	require.NoError(t, err)
	assert.Equal(t, 7000, c.Server.Port)
	assert.Equal(t, game.DefaultStartingBalance, c.Table.StartingBalance)
}

func TestLoadInvalidFile(t *testing.T) {
	t.Parallel()

	_, err := Load(writeConfig(t, `table {`))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, `table { unknown_field = 1 }`))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "negative balance", mutate: func(c *Config) { c.Table.StartingBalance = -1 }},
		{name: "no decks", mutate: func(c *Config) { c.Table.DeckCount = -2 }},
		{name: "negative threshold", mutate: func(c *Config) { n := -1; c.Table.ReshuffleThreshold = &n }},
		{name: "no history", mutate: func(c *Config) { c.Table.HistorySize = -1 }},
		{name: "bad payout", mutate: func(c *Config) { c.Table.BlackjackPayout = "6:5" }},
		{name: "empty dealer name", mutate: func(c *Config) { c.Table.DealerNames = []string{"Ada", ""} }},
		{name: "port out of range", mutate: func(c *Config) { c.Server.Port = 70000 }},
		{name: "bad log level", mutate: func(c *Config) { c.Server.LogLevel = "loud" }},
		{name: "bad ttl", mutate: func(c *Config) { c.Server.SessionIdleTTL = "soon" }},
		{name: "zero sweep", mutate: func(c *Config) { c.Server.SweepInterval = "0s" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := Default()
			tt.mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestApplyEnv(t *testing.T) {
	t.Parallel()

	c := Default()
	require.NoError(t, c.ApplyEnv(lookupMap(map[string]string{
		EnvLogLevel:        "warn",
		EnvPort:            "9999",
		EnvStartingBalance: "250",
	})))
	assert.Equal(t, "warn", c.Server.LogLevel)
	assert.Equal(t, 9999, c.Server.Port)
	assert.Equal(t, 250, c.Table.StartingBalance)

	c = Default()
	require.NoError(t, c.ApplyEnv(lookupMap(map[string]string{EnvPort: ""})))
	assert.Equal(t, 8080, c.Server.Port, "empty values are ignored")

	assert.Error(t, Default().ApplyEnv(lookupMap(map[string]string{EnvPort: "eighty"})))
	assert.Error(t, Default().ApplyEnv(lookupMap(map[string]string{EnvStartingBalance: "lots"})))
}

func TestApplyEnvFromDotEnvFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("BLACKJACK_PORT=8181\nBLACKJACK_LOG_LEVEL=error\n"), 0o644))

	env, err := godotenv.Read(path)
	require.NoError(t, err)

	c := Default()
	require.NoError(t, c.ApplyEnv(lookupMap(env)))
	assert.Equal(t, 8181, c.Server.Port)
	assert.Equal(t, log.ErrorLevel, c.Server.Level())
}

func TestLoadDotEnvMissingFile(t *testing.T) {
	t.Parallel()
	assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), ".env")))
}

func TestGameOptions(t *testing.T) {
	t.Parallel()
	c, err := Load(writeConfig(t, `
table {
  starting_balance = 750
  history_size     = 3
  blackjack_payout = "3:2"
  dealer_names     = ["Zoe"]
}
`))
	require.NoError(t, err)
	require.NoError(t, c.Validate())

	g, err := game.New(randutil.New(1), c.Table.GameOptions()...)
	require.NoError(t, err)
	assert.Equal(t, 750, g.Balance())

	require.NoError(t, g.StartRound(10))
	assert.Equal(t, "Zoe", g.DealerName())
}
