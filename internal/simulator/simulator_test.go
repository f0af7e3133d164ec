package simulator

import (
	"context"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

func stackedGame(t *testing.T, cards string, opts ...game.Option) *game.Game {
	t.Helper()
	rng := randutil.New(1)
	opts = append([]game.Option{
		game.WithDeck(deck.Stacked(rng, deck.MustParseCards(cards)...)),
		game.WithReshuffleThreshold(0),
		game.WithLogger(quietLogger()),
	}, opts...)
	g, err := game.New(rng, opts...)
	require.NoError(t, err)
	return g
}

func TestParseStrategy(t *testing.T) {
	t.Parallel()
	for _, name := range []string{"stand", "mimic", "basic", " Basic "} {
		s, err := ParseStrategy(name)
		require.NoError(t, err, name)
		assert.NotEmpty(t, s.Name())
	}
	_, err := ParseStrategy("martingale")
	assert.ErrorContains(t, err, "basic, mimic, stand")
	assert.Equal(t, []string{"basic", "mimic", "stand"}, Strategies())
}

func TestBasicStrategy(t *testing.T) {
	t.Parallel()
	tests := []struct {
		hand      string
		up        string
		canDouble bool
		want      game.Action
	}{
		{"Ts 6h", "Kd", true, game.ActionHit},
		{"Ts 6h", "6d", true, game.ActionStand},
		{"9s 8h", "Ad", true, game.ActionStand},
		{"Ts 2h", "4d", true, game.ActionStand},
		{"Ts 2h", "3d", true, game.ActionHit},
		{"6s 5h", "Ad", true, game.ActionDouble},
		{"6s 5h", "Ad", false, game.ActionHit},
		{"6s 4h", "9d", true, game.ActionDouble},
		{"6s 4h", "Td", true, game.ActionHit},
		{"5s 4h", "3d", true, game.ActionDouble},
		{"5s 4h", "2d", true, game.ActionHit},
		{"5s 3h", "6d", true, game.ActionHit},
		{"As 7h", "9d", true, game.ActionHit},
		{"As 7h", "7d", true, game.ActionStand},
		{"As 7h", "5d", true, game.ActionDouble},
		{"As 7h", "5d", false, game.ActionStand},
		{"As 2h", "5d", true, game.ActionDouble},
		{"As 2h", "4d", true, game.ActionHit},
		{"As 5h", "4d", true, game.ActionDouble},
		{"As 2h 3d", "4d", false, game.ActionHit},
		{"As 9h", "Td", true, game.ActionStand},
	}

	strategy := basicStrategy{}
	for _, tt := range tests {
		hand := game.NewHand(deck.MustParseCards(tt.hand)...)
		up := deck.MustParseCards(tt.up)[0]
		assert.Equal(t, tt.want, strategy.Decide(hand, up, tt.canDouble), "%s vs %s", tt.hand, tt.up)
	}
}

func TestMimicAndStandStrategies(t *testing.T) {
	t.Parallel()
	up := deck.MustParseCards("Td")[0]

	assert.Equal(t, game.ActionHit, mimicStrategy{}.Decide(game.NewHand(deck.MustParseCards("Ts 6h")...), up, true))
	assert.Equal(t, game.ActionStand, mimicStrategy{}.Decide(game.NewHand(deck.MustParseCards("Ts 7h")...), up, true))
	assert.Equal(t, game.ActionStand, standStrategy{}.Decide(game.NewHand(deck.MustParseCards("2s 3h")...), up, true))
}

func TestPlayRound(t *testing.T) {
	t.Parallel()

	t.Run("push", func(t *testing.T) {
		t.Parallel()
		g := stackedGame(t, "Ts 7h 9d 8c")
		result, err := PlayRound(g, standStrategy{})
		require.NoError(t, err)
		assert.Equal(t, game.Push, result.Result)
		assert.Zero(t, result.Net)
		assert.Equal(t, 500, g.Balance())
	})

	t.Run("double into dealer bust", func(t *testing.T) {
		t.Parallel()
		g := stackedGame(t, "6s 5h 9d 7c Td Kc")
		result, err := PlayRound(g, basicStrategy{})
		require.NoError(t, err)
		assert.Equal(t, game.Win, result.Result)
		assert.Equal(t, 2.0, result.Net)
		assert.True(t, result.Doubled)
		assert.True(t, result.DealerBust)
		assert.False(t, result.PlayerBust)
		assert.Equal(t, 700, g.Balance())
	})

	t.Run("player bust", func(t *testing.T) {
		t.Parallel()
		g := stackedGame(t, "Ts 6h 9d 8c Kd")
		result, err := PlayRound(g, mimicStrategy{})
		require.NoError(t, err)
		assert.Equal(t, game.Loss, result.Result)
		assert.Equal(t, -1.0, result.Net)
		assert.True(t, result.PlayerBust)
		assert.False(t, result.DealerBust)
		assert.Equal(t, 2, g.Dealer().Len())
	})

	t.Run("natural paid three to two", func(t *testing.T) {
		t.Parallel()
		g := stackedGame(t, "As Kh 9d 8c", game.WithPayout(game.PayoutThreeToTwo))
		result, err := PlayRound(g, basicStrategy{})
		require.NoError(t, err)
		assert.True(t, result.Natural)
		assert.Equal(t, game.Win, result.Result)
		assert.Equal(t, 1.5, result.Net)
	})

	t.Run("mid round", func(t *testing.T) {
		t.Parallel()
		g := stackedGame(t, "Ts 6h 9d 8c")
		require.NoError(t, g.StartRound(10))
		_, err := PlayRound(g, standStrategy{})
		assert.ErrorIs(t, err, game.ErrRoundInProgress)
	})
}

func TestRun(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	cfg := Config{Rounds: 2000, Strategy: basicStrategy{}, Seed: 9, Workers: 3, Logger: quietLogger()}
	first, err := Run(ctx, cfg)
	require.NoError(t, err)
	second, err := Run(ctx, cfg)
	require.NoError(t, err)

	assert.Equal(t, 2000, first.Rounds)
	assert.Equal(t, first.Values, second.Values, "same seed and workers replay the same rounds")
	assert.Equal(t, first.Wins, second.Wins)
	require.NoError(t, first.Validate())
}

func TestRunStrategiesDiffer(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	stand, err := Run(ctx, Config{Rounds: 5000, Strategy: standStrategy{}, Seed: 3, Workers: 2})
	require.NoError(t, err)
	basic, err := Run(ctx, Config{Rounds: 5000, Strategy: basicStrategy{}, Seed: 3, Workers: 2})
	require.NoError(t, err)

	assert.Negative(t, stand.Mean())
	assert.Zero(t, stand.PlayerBusts, "standing never busts")
	assert.Zero(t, stand.Doubles)
	assert.Positive(t, basic.Doubles)
	assert.Greater(t, basic.Mean(), stand.Mean())
}

func TestRunErrors(t *testing.T) {
	t.Parallel()

	_, err := Run(context.Background(), Config{Rounds: 0, Strategy: basicStrategy{}})
	assert.Error(t, err)

	_, err = Run(context.Background(), Config{Rounds: 10})
	assert.Error(t, err)

	_, err = Run(context.Background(), Config{Rounds: 10, Strategy: basicStrategy{}, Options: []game.Option{game.WithDeckCount(0)}})
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Run(ctx, Config{Rounds: 10, Strategy: basicStrategy{}})
	assert.ErrorIs(t, err, context.Canceled)
}
