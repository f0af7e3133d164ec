package deck

import (
	"errors"
	"testing"

	"github.com/lox/blackjack/internal/randutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDeck(t *testing.T) {
	t.Parallel()

	t.Run("single set holds every card once", func(t *testing.T) {
		t.Parallel()
		d, err := New(randutil.New(1), 1)
		require.NoError(t, err)
		assert.Equal(t, 52, d.Remaining())

		seen := make(map[Card]int)
		for d.Remaining() > 0 {
			seen[d.Draw()]++
		}
		assert.Len(t, seen, 52)
		for card, n := range seen {
			assert.Equal(t, 1, n, card.String())
		}
	})

	t.Run("multiple sets", func(t *testing.T) {
		t.Parallel()
		d, err := New(randutil.New(1), 6)
		require.NoError(t, err)
		assert.Equal(t, 312, d.Remaining())
		assert.Equal(t, 312, d.Size())

		seen := make(map[Card]int)
		for d.Remaining() > 0 {
			seen[d.Draw()]++
		}
		for card, n := range seen {
			assert.Equal(t, 6, n, card.String())
		}
	})

	t.Run("rejects non-positive count", func(t *testing.T) {
		t.Parallel()
		for _, n := range []int{0, -1} {
			d, err := New(randutil.New(1), n)
			assert.Nil(t, d)
			assert.True(t, errors.Is(err, ErrInvalidDeckCount))
		}
	})

	t.Run("same seed same order", func(t *testing.T) {
		t.Parallel()
		a, err := New(randutil.New(42), 1)
		require.NoError(t, err)
		b, err := New(randutil.New(42), 1)
		require.NoError(t, err)
		for range 52 {
			assert.Equal(t, a.Draw(), b.Draw())
		}
	})
}

func TestStackedDrawOrder(t *testing.T) {
	t.Parallel()
	d := Stacked(randutil.New(1), MustParseCards("As Kd 7h")...)
	assert.Equal(t, 3, d.Remaining())
	assert.Equal(t, NewCard(Ace, Spades), d.Draw())
	assert.Equal(t, NewCard(King, Diamonds), d.Draw())
	assert.Equal(t, NewCard(Seven, Hearts), d.Draw())
	assert.Equal(t, 0, d.Remaining())
}

func TestDrawReplenishesEmptyShoe(t *testing.T) {
	t.Parallel()
	d := Stacked(randutil.New(7), MustParseCards("2c")...)
	d.Draw()
	require.Equal(t, 0, d.Remaining())

	d.Draw()
	assert.Equal(t, 51, d.Remaining())
	assert.Equal(t, 1, d.Reshuffles())
}

func TestEnsureCapacity(t *testing.T) {
	t.Parallel()
	d, err := New(randutil.New(3), 1)
	require.NoError(t, err)

	for d.Remaining() > DefaultReshuffleThreshold {
		d.Draw()
	}
	assert.False(t, d.EnsureCapacity(DefaultReshuffleThreshold), "exactly at threshold keeps the shoe")
	assert.Equal(t, DefaultReshuffleThreshold, d.Remaining())

	d.Draw()
	assert.True(t, d.EnsureCapacity(DefaultReshuffleThreshold))
	assert.Equal(t, 52, d.Remaining())
	assert.Equal(t, 1, d.Reshuffles())
}
