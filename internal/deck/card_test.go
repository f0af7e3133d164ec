package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCards(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		input    string
		expected []Card
		wantErr  bool
	}{
		{
			name:  "natural",
			input: "As Kd",
			expected: []Card{
				{Rank: Ace, Suit: Spades},
				{Rank: King, Suit: Diamonds},
			},
		},
		{
			name:  "ten spellings",
			input: "Th 10c",
			expected: []Card{
				{Rank: Ten, Suit: Hearts},
				{Rank: Ten, Suit: Clubs},
			},
		},
		{
			name:  "case insensitive",
			input: "aS qH 7D",
			expected: []Card{
				{Rank: Ace, Suit: Spades},
				{Rank: Queen, Suit: Hearts},
				{Rank: Seven, Suit: Diamonds},
			},
		},
		{
			name:  "suit symbols",
			input: "A♠ 10♥ Q♦ 2♣",
			expected: []Card{
				{Rank: Ace, Suit: Spades},
				{Rank: Ten, Suit: Hearts},
				{Rank: Queen, Suit: Diamonds},
				{Rank: Two, Suit: Clubs},
			},
		},
		{
			name:    "hidden card",
			input:   "??",
			wantErr: true,
		},
		{
			name:    "invalid rank",
			input:   "Xs",
			wantErr: true,
		},
		{
			name:    "invalid suit",
			input:   "Ax",
			wantErr: true,
		},
		{
			name:    "one is not a rank",
			input:   "1s",
			wantErr: true,
		},
		{
			name:     "empty string",
			input:    "",
			expected: []Card{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseCards(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestMustParseCardsPanics(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []Card{{Rank: Two, Suit: Clubs}}, MustParseCards("2c"))
	assert.Panics(t, func() { MustParseCards("invalid") })
}

func TestCardValue(t *testing.T) {
	t.Parallel()
	tests := []struct {
		rank Rank
		want int
	}{
		{Ace, 11},
		{Two, 2},
		{Nine, 9},
		{Ten, 10},
		{Jack, 10},
		{Queen, 10},
		{King, 10},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NewCard(tt.rank, Hearts).Value(), tt.rank.String())
	}
}

func TestCardString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "A♠", NewCard(Ace, Spades).String())
	assert.Equal(t, "10♥", NewCard(Ten, Hearts).String())
	assert.Equal(t, "Q♦", NewCard(Queen, Diamonds).String())
	assert.True(t, NewCard(Two, Diamonds).IsRed())
	assert.False(t, NewCard(Two, Clubs).IsRed())
	assert.True(t, NewCard(King, Clubs).IsFaceCard())
	assert.False(t, NewCard(Ace, Clubs).IsFaceCard())
}
