package game

import (
	"slices"
	"strings"

	"github.com/lox/blackjack/internal/deck"
)

// BlackjackScore is the best possible hand total.
const BlackjackScore = 21

// Hand holds a player's or dealer's cards. Card order matters for display
// only; the score is always recomputed from the cards.
type Hand struct {
	cards []deck.Card
}

// NewHand returns a hand holding cards.
func NewHand(cards ...deck.Card) *Hand {
	return &Hand{cards: slices.Clone(cards)}
}

// Add appends a card to the hand
func (h *Hand) Add(c deck.Card) {
	h.cards = append(h.cards, c)
}

// Cards returns a copy of the cards in the hand
func (h *Hand) Cards() []deck.Card {
	return slices.Clone(h.cards)
}

// Len returns the number of cards in the hand
func (h *Hand) Len() int {
	return len(h.cards)
}

// Clone returns an independent copy of the hand
func (h *Hand) Clone() *Hand {
	return NewHand(h.cards...)
}

// total returns the best score and how many Aces are still counted as 11.
func (h *Hand) total() (score, softAces int) {
	for _, c := range h.cards {
		score += c.Value()
		if c.IsAce() {
			softAces++
		}
	}
	for score > BlackjackScore && softAces > 0 {
		score -= 10
		softAces--
	}
	return score, softAces
}

// Score returns the hand total with Aces demoted from 11 to 1 only as far
// as needed to stay at or under 21.
func (h *Hand) Score() int {
	score, _ := h.total()
	return score
}

// IsSoft reports whether an Ace is still being counted as 11.
func (h *Hand) IsSoft() bool {
	_, softAces := h.total()
	return softAces > 0
}

// IsBust reports whether the hand is over 21
func (h *Hand) IsBust() bool {
	return h.Score() > BlackjackScore
}

// IsBlackjack reports a two-card 21. It only means a natural when checked
// on the initial deal.
func (h *Hand) IsBlackjack() bool {
	return len(h.cards) == 2 && h.Score() == BlackjackScore
}

// String renders the cards separated by spaces
func (h *Hand) String() string {
	parts := make([]string, len(h.cards))
	for i, c := range h.cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
