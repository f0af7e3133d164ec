package deck

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

// DefaultReshuffleThreshold is the remaining-card count below which a shoe
// is thrown away and replaced before a new round is dealt.
const DefaultReshuffleThreshold = 15

// ErrInvalidDeckCount is returned when a shoe is configured with fewer than
// one 52-card set.
var ErrInvalidDeckCount = errors.New("deck count must be positive")

// Deck is a shoe of one or more 52-card sets. Cards are drawn from the end.
//
// A Deck never runs dry: drawing from an empty shoe rebuilds and reshuffles
// it first. Reshuffles counts how often that, or EnsureCapacity, happened.
type Deck struct {
	cards      []Card
	count      int
	rng        *rand.Rand
	reshuffles int
}

// New builds a shuffled shoe of count 52-card sets using rng.
func New(rng *rand.Rand, count int) (*Deck, error) {
	if count <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidDeckCount, count)
	}
	if rng == nil {
		panic("rng is required for deck creation")
	}

	d := &Deck{
		cards: make([]Card, 0, count*52),
		count: count,
		rng:   rng,
	}
	d.fill()
	return d, nil
}

// Stacked returns a shoe whose draws yield cards in the given order. Once
// the stacked cards are used up it refills from rng like any other shoe.
func Stacked(rng *rand.Rand, cards ...Card) *Deck {
	d := &Deck{
		cards: make([]Card, len(cards)),
		count: 1,
		rng:   rng,
	}
	for i, c := range cards {
		d.cards[len(cards)-1-i] = c
	}
	return d
}

func (d *Deck) fill() {
	d.cards = d.cards[:0]
	for range d.count {
		for _, suit := range Suits {
			for _, rank := range Ranks {
				d.cards = append(d.cards, NewCard(rank, suit))
			}
		}
	}
	d.Shuffle()
}

// Shuffle randomizes the order of the remaining cards (Fisher-Yates)
func (d *Deck) Shuffle() {
	for i := len(d.cards) - 1; i > 0; i-- {
		j := d.rng.IntN(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Draw removes and returns the last card of the shoe.
func (d *Deck) Draw() Card {
	if len(d.cards) == 0 {
		d.replace()
	}
	card := d.cards[len(d.cards)-1]
	d.cards = d.cards[:len(d.cards)-1]
	return card
}

// EnsureCapacity replaces the whole shoe with a freshly shuffled one when
// fewer than threshold cards remain. It reports whether it did so.
func (d *Deck) EnsureCapacity(threshold int) bool {
	if len(d.cards) >= threshold {
		return false
	}
	d.replace()
	return true
}

func (d *Deck) replace() {
	if d.rng == nil {
		panic("deck has no rng to rebuild from")
	}
	d.reshuffles++
	d.fill()
}

// Remaining returns the number of cards left in the shoe
func (d *Deck) Remaining() int {
	return len(d.cards)
}

// Size returns the number of cards in a full shoe
func (d *Deck) Size() int {
	return d.count * 52
}

// Reshuffles returns how many times the shoe has been rebuilt
func (d *Deck) Reshuffles() int {
	return d.reshuffles
}
