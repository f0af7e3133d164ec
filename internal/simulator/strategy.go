package simulator

import (
	"fmt"
	"slices"
	"strings"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
)

// Strategy decides the player's next action from the player's hand and the
// dealer's face-up card.
type Strategy interface {
	Name() string
	Decide(player *game.Hand, up deck.Card, canDouble bool) game.Action
}

var strategies = map[string]Strategy{
	"stand": standStrategy{},
	"mimic": mimicStrategy{},
	"basic": basicStrategy{},
}

// Strategies returns the registered strategy names
func Strategies() []string {
	names := make([]string, 0, len(strategies))
	for name := range strategies {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// ParseStrategy looks up a strategy by name
func ParseStrategy(name string) (Strategy, error) {
	s, ok := strategies[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unknown strategy %q, want one of %s", name, strings.Join(Strategies(), ", "))
	}
	return s, nil
}

// standStrategy never draws
type standStrategy struct{}

func (standStrategy) Name() string { return "stand" }

func (standStrategy) Decide(*game.Hand, deck.Card, bool) game.Action {
	return game.ActionStand
}

// mimicStrategy plays the dealer's rule and ignores the up card
type mimicStrategy struct{}

func (mimicStrategy) Name() string { return "mimic" }

func (mimicStrategy) Decide(player *game.Hand, _ deck.Card, _ bool) game.Action {
	if player.Score() < game.DealerStandScore {
		return game.ActionHit
	}
	return game.ActionStand
}

// basicStrategy is the usual hard and soft total chart without splits
type basicStrategy struct{}

func (basicStrategy) Name() string { return "basic" }

func (basicStrategy) Decide(player *game.Hand, up deck.Card, canDouble bool) game.Action {
	score, dealer := player.Score(), up.Value()
	double := func(otherwise game.Action) game.Action {
		if canDouble {
			return game.ActionDouble
		}
		return otherwise
	}

	if player.IsSoft() {
		switch {
		case score >= 19:
			return game.ActionStand
		case score == 18:
			if dealer >= 3 && dealer <= 6 {
				return double(game.ActionStand)
			}
			if dealer <= 8 {
				return game.ActionStand
			}
			return game.ActionHit
		case score >= 15 && dealer >= 4 && dealer <= 6:
			return double(game.ActionHit)
		case dealer == 5 || dealer == 6:
			return double(game.ActionHit)
		default:
			return game.ActionHit
		}
	}

	switch {
	case score >= 17:
		return game.ActionStand
	case score >= 13:
		if dealer <= 6 {
			return game.ActionStand
		}
		return game.ActionHit
	case score == 12:
		if dealer >= 4 && dealer <= 6 {
			return game.ActionStand
		}
		return game.ActionHit
	case score == 11:
		return double(game.ActionHit)
	case score == 10:
		if dealer <= 9 {
			return double(game.ActionHit)
		}
		return game.ActionHit
	case score == 9:
		if dealer >= 3 && dealer <= 6 {
			return double(game.ActionHit)
		}
		return game.ActionHit
	default:
		return game.ActionHit
	}
}
