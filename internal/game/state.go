package game

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidBet is returned when a bet is not positive or exceeds the balance.
	ErrInvalidBet = errors.New("invalid bet")
	// ErrRoundInProgress is returned when a round is started before the
	// previous one has been settled.
	ErrRoundInProgress = errors.New("round in progress")
	// ErrUnknownAction is returned for action tokens the table does not accept.
	ErrUnknownAction = errors.New("unknown action")
)

// State is the phase of the current round
type State int

const (
	Betting State = iota
	PlayerTurn
	DealerTurn
	Settled
)

// String returns the string representation of a state
func (s State) String() string {
	switch s {
	case Betting:
		return "betting"
	case PlayerTurn:
		return "player_turn"
	case DealerTurn:
		return "dealer_turn"
	case Settled:
		return "settled"
	default:
		return "unknown"
	}
}

// Result is the outcome of a settled round from the player's point of view
type Result string

const (
	NoResult Result = ""
	Win      Result = "win"
	Loss     Result = "loss"
	Push     Result = "push"
)

// Action is a request token from the presentation layer
type Action string

const (
	ActionStart        Action = "start"
	ActionHit          Action = "hit"
	ActionStand        Action = "stand"
	ActionDouble       Action = "double"
	ActionResetBalance Action = "reset-balance"
)

// ParseAction converts a token such as "hit" or "reset-balance" to an Action.
func ParseAction(s string) (Action, error) {
	switch a := Action(strings.ToLower(strings.TrimSpace(s))); a {
	case ActionStart, ActionHit, ActionStand, ActionDouble, ActionResetBalance:
		return a, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownAction, s)
	}
}
