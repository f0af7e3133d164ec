// Package session keeps independent tables alive between requests. Each
// session owns one Game or Duel and serialises access to it; sessions idle
// past the TTL are swept.
package session

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/lox/blackjack/internal/game"
)

// Mode selects which table a session runs
type Mode string

const (
	ModeDealer Mode = "dealer"
	ModeDuel   Mode = "duel"
)

var (
	ErrNotFound    = errors.New("session not found")
	ErrUnknownMode = errors.New("unknown session mode")
)

// ParseMode parses a mode name. An empty name selects the dealer table.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeDealer:
		return ModeDealer, nil
	case ModeDuel:
		return ModeDuel, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// Session is one table. Its methods are not safe for concurrent use on
// their own; go through Manager.Do.
type Session struct {
	ID      string
	Mode    Mode
	Created time.Time

	mu       sync.Mutex
	lastSeen time.Time
	game     *game.Game
	duel     *game.Duel
}

// Game returns the dealer table, or nil for a duel
func (s *Session) Game() *game.Game { return s.game }

// Duel returns the two-player table, or nil for a dealer session
func (s *Session) Duel() *game.Duel { return s.duel }

// Apply performs an action on whichever table the session holds. The bet
// is ignored by a duel.
func (s *Session) Apply(action game.Action, bet int) error {
	if s.duel != nil {
		return s.duel.Apply(action)
	}
	return s.game.Apply(action, bet)
}

// View returns a game.View or game.DuelView
func (s *Session) View() any {
	if s.duel != nil {
		return s.duel.View()
	}
	return s.game.View()
}

// Round returns the number of rounds dealt at the table
func (s *Session) Round() int {
	if s.duel != nil {
		return s.duel.Round()
	}
	return s.game.Round()
}

func (s *Session) idle(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}
