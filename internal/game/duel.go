package game

import (
	"fmt"
	"math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjack/internal/deck"
)

// Duel is the two-player variant: two hands from one shoe, no dealer and
// no money. Player 1 always acts first. Results and history are recorded
// from player 1's point of view.
type Duel struct {
	deck   *deck.Deck
	logger *log.Logger

	reshuffleThreshold int
	names              [2]string

	hands   [2]*Hand
	turn    int
	state   State
	result  Result
	message string
	round   int
	history *History
}

// NewDuel creates a two-player table. Money-related options are ignored.
func NewDuel(rng *rand.Rand, opts ...Option) (*Duel, error) {
	if rng == nil {
		panic("rng is required for duel creation")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	shoe := cfg.deck
	if shoe == nil {
		var err error
		if shoe, err = deck.New(rng, cfg.deckCount); err != nil {
			return nil, err
		}
	}

	return &Duel{
		deck:               shoe,
		logger:             cfg.logger.WithPrefix("duel"),
		reshuffleThreshold: cfg.reshuffleThreshold,
		names:              cfg.playerNames,
		hands:              [2]*Hand{NewHand(), NewHand()},
		state:              Betting,
		message:            "Deal to start.",
		history:            NewHistory(cfg.historySize),
	}, nil
}

// StartRound deals two cards to each player and gives player 1 the turn.
func (d *Duel) StartRound() error {
	if d.state == PlayerTurn {
		return ErrRoundInProgress
	}

	if d.deck.EnsureCapacity(d.reshuffleThreshold) {
		d.logger.Debug("Shoe running low, replaced", "threshold", d.reshuffleThreshold)
	}

	d.hands = [2]*Hand{NewHand(), NewHand()}
	for i := range d.hands {
		d.hands[i].Add(d.deck.Draw())
		d.hands[i].Add(d.deck.Draw())
	}
	d.turn = 0
	d.result = NoResult
	d.round++
	d.state = PlayerTurn
	d.message = fmt.Sprintf("%s to act.", d.names[0])

	d.logger.Debug("Round started", "round", d.round, "first", d.hands[0].String(), "second", d.hands[1].String())
	return nil
}

// Hit draws a card for the player holding the turn. Busting passes the
// turn on, or ends the round on player 2's turn.
func (d *Duel) Hit() bool {
	if d.state != PlayerTurn {
		return false
	}
	hand := d.hands[d.turn]
	hand.Add(d.deck.Draw())
	if hand.IsBust() {
		d.advance()
	}
	return true
}

// Stand passes the turn on, or ends the round on player 2's turn.
func (d *Duel) Stand() bool {
	if d.state != PlayerTurn {
		return false
	}
	d.advance()
	return true
}

func (d *Duel) advance() {
	if d.turn == 0 {
		d.turn = 1
		d.message = fmt.Sprintf("%s to act.", d.names[1])
		return
	}
	d.resolve()
}

func (d *Duel) resolve() {
	first, second := d.hands[0], d.hands[1]
	s1, s2 := first.Score(), second.Score()

	switch {
	case first.IsBust() && second.IsBust():
		d.result = Push
		d.message = "Both bust. Push."
	case first.IsBust():
		d.result = Loss
		d.message = fmt.Sprintf("%s busts. %s wins.", d.names[0], d.names[1])
	case second.IsBust():
		d.result = Win
		d.message = fmt.Sprintf("%s busts. %s wins.", d.names[1], d.names[0])
	case s1 > s2:
		d.result = Win
		d.message = fmt.Sprintf("%s wins %d to %d.", d.names[0], s1, s2)
	case s1 < s2:
		d.result = Loss
		d.message = fmt.Sprintf("%s wins %d to %d.", d.names[1], s2, s1)
	default:
		d.result = Push
		d.message = fmt.Sprintf("Push at %d.", s1)
	}

	d.history.Add(HistoryEntry{
		Round:       d.round,
		Result:      d.result,
		PlayerScore: s1,
		DealerScore: s2,
		DealerName:  d.names[1],
	})
	d.state = Settled
	d.logger.Info("Round settled", "round", d.round, "result", d.result, "first", s1, "second", s2)
}

// Apply performs start, hit or stand. Other tokens are rejected.
func (d *Duel) Apply(action Action) error {
	switch action {
	case ActionStart:
		return d.StartRound()
	case ActionHit:
		d.Hit()
	case ActionStand:
		d.Stand()
	default:
		return fmt.Errorf("%w: %q not available in a duel", ErrUnknownAction, action)
	}
	return nil
}

// Turn returns the seat to act (0 or 1), or -1 outside a round
func (d *Duel) Turn() int {
	if d.state != PlayerTurn {
		return -1
	}
	return d.turn
}

// Hand returns a copy of seat i's hand
func (d *Duel) Hand(i int) *Hand { return d.hands[i].Clone() }

// Name returns the display name of seat i
func (d *Duel) Name(i int) string { return d.names[i] }

func (d *Duel) State() State { return d.state }
func (d *Duel) Finished() bool { return d.state != PlayerTurn }
func (d *Duel) Result() Result { return d.result }
func (d *Duel) Message() string { return d.message }
func (d *Duel) Round() int { return d.round }
func (d *Duel) History() []HistoryEntry { return d.history.Entries() }
func (d *Duel) Tally() (w, l, p int) { return d.history.Tally() }

// SeatView is one player's part of a DuelView
type SeatView struct {
	Name string   `json:"name"`
	Hand HandView `json:"hand"`
}

// DuelView is the read-only snapshot of a Duel
type DuelView struct {
	State    string         `json:"state"`
	Finished bool           `json:"finished"`
	Round    int            `json:"round"`
	Turn     int            `json:"turn"` // 1 or 2, 0 outside a round
	Seats    [2]SeatView    `json:"seats"`
	Message  string         `json:"message"`
	Result   Result         `json:"result"`
	History  []HistoryEntry `json:"history"`
}

// View returns a snapshot of the duel
func (d *Duel) View() DuelView {
	v := DuelView{
		State:    d.state.String(),
		Finished: d.Finished(),
		Round:    d.round,
		Turn:     d.Turn() + 1,
		Message:  d.message,
		Result:   d.result,
		History:  d.history.Entries(),
	}
	for i := range d.hands {
		v.Seats[i] = SeatView{Name: d.names[i], Hand: viewHand(d.hands[i])}
	}
	return v
}
