package game

import (
	"fmt"
	"math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjack/internal/deck"
)

// Game is the round engine for one player against the dealer.
//
// The stake is escrowed: StartRound removes the bet from the balance and
// ResolveRound credits back 2×bet on a win, bet on a push, nothing on a loss.
type Game struct {
	rng    *rand.Rand
	deck   *deck.Deck
	logger *log.Logger

	startingBalance    int
	reshuffleThreshold int
	hitSoft17          bool
	payout             Payout
	dealerNames        []string

	balance      int
	bet          int
	player       *Hand
	dealer       *Hand
	dealerName   string
	state        State
	dealerPlayed bool
	message      string
	result       Result
	round        int
	history      *History
}

// New creates a table with the given RNG and options. The RNG drives both
// the shuffle and the dealer name and is required.
func New(rng *rand.Rand, opts ...Option) (*Game, error) {
	if rng == nil {
		panic("rng is required for game creation")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.startingBalance < 0 {
		return nil, fmt.Errorf("starting balance must not be negative: %d", cfg.startingBalance)
	}

	shoe := cfg.deck
	if shoe == nil {
		var err error
		if shoe, err = deck.New(rng, cfg.deckCount); err != nil {
			return nil, err
		}
	}

	return &Game{
		rng:                rng,
		deck:               shoe,
		logger:             cfg.logger.WithPrefix("game"),
		startingBalance:    cfg.startingBalance,
		reshuffleThreshold: cfg.reshuffleThreshold,
		hitSoft17:          cfg.hitSoft17,
		payout:             cfg.payout,
		dealerNames:        cfg.dealerNames,
		balance:            cfg.startingBalance,
		player:             NewHand(),
		dealer:             NewHand(),
		state:              Betting,
		message:            "Place your bet.",
		history:            NewHistory(cfg.historySize),
	}, nil
}

// CanBet reports whether amount is a valid stake: positive and covered by
// the balance.
func (g *Game) CanBet(amount int) bool {
	return amount > 0 && amount <= g.balance
}

// StartRound escrows bet and deals two cards each to the player and the
// dealer. Nothing changes when it returns an error.
func (g *Game) StartRound(bet int) error {
	if g.state == PlayerTurn || g.state == DealerTurn {
		return ErrRoundInProgress
	}
	if !g.CanBet(bet) {
		return fmt.Errorf("%w: %d with balance %d", ErrInvalidBet, bet, g.balance)
	}

	g.balance -= bet
	g.bet = bet
	g.player = NewHand()
	g.dealer = NewHand()
	g.dealerPlayed = false
	g.result = NoResult
	g.message = ""

	if g.deck.EnsureCapacity(g.reshuffleThreshold) {
		g.logger.Debug("Shoe running low, replaced", "threshold", g.reshuffleThreshold, "reshuffles", g.deck.Reshuffles())
	}

	g.player.Add(g.deck.Draw())
	g.player.Add(g.deck.Draw())
	g.dealer.Add(g.deck.Draw())
	g.dealer.Add(g.deck.Draw())

	g.dealerName = g.dealerNames[g.rng.IntN(len(g.dealerNames))]
	g.round++
	g.state = PlayerTurn

	g.logger.Debug("Round started",
		"round", g.round,
		"bet", bet,
		"balance", g.balance,
		"player", g.player.String(),
		"dealer", g.dealerName)
	return nil
}

// PlayerHit draws a card for the player. A bust ends the player's turn.
func (g *Game) PlayerHit() bool {
	if g.state != PlayerTurn {
		return false
	}
	g.player.Add(g.deck.Draw())
	if g.player.IsBust() {
		g.message = fmt.Sprintf("Bust with %d.", g.player.Score())
		g.state = DealerTurn
	}
	return true
}

// PlayerStand ends the player's turn
func (g *Game) PlayerStand() bool {
	if g.state != PlayerTurn {
		return false
	}
	g.state = DealerTurn
	return true
}

// CanDouble reports whether PlayerDouble would be accepted: the player
// still holds only the two dealt cards and can cover a second stake.
func (g *Game) CanDouble() bool {
	return g.state == PlayerTurn && g.player.Len() == 2 && g.balance >= g.bet
}

// PlayerDouble doubles the stake, draws exactly one card and ends the turn.
func (g *Game) PlayerDouble() bool {
	if !g.CanDouble() {
		return false
	}
	g.balance -= g.bet
	g.bet *= 2
	g.player.Add(g.deck.Draw())
	g.state = DealerTurn
	g.logger.Debug("Player doubled", "bet", g.bet, "score", g.player.Score())
	return true
}

// dealerShouldHit applies the drawing rule: below 17, or a soft 17 when the
// table hits soft 17.
func (g *Game) dealerShouldHit() bool {
	score := g.dealer.Score()
	if score < DealerStandScore {
		return true
	}
	return score == DealerStandScore && g.hitSoft17 && g.dealer.IsSoft()
}

// DealerTurn plays out the dealer's hand once the player's turn is over.
// The dealer does not draw against a player who has already bust.
func (g *Game) DealerTurn() bool {
	if g.state != DealerTurn || g.dealerPlayed {
		return false
	}
	g.dealerPlayed = true
	if g.player.IsBust() {
		return false
	}
	for g.dealerShouldHit() {
		g.dealer.Add(g.deck.Draw())
	}
	return true
}

// ResolveRound settles the round, credits the balance and records history.
// The dealer's turn is played first if it has not been.
func (g *Game) ResolveRound() bool {
	if g.state != DealerTurn {
		return false
	}
	if !g.dealerPlayed {
		g.DealerTurn()
	}

	playerScore, dealerScore := g.player.Score(), g.dealer.Score()
	credit, natural := 0, false
	threeToTwo := g.payout == PayoutThreeToTwo

	switch {
	case threeToTwo && g.player.IsBlackjack() && !g.dealer.IsBlackjack():
		credit = g.bet + g.bet*3/2
		natural = true
		g.result = Win
		g.message = fmt.Sprintf("Blackjack! %s pays %d.", g.dealerName, credit-g.bet)
	case threeToTwo && g.dealer.IsBlackjack() && !g.player.IsBlackjack():
		g.result = Loss
		g.message = fmt.Sprintf("%s has blackjack.", g.dealerName)
	case g.player.IsBust():
		g.result = Loss
		g.message = fmt.Sprintf("You bust with %d.", playerScore)
	case g.dealer.IsBust():
		credit = 2 * g.bet
		g.result = Win
		g.message = fmt.Sprintf("%s busts with %d. You win!", g.dealerName, dealerScore)
	case playerScore > dealerScore:
		credit = 2 * g.bet
		g.result = Win
		g.message = fmt.Sprintf("You win %d to %d.", playerScore, dealerScore)
	case playerScore < dealerScore:
		g.result = Loss
		g.message = fmt.Sprintf("%s wins %d to %d.", g.dealerName, dealerScore, playerScore)
	default:
		credit = g.bet
		g.result = Push
		g.message = fmt.Sprintf("Push at %d.", playerScore)
	}

	g.balance += credit
	g.history.Add(HistoryEntry{
		Round:       g.round,
		Result:      g.result,
		PlayerScore: playerScore,
		DealerScore: dealerScore,
		Bet:         g.bet,
		Balance:     g.balance,
		DealerName:  g.dealerName,
		Natural:     natural,
	})
	g.state = Settled

	g.logger.Info("Round settled",
		"round", g.round,
		"result", g.result,
		"player", playerScore,
		"dealer", dealerScore,
		"bet", g.bet,
		"balance", g.balance)
	return true
}

// ResetBalance restores the starting balance and zeroes the bet. A round in
// progress is abandoned along with its stake. History is kept.
func (g *Game) ResetBalance() {
	g.balance = g.startingBalance
	g.bet = 0
	g.player = NewHand()
	g.dealer = NewHand()
	g.dealerPlayed = false
	g.result = NoResult
	g.state = Betting
	g.message = fmt.Sprintf("Balance reset to %d.", g.startingBalance)
	g.logger.Debug("Balance reset", "balance", g.balance)
}

// Apply performs an action token. Stand and double also play the dealer
// and settle, as does a hit that busts. Out-of-sequence actions are
// ignored; only start and unknown tokens return errors.
func (g *Game) Apply(action Action, bet int) error {
	switch action {
	case ActionStart:
		return g.StartRound(bet)
	case ActionHit:
		if g.PlayerHit() && g.state == DealerTurn {
			g.ResolveRound()
		}
	case ActionStand:
		if g.PlayerStand() {
			g.ResolveRound()
		}
	case ActionDouble:
		if g.PlayerDouble() {
			g.ResolveRound()
		}
	case ActionResetBalance:
		g.ResetBalance()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
	return nil
}

// Balance returns the balance, excluding any escrowed stake
func (g *Game) Balance() int { return g.balance }

// Bet returns the stake of the current or last round
func (g *Game) Bet() int { return g.bet }

// StartingBalance returns the balance ResetBalance restores
func (g *Game) StartingBalance() int { return g.startingBalance }

// State returns the round phase
func (g *Game) State() State { return g.state }

// Finished reports whether player actions are no longer accepted
func (g *Game) Finished() bool { return g.state != PlayerTurn }

// Message returns the human-readable status of the round
func (g *Game) Message() string { return g.message }

// Result returns the outcome of the last settled round
func (g *Game) Result() Result { return g.result }

// Round returns how many rounds have been dealt
func (g *Game) Round() int { return g.round }

// DealerName returns the dealer for the current round
func (g *Game) DealerName() string { return g.dealerName }

// Player returns a copy of the player's hand
func (g *Game) Player() *Hand { return g.player.Clone() }

// Dealer returns a copy of the dealer's hand
func (g *Game) Dealer() *Hand { return g.dealer.Clone() }

// History returns the settled rounds, newest first
func (g *Game) History() []HistoryEntry { return g.history.Entries() }

// Tally counts wins, losses and pushes in the retained history
func (g *Game) Tally() (wins, losses, pushes int) { return g.history.Tally() }

// CardsRemaining returns the number of cards left in the shoe
func (g *Game) CardsRemaining() int { return g.deck.Remaining() }
