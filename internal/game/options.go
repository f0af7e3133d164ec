package game

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjack/internal/deck"
)

// House rules and defaults.
const (
	DefaultStartingBalance = 500
	DefaultHistorySize     = 10
	DefaultDeckCount       = 1

	// DealerStandScore is the total at which the dealer stops drawing.
	DealerStandScore = 17
	// HitSoft17 is the default house rule: the dealer draws on a soft 17.
	HitSoft17 = true
)

// DefaultDealerNames is the pool a dealer name is drawn from each round.
var DefaultDealerNames = []string{
	"Ada", "Bruno", "Camille", "Dmitri", "Elena",
	"Farid", "Greta", "Hugo", "Ines", "Jonas",
}

// Payout selects how a natural blackjack is paid.
type Payout int

const (
	// PayoutEvenMoney treats a natural like any other winning hand.
	PayoutEvenMoney Payout = iota
	// PayoutThreeToTwo pays 3:2 on a player natural and lets a dealer
	// natural beat any non-natural player hand.
	PayoutThreeToTwo
)

// String returns the config spelling of a payout
func (p Payout) String() string {
	switch p {
	case PayoutEvenMoney:
		return "even"
	case PayoutThreeToTwo:
		return "3:2"
	default:
		return "unknown"
	}
}

// ParsePayout parses "even" or "3:2".
func ParsePayout(s string) (Payout, error) {
	switch s {
	case "", "even", "1:1":
		return PayoutEvenMoney, nil
	case "3:2":
		return PayoutThreeToTwo, nil
	default:
		return 0, fmt.Errorf("unknown blackjack payout %q", s)
	}
}

// Option configures a Game or Duel during creation.
type Option func(*config)

type config struct {
	startingBalance    int
	deckCount          int
	reshuffleThreshold int
	historySize        int
	hitSoft17          bool
	payout             Payout
	dealerNames        []string
	playerNames        [2]string
	deck               *deck.Deck // If provided, used instead of building a shoe
	logger             *log.Logger
}

func defaultConfig() *config {
	return &config{
		startingBalance:    DefaultStartingBalance,
		deckCount:          DefaultDeckCount,
		reshuffleThreshold: deck.DefaultReshuffleThreshold,
		historySize:        DefaultHistorySize,
		hitSoft17:          HitSoft17,
		payout:             PayoutEvenMoney,
		dealerNames:        DefaultDealerNames,
		playerNames:        [2]string{"Player 1", "Player 2"},
		logger:             log.New(io.Discard),
	}
}

// WithStartingBalance sets the balance a table opens with and resets to.
func WithStartingBalance(balance int) Option {
	return func(c *config) { c.startingBalance = balance }
}

// WithDeckCount sets how many 52-card sets make up the shoe.
func WithDeckCount(n int) Option {
	return func(c *config) { c.deckCount = n }
}

// WithReshuffleThreshold sets the remaining-card count below which the shoe
// is replaced before dealing. Zero disables replacement between rounds.
func WithReshuffleThreshold(n int) Option {
	return func(c *config) { c.reshuffleThreshold = n }
}

// WithHistorySize sets how many settled rounds are kept.
func WithHistorySize(n int) Option {
	return func(c *config) { c.historySize = n }
}

// WithHitSoft17 sets whether the dealer draws on a soft 17.
func WithHitSoft17(hit bool) Option {
	return func(c *config) { c.hitSoft17 = hit }
}

// WithPayout sets the natural blackjack payout policy.
func WithPayout(p Payout) Option {
	return func(c *config) { c.payout = p }
}

// WithDealerNames replaces the dealer name pool. An empty pool is ignored.
func WithDealerNames(names ...string) Option {
	return func(c *config) {
		if len(names) > 0 {
			c.dealerNames = names
		}
	}
}

// WithPlayerNames names the two seats of a Duel.
func WithPlayerNames(first, second string) Option {
	return func(c *config) { c.playerNames = [2]string{first, second} }
}

// WithDeck uses the provided shoe instead of building one from the RNG.
func WithDeck(d *deck.Deck) Option {
	return func(c *config) { c.deck = d }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *log.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}
