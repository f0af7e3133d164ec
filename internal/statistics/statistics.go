// Package statistics accumulates simulated round outcomes, measured in units
// of the initial bet.
package statistics

import (
	"fmt"
	"math"
	"sort"

	"github.com/lox/blackjack/internal/game"
)

// RoundResult is the outcome of one simulated round
type RoundResult struct {
	Net        float64 // net units of the initial bet, e.g. -1, 0, 1, 1.5, ±2
	Result     game.Result
	Natural    bool // player was dealt 21 in two cards
	Doubled    bool
	PlayerBust bool
	DealerBust bool
}

// Statistics tracks simulation results
type Statistics struct {
	Rounds int
	SumNet float64
	SumSq  float64   // sum of squares for the variance
	Values []float64 // every net result, for median and percentiles

	Wins   int
	Losses int
	Pushes int

	Naturals    int
	Doubles     int
	DoubledNet  float64 // net units won on doubled rounds
	PlayerBusts int
	DealerBusts int
}

// Mean returns the average net units per round. A negative mean is the
// house edge.
func (s *Statistics) Mean() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.SumNet / float64(s.Rounds)
}

// Variance returns the sample variance
func (s *Statistics) Variance() float64 {
	if s.Rounds < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumSq - float64(s.Rounds)*mean*mean) / float64(s.Rounds-1)
}

func (s *Statistics) StdDev() float64 { return math.Sqrt(s.Variance()) }

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Rounds))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Add records one round
func (s *Statistics) Add(r RoundResult) {
	s.Rounds++
	s.SumNet += r.Net
	s.SumSq += r.Net * r.Net
	s.Values = append(s.Values, r.Net)

	switch r.Result {
	case game.Win:
		s.Wins++
	case game.Loss:
		s.Losses++
	case game.Push:
		s.Pushes++
	}

	if r.Natural {
		s.Naturals++
	}
	if r.Doubled {
		s.Doubles++
		s.DoubledNet += r.Net
	}
	if r.PlayerBust {
		s.PlayerBusts++
	}
	if r.DealerBust {
		s.DealerBusts++
	}
}

// Merge folds other into s
func (s *Statistics) Merge(other *Statistics) {
	s.Rounds += other.Rounds
	s.SumNet += other.SumNet
	s.SumSq += other.SumSq
	s.Values = append(s.Values, other.Values...)
	s.Wins += other.Wins
	s.Losses += other.Losses
	s.Pushes += other.Pushes
	s.Naturals += other.Naturals
	s.Doubles += other.Doubles
	s.DoubledNet += other.DoubledNet
	s.PlayerBusts += other.PlayerBusts
	s.DealerBusts += other.DealerBusts
}

// Rate returns n as a fraction of all rounds
func (s *Statistics) Rate(n int) float64 {
	if s.Rounds == 0 {
		return 0
	}
	return float64(n) / float64(s.Rounds)
}

// Median returns the median net result
func (s *Statistics) Median() float64 {
	return s.Percentile(0.5)
}

// Percentile returns the interpolated value at p (0.0 to 1.0)
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// Validate checks that the counters agree with each other
func (s *Statistics) Validate() error {
	if s.Rounds <= 0 {
		return fmt.Errorf("invalid round count: %d", s.Rounds)
	}
	if len(s.Values) != s.Rounds {
		return fmt.Errorf("values length (%d) does not match round count (%d)", len(s.Values), s.Rounds)
	}
	if total := s.Wins + s.Losses + s.Pushes; total != s.Rounds {
		return fmt.Errorf("results total (%d) does not match round count (%d)", total, s.Rounds)
	}
	if s.Doubles > s.Rounds || s.Naturals > s.Rounds {
		return fmt.Errorf("doubles (%d) or naturals (%d) exceed round count (%d)", s.Doubles, s.Naturals, s.Rounds)
	}
	return nil
}
