package game

import "slices"

// HistoryEntry is an immutable record of one settled round. For a Duel,
// Bet and Balance are zero and DealerName holds the second player's name.
type HistoryEntry struct {
	Round       int    `json:"round"`
	Result      Result `json:"result"`
	PlayerScore int    `json:"player_score"`
	DealerScore int    `json:"dealer_score"`
	Bet         int    `json:"bet"`
	Balance     int    `json:"balance"`
	DealerName  string `json:"dealer_name"`
	Natural     bool   `json:"natural,omitempty"`
}

// History keeps the most recent settled rounds, newest first.
type History struct {
	entries  []HistoryEntry
	capacity int
}

// NewHistory creates a history holding at most capacity entries.
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultHistorySize
	}
	return &History{
		entries:  make([]HistoryEntry, 0, capacity+1),
		capacity: capacity,
	}
}

// Add records an entry at the front and evicts the oldest beyond capacity.
func (h *History) Add(e HistoryEntry) {
	h.entries = slices.Insert(h.entries, 0, e)
	if len(h.entries) > h.capacity {
		h.entries = h.entries[:h.capacity]
	}
}

// Entries returns a copy of the entries, newest first
func (h *History) Entries() []HistoryEntry {
	return slices.Clone(h.entries)
}

// Latest returns the most recent entry
func (h *History) Latest() (HistoryEntry, bool) {
	if len(h.entries) == 0 {
		return HistoryEntry{}, false
	}
	return h.entries[0], true
}

func (h *History) Len() int { return len(h.entries) }
func (h *History) Capacity() int { return h.capacity }

// Tally counts results across the retained entries.
func (h *History) Tally() (wins, losses, pushes int) {
	for _, e := range h.entries {
		switch e.Result {
		case Win:
			wins++
		case Loss:
			losses++
		case Push:
			pushes++
		}
	}
	return wins, losses, pushes
}
