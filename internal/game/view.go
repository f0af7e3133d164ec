package game

// HiddenCard is shown in place of dealer cards that are still face down.
const HiddenCard = "??"

// HandView is a display snapshot of a hand
type HandView struct {
	Cards []string `json:"cards"`
	Score int      `json:"score"`
	Soft  bool     `json:"soft,omitempty"`
	Bust  bool     `json:"bust,omitempty"`
}

// View is the read-only state handed to a presentation layer after every
// call. While the player is acting only the dealer's first card is shown
// and the dealer score is zero.
type View struct {
	State          string         `json:"state"`
	Finished       bool           `json:"finished"`
	Round          int            `json:"round"`
	Player         HandView       `json:"player"`
	Dealer         HandView       `json:"dealer"`
	DealerName     string         `json:"dealer_name"`
	DealerRevealed bool           `json:"dealer_revealed"`
	Bet            int            `json:"bet"`
	Balance        int            `json:"balance"`
	CanDouble      bool           `json:"can_double"`
	Message        string         `json:"message"`
	Result         Result         `json:"result"`
	History        []HistoryEntry `json:"history"`
}

func viewHand(h *Hand) HandView {
	v := HandView{
		Cards: make([]string, h.Len()),
		Score: h.Score(),
		Soft:  h.IsSoft(),
		Bust:  h.IsBust(),
	}
	for i, c := range h.cards {
		v.Cards[i] = c.String()
	}
	return v
}

func maskedHand(h *Hand) HandView {
	v := HandView{Cards: make([]string, h.Len())}
	for i, c := range h.cards {
		if i == 0 {
			v.Cards[i] = c.String()
			continue
		}
		v.Cards[i] = HiddenCard
	}
	return v
}

// View returns a snapshot of the table
func (g *Game) View() View {
	revealed := g.state != PlayerTurn
	v := View{
		State:          g.state.String(),
		Finished:       g.Finished(),
		Round:          g.round,
		Player:         viewHand(g.player),
		DealerName:     g.dealerName,
		DealerRevealed: revealed,
		Bet:            g.bet,
		Balance:        g.balance,
		CanDouble:      g.CanDouble(),
		Message:        g.message,
		Result:         g.result,
		History:        g.history.Entries(),
	}
	if revealed {
		v.Dealer = viewHand(g.dealer)
	} else {
		v.Dealer = maskedHand(g.dealer)
	}
	return v
}
