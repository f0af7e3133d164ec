// Package game implements single-table Blackjack round resolution.
//
// The main type is Game, which owns a shoe, the player's and dealer's hands,
// an escrowed balance and a bounded history of settled rounds. Duel is the
// two-player variant with no dealer and no money.
//
// # Basic Usage
//
//	g, err := game.New(randutil.New(seed))
//	if err != nil {
//	    return err
//	}
//	if err := g.StartRound(100); err != nil {
//	    return err // game.ErrInvalidBet
//	}
//	g.PlayerHit()
//	g.PlayerStand()
//	g.DealerTurn()
//	g.ResolveRound()
//
// Or drive it with action tokens, which chains the dealer turn and settlement
// the way a UI expects:
//
//	_ = g.Apply(game.ActionStand, 0)
//	view := g.View()
//
// # Out-of-sequence calls
//
// Player and dealer actions are guarded by the round state. Calling them at
// the wrong time (hitting after standing, resolving twice) changes nothing
// and returns false; only StartRound reports errors.
//
// # Deterministic Testing
//
// Randomness is always injected. Use randutil.New(seed) for a reproducible
// shoe and dealer name, or WithDeck(deck.Stacked(...)) to script the cards:
//
//	g, _ := game.New(randutil.New(1),
//	    game.WithDeck(deck.Stacked(rng, deck.MustParseCards("Ts 9h 7c Kd")...)),
//	    game.WithReshuffleThreshold(0))
//
// A Game is not safe for concurrent use; give each session its own.
package game
