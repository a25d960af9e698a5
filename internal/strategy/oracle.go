// Package strategy implements the basic-strategy decision oracle used by the
// auto-player and inside Monte Carlo playouts.
package strategy

import "blackjack/internal/domain"

// Action is a player decision.
type Action string

const (
	Hit    Action = "HIT"
	Stand  Action = "STAND"
	Double Action = "DOUBLE"
	Split  Action = "SPLIT"
)

// Actions lists every action in display order.
var Actions = []Action{Hit, Stand, Double, Split}

// Valid reports whether a is a known action.
func (a Action) Valid() bool {
	switch a {
	case Hit, Stand, Double, Split:
		return true
	}
	return false
}

// Decide returns the basic-strategy action for the hand against the dealer's
// upcard value (ace = 11). The capability flags gate decisions the table
// state may not allow: canDouble and canSplit both require a two-card hand,
// and canSplit additionally requires an equal-rank pair. Pair rules take
// precedence, then soft totals, then hard totals.
func Decide(h *domain.Hand, dealerUp int, canDouble, canSplit bool) Action {
	canDouble = canDouble && len(h.Cards) == 2
	canSplit = canSplit && h.CanSplit()

	if canSplit {
		if a, ok := pairDecision(h.Cards[0], dealerUp); ok {
			return a
		}
	}
	if h.IsSoft() {
		return softDecision(h, dealerUp, canDouble)
	}
	return hardDecision(h, dealerUp, canDouble)
}

// pairDecision returns the split-table entry for a pair of the given card's
// rank, or ok=false when the pair plays as its total instead.
func pairDecision(c domain.Card, dealerUp int) (Action, bool) {
	switch c.Rank {
	case "A", "8":
		return Split, true
	case "2", "3", "7":
		if dealerUp <= 7 {
			return Split, true
		}
	case "6":
		if dealerUp <= 6 {
			return Split, true
		}
	case "9":
		if dealerUp != 7 && dealerUp != 10 && dealerUp != 11 {
			return Split, true
		}
	}
	return "", false
}

func softDecision(h *domain.Hand, dealerUp int, canDouble bool) Action {
	switch {
	case h.Total >= 19:
		return Stand
	case h.Total == 18:
		if dealerUp >= 9 {
			return Hit
		}
		if dealerUp <= 6 && canDouble {
			return Double
		}
		return Stand
	case h.Total >= 15:
		if dealerUp <= 6 && canDouble {
			return Double
		}
		return Hit
	default:
		return Hit
	}
}

func hardDecision(h *domain.Hand, dealerUp int, canDouble bool) Action {
	switch {
	case h.Total >= 17:
		return Stand
	case h.Total >= 13:
		if dealerUp <= 6 {
			return Stand
		}
		return Hit
	case h.Total == 12:
		if dealerUp >= 4 && dealerUp <= 6 {
			return Stand
		}
		return Hit
	case h.Total == 11:
		if canDouble {
			return Double
		}
		return Hit
	case h.Total == 10:
		if dealerUp <= 9 && canDouble {
			return Double
		}
		return Hit
	case h.Total == 9:
		if dealerUp >= 3 && dealerUp <= 6 && canDouble {
			return Double
		}
		return Hit
	default:
		return Hit
	}
}

// PlayOut hits the hand by basic strategy, restricted to hit/stand, until it
// stands or busts. This is the in-playout oracle: speculative hands cannot
// double or split mid-trial.
func PlayOut(h *domain.Hand, dealerUp int, shoe *domain.Shoe) {
	for !h.IsBusted() && Decide(h, dealerUp, false, false) == Hit {
		h.AddCard(shoe.Deal())
	}
}
