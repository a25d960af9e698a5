package domain

import (
	"strconv"
	"strings"
)

// Hand is an ordered sequence of cards with an incrementally maintained total
// and a count of aces still valued at 11.
type Hand struct {
	Cards    []Card
	Total    int
	SoftAces int
}

// NewHand builds a hand from the given cards in order.
func NewHand(cards ...Card) *Hand {
	h := &Hand{}
	for _, c := range cards {
		h.AddCard(c)
	}
	return h
}

// AddCard appends the card and re-applies the ace adjustment rule: while the
// total exceeds 21 and a soft ace remains, demote it from 11 to 1. A demoted
// ace is never re-promoted.
func (h *Hand) AddCard(c Card) {
	h.Cards = append(h.Cards, c)
	h.Total += c.Value()
	if c.IsAce() {
		h.SoftAces++
	}
	for h.Total > 21 && h.SoftAces > 0 {
		h.Total -= 10
		h.SoftAces--
	}
}

// IsBlackjack reports a natural: exactly two cards totalling 21.
func (h *Hand) IsBlackjack() bool {
	return len(h.Cards) == 2 && h.Total == 21
}

// IsBusted reports whether the total exceeds 21.
func (h *Hand) IsBusted() bool {
	return h.Total > 21
}

// CanSplit reports whether the hand is a two-card pair of equal rank.
func (h *Hand) CanSplit() bool {
	return len(h.Cards) == 2 && h.Cards[0].Rank == h.Cards[1].Rank
}

// IsSoft reports whether an ace is still counted as 11.
func (h *Hand) IsSoft() bool {
	return h.SoftAces > 0
}

// Clone returns an independent deep copy for speculative play.
func (h *Hand) Clone() *Hand {
	return &Hand{
		Cards:    append([]Card(nil), h.Cards...),
		Total:    h.Total,
		SoftAces: h.SoftAces,
	}
}

// Category labels the hand for outcome bookkeeping: "16" for a hard sixteen,
// "S18" for a soft eighteen.
func (h *Hand) Category() string {
	if h.IsSoft() {
		return "S" + strconv.Itoa(h.Total)
	}
	return strconv.Itoa(h.Total)
}

func (h *Hand) String() string {
	parts := make([]string, len(h.Cards))
	for i, c := range h.Cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
