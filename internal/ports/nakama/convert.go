package nakama

import (
	"encoding/json"

	"blackjack/internal/domain"
)

const (
	MatchLabelKey_OpenSeats = "open" // Key for the open seats in the match label
)

// MatchLabel is the queryable table label. Kept flat so the listing query
// "+label.open:>=1" works.
type MatchLabel struct {
	Open  int    `json:"open"`
	State string `json:"state"`
}

func marshalLabel(label MatchLabel) (string, error) {
	bytes, err := json.Marshal(label)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// WireCard is the JSON card representation shared by RPC payloads and match
// messages.
type WireCard struct {
	Suit string `json:"suit"`
	Rank string `json:"rank"`
}

func cardFromWire(c WireCard) domain.Card {
	return domain.Card{Suit: c.Suit, Rank: c.Rank}
}

func cardsFromWire(cards []WireCard) []domain.Card {
	out := make([]domain.Card, 0, len(cards))
	for _, c := range cards {
		out = append(out, cardFromWire(c))
	}
	return out
}

// WireFilters mirrors domain.DealFilters for request payloads.
type WireFilters struct {
	Pairs        bool   `json:"pairs"`
	HasAce       bool   `json:"has_ace"`
	Soft         bool   `json:"soft"`
	Hard         bool   `json:"hard"`
	PlayerFirst  string `json:"player_first"`
	PlayerSecond string `json:"player_second"`
	DealerUp     string `json:"dealer_up"`
}

func filtersFromWire(f WireFilters) domain.DealFilters {
	return domain.DealFilters{
		Pairs:        f.Pairs,
		HasAce:       f.HasAce,
		Soft:         f.Soft,
		Hard:         f.Hard,
		PlayerFirst:  f.PlayerFirst,
		PlayerSecond: f.PlayerSecond,
		DealerUp:     f.DealerUp,
	}
}

var validRanks = func() map[string]bool {
	m := make(map[string]bool, len(domain.Ranks))
	for _, r := range domain.Ranks {
		m[r] = true
	}
	return m
}()

var validSuits = func() map[string]bool {
	m := make(map[string]bool, len(domain.Suits))
	for _, s := range domain.Suits {
		m[s] = true
	}
	return m
}()

func validWireCard(c WireCard) bool {
	return validSuits[c.Suit] && validRanks[c.Rank]
}
