package domain

import "errors"

// MaxDealAttempts bounds the reshuffle loop when dealing under filters.
const MaxDealAttempts = 1000

// ErrFilterUnsatisfied is returned when no opening deal matching the filters
// was found within the attempt budget.
var ErrFilterUnsatisfied = errors.New("no deal satisfied the filters")

// DealFilters constrains the opening deal for practice rounds: exact ranks
// for specific positions and category checks on the resulting player hand.
// A zero value applies no constraints.
type DealFilters struct {
	Pairs  bool
	HasAce bool
	Soft   bool
	Hard   bool

	PlayerFirst  string
	PlayerSecond string
	DealerUp     string
}

func (f DealFilters) active() bool {
	return f.Pairs || f.HasAce || f.Soft || f.Hard ||
		f.PlayerFirst != "" || f.PlayerSecond != "" || f.DealerUp != ""
}

func (f DealFilters) matches(h *Hand) bool {
	if f.Pairs && !h.CanSplit() {
		return false
	}
	if f.HasAce && !(h.Cards[0].IsAce() || h.Cards[1].IsAce()) {
		return false
	}
	if f.Soft && !h.IsSoft() {
		return false
	}
	if f.Hard && (h.IsSoft() || h.Cards[0].IsAce() || h.Cards[1].IsAce()) {
		return false
	}
	return true
}

// DealRound deals an opening round, retrying with a reshuffle until the
// filters are satisfied or the attempt budget runs out.
func DealRound(shoe *Shoe, bet int64, f DealFilters) (*Round, error) {
	if !f.active() {
		return NewRound(shoe, bet), nil
	}
	for attempt := 0; attempt < MaxDealAttempts; attempt++ {
		cards, ok := dealOpening(shoe, f)
		if !ok {
			shoe.Return(cards...)
			shoe.Shuffle()
			continue
		}
		player := NewHand(cards[0], cards[2])
		if !f.matches(player) {
			shoe.Return(cards...)
			shoe.Shuffle()
			continue
		}
		dealer := NewHand(cards[1], cards[3])
		return &Round{
			Shoe:   shoe,
			Dealer: dealer,
			Hands:  []*SeatHand{{Hand: player, Stake: bet}},
			Bet:    bet,
			Phase:  RoundPlaying,
		}, nil
	}
	return nil, ErrFilterUnsatisfied
}

// dealOpening draws the four opening cards in casino order, honoring any
// per-position rank filters. Returns the cards drawn so far and whether every
// filtered draw succeeded.
func dealOpening(shoe *Shoe, f DealFilters) ([]Card, bool) {
	var cards []Card
	draw := func(rank string) bool {
		if rank == "" {
			cards = append(cards, shoe.Deal())
			return true
		}
		c, ok := shoe.DealRank(rank)
		if !ok {
			return false
		}
		cards = append(cards, c)
		return true
	}
	if !draw(f.PlayerFirst) {
		return cards, false
	}
	if !draw(f.DealerUp) {
		return cards, false
	}
	if !draw(f.PlayerSecond) {
		return cards, false
	}
	if !draw("") {
		return cards, false
	}
	return cards, true
}
