package domain

import "errors"

var (
	// ErrNoActiveHand is returned when an action arrives after every player
	// hand has been played out.
	ErrNoActiveHand = errors.New("no active hand")
	// ErrNotTwoCards is returned when doubling a hand that already drew.
	ErrNotTwoCards = errors.New("double requires a two-card hand")
	// ErrCannotSplit is returned when splitting anything but an equal-rank pair.
	ErrCannotSplit = errors.New("hand cannot be split")
)

// RoundPhase tracks whether player hands are still being acted on.
type RoundPhase int

const (
	RoundPlaying RoundPhase = iota
	RoundDone
)

// SeatHand is one player sub-hand with its own stake. Splitting and doubling
// give sub-hands of a single round different stakes.
type SeatHand struct {
	Hand    *Hand
	Stake   int64
	Doubled bool
}

// Round is the state machine for a single round of play: the shoe, the dealer
// hand, the ordered player sub-hands and the index of the one being acted on.
// Interactive play and the auto-simulator both drive rounds through the same
// transitions.
type Round struct {
	Shoe   *Shoe
	Dealer *Hand
	Hands  []*SeatHand
	Active int
	Bet    int64
	Phase  RoundPhase
}

// NewRound deals a fresh round in casino order: player, dealer up, player,
// dealer hole.
func NewRound(shoe *Shoe, bet int64) *Round {
	player := NewHand()
	dealer := NewHand()
	player.AddCard(shoe.Deal())
	dealer.AddCard(shoe.Deal())
	player.AddCard(shoe.Deal())
	dealer.AddCard(shoe.Deal())
	return &Round{
		Shoe:   shoe,
		Dealer: dealer,
		Hands:  []*SeatHand{{Hand: player, Stake: bet}},
		Bet:    bet,
		Phase:  RoundPlaying,
	}
}

// ActiveHand returns the sub-hand currently being acted on, or nil once the
// round is done.
func (r *Round) ActiveHand() *SeatHand {
	if r.Phase == RoundDone || r.Active >= len(r.Hands) {
		return nil
	}
	return r.Hands[r.Active]
}

// Upcard returns the dealer's visible card.
func (r *Round) Upcard() Card {
	return r.Dealer.Cards[0]
}

// HasNatural reports whether either opening hand is a two-card 21.
func (r *Round) HasNatural() bool {
	return r.Hands[0].Hand.IsBlackjack() || r.Dealer.IsBlackjack()
}

// Hit draws one card for the active hand. Busting or reaching 21 ends the
// hand's turn.
func (r *Round) Hit() error {
	sh := r.ActiveHand()
	if sh == nil {
		return ErrNoActiveHand
	}
	sh.Hand.AddCard(r.Shoe.Deal())
	if sh.Hand.IsBusted() || sh.Hand.Total == 21 {
		r.advance()
	}
	return nil
}

// Stand ends the active hand's turn.
func (r *Round) Stand() error {
	if r.ActiveHand() == nil {
		return ErrNoActiveHand
	}
	r.advance()
	return nil
}

// Double doubles the active hand's stake, draws exactly one card and ends the
// hand's turn. Only a two-card hand may double.
func (r *Round) Double() error {
	sh := r.ActiveHand()
	if sh == nil {
		return ErrNoActiveHand
	}
	if len(sh.Hand.Cards) != 2 {
		return ErrNotTwoCards
	}
	sh.Stake *= 2
	sh.Doubled = true
	sh.Hand.AddCard(r.Shoe.Deal())
	r.advance()
	return nil
}

// Split replaces the active pair with two one-card hands, deals one card to
// each, and keeps the active index on the first. The new hand plays next with
// the same base stake.
func (r *Round) Split() error {
	sh := r.ActiveHand()
	if sh == nil {
		return ErrNoActiveHand
	}
	if !sh.Hand.CanSplit() {
		return ErrCannotSplit
	}
	first := NewHand(sh.Hand.Cards[0])
	second := NewHand(sh.Hand.Cards[1])
	first.AddCard(r.Shoe.Deal())
	second.AddCard(r.Shoe.Deal())
	sh.Hand = first
	next := &SeatHand{Hand: second, Stake: sh.Stake}
	r.Hands = append(r.Hands, nil)
	copy(r.Hands[r.Active+2:], r.Hands[r.Active+1:])
	r.Hands[r.Active+1] = next
	return nil
}

func (r *Round) advance() {
	r.Active++
	if r.Active < len(r.Hands) {
		return
	}
	r.finishDealer()
}

func (r *Round) finishDealer() {
	allBusted := true
	for _, sh := range r.Hands {
		if !sh.Hand.IsBusted() {
			allBusted = false
			break
		}
	}
	if !allBusted {
		CompleteDealer(r.Dealer, r.Shoe)
	}
	r.Phase = RoundDone
}

// Settle returns the signed payoff for each sub-hand in order. Only valid
// once the round is done.
func (r *Round) Settle() []int64 {
	payoffs := make([]int64, len(r.Hands))
	for i, sh := range r.Hands {
		payoffs[i] = ResolveOutcome(sh.Hand, r.Dealer, sh.Stake)
	}
	return payoffs
}

// SettleNatural resolves an opening blackjack before any action: both natural
// pushes, a player natural pays 3:2, a dealer natural takes the bet.
func (r *Round) SettleNatural() int64 {
	player := r.Hands[0].Hand
	switch {
	case player.IsBlackjack() && r.Dealer.IsBlackjack():
		return 0
	case player.IsBlackjack():
		return r.Bet * 3 / 2
	default:
		return -r.Bet
	}
}
