package app

import (
	"errors"
	"math/rand"
	"time"

	"blackjack/internal/domain"
)

// Service contains blackjack table use-cases operating on domain state.
type Service struct {
	rng *rand.Rand
}

// NewService constructs a Service with provided rng or a time-seeded default.
func NewService(rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{rng: rng}
}

var (
	ErrBetTooSmall = errors.New("bet is below the table minimum")
	ErrRoundOver   = errors.New("round already settled")
)

// StartRound deals a new round from a fresh shoe. A natural blackjack on
// either opening hand settles immediately; otherwise the round waits for
// player actions. The returned events describe everything that happened.
func (s *Service) StartRound(bet int64, filters domain.DealFilters) (*domain.Round, []Event, error) {
	if bet < MinBet {
		return nil, nil, ErrBetTooSmall
	}

	shoe := domain.NewShoe(s.rng)
	round, err := domain.DealRound(shoe, bet, filters)
	if err != nil {
		return nil, nil, err
	}

	events := []Event{{
		Kind: EventRoundStarted,
		Payload: RoundStartedPayload{
			Bet:          bet,
			Hands:        handStates(round),
			DealerUpcard: round.Upcard(),
		},
	}}

	if round.HasNatural() {
		payoff := round.SettleNatural()
		round.Phase = domain.RoundDone
		events = append(events, Event{
			Kind: EventRoundEnded,
			Payload: RoundEndedPayload{
				Hands:   handStates(round),
				Dealer:  dealerState(round),
				Payoffs: []int64{payoff},
				Net:     payoff,
				Natural: true,
			},
		})
	}

	return round, events, nil
}

// Hit draws a card for the active hand.
func (s *Service) Hit(round *domain.Round) ([]Event, error) {
	return s.apply(round, "HIT", round.Hit)
}

// Stand ends the active hand's turn.
func (s *Service) Stand(round *domain.Round) ([]Event, error) {
	return s.apply(round, "STAND", round.Stand)
}

// Double doubles the active hand's stake and draws exactly one card. The
// caller is responsible for checking the player can cover the extra stake.
func (s *Service) Double(round *domain.Round) ([]Event, error) {
	return s.apply(round, "DOUBLE", round.Double)
}

// Split turns the active pair into two hands. The caller is responsible for
// checking the player can cover the second stake.
func (s *Service) Split(round *domain.Round) ([]Event, error) {
	return s.apply(round, "SPLIT", round.Split)
}

func (s *Service) apply(round *domain.Round, action string, fn func() error) ([]Event, error) {
	if round.Phase == domain.RoundDone {
		return nil, ErrRoundOver
	}
	handIndex := round.Active
	if err := fn(); err != nil {
		return nil, err
	}

	events := []Event{{
		Kind: EventActionApplied,
		Payload: ActionAppliedPayload{
			Action:     action,
			HandIndex:  handIndex,
			Hands:      handStates(round),
			ActiveHand: round.Active,
		},
	}}

	if round.Phase == domain.RoundDone {
		payoffs := round.Settle()
		var net int64
		for _, p := range payoffs {
			net += p
		}
		events = append(events, Event{
			Kind: EventRoundEnded,
			Payload: RoundEndedPayload{
				Hands:   handStates(round),
				Dealer:  dealerState(round),
				Payoffs: payoffs,
				Net:     net,
			},
		})
	}

	return events, nil
}

func handStates(round *domain.Round) []HandState {
	states := make([]HandState, len(round.Hands))
	for i, sh := range round.Hands {
		states[i] = HandState{
			Cards:   sh.Hand.Cards,
			Total:   sh.Hand.Total,
			Stake:   sh.Stake,
			Doubled: sh.Doubled,
			Busted:  sh.Hand.IsBusted(),
		}
	}
	return states
}

func dealerState(round *domain.Round) HandState {
	return HandState{
		Cards:  round.Dealer.Cards,
		Total:  round.Dealer.Total,
		Busted: round.Dealer.IsBusted(),
	}
}
