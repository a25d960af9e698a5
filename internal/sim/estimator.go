// Package sim runs Monte Carlo playouts: single-action EV estimates and the
// long-running auto-play aggregator.
package sim

import (
	"errors"
	"math/rand"
	"time"

	"blackjack/internal/domain"
	"blackjack/internal/strategy"
)

// DefaultTrials is the trial count used when the caller passes zero.
const DefaultTrials = 10000

// ErrUnknownAction is returned for an action the estimator cannot play out.
var ErrUnknownAction = errors.New("unknown action")

// Result is the outcome of one EV estimate.
type Result struct {
	Action strategy.Action `json:"action"`
	EV     float64         `json:"ev"`
	Wins   int             `json:"wins"`
	Losses int             `json:"losses"`
	Pushes int             `json:"pushes"`
	Trials int             `json:"trials"`
}

// Estimator runs independent trials of a fixed first action.
type Estimator struct {
	trials int
	rng    *rand.Rand
}

// NewEstimator returns an estimator running the given number of trials per
// estimate. trials <= 0 uses DefaultTrials; rng may be nil for a time-seeded
// source.
func NewEstimator(trials int, rng *rand.Rand) *Estimator {
	if trials <= 0 {
		trials = DefaultTrials
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Estimator{trials: trials, rng: rng}
}

// Trials returns the per-estimate trial count.
func (e *Estimator) Trials() int {
	return e.trials
}

// Estimate plays the given action from the given table state e.trials times
// and averages the signed payoffs. Each trial rebuilds a shuffled shoe from
// the 52-card population minus the known cards, so the dealer hole card and
// every later draw vary across trials. After the fixed first action the hand
// is finished by the restricted hit/stand oracle.
func (e *Estimator) Estimate(action strategy.Action, player *domain.Hand, upcard domain.Card, known []domain.Card, bet int64) (Result, error) {
	var total int64
	res := Result{Action: action, Trials: e.trials}
	for i := 0; i < e.trials; i++ {
		shoe := domain.NewShoeExcluding(known, e.rng)
		var payoff int64
		switch action {
		case strategy.Hit:
			payoff = e.playHit(player.Clone(), upcard, shoe, bet)
		case strategy.Stand:
			payoff = e.playStand(player.Clone(), upcard, shoe, bet)
		case strategy.Double:
			payoff = e.playDouble(player.Clone(), upcard, shoe, bet)
		case strategy.Split:
			payoff = e.playSplit(player, upcard, shoe, bet)
		default:
			return Result{}, ErrUnknownAction
		}
		total += payoff
		switch {
		case payoff > 0:
			res.Wins++
		case payoff < 0:
			res.Losses++
		default:
			res.Pushes++
		}
	}
	res.EV = float64(total) / float64(e.trials)
	return res, nil
}

// EstimateAll runs Estimate for each action, skipping Split when the hand is
// not a pair and Double when the hand already drew.
func (e *Estimator) EstimateAll(player *domain.Hand, upcard domain.Card, known []domain.Card, bet int64) ([]Result, error) {
	results := make([]Result, 0, len(strategy.Actions))
	for _, a := range strategy.Actions {
		if a == strategy.Split && !player.CanSplit() {
			continue
		}
		if a == strategy.Double && len(player.Cards) != 2 {
			continue
		}
		r, err := e.Estimate(a, player, upcard, known, bet)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, nil
}

func (e *Estimator) playHit(h *domain.Hand, upcard domain.Card, shoe *domain.Shoe, bet int64) int64 {
	h.AddCard(shoe.Deal())
	if h.IsBusted() {
		return -bet
	}
	strategy.PlayOut(h, upcard.Value(), shoe)
	if h.IsBusted() {
		return -bet
	}
	dealer := e.completeDealer(upcard, shoe)
	return domain.ResolveOutcome(h, dealer, bet)
}

func (e *Estimator) playStand(h *domain.Hand, upcard domain.Card, shoe *domain.Shoe, bet int64) int64 {
	dealer := e.completeDealer(upcard, shoe)
	return domain.ResolveOutcome(h, dealer, bet)
}

func (e *Estimator) playDouble(h *domain.Hand, upcard domain.Card, shoe *domain.Shoe, bet int64) int64 {
	h.AddCard(shoe.Deal())
	if h.IsBusted() {
		return -2 * bet
	}
	dealer := e.completeDealer(upcard, shoe)
	return domain.ResolveOutcome(h, dealer, 2*bet)
}

// playSplit splits the pair into two one-card hands, deals one card to each,
// plays both by the restricted oracle and settles them against the same
// dealer hand.
func (e *Estimator) playSplit(pair *domain.Hand, upcard domain.Card, shoe *domain.Shoe, bet int64) int64 {
	first := domain.NewHand(pair.Cards[0])
	second := domain.NewHand(pair.Cards[1])
	first.AddCard(shoe.Deal())
	second.AddCard(shoe.Deal())
	strategy.PlayOut(first, upcard.Value(), shoe)
	strategy.PlayOut(second, upcard.Value(), shoe)
	dealer := e.completeDealer(upcard, shoe)
	return domain.ResolveOutcome(first, dealer, bet) + domain.ResolveOutcome(second, dealer, bet)
}

// completeDealer draws the hole card from the trial shoe, then runs the
// forced-stand rule.
func (e *Estimator) completeDealer(upcard domain.Card, shoe *domain.Shoe) *domain.Hand {
	dealer := domain.NewHand(upcard)
	dealer.AddCard(shoe.Deal())
	domain.CompleteDealer(dealer, shoe)
	return dealer
}
