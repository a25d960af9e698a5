package sim

import (
	"errors"
	"math/rand"
	"sort"
	"time"

	"blackjack/internal/domain"
	"blackjack/internal/strategy"
)

var (
	// ErrNotRunning is returned when PlayNext is called outside a session.
	ErrNotRunning = errors.New("auto-play session not running")
	// ErrInsufficientChips stops a session whose bankroll cannot cover the bet.
	ErrInsufficientChips = errors.New("insufficient chips for next hand")
)

// SituationKey identifies a decision point for outcome bookkeeping: the
// two-card hand category, the normalized dealer upcard rank and the action
// the oracle took.
type SituationKey struct {
	Category string          `json:"category"`
	Upcard   string          `json:"upcard"`
	Action   strategy.Action `json:"action"`
}

// SituationStats accumulates realized payoffs for one situation.
type SituationStats struct {
	EV     float64 `json:"ev"`
	Count  int     `json:"count"`
	Wins   int     `json:"wins"`
	Losses int     `json:"losses"`
	Pushes int     `json:"pushes"`
}

// SituationRow pairs a key with its stats for sorted output.
type SituationRow struct {
	SituationKey
	SituationStats
}

// Summary is the running state of an auto-play session.
type Summary struct {
	HandsPlayed   int   `json:"hands_played"`
	HandsToPlay   int   `json:"hands_to_play"`
	Wins          int   `json:"wins"`
	Losses        int   `json:"losses"`
	Pushes        int   `json:"pushes"`
	StartingChips int64 `json:"starting_chips"`
	Chips         int64 `json:"chips"`
}

// Aggregator auto-plays full rounds by basic strategy against a virtual
// bankroll and records the realized payoff of every two-card decision point,
// keyed by situation. One aggregator owns its state; drive it from a single
// goroutine.
type Aggregator struct {
	rng     *rand.Rand
	bet     int64
	filters domain.DealFilters

	running  bool
	summary  Summary
	outcomes map[SituationKey]*SituationStats
}

// NewAggregator returns an aggregator betting bet per hand from a bankroll of
// startingChips, dealing under the given filters. rng may be nil.
func NewAggregator(bet, startingChips int64, filters domain.DealFilters, rng *rand.Rand) *Aggregator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Aggregator{
		rng:     rng,
		bet:     bet,
		filters: filters,
		summary: Summary{
			StartingChips: startingChips,
			Chips:         startingChips,
		},
		outcomes: map[SituationKey]*SituationStats{},
	}
}

// Start begins a session of totalHands hands, clearing previous results.
func (a *Aggregator) Start(totalHands int) {
	a.summary.HandsPlayed = 0
	a.summary.HandsToPlay = totalHands
	a.summary.Wins = 0
	a.summary.Losses = 0
	a.summary.Pushes = 0
	a.summary.Chips = a.summary.StartingChips
	a.outcomes = map[SituationKey]*SituationStats{}
	a.running = totalHands > 0
}

// Running reports whether a session is in progress.
func (a *Aggregator) Running() bool {
	return a.running
}

// Stop ends the session early, keeping accumulated results.
func (a *Aggregator) Stop() {
	a.running = false
}

// Summary returns the current session counters.
func (a *Aggregator) Summary() Summary {
	return a.summary
}

// decision is one recorded oracle choice within a round, tied to the
// sub-hand index it applied to so the realized payoff can be attributed
// after settlement.
type decision struct {
	key  SituationKey
	hand int
}

// PlayNext plays one full round. It deducts the bet up front, deals under
// the session filters, resolves naturals, otherwise walks every sub-hand
// with the full oracle recording two-card decision points, settles, and
// updates the bankroll and counters. The session stops itself on filter
// exhaustion or an uncoverable bet.
func (a *Aggregator) PlayNext() error {
	if !a.running {
		return ErrNotRunning
	}
	if a.summary.Chips < a.bet {
		a.running = false
		return ErrInsufficientChips
	}
	a.summary.Chips -= a.bet

	shoe := domain.NewShoe(a.rng)
	round, err := domain.DealRound(shoe, a.bet, a.filters)
	if err != nil {
		a.summary.Chips += a.bet
		a.running = false
		return err
	}

	if round.HasNatural() {
		a.settleNatural(round)
		return a.finishHand()
	}

	decisions := a.playRound(round)
	a.settle(round, decisions)
	return a.finishHand()
}

// playRound drives the round to completion with the full oracle, recording
// a decision for every two-card hand state.
func (a *Aggregator) playRound(round *domain.Round) []decision {
	var decisions []decision
	upcard := round.Upcard()
	upValue := upcard.Value()
	upRank := domain.NormalizeUpcard(upcard.Rank)

	for round.Phase == domain.RoundPlaying {
		sh := round.ActiveHand()
		if sh == nil {
			break
		}
		twoCards := len(sh.Hand.Cards) == 2
		canDouble := twoCards && a.summary.Chips >= sh.Stake
		canSplit := sh.Hand.CanSplit() && a.summary.Chips >= a.bet
		action := strategy.Decide(sh.Hand, upValue, canDouble, canSplit)

		if twoCards {
			decisions = append(decisions, decision{
				key: SituationKey{
					Category: sh.Hand.Category(),
					Upcard:   upRank,
					Action:   action,
				},
				hand: round.Active,
			})
		}

		switch action {
		case strategy.Hit:
			round.Hit()
		case strategy.Stand:
			round.Stand()
		case strategy.Double:
			a.summary.Chips -= sh.Stake
			round.Double()
		case strategy.Split:
			a.summary.Chips -= a.bet
			round.Split()
		}
	}
	return decisions
}

// settle pays out each sub-hand, attributes payoffs to recorded decisions
// and updates the round win/loss/push counters.
func (a *Aggregator) settle(round *domain.Round, decisions []decision) {
	payoffs := round.Settle()
	var won, lost int
	for i, sh := range round.Hands {
		p := payoffs[i]
		switch {
		case p > 0:
			a.summary.Chips += sh.Stake + p
			won++
		case p == 0:
			a.summary.Chips += sh.Stake
		default:
			lost++
		}
	}
	switch {
	case won > lost:
		a.summary.Wins++
	case lost > won:
		a.summary.Losses++
	default:
		a.summary.Pushes++
	}
	for _, d := range decisions {
		a.record(d.key, payoffs[d.hand])
	}
}

func (a *Aggregator) settleNatural(round *domain.Round) {
	payoff := round.SettleNatural()
	switch {
	case payoff > 0:
		a.summary.Chips += a.bet + payoff
		a.summary.Wins++
	case payoff == 0:
		a.summary.Chips += a.bet
		a.summary.Pushes++
	default:
		a.summary.Losses++
	}
}

func (a *Aggregator) record(key SituationKey, payoff int64) {
	st := a.outcomes[key]
	if st == nil {
		st = &SituationStats{}
		a.outcomes[key] = st
	}
	sum := st.EV*float64(st.Count) + float64(payoff)
	st.Count++
	st.EV = sum / float64(st.Count)
	switch {
	case payoff > 0:
		st.Wins++
	case payoff < 0:
		st.Losses++
	default:
		st.Pushes++
	}
}

func (a *Aggregator) finishHand() error {
	a.summary.HandsPlayed++
	if a.summary.HandsPlayed >= a.summary.HandsToPlay {
		a.running = false
	}
	return nil
}

// Results returns the accumulated situation rows sorted by category, upcard
// and action for stable output.
func (a *Aggregator) Results() []SituationRow {
	rows := make([]SituationRow, 0, len(a.outcomes))
	for k, st := range a.outcomes {
		rows = append(rows, SituationRow{SituationKey: k, SituationStats: *st})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Category != rows[j].Category {
			return rows[i].Category < rows[j].Category
		}
		if rows[i].Upcard != rows[j].Upcard {
			return rows[i].Upcard < rows[j].Upcard
		}
		return rows[i].Action < rows[j].Action
	})
	return rows
}
