package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blackjack/internal/domain"
)

func TestAggregatorPlaysRequestedHands(t *testing.T) {
	a := NewAggregator(10, 100000, domain.DealFilters{}, seeded(1))
	a.Start(500)
	for a.Running() {
		require.NoError(t, a.PlayNext())
	}
	s := a.Summary()
	assert.Equal(t, 500, s.HandsPlayed)
	assert.Equal(t, 500, s.Wins+s.Losses+s.Pushes)
}

func TestAggregatorRecordsTwoCardDecisions(t *testing.T) {
	a := NewAggregator(10, 100000, domain.DealFilters{}, seeded(2))
	a.Start(1000)
	for a.Running() {
		require.NoError(t, a.PlayNext())
	}
	rows := a.Results()
	require.NotEmpty(t, rows)
	var total int
	for _, row := range rows {
		assert.True(t, row.Action.Valid(), "unknown action in key %+v", row.SituationKey)
		assert.NotContains(t, []string{"J", "Q", "K"}, row.Upcard, "upcard not normalized")
		assert.Equal(t, row.Count, row.Wins+row.Losses+row.Pushes)
		total += row.Count
	}
	// Every non-natural hand yields at least one two-card decision.
	s := a.Summary()
	assert.GreaterOrEqual(t, total, s.HandsPlayed/2)
}

func TestAggregatorResultsSorted(t *testing.T) {
	a := NewAggregator(10, 100000, domain.DealFilters{}, seeded(3))
	a.Start(300)
	for a.Running() {
		require.NoError(t, a.PlayNext())
	}
	rows := a.Results()
	for i := 1; i < len(rows); i++ {
		prev, cur := rows[i-1], rows[i]
		less := prev.Category < cur.Category ||
			(prev.Category == cur.Category && prev.Upcard < cur.Upcard) ||
			(prev.Category == cur.Category && prev.Upcard == cur.Upcard && prev.Action < cur.Action)
		assert.True(t, less, "rows %d and %d out of order", i-1, i)
	}
}

func TestAggregatorBankrollConsistency(t *testing.T) {
	a := NewAggregator(10, 10000, domain.DealFilters{}, seeded(4))
	a.Start(200)
	for a.Running() {
		require.NoError(t, a.PlayNext())
	}
	s := a.Summary()
	// A flat-bet basic-strategy session cannot drift far from the bankroll.
	assert.Greater(t, s.Chips, int64(0))
	assert.Less(t, s.Chips, s.StartingChips+int64(s.HandsPlayed)*40)
}

func TestAggregatorStopsOnInsufficientChips(t *testing.T) {
	a := NewAggregator(10, 5, domain.DealFilters{}, seeded(5))
	a.Start(10)
	err := a.PlayNext()
	assert.ErrorIs(t, err, ErrInsufficientChips)
	assert.False(t, a.Running())
}

func TestAggregatorStopsOnUnsatisfiableFilters(t *testing.T) {
	f := domain.DealFilters{PlayerFirst: "A", PlayerSecond: "A", Hard: true}
	a := NewAggregator(10, 1000, f, seeded(6))
	a.Start(10)
	err := a.PlayNext()
	assert.ErrorIs(t, err, domain.ErrFilterUnsatisfied)
	assert.False(t, a.Running())
	// The failed hand's bet is refunded.
	assert.Equal(t, int64(1000), a.Summary().Chips)
}

func TestAggregatorPlayNextOutsideSession(t *testing.T) {
	a := NewAggregator(10, 1000, domain.DealFilters{}, seeded(7))
	assert.ErrorIs(t, a.PlayNext(), ErrNotRunning)
	a.Start(5)
	a.Stop()
	assert.ErrorIs(t, a.PlayNext(), ErrNotRunning)
}

func TestAggregatorPairsSessionRecordsSplits(t *testing.T) {
	f := domain.DealFilters{Pairs: true}
	a := NewAggregator(10, 100000, f, seeded(8))
	a.Start(200)
	for a.Running() {
		require.NoError(t, a.PlayNext())
	}
	var splits int
	for _, row := range a.Results() {
		if row.Action == "SPLIT" {
			splits += row.Count
		}
	}
	// Aces and eights alone guarantee splits in an all-pairs session.
	assert.Greater(t, splits, 0)
}

func TestAggregatorStartResetsState(t *testing.T) {
	a := NewAggregator(10, 100000, domain.DealFilters{}, seeded(9))
	a.Start(50)
	for a.Running() {
		require.NoError(t, a.PlayNext())
	}
	a.Start(10)
	s := a.Summary()
	assert.Equal(t, 0, s.HandsPlayed)
	assert.Equal(t, 10, s.HandsToPlay)
	assert.Equal(t, s.StartingChips, s.Chips)
	assert.Empty(t, a.Results())
}
