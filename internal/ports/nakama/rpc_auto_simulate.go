package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"blackjack/internal/config"
	"blackjack/internal/domain"
	"blackjack/internal/sim"

	"github.com/heroiclabs/nakama-common/runtime"
)

// AutoSimulateRequest configures an auto-play session.
type AutoSimulateRequest struct {
	Hands   int         `json:"hands"`
	Bet     int64       `json:"bet"`
	Filters WireFilters `json:"filters"`
}

// AutoSimulateResponse reports the finished session and the per-situation
// outcome table.
type AutoSimulateResponse struct {
	Summary    sim.Summary        `json:"summary"`
	Results    []sim.SituationRow `json:"results"`
	StopReason string             `json:"stop_reason,omitempty"`
}

// RpcRunAutoSimulation handles the auto-play RPC: it plays the requested
// number of hands by basic strategy against a virtual bankroll and returns
// what happened. The hand count is capped by config.
func RpcRunAutoSimulation(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	var req AutoSimulateRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		return "", runtime.NewError("Invalid payload", 3) // INVALID_ARGUMENT
	}

	if req.Hands <= 0 {
		return "", runtime.NewError("Hand count must be positive", 3)
	}
	if maxHands := config.GetMaxAutoPlayHands(); req.Hands > maxHands {
		req.Hands = maxHands
	}
	if req.Bet <= 0 {
		req.Bet = config.GetDefaultBet()
	}

	agg := sim.NewAggregator(req.Bet, config.GetStartingChips(), filtersFromWire(req.Filters), nil)
	agg.Start(req.Hands)

	stopReason := ""
	for agg.Running() {
		if err := agg.PlayNext(); err != nil {
			switch {
			case errors.Is(err, domain.ErrFilterUnsatisfied):
				stopReason = "deal_failed"
			case errors.Is(err, sim.ErrInsufficientChips):
				stopReason = "out_of_chips"
			default:
				logger.Error("RpcRunAutoSimulation: session failed: %v", err)
				return "", runtime.NewError("Internal error", 13) // INTERNAL
			}
			break
		}
	}

	b, err := json.Marshal(AutoSimulateResponse{
		Summary:    agg.Summary(),
		Results:    agg.Results(),
		StopReason: stopReason,
	})
	if err != nil {
		return "", runtime.NewError("Internal error", 13)
	}
	return string(b), nil
}
