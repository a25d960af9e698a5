package nakama

import (
	"context"
	"database/sql"
	"encoding/json"

	"blackjack/internal/config"
	"blackjack/internal/domain"
	"blackjack/internal/sim"
	"blackjack/internal/strategy"

	"github.com/heroiclabs/nakama-common/runtime"
)

// maxEVTrials caps a single estimate so a client cannot pin a worker.
const maxEVTrials = 100000

// ExpectedValueRequest asks for EV estimates from a concrete table state.
// Action is optional; when empty, every legal action is estimated.
type ExpectedValueRequest struct {
	Player []WireCard `json:"player"`
	Upcard WireCard   `json:"upcard"`
	Bet    int64      `json:"bet"`
	Trials int        `json:"trials"`
	Action string     `json:"action"`
}

// ExpectedValueResponse carries one result per estimated action.
type ExpectedValueResponse struct {
	Results []sim.Result `json:"results"`
}

// RpcCalculateExpectedValue handles the EV estimate RPC.
// Payload: {"player":[{"suit":"S","rank":"8"},...],"upcard":{...},"bet":10,"trials":5000,"action":"HIT"}
func RpcCalculateExpectedValue(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	var req ExpectedValueRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		return "", runtime.NewError("Invalid payload", 3) // INVALID_ARGUMENT
	}

	if len(req.Player) < 2 {
		return "", runtime.NewError("Player hand requires at least two cards", 3)
	}
	for _, c := range req.Player {
		if !validWireCard(c) {
			return "", runtime.NewError("Invalid player card", 3)
		}
	}
	if !validWireCard(req.Upcard) {
		return "", runtime.NewError("Invalid dealer upcard", 3)
	}
	if req.Bet <= 0 {
		req.Bet = config.GetDefaultBet()
	}
	trials := req.Trials
	if trials <= 0 {
		trials = config.GetDefaultTrials()
	}
	if trials > maxEVTrials {
		trials = maxEVTrials
	}

	playerCards := cardsFromWire(req.Player)
	player := domain.NewHand(playerCards...)
	upcard := cardFromWire(req.Upcard)
	known := append(append([]domain.Card(nil), playerCards...), upcard)

	estimator := sim.NewEstimator(trials, nil)

	var results []sim.Result
	if req.Action != "" {
		action := strategy.Action(req.Action)
		if !action.Valid() {
			return "", runtime.NewError("Unknown action", 3)
		}
		res, err := estimator.Estimate(action, player, upcard, known, req.Bet)
		if err != nil {
			logger.Error("RpcCalculateExpectedValue: estimate failed: %v", err)
			return "", runtime.NewError("Internal error", 13) // INTERNAL
		}
		results = []sim.Result{res}
	} else {
		var err error
		results, err = estimator.EstimateAll(player, upcard, known, req.Bet)
		if err != nil {
			logger.Error("RpcCalculateExpectedValue: estimate failed: %v", err)
			return "", runtime.NewError("Internal error", 13)
		}
	}

	b, err := json.Marshal(ExpectedValueResponse{Results: results})
	if err != nil {
		return "", runtime.NewError("Internal error", 13)
	}
	return string(b), nil
}
