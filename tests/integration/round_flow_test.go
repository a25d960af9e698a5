package integration

import (
	"context"
	"encoding/json"
	"testing"
	"time"
)

// Opcodes mirrored from the server module.
const (
	OpPlaceBet int64 = 1
	OpHit      int64 = 2
	OpStand    int64 = 3

	OpRoundStarted int64 = 103
	OpRoundEnded   int64 = 105
)

type handState struct {
	Total int   `json:"total"`
	Stake int64 `json:"stake"`
}

type roundStartedEvent struct {
	Bet   int64       `json:"bet"`
	Hands []handState `json:"hands"`
}

type roundEndedEvent struct {
	Payoffs []int64 `json:"payoffs"`
	Net     int64   `json:"net"`
}

func TestFullRoundFlow(t *testing.T) {
	client := NewTestClient(t)
	defer client.Close()

	// 1. Find and join a table via RPC.
	matchID := client.FindAndJoinTable(t)
	t.Logf("Joined table: %s", matchID)

	// Wait a bit for the presence to sync.
	time.Sleep(1 * time.Second)

	// 2. Place a bet. A fixed opening hand keeps the flow deterministic.
	client.SendJSON(t, matchID, OpPlaceBet, map[string]interface{}{
		"bet": 10,
		"filters": map[string]interface{}{
			"player_first":  "10",
			"player_second": "9",
			"dealer_up":     "7",
		},
	})

	// 3. Assert the round started with our hand.
	data := client.WaitForMatchState(t, OpRoundStarted, 5*time.Second)
	var started roundStartedEvent
	if err := json.Unmarshal(data.Data, &started); err != nil {
		t.Fatalf("Failed to unmarshal round_started: %v", err)
	}
	if started.Bet != 10 {
		t.Errorf("Expected bet 10, got %d", started.Bet)
	}
	if len(started.Hands) != 1 || started.Hands[0].Total != 19 {
		t.Errorf("Expected a single hand at 19, got %+v", started.Hands)
	}

	// 4. Stand and wait for settlement.
	client.SendJSON(t, matchID, OpStand, nil)

	data = client.WaitForMatchState(t, OpRoundEnded, 5*time.Second)
	var ended roundEndedEvent
	if err := json.Unmarshal(data.Data, &ended); err != nil {
		t.Fatalf("Failed to unmarshal round_ended: %v", err)
	}
	if len(ended.Payoffs) != 1 {
		t.Errorf("Expected one payoff, got %v", ended.Payoffs)
	}
	if ended.Net != ended.Payoffs[0] {
		t.Errorf("Net %d does not match payoff %d", ended.Net, ended.Payoffs[0])
	}

	t.Log("TestPassed: Full round settled.")
}

func TestCalculateExpectedValueRPC(t *testing.T) {
	client := NewTestClient(t)
	defer client.Close()

	payload := `{"player":[{"suit":"S","rank":"10"},{"suit":"H","rank":"6"}],"upcard":{"suit":"C","rank":"10"},"bet":10,"trials":2000}`
	rpc, err := client.Client.RpcFunc(context.Background(), client.Session, "calculate_ev", payload)
	if err != nil {
		t.Fatalf("RPC calculate_ev failed: %v", err)
	}

	var resp struct {
		Results []struct {
			Action string  `json:"action"`
			EV     float64 `json:"ev"`
			Trials int     `json:"trials"`
		} `json:"results"`
	}
	if err := json.Unmarshal([]byte(rpc.Payload), &resp); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	// Hard 16 is not a pair and gets hit, stand and double estimates.
	if len(resp.Results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(resp.Results))
	}
	for _, r := range resp.Results {
		if r.Trials != 2000 {
			t.Errorf("Action %s ran %d trials, want 2000", r.Action, r.Trials)
		}
		// Hard 16 against a ten loses money whatever you do.
		if r.EV >= 0 {
			t.Errorf("Action %s EV = %f, expected negative", r.Action, r.EV)
		}
	}
}
