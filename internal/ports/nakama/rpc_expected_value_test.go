package nakama

import (
	"context"
	"encoding/json"
	"testing"
)

func TestRpcCalculateExpectedValue_AllActions(t *testing.T) {
	payload := `{"player":[{"suit":"S","rank":"8"},{"suit":"H","rank":"8"}],"upcard":{"suit":"C","rank":"6"},"bet":10,"trials":500}`

	raw, err := RpcCalculateExpectedValue(context.Background(), noopLogger{}, nil, nil, payload)
	if err != nil {
		t.Fatalf("RpcCalculateExpectedValue error: %v", err)
	}

	var resp ExpectedValueResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	// A pair may hit, stand, double or split.
	if len(resp.Results) != 4 {
		t.Fatalf("Expected 4 results for a pair, got %d", len(resp.Results))
	}
	for _, r := range resp.Results {
		if r.Trials != 500 {
			t.Errorf("Action %s ran %d trials, want 500", r.Action, r.Trials)
		}
		if r.Wins+r.Losses+r.Pushes != r.Trials {
			t.Errorf("Action %s counts do not sum to trials", r.Action)
		}
	}
}

func TestRpcCalculateExpectedValue_SingleAction(t *testing.T) {
	payload := `{"player":[{"suit":"S","rank":"10"},{"suit":"H","rank":"6"}],"upcard":{"suit":"C","rank":"10"},"trials":200,"action":"STAND"}`

	raw, err := RpcCalculateExpectedValue(context.Background(), noopLogger{}, nil, nil, payload)
	if err != nil {
		t.Fatalf("RpcCalculateExpectedValue error: %v", err)
	}

	var resp ExpectedValueResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if len(resp.Results) != 1 || string(resp.Results[0].Action) != "STAND" {
		t.Fatalf("Expected single STAND result, got %+v", resp.Results)
	}
}

func TestRpcCalculateExpectedValue_RejectsBadPayloads(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"NotJSON", "not json"},
		{"OneCard", `{"player":[{"suit":"S","rank":"8"}],"upcard":{"suit":"C","rank":"6"}}`},
		{"BadRank", `{"player":[{"suit":"S","rank":"11"},{"suit":"H","rank":"8"}],"upcard":{"suit":"C","rank":"6"}}`},
		{"BadSuit", `{"player":[{"suit":"X","rank":"8"},{"suit":"H","rank":"8"}],"upcard":{"suit":"C","rank":"6"}}`},
		{"BadUpcard", `{"player":[{"suit":"S","rank":"8"},{"suit":"H","rank":"8"}],"upcard":{"suit":"C","rank":"one"}}`},
		{"BadAction", `{"player":[{"suit":"S","rank":"8"},{"suit":"H","rank":"8"}],"upcard":{"suit":"C","rank":"6"},"action":"SURRENDER"}`},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if _, err := RpcCalculateExpectedValue(context.Background(), noopLogger{}, nil, nil, test.payload); err == nil {
				t.Fatal("Expected error")
			}
		})
	}
}
