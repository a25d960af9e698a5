package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/heroiclabs/nakama-common/runtime"
)

// RegisterRPCs registers Nakama RPC endpoints.
func RegisterRPCs(initializer runtime.Initializer) error {
	for id, fn := range map[string]func(context.Context, runtime.Logger, *sql.DB, runtime.NakamaModule, string) (string, error){
		RpcFindTable:     rpcFindTable,
		RpcExpectedValue: RpcCalculateExpectedValue,
		RpcAutoSimulate:  RpcRunAutoSimulation,
		RpcVoiceToken:    RpcGetVoiceToken,
	} {
		if err := initializer.RegisterRpc(id, fn); err != nil {
			return err
		}
	}
	return nil
}

// FindTableResponse is the payload returned to clients looking for a table.
type FindTableResponse struct {
	MatchID string `json:"match_id"`
	IsNew   bool   `json:"is_new"`
}

// rpcFindTable searches for a table with an open seat. If none is found it
// creates a new one.
//
// Query syntax: "+label.open:>=1"
// +label.open means we are filtering on the "open" key in the JSON label.
// :>=1 means the value must be greater than or equal to 1.
func rpcFindTable(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userId, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)

	limit := 1
	authoritative := true
	labelQuery := fmt.Sprintf("+label.%s:>=1", MatchLabelKey_OpenSeats)
	minSize := 0
	maxSize := 1

	matches, err := nk.MatchList(ctx, limit, authoritative, "", &minSize, &maxSize, labelQuery)
	if err != nil {
		logger.Error("rpcFindTable [User:%s]: Failed to list matches: %v", userId, err)
		return "", err
	}

	if len(matches) > 0 {
		matchId := matches[0].MatchId
		logger.Info("rpcFindTable [User:%s]: Found open table %s", userId, matchId)
		b, _ := json.Marshal(FindTableResponse{MatchID: matchId})
		return string(b), nil
	}

	matchId, err := nk.MatchCreate(ctx, MatchNameBlackjack, nil)
	if err != nil {
		logger.Error("rpcFindTable [User:%s]: Failed to create match: %v", userId, err)
		return "", err
	}

	logger.Info("rpcFindTable [User:%s]: Created new table %s", userId, matchId)
	b, _ := json.Marshal(FindTableResponse{MatchID: matchId, IsNew: true})
	return string(b), nil
}
