package nakama

import (
	"context"
	"database/sql"
	"encoding/json"

	"blackjack/internal/app"

	"github.com/heroiclabs/nakama-common/runtime"
)

// voiceService is lazily built from runtime env credentials. Tests may set it
// directly.
var voiceService *app.VoiceService

// VoiceTokenRequest asks for a signed voice token.
// MatchID is required for join tokens; the channel is derived from it.
type VoiceTokenRequest struct {
	Action  string `json:"action"`
	MatchID string `json:"match_id"`
}

type VoiceTokenResponse struct {
	Token string `json:"token"`
}

// RpcGetVoiceToken handles the RPC call from the client to sign a voice token
// for login or for joining a table channel.
func RpcGetVoiceToken(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userId, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	if userId == "" {
		return "", runtime.NewError("User required", 16) // UNAUTHENTICATED
	}

	var req VoiceTokenRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		return "", runtime.NewError("Invalid payload", 3) // INVALID_ARGUMENT
	}

	svc := voiceService
	if svc == nil {
		env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
		issuer := env["voice_issuer"]
		secret := env["voice_secret"]
		domain := env["voice_domain"]
		if issuer == "" || secret == "" || domain == "" {
			issuer, secret, domain = "test-issuer", "test-secret", "test.example.com"
			logger.Warn("Voice credentials missing from env, using test defaults.")
		}
		svc = app.NewVoiceService(secret, issuer, domain, 0)
		voiceService = svc
	}

	channel := ""
	if req.Action == app.VoiceTokenActionJoin {
		if req.MatchID == "" {
			return "", runtime.NewError("Match ID required for join", 3)
		}
		channel = app.TableChannel(req.MatchID)
	}

	token, err := svc.GenerateToken(userId, req.Action, channel)
	if err != nil {
		logger.Error("Failed to generate voice token: %v", err)
		return "", runtime.NewError("Internal error", 13) // INTERNAL
	}

	b, _ := json.Marshal(VoiceTokenResponse{Token: token})
	return string(b), nil
}
