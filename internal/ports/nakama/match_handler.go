package nakama

import (
	"context"
	"database/sql"
	"encoding/json"

	"blackjack/internal/app"
	"blackjack/internal/config"
	"blackjack/internal/domain"
	"blackjack/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

// MatchState holds the authoritative runtime state for one blackjack table.
// A table seats a single player; the dealer is the house.
type MatchState struct {
	PlayerID  string                      `json:"player_id"` // User ID of the seated player, empty when the seat is open
	Tick      int64                       `json:"tick"`
	Presences map[string]runtime.Presence `json:"-"` // Map UserId -> Presence for targeted messaging
	App       *app.Service                `json:"-"` // Blackjack app service with round logic
	Round     *domain.Round               `json:"-"` // Current active round (nil between rounds)
	Economy   ports.EconomyPort           `json:"-"` // Interface to Nakama wallet
}

func (ms *MatchState) GetOpenSeatsCount() int {
	if ms.PlayerID == "" {
		return 1
	}
	return 0
}

// totalStakes sums every sub-hand stake of the active round.
func totalStakes(round *domain.Round) int64 {
	var total int64
	for _, sh := range round.Hands {
		total += sh.Stake
	}
	return total
}

// NewMatch is the factory function registered with Nakama.
func NewMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
	return &matchHandler{}, nil
}

type matchHandler struct{}

// PlaceBetRequest opens a round. Filters are optional practice-mode deal
// constraints.
type PlaceBetRequest struct {
	Bet     int64       `json:"bet"`
	Filters WireFilters `json:"filters"`
}

// TableStateSnapshot is broadcast after joins so clients can render the seat.
type TableStateSnapshot struct {
	PlayerID  string `json:"player_id"`
	OpenSeats int    `json:"open_seats"`
	InRound   bool   `json:"in_round"`
	Balance   int64  `json:"balance"`
}

// TableErrorEvent is sent privately when a client action is rejected.
type TableErrorEvent struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// MatchInit is called when the match is created.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	logger.Debug("MatchInit: Initializing table handler.")

	if err := config.LoadGameConfig("data/game_config.json"); err != nil {
		logger.Warn("MatchInit: Could not load game config: %v", err)
	}

	state := &MatchState{
		Presences: make(map[string]runtime.Presence),
		App:       app.NewService(nil),
		Economy:   NewNakamaEconomyAdapter(nk),
	}

	label, err := marshalLabel(MatchLabel{Open: 1, State: "idle"})
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}

	tickRate := 1
	return state, tickRate, label
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}

	if matchState.PlayerID != "" && matchState.PlayerID != presence.GetUserId() {
		return state, false, "Table occupied"
	}

	return state, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		matchState.Presences[p.GetUserId()] = p
		if matchState.PlayerID == "" {
			matchState.PlayerID = p.GetUserId()
			logger.Info("MatchJoin: User %s took the seat.", p.GetUserId())
		}
	}

	mh.updateLabel(matchState, dispatcher, logger)
	mh.broadcastTableState(ctx, matchState, dispatcher, logger)

	return matchState
}

// MatchLeave is called when the player disconnects. An abandoned round is
// forfeited by standing every remaining hand before settling.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		delete(matchState.Presences, p.GetUserId())
		if matchState.PlayerID == p.GetUserId() {
			logger.Debug("MatchLeave: Seated player %s left.", p.GetUserId())

			if matchState.Round != nil && matchState.Round.Phase == domain.RoundPlaying {
				mh.settleAbandonedRound(ctx, matchState, logger)
			}
			matchState.PlayerID = ""
		}
	}

	if matchState.PlayerID == "" {
		logger.Info("MatchLeave: Terminating empty table.")
		return nil
	}

	mh.updateLabel(matchState, dispatcher, logger)
	return matchState
}

// settleAbandonedRound stands out every remaining hand so the wallet is
// settled before the table closes.
func (mh *matchHandler) settleAbandonedRound(ctx context.Context, state *MatchState, logger runtime.Logger) {
	round := state.Round
	for round.Phase == domain.RoundPlaying {
		if err := round.Stand(); err != nil {
			logger.Error("settleAbandonedRound: %v", err)
			break
		}
	}
	payoffs := round.Settle()
	var net int64
	for _, p := range payoffs {
		net += p
	}
	mh.settleWallet(ctx, state, logger, net)
	state.Round = nil
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}

	matchState.Tick = tick

	for _, msg := range messages {
		if msg.GetUserId() != matchState.PlayerID {
			logger.Warn("MatchLoop: Message from non-seated user %s ignored.", msg.GetUserId())
			continue
		}

		switch msg.GetOpCode() {
		case OpPlaceBet:
			mh.handlePlaceBet(ctx, matchState, dispatcher, logger, msg)
		case OpHit:
			mh.handleAction(ctx, matchState, dispatcher, logger, msg, matchState.App.Hit)
		case OpStand:
			mh.handleAction(ctx, matchState, dispatcher, logger, msg, matchState.App.Stand)
		case OpDouble:
			mh.handleDouble(ctx, matchState, dispatcher, logger, msg)
		case OpSplit:
			mh.handleSplit(ctx, matchState, dispatcher, logger, msg)
		default:
			logger.Warn("MatchLoop: Unknown opcode received: %d", msg.GetOpCode())
		}
	}

	return matchState
}

func (mh *matchHandler) handlePlaceBet(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()

	if state.Round != nil && state.Round.Phase == domain.RoundPlaying {
		mh.sendError(state, dispatcher, logger, senderID, 400, "round already in progress")
		return
	}

	request := PlaceBetRequest{}
	if len(msg.GetData()) > 0 {
		if err := json.Unmarshal(msg.GetData(), &request); err != nil {
			logger.Warn("handlePlaceBet: Invalid request from %s: %v", senderID, err)
			mh.sendError(state, dispatcher, logger, senderID, 400, "invalid bet payload")
			return
		}
	}
	if request.Bet <= 0 {
		request.Bet = config.GetDefaultBet()
	}

	balance, err := state.Economy.GetBalance(ctx, senderID)
	if err != nil {
		logger.Error("handlePlaceBet: Failed to read balance for %s: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, 500, "balance unavailable")
		return
	}
	if balance < request.Bet {
		mh.sendError(state, dispatcher, logger, senderID, 400, "insufficient chips")
		return
	}

	round, events, err := state.App.StartRound(request.Bet, filtersFromWire(request.Filters))
	if err != nil {
		logger.Warn("handlePlaceBet: User %s failed to start round: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, 400, err.Error())
		return
	}

	state.Round = round
	mh.updateLabel(state, dispatcher, logger)

	for _, ev := range events {
		mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
	}
}

func (mh *matchHandler) handleAction(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData, action func(*domain.Round) ([]app.Event, error)) {
	senderID := msg.GetUserId()

	if state.Round == nil {
		mh.sendError(state, dispatcher, logger, senderID, 400, "no round in progress")
		return
	}

	events, err := action(state.Round)
	if err != nil {
		logger.Warn("handleAction: User %s action failed: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, 400, err.Error())
		return
	}

	for _, ev := range events {
		mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
	}
}

func (mh *matchHandler) handleDouble(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()

	if state.Round == nil {
		mh.sendError(state, dispatcher, logger, senderID, 400, "no round in progress")
		return
	}
	active := state.Round.ActiveHand()
	if active == nil {
		mh.sendError(state, dispatcher, logger, senderID, 400, "no active hand")
		return
	}

	// Doubling raises exposure by the active stake; the wallet must cover it.
	if !mh.canCover(ctx, state, logger, senderID, totalStakes(state.Round)+active.Stake) {
		mh.sendError(state, dispatcher, logger, senderID, 400, "insufficient chips to double")
		return
	}

	mh.handleAction(ctx, state, dispatcher, logger, msg, state.App.Double)
}

func (mh *matchHandler) handleSplit(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()

	if state.Round == nil {
		mh.sendError(state, dispatcher, logger, senderID, 400, "no round in progress")
		return
	}

	// Splitting adds a new hand at the table bet; the wallet must cover it.
	if !mh.canCover(ctx, state, logger, senderID, totalStakes(state.Round)+state.Round.Bet) {
		mh.sendError(state, dispatcher, logger, senderID, 400, "insufficient chips to split")
		return
	}

	mh.handleAction(ctx, state, dispatcher, logger, msg, state.App.Split)
}

func (mh *matchHandler) canCover(ctx context.Context, state *MatchState, logger runtime.Logger, userID string, amount int64) bool {
	balance, err := state.Economy.GetBalance(ctx, userID)
	if err != nil {
		logger.Error("canCover: Failed to read balance for %s: %v", userID, err)
		return false
	}
	return balance >= amount
}

// broadcastEvent converts an app event to its opcode and JSON payload. Round
// settlement also applies the net wallet change.
func (mh *matchHandler) broadcastEvent(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, ev app.Event) {
	var opCode int64

	switch ev.Kind {
	case app.EventPlayerJoined:
		opCode = OpPlayerJoined
	case app.EventPlayerLeft:
		opCode = OpPlayerLeft
	case app.EventRoundStarted:
		opCode = OpRoundStarted
	case app.EventActionApplied:
		opCode = OpActionApplied
	case app.EventRoundEnded:
		opCode = OpRoundEnded
		p := ev.Payload.(app.RoundEndedPayload)
		mh.settleWallet(ctx, state, logger, p.Net)
		state.Round = nil
		mh.updateLabel(state, dispatcher, logger)
	default:
		logger.Warn("Unknown event kind: %v", ev.Kind)
		return
	}

	bytes, err := json.Marshal(ev.Payload)
	if err != nil {
		logger.Error("Failed to marshal event %v: %v", ev.Kind, err)
		return
	}

	// Determine recipients (default to broadcast)
	var recipients []runtime.Presence
	if len(ev.Recipients) > 0 {
		for _, uid := range ev.Recipients {
			if p, ok := state.Presences[uid]; ok {
				recipients = append(recipients, p)
			}
		}
		if len(recipients) == 0 {
			return
		}
	}

	dispatcher.BroadcastMessage(opCode, bytes, recipients, nil, true)
}

// settleWallet applies the round's net result to the seated player's wallet.
func (mh *matchHandler) settleWallet(ctx context.Context, state *MatchState, logger runtime.Logger, net int64) {
	if state.Economy == nil || state.PlayerID == "" || net == 0 {
		return
	}
	updates := []ports.WalletUpdate{{
		UserID: state.PlayerID,
		Amount: net,
		Metadata: map[string]interface{}{
			"match_id": ctx.Value(runtime.RUNTIME_CTX_MATCH_ID),
			"reason":   "round_settlement",
		},
	}}
	if err := state.Economy.UpdateBalances(ctx, updates); err != nil {
		logger.Error("Failed to update balances: %v", err)
	}
}

func (mh *matchHandler) broadcastTableState(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	snapshot := TableStateSnapshot{
		PlayerID:  state.PlayerID,
		OpenSeats: state.GetOpenSeatsCount(),
		InRound:   state.Round != nil && state.Round.Phase == domain.RoundPlaying,
	}

	if state.Economy != nil && state.PlayerID != "" {
		balance, err := state.Economy.GetBalance(ctx, state.PlayerID)
		if err != nil {
			logger.Warn("broadcastTableState: Failed to read balance for %s: %v", state.PlayerID, err)
		} else {
			snapshot.Balance = balance
		}
	}

	bytes, err := json.Marshal(snapshot)
	if err != nil {
		logger.Error("broadcastTableState: Failed to marshal snapshot: %v", err)
		return
	}
	dispatcher.BroadcastMessage(OpTableState, bytes, nil, nil, true)
}

// sendError sends a TableErrorEvent to a specific user.
func (mh *matchHandler) sendError(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, code int, message string) {
	payload := TableErrorEvent{Code: code, Message: message}
	bytes, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Failed to marshal TableErrorEvent: %v", err)
		return
	}

	presence, ok := state.Presences[userID]
	if !ok {
		logger.Warn("Cannot send error to %s: Presence not found", userID)
		return
	}

	dispatcher.BroadcastMessage(OpTableError, bytes, []runtime.Presence{presence}, nil, true)
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	tableState := "idle"
	if state.Round != nil && state.Round.Phase == domain.RoundPlaying {
		tableState = "playing"
	}

	label, err := marshalLabel(MatchLabel{
		Open:  state.GetOpenSeatsCount(),
		State: tableState,
	})
	if err != nil {
		logger.Error("UpdateLabel: Failed to marshal: %v", err)
		return
	}
	if err := dispatcher.MatchLabelUpdate(label); err != nil {
		logger.Error("UpdateLabel: Failed to update: %v", err)
	}
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, reason int) interface{} {
	logger.Debug("MatchTerminate: Table terminated for reason %d", reason)
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}
