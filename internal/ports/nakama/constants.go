package nakama

const (
	// RpcFindTable is the Nakama RPC id clients call to find or create an open table.
	RpcFindTable = "find_table"

	// RpcExpectedValue runs a Monte Carlo EV estimate for a table state.
	RpcExpectedValue = "calculate_ev"

	// RpcAutoSimulate runs an auto-play session and returns the outcome table.
	RpcAutoSimulate = "auto_simulate"

	// RpcVoiceToken signs a voice token for the table channel.
	RpcVoiceToken = "voice_token"

	// MatchNameBlackjack is the authoritative match handler name registered with Nakama.
	MatchNameBlackjack = "blackjack_table"
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpPlaceBet int64 = 1
	OpHit      int64 = 2
	OpStand    int64 = 3
	OpDouble   int64 = 4
	OpSplit    int64 = 5

	// Server -> Client events
	OpPlayerJoined  int64 = 101
	OpPlayerLeft    int64 = 102
	OpRoundStarted  int64 = 103
	OpActionApplied int64 = 104
	OpRoundEnded    int64 = 105
	OpTableState    int64 = 106
	OpTableError    int64 = 107
)
