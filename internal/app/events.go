package app

import "blackjack/internal/domain"

// EventKind identifies emitted domain events for Nakama dispatch.
type EventKind string

const (
	EventPlayerJoined  EventKind = "player_joined"
	EventPlayerLeft    EventKind = "player_left"
	EventRoundStarted  EventKind = "round_started"
	EventActionApplied EventKind = "action_applied"
	EventRoundEnded    EventKind = "round_ended"
)

// Event is a domain/app event with optional targeted recipients.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []string // user IDs; empty means broadcast
}

// HandState is the wire view of one player sub-hand.
type HandState struct {
	Cards   []domain.Card `json:"cards"`
	Total   int           `json:"total"`
	Stake   int64         `json:"stake"`
	Doubled bool          `json:"doubled"`
	Busted  bool          `json:"busted"`
}

type PlayerJoinedPayload struct {
	UserID string `json:"user_id"`
}

type PlayerLeftPayload struct {
	UserID string `json:"user_id"`
}

type RoundStartedPayload struct {
	Bet          int64       `json:"bet"`
	Hands        []HandState `json:"hands"`
	DealerUpcard domain.Card `json:"dealer_upcard"`
}

type ActionAppliedPayload struct {
	Action     string      `json:"action"`
	HandIndex  int         `json:"hand_index"`
	Hands      []HandState `json:"hands"`
	ActiveHand int         `json:"active_hand"`
}

type RoundEndedPayload struct {
	Hands   []HandState `json:"hands"`
	Dealer  HandState   `json:"dealer"`
	Payoffs []int64     `json:"payoffs"`
	Net     int64       `json:"net"`
	Natural bool        `json:"natural"`
}
