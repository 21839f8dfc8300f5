package game

import "github.com/google/uuid"

// EventType represents the type of a room-related event sent to clients.
type EventType string

// Constants defining the outbound event kinds.
const (
	EventRoomCreated EventType = "room_created" // To creator: code and player id.
	EventRoomJoined  EventType = "room_joined"  // To joiner: code and player id.
	EventRoomError   EventType = "room_error"   // Private: a rejected action.
	EventRoomState   EventType = "room_state"   // Public: full room snapshot.
	EventGameStarted EventType = "game_started" // Public: game left the lobby.
	EventPrivateHand EventType = "private_hand" // Private: the player's own hand.
	EventGameOver    EventType = "game_over"    // Public: final winner.
	EventGameAborted EventType = "game_aborted" // Public: game reset to lobby.
	EventPlayerLeft  EventType = "player_left"  // Public: a player left the room.
)

// Event is the standard structure for everything the room emits toward the
// transport layer.
type Event struct {
	Type EventType   `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// CardInfo is the wire form of a card.
type CardInfo struct {
	Number        int `json:"number"`
	PenaltyWeight int `json:"penaltyWeight"`
}

// PublicPlayer is a player as every room member may see them: no hand and
// no pending selection.
type PublicPlayer struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	IsReady      bool      `json:"isReady"`
	IsHost       bool      `json:"isHost"`
	PenaltyScore int       `json:"penaltyScore"`
	HasSubmitted bool      `json:"hasSubmitted"`
}

// PublicSubmission shows who has a card in this round. Card is set only
// while the round is being revealed.
type PublicSubmission struct {
	PlayerID uuid.UUID `json:"playerId"`
	Card     *CardInfo `json:"card,omitempty"`
}

// PublicGameState is the shared view of a game: rows and round progress,
// without the undealt deck or hidden submissions.
type PublicGameState struct {
	Phase           Phase              `json:"phase"`
	Rows            [][]CardInfo       `json:"rows"`
	RoundCards      []PublicSubmission `json:"roundSubmissions"`
	PendingSelector *uuid.UUID         `json:"pendingSelector,omitempty"`
	Round           int                `json:"round"`
	MaxRounds       int                `json:"maxRounds"`
}

// RoomStatePayload is broadcast to all members after every state-affecting
// action.
type RoomStatePayload struct {
	Players   []PublicPlayer  `json:"players"`
	GameState PublicGameState `json:"gameState"`
	RoomCode  string          `json:"roomCode"`
}

// RoomCreatedPayload answers a create_room request.
type RoomCreatedPayload struct {
	RoomCode string    `json:"roomCode"`
	PlayerID uuid.UUID `json:"playerId"`
}

// RoomJoinedPayload answers a join_room request.
type RoomJoinedPayload struct {
	RoomCode string    `json:"roomCode"`
	PlayerID uuid.UUID `json:"playerId"`
}

// RoomErrorPayload carries a human-readable rejection back to the
// originating connection.
type RoomErrorPayload struct {
	Message string `json:"message"`
}

// PrivateHandPayload carries a player's own cards. Sent individually,
// never broadcast.
type PrivateHandPayload struct {
	Cards []CardInfo `json:"cards"`
}

// GameOverPayload carries the winner, nil if the room emptied out.
type GameOverPayload struct {
	Winner *PublicPlayer `json:"winner"`
}

// GameAbortedPayload explains why an active game was reset to the lobby.
type GameAbortedPayload struct {
	Reason string `json:"reason"`
}

// PlayerLeftPayload names the player who left.
type PlayerLeftPayload struct {
	PlayerName string `json:"playerName"`
}
