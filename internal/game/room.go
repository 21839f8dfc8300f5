// Package game owns the per-room state machine of a 6 nimmt! match: the
// lobby, the round lifecycle, forced row selection, and the registry of
// active rooms. All mutation of one room happens under its mutex; the pure
// placement rules live in internal/engine.
package game

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/damdinovarya/6nimmt/internal/cache"
	"github.com/damdinovarya/6nimmt/internal/engine"
)

// Phase enumerates the room lifecycle states.
type Phase uint8

const (
	PhaseWaiting Phase = iota
	PhasePlaying
	PhaseRevealing
	PhaseForcedSelection
	PhaseFinished
)

// String returns the wire name of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseWaiting:
		return "waiting"
	case PhasePlaying:
		return "playing"
	case PhaseRevealing:
		return "revealing"
	case PhaseForcedSelection:
		return "forcedSelection"
	case PhaseFinished:
		return "finished"
	}
	return fmt.Sprintf("phase(%d)", uint8(p))
}

// MarshalJSON encodes the phase as its wire name.
func (p Phase) MarshalJSON() ([]byte, error) {
	return []byte(`"` + p.String() + `"`), nil
}

// Player is one room member. Hand and Selected are private to the player;
// everything else is visible to the whole room.
type Player struct {
	ID           uuid.UUID
	Name         string
	Ready        bool
	Host         bool
	PenaltyScore int
	Hand         []engine.Card
	Selected     engine.Card // NoCard when nothing is picked.
	Submitted    bool
}

// GameState is the per-match state. It is allocated fresh at game start and
// reset wholesale on abort; it is never partially reused across games.
type GameState struct {
	Phase       Phase
	Board       engine.Board
	Submissions []engine.Submission // submit order; seats index Room.Players
	Resolution  *engine.Resolution  // non-nil from reveal until round end

	// PendingSelector is set if and only if Phase is PhaseForcedSelection.
	PendingSelector uuid.UUID
	pendingCard     engine.Card // the card that triggered the forced state

	Round     int
	MaxRounds int
}

func newGameState() GameState {
	return GameState{
		Phase:     PhaseWaiting,
		Round:     1,
		MaxRounds: engine.MaxRounds,
	}
}

// Room is one match: members, game state, and the serialization boundary.
// Every exported method locks Mu for its whole duration, so no two
// operations on the same room ever interleave.
type Room struct {
	Code       string
	MaxPlayers int
	Players    []*Player // join order; seat indices during a game
	Game       GameState

	Mu sync.Mutex

	registry    *Registry
	destroyed   bool
	revealDelay time.Duration
	revealTimer *time.Timer
	revealGen   int // bumped whenever a pending reveal must not fire
	actionIndex int

	// Communication callbacks, wired by the transport layer.
	BroadcastFn         func(ev Event)
	BroadcastToPlayerFn func(playerID uuid.UUID, ev Event)
}

// playerByID finds a member by ID. Returns nil if not found.
// Assumes lock is held by caller.
func (r *Room) playerByID(playerID uuid.UUID) *Player {
	for _, p := range r.Players {
		if p.ID == playerID {
			return p
		}
	}
	return nil
}

// seatOf returns the seat index of a member, or -1.
// Assumes lock is held by caller.
func (r *Room) seatOf(playerID uuid.UUID) int {
	for i, p := range r.Players {
		if p.ID == playerID {
			return i
		}
	}
	return -1
}

// allSubmitted reports whether every member has a card in this round.
// Assumes lock is held by caller.
func (r *Room) allSubmitted() bool {
	for _, p := range r.Players {
		if !p.Submitted {
			return false
		}
	}
	return true
}

// fireEvent broadcasts an event to all connected members via BroadcastFn.
// Assumes lock is held by caller.
func (r *Room) fireEvent(ev Event) {
	if r.BroadcastFn == nil {
		log.Printf("Warning: Room %s: BroadcastFn is nil, cannot broadcast event type %s.", r.Code, ev.Type)
		return
	}
	r.BroadcastFn(ev)
}

// fireEventToPlayer sends an event to a single member via
// BroadcastToPlayerFn. Assumes lock is held by caller.
func (r *Room) fireEventToPlayer(playerID uuid.UUID, ev Event) {
	if r.BroadcastToPlayerFn == nil {
		log.Printf("Warning: Room %s: BroadcastToPlayerFn is nil, cannot send private event type %s.", r.Code, ev.Type)
		return
	}
	r.BroadcastToPlayerFn(playerID, ev)
}

// logAction publishes action details to the Redis audit stream, if one is
// configured. Increments the per-room action index for ordering.
// Assumes lock is held by caller.
func (r *Room) logAction(actorID uuid.UUID, actionType string, payload map[string]interface{}) {
	r.actionIndex++
	rec := cache.RoomActionRecord{
		RoomCode:    r.Code,
		ActionIndex: r.actionIndex,
		ActionType:  actionType,
		Payload:     payload,
		Timestamp:   time.Now().UnixMilli(),
	}
	if actorID != uuid.Nil {
		rec.ActorID = actorID.String()
	}

	// Asynchronously publish; the room never blocks on Redis.
	go func(rec cache.RoomActionRecord) {
		if cache.Rdb == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := cache.PublishRoomAction(ctx, rec); err != nil {
			log.Printf("Error: Room %s: failed publishing action %d (%s) to Redis: %v", rec.RoomCode, rec.ActionIndex, rec.ActionType, err)
		}
	}(rec)
}
