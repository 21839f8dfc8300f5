package game

import (
	"fmt"
	"log"
	"math/rand/v2"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength   = 6

	maxNameLength = 20
)

// ValidateName checks the player name length constraint.
func ValidateName(name string) error {
	n := utf8.RuneCountInString(name)
	if n < 1 || n > maxNameLength {
		return ErrInvalidName
	}
	return nil
}

// Registry is the process-wide table of active rooms, keyed by room code.
// The registry guards only the table itself; every room carries its own
// mutex, so rooms execute fully independently of each other.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*Room

	maxPlayers  int
	revealDelay time.Duration
}

// NewRegistry creates an empty registry. maxPlayers caps room membership
// and revealDelay is how long revealed cards stay on display before
// resolution runs.
func NewRegistry(maxPlayers int, revealDelay time.Duration) *Registry {
	return &Registry{
		rooms:       make(map[string]*Room),
		maxPlayers:  maxPlayers,
		revealDelay: revealDelay,
	}
}

// CreateRoom registers a new room with the creator as its host.
func (reg *Registry) CreateRoom(playerName string) (*Room, *Player, error) {
	if err := ValidateName(playerName); err != nil {
		return nil, nil, err
	}

	host := &Player{
		ID:   uuid.New(),
		Name: playerName,
		Host: true,
	}

	reg.mu.Lock()
	code := reg.generateCode()
	room := &Room{
		Code:        code,
		MaxPlayers:  reg.maxPlayers,
		Players:     []*Player{host},
		Game:        newGameState(),
		registry:    reg,
		revealDelay: reg.revealDelay,
	}
	reg.rooms[code] = room
	reg.mu.Unlock()

	log.Printf("Room %s: created by %s.", code, playerName)
	return room, host, nil
}

// Get looks up a live room by code.
func (reg *Registry) Get(code string) (*Room, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	room, ok := reg.rooms[code]
	return room, ok
}

// Count returns the number of live rooms.
func (reg *Registry) Count() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return len(reg.rooms)
}

// JoinRoom adds a player to an existing room. Joining is only possible
// while the room is waiting in the lobby.
func (reg *Registry) JoinRoom(code, playerName string) (*Room, *Player, error) {
	if err := ValidateName(playerName); err != nil {
		return nil, nil, err
	}
	room, ok := reg.Get(code)
	if !ok {
		return nil, nil, ErrRoomNotFound
	}

	room.Mu.Lock()
	defer room.Mu.Unlock()
	if room.destroyed {
		return nil, nil, ErrRoomNotFound
	}
	if room.Game.Phase != PhaseWaiting {
		return nil, nil, ErrGameInProgress
	}
	if len(room.Players) >= room.MaxPlayers {
		return nil, nil, ErrRoomFull
	}

	p := &Player{
		ID:   uuid.New(),
		Name: playerName,
	}
	room.Players = append(room.Players, p)
	room.logAction(p.ID, "player_join", map[string]interface{}{"name": playerName})
	log.Printf("Room %s: %s joined (%d/%d).", code, playerName, len(room.Players), room.MaxPlayers)
	return room, p, nil
}

// LeaveRoom removes a player, by explicit leave or by disconnect. An empty
// room is destroyed; otherwise the host role is reassigned if the leaver
// held it. Leaving an active game additionally aborts it for everyone else.
func (reg *Registry) LeaveRoom(code string, playerID uuid.UUID) {
	room, ok := reg.Get(code)
	if !ok {
		return
	}

	room.Mu.Lock()
	idx := room.seatOf(playerID)
	if idx < 0 {
		room.Mu.Unlock()
		return
	}
	leaver := room.Players[idx]
	wasActive := room.Game.Phase != PhaseWaiting
	wasHost := leaver.Host

	room.Players = append(room.Players[:idx], room.Players[idx+1:]...)
	room.logAction(playerID, "player_leave", map[string]interface{}{"name": leaver.Name})

	if len(room.Players) == 0 {
		room.destroyed = true
		room.cancelReveal()
		room.Mu.Unlock()
		reg.remove(code)
		return
	}

	// The room must always have exactly one host while non-empty, no
	// matter which phase the leave interrupted.
	if wasHost {
		room.Players[0].Host = true
		log.Printf("Room %s: host left, %s promoted.", code, room.Players[0].Name)
	}

	if wasActive {
		room.abort(fmt.Sprintf("%s left the game", leaver.Name))
		room.fireEvent(Event{Type: EventPlayerLeft, Data: PlayerLeftPayload{PlayerName: leaver.Name}})
		room.Mu.Unlock()
		return
	}

	room.fireEvent(Event{Type: EventPlayerLeft, Data: PlayerLeftPayload{PlayerName: leaver.Name}})
	room.broadcastState()
	room.Mu.Unlock()
}

// resolveAfterReveal is the deferred half of the reveal phase, fired by the
// per-room timer. The room is re-resolved by code and the generation and
// phase re-checked, so a stale timer never mutates anything.
func (reg *Registry) resolveAfterReveal(code string, gen int) {
	room, ok := reg.Get(code)
	if !ok {
		return
	}

	room.Mu.Lock()
	defer room.Mu.Unlock()
	if room.destroyed || room.revealGen != gen || room.Game.Phase != PhaseRevealing {
		return
	}
	room.revealTimer = nil
	room.continueResolution()
}

// remove deletes a destroyed room from the table.
func (reg *Registry) remove(code string) {
	reg.mu.Lock()
	delete(reg.rooms, code)
	reg.mu.Unlock()
	log.Printf("Room %s: destroyed (empty).", code)
}

// generateCode returns a 6-character [A-Z0-9] code unique among live
// rooms. Assumes reg.mu is held by caller.
func (reg *Registry) generateCode() string {
	buf := make([]byte, codeLength)
	for {
		for i := range buf {
			buf[i] = codeAlphabet[rand.IntN(len(codeAlphabet))]
		}
		code := string(buf)
		if _, exists := reg.rooms[code]; !exists {
			return code
		}
	}
}
