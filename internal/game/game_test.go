package game

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// mockBroadcaster captures room events for testing assertions.
type mockBroadcaster struct {
	mu           sync.Mutex
	allEvents    []Event
	playerEvents map[uuid.UUID][]Event
}

func newMockBroadcaster() *mockBroadcaster {
	return &mockBroadcaster{
		playerEvents: make(map[uuid.UUID][]Event),
	}
}

func (mb *mockBroadcaster) broadcastFn(ev Event) {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	mb.allEvents = append(mb.allEvents, ev)
}

func (mb *mockBroadcaster) broadcastToPlayerFn(playerID uuid.UUID, ev Event) {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	mb.playerEvents[playerID] = append(mb.playerEvents[playerID], ev)
}

func (mb *mockBroadcaster) findEventByType(eventType EventType) *Event {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	for i := len(mb.allEvents) - 1; i >= 0; i-- {
		if mb.allEvents[i].Type == eventType {
			return &mb.allEvents[i]
		}
	}
	return nil
}

func (mb *mockBroadcaster) lastPlayerEvent(playerID uuid.UUID, eventType EventType) *Event {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	events := mb.playerEvents[playerID]
	for i := len(events) - 1; i >= 0; i-- {
		if events[i].Type == eventType {
			return &events[i]
		}
	}
	return nil
}

// attach wires the mock onto a room in place of the transport layer.
func (mb *mockBroadcaster) attach(r *Room) {
	r.Mu.Lock()
	r.BroadcastFn = mb.broadcastFn
	r.BroadcastToPlayerFn = mb.broadcastToPlayerFn
	r.Mu.Unlock()
}

// testRevealDelay is long enough that reveal timers never fire on their
// own during a test; resolution is driven manually via forceResolve.
const testRevealDelay = time.Hour

// setupRoom creates a registry-backed room with n members and a mock
// broadcaster attached.
func setupRoom(n int) (*Registry, *Room, []*Player, *mockBroadcaster) {
	reg := NewRegistry(10, testRevealDelay)
	room, host, _ := reg.CreateRoom("player-0")
	players := []*Player{host}
	for i := 1; i < n; i++ {
		_, p, _ := reg.JoinRoom(room.Code, "player-"+string(rune('0'+i)))
		players = append(players, p)
	}
	mb := newMockBroadcaster()
	mb.attach(room)
	return reg, room, players, mb
}

// startGame readies everyone and starts the game as the host.
func startGame(room *Room, players []*Player) {
	for _, p := range players {
		_ = room.ToggleReady(p.ID)
	}
	_ = room.StartGame(players[0].ID)
}

// forceResolve fires the pending reveal resolution immediately, standing in
// for the display-delay timer.
func forceResolve(reg *Registry, room *Room) {
	room.Mu.Lock()
	gen := room.revealGen
	room.Mu.Unlock()
	reg.resolveAfterReveal(room.Code, gen)
}
