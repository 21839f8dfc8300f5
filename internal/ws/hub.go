// Package ws bridges client websocket connections to the room layer. Each
// connection carries one session (one player in at most one room); the hub
// tracks which sessions belong to which room and backs the room's
// broadcast callbacks.
package ws

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/damdinovarya/6nimmt/internal/game"
)

const writeTimeout = 5 * time.Second

// session is the per-connection state: who this socket is and which room
// it sits in. Mutated only by the connection's own read loop.
type session struct {
	conn *websocket.Conn
	mu   sync.Mutex // serializes writes to conn

	playerID   uuid.UUID
	playerName string
	roomCode   string
}

// send writes one event to the connection. Write failures are left for the
// read loop to observe; a dead socket surfaces there as a read error.
func (s *session) send(ev game.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	_ = wsjson.Write(ctx, s.conn, ev)
}

func (s *session) sendError(err error) {
	s.send(game.Event{Type: game.EventRoomError, Data: game.RoomErrorPayload{Message: err.Error()}})
}

// Hub accepts websocket connections and routes their messages into the
// room registry.
type Hub struct {
	reg     *game.Registry
	log     *logrus.Logger
	origins []string

	mu      sync.RWMutex
	members map[string]map[uuid.UUID]*session // room code -> sessions
}

// NewHub wires a hub onto a registry.
func NewHub(reg *game.Registry, logger *logrus.Logger, originPatterns []string) *Hub {
	return &Hub{
		reg:     reg,
		log:     logger,
		origins: originPatterns,
		members: make(map[string]map[uuid.UUID]*session),
	}
}

// HandleWS upgrades the request and runs the connection's read loop until
// the client goes away. A dropped connection is treated as a leave.
func (h *Hub) HandleWS(w http.ResponseWriter, req *http.Request) {
	conn, err := websocket.Accept(w, req, &websocket.AcceptOptions{
		OriginPatterns: h.origins,
	})
	if err != nil {
		h.log.WithError(err).Warn("websocket accept failed")
		return
	}

	sess := &session{conn: conn}
	h.log.WithField("remote", req.RemoteAddr).Debug("connection opened")

	defer func() {
		h.handleLeave(sess)
		conn.Close(websocket.StatusNormalClosure, "bye")
		h.log.WithField("remote", req.RemoteAddr).Debug("connection closed")
	}()

	ctx := req.Context()
	for {
		var msg ClientMessage
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			return
		}
		h.dispatch(sess, msg)
	}
}

func (h *Hub) dispatch(sess *session, msg ClientMessage) {
	switch msg.Type {
	case MsgCreateRoom:
		h.handleCreate(sess, msg)
	case MsgJoinRoom:
		h.handleJoin(sess, msg)
	case MsgLeaveRoom:
		h.handleLeave(sess)
	case MsgToggleReady:
		h.withRoom(sess, func(r *game.Room) error { return r.ToggleReady(sess.playerID) })
	case MsgStartGame:
		h.withRoom(sess, func(r *game.Room) error { return r.StartGame(sess.playerID) })
	case MsgSelectCard:
		h.withRoom(sess, func(r *game.Room) error { return r.SelectCard(sess.playerID, msg.CardNumber) })
	case MsgSubmitCard:
		h.withRoom(sess, func(r *game.Room) error { return r.SubmitCard(sess.playerID) })
	case MsgSelectRow:
		h.withRoom(sess, func(r *game.Room) error {
			if msg.RowIndex == nil {
				return game.ErrInvalidRowIndex
			}
			return r.SelectRow(sess.playerID, *msg.RowIndex)
		})
	default:
		h.log.WithField("type", msg.Type).Debug("unknown message type")
		sess.send(game.Event{Type: game.EventRoomError, Data: game.RoomErrorPayload{Message: "unknown message type"}})
	}
}

func (h *Hub) handleCreate(sess *session, msg ClientMessage) {
	if sess.roomCode != "" {
		sess.send(game.Event{Type: game.EventRoomError, Data: game.RoomErrorPayload{Message: "leave your current room first"}})
		return
	}
	room, p, err := h.reg.CreateRoom(msg.PlayerName)
	if err != nil {
		sess.sendError(err)
		return
	}
	h.attach(room)
	sess.playerID = p.ID
	sess.playerName = p.Name
	sess.roomCode = room.Code
	h.addMember(room.Code, sess)

	h.log.WithFields(logrus.Fields{"room": room.Code, "player": p.Name}).Info("room created")
	sess.send(game.Event{Type: game.EventRoomCreated, Data: game.RoomCreatedPayload{RoomCode: room.Code, PlayerID: p.ID}})
	room.BroadcastState()
}

func (h *Hub) handleJoin(sess *session, msg ClientMessage) {
	if sess.roomCode != "" {
		sess.send(game.Event{Type: game.EventRoomError, Data: game.RoomErrorPayload{Message: "leave your current room first"}})
		return
	}
	room, p, err := h.reg.JoinRoom(msg.RoomCode, msg.PlayerName)
	if err != nil {
		sess.sendError(err)
		return
	}
	sess.playerID = p.ID
	sess.playerName = p.Name
	sess.roomCode = room.Code
	h.addMember(room.Code, sess)

	h.log.WithFields(logrus.Fields{"room": room.Code, "player": p.Name}).Info("player joined")
	sess.send(game.Event{Type: game.EventRoomJoined, Data: game.RoomJoinedPayload{RoomCode: room.Code, PlayerID: p.ID}})
	room.BroadcastState()
}

// handleLeave covers both the explicit leave_room message and a dropped
// connection. The session is detached before the room reacts, so the
// leaver does not receive the aftermath broadcasts.
func (h *Hub) handleLeave(sess *session) {
	if sess.roomCode == "" {
		return
	}
	code, playerID := sess.roomCode, sess.playerID
	h.removeMember(code, sess)
	sess.roomCode = ""
	sess.playerID = uuid.Nil

	h.reg.LeaveRoom(code, playerID)
	h.log.WithFields(logrus.Fields{"room": code, "player": sess.playerName}).Info("player left")
}

// withRoom runs an in-room action and reports any rejection back to the
// originating connection only.
func (h *Hub) withRoom(sess *session, fn func(*game.Room) error) {
	if sess.roomCode == "" {
		sess.sendError(game.ErrRoomNotFound)
		return
	}
	room, ok := h.reg.Get(sess.roomCode)
	if !ok {
		sess.sendError(game.ErrRoomNotFound)
		return
	}
	if err := fn(room); err != nil {
		sess.sendError(err)
	}
}

// attach points the room's broadcast callbacks at the hub's member table.
func (h *Hub) attach(room *game.Room) {
	code := room.Code
	room.Mu.Lock()
	room.BroadcastFn = func(ev game.Event) { h.broadcastToRoom(code, ev) }
	room.BroadcastToPlayerFn = func(playerID uuid.UUID, ev game.Event) { h.sendToPlayer(code, playerID, ev) }
	room.Mu.Unlock()
}

func (h *Hub) addMember(code string, sess *session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.members[code] == nil {
		h.members[code] = make(map[uuid.UUID]*session)
	}
	h.members[code][sess.playerID] = sess
}

func (h *Hub) removeMember(code string, sess *session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set := h.members[code]
	if set == nil {
		return
	}
	delete(set, sess.playerID)
	if len(set) == 0 {
		delete(h.members, code)
	}
}

func (h *Hub) broadcastToRoom(code string, ev game.Event) {
	h.mu.RLock()
	sessions := make([]*session, 0, len(h.members[code]))
	for _, s := range h.members[code] {
		sessions = append(sessions, s)
	}
	h.mu.RUnlock()

	for _, s := range sessions {
		s.send(ev)
	}
}

func (h *Hub) sendToPlayer(code string, playerID uuid.UUID, ev game.Event) {
	h.mu.RLock()
	s := h.members[code][playerID]
	h.mu.RUnlock()
	if s != nil {
		s.send(ev)
	}
}
