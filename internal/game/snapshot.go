package game

import (
	"github.com/google/uuid"

	"github.com/damdinovarya/6nimmt/internal/engine"
)

// cardInfo converts a card to its wire form.
func cardInfo(c engine.Card) CardInfo {
	return CardInfo{Number: int(c), PenaltyWeight: c.Penalty()}
}

func cardInfos(cards []engine.Card) []CardInfo {
	out := make([]CardInfo, len(cards))
	for i, c := range cards {
		out[i] = cardInfo(c)
	}
	return out
}

func publicPlayer(p *Player) PublicPlayer {
	return PublicPlayer{
		ID:           p.ID,
		Name:         p.Name,
		IsReady:      p.Ready,
		IsHost:       p.Host,
		PenaltyScore: p.PenaltyScore,
		HasSubmitted: p.Submitted,
	}
}

// publicPlayers returns the shared view of every member, in join order.
// Assumes lock is held by caller.
func (r *Room) publicPlayers() []PublicPlayer {
	out := make([]PublicPlayer, len(r.Players))
	for i, p := range r.Players {
		out[i] = publicPlayer(p)
	}
	return out
}

// publicGameState returns the shared view of the game. Submitted card
// identities are included only during the reveal; in every other phase the
// submission list shows who has committed, not what.
// Assumes lock is held by caller.
func (r *Room) publicGameState() PublicGameState {
	gs := PublicGameState{
		Phase:      r.Game.Phase,
		Rows:       make([][]CardInfo, 0, engine.NumRows),
		RoundCards: make([]PublicSubmission, 0, len(r.Game.Submissions)),
		Round:      r.Game.Round,
		MaxRounds:  r.Game.MaxRounds,
	}

	if r.Game.Phase != PhaseWaiting {
		for _, row := range r.Game.Board.Rows {
			gs.Rows = append(gs.Rows, cardInfos(row))
		}
	}

	reveal := r.Game.Phase == PhaseRevealing
	for _, sub := range r.Game.Submissions {
		ps := PublicSubmission{PlayerID: r.Players[sub.Seat].ID}
		if reveal {
			ci := cardInfo(sub.Card)
			ps.Card = &ci
		}
		gs.RoundCards = append(gs.RoundCards, ps)
	}

	if r.Game.PendingSelector != uuid.Nil {
		selector := r.Game.PendingSelector
		gs.PendingSelector = &selector
	}
	return gs
}

// broadcastState sends the current room snapshot to every member.
// Assumes lock is held by caller.
func (r *Room) broadcastState() {
	r.fireEvent(Event{
		Type: EventRoomState,
		Data: RoomStatePayload{
			Players:   r.publicPlayers(),
			GameState: r.publicGameState(),
			RoomCode:  r.Code,
		},
	})
}

// BroadcastState publishes the room snapshot. Used by the transport layer
// right after a member's connection is attached.
func (r *Room) BroadcastState() {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	r.broadcastState()
}

// sendHand sends a member their own cards.
// Assumes lock is held by caller.
func (r *Room) sendHand(p *Player) {
	r.fireEventToPlayer(p.ID, Event{
		Type: EventPrivateHand,
		Data: PrivateHandPayload{Cards: cardInfos(p.Hand)},
	})
}
