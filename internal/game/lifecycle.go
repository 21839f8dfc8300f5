package game

import (
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/damdinovarya/6nimmt/internal/engine"
)

// ToggleReady flips the member's ready flag and broadcasts the new state.
// Ready flags only mean anything in the lobby, so the toggle is rejected
// once a game is underway.
func (r *Room) ToggleReady(playerID uuid.UUID) error {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	p := r.playerByID(playerID)
	if p == nil {
		return ErrPlayerNotFound
	}
	if r.Game.Phase != PhaseWaiting {
		return ErrGameInProgress
	}
	p.Ready = !p.Ready
	r.logAction(playerID, "toggle_ready", map[string]interface{}{"ready": p.Ready})
	r.broadcastState()
	return nil
}

// StartGame moves the room from the lobby into the first round. Only the
// host may start, and only with at least two members, all ready. Scores are
// cleared, a fresh deck is dealt, and each member privately receives their
// hand.
func (r *Room) StartGame(playerID uuid.UUID) error {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	p := r.playerByID(playerID)
	if p == nil {
		return ErrPlayerNotFound
	}
	if !p.Host {
		return ErrNotHost
	}
	if r.Game.Phase != PhaseWaiting {
		return ErrGameInProgress
	}
	if len(r.Players) < 2 {
		return ErrNotEnoughOrNotReady
	}
	for _, member := range r.Players {
		if !member.Ready {
			return ErrNotEnoughOrNotReady
		}
	}

	r.Game = newGameState()
	r.Game.Phase = PhasePlaying

	seed := uint64(time.Now().UnixNano())
	hands, starters := engine.Deal(len(r.Players), engine.NewRand(seed))
	r.Game.Board = engine.NewBoard(starters)
	for seat, member := range r.Players {
		member.PenaltyScore = 0
		member.Hand = hands[seat]
		member.Selected = engine.NoCard
		member.Submitted = false
	}

	log.Printf("Room %s: game started with %d players.", r.Code, len(r.Players))
	r.logAction(playerID, "game_start", map[string]interface{}{"players": len(r.Players)})

	for _, member := range r.Players {
		r.sendHand(member)
	}
	r.fireEvent(Event{Type: EventGameStarted})
	r.broadcastState()
	return nil
}

// SelectCard marks one of the player's hand cards as their pending pick for
// this round. The pick stays revocable until SubmitCard commits it.
func (r *Room) SelectCard(playerID uuid.UUID, cardNumber int) error {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	p := r.playerByID(playerID)
	if p == nil {
		return ErrPlayerNotFound
	}
	if r.Game.Phase != PhasePlaying {
		return ErrRoundNotActive
	}
	if p.Submitted {
		return ErrAlreadySubmitted
	}
	card := engine.Card(cardNumber)
	if !holdsCard(p.Hand, card) {
		return ErrCardNotInHand
	}

	p.Selected = card
	r.broadcastState()
	return nil
}

// SubmitCard commits the player's pending pick: the card leaves the hand
// and joins the round submissions. Once the last member submits, the room
// enters the reveal phase and resolution is scheduled after the display
// delay.
func (r *Room) SubmitCard(playerID uuid.UUID) error {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	p := r.playerByID(playerID)
	if p == nil {
		return ErrPlayerNotFound
	}
	if r.Game.Phase != PhasePlaying {
		return ErrRoundNotActive
	}
	if p.Submitted {
		return ErrAlreadySubmitted
	}
	if p.Selected == engine.NoCard {
		return ErrNoCardSelected
	}
	idx := indexOfCard(p.Hand, p.Selected)
	if idx < 0 {
		return ErrCardNotInHand
	}

	card := p.Hand[idx]
	p.Hand = append(p.Hand[:idx], p.Hand[idx+1:]...)
	p.Submitted = true
	p.Selected = engine.NoCard
	r.Game.Submissions = append(r.Game.Submissions, engine.Submission{
		Seat: uint8(r.seatOf(playerID)),
		Card: card,
	})
	r.logAction(playerID, "submit_card", nil)
	r.sendHand(p)

	if r.allSubmitted() {
		r.Game.Phase = PhaseRevealing
		r.Game.Resolution = engine.NewResolution(r.Game.Submissions)
		r.broadcastState()
		r.scheduleResolve()
		return nil
	}
	r.broadcastState()
	return nil
}

// SelectRow resolves a forced selection: the pending selector claims a row,
// absorbs its penalty, and the suspended resolution resumes against the
// updated rows.
func (r *Room) SelectRow(playerID uuid.UUID, rowIndex int) error {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	if r.Game.Phase != PhaseForcedSelection || r.Game.PendingSelector != playerID {
		return ErrNotYourTurnToSelect
	}
	if rowIndex < 0 || rowIndex >= engine.NumRows {
		return ErrInvalidRowIndex
	}
	p := r.playerByID(playerID)
	if p == nil {
		return ErrPlayerNotFound
	}

	penalty := r.Game.Board.Claim(rowIndex, r.Game.pendingCard)
	p.PenaltyScore += penalty
	r.Game.PendingSelector = uuid.Nil
	r.Game.pendingCard = engine.NoCard

	log.Printf("Room %s: %s claimed row %d for %d penalty.", r.Code, p.Name, rowIndex, penalty)
	r.logAction(playerID, "select_row", map[string]interface{}{"row": rowIndex, "penalty": penalty})

	r.continueResolution()
	return nil
}

// scheduleResolve arms the reveal display delay. The deferred resolution
// targets the room by code and generation; the registry re-validates both,
// plus the phase, before anything is mutated, so a timer that outlives an
// abort or room destruction fires into nothing.
// Assumes lock is held by caller.
func (r *Room) scheduleResolve() {
	r.revealGen++
	gen := r.revealGen
	code := r.Code
	reg := r.registry
	r.revealTimer = time.AfterFunc(r.revealDelay, func() {
		reg.resolveAfterReveal(code, gen)
	})
}

// cancelReveal invalidates any pending deferred resolution.
// Assumes lock is held by caller.
func (r *Room) cancelReveal() {
	r.revealGen++
	if r.revealTimer != nil {
		r.revealTimer.Stop()
		r.revealTimer = nil
	}
}

// continueResolution runs the round resolution until it either completes
// or suspends on a forced selection. Row takes along the way are charged to
// the placing players. Assumes lock is held by caller.
func (r *Room) continueResolution() {
	placed, forced := r.Game.Resolution.Run(&r.Game.Board)
	for _, pl := range placed {
		if !pl.TookRow {
			continue
		}
		taker := r.Players[pl.Seat]
		taker.PenaltyScore += pl.Penalty
		log.Printf("Room %s: %s took row %d for %d penalty (card %d).", r.Code, taker.Name, pl.Row, pl.Penalty, pl.Card)
		r.logAction(taker.ID, "row_taken", map[string]interface{}{"row": pl.Row, "penalty": pl.Penalty, "card": int(pl.Card)})
	}

	if forced != nil {
		selector := r.Players[forced.Seat]
		r.Game.Phase = PhaseForcedSelection
		r.Game.PendingSelector = selector.ID
		r.Game.pendingCard = forced.Card
		log.Printf("Room %s: %s must select a row (card %d fits nowhere).", r.Code, selector.Name, forced.Card)
		r.logAction(selector.ID, "forced_selection", map[string]interface{}{"card": int(forced.Card)})
		r.broadcastState()
		return
	}
	r.finishRound()
}

// finishRound advances to the next round or ends the game once the last
// round resolved. Assumes lock is held by caller.
func (r *Room) finishRound() {
	r.Game.Round++
	r.Game.Resolution = nil
	r.Game.Submissions = nil
	r.Game.PendingSelector = uuid.Nil
	r.Game.pendingCard = engine.NoCard

	if r.Game.Round > r.Game.MaxRounds {
		r.Game.Phase = PhaseFinished
		winner := r.computeWinner()
		var pub *PublicPlayer
		if winner != nil {
			w := publicPlayer(winner)
			pub = &w
			log.Printf("Room %s: game over, %s wins with %d penalty.", r.Code, winner.Name, winner.PenaltyScore)
		}
		r.logAction(uuid.Nil, "game_over", nil)
		r.fireEvent(Event{Type: EventGameOver, Data: GameOverPayload{Winner: pub}})
		r.broadcastState()
		return
	}

	r.Game.Phase = PhasePlaying
	for _, member := range r.Players {
		member.Submitted = false
		member.Selected = engine.NoCard
	}
	r.broadcastState()
}

// computeWinner returns the member with the lowest penalty score. Ties go
// to the earlier joiner. Assumes lock is held by caller.
func (r *Room) computeWinner() *Player {
	var winner *Player
	for _, p := range r.Players {
		if winner == nil || p.PenaltyScore < winner.PenaltyScore {
			winner = p
		}
	}
	return winner
}

// abort resets an interrupted game back to the lobby: fresh game state,
// zeroed scores, cleared hands and ready flags. The pending reveal, if any,
// is invalidated. Assumes lock is held by caller.
func (r *Room) abort(reason string) {
	r.cancelReveal()
	r.Game = newGameState()
	for _, member := range r.Players {
		member.PenaltyScore = 0
		member.Hand = nil
		member.Selected = engine.NoCard
		member.Submitted = false
		member.Ready = false
	}
	log.Printf("Room %s: game aborted: %s", r.Code, reason)
	r.logAction(uuid.Nil, "game_aborted", map[string]interface{}{"reason": reason})
	r.fireEvent(Event{Type: EventGameAborted, Data: GameAbortedPayload{Reason: reason}})
	r.broadcastState()
}

func holdsCard(hand []engine.Card, card engine.Card) bool {
	return indexOfCard(hand, card) >= 0
}

func indexOfCard(hand []engine.Card, card engine.Card) int {
	for i, c := range hand {
		if c == card {
			return i
		}
	}
	return -1
}
