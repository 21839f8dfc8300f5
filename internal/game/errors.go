package game

import "errors"

// Player-scoped rule violations. All of them are recoverable: a failed
// guard is reported to the offending connection only and leaves room state
// untouched. None of them is ever fatal to the process.
var (
	ErrInvalidName         = errors.New("name must be 1 to 20 characters")
	ErrRoomNotFound        = errors.New("room not found")
	ErrRoomFull            = errors.New("room is full")
	ErrGameInProgress      = errors.New("game already in progress")
	ErrNotHost             = errors.New("only the host can start the game")
	ErrNotEnoughOrNotReady = errors.New("need at least 2 players and everyone ready")
	ErrCardNotInHand       = errors.New("you do not hold that card")
	ErrAlreadySubmitted    = errors.New("you already submitted a card this round")
	ErrNoCardSelected      = errors.New("select a card first")
	ErrInvalidRowIndex     = errors.New("invalid row index")
	ErrNotYourTurnToSelect = errors.New("it is not your turn to select a row")

	// ErrRoundNotActive rejects card actions outside the playing phase,
	// e.g. a select_card arriving while cards are being revealed.
	ErrRoundNotActive = errors.New("no card can be played right now")

	// ErrPlayerNotFound guards against actions from stale sessions whose
	// player is no longer part of the room.
	ErrPlayerNotFound = errors.New("player is not in this room")
)
