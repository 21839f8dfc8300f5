package ws

// Inbound message kinds.
const (
	MsgCreateRoom  = "create_room"
	MsgJoinRoom    = "join_room"
	MsgLeaveRoom   = "leave_room"
	MsgToggleReady = "toggle_ready"
	MsgStartGame   = "start_game"
	MsgSelectCard  = "select_card"
	MsgSubmitCard  = "submit_card"
	MsgSelectRow   = "select_row"
)

// ClientMessage is the inbound envelope. Fields beyond Type are filled only
// for the kinds that need them; RowIndex is a pointer because row 0 is a
// valid choice.
type ClientMessage struct {
	Type       string `json:"type"`
	PlayerName string `json:"playerName,omitempty"`
	RoomCode   string `json:"roomCode,omitempty"`
	CardNumber int    `json:"cardNumber,omitempty"`
	RowIndex   *int   `json:"rowIndex,omitempty"`
}
