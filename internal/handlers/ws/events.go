package ws

import (
	"encoding/json"

	"github.com/Miooowo/KCD-Dice-Game/internal/models"
)

// Inbound event names. These are the wire contract with the client and must
// not be renamed.
const (
	eventFindMatch   = "findMatch"
	eventCreateRoom  = "createRoom"
	eventJoinRoom    = "joinRoom"
	eventPlayerReady = "playerReady"
	eventRollDice    = "rollDice"
	eventSelectDice  = "selectDice"
	eventKeepScore   = "keepScore"
	eventBankScore   = "bankScore"
	eventBust        = "bust"
	eventLeaveRoom   = "leaveRoom"
)

// envelope wraps every message in both directions: an event name for routing
// and an opaque payload decoded per event
type envelope struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// outbound is a queued server-to-client message; Payload is marshaled when
// the write pump sends it
type outbound struct {
	Event   string `json:"event"`
	Payload any    `json:"payload"`
}

// matchRequest is the body of findMatch and createRoom
type matchRequest struct {
	PlayerID   string            `json:"persistentId"`
	Name       string            `json:"name"`
	Wager      models.Wager      `json:"wager"`
	DiceConfig []models.DiceKind `json:"diceConfig"`
}

// joinRequest is the body of joinRoom
type joinRequest struct {
	RoomID     string            `json:"roomId"`
	PlayerID   string            `json:"persistentId"`
	Name       string            `json:"name"`
	Wager      models.Wager      `json:"wager"`
	DiceConfig []models.DiceKind `json:"diceConfig"`
}

// roomRequest is the body of playerReady and bust
type roomRequest struct {
	RoomID string `json:"roomId"`
}

// rollRequest is the body of rollDice
type rollRequest struct {
	RoomID     string            `json:"roomId"`
	DiceValues []int             `json:"diceValues"`
	DiceKinds  []models.DiceKind `json:"diceKinds"`
}

// selectRequest is the body of selectDice
type selectRequest struct {
	RoomID          string `json:"roomId"`
	SelectedIndices []int  `json:"selectedIndices"`
}

// scoreRequest is the body of keepScore and bankScore
type scoreRequest struct {
	RoomID string `json:"roomId"`
	Score  int    `json:"score"`
}

// leaveRequest is the body of leaveRoom
type leaveRequest struct {
	PlayerID string `json:"persistentId"`
}
