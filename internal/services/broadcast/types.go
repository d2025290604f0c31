package broadcast

import (
	"github.com/Miooowo/KCD-Dice-Game/internal/models"
)

// Outbound event names. These are the wire contract with the client and must
// not be renamed.
const (
	// EventMatched tells a findMatch caller which room it landed in
	EventMatched = "matched"

	// EventRoomCreated tells a createRoom caller its new room
	EventRoomCreated = "roomCreated"

	// EventRoomJoined tells a joinRoom caller the room it entered
	EventRoomJoined = "roomJoined"

	// EventJoinRoomError reports a failed explicit join to the requester only
	EventJoinRoomError = "joinRoomError"

	// EventRoomReady announces that the room reached two occupants
	EventRoomReady = "roomReady"

	// EventPlayerReadyUpdate announces a readiness change before the game starts
	EventPlayerReadyUpdate = "playerReadyUpdate"

	// EventGameStart announces the transition into play
	EventGameStart = "gameStart"

	// EventOpponentRolled relays a roll to the non-acting player
	EventOpponentRolled = "opponentRolled"

	// EventOpponentSelectedDice relays a dice selection to the non-acting player
	EventOpponentSelectedDice = "opponentSelectedDice"

	// EventOpponentKeptScore relays a kept score to the non-acting player
	EventOpponentKeptScore = "opponentKeptScore"

	// EventTurnChanged announces the next turn and both banked scores
	EventTurnChanged = "turnChanged"

	// EventOpponentBusted relays a bust to the non-acting player
	EventOpponentBusted = "opponentBusted"

	// EventGameEnd announces the winner and final scores
	EventGameEnd = "gameEnd"

	// EventPlayerDisconnected tells the remaining player its peer dropped but may return
	EventPlayerDisconnected = "playerDisconnected"

	// EventPlayerLeft tells the remaining player its peer is gone for good
	EventPlayerLeft = "playerLeft"
)

// RoomPayload is the body of matched, roomCreated and roomJoined events
type RoomPayload struct {
	RoomID  string           `json:"roomId"`
	IsHost  bool             `json:"isHost"`
	Players []*models.Player `json:"players"`
	Wager   models.Wager     `json:"wager"`
}

// RoomReadyPayload is the body of the roomReady event
type RoomReadyPayload struct {
	RoomID  string           `json:"roomId"`
	Players []*models.Player `json:"players"`
	Wager   models.Wager     `json:"wager"`
}

// PlayerReadyUpdatePayload is the body of the playerReadyUpdate event
type PlayerReadyUpdatePayload struct {
	Players []*models.Player `json:"players"`
}

// GameStartPayload is the body of the gameStart event
type GameStartPayload struct {
	RoomID    string            `json:"roomId"`
	GameState *models.GameState `json:"gameState"`
	Players   []*models.Player  `json:"players"`
}

// DicePayload is the body of opponentRolled and opponentSelectedDice events
type DicePayload struct {
	Dice        []models.Die `json:"dice"`
	PlayerIndex int          `json:"playerIndex"`
}

// KeptScorePayload is the body of the opponentKeptScore event
type KeptScorePayload struct {
	TurnScore   int `json:"turnScore"`
	PlayerIndex int `json:"playerIndex"`
}

// TurnChangedPayload is the body of the turnChanged event
type TurnChangedPayload struct {
	CurrentTurn int    `json:"currentTurn"`
	Scores      [2]int `json:"scores"`
}

// BustedPayload is the body of the opponentBusted event
type BustedPayload struct {
	CurrentTurn int `json:"currentTurn"`
}

// GameEndPayload is the body of the gameEnd event
type GameEndPayload struct {
	Winner int    `json:"winner"`
	Scores [2]int `json:"scores"`
}

// MessagePayload is the body of joinRoomError, playerDisconnected and
// playerLeft events
type MessagePayload struct {
	Message string `json:"message"`
}
