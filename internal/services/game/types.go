package game

import (
	"github.com/Miooowo/KCD-Dice-Game/internal/common/clock"
	"github.com/Miooowo/KCD-Dice-Game/internal/common/keymutex"
	"github.com/Miooowo/KCD-Dice-Game/internal/models"
	roomRepo "github.com/Miooowo/KCD-Dice-Game/internal/repositories/room"
	"github.com/Miooowo/KCD-Dice-Game/internal/services/broadcast"
)

// Config holds configuration for the game service
type Config struct {
	// DefaultTargetScore is used when a room's wager carries no target.
	// Zero falls back to the model default of 4000.
	DefaultTargetScore int

	// Repository dependencies
	RoomRepo roomRepo.Repository

	// Service dependencies
	Broadcaster broadcast.Broadcaster
	Clock       clock.Clock

	// RoomLocks serializes all mutation per room; shared with the match service
	RoomLocks *keymutex.KeyMutex
}

// ReadyInput contains parameters for the ready signal
type ReadyInput struct {
	RoomID      string
	TransportID string
}

// ReadyOutput contains the result of the ready signal
type ReadyOutput struct {
	// Accepted is false when the signal came from outside the room or the
	// room was not waiting to start
	Accepted bool

	// Started indicates both players were ready and the game began
	Started bool
}

// RollDiceInput contains the dice a player reports having rolled
type RollDiceInput struct {
	RoomID      string
	TransportID string

	// DiceValues are the rolled faces, 1 through 6
	DiceValues []int

	// DiceKinds are the die variants the faces were rolled with
	DiceKinds []models.DiceKind
}

// RollDiceOutput contains the result of a roll
type RollDiceOutput struct {
	// Accepted is false for out-of-turn rolls, which change nothing
	Accepted bool

	// Dice is the player's table after the roll
	Dice []models.Die
}

// SelectDiceInput contains the indices a player has selected
type SelectDiceInput struct {
	RoomID      string
	TransportID string

	// SelectedIndices fully replaces the prior selection
	SelectedIndices []int
}

// SelectDiceOutput contains the result of a selection
type SelectDiceOutput struct {
	Accepted bool

	// Dice is the player's table after the selection
	Dice []models.Die
}

// KeepScoreInput contains a scored selection to add to the turn score.
// Scoring validity is the client rule engine's concern; the reported score
// is trusted as-is.
type KeepScoreInput struct {
	RoomID      string
	TransportID string
	Score       int
}

// KeepScoreOutput contains the result of keeping a score
type KeepScoreOutput struct {
	Accepted bool

	// TurnScore is the player's accumulated pending score for this turn
	TurnScore int
}

// BankScoreInput contains the final scored selection of a turn
type BankScoreInput struct {
	RoomID      string
	TransportID string
	Score       int
}

// BankScoreOutput contains the result of banking
type BankScoreOutput struct {
	Accepted bool

	// Finished indicates the bank reached the target and ended the game
	Finished bool

	// Winner is the winning player index when Finished
	Winner int

	// Scores holds both banked scores after the bank
	Scores [2]int

	// CurrentTurn is the next player to act when the game continues
	CurrentTurn int
}

// BustInput contains parameters for a bust
type BustInput struct {
	RoomID      string
	TransportID string
}

// BustOutput contains the result of a bust
type BustOutput struct {
	Accepted bool

	// CurrentTurn is the next player to act
	CurrentTurn int
}
