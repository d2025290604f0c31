package models

// GameState holds the shared state of an in-progress game. It exists only
// while the room status is playing.
type GameState struct {
	// CurrentTurn is the index of the only player allowed to act, 0 or 1
	CurrentTurn int `json:"currentTurn"`

	// PlayerScores holds each player's banked score
	PlayerScores [2]int `json:"playerScores"`

	// TurnScores holds each player's pending score for the current turn
	TurnScores [2]int `json:"turnScores"`

	// Dice holds each player's dice on the table, at most six per player
	Dice [2][]Die `json:"dice"`

	// Started is kept for wire compatibility with the original client
	Started bool `json:"gameStarted"`
}

// NewGameState returns the initial state: player 0 to act, zeroed scores,
// no dice on the table.
func NewGameState() *GameState {
	return &GameState{
		CurrentTurn: 0,
		Dice:        [2][]Die{{}, {}},
		Started:     true,
	}
}

// Die is a single die on the table
type Die struct {
	// Value is the face showing, 1 through 6
	Value int `json:"value"`

	// Kind is the die variant the face was rolled with
	Kind DiceKind `json:"diceType"`

	// Selected marks the die as part of the current scoring selection
	Selected bool `json:"selected"`

	// Kept dice are frozen between rolls within a turn
	Kept bool `json:"kept"`
}
