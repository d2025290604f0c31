package models

// DefaultTargetScore is used when a wager does not carry its own target.
const DefaultTargetScore = 4000

// Wager is the stake the two players agreed on; it supplies the room's
// win-condition target score.
type Wager struct {
	// Name is the client-side label of the stake tier
	Name string `json:"name"`

	// Amount is the groschen amount at stake
	Amount int `json:"amount"`

	// TargetScore is the banked score a player must reach to win
	TargetScore int `json:"targetScore"`
}
