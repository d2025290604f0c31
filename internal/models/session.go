package models

import (
	"time"
)

// Session maps a player's persistent identity to its current connection and
// room. It outlives any single transport: a dropped connection leaves the
// session in place so the player can reclaim its slot.
type Session struct {
	// PlayerID is the client-chosen persistent identifier
	PlayerID string `json:"playerId"`

	// TransportID identifies the player's current connection
	TransportID string `json:"transportId"`

	// RoomID is the room the player currently occupies, if any
	RoomID string `json:"roomId"`

	// Name is the display name last supplied by the player
	Name string `json:"name"`

	// Wager is the stake last supplied by the player
	Wager Wager `json:"wager"`

	// DiceConfig is the dice loadout last supplied by the player
	DiceConfig []DiceKind `json:"diceConfig"`

	// UpdatedAt is when the session was last touched
	UpdatedAt time.Time `json:"updatedAt"`
}
