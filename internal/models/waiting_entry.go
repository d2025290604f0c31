package models

import (
	"time"
)

// WaitingEntry is one unmatched player in the FIFO matchmaking queue. The
// entry keeps everything needed to recreate the player's room if it vanished
// before a partner arrived.
type WaitingEntry struct {
	// PlayerID is the persistent identifier of the waiting player
	PlayerID string `json:"playerId"`

	// Name is the display name of the waiting player
	Name string `json:"name"`

	// Wager is the stake the waiting player requested
	Wager Wager `json:"wager"`

	// DiceConfig is the dice loadout the waiting player submitted
	DiceConfig []DiceKind `json:"diceConfig"`

	// RoomID is the solo room created when the player enqueued
	RoomID string `json:"roomId"`

	// EnqueuedAt is when the player entered the queue
	EnqueuedAt time.Time `json:"enqueuedAt"`
}
