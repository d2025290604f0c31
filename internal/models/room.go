package models

import (
	"time"
)

// MaxPlayersPerRoom is the fixed occupancy of a match.
const MaxPlayersPerRoom = 2

// RoomStatus represents the current state of a room
type RoomStatus string

const (
	// RoomStatusWaiting indicates a room is waiting for a second player or for readiness
	RoomStatusWaiting RoomStatus = "waiting"

	// RoomStatusPlaying indicates a game is in progress
	RoomStatusPlaying RoomStatus = "playing"

	// RoomStatusFinished indicates the game has ended
	RoomStatusFinished RoomStatus = "finished"
)

// Room is the unit of matchmaking and gameplay. It owns its players and,
// while playing, the shared game state. Index 0 is always the host.
type Room struct {
	// ID is the short room code players share to join
	ID string `json:"id"`

	// Players holds the current occupants, at most two
	Players []*Player `json:"players"`

	// GameState is nil until both players have readied up
	GameState *GameState `json:"gameState,omitempty"`

	// Wager carries the win-condition target for this room
	Wager Wager `json:"wager"`

	// Status is the current state of the room
	Status RoomStatus `json:"status"`

	// CreatedAt is when the room was created
	CreatedAt time.Time `json:"createdAt"`

	// UpdatedAt is when the room was last updated
	UpdatedAt time.Time `json:"updatedAt"`
}

// IsFull reports whether the room already has two occupants.
func (r *Room) IsFull() bool {
	return len(r.Players) >= MaxPlayersPerRoom
}

// PlayerIndex returns the slot of the player with the given persistent ID,
// or -1 if the player is not in the room.
func (r *Room) PlayerIndex(playerID string) int {
	for i, p := range r.Players {
		if p.ID == playerID {
			return i
		}
	}
	return -1
}

// PlayerIndexByTransport returns the slot of the player bound to the given
// transport ID, or -1 if no occupant uses it.
func (r *Room) PlayerIndexByTransport(transportID string) int {
	for i, p := range r.Players {
		if p.TransportID == transportID {
			return i
		}
	}
	return -1
}

// Opponent returns the other occupant relative to the given slot, or nil if
// the room is not full.
func (r *Room) Opponent(index int) *Player {
	other := 1 - index
	if other < 0 || other >= len(r.Players) {
		return nil
	}
	return r.Players[other]
}
