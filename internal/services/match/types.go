package match

import (
	"time"

	"github.com/Miooowo/KCD-Dice-Game/internal/common/clock"
	"github.com/Miooowo/KCD-Dice-Game/internal/common/keymutex"
	"github.com/Miooowo/KCD-Dice-Game/internal/common/roomid"
	"github.com/Miooowo/KCD-Dice-Game/internal/models"
	queueRepo "github.com/Miooowo/KCD-Dice-Game/internal/repositories/queue"
	roomRepo "github.com/Miooowo/KCD-Dice-Game/internal/repositories/room"
	sessionRepo "github.com/Miooowo/KCD-Dice-Game/internal/repositories/session"
	"github.com/Miooowo/KCD-Dice-Game/internal/services/broadcast"
)

// Disconnect reasons reported by the transport. Anything not listed as
// recoverable is treated as a deliberate departure.
const (
	// ReasonPingTimeout is a transport heartbeat timeout
	ReasonPingTimeout = "ping timeout"

	// ReasonTransportClose is a network-level close without a goodbye
	ReasonTransportClose = "transport close"

	// ReasonTransportError is a network-level failure
	ReasonTransportError = "transport error"

	// ReasonClientClose is an explicit goodbye from the client
	ReasonClientClose = "client close"
)

// IsRecoverableReason reports whether a disconnect reason leaves the
// player's slot claimable by reconnection.
func IsRecoverableReason(reason string) bool {
	switch reason {
	case ReasonPingTimeout, ReasonTransportClose, ReasonTransportError:
		return true
	}
	return false
}

// Config holds configuration for the match service
type Config struct {
	// ReconnectGrace bounds how long a dropped player's slot is held before
	// it is forfeited. Zero keeps the slot forever, matching the original
	// behavior; the right bound is a product decision.
	ReconnectGrace time.Duration

	// Repository dependencies
	RoomRepo    roomRepo.Repository
	SessionRepo sessionRepo.Repository
	QueueRepo   queueRepo.Repository

	// Service dependencies
	Broadcaster broadcast.Broadcaster
	RoomIDGen   roomid.Generator
	Clock       clock.Clock

	// RoomLocks serializes all mutation per room; shared with the game service
	RoomLocks *keymutex.KeyMutex
}

// FindMatchInput contains parameters for automatic matchmaking
type FindMatchInput struct {
	// PlayerID is the client-chosen persistent identifier
	PlayerID string

	// TransportID identifies the player's current connection
	TransportID string

	// Name is the display name of the player
	Name string

	// Wager is the stake the player wants to play for
	Wager models.Wager

	// DiceConfig is the player's dice loadout
	DiceConfig []models.DiceKind
}

// FindMatchOutput contains the result of automatic matchmaking
type FindMatchOutput struct {
	// Room is the room the player landed in
	Room *models.Room

	// IsHost indicates the player occupies slot 0
	IsHost bool

	// Reconnected indicates an existing slot was reclaimed instead of a
	// fresh match being made
	Reconnected bool
}

// CreateRoomInput contains parameters for explicitly creating a room
type CreateRoomInput struct {
	PlayerID    string
	TransportID string
	Name        string
	Wager       models.Wager
	DiceConfig  []models.DiceKind
}

// CreateRoomOutput contains the result of explicitly creating a room
type CreateRoomOutput struct {
	Room *models.Room

	// Reconnected indicates the player was routed back to an existing room
	Reconnected bool
}

// JoinRoomInput contains parameters for joining a room by code
type JoinRoomInput struct {
	RoomID      string
	PlayerID    string
	TransportID string
	Name        string
	Wager       models.Wager
	DiceConfig  []models.DiceKind
}

// JoinRoomOutput contains the result of joining a room by code
type JoinRoomOutput struct {
	Room *models.Room

	// IsHost indicates the player occupies slot 0
	IsHost bool

	// Reconnected indicates an existing slot was reclaimed
	Reconnected bool
}

// LeaveRoomInput contains parameters for an explicit departure
type LeaveRoomInput struct {
	PlayerID string
}

// LeaveRoomOutput contains the result of an explicit departure
type LeaveRoomOutput struct {
	// Left indicates the player was actually in a room or queue
	Left bool
}

// HandleDisconnectInput contains parameters for a transport drop
type HandleDisconnectInput struct {
	// TransportID is the connection that dropped
	TransportID string

	// Reason is the transport's account of why
	Reason string
}

// HandleDisconnectOutput contains the result of handling a transport drop
type HandleDisconnectOutput struct {
	// Recoverable indicates the slot was held for reconnection
	Recoverable bool

	// PlayerID is the affected player, if the transport mapped to one
	PlayerID string
}

// GetStatusOutput contains counters for the health surface
type GetStatusOutput struct {
	Rooms          int64
	WaitingPlayers int64
}
