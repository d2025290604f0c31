package match

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/Miooowo/KCD-Dice-Game/internal/services/match Service

import "context"

// Service defines the interface for matchmaking, explicit room management,
// reconnection and disconnect handling
type Service interface {
	// FindMatch pairs a player with the oldest waiting opponent, or parks the
	// player in a fresh solo room until one arrives
	FindMatch(ctx context.Context, input *FindMatchInput) (*FindMatchOutput, error)

	// CreateRoom opens a room for a specific opponent to join by code
	CreateRoom(ctx context.Context, input *CreateRoomInput) (*CreateRoomOutput, error)

	// JoinRoom enters an existing room by its code
	JoinRoom(ctx context.Context, input *JoinRoomInput) (*JoinRoomOutput, error)

	// LeaveRoom removes a player from its room and forgets its session
	LeaveRoom(ctx context.Context, input *LeaveRoomInput) (*LeaveRoomOutput, error)

	// HandleDisconnect reacts to a dropped transport; the reason decides
	// whether the player's slot is held for reconnection
	HandleDisconnect(ctx context.Context, input *HandleDisconnectInput) (*HandleDisconnectOutput, error)

	// GetStatus returns counters for the health surface
	GetStatus(ctx context.Context) (*GetStatusOutput, error)
}
