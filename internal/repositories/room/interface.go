package room

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/Miooowo/KCD-Dice-Game/internal/repositories/room Repository

import (
	"context"

	"github.com/Miooowo/KCD-Dice-Game/internal/models"
)

// Repository defines the interface for room storage
type Repository interface {
	// SaveRoom persists a room
	SaveRoom(ctx context.Context, input *SaveRoomInput) error

	// GetRoom retrieves a room by ID
	GetRoom(ctx context.Context, input *GetRoomInput) (*models.Room, error)

	// DeleteRoom removes a room
	DeleteRoom(ctx context.Context, input *DeleteRoomInput) error

	// RoomExists reports whether a room ID is already taken
	RoomExists(ctx context.Context, input *RoomExistsInput) (bool, error)

	// CountRooms returns the number of active rooms
	CountRooms(ctx context.Context) (int64, error)
}
