package session

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/Miooowo/KCD-Dice-Game/internal/repositories/session Repository

import (
	"context"

	"github.com/Miooowo/KCD-Dice-Game/internal/models"
)

// Repository defines the interface for session storage
type Repository interface {
	// SaveSession persists a session, replacing any prior entry for the player
	SaveSession(ctx context.Context, input *SaveSessionInput) error

	// GetSession retrieves a session by the player's persistent ID
	GetSession(ctx context.Context, input *GetSessionInput) (*models.Session, error)

	// GetSessionByTransport retrieves a session by its current transport ID
	GetSessionByTransport(ctx context.Context, input *GetSessionByTransportInput) (*models.Session, error)

	// DeleteSession removes a session
	DeleteSession(ctx context.Context, input *DeleteSessionInput) error
}
