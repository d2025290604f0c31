package broadcast

//go:generate mockgen -package=mocks -destination=mocks/mock_broadcaster.go github.com/Miooowo/KCD-Dice-Game/internal/services/broadcast Broadcaster

import (
	"context"

	"github.com/Miooowo/KCD-Dice-Game/internal/models"
)

// Broadcaster delivers outbound events to connected players. It is a thin
// interface over whatever real-time transport the server runs on.
//
// Delivery is best effort: sending to an unreachable transport is silently
// dropped. Noticing a dead connection is the transport's job, reported
// through its own disconnect signal, not the broadcaster's. Calls for the
// same recipient are delivered in the order they were issued.
type Broadcaster interface {
	// SendToPlayer delivers an event to a single transport
	SendToPlayer(ctx context.Context, transportID string, event string, payload any)

	// SendToRoom delivers an event to every occupant of a room, host first,
	// optionally excluding one transport
	SendToRoom(ctx context.Context, room *models.Room, event string, payload any, excludeTransportID string)
}
