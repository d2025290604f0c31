package queue

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/Miooowo/KCD-Dice-Game/internal/repositories/queue Repository

import (
	"context"

	"github.com/Miooowo/KCD-Dice-Game/internal/models"
)

// Repository defines the interface for the matchmaking waiting queue.
// The queue is strictly FIFO; there is no priority.
type Repository interface {
	// Enqueue appends a waiting entry to the tail of the queue
	Enqueue(ctx context.Context, input *EnqueueInput) error

	// Dequeue pops the oldest waiting entry, or ErrQueueEmpty
	Dequeue(ctx context.Context) (*models.WaitingEntry, error)

	// Remove deletes the entry for a player wherever it sits in the queue
	Remove(ctx context.Context, input *RemoveInput) error

	// Length returns the number of waiting entries
	Length(ctx context.Context) (int64, error)
}
