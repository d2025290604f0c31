package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Miooowo/KCD-Dice-Game/internal/models"
	"github.com/redis/go-redis/v9"
)

const (
	// waitingListKey holds player IDs in arrival order
	waitingListKey = "waiting_players"

	// entryKeyPrefix holds the waiting entry blob per player
	entryKeyPrefix = "waiting:"
)

// ErrQueueEmpty is returned when there is no one waiting to be matched
var ErrQueueEmpty = errors.New("waiting queue is empty")

// Config holds configuration for the Redis queue repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis. Order is
// kept in a list of player IDs; the entry payloads live under their own keys
// so Remove can drop a player without scanning blobs.
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed queue repository
func NewRedis(cfg *Config) (*redisRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	// Test connection
	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisRepository{
		client: cfg.RedisClient,
	}, nil
}

// Enqueue appends a waiting entry to the tail of the queue
func (r *redisRepository) Enqueue(ctx context.Context, input *EnqueueInput) error {
	if input == nil || input.Entry == nil {
		return errors.New("input and entry cannot be nil")
	}

	if input.Entry.PlayerID == "" {
		return errors.New("entry player ID cannot be empty")
	}

	entryJSON, err := json.Marshal(input.Entry)
	if err != nil {
		return fmt.Errorf("failed to marshal waiting entry: %w", err)
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, fmt.Sprintf("%s%s", entryKeyPrefix, input.Entry.PlayerID), entryJSON, 0)
	pipe.RPush(ctx, waitingListKey, input.Entry.PlayerID)

	_, err = pipe.Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to enqueue waiting entry: %w", err)
	}

	return nil
}

// Dequeue pops the oldest waiting entry. Player IDs whose entry blob has
// already been removed are skipped.
func (r *redisRepository) Dequeue(ctx context.Context) (*models.WaitingEntry, error) {
	for {
		playerID, err := r.client.LPop(ctx, waitingListKey).Result()
		if err != nil {
			if err == redis.Nil {
				return nil, ErrQueueEmpty
			}
			return nil, fmt.Errorf("failed to pop waiting queue: %w", err)
		}

		entryKey := fmt.Sprintf("%s%s", entryKeyPrefix, playerID)
		entryJSON, err := r.client.GetDel(ctx, entryKey).Result()
		if err != nil {
			if err == redis.Nil {
				// Entry was removed while its ID was still listed; try the next one
				continue
			}
			return nil, fmt.Errorf("failed to get waiting entry: %w", err)
		}

		var entry models.WaitingEntry
		if err := json.Unmarshal([]byte(entryJSON), &entry); err != nil {
			return nil, fmt.Errorf("failed to unmarshal waiting entry: %w", err)
		}

		return &entry, nil
	}
}

// Remove deletes the entry for a player wherever it sits in the queue
func (r *redisRepository) Remove(ctx context.Context, input *RemoveInput) error {
	if input == nil || input.PlayerID == "" {
		return errors.New("input and player ID cannot be empty")
	}

	pipe := r.client.Pipeline()
	pipe.LRem(ctx, waitingListKey, 0, input.PlayerID)
	pipe.Del(ctx, fmt.Sprintf("%s%s", entryKeyPrefix, input.PlayerID))

	_, err := pipe.Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to remove waiting entry: %w", err)
	}

	return nil
}

// Length returns the number of waiting entries
func (r *redisRepository) Length(ctx context.Context) (int64, error) {
	length, err := r.client.LLen(ctx, waitingListKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get queue length: %w", err)
	}

	return length, nil
}
