package room

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Miooowo/KCD-Dice-Game/internal/models"
	"github.com/redis/go-redis/v9"
)

const (
	// Key prefixes for Redis
	roomKeyPrefix = "room:"
	roomIndexKey  = "rooms"
)

// ErrRoomNotFound is returned when a room is not found
var ErrRoomNotFound = errors.New("room not found")

// Config holds configuration for the Redis room repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed room repository
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

// SaveRoom persists a room to Redis
func (r *redisRepository) SaveRoom(ctx context.Context, input *SaveRoomInput) error {
	if input == nil || input.Room == nil {
		return errors.New("input and room cannot be nil")
	}

	roomJSON, err := json.Marshal(input.Room)
	if err != nil {
		return fmt.Errorf("failed to marshal room: %w", err)
	}

	// Save the room and keep the room index in step in one round trip
	pipe := r.client.Pipeline()

	roomKey := fmt.Sprintf("%s%s", roomKeyPrefix, input.Room.ID)
	pipe.Set(ctx, roomKey, roomJSON, 0)
	pipe.SAdd(ctx, roomIndexKey, input.Room.ID)

	_, err = pipe.Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to save room: %w", err)
	}

	return nil
}

// GetRoom retrieves a room by ID from Redis
func (r *redisRepository) GetRoom(ctx context.Context, input *GetRoomInput) (*models.Room, error) {
	if input == nil || input.RoomID == "" {
		return nil, errors.New("input and room ID cannot be empty")
	}

	roomKey := fmt.Sprintf("%s%s", roomKeyPrefix, input.RoomID)
	roomJSON, err := r.client.Get(ctx, roomKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	var room models.Room
	if err := json.Unmarshal([]byte(roomJSON), &room); err != nil {
		return nil, fmt.Errorf("failed to unmarshal room: %w", err)
	}

	return &room, nil
}

// DeleteRoom removes a room from Redis
func (r *redisRepository) DeleteRoom(ctx context.Context, input *DeleteRoomInput) error {
	if input == nil || input.RoomID == "" {
		return errors.New("input and room ID cannot be empty")
	}

	pipe := r.client.Pipeline()

	roomKey := fmt.Sprintf("%s%s", roomKeyPrefix, input.RoomID)
	pipe.Del(ctx, roomKey)
	pipe.SRem(ctx, roomIndexKey, input.RoomID)

	_, err := pipe.Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete room: %w", err)
	}

	return nil
}

// RoomExists reports whether a room ID is already taken
func (r *redisRepository) RoomExists(ctx context.Context, input *RoomExistsInput) (bool, error) {
	if input == nil || input.RoomID == "" {
		return false, errors.New("input and room ID cannot be empty")
	}

	exists, err := r.client.SIsMember(ctx, roomIndexKey, input.RoomID).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check room existence: %w", err)
	}

	return exists, nil
}

// CountRooms returns the number of active rooms
func (r *redisRepository) CountRooms(ctx context.Context) (int64, error) {
	count, err := r.client.SCard(ctx, roomIndexKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count rooms: %w", err)
	}

	return count, nil
}
