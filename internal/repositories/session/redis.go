package session

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
	sessionKeyPrefix   = "session:"
	transportKeyPrefix = "transport:" // transport ID -> player ID index
)

// ErrSessionNotFound is returned when a session is not found
var ErrSessionNotFound = errors.New("session not found")

// Config holds configuration for the Redis session repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed session repository
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

// SaveSession persists a session to Redis, keeping the transport index in
// step. A reconnecting player replaces its transport, so the index entry for
// the previous transport is dropped.
func (r *redisRepository) SaveSession(ctx context.Context, input *SaveSessionInput) error {
	if input == nil || input.Session == nil {
		return errors.New("input and session cannot be nil")
	}

	if input.Session.PlayerID == "" {
		return errors.New("session player ID cannot be empty")
	}

	sessionJSON, err := json.Marshal(input.Session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	// Look up the prior session to find a stale transport index entry
	prior, err := r.GetSession(ctx, &GetSessionInput{PlayerID: input.Session.PlayerID})
	if err != nil && !errors.Is(err, ErrSessionNotFound) {
		return err
	}

	pipe := r.client.Pipeline()

	sessionKey := fmt.Sprintf("%s%s", sessionKeyPrefix, input.Session.PlayerID)
	pipe.Set(ctx, sessionKey, sessionJSON, 0)

	if prior != nil && prior.TransportID != "" && prior.TransportID != input.Session.TransportID {
		pipe.Del(ctx, fmt.Sprintf("%s%s", transportKeyPrefix, prior.TransportID))
	}

	if input.Session.TransportID != "" {
		transportKey := fmt.Sprintf("%s%s", transportKeyPrefix, input.Session.TransportID)
		pipe.Set(ctx, transportKey, input.Session.PlayerID, 0)
	}

	_, err = pipe.Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

// GetSession retrieves a session by the player's persistent ID
func (r *redisRepository) GetSession(ctx context.Context, input *GetSessionInput) (*models.Session, error) {
	if input == nil || input.PlayerID == "" {
		return nil, errors.New("input and player ID cannot be empty")
	}

	sessionKey := fmt.Sprintf("%s%s", sessionKeyPrefix, input.PlayerID)
	sessionJSON, err := r.client.Get(ctx, sessionKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var session models.Session
	if err := json.Unmarshal([]byte(sessionJSON), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &session, nil
}

// GetSessionByTransport retrieves a session by its current transport ID
func (r *redisRepository) GetSessionByTransport(ctx context.Context, input *GetSessionByTransportInput) (*models.Session, error) {
	if input == nil || input.TransportID == "" {
		return nil, errors.New("input and transport ID cannot be empty")
	}

	transportKey := fmt.Sprintf("%s%s", transportKeyPrefix, input.TransportID)
	playerID, err := r.client.Get(ctx, transportKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get player ID for transport: %w", err)
	}

	return r.GetSession(ctx, &GetSessionInput{
		PlayerID: playerID,
	})
}

// DeleteSession removes a session and its transport index entry
func (r *redisRepository) DeleteSession(ctx context.Context, input *DeleteSessionInput) error {
	if input == nil || input.PlayerID == "" {
		return errors.New("input and player ID cannot be empty")
	}

	// Get the session first to find its transport index entry
	session, err := r.GetSession(ctx, &GetSessionInput{PlayerID: input.PlayerID})
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil
		}
		return err
	}

	pipe := r.client.Pipeline()

	pipe.Del(ctx, fmt.Sprintf("%s%s", sessionKeyPrefix, input.PlayerID))
	if session.TransportID != "" {
		pipe.Del(ctx, fmt.Sprintf("%s%s", transportKeyPrefix, session.TransportID))
	}

	_, err = pipe.Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}
