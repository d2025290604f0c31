package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Miooowo/KCD-Dice-Game/internal/common/clock"
	"github.com/Miooowo/KCD-Dice-Game/internal/common/keymutex"
	"github.com/Miooowo/KCD-Dice-Game/internal/common/roomid"
	"github.com/Miooowo/KCD-Dice-Game/internal/handlers/ws"
	queueRepo "github.com/Miooowo/KCD-Dice-Game/internal/repositories/queue"
	roomRepo "github.com/Miooowo/KCD-Dice-Game/internal/repositories/room"
	sessionRepo "github.com/Miooowo/KCD-Dice-Game/internal/repositories/session"
	gameService "github.com/Miooowo/KCD-Dice-Game/internal/services/game"
	matchService "github.com/Miooowo/KCD-Dice-Game/internal/services/match"
)

const (
	serverName = "kcd-dice-server"
	version    = "1.0.0"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	setupLogging()

	// Initialize Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       0,
	})

	// Test Redis connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}

	// Initialize repositories
	rooms, err := roomRepo.NewRedis(&roomRepo.Config{
		RedisClient: redisClient,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create room repository")
	}

	sessions, err := sessionRepo.NewRedis(&sessionRepo.Config{
		RedisClient: redisClient,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create session repository")
	}

	queue, err := queueRepo.NewRedis(&queueRepo.Config{
		RedisClient: redisClient,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create queue repository")
	}

	// The hub delivers every outbound event; both services share one set of
	// room locks so matchmaking and play never race on the same room
	hub := ws.NewHub()
	roomLocks := keymutex.New()
	clk := clock.New()

	matchSvc, err := matchService.New(&matchService.Config{
		ReconnectGrace: getEnvDuration("RECONNECT_GRACE", 0),
		RoomRepo:       rooms,
		SessionRepo:    sessions,
		QueueRepo:      queue,
		Broadcaster:    hub,
		RoomIDGen:      roomid.New(),
		Clock:          clk,
		RoomLocks:      roomLocks,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create match service")
	}

	gameSvc, err := gameService.New(&gameService.Config{
		DefaultTargetScore: getEnvInt("TARGET_SCORE", 0),
		RoomRepo:           rooms,
		Broadcaster:        hub,
		Clock:              clk,
		RoomLocks:          roomLocks,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create game service")
	}

	gateway, err := ws.New(&ws.Config{
		ServerName:   serverName,
		Version:      version,
		Hub:          hub,
		MatchService: matchSvc,
		GameService:  gameSvc,
		Clock:        clk,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create gateway")
	}

	addr := ":" + getEnv("PORT", "3000")
	server := &http.Server{
		Addr:    addr,
		Handler: gateway.Routes(),
	}

	go func() {
		log.Info().Str("addr", addr).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	log.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error shutting down server")
	}

	if err := redisClient.Close(); err != nil {
		log.Error().Err(err).Msg("error closing Redis client")
	}

	log.Info().Msg("server has been shut down")
}

func setupLogging() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs

	level, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if getEnv("LOG_PRETTY", "") != "" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt parses an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		log.Warn().Str("key", key).Str("value", value).Msg("invalid integer, using default")
		return defaultValue
	}
	return parsed
}

// getEnvDuration parses a duration environment variable, e.g. "30s" or "2m",
// or returns a default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		log.Warn().Str("key", key).Str("value", value).Msg("invalid duration, using default")
		return defaultValue
	}
	return parsed
}
