package session

import (
	"context"
	"testing"
	"time"

	"github.com/Miooowo/KCD-Dice-Game/internal/models"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
)

type RedisRepositoryTestSuite struct {
	suite.Suite
	mr      *miniredis.Miniredis
	client  *redis.Client
	repo    Repository
	testNow time.Time
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	// Create a new miniredis server for each test
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr

	s.client = redis.NewClient(&redis.Options{
		Addr: s.mr.Addr(),
	})

	repo, err := NewRedis(&Config{
		RedisClient: s.client,
	})
	s.Require().NoError(err)
	s.repo = repo

	s.testNow = time.Date(2025, 4, 5, 10, 0, 0, 0, time.UTC)
}

func (s *RedisRepositoryTestSuite) TearDownTest() {
	s.client.Close()
	s.mr.Close()
}

func TestRedisRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}

func (s *RedisRepositoryTestSuite) testSession() *models.Session {
	return &models.Session{
		PlayerID:    "test-player-id",
		TransportID: "test-transport-id",
		RoomID:      "ABC123",
		Name:        "Test Player",
		Wager:       models.Wager{TargetScore: 2000},
		DiceConfig:  models.DefaultDiceConfig(),
		UpdatedAt:   s.testNow,
	}
}

func (s *RedisRepositoryTestSuite) TestSaveAndGetSession() {
	err := s.repo.SaveSession(context.Background(), &SaveSessionInput{
		Session: s.testSession(),
	})
	s.Require().NoError(err)

	retrieved, err := s.repo.GetSession(context.Background(), &GetSessionInput{
		PlayerID: "test-player-id",
	})
	s.Require().NoError(err)
	s.Require().NotNil(retrieved)

	s.Equal("test-player-id", retrieved.PlayerID)
	s.Equal("test-transport-id", retrieved.TransportID)
	s.Equal("ABC123", retrieved.RoomID)
	s.Equal(2000, retrieved.Wager.TargetScore)
	s.Equal(s.testNow.Unix(), retrieved.UpdatedAt.Unix())
}

func (s *RedisRepositoryTestSuite) TestGetSessionNotFound() {
	_, err := s.repo.GetSession(context.Background(), &GetSessionInput{
		PlayerID: "unknown-player",
	})
	s.ErrorIs(err, ErrSessionNotFound)
}

func (s *RedisRepositoryTestSuite) TestGetSessionByTransport() {
	err := s.repo.SaveSession(context.Background(), &SaveSessionInput{
		Session: s.testSession(),
	})
	s.Require().NoError(err)

	retrieved, err := s.repo.GetSessionByTransport(context.Background(), &GetSessionByTransportInput{
		TransportID: "test-transport-id",
	})
	s.Require().NoError(err)
	s.Equal("test-player-id", retrieved.PlayerID)

	_, err = s.repo.GetSessionByTransport(context.Background(), &GetSessionByTransportInput{
		TransportID: "unknown-transport",
	})
	s.ErrorIs(err, ErrSessionNotFound)
}

func (s *RedisRepositoryTestSuite) TestSaveSessionReplacesTransportIndex() {
	err := s.repo.SaveSession(context.Background(), &SaveSessionInput{
		Session: s.testSession(),
	})
	s.Require().NoError(err)

	// Reconnect with a new transport ID
	updated := s.testSession()
	updated.TransportID = "new-transport-id"
	err = s.repo.SaveSession(context.Background(), &SaveSessionInput{
		Session: updated,
	})
	s.Require().NoError(err)

	retrieved, err := s.repo.GetSessionByTransport(context.Background(), &GetSessionByTransportInput{
		TransportID: "new-transport-id",
	})
	s.Require().NoError(err)
	s.Equal("test-player-id", retrieved.PlayerID)

	// The old transport must no longer resolve
	_, err = s.repo.GetSessionByTransport(context.Background(), &GetSessionByTransportInput{
		TransportID: "test-transport-id",
	})
	s.ErrorIs(err, ErrSessionNotFound)
}

func (s *RedisRepositoryTestSuite) TestDeleteSession() {
	err := s.repo.SaveSession(context.Background(), &SaveSessionInput{
		Session: s.testSession(),
	})
	s.Require().NoError(err)

	err = s.repo.DeleteSession(context.Background(), &DeleteSessionInput{
		PlayerID: "test-player-id",
	})
	s.Require().NoError(err)

	_, err = s.repo.GetSession(context.Background(), &GetSessionInput{
		PlayerID: "test-player-id",
	})
	s.ErrorIs(err, ErrSessionNotFound)

	_, err = s.repo.GetSessionByTransport(context.Background(), &GetSessionByTransportInput{
		TransportID: "test-transport-id",
	})
	s.ErrorIs(err, ErrSessionNotFound)
}

func (s *RedisRepositoryTestSuite) TestDeleteSessionMissingIsNoError() {
	err := s.repo.DeleteSession(context.Background(), &DeleteSessionInput{
		PlayerID: "unknown-player",
	})
	s.NoError(err)
}
