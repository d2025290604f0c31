package queue

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

func (s *RedisRepositoryTestSuite) entry(playerID, roomID string) *models.WaitingEntry {
	return &models.WaitingEntry{
		PlayerID:   playerID,
		Name:       "Player " + playerID,
		Wager:      models.Wager{TargetScore: 1500},
		DiceConfig: models.DefaultDiceConfig(),
		RoomID:     roomID,
		EnqueuedAt: s.testNow,
	}
}

func (s *RedisRepositoryTestSuite) TestDequeueEmpty() {
	_, err := s.repo.Dequeue(context.Background())
	s.ErrorIs(err, ErrQueueEmpty)
}

func (s *RedisRepositoryTestSuite) TestFIFOOrder() {
	for _, id := range []string{"p1", "p2", "p3"} {
		err := s.repo.Enqueue(context.Background(), &EnqueueInput{
			Entry: s.entry(id, "ROOM-"+id),
		})
		s.Require().NoError(err)
	}

	for _, want := range []string{"p1", "p2", "p3"} {
		entry, err := s.repo.Dequeue(context.Background())
		s.Require().NoError(err)
		s.Equal(want, entry.PlayerID)
		s.Equal("ROOM-"+want, entry.RoomID)
	}

	_, err := s.repo.Dequeue(context.Background())
	s.ErrorIs(err, ErrQueueEmpty)
}

func (s *RedisRepositoryTestSuite) TestEntryRoundTrip() {
	err := s.repo.Enqueue(context.Background(), &EnqueueInput{
		Entry: s.entry("p1", "ABC123"),
	})
	s.Require().NoError(err)

	entry, err := s.repo.Dequeue(context.Background())
	s.Require().NoError(err)

	s.Equal("p1", entry.PlayerID)
	s.Equal("Player p1", entry.Name)
	s.Equal(1500, entry.Wager.TargetScore)
	s.Len(entry.DiceConfig, models.DiceCount)
	s.Equal(s.testNow.Unix(), entry.EnqueuedAt.Unix())
}

func (s *RedisRepositoryTestSuite) TestRemoveSkipsDequeuedPlayer() {
	err := s.repo.Enqueue(context.Background(), &EnqueueInput{Entry: s.entry("p1", "R1")})
	s.Require().NoError(err)
	err = s.repo.Enqueue(context.Background(), &EnqueueInput{Entry: s.entry("p2", "R2")})
	s.Require().NoError(err)

	err = s.repo.Remove(context.Background(), &RemoveInput{PlayerID: "p1"})
	s.Require().NoError(err)

	entry, err := s.repo.Dequeue(context.Background())
	s.Require().NoError(err)
	s.Equal("p2", entry.PlayerID)
}

func (s *RedisRepositoryTestSuite) TestLength() {
	length, err := s.repo.Length(context.Background())
	s.Require().NoError(err)
	s.Equal(int64(0), length)

	err = s.repo.Enqueue(context.Background(), &EnqueueInput{Entry: s.entry("p1", "R1")})
	s.Require().NoError(err)
	err = s.repo.Enqueue(context.Background(), &EnqueueInput{Entry: s.entry("p2", "R2")})
	s.Require().NoError(err)

	length, err = s.repo.Length(context.Background())
	s.Require().NoError(err)
	s.Equal(int64(2), length)

	err = s.repo.Remove(context.Background(), &RemoveInput{PlayerID: "p1"})
	s.Require().NoError(err)

	length, err = s.repo.Length(context.Background())
	s.Require().NoError(err)
	s.Equal(int64(1), length)
}
