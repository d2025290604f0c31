package game

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	clockmock "github.com/Miooowo/KCD-Dice-Game/internal/common/clock/mocks"
	"github.com/Miooowo/KCD-Dice-Game/internal/common/keymutex"
	"github.com/Miooowo/KCD-Dice-Game/internal/models"
	roomRepo "github.com/Miooowo/KCD-Dice-Game/internal/repositories/room"
	"github.com/Miooowo/KCD-Dice-Game/internal/services/broadcast"
	broadcastmock "github.com/Miooowo/KCD-Dice-Game/internal/services/broadcast/mocks"
)

const testRoomID = "GAME01"

type ServiceTestSuite struct {
	suite.Suite
	ctx context.Context

	mr     *miniredis.Miniredis
	client *redis.Client

	ctrl        *gomock.Controller
	broadcaster *broadcastmock.MockBroadcaster
	clock       *clockmock.MockClock

	rooms   roomRepo.Repository
	service Service
	testNow time.Time
}

func (s *ServiceTestSuite) SetupTest() {
	s.ctx = context.Background()

	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr

	s.client = redis.NewClient(&redis.Options{Addr: s.mr.Addr()})

	s.rooms, err = roomRepo.NewRedis(&roomRepo.Config{RedisClient: s.client})
	s.Require().NoError(err)

	s.ctrl = gomock.NewController(s.T())
	s.broadcaster = broadcastmock.NewMockBroadcaster(s.ctrl)
	s.clock = clockmock.NewMockClock(s.ctrl)

	s.testNow = time.Date(2025, 4, 5, 10, 0, 0, 0, time.UTC)
	s.clock.EXPECT().Now().Return(s.testNow).AnyTimes()

	svc, err := New(&Config{
		RoomRepo:    s.rooms,
		Broadcaster: s.broadcaster,
		Clock:       s.clock,
		RoomLocks:   keymutex.New(),
	})
	s.Require().NoError(err)
	s.service = svc
}

func (s *ServiceTestSuite) TearDownTest() {
	s.client.Close()
	s.mr.Close()
}

func TestServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}

// seedRoom persists a two-player room in the given status. Playing rooms get
// a fresh game state with player 0 to act.
func (s *ServiceTestSuite) seedRoom(status models.RoomStatus, wager models.Wager) *models.Room {
	room := &models.Room{
		ID: testRoomID,
		Players: []*models.Player{
			{ID: "p1", Name: "Henry", TransportID: "t1", Connected: true, DiceConfig: models.DefaultDiceConfig()},
			{ID: "p2", Name: "Capon", TransportID: "t2", Connected: true, DiceConfig: models.DefaultDiceConfig()},
		},
		Wager:     wager,
		Status:    status,
		CreatedAt: s.testNow,
		UpdatedAt: s.testNow,
	}
	if status == models.RoomStatusPlaying {
		room.GameState = models.NewGameState()
	}
	s.Require().NoError(s.rooms.SaveRoom(s.ctx, &roomRepo.SaveRoomInput{Room: room}))
	return room
}

func (s *ServiceTestSuite) getRoom() *models.Room {
	room, err := s.rooms.GetRoom(s.ctx, &roomRepo.GetRoomInput{RoomID: testRoomID})
	s.Require().NoError(err)
	return room
}

func (s *ServiceTestSuite) TestNewValidation() {
	_, err := New(nil)
	s.ErrorIs(err, ErrNilConfig)

	_, err = New(&Config{})
	s.ErrorIs(err, ErrNilRoomRepo)
}

func (s *ServiceTestSuite) TestReadyStartsGameWhenBothReady() {
	s.seedRoom(models.RoomStatusWaiting, models.Wager{})

	s.broadcaster.EXPECT().
		SendToRoom(gomock.Any(), gomock.Any(), broadcast.EventPlayerReadyUpdate, gomock.Any(), "").
		Times(1)

	out, err := s.service.Ready(s.ctx, &ReadyInput{RoomID: testRoomID, TransportID: "t1"})
	s.Require().NoError(err)
	s.True(out.Accepted)
	s.False(out.Started)

	s.broadcaster.EXPECT().
		SendToRoom(gomock.Any(), gomock.Any(), broadcast.EventGameStart, gomock.Any(), "").
		Times(1)

	out, err = s.service.Ready(s.ctx, &ReadyInput{RoomID: testRoomID, TransportID: "t2"})
	s.Require().NoError(err)
	s.True(out.Accepted)
	s.True(out.Started)

	room := s.getRoom()
	s.Equal(models.RoomStatusPlaying, room.Status)
	s.Require().NotNil(room.GameState)
	s.Equal(0, room.GameState.CurrentTurn)
	s.True(room.GameState.Started)
}

func (s *ServiceTestSuite) TestReadyFromOutsideRoomIgnored() {
	s.seedRoom(models.RoomStatusWaiting, models.Wager{})

	out, err := s.service.Ready(s.ctx, &ReadyInput{RoomID: testRoomID, TransportID: "t9"})
	s.Require().NoError(err)
	s.False(out.Accepted)

	room := s.getRoom()
	s.False(room.Players[0].Ready)
	s.False(room.Players[1].Ready)
}

func (s *ServiceTestSuite) TestReadyWhilePlayingIgnored() {
	s.seedRoom(models.RoomStatusPlaying, models.Wager{})

	out, err := s.service.Ready(s.ctx, &ReadyInput{RoomID: testRoomID, TransportID: "t1"})
	s.Require().NoError(err)
	s.False(out.Accepted)
}

func (s *ServiceTestSuite) TestReadyRoomNotFound() {
	_, err := s.service.Ready(s.ctx, &ReadyInput{RoomID: "NOSUCH", TransportID: "t1"})
	s.ErrorIs(err, ErrRoomNotFound)
}

func (s *ServiceTestSuite) TestRollDicePreservesKeptDice() {
	room := s.seedRoom(models.RoomStatusPlaying, models.Wager{})
	room.GameState.Dice[0] = []models.Die{
		{Value: 1, Kind: models.DiceKindOrdinary, Kept: true},
		{Value: 5, Kind: models.DiceKindOrdinary, Kept: true},
		{Value: 3, Kind: models.DiceKindOrdinary},
	}
	s.Require().NoError(s.rooms.SaveRoom(s.ctx, &roomRepo.SaveRoomInput{Room: room}))

	s.broadcaster.EXPECT().
		SendToRoom(gomock.Any(), gomock.Any(), broadcast.EventOpponentRolled, gomock.Any(), "t1").
		Times(1)

	out, err := s.service.RollDice(s.ctx, &RollDiceInput{
		RoomID:      testRoomID,
		TransportID: "t1",
		DiceValues:  []int{2, 6, 4, 2},
	})
	s.Require().NoError(err)
	s.True(out.Accepted)

	s.Require().Len(out.Dice, 6)
	s.True(out.Dice[0].Kept)
	s.True(out.Dice[1].Kept)
	s.Equal(1, out.Dice[0].Value)
	s.Equal(5, out.Dice[1].Value)
	s.Equal(2, out.Dice[2].Value)
	s.False(out.Dice[2].Kept)
	s.False(out.Dice[2].Selected)

	reloaded := s.getRoom()
	s.Equal(out.Dice, reloaded.GameState.Dice[0])
}

func (s *ServiceTestSuite) TestRollDiceCapsAtDiceCount() {
	s.seedRoom(models.RoomStatusPlaying, models.Wager{})

	s.broadcaster.EXPECT().
		SendToRoom(gomock.Any(), gomock.Any(), broadcast.EventOpponentRolled, gomock.Any(), "t1").
		Times(1)

	out, err := s.service.RollDice(s.ctx, &RollDiceInput{
		RoomID:      testRoomID,
		TransportID: "t1",
		DiceValues:  []int{1, 2, 3, 4, 5, 6, 1, 2},
	})
	s.Require().NoError(err)
	s.Len(out.Dice, models.DiceCount)
}

func (s *ServiceTestSuite) TestRollDiceDefaultsDieKind() {
	s.seedRoom(models.RoomStatusPlaying, models.Wager{})

	s.broadcaster.EXPECT().
		SendToRoom(gomock.Any(), gomock.Any(), broadcast.EventOpponentRolled, gomock.Any(), "t1").
		Times(1)

	out, err := s.service.RollDice(s.ctx, &RollDiceInput{
		RoomID:      testRoomID,
		TransportID: "t1",
		DiceValues:  []int{4, 4},
		DiceKinds:   []models.DiceKind{"lucky"},
	})
	s.Require().NoError(err)
	s.Equal(models.DiceKind("lucky"), out.Dice[0].Kind)
	s.Equal(models.DiceKindOrdinary, out.Dice[1].Kind)
}

func (s *ServiceTestSuite) TestRollDiceOutOfTurnIgnored() {
	s.seedRoom(models.RoomStatusPlaying, models.Wager{})

	out, err := s.service.RollDice(s.ctx, &RollDiceInput{
		RoomID:      testRoomID,
		TransportID: "t2",
		DiceValues:  []int{1, 2, 3},
	})
	s.Require().NoError(err)
	s.False(out.Accepted)

	reloaded := s.getRoom()
	s.Empty(reloaded.GameState.Dice[1])
}

func (s *ServiceTestSuite) TestRollDiceBeforeStartIgnored() {
	s.seedRoom(models.RoomStatusWaiting, models.Wager{})

	out, err := s.service.RollDice(s.ctx, &RollDiceInput{
		RoomID:      testRoomID,
		TransportID: "t1",
		DiceValues:  []int{1, 2, 3},
	})
	s.Require().NoError(err)
	s.False(out.Accepted)
}

func (s *ServiceTestSuite) TestSelectDiceReplacesSelection() {
	room := s.seedRoom(models.RoomStatusPlaying, models.Wager{})
	room.GameState.Dice[0] = []models.Die{
		{Value: 1, Kind: models.DiceKindOrdinary, Selected: true},
		{Value: 5, Kind: models.DiceKindOrdinary},
		{Value: 3, Kind: models.DiceKindOrdinary},
	}
	s.Require().NoError(s.rooms.SaveRoom(s.ctx, &roomRepo.SaveRoomInput{Room: room}))

	s.broadcaster.EXPECT().
		SendToRoom(gomock.Any(), gomock.Any(), broadcast.EventOpponentSelectedDice, gomock.Any(), "t1").
		Times(1)

	out, err := s.service.SelectDice(s.ctx, &SelectDiceInput{
		RoomID:          testRoomID,
		TransportID:     "t1",
		SelectedIndices: []int{1, 2},
	})
	s.Require().NoError(err)
	s.True(out.Accepted)

	s.False(out.Dice[0].Selected)
	s.True(out.Dice[1].Selected)
	s.True(out.Dice[2].Selected)
}

func (s *ServiceTestSuite) TestKeepScoreAccumulates() {
	s.seedRoom(models.RoomStatusPlaying, models.Wager{})

	s.broadcaster.EXPECT().
		SendToRoom(gomock.Any(), gomock.Any(), broadcast.EventOpponentKeptScore, gomock.Any(), "t1").
		Times(2)

	out, err := s.service.KeepScore(s.ctx, &KeepScoreInput{
		RoomID:      testRoomID,
		TransportID: "t1",
		Score:       300,
	})
	s.Require().NoError(err)
	s.True(out.Accepted)
	s.Equal(300, out.TurnScore)

	out, err = s.service.KeepScore(s.ctx, &KeepScoreInput{
		RoomID:      testRoomID,
		TransportID: "t1",
		Score:       150,
	})
	s.Require().NoError(err)
	s.Equal(450, out.TurnScore)

	reloaded := s.getRoom()
	s.Equal(450, reloaded.GameState.TurnScores[0])
	s.Equal(0, reloaded.GameState.PlayerScores[0])
}

func (s *ServiceTestSuite) TestKeepScoreOutOfTurnIgnored() {
	s.seedRoom(models.RoomStatusPlaying, models.Wager{})

	out, err := s.service.KeepScore(s.ctx, &KeepScoreInput{
		RoomID:      testRoomID,
		TransportID: "t2",
		Score:       300,
	})
	s.Require().NoError(err)
	s.False(out.Accepted)

	reloaded := s.getRoom()
	s.Equal(0, reloaded.GameState.TurnScores[1])
}

func (s *ServiceTestSuite) TestBankScorePassesTurn() {
	room := s.seedRoom(models.RoomStatusPlaying, models.Wager{TargetScore: 4000})
	room.GameState.TurnScores[0] = 350
	room.GameState.Dice[0] = []models.Die{{Value: 5, Kind: models.DiceKindOrdinary, Kept: true}}
	s.Require().NoError(s.rooms.SaveRoom(s.ctx, &roomRepo.SaveRoomInput{Room: room}))

	s.broadcaster.EXPECT().
		SendToRoom(gomock.Any(), gomock.Any(), broadcast.EventTurnChanged, gomock.Any(), "").
		Do(func(_ context.Context, _ *models.Room, _ string, payload any, _ string) {
			p, ok := payload.(*broadcast.TurnChangedPayload)
			s.Require().True(ok)
			s.Equal(1, p.CurrentTurn)
			s.Equal([2]int{500, 0}, p.Scores)
		}).
		Times(1)

	out, err := s.service.BankScore(s.ctx, &BankScoreInput{
		RoomID:      testRoomID,
		TransportID: "t1",
		Score:       150,
	})
	s.Require().NoError(err)
	s.True(out.Accepted)
	s.False(out.Finished)
	s.Equal(1, out.CurrentTurn)
	s.Equal([2]int{500, 0}, out.Scores)

	reloaded := s.getRoom()
	s.Equal(models.RoomStatusPlaying, reloaded.Status)
	s.Equal(0, reloaded.GameState.TurnScores[0])
	s.Empty(reloaded.GameState.Dice[0])
	s.Equal(1, reloaded.GameState.CurrentTurn)
}

func (s *ServiceTestSuite) TestBankScoreWinEndsGameOnce() {
	s.seedRoom(models.RoomStatusPlaying, models.Wager{TargetScore: 1500})

	s.broadcaster.EXPECT().
		SendToRoom(gomock.Any(), gomock.Any(), broadcast.EventOpponentKeptScore, gomock.Any(), "t1").
		Times(2)
	s.broadcaster.EXPECT().
		SendToRoom(gomock.Any(), gomock.Any(), broadcast.EventGameEnd, gomock.Any(), "").
		Do(func(_ context.Context, _ *models.Room, _ string, payload any, _ string) {
			p, ok := payload.(*broadcast.GameEndPayload)
			s.Require().True(ok)
			s.Equal(0, p.Winner)
			s.Equal([2]int{1600, 0}, p.Scores)
		}).
		Times(1)

	_, err := s.service.KeepScore(s.ctx, &KeepScoreInput{RoomID: testRoomID, TransportID: "t1", Score: 600})
	s.Require().NoError(err)
	_, err = s.service.KeepScore(s.ctx, &KeepScoreInput{RoomID: testRoomID, TransportID: "t1", Score: 600})
	s.Require().NoError(err)

	out, err := s.service.BankScore(s.ctx, &BankScoreInput{
		RoomID:      testRoomID,
		TransportID: "t1",
		Score:       400,
	})
	s.Require().NoError(err)
	s.True(out.Accepted)
	s.True(out.Finished)
	s.Equal(0, out.Winner)
	s.Equal([2]int{1600, 0}, out.Scores)

	reloaded := s.getRoom()
	s.Equal(models.RoomStatusFinished, reloaded.Status)

	// The room no longer accepts actions
	after, err := s.service.RollDice(s.ctx, &RollDiceInput{
		RoomID:      testRoomID,
		TransportID: "t2",
		DiceValues:  []int{1},
	})
	s.Require().NoError(err)
	s.False(after.Accepted)
}

func (s *ServiceTestSuite) TestBankScoreUsesConfiguredDefaultTarget() {
	svc, err := New(&Config{
		DefaultTargetScore: 500,
		RoomRepo:           s.rooms,
		Broadcaster:        s.broadcaster,
		Clock:              s.clock,
		RoomLocks:          keymutex.New(),
	})
	s.Require().NoError(err)

	s.seedRoom(models.RoomStatusPlaying, models.Wager{})

	s.broadcaster.EXPECT().
		SendToRoom(gomock.Any(), gomock.Any(), broadcast.EventGameEnd, gomock.Any(), "").
		Times(1)

	out, err := svc.BankScore(s.ctx, &BankScoreInput{
		RoomID:      testRoomID,
		TransportID: "t1",
		Score:       500,
	})
	s.Require().NoError(err)
	s.True(out.Finished)
}

func (s *ServiceTestSuite) TestBustForfeitsTurnScore() {
	room := s.seedRoom(models.RoomStatusPlaying, models.Wager{})
	room.GameState.TurnScores[0] = 700
	room.GameState.PlayerScores[0] = 1000
	room.GameState.Dice[0] = []models.Die{{Value: 2, Kind: models.DiceKindOrdinary}}
	s.Require().NoError(s.rooms.SaveRoom(s.ctx, &roomRepo.SaveRoomInput{Room: room}))

	s.broadcaster.EXPECT().
		SendToRoom(gomock.Any(), gomock.Any(), broadcast.EventOpponentBusted, gomock.Any(), "t1").
		Times(1)

	out, err := s.service.Bust(s.ctx, &BustInput{RoomID: testRoomID, TransportID: "t1"})
	s.Require().NoError(err)
	s.True(out.Accepted)
	s.Equal(1, out.CurrentTurn)

	reloaded := s.getRoom()
	s.Equal(0, reloaded.GameState.TurnScores[0])
	s.Equal(1000, reloaded.GameState.PlayerScores[0])
	s.Empty(reloaded.GameState.Dice[0])
	s.Equal(1, reloaded.GameState.CurrentTurn)
}

func (s *ServiceTestSuite) TestBustOutOfTurnIgnored() {
	s.seedRoom(models.RoomStatusPlaying, models.Wager{})

	out, err := s.service.Bust(s.ctx, &BustInput{RoomID: testRoomID, TransportID: "t2"})
	s.Require().NoError(err)
	s.False(out.Accepted)

	reloaded := s.getRoom()
	s.Equal(0, reloaded.GameState.CurrentTurn)
}
