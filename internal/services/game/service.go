package game

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/Miooowo/KCD-Dice-Game/internal/common/clock"
	"github.com/Miooowo/KCD-Dice-Game/internal/common/keymutex"
	"github.com/Miooowo/KCD-Dice-Game/internal/models"
	roomRepo "github.com/Miooowo/KCD-Dice-Game/internal/repositories/room"
	"github.com/Miooowo/KCD-Dice-Game/internal/services/broadcast"
)

// service implements the Service interface
type service struct {
	config      *Config
	roomRepo    roomRepo.Repository
	broadcaster broadcast.Broadcaster
	clock       clock.Clock
	locks       *keymutex.KeyMutex
}

// New creates a new game service
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.RoomRepo == nil {
		return nil, ErrNilRoomRepo
	}
	if cfg.Broadcaster == nil {
		return nil, ErrNilBroadcaster
	}
	if cfg.Clock == nil {
		return nil, ErrNilClock
	}
	if cfg.RoomLocks == nil {
		return nil, ErrNilLocks
	}

	return &service{
		config:      cfg,
		roomRepo:    cfg.RoomRepo,
		broadcaster: cfg.Broadcaster,
		clock:       cfg.Clock,
		locks:       cfg.RoomLocks,
	}, nil
}

// Ready marks a player ready; the game starts once both occupants are
func (s *service) Ready(ctx context.Context, input *ReadyInput) (*ReadyOutput, error) {
	if input == nil || input.RoomID == "" || input.TransportID == "" {
		return nil, errors.New("input, room ID and transport ID are required")
	}

	s.locks.Lock(input.RoomID)
	defer s.locks.Unlock(input.RoomID)

	room, err := s.getRoom(ctx, input.RoomID)
	if err != nil {
		return nil, err
	}

	if room.Status != models.RoomStatusWaiting {
		log.Debug().Str("room_id", room.ID).Msg("ready signal outside waiting state ignored")
		return &ReadyOutput{}, nil
	}

	idx := room.PlayerIndexByTransport(input.TransportID)
	if idx < 0 {
		log.Debug().Str("room_id", room.ID).Str("transport_id", input.TransportID).
			Msg("ready signal from outside the room ignored")
		return &ReadyOutput{}, nil
	}

	room.Players[idx].Ready = true
	room.UpdatedAt = s.clock.Now()

	allReady := room.IsFull()
	for _, p := range room.Players {
		allReady = allReady && p.Ready
	}

	if !allReady {
		if err := s.roomRepo.SaveRoom(ctx, &roomRepo.SaveRoomInput{Room: room}); err != nil {
			return nil, err
		}

		s.broadcaster.SendToRoom(ctx, room, broadcast.EventPlayerReadyUpdate, &broadcast.PlayerReadyUpdatePayload{
			Players: room.Players,
		}, "")

		return &ReadyOutput{Accepted: true}, nil
	}

	room.GameState = models.NewGameState()
	room.Status = models.RoomStatusPlaying

	if err := s.roomRepo.SaveRoom(ctx, &roomRepo.SaveRoomInput{Room: room}); err != nil {
		return nil, err
	}

	log.Info().Str("room_id", room.ID).Msg("game started")

	s.broadcaster.SendToRoom(ctx, room, broadcast.EventGameStart, &broadcast.GameStartPayload{
		RoomID:    room.ID,
		GameState: room.GameState,
		Players:   room.Players,
	}, "")

	return &ReadyOutput{Accepted: true, Started: true}, nil
}

// RollDice replaces the acting player's working dice with the reported roll.
// Kept dice stay on the table; the rest are overwritten, unselected.
func (s *service) RollDice(ctx context.Context, input *RollDiceInput) (*RollDiceOutput, error) {
	if input == nil || input.RoomID == "" || input.TransportID == "" {
		return nil, errors.New("input, room ID and transport ID are required")
	}

	s.locks.Lock(input.RoomID)
	defer s.locks.Unlock(input.RoomID)

	room, err := s.getRoom(ctx, input.RoomID)
	if err != nil {
		return nil, err
	}

	idx, ok := s.actingPlayer(room, input.TransportID)
	if !ok {
		return &RollDiceOutput{}, nil
	}

	dice := make([]models.Die, 0, models.DiceCount)
	for _, die := range room.GameState.Dice[idx] {
		if die.Kept {
			dice = append(dice, die)
		}
	}
	for i, value := range input.DiceValues {
		if len(dice) >= models.DiceCount {
			break
		}
		kind := models.DiceKindOrdinary
		if i < len(input.DiceKinds) && input.DiceKinds[i] != "" {
			kind = input.DiceKinds[i]
		}
		dice = append(dice, models.Die{Value: value, Kind: kind})
	}
	room.GameState.Dice[idx] = dice
	room.UpdatedAt = s.clock.Now()

	if err := s.roomRepo.SaveRoom(ctx, &roomRepo.SaveRoomInput{Room: room}); err != nil {
		return nil, err
	}

	s.broadcaster.SendToRoom(ctx, room, broadcast.EventOpponentRolled, &broadcast.DicePayload{
		Dice:        dice,
		PlayerIndex: idx,
	}, input.TransportID)

	return &RollDiceOutput{Accepted: true, Dice: dice}, nil
}

// SelectDice replaces the acting player's dice selection wholesale
func (s *service) SelectDice(ctx context.Context, input *SelectDiceInput) (*SelectDiceOutput, error) {
	if input == nil || input.RoomID == "" || input.TransportID == "" {
		return nil, errors.New("input, room ID and transport ID are required")
	}

	s.locks.Lock(input.RoomID)
	defer s.locks.Unlock(input.RoomID)

	room, err := s.getRoom(ctx, input.RoomID)
	if err != nil {
		return nil, err
	}

	idx, ok := s.actingPlayer(room, input.TransportID)
	if !ok {
		return &SelectDiceOutput{}, nil
	}

	selected := make(map[int]bool, len(input.SelectedIndices))
	for _, i := range input.SelectedIndices {
		selected[i] = true
	}

	dice := room.GameState.Dice[idx]
	for i := range dice {
		dice[i].Selected = selected[i]
	}
	room.UpdatedAt = s.clock.Now()

	if err := s.roomRepo.SaveRoom(ctx, &roomRepo.SaveRoomInput{Room: room}); err != nil {
		return nil, err
	}

	s.broadcaster.SendToRoom(ctx, room, broadcast.EventOpponentSelectedDice, &broadcast.DicePayload{
		Dice:        dice,
		PlayerIndex: idx,
	}, input.TransportID)

	return &SelectDiceOutput{Accepted: true, Dice: dice}, nil
}

// KeepScore adds a scored selection to the acting player's turn score. Which
// dice freeze and whether the score is legal are the client rule engine's
// concern; the reported score is trusted.
func (s *service) KeepScore(ctx context.Context, input *KeepScoreInput) (*KeepScoreOutput, error) {
	if input == nil || input.RoomID == "" || input.TransportID == "" {
		return nil, errors.New("input, room ID and transport ID are required")
	}

	s.locks.Lock(input.RoomID)
	defer s.locks.Unlock(input.RoomID)

	room, err := s.getRoom(ctx, input.RoomID)
	if err != nil {
		return nil, err
	}

	idx, ok := s.actingPlayer(room, input.TransportID)
	if !ok {
		return &KeepScoreOutput{}, nil
	}

	room.GameState.TurnScores[idx] += input.Score
	room.UpdatedAt = s.clock.Now()

	if err := s.roomRepo.SaveRoom(ctx, &roomRepo.SaveRoomInput{Room: room}); err != nil {
		return nil, err
	}

	s.broadcaster.SendToRoom(ctx, room, broadcast.EventOpponentKeptScore, &broadcast.KeptScorePayload{
		TurnScore:   room.GameState.TurnScores[idx],
		PlayerIndex: idx,
	}, input.TransportID)

	return &KeepScoreOutput{Accepted: true, TurnScore: room.GameState.TurnScores[idx]}, nil
}

// BankScore banks the turn score, ending the game when the target is reached
func (s *service) BankScore(ctx context.Context, input *BankScoreInput) (*BankScoreOutput, error) {
	if input == nil || input.RoomID == "" || input.TransportID == "" {
		return nil, errors.New("input, room ID and transport ID are required")
	}

	s.locks.Lock(input.RoomID)
	defer s.locks.Unlock(input.RoomID)

	room, err := s.getRoom(ctx, input.RoomID)
	if err != nil {
		return nil, err
	}

	idx, ok := s.actingPlayer(room, input.TransportID)
	if !ok {
		return &BankScoreOutput{}, nil
	}

	state := room.GameState
	state.PlayerScores[idx] += state.TurnScores[idx] + input.Score
	state.TurnScores[idx] = 0
	room.UpdatedAt = s.clock.Now()

	if state.PlayerScores[idx] >= s.targetScore(room) {
		room.Status = models.RoomStatusFinished

		if err := s.roomRepo.SaveRoom(ctx, &roomRepo.SaveRoomInput{Room: room}); err != nil {
			return nil, err
		}

		log.Info().Str("room_id", room.ID).Int("winner", idx).Msg("game finished")

		s.broadcaster.SendToRoom(ctx, room, broadcast.EventGameEnd, &broadcast.GameEndPayload{
			Winner: idx,
			Scores: state.PlayerScores,
		}, "")

		return &BankScoreOutput{
			Accepted: true,
			Finished: true,
			Winner:   idx,
			Scores:   state.PlayerScores,
		}, nil
	}

	state.CurrentTurn = 1 - state.CurrentTurn
	state.Dice[idx] = []models.Die{}

	if err := s.roomRepo.SaveRoom(ctx, &roomRepo.SaveRoomInput{Room: room}); err != nil {
		return nil, err
	}

	s.broadcaster.SendToRoom(ctx, room, broadcast.EventTurnChanged, &broadcast.TurnChangedPayload{
		CurrentTurn: state.CurrentTurn,
		Scores:      state.PlayerScores,
	}, "")

	return &BankScoreOutput{
		Accepted:    true,
		Scores:      state.PlayerScores,
		CurrentTurn: state.CurrentTurn,
	}, nil
}

// Bust forfeits the acting player's turn score and passes the turn
func (s *service) Bust(ctx context.Context, input *BustInput) (*BustOutput, error) {
	if input == nil || input.RoomID == "" || input.TransportID == "" {
		return nil, errors.New("input, room ID and transport ID are required")
	}

	s.locks.Lock(input.RoomID)
	defer s.locks.Unlock(input.RoomID)

	room, err := s.getRoom(ctx, input.RoomID)
	if err != nil {
		return nil, err
	}

	idx, ok := s.actingPlayer(room, input.TransportID)
	if !ok {
		return &BustOutput{}, nil
	}

	state := room.GameState
	state.TurnScores[idx] = 0
	state.CurrentTurn = 1 - state.CurrentTurn
	state.Dice[idx] = []models.Die{}
	room.UpdatedAt = s.clock.Now()

	if err := s.roomRepo.SaveRoom(ctx, &roomRepo.SaveRoomInput{Room: room}); err != nil {
		return nil, err
	}

	s.broadcaster.SendToRoom(ctx, room, broadcast.EventOpponentBusted, &broadcast.BustedPayload{
		CurrentTurn: state.CurrentTurn,
	}, input.TransportID)

	return &BustOutput{Accepted: true, CurrentTurn: state.CurrentTurn}, nil
}

func (s *service) getRoom(ctx context.Context, roomID string) (*models.Room, error) {
	room, err := s.roomRepo.GetRoom(ctx, &roomRepo.GetRoomInput{RoomID: roomID})
	if err != nil {
		if errors.Is(err, roomRepo.ErrRoomNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return room, nil
}

// actingPlayer resolves the transport to a player slot if and only if the
// room is in play and it is that player's turn. ok=false is the silent
// turn-violation case: nothing changes and nothing is sent.
func (s *service) actingPlayer(room *models.Room, transportID string) (int, bool) {
	if room.Status != models.RoomStatusPlaying || room.GameState == nil {
		log.Debug().Str("room_id", room.ID).Str("status", string(room.Status)).
			Msg("action outside play ignored")
		return -1, false
	}

	idx := room.PlayerIndexByTransport(transportID)
	if idx < 0 {
		log.Debug().Str("room_id", room.ID).Str("transport_id", transportID).
			Msg("action from outside the room ignored")
		return -1, false
	}

	if idx != room.GameState.CurrentTurn {
		log.Debug().Str("room_id", room.ID).Int("slot", idx).
			Int("current_turn", room.GameState.CurrentTurn).
			Msg("out-of-turn action ignored")
		return -1, false
	}

	return idx, true
}

func (s *service) targetScore(room *models.Room) int {
	if room.Wager.TargetScore > 0 {
		return room.Wager.TargetScore
	}
	if s.config.DefaultTargetScore > 0 {
		return s.config.DefaultTargetScore
	}
	return models.DefaultTargetScore
}
