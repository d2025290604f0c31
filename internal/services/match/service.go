package match

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Miooowo/KCD-Dice-Game/internal/common/clock"
	"github.com/Miooowo/KCD-Dice-Game/internal/common/keymutex"
	"github.com/Miooowo/KCD-Dice-Game/internal/common/roomid"
	"github.com/Miooowo/KCD-Dice-Game/internal/models"
	queueRepo "github.com/Miooowo/KCD-Dice-Game/internal/repositories/queue"
	roomRepo "github.com/Miooowo/KCD-Dice-Game/internal/repositories/room"
	sessionRepo "github.com/Miooowo/KCD-Dice-Game/internal/repositories/session"
	"github.com/Miooowo/KCD-Dice-Game/internal/services/broadcast"
)

// maxIDAttempts bounds the unique room code search
const maxIDAttempts = 10

const (
	msgOpponentLeft         = "Your opponent has left the game"
	msgOpponentDisconnected = "Your opponent lost connection and may return"
)

// service implements the Service interface
type service struct {
	config      *Config
	roomRepo    roomRepo.Repository
	sessionRepo sessionRepo.Repository
	queueRepo   queueRepo.Repository
	broadcaster broadcast.Broadcaster
	roomIDGen   roomid.Generator
	clock       clock.Clock
	locks       *keymutex.KeyMutex

	// queueMu makes the dequeue-and-assign step atomic; it is always taken
	// before any room lock, never while one is held
	queueMu sync.Mutex

	// graceMu guards the forfeit timers for temporarily disconnected players
	graceMu     sync.Mutex
	graceTimers map[string]*time.Timer
}

// New creates a new match service
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.RoomRepo == nil {
		return nil, ErrNilRoomRepo
	}
	if cfg.SessionRepo == nil {
		return nil, ErrNilSessionRepo
	}
	if cfg.QueueRepo == nil {
		return nil, ErrNilQueueRepo
	}
	if cfg.Broadcaster == nil {
		return nil, ErrNilBroadcaster
	}
	if cfg.RoomIDGen == nil {
		return nil, ErrNilRoomIDGen
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
		sessionRepo: cfg.SessionRepo,
		queueRepo:   cfg.QueueRepo,
		broadcaster: cfg.Broadcaster,
		roomIDGen:   cfg.RoomIDGen,
		clock:       cfg.Clock,
		locks:       cfg.RoomLocks,
		graceTimers: make(map[string]*time.Timer),
	}, nil
}

// FindMatch pairs a player with the oldest waiting opponent, or parks the
// player in a fresh solo room until one arrives
func (s *service) FindMatch(ctx context.Context, input *FindMatchInput) (*FindMatchOutput, error) {
	if input == nil || input.PlayerID == "" || input.TransportID == "" {
		return nil, errors.New("input, player ID and transport ID are required")
	}

	// Reconnection is checked before matchmaking on every inbound request
	if res := s.tryReconnect(ctx, input.PlayerID, input.TransportID, true); res != nil {
		return &FindMatchOutput{
			Room:        res.room,
			IsHost:      res.index == 0,
			Reconnected: true,
		}, nil
	}

	now := s.clock.Now()
	player := s.newPlayer(input.PlayerID, input.TransportID, input.Name, input.DiceConfig)

	s.queueMu.Lock()
	defer s.queueMu.Unlock()

	entry, err := s.queueRepo.Dequeue(ctx)
	if err != nil {
		if !errors.Is(err, queueRepo.ErrQueueEmpty) {
			return nil, err
		}
		return s.parkInSoloRoom(ctx, player, input.Wager, now)
	}

	if entry.PlayerID == input.PlayerID {
		// The player's own entry surfaced, meaning its session was lost but
		// the queue entry survived. Start over with a fresh solo room.
		log.Warn().Str("player_id", input.PlayerID).Msg("dequeued own waiting entry, re-parking")
		return s.parkInSoloRoom(ctx, player, input.Wager, now)
	}

	room, err := s.joinWaitingRoom(ctx, entry, player, now)
	if err != nil {
		if errors.Is(err, ErrRoomFull) {
			return s.parkInSoloRoom(ctx, player, input.Wager, now)
		}
		return nil, err
	}

	log.Info().
		Str("room_id", room.ID).
		Str("host_id", entry.PlayerID).
		Str("guest_id", player.ID).
		Msg("players matched")

	return &FindMatchOutput{Room: room, IsHost: false}, nil
}

// parkInSoloRoom opens a solo room for a player with no pairing candidate and
// enqueues it. Caller holds queueMu.
func (s *service) parkInSoloRoom(ctx context.Context, player *models.Player, wager models.Wager, now time.Time) (*FindMatchOutput, error) {
	room, err := s.createSoloRoom(ctx, player, wager, now)
	if err != nil {
		return nil, err
	}

	err = s.queueRepo.Enqueue(ctx, &queueRepo.EnqueueInput{
		Entry: &models.WaitingEntry{
			PlayerID:   player.ID,
			Name:       player.Name,
			Wager:      wager,
			DiceConfig: player.DiceConfig,
			RoomID:     room.ID,
			EnqueuedAt: now,
		},
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("room_id", room.ID).Str("player_id", player.ID).Msg("player waiting for match")

	s.broadcaster.SendToPlayer(ctx, player.TransportID, broadcast.EventMatched, &broadcast.RoomPayload{
		RoomID:  room.ID,
		IsHost:  true,
		Players: room.Players,
		Wager:   room.Wager,
	})

	return &FindMatchOutput{Room: room, IsHost: true}, nil
}

// joinWaitingRoom appends a player to the dequeued entry's room as the guest.
// If the room vanished out-of-band the entry's data is used to recreate it
// rather than dropping the waiting player. Caller holds queueMu.
func (s *service) joinWaitingRoom(ctx context.Context, entry *models.WaitingEntry, guest *models.Player, now time.Time) (*models.Room, error) {
	s.locks.Lock(entry.RoomID)
	defer s.locks.Unlock(entry.RoomID)

	room, err := s.roomRepo.GetRoom(ctx, &roomRepo.GetRoomInput{RoomID: entry.RoomID})
	if err != nil {
		if !errors.Is(err, roomRepo.ErrRoomNotFound) {
			return nil, err
		}

		log.Warn().Str("room_id", entry.RoomID).Str("player_id", entry.PlayerID).
			Msg("waiting entry's room vanished, recreating")

		room, err = s.recreateWaitingRoom(ctx, entry, now)
		if err != nil {
			return nil, err
		}
	}

	if room.IsFull() {
		// The entry should have been removed when the room filled; recover
		// by parking the guest alone
		log.Warn().Str("room_id", room.ID).Msg("dequeued entry points at a full room")
		return nil, ErrRoomFull
	}

	room.Players = append(room.Players, guest)
	room.UpdatedAt = now

	if err := s.roomRepo.SaveRoom(ctx, &roomRepo.SaveRoomInput{Room: room}); err != nil {
		return nil, err
	}

	if err := s.saveSessionFor(ctx, guest, room.ID, room.Wager, now); err != nil {
		return nil, err
	}

	s.broadcaster.SendToPlayer(ctx, guest.TransportID, broadcast.EventMatched, &broadcast.RoomPayload{
		RoomID:  room.ID,
		IsHost:  false,
		Players: room.Players,
		Wager:   room.Wager,
	})

	s.broadcaster.SendToRoom(ctx, room, broadcast.EventRoomReady, &broadcast.RoomReadyPayload{
		RoomID:  room.ID,
		Players: room.Players,
		Wager:   room.Wager,
	}, "")

	return room, nil
}

// recreateWaitingRoom rebuilds a waiting player's solo room from its queue
// entry after the original room was deleted out-of-band.
func (s *service) recreateWaitingRoom(ctx context.Context, entry *models.WaitingEntry, now time.Time) (*models.Room, error) {
	host := s.newPlayer(entry.PlayerID, "", entry.Name, entry.DiceConfig)

	// The waiter's live transport survives in its session, if anywhere
	sess, err := s.sessionRepo.GetSession(ctx, &sessionRepo.GetSessionInput{PlayerID: entry.PlayerID})
	if err == nil {
		host.TransportID = sess.TransportID
		host.Connected = sess.TransportID != ""
	} else if !errors.Is(err, sessionRepo.ErrSessionNotFound) {
		return nil, err
	}

	room, err := s.createSoloRoom(ctx, host, entry.Wager, now)
	if err != nil {
		return nil, err
	}

	return room, nil
}

// CreateRoom opens a room for a specific opponent to join by code
func (s *service) CreateRoom(ctx context.Context, input *CreateRoomInput) (*CreateRoomOutput, error) {
	if input == nil || input.PlayerID == "" || input.TransportID == "" {
		return nil, errors.New("input, player ID and transport ID are required")
	}

	if res := s.tryReconnect(ctx, input.PlayerID, input.TransportID, false); res != nil {
		return &CreateRoomOutput{Room: res.room, Reconnected: true}, nil
	}

	now := s.clock.Now()
	player := s.newPlayer(input.PlayerID, input.TransportID, input.Name, input.DiceConfig)

	room, err := s.createSoloRoom(ctx, player, input.Wager, now)
	if err != nil {
		return nil, err
	}

	log.Info().Str("room_id", room.ID).Str("player_id", player.ID).Msg("room created")

	s.broadcaster.SendToPlayer(ctx, player.TransportID, broadcast.EventRoomCreated, &broadcast.RoomPayload{
		RoomID:  room.ID,
		IsHost:  true,
		Players: room.Players,
		Wager:   room.Wager,
	})

	return &CreateRoomOutput{Room: room}, nil
}

// JoinRoom enters an existing room by its code
func (s *service) JoinRoom(ctx context.Context, input *JoinRoomInput) (*JoinRoomOutput, error) {
	if input == nil || input.PlayerID == "" || input.TransportID == "" || input.RoomID == "" {
		return nil, errors.New("input, room ID, player ID and transport ID are required")
	}

	sess, serr := s.sessionRepo.GetSession(ctx, &sessionRepo.GetSessionInput{PlayerID: input.PlayerID})
	if serr != nil && !errors.Is(serr, sessionRepo.ErrSessionNotFound) {
		return nil, serr
	}

	if serr == nil && sess.RoomID == input.RoomID {
		if res := s.tryReconnect(ctx, input.PlayerID, input.TransportID, false); res != nil {
			return &JoinRoomOutput{
				Room:        res.room,
				IsHost:      res.index == 0,
				Reconnected: true,
			}, nil
		}
	} else if serr == nil && sess.RoomID != "" {
		// Joining a different room is a departure from the current one
		if _, err := s.removePlayer(ctx, input.PlayerID); err != nil {
			return nil, err
		}
	}

	now := s.clock.Now()

	s.locks.Lock(input.RoomID)
	defer s.locks.Unlock(input.RoomID)

	room, err := s.roomRepo.GetRoom(ctx, &roomRepo.GetRoomInput{RoomID: input.RoomID})
	if err != nil {
		if errors.Is(err, roomRepo.ErrRoomNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}

	if room.IsFull() {
		return nil, ErrRoomFull
	}

	guest := s.newPlayer(input.PlayerID, input.TransportID, input.Name, input.DiceConfig)
	room.Players = append(room.Players, guest)
	room.UpdatedAt = now

	if err := s.roomRepo.SaveRoom(ctx, &roomRepo.SaveRoomInput{Room: room}); err != nil {
		return nil, err
	}

	if err := s.saveSessionFor(ctx, guest, room.ID, room.Wager, now); err != nil {
		return nil, err
	}

	log.Info().Str("room_id", room.ID).Str("player_id", guest.ID).Msg("player joined room")

	s.broadcaster.SendToPlayer(ctx, guest.TransportID, broadcast.EventRoomJoined, &broadcast.RoomPayload{
		RoomID:  room.ID,
		IsHost:  false,
		Players: room.Players,
		Wager:   room.Wager,
	})

	if room.IsFull() {
		s.broadcaster.SendToRoom(ctx, room, broadcast.EventRoomReady, &broadcast.RoomReadyPayload{
			RoomID:  room.ID,
			Players: room.Players,
			Wager:   room.Wager,
		}, "")
	}

	return &JoinRoomOutput{Room: room, IsHost: false}, nil
}

// LeaveRoom removes a player from its room and forgets its session
func (s *service) LeaveRoom(ctx context.Context, input *LeaveRoomInput) (*LeaveRoomOutput, error) {
	if input == nil || input.PlayerID == "" {
		return nil, errors.New("input and player ID are required")
	}

	left, err := s.removePlayer(ctx, input.PlayerID)
	if err != nil {
		return nil, err
	}

	return &LeaveRoomOutput{Left: left}, nil
}

// HandleDisconnect reacts to a dropped transport. A recoverable reason keeps
// the player's slot for reconnection; anything else is a departure.
func (s *service) HandleDisconnect(ctx context.Context, input *HandleDisconnectInput) (*HandleDisconnectOutput, error) {
	if input == nil || input.TransportID == "" {
		return nil, errors.New("input and transport ID are required")
	}

	sess, err := s.sessionRepo.GetSessionByTransport(ctx, &sessionRepo.GetSessionByTransportInput{
		TransportID: input.TransportID,
	})
	if err != nil {
		if errors.Is(err, sessionRepo.ErrSessionNotFound) {
			// Unknown or already-replaced transport; nothing to do
			return &HandleDisconnectOutput{}, nil
		}
		return nil, err
	}

	// A dropped player can no longer sit in the waiting queue; a recoverable
	// drop re-enters it on reconnection
	s.queueMu.Lock()
	if err := s.queueRepo.Remove(ctx, &queueRepo.RemoveInput{PlayerID: sess.PlayerID}); err != nil {
		log.Warn().Err(err).Str("player_id", sess.PlayerID).Msg("failed to remove waiting entry")
	}
	s.queueMu.Unlock()

	if !IsRecoverableReason(input.Reason) {
		log.Info().Str("player_id", sess.PlayerID).Str("reason", input.Reason).Msg("player departed")

		if _, err := s.removePlayer(ctx, sess.PlayerID); err != nil {
			return nil, err
		}
		return &HandleDisconnectOutput{PlayerID: sess.PlayerID}, nil
	}

	log.Info().Str("player_id", sess.PlayerID).Str("reason", input.Reason).Msg("player temporarily disconnected")

	if sess.RoomID != "" {
		s.locks.Lock(sess.RoomID)
		room, rerr := s.roomRepo.GetRoom(ctx, &roomRepo.GetRoomInput{RoomID: sess.RoomID})
		if rerr == nil {
			if idx := room.PlayerIndex(sess.PlayerID); idx >= 0 {
				room.Players[idx].Connected = false
				room.UpdatedAt = s.clock.Now()

				if err := s.roomRepo.SaveRoom(ctx, &roomRepo.SaveRoomInput{Room: room}); err != nil {
					log.Warn().Err(err).Str("room_id", room.ID).Msg("failed to mark player disconnected")
				}

				s.broadcaster.SendToRoom(ctx, room, broadcast.EventPlayerDisconnected, &broadcast.MessagePayload{
					Message: msgOpponentDisconnected,
				}, room.Players[idx].TransportID)
			}
		}
		s.locks.Unlock(sess.RoomID)
	}

	s.scheduleForfeit(sess.PlayerID, input.TransportID)

	return &HandleDisconnectOutput{Recoverable: true, PlayerID: sess.PlayerID}, nil
}

// GetStatus returns counters for the health surface
func (s *service) GetStatus(ctx context.Context) (*GetStatusOutput, error) {
	rooms, err := s.roomRepo.CountRooms(ctx)
	if err != nil {
		return nil, err
	}

	waiting, err := s.queueRepo.Length(ctx)
	if err != nil {
		return nil, err
	}

	return &GetStatusOutput{
		Rooms:          rooms,
		WaitingPlayers: waiting,
	}, nil
}

type reconnectResult struct {
	room  *models.Room
	index int
}

// tryReconnect reclaims an existing slot for a returning player. It returns
// nil when the request should fall through to normal matchmaking: no session,
// the room is gone, the player is not in it, or the game already finished.
func (s *service) tryReconnect(ctx context.Context, playerID, transportID string, reenqueue bool) *reconnectResult {
	sess, err := s.sessionRepo.GetSession(ctx, &sessionRepo.GetSessionInput{PlayerID: playerID})
	if err != nil {
		if !errors.Is(err, sessionRepo.ErrSessionNotFound) {
			log.Warn().Err(err).Str("player_id", playerID).Msg("session lookup failed")
		}
		return nil
	}

	if sess.RoomID == "" {
		return nil
	}

	res, needReenqueue := s.reclaimSlot(ctx, sess, transportID)
	if res == nil {
		return nil
	}

	if reenqueue && needReenqueue {
		// The slot was reclaimed in a solo waiting room whose queue entry was
		// dropped at disconnect time; restore it so the player is matchable
		s.queueMu.Lock()
		if err := s.queueRepo.Remove(ctx, &queueRepo.RemoveInput{PlayerID: playerID}); err != nil {
			log.Warn().Err(err).Str("player_id", playerID).Msg("failed to clear waiting entry")
		}
		err := s.queueRepo.Enqueue(ctx, &queueRepo.EnqueueInput{
			Entry: &models.WaitingEntry{
				PlayerID:   playerID,
				Name:       sess.Name,
				Wager:      sess.Wager,
				DiceConfig: sess.DiceConfig,
				RoomID:     res.room.ID,
				EnqueuedAt: s.clock.Now(),
			},
		})
		s.queueMu.Unlock()
		if err != nil {
			log.Warn().Err(err).Str("player_id", playerID).Msg("failed to re-enqueue waiting entry")
		}
	}

	return res
}

// reclaimSlot rebinds a returning player's transport under the room lock.
// The second result reports whether the player sits alone in a waiting room
// and so belongs back in the queue.
func (s *service) reclaimSlot(ctx context.Context, sess *models.Session, transportID string) (*reconnectResult, bool) {
	s.locks.Lock(sess.RoomID)
	defer s.locks.Unlock(sess.RoomID)

	room, err := s.roomRepo.GetRoom(ctx, &roomRepo.GetRoomInput{RoomID: sess.RoomID})
	if err != nil {
		if !errors.Is(err, roomRepo.ErrRoomNotFound) {
			log.Warn().Err(err).Str("room_id", sess.RoomID).Msg("room lookup failed")
		}
		return nil, false
	}

	idx := room.PlayerIndex(sess.PlayerID)
	if idx < 0 {
		return nil, false
	}

	if room.Status == models.RoomStatusFinished {
		// Finished rooms are not reconnectable; clear the stale occupancy and
		// let the request fall through to fresh matchmaking
		s.removeFromRoomLocked(ctx, room, idx, false)
		return nil, false
	}

	s.cancelForfeit(sess.PlayerID)

	now := s.clock.Now()
	player := room.Players[idx]
	player.TransportID = transportID
	player.Connected = true
	room.UpdatedAt = now

	if err := s.roomRepo.SaveRoom(ctx, &roomRepo.SaveRoomInput{Room: room}); err != nil {
		log.Warn().Err(err).Str("room_id", room.ID).Msg("failed to save reconnected room")
		return nil, false
	}

	sess.TransportID = transportID
	sess.UpdatedAt = now
	if err := s.sessionRepo.SaveSession(ctx, &sessionRepo.SaveSessionInput{Session: sess}); err != nil {
		log.Warn().Err(err).Str("player_id", sess.PlayerID).Msg("failed to save reconnected session")
		return nil, false
	}

	log.Info().Str("room_id", room.ID).Str("player_id", sess.PlayerID).Int("slot", idx).Msg("player reconnected")

	s.broadcaster.SendToPlayer(ctx, transportID, broadcast.EventMatched, &broadcast.RoomPayload{
		RoomID:  room.ID,
		IsHost:  idx == 0,
		Players: room.Players,
		Wager:   room.Wager,
	})

	if room.Status == models.RoomStatusPlaying && room.GameState != nil {
		// Mid-game reconnect: replay the full state so the client can restore
		s.broadcaster.SendToPlayer(ctx, transportID, broadcast.EventGameStart, &broadcast.GameStartPayload{
			RoomID:    room.ID,
			GameState: room.GameState,
			Players:   room.Players,
		})
	}

	needReenqueue := room.Status == models.RoomStatusWaiting && len(room.Players) == 1

	return &reconnectResult{room: room, index: idx}, needReenqueue
}

// removePlayer is the deliberate-departure path shared by LeaveRoom, final
// disconnects and forfeited grace windows.
func (s *service) removePlayer(ctx context.Context, playerID string) (bool, error) {
	s.cancelForfeit(playerID)

	s.queueMu.Lock()
	if err := s.queueRepo.Remove(ctx, &queueRepo.RemoveInput{PlayerID: playerID}); err != nil {
		log.Warn().Err(err).Str("player_id", playerID).Msg("failed to remove waiting entry")
	}
	s.queueMu.Unlock()

	left := false

	sess, err := s.sessionRepo.GetSession(ctx, &sessionRepo.GetSessionInput{PlayerID: playerID})
	if err != nil && !errors.Is(err, sessionRepo.ErrSessionNotFound) {
		return false, err
	}

	if err == nil && sess.RoomID != "" {
		s.locks.Lock(sess.RoomID)
		room, rerr := s.roomRepo.GetRoom(ctx, &roomRepo.GetRoomInput{RoomID: sess.RoomID})
		if rerr == nil {
			if idx := room.PlayerIndex(playerID); idx >= 0 {
				s.removeFromRoomLocked(ctx, room, idx, true)
				left = true
			}
		} else if !errors.Is(rerr, roomRepo.ErrRoomNotFound) {
			s.locks.Unlock(sess.RoomID)
			return false, rerr
		}
		s.locks.Unlock(sess.RoomID)
	}

	if err := s.sessionRepo.DeleteSession(ctx, &sessionRepo.DeleteSessionInput{PlayerID: playerID}); err != nil {
		log.Warn().Err(err).Str("player_id", playerID).Msg("failed to delete session")
	}

	return left, nil
}

// removeFromRoomLocked drops the occupant at idx, deleting the room once it
// is empty. Caller holds the room lock.
func (s *service) removeFromRoomLocked(ctx context.Context, room *models.Room, idx int, notify bool) {
	departing := room.Players[idx]
	room.Players = append(room.Players[:idx], room.Players[idx+1:]...)

	if len(room.Players) == 0 {
		if err := s.roomRepo.DeleteRoom(ctx, &roomRepo.DeleteRoomInput{RoomID: room.ID}); err != nil {
			log.Warn().Err(err).Str("room_id", room.ID).Msg("failed to delete empty room")
		}
		log.Info().Str("room_id", room.ID).Msg("room deleted")
		return
	}

	room.UpdatedAt = s.clock.Now()
	if err := s.roomRepo.SaveRoom(ctx, &roomRepo.SaveRoomInput{Room: room}); err != nil {
		log.Warn().Err(err).Str("room_id", room.ID).Msg("failed to save room after departure")
	}

	if notify {
		s.broadcaster.SendToRoom(ctx, room, broadcast.EventPlayerLeft, &broadcast.MessagePayload{
			Message: msgOpponentLeft,
		}, departing.TransportID)
	}
}

// createSoloRoom builds and persists a one-player room under a fresh code and
// upserts the player's session.
func (s *service) createSoloRoom(ctx context.Context, player *models.Player, wager models.Wager, now time.Time) (*models.Room, error) {
	id, err := s.uniqueRoomID(ctx)
	if err != nil {
		return nil, err
	}

	room := &models.Room{
		ID:        id,
		Players:   []*models.Player{player},
		Wager:     wager,
		Status:    models.RoomStatusWaiting,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.roomRepo.SaveRoom(ctx, &roomRepo.SaveRoomInput{Room: room}); err != nil {
		return nil, err
	}

	if err := s.saveSessionFor(ctx, player, room.ID, wager, now); err != nil {
		return nil, err
	}

	return room, nil
}

// uniqueRoomID generates a room code that does not collide with a live room
func (s *service) uniqueRoomID(ctx context.Context) (string, error) {
	for i := 0; i < maxIDAttempts; i++ {
		id := s.roomIDGen.NewRoomID()

		exists, err := s.roomRepo.RoomExists(ctx, &roomRepo.RoomExistsInput{RoomID: id})
		if err != nil {
			return "", err
		}
		if !exists {
			return id, nil
		}
	}

	return "", errors.New("failed to generate an unused room ID")
}

func (s *service) saveSessionFor(ctx context.Context, player *models.Player, roomID string, wager models.Wager, now time.Time) error {
	return s.sessionRepo.SaveSession(ctx, &sessionRepo.SaveSessionInput{
		Session: &models.Session{
			PlayerID:    player.ID,
			TransportID: player.TransportID,
			RoomID:      roomID,
			Name:        player.Name,
			Wager:       wager,
			DiceConfig:  player.DiceConfig,
			UpdatedAt:   now,
		},
	})
}

func (s *service) newPlayer(id, transportID, name string, cfg []models.DiceKind) *models.Player {
	if name == "" {
		name = "Player"
	}

	return &models.Player{
		ID:          id,
		Name:        name,
		TransportID: transportID,
		Connected:   transportID != "",
		DiceConfig:  models.NormalizeDiceConfig(cfg),
	}
}

// scheduleForfeit arms the grace-window timer for a dropped player. A zero
// grace keeps the slot indefinitely.
func (s *service) scheduleForfeit(playerID, transportID string) {
	if s.config.ReconnectGrace <= 0 {
		return
	}

	s.graceMu.Lock()
	defer s.graceMu.Unlock()

	if t, ok := s.graceTimers[playerID]; ok {
		t.Stop()
	}
	s.graceTimers[playerID] = time.AfterFunc(s.config.ReconnectGrace, func() {
		s.forfeitSlot(playerID, transportID)
	})
}

func (s *service) cancelForfeit(playerID string) {
	s.graceMu.Lock()
	defer s.graceMu.Unlock()

	if t, ok := s.graceTimers[playerID]; ok {
		t.Stop()
		delete(s.graceTimers, playerID)
	}
}

// forfeitSlot gives up a temporarily disconnected player's slot once the
// grace window lapses without a reconnection.
func (s *service) forfeitSlot(playerID, transportID string) {
	s.graceMu.Lock()
	delete(s.graceTimers, playerID)
	s.graceMu.Unlock()

	ctx := context.Background()

	sess, err := s.sessionRepo.GetSession(ctx, &sessionRepo.GetSessionInput{PlayerID: playerID})
	if err != nil || sess.TransportID != transportID {
		// Reclaimed or already gone
		return
	}

	log.Info().Str("player_id", playerID).Msg("reconnect grace lapsed, forfeiting slot")

	if _, err := s.removePlayer(ctx, playerID); err != nil {
		log.Warn().Err(err).Str("player_id", playerID).Msg("failed to forfeit slot")
	}
}
