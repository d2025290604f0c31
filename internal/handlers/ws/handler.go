package ws

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/Miooowo/KCD-Dice-Game/internal/services/broadcast"
	"github.com/Miooowo/KCD-Dice-Game/internal/services/game"
	"github.com/Miooowo/KCD-Dice-Game/internal/services/match"
)

// dispatch routes one decoded envelope to the owning service. Payloads that
// fail to decode are logged and dropped; a bad client must not take the
// server down.
func (g *Gateway) dispatch(c *client, env *envelope) {
	ctx := context.Background()

	switch env.Event {
	case eventFindMatch:
		g.handleFindMatch(ctx, c, env.Payload)
	case eventCreateRoom:
		g.handleCreateRoom(ctx, c, env.Payload)
	case eventJoinRoom:
		g.handleJoinRoom(ctx, c, env.Payload)
	case eventPlayerReady:
		g.handlePlayerReady(ctx, c, env.Payload)
	case eventRollDice:
		g.handleRollDice(ctx, c, env.Payload)
	case eventSelectDice:
		g.handleSelectDice(ctx, c, env.Payload)
	case eventKeepScore:
		g.handleKeepScore(ctx, c, env.Payload)
	case eventBankScore:
		g.handleBankScore(ctx, c, env.Payload)
	case eventBust:
		g.handleBust(ctx, c, env.Payload)
	case eventLeaveRoom:
		g.handleLeaveRoom(ctx, c, env.Payload)
	default:
		log.Debug().
			Str("transport_id", c.id).
			Str("event", env.Event).
			Msg("unknown event, dropping")
	}
}

func (g *Gateway) decode(c *client, event string, raw json.RawMessage, v any) bool {
	if err := json.Unmarshal(raw, v); err != nil {
		log.Warn().
			Err(err).
			Str("transport_id", c.id).
			Str("event", event).
			Msg("malformed payload, dropping")
		return false
	}
	return true
}

func (g *Gateway) handleFindMatch(ctx context.Context, c *client, raw json.RawMessage) {
	var req matchRequest
	if !g.decode(c, eventFindMatch, raw, &req) {
		return
	}

	_, err := g.matchService.FindMatch(ctx, &match.FindMatchInput{
		PlayerID:    req.PlayerID,
		TransportID: c.id,
		Name:        req.Name,
		Wager:       req.Wager,
		DiceConfig:  req.DiceConfig,
	})
	if err != nil {
		log.Error().Err(err).Str("transport_id", c.id).Msg("find match failed")
	}
}

func (g *Gateway) handleCreateRoom(ctx context.Context, c *client, raw json.RawMessage) {
	var req matchRequest
	if !g.decode(c, eventCreateRoom, raw, &req) {
		return
	}

	_, err := g.matchService.CreateRoom(ctx, &match.CreateRoomInput{
		PlayerID:    req.PlayerID,
		TransportID: c.id,
		Name:        req.Name,
		Wager:       req.Wager,
		DiceConfig:  req.DiceConfig,
	})
	if err != nil {
		log.Error().Err(err).Str("transport_id", c.id).Msg("create room failed")
	}
}

func (g *Gateway) handleJoinRoom(ctx context.Context, c *client, raw json.RawMessage) {
	var req joinRequest
	if !g.decode(c, eventJoinRoom, raw, &req) {
		return
	}

	_, err := g.matchService.JoinRoom(ctx, &match.JoinRoomInput{
		RoomID:      req.RoomID,
		PlayerID:    req.PlayerID,
		TransportID: c.id,
		Name:        req.Name,
		Wager:       req.Wager,
		DiceConfig:  req.DiceConfig,
	})
	if err != nil {
		if errors.Is(err, match.ErrRoomNotFound) || errors.Is(err, match.ErrRoomFull) {
			g.hub.SendToPlayer(ctx, c.id, broadcast.EventJoinRoomError, broadcast.MessagePayload{
				Message: err.Error(),
			})
			return
		}
		log.Error().Err(err).Str("transport_id", c.id).Str("room_id", req.RoomID).Msg("join room failed")
	}
}

func (g *Gateway) handlePlayerReady(ctx context.Context, c *client, raw json.RawMessage) {
	var req roomRequest
	if !g.decode(c, eventPlayerReady, raw, &req) {
		return
	}

	_, err := g.gameService.Ready(ctx, &game.ReadyInput{
		RoomID:      req.RoomID,
		TransportID: c.id,
	})
	if err != nil {
		log.Error().Err(err).Str("transport_id", c.id).Str("room_id", req.RoomID).Msg("player ready failed")
	}
}

func (g *Gateway) handleRollDice(ctx context.Context, c *client, raw json.RawMessage) {
	var req rollRequest
	if !g.decode(c, eventRollDice, raw, &req) {
		return
	}

	_, err := g.gameService.RollDice(ctx, &game.RollDiceInput{
		RoomID:      req.RoomID,
		TransportID: c.id,
		DiceValues:  req.DiceValues,
		DiceKinds:   req.DiceKinds,
	})
	if err != nil {
		log.Error().Err(err).Str("transport_id", c.id).Str("room_id", req.RoomID).Msg("roll dice failed")
	}
}

func (g *Gateway) handleSelectDice(ctx context.Context, c *client, raw json.RawMessage) {
	var req selectRequest
	if !g.decode(c, eventSelectDice, raw, &req) {
		return
	}

	_, err := g.gameService.SelectDice(ctx, &game.SelectDiceInput{
		RoomID:          req.RoomID,
		TransportID:     c.id,
		SelectedIndices: req.SelectedIndices,
	})
	if err != nil {
		log.Error().Err(err).Str("transport_id", c.id).Str("room_id", req.RoomID).Msg("select dice failed")
	}
}

func (g *Gateway) handleKeepScore(ctx context.Context, c *client, raw json.RawMessage) {
	var req scoreRequest
	if !g.decode(c, eventKeepScore, raw, &req) {
		return
	}

	_, err := g.gameService.KeepScore(ctx, &game.KeepScoreInput{
		RoomID:      req.RoomID,
		TransportID: c.id,
		Score:       req.Score,
	})
	if err != nil {
		log.Error().Err(err).Str("transport_id", c.id).Str("room_id", req.RoomID).Msg("keep score failed")
	}
}

func (g *Gateway) handleBankScore(ctx context.Context, c *client, raw json.RawMessage) {
	var req scoreRequest
	if !g.decode(c, eventBankScore, raw, &req) {
		return
	}

	_, err := g.gameService.BankScore(ctx, &game.BankScoreInput{
		RoomID:      req.RoomID,
		TransportID: c.id,
		Score:       req.Score,
	})
	if err != nil {
		log.Error().Err(err).Str("transport_id", c.id).Str("room_id", req.RoomID).Msg("bank score failed")
	}
}

func (g *Gateway) handleBust(ctx context.Context, c *client, raw json.RawMessage) {
	var req roomRequest
	if !g.decode(c, eventBust, raw, &req) {
		return
	}

	_, err := g.gameService.Bust(ctx, &game.BustInput{
		RoomID:      req.RoomID,
		TransportID: c.id,
	})
	if err != nil {
		log.Error().Err(err).Str("transport_id", c.id).Str("room_id", req.RoomID).Msg("bust failed")
	}
}

func (g *Gateway) handleLeaveRoom(ctx context.Context, c *client, raw json.RawMessage) {
	var req leaveRequest
	if !g.decode(c, eventLeaveRoom, raw, &req) {
		return
	}

	_, err := g.matchService.LeaveRoom(ctx, &match.LeaveRoomInput{
		PlayerID: req.PlayerID,
	})
	if err != nil {
		log.Error().Err(err).Str("transport_id", c.id).Msg("leave room failed")
	}
}
