package ws

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/Miooowo/KCD-Dice-Game/internal/common/clock"
	"github.com/Miooowo/KCD-Dice-Game/internal/services/game"
	"github.com/Miooowo/KCD-Dice-Game/internal/services/match"
)

// Config holds the dependencies of the websocket gateway.
type Config struct {
	ServerName string
	Version    string

	Hub          *Hub
	MatchService match.Service
	GameService  game.Service
	Clock        clock.Clock
}

// Gateway upgrades HTTP connections to websockets and routes inbound events
// to the match and game services. Outbound delivery goes through the Hub.
type Gateway struct {
	serverName string
	version    string

	hub          *Hub
	matchService match.Service
	gameService  game.Service
	clock        clock.Clock

	upgrader websocket.Upgrader
}

// New creates a new Gateway with the given configuration.
func New(cfg *Config) (*Gateway, error) {
	if cfg == nil {
		return nil, errors.New("cfg is required")
	}
	if cfg.Hub == nil {
		return nil, errors.New("cfg.Hub is required")
	}
	if cfg.MatchService == nil {
		return nil, errors.New("cfg.MatchService is required")
	}
	if cfg.GameService == nil {
		return nil, errors.New("cfg.GameService is required")
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}

	return &Gateway{
		serverName:   cfg.ServerName,
		version:      cfg.Version,
		hub:          cfg.Hub,
		matchService: cfg.MatchService,
		gameService:  cfg.GameService,
		clock:        cfg.Clock,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  readBufferSize,
			WriteBufferSize: writeBufferSize,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}, nil
}

// Routes returns the HTTP router exposing the websocket and health endpoints.
func (g *Gateway) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/ws", g.handleWS)
	r.Get("/health", g.handleHealth)
	return r
}

func (g *Gateway) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	c := newClient(uuid.New().String(), conn, g)
	g.hub.add(c)

	log.Info().Str("transport_id", c.id).Msg("client connected")

	go c.writePump()
	go c.readPump()
}

// dropClient unregisters the connection and tells the match service the
// transport is gone. Safe to call more than once per client.
func (g *Gateway) dropClient(c *client, reason string) {
	if !g.hub.remove(c) {
		return
	}

	c.close()

	log.Info().
		Str("transport_id", c.id).
		Str("reason", reason).
		Msg("client disconnected")

	_, err := g.matchService.HandleDisconnect(context.Background(), &match.HandleDisconnectInput{
		TransportID: c.id,
		Reason:      reason,
	})
	if err != nil {
		log.Error().Err(err).Str("transport_id", c.id).Msg("handle disconnect failed")
	}
}
