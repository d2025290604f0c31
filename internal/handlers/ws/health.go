package ws

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

type healthResponse struct {
	Name           string `json:"name"`
	Status         string `json:"status"`
	Version        string `json:"version"`
	Rooms          int64  `json:"rooms"`
	WaitingPlayers int64  `json:"waitingPlayers"`
	Timestamp      int64  `json:"timestamp"`
}

func (g *Gateway) handleHealth(w http.ResponseWriter, r *http.Request) {
	status, err := g.matchService.GetStatus(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("health check failed")
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(healthResponse{
		Name:           g.serverName,
		Status:         "running",
		Version:        g.version,
		Rooms:          status.Rooms,
		WaitingPlayers: status.WaitingPlayers,
		Timestamp:      g.clock.Now().UnixMilli(),
	})
}
