package session

import "github.com/Miooowo/KCD-Dice-Game/internal/models"

type SaveSessionInput struct {
	Session *models.Session
}

type GetSessionInput struct {
	PlayerID string
}

type GetSessionByTransportInput struct {
	TransportID string
}

type DeleteSessionInput struct {
	PlayerID string
}
