package queue

import "github.com/Miooowo/KCD-Dice-Game/internal/models"

type EnqueueInput struct {
	Entry *models.WaitingEntry
}

type RemoveInput struct {
	PlayerID string
}
