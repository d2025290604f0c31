package room

import "github.com/Miooowo/KCD-Dice-Game/internal/models"

type SaveRoomInput struct {
	Room *models.Room
}

type GetRoomInput struct {
	RoomID string
}

type DeleteRoomInput struct {
	RoomID string
}

type RoomExistsInput struct {
	RoomID string
}
