package game

// GameError is a custom error type for game-related errors
type GameError string

// Error implements the error interface
func (e GameError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrRoomNotFound   GameError = "room not found"
	ErrNilConfig      GameError = "config cannot be nil"
	ErrNilRoomRepo    GameError = "room repository cannot be nil"
	ErrNilBroadcaster GameError = "broadcaster cannot be nil"
	ErrNilClock       GameError = "clock cannot be nil"
	ErrNilLocks       GameError = "room locks cannot be nil"
)
