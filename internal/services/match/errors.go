package match

// MatchError is a custom error type for matchmaking errors
type MatchError string

// Error implements the error interface
func (e MatchError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrRoomNotFound   MatchError = "room not found"
	ErrRoomFull       MatchError = "room is full"
	ErrNilConfig      MatchError = "config cannot be nil"
	ErrNilRoomRepo    MatchError = "room repository cannot be nil"
	ErrNilSessionRepo MatchError = "session repository cannot be nil"
	ErrNilQueueRepo   MatchError = "queue repository cannot be nil"
	ErrNilBroadcaster MatchError = "broadcaster cannot be nil"
	ErrNilClock       MatchError = "clock cannot be nil"
	ErrNilRoomIDGen   MatchError = "room ID generator cannot be nil"
	ErrNilLocks       MatchError = "room locks cannot be nil"
)
