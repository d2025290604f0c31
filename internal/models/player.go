package models

// DiceCount is how many dice each player brings to a match.
const DiceCount = 6

// DiceKind identifies a die variant from the client's collection
type DiceKind string

// DiceKindOrdinary is the default die used when the client supplies no config
const DiceKindOrdinary DiceKind = "ordinary"

// Player represents one occupant of a room
type Player struct {
	// ID is the client-chosen persistent identifier; it survives reconnection
	ID string `json:"id"`

	// Name is the display name of the player
	Name string `json:"name"`

	// TransportID identifies the player's current connection and is
	// replaced on every reconnection
	TransportID string `json:"transportId"`

	// Ready indicates the player has signaled readiness to start
	Ready bool `json:"ready"`

	// Connected is false while the player is temporarily disconnected
	Connected bool `json:"connected"`

	// DiceConfig is the kind of each of the player's six dice
	DiceConfig []DiceKind `json:"diceConfig"`
}

// DefaultDiceConfig returns six ordinary dice.
func DefaultDiceConfig() []DiceKind {
	cfg := make([]DiceKind, DiceCount)
	for i := range cfg {
		cfg[i] = DiceKindOrdinary
	}
	return cfg
}

// NormalizeDiceConfig pads or truncates a client-supplied config to exactly
// six entries, filling gaps with ordinary dice.
func NormalizeDiceConfig(cfg []DiceKind) []DiceKind {
	out := DefaultDiceConfig()
	for i := 0; i < len(cfg) && i < DiceCount; i++ {
		if cfg[i] != "" {
			out[i] = cfg[i]
		}
	}
	return out
}
