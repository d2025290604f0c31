package roomid

import (
	"crypto/rand"
	"math/big"
)

//go:generate mockgen -package=mocks -destination=mocks/mock_generator.go github.com/Miooowo/KCD-Dice-Game/internal/common/roomid Generator

// Generator produces short room codes
type Generator interface {
	NewRoomID() string
}

// Length is the number of characters in a room code.
const Length = 6

// alphabet is base-36, uppercased for readability when players share codes.
const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// DefaultGenerator implements the Generator interface using crypto/rand
type DefaultGenerator struct{}

func New() *DefaultGenerator {
	return &DefaultGenerator{}
}

// NewRoomID returns a new 6-character base-36 room code. Collisions are
// unlikely but possible; callers must check the code against existing rooms.
func (g *DefaultGenerator) NewRoomID() string {
	code := make([]byte, Length)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
		if err != nil {
			// crypto/rand only fails if the platform source is broken
			panic(err)
		}
		code[i] = alphabet[n.Int64()]
	}
	return string(code)
}
