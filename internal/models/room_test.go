package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func twoPlayerRoom() *Room {
	return &Room{
		ID: "AB12CD",
		Players: []*Player{
			{ID: "p1", TransportID: "t1"},
			{ID: "p2", TransportID: "t2"},
		},
		Status: RoomStatusWaiting,
	}
}

func TestRoomIsFull(t *testing.T) {
	room := &Room{Players: []*Player{{ID: "p1"}}}
	assert.False(t, room.IsFull())

	room.Players = append(room.Players, &Player{ID: "p2"})
	assert.True(t, room.IsFull())
}

func TestRoomPlayerIndex(t *testing.T) {
	room := twoPlayerRoom()

	assert.Equal(t, 0, room.PlayerIndex("p1"))
	assert.Equal(t, 1, room.PlayerIndex("p2"))
	assert.Equal(t, -1, room.PlayerIndex("p3"))
}

func TestRoomPlayerIndexByTransport(t *testing.T) {
	room := twoPlayerRoom()

	assert.Equal(t, 0, room.PlayerIndexByTransport("t1"))
	assert.Equal(t, 1, room.PlayerIndexByTransport("t2"))
	assert.Equal(t, -1, room.PlayerIndexByTransport("t9"))
}

func TestRoomOpponent(t *testing.T) {
	room := twoPlayerRoom()

	assert.Equal(t, "p2", room.Opponent(0).ID)
	assert.Equal(t, "p1", room.Opponent(1).ID)

	solo := &Room{Players: []*Player{{ID: "p1"}}}
	assert.Nil(t, solo.Opponent(0))
}

func TestNormalizeDiceConfig(t *testing.T) {
	tests := []struct {
		name string
		in   []DiceKind
		want []DiceKind
	}{
		{
			name: "nil config becomes all ordinary",
			in:   nil,
			want: DefaultDiceConfig(),
		},
		{
			name: "short config is padded",
			in:   []DiceKind{"lucky", "weighted"},
			want: []DiceKind{"lucky", "weighted", DiceKindOrdinary, DiceKindOrdinary, DiceKindOrdinary, DiceKindOrdinary},
		},
		{
			name: "long config is truncated",
			in:   []DiceKind{"a", "b", "c", "d", "e", "f", "g", "h"},
			want: []DiceKind{"a", "b", "c", "d", "e", "f"},
		},
		{
			name: "empty entries fall back to ordinary",
			in:   []DiceKind{"lucky", "", "weighted", "", "", ""},
			want: []DiceKind{"lucky", DiceKindOrdinary, "weighted", DiceKindOrdinary, DiceKindOrdinary, DiceKindOrdinary},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeDiceConfig(tt.in))
		})
	}
}

func TestNewGameState(t *testing.T) {
	state := NewGameState()

	assert.True(t, state.Started)
	assert.Equal(t, 0, state.CurrentTurn)
	assert.Equal(t, [2]int{0, 0}, state.PlayerScores)
	assert.Equal(t, [2]int{0, 0}, state.TurnScores)
	assert.Empty(t, state.Dice[0])
	assert.Empty(t, state.Dice[1])
}
