package game

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/Miooowo/KCD-Dice-Game/internal/services/game Service

import "context"

// Service drives a room's game from the ready handshake through the last
// bank. Every action is accepted only from the player whose turn it is;
// anything else is a silent no-op reported through the output's Accepted
// field and never surfaced to the sender.
type Service interface {
	// Ready marks a player ready; the game starts once both occupants are
	Ready(ctx context.Context, input *ReadyInput) (*ReadyOutput, error)

	// RollDice replaces the acting player's working dice with the reported roll
	RollDice(ctx context.Context, input *RollDiceInput) (*RollDiceOutput, error)

	// SelectDice replaces the acting player's dice selection
	SelectDice(ctx context.Context, input *SelectDiceInput) (*SelectDiceOutput, error)

	// KeepScore adds a scored selection to the acting player's turn score
	KeepScore(ctx context.Context, input *KeepScoreInput) (*KeepScoreOutput, error)

	// BankScore banks the turn score, ending the game when the target is reached
	BankScore(ctx context.Context, input *BankScoreInput) (*BankScoreOutput, error)

	// Bust forfeits the acting player's turn score and passes the turn
	Bust(ctx context.Context, input *BustInput) (*BustOutput, error)
}
