package chess

import (
	"fmt"
	"time"
)

type Mode string

const (
	ModeClassic Mode = "classic"
	ModeBlitz   Mode = "blitz"
	ModeAI      Mode = "ai"
	ModeChaos   Mode = "chaos"
)

const (
	// MovesPerTurn caps the moves in one turn in every mode.
	MovesPerTurn = 3
	// InitialRerolls is each player's reroll budget at game start.
	InitialRerolls = 2
)

// ModeSettings describes the per-mode rules.
type ModeSettings struct {
	Draws            int           `json:"draws"`
	MovesPerTurn     int           `json:"movesPerTurn"`
	RerollsPerPlayer int           `json:"rerollsPerPlayer"`
	TurnTimeLimit    time.Duration `json:"turnTimeLimit,omitempty"` // blitz: per turn
	GameTimeLimit    time.Duration `json:"gameTimeLimit,omitempty"` // others: per player
}

func (m Mode) Settings() ModeSettings {
	s := ModeSettings{
		Draws:            3,
		MovesPerTurn:     MovesPerTurn,
		RerollsPerPlayer: InitialRerolls,
	}
	switch m {
	case ModeBlitz:
		s.TurnTimeLimit = 30 * time.Second
	case ModeChaos:
		s.Draws = 4
		s.GameTimeLimit = 10 * time.Minute
	default:
		s.GameTimeLimit = 10 * time.Minute
	}
	return s
}

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeClassic, ModeBlitz, ModeAI, ModeChaos:
		return Mode(s), nil
	case "":
		return ModeClassic, nil
	default:
		return "", fmt.Errorf("unknown game mode %q", s)
	}
}
