package chess

import (
	"golang.org/x/exp/maps"
)

// GameState is the full state of one game. Engine hands out copies; no two
// states share maps or slices.
type GameState struct {
	Mode            Mode              `json:"mode"`
	Board           Board             `json:"board"`
	CurrentPlayer   Color             `json:"currentPlayer"`
	SelectedPieces  Allocation        `json:"selectedPieces"`
	UsedPiecesCount map[PieceType]int `json:"usedPiecesCount"`
	MovesRemaining  int               `json:"movesRemaining"`
	RerollsLeft     map[Color]int     `json:"rerollsLeft"`
	IsInCheck       bool              `json:"isInCheck"`
	GameOver        bool              `json:"gameOver"`
	Winner          Color             `json:"winner,omitempty"`
	EndReason       EndReason         `json:"endReason,omitempty"`
	MoveHistory     []Move            `json:"moveHistory"`
	EnPassantTarget *Position         `json:"enPassantTarget,omitempty"`
}

func (s GameState) clone() GameState {
	s.SelectedPieces = append(Allocation(nil), s.SelectedPieces...)
	s.UsedPiecesCount = maps.Clone(s.UsedPiecesCount)
	s.RerollsLeft = maps.Clone(s.RerollsLeft)
	s.MoveHistory = append([]Move(nil), s.MoveHistory...)
	if s.EnPassantTarget != nil {
		ep := *s.EnPassantTarget
		s.EnPassantTarget = &ep
	}
	return s
}

// MovesUsed is the number of moves made so far this turn.
func (s GameState) MovesUsed() int {
	total := 0
	for _, n := range s.UsedPiecesCount {
		total += n
	}
	return total
}

// rerollWindowOpen is true before the first move of a turn.
func (s GameState) rerollWindowOpen() bool {
	return s.MovesRemaining == MovesPerTurn && s.MovesUsed() == 0
}

// CanReroll reports whether the current player may reroll right now.
func (s GameState) CanReroll() bool {
	return !s.GameOver && s.rerollWindowOpen() && s.RerollsLeft[s.CurrentPlayer] > 0
}

// CanMove reports whether the current player has a move within the
// allocation.
func (s GameState) CanMove() bool {
	return CanMakeValidMove(s.Board, s.CurrentPlayer, s.SelectedPieces, s.UsedPiecesCount, s.EnPassantTarget)
}

// CanSkip reports whether the current player may pass the turn: no move is
// available within the allocation and the king is not in check.
func (s GameState) CanSkip() bool {
	return !s.GameOver && !s.IsInCheck && !s.CanMove()
}

func (s GameState) Status() GameStatus {
	if !s.GameOver {
		return StatusActive
	}
	switch s.Winner {
	case White:
		return StatusWhiteWon
	case Black:
		return StatusBlackWon
	default:
		return StatusDraw
	}
}

// LastMove returns the most recent move, if any.
func (s GameState) LastMove() (Move, bool) {
	if len(s.MoveHistory) == 0 {
		return Move{}, false
	}
	return s.MoveHistory[len(s.MoveHistory)-1], true
}

func zeroUsage() map[PieceType]int {
	used := make(map[PieceType]int, len(PieceTypes))
	for _, t := range PieceTypes {
		used[t] = 0
	}
	return used
}
