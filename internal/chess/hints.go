package chess

import (
	"fmt"

	"golang.org/x/exp/slices"
)

// MaxHints caps the advisor's suggestions.
const MaxHints = 3

// Hint is one scored suggestion.
type Hint struct {
	From   Position `json:"from"`
	To     Position `json:"to"`
	Piece  Piece    `json:"piece"`
	Score  int      `json:"score"`
	Reason string   `json:"reason"`
}

const (
	reasonLegal       = "Legal move"
	reasonCheck       = "Checks the opposing king"
	reasonCenter      = "Controls the center"
	reasonKingSafe    = "Keeps the king safe"
	reasonDevelopment = "Develops a piece"
	reasonPromotion   = "Promotes a pawn"
)

// captureValues weights captures for the advisor; the king entry only
// matters for speculative boards since kings are never captured.
var captureValues = map[PieceType]int{
	Pawn:   StandardPieceValues[Pawn],
	Knight: StandardPieceValues[Knight],
	Bishop: StandardPieceValues[Bishop],
	Rook:   StandardPieceValues[Rook],
	Queen:  StandardPieceValues[Queen],
	King:   100,
}

// EvaluateHints scores every legal move color can make within the
// allocation and returns the best MaxHints, highest score first. Equal
// scores keep scan order: origin row-major, then destination row-major.
func EvaluateHints(b Board, color Color, selected Allocation, used map[PieceType]int, enPassant *Position) []Hint {
	var hints []Hint

	for _, pl := range PiecesOf(b, color) {
		if !selected.Allows(pl.Piece.Type, used) {
			continue
		}
		for row := 0; row < 8; row++ {
			for col := 0; col < 8; col++ {
				to := Position{Row: row, Col: col}
				if !IsLegalMove(b, pl.Position, to, enPassant) {
					continue
				}
				hints = append(hints, scoreMove(b, pl.Position, to, pl.Piece))
			}
		}
	}

	slices.SortStableFunc(hints, func(a, b Hint) int {
		return b.Score - a.Score
	})
	if len(hints) > MaxHints {
		hints = hints[:MaxHints]
	}
	return hints
}

func scoreMove(b Board, from, to Position, piece Piece) Hint {
	score := 1
	reason := reasonLegal

	target := b.At(to)
	if target != nil {
		score += captureValues[target.Type] * 10
		reason = fmt.Sprintf("Captures %s", target.Type)
	}

	after := ApplyMove(b, from, to, NoPieceType)
	if IsInCheck(after, piece.Color.Opponent()) {
		score += 50
		reason = reasonCheck
	}

	if to.Row >= 3 && to.Row <= 4 && to.Col >= 3 && to.Col <= 4 {
		score += 5
		if reason == reasonLegal {
			reason = reasonCenter
		}
	}

	if piece.Type == King {
		if danger := AttackerCount(after, to, piece.Color.Opponent()); danger == 0 {
			score += 10
			if reason == reasonLegal {
				reason = reasonKingSafe
			}
		} else {
			score -= danger * 5
		}
	}

	if (piece.Type == Knight || piece.Type == Bishop) && from.Row == homeRow(piece.Color) {
		score += 8
		if reason == reasonLegal {
			reason = reasonDevelopment
		}
	}

	if piece.Type == Pawn && isPromotionRow(to.Row) {
		score += 80
		reason = reasonPromotion
	}

	return Hint{
		From:   from,
		To:     to,
		Piece:  piece,
		Score:  max(score, 1),
		Reason: reason,
	}
}

func homeRow(c Color) int {
	if c == White {
		return 7
	}
	return 0
}
