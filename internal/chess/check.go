package chess

// IsInCheck reports whether color's king is attacked. A board without that
// king is treated as not in check.
func IsInCheck(b Board, color Color) bool {
	king, ok := findKing(b, color)
	if !ok {
		return false
	}
	return isAttacked(b, king, color.Opponent())
}

// AttackerCount returns how many of by's pieces attack target.
func AttackerCount(b Board, target Position, by Color) int {
	count := 0
	for _, pl := range PiecesOf(b, by) {
		pc := pl.Piece
		if canAttack(b, pl.Position, target, &pc) {
			count++
		}
	}
	return count
}

func isAttacked(b Board, target Position, by Color) bool {
	for _, pl := range PiecesOf(b, by) {
		pc := pl.Piece
		if canAttack(b, pl.Position, target, &pc) {
			return true
		}
	}
	return false
}

// canAttack is the raw attack geometry. It never consults king safety, so
// IsInCheck cannot recurse.
func canAttack(b Board, from, to Position, piece *Piece) bool {
	if from == to {
		return false
	}
	rowDiff := to.Row - from.Row
	colDiff := to.Col - from.Col

	switch piece.Type {
	case Pawn:
		return rowDiff == pawnDirection(piece.Color) && abs(colDiff) == 1
	case Rook:
		return (rowDiff == 0 || colDiff == 0) && pathClear(b, from, to)
	case Bishop:
		return abs(rowDiff) == abs(colDiff) && pathClear(b, from, to)
	case Queen:
		return (rowDiff == 0 || colDiff == 0 || abs(rowDiff) == abs(colDiff)) && pathClear(b, from, to)
	case Knight:
		return knightStep(rowDiff, colDiff)
	case King:
		return abs(rowDiff) <= 1 && abs(colDiff) <= 1
	default:
		return false
	}
}

// CanMakeValidMove reports whether color has any legal move using a piece
// type the allocation still permits. It stops at the first hit.
func CanMakeValidMove(b Board, color Color, selected Allocation, used map[PieceType]int, enPassant *Position) bool {
	if len(selected) == 0 {
		return false
	}
	for _, pl := range PiecesOf(b, color) {
		if !selected.Allows(pl.Piece.Type, used) {
			continue
		}
		if hasLegalDestination(b, pl.Position, enPassant) {
			return true
		}
	}
	return false
}

func hasLegalDestination(b Board, from Position, enPassant *Position) bool {
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			if IsLegalMove(b, from, Position{Row: row, Col: col}, enPassant) {
				return true
			}
		}
	}
	return false
}
