package chess

// IsValidMove reports whether piece may move from -> to on b. It never
// panics: malformed queries (nil piece, off-board squares, from == to)
// answer false so callers can probe every square speculatively.
//
// King moves are also rejected when they would leave that king in check.
// Other pieces are not filtered for self-check here; pair the call with
// IsInCheck on the resulting board, or use IsLegalMove.
func IsValidMove(b Board, from, to Position, piece *Piece, enPassant *Position) bool {
	if piece == nil || !from.Valid() || !to.Valid() || from == to {
		return false
	}

	target := b.At(to)
	if target != nil && (target.Color == piece.Color || target.Type == King) {
		return false
	}

	rowDiff := to.Row - from.Row
	colDiff := to.Col - from.Col

	var ok bool
	switch piece.Type {
	case Pawn:
		ok = validPawnMove(b, from, to, piece, rowDiff, colDiff, enPassant)
	case Rook:
		ok = (rowDiff == 0 || colDiff == 0) && pathClear(b, from, to)
	case Bishop:
		ok = abs(rowDiff) == abs(colDiff) && pathClear(b, from, to)
	case Queen:
		ok = (rowDiff == 0 || colDiff == 0 || abs(rowDiff) == abs(colDiff)) && pathClear(b, from, to)
	case Knight:
		ok = knightStep(rowDiff, colDiff)
	case King:
		ok = validKingMove(b, from, to, piece, rowDiff, colDiff)
	default:
		return false
	}
	if !ok {
		return false
	}

	if piece.Type == King && IsInCheck(ApplyMove(b, from, to, NoPieceType), piece.Color) {
		return false
	}
	return true
}

// IsLegalMove is IsValidMove plus the self-check test for every piece type.
// The piece is taken from the board.
func IsLegalMove(b Board, from, to Position, enPassant *Position) bool {
	piece := b.At(from)
	if !IsValidMove(b, from, to, piece, enPassant) {
		return false
	}
	return !IsInCheck(ApplyMove(b, from, to, NoPieceType), piece.Color)
}

// LegalDestinations lists every square the piece on from may legally reach,
// in row-major order.
func LegalDestinations(b Board, from Position, enPassant *Position) []Position {
	if b.At(from) == nil {
		return nil
	}

	var out []Position
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			to := Position{Row: row, Col: col}
			if IsLegalMove(b, from, to, enPassant) {
				out = append(out, to)
			}
		}
	}
	return out
}

// ApplyMove returns the board after moving the piece on from to to. Castling
// moves the rook too, en passant removes the passed pawn and a pawn reaching
// the last rank becomes promotion (queen when promotion is not promotable).
// An empty or off-board origin returns b unchanged.
func ApplyMove(b Board, from, to Position, promotion PieceType) Board {
	if !from.Valid() || !to.Valid() {
		return b
	}
	piece := b.At(from)
	if piece == nil {
		return b
	}

	next := b

	if isCastling(from, to, piece) {
		rookFrom, rookTo := 0, to.Col+1
		if to.Col > from.Col {
			rookFrom, rookTo = 7, to.Col-1
		}
		if rook := next[from.Row][rookFrom]; rook != nil {
			moved := *rook
			moved.HasMoved = true
			next[from.Row][rookTo] = &moved
			next[from.Row][rookFrom] = nil
		}
	}

	if isEnPassantCapture(b, from, to, piece) {
		next[to.Row-pawnDirection(piece.Color)][to.Col] = nil
	}

	moved := *piece
	moved.HasMoved = true
	if piece.Type == Pawn && isPromotionRow(to.Row) {
		if !promotion.Promotable() {
			promotion = Queen
		}
		moved.Type = promotion
	}

	next[to.Row][to.Col] = &moved
	next[from.Row][from.Col] = nil
	return next
}

// EnPassantTarget returns the square skipped by a two-square pawn advance,
// or nil for any other move.
func EnPassantTarget(from, to Position, piece Piece) *Position {
	if piece.Type != Pawn || abs(to.Row-from.Row) != 2 || from.Col != to.Col {
		return nil
	}
	return &Position{Row: (from.Row + to.Row) / 2, Col: from.Col}
}

func validPawnMove(b Board, from, to Position, piece *Piece, rowDiff, colDiff int, enPassant *Position) bool {
	dir := pawnDirection(piece.Color)

	if colDiff == 0 {
		if b.At(to) != nil {
			return false
		}
		if rowDiff == dir {
			return true
		}
		return from.Row == pawnStartRow(piece.Color) &&
			rowDiff == 2*dir &&
			b.At(Position{Row: from.Row + dir, Col: from.Col}) == nil
	}

	if abs(colDiff) != 1 || rowDiff != dir {
		return false
	}
	if b.At(to) != nil {
		return true
	}
	if enPassant == nil || *enPassant != to {
		return false
	}
	passed := b.At(Position{Row: from.Row, Col: to.Col})
	return passed != nil && passed.Type == Pawn && passed.Color != piece.Color
}

func validKingMove(b Board, from, to Position, piece *Piece, rowDiff, colDiff int) bool {
	if abs(rowDiff) <= 1 && abs(colDiff) <= 1 {
		return true
	}
	if !piece.HasMoved && rowDiff == 0 && abs(colDiff) == 2 {
		return canCastle(b, from, to, piece)
	}
	return false
}

// canCastle checks the rook, the empty squares between king and rook, and
// that the king neither starts in, crosses nor lands on an attacked square.
func canCastle(b Board, from, to Position, king *Piece) bool {
	if king.HasMoved {
		return false
	}

	kingSide := to.Col > from.Col
	rookCol := 0
	if kingSide {
		rookCol = 7
	}
	rook := b[from.Row][rookCol]
	if rook == nil || rook.Type != Rook || rook.Color != king.Color || rook.HasMoved {
		return false
	}

	for col := min(from.Col, rookCol) + 1; col < max(from.Col, rookCol); col++ {
		if b[from.Row][col] != nil {
			return false
		}
	}

	if IsInCheck(b, king.Color) {
		return false
	}

	step := -1
	if kingSide {
		step = 1
	}
	for col := from.Col + step; col != to.Col+step; col += step {
		probe := b
		probe[from.Row][from.Col] = nil
		probe[from.Row][col] = king
		if IsInCheck(probe, king.Color) {
			return false
		}
	}
	return true
}

// pathClear reports whether every square strictly between from and to is
// empty. from and to must share a rank, file or diagonal.
func pathClear(b Board, from, to Position) bool {
	rowStep := sign(to.Row - from.Row)
	colStep := sign(to.Col - from.Col)

	row, col := from.Row+rowStep, from.Col+colStep
	for row != to.Row || col != to.Col {
		if row < 0 || row > 7 || col < 0 || col > 7 {
			return false
		}
		if b[row][col] != nil {
			return false
		}
		row += rowStep
		col += colStep
	}
	return true
}

func knightStep(rowDiff, colDiff int) bool {
	return (abs(rowDiff) == 2 && abs(colDiff) == 1) || (abs(rowDiff) == 1 && abs(colDiff) == 2)
}

func isCastling(from, to Position, piece *Piece) bool {
	return piece.Type == King && from.Row == to.Row && abs(to.Col-from.Col) == 2
}

func isEnPassantCapture(b Board, from, to Position, piece *Piece) bool {
	return piece.Type == Pawn && abs(to.Col-from.Col) == 1 && b.At(to) == nil
}

func isPromotionRow(row int) bool {
	return row == 0 || row == 7
}

// pawnDirection is the row delta of a forward pawn step.
func pawnDirection(c Color) int {
	if c == White {
		return -1
	}
	return 1
}

func pawnStartRow(c Color) int {
	if c == White {
		return 6
	}
	return 1
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	default:
		return 0
	}
}
