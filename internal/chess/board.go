package chess

// Board is an 8x8 grid indexed [row][col]; nil means empty. Board is an
// array, so assignment copies it. Placed pieces are never mutated, which
// keeps older boards (history, hint probes) stable after later moves.
type Board [8][8]*Piece

// Placement is a piece together with the square it stands on.
type Placement struct {
	Position
	Piece Piece
}

var backRank = [8]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// NewBoard returns the standard starting position: black on rows 0-1,
// white on rows 6-7.
func NewBoard() Board {
	var b Board
	for col, t := range backRank {
		b[0][col] = &Piece{Type: t, Color: Black}
		b[1][col] = &Piece{Type: Pawn, Color: Black}
		b[6][col] = &Piece{Type: Pawn, Color: White}
		b[7][col] = &Piece{Type: t, Color: White}
	}
	return b
}

// At returns the piece on p, or nil when the square is empty or off-board.
func (b Board) At(p Position) *Piece {
	if !p.Valid() {
		return nil
	}
	return b[p.Row][p.Col]
}

// Place returns a copy of b with pc on p. A nil pc clears the square.
func (b Board) Place(p Position, pc *Piece) Board {
	if !p.Valid() {
		return b
	}
	if pc != nil {
		cp := *pc
		pc = &cp
	}
	b[p.Row][p.Col] = pc
	return b
}

// Pieces lists every piece in row-major order.
func (b Board) Pieces() []Placement {
	var out []Placement
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			if pc := b[row][col]; pc != nil {
				out = append(out, Placement{Position: Position{Row: row, Col: col}, Piece: *pc})
			}
		}
	}
	return out
}

// FindPiece returns the first square, row-major, whose piece matches.
func FindPiece(b Board, match func(Piece) bool) (Position, bool) {
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			if pc := b[row][col]; pc != nil && match(*pc) {
				return Position{Row: row, Col: col}, true
			}
		}
	}
	return Position{}, false
}

// PiecesOf lists color's pieces in row-major order.
func PiecesOf(b Board, color Color) []Placement {
	var out []Placement
	for _, pl := range b.Pieces() {
		if pl.Piece.Color == color {
			out = append(out, pl)
		}
	}
	return out
}

// AvailableTypes returns the piece types color still has on the board.
func AvailableTypes(b Board, color Color) []PieceType {
	present := make(map[PieceType]bool)
	for _, pl := range PiecesOf(b, color) {
		present[pl.Piece.Type] = true
	}

	var types []PieceType
	for _, t := range PieceTypes {
		if present[t] {
			types = append(types, t)
		}
	}
	return types
}

func findKing(b Board, color Color) (Position, bool) {
	return FindPiece(b, func(p Piece) bool {
		return p.Type == King && p.Color == color
	})
}
