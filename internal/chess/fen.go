package chess

import (
	"fmt"
	"strings"

	notnil "github.com/notnil/chess"
)

// Setup is a position decoded from FEN.
type Setup struct {
	Board     Board
	Turn      Color
	EnPassant *Position
}

// ParseFEN decodes a FEN string. Both kings must be present. Kings and
// rooks keep HasMoved false only when the matching castling right is
// present; pawns count as moved once they have left their start row.
func ParseFEN(fen string) (Setup, error) {
	fields := strings.Fields(fen)
	if len(fields) == 0 {
		return Setup{}, fmt.Errorf("invalid FEN: empty")
	}
	if strings.Count(fields[0], "K") != 1 || strings.Count(fields[0], "k") != 1 {
		return Setup{}, fmt.Errorf("invalid FEN: each side needs exactly one king")
	}

	fenFunc, err := notnil.FEN(fen)
	if err != nil {
		return Setup{}, fmt.Errorf("invalid FEN: %w", err)
	}
	pos := notnil.NewGame(fenFunc).Position()
	rights := pos.CastleRights()

	var setup Setup
	for sq, pc := range pos.Board().SquareMap() {
		color := fromNotnilColor(pc.Color())
		at := fromSquare(sq)
		piece := &Piece{Type: fromNotnilType(pc.Type()), Color: color}
		piece.HasMoved = inferHasMoved(*piece, at, rights)
		setup.Board[at.Row][at.Col] = piece
	}

	setup.Turn = fromNotnilColor(pos.Turn())
	if ep := pos.EnPassantSquare(); ep != notnil.NoSquare {
		at := fromSquare(ep)
		setup.EnPassant = &at
	}
	return setup, nil
}

// Placement returns the piece-placement field of the board's FEN.
func (b Board) Placement() string {
	squares := make(map[notnil.Square]notnil.Piece)
	for _, pl := range b.Pieces() {
		squares[toSquare(pl.Position)] = toNotnilPiece(pl.Piece)
	}
	return notnil.NewBoard(squares).String()
}

// FEN encodes the state. Castling rights come from the HasMoved flags; the
// halfmove clock is always 0 and the fullmove number counts black turns
// completed.
func (s GameState) FEN() string {
	turn := "w"
	if s.CurrentPlayer == Black {
		turn = "b"
	}

	ep := "-"
	if s.EnPassantTarget != nil {
		ep = s.EnPassantTarget.String()
	}

	fullMove := 1
	for _, m := range s.MoveHistory {
		if m.TurnChange && m.Piece.Color == Black {
			fullMove++
		}
	}

	return fmt.Sprintf("%s %s %s %s 0 %d", s.Board.Placement(), turn, castleRights(s.Board), ep, fullMove)
}

// ValidateFEN reports whether fen decodes.
func ValidateFEN(fen string) error {
	_, err := notnil.FEN(fen)
	return err
}

func castleRights(b Board) string {
	var sb strings.Builder
	for _, c := range []struct {
		color  Color
		rookAt int
		letter string
	}{
		{White, 7, "K"}, {White, 0, "Q"}, {Black, 7, "k"}, {Black, 0, "q"},
	} {
		row := homeRow(c.color)
		king := b[row][4]
		rook := b[row][c.rookAt]
		if king != nil && king.Type == King && king.Color == c.color && !king.HasMoved &&
			rook != nil && rook.Type == Rook && rook.Color == c.color && !rook.HasMoved {
			sb.WriteString(c.letter)
		}
	}
	if sb.Len() == 0 {
		return "-"
	}
	return sb.String()
}

func inferHasMoved(p Piece, at Position, rights notnil.CastleRights) bool {
	home := homeRow(p.Color)
	side := toNotnilColor(p.Color)
	switch p.Type {
	case Pawn:
		return at.Row != pawnStartRow(p.Color)
	case King:
		if at != (Position{Row: home, Col: 4}) {
			return true
		}
		return !rights.CanCastle(side, notnil.KingSide) && !rights.CanCastle(side, notnil.QueenSide)
	case Rook:
		switch at {
		case Position{Row: home, Col: 7}:
			return !rights.CanCastle(side, notnil.KingSide)
		case Position{Row: home, Col: 0}:
			return !rights.CanCastle(side, notnil.QueenSide)
		}
		return true
	default:
		return false
	}
}

func fromSquare(sq notnil.Square) Position {
	return Position{Row: 7 - int(sq.Rank()), Col: int(sq.File())}
}

func toSquare(p Position) notnil.Square {
	return notnil.Square((7-p.Row)*8 + p.Col)
}

func fromNotnilColor(c notnil.Color) Color {
	if c == notnil.Black {
		return Black
	}
	return White
}

func toNotnilColor(c Color) notnil.Color {
	if c == Black {
		return notnil.Black
	}
	return notnil.White
}

func fromNotnilType(t notnil.PieceType) PieceType {
	switch t {
	case notnil.King:
		return King
	case notnil.Queen:
		return Queen
	case notnil.Rook:
		return Rook
	case notnil.Bishop:
		return Bishop
	case notnil.Knight:
		return Knight
	case notnil.Pawn:
		return Pawn
	default:
		return NoPieceType
	}
}

var notnilPieces = map[Color]map[PieceType]notnil.Piece{
	White: {
		King: notnil.WhiteKing, Queen: notnil.WhiteQueen, Rook: notnil.WhiteRook,
		Bishop: notnil.WhiteBishop, Knight: notnil.WhiteKnight, Pawn: notnil.WhitePawn,
	},
	Black: {
		King: notnil.BlackKing, Queen: notnil.BlackQueen, Rook: notnil.BlackRook,
		Bishop: notnil.BlackBishop, Knight: notnil.BlackKnight, Pawn: notnil.BlackPawn,
	},
}

func toNotnilPiece(p Piece) notnil.Piece {
	return notnilPieces[p.Color][p.Type]
}
