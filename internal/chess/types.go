package chess

import "fmt"

type PieceType string

const (
	NoPieceType PieceType = ""
	King        PieceType = "king"
	Queen       PieceType = "queen"
	Rook        PieceType = "rook"
	Bishop      PieceType = "bishop"
	Knight      PieceType = "knight"
	Pawn        PieceType = "pawn"
)

// PieceTypes lists every piece type in canonical order. Scans that collect
// types (allocation, counters) report them in this order.
var PieceTypes = []PieceType{King, Queen, Rook, Bishop, Knight, Pawn}

// Promotable reports whether a pawn may promote to t.
func (t PieceType) Promotable() bool {
	switch t {
	case Queen, Rook, Bishop, Knight:
		return true
	default:
		return false
	}
}

// Letter returns the notation letter for t; pawns have none.
func (t PieceType) Letter() string {
	switch t {
	case King:
		return "K"
	case Queen:
		return "Q"
	case Rook:
		return "R"
	case Bishop:
		return "B"
	case Knight:
		return "N"
	default:
		return ""
	}
}

func ParsePieceType(s string) PieceType {
	switch s {
	case "king", "k":
		return King
	case "queen", "q":
		return Queen
	case "rook", "r":
		return Rook
	case "bishop", "b":
		return Bishop
	case "knight", "n":
		return Knight
	case "pawn", "p":
		return Pawn
	default:
		return NoPieceType
	}
}

type Color string

const (
	White Color = "white"
	Black Color = "black"
)

func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

func ParseColor(s string) (Color, error) {
	switch Color(s) {
	case White, Black:
		return Color(s), nil
	default:
		return "", fmt.Errorf("invalid color %q", s)
	}
}

// Piece is a value; boards never modify a placed piece, moves install a copy.
type Piece struct {
	Type     PieceType `json:"type"`
	Color    Color     `json:"color"`
	HasMoved bool      `json:"hasMoved"`
}

// Position addresses a square. Row 0 is black's back rank, row 7 white's.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (p Position) Valid() bool {
	return p.Row >= 0 && p.Row <= 7 && p.Col >= 0 && p.Col <= 7
}

// String renders the square in algebraic form, e.g. "e2".
func (p Position) String() string {
	if !p.Valid() {
		return "-"
	}
	return fmt.Sprintf("%c%d", 'a'+p.Col, 8-p.Row)
}

// ParseSquare converts algebraic notation ("e2") to a Position.
func ParseSquare(sq string) (Position, bool) {
	if len(sq) != 2 {
		return Position{}, false
	}

	file := int(sq[0]) - 'a'
	rank := int(sq[1]) - '1'

	if file < 0 || file > 7 || rank < 0 || rank > 7 {
		return Position{}, false
	}

	return Position{Row: 7 - rank, Col: file}, true
}

type GameStatus string

const (
	StatusActive   GameStatus = "active"
	StatusDraw     GameStatus = "draw"
	StatusWhiteWon GameStatus = "white_won"
	StatusBlackWon GameStatus = "black_won"
)

type EndReason string

const (
	EndCheckmate   EndReason = "checkmate"
	EndTimeout     EndReason = "timeout"
	EndResignation EndReason = "resignation"
)

// Move is one recorded move. Piece is the pre-move snapshot.
type Move struct {
	From           Position  `json:"from"`
	To             Position  `json:"to"`
	Piece          Piece     `json:"piece"`
	CapturedPiece  *Piece    `json:"capturedPiece,omitempty"`
	Notation       string    `json:"notation"`
	PromotionPiece PieceType `json:"promotionPiece,omitempty"`
	IsCheck        bool      `json:"isCheck"`
	IsCastling     bool      `json:"isCastling,omitempty"`
	IsEnPassant    bool      `json:"isEnPassant,omitempty"`
	TurnChange     bool      `json:"turnChange"`
}

// Notation renders the simplified move string: piece letter, origin,
// "x" on capture, destination. Pawns carry no letter ("e2e4", "e4xd5").
func Notation(from, to Position, piece Piece, captured *Piece) string {
	capture := ""
	if captured != nil {
		capture = "x"
	}
	return piece.Type.Letter() + from.String() + capture + to.String()
}

// MaterialCount represents the material count for both sides
type MaterialCount struct {
	White int `json:"white"`
	Black int `json:"black"`
}

// Balance is white's material minus black's.
func (m MaterialCount) Balance() int {
	return m.White - m.Black
}

// StandardPieceValues maps piece types to their standard values
var StandardPieceValues = map[PieceType]int{
	Pawn:   1,
	Knight: 3,
	Bishop: 3,
	Rook:   5,
	Queen:  9,
	King:   0, // King has no material value
}

// CountMaterial sums the standard values of each side's pieces.
func CountMaterial(b Board) MaterialCount {
	var count MaterialCount
	for _, pl := range b.Pieces() {
		if pl.Piece.Color == White {
			count.White += StandardPieceValues[pl.Piece.Type]
		} else {
			count.Black += StandardPieceValues[pl.Piece.Type]
		}
	}
	return count
}
