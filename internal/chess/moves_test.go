package chess

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidMoveRejectsMalformed(t *testing.T) {
	b := NewBoard()
	e2 := sq(t, "e2")

	assert.False(t, IsValidMove(b, e2, sq(t, "e4"), nil, nil), "nil piece")
	assert.False(t, IsValidMove(b, e2, e2, b.At(e2), nil), "null move")
	assert.False(t, IsValidMove(b, e2, Position{Row: -1, Col: 4}, b.At(e2), nil), "off board")
	assert.False(t, IsValidMove(b, sq(t, "a1"), sq(t, "a2"), b.At(sq(t, "a1")), nil), "own piece")
}

func TestPawnMoves(t *testing.T) {
	b := NewBoard()
	pawn := b.At(sq(t, "e2"))

	assert.True(t, IsValidMove(b, sq(t, "e2"), sq(t, "e3"), pawn, nil))
	assert.True(t, IsValidMove(b, sq(t, "e2"), sq(t, "e4"), pawn, nil))
	assert.False(t, IsValidMove(b, sq(t, "e2"), sq(t, "e5"), pawn, nil))
	assert.False(t, IsValidMove(b, sq(t, "e2"), sq(t, "d3"), pawn, nil), "diagonal without capture")
	assert.False(t, IsValidMove(b, sq(t, "e2"), sq(t, "e1"), pawn, nil), "backwards")

	moved := ApplyMove(b, sq(t, "e2"), sq(t, "e3"), NoPieceType)
	assert.False(t, IsValidMove(moved, sq(t, "e3"), sq(t, "e5"), moved.At(sq(t, "e3")), nil),
		"double push only from the start row")
}

func TestPawnDoublePushNeedsClearPath(t *testing.T) {
	b := boardFromFEN(t, "4k3/8/8/8/8/4n3/4P3/4K3 w - - 0 1")
	pawn := b.At(sq(t, "e2"))

	assert.False(t, IsValidMove(b, sq(t, "e2"), sq(t, "e4"), pawn, nil))
	assert.False(t, IsValidMove(b, sq(t, "e2"), sq(t, "e3"), pawn, nil))
}

func TestPawnCapture(t *testing.T) {
	b := boardFromFEN(t, "4k3/8/8/3p4/4P3/8/8/4K3 w - - 0 1")
	pawn := b.At(sq(t, "e4"))

	assert.True(t, IsValidMove(b, sq(t, "e4"), sq(t, "d5"), pawn, nil))
	assert.False(t, IsValidMove(b, sq(t, "e4"), sq(t, "f5"), pawn, nil))
}

func TestEnPassant(t *testing.T) {
	b := boardFromFEN(t, "4k3/8/8/8/3p4/8/4P3/4K3 w - - 0 1")
	from, to := sq(t, "e2"), sq(t, "e4")

	after := ApplyMove(b, from, to, NoPieceType)
	ep := EnPassantTarget(from, to, *b.At(from))
	require.NotNil(t, ep)
	assert.Equal(t, Position{Row: 5, Col: 4}, *ep)

	black := after.At(sq(t, "d4"))
	require.True(t, IsValidMove(after, sq(t, "d4"), *ep, black, ep))
	assert.True(t, isEnPassantCapture(after, sq(t, "d4"), *ep, black))

	captured := ApplyMove(after, sq(t, "d4"), *ep, NoPieceType)
	assert.Nil(t, captured.At(Position{Row: 4, Col: 4}), "captured pawn removed")
	assert.Nil(t, captured.At(sq(t, "d4")))
	assert.Equal(t, &Piece{Type: Pawn, Color: Black, HasMoved: true}, captured.At(*ep))

	assert.False(t, IsValidMove(after, sq(t, "d4"), *ep, black, nil), "no target, no capture")
}

func TestEnPassantTargetOnlyForDoublePush(t *testing.T) {
	pawn := Piece{Type: Pawn, Color: White}
	assert.Nil(t, EnPassantTarget(sq(t, "e2"), sq(t, "e3"), pawn))
	assert.Nil(t, EnPassantTarget(sq(t, "g1"), sq(t, "g3"), Piece{Type: Rook, Color: White}))

	ep := EnPassantTarget(sq(t, "d7"), sq(t, "d5"), Piece{Type: Pawn, Color: Black})
	require.NotNil(t, ep)
	assert.Equal(t, sq(t, "d6"), *ep)
}

func TestEnPassantNeedsEnemyPawnAlongside(t *testing.T) {
	// The target square is set but nothing stands beside the white pawn.
	b := boardFromFEN(t, "4k3/8/8/8/4P3/8/8/4K3 w - - 0 1")
	ep := sq(t, "d5")
	assert.False(t, IsValidMove(b, sq(t, "e4"), ep, b.At(sq(t, "e4")), &ep))
}

func TestSlidingPiecesAreBlocked(t *testing.T) {
	b := NewBoard()

	assert.False(t, IsValidMove(b, sq(t, "a1"), sq(t, "a3"), b.At(sq(t, "a1")), nil))
	assert.False(t, IsValidMove(b, sq(t, "c1"), sq(t, "e3"), b.At(sq(t, "c1")), nil))
	assert.False(t, IsValidMove(b, sq(t, "d1"), sq(t, "d3"), b.At(sq(t, "d1")), nil))

	assert.True(t, IsValidMove(b, sq(t, "g1"), sq(t, "f3"), b.At(sq(t, "g1")), nil), "knights jump")
	assert.False(t, IsValidMove(b, sq(t, "g1"), sq(t, "g3"), b.At(sq(t, "g1")), nil))
}

func TestKingCannotBeCaptured(t *testing.T) {
	b := boardFromFEN(t, "4k3/8/8/8/8/8/8/4RK2 w - - 0 1")
	assert.False(t, IsValidMove(b, sq(t, "e1"), sq(t, "e8"), b.At(sq(t, "e1")), nil))
}

func TestKingAvoidsAttackedSquares(t *testing.T) {
	b := boardFromFEN(t, "4k3/8/8/8/8/8/r7/4K3 w - - 0 1")
	king := b.At(sq(t, "e1"))

	assert.False(t, IsValidMove(b, sq(t, "e1"), sq(t, "e2"), king, nil), "rank 2 is covered by the rook")
	assert.True(t, IsValidMove(b, sq(t, "e1"), sq(t, "f1"), king, nil))
}

func TestCastling(t *testing.T) {
	b := boardFromFEN(t, "4k3/8/8/8/8/8/8/R3K2R w KQ - 0 1")
	king := b.At(sq(t, "e1"))

	require.True(t, IsValidMove(b, sq(t, "e1"), sq(t, "g1"), king, nil))
	short := ApplyMove(b, sq(t, "e1"), sq(t, "g1"), NoPieceType)
	assert.Equal(t, &Piece{Type: King, Color: White, HasMoved: true}, short.At(sq(t, "g1")))
	assert.Equal(t, &Piece{Type: Rook, Color: White, HasMoved: true}, short.At(Position{Row: 7, Col: 5}))
	assert.Nil(t, short.At(sq(t, "h1")))

	require.True(t, IsValidMove(b, sq(t, "e1"), sq(t, "c1"), king, nil))
	long := ApplyMove(b, sq(t, "e1"), sq(t, "c1"), NoPieceType)
	assert.Equal(t, Rook, long.At(sq(t, "d1")).Type)
	assert.Nil(t, long.At(sq(t, "a1")))
}

func TestCastlingRefused(t *testing.T) {
	tests := []struct {
		name string
		fen  string
	}{
		{"rook has moved", "4k3/8/8/8/8/8/8/4K2R w - - 0 1"},
		{"king in check", "4r1k1/8/8/8/8/8/8/4K2R w K - 0 1"},
		{"crosses an attacked square", "4kr2/8/8/8/8/8/8/4K2R w K - 0 1"},
		{"lands on an attacked square", "4k1r1/8/8/8/8/8/8/4K2R w K - 0 1"},
		{"path blocked", "4k3/8/8/8/8/8/8/4KN1R w K - 0 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := boardFromFEN(t, tt.fen)
			assert.False(t, IsValidMove(b, sq(t, "e1"), sq(t, "g1"), b.At(sq(t, "e1")), nil))
		})
	}
}

func TestApplyMovePromotion(t *testing.T) {
	b := boardFromFEN(t, "7k/P7/8/8/8/8/8/4K3 w - - 0 1")

	queen := ApplyMove(b, sq(t, "a7"), sq(t, "a8"), NoPieceType)
	assert.Equal(t, Queen, queen.At(sq(t, "a8")).Type, "defaults to queen")

	knight := ApplyMove(b, sq(t, "a7"), sq(t, "a8"), Knight)
	assert.Equal(t, &Piece{Type: Knight, Color: White, HasMoved: true}, knight.At(sq(t, "a8")))

	king := ApplyMove(b, sq(t, "a7"), sq(t, "a8"), King)
	assert.Equal(t, Queen, king.At(sq(t, "a8")).Type, "kings are not a promotion choice")
}

func TestApplyMoveLeavesInputUntouched(t *testing.T) {
	b := NewBoard()
	_ = ApplyMove(b, sq(t, "e2"), sq(t, "e4"), NoPieceType)

	assert.Equal(t, &Piece{Type: Pawn, Color: White}, b.At(sq(t, "e2")))
	assert.Nil(t, b.At(sq(t, "e4")))
}

func TestPinnedPieceIsNotLegal(t *testing.T) {
	b := boardFromFEN(t, "4k3/4r3/8/8/8/8/4B3/4K3 w - - 0 1")
	bishop := b.At(sq(t, "e2"))

	assert.True(t, IsValidMove(b, sq(t, "e2"), sq(t, "d3"), bishop, nil), "geometry alone allows it")
	assert.False(t, IsLegalMove(b, sq(t, "e2"), sq(t, "d3"), nil), "but it exposes the king")
	assert.Empty(t, LegalDestinations(b, sq(t, "e2"), nil))
}

func TestLegalDestinations(t *testing.T) {
	b := NewBoard()

	assert.Equal(t, []Position{sq(t, "f3"), sq(t, "h3")}, LegalDestinations(b, sq(t, "g1"), nil))
	assert.Equal(t, []Position{sq(t, "e4"), sq(t, "e3")}, LegalDestinations(b, sq(t, "e2"), nil))
	assert.Empty(t, LegalDestinations(b, sq(t, "e4"), nil))
}

func TestLegalMovesNeverLeaveOwnKingInCheck(t *testing.T) {
	positions := []string{
		startFEN,
		"r1bqkbnr/pppp1ppp/2n5/4p3/2B1P3/5Q2/PPPP1PPP/RNB1K1NR w KQkq - 0 1",
		"4k3/4r3/8/8/8/8/4B3/4K3 w - - 0 1",
		"4k3/8/8/8/8/8/r7/4K3 w - - 0 1",
		"r3k2r/8/8/8/4P3/8/8/R3K2R b KQkq e3 0 1",
	}

	for _, fen := range positions {
		setup, err := ParseFEN(fen)
		require.NoError(t, err)
		for _, pl := range PiecesOf(setup.Board, setup.Turn) {
			for _, to := range LegalDestinations(setup.Board, pl.Position, setup.EnPassant) {
				after := ApplyMove(setup.Board, pl.Position, to, NoPieceType)
				assert.False(t, IsInCheck(after, setup.Turn), "%s: %s-%s", fen, pl.Position, to)
			}
		}
	}
}
