package chess

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRollPiecesDrawsAvailableTypes(t *testing.T) {
	boards := map[string]Board{
		"start":      NewBoard(),
		"king+pawns": boardFromFEN(t, "4k3/8/8/8/8/8/PPP5/4K3 w - - 0 1"),
		"lone king":  boardFromFEN(t, "4k3/8/8/8/8/8/8/4K3 w - - 0 1"),
	}

	for name, b := range boards {
		t.Run(name, func(t *testing.T) {
			available := AvailableTypes(b, White)
			for seed := int64(1); seed <= 50; seed++ {
				for _, draws := range []int{3, 4} {
					r := RollPieces(b, White, draws, NewRandSource(seed))
					require.Len(t, r.Pieces, draws)
					for _, p := range r.Pieces {
						assert.Contains(t, available, p)
					}
				}
			}
		})
	}
}

func TestRollNeverOffersMissingTypes(t *testing.T) {
	b := boardFromFEN(t, "4k3/8/8/8/8/8/PPP5/4K3 w - - 0 1")
	for seed := int64(1); seed <= 100; seed++ {
		r := RollPieces(b, White, 3, NewRandSource(seed))
		assert.NotContains(t, r.Pieces, Queen)
		assert.NotContains(t, r.Pieces, Knight)
	}
}

func TestRollDetectsTriple(t *testing.T) {
	// Start position: index 4 is knight, 5 pawn and 2 rook.
	r := RollPieces(NewBoard(), White, 3, script(4, 4, 4))
	assert.Equal(t, Allocation{Knight, Knight, Knight}, r.Pieces)
	assert.True(t, r.HasTriple)
	assert.Equal(t, Knight, r.TripleType)

	chaos := RollPieces(NewBoard(), White, 4, script(5, 5, 5, 2))
	assert.Equal(t, Allocation{Pawn, Pawn, Pawn, Rook}, chaos.Pieces)
	assert.True(t, chaos.HasTriple)
	assert.Equal(t, Pawn, chaos.TripleType)

	plain := RollPieces(NewBoard(), White, 3, script(5, 5, 4))
	assert.Equal(t, Allocation{Pawn, Pawn, Knight}, plain.Pieces)
	assert.False(t, plain.HasTriple)
	assert.Equal(t, NoPieceType, plain.TripleType)
}

func TestRollFallsBackToKings(t *testing.T) {
	r := RollPieces(Board{}, White, 3, script(0))
	assert.Equal(t, Allocation{King, King, King}, r.Pieces)
	assert.False(t, r.HasTriple)
}

func TestRollWeighted(t *testing.T) {
	// Weights over the full set: king 0-14, queen 15-24, ..., pawn 79-99.
	r := RollWeighted(NewBoard(), White, 3, script(0, 15, 99))
	assert.Equal(t, Allocation{King, Queen, Pawn}, r.Pieces)

	// Only king (15) and pawn (21) remain: 36 in total.
	b := boardFromFEN(t, "4k3/8/8/8/8/8/PPP5/4K3 w - - 0 1")
	r = RollWeighted(b, White, 3, script(14, 15, 35))
	assert.Equal(t, Allocation{King, Pawn, Pawn}, r.Pieces)
}

func TestDetectTriple(t *testing.T) {
	tests := []struct {
		name   string
		pieces []PieceType
		want   PieceType
		ok     bool
	}{
		{"none", []PieceType{Pawn, Rook, Pawn}, NoPieceType, false},
		{"three of a kind", []PieceType{Bishop, Bishop, Bishop}, Bishop, true},
		{"first to reach three wins", []PieceType{Rook, Pawn, Rook, Pawn, Rook, Pawn}, Rook, true},
		{"four draws", []PieceType{Queen, Pawn, Pawn, Pawn}, Pawn, true},
		{"empty", nil, NoPieceType, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DetectTriple(tt.pieces)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAllocationAllows(t *testing.T) {
	a := Allocation{Pawn, Pawn, Knight}
	assert.Equal(t, 2, a.Count(Pawn))
	assert.True(t, a.Allows(Pawn, map[PieceType]int{Pawn: 1}))
	assert.False(t, a.Allows(Pawn, map[PieceType]int{Pawn: 2}))
	assert.True(t, a.Allows(Knight, nil))
	assert.False(t, a.Allows(Rook, nil))
}
