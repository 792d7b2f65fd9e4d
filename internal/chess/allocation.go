package chess

import (
	"math/rand"
	"time"
)

// Allocation is the multiset of piece types the mover may use this turn.
type Allocation []PieceType

// Count returns how many entries of t the allocation holds.
func (a Allocation) Count(t PieceType) int {
	n := 0
	for _, p := range a {
		if p == t {
			n++
		}
	}
	return n
}

// Allows reports whether another move of type t fits the allocation given
// the moves already made this turn.
func (a Allocation) Allows(t PieceType, used map[PieceType]int) bool {
	return used[t] < a.Count(t)
}

// RandSource is the random source consumed by the allocation sampler.
// *rand.Rand satisfies it; tests supply scripted sequences.
type RandSource interface {
	Intn(n int) int
}

// NewRandSource returns a math/rand source. A zero seed seeds from the clock.
func NewRandSource(seed int64) RandSource {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// Roll is one allocation draw.
type Roll struct {
	Pieces     Allocation `json:"pieces"`
	HasTriple  bool       `json:"hasTriple"`
	TripleType PieceType  `json:"tripleType,omitempty"`
}

// Roller draws count piece types for color.
type Roller func(b Board, color Color, count int, rng RandSource) Roll

// TripleThreshold is how many copies of one type earn the bonus reroll.
const TripleThreshold = 3

// PieceWeights is the weighting used by RollWeighted.
var PieceWeights = map[PieceType]int{
	King:   15,
	Queen:  10,
	Rook:   18,
	Bishop: 18,
	Knight: 18,
	Pawn:   21,
}

// RollPieces draws count types uniformly, with replacement, from the types
// color still has on the board. Drawing a type does not reserve a piece:
// three knights may be drawn with one knight left.
func RollPieces(b Board, color Color, count int, rng RandSource) Roll {
	return roll(b, color, count, func(types []PieceType) PieceType {
		return types[rng.Intn(len(types))]
	})
}

// RollWeighted is RollPieces with PieceWeights applied to the available
// types.
func RollWeighted(b Board, color Color, count int, rng RandSource) Roll {
	return roll(b, color, count, func(types []PieceType) PieceType {
		total := 0
		for _, t := range types {
			total += PieceWeights[t]
		}
		n := rng.Intn(total)
		for _, t := range types {
			n -= PieceWeights[t]
			if n < 0 {
				return t
			}
		}
		return types[len(types)-1]
	})
}

func roll(b Board, color Color, count int, pick func([]PieceType) PieceType) Roll {
	types := AvailableTypes(b, color)
	pieces := make(Allocation, 0, count)

	if len(types) == 0 {
		// Unreachable while the king is on the board.
		for i := 0; i < count; i++ {
			pieces = append(pieces, King)
		}
		return Roll{Pieces: pieces}
	}

	for i := 0; i < count; i++ {
		pieces = append(pieces, pick(types))
	}

	tripleType, hasTriple := DetectTriple(pieces)
	return Roll{Pieces: pieces, HasTriple: hasTriple, TripleType: tripleType}
}

// DetectTriple returns the first type, in draw order, to reach
// TripleThreshold copies.
func DetectTriple(pieces []PieceType) (PieceType, bool) {
	counts := make(map[PieceType]int)
	for _, p := range pieces {
		counts[p]++
		if counts[p] == TripleThreshold {
			return p, true
		}
	}
	return NoPieceType, false
}
