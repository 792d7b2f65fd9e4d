package chess

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// scriptedRand replays vals in a loop; each value is reduced modulo n.
type scriptedRand struct {
	vals []int
	i    int
}

func script(vals ...int) *scriptedRand {
	return &scriptedRand{vals: vals}
}

func (r *scriptedRand) Intn(n int) int {
	v := r.vals[r.i%len(r.vals)]
	r.i++
	return v % n
}

func sq(t *testing.T, s string) Position {
	t.Helper()
	p, ok := ParseSquare(s)
	require.True(t, ok, "bad square %q", s)
	return p
}

func boardFromFEN(t *testing.T, fen string) Board {
	t.Helper()
	setup, err := ParseFEN(fen)
	require.NoError(t, err)
	return setup.Board
}

func engineFromFEN(t *testing.T, fen string, mode Mode, rng RandSource) *Engine {
	t.Helper()
	e, err := NewEngineFromFEN(fen, mode, WithRand(rng))
	require.NoError(t, err)
	return e
}
