package chess

import "errors"

// Refusals returned by Engine transitions. A refused transition leaves the
// game state untouched.
var (
	ErrGameOver          = errors.New("game is over")
	ErrNoPiece           = errors.New("no piece on square")
	ErrNotYourPiece      = errors.New("piece belongs to the other player")
	ErrPieceNotAllocated = errors.New("piece type not available this turn")
	ErrIllegalMove       = errors.New("illegal move")
	ErrInvalidPromotion  = errors.New("invalid promotion piece")
	ErrRerollNotAllowed  = errors.New("reroll not allowed")
	ErrSkipNotAllowed    = errors.New("skip not allowed")
)
