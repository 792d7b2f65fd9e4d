package chess

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Engine owns one game's state and applies the turn rules to it. It is not
// safe for concurrent use; callers serialize access.
type Engine struct {
	mode   Mode
	state  GameState
	rng    RandSource
	roll   Roller
	logger zerolog.Logger
}

type Option func(*Engine)

// WithRand injects the random source used for allocation draws.
func WithRand(rng RandSource) Option {
	return func(e *Engine) {
		e.rng = rng
	}
}

// WithWeightedAllocation switches the sampler to RollWeighted.
func WithWeightedAllocation() Option {
	return func(e *Engine) {
		e.roll = RollWeighted
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

func newEngine(mode Mode, opts []Option) *Engine {
	e := &Engine{
		mode:   mode,
		roll:   RollPieces,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = NewRandSource(0)
	}
	return e
}

// NewEngine starts a game from the standard position with white to move.
func NewEngine(mode Mode, opts ...Option) *Engine {
	e := newEngine(mode, opts)
	e.NewGame()
	return e
}

// NewEngineFromFEN starts a game from a FEN position. Castling rights and
// the en passant square are honored; clocks are ignored.
func NewEngineFromFEN(fen string, mode Mode, opts ...Option) (*Engine, error) {
	setup, err := ParseFEN(fen)
	if err != nil {
		return nil, err
	}
	e := newEngine(mode, opts)
	e.start(setup.Board, setup.Turn, setup.EnPassant)
	return e, nil
}

func (e *Engine) Mode() Mode {
	return e.mode
}

// State returns a copy of the current game state.
func (e *Engine) State() GameState {
	return e.state.clone()
}

// NewGame discards the current game and starts over from the initial
// position.
func (e *Engine) NewGame() Outcome {
	e.start(NewBoard(), White, nil)
	return Outcome{State: e.State(), Events: []Event{{
		Type:   EventTurnChanged,
		Player: White,
		Pieces: e.state.SelectedPieces,
	}}}
}

func (e *Engine) start(board Board, turn Color, enPassant *Position) {
	r := e.roll(board, turn, e.mode.Settings().Draws, e.rng)
	settings := e.mode.Settings()
	e.state = GameState{
		Mode:            e.mode,
		Board:           board,
		CurrentPlayer:   turn,
		SelectedPieces:  r.Pieces,
		UsedPiecesCount: zeroUsage(),
		MovesRemaining:  MovesPerTurn,
		RerollsLeft: map[Color]int{
			White: settings.RerollsPerPlayer,
			Black: settings.RerollsPerPlayer,
		},
		EnPassantTarget: enPassant,
	}
	e.settle(&e.state)

	e.logger.Debug().
		Str("mode", string(e.mode)).
		Str("player", string(turn)).
		Interface("pieces", r.Pieces).
		Msg("Game started")
}

// Destinations lists where the piece on from may go this turn. Empty when
// the square is empty, holds an opponent piece, or its type is not
// allocated.
func (e *Engine) Destinations(from Position) []Position {
	s := e.state
	if s.GameOver {
		return nil
	}
	piece := s.Board.At(from)
	if piece == nil || piece.Color != s.CurrentPlayer || !s.SelectedPieces.Allows(piece.Type, s.UsedPiecesCount) {
		return nil
	}
	return LegalDestinations(s.Board, from, s.EnPassantTarget)
}

// Move plays from -> to for the current player. A pawn reaching the last
// rank without a promotion piece yields a PromotionRequired event and no
// state change; resubmit with the chosen piece.
func (e *Engine) Move(from, to Position, promotion PieceType) (Outcome, error) {
	s := e.state
	if s.GameOver {
		return e.refuse(ErrGameOver)
	}

	piece := s.Board.At(from)
	switch {
	case piece == nil:
		return e.refuse(ErrNoPiece)
	case piece.Color != s.CurrentPlayer:
		return e.refuse(ErrNotYourPiece)
	case !s.SelectedPieces.Allows(piece.Type, s.UsedPiecesCount):
		return e.refuse(fmt.Errorf("%w: %s", ErrPieceNotAllocated, piece.Type))
	case !IsLegalMove(s.Board, from, to, s.EnPassantTarget):
		return e.refuse(fmt.Errorf("%w: %s to %s", ErrIllegalMove, from, to))
	}

	if piece.Type == Pawn && isPromotionRow(to.Row) {
		if promotion == NoPieceType {
			f, t := from, to
			return Outcome{State: e.State(), Events: []Event{{
				Type:   EventPromotionRequired,
				Player: piece.Color,
				From:   &f,
				To:     &t,
			}}}, nil
		}
		if !promotion.Promotable() {
			return e.refuse(fmt.Errorf("%w: %s", ErrInvalidPromotion, promotion))
		}
	} else {
		promotion = NoPieceType
	}

	mover := *piece
	move := Move{
		From:           from,
		To:             to,
		Piece:          mover,
		PromotionPiece: promotion,
		IsCastling:     isCastling(from, to, piece),
		IsEnPassant:    isEnPassantCapture(s.Board, from, to, piece),
	}
	if captured := s.Board.At(to); captured != nil {
		c := *captured
		move.CapturedPiece = &c
	} else if move.IsEnPassant {
		c := *s.Board.At(Position{Row: from.Row, Col: to.Col})
		move.CapturedPiece = &c
	}
	move.Notation = Notation(from, to, mover, move.CapturedPiece)

	next := s.clone()
	next.Board = ApplyMove(s.Board, from, to, promotion)
	next.UsedPiecesCount[mover.Type]++
	next.MovesRemaining--

	// A check ends the turn regardless of the moves left.
	move.IsCheck = IsInCheck(next.Board, mover.Color.Opponent())
	move.TurnChange = move.IsCheck || next.MovesRemaining == 0
	next.MoveHistory = append(next.MoveHistory, move)

	recorded := move
	events := []Event{{Type: EventMoveApplied, Player: mover.Color, Move: &recorded}}

	if move.TurnChange {
		events = append(events, e.changeTurn(&next)...)
	} else {
		next.EnPassantTarget = EnPassantTarget(from, to, mover)
	}
	events = append(events, e.settle(&next)...)

	e.logger.Debug().
		Str("player", string(mover.Color)).
		Str("move", move.Notation).
		Bool("check", move.IsCheck).
		Bool("turnChange", move.TurnChange).
		Msg("Move applied")

	e.state = next
	return Outcome{State: e.State(), Events: events}, nil
}

// Reroll redraws the current player's allocation. Only allowed before the
// first move of a turn and while rerolls remain. A triple in the new draw
// grants a reroll back.
func (e *Engine) Reroll() (Outcome, error) {
	s := e.state
	if s.GameOver {
		return e.refuse(ErrGameOver)
	}
	if !s.CanReroll() {
		return e.refuse(ErrRerollNotAllowed)
	}

	next := s.clone()
	player := next.CurrentPlayer
	r := e.roll(next.Board, player, e.mode.Settings().Draws, e.rng)
	next.SelectedPieces = r.Pieces
	next.UsedPiecesCount = zeroUsage()
	next.RerollsLeft[player]--

	events := []Event{{Type: EventRerolled, Player: player, Pieces: r.Pieces}}
	if r.HasTriple {
		next.RerollsLeft[player]++
		events = append(events, Event{Type: EventBonusTriggered, Player: player, Piece: r.TripleType})
	}
	events = append(events, e.settle(&next)...)

	e.logger.Debug().
		Str("player", string(player)).
		Interface("pieces", r.Pieces).
		Int("rerollsLeft", next.RerollsLeft[player]).
		Msg("Allocation rerolled")

	e.state = next
	return Outcome{State: e.State(), Events: events}, nil
}

// SkipTurn passes the turn when the current player has no move within the
// allocation and is not in check.
func (e *Engine) SkipTurn() (Outcome, error) {
	s := e.state
	if s.GameOver {
		return e.refuse(ErrGameOver)
	}
	if !s.CanSkip() {
		return e.refuse(ErrSkipNotAllowed)
	}

	next := s.clone()
	events := e.changeTurn(&next)
	events = append(events, e.settle(&next)...)

	e.logger.Debug().Str("player", string(s.CurrentPlayer)).Msg("Turn skipped")

	e.state = next
	return Outcome{State: e.State(), Events: events}, nil
}

// TimeUp ends the game because color's clock ran out.
func (e *Engine) TimeUp(color Color) (Outcome, error) {
	return e.terminate(color.Opponent(), EndTimeout)
}

// Resign ends the game with color's opponent as winner.
func (e *Engine) Resign(color Color) (Outcome, error) {
	return e.terminate(color.Opponent(), EndResignation)
}

// Hints ranks the current player's best moves.
func (e *Engine) Hints() []Hint {
	s := e.state
	if s.GameOver {
		return nil
	}
	return EvaluateHints(s.Board, s.CurrentPlayer, s.SelectedPieces, s.UsedPiecesCount, s.EnPassantTarget)
}

func (e *Engine) terminate(winner Color, reason EndReason) (Outcome, error) {
	if e.state.GameOver {
		return e.refuse(ErrGameOver)
	}
	next := e.state.clone()
	event := e.end(&next, winner, reason)
	e.state = next
	return Outcome{State: e.State(), Events: []Event{event}}, nil
}

// changeTurn hands the move to the opponent with a fresh allocation.
func (e *Engine) changeTurn(s *GameState) []Event {
	s.CurrentPlayer = s.CurrentPlayer.Opponent()
	r := e.roll(s.Board, s.CurrentPlayer, e.mode.Settings().Draws, e.rng)
	s.SelectedPieces = r.Pieces
	s.UsedPiecesCount = zeroUsage()
	s.MovesRemaining = MovesPerTurn
	s.EnPassantTarget = nil

	events := []Event{{Type: EventTurnChanged, Player: s.CurrentPlayer, Pieces: r.Pieces}}
	if r.HasTriple {
		s.RerollsLeft[s.CurrentPlayer]++
		events = append(events, Event{Type: EventBonusTriggered, Player: s.CurrentPlayer, Piece: r.TripleType})
		e.logger.Debug().
			Str("player", string(s.CurrentPlayer)).
			Str("piece", string(r.TripleType)).
			Msg("Triple bonus granted")
	}
	return events
}

// settle refreshes the check flag and ends the game when the mover is
// mated. In check with no allocated move is only checkmate once no reroll
// can be used. Out of check with no move the mover skips instead.
func (e *Engine) settle(s *GameState) []Event {
	if s.GameOver {
		return nil
	}
	player := s.CurrentPlayer
	s.IsInCheck = IsInCheck(s.Board, player)

	if s.IsInCheck {
		if s.CanMove() {
			return nil
		}
		if s.RerollsLeft[player] > 0 && s.rerollWindowOpen() {
			return nil
		}
		return []Event{e.end(s, player.Opponent(), EndCheckmate)}
	}
	return nil
}

func (e *Engine) end(s *GameState, winner Color, reason EndReason) Event {
	s.GameOver = true
	s.Winner = winner
	s.EndReason = reason

	e.logger.Debug().
		Str("winner", string(winner)).
		Str("reason", string(reason)).
		Msg("Game over")

	return Event{Type: EventGameOver, Winner: winner, Reason: reason}
}

func (e *Engine) refuse(err error) (Outcome, error) {
	e.logger.Debug().Err(err).Str("player", string(e.state.CurrentPlayer)).Msg("Transition refused")
	return Outcome{State: e.State()}, err
}
