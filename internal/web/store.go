package web

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/justinabrahms/randchess/internal/chess"
	"golang.org/x/exp/slices"
)

var ErrGameNotFound = errors.New("game not found")

// Game is one hosted game. The engine is not safe for concurrent use, so
// every access goes through mu.
type Game struct {
	ID        string
	CreatedAt time.Time

	mu     sync.Mutex
	engine *chess.Engine
	clock  *chess.Clock
}

// Store keeps games in memory, keyed by ID.
type Store struct {
	mu    sync.RWMutex
	games map[string]*Game
}

func NewStore() *Store {
	return &Store{games: make(map[string]*Game)}
}

// Add registers a game for engine and starts its clock at now.
func (s *Store) Add(engine *chess.Engine, now time.Time) *Game {
	g := &Game{
		ID:        uuid.NewString(),
		CreatedAt: now,
		engine:    engine,
		clock:     chess.NewClock(engine.Mode(), now),
	}

	s.mu.Lock()
	s.games[g.ID] = g
	s.mu.Unlock()
	return g
}

func (s *Store) Get(id string) (*Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.games[id]
	if !ok {
		return nil, ErrGameNotFound
	}
	return g, nil
}

// List returns every game, oldest first.
func (s *Store) List() []*Game {
	s.mu.RLock()
	games := make([]*Game, 0, len(s.games))
	for _, g := range s.games {
		games = append(games, g)
	}
	s.mu.RUnlock()

	slices.SortFunc(games, func(a, b *Game) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return games
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.games)
}
