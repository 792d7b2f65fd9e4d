package web

import (
	"net/http"
	"time"

	"github.com/justinabrahms/randchess/internal/chess"
)

// GameIndex is one row of the game list shown to spectators.
type GameIndex struct {
	GameID         string              `json:"gameId"`
	Mode           chess.Mode          `json:"mode"`
	Status         chess.GameStatus    `json:"status"`
	CurrentPlayer  chess.Color         `json:"currentPlayer"`
	MoveCount      int                 `json:"moveCount"`
	LastMove       string              `json:"lastMove,omitempty"`
	CreatedAt      time.Time           `json:"createdAt"`
	SpectatorCount int                 `json:"spectatorCount"`
	MaterialCount  chess.MaterialCount `json:"materialCount"`
}

// ListGamesHandler returns every hosted game, oldest first. ?status=active
// limits the list to live games.
func (s *Service) ListGamesHandler(w http.ResponseWriter, r *http.Request) {
	filter := chess.GameStatus(r.URL.Query().Get("status"))

	games := []GameIndex{}
	for _, g := range s.store.List() {
		g.mu.Lock()
		state := g.engine.State()
		g.mu.Unlock()

		if filter != "" && state.Status() != filter {
			continue
		}

		entry := GameIndex{
			GameID:        g.ID,
			Mode:          state.Mode,
			Status:        state.Status(),
			CurrentPlayer: state.CurrentPlayer,
			MoveCount:     len(state.MoveHistory),
			CreatedAt:     g.CreatedAt,
			MaterialCount: chess.CountMaterial(state.Board),
		}
		if last, ok := state.LastMove(); ok {
			entry.LastMove = last.Notation
		}
		if s.hub != nil {
			entry.SpectatorCount = s.hub.ClientCount(g.ID)
		}
		games = append(games, entry)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"games": games,
		"total": len(games),
	})
}
