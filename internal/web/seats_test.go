package web

import (
	"net/http"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/justinabrahms/randchess/internal/chess"
	"github.com/justinabrahms/randchess/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeatsRoundTrip(t *testing.T) {
	seats, err := NewSeats("test-secret-that-is-long-enough!")
	require.NoError(t, err)

	token, err := seats.Issue("game-1", chess.Black)
	require.NoError(t, err)

	color, err := seats.Verify(token, "game-1")
	require.NoError(t, err)
	assert.Equal(t, chess.Black, color)
}

func TestSeatsRejects(t *testing.T) {
	seats, err := NewSeats("test-secret-that-is-long-enough!")
	require.NoError(t, err)
	other, err := NewSeats("")
	require.NoError(t, err)

	good, err := seats.Issue("game-1", chess.White)
	require.NoError(t, err)
	foreign, err := other.Issue("game-1", chess.White)
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, SeatClaims{GameID: "game-1", Color: chess.White}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	badColor, err := jwt.NewWithClaims(jwt.SigningMethodHS256, SeatClaims{GameID: "game-1", Color: "green"}).
		SignedString([]byte("test-secret-that-is-long-enough!"))
	require.NoError(t, err)

	tests := []struct {
		name   string
		token  string
		gameID string
	}{
		{"other game", good, "game-2"},
		{"other key", foreign, "game-1"},
		{"tampered", good + "x", "game-1"},
		{"unsigned", unsigned, "game-1"},
		{"garbage", "not.a.token", "game-1"},
		{"unknown color", badColor, "game-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := seats.Verify(tt.token, tt.gameID)
			assert.ErrorIs(t, err, ErrInvalidSeat)
		})
	}

	_, err = seats.Verify("", "game-1")
	assert.ErrorIs(t, err, ErrMissingSeat)
}

func TestBearerToken(t *testing.T) {
	req, _ := http.NewRequest("POST", "/", nil)
	assert.Empty(t, bearerToken(req))

	req.Header.Set("Authorization", "Basic abc")
	assert.Empty(t, bearerToken(req))

	req.Header.Set("Authorization", "Bearer abc.def")
	assert.Equal(t, "abc.def", bearerToken(req))
}

func TestSeatedGame(t *testing.T) {
	env := newTestEnvWithConfig(t, nil, &config.Config{
		Game:  config.GameConfig{DefaultMode: "classic"},
		Seats: config.SeatsConfig{Required: true, Secret: "test-secret-that-is-long-enough!"},
	})

	rr := env.do(t, "POST", "/api/games", CreateGameRequest{})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var created CreateGameResponse
	require.NoError(t, decodeJSON(rr, &created))
	require.Len(t, created.Seats, 2)
	white, black := created.Seats[chess.White], created.Seats[chess.Black]
	id := created.ID

	asSeat := func(token, method, path string, body interface{}) int {
		req := env.request(t, method, path, body)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		return env.serve(req).Code
	}

	movePath := "/api/games/" + id + "/moves"
	e2e4 := MoveRequest{From: "e2", To: "e4"}

	assert.Equal(t, http.StatusUnauthorized, asSeat("", "POST", movePath, e2e4))
	assert.Equal(t, http.StatusUnauthorized, asSeat("bogus", "POST", movePath, e2e4))
	assert.Equal(t, http.StatusForbidden, asSeat(black, "POST", movePath, e2e4), "not black's turn")
	assert.Equal(t, http.StatusForbidden, asSeat(black, "POST", "/api/games/"+id+"/reroll", nil))

	assert.Equal(t, http.StatusOK, asSeat(white, "POST", movePath, e2e4))

	resign := "/api/games/" + id + "/resign"
	assert.Equal(t, http.StatusForbidden, asSeat(white, "POST", resign, ResignRequest{Color: "black"}),
		"only the seat holder resigns")
	assert.Equal(t, http.StatusOK, asSeat(black, "POST", resign, ResignRequest{Color: "black"}))

	assert.Equal(t, http.StatusOK, asSeat(black, "POST", "/api/games/"+id+"/restart", nil))

	// Reads stay open to spectators.
	assert.Equal(t, http.StatusOK, asSeat("", "GET", "/api/games/"+id, nil))

	// A seat from one game does not open another.
	rr = env.do(t, "POST", "/api/games", CreateGameRequest{})
	require.NoError(t, decodeJSON(rr, &created))
	assert.Equal(t, http.StatusUnauthorized, asSeat(white, "POST", "/api/games/"+created.ID+"/moves", e2e4))
}

func TestUnseatedGameHasNoTokens(t *testing.T) {
	env := newTestEnv(t, nil)

	rr := env.do(t, "POST", "/api/games", CreateGameRequest{})
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.NotContains(t, rr.Body.String(), `"seats"`)
}
