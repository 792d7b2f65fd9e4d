package web

import (
	"crypto/rand"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/justinabrahms/randchess/internal/chess"
)

var (
	ErrMissingSeat = errors.New("missing seat token")
	ErrInvalidSeat = errors.New("invalid seat token")
)

// SeatClaims binds a token to one color of one game.
type SeatClaims struct {
	GameID string      `json:"gid"`
	Color  chess.Color `json:"color"`
	jwt.RegisteredClaims
}

// Seats issues and verifies HS256 seat tokens.
type Seats struct {
	key []byte
	now func() time.Time
}

// NewSeats signs with secret, or with a random 32-byte key when secret is
// empty. Tokens from a random key do not survive a restart.
func NewSeats(secret string) (*Seats, error) {
	key := []byte(secret)
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("failed to generate seat key: %w", err)
		}
	}
	return &Seats{key: key, now: time.Now}, nil
}

// Issue returns a signed token for color in gameID.
func (s *Seats) Issue(gameID string, color chess.Color) (string, error) {
	claims := SeatClaims{
		GameID: gameID,
		Color:  color,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  gameID + "/" + string(color),
			IssuedAt: jwt.NewNumericDate(s.now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign seat token: %w", err)
	}
	return signed, nil
}

// Verify checks tokenString and returns the color it seats in gameID.
func (s *Seats) Verify(tokenString, gameID string) (chess.Color, error) {
	if tokenString == "" {
		return "", ErrMissingSeat
	}

	var claims SeatClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (interface{}, error) {
		return s.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidSeat, err)
	}
	if !token.Valid {
		return "", ErrInvalidSeat
	}
	if claims.GameID != gameID {
		return "", fmt.Errorf("%w: issued for another game", ErrInvalidSeat)
	}
	if claims.Color != chess.White && claims.Color != chess.Black {
		return "", fmt.Errorf("%w: unknown color %q", ErrInvalidSeat, claims.Color)
	}
	return claims.Color, nil
}

// issuePair signs both seats of a new game.
func (s *Seats) issuePair(gameID string) (map[chess.Color]string, error) {
	pair := make(map[chess.Color]string, 2)
	for _, c := range []chess.Color{chess.White, chess.Black} {
		token, err := s.Issue(gameID, c)
		if err != nil {
			return nil, err
		}
		pair[c] = token
	}
	return pair, nil
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}
