// internal/auth/token.go
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken is returned for any token that fails verification:
// bad signature, expired, or bound to a different room or player.
var ErrInvalidToken = errors.New("invalid resume token")

// ResumeClaims bind a resume token to a single room membership.
type ResumeClaims struct {
	RoomCode string    `json:"roomCode"`
	PlayerID uuid.UUID `json:"playerId"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 resume tokens. A nil issuer means
// resume-token verification is disabled and reconnects are trusted by
// player id alone.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenIssuer builds an issuer from the configured secret. An empty
// secret yields nil (verification disabled).
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	if secret == "" {
		return nil
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token binding (roomCode, playerID).
func (ti *TokenIssuer) Issue(roomCode string, playerID uuid.UUID) (string, error) {
	now := time.Now()
	claims := ResumeClaims{
		RoomCode: roomCode,
		PlayerID: playerID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   playerID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ti.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ti.secret)
}

// Verify checks the token's signature and that it is bound to exactly
// this (roomCode, playerID).
func (ti *TokenIssuer) Verify(token, roomCode string, playerID uuid.UUID) error {
	if token == "" {
		return ErrInvalidToken
	}
	parsed, err := jwt.ParseWithClaims(token, &ResumeClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return ti.secret, nil
	})
	if err != nil || !parsed.Valid {
		return ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*ResumeClaims)
	if !ok || claims.RoomCode != roomCode || claims.PlayerID != playerID {
		return ErrInvalidToken
	}
	return nil
}
