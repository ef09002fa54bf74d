package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

const issuer = "connect-four"

// GameClaims grants control over a single game.
type GameClaims struct {
	GameID string `json:"game_id"`
	jwt.RegisteredClaims
}

// Tokens issues and validates HS256 game tokens.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// GenerateGameToken creates a token for gameID that expires after the configured TTL.
func (t *Tokens) GenerateGameToken(gameID string) (string, error) {
	now := t.now()
	claims := &GameClaims{
		GameID: gameID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   gameID,
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// ValidateGameToken checks the signature and expiry and returns the claims.
func (t *Tokens) ValidateGameToken(tokenString string) (*GameClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &GameClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return t.secret, nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if claims, ok := token.Claims.(*GameClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrInvalidToken
}

// Authorize succeeds when tokenString is a valid token for gameID.
func (t *Tokens) Authorize(tokenString, gameID string) error {
	claims, err := t.ValidateGameToken(tokenString)
	if err != nil {
		return err
	}
	if claims.GameID != gameID {
		return fmt.Errorf("%w: token is for another game", ErrInvalidToken)
	}
	return nil
}
