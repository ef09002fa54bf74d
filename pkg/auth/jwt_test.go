package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGameTokenRoundTrip(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)

	token, err := tokens.GenerateGameToken("g1")
	require.NoError(t, err)

	claims, err := tokens.ValidateGameToken(token)
	require.NoError(t, err)
	assert.Equal(t, "g1", claims.GameID)
	assert.NoError(t, tokens.Authorize(token, "g1"))
}

func TestAuthorizeRejectsOtherGame(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)
	token, err := tokens.GenerateGameToken("g1")
	require.NoError(t, err)

	require.ErrorIs(t, tokens.Authorize(token, "g2"), ErrInvalidToken)
}

func TestValidateRejectsBadTokens(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)
	token, err := tokens.GenerateGameToken("g1")
	require.NoError(t, err)

	_, err = NewTokens("other", time.Hour).ValidateGameToken(token)
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = tokens.ValidateGameToken("not.a.token")
	require.ErrorIs(t, err, ErrInvalidToken)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &GameClaims{GameID: "g1"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = tokens.ValidateGameToken(unsigned)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	tokens := NewTokens("secret", time.Minute)
	issued := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	tokens.now = func() time.Time { return issued }

	token, err := tokens.GenerateGameToken("g1")
	require.NoError(t, err)

	tokens.now = func() time.Time { return issued.Add(2 * time.Minute) }
	_, err = tokens.ValidateGameToken(token)
	require.ErrorIs(t, err, ErrInvalidToken)
	require.ErrorIs(t, err, jwt.ErrTokenExpired)
}
