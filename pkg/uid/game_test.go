package uid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateGameID(t *testing.T) {
	a, b := GenerateGameID(), GenerateGameID()
	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
	assert.True(t, ValidGameID(a))
}

func TestValidGameID(t *testing.T) {
	assert.False(t, ValidGameID(""))
	assert.False(t, ValidGameID("not-a-game"))
	assert.False(t, ValidGameID("0123456789abcdef0123456789abcdeg"))
	assert.False(t, ValidGameID("550e8400-e29b-41d4-a716-446655440000"))
	assert.True(t, ValidGameID("550e8400e29b41d4a716446655440000"))
}
