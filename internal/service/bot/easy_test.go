package bot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iamasit07/connect-four/internal/domain"
)

func TestEasyTakesWin(t *testing.T) {
	g := newGame(t, domain.Options{}, 0, 0, 1, 1, 2, 6)

	col, err := NewEasy(1).RecommendColumn(context.Background(), g, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, col)
}

func TestEasyBlocksNextPlayer(t *testing.T) {
	g := newGame(t, domain.Options{}, 0, 6, 1, 6, 2)
	before := g.State()

	col, err := NewEasy(1).RecommendColumn(context.Background(), g, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, col)
	assert.Equal(t, before, g.State())
}

func TestEasyPlaysLegalColumns(t *testing.T) {
	g := newGame(t, domain.Options{Width: 3, Height: 2, VictoryLength: 3}, 1, 1)
	e := NewEasy(42)

	for i := 0; i < 20; i++ {
		col, err := e.RecommendColumn(context.Background(), g, 1)
		require.NoError(t, err)
		assert.Contains(t, []int{0, 2}, col)
	}
}

func TestEasySameSeedSameChoices(t *testing.T) {
	g := newGame(t, domain.Options{})
	a, b := NewEasy(9), NewEasy(9)

	for i := 0; i < 10; i++ {
		colA, err := a.RecommendColumn(context.Background(), g, 1)
		require.NoError(t, err)
		colB, err := b.RecommendColumn(context.Background(), g, 1)
		require.NoError(t, err)
		assert.Equal(t, colA, colB)
	}
}

func TestEasyWithSeedIsIndependent(t *testing.T) {
	g := newGame(t, domain.Options{})
	shared := NewEasy(1)
	var seeded Seedable = shared

	a, b := seeded.WithSeed(9), seeded.WithSeed(9)
	require.NotSame(t, shared, a)
	for i := 0; i < 10; i++ {
		// draws on the shared bot must not shift the seeded copies
		_, err := shared.RecommendColumn(context.Background(), g, 1)
		require.NoError(t, err)

		colA, err := a.RecommendColumn(context.Background(), g, 1)
		require.NoError(t, err)
		colB, err := b.RecommendColumn(context.Background(), g, 1)
		require.NoError(t, err)
		assert.Equal(t, colA, colB)
	}
}

func TestEasyWithoutLegalMove(t *testing.T) {
	full := newGame(t, domain.Options{Width: 2, Height: 2, VictoryLength: 3}, 0, 1, 0, 1)
	_, err := NewEasy(1).RecommendColumn(context.Background(), full, 1)
	require.ErrorIs(t, err, ErrNoLegalMove)

	won := newGame(t, domain.Options{}, 0, 1, 0, 1, 0, 1, 0)
	_, err = NewEasy(1).RecommendColumn(context.Background(), won, 1)
	require.ErrorIs(t, err, ErrNoLegalMove)
}
