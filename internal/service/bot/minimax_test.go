package bot

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/iamasit07/connect-four/internal/domain"
)

func newGame(t *testing.T, opts domain.Options, columns ...int) *domain.Game {
	t.Helper()
	g, err := domain.NewGame([]string{"P0", "P1"}, opts)
	require.NoError(t, err)
	for _, c := range columns {
		_, _, err := g.DropDisc(c)
		require.NoError(t, err, "column %d", c)
	}
	return g
}

// randomPositions plays seeded random games and collects the positions that
// still have a legal move.
func randomPositions(t *testing.T, opts domain.Options, seed int64, count, maxMoves int) []*domain.Game {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	var out []*domain.Game
	for len(out) < count {
		g := newGame(t, opts)
		moves := rng.Intn(maxMoves + 1)
		for i := 0; i < moves && !g.IsFinished(); i++ {
			cols := g.Board().ValidColumns()
			_, _, err := g.DropDisc(cols[rng.Intn(len(cols))])
			require.NoError(t, err)
		}
		if !g.IsFinished() {
			out = append(out, g)
		}
	}
	return out
}

func TestOptimalColumnTakesImmediateWin(t *testing.T) {
	// P0 holds columns 0-2 on the bottom row and is to move
	g := newGame(t, domain.Options{}, 0, 0, 1, 1, 2, 6)

	configs := map[string]Config{
		"pruned":     DefaultConfig(),
		"exhaustive": {DisablePruning: true},
		"parallel":   {Parallel: true, Workers: 3},
	}
	for name, cfg := range configs {
		t.Run(name, func(t *testing.T) {
			m := NewMinimax(cfg, zaptest.NewLogger(t))
			for depth := 1; depth <= 4; depth++ {
				rec, err := m.OptimalColumn(context.Background(), g, 0, depth)
				require.NoError(t, err)
				assert.Equal(t, 3, rec.Column, "depth %d", depth)
				assert.Equal(t, DefaultWeights().Win+depth-1, rec.Score)
			}
		})
	}
}

func TestOptimalColumnBlocksOpponent(t *testing.T) {
	// P0 threatens column 3 and P1 is to move
	g := newGame(t, domain.Options{}, 0, 6, 1, 6, 2)
	m := NewMinimax(DefaultConfig(), nil)

	for _, depth := range []int{2, 3, 4} {
		col, err := m.RecommendColumn(context.Background(), g, depth)
		require.NoError(t, err)
		assert.Equal(t, 3, col, "depth %d", depth)
	}
}

func TestAlphaBetaMatchesExhaustive(t *testing.T) {
	opts := domain.Options{Width: 4, Height: 4, VictoryLength: 3}
	pruned := NewMinimax(DefaultConfig(), nil)
	exhaustive := NewMinimax(Config{DisablePruning: true}, nil)
	ctx := context.Background()

	for i, g := range randomPositions(t, opts, 7, 60, 10) {
		player := g.CurrentPlayer()
		for depth := 1; depth <= 4; depth++ {
			want, err := exhaustive.OptimalColumn(ctx, g, player, depth)
			require.NoError(t, err)
			got, err := pruned.OptimalColumn(ctx, g, player, depth)
			require.NoError(t, err)

			require.Equal(t, want.Column, got.Column, "position %d depth %d\n%s", i, depth, g)
			require.Equal(t, want.Score, got.Score, "position %d depth %d", i, depth)
			assert.LessOrEqual(t, got.Nodes, want.Nodes)

			fullWant, err := exhaustive.Search(ctx, g, player, depth, MinScore, MaxScore)
			require.NoError(t, err)
			fullGot, err := pruned.Search(ctx, g, player, depth, MinScore, MaxScore)
			require.NoError(t, err)
			require.Equal(t, fullWant, fullGot, "position %d depth %d", i, depth)
		}
	}
}

func TestParallelMatchesSequential(t *testing.T) {
	opts := domain.Options{Width: 5, Height: 4, VictoryLength: 3}
	sequential := NewMinimax(DefaultConfig(), nil)
	parallel := NewMinimax(Config{Parallel: true}, nil)
	ctx := context.Background()

	for i, g := range randomPositions(t, opts, 11, 25, 8) {
		want, err := sequential.OptimalColumn(ctx, g, g.CurrentPlayer(), 4)
		require.NoError(t, err)
		got, err := parallel.OptimalColumn(ctx, g, g.CurrentPlayer(), 4)
		require.NoError(t, err)
		require.Equal(t, want.Column, got.Column, "position %d", i)
		require.Equal(t, want.Score, got.Score, "position %d", i)
	}
}

func TestSearchLeavesLiveGameUntouched(t *testing.T) {
	g := newGame(t, domain.Options{}, 3, 3, 4, 2)
	before := g.State()

	for _, cfg := range []Config{DefaultConfig(), {Parallel: true}} {
		m := NewMinimax(cfg, nil)
		_, err := m.OptimalColumn(context.Background(), g, g.CurrentPlayer(), 4)
		require.NoError(t, err)
		_, err = m.Search(context.Background(), g, 0, 3, MinScore, MaxScore)
		require.NoError(t, err)
		assert.Equal(t, before, g.State())
	}
}

func TestOptimalColumnWithoutLegalMove(t *testing.T) {
	m := NewMinimax(DefaultConfig(), nil)

	full := newGame(t, domain.Options{Width: 2, Height: 2, VictoryLength: 3}, 0, 1, 0, 1)
	rec, err := m.OptimalColumn(context.Background(), full, 0, 3)
	require.ErrorIs(t, err, ErrNoLegalMove)
	assert.Equal(t, -1, rec.Column)

	won := newGame(t, domain.Options{}, 0, 1, 0, 1, 0, 1, 0)
	_, err = m.RecommendColumn(context.Background(), won, 3)
	require.ErrorIs(t, err, ErrNoLegalMove)
}

func TestOptimalColumnRaisesDepthToOne(t *testing.T) {
	g := newGame(t, domain.Options{}, 0, 0, 1, 1, 2, 6)
	m := NewMinimax(DefaultConfig(), nil)

	rec, err := m.OptimalColumn(context.Background(), g, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, rec.Depth)
	assert.Equal(t, 3, rec.Column)
}

func TestOptimalColumnTieGoesToLowestColumn(t *testing.T) {
	// every reply scores the same on a board too narrow to matter
	g := newGame(t, domain.Options{Width: 3, Height: 1, VictoryLength: 3})
	m := NewMinimax(Config{Weights: Weights{NearWin: 1, Center: 0, Win: 100}}, nil)

	rec, err := m.OptimalColumn(context.Background(), g, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, rec.Column)
}

func TestSearchHonoursCancellation(t *testing.T) {
	g := newGame(t, domain.Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, cfg := range []Config{{DisablePruning: true}, {DisablePruning: true, Parallel: true}} {
		m := NewMinimax(cfg, nil)
		_, err := m.OptimalColumn(ctx, g, 0, 8)
		require.ErrorIs(t, err, context.Canceled)
	}
}

func TestTotalNodesAccumulates(t *testing.T) {
	g := newGame(t, domain.Options{})
	m := NewMinimax(DefaultConfig(), nil)

	rec, err := m.OptimalColumn(context.Background(), g, 0, 2)
	require.NoError(t, err)
	assert.Positive(t, rec.Nodes)
	assert.Equal(t, rec.Nodes, m.TotalNodes())
}

func TestNameIncludesWeights(t *testing.T) {
	m := NewMinimax(Config{Weights: Weights{NearWin: 5, Center: 1, Win: 1000}}, nil)
	assert.Equal(t, "minimax(5,1,1000)", m.Name())
	assert.Equal(t, "minimax(20,2,1000000)", NewMinimax(Config{}, nil).Name())
}
