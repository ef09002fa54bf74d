package selfplay

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/iamasit07/connect-four/internal/domain"
	"github.com/iamasit07/connect-four/internal/service/bot"
)

// preferred plays the first open column of its list, else the lowest open one.
type preferred struct {
	columns []int
}

func (p preferred) Name() string { return "preferred" }

func (p preferred) RecommendColumn(_ context.Context, g *domain.Game, _ int) (int, error) {
	for _, c := range p.columns {
		if g.Board().CanDrop(c) {
			return c, nil
		}
	}
	cols := g.Board().ValidColumns()
	if len(cols) == 0 {
		return -1, bot.ErrNoLegalMove
	}
	return cols[0], nil
}

type failing struct{}

func (failing) Name() string { return "failing" }

func (failing) RecommendColumn(context.Context, *domain.Game, int) (int, error) {
	return -1, errors.New("engine crashed")
}

func stackers() []Contender {
	return []Contender{
		{Name: "A", Strategy: preferred{columns: []int{0}}},
		{Name: "B", Strategy: preferred{columns: []int{1}}},
	}
}

func TestFirstStackerWins(t *testing.T) {
	r := NewRunner(zaptest.NewLogger(t))

	res, err := r.Run(context.Background(), stackers(), Options{GamesPerPairing: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Games)
	assert.Equal(t, []Standing{
		{Name: "A", Rating: 1216, Wins: 1},
		{Name: "B", Rating: 1184, Losses: 1},
	}, res.Standings)
}

func TestColorsAlternate(t *testing.T) {
	r := NewRunner(zaptest.NewLogger(t))

	res, err := r.Run(context.Background(), stackers(), Options{GamesPerPairing: 2, Workers: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Games)
	assert.Equal(t, []Standing{
		{Name: "B", Rating: 1201, Wins: 1, Losses: 1},
		{Name: "A", Rating: 1199, Wins: 1, Losses: 1},
	}, res.Standings)
}

func TestDrawKeepsRatings(t *testing.T) {
	r := NewRunner(zaptest.NewLogger(t))
	lowest := preferred{}

	res, err := r.Run(context.Background(), []Contender{
		{Name: "A", Strategy: lowest},
		{Name: "B", Strategy: lowest},
	}, Options{Board: domain.Options{Width: 2, Height: 1, VictoryLength: 2}, GamesPerPairing: 2})
	require.NoError(t, err)
	for _, s := range res.Standings {
		assert.Equal(t, domain.InitialRating, s.Rating)
		assert.Equal(t, 2, s.Draws)
	}
}

func TestSeedIsReproducible(t *testing.T) {
	r := NewRunner(zaptest.NewLogger(t))
	contenders := append(stackers(), Contender{Name: "C", Strategy: preferred{columns: []int{3, 2, 4}}})
	opts := Options{GamesPerPairing: 4, Openings: 6, Seed: 42}

	first, err := r.Run(context.Background(), contenders, opts)
	require.NoError(t, err)
	second, err := r.Run(context.Background(), contenders, opts)
	require.NoError(t, err)

	assert.Equal(t, 12, first.Games)
	assert.Equal(t, first.Standings, second.Standings)

	total := 0
	for _, s := range first.Standings {
		total += s.Wins + s.Losses + s.Draws
	}
	assert.Equal(t, 2*first.Games, total)
}

func TestSeedIsReproducibleWithRandomBots(t *testing.T) {
	r := NewRunner(zaptest.NewLogger(t))
	easy := bot.NewEasy(1)
	contenders := []Contender{
		{Name: "minimax", Strategy: bot.NewMinimax(bot.DefaultConfig(), nil), Depth: 1},
		{Name: "easy", Strategy: easy, Depth: 1},
		{Name: "easy-twin", Strategy: easy, Depth: 1},
	}
	opts := Options{GamesPerPairing: 20, Openings: 2, Seed: 1, Workers: 8}

	want, err := r.Run(context.Background(), contenders, opts)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		got, err := r.Run(context.Background(), contenders, opts)
		require.NoError(t, err)
		require.Equal(t, want.Standings, got.Standings, "run %d", i)
	}
}

func TestMinimaxPunishesStacker(t *testing.T) {
	engine := bot.NewMinimax(bot.DefaultConfig(), zaptest.NewLogger(t))
	rng := rand.New(rand.NewSource(1))

	outcome, _, err := PlayGame(context.Background(),
		Contender{Name: "stacker", Strategy: preferred{columns: []int{0}}},
		Contender{Name: "minimax", Strategy: engine, Depth: 4},
		Options{}, rng)
	require.NoError(t, err)
	assert.NotEqual(t, domain.OutcomeWin, outcome)
}

func TestRunErrors(t *testing.T) {
	r := NewRunner(zaptest.NewLogger(t))
	ctx := context.Background()

	_, err := r.Run(ctx, stackers()[:1], Options{GamesPerPairing: 1})
	assert.ErrorIs(t, err, ErrTooFewContenders)

	_, err = r.Run(ctx, stackers(), Options{})
	assert.ErrorIs(t, err, ErrNoGames)

	_, err = r.Run(ctx, []Contender{stackers()[0], {Name: "F", Strategy: failing{}}}, Options{GamesPerPairing: 1})
	assert.ErrorContains(t, err, "engine crashed")

	_, err = r.Run(ctx, stackers(), Options{GamesPerPairing: 1, Board: domain.Options{Width: -1}})
	assert.ErrorIs(t, err, domain.ErrInvalidDimensions)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = r.Run(cancelled, stackers(), Options{GamesPerPairing: 2})
	assert.ErrorIs(t, err, context.Canceled)
}
