package bot

import (
	"context"
	"math/rand"
	"sync"

	"github.com/iamasit07/connect-four/internal/domain"
)

// Easy takes an immediate win, otherwise blocks the next player's immediate
// win, otherwise plays a random legal column.
type Easy struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewEasy(seed int64) *Easy {
	return &Easy{rng: rand.New(rand.NewSource(seed))}
}

// WithSeed returns a fresh Easy bot with its own random source.
func (e *Easy) WithSeed(seed int64) Strategy {
	return NewEasy(seed)
}

func (e *Easy) Name() string {
	return DifficultyEasy
}

func (e *Easy) RecommendColumn(_ context.Context, g *domain.Game, _ int) (int, error) {
	validColumns := g.Board().ValidColumns()
	if _, decided := g.Winner(); decided || len(validColumns) == 0 {
		return -1, ErrNoLegalMove
	}

	me := g.CurrentPlayer()
	opponent := (me + 1) % domain.PlayerID(g.PlayerCount())

	if col, ok := winningColumn(g, me, validColumns); ok {
		return col, nil
	}
	if col, ok := winningColumn(g, opponent, validColumns); ok {
		return col, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return validColumns[e.rng.Intn(len(validColumns))], nil
}

// winningColumn finds the first column where player would win right away.
func winningColumn(g *domain.Game, player domain.PlayerID, columns []int) (int, bool) {
	for _, col := range columns {
		test := g.Clone()
		if _, err := test.ChangePlayerTo(player); err != nil {
			return -1, false
		}
		if winner, won, err := test.DropDisc(col); err == nil && won && winner == player {
			return col, true
		}
	}
	return -1, false
}
