package bot

import (
	"context"
	"errors"
	"fmt"

	"github.com/iamasit07/connect-four/internal/domain"
)

var (
	ErrNoLegalMove       = errors.New("no legal move")
	ErrUnknownDifficulty = errors.New("unknown difficulty")
)

// Strategy recommends a column for the player whose turn it is.
// Implementations must not mutate g.
type Strategy interface {
	Name() string
	RecommendColumn(ctx context.Context, g *domain.Game, depth int) (int, error)
}

// Seedable is a Strategy whose choices depend on a random source. Callers
// that need reproducible games give each game its own copy.
type Seedable interface {
	Strategy
	WithSeed(seed int64) Strategy
}

const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

const (
	DefaultDepth = 4
	mediumDepth  = 2
)

var BotNames = map[string]string{
	DifficultyEasy:   "Alice",
	DifficultyMedium: "Bob",
	DifficultyHard:   "Charles",
}

func GetBotName(difficulty string) string {
	if name, ok := BotNames[difficulty]; ok {
		return name
	}
	return "BOT"
}

// Registry maps difficulties to a strategy and a search depth.
type Registry struct {
	easy      Strategy
	search    Strategy
	hardDepth int
}

func NewRegistry(easy, search Strategy, hardDepth int) *Registry {
	if hardDepth < 1 {
		hardDepth = DefaultDepth
	}
	return &Registry{easy: easy, search: search, hardDepth: hardDepth}
}

// Lookup selects the strategy for a difficulty. An empty difficulty means medium.
func (r *Registry) Lookup(difficulty string) (Strategy, int, error) {
	switch difficulty {
	case DifficultyEasy:
		return r.easy, 1, nil
	case DifficultyMedium, "":
		return r.search, min(mediumDepth, r.hardDepth), nil
	case DifficultyHard:
		return r.search, r.hardDepth, nil
	default:
		return nil, 0, fmt.Errorf("%w: %q", ErrUnknownDifficulty, difficulty)
	}
}

// Search returns the deterministic search strategy used for suggestions.
func (r *Registry) Search() Strategy {
	return r.search
}
