package bot

import (
	"context"
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/iamasit07/connect-four/internal/domain"
)

const (
	MinScore = math.MinInt32
	MaxScore = math.MaxInt32

	// the context is polled once per this many nodes
	cancelCheckMask = 1<<10 - 1
)

type Config struct {
	Weights Weights
	// Parallel searches the root columns concurrently, each on its own clone.
	Parallel bool
	// Workers caps concurrent root searches; 0 means one per column.
	Workers int
	// DisablePruning turns alpha-beta into a plain exhaustive minimax.
	DisablePruning bool
}

func DefaultConfig() Config {
	return Config{Weights: DefaultWeights()}
}

// Recommendation is the outcome of a root search.
type Recommendation struct {
	Column   int
	Score    int
	Depth    int
	Nodes    int64
	Duration time.Duration
}

// Minimax implements Strategy with depth-limited minimax and alpha-beta pruning.
// The player to maximise for is fixed per call; every other player minimises.
type Minimax struct {
	cfg    Config
	logger *zap.Logger
	nodes  atomic.Int64
}

func NewMinimax(cfg Config, logger *zap.Logger) *Minimax {
	if cfg.Weights == (Weights{}) {
		cfg.Weights = DefaultWeights()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Minimax{cfg: cfg, logger: logger.Named("minimax")}
}

func (m *Minimax) Name() string {
	w := m.cfg.Weights
	return fmt.Sprintf("minimax(%d,%d,%d)", w.NearWin, w.Center, w.Win)
}

// TotalNodes is the number of positions visited over the engine's lifetime.
func (m *Minimax) TotalNodes() int64 {
	return m.nodes.Load()
}

func (m *Minimax) RecommendColumn(ctx context.Context, g *domain.Game, depth int) (int, error) {
	rec, err := m.OptimalColumn(ctx, g, g.CurrentPlayer(), depth)
	if err != nil {
		return -1, err
	}
	return rec.Column, nil
}

// Evaluate scores a leaf position for player with depth budget left.
func (m *Minimax) Evaluate(node *domain.Game, player domain.PlayerID, depth int) int {
	return evaluateBoard(node, player, depth, m.cfg.Weights)
}

// Search runs minimax from node within the (alpha, beta) window. node is
// cloned first and never modified.
func (m *Minimax) Search(ctx context.Context, node *domain.Game, player domain.PlayerID, depth, alpha, beta int) (int, error) {
	s := m.newSearch(ctx, player)
	score := s.minimax(node.Clone(), depth, alpha, beta)
	m.nodes.Add(s.nodes)
	if s.err != nil {
		return 0, s.err
	}
	return score, nil
}

// OptimalColumn searches every legal move of g and returns the column with the
// highest score for player. Ties go to the lowest column. depth counts the
// root move, values below 1 are raised to 1.
func (m *Minimax) OptimalColumn(ctx context.Context, g *domain.Game, player domain.PlayerID, depth int) (Recommendation, error) {
	start := time.Now()
	depth = max(depth, 1)

	columns := g.Board().ValidColumns()
	if _, decided := g.Winner(); decided || len(columns) == 0 {
		return Recommendation{Column: -1, Depth: depth}, ErrNoLegalMove
	}

	var (
		scores []int
		nodes  int64
		err    error
	)
	if m.cfg.Parallel && len(columns) > 1 {
		scores, nodes, err = m.searchParallel(ctx, g, player, columns, depth)
	} else {
		scores, nodes, err = m.searchSequential(ctx, g, player, columns, depth)
	}
	m.nodes.Add(nodes)
	if err != nil {
		return Recommendation{Column: -1, Depth: depth, Nodes: nodes}, err
	}

	rec := Recommendation{Column: columns[0], Score: scores[0], Depth: depth, Nodes: nodes}
	for i := 1; i < len(columns); i++ {
		if scores[i] > rec.Score {
			rec.Column, rec.Score = columns[i], scores[i]
		}
	}
	rec.Duration = time.Since(start)

	m.logger.Debug("search finished",
		zap.Int("player", int(player)),
		zap.Int("column", rec.Column),
		zap.Int("score", rec.Score),
		zap.Int("depth", depth),
		zap.Int64("nodes", nodes),
		zap.Duration("took", rec.Duration),
	)
	return rec, nil
}

// searchSequential carries alpha across root moves. A root move that cannot
// beat the best so far may come back as an upper bound, which never wins the
// strict comparison above.
func (m *Minimax) searchSequential(ctx context.Context, g *domain.Game, player domain.PlayerID, columns []int, depth int) ([]int, int64, error) {
	root := g.Clone()
	s := m.newSearch(ctx, player)
	scores := make([]int, len(columns))
	alpha := MinScore

	for i, col := range columns {
		if _, _, err := root.DropDisc(col); err != nil {
			return nil, s.nodes, err
		}
		scores[i] = s.minimax(root, depth-1, alpha, MaxScore)
		if _, err := root.Undo(); err != nil {
			return nil, s.nodes, err
		}
		if s.err != nil {
			return nil, s.nodes, s.err
		}
		if !m.cfg.DisablePruning {
			alpha = max(alpha, scores[i])
		}
	}
	return scores, s.nodes, nil
}

// searchParallel gives each root move its own clone and a full window, so
// every score is exact.
func (m *Minimax) searchParallel(ctx context.Context, g *domain.Game, player domain.PlayerID, columns []int, depth int) ([]int, int64, error) {
	root := g.Clone()
	scores := make([]int, len(columns))
	var nodes atomic.Int64

	eg, egCtx := errgroup.WithContext(ctx)
	if m.cfg.Workers > 0 {
		eg.SetLimit(m.cfg.Workers)
	}
	for i, col := range columns {
		child := root.Clone()
		eg.Go(func() error {
			if _, _, err := child.DropDisc(col); err != nil {
				return err
			}
			s := m.newSearch(egCtx, player)
			scores[i] = s.minimax(child, depth-1, MinScore, MaxScore)
			nodes.Add(s.nodes)
			return s.err
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, nodes.Load(), err
	}
	return scores, nodes.Load(), nil
}

type search struct {
	ctx     context.Context
	player  domain.PlayerID
	weights Weights
	prune   bool
	nodes   int64
	err     error
}

func (m *Minimax) newSearch(ctx context.Context, player domain.PlayerID) *search {
	return &search{
		ctx:     ctx,
		player:  player,
		weights: m.cfg.Weights,
		prune:   !m.cfg.DisablePruning,
	}
}

// minimax explores node in place: each child is applied, searched and undone,
// so node is back in its original state when this returns.
func (s *search) minimax(node *domain.Game, depth, alpha, beta int) int {
	s.nodes++
	if s.nodes&cancelCheckMask == 0 && s.err == nil {
		s.err = s.ctx.Err()
	}
	if s.err != nil {
		return 0
	}

	board := node.Board()
	if _, decided := node.Winner(); depth <= 0 || decided || board.IsFull() {
		return evaluateBoard(node, s.player, depth, s.weights)
	}

	maximizing := node.CurrentPlayer() == s.player
	value := MaxScore
	if maximizing {
		value = MinScore
	}

	for col := 0; col < board.Width(); col++ {
		if board.NextRow(col) == domain.ColumnFull {
			continue
		}
		if _, _, err := node.DropDisc(col); err != nil {
			s.err = err
			return 0
		}
		score := s.minimax(node, depth-1, alpha, beta)
		if _, err := node.Undo(); err != nil {
			s.err = err
		}
		if s.err != nil {
			return 0
		}

		if maximizing {
			value = max(value, score)
			alpha = max(alpha, value)
		} else {
			value = min(value, score)
			beta = min(beta, value)
		}
		if s.prune && alpha >= beta {
			break
		}
	}
	return value
}
