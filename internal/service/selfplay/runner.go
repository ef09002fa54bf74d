package selfplay

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/iamasit07/connect-four/internal/domain"
	"github.com/iamasit07/connect-four/internal/service/bot"
)

var (
	ErrTooFewContenders = errors.New("at least two contenders are required")
	ErrNoGames          = errors.New("games per pairing must be positive")
)

// Contender is one engine configuration taking part in a tournament.
type Contender struct {
	Name     string
	Strategy bot.Strategy
	Depth    int
}

type Options struct {
	Board domain.Options
	// GamesPerPairing is split evenly between both colors; odd counts favor
	// the earlier contender.
	GamesPerPairing int
	// Openings is the number of random moves played before the engines take over.
	Openings int
	Seed     int64
	// Workers caps concurrently played games; 0 means unlimited.
	Workers int
}

type Standing struct {
	Name   string `json:"name"`
	Rating int    `json:"rating"`
	Wins   int    `json:"wins"`
	Losses int    `json:"losses"`
	Draws  int    `json:"draws"`
}

// Played is the record of a single game, seats in play order.
type Played struct {
	First  int
	Second int
	// Outcome is from First's point of view.
	Outcome float64
	Moves   int
}

type Result struct {
	Standings []Standing    `json:"standings"`
	Games     int           `json:"games"`
	Duration  time.Duration `json:"duration"`
}

type Runner struct {
	logger *zap.Logger
}

func NewRunner(logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{logger: logger.Named("selfplay")}
}

// Run plays a round robin between contenders and rates them with Elo. Games
// are played concurrently but ratings are applied in schedule order, so a
// given seed always produces the same table.
func (r *Runner) Run(ctx context.Context, contenders []Contender, opts Options) (Result, error) {
	if len(contenders) < 2 {
		return Result{}, ErrTooFewContenders
	}
	if opts.GamesPerPairing < 1 {
		return Result{}, ErrNoGames
	}
	start := time.Now()

	var schedule []Played
	for i := range contenders {
		for j := i + 1; j < len(contenders); j++ {
			for n := 0; n < opts.GamesPerPairing; n++ {
				if n%2 == 0 {
					schedule = append(schedule, Played{First: i, Second: j})
				} else {
					schedule = append(schedule, Played{First: j, Second: i})
				}
			}
		}
	}

	eg, egCtx := errgroup.WithContext(ctx)
	if opts.Workers > 0 {
		eg.SetLimit(opts.Workers)
	}
	for idx := range schedule {
		eg.Go(func() error {
			p := &schedule[idx]
			rng := rand.New(rand.NewSource(opts.Seed + int64(idx)))
			outcome, moves, err := PlayGame(egCtx, contenders[p.First], contenders[p.Second], opts, rng)
			if err != nil {
				return fmt.Errorf("game %d (%s vs %s): %w", idx, contenders[p.First].Name, contenders[p.Second].Name, err)
			}
			p.Outcome, p.Moves = outcome, moves
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return Result{}, err
	}

	standings := make([]Standing, len(contenders))
	for i, c := range contenders {
		standings[i] = Standing{Name: c.Name, Rating: domain.InitialRating}
	}
	for _, p := range schedule {
		a, b := &standings[p.First], &standings[p.Second]
		a.Rating, b.Rating = domain.UpdateRatings(a.Rating, b.Rating, p.Outcome)
		switch p.Outcome {
		case domain.OutcomeWin:
			a.Wins++
			b.Losses++
		case domain.OutcomeLoss:
			a.Losses++
			b.Wins++
		default:
			a.Draws++
			b.Draws++
		}
	}
	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].Rating > standings[j].Rating
	})

	res := Result{Standings: standings, Games: len(schedule), Duration: time.Since(start)}
	r.logger.Info("tournament finished",
		zap.Int("contenders", len(contenders)),
		zap.Int("games", res.Games),
		zap.Duration("took", res.Duration),
	)
	return res, nil
}

// PlayGame plays first against second and reports the outcome from first's
// point of view along with the number of moves made. rng drives the openings
// and seeds any bot.Seedable contender.
func PlayGame(ctx context.Context, first, second Contender, opts Options, rng *rand.Rand) (float64, int, error) {
	g, err := domain.NewGame([]string{first.Name, second.Name}, opts.Board)
	if err != nil {
		return 0, 0, err
	}
	seats := []Contender{first, second}
	for i := range seats {
		// random strategies get a per-game source so concurrent games stay reproducible
		seed := rng.Int63()
		if s, ok := seats[i].Strategy.(bot.Seedable); ok {
			seats[i].Strategy = s.WithSeed(seed)
		}
	}

	for i := 0; i < opts.Openings && !g.IsFinished(); i++ {
		cols := g.Board().ValidColumns()
		if _, _, err := g.DropDisc(cols[rng.Intn(len(cols))]); err != nil {
			return 0, 0, err
		}
	}

	for !g.IsFinished() {
		if err := ctx.Err(); err != nil {
			return 0, 0, err
		}
		seat := seats[g.CurrentPlayer()]
		col, err := seat.Strategy.RecommendColumn(ctx, g, seat.Depth)
		if err != nil {
			return 0, 0, err
		}
		if _, _, err := g.DropDisc(col); err != nil {
			return 0, 0, fmt.Errorf("%s played column %d: %w", seat.Name, col, err)
		}
	}

	winner, ok := g.Winner()
	switch {
	case !ok:
		return domain.OutcomeDraw, g.MoveCount(), nil
	case winner == 0:
		return domain.OutcomeWin, g.MoveCount(), nil
	default:
		return domain.OutcomeLoss, g.MoveCount(), nil
	}
}
