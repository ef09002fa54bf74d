package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iamasit07/connect-four/internal/domain"
	"github.com/iamasit07/connect-four/internal/service/bot"
	"github.com/iamasit07/connect-four/internal/service/selfplay"
)

type tournamentFlags struct {
	depths   []int
	nearWins []int
	centers  []int
	easy     bool
	games    int
	openings int
	seed     int64
	workers  int
	width    int
	height   int
	victory  int
	output   string
}

func newTournamentCmd(logger func() *zap.Logger) *cobra.Command {
	f := tournamentFlags{}

	cmd := &cobra.Command{
		Use:   "tournament",
		Short: "Run a round robin between engine configurations",
		Example: `  selfplay tournament --depth 2,4 --near-win 10,20 --games 10
  selfplay tournament --depth 4 --center 0,2,4 --easy -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			l := logger()
			defer l.Sync()
			return runTournament(ctx, cmd.OutOrStdout(), f, l)
		},
	}

	defaults := bot.DefaultWeights()
	cmd.Flags().IntSliceVar(&f.depths, "depth", []int{bot.DefaultDepth}, "Search depths to enter")
	cmd.Flags().IntSliceVar(&f.nearWins, "near-win", []int{defaults.NearWin}, "Near-win weights to enter")
	cmd.Flags().IntSliceVar(&f.centers, "center", []int{defaults.Center}, "Center weights to enter")
	cmd.Flags().BoolVar(&f.easy, "easy", false, "Also enter the easy bot")
	cmd.Flags().IntVarP(&f.games, "games", "n", 2, "Games per pairing, colors alternate")
	cmd.Flags().IntVar(&f.openings, "openings", 2, "Random opening moves per game")
	cmd.Flags().Int64Var(&f.seed, "seed", 1, "Seed for openings and the easy bot")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "Concurrent games, 0 for unlimited")
	cmd.Flags().IntVar(&f.width, "width", domain.DefaultWidth, "Board width")
	cmd.Flags().IntVar(&f.height, "height", domain.DefaultHeight, "Board height")
	cmd.Flags().IntVar(&f.victory, "victory", domain.DefaultVictoryLength, "Discs in a row needed to win")
	cmd.Flags().StringVarP(&f.output, "output", "o", "text", "Output format: text, json")

	return cmd
}

// contenders enters one minimax engine per combination of depth and weights.
func contenders(f tournamentFlags, logger *zap.Logger) ([]selfplay.Contender, error) {
	var out []selfplay.Contender
	for _, depth := range f.depths {
		if depth < 1 {
			return nil, fmt.Errorf("depth must be positive, got %d", depth)
		}
		for _, nw := range f.nearWins {
			for _, c := range f.centers {
				w := bot.DefaultWeights()
				w.NearWin, w.Center = nw, c
				out = append(out, selfplay.Contender{
					Name:     fmt.Sprintf("d%d-n%d-c%d", depth, nw, c),
					Strategy: bot.NewMinimax(bot.Config{Weights: w}, logger),
					Depth:    depth,
				})
			}
		}
	}
	if f.easy {
		out = append(out, selfplay.Contender{Name: "easy", Strategy: bot.NewEasy(f.seed), Depth: 1})
	}
	return out, nil
}

func runTournament(ctx context.Context, w io.Writer, f tournamentFlags, logger *zap.Logger) error {
	entrants, err := contenders(f, logger)
	if err != nil {
		return err
	}

	res, err := selfplay.NewRunner(logger).Run(ctx, entrants, selfplay.Options{
		Board:           domain.Options{Width: f.width, Height: f.height, VictoryLength: f.victory},
		GamesPerPairing: f.games,
		Openings:        f.openings,
		Seed:            f.seed,
		Workers:         f.workers,
	})
	if err != nil {
		return err
	}

	switch f.output {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	case "text":
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "RANK\tENGINE\tELO\tW\tL\tD")
		for i, s := range res.Standings {
			fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\t%d\n", i+1, s.Name, s.Rating, s.Wins, s.Losses, s.Draws)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w, "%d games in %s\n", res.Games, res.Duration.Round(time.Millisecond))
		return err
	default:
		return fmt.Errorf("unknown output format %q", f.output)
	}
}
