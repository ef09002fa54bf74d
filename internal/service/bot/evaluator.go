package bot

import (
	"github.com/iamasit07/connect-four/internal/domain"
)

// Weights are tuning values for the heuristic, not rules of the game.
type Weights struct {
	// NearWin scores each axis through an empty cell that one more disc would complete.
	NearWin int
	// Center scores discs by how close they sit to the middle column.
	Center int
	// Win is the base score of a decided position; the remaining depth is added on top.
	Win int
}

func DefaultWeights() Weights {
	return Weights{
		NearWin: 20,
		Center:  2,
		Win:     1_000_000,
	}
}

// evaluateBoard scores a leaf for player. depth is the search budget left at
// the leaf, so earlier wins score higher and earlier losses lower.
func evaluateBoard(node *domain.Game, player domain.PlayerID, depth int, w Weights) int {
	if winner, ok := node.Winner(); ok {
		if winner == player {
			return w.Win + depth
		}
		return -(w.Win + depth)
	}

	board := node.Board()
	if board.IsFull() {
		return 0
	}

	if diff := balance(NearWins(node), player); diff != 0 {
		return diff * w.NearWin
	}
	if diff := balance(centerCounts(node), player); diff != 0 {
		return diff * w.Center
	}
	return 0
}

// balance is the player's count minus everyone else's.
func balance(counts []int, player domain.PlayerID) int {
	diff := 0
	for p, n := range counts {
		if domain.PlayerID(p) == player {
			diff += n
		} else {
			diff -= n
		}
	}
	return diff
}

// NearWins counts, per player, the axes through empty cells next to existing
// discs on which a single disc would complete a winning run.
func NearWins(node *domain.Game) []int {
	board := node.Board()
	need := node.VictoryLength()
	counts := make([]int, node.PlayerCount())

	for x := 0; x < board.Width(); x++ {
		for y := 0; y < board.Height(); y++ {
			if board.At(x, y) != nil || !board.HasNeighbour(x, y) {
				continue
			}
			for p := range counts {
				for _, axis := range domain.Axes {
					// the empty cell itself counts as the completing disc
					if board.RunLength(domain.PlayerID(p), x, y, axis) >= need {
						counts[p]++
					}
				}
			}
		}
	}
	return counts
}

// centerCounts weighs every disc by its distance from the middle:
// edge columns are worth 0, the center column width-1.
func centerCounts(node *domain.Game) []int {
	board := node.Board()
	span := board.Width() - 1
	counts := make([]int, node.PlayerCount())

	for x := 0; x < board.Width(); x++ {
		offset := 2*x - span
		if offset < 0 {
			offset = -offset
		}
		bonus := span - offset
		if bonus <= 0 {
			continue
		}
		for y := 0; y < board.Height(); y++ {
			d := board.At(x, y)
			if d == nil {
				break
			}
			counts[d.Player] += bonus
		}
	}
	return counts
}
