package domain

import (
	"fmt"
	"strings"
)

// Options configures the geometry and victory rule of a game.
// Zero fields fall back to the classic 7x6, four-in-a-row setup.
type Options struct {
	Width         int
	Height        int
	VictoryLength int
}

func (o Options) withDefaults() Options {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.VictoryLength == 0 {
		o.VictoryLength = DefaultVictoryLength
	}
	return o
}

// Move is one entry of the game's history.
type Move struct {
	Player PlayerID
	Column int
	Row    int
}

// Game is the only mutator of live game state. It is not safe for concurrent
// use; callers serialise moves on the same game.
type Game struct {
	players       []Player
	discs         []Disc
	board         *Board
	current       PlayerID
	victoryLength int
	winner        PlayerID
	moves         []Move
}

func NewGame(names []string, opts Options) (*Game, error) {
	if len(names) < MinPlayers || len(names) > MaxPlayers() {
		return nil, fmt.Errorf("%w: got %d, want %d to %d", ErrInvalidPlayerCount, len(names), MinPlayers, MaxPlayers())
	}

	opts = opts.withDefaults()
	if opts.VictoryLength < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidVictoryLength, opts.VictoryLength)
	}

	board, err := NewBoard(opts.Width, opts.Height)
	if err != nil {
		return nil, err
	}

	g := &Game{
		players:       make([]Player, len(names)),
		discs:         make([]Disc, len(names)),
		board:         board,
		current:       0,
		victoryLength: opts.VictoryLength,
		winner:        NoPlayer,
	}
	for i, name := range names {
		g.players[i] = Player{ID: PlayerID(i), Name: name}
		g.discs[i] = Disc{Player: PlayerID(i), Color: DiscColors[i]}
	}
	return g, nil
}

func (g *Game) Players() []Player {
	out := make([]Player, len(g.players))
	copy(out, g.players)
	return out
}

func (g *Game) PlayerCount() int        { return len(g.players) }
func (g *Game) Board() *Board           { return g.board }
func (g *Game) CurrentPlayer() PlayerID { return g.current }
func (g *Game) VictoryLength() int      { return g.victoryLength }
func (g *Game) MoveCount() int          { return len(g.moves) }

// Winner returns the recorded winner, if any.
func (g *Game) Winner() (PlayerID, bool) {
	return g.winner, g.winner != NoPlayer
}

func (g *Game) Moves() []Move {
	out := make([]Move, len(g.moves))
	copy(out, g.moves)
	return out
}

func (g *Game) Status() Status {
	switch {
	case g.winner != NoPlayer:
		return StatusDecided
	case g.board.IsFull():
		return StatusDrawn
	default:
		return StatusInProgress
	}
}

func (g *Game) IsFinished() bool {
	return g.Status() != StatusInProgress
}

// DropDisc drops the current player's disc in a column. On a win the winner
// is recorded and the turn stays with them; otherwise play passes on.
// A failed drop leaves the game untouched.
func (g *Game) DropDisc(column int) (PlayerID, bool, error) {
	if g.winner != NoPlayer {
		return NoPlayer, false, ErrGameDecided
	}

	disc := &g.discs[g.current]
	row, err := g.board.Drop(disc, column)
	if err != nil {
		return NoPlayer, false, fmt.Errorf("player %d drop: %w", g.current, err)
	}
	g.moves = append(g.moves, Move{Player: g.current, Column: column, Row: row})

	// the placed cell is always on the grid and occupied
	winner, won, _ := g.CheckVictory(row, column)
	if won {
		g.winner = winner
		return winner, true, nil
	}

	g.ChangePlayer()
	return NoPlayer, false, nil
}

// CheckVictory looks for a run of at least the victory length through the
// given cell, owned by the cell's disc owner.
func (g *Game) CheckVictory(row, column int) (PlayerID, bool, error) {
	if !g.board.InBounds(column, row) {
		return NoPlayer, false, fmt.Errorf("%w: column %d, row %d", ErrInvalidSpace, column, row)
	}

	disc := g.board.At(column, row)
	if disc == nil {
		return NoPlayer, false, nil
	}
	if g.board.winningAxis(disc.Player, column, row, g.victoryLength) < 0 {
		return NoPlayer, false, nil
	}
	return disc.Player, true, nil
}

// ChangePlayer passes the turn to the next player, wrapping after the last.
func (g *Game) ChangePlayer() PlayerID {
	g.current = (g.current + 1) % PlayerID(len(g.players))
	return g.current
}

func (g *Game) ChangePlayerTo(id PlayerID) (PlayerID, error) {
	if id < 0 || int(id) >= len(g.players) {
		return g.current, fmt.Errorf("%w: %d", ErrInvalidPlayer, id)
	}
	g.current = id
	return g.current, nil
}

// Undo takes back the last move, giving the turn back to whoever made it.
func (g *Game) Undo() (Move, error) {
	if len(g.moves) == 0 {
		return Move{}, ErrNothingToUndo
	}

	last := g.moves[len(g.moves)-1]
	if _, err := g.board.Undo(last.Column); err != nil {
		return Move{}, err
	}
	g.moves = g.moves[:len(g.moves)-1]
	g.current = last.Player
	g.winner = NoPlayer

	if n := len(g.moves); n > 0 {
		prev := g.moves[n-1]
		g.board.lastX, g.board.lastY, g.board.hasLast = prev.Column, prev.Row, true
	}
	return last, nil
}

// Reset empties the board and starts over with the same players and geometry.
func (g *Game) Reset() {
	g.board.Reset()
	g.current = 0
	g.winner = NoPlayer
	g.moves = nil
}

// Clone returns an independent copy. Discs are shared since they never change.
func (g *Game) Clone() *Game {
	clone := &Game{
		players:       g.players,
		discs:         g.discs,
		board:         g.board.Clone(),
		current:       g.current,
		victoryLength: g.victoryLength,
		winner:        g.winner,
		moves:         make([]Move, len(g.moves)),
	}
	copy(clone.moves, g.moves)
	return clone
}

func (g *Game) String() string {
	var sb strings.Builder
	sb.WriteString(g.board.String())
	sb.WriteString(strings.Repeat("-", 2*g.board.width+11))
	sb.WriteByte('\n')
	fmt.Fprintf(&sb, "Next Player: %s", g.players[g.current].Name)
	return sb.String()
}
