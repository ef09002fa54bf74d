package domain

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

type PlayerState struct {
	ID   PlayerID `json:"id"`
	Name string   `json:"name"`
}

type DiscState struct {
	PlayerID PlayerID `json:"player_id"`
	Color    string   `json:"color"`
}

type SpaceState struct {
	Disc *DiscState `json:"disc"`
	X    int        `json:"x"`
	Y    int        `json:"y"`
}

type BoardState struct {
	Width    int            `json:"width"`
	Height   int            `json:"height"`
	Capacity int            `json:"capacity"`
	Spaces   [][]SpaceState `json:"spaces"`    // column-major
	NextRows []*int         `json:"next_rows"` // nil once a column is full
	Occupied int            `json:"occupied"`
	LastMove *SpaceState    `json:"last_move"`
}

// State is a deep, independent snapshot of a game for presentation layers.
type State struct {
	Players       []PlayerState `json:"players"`
	CurrentPlayer PlayerID      `json:"current_player"`
	Discs         []DiscState   `json:"discs"`
	Board         BoardState    `json:"board"`
	VictoryLength int           `json:"victory_length"`
	WinnerID      *PlayerID     `json:"winner_id"`
	Status        Status        `json:"status"`
	MoveCount     int           `json:"move_count"`
}

func (g *Game) State() State {
	st := State{
		Players:       make([]PlayerState, len(g.players)),
		CurrentPlayer: g.current,
		Discs:         make([]DiscState, len(g.discs)),
		Board:         g.board.state(),
		VictoryLength: g.victoryLength,
		Status:        g.Status(),
		MoveCount:     len(g.moves),
	}
	for i, p := range g.players {
		st.Players[i] = PlayerState{ID: p.ID, Name: p.Name}
	}
	for i, d := range g.discs {
		st.Discs[i] = DiscState{PlayerID: d.Player, Color: d.Color}
	}
	if g.winner != NoPlayer {
		winner := g.winner
		st.WinnerID = &winner
	}
	return st
}

func (b *Board) state() BoardState {
	bs := BoardState{
		Width:    b.width,
		Height:   b.height,
		Capacity: b.Capacity(),
		Spaces:   make([][]SpaceState, b.width),
		NextRows: make([]*int, b.width),
		Occupied: b.count,
	}
	for x := 0; x < b.width; x++ {
		col := make([]SpaceState, b.height)
		for y := 0; y < b.height; y++ {
			col[y] = b.spaceState(x, y)
		}
		bs.Spaces[x] = col

		if next := b.next[x]; next != ColumnFull {
			bs.NextRows[x] = &next
		}
	}
	if x, y, ok := b.LastMove(); ok {
		last := b.spaceState(x, y)
		bs.LastMove = &last
	}
	return bs
}

func (b *Board) spaceState(x, y int) SpaceState {
	space := b.Space(x, y)
	s := SpaceState{X: space.X, Y: space.Y}
	if !space.Empty() {
		s.Disc = &DiscState{PlayerID: space.Disc.Player, Color: space.Disc.Color}
	}
	return s
}

// PositionKey hashes everything a deterministic search result depends on:
// geometry, victory length, player count, side to move and every cell.
func (g *Game) PositionKey() uint64 {
	b := g.board
	buf := make([]byte, 0, 5*binary.MaxVarintLen64+len(b.cells))
	buf = binary.AppendUvarint(buf, uint64(b.width))
	buf = binary.AppendUvarint(buf, uint64(b.height))
	buf = binary.AppendUvarint(buf, uint64(g.victoryLength))
	buf = binary.AppendUvarint(buf, uint64(len(g.players)))
	buf = binary.AppendUvarint(buf, uint64(g.current))
	for _, d := range b.cells {
		if d == nil {
			buf = append(buf, 0)
			continue
		}
		buf = append(buf, byte(d.Player)+1)
	}
	return xxhash.Sum64(buf)
}
