package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// ColumnFull is the fill pointer value of a column that has reached the top.
const ColumnFull = -1

// GridSpace is a read-only view of a single cell. Row 0 is the bottom row.
type GridSpace struct {
	X    int
	Y    int
	Disc *Disc
}

func (s GridSpace) Empty() bool {
	return s.Disc == nil
}

// Board is a column-major grid with one fill pointer per column.
// Cells point at immutable discs, so clones may share them.
type Board struct {
	width  int
	height int
	cells  []*Disc
	next   []int
	count  int

	lastX, lastY int
	hasLast      bool
}

func NewBoard(width, height int) (*Board, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}

	b := &Board{
		width:  width,
		height: height,
		cells:  make([]*Disc, width*height),
		next:   make([]int, width),
	}
	return b, nil
}

func (b *Board) Width() int    { return b.width }
func (b *Board) Height() int   { return b.height }
func (b *Board) Capacity() int { return b.width * b.height }
func (b *Board) Count() int    { return b.count }

func (b *Board) IsFull() bool {
	return b.count >= b.Capacity()
}

func (b *Board) InBounds(column, row int) bool {
	return column >= 0 && column < b.width && row >= 0 && row < b.height
}

// At returns the disc at (column, row) or nil. Bounds are the caller's job.
func (b *Board) At(column, row int) *Disc {
	return b.cells[column*b.height+row]
}

func (b *Board) Space(column, row int) GridSpace {
	return GridSpace{X: column, Y: row, Disc: b.At(column, row)}
}

// NextRow returns the next free row of a column, or ColumnFull.
func (b *Board) NextRow(column int) int {
	return b.next[column]
}

func (b *Board) CanDrop(column int) bool {
	return column >= 0 && column < b.width && b.next[column] != ColumnFull
}

// this is a helper function that will later be used by the bot
func (b *Board) ValidColumns() []int {
	cols := make([]int, 0, b.width)
	for c := 0; c < b.width; c++ {
		if b.next[c] != ColumnFull {
			cols = append(cols, c)
		}
	}
	return cols
}

// LastMove reports the most recently filled cell.
func (b *Board) LastMove() (column, row int, ok bool) {
	return b.lastX, b.lastY, b.hasLast
}

// Drop places a disc on top of a column and returns the row it landed in.
// A full board is reported before a full column.
func (b *Board) Drop(disc *Disc, column int) (int, error) {
	inRange := column >= 0 && column < b.width
	if b.IsFull() {
		if inRange {
			// every column of a full board is full as well
			return -1, fmt.Errorf("%w: %w: %d", ErrBoardFull, ErrColumnFull, column)
		}
		return -1, ErrBoardFull
	}
	if !inRange {
		return -1, fmt.Errorf("%w: %d", ErrInvalidColumn, column)
	}

	row := b.next[column]
	if row == ColumnFull {
		return -1, fmt.Errorf("%w: %d", ErrColumnFull, column)
	}

	b.cells[column*b.height+row] = disc
	if row+1 < b.height {
		b.next[column] = row + 1
	} else {
		b.next[column] = ColumnFull
	}
	b.count++
	b.lastX, b.lastY, b.hasLast = column, row, true

	return row, nil
}

// Undo removes the top disc of a column. The last-move marker is cleared
// because the board does not keep a history of its own.
func (b *Board) Undo(column int) (int, error) {
	if column < 0 || column >= b.width {
		return -1, fmt.Errorf("%w: %d", ErrInvalidColumn, column)
	}

	row := b.next[column] - 1
	if b.next[column] == ColumnFull {
		row = b.height - 1
	}
	if row < 0 {
		return -1, fmt.Errorf("%w: %d", ErrColumnEmpty, column)
	}

	b.cells[column*b.height+row] = nil
	b.next[column] = row
	b.count--
	b.hasLast = false

	return row, nil
}

func (b *Board) Reset() {
	for i := range b.cells {
		b.cells[i] = nil
	}
	for c := range b.next {
		b.next[c] = 0
	}
	b.count = 0
	b.lastX, b.lastY, b.hasLast = 0, 0, false
}

// this creates a deep copy of the board
func (b *Board) Clone() *Board {
	clone := *b
	clone.cells = make([]*Disc, len(b.cells))
	copy(clone.cells, b.cells)
	clone.next = make([]int, len(b.next))
	copy(clone.next, b.next)
	return &clone
}

// String renders the grid top row first, "_" for empty cells and the
// owning player id otherwise.
func (b *Board) String() string {
	var sb strings.Builder
	for row := b.height - 1; row >= 0; row-- {
		for col := 0; col < b.width; col++ {
			if col > 0 {
				sb.WriteByte(' ')
			}
			if d := b.At(col, row); d != nil {
				sb.WriteString(strconv.Itoa(int(d.Player)))
			} else {
				sb.WriteByte('_')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
