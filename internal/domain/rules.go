package domain

// Axis is a line through a cell, walked as two opposite chains.
type Axis struct {
	Name   string
	DeltaX int
	DeltaY int
}

// Axes in the order victory detection checks them.
var Axes = [4]Axis{
	{Name: "vertical", DeltaX: 0, DeltaY: 1},
	{Name: "horizontal", DeltaX: 1, DeltaY: 0},
	{Name: "anti-diagonal", DeltaX: -1, DeltaY: 1},
	{Name: "diagonal", DeltaX: 1, DeltaY: 1},
}

// Chain counts the player's discs starting at (column, row) and stepping by
// (dx, dy) until an empty cell, another player's disc or the edge.
func (b *Board) Chain(player PlayerID, column, row, dx, dy int) int {
	count := 0
	for b.InBounds(column, row) {
		d := b.At(column, row)
		if d == nil || d.Player != player {
			break
		}
		count++
		column += dx
		row += dy
	}
	return count
}

// RunLength is the length of the player's run on an axis through
// (column, row), counting the cell itself whatever it holds.
func (b *Board) RunLength(player PlayerID, column, row int, axis Axis) int {
	forward := b.Chain(player, column+axis.DeltaX, row+axis.DeltaY, axis.DeltaX, axis.DeltaY)
	backward := b.Chain(player, column-axis.DeltaX, row-axis.DeltaY, -axis.DeltaX, -axis.DeltaY)
	return forward + backward + 1
}

// winningAxis returns the first axis through the cell on which player has a
// run of at least length, or -1.
func (b *Board) winningAxis(player PlayerID, column, row, length int) int {
	for i, axis := range Axes {
		if b.RunLength(player, column, row, axis) >= length {
			return i
		}
	}
	return -1
}

// HasNeighbour reports whether any of the 8 cells around (column, row) is occupied.
func (b *Board) HasNeighbour(column, row int) bool {
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			c, r := column+dx, row+dy
			if b.InBounds(c, r) && b.At(c, r) != nil {
				return true
			}
		}
	}
	return false
}
