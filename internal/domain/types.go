package domain

// PlayerID identifies a player inside a single game (0-based, in seating order).
type PlayerID int

// NoPlayer marks an unset player, e.g. the winner of a game in progress.
const NoPlayer PlayerID = -1

const (
	DefaultWidth         = 7
	DefaultHeight        = 6
	DefaultVictoryLength = 4
)

// DiscColors is the fixed palette handed out to players in seating order.
// Its length bounds the number of players in a game.
var DiscColors = []string{
	"#F5473E", // red
	"#FEEC49", // yellow
	"#048B44", // green
	"#293777", // blue
}

const MinPlayers = 2

// MaxPlayers is the number of distinct disc colors available.
func MaxPlayers() int {
	return len(DiscColors)
}

// Disc is an immutable value owned by a player.
type Disc struct {
	Player PlayerID
	Color  string
}

type Player struct {
	ID   PlayerID
	Name string
}

// to represent the game status
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusDecided    Status = "decided"
	StatusDrawn      Status = "drawn"
)

// basic error that can occur
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	ErrInvalidPlayerCount   Error = "invalid player count"
	ErrInvalidPlayer        Error = "invalid player"
	ErrInvalidSpace         Error = "space does not exist on the grid"
	ErrInvalidColumn        Error = "column does not exist on the grid"
	ErrColumnFull           Error = "column is full"
	ErrColumnEmpty          Error = "column is empty"
	ErrBoardFull            Error = "board is full"
	ErrGameDecided          Error = "game already has a winner"
	ErrInvalidDimensions    Error = "board dimensions must be positive"
	ErrInvalidVictoryLength Error = "victory length must be positive"
	ErrNothingToUndo        Error = "no move to undo"
)
