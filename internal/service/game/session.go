package game

import (
	"sync"
	"time"

	"github.com/iamasit07/connect-four/internal/domain"
)

// Seat describes who plays a color. An empty Difficulty means a human.
type Seat struct {
	Name       string `json:"name"`
	Difficulty string `json:"difficulty,omitempty"`
}

func (s Seat) IsBot() bool {
	return s.Difficulty != ""
}

// GameSession is a live game and the seats playing it. All access to Game
// goes through mu.
type GameSession struct {
	GameID     string
	Seats      []Seat
	Game       *domain.Game
	CreatedAt  time.Time
	UpdatedAt  time.Time
	FinishedAt time.Time
	archived   bool

	// closed once the latest archive write has finished
	lastSave chan struct{}
	mu       sync.Mutex
}

// Snapshot is what the transports send to clients.
type Snapshot struct {
	GameID string       `json:"game_id"`
	Seats  []Seat       `json:"seats"`
	State  domain.State `json:"state"`
}

func (gs *GameSession) snapshotLocked() Snapshot {
	seats := make([]Seat, len(gs.Seats))
	copy(seats, gs.Seats)
	return Snapshot{GameID: gs.GameID, Seats: seats, State: gs.Game.State()}
}

func (gs *GameSession) currentSeatLocked() Seat {
	return gs.Seats[gs.Game.CurrentPlayer()]
}

func (gs *GameSession) lastActivity() time.Time {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return gs.UpdatedAt
}
