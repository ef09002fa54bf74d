package game

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/iamasit07/connect-four/internal/domain"
	"github.com/iamasit07/connect-four/internal/repository/postgres"
	"github.com/iamasit07/connect-four/internal/service/bot"
	"github.com/iamasit07/connect-four/pkg/uid"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrBotTurn         = errors.New("it is a bot's turn")
	ErrNoHumanSeat     = errors.New("at least one seat must be human")
	ErrInvalidDepth    = errors.New("invalid search depth")
)

// MaxSuggestDepth bounds client requested searches.
const MaxSuggestDepth = 9

// GameRepository archives finished games.
type GameRepository interface {
	SaveResult(ctx context.Context, res postgres.GameResult) error
}

// Listener is told about every state change of a session. It runs with the
// session locked and must not call back into the manager.
type Listener func(Snapshot)

type Suggestion struct {
	Column int             `json:"column"`
	Depth  int             `json:"depth"`
	Player domain.PlayerID `json:"player"`
}

// SessionManager manages active game sessions
type SessionManager struct {
	sessions map[string]*GameSession
	mu       sync.RWMutex
	registry *bot.Registry
	repo     GameRepository
	listener atomic.Pointer[Listener]
	logger   *zap.Logger
	now      func() time.Time
	saves    sync.WaitGroup
}

// NewSessionManager wires the bots and the archive. repo may be nil.
func NewSessionManager(registry *bot.Registry, repo GameRepository, logger *zap.Logger) *SessionManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionManager{
		sessions: make(map[string]*GameSession),
		registry: registry,
		repo:     repo,
		logger:   logger.Named("session"),
		now:      time.Now,
	}
}

func (sm *SessionManager) SetListener(l Listener) {
	sm.listener.Store(&l)
}

func (sm *SessionManager) CreateSession(ctx context.Context, seats []Seat, opts domain.Options) (Snapshot, error) {
	names := make([]string, len(seats))
	human := false
	for i, s := range seats {
		names[i] = s.Name
		if !s.IsBot() {
			human = true
			continue
		}
		if _, _, err := sm.registry.Lookup(s.Difficulty); err != nil {
			return Snapshot{}, err
		}
		if names[i] == "" {
			names[i] = bot.GetBotName(s.Difficulty)
		}
	}
	if len(seats) > 0 && !human {
		return Snapshot{}, ErrNoHumanSeat
	}

	g, err := domain.NewGame(names, opts)
	if err != nil {
		return Snapshot{}, err
	}

	now := sm.now()
	gs := &GameSession{
		GameID:    uid.GenerateGameID(),
		Seats:     make([]Seat, len(seats)),
		Game:      g,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for i, s := range seats {
		gs.Seats[i] = Seat{Name: names[i], Difficulty: s.Difficulty}
	}

	gs.mu.Lock()
	defer gs.mu.Unlock()

	sm.mu.Lock()
	sm.sessions[gs.GameID] = gs
	sm.mu.Unlock()

	sm.logger.Info("created session",
		zap.String("game_id", gs.GameID),
		zap.Strings("players", names),
		zap.Int("width", g.Board().Width()),
		zap.Int("height", g.Board().Height()),
	)

	// a bot may hold the first seat
	if err := sm.playBotsLocked(ctx, gs); err != nil {
		return gs.snapshotLocked(), err
	}
	return sm.changedLocked(gs), nil
}

func (sm *SessionManager) GetSessionByGameID(gameID string) (*GameSession, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	session, exists := sm.sessions[gameID]
	return session, exists
}

func (sm *SessionManager) lookup(gameID string) (*GameSession, error) {
	gs, ok := sm.GetSessionByGameID(gameID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, gameID)
	}
	return gs, nil
}

func (sm *SessionManager) Snapshot(gameID string) (Snapshot, error) {
	gs, err := sm.lookup(gameID)
	if err != nil {
		return Snapshot{}, err
	}
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return gs.snapshotLocked(), nil
}

// DropDisc plays a human move and then every bot move that follows it.
func (sm *SessionManager) DropDisc(ctx context.Context, gameID string, column int) (Snapshot, error) {
	gs, err := sm.lookup(gameID)
	if err != nil {
		return Snapshot{}, err
	}

	gs.mu.Lock()
	defer gs.mu.Unlock()

	if !gs.Game.IsFinished() && gs.currentSeatLocked().IsBot() {
		return gs.snapshotLocked(), ErrBotTurn
	}

	player := gs.Game.CurrentPlayer()
	if _, _, err := gs.Game.DropDisc(column); err != nil {
		return gs.snapshotLocked(), err
	}
	sm.logger.Debug("move",
		zap.String("game_id", gameID),
		zap.Int("player", int(player)),
		zap.Int("column", column),
	)

	if err := sm.playBotsLocked(ctx, gs); err != nil {
		// the human move stands even when the bot fails
		sm.logger.Error("bot move failed", zap.String("game_id", gameID), zap.Error(err))
		snap := sm.changedLocked(gs)
		return snap, err
	}
	return sm.changedLocked(gs), nil
}

// Undo takes back the latest human move together with the bot replies after it.
func (sm *SessionManager) Undo(ctx context.Context, gameID string) (Snapshot, error) {
	gs, err := sm.lookup(gameID)
	if err != nil {
		return Snapshot{}, err
	}

	gs.mu.Lock()
	defer gs.mu.Unlock()

	moves := gs.Game.Moves()
	last := -1
	for i := len(moves) - 1; i >= 0; i-- {
		if !gs.Seats[moves[i].Player].IsBot() {
			last = i
			break
		}
	}
	if last < 0 {
		return gs.snapshotLocked(), domain.ErrNothingToUndo
	}

	for i := len(moves) - 1; i >= last; i-- {
		if _, err := gs.Game.Undo(); err != nil {
			return gs.snapshotLocked(), err
		}
	}
	gs.archived = false
	gs.FinishedAt = time.Time{}

	return sm.changedLocked(gs), nil
}

func (sm *SessionManager) Reset(ctx context.Context, gameID string) (Snapshot, error) {
	gs, err := sm.lookup(gameID)
	if err != nil {
		return Snapshot{}, err
	}

	gs.mu.Lock()
	defer gs.mu.Unlock()

	gs.Game.Reset()
	gs.archived = false
	gs.FinishedAt = time.Time{}
	sm.logger.Info("reset session", zap.String("game_id", gameID))

	if err := sm.playBotsLocked(ctx, gs); err != nil {
		return sm.changedLocked(gs), err
	}
	return sm.changedLocked(gs), nil
}

// Suggest searches a copy of the game for the player to move. depth < 1
// selects the hard bot depth.
func (sm *SessionManager) Suggest(ctx context.Context, gameID string, depth int) (Suggestion, error) {
	if depth > MaxSuggestDepth {
		return Suggestion{}, fmt.Errorf("%w: %d exceeds %d", ErrInvalidDepth, depth, MaxSuggestDepth)
	}
	if depth < 1 {
		_, hard, err := sm.registry.Lookup(bot.DifficultyHard)
		if err != nil {
			return Suggestion{}, err
		}
		depth = hard
	}

	gs, err := sm.lookup(gameID)
	if err != nil {
		return Suggestion{}, err
	}

	gs.mu.Lock()
	clone := gs.Game.Clone()
	gs.mu.Unlock()

	col, err := sm.registry.Search().RecommendColumn(ctx, clone, depth)
	if err != nil {
		return Suggestion{}, err
	}
	return Suggestion{Column: col, Depth: depth, Player: clone.CurrentPlayer()}, nil
}

func (sm *SessionManager) RemoveSession(gameID string) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if _, exists := sm.sessions[gameID]; !exists {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, gameID)
	}
	delete(sm.sessions, gameID)
	sm.logger.Info("removed session", zap.String("game_id", gameID))
	return nil
}

// LiveGame summarises a session for spectators.
type LiveGame struct {
	GameID    string        `json:"game_id"`
	Seats     []Seat        `json:"seats"`
	MoveCount int           `json:"move_count"`
	Status    domain.Status `json:"status"`
	StartedAt time.Time     `json:"started_at"`
}

// GetActiveGames lists every session, newest first.
func (sm *SessionManager) GetActiveGames() []LiveGame {
	sm.mu.RLock()
	sessions := make([]*GameSession, 0, len(sm.sessions))
	for _, gs := range sm.sessions {
		sessions = append(sessions, gs)
	}
	sm.mu.RUnlock()

	games := make([]LiveGame, 0, len(sessions))
	for _, gs := range sessions {
		gs.mu.Lock()
		games = append(games, LiveGame{
			GameID:    gs.GameID,
			Seats:     append([]Seat(nil), gs.Seats...),
			MoveCount: gs.Game.MoveCount(),
			Status:    gs.Game.Status(),
			StartedAt: gs.CreatedAt,
		})
		gs.mu.Unlock()
	}

	sort.Slice(games, func(i, j int) bool {
		if !games[i].StartedAt.Equal(games[j].StartedAt) {
			return games[i].StartedAt.After(games[j].StartedAt)
		}
		return games[i].GameID < games[j].GameID
	})
	return games
}

func (sm *SessionManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}

// CleanupIdleSessions removes sessions untouched for longer than idle.
func (sm *SessionManager) CleanupIdleSessions(idle time.Duration) int {
	sm.mu.RLock()
	candidates := make([]*GameSession, 0, len(sm.sessions))
	for _, gs := range sm.sessions {
		candidates = append(candidates, gs)
	}
	sm.mu.RUnlock()

	cutoff := sm.now().Add(-idle)
	var stale []string
	for _, gs := range candidates {
		if gs.lastActivity().Before(cutoff) {
			stale = append(stale, gs.GameID)
		}
	}

	sm.mu.Lock()
	for _, id := range stale {
		delete(sm.sessions, id)
	}
	sm.mu.Unlock()

	if len(stale) > 0 {
		sm.logger.Info("removed idle sessions", zap.Int("count", len(stale)))
	}
	return len(stale)
}

// Wait blocks until pending archive writes finish.
func (sm *SessionManager) Wait() {
	sm.saves.Wait()
}

func (sm *SessionManager) playBotsLocked(ctx context.Context, gs *GameSession) error {
	for !gs.Game.IsFinished() {
		seat := gs.currentSeatLocked()
		if !seat.IsBot() {
			return nil
		}

		strategy, depth, err := sm.registry.Lookup(seat.Difficulty)
		if err != nil {
			return err
		}
		col, err := strategy.RecommendColumn(ctx, gs.Game, depth)
		if err != nil {
			return fmt.Errorf("%s bot: %w", seat.Difficulty, err)
		}

		player := gs.Game.CurrentPlayer()
		if _, _, err := gs.Game.DropDisc(col); err != nil {
			return fmt.Errorf("%s bot: %w", seat.Difficulty, err)
		}
		sm.logger.Debug("bot move",
			zap.String("game_id", gs.GameID),
			zap.String("difficulty", seat.Difficulty),
			zap.Int("player", int(player)),
			zap.Int("column", col),
		)
	}
	return nil
}

// changedLocked stamps the session, archives a newly finished game and
// notifies the listener.
func (sm *SessionManager) changedLocked(gs *GameSession) Snapshot {
	now := sm.now()
	gs.UpdatedAt = now

	if gs.Game.IsFinished() && !gs.archived {
		gs.archived = true
		gs.FinishedAt = now
		sm.logger.Info("game over",
			zap.String("game_id", gs.GameID),
			zap.String("status", string(gs.Game.Status())),
			zap.Int("moves", gs.Game.MoveCount()),
		)
		sm.saveGameAsync(gs, toResult(gs))
	}

	snap := gs.snapshotLocked()
	if l := sm.listener.Load(); l != nil {
		(*l)(snap)
	}
	return snap
}

// saveGameAsync keeps archive latency out of the move path. Saves of one
// session are chained so a game finished twice is written in finish order.
// Callers hold gs.mu.
func (sm *SessionManager) saveGameAsync(gs *GameSession, res postgres.GameResult) {
	if sm.repo == nil {
		return
	}

	prev := gs.lastSave
	done := make(chan struct{})
	gs.lastSave = done

	sm.saves.Add(1)
	go func() {
		defer sm.saves.Done()
		defer close(done)
		if prev != nil {
			<-prev
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := sm.repo.SaveResult(ctx, res); err != nil {
			sm.logger.Error("error saving game", zap.String("game_id", res.GameID), zap.Error(err))
			return
		}
		sm.logger.Debug("game saved", zap.String("game_id", res.GameID))
	}()
}

func toResult(gs *GameSession) postgres.GameResult {
	g := gs.Game
	res := postgres.GameResult{
		GameID:        gs.GameID,
		Players:       make([]postgres.PlayerResult, len(gs.Seats)),
		Width:         g.Board().Width(),
		Height:        g.Board().Height(),
		VictoryLength: g.VictoryLength(),
		Status:        string(g.Status()),
		CreatedAt:     gs.CreatedAt,
		FinishedAt:    gs.FinishedAt,
	}

	winner, won := g.Winner()
	if won {
		id := int(winner)
		res.WinnerID = &id
		res.WinnerName = gs.Seats[winner].Name
	}
	for i, s := range gs.Seats {
		res.Players[i] = postgres.PlayerResult{
			Seat: i,
			Name: s.Name,
			Bot:  s.IsBot(),
			Won:  won && domain.PlayerID(i) == winner,
		}
	}
	for _, m := range g.Moves() {
		res.Moves = append(res.Moves, m.Column)
	}
	return res
}
