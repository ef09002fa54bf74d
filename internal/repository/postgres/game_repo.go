package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

type GameRepo struct {
	DB *sql.DB
}

func NewGameRepo(db *sql.DB) *GameRepo {
	return &GameRepo{DB: db}
}

type PlayerResult struct {
	Seat int    `json:"seat"`
	Name string `json:"name"`
	Bot  bool   `json:"bot"`
	Won  bool   `json:"won"`
}

// GameResult is a finished game as stored in the archive.
type GameResult struct {
	GameID        string         `json:"game_id"`
	Players       []PlayerResult `json:"players,omitempty"`
	Width         int            `json:"width"`
	Height        int            `json:"height"`
	VictoryLength int            `json:"victory_length"`
	WinnerID      *int           `json:"winner_id"`
	WinnerName    string         `json:"winner_name,omitempty"`
	Status        string         `json:"status"`
	Moves         []int          `json:"moves"`
	CreatedAt     time.Time      `json:"created_at"`
	FinishedAt    time.Time      `json:"finished_at"`
}

// SaveResult upserts a finished game and replaces its seats in one transaction.
func (r *GameRepo) SaveResult(ctx context.Context, res GameResult) error {
	movesJSON, err := json.Marshal(res.Moves)
	if err != nil {
		return fmt.Errorf("failed to marshal moves: %w", err)
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
	INSERT INTO game (game_id, width, height, victory_length, winner_id, winner_name, status, total_moves, moves, created_at, finished_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	ON CONFLICT (game_id) DO UPDATE SET
		winner_id = EXCLUDED.winner_id,
		winner_name = EXCLUDED.winner_name,
		status = EXCLUDED.status,
		total_moves = EXCLUDED.total_moves,
		moves = EXCLUDED.moves,
		finished_at = EXCLUDED.finished_at;
	`
	var winnerName sql.NullString
	if res.WinnerID != nil {
		winnerName = sql.NullString{String: res.WinnerName, Valid: true}
	}
	_, err = tx.ExecContext(ctx, query,
		res.GameID, res.Width, res.Height, res.VictoryLength,
		nullInt(res.WinnerID), winnerName, res.Status, len(res.Moves), movesJSON,
		res.CreatedAt, res.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert game record: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM game_player WHERE game_id = $1;`, res.GameID); err != nil {
		return fmt.Errorf("failed to clear seats: %w", err)
	}
	for _, p := range res.Players {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO game_player (game_id, seat, name, is_bot, won) VALUES ($1, $2, $3, $4, $5);`,
			res.GameID, p.Seat, p.Name, p.Bot, p.Won,
		)
		if err != nil {
			return fmt.Errorf("failed to insert seat %d: %w", p.Seat, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

const selectGame = `
	SELECT game_id, width, height, victory_length, winner_id, winner_name,
	       status, moves, created_at, finished_at
	FROM game`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGame(row rowScanner) (GameResult, error) {
	var (
		res        GameResult
		winnerID   sql.NullInt64
		winnerName sql.NullString
		movesJSON  []byte
	)
	err := row.Scan(
		&res.GameID,
		&res.Width,
		&res.Height,
		&res.VictoryLength,
		&winnerID,
		&winnerName,
		&res.Status,
		&movesJSON,
		&res.CreatedAt,
		&res.FinishedAt,
	)
	if err != nil {
		return res, err
	}

	if winnerID.Valid {
		id := int(winnerID.Int64)
		res.WinnerID = &id
	}
	res.WinnerName = winnerName.String
	if len(movesJSON) > 0 {
		if err := json.Unmarshal(movesJSON, &res.Moves); err != nil {
			return res, fmt.Errorf("failed to unmarshal moves: %w", err)
		}
	}
	return res, nil
}

// GetResult returns nil without error when the game is not archived.
func (r *GameRepo) GetResult(ctx context.Context, gameID string) (*GameResult, error) {
	res, err := scanGame(r.DB.QueryRowContext(ctx, selectGame+` WHERE game_id = $1;`, gameID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game by ID: %w", err)
	}

	rows, err := r.DB.QueryContext(ctx,
		`SELECT seat, name, is_bot, won FROM game_player WHERE game_id = $1 ORDER BY seat;`, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to query seats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p PlayerResult
		if err := rows.Scan(&p.Seat, &p.Name, &p.Bot, &p.Won); err != nil {
			return nil, fmt.Errorf("failed to scan seat: %w", err)
		}
		res.Players = append(res.Players, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &res, nil
}

// ListRecent returns the latest finished games without their seats.
func (r *GameRepo) ListRecent(ctx context.Context, limit int) ([]GameResult, error) {
	rows, err := r.DB.QueryContext(ctx, selectGame+` ORDER BY finished_at DESC LIMIT $1;`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query game history: %w", err)
	}
	defer rows.Close()

	games := []GameResult{}
	for rows.Next() {
		res, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game row: %w", err)
		}
		games = append(games, res)
	}
	return games, rows.Err()
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}
