package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (*GameRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewGameRepo(db), mock
}

func q(s string) string {
	return regexp.QuoteMeta(s)
}

func sampleResult() GameResult {
	winner := 0
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return GameResult{
		GameID: "g1",
		Players: []PlayerResult{
			{Seat: 0, Name: "Alice", Won: true},
			{Seat: 1, Name: "Charles", Bot: true},
		},
		Width:         7,
		Height:        6,
		VictoryLength: 4,
		WinnerID:      &winner,
		WinnerName:    "Alice",
		Status:        "decided",
		Moves:         []int{3, 3, 4, 4, 5, 5, 6},
		CreatedAt:     start,
		FinishedAt:    start.Add(time.Minute),
	}
}

func TestSaveResult(t *testing.T) {
	repo, mock := newMockRepo(t)
	res := sampleResult()

	mock.ExpectBegin()
	mock.ExpectExec(q("INSERT INTO game (")).
		WithArgs("g1", 7, 6, 4, 0, "Alice", "decided", 7, sqlmock.AnyArg(), res.CreatedAt, res.FinishedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(q("DELETE FROM game_player")).
		WithArgs("g1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(q("INSERT INTO game_player")).
		WithArgs("g1", 0, "Alice", false, true).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(q("INSERT INTO game_player")).
		WithArgs("g1", 1, "Charles", true, false).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.SaveResult(context.Background(), res))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveResultDraw(t *testing.T) {
	repo, mock := newMockRepo(t)
	res := sampleResult()
	res.WinnerID = nil
	res.WinnerName = ""
	res.Status = "drawn"
	res.Players = nil

	mock.ExpectBegin()
	mock.ExpectExec(q("INSERT INTO game (")).
		WithArgs("g1", 7, 6, 4, nil, nil, "drawn", 7, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(q("DELETE FROM game_player")).
		WithArgs("g1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	require.NoError(t, repo.SaveResult(context.Background(), res))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveResultRollsBack(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(q("INSERT INTO game (")).WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := repo.SaveResult(context.Background(), sampleResult())
	require.ErrorContains(t, err, "disk full")
	require.NoError(t, mock.ExpectationsWereMet())
}

var gameColumns = []string{
	"game_id", "width", "height", "victory_length", "winner_id", "winner_name",
	"status", "moves", "created_at", "finished_at",
}

func TestGetResult(t *testing.T) {
	repo, mock := newMockRepo(t)
	want := sampleResult()

	mock.ExpectQuery(q("FROM game WHERE game_id = $1")).
		WithArgs("g1").
		WillReturnRows(sqlmock.NewRows(gameColumns).
			AddRow("g1", 7, 6, 4, 0, "Alice", "decided", []byte("[3,3,4,4,5,5,6]"), want.CreatedAt, want.FinishedAt))
	mock.ExpectQuery(q("FROM game_player WHERE game_id = $1")).
		WithArgs("g1").
		WillReturnRows(sqlmock.NewRows([]string{"seat", "name", "is_bot", "won"}).
			AddRow(0, "Alice", false, true).
			AddRow(1, "Charles", true, false))

	got, err := repo.GetResult(context.Background(), "g1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want, *got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetResultNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(q("FROM game WHERE game_id = $1")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(gameColumns))

	got, err := repo.GetResult(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestListRecent(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(q("ORDER BY finished_at DESC LIMIT $1")).
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows(gameColumns).
			AddRow("g2", 7, 6, 4, nil, nil, "drawn", []byte("[]"), now, now).
			AddRow("g1", 5, 4, 3, 1, "Bob", "decided", []byte("[0,1,0,1,0]"), now, now))

	games, err := repo.ListRecent(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, games, 2)

	assert.Equal(t, "g2", games[0].GameID)
	assert.Nil(t, games[0].WinnerID)
	assert.Empty(t, games[0].Moves)

	require.NotNil(t, games[1].WinnerID)
	assert.Equal(t, 1, *games[1].WinnerID)
	assert.Equal(t, "Bob", games[1].WinnerName)
	assert.Equal(t, []int{0, 1, 0, 1, 0}, games[1].Moves)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunMigrations(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(q("CREATE TABLE IF NOT EXISTS game")).WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, RunMigrations(context.Background(), db))

	mock.ExpectExec(q("CREATE TABLE")).WillReturnError(errors.New("permission denied"))
	require.ErrorContains(t, RunMigrations(context.Background(), db), "permission denied")
	require.NoError(t, mock.ExpectationsWereMet())
}
