package results

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTest(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "data", "results.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func win(id, board, player string, moves int, elapsed int64) Result {
	return Result{GameID: id, Board: board, Rows: 3, Cols: 4, Player: player,
		Moves: moves, Attempts: moves / 2, ElapsedMs: elapsed}
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.db")
	db, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = Open(path)
	require.NoError(t, err)
	defer db.Close()

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(1) FROM _migrations`).Scan(&n))
	assert.Equal(t, 2, n)
}

func TestMigrateSelfManagedScripts(t *testing.T) {
	db := openTest(t)
	fsys := fstest.MapFS{
		"010_notes.sql": {Data: []byte("BEGIN TRANSACTION;\nCREATE TABLE notes (id INTEGER);\nCOMMIT;\n")},
		"README.md":     {Data: []byte("not a migration")},
	}
	require.NoError(t, migrate(db, fsys))
	require.NoError(t, migrate(db, fsys))

	var name string
	require.NoError(t, db.QueryRow(`SELECT name FROM _migrations WHERE name='010_notes.sql'`).Scan(&name))
	_, err := db.Exec(`INSERT INTO notes (id) VALUES (1)`)
	assert.NoError(t, err)
}

func TestRecordAndLeaderboard(t *testing.T) {
	ctx := context.Background()
	s := NewStore(openTest(t))

	for _, r := range []Result{
		win("g1", "beginner", "ada", 20, 30000),
		win("g2", "beginner", "bob", 16, 50000),
		win("g3", "beginner", "cy", 16, 40000),
		win("g4", "advanced", "ada", 40, 90000),
	} {
		ok, err := s.Record(ctx, r)
		require.NoError(t, err)
		require.True(t, ok)
	}

	ok, err := s.Record(ctx, win("g1", "beginner", "ada", 12, 1))
	require.NoError(t, err)
	assert.False(t, ok, "a game is recorded once")

	top, err := s.Leaderboard(ctx, "beginner", 0)
	require.NoError(t, err)
	assert.Equal(t, []Row{
		{Player: "cy", Moves: 16, ElapsedMs: 40000},
		{Player: "bob", Moves: 16, ElapsedMs: 50000},
		{Player: "ada", Moves: 20, ElapsedMs: 30000},
	}, top)

	top, err = s.Leaderboard(ctx, "beginner", 1)
	require.NoError(t, err)
	assert.Len(t, top, 1)

	top, err = s.Leaderboard(ctx, "intermediate", 5)
	require.NoError(t, err)
	assert.Empty(t, top)
}

func TestRecordRejectsInvalid(t *testing.T) {
	s := NewStore(openTest(t))
	for _, r := range []Result{
		{},
		win("", "beginner", "ada", 12, 1),
		win("g", "beginner", "", 12, 1),
		win("g", "beginner", "ada", 0, 1),
		win("g", "beginner", "ada", 12, -1),
	} {
		_, err := s.Record(context.Background(), r)
		assert.ErrorIs(t, err, ErrInvalidResult)
	}
}

func TestDailyResults(t *testing.T) {
	ctx := context.Background()
	s := NewStore(openTest(t))

	d := func(id, player string, moves int) Result {
		r := win(id, "intermediate", player, moves, int64(moves)*1000)
		r.Daily = "2026-03-01"
		return r
	}

	ok, err := s.Record(ctx, d("d1", "ada", 30))
	require.NoError(t, err)
	require.True(t, ok)

	played, err := s.PlayedDaily(ctx, "ada", "2026-03-01")
	require.NoError(t, err)
	assert.True(t, played)
	played, err = s.PlayedDaily(ctx, "ada", "2026-03-02")
	require.NoError(t, err)
	assert.False(t, played)

	ok, err = s.Record(ctx, d("d2", "ada", 22))
	require.NoError(t, err)
	assert.False(t, ok, "one daily result per player")

	for _, id := range []string{"d3", "d4"} {
		ok, err = s.Record(ctx, d(id, "anonymous", 24))
		require.NoError(t, err)
		assert.True(t, ok, "anonymous players are not deduplicated")
	}

	top, err := s.DailyLeaderboard(ctx, "2026-03-01", 10)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, "anonymous", top[0].Player)
	assert.Equal(t, "ada", top[2].Player)

	regular, err := s.Leaderboard(ctx, "intermediate", 10)
	require.NoError(t, err)
	assert.Empty(t, regular, "daily games stay off the regular board")
}

func TestStatsAndRecent(t *testing.T) {
	ctx := context.Background()
	s := NewStore(openTest(t))

	st, err := s.Stats(ctx, "nobody")
	require.NoError(t, err)
	assert.Equal(t, PlayerStats{Player: "nobody"}, st)

	_, err = s.Record(ctx, win("a", "beginner", "ada", 18, 25000))
	require.NoError(t, err)
	_, err = s.Record(ctx, win("b", "beginner", "ada", 14, 41000))
	require.NoError(t, err)
	daily := win("c", "intermediate", "ada", 30, 20000)
	daily.Daily = "2026-03-01"
	_, err = s.Record(ctx, daily)
	require.NoError(t, err)

	st, err = s.Stats(ctx, "ada")
	require.NoError(t, err)
	assert.Equal(t, PlayerStats{Player: "ada", Wins: 3, BestMoves: 14, BestElapsed: 20000, DailyWins: 1}, st)

	recent, err := s.Recent(ctx, "ada", 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "c", recent[0].GameID)
	assert.Equal(t, "2026-03-01", recent[0].Daily)
	assert.Equal(t, "b", recent[1].GameID)
	assert.False(t, recent[0].CreatedAt.IsZero())
}
