// internal/results/results.go
//
// Finished-game summaries.
// Responsibilities:
//   - Record a won game once (by game ID; one scored daily per named player).
//   - Leaderboards per board and per daily date (fewest moves, then fastest).
//   - Per-player aggregates and recent history.
//
// In-progress games are never written here.

package results

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// ErrInvalidResult is returned by Record for results that could not come
// from a finished game.
var ErrInvalidResult = errors.New("results: invalid result")

const defaultLimit = 20

// Result is the summary of one won game.
type Result struct {
	GameID    string    `json:"gameId"`
	Board     string    `json:"board"`
	Rows      int       `json:"rows"`
	Cols      int       `json:"cols"`
	Player    string    `json:"player"`
	Daily     string    `json:"daily,omitempty"` // date key, empty for regular games
	Moves     int       `json:"moves"`
	Attempts  int       `json:"attempts"`
	ElapsedMs int64     `json:"elapsedMs"`
	CreatedAt time.Time `json:"createdAt"`
}

// Row is a leaderboard entry.
type Row struct {
	Player    string `json:"player"`
	Moves     int    `json:"moves"`
	ElapsedMs int64  `json:"elapsedMs"`
}

// PlayerStats aggregates a player's won games.
type PlayerStats struct {
	Player      string `json:"player"`
	Wins        int    `json:"wins"`
	BestMoves   int    `json:"bestMoves"`
	BestElapsed int64  `json:"bestElapsedMs"`
	DailyWins   int    `json:"dailyWins"`
}

// Store reads and writes results.
type Store struct{ db *sql.DB }

// NewStore wraps a database opened with Open.
func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Record inserts r. It reports false without error when the game was
// already recorded or the player already has a result for that daily date.
func (s *Store) Record(ctx context.Context, r Result) (bool, error) {
	if r.GameID == "" || r.Player == "" || r.Moves <= 0 || r.Rows <= 0 || r.Cols <= 0 || r.ElapsedMs < 0 {
		return false, ErrInvalidResult
	}
	var daily any
	if r.Daily != "" {
		daily = r.Daily
	}
	res, err := s.db.ExecContext(ctx, `
        INSERT OR IGNORE INTO results
            (game_id, board, board_rows, board_cols, player, daily_date, moves, attempts, elapsed_ms)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.GameID, r.Board, r.Rows, r.Cols, r.Player, daily, r.Moves, r.Attempts, r.ElapsedMs,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// PlayedDaily reports whether player already has a result for date.
func (s *Store) PlayedDaily(ctx context.Context, player, date string) (bool, error) {
	var cnt int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM results WHERE player=? AND daily_date=?`,
		player, date,
	).Scan(&cnt); err != nil {
		return false, err
	}
	return cnt > 0, nil
}

// Leaderboard returns the best regular games on a board:
// fewest moves, then fastest, then earliest.
func (s *Store) Leaderboard(ctx context.Context, board string, limit int) ([]Row, error) {
	return s.top(ctx, `
        SELECT player, moves, elapsed_ms
        FROM results
        WHERE board=? AND daily_date IS NULL
        ORDER BY moves ASC, elapsed_ms ASC, created_at ASC
        LIMIT ?`, board, limit)
}

// DailyLeaderboard returns the best results for a daily date key.
func (s *Store) DailyLeaderboard(ctx context.Context, date string, limit int) ([]Row, error) {
	return s.top(ctx, `
        SELECT player, moves, elapsed_ms
        FROM results
        WHERE daily_date=?
        ORDER BY moves ASC, elapsed_ms ASC, created_at ASC
        LIMIT ?`, date, limit)
}

func (s *Store) top(ctx context.Context, query, key string, limit int) ([]Row, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	rows, err := s.db.QueryContext(ctx, query, key, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Row, 0, limit)
	for rows.Next() {
		var r Row
		if err := rows.Scan(&r.Player, &r.Moves, &r.ElapsedMs); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Stats aggregates every result of player. A player without results
// gets zero values, not an error.
func (s *Store) Stats(ctx context.Context, player string) (PlayerStats, error) {
	st := PlayerStats{Player: player}
	err := s.db.QueryRowContext(ctx, `
        SELECT COUNT(1),
               COALESCE(MIN(moves), 0),
               COALESCE(MIN(elapsed_ms), 0),
               COUNT(daily_date)
        FROM results
        WHERE player=?`, player,
	).Scan(&st.Wins, &st.BestMoves, &st.BestElapsed, &st.DailyWins)
	return st, err
}

// Recent returns a player's latest results, newest first.
func (s *Store) Recent(ctx context.Context, player string, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	rows, err := s.db.QueryContext(ctx, `
        SELECT game_id, board, board_rows, board_cols, player, COALESCE(daily_date, ''),
               moves, attempts, elapsed_ms, created_at
        FROM results
        WHERE player=?
        ORDER BY created_at DESC, rowid DESC
        LIMIT ?`, player, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Result{}
	for rows.Next() {
		var r Result
		var created string
		if err := rows.Scan(&r.GameID, &r.Board, &r.Rows, &r.Cols, &r.Player, &r.Daily,
			&r.Moves, &r.Attempts, &r.ElapsedMs, &created); err != nil {
			return nil, err
		}
		r.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		out = append(out, r)
	}
	return out, rows.Err()
}
