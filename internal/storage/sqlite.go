// Package storage provides SQLite-based persistence for playtest runs.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// ErrNotFound is returned when a run does not exist.
var ErrNotFound = errors.New("storage: run not found")

// Store manages the SQLite database connection for run persistence.
type Store struct {
	db *sql.DB
}

// Run is one simulated playthrough of a level and its verdict.
type Run struct {
	ID          string    `json:"id"`
	LevelID     string    `json:"level_id"`
	Kind        string    `json:"kind"`
	Difficulty  string    `json:"difficulty"`
	Seed        int64     `json:"seed"`
	Result      string    `json:"result"`
	Score       float64   `json:"score"`
	TargetScore float64   `json:"target_score"`
	MovesUsed   int       `json:"moves_used"`
	MovesLimit  int       `json:"moves_limit"`
	Turns       int       `json:"turns"`
	Reshuffles  int       `json:"reshuffles"`
	MaxCombo    int       `json:"max_combo"`
	Balanced    bool      `json:"balanced"`
	Feedback    string    `json:"feedback"`
	CreatedAt   time.Time `json:"created_at"`
}

// LevelStats contains aggregated statistics for a level.
type LevelStats struct {
	LevelID      string    `json:"level_id"`
	Runs         int       `json:"runs"`
	Successes    int       `json:"successes"`
	Balanced     int       `json:"balanced"`
	BestScore    float64   `json:"best_score"`
	AvgScore     float64   `json:"avg_score"`
	AvgMovesUsed float64   `json:"avg_moves_used"`
	LastRun      time.Time `json:"last_run"`
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			level_id TEXT NOT NULL,
			kind TEXT NOT NULL,
			difficulty TEXT NOT NULL,
			seed INTEGER NOT NULL,
			result TEXT NOT NULL,
			score REAL NOT NULL DEFAULT 0,
			target_score REAL NOT NULL,
			moves_used INTEGER NOT NULL DEFAULT 0,
			moves_limit INTEGER NOT NULL,
			turns INTEGER NOT NULL DEFAULT 0,
			reshuffles INTEGER NOT NULL DEFAULT 0,
			max_combo INTEGER NOT NULL DEFAULT 1,
			balanced INTEGER NOT NULL DEFAULT 0,
			feedback TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_level_id ON runs(level_id);
		CREATE INDEX IF NOT EXISTS idx_runs_recent ON runs(level_id, created_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

const runColumns = `id, level_id, kind, difficulty, seed, result, score, target_score,
	moves_used, moves_limit, turns, reshuffles, max_combo, balanced, feedback, created_at`

// SaveRun records a finished run. An empty ID is replaced with a new UUID.
// Returns the run ID.
func (s *Store) SaveRun(r Run) (string, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}

	_, err := s.db.Exec(
		`INSERT INTO runs
		 (id, level_id, kind, difficulty, seed, result, score, target_score,
		  moves_used, moves_limit, turns, reshuffles, max_combo, balanced, feedback)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.LevelID, r.Kind, r.Difficulty, r.Seed, r.Result, r.Score, r.TargetScore,
		r.MovesUsed, r.MovesLimit, r.Turns, r.Reshuffles, r.MaxCombo, r.Balanced, r.Feedback,
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot save run: %w", err)
	}

	return r.ID, nil
}

// RunByID retrieves a run by its ID. Returns ErrNotFound if it does not exist.
func (s *Store) RunByID(id string) (*Run, error) {
	row := s.db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE id = ?`, id)

	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query run: %w", err)
	}
	return r, nil
}

// RecentRuns retrieves the most recent runs, newest first.
// An empty levelID returns runs of every level.
func (s *Store) RecentRuns(levelID string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT `+runColumns+`
		 FROM runs
		 WHERE ? = '' OR level_id = ?
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT ?`,
		levelID, levelID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		runs = append(runs, *r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return runs, nil
}

// ClearRuns deletes all runs for the given level.
func (s *Store) ClearRuns(levelID string) error {
	_, err := s.db.Exec("DELETE FROM runs WHERE level_id = ?", levelID)
	if err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return nil
}

const statsQuery = `SELECT level_id, COUNT(*),
		SUM(CASE WHEN result = 'SUCCESS' THEN 1 ELSE 0 END),
		SUM(balanced), MAX(score), AVG(score), AVG(moves_used), MAX(created_at)
	FROM runs`

// LevelStats retrieves aggregated statistics for a level.
// A level without runs yields zero stats.
func (s *Store) LevelStats(levelID string) (*LevelStats, error) {
	rows, err := s.db.Query(statsQuery+` WHERE level_id = ? GROUP BY level_id`, levelID)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get level stats: %w", err)
	}
	defer rows.Close()

	stats, err := scanStats(rows)
	if err != nil {
		return nil, err
	}
	if len(stats) == 0 {
		return &LevelStats{LevelID: levelID}, nil
	}
	return &stats[0], nil
}

// AllLevelStats retrieves statistics for every level that has runs,
// ordered by level ID.
func (s *Store) AllLevelStats() ([]LevelStats, error) {
	rows, err := s.db.Query(statsQuery + ` GROUP BY level_id ORDER BY level_id`)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get all level stats: %w", err)
	}
	defer rows.Close()

	return scanStats(rows)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (*Run, error) {
	var r Run
	var createdAt any
	if err := sc.Scan(
		&r.ID, &r.LevelID, &r.Kind, &r.Difficulty, &r.Seed, &r.Result, &r.Score, &r.TargetScore,
		&r.MovesUsed, &r.MovesLimit, &r.Turns, &r.Reshuffles, &r.MaxCombo, &r.Balanced, &r.Feedback,
		&createdAt,
	); err != nil {
		return nil, err
	}
	r.CreatedAt = parseTime(createdAt)
	return &r, nil
}

func scanStats(rows *sql.Rows) ([]LevelStats, error) {
	var out []LevelStats
	for rows.Next() {
		var st LevelStats
		var lastRun any
		if err := rows.Scan(&st.LevelID, &st.Runs, &st.Successes, &st.Balanced,
			&st.BestScore, &st.AvgScore, &st.AvgMovesUsed, &lastRun); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		st.LastRun = parseTime(lastRun)
		out = append(out, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
