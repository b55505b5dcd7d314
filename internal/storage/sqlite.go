// Package storage provides persistence backends for player progress.
// The SQLite backend uses the pure-Go modernc.org/sqlite driver to avoid CGO
// dependencies.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/algoquest/internal/progress"
)

// ErrNotFound is returned when nothing has been stored yet.
var ErrNotFound = progress.ErrNotFound

// timeLayout writes fixed-width UTC timestamps so that text order in SQL is
// chronological. Reads accept any RFC 3339 value.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLite stores progress in a single SQLite database file.
type SQLite struct {
	db *sql.DB
}

var (
	_ progress.Backend    = (*SQLite)(nil)
	_ progress.AttemptLog = (*SQLite)(nil)
)

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*SQLite, error) {
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	// A single connection serialises writers.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &SQLite{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *SQLite) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS profile (
			slot INTEGER PRIMARY KEY CHECK (slot = 1),
			id TEXT NOT NULL,
			username TEXT NOT NULL,
			level INTEGER NOT NULL DEFAULT 1,
			experience INTEGER NOT NULL DEFAULT 0,
			theme TEXT NOT NULL DEFAULT 'dark',
			sound_enabled INTEGER NOT NULL DEFAULT 1,
			tutorial_enabled INTEGER NOT NULL DEFAULT 1,
			difficulty TEXT NOT NULL DEFAULT 'medium',
			total_play_time INTEGER NOT NULL DEFAULT 0,
			total_score INTEGER NOT NULL DEFAULT 0,
			average_score REAL NOT NULL DEFAULT 0,
			best_score INTEGER NOT NULL DEFAULT 0,
			algorithms_learned INTEGER NOT NULL DEFAULT 0,
			streak_days INTEGER NOT NULL DEFAULT 0,
			hints_used INTEGER NOT NULL DEFAULT 0,
			problems_solved INTEGER NOT NULL DEFAULT 0,
			stats_last_played TEXT NOT NULL DEFAULT '',
			last_played TEXT NOT NULL DEFAULT ''
		);

		CREATE TABLE IF NOT EXISTS completed_levels (
			level_id INTEGER PRIMARY KEY,
			score INTEGER NOT NULL,
			completed_at TEXT NOT NULL,
			time_spent INTEGER NOT NULL DEFAULT 0,
			attempts INTEGER NOT NULL DEFAULT 1,
			position INTEGER NOT NULL DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS achievements (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			icon TEXT NOT NULL DEFAULT '',
			unlocked_at TEXT NOT NULL,
			position INTEGER NOT NULL DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS session_state (
			level_id INTEGER PRIMARY KEY,
			current_score INTEGER NOT NULL DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS attempts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			level_id INTEGER NOT NULL,
			score INTEGER NOT NULL,
			replay INTEGER NOT NULL DEFAULT 0,
			time_spent_ms INTEGER NOT NULL DEFAULT 0,
			played_at TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_attempts_level ON attempts(level_id, played_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// LoadProfile implements progress.Backend.
func (s *SQLite) LoadProfile(ctx context.Context) (progress.UserProfile, error) {
	var (
		p                 progress.UserProfile
		sound, tutorial   bool
		statsLast, played string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, username, level, experience,
		        theme, sound_enabled, tutorial_enabled, difficulty,
		        total_play_time, total_score, average_score, best_score,
		        algorithms_learned, streak_days, hints_used, problems_solved,
		        stats_last_played, last_played
		 FROM profile WHERE slot = 1`,
	).Scan(
		&p.ID, &p.Username, &p.Level, &p.Experience,
		&p.Preferences.Theme, &sound, &tutorial, &p.Preferences.Difficulty,
		&p.Statistics.TotalPlayTime, &p.Statistics.TotalScore, &p.Statistics.AverageScore, &p.Statistics.BestScore,
		&p.Statistics.AlgorithmsLearned, &p.Statistics.StreakDays, &p.Statistics.HintsUsed, &p.Statistics.ProblemsSolved,
		&statsLast, &played,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return progress.UserProfile{}, ErrNotFound
	}
	if err != nil {
		return progress.UserProfile{}, fmt.Errorf("storage: cannot query profile: %w", err)
	}
	p.Preferences.SoundEnabled = sound
	p.Preferences.TutorialEnabled = tutorial
	if p.Statistics.LastPlayed, err = parseTime(statsLast); err != nil {
		return progress.UserProfile{}, err
	}
	if p.LastPlayed, err = parseTime(played); err != nil {
		return progress.UserProfile{}, err
	}

	if p.CompletedLevels, err = s.completions(ctx); err != nil {
		return progress.UserProfile{}, err
	}
	if p.Achievements, err = s.achievements(ctx); err != nil {
		return progress.UserProfile{}, err
	}
	p.Statistics.LevelsCompleted = len(p.CompletedLevels)
	return p, nil
}

func (s *SQLite) completions(ctx context.Context) ([]progress.CompletionRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT level_id, score, completed_at, time_spent, attempts
		 FROM completed_levels
		 ORDER BY position, level_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query completed levels: %w", err)
	}
	defer rows.Close()

	records := []progress.CompletionRecord{}
	for rows.Next() {
		var c progress.CompletionRecord
		var completedAt string
		if err := rows.Scan(&c.LevelID, &c.Score, &completedAt, &c.TimeSpent, &c.Attempts); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		if c.CompletedAt, err = parseTime(completedAt); err != nil {
			return nil, err
		}
		records = append(records, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return records, nil
}

func (s *SQLite) achievements(ctx context.Context) ([]progress.Achievement, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, description, icon, unlocked_at
		 FROM achievements
		 ORDER BY position, unlocked_at`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query achievements: %w", err)
	}
	defer rows.Close()

	list := []progress.Achievement{}
	for rows.Next() {
		var a progress.Achievement
		var unlockedAt string
		if err := rows.Scan(&a.ID, &a.Name, &a.Description, &a.Icon, &unlockedAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		if a.UnlockedAt, err = parseTime(unlockedAt); err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return list, nil
}

// SaveProfile implements progress.Backend. The profile row, completions and
// achievements are replaced in one transaction.
func (s *SQLite) SaveProfile(ctx context.Context, p progress.UserProfile) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	st := p.Statistics
	_, err = tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO profile
		 (slot, id, username, level, experience,
		  theme, sound_enabled, tutorial_enabled, difficulty,
		  total_play_time, total_score, average_score, best_score,
		  algorithms_learned, streak_days, hints_used, problems_solved,
		  stats_last_played, last_played)
		 VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Username, p.Level, p.Experience,
		string(p.Preferences.Theme), p.Preferences.SoundEnabled, p.Preferences.TutorialEnabled, string(p.Preferences.Difficulty),
		st.TotalPlayTime, st.TotalScore, st.AverageScore, st.BestScore,
		st.AlgorithmsLearned, st.StreakDays, st.HintsUsed, st.ProblemsSolved,
		formatTime(st.LastPlayed), formatTime(p.LastPlayed),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save profile: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM completed_levels"); err != nil {
		return fmt.Errorf("storage: cannot clear completed levels: %w", err)
	}
	for i, c := range p.CompletedLevels {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO completed_levels (level_id, score, completed_at, time_spent, attempts, position)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			c.LevelID, c.Score, formatTime(c.CompletedAt), c.TimeSpent, c.Attempts, i,
		)
		if err != nil {
			return fmt.Errorf("storage: cannot save completion of level %d: %w", c.LevelID, err)
		}
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM achievements"); err != nil {
		return fmt.Errorf("storage: cannot clear achievements: %w", err)
	}
	for i, a := range p.Achievements {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO achievements (id, name, description, icon, unlocked_at, position)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			a.ID, a.Name, a.Description, a.Icon, formatTime(a.UnlockedAt), i,
		)
		if err != nil {
			return fmt.Errorf("storage: cannot save achievement %s: %w", a.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit profile: %w", err)
	}
	return nil
}

// LoadSession implements progress.Backend.
func (s *SQLite) LoadSession(ctx context.Context, levelID int) (progress.SessionState, error) {
	st := progress.SessionState{LevelID: levelID}
	err := s.db.QueryRowContext(ctx,
		"SELECT current_score FROM session_state WHERE level_id = ?",
		levelID,
	).Scan(&st.CurrentScore)
	if errors.Is(err, sql.ErrNoRows) {
		return progress.SessionState{}, ErrNotFound
	}
	if err != nil {
		return progress.SessionState{}, fmt.Errorf("storage: cannot query session state: %w", err)
	}
	return st, nil
}

// SaveSession implements progress.Backend.
func (s *SQLite) SaveSession(ctx context.Context, st progress.SessionState) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO session_state (level_id, current_score) VALUES (?, ?)",
		st.LevelID, st.CurrentScore,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save session state: %w", err)
	}
	return nil
}

// Reset implements progress.Backend.
func (s *SQLite) Reset(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	for _, table := range []string{"profile", "completed_levels", "achievements", "session_state", "attempts"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("storage: cannot clear %s: %w", table, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit reset: %w", err)
	}
	return nil
}

// RecordAttempt implements progress.AttemptLog.
func (s *SQLite) RecordAttempt(ctx context.Context, a progress.Attempt) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO attempts (level_id, score, replay, time_spent_ms, played_at)
		 VALUES (?, ?, ?, ?, ?)`,
		a.LevelID, a.Score, a.Replay, a.TimeSpent.Milliseconds(), formatTime(a.PlayedAt),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save attempt: %w", err)
	}
	return nil
}

// RecentAttempts implements progress.AttemptLog. Results are newest first.
func (s *SQLite) RecentAttempts(ctx context.Context, levelID, limit int) ([]progress.Attempt, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT level_id, score, replay, time_spent_ms, played_at
		 FROM attempts
		 WHERE level_id = ?
		 ORDER BY played_at DESC, id DESC
		 LIMIT ?`,
		levelID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query attempts: %w", err)
	}
	defer rows.Close()

	var attempts []progress.Attempt
	for rows.Next() {
		var a progress.Attempt
		var ms int64
		var playedAt string
		if err := rows.Scan(&a.LevelID, &a.Score, &a.Replay, &ms, &playedAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		a.TimeSpent = time.Duration(ms) * time.Millisecond
		if a.PlayedAt, err = parseTime(playedAt); err != nil {
			return nil, err
		}
		attempts = append(attempts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return attempts, nil
}

// History implements progress.AttemptLog.
func (s *SQLite) History(ctx context.Context) ([]progress.LevelHistory, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT level_id, COUNT(*), MAX(score), AVG(score), MAX(played_at)
		 FROM attempts
		 GROUP BY level_id
		 ORDER BY level_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query history: %w", err)
	}
	defer rows.Close()

	var out []progress.LevelHistory
	for rows.Next() {
		var h progress.LevelHistory
		var last string
		if err := rows.Scan(&h.LevelID, &h.Plays, &h.BestScore, &h.AvgScore, &last); err != nil {
			return nil, fmt.Errorf("storage: cannot scan history row: %w", err)
		}
		if h.LastPlayed, err = parseTime(last); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}

func parseTime(v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("storage: cannot parse time %q: %w", v, err)
	}
	return t, nil
}
