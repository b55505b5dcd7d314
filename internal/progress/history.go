package progress

import (
	"context"
	"time"
)

// Attempt is one finished play of a level, first completion or replay.
type Attempt struct {
	LevelID   int
	Score     int
	Replay    bool
	TimeSpent time.Duration
	PlayedAt  time.Time
}

// LevelHistory aggregates the attempts of one level.
type LevelHistory struct {
	LevelID    int
	Plays      int
	BestScore  int
	AvgScore   float64
	LastPlayed time.Time
}

// AttemptLog is implemented by backends that keep a play history.
type AttemptLog interface {
	RecordAttempt(ctx context.Context, a Attempt) error
	RecentAttempts(ctx context.Context, levelID, limit int) ([]Attempt, error)
	History(ctx context.Context) ([]LevelHistory, error)
}

// RecordAttempt appends a to the backend's play history, if it keeps one.
func (s *Store) RecordAttempt(ctx context.Context, a Attempt) {
	hl, ok := s.backend.(AttemptLog)
	if !ok {
		return
	}
	if a.PlayedAt.IsZero() {
		a.PlayedAt = s.now()
	}
	if err := hl.RecordAttempt(ctx, a); err != nil {
		s.logger.Warn("cannot record attempt", "level", a.LevelID, "error", err)
	}
}

// RecentAttempts returns the latest attempts of levelID, newest first.
// Returns nil when the backend keeps no history.
func (s *Store) RecentAttempts(ctx context.Context, levelID, limit int) []Attempt {
	hl, ok := s.backend.(AttemptLog)
	if !ok {
		return nil
	}
	attempts, err := hl.RecentAttempts(ctx, levelID, limit)
	if err != nil {
		s.logger.Warn("cannot read attempts", "level", levelID, "error", err)
		return nil
	}
	return attempts
}

// History returns per-level play aggregates, or nil when the backend keeps
// no history.
func (s *Store) History(ctx context.Context) []LevelHistory {
	hl, ok := s.backend.(AttemptLog)
	if !ok {
		return nil
	}
	h, err := hl.History(ctx)
	if err != nil {
		s.logger.Warn("cannot read history", "error", err)
		return nil
	}
	return h
}
