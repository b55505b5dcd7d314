package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/vovakirdan/algoquest/internal/progress"
)

// Memory keeps progress in process memory. Used for guest play and tests.
type Memory struct {
	mu       sync.Mutex
	profile  *progress.UserProfile
	sessions map[int]progress.SessionState
	attempts []progress.Attempt
}

var (
	_ progress.Backend    = (*Memory)(nil)
	_ progress.AttemptLog = (*Memory)(nil)
)

// NewMemory creates an empty in-memory backend.
func NewMemory() *Memory {
	return &Memory{sessions: make(map[int]progress.SessionState)}
}

// LoadProfile implements progress.Backend.
func (m *Memory) LoadProfile(context.Context) (progress.UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.profile == nil {
		return progress.UserProfile{}, ErrNotFound
	}
	return m.profile.Clone(), nil
}

// SaveProfile implements progress.Backend.
func (m *Memory) SaveProfile(_ context.Context, p progress.UserProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c := p.Clone()
	m.profile = &c
	return nil
}

// LoadSession implements progress.Backend.
func (m *Memory) LoadSession(_ context.Context, levelID int) (progress.SessionState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	st, ok := m.sessions[levelID]
	if !ok {
		return progress.SessionState{}, ErrNotFound
	}
	return st, nil
}

// SaveSession implements progress.Backend.
func (m *Memory) SaveSession(_ context.Context, st progress.SessionState) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[st.LevelID] = st
	return nil
}

// Reset implements progress.Backend.
func (m *Memory) Reset(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.profile = nil
	m.sessions = make(map[int]progress.SessionState)
	m.attempts = nil
	return nil
}

// RecordAttempt implements progress.AttemptLog.
func (m *Memory) RecordAttempt(_ context.Context, a progress.Attempt) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.attempts = append(m.attempts, a)
	return nil
}

// RecentAttempts implements progress.AttemptLog.
func (m *Memory) RecentAttempts(_ context.Context, levelID, limit int) ([]progress.Attempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if limit <= 0 {
		limit = 10
	}
	var out []progress.Attempt
	for i := len(m.attempts) - 1; i >= 0 && len(out) < limit; i-- {
		if m.attempts[i].LevelID == levelID {
			out = append(out, m.attempts[i])
		}
	}
	return out, nil
}

// History implements progress.AttemptLog.
func (m *Memory) History(context.Context) ([]progress.LevelHistory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	byLevel := make(map[int]*progress.LevelHistory)
	totals := make(map[int]int)
	for _, a := range m.attempts {
		h, ok := byLevel[a.LevelID]
		if !ok {
			h = &progress.LevelHistory{LevelID: a.LevelID, BestScore: a.Score}
			byLevel[a.LevelID] = h
		}
		h.Plays++
		h.BestScore = max(h.BestScore, a.Score)
		totals[a.LevelID] += a.Score
		if a.PlayedAt.After(h.LastPlayed) {
			h.LastPlayed = a.PlayedAt
		}
	}

	out := make([]progress.LevelHistory, 0, len(byLevel))
	for id, h := range byLevel {
		h.AvgScore = float64(totals[id]) / float64(h.Plays)
		out = append(out, *h)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].LevelID < out[j].LevelID
	})
	return out, nil
}
