package progress

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/algoquest/internal/levels"
	"github.com/vovakirdan/algoquest/internal/scene"
)

// fallbackMaxScore bounds scores of levels missing from the catalog.
const fallbackMaxScore = 100

// Backend persists profiles and session caches.
// Load methods return ErrNotFound when nothing has been stored yet.
type Backend interface {
	LoadProfile(ctx context.Context) (UserProfile, error)
	SaveProfile(ctx context.Context, p UserProfile) error
	LoadSession(ctx context.Context, levelID int) (SessionState, error)
	SaveSession(ctx context.Context, st SessionState) error
	// Reset discards the profile, every session cache and any history.
	Reset(ctx context.Context) error
}

// Options configure a Store. Zero values select defaults.
type Options struct {
	Username string
	Catalog  *levels.Catalog
	Rules    *RuleSet
	Logger   *log.Logger
	Now      func() time.Time
}

// Store applies progress operations over a Backend.
//
// Store methods never return persistence errors: a failed load falls back to
// the default profile and a failed write is logged and dropped. Every
// mutation is a single read-modify-write under the store's lock.
type Store struct {
	mu       sync.Mutex
	backend  Backend
	catalog  *levels.Catalog
	rules    *RuleSet
	logger   *log.Logger
	now      func() time.Time
	username string
}

// Play describes one finished run of a level.
type Play struct {
	LevelID   int
	Score     int
	TimeSpent time.Duration
	HintsUsed int
	// MaxScore bounds Score; <= 0 takes the level's maximum from the catalog.
	MaxScore int
	// Mistakes counts failed attempts during the run, such as rejected
	// verifications.
	Mistakes int
}

// Completion is the outcome of Complete.
type Completion struct {
	Profile         UserProfile
	LevelID         int
	Score           int // after clamping
	XPAwarded       int
	FirstCompletion bool
	NewAchievements []Achievement
}

// NewStore creates a Store over backend.
func NewStore(backend Backend, opts Options) *Store {
	s := &Store{
		backend:  backend,
		catalog:  opts.Catalog,
		rules:    opts.Rules,
		logger:   opts.Logger,
		now:      opts.Now,
		username: opts.Username,
	}
	if s.catalog == nil {
		s.catalog = levels.Default()
	}
	if s.rules == nil {
		s.rules = DefaultRules()
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Catalog returns the level catalog the store validates against.
func (s *Store) Catalog() *levels.Catalog {
	return s.catalog
}

// Load returns the persisted profile. A missing profile is initialised with
// the default one; unreadable data yields the default without overwriting it.
func (s *Store) Load(ctx context.Context) UserProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// Save replaces the persisted profile.
func (s *Store) Save(ctx context.Context, p UserProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.save(ctx, p.Clone())
}

// CompleteLevel records a mistake-free completion of levelID. See Complete.
func (s *Store) CompleteLevel(ctx context.Context, levelID, score int, timeSpent time.Duration, hintsUsed, maxScore int) Completion {
	return s.Complete(ctx, Play{
		LevelID:   levelID,
		Score:     score,
		TimeSpent: timeSpent,
		HintsUsed: hintsUsed,
		MaxScore:  maxScore,
	})
}

// Complete records a completion and returns the updated profile. A lower
// score than the stored one never replaces it, but the run still accrues XP
// and statistics.
func (s *Store) Complete(ctx context.Context, play Play) Completion {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.load(ctx)
	now := s.now()

	levelID, score, timeSpent, hintsUsed := play.LevelID, play.Score, play.TimeSpent, play.HintsUsed
	maxScore := s.maxScore(levelID, play.MaxScore)
	if score < 0 || score > maxScore {
		s.logger.Warn("score out of range, clamping", "level", levelID, "score", score, "max", maxScore)
		score = clampScore(score, maxScore)
	}
	hintsUsed = max(0, hintsUsed)
	seconds := int(max(0, timeSpent) / time.Second)

	award := XPForCompletion(score, timeSpent, hintsUsed)
	p.Experience = ApplyXP(p.Experience, award)
	p.Level = LevelForXP(p.Experience)

	first := true
	for i := range p.CompletedLevels {
		c := &p.CompletedLevels[i]
		if c.LevelID != levelID {
			continue
		}
		first = false
		c.Score = max(c.Score, score)
		c.CompletedAt = now
		c.Attempts++
	}
	if first {
		p.CompletedLevels = append(p.CompletedLevels, CompletionRecord{
			LevelID:     levelID,
			Score:       score,
			CompletedAt: now,
			TimeSpent:   seconds,
			Attempts:    1,
		})
	}

	st := &p.Statistics
	st.ProblemsSolved++
	st.TotalPlayTime += seconds
	st.HintsUsed += hintsUsed
	st.TotalScore += score
	st.BestScore = max(st.BestScore, score)
	st.AverageScore = AverageScore(st.TotalScore, st.ProblemsSolved)
	st.LevelsCompleted = len(p.CompletedLevels)
	st.AlgorithmsLearned = s.algorithmsLearned(&p)
	st.StreakDays = NextStreak(st.StreakDays, st.LastPlayed, now)
	st.LastPlayed = now
	p.LastPlayed = now

	play.Score, play.HintsUsed = score, hintsUsed
	play.Mistakes = max(0, play.Mistakes)
	unlocked := s.rules.Evaluate(&p, play, now)
	s.save(ctx, p)

	s.logger.Info("level completed",
		"level", levelID, "score", score, "xp", award, "total_xp", p.Experience, "first", first)

	return Completion{
		Profile:         p.Clone(),
		LevelID:         levelID,
		Score:           score,
		XPAwarded:       award,
		FirstCompletion: first,
		NewAchievements: unlocked,
	}
}

// ResetProgress restores the default profile and discards every completion,
// achievement and session cache.
func (s *Store) ResetProgress(ctx context.Context) UserProfile {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.backend.Reset(ctx); err != nil {
		s.logger.Error("cannot reset progress", "error", err)
	}
	p := s.defaultProfile()
	s.save(ctx, p)
	return p.Clone()
}

// UnlockAchievement adds a to the profile. Returns false if it was already
// unlocked.
func (s *Store) UnlockAchievement(ctx context.Context, a Achievement) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.load(ctx)
	if p.HasAchievement(a.ID) {
		return false
	}
	if a.UnlockedAt.IsZero() {
		a.UnlockedAt = s.now()
	}
	p.Achievements = append(p.Achievements, a)
	s.save(ctx, p)
	return true
}

// UpdatePlayTime accrues play time that did not end in a completion.
func (s *Store) UpdatePlayTime(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.load(ctx)
	p.Statistics.TotalPlayTime += int(d / time.Second)
	p.LastPlayed = s.now()
	s.save(ctx, p)
}

// IsUnlocked reports whether levelID is playable, recomputed from the
// current completion history.
func (s *Store) IsUnlocked(ctx context.Context, levelID int) bool {
	p := s.Load(ctx)
	return s.catalog.IsUnlocked(levelID, p.HasCompleted)
}

// GetSessionState returns the session cache for levelID, creating it on
// first use.
func (s *Store) GetSessionState(ctx context.Context, levelID int) SessionState {
	st, err := s.backend.LoadSession(ctx, levelID)
	switch {
	case err == nil:
		return st
	case errors.Is(err, ErrNotFound):
		st = SessionState{LevelID: levelID}
		s.SaveSessionState(ctx, st)
		return st
	default:
		s.logger.Warn("cannot load session state", "level", levelID, "error", err)
		return SessionState{LevelID: levelID}
	}
}

// SaveSessionState stores the session cache.
func (s *Store) SaveSessionState(ctx context.Context, st SessionState) {
	if err := s.backend.SaveSession(ctx, st); err != nil {
		s.logger.Warn("cannot save session state", "level", st.LevelID, "error", err)
	}
}

// ResetSessionState zeroes the session cache for levelID.
func (s *Store) ResetSessionState(ctx context.Context, levelID int) {
	s.SaveSessionState(ctx, SessionState{LevelID: levelID})
}

func (s *Store) load(ctx context.Context) UserProfile {
	p, err := s.backend.LoadProfile(ctx)
	if errors.Is(err, ErrNotFound) {
		p = s.defaultProfile()
		s.save(ctx, p)
		return p
	}
	if err != nil {
		s.logger.Error("cannot load profile, using defaults", "error", err)
		return s.defaultProfile()
	}
	s.normalize(&p)
	return p
}

func (s *Store) save(ctx context.Context, p UserProfile) {
	s.normalize(&p)
	if err := s.backend.SaveProfile(ctx, p); err != nil {
		s.logger.Error("cannot save profile", "error", err)
	}
}

func (s *Store) defaultProfile() UserProfile {
	return NewProfile(s.username, s.now())
}

// normalize recomputes derived fields so a stored profile can never
// disagree with its own history.
func (s *Store) normalize(p *UserProfile) {
	if p.Experience < 0 {
		s.logger.Warn("negative experience in profile, clamping", "experience", p.Experience)
		p.Experience = 0
	}
	p.Level = LevelForXP(p.Experience)

	if p.CompletedLevels == nil {
		p.CompletedLevels = []CompletionRecord{}
	}
	if p.Achievements == nil {
		p.Achievements = []Achievement{}
	}

	seen := make(map[int]int, len(p.CompletedLevels))
	merged := p.CompletedLevels[:0]
	for _, c := range p.CompletedLevels {
		if _, ok := s.catalog.Lookup(c.LevelID); !ok {
			s.logger.Warn("completion references unknown level", "level", c.LevelID)
		}
		if c.Attempts < 1 {
			c.Attempts = 1
		}
		if i, dup := seen[c.LevelID]; dup {
			s.logger.Warn("duplicate completion record, merging", "level", c.LevelID)
			m := &merged[i]
			m.Score = max(m.Score, c.Score)
			m.Attempts += c.Attempts
			if c.CompletedAt.After(m.CompletedAt) {
				m.CompletedAt = c.CompletedAt
			}
			continue
		}
		seen[c.LevelID] = len(merged)
		merged = append(merged, c)
	}
	p.CompletedLevels = merged
	p.Statistics.LevelsCompleted = len(p.CompletedLevels)
}

// maxScore resolves the score ceiling for levelID.
func (s *Store) maxScore(levelID, requested int) int {
	if requested > 0 {
		return requested
	}
	if m, ok := s.catalog.MaxScore(levelID); ok {
		return m
	}
	s.logger.Warn("no max score for level, using fallback", "level", levelID, "fallback", fallbackMaxScore)
	return fallbackMaxScore
}

// algorithmsLearned counts the distinct algorithms among completed levels.
func (s *Store) algorithmsLearned(p *UserProfile) int {
	kinds := make(map[scene.Kind]struct{})
	for _, c := range p.CompletedLevels {
		if k, ok := s.catalog.AlgorithmOf(c.LevelID); ok {
			kinds[k] = struct{}{}
		}
	}
	return len(kinds)
}
