package progress

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

const recentAchievements = 5

var validate = validator.New()

// Summary is the statistics overview of a profile.
type Summary struct {
	Level            int
	Experience       int
	ExperienceToNext int

	AverageScore   float64
	ProblemsSolved int
	HintsUsed      int
	Efficiency     float64

	TotalPlayTime   time.Duration
	StreakDays      int
	CompletedLevels int

	AchievementCount   int
	RecentAchievements []Achievement
}

// LevelStatus is the completion status of one level.
type LevelStatus struct {
	LevelID     int
	IsCompleted bool
	Score       int
	Attempts    int
	IsUnlocked  bool
}

// PreferencesPatch is a partial preferences update. Nil fields are kept.
type PreferencesPatch struct {
	Theme           *Theme      `validate:"omitempty,oneof=light dark auto"`
	SoundEnabled    *bool
	TutorialEnabled *bool
	Difficulty      *Difficulty `validate:"omitempty,oneof=easy medium hard"`
}

// Summarize computes the summary of p.
func Summarize(p UserProfile) Summary {
	st := p.Statistics
	recent := p.Achievements
	if len(recent) > recentAchievements {
		recent = recent[len(recent)-recentAchievements:]
	}

	return Summary{
		Level:              LevelForXP(p.Experience),
		Experience:         p.Experience,
		ExperienceToNext:   ExperienceToNext(p.Experience),
		AverageScore:       st.AverageScore,
		ProblemsSolved:     st.ProblemsSolved,
		HintsUsed:          st.HintsUsed,
		Efficiency:         Efficiency(st),
		TotalPlayTime:      time.Duration(st.TotalPlayTime) * time.Second,
		StreakDays:         st.StreakDays,
		CompletedLevels:    len(p.CompletedLevels),
		AchievementCount:   len(p.Achievements),
		RecentAchievements: append([]Achievement{}, recent...),
	}
}

// Summary returns the statistics overview of the stored profile.
func (s *Store) Summary(ctx context.Context) Summary {
	return Summarize(s.Load(ctx))
}

// LevelStatus returns the completion status of levelID.
func (s *Store) LevelStatus(ctx context.Context, levelID int) LevelStatus {
	p := s.Load(ctx)
	status := LevelStatus{
		LevelID:    levelID,
		IsUnlocked: s.catalog.IsUnlocked(levelID, p.HasCompleted),
	}
	if c, ok := p.Completion(levelID); ok {
		status.IsCompleted = true
		status.Score = c.Score
		status.Attempts = c.Attempts
	}
	return status
}

// LevelStatuses returns the status of every catalog level in play order.
func (s *Store) LevelStatuses(ctx context.Context) []LevelStatus {
	p := s.Load(ctx)
	all := s.catalog.All()
	out := make([]LevelStatus, 0, len(all))
	for _, m := range all {
		status := LevelStatus{
			LevelID:    m.ID,
			IsUnlocked: s.catalog.IsUnlocked(m.ID, p.HasCompleted),
		}
		if c, ok := p.Completion(m.ID); ok {
			status.IsCompleted = true
			status.Score = c.Score
			status.Attempts = c.Attempts
		}
		out = append(out, status)
	}
	return out
}

// UpdatePreferences applies a partial preferences update. An invalid patch
// changes nothing and is reported.
func (s *Store) UpdatePreferences(ctx context.Context, patch PreferencesPatch) (UserProfile, error) {
	if err := validate.Struct(patch); err != nil {
		return UserProfile{}, fmt.Errorf("progress: invalid preferences: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.load(ctx)
	if patch.Theme != nil {
		p.Preferences.Theme = *patch.Theme
	}
	if patch.SoundEnabled != nil {
		p.Preferences.SoundEnabled = *patch.SoundEnabled
	}
	if patch.TutorialEnabled != nil {
		p.Preferences.TutorialEnabled = *patch.TutorialEnabled
	}
	if patch.Difficulty != nil {
		p.Preferences.Difficulty = *patch.Difficulty
	}
	s.save(ctx, p)
	return p.Clone(), nil
}
