// Package progress owns the player's durable progress: the profile model, the
// rules that derive XP, level and unlocks from it, the achievement table and
// the Store service that applies completion events through a Backend.
package progress

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// DefaultUsername is given to fresh profiles when none is configured.
const DefaultUsername = "Algorithm Explorer"

// ErrNotFound is returned by a Backend when no record exists yet.
var ErrNotFound = errors.New("not found")

// Theme is the UI theme preference.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
	ThemeAuto  Theme = "auto"
)

// Difficulty is the preferred difficulty.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// UserProfile is the single source of truth for durable progress.
type UserProfile struct {
	ID              string             `json:"id" validate:"required"`
	Username        string             `json:"username" validate:"required,max=64"`
	Level           int                `json:"level" validate:"gte=1"`
	Experience      int                `json:"experience" validate:"gte=0"`
	CompletedLevels []CompletionRecord `json:"completedLevels" validate:"dive"`
	Achievements    []Achievement      `json:"achievements" validate:"dive"`
	Preferences     Preferences        `json:"preferences"`
	Statistics      Statistics         `json:"statistics"`
	LastPlayed      time.Time          `json:"lastPlayed"`
}

// CompletionRecord is the best result for one level.
type CompletionRecord struct {
	LevelID     int       `json:"levelId" validate:"gte=1"`
	Score       int       `json:"score" validate:"gte=0"`
	CompletedAt time.Time `json:"completedAt"`
	TimeSpent   int       `json:"timeSpent" validate:"gte=0"` // seconds, first completion
	Attempts    int       `json:"attempts" validate:"gte=1"`
}

// Achievement is an unlocked achievement.
type Achievement struct {
	ID          string    `json:"id" validate:"required"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	UnlockedAt  time.Time `json:"unlockedAt"`
}

// Preferences are player settings stored with the profile.
type Preferences struct {
	Theme           Theme      `json:"theme" validate:"omitempty,oneof=light dark auto"`
	SoundEnabled    bool       `json:"soundEnabled"`
	TutorialEnabled bool       `json:"tutorialEnabled"`
	Difficulty      Difficulty `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
}

// Statistics are aggregates over every completion.
type Statistics struct {
	TotalPlayTime     int       `json:"totalPlayTime"` // seconds
	LevelsCompleted   int       `json:"levelsCompleted"`
	TotalScore        int       `json:"totalScore"`
	AverageScore      float64   `json:"averageScore"`
	BestScore         int       `json:"bestScore"`
	AlgorithmsLearned int       `json:"algorithmsLearned"`
	StreakDays        int       `json:"streakDays"`
	HintsUsed         int       `json:"hintsUsed"`
	ProblemsSolved    int       `json:"problemsSolved"`
	LastPlayed        time.Time `json:"lastPlayed"`
}

// SessionState is the in-progress score cache for one level.
type SessionState struct {
	LevelID      int `json:"levelId"`
	CurrentScore int `json:"currentScore"`
}

// DefaultPreferences returns the preferences of a fresh profile.
func DefaultPreferences() Preferences {
	return Preferences{
		Theme:           ThemeDark,
		SoundEnabled:    true,
		TutorialEnabled: true,
		Difficulty:      DifficultyMedium,
	}
}

// NewProfile returns a zeroed profile with a fresh identity.
func NewProfile(username string, now time.Time) UserProfile {
	if username == "" {
		username = DefaultUsername
	}
	return UserProfile{
		ID:              uuid.NewString(),
		Username:        username,
		Level:           1,
		CompletedLevels: []CompletionRecord{},
		Achievements:    []Achievement{},
		Preferences:     DefaultPreferences(),
		Statistics:      Statistics{LastPlayed: now},
		LastPlayed:      now,
	}
}

// Completion returns the record for levelID.
func (p UserProfile) Completion(levelID int) (CompletionRecord, bool) {
	for _, c := range p.CompletedLevels {
		if c.LevelID == levelID {
			return c, true
		}
	}
	return CompletionRecord{}, false
}

// HasCompleted reports whether levelID has a completion record.
func (p UserProfile) HasCompleted(levelID int) bool {
	_, ok := p.Completion(levelID)
	return ok
}

// HasAchievement reports whether the achievement id is unlocked.
func (p UserProfile) HasAchievement(id string) bool {
	for _, a := range p.Achievements {
		if a.ID == id {
			return true
		}
	}
	return false
}

// Clone returns a deep copy.
func (p UserProfile) Clone() UserProfile {
	c := p
	c.CompletedLevels = append([]CompletionRecord{}, p.CompletedLevels...)
	c.Achievements = append([]Achievement{}, p.Achievements...)
	return c
}
