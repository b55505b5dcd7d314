package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestXPForCompletion(t *testing.T) {
	tests := []struct {
		name  string
		score int
		spent time.Duration
		hints int
		want  int
	}{
		{"perfect and fast", 100, 30 * time.Second, 0, 100 + 50 + 25},
		{"score rounds down", 99, 0, 0, 100 + 49 + 25},
		{"minutes reduce bonus", 100, 10*time.Minute + 59*time.Second, 0, 100 + 50 + 15},
		{"bonus never negative", 0, time.Hour, 0, 100},
		{"hint penalty", 100, 0, 3, 100 + 50 + 25 - 15},
		{"penalty can go negative", 0, time.Hour, 30, 100 - 150},
		{"scores above 100", 250, 0, 0, 100 + 125 + 25},
		{"negative time counts as zero", 100, -10 * time.Minute, 0, 100 + 50 + 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, XPForCompletion(tt.score, tt.spent, tt.hints))
		})
	}
}

func TestApplyXPNeverNegative(t *testing.T) {
	assert.Equal(t, 0, ApplyXP(20, -50))
	assert.Equal(t, 70, ApplyXP(120, -50))
	assert.Equal(t, 1175, ApplyXP(1000, 175))
}

func TestLevelForXP(t *testing.T) {
	for xp := 0; xp <= 5000; xp += 7 {
		assert.Equal(t, xp/1000+1, LevelForXP(xp), "xp=%d", xp)
	}
	assert.Equal(t, 1, LevelForXP(999))
	assert.Equal(t, 2, LevelForXP(1000))
	assert.Equal(t, 1, LevelForXP(-10))
}

func TestExperienceToNext(t *testing.T) {
	assert.Equal(t, 1000, ExperienceToNext(0))
	assert.Equal(t, 1, ExperienceToNext(999))
	assert.Equal(t, 1000, ExperienceToNext(1000))
	assert.Equal(t, 825, ExperienceToNext(1175))
}

func TestAverageScoreGuardsZero(t *testing.T) {
	assert.Zero(t, AverageScore(0, 0))
	assert.InDelta(t, 70.0, AverageScore(140, 2), 1e-9)
}

func TestEfficiency(t *testing.T) {
	assert.Zero(t, Efficiency(Statistics{AverageScore: 80}))
	assert.InDelta(t, 40.0, Efficiency(Statistics{AverageScore: 80, ProblemsSolved: 2, HintsUsed: 1}), 1e-9)
}

func TestNextStreak(t *testing.T) {
	loc := time.UTC
	day := time.Date(2026, 3, 10, 22, 0, 0, 0, loc)

	tests := []struct {
		name   string
		streak int
		last   time.Time
		now    time.Time
		want   int
	}{
		{"first play", 0, time.Time{}, day, 1},
		{"fresh profile", 0, day, day, 1},
		{"same day", 3, day, day.Add(time.Hour), 3},
		{"next day", 3, day, day.Add(3 * time.Hour), 4},
		{"gap", 3, day, day.AddDate(0, 0, 2), 1},
		{"month boundary", 5, time.Date(2026, 3, 31, 9, 0, 0, 0, loc), time.Date(2026, 4, 1, 9, 0, 0, 0, loc), 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextStreak(tt.streak, tt.last, tt.now))
		})
	}
}

func TestClampScore(t *testing.T) {
	assert.Equal(t, 0, clampScore(-5, 100))
	assert.Equal(t, 100, clampScore(180, 100))
	assert.Equal(t, 42, clampScore(42, 100))
}
