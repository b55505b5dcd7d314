package progress

import "time"

// XP formula constants.
const (
	BaseXP        = 100
	ScoreXP       = 50 // awarded per 100 points of score
	TimeBonusXP   = 25 // minus one per full minute spent
	HintPenaltyXP = 5
	XPPerLevel    = 1000
)

// XPForCompletion returns the XP awarded for one completion. The result is
// negative when the hint penalty outweighs the rest. A negative timeSpent
// counts as zero.
func XPForCompletion(score int, timeSpent time.Duration, hintsUsed int) int {
	minutes := int(max(0, timeSpent) / time.Minute)
	timeBonus := max(0, TimeBonusXP-minutes)
	return BaseXP + score*ScoreXP/100 + timeBonus - hintsUsed*HintPenaltyXP
}

// ApplyXP adds an award to a running total. The total never drops below zero.
func ApplyXP(total, award int) int {
	return max(0, total+award)
}

// LevelForXP derives the player level from total XP.
func LevelForXP(xp int) int {
	if xp < 0 {
		xp = 0
	}
	return xp/XPPerLevel + 1
}

// ExperienceToNext returns the XP missing to reach the next level.
func ExperienceToNext(xp int) int {
	return max(0, LevelForXP(xp)*XPPerLevel-xp)
}

// AverageScore returns total/solved, or zero before the first completion.
func AverageScore(total, solved int) float64 {
	if solved <= 0 {
		return 0
	}
	return float64(total) / float64(solved)
}

// Efficiency is the average score discounted by hints used.
func Efficiency(s Statistics) float64 {
	if s.ProblemsSolved == 0 {
		return 0
	}
	return s.AverageScore / float64(s.HintsUsed+1)
}

// NextStreak returns the streak after playing at now, given the previous
// play time. Playing again on the same local day keeps the streak, the next
// day extends it and any longer gap restarts it.
func NextStreak(streak int, last, now time.Time) int {
	if last.IsZero() || streak <= 0 {
		return 1
	}

	lastDay := dayOf(last.In(now.Location()))
	today := dayOf(now)
	switch {
	case today.Equal(lastDay):
		return streak
	case today.Equal(lastDay.AddDate(0, 0, 1)):
		return streak + 1
	default:
		return 1
	}
}

func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// clampScore bounds a reported score to the level's range.
func clampScore(score, maxScore int) int {
	return min(max(score, 0), maxScore)
}
