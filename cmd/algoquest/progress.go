package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/algoquest/internal/progress"
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show statistics and achievements",
	Long: `Display the player's level, experience, statistics and achievements.

Examples:
  algoquest progress
  algoquest progress --db ./progress.db`,
	Args: cobra.NoArgs,
	RunE: runProgress,
}

func runProgress(cmd *cobra.Command, _ []string) error {
	a, err := openApp(false)
	if err != nil {
		return err
	}
	defer a.close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	p := a.store.Load(ctx)
	sum := progress.Summarize(p)

	fmt.Fprintf(out, "%s - level %d\n", p.Username, sum.Level)
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %-18s %d (%d to next level)\n", "Experience", sum.Experience, sum.ExperienceToNext)
	fmt.Fprintf(out, "  %-18s %d/%d\n", "Levels completed", sum.CompletedLevels, a.store.Catalog().Len())
	fmt.Fprintf(out, "  %-18s %d\n", "Problems solved", sum.ProblemsSolved)
	fmt.Fprintf(out, "  %-18s %.1f\n", "Average score", sum.AverageScore)
	fmt.Fprintf(out, "  %-18s %d\n", "Hints used", sum.HintsUsed)
	fmt.Fprintf(out, "  %-18s %.1f\n", "Efficiency", sum.Efficiency)
	fmt.Fprintf(out, "  %-18s %s\n", "Play time", sum.TotalPlayTime.Round(time.Second))
	fmt.Fprintf(out, "  %-18s %d\n", "Streak (days)", sum.StreakDays)
	fmt.Fprintf(out, "  %-18s %d\n", "Algorithms learned", p.Statistics.AlgorithmsLearned)

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Achievements (%d)\n", sum.AchievementCount)
	for _, r := range progress.DefaultRules().Rules() {
		mark := "  "
		if p.HasAchievement(r.ID) {
			mark = r.Icon
		}
		fmt.Fprintf(out, "  %s %-18s %s\n", mark, r.Name, r.Description)
	}
	return nil
}
