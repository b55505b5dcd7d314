package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var flagHistoryLimit int

var historyCmd = &cobra.Command{
	Use:   "history [level]",
	Short: "Show attempt history",
	Long: `Display play statistics for every level, or the most recent attempts
of one level.

Examples:
  algoquest history
  algoquest history 3
  algoquest history fibonacci --limit 5`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&flagHistoryLimit, "limit", 10, "Number of attempts to show for a level")
}

func runHistory(cmd *cobra.Command, args []string) error {
	a, err := openApp(false)
	if err != nil {
		return err
	}
	defer a.close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	catalog := a.store.Catalog()

	if len(args) == 0 {
		history := a.store.History(ctx)
		if len(history) == 0 {
			fmt.Fprintln(out, "No attempts recorded yet.")
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Run 'algoquest play' to start the first level!")
			return nil
		}

		fmt.Fprintf(out, "  %-3s  %-32s  %-5s  %-5s  %-7s  %s\n", "ID", "Title", "Plays", "Best", "Average", "Last played")
		fmt.Fprintf(out, "  %-3s  %-32s  %-5s  %-5s  %-7s  %s\n", "--", "-----", "-----", "----", "-------", "-----------")
		for _, h := range history {
			title := ""
			if m, ok := catalog.Lookup(h.LevelID); ok {
				title = m.Title
			}
			fmt.Fprintf(out, "  %-3d  %-32s  %-5d  %-5d  %-7.1f  %s\n",
				h.LevelID, title, h.Plays, h.BestScore, h.AvgScore, h.LastPlayed.Local().Format("2006-01-02 15:04"))
		}
		return nil
	}

	meta, err := findLevel(catalog, args[0])
	if err != nil {
		return fmt.Errorf("%w\nRun 'algoquest list' to see the levels", err)
	}

	fmt.Fprintf(out, "Recent attempts - %s\n", meta.Title)
	fmt.Fprintln(out)

	attempts := a.store.RecentAttempts(ctx, meta.ID, flagHistoryLimit)
	if len(attempts) == 0 {
		fmt.Fprintln(out, "No attempts recorded yet.")
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Play 'algoquest play %d' to record the first one!\n", meta.ID)
		return nil
	}

	fmt.Fprintf(out, "  %-4s  %-6s  %-8s  %-10s  %s\n", "#", "Score", "Time", "Kind", "Date")
	fmt.Fprintf(out, "  %-4s  %-6s  %-8s  %-10s  %s\n", "-", "-----", "----", "----", "----")
	for i, at := range attempts {
		kind := "completion"
		if at.Replay {
			kind = "replay"
		}
		fmt.Fprintf(out, "  %-4d  %-6d  %-8s  %-10s  %s\n",
			i+1, at.Score, at.TimeSpent.Round(time.Second), kind, at.PlayedAt.Local().Format("2006-01-02 15:04"))
	}

	if st := a.store.LevelStatus(ctx, meta.ID); st.IsCompleted {
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Best: %d\n", st.Score)
	}
	return nil
}
