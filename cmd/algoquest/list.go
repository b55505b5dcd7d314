package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/algoquest/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all levels",
	Long:  `Shows every level in play order with its algorithm, difficulty and status.`,
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, _ []string) error {
	a, err := openApp(false)
	if err != nil {
		return err
	}
	defer a.close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	catalog := a.store.Catalog()
	statuses := a.store.LevelStatuses(ctx)

	if len(statuses) == 0 {
		fmt.Fprintln(out, "No levels available.")
		return nil
	}

	fmt.Fprintln(out, "Levels:")
	fmt.Fprintln(out)

	// Calculate column widths
	maxTitleLen := len("Title")
	for _, st := range statuses {
		if m, ok := catalog.Lookup(st.LevelID); ok && len(m.Title) > maxTitleLen {
			maxTitleLen = len(m.Title)
		}
	}

	fmt.Fprintf(out, "  %-3s  %-*s  %-11s  %-13s  %s\n", "ID", maxTitleLen, "Title", "Algorithm", "Difficulty", "Status")
	fmt.Fprintf(out, "  %-3s  %-*s  %-11s  %-13s  %s\n", "--", maxTitleLen, "-----", "---------", "----------", "------")

	for _, st := range statuses {
		m, ok := catalog.Lookup(st.LevelID)
		if !ok {
			continue
		}
		status := "locked"
		switch {
		case !registry.Exists(m.Algorithm):
			status = "unavailable"
		case st.IsCompleted:
			status = fmt.Sprintf("completed (%d/%d)", st.Score, m.MaxScore)
		case st.IsUnlocked:
			status = "available"
		}
		fmt.Fprintf(out, "  %-3d  %-*s  %-11s  %-13s  %s\n", m.ID, maxTitleLen, m.Title, m.Algorithm, m.Difficulty, status)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Run 'algoquest play <id>' to play a level.")
	return nil
}
