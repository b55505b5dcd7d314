package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/algoquest/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Pick levels from an interactive list",
	Long: `Start Algorithm Quest with the level list.

Use arrow keys or j/k to navigate, Enter to play the selected level.
Leaving a level with Esc returns to the list.

Controls:
  Up/Down/j/k  - Navigate levels
  Enter/Space  - Play level
  Tab          - Attempt history
  Q/Esc        - Quit

Examples:
  algoquest menu
  algoquest menu --fps 60
  algoquest menu --db ./progress.db`,
	Args: cobra.NoArgs,
	RunE: runMenu,
}

func runMenu(cmd *cobra.Command, _ []string) error {
	a, err := openApp(true)
	if err != nil {
		return err
	}
	defer a.close()
	return menuLoop(cmd.Context(), a)
}

// menuLoop shows the level list until the player quits.
func menuLoop(ctx context.Context, a *app) error {
	cfg := runtimeConfig(a)
	ctrl := a.controller()

	for {
		res, err := tui.RunMenu(ctx, a.store, cfg)
		if err != nil {
			return err
		}
		cfg = res.Config

		if res.Quit {
			return nil
		}

		if res.WantsHistory {
			goBack, err := tui.RunHistory(ctx, a.store, cfg.ScreenW, cfg.ScreenH)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
			if goBack {
				continue
			}
			return nil
		}

		back, err := tui.Run(ctx, ctrl, a.store, res.LevelID, cfg)
		if err != nil {
			a.logger.Error("level failed", "level", res.LevelID, "error", err)
			fmt.Fprintf(os.Stderr, "Error running level: %v\n", err)
			continue
		}
		if !back {
			return nil
		}
	}
}
