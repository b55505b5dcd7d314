package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/algoquest/internal/core"
	"github.com/vovakirdan/algoquest/internal/levels"
	"github.com/vovakirdan/algoquest/internal/platform/tui"
	"github.com/vovakirdan/algoquest/internal/progress"
)

var playCmd = &cobra.Command{
	Use:   "play [level]",
	Short: "Play a level",
	Long: `Start playing a level, given by id, algorithm or name. Without an argument the
first unlocked level that has not been completed is played.

Controls:
  Arrows/WASD  - Move, jump and descend
  Enter        - Collect the selected leaf
  X / Space    - Swap the window / verify the array
  H            - Next hint
  R            - Replay the level
  N            - Continue (after completing a level)
  Esc          - Back to the level list
  Q/Ctrl+C     - Quit

Examples:
  algoquest play
  algoquest play 2
  algoquest play bubblesort --fps 60`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func runPlay(cmd *cobra.Command, args []string) error {
	a, err := openApp(true)
	if err != nil {
		return err
	}
	defer a.close()

	ctx := cmd.Context()
	catalog := a.store.Catalog()

	var meta levels.Meta
	if len(args) == 1 {
		if meta, err = findLevel(catalog, args[0]); err != nil {
			return fmt.Errorf("%w\nRun 'algoquest list' to see the levels", err)
		}
	} else {
		meta = nextLevel(ctx, a.store)
	}

	if !a.store.IsUnlocked(ctx, meta.ID) {
		prev, _ := catalog.Lookup(meta.UnlocksAtLevel)
		return fmt.Errorf("level %d is locked: complete %q first", meta.ID, prev.Title)
	}

	back, err := tui.Run(ctx, a.controller(), a.store, meta.ID, runtimeConfig(a))
	if err != nil {
		return fmt.Errorf("error running level: %w", err)
	}
	if back {
		return menuLoop(ctx, a)
	}
	return nil
}

// runtimeConfig sizes the play area to the terminal.
func runtimeConfig(a *app) core.RuntimeConfig {
	cfg := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW = w
		cfg.ScreenH = h
	}
	cfg.TickRate = a.cfg.Runtime.TickRate
	return cfg
}

// findLevel resolves a level by numeric id, algorithm kind or name.
func findLevel(catalog *levels.Catalog, arg string) (levels.Meta, error) {
	if id, err := strconv.Atoi(arg); err == nil {
		return catalog.Get(id)
	}
	for _, m := range catalog.All() {
		if strings.EqualFold(string(m.Algorithm), arg) || strings.EqualFold(m.Name, arg) {
			return m, nil
		}
	}
	return levels.Meta{}, fmt.Errorf("%w: %q", levels.ErrUnknownLevel, arg)
}

// nextLevel returns the first unlocked level not yet completed, or the first
// level once everything is done.
func nextLevel(ctx context.Context, store *progress.Store) levels.Meta {
	catalog := store.Catalog()
	for _, st := range store.LevelStatuses(ctx) {
		if st.IsUnlocked && !st.IsCompleted {
			if m, ok := catalog.Lookup(st.LevelID); ok {
				return m
			}
		}
	}
	return catalog.First()
}
