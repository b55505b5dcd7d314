package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/algoquest/internal/progress"
)

var (
	flagTheme      string
	flagSound      bool
	flagTutorial   bool
	flagDifficulty string
)

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Show or change preferences",
	Long: `Show the stored preferences. Flags change only the settings given.

Theme options:
  light, dark  - Fixed palette
  auto         - Follow the terminal background

Examples:
  algoquest prefs
  algoquest prefs --theme dark
  algoquest prefs --tutorial=false --difficulty hard`,
	Args: cobra.NoArgs,
	RunE: runPrefs,
}

func init() {
	prefsCmd.Flags().StringVar(&flagTheme, "theme", "", "UI theme: light, dark, auto")
	prefsCmd.Flags().BoolVar(&flagSound, "sound", true, "Enable sound")
	prefsCmd.Flags().BoolVar(&flagTutorial, "tutorial", true, "Show level tutorials")
	prefsCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty: easy, medium, hard")
}

func runPrefs(cmd *cobra.Command, _ []string) error {
	a, err := openApp(false)
	if err != nil {
		return err
	}
	defer a.close()

	var patch progress.PreferencesPatch
	changed := false
	flags := cmd.Flags()
	if flags.Changed("theme") {
		t := progress.Theme(flagTheme)
		patch.Theme = &t
		changed = true
	}
	if flags.Changed("sound") {
		patch.SoundEnabled = &flagSound
		changed = true
	}
	if flags.Changed("tutorial") {
		patch.TutorialEnabled = &flagTutorial
		changed = true
	}
	if flags.Changed("difficulty") {
		d := progress.Difficulty(flagDifficulty)
		patch.Difficulty = &d
		changed = true
	}

	p := a.store.Load(cmd.Context())
	if changed {
		if p, err = a.store.UpdatePreferences(cmd.Context(), patch); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	prefs := p.Preferences
	fmt.Fprintf(out, "  %-12s %s\n", "Theme", prefs.Theme)
	fmt.Fprintf(out, "  %-12s %t\n", "Sound", prefs.SoundEnabled)
	fmt.Fprintf(out, "  %-12s %t\n", "Tutorial", prefs.TutorialEnabled)
	fmt.Fprintf(out, "  %-12s %s\n", "Difficulty", prefs.Difficulty)
	return nil
}
