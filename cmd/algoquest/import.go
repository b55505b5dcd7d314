package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the profile from JSON",
	Long: `Replace the stored profile with one previously written by 'export'.
Malformed or invalid files are rejected and leave progress untouched.

Examples:
  algoquest import backup.json`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("cannot open %s: %w", args[0], err)
	}
	defer f.Close()

	a, err := openApp(false)
	if err != nil {
		return err
	}
	defer a.close()

	if !a.store.Import(cmd.Context(), f) {
		return errors.New("import failed: the file is not a valid profile")
	}
	p := a.store.Load(cmd.Context())
	fmt.Fprintf(cmd.OutOrStdout(), "Imported profile %s: level %d, %d level(s) completed\n",
		p.Username, p.Level, len(p.CompletedLevels))
	return nil
}
