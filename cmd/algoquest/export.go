package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export the profile as JSON",
	Long: `Write the full profile as indented JSON to a file, or to standard
output when no file is given.

Examples:
  algoquest export
  algoquest export backup.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	a, err := openApp(false)
	if err != nil {
		return err
	}
	defer a.close()

	if len(args) == 0 {
		return a.store.Export(cmd.Context(), cmd.OutOrStdout())
	}

	f, err := os.Create(args[0])
	if err != nil {
		return fmt.Errorf("cannot create %s: %w", args[0], err)
	}
	if err := a.store.Export(cmd.Context(), f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("cannot write %s: %w", args[0], err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Profile exported to %s\n", args[0])
	return nil
}
