package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var flagResetYes bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Erase all progress",
	Long: `Erase the profile, every completion, achievement, statistic and the
attempt history. A fresh profile is created on the next start.

Examples:
  algoquest reset
  algoquest reset --yes`,
	Args: cobra.NoArgs,
	RunE: runReset,
}

func init() {
	resetCmd.Flags().BoolVarP(&flagResetYes, "yes", "y", false, "Do not ask for confirmation")
}

func runReset(cmd *cobra.Command, _ []string) error {
	if !flagResetYes {
		fmt.Fprint(cmd.OutOrStdout(), "This erases all progress. Continue? [y/N] ")
		answer, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && answer == "" {
			return errors.New("reset cancelled")
		}
		if a := strings.ToLower(strings.TrimSpace(answer)); a != "y" && a != "yes" {
			fmt.Fprintln(cmd.OutOrStdout(), "Reset cancelled.")
			return nil
		}
	}

	a, err := openApp(false)
	if err != nil {
		return err
	}
	defer a.close()

	p := a.store.ResetProgress(cmd.Context())
	fmt.Fprintf(cmd.OutOrStdout(), "Progress reset. Welcome back, %s.\n", p.Username)
	return nil
}
