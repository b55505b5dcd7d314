// algoquest is a terminal game for learning algorithms by playing them.
//
// Usage:
//
//	algoquest list               - List levels and their status
//	algoquest play [level]       - Play a level (default: the next one to do)
//	algoquest menu               - Pick levels interactively
//	algoquest progress           - Show statistics and achievements
//	algoquest history            - Show per-level attempt history
//	algoquest prefs              - Show or change preferences
//	algoquest reset              - Erase all progress
//	algoquest export [file]      - Export the profile as JSON
//	algoquest import <file>      - Replace the profile from JSON
//
// Global flags:
//
//	--config <path>     - Configuration file
//	--db <path>         - Progress database (overrides database.path)
//	--fps <rate>        - Tick rate (overrides runtime.tick_rate)
//	--log-level <lvl>   - debug, info, warn or error
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/algoquest/internal/config"
	"github.com/vovakirdan/algoquest/internal/progress"
	"github.com/vovakirdan/algoquest/internal/session"
	"github.com/vovakirdan/algoquest/internal/storage"

	// Import scenes to register them
	_ "github.com/vovakirdan/algoquest/internal/games/bubblesort"
	_ "github.com/vovakirdan/algoquest/internal/games/factorial"
	_ "github.com/vovakirdan/algoquest/internal/games/fibonacci"
)

var (
	// Global flags
	flagConfig   string
	flagDBPath   string
	flagFPS      int
	flagLogLevel string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "algoquest",
	Short: "Algorithm Quest - learn algorithms by playing them",
	Long: `Algorithm Quest turns classic algorithms into small puzzle levels.
Descend a recursion staircase, collect the leaves of a Fibonacci call
tree and sort an array you can only see two plates of at a time.

Progress, achievements and statistics are stored locally.

Examples:
  algoquest menu
  algoquest play 1
  algoquest progress
  algoquest export progress.json`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to configuration YAML")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to progress database (default from config)")
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 0, "Tick rate in frames per second (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(prefsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}

// app is everything a command needs to work with progress.
type app struct {
	cfg     config.Config
	db      *storage.SQLite
	store   *progress.Store
	logger  *log.Logger
	logFile *os.File
}

// openApp loads configuration and opens the progress store. Interactive
// commands pass toFile so log output does not end up on the alternate screen.
func openApp(toFile bool) (*app, error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", flagLogLevel, err)
	}

	a := &app{}
	var out io.Writer = os.Stderr
	if toFile {
		if f, ferr := openLogFile(); ferr == nil {
			a.logFile = f
			out = f
		} else {
			out = io.Discard
		}
	}
	a.logger = log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		Prefix:          "algoquest",
		Level:           level,
	})

	cfg, source, err := config.Load(flagConfig)
	if err != nil {
		a.close()
		return nil, err
	}
	if flagDBPath != "" {
		cfg.Database.Path = flagDBPath
	}
	if flagFPS > 0 {
		cfg.Runtime.TickRate = flagFPS
	}
	a.cfg = cfg
	a.logger.Debug("configuration loaded", "source", source, "db", cfg.Database.Path)

	db, err := storage.Open(cfg.Database.Path)
	if err != nil {
		a.close()
		return nil, err
	}
	a.db = db

	a.store = progress.NewStore(db, progress.Options{
		Username: cfg.Player.Username,
		Logger:   a.logger,
	})
	return a, nil
}

// controller creates a session controller over the app's store.
func (a *app) controller() *session.Controller {
	return session.New(a.store, a.cfg, a.logger)
}

func (a *app) close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("cannot close database", "error", err)
		}
	}
	if a.logFile != nil {
		a.logFile.Close()
	}
}

func openLogFile() (*os.File, error) {
	path, err := config.ExpandHome("~/.algoquest/algoquest.log")
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}
