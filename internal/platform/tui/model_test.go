package tui

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/algoquest/internal/config"
	"github.com/vovakirdan/algoquest/internal/core"
	"github.com/vovakirdan/algoquest/internal/games/fibonacci"
	"github.com/vovakirdan/algoquest/internal/progress"
	"github.com/vovakirdan/algoquest/internal/session"
	"github.com/vovakirdan/algoquest/internal/storage"
)

func newTestModel(t *testing.T, levelID int, prepare func(context.Context, *progress.Store)) Model {
	t.Helper()
	ctx := context.Background()

	cfg := config.Default()
	cfg.Factorial.Depth = 2
	cfg.Factorial.ReturnDelay = 100 * time.Millisecond
	cfg.Factorial.TravelTime = 100 * time.Millisecond
	cfg.Factorial.CompletionDelay = 100 * time.Millisecond
	cfg.Fibonacci.N = 3
	cfg.BubbleSort.Initial = []int{2, 1}

	logger := log.New(io.Discard)
	store := progress.NewStore(storage.NewMemory(), progress.Options{Logger: logger})
	if prepare != nil {
		prepare(ctx, store)
	}
	ctrl := session.New(store, cfg, logger)

	m, err := NewModel(ctx, ctrl, store, levelID, core.RuntimeConfig{ScreenW: 120, ScreenH: 32, TickRate: 10})
	if err != nil {
		t.Fatalf("NewModel() failed: %v", err)
	}
	return m
}

func send(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		if m, ok = next.(Model); !ok {
			t.Fatalf("Update returned %T", next)
		}
	}
	return m
}

func ticks(n int) []tea.Msg {
	out := make([]tea.Msg, n)
	for i := range out {
		out[i] = TickMsg(time.Time{})
	}
	return out
}

func TestModelPlaysFactorialToNextLevel(t *testing.T) {
	m := newTestModel(t, 1, nil)

	view := m.View()
	if !strings.Contains(view, "Level 1") || !strings.Contains(view, "factorial(2)") {
		t.Fatalf("initial view:\n%s", view)
	}

	m = send(t, m, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyDown})
	m = send(t, m, ticks(20)...)

	if m.events.result == nil {
		t.Fatal("level should be finished")
	}
	if !m.events.result.FirstCompletion || m.events.result.Score != 100 {
		t.Errorf("result = %+v", *m.events.result)
	}
	if view := m.View(); !strings.Contains(view, "Level complete!") {
		t.Errorf("result banner missing:\n%s", view)
	}

	// Scene keys are ignored once finished.
	m = send(t, m, tea.KeyMsg{Type: tea.KeyDown})

	m = send(t, m, runeKey('n'))
	if _, ok := m.events.snap.(fibonacci.Snapshot); !ok {
		t.Fatalf("next level should be the call tree, got %T", m.events.snap)
	}
	if m.events.result != nil {
		t.Error("result should be cleared for the new level")
	}
}

func TestModelHintAndReplay(t *testing.T) {
	m := newTestModel(t, 1, nil)

	m = send(t, m, runeKey('h'))
	if !strings.Contains(m.View(), "Hint: ") {
		t.Errorf("hint not shown:\n%s", m.View())
	}
	if got := m.ctrl.Active().HintsUsed(); got != 1 {
		t.Errorf("hints used = %d, expected 1", got)
	}

	m = send(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = send(t, m, runeKey('r'))
	if m.hint != "" {
		t.Error("replay should clear the hint")
	}
	if got := m.ctrl.Active().HintsUsed(); got != 0 {
		t.Errorf("hints after replay = %d", got)
	}
	if !strings.Contains(m.View(), "factorial(2)") {
		t.Error("scene missing after replay")
	}
}

func TestModelCollectsWithPointer(t *testing.T) {
	m := newTestModel(t, 2, func(ctx context.Context, s *progress.Store) {
		s.CompleteLevel(ctx, 1, 100, time.Minute, 0, 0)
	})

	for i := 0; i < 10 && m.events.result == nil; i++ {
		m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	}
	if m.events.result == nil {
		t.Fatal("collecting every leaf should finish the level")
	}
	snap := m.events.snap.(fibonacci.Snapshot)
	if !snap.Resolved || snap.RootValue != 2 {
		t.Errorf("fib(3) resolved = %v, value %d", snap.Resolved, snap.RootValue)
	}
}

func TestModelShowsSummaryAfterLastLevel(t *testing.T) {
	m := newTestModel(t, 3, func(ctx context.Context, s *progress.Store) {
		s.CompleteLevel(ctx, 1, 100, time.Minute, 0, 0)
		s.CompleteLevel(ctx, 2, 100, time.Minute, 0, 0)
	})

	m = send(t, m, runeKey('x'), runeKey(' '))
	if m.events.result == nil || m.events.result.Score != 100 {
		t.Fatalf("sorting [2 1] with one swap should score 100, got %+v", m.events.result)
	}

	m = send(t, m, runeKey('n'))
	if !m.summary {
		t.Fatal("finishing the last level should open the summary")
	}
	view := m.View()
	if !strings.Contains(view, "Quest complete") || !strings.Contains(view, "Levels completed") {
		t.Errorf("summary view:\n%s", view)
	}
	if m.ctrl.Active() != nil {
		t.Error("session should be torn down on the summary")
	}
}

func TestModelBackAndQuit(t *testing.T) {
	m := newTestModel(t, 1, nil)
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if !m.Back() || m.Quitting() {
		t.Error("esc should go back to the level list")
	}
	if m.View() != "" {
		t.Error("view should be empty after leaving")
	}

	m = newTestModel(t, 1, nil)
	m = send(t, m, runeKey('q'))
	if !m.Quitting() {
		t.Error("q should quit")
	}
}

func TestNewModelRejectsLockedLevel(t *testing.T) {
	ctx := context.Background()
	logger := log.New(io.Discard)
	store := progress.NewStore(storage.NewMemory(), progress.Options{Logger: logger})
	ctrl := session.New(store, config.Default(), logger)

	if _, err := NewModel(ctx, ctrl, store, 3, core.DefaultConfig()); err == nil {
		t.Error("starting a locked level should fail")
	}
}

func TestMenuModel(t *testing.T) {
	ctx := context.Background()
	store := progress.NewStore(storage.NewMemory(), progress.Options{Logger: log.New(io.Discard)})
	store.CompleteLevel(ctx, 1, 90, time.Minute, 0, 0)

	m := NewMenuModel(ctx, store, core.DefaultConfig())
	if m.cursor != 1 {
		t.Errorf("menu should open on the first unfinished level, cursor = %d", m.cursor)
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(MenuModel)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(MenuModel)
	if m.selected != nil {
		t.Error("locked level should not be selectable")
	}
	if !strings.Contains(m.View(), "Complete level 2") {
		t.Errorf("locked notice missing:\n%s", m.View())
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = next.(MenuModel)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(MenuModel)
	if m.selected == nil || m.selected.Meta.ID != 2 {
		t.Errorf("selected = %+v", m.selected)
	}
}

func TestHistoryModel(t *testing.T) {
	ctx := context.Background()
	store := progress.NewStore(storage.NewMemory(), progress.Options{Logger: log.New(io.Discard)})
	store.RecordAttempt(ctx, progress.Attempt{LevelID: 1, Score: 100, TimeSpent: 42 * time.Second})

	m := NewHistoryModel(ctx, store, 100, 30)
	if len(m.attempts) != 1 {
		t.Fatalf("attempts = %+v", m.attempts)
	}
	if view := m.View(); !strings.Contains(view, "Plays 1") {
		t.Errorf("stats missing:\n%s", view)
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(HistoryModel)
	if m.cursor != 1 || len(m.attempts) != 0 {
		t.Errorf("cursor = %d, attempts = %d", m.cursor, len(m.attempts))
	}
	if !strings.Contains(m.View(), "Not played yet.") {
		t.Error("empty level should say so")
	}
}
