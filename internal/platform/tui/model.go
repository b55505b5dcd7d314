package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/algoquest/internal/core"
	"github.com/vovakirdan/algoquest/internal/games/bubblesort"
	"github.com/vovakirdan/algoquest/internal/games/factorial"
	"github.com/vovakirdan/algoquest/internal/games/fibonacci"
	"github.com/vovakirdan/algoquest/internal/progress"
	"github.com/vovakirdan/algoquest/internal/scene"
	"github.com/vovakirdan/algoquest/internal/session"
)

// Layout constants
const (
	headerHeight = 3
	footerHeight = 6
	sidebarWidth = 34
	maxLogLines  = 10
	minSceneRows = 6
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	subtleStyle  = lipgloss.NewStyle().Faint(true)
	panelStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	bannerStyle  = lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).Padding(0, 2).Bold(true)
	hintStyle    = lipgloss.NewStyle().Italic(true)
	summaryLabel = lipgloss.NewStyle().Width(20)
)

// inbox receives session events. It is shared by every copy of the model
// Bubble Tea makes, so listener callbacks are visible to the next View.
type inbox struct {
	snap   scene.Snapshot
	result *session.Result
}

func (b *inbox) OnStateChanged(s scene.Snapshot) { b.snap = s }
func (b *inbox) OnLevelComplete(r session.Result) { b.result = &r }

// Model plays levels through a session controller.
type Model struct {
	ctx     context.Context
	ctrl    *session.Controller
	store   *progress.Store
	config  core.RuntimeConfig
	keys    KeyMap
	help    help.Model
	palette Palette
	screen  *core.Screen

	events  *inbox
	pointer *pointer

	hint     string
	notice   string
	summary  bool // the campaign is over; show the statistics summary
	back     bool
	quitting bool
}

// NewModel starts levelID and returns a model playing it.
func NewModel(ctx context.Context, ctrl *session.Controller, store *progress.Store, levelID int, cfg core.RuntimeConfig) (Model, error) {
	prefs := store.Load(ctx).Preferences
	m := Model{
		ctx:     ctx,
		ctrl:    ctrl,
		store:   store,
		config:  cfg,
		keys:    DefaultKeyMap(),
		help:    help.New(),
		palette: NewPalette(prefs.Theme),
		screen:  core.NewScreen(1, 1),
		events:  &inbox{},
		pointer: &pointer{},
	}
	m.resize(cfg.ScreenW, cfg.ScreenH)

	if err := m.start(levelID); err != nil {
		return Model{}, err
	}
	return m, nil
}

func (m *Model) start(levelID int) error {
	m.events.result = nil
	m.pointer.leaf = 0
	m.hint = ""
	m.notice = ""
	s, err := m.ctrl.StartLevel(m.ctx, levelID, m.events)
	if err != nil {
		return err
	}
	m.events.snap = s.Snapshot()
	if m.store.Load(m.ctx).Preferences.TutorialEnabled {
		m.notice = s.Level().Tutorial
	}
	return nil
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.config.TickInterval())
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case TickMsg:
		if m.summary {
			return m, nil
		}
		m.ctrl.Update(m.config.TickInterval())
		return m, tickCmd(m.config.TickInterval())
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Help) {
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	action := m.keys.Action(msg)
	switch action {
	case core.ActionQuit:
		m.ctrl.Teardown()
		m.quitting = true
		return m, tea.Quit

	case core.ActionBack:
		m.ctrl.Teardown()
		m.back = true
		return m, tea.Quit

	case core.ActionNone:
		return m, nil
	}

	if m.summary {
		return m, nil
	}

	switch action {
	case core.ActionHint:
		if h, ok := m.ctrl.Hint(); ok {
			m.hint = h
		}
		return m, nil

	case core.ActionRestart:
		if err := m.ctrl.Replay(); err == nil {
			m.events.result = nil
			m.pointer.leaf = 0
			m.hint = ""
			m.notice = "Replaying level."
			if s := m.ctrl.Active(); s != nil {
				m.events.snap = s.Snapshot()
			}
		}
		return m, nil

	case core.ActionNext:
		return m.advance()
	}

	if m.events.result != nil || m.events.snap == nil {
		return m, nil
	}
	if in, ok := translate(action, m.events.snap, m.pointer); ok {
		m.ctrl.Apply(in)
		m.notice = ""
	}
	return m, nil
}

// advance moves to the next level after a finished play, or to the summary
// when the current level was the last one.
func (m Model) advance() (tea.Model, tea.Cmd) {
	if m.events.result == nil {
		return m, nil
	}
	next, ok := m.ctrl.NextLevel()
	if !ok {
		m.ctrl.Teardown()
		m.summary = true
		return m, nil
	}
	if err := m.start(next.ID); err != nil {
		m.notice = err.Error()
	}
	return m, nil
}

func (m *Model) resize(width, height int) {
	m.config.ScreenW = width
	m.config.ScreenH = height
	m.help.Width = width

	w := max(width-sidebarWidth-4, 20)
	h := max(height-headerHeight-footerHeight, minSceneRows)
	m.screen.Resize(w, h)
}

// View renders the current state.
func (m Model) View() string {
	if m.quitting || m.back {
		return ""
	}
	if m.summary {
		return m.viewSummary()
	}

	s := m.ctrl.Active()
	if s == nil || m.events.snap == nil {
		return subtleStyle.Render("No active level.")
	}
	meta := s.Level()

	var b strings.Builder

	header := titleStyle.Render(fmt.Sprintf("Level %d · %s", meta.ID, meta.Title))
	stats := subtleStyle.Render(fmt.Sprintf("  %s  ·  hints %d/%d  ·  %s",
		formatElapsed(s.Elapsed()), s.HintsUsed(), len(meta.Hints), sceneStatus(m.events.snap)))
	b.WriteString(header + stats + "\n")
	b.WriteString(subtleStyle.Render(meta.Objective) + "\n\n")

	selected := ""
	if fib, ok := m.events.snap.(fibonacci.Snapshot); ok {
		selected, _ = m.pointer.selected(fib)
	}
	drawScene(m.screen, m.events.snap, selected)
	sceneView := m.palette.RenderScreen(m.screen)
	side := panelStyle.Width(sidebarWidth).Render(m.callStack())
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, sceneView, "  ", side))
	b.WriteString("\n")

	switch {
	case m.events.result != nil:
		b.WriteString(m.viewResult(*m.events.result))
	case m.hint != "":
		b.WriteString(hintStyle.Render("Hint: " + m.hint))
	case m.notice != "":
		b.WriteString(subtleStyle.Render(m.notice))
	}
	b.WriteString("\n")

	h := sceneHelp{keys: m.keys, kind: m.events.snap.Kind(), done: m.events.result != nil}
	b.WriteString(m.help.View(h))
	return b.String()
}

// callStack renders the recent frames of the scene log.
func (m Model) callStack() string {
	var frames []scene.Frame
	var title string
	switch s := m.events.snap.(type) {
	case factorial.Snapshot:
		title = "Call stack"
		for _, f := range s.Frames {
			if f.Text != "" {
				frames = append(frames, f)
			}
		}
	case fibonacci.Snapshot:
		title = "Call log"
		frames = s.Frames
	case bubblesort.Snapshot:
		title = "Log"
		frames = s.Log
	}
	if len(frames) > maxLogLines {
		frames = frames[len(frames)-maxLogLines:]
	}

	lines := []string{titleStyle.Render(title)}
	for _, f := range frames {
		style := subtleStyle
		switch {
		case f.Active:
			style = m.palette.Style(core.ColorActive)
		case f.Return:
			style = m.palette.Style(core.ColorResolved)
		}
		lines = append(lines, style.Render(f.Text))
	}
	return strings.Join(lines, "\n")
}

func (m Model) viewResult(r session.Result) string {
	lines := []string{fmt.Sprintf("Level complete! Score %d", r.Score)}
	if r.FirstCompletion {
		lines = append(lines, fmt.Sprintf("+%d XP · level %d", r.XPAwarded, r.Profile.Level))
	} else {
		lines = append(lines, "Replay: progress unchanged")
	}
	for _, a := range r.NewAchievements {
		lines = append(lines, fmt.Sprintf("%s Achievement unlocked: %s", a.Icon, a.Name))
	}
	return bannerStyle.BorderForeground(lipgloss.Color("10")).Render(strings.Join(lines, "\n"))
}

func (m Model) viewSummary() string {
	sum := m.store.Summary(m.ctx)
	rows := [][2]string{
		{"Level", fmt.Sprintf("%d", sum.Level)},
		{"Experience", fmt.Sprintf("%d (%d to next)", sum.Experience, sum.ExperienceToNext)},
		{"Levels completed", fmt.Sprintf("%d", sum.CompletedLevels)},
		{"Average score", fmt.Sprintf("%.1f", sum.AverageScore)},
		{"Hints used", fmt.Sprintf("%d", sum.HintsUsed)},
		{"Efficiency", fmt.Sprintf("%.1f", sum.Efficiency)},
		{"Play time", formatElapsed(sum.TotalPlayTime)},
		{"Streak", fmt.Sprintf("%d day(s)", sum.StreakDays)},
		{"Achievements", fmt.Sprintf("%d", sum.AchievementCount)},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Quest complete") + "\n\n")
	for _, r := range rows {
		b.WriteString(summaryLabel.Render(r[0]) + r[1] + "\n")
	}
	if len(sum.RecentAchievements) > 0 {
		b.WriteString("\n" + titleStyle.Render("Recent achievements") + "\n")
		for _, a := range sum.RecentAchievements {
			b.WriteString(fmt.Sprintf("  %s %s · %s\n", a.Icon, a.Name, a.Description))
		}
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(sceneHelp{keys: m.keys, done: true}))
	return panelStyle.Render(b.String())
}

// sceneStatus is a one-line status of the scene.
func sceneStatus(snap scene.Snapshot) string {
	switch s := snap.(type) {
	case factorial.Snapshot:
		return s.Label
	case fibonacci.Snapshot:
		return fmt.Sprintf("Leaves: %d/%d", s.Collected, s.TotalLeaves)
	case bubblesort.Snapshot:
		return fmt.Sprintf("Attempts: %d", s.Attempts)
	}
	return ""
}

func formatElapsed(d time.Duration) string {
	d = d.Round(time.Second)
	return fmt.Sprintf("%02d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}

// Back reports whether the player asked to return to the level list.
func (m Model) Back() bool {
	return m.back
}

// Quitting reports whether the player asked to quit.
func (m Model) Quitting() bool {
	return m.quitting
}

// Run plays levelID until the player leaves. back is true when the player
// asked to return to the level list.
func Run(ctx context.Context, ctrl *session.Controller, store *progress.Store, levelID int, cfg core.RuntimeConfig) (back bool, err error) {
	model, err := NewModel(ctx, ctrl, store, levelID, cfg)
	if err != nil {
		return false, err
	}

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	ctrl.Teardown()
	if err != nil {
		return false, err
	}
	if m, ok := final.(Model); ok {
		return m.Back(), nil
	}
	return false, nil
}
