package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/algoquest/internal/levels"
	"github.com/vovakirdan/algoquest/internal/progress"
)

const recentAttempts = 20

// HistoryKeyMap defines the key bindings for the history board.
type HistoryKeyMap struct {
	Up        key.Binding
	Down      key.Binding
	NextLevel key.Binding
	PrevLevel key.Binding
	Back      key.Binding
	Quit      key.Binding
}

// ShortHelp implements help.KeyMap.
func (k HistoryKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.PrevLevel, k.NextLevel, k.Back}
}

// FullHelp implements help.KeyMap.
func (k HistoryKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PrevLevel, k.NextLevel},
		{k.Back, k.Quit},
	}
}

// DefaultHistoryKeyMap returns default key bindings.
func DefaultHistoryKeyMap() HistoryKeyMap {
	return HistoryKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll down"),
		),
		NextLevel: key.NewBinding(
			key.WithKeys("right", "l", "tab"),
			key.WithHelp("→/tab", "next level"),
		),
		PrevLevel: key.NewBinding(
			key.WithKeys("left", "h", "shift+tab"),
			key.WithHelp("←", "prev level"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// HistoryModel shows per-level play statistics and the recent attempts of
// the selected level.
type HistoryModel struct {
	ctx      context.Context
	store    *progress.Store
	levels   []levels.Meta
	stats    map[int]progress.LevelHistory
	cursor   int
	attempts []progress.Attempt
	table    table.Model
	help     help.Model
	keys     HistoryKeyMap
	width    int
	height   int
	back     bool
	quitting bool
}

// NewHistoryModel creates a history board.
func NewHistoryModel(ctx context.Context, store *progress.Store, width, height int) HistoryModel {
	stats := make(map[int]progress.LevelHistory)
	for _, h := range store.History(ctx) {
		stats[h.LevelID] = h
	}

	m := HistoryModel{
		ctx:    ctx,
		store:  store,
		levels: store.Catalog().All(),
		stats:  stats,
		keys:   DefaultHistoryKeyMap(),
		help:   help.New(),
		width:  width,
		height: height,
	}
	m.table = m.createTable()
	m.loadAttempts()
	return m
}

func (m *HistoryModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "#", Width: 4},
		{Title: "Score", Width: 7},
		{Title: "Time", Width: 7},
		{Title: "Kind", Width: 11},
		{Title: "Played", Width: 16},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-14, 5)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)
	return t
}

func (m *HistoryModel) loadAttempts() {
	m.attempts = nil
	if len(m.levels) > 0 {
		m.attempts = m.store.RecentAttempts(m.ctx, m.levels[m.cursor].ID, recentAttempts)
	}

	rows := make([]table.Row, len(m.attempts))
	for i, a := range m.attempts {
		kind := "completion"
		if a.Replay {
			kind = "replay"
		}
		rows[i] = table.Row{
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%d", a.Score),
			formatElapsed(a.TimeSpent),
			kind,
			a.PlayedAt.Local().Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Init implements tea.Model.
func (m HistoryModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the history board.
func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.back = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextLevel):
			if len(m.levels) > 0 {
				m.cursor = (m.cursor + 1) % len(m.levels)
				m.loadAttempts()
			}
			return m, nil

		case key.Matches(msg, m.keys.PrevLevel):
			if len(m.levels) > 0 {
				m.cursor = (m.cursor - 1 + len(m.levels)) % len(m.levels)
				m.loadAttempts()
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.loadAttempts()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the history board.
func (m HistoryModel) View() string {
	if m.quitting || m.back {
		return ""
	}

	var b strings.Builder
	title := "HISTORY"
	if len(m.levels) > 0 {
		meta := m.levels[m.cursor]
		title = fmt.Sprintf("HISTORY - Level %d · %s", meta.ID, meta.Title)
	}
	b.WriteString(titleStyle.Render(centerText(title, m.width)))
	b.WriteString("\n\n")

	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	b.WriteString(m.renderStats())
	b.WriteString("\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	b.WriteString(tableStyle.Render(m.renderTableContent()))

	b.WriteString("\n")
	b.WriteString(subtleStyle.Render(m.help.View(m.keys)))
	return b.String()
}

func (m HistoryModel) renderTabs() string {
	active := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Padding(0, 1)

	tabs := make([]string, len(m.levels))
	for i, meta := range m.levels {
		name := fmt.Sprintf("%d. %s", meta.ID, meta.Name)
		if i == m.cursor {
			tabs[i] = active.Render(name)
		} else {
			tabs[i] = subtleStyle.Render(" " + name + " ")
		}
	}
	return strings.Join(tabs, " ")
}

func (m HistoryModel) renderStats() string {
	if len(m.levels) == 0 {
		return ""
	}
	h, ok := m.stats[m.levels[m.cursor].ID]
	if !ok {
		return subtleStyle.Render("Not played yet.")
	}
	return fmt.Sprintf("Plays %d · best %d · average %.1f · last played %s",
		h.Plays, h.BestScore, h.AvgScore, h.LastPlayed.Local().Format("2006-01-02 15:04"))
}

func (m HistoryModel) renderTableContent() string {
	if len(m.attempts) == 0 {
		return lipgloss.NewStyle().
			Faint(true).
			Italic(true).
			Padding(1, 4).
			Render("No attempts recorded yet.\nFinish the level to see it here!")
	}
	return m.table.View()
}

// IsGoingBack reports whether the player wants the level list again.
func (m HistoryModel) IsGoingBack() bool {
	return m.back
}

// RunHistory runs the history board. goBack is true when the player asked
// for the level list, false when quitting.
func RunHistory(ctx context.Context, store *progress.Store, width, height int) (goBack bool, err error) {
	p := tea.NewProgram(NewHistoryModel(ctx, store, width, height), tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return false, err
	}
	m, ok := final.(HistoryModel)
	if !ok {
		return false, nil
	}
	return m.IsGoingBack(), nil
}
