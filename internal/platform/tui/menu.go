package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/algoquest/internal/core"
	"github.com/vovakirdan/algoquest/internal/levels"
	"github.com/vovakirdan/algoquest/internal/progress"
)

const listWidth = 30

// MenuItem is one level in the list.
type MenuItem struct {
	Meta   levels.Meta
	Status progress.LevelStatus
}

// MenuModel is the level list.
type MenuModel struct {
	items    []MenuItem
	summary  progress.Summary
	cursor   int
	width    int
	height   int
	keys     MenuKeyMap
	help     help.Model
	config   core.RuntimeConfig
	notice   string
	selected *MenuItem
	history  bool
	quitting bool
}

// NewMenuModel builds the level list from the store's catalog and progress.
func NewMenuModel(ctx context.Context, store *progress.Store, cfg core.RuntimeConfig) MenuModel {
	catalog := store.Catalog()
	statuses := store.LevelStatuses(ctx)
	items := make([]MenuItem, 0, len(statuses))
	for _, st := range statuses {
		meta, ok := catalog.Lookup(st.LevelID)
		if !ok {
			continue
		}
		items = append(items, MenuItem{Meta: meta, Status: st})
	}

	// Open on the first level still to be done.
	cursor := 0
	for i, it := range items {
		if it.Status.IsUnlocked && !it.Status.IsCompleted {
			cursor = i
			break
		}
	}

	h := help.New()
	h.Width = cfg.ScreenW
	return MenuModel{
		items:   items,
		summary: store.Summary(ctx),
		cursor:  cursor,
		width:   cfg.ScreenW,
		height:  cfg.ScreenH,
		keys:    DefaultMenuKeyMap(),
		help:    h,
		config:  cfg,
	}
}

// Init implements tea.Model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.help.Width = msg.Width
		return m, nil
	}
	return m, nil
}

func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		m.notice = ""

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
		m.notice = ""

	case key.Matches(msg, m.keys.History):
		m.history = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Select):
		if len(m.items) == 0 {
			return m, nil
		}
		it := m.items[m.cursor]
		if !it.Status.IsUnlocked {
			m.notice = fmt.Sprintf("Complete level %d to unlock %s.", it.Meta.UnlocksAtLevel, it.Meta.Title)
			return m, nil
		}
		m.selected = &it
		return m, tea.Quit
	}
	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(titleStyle.Render(centerText("A L G O R I T H M   Q U E S T", m.width)))
	b.WriteString("\n")
	b.WriteString(subtleStyle.Render(centerText(fmt.Sprintf("Level %d · %d XP · %d to next level",
		m.summary.Level, m.summary.Experience, m.summary.ExperienceToNext), m.width)))
	b.WriteString("\n\n")

	list := panelStyle.Width(listWidth).Render(m.renderList())
	card := ""
	if len(m.items) > 0 {
		cardWidth := max(m.width-listWidth-8, 30)
		card = panelStyle.Width(cardWidth).Render(renderCard(m.items[m.cursor]))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, list, "  ", card))
	b.WriteString("\n")

	if m.notice != "" {
		b.WriteString(hintStyle.Render(m.notice))
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m MenuModel) renderList() string {
	lines := []string{titleStyle.Render("Levels"), ""}
	for i, it := range m.items {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		mark := "🔒"
		switch {
		case it.Status.IsCompleted:
			mark = "✓ "
		case it.Status.IsUnlocked:
			mark = "· "
		}
		line := fmt.Sprintf("%s%s %d. %s", cursor, mark, it.Meta.ID, it.Meta.Title)
		if i == m.cursor {
			line = titleStyle.Render(line)
		} else if !it.Status.IsUnlocked {
			line = subtleStyle.Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// renderCard describes one level.
func renderCard(it MenuItem) string {
	meta := it.Meta
	lines := []string{
		titleStyle.Render(meta.Title),
		subtleStyle.Render(fmt.Sprintf("%s · %s · time %s · space %s",
			meta.Algorithm, meta.Difficulty, meta.TimeComplexity, meta.SpaceComplexity)),
		"",
		meta.Description,
	}
	if meta.Objective != "" {
		lines = append(lines, "", "Objective: "+meta.Objective)
	}
	if len(meta.Controls) > 0 {
		lines = append(lines, "")
		for _, c := range meta.Controls {
			lines = append(lines, fmt.Sprintf("  %-12s %s", c.Label, c.Value))
		}
	}

	lines = append(lines, "")
	switch {
	case it.Status.IsCompleted:
		lines = append(lines, fmt.Sprintf("Best score %d/%d · %d attempt(s)", it.Status.Score, meta.MaxScore, it.Status.Attempts))
	case it.Status.IsUnlocked:
		lines = append(lines, fmt.Sprintf("Max score %d", meta.MaxScore))
	default:
		lines = append(lines, subtleStyle.Render(fmt.Sprintf("Locked until level %d is completed", meta.UnlocksAtLevel)))
	}
	return strings.Join(lines, "\n")
}

// centerText centers text within width.
func centerText(text string, width int) string {
	n := lipgloss.Width(text)
	if n >= width {
		return text
	}
	return strings.Repeat(" ", (width-n)/2) + text
}

// MenuResult is the outcome of the level list.
type MenuResult struct {
	LevelID      int
	Config       core.RuntimeConfig
	WantsHistory bool
	Quit         bool
}

// RunMenu shows the level list until the player picks a level, asks for the
// history board or quits.
func RunMenu(ctx context.Context, store *progress.Store, cfg core.RuntimeConfig) (MenuResult, error) {
	p := tea.NewProgram(NewMenuModel(ctx, store, cfg), tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return MenuResult{Config: cfg}, err
	}

	m, ok := final.(MenuModel)
	if !ok {
		return MenuResult{Config: cfg, Quit: true}, nil
	}
	res := MenuResult{Config: m.config}
	switch {
	case m.history:
		res.WantsHistory = true
	case m.selected != nil:
		res.LevelID = m.selected.Meta.ID
	default:
		res.Quit = true
	}
	return res, nil
}
