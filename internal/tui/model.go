package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"xlink-template-picker/internal/gallery"
)

// Saver is the commit backend; selection.Committer implements it.
type Saver interface {
	Commit(ctx context.Context, sel gallery.Selection) (gallery.Outcome, error)
}

type focusArea int

const (
	focusCategories focusArea = iota
	focusTemplates
	focusBackground
	focusAccent
	focusEffects
	focusCount
)

var focusNames = [focusCount]string{"Categories", "Templates", "Background", "Accent", "Effects"}

type commitDoneMsg struct {
	token   string
	outcome gallery.Outcome
	err     error
}

type navigateMsg struct {
	url string
}

type Options struct {
	Engine *gallery.Engine
	Saver  Saver
	// Context bounds commit calls; defaults to context.Background.
	Context       context.Context
	CommitTimeout time.Duration
}

type Model struct {
	engine  *gallery.Engine
	saver   Saver
	ctx     context.Context
	timeout time.Duration

	focus   focusArea
	cursors [focusCount]int
	width   int

	lastErr  error
	nextURL  string
	quitting bool
}

func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	timeout := opts.CommitTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return Model{
		engine:  opts.Engine,
		saver:   opts.Saver,
		ctx:     ctx,
		timeout: timeout,
		focus:   focusTemplates,
	}
}

// NextURL is the next-step destination once a remote commit has navigated.
func (m Model) NextURL() string {
	return m.nextURL
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case commitDoneMsg:
		m.lastErr = msg.err
		m.engine.FinishCommit(msg.token, msg.outcome)
		if nav := m.engine.View().Navigation; nav != nil {
			url := nav.URL
			return m, tea.Tick(nav.Delay, func(time.Time) tea.Msg { return navigateMsg{url: url} })
		}
		return m, nil
	case navigateMsg:
		m.nextURL = msg.url
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	view := m.engine.View()

	switch msg.String() {
	case "ctrl+c", "q", "esc":
		m.quitting = true
		return m, tea.Quit
	case "tab":
		m.focus = (m.focus + 1) % focusCount
	case "shift+tab":
		m.focus = (m.focus + focusCount - 1) % focusCount
	case "left", "up", "k", "h":
		m.move(view, -1)
	case "right", "down", "j", "l":
		m.move(view, 1)
	case "enter", " ":
		m.apply(view)
	case "r":
		m.engine.Reset()
		m.syncCursors()
	case "c":
		return m, m.commit()
	}
	return m, nil
}

func (m *Model) move(view gallery.View, delta int) {
	n := m.itemCount(view)
	if n == 0 {
		return
	}
	c := (m.cursors[m.focus] + delta) % n
	if c < 0 {
		c += n
	}
	m.cursors[m.focus] = c
}

func (m Model) itemCount(view gallery.View) int {
	switch m.focus {
	case focusCategories:
		return len(view.Categories)
	case focusTemplates:
		return len(view.Cards)
	case focusBackground:
		return len(view.BackgroundChoices)
	case focusAccent:
		return len(view.AccentChoices)
	case focusEffects:
		return len(view.Effects)
	}
	return 0
}

func (m *Model) apply(view gallery.View) {
	idx := m.cursors[m.focus]
	if idx >= m.itemCount(view) {
		return
	}

	switch m.focus {
	case focusCategories:
		m.engine.SelectCategory(view.Categories[idx].Key)
		m.cursors[focusTemplates] = 0
		m.syncCursors()
	case focusTemplates:
		m.engine.SelectTemplate(view.Cards[idx].TemplateID)
		m.syncCursors()
	case focusBackground:
		m.engine.SetBackgroundColor(view.BackgroundChoices[idx])
	case focusAccent:
		m.engine.SetAccentColor(view.AccentChoices[idx])
	case focusEffects:
		row := view.Effects[idx]
		m.engine.ToggleEffect(row.Key, !row.Checked)
	}
}

// syncCursors points the color cursors at the current state after an
// activation reset the colors.
func (m *Model) syncCursors() {
	view := m.engine.View()
	m.cursors[focusBackground] = indexOf(view.BackgroundChoices, view.BackgroundColor.Value)
	m.cursors[focusAccent] = indexOf(view.AccentChoices, view.AccentColor.Value)
}

func (m Model) commit() tea.Cmd {
	sel, token, ok := m.engine.BeginCommit()
	if !ok {
		return nil
	}
	saver, ctx, timeout := m.saver, m.ctx, m.timeout

	return func() tea.Msg {
		if saver == nil {
			return commitDoneMsg{token: token, outcome: gallery.OutcomeFailed}
		}
		cctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		outcome, err := saver.Commit(cctx, sel)
		return commitDoneMsg{token: token, outcome: outcome, err: err}
	}
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#3A86FF"))
	focusStyle    = lipgloss.NewStyle().Bold(true).Underline(true)
	activeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00F6FF")).Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#64748B"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F87171"))
	successStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#4ADE80"))
	offlineStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FACC15"))
	cursorMarker  = "›"
	previewBorder = lipgloss.RoundedBorder()
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	view := m.engine.View()

	var b strings.Builder
	b.WriteString(titleStyle.Render("Xlink · Choose your card template"))
	b.WriteString("\n\n")

	b.WriteString(m.section(focusCategories))
	for i, c := range view.Categories {
		b.WriteString(m.item(focusCategories, i, c.Label, c.Active))
		b.WriteString("  ")
	}
	b.WriteString("\n\n")

	b.WriteString(m.section(focusTemplates))
	b.WriteString("\n")
	if len(view.Cards) == 0 {
		b.WriteString(mutedStyle.Render("  No templates in this category."))
		b.WriteString("\n")
	}
	for i, card := range view.Cards {
		b.WriteString(m.item(focusTemplates, i, card.Name, card.Active))
		b.WriteString(mutedStyle.Render("  " + card.CategoryLabel))
		b.WriteString("\n")
	}
	b.WriteString(dots(view.Dots))
	b.WriteString("\n\n")

	if view.HasActive {
		b.WriteString(previewBox(view, m.width))
		b.WriteString("\n\n")

		b.WriteString(m.section(focusBackground))
		b.WriteString(" " + view.BackgroundColor.Display + "  ")
		b.WriteString(m.swatches(focusBackground, view.BackgroundChoices, view.BackgroundColor.Value))
		b.WriteString("\n")
		b.WriteString(m.section(focusAccent))
		b.WriteString(" " + view.AccentColor.Display + "  ")
		b.WriteString(m.swatches(focusAccent, view.AccentChoices, view.AccentColor.Value))
		b.WriteString("\n\n")

		b.WriteString(m.section(focusEffects))
		b.WriteString("\n")
		for i, row := range view.Effects {
			box := "[ ]"
			if row.Checked {
				box = "[x]"
			}
			label := box + " " + row.Label
			if row.Disabled {
				label = mutedStyle.Render(label + " (not available)")
			}
			b.WriteString(m.item(focusEffects, i, label, false))
			b.WriteString("\n")
		}
	}

	if line := statusLine(view.Status); line != "" {
		b.WriteString("\n" + line + "\n")
	}
	if m.lastErr != nil {
		b.WriteString(mutedStyle.Render(m.lastErr.Error()) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("tab focus · ←/→ move · enter apply · r reset · c confirm · q quit"))
	b.WriteString("\n")
	return b.String()
}

func (m Model) section(f focusArea) string {
	name := focusNames[f] + ":"
	if m.focus == f {
		return focusStyle.Render(name)
	}
	return name
}

func (m Model) item(f focusArea, idx int, label string, active bool) string {
	prefix := "  "
	if m.focus == f && m.cursors[f] == idx {
		prefix = cursorMarker + " "
	}
	if active {
		label = activeStyle.Render(label)
	}
	return prefix + label
}

func (m Model) swatches(f focusArea, choices []string, current string) string {
	var parts []string
	for i, color := range choices {
		chip := lipgloss.NewStyle().Background(lipgloss.Color(color)).Render("    ")
		marker := " "
		if strings.EqualFold(color, current) {
			marker = "•"
		}
		if m.focus == f && m.cursors[f] == i {
			marker = cursorMarker
		}
		parts = append(parts, marker+chip)
	}
	return strings.Join(parts, " ")
}

func previewBox(view gallery.View, width int) string {
	p := view.Preview
	style := lipgloss.NewStyle().
		Border(previewBorder).
		BorderForeground(lipgloss.Color(view.Style.BorderColor)).
		Background(lipgloss.Color(view.BackgroundColor.Value)).
		Padding(1, 2)
	if width > 8 {
		style = style.Width(min(width-4, 72))
	}

	lines := []string{
		mutedStyle.Render(p.ID),
		lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(view.AccentColor.Value)).Render(p.Name),
		fmt.Sprintf("%s · %s", p.Role, p.Style),
		p.Description,
	}
	if classes := view.Style.Classes(); len(classes) > 0 {
		lines = append(lines, mutedStyle.Render(strings.Join(classes, " ")))
	}
	return style.Render(strings.Join(lines, "\n"))
}

func dots(ds []gallery.Dot) string {
	var b strings.Builder
	b.WriteString("  ")
	for _, d := range ds {
		if d.Active {
			b.WriteString(activeStyle.Render("●"))
		} else {
			b.WriteString(mutedStyle.Render("○"))
		}
		b.WriteString(" ")
	}
	return strings.TrimRight(b.String(), " ")
}

func statusLine(s gallery.Status) string {
	switch s.Kind {
	case gallery.StatusSaving:
		return mutedStyle.Render("⏳ " + s.Text)
	case gallery.StatusSuccess:
		return successStyle.Render("✔ " + s.Text)
	case gallery.StatusOffline:
		return offlineStyle.Render("● " + s.Text)
	case gallery.StatusError:
		return errorStyle.Render("✖ " + s.Text)
	}
	return ""
}

func indexOf(values []string, v string) int {
	for i, s := range values {
		if strings.EqualFold(s, v) {
			return i
		}
	}
	return 0
}
