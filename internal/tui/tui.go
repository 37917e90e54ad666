// Package tui is an interactive layout browser. It needs no X server: the
// preview is computed by the layout engine on a virtual 1920x1080 screen,
// and the keys adjust a scratch tag the same way the daemon's hotkeys do.
package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/1broseidon/tagtile/internal/config"
	"github.com/1broseidon/tagtile/internal/layout"
	"github.com/1broseidon/tagtile/internal/tag"
)

const (
	defaultWindows = 4
	maxWindows     = 9
)

// layoutItem implements list.Item for the layout picker sidebar.
type layoutItem struct {
	name      string
	base      string
	isDefault bool
}

func (i layoutItem) Title() string {
	title := i.name
	if i.base != "" && i.base != i.name {
		title += " ← " + i.base
	}
	if i.isDefault {
		title += " (default)"
	}
	return title
}

func (i layoutItem) Description() string { return "" }
func (i layoutItem) FilterValue() string { return i.name }

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(0, 1)
	sepStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
)

const helpText = "j/k: layout  i/d: master  h/l: fraction  [/]: columns  o: orientation  1-9: windows  r: reset  q: quit"

// model is the root bubbletea model of the browser.
type model struct {
	cfg     *config.Config
	list    list.Model
	scratch *tag.Tag
	current string
	windows int

	statusText string

	width  int
	height int
}

func newModel(res *config.LoadResult) (model, error) {
	cfg := res.Config
	names := cfg.LayoutNames()
	items := make([]list.Item, 0, len(names))
	for _, name := range names {
		items = append(items, layoutItem{
			name:      name,
			base:      res.LayoutBases[name],
			isDefault: name == cfg.DefaultLayout,
		})
	}

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetSpacing(0)

	l := list.New(items, delegate, 0, 0)
	l.Title = "Layouts"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	m := model{cfg: cfg, list: l, windows: defaultWindows}
	for i, name := range names {
		if name == cfg.DefaultLayout {
			m.list.Select(i)
		}
	}
	if err := m.resetScratch(); err != nil {
		return model{}, err
	}
	return m, nil
}

// Run starts the browser on the terminal. It returns when the user quits.
func Run(res *config.LoadResult) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("tui requires an interactive terminal (stdin/stdout must be TTYs)")
	}
	m, err := newModel(res)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func (m model) selectedName() string {
	item, ok := m.list.SelectedItem().(layoutItem)
	if !ok {
		return ""
	}
	return item.name
}

// resetScratch loads the selected preset into a fresh scratch tag.
func (m *model) resetScratch() error {
	name := m.selectedName()
	preset, err := m.cfg.GetLayout(name)
	if err != nil {
		return err
	}
	t, err := tag.New("preview", name, preset.Params())
	if err != nil {
		return err
	}
	m.scratch = t
	m.current = name
	return nil
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(m.sidebarWidth(), max(m.height-2, 1))
		return m, nil

	case tea.KeyMsg:
		if m.handleKey(msg.String()) {
			return m, tea.Quit
		}
		if handled(msg.String()) {
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	if m.selectedName() != m.current {
		if err := m.resetScratch(); err != nil {
			m.statusText = err.Error()
		} else {
			m.statusText = ""
		}
	}
	return m, cmd
}

// handled reports whether key is consumed by the browser rather than the
// list, which binds some of the same letters to paging.
func handled(key string) bool {
	switch key {
	case "i", "d", "h", "l", "[", "]", "o", "r":
		return true
	}
	return len(key) == 1 && key[0] >= '1' && key[0] <= '9'
}

// handleKey applies a browser key and reports whether the user quit.
func (m *model) handleKey(key string) bool {
	switch key {
	case "q", "ctrl+c", "esc":
		return true
	case "i":
		m.statusText = fmt.Sprintf("master: %d", m.scratch.IncMaster(1))
	case "d":
		m.statusText = fmt.Sprintf("master: %d", m.scratch.IncMaster(-1))
	case "l":
		m.statusText = fmt.Sprintf("fraction: %.2f", m.scratch.AdjustFraction(m.cfg.FractionStep))
	case "h":
		m.statusText = fmt.Sprintf("fraction: %.2f", m.scratch.AdjustFraction(-m.cfg.FractionStep))
	case "]":
		m.statusText = fmt.Sprintf("columns: %d", m.scratch.IncColumns(1))
	case "[":
		m.statusText = fmt.Sprintf("columns: %d", m.scratch.IncColumns(-1))
	case "o":
		o := nextOrientation(m.scratch.Snapshot().Params.Orientation)
		if err := m.scratch.SetOrientation(o); err != nil {
			m.statusText = err.Error()
		} else {
			m.statusText = "stack: " + o.String()
		}
	case "r":
		if err := m.resetScratch(); err != nil {
			m.statusText = err.Error()
		} else {
			m.statusText = "reset to " + m.current
		}
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			m.windows = min(int(key[0]-'0'), maxWindows)
			m.statusText = fmt.Sprintf("windows: %d", m.windows)
		}
	}
	return false
}

func nextOrientation(o layout.Orientation) layout.Orientation {
	all := layout.Orientations()
	for i, v := range all {
		if v == o {
			return all[(i+1)%len(all)]
		}
	}
	return all[0]
}

func (m model) sidebarWidth() int {
	return min(max(m.width*35/100, 20), 40)
}

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	sidebar := lipgloss.NewStyle().
		Width(m.sidebarWidth()).
		Height(m.height - 2).
		Render(m.list.View())
	sep := sepStyle.Render(strings.TrimSuffix(strings.Repeat("│\n", max(m.height-2, 1)), "\n"))

	columns := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " ", sep, " ", m.renderPreview())
	status := " " + statusStyle.Render(m.statusText)

	return lipgloss.JoinVertical(lipgloss.Left, columns, status, helpStyle.Render(helpText))
}

func (m model) renderPreview() string {
	snap := m.scratch.Snapshot()
	width := max(m.width-m.sidebarWidth()-4, 12)
	height := max(m.height-6, 5)

	title := titleStyle.Render(fmt.Sprintf("%s  [%d windows]", snap.Layout, m.windows))
	params := summaryStyle.Render(describeParams(snap.Params))

	preview, err := RenderPreview(snap.Params, m.windows, width, height)
	if err != nil {
		preview = statusStyle.Render(err.Error())
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, params, preview)
}
