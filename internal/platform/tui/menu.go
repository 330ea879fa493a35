package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-danmaku/internal/registry"
)

// Selection is what the setup menu picked.
type Selection struct {
	Mode       string
	Difficulty string
	Shot       string
	Stage      string // Empty means the mode's default stage list
}

// MenuKeyMap defines the key bindings of the setup menu.
type MenuKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Left   key.Binding
	Right  key.Binding
	Select key.Binding
	Scores key.Binding
	Quit   key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k MenuKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Left, k.Right, k.Select, k.Scores, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k MenuKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down, k.Left, k.Right}, {k.Select, k.Scores, k.Quit}}
}

// DefaultMenuKeyMap returns default key bindings.
func DefaultMenuKeyMap() MenuKeyMap {
	return MenuKeyMap{
		Up:     key.NewBinding(key.WithKeys("up", "w", "k"), key.WithHelp("↑", "prev row")),
		Down:   key.NewBinding(key.WithKeys("down", "s", "j"), key.WithHelp("↓", "next row")),
		Left:   key.NewBinding(key.WithKeys("left", "a", "h"), key.WithHelp("←", "prev option")),
		Right:  key.NewBinding(key.WithKeys("right", "d", "l"), key.WithHelp("→", "next option")),
		Select: key.NewBinding(key.WithKeys("enter", "z", " "), key.WithHelp("enter", "start")),
		Scores: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "scores")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
	}
}

const (
	rowMode = iota
	rowDifficulty
	rowShot
	rowStage
	rowCount
)

var rowLabels = [rowCount]string{"Mode", "Difficulty", "Shot", "Stage"}

// MenuModel is the Bubble Tea model for the setup menu.
type MenuModel struct {
	modes  []registry.Mode
	row    int
	choice [rowCount]int
	keys   MenuKeyMap
	help   help.Model
	width  int
	height int

	quitting       bool
	selected       *Selection
	openScoreboard bool
}

// NewMenuModel creates a setup menu over the registered modes.
func NewMenuModel(width, height int) MenuModel {
	return MenuModel{
		modes:  registry.List(),
		keys:   DefaultMenuKeyMap(),
		help:   help.New(),
		width:  width,
		height: height,
	}
}

// options lists the choices of a row for the current mode. The stage row
// starts with the empty default.
func (m MenuModel) options(row int) []string {
	if len(m.modes) == 0 {
		return nil
	}
	mode := m.modes[m.choice[rowMode]]
	switch row {
	case rowMode:
		ids := make([]string, len(m.modes))
		for i, md := range m.modes {
			ids[i] = md.ID
		}
		return ids
	case rowDifficulty:
		return mode.Difficulties
	case rowShot:
		return mode.Shots
	default:
		return append([]string{""}, mode.Stages...)
	}
}

func (m MenuModel) value(row int) string {
	opts := m.options(row)
	if len(opts) == 0 {
		return ""
	}
	return opts[min(m.choice[row], len(opts)-1)]
}

// Init initializes the menu model.
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
		m.help.Width = msg.Width
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		m.row = (m.row + rowCount - 1) % rowCount

	case key.Matches(msg, m.keys.Down):
		m.row = (m.row + 1) % rowCount

	case key.Matches(msg, m.keys.Left), key.Matches(msg, m.keys.Right):
		n := len(m.options(m.row))
		if n == 0 {
			break
		}
		step := 1
		if key.Matches(msg, m.keys.Left) {
			step = n - 1
		}
		m.choice[m.row] = (m.choice[m.row] + step) % n
		if m.row == rowMode {
			// Other rows index into the new mode's lists.
			for r := rowDifficulty; r < rowCount; r++ {
				m.choice[r] = 0
			}
		}

	case key.Matches(msg, m.keys.Select):
		if len(m.modes) > 0 {
			m.selected = &Selection{
				Mode:       m.value(rowMode),
				Difficulty: m.value(rowDifficulty),
				Shot:       m.value(rowShot),
				Stage:      m.value(rowStage),
			}
			return m, tea.Quit
		}

	case key.Matches(msg, m.keys.Scores):
		m.openScoreboard = true
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
	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Render("D A N M A K U")
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, title))
	b.WriteString("\n\n")

	for r := range rowCount {
		cursor := "  "
		style := lipgloss.NewStyle()
		if r == m.row {
			cursor = "> "
			style = style.Bold(true).Foreground(lipgloss.Color("229"))
		}
		v := m.value(r)
		if r == rowStage && v == "" {
			v = "all"
		}
		line := style.Render(fmt.Sprintf("%s%-10s < %s >", cursor, rowLabels[r], v))
		b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, line))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, labelStyle.Render(m.help.View(m.keys))))
	b.WriteString("\n")
	return b.String()
}

// Selected returns the selection, or nil if none was made.
func (m MenuModel) Selected() *Selection {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsScoreboard returns true if user requested the scoreboard.
func (m MenuModel) WantsScoreboard() bool {
	return m.openScoreboard
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	Selection       Selection
	WantsScoreboard bool
	Quit            bool
}

// RunMenu runs the setup menu and returns the selection result.
func RunMenu(width, height int) (MenuResult, error) {
	p := tea.NewProgram(NewMenuModel(width, height), tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{}, err
	}

	m, ok := finalModel.(MenuModel)
	if !ok {
		return MenuResult{Quit: true}, nil
	}

	switch {
	case m.WantsScoreboard():
		return MenuResult{WantsScoreboard: true}, nil
	case m.Selected() != nil:
		return MenuResult{Selection: *m.Selected()}, nil
	default:
		return MenuResult{Quit: true}, nil
	}
}
