package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-skirmish/internal/storage"
)

// SavesKeyMap defines the key bindings for the saves browser.
type SavesKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Delete key.Binding
	Quit   key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k SavesKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Delete, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k SavesKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down}, {k.Select, k.Delete, k.Quit}}
}

// DefaultSavesKeyMap returns default key bindings.
func DefaultSavesKeyMap() SavesKeyMap {
	return SavesKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "load"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "back"),
		),
	}
}

// SavesModel is the Bubble Tea model for browsing save slots.
type SavesModel struct {
	store    *storage.Store
	saves    []storage.SaveEntry
	table    table.Model
	help     help.Model
	keys     SavesKeyMap
	width    int
	height   int
	selected string // Chosen save name, empty if none
	quitting bool
}

// NewSavesModel creates a saves browser backed by the store.
func NewSavesModel(store *storage.Store, width, height int) SavesModel {
	m := SavesModel{
		store:  store,
		keys:   DefaultSavesKeyMap(),
		help:   help.New(),
		width:  width,
		height: height,
	}
	m.table = m.createTable()
	m.reload()
	return m
}

// createTable creates the saves table.
func (m *SavesModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Name", Width: 24},
		{Title: "Turn", Width: 6},
		{Title: "Status", Width: 8},
		{Title: "Updated", Width: 18},
	}

	height := m.height - 6
	if height < 3 {
		height = 3
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(height),
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

// reload refreshes the slot list from the store.
func (m *SavesModel) reload() {
	if m.store == nil {
		m.saves = nil
		m.table.SetRows(nil)
		return
	}

	saves, err := m.store.ListSaves()
	if err != nil {
		saves = nil
	}
	m.saves = saves

	rows := make([]table.Row, len(saves))
	for i, s := range saves {
		rows[i] = table.Row{
			s.Name,
			fmt.Sprintf("%d", s.Turn),
			s.Status,
			s.UpdatedAt.Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Init initializes the saves browser.
func (m SavesModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the saves browser.
func (m SavesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Select):
			if i := m.table.Cursor(); i >= 0 && i < len(m.saves) {
				m.selected = m.saves[i].Name
				return m, tea.Quit
			}
			return m, nil

		case key.Matches(msg, m.keys.Delete):
			if i := m.table.Cursor(); i >= 0 && i < len(m.saves) && m.store != nil {
				//nolint:errcheck // Best-effort delete, list reload shows the truth
				m.store.DeleteSave(m.saves[i].Name)
				m.reload()
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.table = m.createTable()
		m.reload()
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the saves browser.
func (m SavesModel) View() string {
	if m.quitting || m.selected != "" {
		return ""
	}

	if len(m.saves) == 0 {
		empty := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		return titleStyle.Render("SAVED MATCHES") + "\n" +
			empty.Render("No saved matches yet.\nSave a match with C-s while playing.")
	}

	return titleStyle.Render("SAVED MATCHES") + "\n\n" +
		panelStyle.Render(m.table.View()) + "\n" +
		dimStyle.Render(m.help.View(m.keys))
}

// Selected returns the chosen save name, or empty if the user backed out.
func (m SavesModel) Selected() string {
	return m.selected
}

// RunSavesBrowser shows the saves browser and returns the chosen save name,
// or empty if the user backed out.
func RunSavesBrowser(store *storage.Store, width, height int) (string, error) {
	model := NewSavesModel(store, width, height)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return "", err
	}

	m, ok := finalModel.(SavesModel)
	if !ok {
		return "", nil
	}
	return m.Selected(), nil
}
