package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-duel/internal/storage"
)

// History layout constants
const (
	minWidthForDetail = 100 // Minimum width to show the player panel
	detailWidth       = 28
	maxMatches        = 100 // Max matches to load
)

// HistoryKeyMap defines the key bindings for the match history.
type HistoryKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Switch key.Binding
	Quit   key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k HistoryKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Switch, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k HistoryKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down}, {k.Switch, k.Quit}}
}

// DefaultHistoryKeyMap returns default key bindings.
func DefaultHistoryKeyMap() HistoryKeyMap {
	return HistoryKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Switch: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "other player"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// HistoryModel lists recent duels and the record of the selected players.
type HistoryModel struct {
	store      *storage.Store
	matches    []storage.MatchRecord
	records    map[string]*storage.PlayerRecord
	second     bool // Show player 2 of the selected match
	table      table.Model
	help       help.Model
	keys       HistoryKeyMap
	width      int
	height     int
	showDetail bool
	err        error
	quitting   bool
}

// NewHistoryModel creates a history model. store may be nil.
func NewHistoryModel(store *storage.Store, width, height int) HistoryModel {
	h := help.New()
	h.ShowAll = false

	m := HistoryModel{
		store:      store,
		records:    make(map[string]*storage.PlayerRecord),
		keys:       DefaultHistoryKeyMap(),
		help:       h,
		width:      width,
		height:     height,
		showDetail: width >= minWidthForDetail,
	}
	m.table = m.createTable()
	m.load()
	return m
}

func (m *HistoryModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "When", Width: 13},
		{Title: "Player 1", Width: 12},
		{Title: "Score", Width: 7},
		{Title: "Player 2", Width: 12},
		{Title: "Winner", Width: 12},
		{Title: "End", Width: 10},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-8, 3)),
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

func (m *HistoryModel) load() {
	if m.store == nil {
		m.matches = nil
		m.updateTableRows()
		return
	}

	matches, err := m.store.RecentMatches(maxMatches)
	if err != nil {
		m.err = err
		m.matches = nil
	} else {
		m.matches = matches
	}
	m.updateTableRows()
}

func (m *HistoryModel) updateTableRows() {
	rows := make([]table.Row, len(m.matches))
	for i, r := range m.matches {
		rows[i] = table.Row{
			r.CreatedAt.Format("Jan 02 15:04"),
			r.Player1Name,
			fmt.Sprintf("%d : %d", r.Score1, r.Score2),
			r.Player2Name,
			r.Winner(),
			r.EndReason,
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// selectedPlayer returns the name shown in the player panel.
func (m HistoryModel) selectedPlayer() string {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.matches) {
		return ""
	}
	if m.second {
		return m.matches[i].Player2Name
	}
	return m.matches[i].Player1Name
}

// record loads and caches a player's aggregate.
func (m HistoryModel) record(name string) *storage.PlayerRecord {
	if rec, ok := m.records[name]; ok {
		return rec
	}
	if m.store == nil {
		return nil
	}
	rec, err := m.store.PlayerRecord(name)
	if err != nil {
		return nil
	}
	m.records[name] = rec
	return rec
}

// Init initializes the history model.
func (m HistoryModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the history.
func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Switch):
			m.second = !m.second
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showDetail = m.width >= minWidthForDetail
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the history.
func (m HistoryModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		MarginBottom(1)
	b.WriteString(titleStyle.Render(centerText("RECENT DUELS", m.width)))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	tableRendered := tableStyle.Render(m.renderTableContent())

	if m.showDetail && len(m.matches) > 0 {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tableRendered, "  ", m.renderDetail()))
	} else {
		b.WriteString(tableRendered)
	}

	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

func (m HistoryModel) renderTableContent() string {
	emptyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true).
		Padding(2, 4)

	switch {
	case m.store == nil:
		return emptyStyle.Render("No match database configured.")
	case m.err != nil:
		return emptyStyle.Render("Could not load matches: " + m.err.Error())
	case len(m.matches) == 0:
		return emptyStyle.Render("No duels recorded yet.\nWin one to make history!")
	}
	return m.table.View()
}

func (m HistoryModel) renderDetail() string {
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(detailWidth).
		Padding(0, 1)

	name := m.selectedPlayer()
	rec := m.record(name)
	if rec == nil {
		return style.Render(name + "\n\nno record")
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Render(name))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("-", detailWidth-4))
	fmt.Fprintf(&b, "\nMatches   %d", rec.Matches)
	fmt.Fprintf(&b, "\nWins      %d", rec.Wins)
	fmt.Fprintf(&b, "\nLosses    %d", rec.Losses)
	fmt.Fprintf(&b, "\nAbandoned %d", rec.Abandoned)
	fmt.Fprintf(&b, "\nHeadshots %d", rec.Headshots)
	if !rec.LastPlayed.IsZero() {
		fmt.Fprintf(&b, "\nLast      %s", rec.LastPlayed.Format("Jan 02 15:04"))
	}
	return style.Render(b.String())
}

// RunHistory runs the history screen in the current terminal.
func RunHistory(store *storage.Store, width, height int) error {
	p := tea.NewProgram(NewHistoryModel(store, width, height), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func centerText(text string, width int) string {
	if len(text) >= width {
		return text
	}
	padding := (width - len(text)) / 2
	return strings.Repeat(" ", padding) + text
}
