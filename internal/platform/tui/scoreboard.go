package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-crossy/internal/leaderboard"
	"github.com/vovakirdan/tui-crossy/internal/registry"
	"github.com/vovakirdan/tui-crossy/internal/storage"
)

// Scoreboard layout constants
const (
	minWidthForSidebar = 80
	sidebarWidth       = 20
	maxScores          = 100
)

// globalTab is the scoreboard tab backed by the leaderboard server.
const globalTab = "global"

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	NextTab key.Binding
	PrevTab key.Binding
	Refresh key.Binding
	Back    key.Binding
	Quit    key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextTab, k.PrevTab, k.Refresh, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextTab, k.PrevTab},
		{k.Refresh, k.Back, k.Quit},
	}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next board"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev board"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
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

// scoreTab is one board: a local variant or the global leaderboard.
type scoreTab struct {
	ID    string
	Title string
}

// globalLoadedMsg carries a leaderboard fetch result.
type globalLoadedMsg struct {
	entries []leaderboard.Entry
}

// ScoreboardModel shows local scores per variant and, when a leaderboard
// server is configured, the global board.
type ScoreboardModel struct {
	tabs        []scoreTab
	cursor      int
	store       *storage.Store
	board       *leaderboard.Client
	rows        []table.Row
	loading     bool
	table       table.Model
	help        help.Model
	keys        ScoreboardKeyMap
	width       int
	height      int
	quitting    bool
	goingBack   bool
	showSidebar bool
}

// NewScoreboardModel creates a new scoreboard model.
func NewScoreboardModel(store *storage.Store, board *leaderboard.Client, width, height int) ScoreboardModel {
	var tabs []scoreTab
	for _, g := range registry.List() {
		tabs = append(tabs, scoreTab{ID: g.ID, Title: g.Title})
	}
	if board.Enabled() {
		tabs = append(tabs, scoreTab{ID: globalTab, Title: "Global"})
	}

	h := help.New()
	h.ShowAll = false

	m := ScoreboardModel{
		tabs:        tabs,
		store:       store,
		board:       board,
		keys:        DefaultScoreboardKeyMap(),
		help:        h,
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar,
	}
	m.table = m.createTable()
	if len(m.tabs) > 0 && m.tabs[0].ID != globalTab {
		m.loadLocal(m.tabs[0].ID)
	}
	return m
}

func (m ScoreboardModel) current() scoreTab {
	if len(m.tabs) == 0 {
		return scoreTab{}
	}
	return m.tabs[m.cursor]
}

// createTable builds the table for the current tab; the global board
// has an extra player column.
func (m *ScoreboardModel) createTable() table.Model {
	tableWidth := m.width - 4
	if m.showSidebar {
		tableWidth -= sidebarWidth + 3
	}

	dateW := 18
	var columns []table.Column
	if m.current().ID == globalTab {
		columns = []table.Column{
			{Title: "Rank", Width: 6},
			{Title: "Player", Width: leaderboard.MaxUsernameLen},
			{Title: "Score", Width: 8},
			{Title: "Date", Width: dateW},
		}
	} else {
		if tableWidth > 40 {
			dateW = min(tableWidth-22, 20)
		}
		columns = []table.Column{
			{Title: "Rank", Width: 6},
			{Title: "Score", Width: 12},
			{Title: "Date", Width: dateW},
		}
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
		Background(lipgloss.Color("22")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// loadLocal fills the table from the local database.
func (m *ScoreboardModel) loadLocal(gameID string) {
	m.rows = nil
	if m.store != nil {
		scores, err := m.store.TopScores(gameID, maxScores)
		if err == nil {
			for i, s := range scores {
				m.rows = append(m.rows, table.Row{
					fmt.Sprintf("#%d", i+1),
					fmt.Sprintf("%d", s.Score),
					s.CreatedAt.Local().Format("Jan 02 15:04"),
				})
			}
		}
	}
	m.table.SetRows(m.rows)
	m.table.GotoTop()
}

func fetchGlobalCmd(board *leaderboard.Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return globalLoadedMsg{entries: board.FetchTopScores(ctx, maxScores)}
	}
}

func globalRows(entries []leaderboard.Entry) []table.Row {
	rows := make([]table.Row, len(entries))
	for i, e := range entries {
		rows[i] = table.Row{
			fmt.Sprintf("#%d", i+1),
			e.Username,
			fmt.Sprintf("%d", e.Score),
			e.CreatedAt.Local().Format("Jan 02 15:04"),
		}
	}
	return rows
}

// selectTab switches boards and returns the fetch command if needed.
func (m *ScoreboardModel) selectTab(i int) tea.Cmd {
	m.cursor = i
	m.table = m.createTable()
	if m.current().ID == globalTab {
		m.rows = nil
		m.table.SetRows(nil)
		m.loading = true
		return fetchGlobalCmd(m.board)
	}
	m.loading = false
	m.loadLocal(m.current().ID)
	return nil
}

// Init starts loading the first board if it is the global one.
func (m ScoreboardModel) Init() tea.Cmd {
	if m.current().ID == globalTab {
		return fetchGlobalCmd(m.board)
	}
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextTab):
			if len(m.tabs) > 0 {
				cmd = m.selectTab((m.cursor + 1) % len(m.tabs))
			}
			return m, cmd

		case key.Matches(msg, m.keys.PrevTab):
			if len(m.tabs) > 0 {
				cmd = m.selectTab((m.cursor + len(m.tabs) - 1) % len(m.tabs))
			}
			return m, cmd

		case key.Matches(msg, m.keys.Refresh):
			return m, m.selectTab(m.cursor)
		}

	case globalLoadedMsg:
		if m.current().ID != globalTab {
			return m, nil
		}
		m.loading = false
		m.rows = globalRows(msg.entries)
		m.table.SetRows(m.rows)
		m.table.GotoTop()
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.table = m.createTable()
		m.table.SetRows(m.rows)
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		MarginBottom(1)

	title := "HIGH SCORES"
	if len(m.tabs) > 0 {
		title = fmt.Sprintf("HIGH SCORES - %s", m.current().Title)
	}
	b.WriteString(titleStyle.Render(centerText(title, m.width)))
	b.WriteString("\n\n")

	if m.showSidebar {
		b.WriteString(m.renderWideLayout())
	} else {
		b.WriteString(m.renderNarrowLayout())
	}

	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

var boxStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("240")).
	Padding(0, 1)

// renderWideLayout puts the board list in a sidebar next to the table.
func (m ScoreboardModel) renderWideLayout() string {
	var sidebar strings.Builder
	sidebar.WriteString("Boards\n")
	sidebar.WriteString(strings.Repeat("-", sidebarWidth-4))
	sidebar.WriteString("\n")

	for i, tab := range m.tabs {
		cursor := "  "
		style := lipgloss.NewStyle()
		if i == m.cursor {
			cursor = "> "
			style = style.Bold(true).Foreground(lipgloss.Color("229"))
		}
		name := []rune(tab.Title)
		if maxLen := sidebarWidth - 6; len(name) > maxLen {
			name = append(name[:maxLen-1], '.')
		}
		sidebar.WriteString(style.Render(cursor + string(name)))
		sidebar.WriteString("\n")
	}

	side := boxStyle.Width(sidebarWidth).Render(sidebar.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, side, "  ", boxStyle.Render(m.renderTableContent()))
}

// renderNarrowLayout renders board tabs above the table.
func (m ScoreboardModel) renderNarrowLayout() string {
	var b strings.Builder

	tabStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	activeTabStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("22")).
		Padding(0, 1)

	tabs := make([]string, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.cursor {
			tabs[i] = activeTabStyle.Render(tab.Title)
		} else {
			tabs[i] = tabStyle.Render(" " + tab.Title + " ")
		}
	}

	tabLine := strings.Join(tabs, " ")
	if lipgloss.Width(tabLine) > m.width-4 && len(m.tabs) > 0 {
		tabLine = fmt.Sprintf("< %s >", m.current().Title)
	}
	b.WriteString(centerText(tabLine, m.width))
	b.WriteString("\n\n")
	b.WriteString(boxStyle.Render(m.renderTableContent()))

	return b.String()
}

// renderTableContent renders the table or a placeholder.
func (m ScoreboardModel) renderTableContent() string {
	if len(m.rows) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		switch {
		case m.loading:
			return emptyStyle.Render("Loading leaderboard...")
		case m.current().ID == globalTab:
			return emptyStyle.Render("No global scores yet,\nor the leaderboard is unreachable.")
		default:
			return emptyStyle.Render("No scores recorded yet.\nCross a road to set a high score!")
		}
	}
	return m.table.View()
}

// IsGoingBack returns true if user wants to go back to menu.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

// RunScoreboard runs the scoreboard screen.
// Returns true if user wants to go back to menu, false if quitting.
func RunScoreboard(store *storage.Store, board *leaderboard.Client, width, height int) (goBack bool, err error) {
	p := tea.NewProgram(
		NewScoreboardModel(store, board, width, height),
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m, ok := finalModel.(ScoreboardModel)
	if !ok {
		return false, nil
	}
	return m.IsGoingBack(), nil
}
