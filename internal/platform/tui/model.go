package tui

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-crossy/internal/achievements"
	"github.com/vovakirdan/tui-crossy/internal/core"
	"github.com/vovakirdan/tui-crossy/internal/games/crossy"
	"github.com/vovakirdan/tui-crossy/internal/leaderboard"
	"github.com/vovakirdan/tui-crossy/internal/registry"
	"github.com/vovakirdan/tui-crossy/internal/replay"
	"github.com/vovakirdan/tui-crossy/internal/storage"
)

// maxStatusLines caps the notices shown under the game over banner.
const maxStatusLines = 3

// Services are the collaborators a game session reports finished runs
// to. Every field is optional.
type Services struct {
	Store     *storage.Store
	Board     *leaderboard.Client
	Tracker   *achievements.Tracker
	ReplayDir string // empty disables replay recording
	Username  string // leaderboard name; prompted for when empty
	Bell      bool   // ring the terminal bell on a collision
	BellOut   io.Writer
	Logger    *log.Logger
}

func (s Services) logger() *log.Logger {
	if s.Logger == nil {
		return log.New(io.Discard)
	}
	return s.Logger
}

func (s Services) bellOut() io.Writer {
	if s.BellOut == nil {
		return os.Stdout
	}
	return s.BellOut
}

// submittedMsg reports the outcome of a leaderboard submission.
type submittedMsg struct {
	username string
	score    int
	ok       bool
}

// Model is the Bubble Tea model that runs one game.
type Model struct {
	game       registry.Game
	screen     *core.Screen
	services   Services
	config     core.RuntimeConfig
	inputFrame core.InputFrame
	keyMapper  *KeyMapper
	gameState  core.GameState

	prompt     textinput.Model
	prompting  bool
	submitting bool
	submitted  bool
	run        int  // bumped on every restart
	runHandled bool // game over bookkeeping started for the current run
	status     []string

	quitting   bool
	backToMenu bool
}

// NewModel creates a new Bubble Tea model for the given game.
func NewModel(game registry.Game, services Services, cfg core.RuntimeConfig) Model {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	prompt := textinput.New()
	prompt.Prompt = " Name: "
	prompt.Placeholder = "leaderboard name"
	prompt.CharLimit = leaderboard.MaxUsernameLen
	prompt.Width = leaderboard.MaxUsernameLen + 1

	return Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		services:   services,
		config:     cfg,
		inputFrame: core.NewInputFrame(),
		keyMapper:  NewKeyMapper(),
		prompt:     prompt,
	}
}

// Init starts the game and the tick loop.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.config)
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.prompting {
			return m.handlePromptKey(msg)
		}
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil

	case TickMsg:
		return m.handleTick()

	case runRecordedMsg:
		if rr, ok := m.game.(registry.RunRecorder); ok {
			rr.RecordRun(msg.best)
			m.gameState = m.game.State()
		}
		if msg.run == m.run {
			for _, d := range msg.unlocked {
				m.addStatus("Achievement unlocked: " + d.Title)
			}
		}
		return m, nil

	case submittedMsg:
		m.submitting = false
		if msg.ok {
			m.submitted = true
			m.addStatus(fmt.Sprintf("Submitted %d as %s", msg.score, msg.username))
		} else {
			m.addStatus("Submission failed, see log")
		}
		return m, nil
	}

	if m.prompting {
		var cmd tea.Cmd
		m.prompt, cmd = m.prompt.Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}
	if m.gameState.GameOver && msg.String() == "s" {
		return m.startSubmit()
	}

	action, isQuit := m.keyMapper.MapKey(msg)
	if isQuit {
		m.quitting = true
		return m, tea.Quit
	}

	switch action {
	case core.ActionBack:
		if m.gameState.GameOver || m.gameState.Paused {
			m.backToMenu = true
			return m, tea.Quit
		}
		if m.gameState.Started {
			m.inputFrame.Set(core.ActionPause)
		}
		return m, nil
	case core.ActionRestart:
		if !m.gameState.GameOver {
			return m, nil
		}
	case core.ActionConfirm:
		return m, nil
	}

	if action != core.ActionNone {
		m.inputFrame.Set(action)
	}
	return m, nil
}

// handlePromptKey edits the leaderboard name.
func (m Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.quitting = true
		return m, tea.Quit
	case tea.KeyEsc:
		m.prompting = false
		m.prompt.Blur()
		return m, nil
	case tea.KeyEnter:
		name := strings.TrimSpace(m.prompt.Value())
		m.prompting = false
		m.prompt.Blur()
		if name == "" {
			return m, nil
		}
		m.services.Username = name
		if st := m.services.Store; st != nil {
			if err := st.SetUsername(name); err != nil {
				m.services.logger().Warn("Could not save username", "error", err)
			}
		}
		return m.startSubmit()
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

// startSubmit sends the finished run to the leaderboard, asking for a
// name first if none is known.
func (m Model) startSubmit() (tea.Model, tea.Cmd) {
	if m.submitted || m.submitting {
		return m, nil
	}
	if !m.services.Board.Enabled() {
		m.addStatus("No leaderboard configured")
		return m, nil
	}
	if m.services.Username == "" {
		m.prompting = true
		m.prompt.SetValue("")
		return m, m.prompt.Focus()
	}

	m.submitting = true
	m.addStatus("Submitting...")
	return m, submitCmd(m.services.Board, m.services.Username, m.gameState.Score)
}

func submitCmd(board *leaderboard.Client, username string, score int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return submittedMsg{username: username, score: score, ok: board.SubmitScore(ctx, username, score)}
	}
}

func bellCmd(w io.Writer) tea.Cmd {
	return func() tea.Msg {
		_, _ = io.WriteString(w, "\a")
		return nil
	}
}

// handleTick processes simulation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.inputFrame.Has(core.ActionRestart) && m.gameState.GameOver {
		m.config.Seed = time.Now().UnixNano()
		m.game.Reset(m.config)
		m.gameState = m.game.State()
		m.run++
		m.runHandled = false
		m.submitted = false
		m.status = nil
		m.inputFrame.Clear()
		return m, tickCmd(m.config.TickRate)
	}

	result := m.game.Step(m.inputFrame)
	m.gameState = result.State
	m.inputFrame.Clear()

	cmds := []tea.Cmd{tickCmd(m.config.TickRate)}
	if m.services.Bell && hasEvent(result.Events, "hit") {
		cmds = append(cmds, bellCmd(m.services.bellOut()))
	}
	if m.gameState.GameOver && !m.runHandled {
		m.runHandled = true
		cmds = append(cmds, m.finishRun())
	}
	return m, tea.Batch(cmds...)
}

func hasEvent(events []string, name string) bool {
	for _, e := range events {
		if e == name {
			return true
		}
	}
	return false
}

// runRecordedMsg carries the outcome of persisting a finished run.
type runRecordedMsg struct {
	run      int
	best     int
	unlocked []achievements.Definition
}

// finishRun snapshots the finished run and returns the command that
// persists it: score history, achievements and the replay file.
func (m *Model) finishRun() tea.Cmd {
	id := m.game.ID()
	report := core.RunReport{GameID: id, Score: m.gameState.Score}
	if r, ok := m.game.(registry.Reporter); ok {
		report = r.RunReport()
		report.GameID = id
	}

	var rec *replay.Replay
	if g, ok := m.game.(*crossy.Game); ok && m.services.ReplayDir != "" {
		r := replay.FromGame(g)
		rec = &r
	}

	services, run := m.services, m.run
	fallback := max(m.gameState.Best, report.Score)
	return func() tea.Msg {
		msg := persistRun(services, report, fallback, rec)
		msg.run = run
		return msg
	}
}

// persistRun runs off the update loop. Failures are logged and replaced
// by the session's own best.
func persistRun(s Services, report core.RunReport, fallback int, rec *replay.Replay) runRecordedMsg {
	logger := s.logger()
	msg := runRecordedMsg{best: fallback}

	if s.Store != nil {
		best, err := s.Store.RecordRun(report.GameID, report.Score)
		if err != nil {
			logger.Error("Could not record run", "game", report.GameID, "error", err)
		} else {
			msg.best = best
		}
	}

	if s.Tracker != nil {
		unlocked, err := s.Tracker.Record(report)
		if err != nil {
			logger.Error("Could not update achievements", "error", err)
		}
		msg.unlocked = unlocked
	}

	if rec != nil {
		path, err := replay.Save(s.ReplayDir, *rec)
		if err != nil {
			logger.Error("Could not save replay", "error", err)
		} else {
			logger.Debug("Replay saved", "path", path)
		}
	}

	logger.Info("Run finished",
		"game", report.GameID,
		"score", report.Score,
		"best", msg.best,
		"jumps", report.Jumps,
		"dodges", report.Dodges,
	)
	return msg
}

func (m *Model) addStatus(line string) {
	m.status = append(m.status, line)
	if len(m.status) > maxStatusLines {
		m.status = m.status[len(m.status)-maxStatusLines:]
	}
}

// saveScreenshot writes the current frame as plain text.
func (m *Model) saveScreenshot() {
	logger := m.services.logger()
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		logger.Warn("Could not resolve home directory", "error", err)
		return
	}
	dir := filepath.Join(home, ".crossy", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		logger.Warn("Could not create screenshot directory", "error", err)
		return
	}

	name := fmt.Sprintf("%s_%s.txt", m.game.ID(), time.Now().Format("20060102_150405"))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		logger.Warn("Could not save screenshot", "error", err)
		return
	}
	m.addStatus("Screenshot saved")
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	if m.gameState.GameOver {
		y := m.screen.Height() - 1 - len(m.status)
		for _, line := range m.status {
			m.screen.DrawTextCenteredColor(y, line, core.ColorBrightYellow)
			y++
		}
	}

	frame := RenderScreen(m.screen)
	if m.prompting {
		frame = replaceLastLine(frame, m.prompt.View())
	}
	return frame
}

// State returns the last observed game state.
func (m Model) State() core.GameState {
	return m.gameState
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// Run starts a standalone Bubble Tea program for one game.
func Run(game registry.Game, services Services, cfg core.RuntimeConfig) error {
	p := tea.NewProgram(
		NewModel(game, services, cfg),
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
