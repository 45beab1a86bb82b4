package tui

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-crossy/internal/achievements"
	"github.com/vovakirdan/tui-crossy/internal/config"
	"github.com/vovakirdan/tui-crossy/internal/core"
	"github.com/vovakirdan/tui-crossy/internal/games/crossy"
	"github.com/vovakirdan/tui-crossy/internal/leaderboard"
	"github.com/vovakirdan/tui-crossy/internal/storage"
)

// stubGame ends after a fixed number of steps; every Up scores a point.
type stubGame struct {
	overAt   int
	steps    int
	score    int
	resets   int
	recorded []int
}

func (g *stubGame) ID() string    { return "stub" }
func (g *stubGame) Title() string { return "Stub" }

func (g *stubGame) Reset(core.RuntimeConfig) {
	g.resets++
	g.steps, g.score = 0, 0
}

func (g *stubGame) Step(in core.InputFrame) core.StepResult {
	if g.steps >= g.overAt {
		return core.StepResult{State: g.State()}
	}
	g.steps++
	if in.Has(core.ActionUp) {
		g.score++
	}
	res := core.StepResult{State: g.State()}
	if g.steps == g.overAt {
		res.Events = []string{"hit"}
	}
	return res
}

func (g *stubGame) Render(dst *core.Screen) {
	dst.Clear()
	dst.DrawText(0, 0, "stub")
}

func (g *stubGame) State() core.GameState {
	return core.GameState{Score: g.score, GameOver: g.steps >= g.overAt, Started: g.steps > 0}
}

func (g *stubGame) RunReport() core.RunReport {
	return core.RunReport{GameID: g.ID(), Score: g.score, Jumps: g.score}
}

func (g *stubGame) RecordRun(best int) {
	g.recorded = append(g.recorded, best)
}

func testStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func newTestModel(game *stubGame, services Services) Model {
	m := NewModel(game, services, core.RuntimeConfig{ScreenW: 60, ScreenH: 16, TickRate: 60, Seed: 1})
	m.Init()
	return m
}

func send(t *testing.T, m Model, msgs ...tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		var ok bool
		if m, ok = next.(Model); !ok {
			t.Fatalf("Update returned %T", next)
		}
	}
	return m, cmd
}

// drain runs cmd and feeds every resulting message except ticks back
// into the model, the way the Bubble Tea runtime would.
func drain(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		return m
	}
	switch msg := cmd().(type) {
	case nil, TickMsg:
	case tea.BatchMsg:
		for _, c := range msg {
			m = drain(t, m, c)
		}
	default:
		var next tea.Cmd
		m, next = send(t, m, msg)
		m = drain(t, m, next)
	}
	return m
}

func tick(t *testing.T, m Model) Model {
	t.Helper()
	m, cmd := send(t, m, TickMsg{})
	return drain(t, m, cmd)
}

// playToGameOver hops once and ticks until the stub ends.
func playToGameOver(t *testing.T, m Model, game *stubGame) Model {
	t.Helper()
	m, _ = send(t, m, runeKey('w'))
	for i := 0; i < game.overAt; i++ {
		m = tick(t, m)
	}
	if !m.State().GameOver {
		t.Fatal("expected game over")
	}
	return m
}

func TestModelRecordsFinishedRunOnce(t *testing.T) {
	store := testStore(t)
	game := &stubGame{overAt: 3}
	m := newTestModel(game, Services{Store: store, Tracker: achievements.NewTracker(store)})

	m = playToGameOver(t, m, game)
	for i := 0; i < 5; i++ {
		m = tick(t, m)
	}

	scores, err := store.TopScores("stub", 10)
	if err != nil {
		t.Fatalf("TopScores: %v", err)
	}
	if len(scores) != 1 || scores[0].Score != 1 {
		t.Errorf("scores = %+v, expected a single score of 1", scores)
	}
	if len(game.recorded) != 1 || game.recorded[0] != 1 {
		t.Errorf("RecordRun calls = %v, expected [1]", game.recorded)
	}

	if !strings.Contains(strings.Join(m.status, "\n"), "Achievement unlocked: First Steps") {
		t.Errorf("status = %q, expected the first steps unlock", m.status)
	}
	if !strings.Contains(m.View(), "Achievement unlocked") {
		t.Error("unlock notice should be rendered")
	}
}

func TestModelRestart(t *testing.T) {
	game := &stubGame{overAt: 2}
	m := newTestModel(game, Services{})
	m = playToGameOver(t, m, game)

	// R is ignored until the run is over, then applied on the next tick.
	m, _ = send(t, m, runeKey('r'), TickMsg{})
	if game.resets != 2 {
		t.Fatalf("resets = %d, expected 2", game.resets)
	}
	if m.State().GameOver || m.runHandled || len(m.status) != 0 {
		t.Errorf("restart left stale state: %+v handled=%v status=%q", m.State(), m.runHandled, m.status)
	}
}

func TestModelRestartIgnoredWhileRunning(t *testing.T) {
	game := &stubGame{overAt: 100}
	m := newTestModel(game, Services{})
	m, _ = send(t, m, runeKey('r'), TickMsg{})
	if game.resets != 1 {
		t.Errorf("resets = %d, restart should need a game over", game.resets)
	}
}

func TestModelSubmitWithoutBoard(t *testing.T) {
	game := &stubGame{overAt: 1}
	m := playToGameOver(t, newTestModel(game, Services{}), game)

	m, cmd := send(t, m, runeKey('s'))
	if cmd != nil || m.prompting {
		t.Error("submit without a board should do nothing but report")
	}
	if len(m.status) != 1 || m.status[0] != "No leaderboard configured" {
		t.Errorf("status = %q", m.status)
	}
}

func TestModelSubmitPromptsForName(t *testing.T) {
	store := testStore(t)
	game := &stubGame{overAt: 1}
	services := Services{Store: store, Board: leaderboard.NewClient("http://127.0.0.1:1", nil)}
	m := playToGameOver(t, newTestModel(game, services), game)

	m, _ = send(t, m, runeKey('s'))
	if !m.prompting {
		t.Fatal("expected a name prompt")
	}
	// Keys go to the prompt, not the game.
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("frog")})
	if m.IsQuitting() || m.prompt.Value() != "frog" {
		t.Fatalf("prompt value = %q", m.prompt.Value())
	}

	m, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.prompting || !m.submitting || cmd == nil {
		t.Errorf("enter should start a submission: prompting=%v submitting=%v", m.prompting, m.submitting)
	}
	if name, err := store.Username(); err != nil || name != "frog" {
		t.Errorf("stored username = %q, %v", name, err)
	}

	m, _ = send(t, m, submittedMsg{username: "frog", score: 1, ok: true})
	if !m.submitted {
		t.Error("expected the run to be marked submitted")
	}
	if _, cmd := send(t, m, runeKey('s')); cmd != nil {
		t.Error("a run is submitted only once")
	}
}

func TestModelPromptEscCancels(t *testing.T) {
	game := &stubGame{overAt: 1}
	services := Services{Board: leaderboard.NewClient("http://127.0.0.1:1", nil)}
	m := playToGameOver(t, newTestModel(game, services), game)

	m, _ = send(t, m, runeKey('s'), runeKey('x'), tea.KeyMsg{Type: tea.KeyEsc})
	if m.prompting || m.submitting || m.BackToMenu() {
		t.Errorf("esc should only close the prompt: prompting=%v submitting=%v back=%v",
			m.prompting, m.submitting, m.BackToMenu())
	}
}

func TestModelBellOnHit(t *testing.T) {
	var out bytes.Buffer
	game := &stubGame{overAt: 1}
	m := newTestModel(game, Services{Bell: true, BellOut: &out})

	_, cmd := send(t, m, TickMsg{})
	batch, ok := cmd().(tea.BatchMsg)
	if !ok {
		t.Fatalf("expected a batch with the bell, got %T", cmd())
	}
	for _, c := range batch {
		if c != nil {
			c()
		}
	}
	if out.String() != "\a" {
		t.Errorf("bell output = %q", out.String())
	}
}

func TestModelBackToMenu(t *testing.T) {
	game := &stubGame{overAt: 100}
	m := newTestModel(game, Services{})

	// Esc on a running game pauses instead of leaving.
	m, _ = send(t, m, runeKey('w'), TickMsg{}, tea.KeyMsg{Type: tea.KeyEsc})
	if m.BackToMenu() {
		t.Fatal("esc while running should not leave")
	}
	if !m.inputFrame.Has(core.ActionPause) {
		t.Error("esc while running should queue a pause")
	}

	game.overAt = 1
	m, _ = send(t, m, TickMsg{}, tea.KeyMsg{Type: tea.KeyEsc})
	if !m.BackToMenu() {
		t.Error("esc after game over should go back to the menu")
	}
}

func TestModelRunsCrossy(t *testing.T) {
	game := crossy.New()
	game.SetConfig(config.DefaultCrossyConfig())

	replays := t.TempDir()
	m := NewModel(game, Services{ReplayDir: replays}, core.RuntimeConfig{ScreenW: 60, ScreenH: 20, TickRate: 60, Seed: 9})
	m.Init()

	m, _ = send(t, m, runeKey('w'), TickMsg{})
	if !m.State().Started {
		t.Fatal("a hop should start the run")
	}
	if !strings.Contains(m.View(), "Score: 1") {
		t.Error("HUD should show the score after one hop")
	}
}

func TestRenderScreen(t *testing.T) {
	s := core.NewScreen(3, 2)
	s.DrawText(0, 0, "abc")
	s.SetWithColor(1, 1, 'x', core.ColorRed)

	got := RenderScreen(s)
	lines := strings.Split(got, "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "abc") || !strings.Contains(lines[1], "x") {
		t.Errorf("RenderScreen = %q", got)
	}
}

func TestReplaceLastLine(t *testing.T) {
	tests := []struct {
		frame, line, expected string
	}{
		{"a\nb\nc", "z", "a\nb\nz"},
		{"single", "z", "z"},
	}
	for _, tc := range tests {
		if got := replaceLastLine(tc.frame, tc.line); got != tc.expected {
			t.Errorf("replaceLastLine(%q) = %q, expected %q", tc.frame, got, tc.expected)
		}
	}
}

func TestModelIgnoresStaleRunResult(t *testing.T) {
	game := &stubGame{overAt: 1}
	m := playToGameOver(t, newTestModel(game, Services{}), game)
	m, _ = send(t, m, runeKey('r'), TickMsg{})

	unlocked := []achievements.Definition{{ID: "first_steps", Title: "First Steps"}}
	m, _ = send(t, m, runRecordedMsg{run: m.run - 1, best: 7, unlocked: unlocked})
	if len(m.status) != 0 {
		t.Errorf("status = %q, a result from the previous run should not be shown", m.status)
	}
}
