// Package crossy implements the endless lane-crossing game on top of the
// simulation in crossy/core. It adapts the engine to the registry.Game
// contract: fixed-step ticks, action mapping, rendering and run reports.
package crossy

import (
	"fmt"

	"github.com/vovakirdan/tui-crossy/internal/config"
	platformcore "github.com/vovakirdan/tui-crossy/internal/core"
	"github.com/vovakirdan/tui-crossy/internal/games/crossy/core"
	"github.com/vovakirdan/tui-crossy/internal/registry"
)

// Registered variants.
const (
	IDCrossy  = "crossy"
	IDClassic = "crossy_classic"
)

// InputEvent is one gameplay action observed at a step. Replays feed the
// same actions back at the same frame.
type InputEvent struct {
	Frame  uint64 `json:"frame"`
	Action string `json:"action"`
}

// recordedActions are the inputs that can change the simulation.
var recordedActions = []platformcore.Action{
	platformcore.ActionUp,
	platformcore.ActionDown,
	platformcore.ActionLeft,
	platformcore.ActionRight,
	platformcore.ActionPause,
}

// Game is one variant of the crossing game.
type Game struct {
	id        string
	title     string
	placement string

	cfg    config.CrossyConfig
	cfgSet bool

	engine  *core.Engine
	runtime platformcore.RuntimeConfig
	dt      float64

	paused    bool
	restarted bool // run began running without waiting for a move
	frame     uint64
	inputs    []InputEvent
	events    []string
	fault     error
}

// New creates the default variant (attempt-budget vehicle placement).
func New() *Game {
	return &Game{id: IDCrossy, title: "Crossy", placement: config.PlacementAttempts}
}

// NewClassic creates the variant with sequential fill placement.
func NewClassic() *Game {
	return &Game{id: IDClassic, title: "Crossy Classic", placement: config.PlacementFill}
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	return g.id
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	return g.title
}

// SetConfig injects the game config. Without it, Reset loads the config
// from the standard search path.
func (g *Game) SetConfig(cfg config.CrossyConfig) {
	g.cfg = cfg
	g.cfgSet = true
}

// Config returns the config the game runs with.
func (g *Game) Config() config.CrossyConfig {
	return g.cfg
}

// Reset initializes or restarts the game. The first Reset waits in the
// idle state for a move; later ones start running immediately and keep
// the session's best score and run count.
func (g *Game) Reset(runtime platformcore.RuntimeConfig) {
	if !g.cfgSet {
		cfg, err := config.LoadCrossy("")
		if err != nil {
			cfg = config.DefaultCrossyConfig()
		}
		g.SetConfig(cfg)
	}

	g.runtime = runtime
	rate := runtime.TickRate
	if rate <= 0 {
		rate = 60
	}
	g.dt = 1.0 / float64(rate)
	g.paused = false
	g.frame = 0
	g.inputs = nil
	g.events = nil
	g.fault = nil

	if g.engine == nil {
		g.engine = core.NewEngine(SettingsFromConfig(g.cfg, g.placement), runtime.Seed)
		g.engine.SetSink(g)
		g.restarted = false
		return
	}
	g.engine.Reset(runtime.Seed)
	g.restarted = true
}

// Restarted reports whether the current run started without an idle wait.
func (g *Game) Restarted() bool {
	return g.restarted
}

// Emit collects engine events for the current step.
func (g *Game) Emit(e core.Event) {
	g.events = append(g.events, string(e))
}

// Step advances the game by one fixed tick. A panic inside the
// simulation ends the run instead of the process.
func (g *Game) Step(in platformcore.InputFrame) (res platformcore.StepResult) {
	g.events = g.events[:0]
	defer func() {
		if r := recover(); r != nil {
			g.fault = fmt.Errorf("crossy: step %d: %v", g.frame, r)
			g.engine.Abort()
		}
		res = platformcore.StepResult{State: g.State()}
		if len(g.events) > 0 {
			res.Events = append([]string(nil), g.events...)
		}
	}()

	if g.engine.State() == core.StateGameOver {
		return
	}

	frame := g.frame
	g.frame++
	for _, a := range recordedActions {
		if in.Has(a) {
			g.inputs = append(g.inputs, InputEvent{Frame: frame, Action: a.String()})
		}
	}

	if in.Has(platformcore.ActionPause) {
		g.paused = !g.paused
	}
	if g.paused {
		return
	}

	if hop, ok := hopFor(in); ok {
		if g.engine.State() == core.StateIdle {
			g.engine.Start()
		}
		g.engine.Hop(hop)
	}
	g.engine.Tick(g.dt)
	return
}

// hopFor picks one hop per frame; forward wins over the others.
func hopFor(in platformcore.InputFrame) (core.Hop, bool) {
	switch {
	case in.Has(platformcore.ActionUp):
		return core.HopForward, true
	case in.Has(platformcore.ActionDown):
		return core.HopBackward, true
	case in.Has(platformcore.ActionLeft):
		return core.HopLeft, true
	case in.Has(platformcore.ActionRight):
		return core.HopRight, true
	default:
		return 0, false
	}
}

// State returns the current game state.
func (g *Game) State() platformcore.GameState {
	if g.engine == nil {
		return platformcore.GameState{}
	}
	st := g.engine.State()
	sess := g.engine.Session()
	best := sess.Best
	if sess.Score > best {
		best = sess.Score
	}
	return platformcore.GameState{
		Score:    sess.Score,
		Best:     best,
		GameOver: st == core.StateGameOver,
		Paused:   g.paused,
		Started:  st != core.StateIdle,
	}
}

// RecordRun feeds the persisted best back into the session.
func (g *Game) RecordRun(best int) {
	g.engine.RecordRun(best)
}

// RunReport summarizes the current run for persistence and achievements.
func (g *Game) RunReport() platformcore.RunReport {
	stats := g.engine.Stats()
	byKind := make(map[string]int, len(stats.DodgedByKind))
	for k, n := range stats.DodgedByKind {
		byKind[k.String()] = n
	}
	return platformcore.RunReport{
		GameID:       g.id,
		Score:        g.engine.Session().Score,
		SurvivalTime: stats.SurvivalTime,
		Dodges:       stats.Dodges,
		Jumps:        stats.Jumps,
		DodgedByKind: byKind,
		CloseCall:    stats.CloseCall,
	}
}

// Seed returns the seed of the current run.
func (g *Game) Seed() int64 {
	return g.engine.Seed()
}

// TickRate returns the fixed simulation rate.
func (g *Game) TickRate() int {
	return int(1/g.dt + 0.5)
}

// Inputs returns the gameplay actions recorded this run.
func (g *Game) Inputs() []InputEvent {
	return append([]InputEvent(nil), g.inputs...)
}

// Frames returns the number of steps taken this run.
func (g *Game) Frames() uint64 {
	return g.frame
}

// Fault returns the recovered panic that ended the run, if any.
func (g *Game) Fault() error {
	return g.fault
}

// Snapshot exposes the engine snapshot for alternative renderers.
func (g *Game) Snapshot() core.Snapshot {
	return g.engine.Snapshot()
}

func init() {
	registry.Register(IDCrossy, func() registry.Game {
		return New()
	})
	registry.Register(IDClassic, func() registry.Game {
		return NewClassic()
	})
}
