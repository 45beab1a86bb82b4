package core

import (
	"math"

	platformcore "github.com/vovakirdan/tui-crossy/internal/core"
)

// Settings configure an Engine.
type Settings struct {
	Gen             GenParams
	Window          WindowParams
	Difficulty      Model
	StartColumn     int
	HopCooldown     float64 // seconds during which hops are refused and collision is off
	CollisionRadius float64
	CloseCallMargin float64
	MaxDT           float64 // per-tick clamp
}

// DefaultSettings returns the stock 9-column game.
func DefaultSettings() Settings {
	return Settings{
		Gen:    DefaultGenParams(),
		Window: DefaultWindowParams(),
		Difficulty: Model{
			Curve:        DefaultCurve(),
			Enabled:      true,
			Progression:  ProgressRow,
			RampDistance: 150,
		},
		StartColumn:     4,
		HopCooldown:     0.15,
		CollisionRadius: 0.6,
		CloseCallMargin: 0.3,
		MaxDT:           0.05,
	}
}

// Stats are the per-run counters handed to achievements at game over.
type Stats struct {
	SurvivalTime float64
	Jumps        int
	Dodges       int
	DodgedByKind map[VehicleKind]int
	CloseCall    bool
}

func (s Stats) clone() Stats {
	c := s
	c.DodgedByKind = make(map[VehicleKind]int, len(s.DodgedByKind))
	for k, v := range s.DodgedByKind {
		c.DodgedByKind[k] = v
	}
	return c
}

// Snapshot is a read-only copy of everything a renderer needs.
type Snapshot struct {
	State     State
	Player    Player
	Session   Session
	Cols      int
	Lanes     []Lane // nearest row first
	Buildings []Building
	Hopping   bool
}

// Engine is the player/session state machine. It owns the World and is
// not safe for concurrent use; hosts drive it from a single loop.
type Engine struct {
	settings Settings
	seed     int64
	world    *World

	state    State
	player   Player
	session  Session
	stats    Stats
	hopTimer float64
	beatBest bool

	sink EventSink
}

// NewEngine creates an engine in the Idle state with a seeded world.
func NewEngine(s Settings, seed int64) *Engine {
	e := &Engine{
		settings: s,
		seed:     seed,
		world:    NewWorld(s.Window, s.Gen, s.Difficulty, seed),
	}
	e.resetRun()
	e.state = StateIdle
	return e
}

// SetSink installs the event receiver; nil disables events.
func (e *Engine) SetSink(sink EventSink) {
	e.sink = sink
}

// Start moves Idle to Running. It returns false in any other state.
func (e *Engine) Start() bool {
	if e.state != StateIdle {
		return false
	}
	e.state = StateRunning
	return true
}

// Hop applies one discrete move. Rejected hops return false and leave
// player, session and world untouched.
func (e *Engine) Hop(h Hop) bool {
	if e.state != StateRunning || e.hopTimer > 0 {
		return false
	}

	dc, dr := h.Delta()
	col, row := e.player.Column+dc, e.player.Row+dr
	if col < 0 || col >= e.settings.Gen.Cols || row < 0 {
		return false
	}
	target := e.world.lane(row)
	if target == nil || target.HasObstacle(col) {
		return false
	}

	e.player.Column, e.player.Row = col, row
	e.hopTimer = e.settings.HopCooldown
	e.stats.Jumps++

	if row > e.session.Furthest {
		e.session.Furthest = row
		e.session.Score++
		if !e.beatBest && e.session.Best > 0 && e.session.Score > e.session.Best {
			e.beatBest = true
			e.emit(EventWin)
		}
	}
	if dr > 0 {
		e.world.SetScore(e.session.Score)
		e.world.Advance(row)
	}

	e.emit(EventMove)
	return true
}

// Tick advances the simulation by dt seconds (clamped to MaxDT): every
// lane moves first, then collision runs on the updated positions.
func (e *Engine) Tick(dt float64) {
	if e.state != StateRunning {
		return
	}
	dt = platformcore.ClampF(dt, 0, e.settings.MaxDT)
	if dt == 0 {
		return
	}

	e.stats.SurvivalTime += dt
	if e.hopTimer > 0 {
		e.hopTimer = math.Max(0, e.hopTimer-dt)
	}

	var passed []VehicleKind
	cols := e.settings.Gen.Cols
	pc := float64(e.player.Column)
	e.world.eachLane(func(l *Lane) {
		if l.Kind != LaneRoad {
			return
		}
		// Outside a hop a vehicle crossing the player's column is a hit,
		// so only the player's own lane can produce dodges.
		if l.Index != e.player.Row {
			Advance(l, dt, cols)
			return
		}
		before := make([]float64, len(l.Vehicles))
		for i, v := range l.Vehicles {
			before[i] = v.X
		}
		Advance(l, dt, cols)
		maxStep := l.Speed*dt + 1e-9
		for i, v := range l.Vehicles {
			if math.Abs(v.X-before[i]) > maxStep {
				continue // wrapped this tick
			}
			if (before[i] < pc) != (v.X < pc) {
				passed = append(passed, v.Kind)
			}
		}
	})

	if e.hopTimer == 0 && e.colliding() {
		e.die()
		return
	}

	for _, k := range passed {
		e.stats.Dodges++
		e.stats.DodgedByKind[k]++
	}
	if e.hopTimer == 0 && e.nearMiss() {
		e.stats.CloseCall = true
	}
}

func (e *Engine) playerPoint() platformcore.Vec2 {
	return platformcore.Vec2{X: float64(e.player.Column), Y: float64(e.player.Row)}
}

func (e *Engine) colliding() bool {
	l := e.world.lane(e.player.Row)
	if l == nil {
		return false
	}
	p := e.playerPoint()
	r := e.settings.CollisionRadius
	for _, v := range l.Vehicles {
		if Colliding(p, vehiclePoint(l, v), r) {
			return true
		}
	}
	for _, c := range l.Obstacles {
		if Colliding(p, obstaclePoint(l, c), r) {
			return true
		}
	}
	return false
}

func (e *Engine) nearMiss() bool {
	l := e.world.lane(e.player.Row)
	if l == nil {
		return false
	}
	p := e.playerPoint()
	for _, v := range l.Vehicles {
		if CloseCall(p, vehiclePoint(l, v), e.settings.CollisionRadius, e.settings.CloseCallMargin) {
			return true
		}
	}
	return false
}

func (e *Engine) die() {
	e.player.Alive = false
	e.state = StateGameOver
	e.emit(EventHit)
}

// Abort ends the current run, used when the host hits an unexpected
// failure mid-tick. Best and run count are left to RecordRun.
func (e *Engine) Abort() {
	if e.state == StateGameOver {
		return
	}
	e.player.Alive = false
	e.state = StateGameOver
}

// RecordRun applies the persisted best for the run that just ended.
// Call it once per game over, before Reset.
func (e *Engine) RecordRun(best int) {
	e.session.RunCount++
	if best > e.session.Best {
		e.session.Best = best
	}
	if e.session.Score > e.session.Best {
		e.session.Best = e.session.Score
	}
}

// Reset starts a new run on a freshly seeded world. Best and RunCount
// carry over.
func (e *Engine) Reset(seed int64) {
	e.seed = seed
	e.world.Seed(seed)
	e.resetRun()
	e.state = StateRunning
}

func (e *Engine) resetRun() {
	e.player = Player{Column: e.settings.StartColumn, Row: 0, Alive: true}
	e.session.Score = 0
	e.session.Furthest = 0
	e.stats = Stats{DodgedByKind: make(map[VehicleKind]int)}
	e.hopTimer = 0
	e.beatBest = false
}

func (e *Engine) emit(ev Event) {
	if e.sink != nil {
		e.sink.Emit(ev)
	}
}

// State returns the state machine's current state.
func (e *Engine) State() State { return e.state }

// Player returns the player position.
func (e *Engine) Player() Player { return e.player }

// Session returns score and cross-run counters.
func (e *Engine) Session() Session { return e.session }

// Stats returns a copy of the current run's counters.
func (e *Engine) Stats() Stats { return e.stats.clone() }

// Seed returns the seed of the current run.
func (e *Engine) Seed() int64 { return e.seed }

// Settings returns the engine settings.
func (e *Engine) Settings() Settings { return e.settings }

// World exposes the world for read-only queries.
func (e *Engine) World() *World { return e.world }

// Hopping reports whether a hop animation is still in progress.
func (e *Engine) Hopping() bool { return e.hopTimer > 0 }

// Snapshot copies the state for renderers.
func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		State:     e.state,
		Player:    e.player,
		Session:   e.session,
		Cols:      e.settings.Gen.Cols,
		Lanes:     e.world.Lanes(),
		Buildings: e.world.Buildings(),
		Hopping:   e.Hopping(),
	}
}
