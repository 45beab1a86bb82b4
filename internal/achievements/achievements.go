// Package achievements evaluates finished runs against the achievement
// catalog and keeps lifetime statistics through a pluggable store.
package achievements

import (
	"fmt"
	"time"

	"github.com/vovakirdan/tui-crossy/internal/core"
)

// Definition describes one achievement and its unlock condition.
type Definition struct {
	ID          string
	Title       string
	Description string

	// unlocked reports whether the run (already folded into life) earns it.
	unlocked func(run core.RunReport, life Lifetime) bool
}

// Lifetime aggregates statistics across every recorded run.
type Lifetime struct {
	TotalDodges     int
	TotalJumps      int
	MaxScore        int
	MaxSurvivalTime float64
	GamesPlayed     int
	TotalDeaths     int
	DodgedByKind    map[string]int
}

// Add folds a finished run into the lifetime totals.
func (l *Lifetime) Add(run core.RunReport) {
	l.TotalDodges += run.Dodges
	l.TotalJumps += run.Jumps
	if run.Score > l.MaxScore {
		l.MaxScore = run.Score
	}
	if run.SurvivalTime > l.MaxSurvivalTime {
		l.MaxSurvivalTime = run.SurvivalTime
	}
	l.GamesPlayed++
	l.TotalDeaths++
	if len(run.DodgedByKind) > 0 && l.DodgedByKind == nil {
		l.DodgedByKind = make(map[string]int, len(run.DodgedByKind))
	}
	for kind, n := range run.DodgedByKind {
		l.DodgedByKind[kind] += n
	}
}

func dodges(n int) func(core.RunReport, Lifetime) bool {
	return func(run core.RunReport, _ Lifetime) bool { return run.Dodges >= n }
}

func survived(seconds float64) func(core.RunReport, Lifetime) bool {
	return func(run core.RunReport, _ Lifetime) bool { return run.SurvivalTime >= seconds }
}

func scored(n int) func(core.RunReport, Lifetime) bool {
	return func(run core.RunReport, _ Lifetime) bool { return run.Score >= n }
}

func dodgedKind(kind string, n int) func(core.RunReport, Lifetime) bool {
	return func(run core.RunReport, _ Lifetime) bool { return run.DodgedByKind[kind] >= n }
}

func gamesPlayed(n int) func(core.RunReport, Lifetime) bool {
	return func(_ core.RunReport, life Lifetime) bool { return life.GamesPlayed >= n }
}

var catalog = []Definition{
	{"first_steps", "First Steps", "Complete your first hop",
		func(run core.RunReport, _ Lifetime) bool { return run.Jumps >= 1 }},
	{"survivor_10", "Survivor", "Survive for 10 seconds", survived(10)},
	{"survivor_30", "Seasoned Survivor", "Survive for 30 seconds", survived(30)},
	{"survivor_60", "Marathon Runner", "Survive for 60 seconds", survived(60)},
	{"dodger_10", "Traffic Weaver", "Dodge 10 vehicles in one game", dodges(10)},
	{"dodger_25", "Fake News Dodger", "Dodge 25 vehicles in one game", dodges(25)},
	{"dodger_50", "Traffic Master", "Dodge 50 vehicles in one game", dodges(50)},
	{"score_10", "Getting Started", "Reach a score of 10", scored(10)},
	{"score_25", "Rising Star", "Reach a score of 25", scored(25)},
	{"score_50", "Political Powerhouse", "Reach a score of 50", scored(50)},
	{"jumper_100", "Hop Hop Hop!", "Make 100 total jumps",
		func(_ core.RunReport, life Lifetime) bool { return life.TotalJumps >= 100 }},
	{"bus_dodger", "Bus Dodger", "Dodge 5 buses in one game", dodgedKind("bus", 5)},
	{"police_evader", "Police Evader", "Dodge 10 police cars in one game", dodgedKind("police", 10)},
	{"veteran", "Veteran Politician", "Play 10 games", gamesPlayed(10)},
	{"dedicated", "Dedicated Player", "Play 50 games", gamesPlayed(50)},
	{"close_call", "Close Call", "Dodge a vehicle by a hair",
		func(run core.RunReport, _ Lifetime) bool { return run.CloseCall }},
	{"speed_demon", "Speed Demon", "Reach score 20 in under 15 seconds",
		func(run core.RunReport, _ Lifetime) bool { return run.Score >= 20 && run.SurvivalTime <= 15 }},
}

// All returns the catalog in display order.
func All() []Definition {
	return append([]Definition(nil), catalog...)
}

// Lookup finds a definition by ID.
func Lookup(id string) (Definition, bool) {
	for _, d := range catalog {
		if d.ID == id {
			return d, true
		}
	}
	return Definition{}, false
}

// Evaluate returns the IDs earned by run, given lifetime totals that
// already include it.
func Evaluate(run core.RunReport, life Lifetime) []string {
	var ids []string
	for _, d := range catalog {
		if d.unlocked(run, life) {
			ids = append(ids, d.ID)
		}
	}
	return ids
}

// Store persists lifetime totals and unlocked achievements.
type Store interface {
	LoadLifetime() (Lifetime, error)
	SaveLifetime(life Lifetime) error
	UnlockedAchievements() (map[string]time.Time, error)
	// UnlockAchievement reports whether the ID was newly unlocked.
	UnlockAchievement(id string) (bool, error)
}

// Tracker records runs and unlocks achievements against a Store.
type Tracker struct {
	store Store
}

// NewTracker creates a tracker backed by store.
func NewTracker(store Store) *Tracker {
	return &Tracker{store: store}
}

// Record folds run into lifetime stats and returns the achievements it
// unlocked for the first time.
func (t *Tracker) Record(run core.RunReport) ([]Definition, error) {
	life, err := t.store.LoadLifetime()
	if err != nil {
		return nil, fmt.Errorf("achievements: load lifetime: %w", err)
	}
	life.Add(run)
	if err := t.store.SaveLifetime(life); err != nil {
		return nil, fmt.Errorf("achievements: save lifetime: %w", err)
	}

	var fresh []Definition
	for _, id := range Evaluate(run, life) {
		isNew, err := t.store.UnlockAchievement(id)
		if err != nil {
			return fresh, fmt.Errorf("achievements: unlock %s: %w", id, err)
		}
		if isNew {
			def, _ := Lookup(id)
			fresh = append(fresh, def)
		}
	}
	return fresh, nil
}

// Status pairs a definition with its unlock time, zero when locked.
type Status struct {
	Definition
	UnlockedAt time.Time
}

// Unlocked reports whether the achievement has been earned.
func (s Status) Unlocked() bool {
	return !s.UnlockedAt.IsZero()
}

// Statuses lists the whole catalog with unlock times from the store.
func (t *Tracker) Statuses() ([]Status, error) {
	unlocked, err := t.store.UnlockedAchievements()
	if err != nil {
		return nil, fmt.Errorf("achievements: list unlocked: %w", err)
	}
	out := make([]Status, 0, len(catalog))
	for _, d := range catalog {
		out = append(out, Status{Definition: d, UnlockedAt: unlocked[d.ID]})
	}
	return out, nil
}

// Lifetime returns the stored lifetime totals.
func (t *Tracker) Lifetime() (Lifetime, error) {
	return t.store.LoadLifetime()
}
