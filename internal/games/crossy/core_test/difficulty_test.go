package core_test

import (
	"math"
	"testing"

	"github.com/vovakirdan/tui-crossy/internal/games/crossy/core"
)

func TestDifficultyForEndpoints(t *testing.T) {
	c := core.DefaultCurve()

	start := core.DifficultyFor(0, c)
	if start != c.Start {
		t.Errorf("t=0 should return curve start, got %+v", start)
	}
	end := core.DifficultyFor(1, c)
	if end != c.End {
		t.Errorf("t=1 should return curve end, got %+v", end)
	}

	// Out-of-range t clamps
	if got := core.DifficultyFor(-3, c); got != start {
		t.Errorf("t<0 should clamp to start, got %+v", got)
	}
	if got := core.DifficultyFor(42, c); got != end {
		t.Errorf("t>1 should clamp to end, got %+v", got)
	}

	mid := core.DifficultyFor(0.5, c)
	if math.Abs(mid.RoadProbability-0.65) > 1e-9 {
		t.Errorf("road probability at t=0.5 = %f, expected 0.65", mid.RoadProbability)
	}
	if math.Abs(mid.MinGap-2.0) > 1e-9 {
		t.Errorf("min gap at t=0.5 = %f, expected 2.0", mid.MinGap)
	}
}

func TestDifficultyMonotonicWithProgress(t *testing.T) {
	m := core.DefaultSettings().Difficulty

	prev := m.For(0, 0)
	for row := 1; row <= 400; row++ {
		p := m.For(row, 0)
		if p.RoadProbability < prev.RoadProbability {
			t.Fatalf("road probability decreased at row %d: %f < %f", row, p.RoadProbability, prev.RoadProbability)
		}
		if p.SpeedMax < prev.SpeedMax || p.SpeedMin < prev.SpeedMin {
			t.Fatalf("speed decreased at row %d", row)
		}
		if p.MinGap > prev.MinGap {
			t.Fatalf("min gap grew at row %d", row)
		}
		if p.RoadProbability < 0.45 || p.RoadProbability > 0.85 {
			t.Fatalf("road probability %f outside [0.45, 0.85]", p.RoadProbability)
		}
		prev = p
	}
	if prev != core.DefaultCurve().End {
		t.Errorf("past the ramp the curve should sit at its end, got %+v", prev)
	}
}

func TestModelLevel(t *testing.T) {
	tests := []struct {
		name     string
		model    core.Model
		row      int
		score    int
		expected float64
	}{
		{"row start", core.Model{Enabled: true, RampDistance: 150}, 0, 0, 0},
		{"row halfway", core.Model{Enabled: true, RampDistance: 150}, 75, 0, 0.5},
		{"row beyond ramp", core.Model{Enabled: true, RampDistance: 150}, 900, 0, 1},
		{"initial level", core.Model{Enabled: true, InitialLevel: 0.3, RampDistance: 100}, 50, 0, 0.65},
		{"score driven", core.Model{Enabled: true, Progression: core.ProgressScore, RampDistance: 30}, 500, 15, 0.5},
		{"disabled", core.Model{Enabled: false, InitialLevel: 0.7, RampDistance: 10}, 100, 100, 0.7},
		{"none", core.Model{Enabled: true, Progression: core.ProgressNone, InitialLevel: 0.2}, 100, 100, 0.2},
		{"zero ramp", core.Model{Enabled: true}, 1, 0, 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.model.Level(tc.row, tc.score)
			if math.Abs(got-tc.expected) > 1e-9 {
				t.Errorf("Level(%d, %d) = %f, expected %f", tc.row, tc.score, got, tc.expected)
			}
		})
	}
}

func TestParseProgression(t *testing.T) {
	if core.ParseProgression("score") != core.ProgressScore {
		t.Error("score should parse to ProgressScore")
	}
	if core.ParseProgression("none") != core.ProgressNone {
		t.Error("none should parse to ProgressNone")
	}
	if core.ParseProgression("row") != core.ProgressRow {
		t.Error("row should parse to ProgressRow")
	}
}
