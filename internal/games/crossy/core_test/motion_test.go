package core_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/vovakirdan/tui-crossy/internal/games/crossy/core"
)

func TestAdvanceWrapsRight(t *testing.T) {
	lane := core.Lane{Index: 3, Kind: core.LaneRoad, Dir: 1, Speed: 3, Vehicles: []core.Vehicle{{X: 8.5}}}

	core.Advance(&lane, 1.0, 9)

	if got := lane.Vehicles[0].X; math.Abs(got-0.5) > 1e-9 {
		t.Errorf("x = %f, expected 0.5 after wrapping past cols+1", got)
	}
}

func TestAdvanceWrapsLeft(t *testing.T) {
	lane := core.Lane{Index: 3, Kind: core.LaneRoad, Dir: -1, Speed: 2, Vehicles: []core.Vehicle{{X: -0.8}}}

	core.Advance(&lane, 0.25, 9)

	// -0.8 - 0.5 = -1.3, re-enters at cols + x
	if got := lane.Vehicles[0].X; math.Abs(got-7.7) > 1e-9 {
		t.Errorf("x = %f, expected 7.7", got)
	}
}

func TestAdvanceSafeLaneUntouched(t *testing.T) {
	lane := core.Lane{Index: 1, Kind: core.LaneSafe, Obstacles: []int{2}}
	core.Advance(&lane, 0.05, 9)
	if len(lane.Vehicles) != 0 || lane.Obstacles[0] != 2 {
		t.Errorf("safe lane changed: %+v", lane)
	}
}

func TestAdvanceStaysInSpan(t *testing.T) {
	const cols = 9
	g := core.DefaultGenParams()
	m := core.DefaultSettings().Difficulty
	rng := rand.New(rand.NewSource(21))

	for idx := 2; idx < 60; idx++ {
		lane := core.GenerateLane(idx, m.For(idx*5, 0), g, rng)
		for step := 0; step < 500; step++ {
			dt := rng.Float64() * 0.1
			if step%50 == 0 {
				dt = rng.Float64() * 10 // stall-sized step
			}
			core.Advance(&lane, dt, cols)
			for i, v := range lane.Vehicles {
				if v.X < -1 || v.X > cols+1 {
					t.Fatalf("row %d vehicle %d escaped to %f after step %d (dt=%f)", idx, i, v.X, step, dt)
				}
			}
		}
	}
}

func TestWrap(t *testing.T) {
	tests := []struct {
		x, expected float64
	}{
		{5, 5},
		{-1, -1},
		{10, 10},
		{10.5, -0.5},
		{-1.5, 7.5},
		{40, 7},  // 40 -> 29 is still outside, folded mod 11
		{-25, 6}, // -25 -> -16 is still outside, folded mod 11
	}

	for _, tc := range tests {
		if got := core.Wrap(tc.x, 9); math.Abs(got-tc.expected) > 1e-9 {
			t.Errorf("Wrap(%f) = %f, expected %f", tc.x, got, tc.expected)
		}
	}
}
