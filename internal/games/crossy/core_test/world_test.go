package core_test

import (
	"math"
	"math/rand"
	"testing"

	platformcore "github.com/vovakirdan/tui-crossy/internal/core"
	"github.com/vovakirdan/tui-crossy/internal/games/crossy/core"
)

func newWorld(seed int64) *core.World {
	s := core.DefaultSettings()
	return core.NewWorld(s.Window, s.Gen, s.Difficulty, seed)
}

func TestWorldSeedMaterializesLookahead(t *testing.T) {
	w := newWorld(1)
	p := core.DefaultWindowParams()

	if w.Furthest() != p.Lookahead {
		t.Errorf("Furthest() = %d, expected %d", w.Furthest(), p.Lookahead)
	}
	if w.Len() != p.Lookahead+1 {
		t.Errorf("Len() = %d, expected %d", w.Len(), p.Lookahead+1)
	}
	for row := 0; row <= p.Lookahead; row++ {
		if !w.Has(row) {
			t.Errorf("row %d not materialized after Seed", row)
		}
	}
	lane, ok := w.Lane(0)
	if !ok || lane.Kind != core.LaneSafe || len(lane.Vehicles) != 0 {
		t.Errorf("row 0 should be an empty safe lane, got %+v", lane)
	}
}

func TestWorldWindowInvariant(t *testing.T) {
	p := core.DefaultWindowParams()

	for seed := int64(0); seed < 20; seed++ {
		w := newWorld(seed)
		rng := rand.New(rand.NewSource(seed))
		row := 0
		for step := 0; step < 200; step++ {
			row += rng.Intn(3) // non-decreasing, sometimes unchanged
			w.Advance(row)

			for r := row; r <= row+p.Lookahead; r++ {
				if !w.Has(r) {
					t.Fatalf("seed %d: row %d missing with player at %d", seed, r, row)
				}
			}
			for _, lane := range w.Lanes() {
				if lane.Index < row-p.EvictDistance {
					t.Fatalf("seed %d: row %d not evicted with player at %d", seed, lane.Index, row)
				}
			}
			if w.Len() > p.Lookahead+p.EvictDistance+1 {
				t.Fatalf("seed %d: %d lanes held, window leaks", seed, w.Len())
			}
		}
	}
}

func TestWorldAdvanceIdempotent(t *testing.T) {
	w := newWorld(3)
	w.Advance(20)
	before := w.Lanes()
	furthest := w.Furthest()

	w.Advance(20)
	w.Advance(20)

	if w.Furthest() != furthest {
		t.Errorf("Furthest changed from %d to %d on repeated Advance", furthest, w.Furthest())
	}
	after := w.Lanes()
	if len(before) != len(after) {
		t.Fatalf("lane count changed from %d to %d", len(before), len(after))
	}
	for i := range before {
		if before[i].Index != after[i].Index || before[i].Speed != after[i].Speed {
			t.Fatalf("lane %d changed on repeated Advance", before[i].Index)
		}
	}
}

func TestWorldLanesOrderedAndCopied(t *testing.T) {
	w := newWorld(5)
	lanes := w.Lanes()
	for i := 1; i < len(lanes); i++ {
		if lanes[i].Index != lanes[i-1].Index+1 {
			t.Fatalf("lanes not contiguous and ascending: %d after %d", lanes[i].Index, lanes[i-1].Index)
		}
	}

	// Mutating a copy must not touch the world
	for i := range lanes {
		if len(lanes[i].Vehicles) > 0 {
			orig := lanes[i].Vehicles[0].X
			lanes[i].Vehicles[0].X = 999
			again, _ := w.Lane(lanes[i].Index)
			if again.Vehicles[0].X != orig {
				t.Fatal("Lanes() returned shared vehicle storage")
			}
			break
		}
	}
}

func TestWorldReseedDiscardsLanes(t *testing.T) {
	w := newWorld(8)
	w.Advance(60)
	w.Seed(8)

	if w.Has(60) || w.Furthest() != core.DefaultWindowParams().Lookahead {
		t.Errorf("Seed should discard lanes beyond the initial window, furthest=%d", w.Furthest())
	}

	fresh := newWorld(8)
	a, b := w.Lanes(), fresh.Lanes()
	for i := range a {
		if a[i].Kind != b[i].Kind || a[i].Speed != b[i].Speed {
			t.Fatalf("reseeded world differs from a fresh one at row %d", a[i].Index)
		}
	}
}

func TestWorldBuildings(t *testing.T) {
	w := newWorld(11)
	p := core.DefaultWindowParams()

	check := func(row int) {
		bs := w.Buildings()
		if len(bs) == 0 {
			t.Fatalf("no buildings at row %d", row)
		}
		var maxZ [2]float64
		for _, b := range bs {
			if b.Z < float64(row-p.EvictDistance) {
				t.Fatalf("building at z=%f not evicted with player at %d", b.Z, row)
			}
			if b.Height < 1 || b.Height > 4 {
				t.Fatalf("building height %d out of range", b.Height)
			}
			maxZ[b.Side] = math.Max(maxZ[b.Side], b.Z)
		}
		for side, z := range maxZ {
			if z < float64(row)+p.BuildingLookahead {
				t.Fatalf("side %d decorated only to z=%f with player at %d", side, z, row)
			}
		}
	}

	check(0)
	for row := 1; row <= 120; row++ {
		w.Advance(row)
	}
	check(120)
}

func TestCollisionPredicates(t *testing.T) {
	p := platformcore.Vec2{X: 3, Y: 5}

	tests := []struct {
		name      string
		v         platformcore.Vec2
		colliding bool
		closeCall bool
	}{
		{"overlap", platformcore.Vec2{X: 3.2, Y: 5}, true, false},
		{"just inside", platformcore.Vec2{X: 3.59, Y: 5}, true, false},
		{"at radius", platformcore.Vec2{X: 3.6, Y: 5}, false, true},
		{"near miss", platformcore.Vec2{X: 2.25, Y: 5}, false, true},
		{"clear", platformcore.Vec2{X: 4.5, Y: 5}, false, false},
		{"next lane", platformcore.Vec2{X: 3, Y: 6}, false, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := core.Colliding(p, tc.v, 0.6); got != tc.colliding {
				t.Errorf("Colliding = %v, expected %v", got, tc.colliding)
			}
			if got := core.CloseCall(p, tc.v, 0.6, 0.3); got != tc.closeCall {
				t.Errorf("CloseCall = %v, expected %v", got, tc.closeCall)
			}
		})
	}
}
