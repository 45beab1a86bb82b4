package core_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/vovakirdan/tui-crossy/internal/games/crossy/core"
)

// allRoads is a curve that always produces road lanes.
func allRoads(vehicles int, gap float64) core.Params {
	return core.Params{
		RoadProbability: 1,
		SpeedMin:        2,
		SpeedMax:        3,
		MinGap:          gap,
		Vehicles:        vehicles,
		TruckEvery:      4,
	}
}

func TestGenerateLaneSafeStart(t *testing.T) {
	g := core.DefaultGenParams()
	p := allRoads(4, 1.2)

	for seed := int64(0); seed < 50; seed++ {
		rng := rand.New(rand.NewSource(seed))
		for idx := 0; idx < g.SafeStartRows; idx++ {
			lane := core.GenerateLane(idx, p, g, rng)
			if lane.Kind != core.LaneSafe {
				t.Fatalf("seed %d: row %d kind = %v, expected safe", seed, idx, lane.Kind)
			}
			if len(lane.Vehicles) != 0 || len(lane.Obstacles) != 0 {
				t.Fatalf("seed %d: start row %d is not empty: %+v", seed, idx, lane)
			}
		}

		// Start rows must not consume randomness
		fresh := rand.New(rand.NewSource(seed))
		if rng.Int63() != fresh.Int63() {
			t.Fatalf("seed %d: generating start rows consumed rng draws", seed)
		}
	}
}

func TestGenerateLaneSpacingAttempts(t *testing.T) {
	g := core.DefaultGenParams()

	for seed := int64(0); seed < 200; seed++ {
		rng := rand.New(rand.NewSource(seed))
		p := allRoads(1+int(seed%4), 1.2+float64(seed%5)*0.4)
		lane := core.GenerateLane(10, p, g, rng)

		if lane.Kind != core.LaneRoad {
			t.Fatalf("seed %d: expected road lane", seed)
		}
		if len(lane.Vehicles) == 0 || len(lane.Vehicles) > p.Vehicles {
			t.Fatalf("seed %d: vehicle count %d outside [1, %d]", seed, len(lane.Vehicles), p.Vehicles)
		}
		assertSpacing(t, lane, p.MinGap, g.Cols)
		if lane.Speed < p.SpeedMin || lane.Speed > p.SpeedMax {
			t.Fatalf("seed %d: speed %f outside [%f, %f]", seed, lane.Speed, p.SpeedMin, p.SpeedMax)
		}
		if lane.Dir != 1 && lane.Dir != -1 {
			t.Fatalf("seed %d: direction %d", seed, lane.Dir)
		}
	}
}

func TestGenerateLaneSpacingFill(t *testing.T) {
	g := core.DefaultGenParams()
	g.Placement = core.PlacementFill

	for seed := int64(0); seed < 200; seed++ {
		rng := rand.New(rand.NewSource(seed))
		p := allRoads(0, 2.8)
		lane := core.GenerateLane(5, p, g, rng)
		if len(lane.Vehicles) == 0 {
			t.Fatalf("seed %d: fill placement should always place a vehicle", seed)
		}
		assertSpacing(t, lane, p.MinGap, g.Cols)
		for i := 1; i < len(lane.Vehicles); i++ {
			if lane.Vehicles[i].X <= lane.Vehicles[i-1].X {
				t.Fatalf("seed %d: fill placement should be left to right", seed)
			}
		}
	}
}

func TestGenerateLaneStarvationDegrades(t *testing.T) {
	g := core.DefaultGenParams()
	// A gap wider than the span leaves room for exactly one vehicle.
	p := allRoads(4, 20)

	for seed := int64(0); seed < 20; seed++ {
		lane := core.GenerateLane(3, p, g, rand.New(rand.NewSource(seed)))
		if len(lane.Vehicles) != 1 {
			t.Fatalf("seed %d: expected degraded lane with 1 vehicle, got %d", seed, len(lane.Vehicles))
		}
	}
}

func TestGenerateLaneHeavyVehicleCadence(t *testing.T) {
	g := core.DefaultGenParams()
	g.Placement = core.PlacementFill
	p := allRoads(0, 1.2)
	p.TruckEvery = 2

	lane := core.GenerateLane(7, p, g, rand.New(rand.NewSource(1)))
	for i, v := range lane.Vehicles {
		heavy := v.Kind == core.VehicleTruck || v.Kind == core.VehicleBus
		if heavy != (i%2 == 0) {
			t.Errorf("vehicle %d kind %v breaks the every-2nd cadence", i, v.Kind)
		}
	}
}

func TestGenerateLaneObstacles(t *testing.T) {
	g := core.DefaultGenParams()
	g.ObstacleProbability = 1
	g.MaxObstacles = 3
	p := core.Params{RoadProbability: 0}

	lane := core.GenerateLane(4, p, g, rand.New(rand.NewSource(9)))
	if lane.Kind != core.LaneSafe || len(lane.Vehicles) != 0 {
		t.Fatalf("expected safe lane, got %+v", lane)
	}
	if len(lane.Obstacles) != 3 {
		t.Fatalf("obstacles = %v, expected the first 3 columns", lane.Obstacles)
	}
	for _, c := range []int{0, 1, 2} {
		if !lane.HasObstacle(c) {
			t.Errorf("column %d should be blocked", c)
		}
	}

	// A cap covering the whole board still leaves a free column.
	g.MaxObstacles = g.Cols
	lane = core.GenerateLane(4, p, g, rand.New(rand.NewSource(9)))
	if len(lane.Obstacles) >= g.Cols {
		t.Errorf("all %d columns blocked", g.Cols)
	}
}

func TestGenerateLaneDeterministic(t *testing.T) {
	g := core.DefaultGenParams()
	m := core.DefaultSettings().Difficulty

	a := rand.New(rand.NewSource(77))
	b := rand.New(rand.NewSource(77))
	for idx := 0; idx < 100; idx++ {
		la := core.GenerateLane(idx, m.For(idx, 0), g, a)
		lb := core.GenerateLane(idx, m.For(idx, 0), g, b)
		if la.Kind != lb.Kind || la.Speed != lb.Speed || len(la.Vehicles) != len(lb.Vehicles) {
			t.Fatalf("row %d differs for the same seed", idx)
		}
		for i := range la.Vehicles {
			if la.Vehicles[i] != lb.Vehicles[i] {
				t.Fatalf("row %d vehicle %d differs for the same seed", idx, i)
			}
		}
	}
}

func assertSpacing(t *testing.T, lane core.Lane, gap float64, cols int) {
	t.Helper()
	for i, a := range lane.Vehicles {
		if a.X < -1 || a.X > float64(cols)+1 {
			t.Fatalf("vehicle %d at %f outside [-1, %d]", i, a.X, cols+1)
		}
		for j, b := range lane.Vehicles {
			if i != j && math.Abs(a.X-b.X) < gap-1e-9 {
				t.Fatalf("vehicles %d and %d only %f apart, min gap %f", i, j, math.Abs(a.X-b.X), gap)
			}
		}
	}
}
