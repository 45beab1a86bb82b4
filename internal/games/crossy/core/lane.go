package core

import (
	"math"
	"math/rand"
)

// Placement selects how vehicles are spread over a new road lane.
type Placement uint8

const (
	// PlacementAttempts draws random positions and keeps those at least
	// MinGap from every accepted one, up to the target count.
	PlacementAttempts Placement = iota
	// PlacementFill walks the lane left to right with MinGap plus jitter.
	PlacementFill
)

// ParsePlacement maps a config name to a Placement.
func ParsePlacement(name string) Placement {
	if name == "fill" {
		return PlacementFill
	}
	return PlacementAttempts
}

// GenParams are the difficulty-independent generation settings.
type GenParams struct {
	Cols                int
	SafeStartRows       int // rows [0, SafeStartRows) are always empty grass
	Placement           Placement
	AttemptFactor       int // attempt budget is AttemptFactor * target
	ObstacleProbability float64
	MaxObstacles        int // per safe lane; must leave a column free
}

// DefaultGenParams returns the stock generation settings for a 9-column board.
func DefaultGenParams() GenParams {
	return GenParams{
		Cols:                9,
		SafeStartRows:       2,
		Placement:           PlacementAttempts,
		AttemptFactor:       3,
		ObstacleProbability: 0.12,
		MaxObstacles:        3,
	}
}

// GenerateLane builds the lane at index. Start rows are returned without
// touching rng, so they are identical for every seed.
func GenerateLane(index int, p Params, g GenParams, rng *rand.Rand) Lane {
	if index < g.SafeStartRows {
		return Lane{Index: index, Kind: LaneSafe}
	}
	if rng.Float64() >= p.RoadProbability {
		return Lane{Index: index, Kind: LaneSafe, Obstacles: scatterObstacles(g, rng)}
	}

	lane := Lane{
		Index: index,
		Kind:  LaneRoad,
		Dir:   1,
		Speed: p.SpeedMin + rng.Float64()*(p.SpeedMax-p.SpeedMin),
	}
	if rng.Intn(2) == 0 {
		lane.Dir = -1
	}

	var xs []float64
	switch g.Placement {
	case PlacementFill:
		xs = fillPositions(g.Cols, p.MinGap, rng)
	default:
		xs = attemptPositions(g.Cols, p.MinGap, p.Vehicles, g.AttemptFactor, rng)
	}

	lane.Vehicles = make([]Vehicle, len(xs))
	for i, x := range xs {
		lane.Vehicles[i] = Vehicle{X: x, Kind: vehicleKind(index, i, p.TruckEvery, rng)}
	}
	return lane
}

func fillPositions(cols int, gap float64, rng *rand.Rand) []float64 {
	limit := float64(cols) + 1
	var xs []float64
	for x := rng.Float64() * (gap + 1); x < limit; x += gap + rng.Float64()*3 {
		xs = append(xs, x)
	}
	return xs
}

// attemptPositions accepts fewer than target positions when the budget
// runs out; lane creation never fails.
func attemptPositions(cols int, gap float64, target, factor int, rng *rand.Rand) []float64 {
	if target <= 0 {
		return nil
	}
	lo, hi := -1.0, float64(cols)+1
	xs := make([]float64, 0, target)
	for attempt := 0; attempt < factor*target && len(xs) < target; attempt++ {
		x := lo + rng.Float64()*(hi-lo)
		if spaced(xs, x, gap) {
			xs = append(xs, x)
		}
	}
	return xs
}

func spaced(xs []float64, x, gap float64) bool {
	for _, a := range xs {
		if math.Abs(a-x) < gap {
			return false
		}
	}
	return true
}

func vehicleKind(laneIndex, i, truckEvery int, rng *rand.Rand) VehicleKind {
	if truckEvery > 0 && i%truckEvery == 0 {
		if (laneIndex+i)%3 == 0 {
			return VehicleBus
		}
		return VehicleTruck
	}
	switch r := rng.Float64(); {
	case r < 0.5:
		return VehicleCar
	case r < 0.75:
		return VehicleTaxi
	case r < 0.9:
		return VehiclePolice
	default:
		return VehicleAmbulance
	}
}

func scatterObstacles(g GenParams, rng *rand.Rand) []int {
	if g.ObstacleProbability <= 0 || g.MaxObstacles <= 0 {
		return nil
	}
	limit := g.MaxObstacles
	if limit >= g.Cols {
		limit = g.Cols - 1
	}
	var cols []int
	for c := 0; c < g.Cols && len(cols) < limit; c++ {
		if rng.Float64() < g.ObstacleProbability {
			cols = append(cols, c)
		}
	}
	return cols
}
