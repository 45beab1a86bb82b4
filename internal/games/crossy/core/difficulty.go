package core

import (
	"math"

	platformcore "github.com/vovakirdan/tui-crossy/internal/core"
)

// Params are the lane generation parameters at one difficulty level.
type Params struct {
	RoadProbability float64
	SpeedMin        float64
	SpeedMax        float64
	MinGap          float64 // minimum spawn spacing between vehicles
	Vehicles        int     // target count for attempt-budget placement
	TruckEvery      int     // every Nth vehicle in a lane is a heavy one
}

// Curve holds Params at level 0 and level 1.
type Curve struct {
	Start Params
	End   Params
}

// DefaultCurve is the stock curve: 45% to 85% roads, speeds 2-3 up to 5-7,
// gap 2.8 down to 1.2.
func DefaultCurve() Curve {
	return Curve{
		Start: Params{RoadProbability: 0.45, SpeedMin: 2, SpeedMax: 3, MinGap: 2.8, Vehicles: 1, TruckEvery: 10},
		End:   Params{RoadProbability: 0.85, SpeedMin: 5, SpeedMax: 7, MinGap: 1.2, Vehicles: 4, TruckEvery: 4},
	}
}

// DifficultyFor interpolates every parameter linearly between the curve
// ends. t is clamped to [0, 1], and each result is clamped to the range
// spanned by its two ends.
func DifficultyFor(t float64, c Curve) Params {
	t = platformcore.ClampF(t, 0, 1)
	s, e := c.Start, c.End

	p := Params{
		RoadProbability: lerpClamped(s.RoadProbability, e.RoadProbability, t),
		SpeedMin:        lerpClamped(s.SpeedMin, e.SpeedMin, t),
		SpeedMax:        lerpClamped(s.SpeedMax, e.SpeedMax, t),
		MinGap:          lerpClamped(s.MinGap, e.MinGap, t),
		Vehicles:        int(math.Round(lerpClamped(float64(s.Vehicles), float64(e.Vehicles), t))),
		TruckEvery:      int(math.Round(lerpClamped(float64(s.TruckEvery), float64(e.TruckEvery), t))),
	}
	p.RoadProbability = platformcore.ClampF(p.RoadProbability, 0, 1)
	if p.SpeedMax < p.SpeedMin {
		p.SpeedMax = p.SpeedMin
	}
	if p.TruckEvery < 1 {
		p.TruckEvery = 1
	}
	return p
}

func lerpClamped(a, b, t float64) float64 {
	return platformcore.ClampF(platformcore.Lerp(a, b, t), math.Min(a, b), math.Max(a, b))
}

// Progression selects what drives the difficulty level.
type Progression uint8

const (
	ProgressRow   Progression = iota // lane index being generated
	ProgressScore                    // current score
	ProgressNone                     // level stays at InitialLevel
)

// ParseProgression maps a config name to a Progression.
func ParseProgression(name string) Progression {
	switch name {
	case "score":
		return ProgressScore
	case "none":
		return ProgressNone
	default:
		return ProgressRow
	}
}

// Model maps game progress to lane parameters.
type Model struct {
	Curve        Curve
	Enabled      bool
	InitialLevel float64 // 0.0 = easy, 1.0 = hard
	Progression  Progression
	RampDistance int // rows (or points) at which the level reaches 1.0
}

// Level returns the difficulty level in [InitialLevel, 1].
func (m Model) Level(row, score int) float64 {
	initial := platformcore.ClampF(m.InitialLevel, 0, 1)
	if !m.Enabled || m.Progression == ProgressNone {
		return initial
	}

	var progress float64
	ramp := float64(m.RampDistance)
	if ramp <= 0 {
		ramp = 1
	}
	switch m.Progression {
	case ProgressScore:
		progress = float64(score) / ramp
	default:
		progress = float64(row) / ramp
	}
	progress = platformcore.ClampF(progress, 0, 1)

	return initial + progress*(1-initial)
}

// For returns the Params for the lane at row, with the given current score.
func (m Model) For(row, score int) Params {
	return DifficultyFor(m.Level(row, score), m.Curve)
}
