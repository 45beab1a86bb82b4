package core

import (
	"math/rand"
	"sort"
)

// WindowParams bound the materialized region around the player.
type WindowParams struct {
	Lookahead         int     // rows kept generated ahead of the player
	EvictDistance     int     // rows kept behind the player
	BuildingSpacing   float64 // mean distance between buildings on one side
	BuildingLookahead float64 // decoration distance kept ahead of the player
}

// DefaultWindowParams returns the stock window settings.
func DefaultWindowParams() WindowParams {
	return WindowParams{
		Lookahead:         14,
		EvictDistance:     10,
		BuildingSpacing:   2.5,
		BuildingLookahead: 40,
	}
}

// Side is the side of the board a building stands on.
type Side uint8

const (
	SideLeft Side = iota
	SideRight
)

// Building is background decoration keyed by continuous distance.
type Building struct {
	Z      float64 // distance from the start, in rows
	Side   Side
	Height int // 1..4, used for shading
}

// World is the sparse window of lanes around the player. It is the only
// owner of the lane map: other components read through Lane and Lanes.
type World struct {
	params WindowParams
	gen    GenParams
	model  Model

	rng     *rand.Rand // lanes
	decoRng *rand.Rand // buildings, so decoration never shifts lane rolls

	lanes    map[int]*Lane
	furthest int
	score    int // fed to the model when it progresses by score

	buildings     []Building
	buildingsUpTo [2]float64 // furthest generated Z per side
}

// NewWorld creates a world seeded with rows 0..Lookahead.
func NewWorld(p WindowParams, g GenParams, m Model, seed int64) *World {
	w := &World{params: p, gen: g, model: m}
	w.Seed(seed)
	return w
}

// Seed discards every lane and decoration and materializes rows
// 0..Lookahead from a fresh generator.
func (w *World) Seed(seed int64) {
	w.rng = rand.New(rand.NewSource(seed))
	w.decoRng = rand.New(rand.NewSource(seed ^ 0x5DEECE66D))
	w.lanes = make(map[int]*Lane, w.params.Lookahead+w.params.EvictDistance+2)
	w.furthest = -1
	w.score = 0
	w.buildings = nil
	w.buildingsUpTo = [2]float64{}
	w.Advance(0)
}

// SetScore updates the score used by score-driven difficulty.
func (w *World) SetScore(score int) {
	w.score = score
}

// Advance generates lanes until row+Lookahead exists and evicts lanes
// below row-EvictDistance. Calling it again with the same row is a no-op.
func (w *World) Advance(row int) {
	for w.furthest < row+w.params.Lookahead {
		w.furthest++
		lane := GenerateLane(w.furthest, w.model.For(w.furthest, w.score), w.gen, w.rng)
		w.lanes[lane.Index] = &lane
	}

	cutoff := row - w.params.EvictDistance
	for idx := range w.lanes {
		if idx < cutoff {
			delete(w.lanes, idx)
		}
	}

	w.advanceBuildings(float64(row))
}

func (w *World) advanceBuildings(z float64) {
	spacing := w.params.BuildingSpacing
	if spacing <= 0 {
		return
	}
	horizon := z + w.params.BuildingLookahead
	for side := SideLeft; side <= SideRight; side++ {
		for w.buildingsUpTo[side] < horizon {
			w.buildingsUpTo[side] += spacing * (0.6 + 0.8*w.decoRng.Float64())
			w.buildings = append(w.buildings, Building{
				Z:      w.buildingsUpTo[side],
				Side:   side,
				Height: 1 + w.decoRng.Intn(4),
			})
		}
	}

	cutoff := z - float64(w.params.EvictDistance)
	kept := w.buildings[:0]
	for _, b := range w.buildings {
		if b.Z >= cutoff {
			kept = append(kept, b)
		}
	}
	w.buildings = kept
}

// Lane returns a copy of the lane at row.
func (w *World) Lane(row int) (Lane, bool) {
	l, ok := w.lanes[row]
	if !ok {
		return Lane{}, false
	}
	return l.Clone(), true
}

// Has reports whether row is materialized.
func (w *World) Has(row int) bool {
	_, ok := w.lanes[row]
	return ok
}

// Lanes returns copies of every materialized lane, nearest first.
func (w *World) Lanes() []Lane {
	out := make([]Lane, 0, len(w.lanes))
	for _, l := range w.lanes {
		out = append(out, l.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

// Len is the number of materialized lanes.
func (w *World) Len() int {
	return len(w.lanes)
}

// Furthest is the highest generated row.
func (w *World) Furthest() int {
	return w.furthest
}

// Buildings returns the live decoration, ordered by side then distance.
func (w *World) Buildings() []Building {
	out := append([]Building(nil), w.buildings...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Side != out[j].Side {
			return out[i].Side < out[j].Side
		}
		return out[i].Z < out[j].Z
	})
	return out
}

// lane returns the mutable lane for the engine's own motion step.
func (w *World) lane(row int) *Lane {
	return w.lanes[row]
}

// eachLane visits mutable lanes in ascending row order so motion stays
// deterministic.
func (w *World) eachLane(fn func(*Lane)) {
	rows := make([]int, 0, len(w.lanes))
	for idx := range w.lanes {
		rows = append(rows, idx)
	}
	sort.Ints(rows)
	for _, idx := range rows {
		fn(w.lanes[idx])
	}
}
