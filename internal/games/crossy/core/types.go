// Package core provides the simulation for the lane-crossing game:
// difficulty curve, lane generation, the world window, vehicle motion,
// collision and the player/session state machine.
// This package is UI-agnostic and deterministic for a given seed.
package core

// LaneKind classifies a lane.
type LaneKind uint8

const (
	LaneSafe LaneKind = iota // grass: no vehicles, may hold obstacles
	LaneRoad                 // traffic in one direction at one speed
)

// String returns the string representation of a lane kind.
func (k LaneKind) String() string {
	switch k {
	case LaneSafe:
		return "safe"
	case LaneRoad:
		return "road"
	default:
		return "unknown"
	}
}

// VehicleKind only affects rendering and dodge statistics.
type VehicleKind uint8

const (
	VehicleCar VehicleKind = iota
	VehicleTaxi
	VehicleTruck
	VehicleBus
	VehiclePolice
	VehicleAmbulance
)

var vehicleKindNames = [...]string{
	VehicleCar:       "car",
	VehicleTaxi:      "taxi",
	VehicleTruck:     "truck",
	VehicleBus:       "bus",
	VehiclePolice:    "police",
	VehicleAmbulance: "ambulance",
}

// String returns the string representation of a vehicle kind.
func (k VehicleKind) String() string {
	if int(k) < len(vehicleKindNames) {
		return vehicleKindNames[k]
	}
	return "unknown"
}

// Length is the vehicle's drawn length in cells. Collision always uses
// the center point regardless of length.
func (k VehicleKind) Length() int {
	switch k {
	case VehicleTruck, VehicleBus:
		return 2
	default:
		return 1
	}
}

// Vehicle is one moving hazard on a road lane.
type Vehicle struct {
	X    float64 // center, within [-1, cols+1]
	Kind VehicleKind
}

// Lane is one row of the world.
type Lane struct {
	Index     int
	Kind      LaneKind
	Dir       int     // +1 or -1; 0 on safe lanes
	Speed     float64 // cells per second; 0 on safe lanes
	Vehicles  []Vehicle
	Obstacles []int // blocked columns, safe lanes only
}

// HasObstacle reports whether column col is blocked.
func (l *Lane) HasObstacle(col int) bool {
	for _, c := range l.Obstacles {
		if c == col {
			return true
		}
	}
	return false
}

// Clone returns a deep copy safe to hand to renderers.
func (l *Lane) Clone() Lane {
	c := *l
	c.Vehicles = append([]Vehicle(nil), l.Vehicles...)
	c.Obstacles = append([]int(nil), l.Obstacles...)
	return c
}

// Hop is a discrete player move.
type Hop uint8

const (
	HopForward Hop = iota
	HopBackward
	HopLeft
	HopRight
)

// String returns the string representation of a hop.
func (h Hop) String() string {
	switch h {
	case HopForward:
		return "forward"
	case HopBackward:
		return "backward"
	case HopLeft:
		return "left"
	case HopRight:
		return "right"
	default:
		return "unknown"
	}
}

// Delta returns the (dcol, drow) offset for the hop.
// Rows grow away from the start.
func (h Hop) Delta() (dcol, drow int) {
	switch h {
	case HopForward:
		return 0, 1
	case HopBackward:
		return 0, -1
	case HopLeft:
		return -1, 0
	case HopRight:
		return 1, 0
	default:
		return 0, 0
	}
}

// Player is the player's grid position.
type Player struct {
	Column int
	Row    int // world-absolute
	Alive  bool
}

// Session holds score and cross-run counters.
type Session struct {
	Score    int
	Furthest int // furthest row reached this run
	Best     int // max across runs, fed back by the persistence layer
	RunCount int
}

// State is the session state machine's state.
type State uint8

const (
	StateIdle State = iota
	StateRunning
	StateGameOver
)

// String returns the string representation of a state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// Event is a discrete notification for sound or haptics.
type Event string

const (
	EventMove Event = "move"
	EventHit  Event = "hit"
	EventWin  Event = "win" // current run passed the previous best
)

// EventSink receives engine events. Implementations must not block.
type EventSink interface {
	Emit(Event)
}
