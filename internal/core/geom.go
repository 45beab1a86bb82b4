// Package core provides the platform-level types shared by games and hosts:
// screen buffers, input actions, runtime config and small geometry helpers.
// It has no external dependencies so game logic stays pure and testable.
package core

import "math"

// Rect is an integer cell rectangle used for screen layout.
type Rect struct {
	X, Y int // Top-left corner position
	W, H int // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate one past the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate one past the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Contains returns true if the cell (x, y) is inside this rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Vec2 is a point in continuous board space.
type Vec2 struct {
	X, Y float64
}

// Dist returns the Euclidean distance between two points.
func (v Vec2) Dist(o Vec2) float64 {
	return math.Hypot(v.X-o.X, v.Y-o.Y)
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// ClampF restricts a float64 value to be within [min, max].
func ClampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Lerp interpolates linearly between a and b; t is not clamped.
// t == 1 returns b exactly.
func Lerp(a, b, t float64) float64 {
	if t == 1 {
		return b
	}
	return a + (b-a)*t
}

// Min returns the smaller of two integers.
func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of two integers.
func Max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
