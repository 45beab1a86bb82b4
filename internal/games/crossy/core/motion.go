package core

import "math"

// Advance moves every vehicle on a road lane by Dir*Speed*dt and wraps it
// back into [-1, cols+1]. It knows nothing about the player.
func Advance(l *Lane, dt float64, cols int) {
	if l.Kind != LaneRoad || l.Speed == 0 || dt <= 0 {
		return
	}
	step := float64(l.Dir) * l.Speed * dt
	for i := range l.Vehicles {
		l.Vehicles[i].X = Wrap(l.Vehicles[i].X+step, cols)
	}
}

// Wrap applies the edge rule: below -1 re-enters at cols+x, beyond cols+1
// re-enters at x-(cols+2). Steps too large for one wrap are folded into
// the span.
func Wrap(x float64, cols int) float64 {
	c := float64(cols)
	switch {
	case x < -1:
		x = c + x
	case x > c+1:
		x -= c + 2
	}
	if x < -1 || x > c+1 {
		span := c + 2
		x = math.Mod(x+1, span)
		if x < 0 {
			x += span
		}
		x--
	}
	return x
}
