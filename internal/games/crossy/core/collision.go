package core

import platformcore "github.com/vovakirdan/tui-crossy/internal/core"

// Colliding reports contact: Euclidean distance strictly below radius.
func Colliding(p, v platformcore.Vec2, radius float64) bool {
	return p.Dist(v) < radius
}

// CloseCall reports a near miss: distance in [radius, radius+margin].
// It never implies contact.
func CloseCall(p, v platformcore.Vec2, radius, margin float64) bool {
	d := p.Dist(v)
	return d >= radius && d <= radius+margin
}

func vehiclePoint(l *Lane, v Vehicle) platformcore.Vec2 {
	return platformcore.Vec2{X: v.X, Y: float64(l.Index)}
}

func obstaclePoint(l *Lane, col int) platformcore.Vec2 {
	return platformcore.Vec2{X: float64(col), Y: float64(l.Index)}
}
