package turret

import "github.com/go-gl/mathgl/mgl64"

// Hostile is anything a turret can aim at. The turret only ever reads it
type Hostile interface {
	Position() mgl64.Vec3
}

// SelectTarget returns the nearest hostile whose squared distance to origin
// is strictly less than rangeLimit². On ties the first one found wins, so
// callers wanting a stable result must pass a stably ordered slice
func SelectTarget(origin mgl64.Vec3, rangeLimit float64, hostiles []Hostile) (Hostile, float64, bool) {
	var best Hostile
	bestDistSq := rangeLimit * rangeLimit

	for _, h := range hostiles {
		if h == nil {
			continue
		}
		dSq := h.Position().Sub(origin).LenSqr()
		if dSq < bestDistSq {
			best = h
			bestDistSq = dSq
		}
	}
	if best == nil {
		return nil, 0, false
	}
	return best, bestDistSq, true
}
