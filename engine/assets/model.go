package assets

import (
	"github.com/1siamBot/turret-defense/engine/render3d"
	"github.com/go-gl/mathgl/mgl64"
)

// MuzzleClearance is how far in front of the model's deepest point the
// muzzle sits
const MuzzleClearance = 0.2

// Model is a loaded mesh plus the placement data derived from its bounds
type Model struct {
	ID     string
	Mesh   *render3d.Mesh3D // lifted so it rests on y = 0
	Bounds render3d.AABB    // bounds before lifting

	// Lift is the vertical shift that puts the lowest point on the floor
	Lift float64

	// MuzzleOffset is the projectile spawn point in the parent's space:
	// centered in X, halfway up the lifted model, just past its front
	MuzzleOffset mgl64.Vec3
}

// NewModel derives the resting lift and muzzle offset from mesh bounds
func NewModel(id string, mesh *render3d.Mesh3D) *Model {
	box := mesh.Bounds()
	m := &Model{ID: id, Bounds: box}
	if box.Empty() {
		m.Mesh = mesh
		return m
	}

	m.Lift = -box.Min[1]
	m.Mesh = mesh.Transform(mgl64.Translate3D(0, m.Lift, 0))

	yMid := (box.Max[1] + box.Min[1]) * 0.5
	m.MuzzleOffset = mgl64.Vec3{0, m.Lift + yMid, box.Max[2] + MuzzleClearance}
	return m
}

// Height is the lifted model's vertical extent
func (m *Model) Height() float64 {
	if m.Bounds.Empty() {
		return 0
	}
	return m.Bounds.Size()[1]
}
