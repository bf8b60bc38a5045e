package core

import (
	"github.com/1siamBot/turret-defense/engine/turret"
	"github.com/go-gl/mathgl/mgl64"
)

// ---- Transform ----

// Transform is a world-space pose. Y is up
type Transform struct {
	Pos mgl64.Vec3
	Rot mgl64.Quat
}

func (t *Transform) Type() ComponentType { return CompTransform }

func (t *Transform) Position() mgl64.Vec3 { return t.Pos }
func (t *Transform) Orientation() mgl64.Quat { return t.Rot }

// Matrix returns the model matrix for rendering
func (t *Transform) Matrix() mgl64.Mat4 {
	return mgl64.Translate3D(t.Pos[0], t.Pos[1], t.Pos[2]).Mul4(t.Rot.Mat4())
}

// NewTransform returns an unrotated transform at pos
func NewTransform(pos mgl64.Vec3) *Transform {
	return &Transform{Pos: pos, Rot: mgl64.QuatIdent()}
}

// ---- Hostile ----

// Hostile marks an entity turrets will shoot at
type Hostile struct {
	Kind    string
	Speed   float64      // world units per second
	Path    []mgl64.Vec3 // waypoints in world space
	PathIdx int          // next waypoint
	Escaped bool         // reached the end of its path
}

func (h *Hostile) Type() ComponentType { return CompHostile }

// ---- Projectile ----

// Projectile is a bullet flying in a straight line
type Projectile struct {
	SourceID  EntityID
	Direction mgl64.Vec3 // unit length
	Speed     float64
	Age       float64
	TTL       float64 // seconds before expiry
}

func (p *Projectile) Type() ComponentType { return CompProjectile }

// ---- Turret ----

// TurretMount attaches a turret controller to an entity
type TurretMount struct {
	Turret  *turret.Turret
	ModelID string
	Last    turret.Report // report of the most recent tick
	Armed   bool          // muzzle seen as resolved
}

func (m *TurretMount) Type() ComponentType { return CompTurret }
