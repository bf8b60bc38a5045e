package render3d

import "github.com/go-gl/mathgl/mgl64"

var (
	TurretSteel  = Color3{0.55, 0.58, 0.62}
	TurretAccent = Color3{0.15, 0.35, 0.85}
	HostileRed   = Color3{0.85, 0.15, 0.15}
	BulletYellow = Color3{1.0, 0.85, 0.3}
)

// MakeTurretModel builds the turret: a squat pedestal, a rotating head and a
// barrel pointing along +Z. Like an imported asset its origin is at the
// center of the pedestal, not at the floor
func MakeTurretModel() *Mesh3D {
	m := NewMesh()

	// Pedestal
	m.Append(MakeCylinder(0.6, 0.5, 16, TurretSteel))

	// Head
	head := MakeBox(0.8, 0.5, 0.9, TurretAccent)
	m.Append(head.Transform(mgl64.Translate3D(0, 0.5, 0)))

	// Barrel
	barrel := MakeBox(0.12, 0.12, 0.9, Color3{0.3, 0.3, 0.3})
	m.Append(barrel.Transform(mgl64.Translate3D(0, 0.5, 0.8)))

	return m
}

// MakeHostileModel builds a walker: a body box with a cone head
func MakeHostileModel() *Mesh3D {
	m := NewMesh()

	body := MakeBox(0.5, 0.6, 0.5, HostileRed)
	m.Append(body.Transform(mgl64.Translate3D(0, 0.3, 0)))

	head := MakeCone(0.3, 0.4, 8, HostileRed.Scale(0.7))
	m.Append(head.Transform(mgl64.Translate3D(0, 0.8, 0)))

	return m
}

// MakeBulletModel builds a small projectile elongated along +Z
func MakeBulletModel() *Mesh3D {
	return MakeBox(0.1, 0.1, 0.3, BulletYellow)
}

// RotateModelY rotates a mesh around Y axis
func RotateModelY(mesh *Mesh3D, angle float64) *Mesh3D {
	return mesh.Transform(mgl64.HomogRotate3DY(angle))
}
