package render3d

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestBoxBounds(t *testing.T) {
	b := MakeBox(2, 4, 6, TurretSteel).Bounds()
	if b.Min != (mgl64.Vec3{-1, -2, -3}) || b.Max != (mgl64.Vec3{1, 2, 3}) {
		t.Errorf("bounds = %+v", b)
	}
	if b.Size() != (mgl64.Vec3{2, 4, 6}) {
		t.Errorf("size = %v", b.Size())
	}
}

func TestEmptyMeshBounds(t *testing.T) {
	if !NewMesh().Bounds().Empty() {
		t.Error("empty mesh has non-empty bounds")
	}
}

func TestTransformMovesBounds(t *testing.T) {
	m := MakeBox(1, 1, 1, TurretSteel).Transform(mgl64.Translate3D(0, 0.5, 2))
	b := m.Bounds()
	if !vecNear(b.Min, mgl64.Vec3{-0.5, 0, 1.5}, 1e-12) {
		t.Errorf("min = %v", b.Min)
	}
	for _, tri := range m.Triangles {
		for _, v := range tri.V {
			if !floatNear(v.Normal.Len(), 1, 1e-9) {
				t.Fatalf("normal not unit after transform: %v", v.Normal)
			}
		}
	}
}

func TestTurretModelShape(t *testing.T) {
	b := MakeTurretModel().Bounds()
	if b.Min[1] >= 0 {
		t.Errorf("turret model origin should sit above its lowest point, min.y = %v", b.Min[1])
	}
	if !floatNear(b.Max[2], 1.25, 1e-9) {
		t.Errorf("barrel tip at z = %v, want 1.25", b.Max[2])
	}
	if b.Max[2] <= -b.Min[2] {
		t.Errorf("barrel should extend along +Z: %+v", b)
	}
}

func TestCameraRoundTrip(t *testing.T) {
	c := NewCamera3D(800, 600)
	c.CenterOn(5, -3)
	p := mgl64.Vec3{7, 0, 1}
	sx, sy, _ := c.Project(p)
	got := c.ScreenToGround(int(sx+0.5), int(sy+0.5))
	if got.Sub(p).Len() > 0.1 {
		t.Errorf("round trip %v -> (%v,%v) -> %v", p, sx, sy, got)
	}
	cx, cy, _ := c.Project(c.Target)
	if !floatNear(cx, 400, 1e-6) || !floatNear(cy, 300, 1e-6) {
		t.Errorf("target projects to (%v,%v), want screen center", cx, cy)
	}
}

func TestParticlesExpire(t *testing.T) {
	ps := NewParticleSystem()
	ps.AddMuzzleFlash(mgl64.Vec3{0, 0.5, 1}, mgl64.Vec3{0, 0, 1})
	ps.AddBurst(mgl64.Vec3{}, HostileRed, 12)
	if len(ps.Particles) != 3+12+4 {
		t.Fatalf("particles = %d", len(ps.Particles))
	}
	if got := len(ps.Mesh().Triangles); got != 2*len(ps.Particles) {
		t.Errorf("triangles = %d, want two per particle", got)
	}

	ps.Update(0.2)
	for _, p := range ps.Particles {
		if p.Life >= p.MaxLife || p.Alpha <= 0 || p.Alpha >= 1 {
			t.Fatalf("particle past its life kept: %+v", p)
		}
	}
	if len(ps.Particles) != 16 {
		t.Errorf("after flash faded: %d particles, want 16", len(ps.Particles))
	}

	ps.Update(2)
	if len(ps.Particles) != 0 {
		t.Errorf("%d particles outlived two seconds", len(ps.Particles))
	}
}

// vecNear compares by absolute distance, which stays meaningful when a
// component is zero
func vecNear(a, b mgl64.Vec3, tol float64) bool {
	return a.Sub(b).Len() < tol
}

func floatNear(a, b, tol float64) bool {
	return math.Abs(a-b) < tol
}
