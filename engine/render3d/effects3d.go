package render3d

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Particle represents a single particle in 3D space
type Particle struct {
	Pos     mgl64.Vec3
	Vel     mgl64.Vec3
	Color   Color3
	Alpha   float64
	Size    float64
	Life    float64
	MaxLife float64
}

// ParticleSystem manages particles
type ParticleSystem struct {
	Particles []Particle
	Gravity   float64
}

func NewParticleSystem() *ParticleSystem {
	return &ParticleSystem{Gravity: 2}
}

// AddMuzzleFlash spawns a brief flash at pos drifting along dir
func (ps *ParticleSystem) AddMuzzleFlash(pos, dir mgl64.Vec3) {
	for i := 0; i < 3; i++ {
		ps.Particles = append(ps.Particles, Particle{
			Pos:     pos,
			Vel:     dir.Mul(1.5 + float64(i)).Add(mgl64.Vec3{0, 0.1, 0}),
			Color:   Color3{1.0, 0.9 - float64(i)*0.1, 0.3},
			Alpha:   1.0,
			Size:    0.3 - float64(i)*0.06,
			MaxLife: 0.08 + float64(i)*0.03,
		})
	}
}

// AddBurst spawns a ring of sparks with a little smoke at pos
func (ps *ParticleSystem) AddBurst(pos mgl64.Vec3, c Color3, count int) {
	for i := 0; i < count; i++ {
		angle := float64(i) / float64(count) * 2 * math.Pi
		speed := 0.5 + float64(i%5)*0.3
		ps.Particles = append(ps.Particles, Particle{
			Pos:     pos,
			Vel:     mgl64.Vec3{math.Cos(angle) * speed, 1.0 + float64(i%3)*0.5, math.Sin(angle) * speed},
			Color:   c,
			Alpha:   1.0,
			Size:    0.15 + float64(i%3)*0.05,
			MaxLife: 0.5 + float64(i%4)*0.15,
		})
	}
	for i := 0; i < count/3; i++ {
		angle := float64(i) / float64(count/3) * 2 * math.Pi
		ps.Particles = append(ps.Particles, Particle{
			Pos:     pos,
			Vel:     mgl64.Vec3{math.Cos(angle) * 0.3, 0.8, math.Sin(angle) * 0.3},
			Color:   Color3{0.3, 0.3, 0.3},
			Alpha:   0.7,
			Size:    0.2,
			MaxLife: 1.0 + float64(i%3)*0.3,
		})
	}
}

// Update advances particles and drops the expired ones
func (ps *ParticleSystem) Update(dt float64) {
	alive := ps.Particles[:0]
	for i := range ps.Particles {
		p := ps.Particles[i]
		p.Life += dt
		if p.Life >= p.MaxLife {
			continue
		}
		p.Pos = p.Pos.Add(p.Vel.Mul(dt))
		p.Vel[1] -= ps.Gravity * dt
		p.Alpha = 1.0 - p.Life/p.MaxLife
		alive = append(alive, p)
	}
	ps.Particles = alive
}

// Mesh creates flat quads on the XZ plane for all visible particles
func (ps *ParticleSystem) Mesh() *Mesh3D {
	mesh := NewMesh()
	up := mgl64.Vec3{0, 1, 0}
	for _, p := range ps.Particles {
		if p.Alpha < 0.01 {
			continue
		}
		hs := p.Size / 2
		c := p.Color.Scale(p.Alpha)
		x, y, z := p.Pos[0], p.Pos[1], p.Pos[2]
		mesh.AddQuad(
			Vertex3D{Pos: mgl64.Vec3{x - hs, y, z - hs}, Normal: up, Color: c},
			Vertex3D{Pos: mgl64.Vec3{x + hs, y, z - hs}, Normal: up, Color: c},
			Vertex3D{Pos: mgl64.Vec3{x + hs, y, z + hs}, Normal: up, Color: c},
			Vertex3D{Pos: mgl64.Vec3{x - hs, y, z + hs}, Normal: up, Color: c},
		)
	}
	return mesh
}
