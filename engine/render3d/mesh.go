package render3d

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Color3 is a linear RGB color in [0,1]
type Color3 struct {
	R, G, B float64
}

func (c Color3) Scale(s float64) Color3 {
	return Color3{c.R * s, c.G * s, c.B * s}
}

func (c Color3) Add(o Color3) Color3 {
	return Color3{
		math.Min(c.R+o.R, 1),
		math.Min(c.G+o.G, 1),
		math.Min(c.B+o.B, 1),
	}
}

func (c Color3) Mul(o Color3) Color3 {
	return Color3{c.R * o.R, c.G * o.G, c.B * o.B}
}

// Vertex3D is a vertex with position, normal, and color
type Vertex3D struct {
	Pos    mgl64.Vec3
	Normal mgl64.Vec3
	Color  Color3
}

// Triangle3D is three vertices
type Triangle3D struct {
	V [3]Vertex3D
}

// Mesh3D is a collection of triangles
type Mesh3D struct {
	Triangles []Triangle3D
}

// AABB is an axis-aligned bounding box
type AABB struct {
	Min, Max mgl64.Vec3
}

// Size returns the extent along each axis
func (b AABB) Size() mgl64.Vec3 { return b.Max.Sub(b.Min) }

// Center returns the midpoint of the box
func (b AABB) Center() mgl64.Vec3 { return b.Min.Add(b.Max).Mul(0.5) }

// Empty reports whether the box encloses no points
func (b AABB) Empty() bool { return b.Min[0] > b.Max[0] }

func NewMesh() *Mesh3D { return &Mesh3D{} }

func (m *Mesh3D) AddTriangle(v0, v1, v2 Vertex3D) {
	m.Triangles = append(m.Triangles, Triangle3D{V: [3]Vertex3D{v0, v1, v2}})
}

func (m *Mesh3D) AddQuad(v0, v1, v2, v3 Vertex3D) {
	m.AddTriangle(v0, v1, v2)
	m.AddTriangle(v0, v2, v3)
}

// Transform returns a copy of the mesh with mat applied to every vertex
func (m *Mesh3D) Transform(mat mgl64.Mat4) *Mesh3D {
	out := &Mesh3D{Triangles: make([]Triangle3D, len(m.Triangles))}
	for i, tri := range m.Triangles {
		for j := 0; j < 3; j++ {
			v := tri.V[j]
			v.Pos = mgl64.TransformCoordinate(v.Pos, mat)
			if n := mgl64.TransformNormal(v.Normal, mat); n.Len() > 1e-10 {
				v.Normal = n.Normalize()
			}
			out.Triangles[i].V[j] = v
		}
	}
	return out
}

func (m *Mesh3D) Append(other *Mesh3D) {
	m.Triangles = append(m.Triangles, other.Triangles...)
}

// Bounds returns the bounding box of all vertices. An empty mesh yields a
// box for which Empty reports true
func (m *Mesh3D) Bounds() AABB {
	inf := math.Inf(1)
	b := AABB{Min: mgl64.Vec3{inf, inf, inf}, Max: mgl64.Vec3{-inf, -inf, -inf}}
	for _, tri := range m.Triangles {
		for _, v := range tri.V {
			for k := 0; k < 3; k++ {
				b.Min[k] = math.Min(b.Min[k], v.Pos[k])
				b.Max[k] = math.Max(b.Max[k], v.Pos[k])
			}
		}
	}
	return b
}

// --- Primitive generators ---

// MakeBox builds a box of size w×h×d centered on the origin
func MakeBox(w, h, d float64, c Color3) *Mesh3D {
	m := NewMesh()
	hw, hh, hd := w/2, h/2, d/2

	v := [8]mgl64.Vec3{
		{-hw, -hh, -hd}, {hw, -hh, -hd}, {hw, hh, -hd}, {-hw, hh, -hd},
		{-hw, -hh, hd}, {hw, -hh, hd}, {hw, hh, hd}, {-hw, hh, hd},
	}

	faces := [][4]int{
		{0, 1, 2, 3}, // front
		{5, 4, 7, 6}, // back
		{4, 0, 3, 7}, // left
		{1, 5, 6, 2}, // right
		{3, 2, 6, 7}, // top
		{4, 5, 1, 0}, // bottom
	}
	normals := []mgl64.Vec3{
		{0, 0, -1}, {0, 0, 1}, {-1, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, -1, 0},
	}

	for fi, f := range faces {
		n := normals[fi]
		shade := 0.7 + 0.3*float64(fi)/5.0
		fc := c.Scale(shade)
		m.AddQuad(
			Vertex3D{Pos: v[f[0]], Normal: n, Color: fc},
			Vertex3D{Pos: v[f[1]], Normal: n, Color: fc},
			Vertex3D{Pos: v[f[2]], Normal: n, Color: fc},
			Vertex3D{Pos: v[f[3]], Normal: n, Color: fc},
		)
	}
	return m
}

// MakeCylinder builds an upright cylinder centered on the origin
func MakeCylinder(radius, height float64, segments int, c Color3) *Mesh3D {
	m := NewMesh()
	if segments < 6 {
		segments = 6
	}
	hh := height / 2
	top := mgl64.Vec3{0, hh, 0}
	bot := mgl64.Vec3{0, -hh, 0}
	up := mgl64.Vec3{0, 1, 0}
	down := mgl64.Vec3{0, -1, 0}

	for i := 0; i < segments; i++ {
		a0 := float64(i) / float64(segments) * 2 * math.Pi
		a1 := float64(i+1) / float64(segments) * 2 * math.Pi
		x0, z0 := radius*math.Cos(a0), radius*math.Sin(a0)
		x1, z1 := radius*math.Cos(a1), radius*math.Sin(a1)

		n0 := mgl64.Vec3{math.Cos(a0), 0, math.Sin(a0)}
		n1 := mgl64.Vec3{math.Cos(a1), 0, math.Sin(a1)}
		sc := c.Scale(0.8 + 0.2*float64(i%2))

		m.AddQuad(
			Vertex3D{Pos: mgl64.Vec3{x0, -hh, z0}, Normal: n0, Color: sc},
			Vertex3D{Pos: mgl64.Vec3{x1, -hh, z1}, Normal: n1, Color: sc},
			Vertex3D{Pos: mgl64.Vec3{x1, hh, z1}, Normal: n1, Color: sc},
			Vertex3D{Pos: mgl64.Vec3{x0, hh, z0}, Normal: n0, Color: sc},
		)
		m.AddTriangle(
			Vertex3D{Pos: top, Normal: up, Color: c},
			Vertex3D{Pos: mgl64.Vec3{x0, hh, z0}, Normal: up, Color: c},
			Vertex3D{Pos: mgl64.Vec3{x1, hh, z1}, Normal: up, Color: c},
		)
		bc := c.Scale(0.6)
		m.AddTriangle(
			Vertex3D{Pos: bot, Normal: down, Color: bc},
			Vertex3D{Pos: mgl64.Vec3{x1, -hh, z1}, Normal: down, Color: bc},
			Vertex3D{Pos: mgl64.Vec3{x0, -hh, z0}, Normal: down, Color: bc},
		)
	}
	return m
}

// MakeCone builds an upright cone centered on the origin, tip up
func MakeCone(radius, height float64, segments int, c Color3) *Mesh3D {
	m := NewMesh()
	if segments < 4 {
		segments = 4
	}
	hh := height / 2
	tip := mgl64.Vec3{0, hh, 0}
	bot := mgl64.Vec3{0, -hh, 0}
	down := mgl64.Vec3{0, -1, 0}
	slopeY := radius / height

	for i := 0; i < segments; i++ {
		a0 := float64(i) / float64(segments) * 2 * math.Pi
		a1 := float64(i+1) / float64(segments) * 2 * math.Pi
		p0 := mgl64.Vec3{radius * math.Cos(a0), -hh, radius * math.Sin(a0)}
		p1 := mgl64.Vec3{radius * math.Cos(a1), -hh, radius * math.Sin(a1)}

		n0 := mgl64.Vec3{math.Cos(a0), slopeY, math.Sin(a0)}.Normalize()
		n1 := mgl64.Vec3{math.Cos(a1), slopeY, math.Sin(a1)}.Normalize()
		nTip := n0.Add(n1).Normalize()
		sc := c.Scale(0.8 + 0.2*float64(i%2))

		m.AddTriangle(
			Vertex3D{Pos: p0, Normal: n0, Color: sc},
			Vertex3D{Pos: p1, Normal: n1, Color: sc},
			Vertex3D{Pos: tip, Normal: nTip, Color: sc},
		)
		bc := c.Scale(0.5)
		m.AddTriangle(
			Vertex3D{Pos: bot, Normal: down, Color: bc},
			Vertex3D{Pos: p1, Normal: down, Color: bc},
			Vertex3D{Pos: p0, Normal: down, Color: bc},
		)
	}
	return m
}
