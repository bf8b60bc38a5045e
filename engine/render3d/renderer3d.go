package render3d

import (
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Renderer3D draws flat-shaded meshes through an isometric camera
type Renderer3D struct {
	Camera   *Camera3D
	Lighting LightingSetup

	whiteImg *ebiten.Image
	vertices []ebiten.Vertex
	indices  []uint16
}

// NewRenderer3D creates the 3D renderer
func NewRenderer3D(screenW, screenH int) *Renderer3D {
	r := &Renderer3D{
		Camera:   NewCamera3D(screenW, screenH),
		Lighting: DefaultLighting(),
	}

	// small white image for colored triangle rendering
	r.whiteImg = ebiten.NewImage(4, 4)
	r.whiteImg.Fill(color.White)

	return r
}

// DrawMesh projects mesh, placed by model, and draws it batched
func (r *Renderer3D) DrawMesh(screen *ebiten.Image, mesh *Mesh3D, model mgl64.Mat4) {
	if mesh == nil || len(mesh.Triangles) == 0 {
		return
	}

	sw := float64(r.Camera.ScreenW)
	sh := float64(r.Camera.ScreenH)
	r.vertices = r.vertices[:0]
	r.indices = r.indices[:0]

	for _, tri := range mesh.Triangles {
		var vs [3]ebiten.Vertex
		allOffScreen := true

		for i := 0; i < 3; i++ {
			v := tri.V[i]
			normal := mgl64.TransformNormal(v.Normal, model)
			if normal.Len() > 1e-10 {
				normal = normal.Normalize()
			}
			lit := r.Lighting.ComputeLighting(normal, v.Color)

			sx, sy, _ := r.Camera.Project(mgl64.TransformCoordinate(v.Pos, model))
			if sx >= -100 && sx <= sw+100 && sy >= -100 && sy <= sh+100 {
				allOffScreen = false
			}

			vs[i] = ebiten.Vertex{
				DstX:   float32(sx),
				DstY:   float32(sy),
				SrcX:   1,
				SrcY:   1,
				ColorR: float32(lit.R),
				ColorG: float32(lit.G),
				ColorB: float32(lit.B),
				ColorA: 1,
			}
		}

		if allOffScreen {
			continue
		}

		// Back-face culling (screen-space winding order, Y-down)
		ax := vs[1].DstX - vs[0].DstX
		ay := vs[1].DstY - vs[0].DstY
		bx := vs[2].DstX - vs[0].DstX
		by := vs[2].DstY - vs[0].DstY
		if ax*by-ay*bx < 0.5 {
			continue
		}

		base := uint16(len(r.vertices))
		r.vertices = append(r.vertices, vs[0], vs[1], vs[2])
		r.indices = append(r.indices, base, base+1, base+2)

		// Flush if approaching uint16 limit
		if len(r.vertices) >= 65000 {
			screen.DrawTriangles(r.vertices, r.indices, r.whiteImg, nil)
			r.vertices = r.vertices[:0]
			r.indices = r.indices[:0]
		}
	}

	if len(r.vertices) > 0 {
		screen.DrawTriangles(r.vertices, r.indices, r.whiteImg, nil)
	}
}

// DrawLine draws a world-space segment
func (r *Renderer3D) DrawLine(screen *ebiten.Image, a, b mgl64.Vec3, width float32, c color.Color) {
	ax, ay, _ := r.Camera.Project(a)
	bx, by, _ := r.Camera.Project(b)
	vector.StrokeLine(screen, float32(ax), float32(ay), float32(bx), float32(by), width, c, false)
}

// DrawRing draws a circle of radius on the ground around center
func (r *Renderer3D) DrawRing(screen *ebiten.Image, center mgl64.Vec3, radius float64, c color.Color) {
	const segments = 48
	for i := 0; i < segments; i++ {
		a0 := float64(i) / segments * 2 * math.Pi
		a1 := float64(i+1) / segments * 2 * math.Pi
		p0 := center.Add(mgl64.Vec3{radius * math.Cos(a0), 0, radius * math.Sin(a0)})
		p1 := center.Add(mgl64.Vec3{radius * math.Cos(a1), 0, radius * math.Sin(a1)})
		r.DrawLine(screen, p0, p1, 1, c)
	}
}

// DrawGrid draws ground lines every step units within half extent of the
// camera target
func (r *Renderer3D) DrawGrid(screen *ebiten.Image, extent, step float64) {
	gridColor := color.RGBA{255, 255, 255, 30}
	t := r.Camera.Target
	x0 := math.Floor((t[0]-extent)/step) * step
	z0 := math.Floor((t[2]-extent)/step) * step
	for x := x0; x <= t[0]+extent; x += step {
		r.DrawLine(screen, mgl64.Vec3{x, 0, t[2] - extent}, mgl64.Vec3{x, 0, t[2] + extent}, 1, gridColor)
	}
	for z := z0; z <= t[2]+extent; z += step {
		r.DrawLine(screen, mgl64.Vec3{t[0] - extent, 0, z}, mgl64.Vec3{t[0] + extent, 0, z}, 1, gridColor)
	}
}
