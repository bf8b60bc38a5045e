package render3d

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Camera3D is an isometric camera with orthographic projection
type Camera3D struct {
	// World point on the ground plane the camera looks at
	Target mgl64.Vec3

	// Zoom: how many world units fit across the screen
	Zoom float64

	ScreenW, ScreenH int

	Pitch float64 // ~35.264° for true isometric
	Yaw   float64 // 45° for classic isometric

	view     mgl64.Mat4
	proj     mgl64.Mat4
	viewProj mgl64.Mat4
	inverse  mgl64.Mat4
	dirty    bool
}

// NewCamera3D creates an isometric camera
func NewCamera3D(screenW, screenH int) *Camera3D {
	return &Camera3D{
		Zoom:    24,
		ScreenW: screenW,
		ScreenH: screenH,
		Pitch:   mgl64.DegToRad(35.264),
		Yaw:     mgl64.DegToRad(45),
		dirty:   true,
	}
}

// CenterOn centers camera on a ground position
func (c *Camera3D) CenterOn(x, z float64) {
	c.Target = mgl64.Vec3{x, 0, z}
	c.dirty = true
}

// Pan moves the camera in screen-relative direction by a pixel delta
func (c *Camera3D) Pan(dx, dy float64) {
	cosY, sinY := math.Cos(c.Yaw), math.Sin(c.Yaw)
	scale := c.Zoom / float64(c.ScreenW) // world units per pixel
	c.Target[0] += (dx*cosY + dy*sinY) * scale
	c.Target[2] += (-dx*sinY + dy*cosY) * scale
	c.dirty = true
}

// ZoomBy scales the visible area, clamped to a sane range
func (c *Camera3D) ZoomBy(delta float64) {
	c.Zoom = mgl64.Clamp(c.Zoom*(1-delta*0.05), 5, 120)
	c.dirty = true
}

func (c *Camera3D) update() {
	if !c.dirty {
		return
	}
	c.dirty = false

	dist := 100.0 // arbitrary for ortho
	eye := c.Target.Add(mgl64.Vec3{
		dist * math.Sin(c.Yaw) * math.Cos(c.Pitch),
		dist * math.Sin(c.Pitch),
		dist * math.Cos(c.Yaw) * math.Cos(c.Pitch),
	})
	c.view = mgl64.LookAtV(eye, c.Target, mgl64.Vec3{0, 1, 0})

	aspect := float64(c.ScreenW) / float64(c.ScreenH)
	halfW := c.Zoom / 2
	halfH := halfW / aspect
	c.proj = mgl64.Ortho(-halfW, halfW, -halfH, halfH, 0.1, 500)

	c.viewProj = c.proj.Mul4(c.view)
	c.inverse = c.viewProj.Inv()
}

// ViewProj returns the combined view-projection matrix
func (c *Camera3D) ViewProj() mgl64.Mat4 {
	c.update()
	return c.viewProj
}

// Project converts a world point to screen pixels and NDC depth
func (c *Camera3D) Project(p mgl64.Vec3) (float64, float64, float64) {
	c.update()
	clip := mgl64.TransformCoordinate(p, c.viewProj)
	sx := (clip[0]*0.5 + 0.5) * float64(c.ScreenW)
	sy := (1 - (clip[1]*0.5 + 0.5)) * float64(c.ScreenH)
	return sx, sy, clip[2]
}

// ScreenToGround converts screen pixels to a point on the Y=0 plane
func (c *Camera3D) ScreenToGround(sx, sy int) mgl64.Vec3 {
	c.update()
	ndcX := (float64(sx)/float64(c.ScreenW))*2 - 1
	ndcY := (1-float64(sy)/float64(c.ScreenH))*2 - 1

	near := mgl64.TransformCoordinate(mgl64.Vec3{ndcX, ndcY, -1}, c.inverse)
	far := mgl64.TransformCoordinate(mgl64.Vec3{ndcX, ndcY, 1}, c.inverse)

	dir := far.Sub(near)
	if math.Abs(dir[1]) < 1e-10 {
		return mgl64.Vec3{near[0], 0, near[2]}
	}
	t := -near[1] / dir[1]
	return mgl64.Vec3{near[0] + dir[0]*t, 0, near[2] + dir[2]*t}
}
