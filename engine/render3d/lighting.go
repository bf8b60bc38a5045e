package render3d

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// DirectionalLight represents a sun-like light
type DirectionalLight struct {
	Direction mgl64.Vec3 // normalized direction TO the light (from surface)
	Color     Color3
	Intensity float64
}

// AmbientLight provides fill lighting
type AmbientLight struct {
	Color     Color3
	Intensity float64
}

// LightingSetup contains the scene lighting
type LightingSetup struct {
	Sun     DirectionalLight
	Fill    DirectionalLight // secondary fill light
	Ambient AmbientLight
	HasFill bool
}

// DefaultLighting returns a bright daylight setup
func DefaultLighting() LightingSetup {
	return LightingSetup{
		Sun: DirectionalLight{
			Direction: mgl64.Vec3{-0.4, 0.85, -0.35}.Normalize(),
			Color:     Color3{1.0, 0.98, 0.92},
			Intensity: 1.1,
		},
		Fill: DirectionalLight{
			Direction: mgl64.Vec3{0.5, 0.4, 0.6}.Normalize(),
			Color:     Color3{0.7, 0.8, 1.0},
			Intensity: 0.45,
		},
		Ambient: AmbientLight{
			Color:     Color3{0.75, 0.78, 0.85},
			Intensity: 0.60,
		},
		HasFill: true,
	}
}

// ComputeLighting calculates the lit color for a surface
func (ls *LightingSetup) ComputeLighting(normal mgl64.Vec3, baseColor Color3) Color3 {
	ambient := baseColor.Mul(ls.Ambient.Color).Scale(ls.Ambient.Intensity)

	// Lambert
	ndotl := math.Max(0, normal.Dot(ls.Sun.Direction))
	result := ambient.Add(baseColor.Mul(ls.Sun.Color).Scale(ndotl * ls.Sun.Intensity))

	if ls.HasFill {
		ndotf := math.Max(0, normal.Dot(ls.Fill.Direction))
		result = result.Add(baseColor.Mul(ls.Fill.Color).Scale(ndotf * ls.Fill.Intensity))
	}
	return result
}
