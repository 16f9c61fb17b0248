package ibl

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"softibl/librender"
)

type Workflow int

const (
	// WorkflowMetallic derives F0 from the base color and a metalness factor.
	WorkflowMetallic = Workflow(iota)
	// WorkflowSpecular takes F0 directly from a specular color.
	WorkflowSpecular
)

// dielectric reflectance at normal incidence
var dielectricF0 = mgl32.Vec3{0.04, 0.04, 0.04}

type Surface struct {
	Workflow Workflow
	// Albedo is the base color for WorkflowMetallic and the diffuse color for WorkflowSpecular.
	Albedo   mgl32.Vec3
	Metallic float32
	Specular mgl32.Vec3

	Roughness float32
	// Occlusion is the fraction of ambient light blocked, 0 leaves the surface unoccluded.
	Occlusion float32
}

// setup returns the diffuse color and the reflectance at normal incidence.
func (s *Surface) setup() (diffuse, f0 mgl32.Vec3) {
	switch s.Workflow {
	case WorkflowSpecular:
		maxSpecular := math32.Max(s.Specular[0], math32.Max(s.Specular[1], s.Specular[2]))
		return s.Albedo.Mul(1 - maxSpecular), s.Specular
	default:
		metallic := clamp01(s.Metallic)
		f0 = dielectricF0.Mul(1 - metallic).Add(s.Albedo.Mul(metallic))
		return s.Albedo.Mul(1 - metallic), f0
	}
}

// Environment groups the artifacts of one probe with the global BRDF lookup table.
type Environment struct {
	Irradiance *librender.Texture
	Prefilter  *librender.Texture
	BrdfLut    *librender.Texture
}

// Shade evaluates the ambient lighting of a surface point with the split sum approximation.
// n is the surface normal and v points from the surface towards the viewer.
func Shade(env Environment, surface Surface, n, v mgl32.Vec3) mgl32.Vec3 {
	n = n.Normalize()
	v = v.Normalize()
	nDotV := math32.Max(n.Dot(v), 0)
	roughness := clamp01(surface.Roughness)
	diffuseColor, f0 := surface.setup()

	f := FresnelSchlickRoughness(nDotV, f0, roughness)

	irr := librender.SampleCube(env.Irradiance, librender.LinearClamp, n, 0)
	diffuse := mgl32.Vec3{
		irr[0] * diffuseColor[0] * (1 - f[0]),
		irr[1] * diffuseColor[1] * (1 - f[1]),
		irr[2] * diffuseColor[2] * (1 - f[2]),
	}

	r := reflect(v.Mul(-1), n)
	maxLod := float32(env.Prefilter.Levels() - 1)
	radiance := librender.SampleCube(env.Prefilter, librender.TrilinearClamp, r, roughness*maxLod)
	brdf := librender.Sample2D(env.BrdfLut, librender.LinearClamp, mgl32.Vec2{nDotV, roughness}, 0)

	visibility := 1 - clamp01(surface.Occlusion)
	var color mgl32.Vec3
	for i := range color {
		specular := radiance[i] * (f[i]*brdf[0] + brdf[1])
		color[i] = (diffuse[i] + specular) * visibility
	}
	return color
}
