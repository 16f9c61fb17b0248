package ibl

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const pdfEpsilon = 0.0001

func RadicalInverseVdC(bits uint32) float32 {
	bits = (bits << 16) | (bits >> 16)
	bits = ((bits & 0x55555555) << 1) | ((bits & 0xAAAAAAAA) >> 1)
	bits = ((bits & 0x33333333) << 2) | ((bits & 0xCCCCCCCC) >> 2)
	bits = ((bits & 0x0F0F0F0F) << 4) | ((bits & 0xF0F0F0F0) >> 4)
	bits = ((bits & 0x00FF00FF) << 8) | ((bits & 0xFF00FF00) >> 8)
	return float32(bits) * 2.3283064365386963e-10 // / 0x100000000
}

func Hammersley(i, n uint32) mgl32.Vec2 {
	return mgl32.Vec2{float32(i) / float32(n), RadicalInverseVdC(i)}
}

// importanceSampleGGXTangent returns a half vector around +Z.
func importanceSampleGGXTangent(xi mgl32.Vec2, roughness float32) mgl32.Vec3 {
	a := roughness * roughness

	phi := 2.0 * math32.Pi * xi[0]
	cosTheta := math32.Sqrt((1.0 - xi[1]) / (1.0 + (a*a-1.0)*xi[1]))
	sinTheta := math32.Sqrt(math32.Max(1.0-cosTheta*cosTheta, 0))

	// from spherical coordinates to cartesian coordinates
	return mgl32.Vec3{
		math32.Cos(phi) * sinTheta,
		math32.Sin(phi) * sinTheta,
		cosTheta,
	}
}

type tangentFrame struct {
	tangent, bitangent, normal mgl32.Vec3
}

func newTangentFrame(n mgl32.Vec3) tangentFrame {
	up := mgl32.Vec3{0, 0, 1}
	if math32.Abs(n.Z()) >= 0.999 {
		up = mgl32.Vec3{1, 0, 0}
	}
	tangent := up.Cross(n).Normalize()
	return tangentFrame{
		tangent:   tangent,
		bitangent: n.Cross(tangent),
		normal:    n,
	}
}

// toWorld transforms a tangent space vector to world space.
func (f tangentFrame) toWorld(v mgl32.Vec3) mgl32.Vec3 {
	return f.tangent.Mul(v[0]).Add(f.bitangent.Mul(v[1])).Add(f.normal.Mul(v[2]))
}

// ImportanceSampleGGX returns a normalized world space half vector distributed
// around n according to the GGX lobe of the given roughness.
func ImportanceSampleGGX(xi mgl32.Vec2, n mgl32.Vec3, roughness float32) mgl32.Vec3 {
	h := importanceSampleGGXTangent(xi, roughness)
	return newTangentFrame(n).toWorld(h).Normalize()
}

func distributionGGX(nDotH, roughness float32) float32 {
	a := roughness * roughness
	a2 := a * a
	nDotH2 := nDotH * nDotH

	denom := nDotH2*(a2-1.0) + 1.0
	denom = math32.Pi * denom * denom
	if denom < 1e-12 {
		denom = 1e-12
	}
	return a2 / denom
}

// DistributionGGX is the Trowbridge-Reitz normal distribution.
func DistributionGGX(n, h mgl32.Vec3, roughness float32) float32 {
	return distributionGGX(math32.Max(n.Dot(h), 0), roughness)
}

// GeometrySchlickGGX uses k = roughness²/2, the image based lighting remapping.
func GeometrySchlickGGX(nDotV, roughness float32) float32 {
	k := (roughness * roughness) / 2.0
	return nDotV / (nDotV*(1.0-k) + k)
}

func GeometrySmith(n, v, l mgl32.Vec3, roughness float32) float32 {
	nDotV := math32.Max(n.Dot(v), 0)
	nDotL := math32.Max(n.Dot(l), 0)
	return GeometrySchlickGGX(nDotV, roughness) * GeometrySchlickGGX(nDotL, roughness)
}

func FresnelSchlick(cosTheta float32, f0 mgl32.Vec3) mgl32.Vec3 {
	f := math32.Pow(clamp01(1.0-cosTheta), 5.0)
	return mgl32.Vec3{
		f0[0] + (1.0-f0[0])*f,
		f0[1] + (1.0-f0[1])*f,
		f0[2] + (1.0-f0[2])*f,
	}
}

// FresnelSchlickRoughness limits the grazing reflectance of rough surfaces to 1-roughness.
func FresnelSchlickRoughness(cosTheta float32, f0 mgl32.Vec3, roughness float32) mgl32.Vec3 {
	f := math32.Pow(clamp01(1.0-cosTheta), 5.0)
	var result mgl32.Vec3
	for i := range result {
		result[i] = f0[i] + (math32.Max(1.0-roughness, f0[i])-f0[i])*f
	}
	return result
}

// PrefilterSourceLod selects the environment mip level whose texel solid angle
// matches the solid angle covered by one importance sample.
func PrefilterSourceLod(roughness, nDotH, hDotV float32, sampleCount, sourceSize int) float32 {
	if roughness == 0 {
		return 0
	}

	d := distributionGGX(nDotH, roughness)
	pdf := d*nDotH/(4.0*math32.Max(hDotV, pdfEpsilon)) + pdfEpsilon

	saTexel := 4.0 * math32.Pi / (6.0 * float32(sourceSize) * float32(sourceSize))
	saSample := 1.0 / (float32(sampleCount)*pdf + pdfEpsilon)

	return math32.Max(0.5*math32.Log2(saSample/saTexel), 0)
}

func reflect(i, n mgl32.Vec3) mgl32.Vec3 {
	return i.Sub(n.Mul(2 * n.Dot(i)))
}

func clamp01(v float32) float32 {
	return math32.Max(0, math32.Min(v, 1))
}
