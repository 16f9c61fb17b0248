package librender

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

type Mesh struct {
	Positions []mgl32.Vec3
	Indices   []uint32
}

// NewSphere creates a UV sphere centered at the origin.
func NewSphere(rings, segments int, radius float32) *Mesh {
	if rings < 2 {
		rings = 2
	}
	if segments < 3 {
		segments = 3
	}

	positions := make([]mgl32.Vec3, 0, (rings+1)*(segments+1))
	for r := 0; r <= rings; r++ {
		theta := float32(r) / float32(rings) * math32.Pi
		for s := 0; s <= segments; s++ {
			phi := float32(s) / float32(segments) * 2 * math32.Pi
			positions = append(positions, mgl32.Vec3{
				radius * math32.Sin(theta) * math32.Cos(phi),
				radius * math32.Cos(theta),
				radius * math32.Sin(theta) * math32.Sin(phi),
			})
		}
	}

	indices := make([]uint32, 0, rings*segments*6)
	stride := uint32(segments + 1)
	for r := uint32(0); r < uint32(rings); r++ {
		for s := uint32(0); s < uint32(segments); s++ {
			a := r*stride + s
			b := a + stride
			indices = append(indices, a, b, a+1, a+1, b, b+1)
		}
	}

	return &Mesh{Positions: positions, Indices: indices}
}

func (mesh *Mesh) Empty() bool {
	return mesh == nil || len(mesh.Positions) == 0 || len(mesh.Indices) < 3
}

// BoundingSphere returns the center of the axis aligned bounds and the distance
// to the farthest vertex.
func (mesh *Mesh) BoundingSphere() (center mgl32.Vec3, radius float32) {
	if len(mesh.Positions) == 0 {
		return
	}
	min, max := mesh.Positions[0], mesh.Positions[0]
	for _, p := range mesh.Positions[1:] {
		for i := 0; i < 3; i++ {
			min[i] = math32.Min(min[i], p[i])
			max[i] = math32.Max(max[i], p[i])
		}
	}
	center = min.Add(max).Mul(0.5)
	for _, p := range mesh.Positions {
		radius = math32.Max(radius, p.Sub(center).Len())
	}
	return
}
