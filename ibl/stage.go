package ibl

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"softibl/librender"
)

var ErrNoProxyMesh = errors.New("no proxy mesh")

// MaxPrefilterLevels is the largest number of roughness buckets of a prefiltered cube.
const MaxPrefilterLevels = 5

// renderCube draws the proxy mesh once per face and copies each result into level of dst.
func renderCube(dev librender.Device, rt *librender.RenderTarget, dst *librender.Texture, level int, proxy *librender.Mesh, shader librender.FragmentShader) error {
	dev.BindRenderTarget(rt)
	defer dev.BindRenderTarget(nil)

	proj := librender.CaptureProjection()
	for _, face := range librender.CubeFaces {
		dev.SetTransforms(mgl32.Ident4(), face.View(), proj)
		if err := dev.Draw(proxy, shader); err != nil {
			return fmt.Errorf("could not draw face %v: %w", face, err)
		}
		if err := dev.CopyRenderTarget(rt, dst, face, level); err != nil {
			return fmt.Errorf("could not copy face %v: %w", face, err)
		}
	}
	return nil
}

func checkProxy(proxy *librender.Mesh) error {
	if proxy.Empty() {
		return ErrNoProxyMesh
	}
	return nil
}

func writeColor(out []float32, c [4]float32) {
	for i := range out {
		out[i] = c[i]
	}
}
