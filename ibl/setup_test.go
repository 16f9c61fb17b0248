package ibl_test

import (
	"testing"

	"softibl/librender"
)

// failingDevice fails every render target allocation and remembers the textures it created.
type failingDevice struct {
	*librender.SoftDevice
	created []*librender.Texture
}

func (dev *failingDevice) CreateCubeTexture(size, levels int, format librender.Format) (*librender.Texture, error) {
	tex, err := dev.SoftDevice.CreateCubeTexture(size, levels, format)
	if err == nil {
		dev.created = append(dev.created, tex)
	}
	return tex, err
}

func (dev *failingDevice) CreateTexture2D(width, height, levels int, format librender.Format) (*librender.Texture, error) {
	tex, err := dev.SoftDevice.CreateTexture2D(width, height, levels, format)
	if err == nil {
		dev.created = append(dev.created, tex)
	}
	return tex, err
}

func (dev *failingDevice) CreateRenderTarget(width, height int, format librender.Format) (*librender.RenderTarget, error) {
	return nil, librender.ErrAllocation
}

func constantCube(t *testing.T, dev librender.Device, size, levels int, color [3]float32) *librender.Texture {
	t.Helper()
	tex, err := dev.CreateCubeTexture(size, levels, librender.FormatRGB32F)
	if err != nil {
		t.Fatal(err)
	}
	pix := make([]float32, size*size*3)
	for i := range pix {
		pix[i] = color[i%3]
	}
	for _, face := range librender.CubeFaces {
		if err := dev.Upload(tex, face, 0, pix); err != nil {
			t.Fatal(err)
		}
	}
	if err := dev.GenerateMipmaps(tex); err != nil {
		t.Fatal(err)
	}
	return tex
}

func checkConstant(t *testing.T, tex *librender.Texture, expected [3]float32, tolerance float32) {
	t.Helper()
	for _, face := range librender.CubeFaces {
		for l := 0; l < tex.Levels(); l++ {
			pix := tex.Level(face, l).Pix
			for i, v := range pix {
				should := expected[i%3]
				if d := v - should; d > tolerance || d < -tolerance {
					t.Errorf("face %v level %d float %d should be %.4f but was %.4f\n", face, l, i, should, v)
					return
				}
			}
		}
	}
}
