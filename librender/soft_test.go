package librender_test

import (
	"errors"
	"math"
	"softibl/librender"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestCubeFaceUV(t *testing.T) {
	size := 8
	for _, face := range librender.CubeFaces {
		for y := 0; y < size; y++ {
			for x := 0; x < size; x++ {
				dir := librender.CubeTexelDirection(face, x, y, size)
				f, u, v := librender.CubeFaceUV(dir)
				if f != face {
					t.Fatalf("texel %d,%d of face %v mapped to face %v", x, y, face, f)
				}
				px, py := u*float32(size)-0.5, v*float32(size)-0.5
				if math.Abs(float64(px)-float64(x)) > 1e-4 || math.Abs(float64(py)-float64(y)) > 1e-4 {
					t.Errorf("texel %d,%d of face %v mapped to %.4f,%.4f", x, y, face, px, py)
				}
			}
		}
	}
}

func TestDrawMatchesCubeSampling(t *testing.T) {
	dev := librender.NewSoftDevice()
	size := 8
	cube, err := dev.CreateCubeTexture(size, 1, librender.FormatRGB32F)
	if err != nil {
		t.Fatal(err)
	}
	rt, err := dev.CreateRenderTarget(size, size, librender.FormatRGB32F)
	if err != nil {
		t.Fatal(err)
	}
	sphere := librender.NewSphere(8, 16, 1)

	dev.BindRenderTarget(rt)
	for _, face := range librender.CubeFaces {
		dev.SetTransforms(mgl32.Ident4(), face.View(), librender.CaptureProjection())
		err = dev.Draw(sphere, func(frag *librender.Fragment, out []float32) {
			n := frag.Local.Normalize()
			copy(out, n[:])
		})
		if err != nil {
			t.Fatal(err)
		}
		if err = dev.CopyRenderTarget(rt, cube, face, 0); err != nil {
			t.Fatal(err)
		}
	}

	for _, face := range librender.CubeFaces {
		for y := 0; y < size; y++ {
			for x := 0; x < size; x++ {
				dir := librender.CubeTexelDirection(face, x, y, size).Normalize()
				got := librender.SampleCube(cube, librender.NearestClampNoMip, dir, 0)
				for c := 0; c < 3; c++ {
					if math.Abs(float64(got[c]-dir[c])) > 1e-3 {
						t.Fatalf("face %v texel %d,%d should be %v but was %v", face, x, y, dir, got)
					}
				}
			}
		}
	}
}

func TestDrawRequiresTarget(t *testing.T) {
	dev := librender.NewSoftDevice()
	err := dev.DrawFullscreen(func(frag *librender.Fragment, out []float32) {})
	if !errors.Is(err, librender.ErrNoRenderTarget) {
		t.Errorf("expected ErrNoRenderTarget, got %v", err)
	}

	rt, _ := dev.CreateRenderTarget(2, 2, librender.FormatR32F)
	dev.BindRenderTarget(rt)
	if err := dev.Draw(&librender.Mesh{}, func(frag *librender.Fragment, out []float32) {}); err == nil {
		t.Error("expected drawing an empty mesh to fail")
	}
}

func TestDrawFullscreenUV(t *testing.T) {
	dev := librender.NewSoftDevice()
	rt, err := dev.CreateRenderTarget(4, 2, librender.FormatRG32F)
	if err != nil {
		t.Fatal(err)
	}
	dev.BindRenderTarget(rt)
	err = dev.DrawFullscreen(func(frag *librender.Fragment, out []float32) {
		out[0] = frag.UV[0]
		out[1] = frag.UV[1]
	})
	if err != nil {
		t.Fatal(err)
	}

	texel := rt.Color().Texel(3, 1)
	if texel[0] != 0.875 || texel[1] != 0.75 {
		t.Errorf("texel 3,1 should have uv (0.875, 0.75) but was %v", texel)
	}
}

func TestCreateTextureErrors(t *testing.T) {
	dev := librender.NewSoftDevice()
	dev.MaxTextureSize = 64

	if _, err := dev.CreateCubeTexture(0, 1, librender.FormatRGB32F); !errors.Is(err, librender.ErrAllocation) {
		t.Errorf("zero size: expected ErrAllocation, got %v", err)
	}
	if _, err := dev.CreateCubeTexture(128, 1, librender.FormatRGB32F); !errors.Is(err, librender.ErrAllocation) {
		t.Errorf("oversized: expected ErrAllocation, got %v", err)
	}
	if _, err := dev.CreateTexture2D(8, 8, 5, librender.FormatRGB32F); !errors.Is(err, librender.ErrAllocation) {
		t.Errorf("too many levels: expected ErrAllocation, got %v", err)
	}
	if _, err := dev.CreateTexture2D(8, 8, 1, librender.Format(5)); !errors.Is(err, librender.ErrInvalidFormat) {
		t.Errorf("bad format: expected ErrInvalidFormat, got %v", err)
	}

	tex, err := dev.CreateTexture2D(8, 4, 4, librender.FormatRGBA32F)
	if err != nil {
		t.Fatal(err)
	}
	expected := [][2]int{{8, 4}, {4, 2}, {2, 1}, {1, 1}}
	for l, dim := range expected {
		lvl := tex.Level(0, l)
		if lvl.Width != dim[0] || lvl.Height != dim[1] {
			t.Errorf("level %d should be %dx%d but was %dx%d", l, dim[0], dim[1], lvl.Width, lvl.Height)
		}
	}
}

func TestGenerateMipmaps(t *testing.T) {
	dev := librender.NewSoftDevice()
	tex, err := dev.CreateTexture2D(4, 4, 3, librender.FormatR32F)
	if err != nil {
		t.Fatal(err)
	}
	pix := make([]float32, 16)
	for i := range pix {
		pix[i] = float32(i)
	}
	if err := dev.Upload(tex, 0, 0, pix); err != nil {
		t.Fatal(err)
	}
	if err := dev.GenerateMipmaps(tex); err != nil {
		t.Fatal(err)
	}

	lvl1 := tex.Level(0, 1).Pix
	expected := []float32{2.5, 4.5, 10.5, 12.5}
	for i := range expected {
		if lvl1[i] != expected[i] {
			t.Errorf("level 1 texel %d should be %.2f but was %.2f", i, expected[i], lvl1[i])
		}
	}
	if lvl2 := tex.Level(0, 2).Pix[0]; lvl2 != 7.5 {
		t.Errorf("level 2 should be 7.50 but was %.2f", lvl2)
	}

	if err := dev.Upload(tex, 0, 1, pix); err == nil {
		t.Error("expected upload with mismatched size to fail")
	}
	tex.Release()
	if err := dev.GenerateMipmaps(tex); !errors.Is(err, librender.ErrReleased) {
		t.Errorf("expected ErrReleased, got %v", err)
	}
}

func TestSampling(t *testing.T) {
	dev := librender.NewSoftDevice()
	tex, err := dev.CreateTexture2D(2, 2, 2, librender.FormatR32F)
	if err != nil {
		t.Fatal(err)
	}
	dev.Upload(tex, 0, 0, []float32{0, 1, 0, 1})
	dev.Upload(tex, 0, 1, []float32{4})

	got := librender.Sample2D(tex, librender.LinearClamp, mgl32.Vec2{0.5, 0.5}, 0)
	if got[0] != 0.5 || got[3] != 1 {
		t.Errorf("bilinear sample should be (0.5, _, _, 1) but was %v", got)
	}

	got = librender.Sample2D(tex, librender.TrilinearClamp, mgl32.Vec2{0.5, 0.5}, 0.5)
	if math.Abs(float64(got[0])-2.25) > 1e-6 {
		t.Errorf("trilinear sample should be 2.25 but was %.4f", got[0])
	}

	got = librender.Sample2D(tex, librender.LinearClamp, mgl32.Vec2{0.5, 0.5}, 1)
	if got[0] != 0.5 {
		t.Errorf("lod must be ignored without mip filtering, got %.4f", got[0])
	}

	got = librender.Sample2D(tex, librender.EquirectSampler, mgl32.Vec2{0, 0.25}, 0)
	if got[0] != 0.5 {
		t.Errorf("repeat wrap at the seam should blend both columns, got %.4f", got[0])
	}
}

func TestSphereBounds(t *testing.T) {
	center, radius := librender.NewSphere(8, 16, 2).BoundingSphere()
	if center.Len() > 1e-5 || math.Abs(float64(radius)-2) > 1e-5 {
		t.Errorf("sphere bounds should be (origin, 2) but were (%v, %.4f)", center, radius)
	}
}
