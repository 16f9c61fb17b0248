package libio_test

import (
	"testing"

	"softibl/libio"
)

func TestFloatImageToChannels(t *testing.T) {
	img := libio.NewFloatImage([]float32{1, 2, 3, 4}, 2, 2, 1)

	rgb := img.ToChannels(3, 0, 0, 9)
	expected := []float32{1, 2, 9, 3, 4, 9}
	for i := range expected {
		if rgb.Pix[i] != expected[i] {
			t.Errorf("float %d should be %.1f but was %.1f\n", i, expected[i], rgb.Pix[i])
		}
	}

	r := rgb.ToChannels(1)
	if len(r.Pix) != 2 || r.Pix[0] != 1 || r.Pix[1] != 3 {
		t.Errorf("single channel image should be [1 3] but was %v\n", r.Pix)
	}

	if same := img.ToChannels(2); same != img {
		t.Error("unchanged channel count should return the same image")
	}
}

func TestFloatImageToRGBA(t *testing.T) {
	img := libio.NewFloatImage([]float32{0.25, 4, -1, 0.5, 0.5, 0.5}, 3, 2, 1)

	rgba := img.ToRGBA(1, 1)
	if c := rgba.RGBAAt(0, 0); c.R != 64 || c.G != 0xff || c.B != 0 || c.A != 0xff {
		t.Errorf("first pixel should be (64, 255, 0, 255) but was %v\n", c)
	}

	img.Reinhard()
	if img.Pix[0] != 0.2 || img.Pix[1] != 0.8 {
		t.Errorf("reinhard of (0.25, 4) should be (0.2, 0.8) but was (%.4f, %.4f)\n", img.Pix[0], img.Pix[1])
	}
}
