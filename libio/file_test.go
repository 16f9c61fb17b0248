package libio_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"softibl/libio"
	"softibl/librender"
)

func writeChain(t *testing.T, filename string, chain *libio.MipChain) {
	t.Helper()
	file, err := libio.CreateFile(filename)
	if err != nil {
		t.Fatal(err)
	}
	if err := libio.EncodeMipChain(file, chain); err != nil {
		t.Fatal(err)
	}
	if err := file.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestReadCubeFiles(t *testing.T) {
	dir := t.TempDir()

	var names [6]string
	for i, face := range librender.CubeFaces {
		names[i] = libio.CubeFaceFileName("probe", face)
		if i%2 == 1 {
			names[i] += ".lz4"
		}
		writeChain(t, filepath.Join(dir, names[i]), testChain())
	}

	manifest := filepath.Join(dir, "probe.cube")
	file, err := os.Create(manifest)
	if err != nil {
		t.Fatal(err)
	}
	if err := libio.WriteCubeManifest(file, names); err != nil {
		t.Fatal(err)
	}
	file.Close()

	chains, err := libio.ReadCubeFiles(manifest)
	if err != nil {
		t.Fatal(err)
	}
	expected := testChain()
	for i, chain := range chains {
		if len(chain.Levels) != 3 || chain.Levels[2].Pix[0] != expected.Levels[2].Pix[0] {
			t.Errorf("face %d should decode to the written chain\n", i)
		}
	}

	// a face with another size
	other := &libio.MipChain{Width: 1, Height: 1, Format: librender.FormatRGB32F,
		Levels: []*librender.MipLevel{librender.NewMipLevel(0, 1, 1, 3)}}
	writeChain(t, filepath.Join(dir, names[3]), other)
	if _, err := libio.ReadCubeFiles(manifest); !errors.Is(err, libio.ErrMipDimensions) {
		t.Errorf("error should be %v but was %v\n", libio.ErrMipDimensions, err)
	}
}
