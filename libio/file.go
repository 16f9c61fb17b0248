package libio

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pierrec/lz4/v4"

	"softibl/librender"
)

// IsCompressed reports whether a file name carries the lz4 suffix.
func IsCompressed(filename string) bool {
	return strings.HasSuffix(filename, ".lz4")
}

// OpenFile opens a file for reading, decompressing it when it has the lz4 suffix.
func OpenFile(filename string) (io.ReadCloser, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	if !IsCompressed(filename) {
		return file, nil
	}
	return struct {
		io.Reader
		io.Closer
	}{lz4.NewReader(file), file}, nil
}

type lz4File struct {
	*lz4.Writer
	file *os.File
}

func (f *lz4File) Close() error {
	err := f.Writer.Close()
	if cerr := f.file.Close(); err == nil {
		err = cerr
	}
	return err
}

// CreateFile creates or truncates a file, compressing it when it has the lz4 suffix.
// Close flushes the compressed stream.
func CreateFile(filename string) (io.WriteCloser, error) {
	file, err := os.Create(filename)
	if err != nil {
		return nil, err
	}
	if !IsCompressed(filename) {
		return file, nil
	}
	lzw := lz4.NewWriter(file)
	if err := lzw.Apply(lz4.CompressionLevelOption(lz4.Fast)); err != nil {
		file.Close()
		return nil, err
	}
	return &lz4File{Writer: lzw, file: file}, nil
}

func ReadMipChainFile(filename string) (*MipChain, error) {
	file, err := OpenFile(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	chain, err := DecodeMipChain(file)
	if err != nil {
		return nil, fmt.Errorf("could not decode %q: %w", filename, err)
	}
	return chain, nil
}

// ReadCubeFiles decodes the six faces listed by a manifest, relative to its directory.
// All faces must share size, format and level count.
func ReadCubeFiles(manifest string) (chains [6]*MipChain, err error) {
	file, err := os.Open(manifest)
	if err != nil {
		return chains, err
	}
	names, err := ReadCubeManifest(file)
	file.Close()
	if err != nil {
		return chains, fmt.Errorf("could not read manifest %q: %w", manifest, err)
	}

	for i, name := range names {
		chains[i], err = ReadMipChainFile(filepath.Join(filepath.Dir(manifest), name))
		if err != nil {
			return chains, err
		}
	}

	first := chains[0]
	for i, chain := range chains {
		if chain.Width != first.Width || chain.Height != first.Height ||
			chain.Format != first.Format || len(chain.Levels) != len(first.Levels) {
			return chains, fmt.Errorf("%w: face %v of %q differs from face %v",
				ErrMipDimensions, librender.CubeFaces[i], manifest, librender.CubeFaces[0])
		}
	}
	return chains, nil
}
