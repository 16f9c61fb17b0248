package libscn

import (
	"io"
	"os"
	"path/filepath"

	"softibl/libio"
	"softibl/librender"
)

// CacheVersion prefixes every cache path, bump it when an artifact changes meaning.
const CacheVersion = "v1"

const brdfLutName = "brdf_lut"

type cache struct {
	dir      string
	compress bool
}

func newCache(cfg Config) *cache {
	return &cache{
		dir:      filepath.Join(cfg.CacheDir, CacheVersion),
		compress: cfg.Compress,
	}
}

func (c *cache) path(name string) string {
	return filepath.Join(c.dir, name)
}

func exists(filename string) bool {
	_, err := os.Stat(filename)
	return err == nil
}

func (c *cache) manifestPath(base string) string {
	return c.path(base + ".cube")
}

// brdfPath returns the existing LUT file, or the file to create.
func (c *cache) brdfPath() (filename string, found bool) {
	plain := c.path(brdfLutName + ".ywtd")
	for _, filename := range []string{plain, plain + ".lz4"} {
		if exists(filename) {
			return filename, true
		}
	}
	if c.compress {
		return plain + ".lz4", false
	}
	return plain, false
}

func (c *cache) createFile(filename string) (io.WriteCloser, error) {
	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return nil, err
	}
	return libio.CreateFile(filename)
}

func (c *cache) fileName(name string) string {
	if c.compress {
		return name + ".lz4"
	}
	return name
}

func (c *cache) writeMipChain(filename string, chain *libio.MipChain) (err error) {
	file, err := c.createFile(filename)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()
	return libio.EncodeMipChain(file, chain)
}

func uploadChain(dev librender.Device, tex *librender.Texture, face librender.CubeFace, chain *libio.MipChain) error {
	for l, lvl := range chain.Levels {
		if err := dev.Upload(tex, face, l, lvl.Pix); err != nil {
			return err
		}
	}
	return nil
}

// loadCube reads the six face files named by a manifest into a new cube texture.
func (c *cache) loadCube(dev librender.Device, manifest string) (*librender.Texture, error) {
	chains, err := libio.ReadCubeFiles(manifest)
	if err != nil {
		return nil, err
	}

	first := chains[0]
	tex, err := dev.CreateCubeTexture(first.Width, len(first.Levels), first.Format)
	if err != nil {
		return nil, err
	}
	for i, chain := range chains {
		if err := uploadChain(dev, tex, librender.CubeFaces[i], chain); err != nil {
			tex.Release()
			return nil, err
		}
	}
	return tex, nil
}

// saveCube writes the face files first and the manifest last, so a manifest
// only exists for a complete cube.
func (c *cache) saveCube(base string, tex *librender.Texture) error {
	var names [6]string
	for i, face := range librender.CubeFaces {
		names[i] = c.fileName(libio.CubeFaceFileName(base, face))
		if err := c.writeMipChain(c.path(names[i]), libio.NewMipChain(tex, face)); err != nil {
			return err
		}
	}

	manifest := c.manifestPath(base)
	file, err := os.Create(manifest)
	if err != nil {
		return err
	}
	if err := libio.WriteCubeManifest(file, names); err != nil {
		file.Close()
		os.Remove(manifest)
		return err
	}
	return file.Close()
}

func (c *cache) load2D(dev librender.Device, filename string) (*librender.Texture, error) {
	chain, err := libio.ReadMipChainFile(filename)
	if err != nil {
		return nil, err
	}
	tex, err := dev.CreateTexture2D(chain.Width, chain.Height, len(chain.Levels), chain.Format)
	if err != nil {
		return nil, err
	}
	if err := uploadChain(dev, tex, 0, chain); err != nil {
		tex.Release()
		return nil, err
	}
	return tex, nil
}

func (c *cache) save2D(filename string, tex *librender.Texture) error {
	return c.writeMipChain(filename, libio.NewMipChain(tex, 0))
}
