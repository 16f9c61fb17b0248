package libscn

import (
	"fmt"
	"io"

	"softibl/libio"
	"softibl/librender"
)

func writeRgbe(w io.Writer, lvl *librender.MipLevel) error {
	img := libio.NewFloatImage(lvl.Pix, lvl.Channels, lvl.Width, lvl.Height).ToChannels(3)
	return libio.EncodeRgbe(w, libio.NewRgbeImage(img.Width, img.Height, img.Pix))
}

// writeDebug stores every face and level as RGBE and a tone mapped strip of level 0.
func (m *Manager) writeDebug(base string, tex *librender.Texture) error {
	faces := []librender.CubeFace{0}
	if tex.Desc().Cube {
		faces = librender.CubeFaces[:]
	}

	var strip []*librender.MipLevel
	for _, face := range faces {
		for l := 0; l < tex.Levels(); l++ {
			name := fmt.Sprintf("%s_m%d.hdr", base, l)
			if tex.Desc().Cube {
				name = fmt.Sprintf("%s_%v_m%d.hdr", base, face, l)
			}
			if err := m.writeFile(name, func(w io.Writer) error {
				return writeRgbe(w, tex.Level(face, l))
			}); err != nil {
				return err
			}
		}
		strip = append(strip, tex.Level(face, 0))
	}

	preview := libio.ComposePreview(strip, m.cfg.previewOptions())
	return m.writeFile(base+".png", func(w io.Writer) error {
		return libio.EncodePreview(w, preview)
	})
}

func (m *Manager) writeFile(name string, write func(w io.Writer) error) (err error) {
	file, err := m.cache.createFile(m.cache.path(name))
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()
	return write(file)
}
