package libscn

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/exp/slices"

	"softibl/libio"
)

var ErrNoSource = errors.New("no equirectangular source")

// ProbeIndex lists glob patterns of equirectangular sources relative to the index file.
type ProbeIndex struct {
	Hdris []string `json:"hdris"`
}

// SourcePack maps probe names to source files. A probe is named after the
// base name of its file up to the first dot.
type SourcePack struct {
	HdriIndex map[string]string
}

func NewSourcePack() *SourcePack {
	return &SourcePack{HdriIndex: map[string]string{}}
}

func (pack *SourcePack) AddIndexFile(name string) error {
	file, err := os.Open(name)
	if err != nil {
		return fmt.Errorf("could not add index file %q: %w", name, err)
	}
	defer file.Close()

	return pack.AddIndex(file, path.Dir(filepath.ToSlash(name)))
}

func (pack *SourcePack) AddIndex(r io.Reader, root string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	index := ProbeIndex{}
	err = json.Unmarshal(data, &index)
	if err != nil {
		return fmt.Errorf("could not parse probe index: %w", err)
	}

	root = path.Clean(root)
	for _, pattern := range index.Hdris {
		matches, err := filepath.Glob(path.Join(root, pattern))
		if err != nil {
			return err
		}
		for _, match := range matches {
			pack.AddHdri(filepath.ToSlash(match))
		}
	}
	return nil
}

// AddHdri registers a source file under its probe name.
func (pack *SourcePack) AddHdri(filename string) string {
	name, _, _ := strings.Cut(path.Base(filename), ".")
	pack.HdriIndex[name] = filename
	return name
}

func (pack *SourcePack) Names() []string {
	names := make([]string, 0, len(pack.HdriIndex))
	for name := range pack.HdriIndex {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (pack *SourcePack) LoadHdri(name string) (*libio.RgbeImage, error) {
	filename, ok := pack.HdriIndex[name]
	if !ok {
		return nil, fmt.Errorf("%w: hdri %q is not registered in this pack", ErrNoSource, name)
	}
	file, err := libio.OpenFile(filename)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %v", ErrNoSource, err)
	}
	if err != nil {
		return nil, fmt.Errorf("could not open hdri file %q: %w", filename, err)
	}
	defer file.Close()

	img, err := libio.DecodeRgbe(file)
	if err != nil {
		return nil, fmt.Errorf("could not decode hdri file %q: %w", filename, err)
	}

	return img, nil
}
