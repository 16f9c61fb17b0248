package libio

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"softibl/librender"
)

// CubeFaceFileName names the mip file of one face, e.g. "cafe_env_px.ywtd".
func CubeFaceFileName(base string, face librender.CubeFace) string {
	return base + "_" + face.String() + ".ywtd"
}

// CubeFaceFileNames lists the face files in manifest order.
func CubeFaceFileNames(base string) (names [6]string) {
	for i, face := range librender.CubeFaces {
		names[i] = CubeFaceFileName(base, face)
	}
	return names
}

// WriteCubeManifest writes one face file name per line in +X, -X, +Y, -Y, +Z, -Z order.
func WriteCubeManifest(w io.Writer, names [6]string) error {
	var sb strings.Builder
	for i, name := range names {
		if name == "" || strings.ContainsAny(name, "\r\n") {
			return fmt.Errorf("invalid manifest entry for face %v: %q", librender.CubeFaces[i], name)
		}
		sb.WriteString(name)
		sb.WriteByte('\n')
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func ReadCubeManifest(r io.Reader) (names [6]string, err error) {
	scanner := bufio.NewScanner(r)
	n := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if n == len(names) {
			return names, fmt.Errorf("cube manifest has more than %d entries", len(names))
		}
		names[n] = line
		n++
	}
	if err := scanner.Err(); err != nil {
		return names, err
	}
	if n != len(names) {
		return names, fmt.Errorf("%w: cube manifest has %d of %d entries", ErrTruncated, n, len(names))
	}
	return names, nil
}
