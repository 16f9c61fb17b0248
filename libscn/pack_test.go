package libscn_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"softibl/libscn"
)

func TestAddIndexFile(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"studio.hdr", "garage.hdr.lz4", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	index := filepath.Join(dir, "probes.json")
	if err := os.WriteFile(index, []byte(`{"hdris": ["*.hdr", "*.hdr.lz4"]}`), 0o644); err != nil {
		t.Fatal(err)
	}

	pack := libscn.NewSourcePack()
	if err := pack.AddIndexFile(index); err != nil {
		t.Fatal(err)
	}

	names := pack.Names()
	if len(names) != 2 || names[0] != "garage" || names[1] != "studio" {
		t.Errorf("names should be [garage studio] but were %v\n", names)
	}
	if !strings.HasSuffix(pack.HdriIndex["garage"], "garage.hdr.lz4") {
		t.Errorf("garage should map to its file but was %q\n", pack.HdriIndex["garage"])
	}

	if err := pack.AddIndex(strings.NewReader("{"), dir); err == nil {
		t.Error("malformed index should fail")
	}
}

func TestLoadConfig(t *testing.T) {
	cfg, err := libscn.LoadConfig(strings.NewReader(`{"cacheDir": "/tmp/ibl", "irradianceSize": 16, "compress": true}`))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.CacheDir != "/tmp/ibl" || cfg.IrradianceSize != 16 || !cfg.Compress {
		t.Errorf("config should apply the given keys but was %+v\n", cfg)
	}
	if cfg.EnvironmentSize != 512 || cfg.PrefilterLevels != 5 || cfg.BrdfSamples != 1024 {
		t.Errorf("config should keep defaults for missing keys but was %+v\n", cfg)
	}
}
