package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestBaseName(t *testing.T) {
	cases := map[string]string{
		"cache/v1/studio_env.cube":           "studio_env",
		"cache/v1/studio_env_px.ywtd.lz4":    "studio_env_px",
		"brdf_lut.ywtd":                      "brdf_lut",
		filepath.Join("a", "b", "noext.lz4"): "noext",
	}
	for in, expected := range cases {
		if got := baseName(in); got != expected {
			t.Errorf("base name of %q should be %q but was %q\n", in, expected, got)
		}
	}
}

func TestLogLevel(t *testing.T) {
	var l logLevel
	if err := l.Set("warn"); err != nil || l.level != slog.LevelWarn {
		t.Errorf("level should be %v but was %v (%v)\n", slog.LevelWarn, l.level, err)
	}
	if err := l.Set("loud"); err == nil {
		t.Error("unknown level should be rejected")
	}
}

func TestGatherInputFiles(t *testing.T) {
	cargs = &commonArgs{}
	dir := t.TempDir()
	for _, name := range []string{"b.ywtd", "a.ywtd", "c.hdr"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	files := gatherInputFiles([]string{filepath.Join(dir, "*.ywtd"), filepath.Join(dir, "a.*")})
	expected := []string{filepath.Join(dir, "a.ywtd"), filepath.Join(dir, "b.ywtd")}
	if len(files) != len(expected) {
		t.Fatalf("files should be %v but were %v\n", expected, files)
	}
	for i := range expected {
		if files[i] != expected[i] {
			t.Errorf("file %d should be %q but was %q\n", i, expected[i], files[i])
		}
	}
}

func TestOutFlag(t *testing.T) {
	cases := []struct {
		cmd    *command
		hasOut bool
	}{
		{createBakeCommand(), false},
		{createInfoCommand(), false},
		{createPreviewCommand(), true},
	}
	for _, c := range cases {
		for _, name := range []string{"out", "o"} {
			if got := c.cmd.Flags.Lookup(name) != nil; got != c.hasOut {
				t.Errorf("%s: flag -%s registered should be %v but was %v\n", c.cmd.Name, name, c.hasOut, got)
			}
		}
		if c.cmd.Flags.Lookup("log") == nil {
			t.Errorf("%s: flag -log should be registered\n", c.cmd.Name)
		}
	}
}

func TestSetOutDir(t *testing.T) {
	dir := t.TempDir()
	args := commonArgs{out: dir}
	setOutDir(&args)
	if args.out != dir {
		t.Errorf("output directory should stay %q but was %q\n", dir, args.out)
	}

	args = commonArgs{}
	setOutDir(&args)
	if wd, _ := os.Getwd(); args.out != wd {
		t.Errorf("output directory should default to %q but was %q\n", wd, args.out)
	}
}
