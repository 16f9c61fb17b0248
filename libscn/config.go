package libscn

import (
	"encoding/json"
	"fmt"
	"io"

	"softibl/ibl"
	"softibl/libio"
)

type Config struct {
	CacheDir string `json:"cacheDir"`
	// Debug additionally writes RGBE copies and png previews of every computed artifact.
	Debug bool `json:"debug"`
	// Compress writes lz4 compressed cache files.
	Compress bool `json:"compress"`

	EnvironmentSize  int     `json:"environmentSize"`
	IrradianceSize   int     `json:"irradianceSize"`
	IrradianceStep   float32 `json:"irradianceStep"`
	PrefilterSize    int     `json:"prefilterSize"`
	PrefilterLevels  int     `json:"prefilterLevels"`
	PrefilterSamples int     `json:"prefilterSamples"`
	BrdfSize         int     `json:"brdfSize"`
	BrdfSamples      int     `json:"brdfSamples"`

	PreviewGamma    float32 `json:"previewGamma"`
	PreviewScale    float32 `json:"previewScale"`
	PreviewMaxWidth int     `json:"previewMaxWidth"`
}

func DefaultConfig() Config {
	return Config{
		CacheDir:         "cache",
		EnvironmentSize:  512,
		IrradianceSize:   32,
		IrradianceStep:   ibl.DefaultIrradianceStep,
		PrefilterSize:    128,
		PrefilterLevels:  ibl.MaxPrefilterLevels,
		PrefilterSamples: ibl.DefaultSampleCount,
		BrdfSize:         512,
		BrdfSamples:      ibl.DefaultSampleCount,
		PreviewGamma:     2.2,
		PreviewScale:     1,
		PreviewMaxWidth:  1536,
	}
}

// LoadConfig reads a JSON config. Missing keys keep their default.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	data, err := io.ReadAll(r)
	if err != nil {
		return cfg, err
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("could not parse config: %w", err)
	}
	return cfg, nil
}

func (cfg Config) previewOptions() libio.PreviewOptions {
	return libio.PreviewOptions{
		Gamma:    cfg.PreviewGamma,
		Scale:    cfg.PreviewScale,
		MaxWidth: cfg.PreviewMaxWidth,
	}
}
