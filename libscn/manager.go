package libscn

import (
	"fmt"
	"time"

	"softibl/librender"
	"softibl/libutil"
)

const (
	artifactEnvironment = "env"
	artifactIrradiance  = "irradiance"
	artifactPrefilter   = "prefilter"
)

// Probe holds the cube textures of one environment probe.
type Probe struct {
	Name        string
	environment *librender.Texture
	irradiance  *librender.Texture
	prefilter   *librender.Texture
}

// Environment is the projected source with a full minification chain.
func (p *Probe) Environment() *librender.Texture {
	return p.environment
}

func (p *Probe) Irradiance() *librender.Texture {
	return p.irradiance
}

// Prefilter holds one mip level per roughness bucket.
func (p *Probe) Prefilter() *librender.Texture {
	return p.prefilter
}

func (p *Probe) Release() {
	p.environment.Release()
	p.irradiance.Release()
	p.prefilter.Release()
}

// Manager loads probes from the cache or computes them on a miss.
// It is not safe for concurrent use.
type Manager struct {
	dev    librender.Device
	cfg    Config
	pack   *SourcePack
	proxy  *librender.Mesh
	stages Stages
	cache  *cache
	probes map[string]*Probe
	brdf   *librender.Texture
}

// NewManager uses NewStages(cfg) when stages is nil.
func NewManager(dev librender.Device, cfg Config, pack *SourcePack, proxy *librender.Mesh, stages Stages) *Manager {
	if stages == nil {
		stages = NewStages(cfg)
	}
	if pack == nil {
		pack = NewSourcePack()
	}
	return &Manager{
		dev:    dev,
		cfg:    cfg,
		pack:   pack,
		proxy:  proxy,
		stages: stages,
		cache:  newCache(cfg),
		probes: map[string]*Probe{},
	}
}

func (m *Manager) Probe(name string) (*Probe, bool) {
	probe, ok := m.probes[name]
	return probe, ok
}

// BrdfLut returns the lookup table shared by all probes, nil before the first EnsureLoaded.
func (m *Manager) BrdfLut() *librender.Texture {
	return m.brdf
}

// EnsureLoaded makes the probe and the BRDF lookup table available. On failure
// no texture of the probe is kept.
func (m *Manager) EnsureLoaded(name string) error {
	if _, ok := m.probes[name]; ok {
		return nil
	}

	if err := m.ensureBrdf(); err != nil {
		return fmt.Errorf("could not load brdf lut: %w", err)
	}

	var cleanup libutil.Cleanup
	defer cleanup.Release()

	env, err := m.loadOrComputeCube(name, artifactEnvironment, func() (*librender.Texture, error) {
		img, err := m.pack.LoadHdri(name)
		if err != nil {
			return nil, err
		}
		return m.stages.Project(m.dev, img.ToFloatImage(), m.proxy)
	})
	if err != nil {
		return fmt.Errorf("could not load environment of probe %q: %w", name, err)
	}
	cleanup.Add(env)

	irradiance, err := m.loadOrComputeCube(name, artifactIrradiance, func() (*librender.Texture, error) {
		return m.stages.Irradiance(m.dev, env, m.proxy)
	})
	if err != nil {
		return fmt.Errorf("could not load irradiance of probe %q: %w", name, err)
	}
	cleanup.Add(irradiance)

	prefilter, err := m.loadOrComputeCube(name, artifactPrefilter, func() (*librender.Texture, error) {
		return m.stages.Prefilter(m.dev, env, m.proxy)
	})
	if err != nil {
		return fmt.Errorf("could not load prefilter of probe %q: %w", name, err)
	}
	cleanup.Add(prefilter)

	cleanup.Keep()
	m.probes[name] = &Probe{
		Name:        name,
		environment: env,
		irradiance:  irradiance,
		prefilter:   prefilter,
	}
	return nil
}

func (m *Manager) loadOrComputeCube(name, artifact string, compute func() (*librender.Texture, error)) (*librender.Texture, error) {
	log := libutil.Logger().With("probe", name, "artifact", artifact)
	base := name + "_" + artifact

	manifest := m.cache.manifestPath(base)
	if exists(manifest) {
		log.Debug("cache hit", "path", manifest)
		return m.cache.loadCube(m.dev, manifest)
	}
	log.Debug("cache miss", "path", manifest)

	start := time.Now()
	tex, err := compute()
	if err != nil {
		return nil, err
	}
	log.Info("computed artifact", "duration", time.Since(start))

	if err := m.cache.saveCube(base, tex); err != nil {
		log.Warn("could not write cache", "error", err)
	}
	m.debugOutput(base, tex)
	return tex, nil
}

func (m *Manager) ensureBrdf() error {
	if m.brdf != nil {
		return nil
	}
	log := libutil.Logger().With("artifact", brdfLutName)

	filename, found := m.cache.brdfPath()
	if found {
		log.Debug("cache hit", "path", filename)
		tex, err := m.cache.load2D(m.dev, filename)
		if err != nil {
			return err
		}
		m.brdf = tex
		return nil
	}
	log.Debug("cache miss", "path", filename)

	start := time.Now()
	tex, err := m.stages.Brdf(m.dev)
	if err != nil {
		return err
	}
	log.Info("computed artifact", "duration", time.Since(start))

	if err := m.cache.save2D(filename, tex); err != nil {
		log.Warn("could not write cache", "error", err)
	}
	m.debugOutput(brdfLutName, tex)

	m.brdf = tex
	return nil
}

func (m *Manager) debugOutput(base string, tex *librender.Texture) {
	if !m.cfg.Debug {
		return
	}
	if err := m.writeDebug(base, tex); err != nil {
		libutil.Logger().Warn("could not write debug output", "artifact", base, "error", err)
	}
}

// Release releases every loaded probe and the BRDF lookup table.
func (m *Manager) Release() {
	for name, probe := range m.probes {
		probe.Release()
		delete(m.probes, name)
	}
	if m.brdf != nil {
		m.brdf.Release()
		m.brdf = nil
	}
}
