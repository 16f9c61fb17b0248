package libscn

import (
	"softibl/ibl"
	"softibl/libio"
	"softibl/librender"
)

var ErrNoProxyMesh = ibl.ErrNoProxyMesh

// Stages computes the artifacts of a probe on a cache miss.
// Every returned texture is owned by the caller.
type Stages interface {
	Project(dev librender.Device, src *libio.FloatImage, proxy *librender.Mesh) (*librender.Texture, error)
	Irradiance(dev librender.Device, env *librender.Texture, proxy *librender.Mesh) (*librender.Texture, error)
	Prefilter(dev librender.Device, env *librender.Texture, proxy *librender.Mesh) (*librender.Texture, error)
	Brdf(dev librender.Device) (*librender.Texture, error)
}

type iblStages struct {
	projector  *ibl.Projector
	irradiance *ibl.IrradianceConvolver
	prefilter  *ibl.SpecularPrefilter
	brdf       *ibl.BrdfIntegrator
}

// NewStages returns the precompute stages configured by cfg.
func NewStages(cfg Config) Stages {
	return &iblStages{
		projector:  ibl.NewProjector(cfg.EnvironmentSize),
		irradiance: ibl.NewIrradianceConvolver(cfg.IrradianceSize, cfg.IrradianceStep),
		prefilter:  ibl.NewSpecularPrefilter(cfg.PrefilterSize, cfg.PrefilterLevels, cfg.PrefilterSamples),
		brdf:       ibl.NewBrdfIntegrator(cfg.BrdfSize, cfg.BrdfSamples),
	}
}

func (s *iblStages) Project(dev librender.Device, src *libio.FloatImage, proxy *librender.Mesh) (*librender.Texture, error) {
	return s.projector.Project(dev, src, proxy)
}

func (s *iblStages) Irradiance(dev librender.Device, env *librender.Texture, proxy *librender.Mesh) (*librender.Texture, error) {
	return s.irradiance.Convolve(dev, env, proxy)
}

func (s *iblStages) Prefilter(dev librender.Device, env *librender.Texture, proxy *librender.Mesh) (*librender.Texture, error) {
	return s.prefilter.Prefilter(dev, env, proxy)
}

func (s *iblStages) Brdf(dev librender.Device) (*librender.Texture, error) {
	return s.brdf.Generate(dev)
}
