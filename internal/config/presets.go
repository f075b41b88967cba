package config

import (
	"fmt"
	"sort"

	"github.com/san-kum/threebody/internal/dynamo"
	"github.com/san-kum/threebody/internal/physics"
)

type preset struct {
	description string
	dt          float64
	substeps    int
	frames      int
	system      func() physics.System
}

var presets = map[string]preset{
	"figure8": {
		description: "Chenciner-Montgomery figure-eight, period ~6.326",
		dt:          0.0005,
		substeps:    10,
		frames:      2000,
		system:      physics.FigureEight,
	},
	"figure8-source": {
		description: "figure-eight variant with x1=1 and net momentum (drifts)",
		dt:          0.0005,
		substeps:    10,
		frames:      2000,
		system:      physics.FigureEightSource,
	},
	"lagrange": {
		description: "equilateral triangle in rigid rotation",
		dt:          0.001,
		substeps:    10,
		frames:      1000,
		system:      physics.Lagrange,
	},
	"pythagorean": {
		description: "Burrau 3-4-5 problem from rest, close encounters",
		dt:          0.00005,
		substeps:    100,
		frames:      1200,
		system:      physics.Pythagorean,
	},
}

// GetPreset returns a default config with the preset's initial conditions
// and step settings applied.
func GetPreset(name string) (*Config, error) {
	p, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("%q (available: %v): %w", name, ListPresets(), dynamo.ErrUnknownPreset)
	}
	cfg := DefaultConfig()
	cfg.Preset = name
	cfg.Dt = p.dt
	cfg.Substeps = p.substeps
	cfg.Frames = p.frames
	return cfg, nil
}

func ListPresets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func Describe(name string) string {
	return presets[name].description
}
