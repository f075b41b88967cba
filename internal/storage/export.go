package storage

import (
	"encoding/json"
	"io"
)

type ExportBody struct {
	Mass       float64      `json:"mass"`
	Positions  [][3]float64 `json:"positions"`
	Velocities [][3]float64 `json:"velocities"`
}

type ExportData struct {
	ID       string             `json:"id"`
	Preset   string             `json:"preset"`
	G        float64            `json:"g"`
	Dt       float64            `json:"dt"`
	Substeps int                `json:"substeps"`
	Duration float64            `json:"duration"`
	Samples  int                `json:"samples"`
	Times    []float64          `json:"times"`
	Bodies   [3]ExportBody      `json:"bodies"`
	Metrics  map[string]float64 `json:"metrics"`
}

// ExportJSON writes a run as one JSON document with a trajectory per body.
func ExportJSON(w io.Writer, meta *RunMetadata, samples []Sample) error {
	data := ExportData{
		ID:       meta.ID,
		Preset:   meta.Preset,
		G:        meta.G,
		Dt:       meta.Dt,
		Substeps: meta.Substeps,
		Duration: meta.Duration,
		Samples:  len(samples),
		Times:    make([]float64, len(samples)),
		Metrics:  meta.Metrics,
	}
	for i := range data.Bodies {
		data.Bodies[i] = ExportBody{
			Mass:       meta.Masses[i],
			Positions:  make([][3]float64, len(samples)),
			Velocities: make([][3]float64, len(samples)),
		}
	}

	for k, smp := range samples {
		data.Times[k] = smp.Time
		for i, b := range smp.System {
			data.Bodies[i].Positions[k] = b.Position
			data.Bodies[i].Velocities[k] = b.Velocity
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
