package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/threebody/internal/physics"
	"github.com/san-kum/threebody/internal/sim"
)

const (
	metadataFile = "metadata.json"
	framesFile   = "frames.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Preset    string             `json:"preset"`
	Timestamp time.Time          `json:"timestamp"`
	G         float64            `json:"g"`
	Dt        float64            `json:"dt"`
	Substeps  int                `json:"substeps"`
	Frames    int                `json:"frames"`
	Steps     int                `json:"steps"`
	Duration  float64            `json:"duration"`
	Masses    [3]float64         `json:"masses"`
	Colors    [3]string          `json:"colors"`
	Metrics   map[string]float64 `json:"metrics"`
	Halted    string             `json:"halted,omitempty"`
}

// Sample is one recorded frame read back from disk.
type Sample struct {
	Time   float64
	System physics.System
}

// Save writes meta and the recorded frames under a new run directory and
// returns the run id. meta.ID and meta.Timestamp are filled in.
func (s *Store) Save(meta RunMetadata, frames []sim.Frame) (string, error) {
	meta.Timestamp = time.Now()
	meta.ID = fmt.Sprintf("%s_%d", meta.Preset, meta.Timestamp.UnixNano())
	runDir := filepath.Join(s.baseDir, meta.ID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, framesFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteCSV(csvFile, frames); err != nil {
		return "", err
	}
	return meta.ID, nil
}

// Header returns the CSV column names: time, then x,y,z,vx,vy,vz per body.
func Header() []string {
	header := []string{"time"}
	for i := 1; i <= 3; i++ {
		for _, c := range []string{"x", "y", "z", "vx", "vy", "vz"} {
			header = append(header, fmt.Sprintf("%s%d", c, i))
		}
	}
	return header
}

func WriteCSV(w io.Writer, frames []sim.Frame) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header()); err != nil {
		return err
	}
	for _, f := range frames {
		if err := cw.Write(row(f.Time, f.System)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSamplesCSV is WriteCSV for samples read back from a run.
func WriteSamplesCSV(w io.Writer, samples []Sample) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header()); err != nil {
		return err
	}
	for _, smp := range samples {
		if err := cw.Write(row(smp.Time, smp.System)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func row(t float64, sys physics.System) []string {
	r := make([]string, 0, 1+physics.FlatDim)
	r = append(r, strconv.FormatFloat(t, 'g', -1, 64))
	for _, b := range sys {
		for _, v := range b.Position {
			r = append(r, strconv.FormatFloat(v, 'g', -1, 64))
		}
		for _, v := range b.Velocity {
			r = append(r, strconv.FormatFloat(v, 'g', -1, 64))
		}
	}
	return r
}

// List returns all readable runs, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadSamples reads the recorded frames of a run. Masses come from the
// run's metadata.
func (s *Store) LoadSamples(runID string) ([]Sample, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(filepath.Join(s.baseDir, runID, framesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = 1 + physics.FlatDim

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	if len(records) < 2 {
		return []Sample{}, nil
	}

	samples := make([]Sample, 0, len(records)-1)
	for line, record := range records[1:] {
		vals := make([]float64, len(record))
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("run %s line %d: %w", runID, line+2, err)
			}
			vals[j] = v
		}

		smp := Sample{Time: vals[0]}
		for i := range smp.System {
			o := 1 + i*6
			smp.System[i] = physics.Body{
				Position: mgl64.Vec3{vals[o], vals[o+1], vals[o+2]},
				Velocity: mgl64.Vec3{vals[o+3], vals[o+4], vals[o+5]},
				Mass:     meta.Masses[i],
			}
		}
		samples = append(samples, smp)
	}
	return samples, nil
}
