package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/threebody/internal/dynamo"
	"github.com/san-kum/threebody/internal/metrics"
	"github.com/san-kum/threebody/internal/physics"
)

type Driver struct {
	gravity *physics.Gravity
	cfg     Config
	initial physics.System
	system  physics.System
	steps   int
	frames  int
	halted  error
	metrics []metrics.Metric
	sinks   []Sink
}

func New(g *physics.Gravity, s physics.System, cfg Config) (*Driver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if _, err := physics.NewSystem(s[0], s[1], s[2]); err != nil {
		return nil, err
	}
	return &Driver{
		gravity: g,
		cfg:     cfg,
		initial: s,
		system:  s,
		metrics: make([]metrics.Metric, 0),
		sinks:   make([]Sink, 0),
	}, nil
}

func (d *Driver) AddMetric(m metrics.Metric) { d.metrics = append(d.metrics, m) }
func (d *Driver) AddSink(s Sink)             { d.sinks = append(d.sinks, s) }

func (d *Driver) System() physics.System    { return d.system }
func (d *Driver) Positions() [3]mgl64.Vec3  { return d.system.Positions() }
func (d *Driver) Gravity() *physics.Gravity { return d.gravity }
func (d *Driver) Config() Config            { return d.cfg }
func (d *Driver) Steps() int                { return d.steps }
func (d *Driver) Frames() int               { return d.frames }
func (d *Driver) Time() float64             { return float64(d.steps) * d.cfg.Dt }

// Halted returns the error that stopped the driver, or nil.
func (d *Driver) Halted() error { return d.halted }

// Advance runs one frame worth of sub-steps and publishes the result.
// Sub-steps already taken in a failing frame are kept; the driver is halted
// and every later call returns an error wrapping dynamo.ErrHalted.
func (d *Driver) Advance() (Frame, error) {
	if d.halted != nil {
		return Frame{}, fmt.Errorf("%w: %w", dynamo.ErrHalted, d.halted)
	}

	for i := 0; i < d.cfg.Substeps; i++ {
		if err := d.gravity.StepChecked(&d.system, d.cfg.Dt); err != nil {
			d.halted = &dynamo.SimulationError{
				Step:    d.steps,
				Time:    d.Time(),
				State:   physics.Pack(d.system),
				Wrapped: err,
			}
			return Frame{}, d.halted
		}
		d.steps++
	}

	f := Frame{
		Index:     d.frames,
		Step:      d.steps,
		Time:      d.Time(),
		Positions: d.system.Positions(),
		System:    d.system,
	}
	d.frames++

	for _, m := range d.metrics {
		m.Observe(d.system, f.Time)
	}
	for _, s := range d.sinks {
		s.OnFrame(f)
	}
	return f, nil
}

// Run advances the given number of frames. Cancellation is honoured between
// frames. The partial result is returned alongside any error.
func (d *Driver) Run(ctx context.Context, frames int) (*Result, error) {
	if frames < 1 {
		return nil, fmt.Errorf("frames must be at least 1, got %d: %w", frames, dynamo.ErrParameterBounds)
	}

	result := &Result{Metrics: make(map[string]float64)}
	for _, m := range d.metrics {
		m.Reset()
		m.Observe(d.system, d.Time())
	}
	initialEnergy := d.gravity.Energy(d.system)

	var runErr error
	for i := 0; i < frames; i++ {
		select {
		case <-ctx.Done():
			runErr = ctx.Err()
		default:
		}
		if runErr != nil {
			break
		}
		if _, err := d.Advance(); err != nil {
			runErr = err
			break
		}
		result.Frames++
	}

	result.Steps = d.steps
	result.Time = d.Time()
	result.Final = d.system
	if initialEnergy != 0 {
		result.EnergyDrift = math.Abs(d.gravity.Energy(d.system)-initialEnergy) / math.Abs(initialEnergy)
	}
	for _, m := range d.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	return result, runErr
}

// Reset restores the initial bodies and clears counters, halt state and
// metrics. Sinks are kept.
func (d *Driver) Reset() {
	d.system = d.initial
	d.steps = 0
	d.frames = 0
	d.halted = nil
	for _, m := range d.metrics {
		m.Reset()
	}
}
