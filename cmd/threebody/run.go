package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/san-kum/threebody/internal/analysis"
	"github.com/san-kum/threebody/internal/config"
	"github.com/san-kum/threebody/internal/experiment"
	"github.com/san-kum/threebody/internal/integrators"
	"github.com/san-kum/threebody/internal/metrics"
	"github.com/san-kum/threebody/internal/optim"
	"github.com/san-kum/threebody/internal/physics"
	"github.com/san-kum/threebody/internal/sim"
	"github.com/san-kum/threebody/internal/storage"
	"github.com/san-kum/threebody/internal/viz"
	"github.com/spf13/cobra"
)

// runName labels a run by its preset, or "custom" for explicit bodies.
func runName(cfg *config.Config) string {
	if len(cfg.Bodies) > 0 {
		return "custom"
	}
	return cfg.Preset
}

func newDriver(cfg *config.Config) (*sim.Driver, error) {
	s, err := cfg.System()
	if err != nil {
		return nil, err
	}
	return sim.New(cfg.Gravity(), s, cfg.SimConfig())
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	d, err := newDriver(cfg)
	if err != nil {
		return err
	}
	for _, m := range metrics.Defaults(d.Gravity()) {
		d.AddMetric(m)
	}
	rec := sim.NewRecorder(cfg.RecordEvery)
	d.AddSink(rec)

	fmt.Println(heading.Render(fmt.Sprintf("running %s", runName(cfg))))
	fmt.Printf("dt=%g substeps=%d frames=%d G=%g\n", cfg.Dt, cfg.Substeps, cfg.Frames, cfg.G)
	start := time.Now()

	result, runErr := d.Run(cmd.Context(), cfg.Frames)
	if result == nil {
		return runErr
	}
	elapsed := time.Since(start)

	fmt.Printf("completed %d/%d frames in %v\n", result.Frames, cfg.Frames, elapsed)
	fmt.Printf("steps: %d  t=%.4f\n", result.Steps, result.Time)
	if runErr != nil {
		fmt.Printf("stopped: %v\n", runErr)
	}

	fmt.Println("\nmetrics:")
	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %-24s %.6e\n", name, result.Metrics[name])
	}

	fmt.Println("\nfinal state:")
	for i, b := range result.Final {
		fmt.Printf("  body %d  %v\n", i+1, b)
	}

	if noSave {
		return haltErr(runErr)
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	meta := storage.RunMetadata{
		Preset:   runName(cfg),
		G:        cfg.G,
		Dt:       cfg.Dt,
		Substeps: cfg.Substeps,
		Frames:   result.Frames,
		Steps:    result.Steps,
		Duration: result.Time,
		Masses:   d.System().Masses(),
		Colors:   cfg.Colors(),
		Metrics:  result.Metrics,
	}
	if runErr != nil {
		meta.Halted = runErr.Error()
	}
	runID, err := st.Save(meta, rec.Frames())
	if err != nil {
		return err
	}
	fmt.Printf("\nrun id: %s\n", runID)

	return haltErr(runErr)
}

// haltErr drops interruption by the user; numeric failures are reported.
func haltErr(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	d, err := newDriver(cfg)
	if err != nil {
		return err
	}

	return viz.Run(d, viz.Options{
		Title:       runName(cfg),
		TrailLength: cfg.TrailLength,
		FPS:         cfg.FPS,
		Theme:       theme,
		Colors:      cfg.Colors(),
	})
}

// compareIntegrators runs each integrator on its own copy of the initial
// conditions, concurrently.
func compareIntegrators(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	s0, err := cfg.System()
	if err != nil {
		return err
	}

	steps := cfg.Frames * cfg.Substeps
	outcomes, err := experiment.Compare(cmd.Context(), cfg.Gravity(), s0, args, cfg.Dt, steps)
	if err != nil {
		return haltErr(err)
	}

	fmt.Println(heading.Render(fmt.Sprintf("comparing integrators for %s", runName(cfg))))
	fmt.Printf("dt=%g steps=%d t=%.3f\n\n", cfg.Dt, steps, float64(steps)*cfg.Dt)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEGRATOR\tENERGY DRIFT\tFINAL X1\tTIME")
	for _, out := range outcomes {
		if out.Err != nil {
			fmt.Fprintf(w, "%s\terror: %v\t\t\n", out.Integrator, out.Err)
			continue
		}
		fmt.Fprintf(w, "%s\t%.3e\t%.6f\t%v\n", out.Integrator, out.EnergyDrift, out.Final[0].Position.X(), out.Elapsed.Round(time.Millisecond))
	}
	return w.Flush()
}

// tuneTimestep reports the largest candidate dt whose energy drift over the
// requested time stays within tolerance.
func tuneTimestep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	s0, err := cfg.System()
	if err != nil {
		return err
	}

	q := optim.TimestepQuery{
		Integrator: integratorName,
		Candidates: candidates,
		Duration:   tuneDuration,
		Tolerance:  tolerance,
	}
	fmt.Println(heading.Render(fmt.Sprintf("tuning %s for %s", q.Integrator, runName(cfg))))
	fmt.Printf("t=%g tolerance=%g candidates=%v\n", q.Duration, q.Tolerance, q.Candidates)

	best, ok, err := optim.LargestStableDt(cmd.Context(), cfg.Gravity(), s0, q)
	if err != nil {
		return haltErr(err)
	}
	if !ok {
		fmt.Println("no candidate met the tolerance")
		return nil
	}
	fmt.Printf("largest stable dt: %g\n", best)
	return nil
}

func estimateLyapunov(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	s, err := cfg.System()
	if err != nil {
		return err
	}

	flat := physics.NewFlat(cfg.Gravity(), s.Masses())
	fmt.Println(heading.Render(fmt.Sprintf("lyapunov exponent for %s", runName(cfg))))
	fmt.Printf("dt=%g t=%g eps=%g\n", cfg.Dt, duration, perturbation)

	lambda, err := analysis.LyapunovExponent(flat, integrators.NewRK4(), physics.Pack(s), cfg.Dt, duration, perturbation)
	if err != nil {
		return err
	}
	fmt.Printf("lambda: %.4f\n", lambda)
	if lambda > 0.05 {
		fmt.Printf("e-folding time: %.3f\n", 1/lambda)
	}
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tDT\tSUBSTEPS\tFRAMES\tDESCRIPTION")
	for _, name := range config.ListPresets() {
		cfg, err := config.GetPreset(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%g\t%d\t%d\t%s\n", name, cfg.Dt, cfg.Substeps, cfg.Frames, config.Describe(name))
	}
	return w.Flush()
}

func initConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	s, err := cfg.System()
	if err != nil {
		return err
	}
	cfg.SetBodies(s)

	if err := config.Save(args[0], cfg); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%s)\n", args[0], cfg.Preset)
	return nil
}
