package main

import (
	"fmt"
	"io"
	"math"
	"os"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/threebody/internal/analysis"
	"github.com/san-kum/threebody/internal/export"
	"github.com/san-kum/threebody/internal/physics"
	"github.com/san-kum/threebody/internal/storage"
	"github.com/spf13/cobra"
)

func loadRun(runID string) (*storage.RunMetadata, []storage.Sample, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	samples, err := st.LoadSamples(runID)
	if err != nil {
		return nil, nil, err
	}
	if len(samples) == 0 {
		return nil, nil, fmt.Errorf("run %s has no recorded frames", runID)
	}
	return meta, samples, nil
}

// openOutput returns stdout when path is empty.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tDURATION\tDT\tFRAMES\tENERGY DRIFT\tSTATUS")

	for _, run := range runs {
		status := "ok"
		if run.Halted != "" {
			status = "halted"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%.3f\t%g\t%d\t%.2e\t%s\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Frames,
			run.Metrics["energy_drift"],
			status,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, samples, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Println(heading.Render("run: " + meta.ID))
	fmt.Printf("preset: %s\n", meta.Preset)
	fmt.Printf("samples: %d  t=%.3f\n\n", len(samples), samples[len(samples)-1].Time)

	grav := physics.NewGravity(meta.G)
	e0 := grav.Energy(samples[0].System)
	drift := make([]float64, len(samples))
	for i, smp := range samples {
		if e0 != 0 {
			drift[i] = (grav.Energy(smp.System) - e0) / math.Abs(e0)
		}
	}
	fmt.Println(asciigraph.Plot(drift,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("relative energy error"),
	))
	fmt.Println()

	series := make([][]float64, 3)
	for b := range series {
		series[b] = make([]float64, len(samples))
		for i, smp := range samples {
			series[b][i] = smp.System[b].Position.X()
		}
	}
	fmt.Println(asciigraph.PlotMany(series,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.SeriesColors(asciigraph.Red, asciigraph.Cyan, asciigraph.Yellow),
		asciigraph.Caption("x of bodies 1-3"),
	))
	fmt.Println()

	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, samples, err := loadRun(args[0])
	if err != nil {
		return err
	}

	w, err := openOutput(output)
	if err != nil {
		return err
	}
	defer w.Close()
	return storage.WriteSamplesCSV(w, samples)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, samples, err := loadRun(args[0])
	if err != nil {
		return err
	}

	w, err := openOutput(output)
	if err != nil {
		return err
	}
	defer w.Close()
	return storage.ExportJSON(w, meta, samples)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	meta, samples, err := loadRun(args[0])
	if err != nil {
		return err
	}

	path := output
	if path == "" {
		path = meta.ID + ".svg"
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	opts := export.DefaultSVGOptions()
	opts.Title = meta.ID
	for i, c := range meta.Colors {
		if c != "" {
			opts.Colors[i] = c
		}
	}
	if err := export.TrajectoriesToSVG(f, export.Paths(samples), opts); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

func estimatePeriod(cmd *cobra.Command, args []string) error {
	meta, samples, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if body < 1 || body > 3 {
		return fmt.Errorf("body must be 1, 2 or 3, got %d", body)
	}
	idx := map[string]int{"x": 0, "y": 1, "z": 2}
	coord, ok := idx[axis]
	if !ok {
		return fmt.Errorf("axis must be x, y or z, got %q", axis)
	}
	if len(samples) < 2 {
		return fmt.Errorf("run %s has too few samples", meta.ID)
	}

	series := make([]float64, len(samples))
	for i, smp := range samples {
		series[i] = smp.System[body-1].Position[coord]
	}
	sampleDt := samples[1].Time - samples[0].Time

	fmt.Println(heading.Render("frequency analysis: " + meta.ID))
	fmt.Printf("series: body %d %s, %d samples every %g\n\n", body, axis, len(series), sampleDt)

	ps := analysis.PowerSpectrum(series)
	if n := len(ps) / 4; n > 1 {
		ps = ps[:n]
	}
	fmt.Println(asciigraph.Plot(ps,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("power spectrum (%s%d)", axis, body)),
	))
	fmt.Println()

	period, err := analysis.EstimatePeriod(series, sampleDt)
	if err != nil {
		return err
	}
	fmt.Printf("dominant frequency: %.4f\n", 1/period)
	fmt.Printf("period: %.4f\n", period)
	if span := samples[len(samples)-1].Time - samples[0].Time; span < 2*period {
		fmt.Println("warning: fewer than two periods recorded, estimate is coarse")
	}
	return nil
}
