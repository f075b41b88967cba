package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/threebody/internal/config"
	"github.com/san-kum/threebody/internal/experiment"
	"github.com/spf13/cobra"
)

var (
	dataDir        string
	configFile     string
	preset         string
	g              float64
	dt             float64
	substeps       int
	frames         int
	minSeparation  float64
	trailLength    int
	recordEvery    int
	fps            int
	theme          string
	noSave         bool
	output         string
	body           int
	axis           string
	duration       float64
	perturbation   float64
	tuneDuration   float64
	tolerance      float64
	candidates     []float64
	integratorName string
	trials         int
	kick           float64
	mcDuration     float64
	escapeRadius   float64
	seed           int64
)

var heading = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))

// main registers the threebody commands and exits with status 1 if the
// executed command returns an error.
func main() {
	rootCmd := &cobra.Command{
		Use:           "threebody",
		Short:         "three-body gravitational simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".threebody", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a headless simulation and record it",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addSimFlags(runCmd)
	runCmd.Flags().IntVar(&recordEvery, "record-every", config.DefaultRecordEvery, "keep every n-th frame")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not record the run")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run with live terminal visualization",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addSimFlags(liveCmd)
	liveCmd.Flags().IntVar(&trailLength, "trail", config.DefaultTrailLength, "trail length in frames")
	liveCmd.Flags().IntVar(&fps, "fps", config.DefaultFPS, "frame rate")
	liveCmd.Flags().StringVar(&theme, "theme", "cyberpunk", "colour theme")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot energy drift and coordinates of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	svgCmd := &cobra.Command{
		Use:   "svg [run_id]",
		Short: "render the trajectories of a run as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	svgCmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <run_id>.svg)")

	periodCmd := &cobra.Command{
		Use:   "period [run_id]",
		Short: "estimate the orbital period from the power spectrum",
		Args:  cobra.ExactArgs(1),
		RunE:  estimatePeriod,
	}
	periodCmd.Flags().IntVar(&body, "body", 1, "body to analyse (1-3)")
	periodCmd.Flags().StringVar(&axis, "axis", "x", "coordinate to analyse (x, y or z)")

	lyapunovCmd := &cobra.Command{
		Use:   "lyapunov",
		Short: "estimate the largest Lyapunov exponent of the initial conditions",
		Args:  cobra.NoArgs,
		RunE:  estimateLyapunov,
	}
	addSimFlags(lyapunovCmd)
	lyapunovCmd.Flags().Float64Var(&duration, "time", 20, "integration time")
	lyapunovCmd.Flags().Float64Var(&perturbation, "eps", 1e-8, "initial separation")

	compareCmd := &cobra.Command{
		Use:   "compare [integrator...]",
		Short: "compare integrators on the same initial conditions",
		RunE:  compareIntegrators,
	}
	addSimFlags(compareCmd)

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "find the largest timestep that keeps energy drift within tolerance",
		Args:  cobra.NoArgs,
		RunE:  tuneTimestep,
	}
	addSimFlags(tuneCmd)
	tuneCmd.Flags().StringVar(&integratorName, "integrator", experiment.Core, "integrator to tune")
	tuneCmd.Flags().Float64Var(&tuneDuration, "time", 10, "integration time per candidate")
	tuneCmd.Flags().Float64Var(&tolerance, "tol", 1e-6, "maximum relative energy drift")
	tuneCmd.Flags().Float64SliceVar(&candidates, "candidates", []float64{0.1, 0.05, 0.02, 0.01, 0.005, 0.002, 0.001, 0.0005}, "timesteps to try")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted list of simulations from yaml",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "perturb initial velocities and count bounded, escaped and failed trials",
		Args:  cobra.NoArgs,
		RunE:  runMonteCarlo,
	}
	addSimFlags(monteCarloCmd)
	monteCarloCmd.Flags().StringVar(&integratorName, "integrator", experiment.Core, "integrator to use")
	monteCarloCmd.Flags().IntVar(&trials, "trials", 100, "number of trials")
	monteCarloCmd.Flags().Float64Var(&kick, "kick", 0.01, "largest velocity kick per component")
	monteCarloCmd.Flags().Float64Var(&mcDuration, "time", 20, "integration time per trial")
	monteCarloCmd.Flags().Float64Var(&escapeRadius, "escape", 10, "distance from the centre of mass that counts as ejected")
	monteCarloCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 uses the clock)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "manage config files",
	}
	configInitCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write a config file with explicit bodies",
		Args:  cobra.ExactArgs(1),
		RunE:  initConfig,
	}
	addSimFlags(configInitCmd)
	configCmd.AddCommand(configInitCmd)

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, exportCSVCmd, exportJSONCmd, svgCmd, periodCmd, lyapunovCmd, compareCmd, tuneCmd, scenarioCmd, monteCarloCmd, presetsCmd, configCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", config.DefaultPreset, "initial conditions preset")
	cmd.Flags().Float64Var(&g, "g", 1, "gravitational constant")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().IntVar(&substeps, "substeps", config.DefaultSubsteps, "steps per frame")
	cmd.Flags().IntVar(&frames, "frames", config.DefaultFrames, "number of frames")
	cmd.Flags().Float64Var(&minSeparation, "min-sep", 0, "halt when two bodies get closer than this")
}

// loadConfig resolves preset, then config file, then explicitly set flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.GetPreset(preset)
	if err != nil {
		return nil, err
	}

	if configFile != "" {
		cfg, err = config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		if cmd.Flags().Changed("preset") {
			p, err := config.GetPreset(preset)
			if err != nil {
				return nil, err
			}
			cfg.Preset = p.Preset
			cfg.Bodies = nil
		}
	}

	flags := cmd.Flags()
	if flags.Changed("g") {
		cfg.G = g
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("substeps") {
		cfg.Substeps = substeps
	}
	if flags.Changed("frames") {
		cfg.Frames = frames
	}
	if flags.Changed("min-sep") {
		cfg.MinSeparation = minSeparation
	}
	if flags.Changed("trail") {
		cfg.TrailLength = trailLength
	}
	if flags.Changed("fps") {
		cfg.FPS = fps
	}
	if flags.Changed("record-every") {
		cfg.RecordEvery = recordEvery
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
