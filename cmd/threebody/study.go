package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/san-kum/threebody/internal/automation"
	"github.com/spf13/cobra"
)

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	fmt.Println(heading.Render(fmt.Sprintf("scenario %s", sc.Name)))
	if sc.Description != "" {
		fmt.Println(sc.Description)
	}

	outcomes, runErr := automation.RunScenario(cmd.Context(), sc, func(i int, step automation.ScenarioStep) {
		fmt.Printf("step %d/%d: %s\n", i+1, len(sc.Steps), step.Preset)
	})

	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tPRESET\tINTEGRATOR\tSTEPS\tENERGY DRIFT\tTIME")
	for i, out := range outcomes {
		step := sc.Steps[i]
		drift := fmt.Sprintf("%.3e", out.EnergyDrift)
		if out.Err != nil {
			drift = "error: " + out.Err.Error()
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\t%v\n", i+1, step.Preset, out.Integrator, out.Steps, drift, out.Elapsed.Round(time.Millisecond))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return haltErr(runErr)
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	s0, err := cfg.System()
	if err != nil {
		return err
	}

	mc := &automation.MonteCarloConfig{
		Integrator:   integratorName,
		Gravity:      cfg.Gravity(),
		Base:         s0,
		Perturbation: kick,
		Trials:       trials,
		Duration:     mcDuration,
		Dt:           cfg.Dt,
		EscapeRadius: escapeRadius,
		Seed:         seed,
	}
	fmt.Println(heading.Render(fmt.Sprintf("monte carlo on %s", runName(cfg))))
	fmt.Printf("trials=%d kick=%g t=%g dt=%g escape=%g\n", mc.Trials, mc.Perturbation, mc.Duration, mc.Dt, mc.EscapeRadius)

	start := time.Now()
	results, err := automation.RunMonteCarlo(cmd.Context(), mc)
	if err != nil {
		return haltErr(err)
	}

	collisions := 0
	for _, r := range results {
		if automation.IsCollision(r) {
			collisions++
		}
	}
	stats := automation.MonteCarloStats(results)
	n := float64(len(results))
	fmt.Printf("finished in %v\n\n", time.Since(start).Round(time.Millisecond))
	for _, fate := range []automation.Fate{automation.Bounded, automation.Escaped, automation.Failed} {
		fmt.Printf("  %-8s %5d  (%.1f%%)\n", fate, stats[fate], 100*float64(stats[fate])/n)
	}
	if collisions > 0 {
		fmt.Printf("  of which %d close encounters\n", collisions)
	}
	return nil
}
