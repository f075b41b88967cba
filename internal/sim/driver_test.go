package sim_test

import (
	"context"
	"errors"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/threebody/internal/dynamo"
	"github.com/san-kum/threebody/internal/metrics"
	"github.com/san-kum/threebody/internal/physics"
	"github.com/san-kum/threebody/internal/sim"
)

var _ = Describe("Driver", func() {
	var (
		grav   *physics.Gravity
		cfg    sim.Config
		driver *sim.Driver
	)

	BeforeEach(func() {
		grav = physics.NewGravity(physics.DefaultG)
		cfg = sim.DefaultConfig()
		var err error
		driver, err = sim.New(grav, physics.FigureEight(), cfg)
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("construction", func() {
		It("rejects a non-positive dt", func() {
			_, err := sim.New(grav, physics.FigureEight(), sim.Config{Dt: 0, Substeps: 1})
			Expect(err).To(MatchError(dynamo.ErrParameterBounds))
		})

		It("rejects zero sub-steps", func() {
			_, err := sim.New(grav, physics.FigureEight(), sim.Config{Dt: 0.001, Substeps: 0})
			Expect(err).To(MatchError(dynamo.ErrParameterBounds))
		})

		It("rejects a massless body", func() {
			s := physics.FigureEight()
			s[1].Mass = 0
			_, err := sim.New(grav, s, cfg)
			Expect(err).To(MatchError(dynamo.ErrInvalidMass))
		})
	})

	Describe("Advance", func() {
		It("performs the configured number of sub-steps per frame", func() {
			direct := physics.FigureEight()
			for i := 0; i < cfg.Substeps; i++ {
				grav.StepSystem(&direct, cfg.Dt)
			}

			f, err := driver.Advance()
			Expect(err).NotTo(HaveOccurred())
			Expect(f.Index).To(Equal(0))
			Expect(f.Step).To(Equal(cfg.Substeps))
			Expect(f.Time).To(BeNumerically("~", float64(cfg.Substeps)*cfg.Dt, 1e-15))
			Expect(f.System).To(Equal(direct))
			Expect(f.Positions).To(Equal(direct.Positions()))
			Expect(driver.Positions()).To(Equal(direct.Positions()))
		})

		It("publishes every frame to every sink in order", func() {
			var indices []int
			var last sim.Frame
			driver.AddSink(sim.SinkFunc(func(f sim.Frame) { indices = append(indices, f.Index) }))
			driver.AddSink(sim.SinkFunc(func(f sim.Frame) { last = f }))

			for i := 0; i < 3; i++ {
				_, err := driver.Advance()
				Expect(err).NotTo(HaveOccurred())
			}
			Expect(indices).To(Equal([]int{0, 1, 2}))
			Expect(last.Positions).To(Equal(driver.Positions()))
		})

		It("feeds metrics after each frame", func() {
			drift := metrics.NewEnergyDrift(grav)
			driver.AddMetric(drift)
			_, err := driver.Run(context.Background(), 50)
			Expect(err).NotTo(HaveOccurred())
			Expect(drift.Value()).To(BeNumerically("<", 1e-10))
		})
	})

	Context("when two bodies coincide", func() {
		BeforeEach(func() {
			s := physics.System{
				{Position: mgl64.Vec3{0.5, 0, 0}, Mass: 1},
				{Position: mgl64.Vec3{0.5, 0, 0}, Mass: 1},
				{Position: mgl64.Vec3{-1, 0, 0}, Mass: 1},
			}
			var err error
			driver, err = sim.New(grav, s, cfg)
			Expect(err).NotTo(HaveOccurred())
		})

		It("halts with a simulation error and keeps the last finite state", func() {
			before := driver.System()
			_, err := driver.Advance()

			var simErr *dynamo.SimulationError
			Expect(errors.As(err, &simErr)).To(BeTrue())
			Expect(simErr.Step).To(Equal(0))
			Expect(err).To(MatchError(dynamo.ErrSingular))
			Expect(driver.System()).To(Equal(before))
			Expect(driver.System().IsFinite()).To(BeTrue())
			Expect(driver.Halted()).To(HaveOccurred())
		})

		It("refuses further frames until reset", func() {
			_, _ = driver.Advance()
			_, err := driver.Advance()
			Expect(err).To(MatchError(dynamo.ErrHalted))
			Expect(err).To(MatchError(dynamo.ErrSingular))

			driver.Reset()
			Expect(driver.Halted()).NotTo(HaveOccurred())
		})

		It("returns the partial result from Run", func() {
			res, err := driver.Run(context.Background(), 10)
			Expect(err).To(MatchError(dynamo.ErrSingular))
			Expect(res.Frames).To(Equal(0))
		})
	})

	Describe("Run", func() {
		It("rejects a non-positive frame count", func() {
			_, err := driver.Run(context.Background(), 0)
			Expect(err).To(MatchError(dynamo.ErrParameterBounds))
		})

		It("reports totals and metrics", func() {
			for _, m := range metrics.Defaults(grav) {
				driver.AddMetric(m)
			}
			res, err := driver.Run(context.Background(), 100)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Frames).To(Equal(100))
			Expect(res.Steps).To(Equal(100 * cfg.Substeps))
			Expect(res.Time).To(BeNumerically("~", 0.5, 1e-12))
			Expect(res.EnergyDrift).To(BeNumerically("<", 1e-10))
			Expect(res.Metrics).To(HaveKey("energy_drift"))
			Expect(res.Metrics).To(HaveKey("closest_approach"))
			Expect(res.Final).To(Equal(driver.System()))
		})

		It("stops between frames when the context is cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			driver.AddSink(sim.SinkFunc(func(f sim.Frame) {
				if f.Index == 4 {
					cancel()
				}
			}))

			res, err := driver.Run(ctx, 100)
			Expect(err).To(MatchError(context.Canceled))
			Expect(res.Frames).To(Equal(5))
			Expect(res.Steps).To(Equal(5 * cfg.Substeps))
		})

		It("is reproducible after Reset", func() {
			first, err := driver.Run(context.Background(), 20)
			Expect(err).NotTo(HaveOccurred())

			driver.Reset()
			Expect(driver.System()).To(Equal(physics.FigureEight()))
			Expect(driver.Time()).To(BeZero())

			second, err := driver.Run(context.Background(), 20)
			Expect(err).NotTo(HaveOccurred())
			Expect(second.Final).To(Equal(first.Final))
		})
	})

	Describe("Recorder", func() {
		It("keeps every n-th frame", func() {
			rec := sim.NewRecorder(3)
			driver.AddSink(rec)
			_, err := driver.Run(context.Background(), 10)
			Expect(err).NotTo(HaveOccurred())

			var idx []int
			for _, f := range rec.Frames() {
				idx = append(idx, f.Index)
			}
			Expect(idx).To(Equal([]int{0, 3, 6, 9}))
		})
	})
})
