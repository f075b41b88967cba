package physics

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/gomega"
	"github.com/san-kum/threebody/internal/dynamo"
)

func TestRK4EnergyDrift(t *testing.T) {
	grav := NewGravity(DefaultG)
	s := FigureEight()
	e0 := grav.Energy(s)

	for i := 0; i < 10000; i++ {
		grav.StepSystem(&s, 0.0005)
	}

	drift := math.Abs(grav.Energy(s)-e0) / math.Abs(e0)
	if drift > 1e-4 {
		t.Errorf("relative energy drift %e exceeds 1e-4", drift)
	}
}

func TestRK4CenterOfMassVelocity(t *testing.T) {
	g := NewWithT(t)
	grav := NewGravity(DefaultG)
	b1, b2, b3 := FigureEightSource()[0], FigureEightSource()[1], FigureEightSource()[2]

	p0 := System{b1, b2, b3}.Momentum()
	for i := 0; i < 10; i++ {
		grav.Step(&b1, &b2, &b3, 0.0005)
	}
	p1 := System{b1, b2, b3}.Momentum()

	for i := 0; i < 3; i++ {
		g.Expect(p1[i]).To(BeNumerically("~", p0[i], 1e-12))
	}
}

func TestRK4Deterministic(t *testing.T) {
	grav := NewGravity(DefaultG)
	a := FigureEightSource()
	b := FigureEightSource()

	grav.StepSystem(&a, 0.0005)
	grav.StepSystem(&b, 0.0005)

	if a != b {
		t.Errorf("identical inputs diverged:\n%v\n%v", a, b)
	}
}

func TestRK4StepMatchesStepSystem(t *testing.T) {
	grav := NewGravity(DefaultG)
	s := Pythagorean()
	b1, b2, b3 := s[0], s[1], s[2]

	grav.StepSystem(&s, 0.001)
	grav.Step(&b1, &b2, &b3, 0.001)

	if (System{b1, b2, b3}) != s {
		t.Error("Step and StepSystem disagree")
	}
}

func stepDifference(grav *Gravity, dt float64) float64 {
	full := FigureEight()
	halves := FigureEight()
	grav.StepSystem(&full, dt)
	grav.StepSystem(&halves, dt/2)
	grav.StepSystem(&halves, dt/2)
	return Pack(full).Sub(Pack(halves)).Norm()
}

func TestRK4StepDecomposition(t *testing.T) {
	grav := NewGravity(DefaultG)

	if d := stepDifference(grav, 0.01); d > 1e-8 {
		t.Errorf("dt vs 2*dt/2 differ by %e", d)
	}

	// Halving dt shrinks the local error by about 2^5.
	ratio := stepDifference(grav, 0.04) / stepDifference(grav, 0.02)
	if ratio < 16 || ratio > 64 {
		t.Errorf("local error ratio %.2f, expected near 32", ratio)
	}
}

func TestRK4LagrangeRotation(t *testing.T) {
	grav := NewGravity(DefaultG)
	s := Lagrange()
	omega := math.Sqrt(1 / math.Sqrt(3))

	dt := 0.001
	for i := 0; i < 1000; i++ {
		grav.StepSystem(&s, dt)
	}

	sin, cos := math.Sincos(omega * 1.0)
	want := mgl64.Vec3{cos, sin, 0}
	if !s[0].Position.ApproxEqualThreshold(want, 1e-8) {
		t.Errorf("body 1 at %v, want %v", s[0].Position, want)
	}
}

func TestRK4CoincidentPropagatesNaN(t *testing.T) {
	grav := NewGravity(DefaultG)
	b1 := Body{Position: mgl64.Vec3{1, 1, 0}, Mass: 1}
	b2 := b1
	b3 := Body{Position: mgl64.Vec3{-1, 0, 0}, Mass: 1}

	grav.Step(&b1, &b2, &b3, 0.001)

	if (System{b1, b2, b3}).IsFinite() {
		t.Error("expected non-finite state after stepping coincident bodies")
	}
}

func TestRK4CheckedRefusesSingularStep(t *testing.T) {
	g := NewWithT(t)
	grav := NewGravity(DefaultG)
	s := System{
		{Position: mgl64.Vec3{1, 1, 0}, Mass: 1},
		{Position: mgl64.Vec3{1, 1, 0}, Mass: 1},
		{Position: mgl64.Vec3{-1, 0, 0}, Mass: 1},
	}
	before := s

	err := grav.StepChecked(&s, 0.001)
	g.Expect(err).To(MatchError(dynamo.ErrSingular))
	g.Expect(s).To(Equal(before))
}

func TestRK4CheckedSeparationFloor(t *testing.T) {
	grav := NewGravity(DefaultG)
	grav.MinSeparation = 0.5
	s := System{
		{Position: mgl64.Vec3{0.2, 0, 0}, Mass: 1},
		{Position: mgl64.Vec3{-0.2, 0, 0}, Mass: 1},
		{Position: mgl64.Vec3{0, 5, 0}, Mass: 1},
	}

	if err := grav.StepChecked(&s, 0.001); !errors.Is(err, dynamo.ErrSingular) {
		t.Fatalf("expected ErrSingular, got %v", err)
	}

	grav.MinSeparation = 0
	if err := grav.StepChecked(&s, 0.001); err != nil {
		t.Fatalf("unexpected error without floor: %v", err)
	}
}

func TestRK4CheckedMatchesUnchecked(t *testing.T) {
	grav := NewGravity(DefaultG)
	a := FigureEight()
	b := FigureEight()

	for i := 0; i < 100; i++ {
		grav.StepSystem(&a, 0.0005)
		if err := grav.StepChecked(&b, 0.0005); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
	if a != b {
		t.Error("checked and unchecked steps diverged")
	}
}

func TestInvariants(t *testing.T) {
	g := NewWithT(t)
	grav := NewGravity(DefaultG)
	s := FigureEight()

	g.Expect(s.TotalMass()).To(Equal(3.0))
	g.Expect(s.Momentum().Len()).To(BeNumerically("<", 1e-8))
	g.Expect(s.CenterOfMass().Len()).To(BeNumerically("<", 1e-12))
	g.Expect(grav.Energy(s)).To(BeNumerically("~", -1.2871, 1e-3))

	sep, i, j := s.MinSeparation()
	g.Expect(sep).To(BeNumerically("~", math.Hypot(0.97000436, 0.24308753), 1e-12))
	g.Expect(j).To(Equal(2))
	g.Expect(i).To(BeElementOf(0, 1))
}
