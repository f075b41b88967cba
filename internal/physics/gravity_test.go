package physics

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/gomega"
)

func TestForceInverseSquare(t *testing.T) {
	g := NewWithT(t)
	grav := NewGravity(1)

	a := Body{Position: mgl64.Vec3{0, 0, 0}, Mass: 1}
	b := Body{Position: mgl64.Vec3{2, 0, 0}, Mass: 3}

	f := grav.Force(a, b)
	g.Expect(f[0]).To(BeNumerically("~", 0.75, 1e-15))
	g.Expect(f[1]).To(BeZero())
	g.Expect(f[2]).To(BeZero())

	grav.G = 2
	g.Expect(grav.Force(a, b)[0]).To(BeNumerically("~", 1.5, 1e-15))
}

func TestForceSymmetry(t *testing.T) {
	g := NewWithT(t)
	grav := NewGravity(DefaultG)

	pairs := []struct {
		name string
		a, b Body
	}{
		{"equal masses", Body{Position: mgl64.Vec3{1, 0, 0}, Mass: 1}, Body{Position: mgl64.Vec3{-1, 0.5, 0}, Mass: 1}},
		{"unequal masses", Body{Position: mgl64.Vec3{0.3, -2, 1}, Mass: 5}, Body{Position: mgl64.Vec3{4, 1, -0.2}, Mass: 0.01}},
		{"close pair", Body{Position: mgl64.Vec3{1e-3, 0, 0}, Mass: 2}, Body{Position: mgl64.Vec3{0, 1e-3, 1e-3}, Mass: 7}},
	}

	for _, p := range pairs {
		lhs := grav.Force(p.a, p.b).Mul(p.a.Mass)
		rhs := grav.Force(p.b, p.a).Mul(-p.b.Mass)
		scale := lhs.Len()
		for i := 0; i < 3; i++ {
			g.Expect(lhs[i]).To(BeNumerically("~", rhs[i], 1e-12*scale), p.name)
		}
	}
}

func TestForceDegenerate(t *testing.T) {
	grav := NewGravity(DefaultG)
	a := Body{Position: mgl64.Vec3{0.5, 0.5, 0.5}, Mass: 1}

	f := grav.Force(a, a)
	for i, c := range f {
		if !math.IsNaN(c) && !math.IsInf(c, 0) {
			t.Errorf("component %d = %v, want non-finite", i, c)
		}
	}
}

func TestDeriveOrderAndSuperposition(t *testing.T) {
	g := NewWithT(t)
	grav := NewGravity(DefaultG)
	s := FigureEightSource()
	before := s

	d := grav.Derive(s)
	g.Expect(s).To(Equal(before), "Derive must not mutate its input")

	v := d.Vectors()
	for i := 0; i < 3; i++ {
		g.Expect(v[2*i]).To(Equal(s[i].Velocity))
	}

	a1 := grav.Force(s[0], s[1]).Add(grav.Force(s[0], s[2]))
	a2 := grav.Force(s[1], s[0]).Add(grav.Force(s[1], s[2]))
	a3 := grav.Force(s[2], s[0]).Add(grav.Force(s[2], s[1]))
	g.Expect(v[1]).To(Equal(a1))
	g.Expect(v[3]).To(Equal(a2))
	g.Expect(v[5]).To(Equal(a3))
	g.Expect(d.IsFinite()).To(BeTrue())
}

func TestDeriveReorderedBodies(t *testing.T) {
	grav := NewGravity(DefaultG)
	s := Pythagorean()
	r := System{s[2], s[0], s[1]}

	d := grav.Derive(s)
	dr := grav.Derive(r)
	for i, j := range []int{1, 2, 0} {
		if !d[i].Acceleration.ApproxEqualThreshold(dr[j].Acceleration, 1e-14) {
			t.Errorf("body %d: %v vs %v", i, d[i].Acceleration, dr[j].Acceleration)
		}
	}
}
