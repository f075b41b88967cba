package optim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/threebody/internal/dynamo"
	"github.com/san-kum/threebody/internal/physics"
)

func TestGridSearchFindsMinimum(t *testing.T) {
	gs, err := NewGridSearch([]string{"a", "b"}, [][]float64{{-1, 0, 1, 2}, {0, 3}})
	if err != nil {
		t.Fatal(err)
	}
	if gs.Size() != 8 {
		t.Errorf("expected 8 combinations, got %d", gs.Size())
	}

	calls := 0
	params, score, err := gs.Search(context.Background(), func(_ context.Context, p map[string]float64) (float64, error) {
		calls++
		return (p["a"]-1)*(p["a"]-1) + (p["b"]-3)*(p["b"]-3), nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if calls != 8 {
		t.Errorf("expected 8 evaluations, got %d", calls)
	}
	if params["a"] != 1 || params["b"] != 3 || score != 0 {
		t.Errorf("got %v with score %v", params, score)
	}
}

func TestGridSearchSkipsFailures(t *testing.T) {
	gs, err := NewGridSearch([]string{"x"}, [][]float64{{1, 2, 3}})
	if err != nil {
		t.Fatal(err)
	}

	params, score, err := gs.Search(context.Background(), func(_ context.Context, p map[string]float64) (float64, error) {
		if p["x"] == 1 {
			return 0, errors.New("boom")
		}
		return p["x"], nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if params["x"] != 2 || score != 2 {
		t.Errorf("got %v with score %v", params, score)
	}

	params, score, err = gs.Search(context.Background(), func(context.Context, map[string]float64) (float64, error) {
		return math.Inf(1), nil
	})
	if err != nil || params != nil || !math.IsInf(score, 1) {
		t.Errorf("expected no winner, got %v %v %v", params, score, err)
	}
}

func TestGridSearchCancel(t *testing.T) {
	gs, err := NewGridSearch([]string{"x"}, [][]float64{{1, 2, 3}})
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err = gs.Search(ctx, func(context.Context, map[string]float64) (float64, error) { return 0, nil })
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected cancellation, got %v", err)
	}
}

func TestNewGridSearchValidation(t *testing.T) {
	if _, err := NewGridSearch([]string{"a"}, nil); !errors.Is(err, dynamo.ErrDimensionMismatch) {
		t.Errorf("expected mismatch, got %v", err)
	}
	if _, err := NewGridSearch([]string{"a"}, [][]float64{{}}); !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("expected bounds error, got %v", err)
	}
}

func TestLargestStableDt(t *testing.T) {
	g := physics.NewGravity(physics.DefaultG)
	q := TimestepQuery{
		Integrator: "euler",
		Candidates: []float64{0.1, 0.01, 0.0001},
		Duration:   0.5,
		Tolerance:  1e-3,
	}

	dt, ok, err := LargestStableDt(context.Background(), g, physics.FigureEight(), q)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected a stable dt")
	}
	if dt == 0.1 {
		t.Error("euler at dt=0.1 should not meet 1e-3")
	}

	q.Integrator = "core"
	dt, ok, err = LargestStableDt(context.Background(), g, physics.FigureEight(), q)
	if err != nil || !ok {
		t.Fatalf("core: %v %v", ok, err)
	}
	if dt != 0.1 {
		t.Errorf("rk4 should tolerate dt=0.1 over half a time unit, got %g", dt)
	}

	q.Tolerance = 0
	if _, _, err := LargestStableDt(context.Background(), g, physics.FigureEight(), q); !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("expected bounds error, got %v", err)
	}
}
