package viz

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/threebody/internal/sim"
	"github.com/san-kum/threebody/internal/trail"
)

// Trails keeps a bounded position history per body. It is a sim.Sink: every
// published frame appends each body's position to that body's ring.
type Trails struct {
	rings [3]*trail.Ring[mgl64.Vec3]
}

func NewTrails(capacity int) (*Trails, error) {
	t := &Trails{}
	for i := range t.rings {
		r, err := trail.New[mgl64.Vec3](capacity)
		if err != nil {
			return nil, err
		}
		t.rings[i] = r
	}
	return t, nil
}

func (t *Trails) OnFrame(f sim.Frame) {
	for i, p := range f.Positions {
		t.rings[i].Push(p)
	}
}

func (t *Trails) Body(i int) *trail.Ring[mgl64.Vec3] { return t.rings[i] }

func (t *Trails) Len() int { return t.rings[0].Len() }

// Points returns every stored position of every body.
func (t *Trails) Points() []mgl64.Vec3 {
	out := make([]mgl64.Vec3, 0, 3*t.rings[0].Len())
	for _, r := range t.rings {
		out = append(out, r.Points()...)
	}
	return out
}

func (t *Trails) Reset() {
	for _, r := range t.rings {
		r.Reset()
	}
}

// DrawScene renders the trails, oldest shade first, and then the three body
// heads. Trail segments with an endpoint outside the view are skipped.
func DrawScene(c *Canvas, cam *Camera, p *Palette, trails *Trails, heads [3]mgl64.Vec3) {
	w, h := c.Dots()
	m := cam.Matrix(w, h)

	if trails != nil {
		for body := range heads {
			ring := trails.Body(body)
			n := ring.Len()
			var px, py int
			prevOK := false
			ring.Do(func(i int, pos mgl64.Vec3) {
				x, y, ok := project(m, pos, w, h)
				layer := p.TrailLayer(body, p.LevelFor(i, n))
				if ok {
					if prevOK {
						c.DrawLine(px, py, x, y, layer)
					} else {
						c.Plot(x, y, layer)
					}
				}
				px, py, prevOK = x, y, ok
			})
		}
	}

	for body, pos := range heads {
		if x, y, ok := project(m, pos, w, h); ok {
			c.Disc(x, y, 1, p.HeadLayer(body))
		}
	}
}
