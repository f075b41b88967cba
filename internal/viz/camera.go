package viz

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	MinZoom = 0.05
	MaxZoom = 50.0

	zoomStep = 1.25
	panStep  = 0.1
)

// Camera is a 2D orthographic view onto the orbital plane. Extent is the
// half-height of the visible region in world units at zoom 1.
type Camera struct {
	Center mgl64.Vec2
	Zoom   float64
	Extent float64
}

func NewCamera(extent float64) *Camera {
	if extent <= 0 {
		extent = 1.5
	}
	return &Camera{Zoom: 1, Extent: extent}
}

// HalfHeight returns the visible half-height in world units.
func (c *Camera) HalfHeight() float64 { return c.Extent / c.Zoom }

// Pan moves the view by (dx, dy) steps. One step is a tenth of the visible
// half-height, so panning feels the same at any zoom.
func (c *Camera) Pan(dx, dy float64) {
	step := panStep * c.HalfHeight()
	c.Center = c.Center.Add(mgl64.Vec2{dx * step, dy * step})
}

// SetZoom clamps z to [MinZoom, MaxZoom].
func (c *Camera) SetZoom(z float64) {
	if math.IsNaN(z) {
		return
	}
	c.Zoom = math.Max(MinZoom, math.Min(MaxZoom, z))
}

func (c *Camera) ZoomIn()  { c.SetZoom(c.Zoom * zoomStep) }
func (c *Camera) ZoomOut() { c.SetZoom(c.Zoom / zoomStep) }

// Recenter moves the view centre to p.
func (c *Camera) Recenter(p mgl64.Vec3) { c.Center = p.Vec2() }

func (c *Camera) Reset() {
	c.Center = mgl64.Vec2{}
	c.Zoom = 1
}

// Matrix returns the orthographic projection for a w x h pixel target.
// Pixels are assumed square.
func (c *Camera) Matrix(w, h int) mgl64.Mat4 {
	halfH := c.HalfHeight()
	halfW := halfH
	if h > 0 {
		halfW = halfH * float64(w) / float64(h)
	}
	return mgl64.Ortho2D(
		c.Center.X()-halfW, c.Center.X()+halfW,
		c.Center.Y()-halfH, c.Center.Y()+halfH,
	)
}

// Project maps a world point to pixel coordinates on a w x h target. The
// z coordinate is dropped. ok is false when the point is outside the view.
func (c *Camera) Project(p mgl64.Vec3, w, h int) (x, y int, ok bool) {
	return project(c.Matrix(w, h), p, w, h)
}

func project(m mgl64.Mat4, p mgl64.Vec3, w, h int) (int, int, bool) {
	ndc := mgl64.TransformCoordinate(mgl64.Vec3{p.X(), p.Y(), 0}, m)
	if math.IsNaN(ndc.X()) || math.IsNaN(ndc.Y()) {
		return 0, 0, false
	}
	if ndc.X() < -1 || ndc.X() >= 1 || ndc.Y() <= -1 || ndc.Y() > 1 {
		return 0, 0, false
	}
	x, y := mgl64.GLToScreenCoords(ndc.X(), ndc.Y(), w, h)
	return x, y, true
}

// Fit returns a camera centred on the bounding box of points with the whole
// box visible on a w x h target, plus a margin.
func Fit(points []mgl64.Vec3, w, h int) *Camera {
	c := NewCamera(1)
	if len(points) == 0 {
		return c
	}

	lo, hi := points[0].Vec2(), points[0].Vec2()
	for _, p := range points[1:] {
		lo = mgl64.Vec2{math.Min(lo.X(), p.X()), math.Min(lo.Y(), p.Y())}
		hi = mgl64.Vec2{math.Max(hi.X(), p.X()), math.Max(hi.Y(), p.Y())}
	}

	c.Center = lo.Add(hi).Mul(0.5)
	halfW := (hi.X() - lo.X()) / 2
	halfH := (hi.Y() - lo.Y()) / 2
	if w > 0 && h > 0 {
		halfW *= float64(h) / float64(w)
	}
	c.Extent = math.Max(math.Max(halfW, halfH)*1.1, 1e-3)
	return c
}
