package viz

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/san-kum/threebody/internal/dynamo"
)

// DefaultFadeLevels is the number of shades a trail fades through.
const DefaultFadeLevels = 4

// Palette maps canvas layers to styles. Layer 0 is unstyled. Trail layers
// are ordered oldest shade first so fresher trail wins a shared cell; body
// heads sit above every trail.
type Palette struct {
	Styles []lipgloss.Style
	Colors [3]colorful.Color
	levels int
}

// NewPalette blends each body colour toward the theme background in Lab
// space to build the trail shades. An empty body colour falls back to the
// theme's.
func NewPalette(theme Theme, bodies [3]string, levels int) (*Palette, error) {
	if levels < 1 {
		return nil, fmt.Errorf("fade levels must be at least 1, got %d: %w", levels, dynamo.ErrParameterBounds)
	}

	bg, err := colorful.Hex(string(theme.Background))
	if err != nil {
		return nil, fmt.Errorf("theme %s background: %w", theme.Name, err)
	}

	p := &Palette{
		Styles: make([]lipgloss.Style, 1+3*levels+3),
		levels: levels,
	}
	p.Styles[0] = lipgloss.NewStyle()

	for i := range bodies {
		hex := bodies[i]
		if hex == "" {
			hex = theme.Bodies[i]
		}
		c, err := colorful.Hex(hex)
		if err != nil {
			return nil, fmt.Errorf("body %d colour %q: %w", i+1, hex, err)
		}
		p.Colors[i] = c

		for level := 0; level < levels; level++ {
			t := 0.25 + 0.75*float64(level+1)/float64(levels)
			shade := bg.BlendLab(c, t).Clamped()
			p.Styles[p.TrailLayer(i, level)] = lipgloss.NewStyle().Foreground(lipgloss.Color(shade.Hex()))
		}
		p.Styles[p.HeadLayer(i)] = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(c.Hex()))
	}
	return p, nil
}

func (p *Palette) Levels() int { return p.levels }

// TrailLayer returns the layer of body at fade level (0 = oldest shade).
func (p *Palette) TrailLayer(body, level int) int {
	if level < 0 {
		level = 0
	}
	if level >= p.levels {
		level = p.levels - 1
	}
	return 1 + level*3 + body
}

// LevelFor maps the i-th of n trail points (0 = oldest) to a fade level.
func (p *Palette) LevelFor(i, n int) int {
	if n <= 1 {
		return p.levels - 1
	}
	return i * p.levels / n
}

func (p *Palette) HeadLayer(body int) int { return 1 + p.levels*3 + body }
