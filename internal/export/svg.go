package export

import (
	"bufio"
	"fmt"
	"html"
	"io"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/threebody/internal/dynamo"
	"github.com/san-kum/threebody/internal/storage"
	"github.com/san-kum/threebody/internal/viz"
)

type SVGOptions struct {
	Width, Height int
	// MaxPoints caps the vertices per body path; longer trajectories are
	// thinned by a fixed stride. Zero means no cap.
	MaxPoints  int
	Colors     [3]string
	Background string
	Title      string
}

func DefaultSVGOptions() SVGOptions {
	return SVGOptions{
		Width:      800,
		Height:     800,
		MaxPoints:  5000,
		Colors:     viz.ThemeCyberpunk.Bodies,
		Background: string(viz.ThemeCyberpunk.Background),
	}
}

// Paths splits recorded samples into one position path per body.
func Paths(samples []storage.Sample) [3][]mgl64.Vec3 {
	var paths [3][]mgl64.Vec3
	for i := range paths {
		paths[i] = make([]mgl64.Vec3, len(samples))
	}
	for k, smp := range samples {
		for i, b := range smp.System {
			paths[i][k] = b.Position
		}
	}
	return paths
}

// TrajectoriesToSVG draws each body's path in its colour with a dot at the
// final position. The view is fitted to all points.
func TrajectoriesToSVG(w io.Writer, paths [3][]mgl64.Vec3, opts SVGOptions) error {
	if opts.Width < 1 || opts.Height < 1 {
		return fmt.Errorf("svg size %dx%d: %w", opts.Width, opts.Height, dynamo.ErrParameterBounds)
	}

	all := make([]mgl64.Vec3, 0, 3*len(paths[0]))
	for _, p := range paths {
		all = append(all, p...)
	}
	if len(all) == 0 {
		return fmt.Errorf("no points to draw: %w", dynamo.ErrParameterBounds)
	}
	cam := viz.Fit(all, opts.Width, opts.Height)

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, opts.Width, opts.Height, opts.Width, opts.Height, opts.Background)
	if opts.Title != "" {
		fmt.Fprintf(bw, "<title>%s</title>\n", html.EscapeString(opts.Title))
	}

	for i, path := range paths {
		if len(path) == 0 {
			continue
		}
		stride := 1
		if opts.MaxPoints > 0 && len(path) > opts.MaxPoints {
			stride = (len(path) + opts.MaxPoints - 1) / opts.MaxPoints
		}

		fmt.Fprintf(bw, `<path fill="none" stroke="%s" stroke-width="1.2" stroke-opacity="0.8" d="`, opts.Colors[i])
		cmd := "M"
		for k := 0; k < len(path); k += stride {
			x, y, ok := cam.Project(path[k], opts.Width, opts.Height)
			if !ok {
				cmd = "M"
				continue
			}
			fmt.Fprintf(bw, "%s%d,%d ", cmd, x, y)
			cmd = "L"
		}
		bw.WriteString("\"/>\n")

		if x, y, ok := cam.Project(path[len(path)-1], opts.Width, opts.Height); ok {
			fmt.Fprintf(bw, "<circle cx=\"%d\" cy=\"%d\" r=\"5\" fill=\"%s\"/>\n", x, y, opts.Colors[i])
		}
	}

	bw.WriteString("</svg>\n")
	return bw.Flush()
}
