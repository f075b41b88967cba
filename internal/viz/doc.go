// Package viz renders a running three-body simulation in the terminal.
//
// The live view is a Bubble Tea program:
//
//   - [Model]: drives a sim.Driver one frame per tick
//   - [Canvas]: Braille pixel grid with per-cell colour layers
//   - [Camera]: orthographic pan/zoom view onto the orbital plane
//   - [Trails]: per-body bounded position history, fed as a sim.Sink
//
// # Key Bindings
//
//	Space   - Pause/Resume simulation
//	R       - Reset to initial state
//	W/A/S/D - Pan (arrow keys too)
//	+/-     - Zoom, clamped to [MinZoom, MaxZoom]
//	C       - Recenter on the centre of mass
//	T       - Cycle colour themes
//	Q       - Quit
package viz
