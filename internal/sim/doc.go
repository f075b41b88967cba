// Package sim drives the physics core frame by frame.
//
// A [Driver] owns the three bodies. Each call to [Driver.Advance] performs a
// fixed number of RK4 sub-steps at a fixed dt, then publishes a [Frame]
// holding the updated positions to every registered [Sink]. Renderers keep
// their own trail buffers and fill them from frames; the driver never
// retains what it hands out.
//
// Sub-stepping decouples physics resolution from display rate: ten steps of
// 0.0005 per frame is smoother than one step of 0.005 and costs the same
// number of frames.
//
// A driver is single-threaded. Sub-steps depend on each other and run
// sequentially; Run checks for cancellation only between frames.
package sim
