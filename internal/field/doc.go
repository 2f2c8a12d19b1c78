// Package field implements the animated particle background.
//
// An [Animator] owns a fixed-size pool of [Particle] values and a drawable
// [Surface]. Once mounted on a [Host] it runs one frame per scheduler
// callback: clear the surface, advance every particle, recycle the ones
// that fell past the bottom edge, draw them in the style of the selected
// [Mode], then request the next frame.
//
//   - [Mode]: dna, molecules or network (anything else falls back to plain dots)
//   - [Palette]: colours sampled uniformly per particle
//   - [Scheduler]: the "run again before the next repaint" primitive
//
// # Example
//
//	a := field.New(field.WithMode(field.ModeDNA), field.WithPalette(pal), field.WithSeed(42))
//	a.Mount(host)
//	defer a.Unmount()
//
// # Thread Safety
//
// Animator instances are NOT thread-safe. All calls, including the frame
// callbacks handed to the [Scheduler], must happen on the host's UI
// goroutine.
package field
