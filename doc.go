// Package viewport implements the coordinate transformation core of a 2D
// track curve editor: the mapping between data space (tracked point
// coordinates) and screen space (widget pixels), and back.
//
// # Overview
//
// A live curve view holds the parameters that shape the mapping: widget and
// display dimensions, zoom, pan, manual nudge offsets, y-axis flip and the
// scale-to-image mode. This package snapshots those parameters into an
// immutable [ViewState], derives an immutable [Transform] from it, and caches
// derived transforms so that rendering and hit-testing never pay for
// re-derivation inside a loop.
//
//	state := viewport.ViewStateOf(view)
//	svc := viewport.NewService()
//	t := svc.FromViewState(state)
//
//	sx, sy := t.Apply(x, y)         // data -> screen
//	x, y = t.ApplyInverse(sx, sy)   // screen -> data (exact inverse)
//
// # Stability
//
// Data-mutating operations (smoothing, filtering) must not visibly shift
// geometry that was already on screen. [Service.BeginStability] returns a
// guard that records reference screen positions before the operation and,
// on End, detects any drift above one pixel and restores the view's
// parameters wholesale:
//
//	guard := svc.BeginStability(view)
//	defer guard.End()
//	smooth(view, guard.Transform())
//
// # Logging
//
// By default the package produces no log output. Call [SetLogger] with a
// *slog.Logger to surface cache activity and drift corrections.
package viewport
