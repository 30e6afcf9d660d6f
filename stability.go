package viewport

// refSample records where a reference point sat on screen before a
// data-mutating operation started.
type refSample struct {
	index  int
	screen Point
}

// StabilityGuard watches a data-mutating operation (smoothing, filtering)
// and guarantees the operation does not visibly shift geometry that was
// already rendered. It captures reference screen positions on Begin and
// verifies them on End; when any reference moved beyond the drift
// threshold, the view's transform parameters are restored wholesale and a
// redraw is triggered.
//
// The guard runs its verification on every exit path when deferred:
//
//	guard := svc.BeginStability(view)
//	defer guard.End()
//	mutatePoints(view, guard.Transform())
//
// Panics and errors from the wrapped operation propagate; End still runs
// through the defer and never suppresses them. End is idempotent.
type StabilityGuard struct {
	svc       *Service
	view      MutableView
	before    ViewState
	transform *Transform
	refs      []refSample
	skipped   bool
	done      bool
}

// BeginStability derives the view's stable transform, records the screen
// positions of up to three reference points (first, middle, last), and
// returns the guard. A view with no points yields a guard that only
// triggers a redraw on End; there is nothing to verify.
func (s *Service) BeginStability(view MutableView) *StabilityGuard {
	g := &StabilityGuard{
		svc:       s,
		view:      view,
		before:    ViewStateOf(view),
		transform: s.StableTransform(view),
	}

	points := view.Points()
	if len(points) == 0 {
		g.skipped = true
		return g
	}

	for _, idx := range referenceIndices(len(points)) {
		g.refs = append(g.refs, refSample{
			index:  idx,
			screen: g.transform.ApplyPoint(points[idx].Point),
		})
	}
	return g
}

// Transform returns the transform captured at Begin. The wrapped operation
// holds this one instance for its whole duration instead of re-deriving
// mid-operation.
func (g *StabilityGuard) Transform() *Transform {
	return g.transform
}

// End re-derives the transform from the live view, recomputes every
// reference position still present, and corrects the view if any moved
// more than the drift threshold. Correction restores the full before
// state through a single SetViewConfig call, so an interrupted operation
// can never leave the view partially corrected.
func (g *StabilityGuard) End() {
	if g.done {
		return
	}
	g.done = true

	if g.skipped {
		g.view.Invalidate()
		return
	}

	after := g.svc.StableTransform(g.view)
	points := g.view.Points()

	var worst float64
	drifted := false
	for _, ref := range g.refs {
		if ref.index >= len(points) {
			continue
		}
		now := after.ApplyPoint(points[ref.index].Point)
		if d := ref.screen.Distance(now); d > g.svc.driftThreshold {
			drifted = true
			if d > worst {
				worst = d
			}
		}
	}

	if drifted {
		Logger().Info("transform drift corrected",
			"worst_px", worst, "threshold_px", g.svc.driftThreshold)
		g.view.SetViewConfig(g.before)
		g.svc.ClearStableTransforms()
	}
	g.view.Invalidate()
}

// referenceIndices picks up to three indices spread over the point list:
// first, middle and last.
func referenceIndices(n int) []int {
	switch {
	case n <= 0:
		return nil
	case n == 1:
		return []int{0}
	case n == 2:
		return []int{0, 1}
	default:
		return []int{0, n / 2, n - 1}
	}
}
