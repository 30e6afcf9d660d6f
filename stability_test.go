package viewport

import "testing"

func trackLine(n int) []TrackPoint {
	points := make([]TrackPoint, n)
	for i := range points {
		points[i] = TrackPoint{
			Frame: i + 1,
			Point: Point{X: float64(i * 10), Y: float64(i * 5)},
		}
	}
	return points
}

func TestStabilityNoDrift(t *testing.T) {
	svc := NewService()
	v := newFakeView()
	v.points = trackLine(10)

	guard := svc.BeginStability(v)
	// A well-behaved operation: point data changes but nothing touches
	// the view's transform parameters, and the changes stay sub-pixel in
	// screen space.
	v.points[3].Status = StatusKeyframe
	guard.End()

	if v.restores != 0 {
		t.Errorf("restores = %d, want 0 without drift", v.restores)
	}
	if v.invalidations != 1 {
		t.Errorf("invalidations = %d, want 1 redraw trigger", v.invalidations)
	}
}

func TestStabilityCorrectsDrift(t *testing.T) {
	svc := NewService()
	v := newFakeView()
	v.points = trackLine(10)

	guard := svc.BeginStability(v)
	// A misbehaving operation: it nudges the zoom mid-flight, which
	// visibly shifts every already-rendered point.
	v.zoom = 2
	guard.End()

	if v.restores != 1 {
		t.Fatalf("restores = %d, want 1", v.restores)
	}
	if v.zoom != 1 {
		t.Errorf("zoom = %v after correction, want 1", v.zoom)
	}
	if v.invalidations != 1 {
		t.Errorf("invalidations = %d, want 1", v.invalidations)
	}
}

func TestStabilityCorrectionIsWholesale(t *testing.T) {
	svc := NewService()
	v := newFakeView()
	v.points = trackLine(5)

	guard := svc.BeginStability(v)
	v.zoom = 3
	v.panX = 40
	v.flipY = true
	guard.End()

	// Every transform-affecting parameter goes back at once.
	if v.zoom != 1 || v.panX != 0 || v.flipY {
		t.Errorf("partial correction: zoom=%v panX=%v flipY=%v", v.zoom, v.panX, v.flipY)
	}
}

func TestStabilityZeroPoints(t *testing.T) {
	svc := NewService()
	v := newFakeView()

	guard := svc.BeginStability(v)
	if guard.Transform() == nil {
		t.Fatal("guard yields no transform for an empty view")
	}
	v.zoom = 5 // nothing rendered, nothing to verify
	guard.End()

	if v.restores != 0 {
		t.Errorf("restores = %d, want 0 with no points", v.restores)
	}
	if v.invalidations != 1 {
		t.Errorf("invalidations = %d, want 1", v.invalidations)
	}
}

func TestStabilityEndIdempotent(t *testing.T) {
	svc := NewService()
	v := newFakeView()
	v.points = trackLine(3)

	guard := svc.BeginStability(v)
	guard.End()
	guard.End()

	if v.invalidations != 1 {
		t.Errorf("invalidations = %d after double End, want 1", v.invalidations)
	}
}

func TestStabilityRunsOnPanic(t *testing.T) {
	svc := NewService()
	v := newFakeView()
	v.points = trackLine(10)

	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("panic swallowed")
			}
		}()

		guard := svc.BeginStability(v)
		defer guard.End()
		v.zoom = 2
		panic("operation failed")
	}()

	// The deferred End ran during unwinding and corrected the view.
	if v.restores != 1 {
		t.Errorf("restores = %d, want 1 after panicking operation", v.restores)
	}
	if v.zoom != 1 {
		t.Errorf("zoom = %v, want 1 restored", v.zoom)
	}
}

func TestStabilityReferenceShrunkPointList(t *testing.T) {
	svc := NewService()
	v := newFakeView()
	v.points = trackLine(9)

	guard := svc.BeginStability(v)
	// The operation dropped the tail; the last reference index no longer
	// exists and must simply be skipped.
	v.points = v.points[:4]
	guard.End()

	if v.restores != 0 {
		t.Errorf("restores = %d, want 0 when surviving references are stable", v.restores)
	}
}

func TestReferenceIndices(t *testing.T) {
	tests := []struct {
		n    int
		want []int
	}{
		{0, nil},
		{1, []int{0}},
		{2, []int{0, 1}},
		{3, []int{0, 1, 2}},
		{10, []int{0, 5, 9}},
		{100, []int{0, 50, 99}},
	}
	for _, tc := range tests {
		got := referenceIndices(tc.n)
		if len(got) != len(tc.want) {
			t.Errorf("referenceIndices(%d) = %v, want %v", tc.n, got, tc.want)
			continue
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Errorf("referenceIndices(%d) = %v, want %v", tc.n, got, tc.want)
				break
			}
		}
	}
}
