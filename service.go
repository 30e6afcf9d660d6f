package viewport

// DefaultDriftThreshold is the pixel distance above which a reference
// point's screen movement counts as drift.
const DefaultDriftThreshold = 1.0

// Service derives cached transforms from view states and applies them to
// points. It is a stateless façade over two bounded caches: a general
// cache keyed by the full view state, and a stable per-view cache that
// guarantees repeated lookups for the same live view and parameters return
// the identical *Transform, which the stability protocol depends on.
//
// A Service owns its caches; construct one per composition root (or per
// test) instead of sharing process-wide state.
type Service struct {
	cache          *boundedCache[uint64]
	stable         *boundedCache[stableKey]
	driftThreshold float64
	build          func(ViewState) Transform
}

// Option configures a Service during creation.
type Option func(*Service)

// WithCacheSize bounds the general transform cache. Values <= 0 keep the
// default of 20 entries.
func WithCacheSize(n int) Option {
	return func(s *Service) {
		s.cache = newBoundedCache[uint64](n)
	}
}

// WithStableCacheSize bounds the stable per-view cache. Values <= 0 keep
// the default of 10 entries.
func WithStableCacheSize(n int) Option {
	return func(s *Service) {
		s.stable = newBoundedCache[stableKey](n)
	}
}

// WithDriftThreshold overrides the pixel threshold used by DetectDrift and
// the stability guard. Values <= 0 keep the default of 1 pixel.
func WithDriftThreshold(px float64) Option {
	return func(s *Service) {
		if px > 0 {
			s.driftThreshold = px
		}
	}
}

// WithTransformFactory injects the function that derives a Transform from
// a ViewState. The default factory implements the standard pipeline
// derivation; tests inject a wrapper to observe how often derivation
// actually runs.
func WithTransformFactory(f func(ViewState) Transform) Option {
	return func(s *Service) {
		if f != nil {
			s.build = f
		}
	}
}

// NewService creates a transformation service with its own caches.
func NewService(opts ...Option) *Service {
	s := &Service{
		cache:          newBoundedCache[uint64](DefaultCacheSize),
		stable:         newBoundedCache[stableKey](DefaultStableCacheSize),
		driftThreshold: DefaultDriftThreshold,
		build:          DeriveTransform,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DeriveTransform computes the transform a view state describes, without
// caching. The main scale fits the display extent into the widget and
// multiplies by the user zoom; centering offsets place the scaled content
// in the middle of the widget; image scale factors remap the original
// track extent into the display extent only in scale-to-image mode.
func DeriveTransform(state ViewState) Transform {
	base := 1.0
	if state.DisplayWidth > 0 && state.DisplayHeight > 0 {
		sx := float64(state.WidgetWidth) / float64(state.DisplayWidth)
		sy := float64(state.WidgetHeight) / float64(state.DisplayHeight)
		base = min(sx, sy)
	}
	scale := base * state.ZoomFactor

	cx, cy := centerContent(
		float64(state.WidgetWidth), float64(state.WidgetHeight),
		float64(state.DisplayWidth)*scale, float64(state.DisplayHeight)*scale,
	)

	imageScaleX, imageScaleY := 1.0, 1.0
	if state.ScaleToImage {
		if state.ImageWidth > 0 {
			imageScaleX = float64(state.DisplayWidth) / float64(state.ImageWidth)
		}
		if state.ImageHeight > 0 {
			imageScaleY = float64(state.DisplayHeight) / float64(state.ImageHeight)
		}
	}

	return Transform{
		Scale:         scale,
		CenterOffsetX: cx,
		CenterOffsetY: cy,
		PanOffsetX:    state.OffsetX,
		PanOffsetY:    state.OffsetY,
		ManualOffsetX: state.ManualXOffset,
		ManualOffsetY: state.ManualYOffset,
		FlipY:         state.FlipYAxis,
		DisplayHeight: float64(state.DisplayHeight),
		ImageScaleX:   imageScaleX,
		ImageScaleY:   imageScaleY,
		ScaleToImage:  state.ScaleToImage,
	}
}

// FromViewState returns the cached transform for the state, deriving and
// caching it on a miss. Structurally equal states return the identical
// *Transform instance until the entry is evicted.
func (s *Service) FromViewState(state ViewState) *Transform {
	key := state.Key()
	if t, ok := s.cache.get(key); ok {
		Logger().Debug("transform cache hit", "key", key)
		return t
	}

	t := s.build(state)
	pt := &t
	s.cache.put(key, pt)
	Logger().Debug("transform derived", "key", key, "scale", t.Scale)
	return pt
}

// FromView snapshots the live view and returns its cached transform.
func (s *Service) FromView(view View) *Transform {
	return s.FromViewState(ViewStateOf(view))
}

// TransformPoint maps a single data-space position to screen space.
func (s *Service) TransformPoint(t *Transform, x, y float64) (sx, sy float64) {
	return t.Apply(x, y)
}

// TransformPoints maps a batch of data-space points to screen space in one
// pass, preserving input order. The input slice is never mutated and the
// transform is not re-derived per point, so the cost is O(1) per point.
func (s *Service) TransformPoints(t *Transform, points []Point) []Point {
	out := make([]Point, len(points))
	for i, p := range points {
		out[i] = t.ApplyPoint(p)
	}
	return out
}

// stableKey identifies a live view together with the parameter values that
// are critical for on-screen stability. View identity is the identity of
// the adapter value itself; adapters must therefore be comparable
// (pointers are).
type stableKey struct {
	view         View
	zoom         float64
	panX, panY   float64
	flip         bool
	scaleToImage bool
}

func stableKeyOf(view View) stableKey {
	panX, panY := view.Pan()
	return stableKey{
		view:         view,
		zoom:         view.Zoom(),
		panX:         panX,
		panY:         panY,
		flip:         view.FlipY(),
		scaleToImage: view.ScaleToImage(),
	}
}

// StableTransform returns a cached transform for the view keyed by view
// identity plus the current critical parameters. Two calls in immediate
// succession for an unchanged view return the same instance; any change to
// zoom, pan, flip or scale-to-image produces a different key and thus a
// fresh derivation.
func (s *Service) StableTransform(view View) *Transform {
	key := stableKeyOf(view)
	if t, ok := s.stable.get(key); ok {
		return t
	}
	t := s.FromView(view)
	s.stable.put(key, t)
	return t
}

// DetectDrift compares the screen positions of two point lists under two
// transforms and reports every index whose position moved more than
// threshold pixels (Euclidean). A threshold <= 0 selects the service's
// configured threshold.
//
// Two rules beyond the per-point distances:
//   - Differing transforms applied to otherwise identical geometry are
//     drift by definition, so index 0 is reported even when every measured
//     distance is below the threshold.
//   - Mismatched list lengths are a soft condition: the comparison covers
//     the overlapping prefix and logs a warning.
func (s *Service) DetectDrift(before, after []TrackPoint, beforeT, afterT *Transform, threshold float64) (bool, map[int]float64) {
	if threshold <= 0 {
		threshold = s.driftThreshold
	}

	drifted := make(map[int]float64)
	detected := false

	if len(before) != len(after) {
		Logger().Warn("drift check on mismatched point lists",
			"before", len(before), "after", len(after))
	}

	sameTransform := transformsEqual(beforeT, afterT)
	n := min(len(before), len(after))
	for i := 0; i < n; i++ {
		bp := screenPosition(beforeT, before[i].Point)
		ap := screenPosition(afterT, after[i].Point)
		d := bp.Distance(ap)
		if d > threshold {
			drifted[i] = d
			detected = true
		}
	}

	if !sameTransform {
		detected = true
		if _, ok := drifted[0]; !ok {
			var d float64
			if n > 0 {
				d = screenPosition(beforeT, before[0].Point).
					Distance(screenPosition(afterT, after[0].Point))
			}
			drifted[0] = d
		}
	}

	return detected, drifted
}

// transformsEqual compares two transforms by value, treating two nils as
// equal.
func transformsEqual(a, b *Transform) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// screenPosition applies t to p, treating a nil transform as identity.
func screenPosition(t *Transform, p Point) Point {
	if t == nil {
		return p
	}
	return t.ApplyPoint(p)
}

// ClearCache drops every entry from the general transform cache.
func (s *Service) ClearCache() {
	s.cache.clear()
}

// ClearStableTransforms drops every entry from the stable per-view cache.
func (s *Service) ClearStableTransforms() {
	s.stable.clear()
}

// Stats returns a snapshot of both caches.
func (s *Service) Stats() CacheStats {
	return CacheStats{
		Size:          s.cache.len(),
		MaxSize:       s.cache.maxEntries,
		StableSize:    s.stable.len(),
		StableMaxSize: s.stable.maxEntries,
		Hits:          s.cache.hits.Load() + s.stable.hits.Load(),
		Misses:        s.cache.misses.Load() + s.stable.misses.Load(),
		Evictions:     s.cache.evictions.Load() + s.stable.evictions.Load(),
	}
}
