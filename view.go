package viewport

import "fmt"

// Default data extent used when a view does not know its original track
// resolution. Matches full HD, the dominant capture format for the tool.
const (
	DefaultImageWidth  = 1920
	DefaultImageHeight = 1080
)

// View is the read side of a live curve view. The GUI layer adapts its
// widget to this interface; the transform core never touches widget types
// directly.
type View interface {
	// WidgetSize returns the physical render surface size in pixels.
	WidgetSize() (w, h int)
	// ImageSize returns the original data/track coordinate extent.
	// A zero dimension means the view does not know it and the default
	// 1920x1080 extent applies.
	ImageSize() (w, h int)
	// BackgroundSize returns the pixel size of the background image, if
	// one is loaded. When ok is true the background size overrides the
	// display extent.
	BackgroundSize() (w, h int, ok bool)
	// Zoom returns the user zoom factor.
	Zoom() float64
	// Pan returns the pan offset.
	Pan() (x, y float64)
	// ManualOffset returns the user fine-tuning offset, never scaled.
	ManualOffset() (x, y float64)
	// FlipY reports whether the y axis is inverted.
	FlipY() bool
	// ScaleToImage reports whether data coordinates are rescaled into the
	// background image's pixel space before any other transform step.
	ScaleToImage() bool
	// Points returns the tracked points currently loaded in the view.
	// Callers must not mutate the returned slice.
	Points() []TrackPoint
}

// MutableView is a live view whose transform parameters can be written
// back. The stability guard uses it to restore a view after drift.
type MutableView interface {
	View
	// SetViewConfig overwrites every transform-affecting parameter at
	// once. Implementations must apply the whole state or none of it.
	SetViewConfig(ViewState)
	// Invalidate schedules a redraw of the view.
	Invalidate()
}

// ViewState is an immutable snapshot of every parameter that affects a
// transform. It is constructed fresh on every read of a live view and
// never mutated; any change produces a new value via WithUpdates.
type ViewState struct {
	DisplayWidth  int
	DisplayHeight int
	WidgetWidth   int
	WidgetHeight  int
	ZoomFactor    float64
	OffsetX       float64
	OffsetY       float64
	ScaleToImage  bool
	FlipYAxis     bool
	ManualXOffset float64
	ManualYOffset float64
	ImageWidth    int
	ImageHeight   int
}

// ViewStateOf snapshots a live view's configuration. Defaults are applied
// here, once, so the transform math downstream never probes for missing
// values: a zero image extent falls back to 1920x1080 and a loaded
// background image overrides the display extent with its pixel size.
func ViewStateOf(view View) ViewState {
	ww, wh := view.WidgetSize()
	iw, ih := view.ImageSize()
	if iw <= 0 {
		iw = DefaultImageWidth
	}
	if ih <= 0 {
		ih = DefaultImageHeight
	}

	dw, dh := iw, ih
	if bw, bh, ok := view.BackgroundSize(); ok && bw > 0 && bh > 0 {
		dw, dh = bw, bh
	}

	ox, oy := view.Pan()
	mx, my := view.ManualOffset()

	return ViewState{
		DisplayWidth:  dw,
		DisplayHeight: dh,
		WidgetWidth:   ww,
		WidgetHeight:  wh,
		ZoomFactor:    view.Zoom(),
		OffsetX:       ox,
		OffsetY:       oy,
		ScaleToImage:  view.ScaleToImage(),
		FlipYAxis:     view.FlipY(),
		ManualXOffset: mx,
		ManualYOffset: my,
		ImageWidth:    iw,
		ImageHeight:   ih,
	}
}

// WithUpdates returns a copy of the state with the named fields overridden.
// Field names are the exported struct field names. An unknown field name is
// a programming error and fails immediately with ErrUnknownField.
func (s ViewState) WithUpdates(fields map[string]any) (ViewState, error) {
	out := s
	for name, value := range fields {
		var err error
		switch name {
		case "DisplayWidth":
			out.DisplayWidth, err = intField(name, value)
		case "DisplayHeight":
			out.DisplayHeight, err = intField(name, value)
		case "WidgetWidth":
			out.WidgetWidth, err = intField(name, value)
		case "WidgetHeight":
			out.WidgetHeight, err = intField(name, value)
		case "ZoomFactor":
			out.ZoomFactor, err = floatField(name, value)
		case "OffsetX":
			out.OffsetX, err = floatField(name, value)
		case "OffsetY":
			out.OffsetY, err = floatField(name, value)
		case "ScaleToImage":
			out.ScaleToImage, err = boolField(name, value)
		case "FlipYAxis":
			out.FlipYAxis, err = boolField(name, value)
		case "ManualXOffset":
			out.ManualXOffset, err = floatField(name, value)
		case "ManualYOffset":
			out.ManualYOffset, err = floatField(name, value)
		case "ImageWidth":
			out.ImageWidth, err = intField(name, value)
		case "ImageHeight":
			out.ImageHeight, err = intField(name, value)
		default:
			return ViewState{}, fmt.Errorf("viewport: view state has no field %q: %w", name, ErrUnknownField)
		}
		if err != nil {
			return ViewState{}, err
		}
	}
	return out, nil
}

// Key returns a stable 64-bit hash over the full parameter tuple. Two states
// hash equal iff every field compares equal, which makes the key safe as a
// cache identity.
func (s ViewState) Key() uint64 {
	h := uint64(fnvOffset)
	h = foldInt(h, s.DisplayWidth)
	h = foldInt(h, s.DisplayHeight)
	h = foldInt(h, s.WidgetWidth)
	h = foldInt(h, s.WidgetHeight)
	h = foldFloat(h, s.ZoomFactor)
	h = foldFloat(h, s.OffsetX)
	h = foldFloat(h, s.OffsetY)
	h = foldBool(h, s.ScaleToImage)
	h = foldBool(h, s.FlipYAxis)
	h = foldFloat(h, s.ManualXOffset)
	h = foldFloat(h, s.ManualYOffset)
	h = foldInt(h, s.ImageWidth)
	h = foldInt(h, s.ImageHeight)
	return h
}

// intField coerces an update value to int.
func intField(name string, v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case float64:
		return int(n), nil
	default:
		return 0, fmt.Errorf("viewport: field %q wants an int, got %T", name, v)
	}
}

// floatField coerces an update value to float64.
func floatField(name string, v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("viewport: field %q wants a float64, got %T", name, v)
	}
}

// boolField coerces an update value to bool.
func boolField(name string, v any) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("viewport: field %q wants a bool, got %T", name, v)
	}
	return b, nil
}
