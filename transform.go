package viewport

import (
	"errors"
	"fmt"
)

// ErrUnknownField reports a WithUpdates call that names a field the target
// type does not have. It signals a programming error at the call site and
// is never returned for merely degenerate parameter values.
var ErrUnknownField = errors.New("viewport: unknown field")

// Transform is an immutable, reversible mapping between data space and
// screen space. The forward pipeline applies, in fixed order:
//
//  1. image scaling       (only when ScaleToImage)
//  2. y-axis flip         (only when FlipY, around DisplayHeight)
//  3. main scale
//  4. center offset
//  5. pan offset
//  6. manual offset
//
// ApplyInverse undoes the stages in reverse order and is an exact inverse
// for every transform with nonzero Scale and, when ScaleToImage is set,
// nonzero image scale factors.
//
// Transforms are plain comparable values: two transforms are equal iff all
// parameters are bit-for-bit equal, and Hash is derived from exactly that
// tuple. "Modification" happens only through WithUpdates, which returns a
// new value.
type Transform struct {
	Scale         float64
	CenterOffsetX float64
	CenterOffsetY float64
	PanOffsetX    float64
	PanOffsetY    float64
	ManualOffsetX float64
	ManualOffsetY float64
	FlipY         bool
	DisplayHeight float64
	ImageScaleX   float64
	ImageScaleY   float64
	ScaleToImage  bool
}

// Identity returns the transform that maps every point to itself.
func Identity() Transform {
	return Transform{Scale: 1, ImageScaleX: 1, ImageScaleY: 1}
}

// Apply maps a data-space position to screen space.
func (t Transform) Apply(x, y float64) (sx, sy float64) {
	if t.ScaleToImage {
		x *= t.ImageScaleX
		y *= t.ImageScaleY
	}
	// The flip uses DisplayHeight in both the scale-to-image and direct
	// branches. The two compose correctly regardless of the order the
	// user enabled them, because the flip always runs after image scaling.
	if t.FlipY {
		y = t.DisplayHeight - y
	}
	x *= t.Scale
	y *= t.Scale
	x += t.CenterOffsetX
	y += t.CenterOffsetY
	x += t.PanOffsetX
	y += t.PanOffsetY
	x += t.ManualOffsetX
	y += t.ManualOffsetY
	return x, y
}

// ApplyPoint maps a data-space Point to screen space.
func (t Transform) ApplyPoint(p Point) Point {
	x, y := t.Apply(p.X, p.Y)
	return Point{X: x, Y: y}
}

// ApplyInverse maps a screen-space position back to data space, undoing
// the forward stages in reverse order.
//
// A zero Scale or a zero image scale factor marks a transient degenerate
// state (widget not yet shown, image not yet sized). The corresponding
// division is skipped instead of raised, so rendering code can call through
// the degenerate window without guarding.
func (t Transform) ApplyInverse(sx, sy float64) (x, y float64) {
	x, y = sx, sy
	x -= t.ManualOffsetX
	y -= t.ManualOffsetY
	x -= t.PanOffsetX
	y -= t.PanOffsetY
	x -= t.CenterOffsetX
	y -= t.CenterOffsetY
	if t.Scale != 0 {
		x /= t.Scale
		y /= t.Scale
	}
	if t.FlipY {
		y = t.DisplayHeight - y
	}
	if t.ScaleToImage && t.ImageScaleX != 0 && t.ImageScaleY != 0 {
		x /= t.ImageScaleX
		y /= t.ImageScaleY
	}
	return x, y
}

// ApplyInversePoint maps a screen-space Point back to data space.
func (t Transform) ApplyInversePoint(p Point) Point {
	x, y := t.ApplyInverse(p.X, p.Y)
	return Point{X: x, Y: y}
}

// ApplyForImagePosition returns the screen position of the background
// image's top-left corner, i.e. Apply(0, 0). Anchoring the image through
// the same transform as the curve guarantees the two cannot drift apart.
func (t Transform) ApplyForImagePosition() (sx, sy float64) {
	return t.Apply(0, 0)
}

// WithUpdates returns a copy of the transform with the named fields
// overridden. Field names are the exported struct field names. An unknown
// field name fails immediately with ErrUnknownField; it is never silently
// ignored.
func (t Transform) WithUpdates(fields map[string]any) (Transform, error) {
	out := t
	for name, value := range fields {
		var err error
		switch name {
		case "Scale":
			out.Scale, err = floatField(name, value)
		case "CenterOffsetX":
			out.CenterOffsetX, err = floatField(name, value)
		case "CenterOffsetY":
			out.CenterOffsetY, err = floatField(name, value)
		case "PanOffsetX":
			out.PanOffsetX, err = floatField(name, value)
		case "PanOffsetY":
			out.PanOffsetY, err = floatField(name, value)
		case "ManualOffsetX":
			out.ManualOffsetX, err = floatField(name, value)
		case "ManualOffsetY":
			out.ManualOffsetY, err = floatField(name, value)
		case "FlipY":
			out.FlipY, err = boolField(name, value)
		case "DisplayHeight":
			out.DisplayHeight, err = floatField(name, value)
		case "ImageScaleX":
			out.ImageScaleX, err = floatField(name, value)
		case "ImageScaleY":
			out.ImageScaleY, err = floatField(name, value)
		case "ScaleToImage":
			out.ScaleToImage, err = boolField(name, value)
		default:
			return Transform{}, fmt.Errorf("viewport: transform has no field %q: %w", name, ErrUnknownField)
		}
		if err != nil {
			return Transform{}, err
		}
	}
	return out, nil
}

// Parameters returns the transform's parameters keyed by field name, for
// diagnostic overlays and logging.
func (t Transform) Parameters() map[string]any {
	return map[string]any{
		"Scale":         t.Scale,
		"CenterOffsetX": t.CenterOffsetX,
		"CenterOffsetY": t.CenterOffsetY,
		"PanOffsetX":    t.PanOffsetX,
		"PanOffsetY":    t.PanOffsetY,
		"ManualOffsetX": t.ManualOffsetX,
		"ManualOffsetY": t.ManualOffsetY,
		"FlipY":         t.FlipY,
		"DisplayHeight": t.DisplayHeight,
		"ImageScaleX":   t.ImageScaleX,
		"ImageScaleY":   t.ImageScaleY,
		"ScaleToImage":  t.ScaleToImage,
	}
}

// Hash computes a 64-bit FNV-1a content hash over the parameter tuple in
// field order. Equal transforms hash equal; the hash, not object identity,
// is the cache key.
func (t Transform) Hash() uint64 {
	h := uint64(fnvOffset)
	h = foldFloat(h, t.Scale)
	h = foldFloat(h, t.CenterOffsetX)
	h = foldFloat(h, t.CenterOffsetY)
	h = foldFloat(h, t.PanOffsetX)
	h = foldFloat(h, t.PanOffsetY)
	h = foldFloat(h, t.ManualOffsetX)
	h = foldFloat(h, t.ManualOffsetY)
	h = foldBool(h, t.FlipY)
	h = foldFloat(h, t.DisplayHeight)
	h = foldFloat(h, t.ImageScaleX)
	h = foldFloat(h, t.ImageScaleY)
	h = foldBool(h, t.ScaleToImage)
	return h
}
