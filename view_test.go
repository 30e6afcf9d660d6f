package viewport

import (
	"errors"
	"testing"
)

// fakeView is a minimal MutableView for tests. Field defaults model a
// freshly shown editor: 800x600 widget over full-HD track data.
type fakeView struct {
	widgetW, widgetH int
	imageW, imageH   int
	bgW, bgH         int
	hasBackground    bool
	zoom             float64
	panX, panY       float64
	manualX, manualY float64
	flipY            bool
	scaleToImage     bool
	points           []TrackPoint

	invalidations int
	restores      int
}

func newFakeView() *fakeView {
	return &fakeView{
		widgetW: 800, widgetH: 600,
		imageW: 1920, imageH: 1080,
		zoom: 1,
	}
}

func (v *fakeView) WidgetSize() (int, int) { return v.widgetW, v.widgetH }
func (v *fakeView) ImageSize() (int, int)  { return v.imageW, v.imageH }
func (v *fakeView) BackgroundSize() (int, int, bool) {
	return v.bgW, v.bgH, v.hasBackground
}
func (v *fakeView) Zoom() float64                  { return v.zoom }
func (v *fakeView) Pan() (float64, float64)        { return v.panX, v.panY }
func (v *fakeView) ManualOffset() (float64, float64) { return v.manualX, v.manualY }
func (v *fakeView) FlipY() bool                    { return v.flipY }
func (v *fakeView) ScaleToImage() bool             { return v.scaleToImage }
func (v *fakeView) Points() []TrackPoint           { return v.points }

func (v *fakeView) SetViewConfig(s ViewState) {
	v.zoom = s.ZoomFactor
	v.panX, v.panY = s.OffsetX, s.OffsetY
	v.manualX, v.manualY = s.ManualXOffset, s.ManualYOffset
	v.flipY = s.FlipYAxis
	v.scaleToImage = s.ScaleToImage
	v.restores++
}

func (v *fakeView) Invalidate() { v.invalidations++ }

func TestViewStateOfDefaults(t *testing.T) {
	v := newFakeView()
	v.imageW, v.imageH = 0, 0 // view does not know its extent

	s := ViewStateOf(v)
	if s.ImageWidth != DefaultImageWidth || s.ImageHeight != DefaultImageHeight {
		t.Errorf("image extent = %dx%d, want %dx%d",
			s.ImageWidth, s.ImageHeight, DefaultImageWidth, DefaultImageHeight)
	}
	if s.DisplayWidth != DefaultImageWidth || s.DisplayHeight != DefaultImageHeight {
		t.Errorf("display extent = %dx%d, want default image extent", s.DisplayWidth, s.DisplayHeight)
	}
}

func TestViewStateOfBackgroundOverride(t *testing.T) {
	v := newFakeView()
	v.hasBackground = true
	v.bgW, v.bgH = 1280, 720

	s := ViewStateOf(v)
	if s.DisplayWidth != 1280 || s.DisplayHeight != 720 {
		t.Errorf("display extent = %dx%d, want background 1280x720", s.DisplayWidth, s.DisplayHeight)
	}
	if s.ImageWidth != 1920 || s.ImageHeight != 1080 {
		t.Errorf("image extent = %dx%d, want original 1920x1080", s.ImageWidth, s.ImageHeight)
	}
}

func TestViewStateWithUpdates(t *testing.T) {
	base := ViewStateOf(newFakeView())

	updated, err := base.WithUpdates(map[string]any{
		"ZoomFactor": 2.0,
		"FlipYAxis":  true,
		"ImageWidth": 1280,
	})
	if err != nil {
		t.Fatalf("WithUpdates: %v", err)
	}
	if updated.ZoomFactor != 2.0 || !updated.FlipYAxis || updated.ImageWidth != 1280 {
		t.Errorf("updates not applied: %+v", updated)
	}
	if base.ZoomFactor != 1.0 || base.FlipYAxis || base.ImageWidth != 1920 {
		t.Errorf("original mutated: %+v", base)
	}
}

func TestViewStateWithUpdatesUnknownField(t *testing.T) {
	_, err := ViewStateOf(newFakeView()).WithUpdates(map[string]any{"Rotation": 1.0})
	if !errors.Is(err, ErrUnknownField) {
		t.Errorf("err = %v, want ErrUnknownField", err)
	}
}

func TestViewStateKey(t *testing.T) {
	a := ViewStateOf(newFakeView())
	b := ViewStateOf(newFakeView())
	if a.Key() != b.Key() {
		t.Error("equal states key differently")
	}

	c, err := a.WithUpdates(map[string]any{"OffsetX": 0.5})
	if err != nil {
		t.Fatalf("WithUpdates: %v", err)
	}
	if a.Key() == c.Key() {
		t.Error("differing states share a key")
	}
}
