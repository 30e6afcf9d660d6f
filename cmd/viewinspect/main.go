// Command viewinspect derives and prints the transform for a view
// configuration, so tracking setups can be debugged without launching the
// editor. It can pull the background size from an image sequence directory
// and verify the transform round-trip over a synthetic grid.
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math"
	"os"
	"sort"

	"github.com/trackedit/viewport"
	"github.com/trackedit/viewport/config"
	"github.com/trackedit/viewport/sequence"
)

func main() {
	var (
		configPath   = flag.String("config", "", "settings file (default ~/.config/trackedit/viewport.toml)")
		widgetW      = flag.Int("widget-width", 800, "widget width in pixels")
		widgetH      = flag.Int("widget-height", 600, "widget height in pixels")
		zoom         = flag.Float64("zoom", 1.0, "zoom factor")
		panX         = flag.Float64("pan-x", 0, "pan offset x")
		panY         = flag.Float64("pan-y", 0, "pan offset y")
		flipY        = flag.Bool("flip-y", false, "invert the y axis")
		scaleToImage = flag.Bool("scale-to-image", false, "rescale data into background image space")
		frame        = flag.Int("frame", 1, "sequence frame supplying the background size")
		seqDir       = flag.String("dir", "", "image sequence directory (overrides config)")
		verify       = flag.Bool("verify", false, "check the inverse round-trip over a synthetic grid")
		verbose      = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	if *verbose {
		viewport.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	state := viewport.ViewState{
		DisplayWidth:  cfg.ImageWidth,
		DisplayHeight: cfg.ImageHeight,
		WidgetWidth:   *widgetW,
		WidgetHeight:  *widgetH,
		ZoomFactor:    *zoom,
		OffsetX:       *panX,
		OffsetY:       *panY,
		ScaleToImage:  *scaleToImage,
		FlipYAxis:     *flipY,
		ImageWidth:    cfg.ImageWidth,
		ImageHeight:   cfg.ImageHeight,
	}

	dir := cfg.SequenceDir
	if *seqDir != "" {
		dir = *seqDir
	}
	if dir != "" {
		seq, err := sequence.Scan(dir)
		if err != nil {
			log.Fatalf("scan sequence: %v", err)
		}
		if w, h, ok := seq.BackgroundSize(*frame); ok {
			state.DisplayWidth, state.DisplayHeight = w, h
			fmt.Printf("background: frame %d, %dx%d (%d frames in %s)\n", *frame, w, h, seq.Len(), dir)
		} else {
			fmt.Printf("background: frame %d not found in %s\n", *frame, dir)
		}
	}

	svc := viewport.NewService(cfg.ServiceOptions()...)
	tr := svc.FromViewState(state)

	printParameters(tr)

	ix, iy := tr.ApplyForImagePosition()
	fmt.Printf("\nimage anchor: (%.3f, %.3f)\n", ix, iy)

	if *verify {
		worst := roundTripError(tr, state.ImageWidth, state.ImageHeight)
		fmt.Printf("round-trip worst error over grid: %.3g\n", worst)
		if worst > 1e-9 {
			log.Fatal("round-trip error exceeds tolerance")
		}
	}
}

func printParameters(tr *viewport.Transform) {
	params := tr.Parameters()
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("transform parameters:")
	for _, name := range names {
		fmt.Printf("  %-14s %v\n", name, params[name])
	}
}

// roundTripError applies and inverts the transform on an 11x11 grid over
// the data extent and returns the worst relative error.
func roundTripError(tr *viewport.Transform, w, h int) float64 {
	worst := 0.0
	for i := 0; i <= 10; i++ {
		for j := 0; j <= 10; j++ {
			x := float64(w) * float64(i) / 10
			y := float64(h) * float64(j) / 10
			sx, sy := tr.Apply(x, y)
			rx, ry := tr.ApplyInverse(sx, sy)
			worst = math.Max(worst, relError(x, rx))
			worst = math.Max(worst, relError(y, ry))
		}
	}
	return worst
}

func relError(want, got float64) float64 {
	scale := math.Max(1, math.Abs(want))
	return math.Abs(want-got) / scale
}
