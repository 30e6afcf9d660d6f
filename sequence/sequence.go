// Package sequence discovers and tracks numbered background image
// sequences on disk. A scan orders the frames numerically, records every
// frame's pixel dimensions, and exposes them in the form the transform
// core's view adapters consume (the background size that switches a view
// into scale-to-image display dimensions).
package sequence

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	// Stdlib decoders.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	// Extended decoders for formats common in tracking footage exports.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/trackedit/viewport"
)

// imageExts lists the file extensions a scan considers, matching the
// registered decoders above.
var imageExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".bmp": true, ".tif": true, ".tiff": true, ".webp": true,
}

// Frame is one image of a sequence.
type Frame struct {
	// Number is the frame number parsed from the trailing digits of the
	// file name (shot_0042.png -> 42).
	Number int
	// Path is the absolute or dir-relative path of the image file.
	Path string
	// Width and Height are the image's pixel dimensions.
	Width  int
	Height int
}

// Sequence is an ordered image sequence found in one directory.
type Sequence struct {
	Dir    string
	frames []Frame
	byNum  map[int]int // frame number -> index into frames
}

// Scan reads dir, collects every decodable image file carrying a trailing
// frame number, and returns the frames in numeric order. Files without a
// frame number or with an unreadable header are skipped with a debug log,
// not an error; an empty directory yields an empty sequence.
func Scan(dir string) (*Sequence, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scan sequence dir: %w", err)
	}

	seq := &Sequence{Dir: dir, byNum: make(map[int]int)}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !imageExts[strings.ToLower(filepath.Ext(name))] {
			continue
		}

		num, ok := frameNumber(name)
		if !ok {
			viewport.Logger().Debug("skipping unnumbered image", "file", name)
			continue
		}

		path := filepath.Join(dir, name)
		w, h, err := imageSize(path)
		if err != nil {
			viewport.Logger().Debug("skipping unreadable image", "file", name, "err", err)
			continue
		}

		seq.frames = append(seq.frames, Frame{Number: num, Path: path, Width: w, Height: h})
	}

	sort.Slice(seq.frames, func(i, j int) bool {
		return seq.frames[i].Number < seq.frames[j].Number
	})
	for i, f := range seq.frames {
		seq.byNum[f.Number] = i
	}

	viewport.Logger().Debug("sequence scanned", "dir", dir, "frames", len(seq.frames))
	return seq, nil
}

// Len returns the number of frames.
func (s *Sequence) Len() int {
	return len(s.frames)
}

// Frames returns the frames in numeric order. Callers must not mutate the
// returned slice.
func (s *Sequence) Frames() []Frame {
	return s.frames
}

// FrameAt returns the frame with the given number.
func (s *Sequence) FrameAt(number int) (Frame, bool) {
	i, ok := s.byNum[number]
	if !ok {
		return Frame{}, false
	}
	return s.frames[i], true
}

// BackgroundSize reports the pixel size of the frame with the given
// number, in the shape viewport view adapters expect. A missing frame
// reports ok=false, which leaves a view in its data-extent display mode.
func (s *Sequence) BackgroundSize(number int) (w, h int, ok bool) {
	f, found := s.FrameAt(number)
	if !found {
		return 0, 0, false
	}
	return f.Width, f.Height, true
}

// frameNumber extracts the trailing digit run of a file's base name.
func frameNumber(name string) (int, bool) {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	end := len(base)
	start := end
	for start > 0 && base[start-1] >= '0' && base[start-1] <= '9' {
		start--
	}
	if start == end {
		return 0, false
	}
	n, err := strconv.Atoi(base[start:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

// imageSize decodes only the image header for dimensions.
func imageSize(path string) (w, h int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}
