// Package quality scores tracked curves for common tracking defects:
// frame coverage gaps, sudden position jumps, and high-frequency jitter.
// The score feeds the editor's track list so a user can spot the tracks
// worth re-tracking without scrubbing them frame by frame.
package quality

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/trackedit/viewport"
)

// Severity ranks a finding.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityCritical
)

// String returns the lowercase name of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// Kind classifies what a finding is about.
type Kind int

const (
	// KindGap marks missing frames between two samples.
	KindGap Kind = iota
	// KindJump marks a displacement far outside the track's own speed
	// distribution, usually a tracker glitch.
	KindJump
	// KindJitter marks a track whose speed varies wildly relative to its
	// mean, typical of a noisy feature lock.
	KindJitter
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindGap:
		return "gap"
	case KindJump:
		return "jump"
	case KindJitter:
		return "jitter"
	default:
		return "unknown"
	}
}

// Finding is one detected defect, anchored at the frame where it starts.
type Finding struct {
	Kind     Kind
	Severity Severity
	Frame    int
	Detail   string
}

// Report summarizes a track's quality.
type Report struct {
	// Score is 0..100; 100 is a clean track.
	Score float64
	// PointCount is the number of samples analyzed.
	PointCount int
	// MeanSpeed and SpeedStdDev describe the per-frame displacement
	// distribution in data units per frame.
	MeanSpeed   float64
	SpeedStdDev float64
	// MaxSpeed is the largest per-frame displacement.
	MaxSpeed float64
	// Findings lists every detected defect, in frame order.
	Findings []Finding
}

// Thresholds tune the analysis. The zero value selects the defaults.
type Thresholds struct {
	// GapCritical is the frame gap width that escalates a gap finding
	// from warning to critical. Default 10.
	GapCritical int
	// JumpSigma is how many standard deviations above the mean speed a
	// displacement must land to count as a jump. Default 3.
	JumpSigma float64
	// JitterRatio is the stddev/mean speed ratio above which the track
	// counts as jittery. Default 1.5.
	JitterRatio float64
}

func (t Thresholds) withDefaults() Thresholds {
	if t.GapCritical <= 0 {
		t.GapCritical = 10
	}
	if t.JumpSigma <= 0 {
		t.JumpSigma = 3
	}
	if t.JitterRatio <= 0 {
		t.JitterRatio = 1.5
	}
	return t
}

// Scoring penalties.
const (
	gapPenalty       = 5.0
	gapPenaltyCap    = 30.0
	jumpPenalty      = 10.0
	jumpPenaltyCap   = 40.0
	jitterPenaltyMax = 20.0
)

// Analyze scores a track with the default thresholds.
func Analyze(points []viewport.TrackPoint) Report {
	return AnalyzeWith(points, Thresholds{})
}

// AnalyzeWith scores a track. Points must be in frame order; out-of-order
// input is analyzed as-is and will surface as defects, which is the honest
// answer for a corrupted track.
func AnalyzeWith(points []viewport.TrackPoint, th Thresholds) Report {
	th = th.withDefaults()

	report := Report{PointCount: len(points)}
	if len(points) == 0 {
		return report
	}
	if len(points) == 1 {
		report.Score = 100
		return report
	}

	// Per-step speeds, normalized by frame distance so a gap does not
	// masquerade as a jump.
	speeds := make([]float64, 0, len(points)-1)
	var gapCount int
	for i := 1; i < len(points); i++ {
		prev, cur := points[i-1], points[i]
		frames := cur.Frame - prev.Frame
		if frames <= 0 {
			frames = 1
		}
		if frames > 1 {
			gapCount++
			sev := SeverityWarning
			if frames-1 >= th.GapCritical {
				sev = SeverityCritical
			}
			report.Findings = append(report.Findings, Finding{
				Kind:     KindGap,
				Severity: sev,
				Frame:    prev.Frame,
				Detail:   fmt.Sprintf("%d missing frames after frame %d", frames-1, prev.Frame),
			})
		}
		speeds = append(speeds, cur.Point.Distance(prev.Point)/float64(frames))
	}

	report.MeanSpeed = stat.Mean(speeds, nil)
	report.SpeedStdDev = stat.StdDev(speeds, nil)
	if math.IsNaN(report.SpeedStdDev) {
		report.SpeedStdDev = 0
	}
	report.MaxSpeed = floats.Max(speeds)

	// Jumps: displacements far outside the track's own distribution.
	var jumpCount int
	if report.SpeedStdDev > 0 {
		limit := report.MeanSpeed + th.JumpSigma*report.SpeedStdDev
		for i, speed := range speeds {
			if speed > limit {
				jumpCount++
				report.Findings = append(report.Findings, Finding{
					Kind:     KindJump,
					Severity: SeverityCritical,
					Frame:    points[i+1].Frame,
					Detail:   fmt.Sprintf("displacement %.2f/frame vs mean %.2f", speed, report.MeanSpeed),
				})
			}
		}
	}

	// Jitter: overall speed variance disproportionate to the motion.
	jitterRatio := 0.0
	if report.MeanSpeed > 0 {
		jitterRatio = report.SpeedStdDev / report.MeanSpeed
	}
	if jitterRatio > th.JitterRatio {
		report.Findings = append(report.Findings, Finding{
			Kind:     KindJitter,
			Severity: SeverityWarning,
			Frame:    points[0].Frame,
			Detail:   fmt.Sprintf("speed stddev is %.1fx the mean", jitterRatio),
		})
	}

	report.Score = score(gapCount, jumpCount, jitterRatio, th)
	return report
}

// score folds the defect counts into a 0..100 value.
func score(gaps, jumps int, jitterRatio float64, th Thresholds) float64 {
	s := 100.0
	s -= math.Min(float64(gaps)*gapPenalty, gapPenaltyCap)
	s -= math.Min(float64(jumps)*jumpPenalty, jumpPenaltyCap)
	if jitterRatio > th.JitterRatio {
		over := (jitterRatio - th.JitterRatio) / th.JitterRatio
		s -= math.Min(over*jitterPenaltyMax, jitterPenaltyMax)
	}
	return math.Max(s, 0)
}
