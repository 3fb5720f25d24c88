package validation

import (
	"math"
	"sort"
	"time"

	"github.com/vrulab/vru-validation/pkg/model"
)

// DefaultTolerance is used when Options.Tolerance is zero.
const DefaultTolerance = model.DefaultToleranceMs * time.Millisecond

// timestamps closer than this are treated as equal at the window edge
const epsilon = 1e-9

// Source is where a reference point was read from.
type Source int

const (
	SourceGroundTruth Source = iota
	SourceAnnotation
)

// Point is a ground truth object or a detection reduced to what matching needs.
type Point struct {
	ID        string
	Timestamp float64 // seconds from the start of the video
	Class     model.VRUType
	Box       *model.BoundingBox
	Source    Source // reference points only
}

// Options controls matching.
type Options struct {
	// Tolerance is the maximum |detection - ground truth| for a match.
	Tolerance time.Duration
	// MatchClass requires the detection class to equal the ground truth class.
	MatchClass bool
	// MinIoU, when positive, requires boxes to overlap at least this much.
	// Pairs where either side has no box are not gated.
	MinIoU float64
}

func (o Options) tolerance() float64 {
	if o.Tolerance <= 0 {
		return DefaultTolerance.Seconds()
	}
	return o.Tolerance.Seconds()
}

// Comparison is one row of the matching outcome.
type Comparison struct {
	GroundTruthID  string
	Source         Source // of GroundTruthID
	DetectionID    string
	MatchType      model.MatchType
	TimeDifference *float64 // detection - ground truth, seconds; TP only
	IoU            *float64
}

// Result is the outcome of Validate.
type Result struct {
	Metrics     Metrics
	Comparisons []Comparison
}

// Validate pairs ground truth with detections and computes the metrics.
// Inputs are not modified.
func Validate(groundTruth, detections []Point, opts Options) Result {
	gt := sortedByTimestamp(groundTruth)
	dets := sortedByTimestamp(detections)
	tol := opts.tolerance()

	matched := make([]bool, len(dets))
	comparisons := make([]Comparison, 0, len(gt)+len(dets))
	var offsets []float64
	var counts Counts

	for _, g := range gt {
		idx := -1
		var iou *float64
		for j, d := range dets {
			if matched[j] {
				continue
			}
			diff := d.Timestamp - g.Timestamp
			if diff > tol+epsilon {
				// detections are sorted, nothing later can be in the window
				break
			}
			if diff < -tol-epsilon {
				continue
			}
			if opts.MatchClass && d.Class != g.Class {
				continue
			}
			pairIoU := overlap(g.Box, d.Box)
			if opts.MinIoU > 0 && pairIoU != nil && *pairIoU < opts.MinIoU {
				continue
			}
			idx, iou = j, pairIoU
			break
		}

		if idx < 0 {
			counts.FalseNegatives++
			comparisons = append(comparisons, Comparison{GroundTruthID: g.ID, Source: g.Source, MatchType: model.MatchTypeFN})
			continue
		}

		matched[idx] = true
		counts.TruePositives++
		diff := dets[idx].Timestamp - g.Timestamp
		offsets = append(offsets, math.Abs(diff))
		comparisons = append(comparisons, Comparison{
			GroundTruthID:  g.ID,
			Source:         g.Source,
			DetectionID:    dets[idx].ID,
			MatchType:      model.MatchTypeTP,
			TimeDifference: &diff,
			IoU:            iou,
		})
	}

	for j, d := range dets {
		if matched[j] {
			continue
		}
		counts.FalsePositives++
		comparisons = append(comparisons, Comparison{DetectionID: d.ID, MatchType: model.MatchTypeFP})
	}

	return Result{
		Metrics:     Compute(counts, offsets),
		Comparisons: comparisons,
	}
}

// IoU returns the intersection over union of two boxes.
func IoU(a, b model.BoundingBox) float64 {
	x1 := math.Max(a.X, b.X)
	y1 := math.Max(a.Y, b.Y)
	x2 := math.Min(a.X+a.Width, b.X+b.Width)
	y2 := math.Min(a.Y+a.Height, b.Y+b.Height)

	if x2 <= x1 || y2 <= y1 {
		return 0
	}
	intersection := (x2 - x1) * (y2 - y1)
	union := a.Area() + b.Area() - intersection
	if union <= 0 {
		return 0
	}
	return intersection / union
}

func overlap(a, b *model.BoundingBox) *float64 {
	if a == nil || b == nil {
		return nil
	}
	v := IoU(*a, *b)
	return &v
}

func sortedByTimestamp(points []Point) []Point {
	out := make([]Point, len(points))
	copy(out, points)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp < out[j].Timestamp
	})
	return out
}
