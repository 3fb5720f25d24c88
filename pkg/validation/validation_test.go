package validation

import (
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vrulab/vru-validation/pkg/model"
)

func points(prefix string, timestamps ...float64) []Point {
	out := make([]Point, len(timestamps))
	for i, ts := range timestamps {
		out[i] = Point{ID: prefix + string(rune('a'+i)), Timestamp: ts}
	}
	return out
}

func TestValidate_Counts(t *testing.T) {
	tests := []struct {
		name        string
		groundTruth []Point
		detections  []Point
		tolerance   time.Duration
		want        Counts
	}{
		{
			name:        "all detections inside the window",
			groundTruth: points("g", 1.0, 2.0, 3.0),
			detections:  points("d", 1.05, 2.0, 2.95),
			want:        Counts{TruePositives: 3},
		},
		{
			name:        "late detection is a miss and a false alarm",
			groundTruth: points("g", 1.0, 2.0),
			detections:  points("d", 1.0, 2.5),
			want:        Counts{TruePositives: 1, FalsePositives: 1, FalseNegatives: 1},
		},
		{
			name:        "window edge is inclusive",
			groundTruth: points("g", 1.0, 5.0),
			detections:  points("d", 1.1, 4.9),
			want:        Counts{TruePositives: 2},
		},
		{
			name:        "just outside the window",
			groundTruth: points("g", 1.0),
			detections:  points("d", 1.1001),
			want:        Counts{FalsePositives: 1, FalseNegatives: 1},
		},
		{
			name:        "wider tolerance",
			groundTruth: points("g", 1.0),
			detections:  points("d", 1.4),
			tolerance:   500 * time.Millisecond,
			want:        Counts{TruePositives: 1},
		},
		{
			name:        "one detection cannot satisfy two ground truths",
			groundTruth: points("g", 1.0, 1.05),
			detections:  points("d", 1.02),
			want:        Counts{TruePositives: 1, FalseNegatives: 1},
		},
		{
			name:        "extra detections become false positives",
			groundTruth: points("g", 1.0),
			detections:  points("d", 0.95, 1.0, 1.05),
			want:        Counts{TruePositives: 1, FalsePositives: 2},
		},
		{
			name:       "no ground truth",
			detections: points("d", 1.0, 2.0),
			want:       Counts{FalsePositives: 2},
		},
		{
			name:        "no detections",
			groundTruth: points("g", 1.0, 2.0),
			want:        Counts{FalseNegatives: 2},
		},
		{
			name: "nothing at all",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Validate(tt.groundTruth, tt.detections, Options{Tolerance: tt.tolerance})
			assert.Equal(t, tt.want, res.Metrics.Counts)
			assert.Len(t, res.Comparisons, tt.want.TruePositives+tt.want.FalsePositives+tt.want.FalseNegatives)
		})
	}
}

func TestValidate_FirstMatchWins(t *testing.T) {
	gt := []Point{{ID: "g1", Timestamp: 1.0}}
	dets := []Point{{ID: "late", Timestamp: 1.0}, {ID: "early", Timestamp: 0.95}}

	res := Validate(gt, dets, Options{})

	want := []Comparison{
		{GroundTruthID: "g1", DetectionID: "early", MatchType: model.MatchTypeTP},
		{DetectionID: "late", MatchType: model.MatchTypeFP},
	}
	diff := cmp.Diff(want, res.Comparisons, cmp.FilterPath(func(p cmp.Path) bool {
		name := p.Last().String()
		return name == ".TimeDifference" || name == ".IoU"
	}, cmp.Ignore()))
	assert.Empty(t, diff)

	require.NotNil(t, res.Comparisons[0].TimeDifference)
	assert.InDelta(t, -0.05, *res.Comparisons[0].TimeDifference, 1e-9)
}

func TestValidate_UnsortedInputUntouched(t *testing.T) {
	gt := points("g", 3.0, 1.0, 2.0)
	dets := points("d", 2.0, 3.0, 1.0)
	gtCopy := append([]Point(nil), gt...)
	detsCopy := append([]Point(nil), dets...)

	res := Validate(gt, dets, Options{})

	assert.Equal(t, 3, res.Metrics.TruePositives)
	assert.Equal(t, gtCopy, gt)
	assert.Equal(t, detsCopy, dets)
	// comparisons follow ground truth time order
	assert.Equal(t, "gb", res.Comparisons[0].GroundTruthID)
	assert.Equal(t, "dc", res.Comparisons[0].DetectionID)
}

func TestValidate_MatchClass(t *testing.T) {
	gt := []Point{{ID: "g1", Timestamp: 1.0, Class: model.VRUTypePedestrian}}
	dets := []Point{{ID: "d1", Timestamp: 1.0, Class: model.VRUTypeCyclist}}

	loose := Validate(gt, dets, Options{})
	assert.Equal(t, 1, loose.Metrics.TruePositives)

	strict := Validate(gt, dets, Options{MatchClass: true})
	assert.Equal(t, Counts{FalsePositives: 1, FalseNegatives: 1}, strict.Metrics.Counts)
}

func TestValidate_MinIoU(t *testing.T) {
	box := &model.BoundingBox{X: 0, Y: 0, Width: 10, Height: 10}
	shifted := &model.BoundingBox{X: 5, Y: 0, Width: 10, Height: 10}

	gt := []Point{{ID: "g1", Timestamp: 1.0, Box: box}}
	dets := []Point{{ID: "d1", Timestamp: 1.0, Box: shifted}}

	res := Validate(gt, dets, Options{MinIoU: 0.5})
	assert.Equal(t, Counts{FalsePositives: 1, FalseNegatives: 1}, res.Metrics.Counts)

	res = Validate(gt, dets, Options{MinIoU: 0.3})
	require.Equal(t, 1, res.Metrics.TruePositives)
	require.NotNil(t, res.Comparisons[0].IoU)
	assert.InDelta(t, 1.0/3.0, *res.Comparisons[0].IoU, 1e-9)

	// a missing box is not gated
	dets[0].Box = nil
	res = Validate(gt, dets, Options{MinIoU: 0.9})
	assert.Equal(t, 1, res.Metrics.TruePositives)
	assert.Nil(t, res.Comparisons[0].IoU)
}

func TestIoU(t *testing.T) {
	a := model.BoundingBox{X: 0, Y: 0, Width: 10, Height: 10}

	assert.InDelta(t, 1.0, IoU(a, a), 1e-9)
	assert.Zero(t, IoU(a, model.BoundingBox{X: 20, Y: 20, Width: 5, Height: 5}))
	assert.Zero(t, IoU(a, model.BoundingBox{X: 10, Y: 0, Width: 10, Height: 10}))
	assert.InDelta(t, 25.0/175.0, IoU(a, model.BoundingBox{X: 5, Y: 5, Width: 10, Height: 10}), 1e-9)
}

func TestCompute(t *testing.T) {
	m := Compute(Counts{TruePositives: 2, FalsePositives: 1, FalseNegatives: 1}, []float64{0.02, 0.04})

	assert.InDelta(t, 2.0/3.0, m.Precision, 1e-9)
	assert.InDelta(t, 2.0/3.0, m.Recall, 1e-9)
	assert.InDelta(t, 2.0/3.0, m.F1Score, 1e-9)
	assert.InDelta(t, 0.5, m.Accuracy, 1e-9)
	assert.InDelta(t, 0.03, m.MeanTimingError, 1e-9)
	assert.InDelta(t, math.Sqrt(0.0002), m.TimingErrorStdDev, 1e-9)
}

func TestCompute_ZeroDenominators(t *testing.T) {
	assert.Equal(t, Metrics{}, Compute(Counts{}, nil))

	onlyFP := Compute(Counts{FalsePositives: 3}, nil)
	assert.Zero(t, onlyFP.Precision)
	assert.Zero(t, onlyFP.Recall)
	assert.Zero(t, onlyFP.F1Score)

	onlyFN := Compute(Counts{FalseNegatives: 2}, nil)
	assert.Zero(t, onlyFN.Precision)
	assert.Zero(t, onlyFN.Recall)
}

func TestCompute_SingleOffset(t *testing.T) {
	m := Compute(Counts{TruePositives: 1}, []float64{0.07})
	assert.Equal(t, 1.0, m.Precision)
	assert.Equal(t, 1.0, m.F1Score)
	assert.InDelta(t, 0.07, m.MeanTimingError, 1e-12)
	assert.Zero(t, m.TimingErrorStdDev)
}
