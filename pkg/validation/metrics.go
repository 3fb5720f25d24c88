package validation

import (
	"gonum.org/v1/gonum/stat"
)

// Counts is the confusion matrix without true negatives, which do not exist
// for event detection.
type Counts struct {
	TruePositives  int
	FalsePositives int
	FalseNegatives int
}

// Metrics are the scores derived from Counts plus timing statistics.
type Metrics struct {
	Counts
	Precision float64
	Recall    float64
	F1Score   float64
	Accuracy  float64

	// MeanTimingError and TimingErrorStdDev describe |Δt| of matched pairs in seconds.
	MeanTimingError   float64
	TimingErrorStdDev float64
}

// Compute derives metrics from counts and the absolute timing offsets of the
// true positives. Every ratio is zero when its denominator is zero.
func Compute(c Counts, offsets []float64) Metrics {
	m := Metrics{Counts: c}

	m.Precision = ratio(c.TruePositives, c.TruePositives+c.FalsePositives)
	m.Recall = ratio(c.TruePositives, c.TruePositives+c.FalseNegatives)
	if m.Precision+m.Recall > 0 {
		m.F1Score = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
	}
	m.Accuracy = ratio(c.TruePositives, c.TruePositives+c.FalsePositives+c.FalseNegatives)

	switch {
	case len(offsets) >= 2:
		m.MeanTimingError, m.TimingErrorStdDev = stat.MeanStdDev(offsets, nil)
	case len(offsets) == 1:
		m.MeanTimingError = offsets[0]
	}
	return m
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}
