// Package validation scores detector output against ground truth.
//
// Ground truth and detections are reduced to timestamped points. Each ground
// truth point is paired with the first unmatched detection inside a symmetric
// tolerance window; leftovers become false negatives (ground truth) or false
// positives (detections). Precision, recall, F1 and accuracy follow from the
// counts, and the timing error of matched pairs is summarised with gonum/stat.
//
// # Usage
//
//	result := validation.Validate(groundTruth, detections, validation.Options{
//	    Tolerance: 100 * time.Millisecond,
//	})
//	fmt.Println(result.Metrics.Precision, result.Metrics.Recall)
//
// Service wraps Validate with the stores so that a whole test session can be
// scored and persisted in one call.
package validation
