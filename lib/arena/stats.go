package arena

import (
	"math"
)

// ----------------------------------------------------------------------------
// Helper functions
// ----------------------------------------------------------------------------

type Stats struct {
	StdDeviation float64 `json:"std_deviation"`
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
	Mean         float64 `json:"mean"`
	Sum          float64 `json:"sum"`
}

// NewStats computes the standard deviation, minimum, maximum, mean and sum
// of an array of float64 values.
func NewStats(values []float64) Stats {
	if len(values) == 0 {
		return Stats{}
	}

	min := values[0]
	max := values[0]

	var sum float64
	for _, v := range values {
		sum += v
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	mean := sum / float64(len(values))

	// population standard deviation
	var sumSquaredDiffs float64
	for _, v := range values {
		diff := v - mean
		sumSquaredDiffs += diff * diff
	}

	return Stats{
		StdDeviation: math.Sqrt(sumSquaredDiffs / float64(len(values))),
		Min:          min,
		Max:          max,
		Mean:         mean,
		Sum:          sum,
	}
}

// ----------------------------------------------------------------------------
// Document statistics
// ----------------------------------------------------------------------------

// DocumentStats summarizes the shape of a document.
type DocumentStats struct {
	Elements int                 `json:"elements"`
	Kinds    map[ElementKind]int `json:"kinds"`
	// Payload sizes of payload carrying elements
	Payload Stats `json:"payload"`
	// Number of children of container elements
	FanOut Stats `json:"fan_out"`
	// Number of elements referenced by more than one parent (or by a parent and as root)
	Shared int `json:"shared"`
}

// ComputeStats computes statistics over a document.
func ComputeStats(doc *Document) DocumentStats {
	stats := DocumentStats{
		Elements: len(doc.Elements),
		Kinds:    make(map[ElementKind]int),
	}

	refs := make([]int, len(doc.Elements))
	if doc.Root < uint64(len(refs)) {
		refs[doc.Root]++
	}

	var payloads, fanOut []float64
	for _, e := range doc.Elements {
		stats.Kinds[e.Kind]++
		if e.Kind.HasChildren() {
			fanOut = append(fanOut, float64(len(e.Children)))
			for _, c := range e.Children {
				if c < uint64(len(refs)) {
					refs[c]++
				}
			}
		} else {
			payloads = append(payloads, float64(len(e.Payload)))
		}
	}

	for i, r := range refs {
		// interned scalars are shared by construction, only count containers
		if r > 1 && doc.Elements[i].Kind.HasChildren() {
			stats.Shared++
		}
	}

	stats.Payload = NewStats(payloads)
	stats.FanOut = NewStats(fanOut)
	return stats
}
