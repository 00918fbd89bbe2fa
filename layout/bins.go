package layout

import (
	"math"
	"sort"
)

// Bins holds representative centers for a set of clustered scalar
// coordinates. Centers are kept in ascending order.
type Bins struct {
	centers []float64
	tol     float64
}

// Cluster groups values into bins with a single left-to-right greedy pass:
// values are sorted, and a new bin starts whenever the next value is more
// than tol away from the running mean of the current bin. Each bin's center
// is the mean of its members.
//
// This is deliberately not an optimal clustering. Values that drift slowly,
// one small step at a time, can chain into a single bin whose extremes are
// further apart than tol. Downstream table extraction compensates for the
// resulting misalignment, so the tie-breaking behavior is kept as is.
func Cluster(values []float64, tol float64) *Bins {
	b := &Bins{tol: tol}
	if len(values) == 0 {
		return b
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	sum := sorted[0]
	n := 1
	for _, v := range sorted[1:] {
		if math.Abs(v-sum/float64(n)) > tol {
			b.centers = append(b.centers, sum/float64(n))
			sum, n = v, 1
			continue
		}
		sum += v
		n++
	}
	b.centers = append(b.centers, sum/float64(n))

	return b
}

// Map snaps v to the nearest bin center within the clustering tolerance.
// A value farther than the tolerance from every center passes through
// unchanged. Mapping a value that is already a bin center returns that same
// value, so Map is idempotent.
func (b *Bins) Map(v float64) float64 {
	best := v
	bestDist := math.Inf(1)
	for _, c := range b.centers {
		d := math.Abs(v - c)
		if d <= b.tol && d < bestDist {
			best = c
			bestDist = d
		}
	}
	return best
}

// Centers returns a copy of the bin centers in ascending order.
func (b *Bins) Centers() []float64 {
	out := make([]float64, len(b.centers))
	copy(out, b.centers)
	return out
}
