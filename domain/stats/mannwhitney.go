package stats

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

var stdNormal = distuv.Normal{Mu: 0, Sigma: 1}

// MannWhitneyU runs a two-sided Mann-Whitney U rank-sum test between two
// unpaired, unmatched continuous samples and returns the p-value.
//
// The pooled values are ranked with average ranks for ties, the U statistic
// is computed for the first group, and the p-value comes from the normal
// approximation with tie correction and continuity correction. The two-sided
// p-value is symmetric: swapping the groups does not change it.
//
// Returns NaN when either group is empty - the test is undefined, not run.
func MannWhitneyU(first, second []float64) float64 {
	n1 := float64(len(first))
	n2 := float64(len(second))
	if n1 == 0 || n2 == 0 {
		return math.NaN()
	}

	pooled := make([]float64, 0, len(first)+len(second))
	pooled = append(pooled, first...)
	pooled = append(pooled, second...)

	ranks, tieTerm := rankValues(pooled)

	rankSum := 0.0
	for i := range first {
		rankSum += ranks[i]
	}
	u := rankSum - n1*(n1+1)/2

	n := n1 + n2
	mean := n1 * n2 / 2
	variance := n1 * n2 / 12 * ((n + 1) - tieTerm/(n*(n-1)))
	if variance <= 0 {
		// Every pooled value is tied; the test carries no evidence.
		return 1.0
	}

	// Continuity correction, clamped so tiny |u - mean| cannot push z negative
	z := (math.Abs(u-mean) - 0.5) / math.Sqrt(variance)
	if z < 0 {
		z = 0
	}

	p := 2 * stdNormal.Survival(z)
	if p > 1 {
		p = 1
	}
	return p
}
