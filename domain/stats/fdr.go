package stats

import (
	"math"
	"sort"
)

// BenjaminiHochberg maps an array of raw p-values to adjusted p-values of the
// same length and order using the Benjamini-Hochberg step-up procedure:
// sort ascending, scan from the largest rank down taking the running minimum
// of p[i] * n / rank(i), clip into [0, 1], and restore the caller's order.
//
// NaN marks a hypothesis that was never tested. NaN entries are excluded from
// the family size n and from the sort, and are re-inserted as NaN in the
// output, so untested hypotheses never dilute the correction of tested ones.
func BenjaminiHochberg(pvalues []float64) []float64 {
	adjusted := make([]float64, len(pvalues))

	order := make([]int, 0, len(pvalues))
	for i, p := range pvalues {
		if math.IsNaN(p) {
			adjusted[i] = math.NaN()
			continue
		}
		order = append(order, i)
	}

	n := len(order)
	if n == 0 {
		return adjusted
	}

	sort.Slice(order, func(a, b int) bool {
		return pvalues[order[a]] < pvalues[order[b]]
	})

	prev := 1.0
	for i := n - 1; i >= 0; i-- {
		rank := float64(i + 1)
		value := pvalues[order[i]] * float64(n) / rank
		if value < prev {
			prev = value
		}
		v := prev
		if v < 0 {
			v = 0
		} else if v > 1 {
			v = 1
		}
		adjusted[order[i]] = v
	}

	return adjusted
}

// Significant flags every adjusted p-value strictly below alpha. A NaN
// adjusted value is never significant.
func Significant(adjusted []float64, alpha float64) []bool {
	flags := make([]bool, len(adjusted))
	for i, p := range adjusted {
		flags[i] = p < alpha
	}
	return flags
}
