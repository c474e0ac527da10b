package stats

import "sort"

// rankValues converts values to ranks (1-based), handling ties by assigning
// each tie group the average of the ranks it spans. The second return value
// is the tie correction term sum(t^3 - t) over all tie groups, needed by the
// normal approximation of the rank-sum test.
func rankValues(data []float64) ([]float64, float64) {
	n := len(data)
	if n == 0 {
		return []float64{}, 0
	}

	type pair struct {
		value float64
		index int
	}

	pairs := make([]pair, n)
	for i, val := range data {
		pairs[i] = pair{value: val, index: i}
	}

	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].value < pairs[j].value
	})

	ranks := make([]float64, n)
	tieTerm := 0.0

	// Assign ranks, averaging within each tie group
	i := 0
	for i < n {
		j := i + 1
		for j < n && pairs[j].value == pairs[i].value {
			j++
		}

		groupSize := j - i
		avgRank := float64(i+1) + float64(groupSize-1)/2.0
		for k := i; k < j; k++ {
			ranks[pairs[k].index] = avgRank
		}

		if groupSize > 1 {
			t := float64(groupSize)
			tieTerm += t*t*t - t
		}

		i = j
	}

	return ranks, tieTerm
}
