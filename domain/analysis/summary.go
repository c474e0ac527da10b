package analysis

import (
	"math"
	"sort"

	"cytostat/domain/cohort"
	"cytostat/domain/core"
)

// lexicalPopulations is the fixed population set in identifier order, the
// ordering the summary table uses within each sample.
var lexicalPopulations = func() []cohort.Population {
	pops := make([]cohort.Population, len(cohort.Populations))
	copy(pops, cohort.Populations)
	sort.Slice(pops, func(i, j int) bool { return pops[i] < pops[j] })
	return pops
}()

// BuildSummary computes per-sample total counts and per-population relative
// frequencies from the full count table. Percentages are rounded to 3 decimal
// places and rows come back ordered by sample identifier, then population
// identifier, so downstream comparisons are deterministic.
//
// A sample whose counts do not cover the fixed population set exactly once,
// or whose total is not positive, aborts the computation with a data
// integrity error instead of emitting NaN or infinity.
func BuildSummary(counts []cohort.PopulationCount) ([]cohort.SummaryRow, error) {
	bySample := make(map[string]map[cohort.Population]int)
	for _, c := range counts {
		if !cohort.IsKnownPopulation(c.Population) {
			return nil, core.NewUnknownPopulationError(c.SampleID, string(c.Population))
		}
		pops := bySample[c.SampleID]
		if pops == nil {
			pops = make(map[cohort.Population]int, len(cohort.Populations))
			bySample[c.SampleID] = pops
		}
		if _, dup := pops[c.Population]; dup {
			return nil, core.NewDuplicateCountError(c.SampleID, string(c.Population))
		}
		pops[c.Population] = c.Count
	}

	sampleIDs := make([]string, 0, len(bySample))
	for id := range bySample {
		sampleIDs = append(sampleIDs, id)
	}
	sort.Strings(sampleIDs)

	rows := make([]cohort.SummaryRow, 0, len(sampleIDs)*len(cohort.Populations))
	for _, id := range sampleIDs {
		pops := bySample[id]
		total := 0
		for _, p := range cohort.Populations {
			count, ok := pops[p]
			if !ok {
				return nil, core.NewMissingPopulationError(id, string(p))
			}
			total += count
		}
		if total <= 0 {
			return nil, core.NewZeroTotalError(id)
		}

		for _, p := range lexicalPopulations {
			count := pops[p]
			rows = append(rows, cohort.SummaryRow{
				Sample:     id,
				TotalCount: total,
				Population: p,
				Count:      count,
				Percentage: roundPercentage(float64(count) * 100.0 / float64(total)),
			})
		}
	}

	return rows, nil
}

// roundPercentage rounds to 3 decimal places, half away from zero.
func roundPercentage(v float64) float64 {
	return math.Round(v*1000) / 1000
}
