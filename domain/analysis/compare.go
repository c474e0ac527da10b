package analysis

import (
	"encoding/json"
	"math"

	"cytostat/domain/cohort"
	"cytostat/domain/stats"

	mstats "github.com/montanaflynn/stats"
)

// DefaultAlpha is the significance threshold applied when the caller does
// not supply one.
const DefaultAlpha = 0.05

// PopulationStat is one row of the significance table: group sizes and
// medians, the raw two-sided rank-sum p-value, its BH-adjusted counterpart,
// and the resulting significance flag. PValue and PValueAdj are NaN when the
// test was undefined for that population.
type PopulationStat struct {
	Population  cohort.Population `json:"population"`
	NYes        int               `json:"n_yes"`
	NNo         int               `json:"n_no"`
	MedianYes   float64           `json:"median_yes"`
	MedianNo    float64           `json:"median_no"`
	PValue      float64           `json:"p_value"`
	PValueAdj   float64           `json:"p_value_adj"`
	Significant bool              `json:"significant"`
}

// MarshalJSON emits NaN statistics as null so the table survives JSON
// encoding.
func (s PopulationStat) MarshalJSON() ([]byte, error) {
	type row struct {
		Population  cohort.Population `json:"population"`
		NYes        int               `json:"n_yes"`
		NNo         int               `json:"n_no"`
		MedianYes   *float64          `json:"median_yes"`
		MedianNo    *float64          `json:"median_no"`
		PValue      *float64          `json:"p_value"`
		PValueAdj   *float64          `json:"p_value_adj"`
		Significant bool              `json:"significant"`
	}
	return json.Marshal(row{
		Population:  s.Population,
		NYes:        s.NYes,
		NNo:         s.NNo,
		MedianYes:   finiteOrNil(s.MedianYes),
		MedianNo:    finiteOrNil(s.MedianNo),
		PValue:      finiteOrNil(s.PValue),
		PValueAdj:   finiteOrNil(s.PValueAdj),
		Significant: s.Significant,
	})
}

func finiteOrNil(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

// ResponderStats partitions the cohort's percentage values into responder and
// non-responder vectors per population, runs the two-sided Mann-Whitney U
// test on each, adjusts the raw p-values with Benjamini-Hochberg, and flags
// populations whose adjusted p-value falls below alpha.
//
// One row is emitted per population in the fixed reporting order. An empty
// comparison table degrades gracefully: every test reports NaN and nothing
// is flagged significant.
func ResponderStats(rows []cohort.ComparisonRow, alpha float64) []PopulationStat {
	results := make([]PopulationStat, 0, len(cohort.Populations))
	raw := make([]float64, 0, len(cohort.Populations))

	for _, pop := range cohort.Populations {
		var responders, nonResponders []float64
		for _, row := range rows {
			if row.Population != pop {
				continue
			}
			switch row.Response {
			case cohort.ResponseYes:
				responders = append(responders, row.Percentage)
			case cohort.ResponseNo:
				nonResponders = append(nonResponders, row.Percentage)
			}
		}

		p := stats.MannWhitneyU(responders, nonResponders)
		raw = append(raw, p)
		results = append(results, PopulationStat{
			Population: pop,
			NYes:       len(responders),
			NNo:        len(nonResponders),
			MedianYes:  median(responders),
			MedianNo:   median(nonResponders),
			PValue:     p,
		})
	}

	adjusted := stats.BenjaminiHochberg(raw)
	flags := stats.Significant(adjusted, alpha)
	for i := range results {
		results[i].PValueAdj = adjusted[i]
		results[i].Significant = flags[i]
	}

	return results
}

// median returns the group median, or NaN for an empty group, mirroring the
// p-value sentinel.
func median(values []float64) float64 {
	m, err := mstats.Median(values)
	if err != nil {
		return math.NaN()
	}
	return m
}
