package analysis

import (
	"sort"

	"cytostat/domain/cohort"
	"cytostat/domain/core"
)

// SelectComparison joins subjects, samples and counts into a comparison-ready
// table for the given cohort filter: one row per (sample, population) with
// the unrounded percentage, annotated with the sample's response label.
//
// A filter matching nothing yields an empty table, not an error. Samples
// inside the cohort are held to the same integrity rules as the summary
// aggregation; samples outside it are never inspected.
func SelectComparison(subjects []cohort.Subject, samples []cohort.Sample, counts []cohort.PopulationCount, f cohort.Filter) ([]cohort.ComparisonRow, error) {
	subjectByID := make(map[string]cohort.Subject, len(subjects))
	for _, s := range subjects {
		subjectByID[s.SubjectID] = s
	}

	matched := make(map[string]cohort.Sample)
	matchedIDs := make([]string, 0)
	for _, smp := range samples {
		subj, ok := subjectByID[smp.SubjectID]
		if !ok {
			continue
		}
		if f.Matches(subj, smp) {
			matched[smp.SampleID] = smp
			matchedIDs = append(matchedIDs, smp.SampleID)
		}
	}
	if len(matched) == 0 {
		return []cohort.ComparisonRow{}, nil
	}
	sort.Strings(matchedIDs)

	bySample := make(map[string]map[cohort.Population]int, len(matched))
	for _, c := range counts {
		if _, ok := matched[c.SampleID]; !ok {
			continue
		}
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

	rows := make([]cohort.ComparisonRow, 0, len(matchedIDs)*len(cohort.Populations))
	for _, id := range matchedIDs {
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

		smp := matched[id]
		for _, p := range lexicalPopulations {
			count := pops[p]
			rows = append(rows, cohort.ComparisonRow{
				Sample:     id,
				Response:   smp.Response,
				Population: p,
				Count:      count,
				Percentage: float64(count) * 100.0 / float64(total),
			})
		}
	}

	return rows, nil
}

// SelectBaseline filters the sample table to the cohort's baseline subset:
// the same predicates with the response restriction lifted, plus
// time_from_treatment_start = 0. Rows come back ordered by sample identifier.
func SelectBaseline(subjects []cohort.Subject, samples []cohort.Sample, f cohort.Filter) []cohort.BaselineRow {
	baseline := f.WithoutResponse()

	subjectByID := make(map[string]cohort.Subject, len(subjects))
	for _, s := range subjects {
		subjectByID[s.SubjectID] = s
	}

	rows := make([]cohort.BaselineRow, 0)
	for _, smp := range samples {
		if !smp.IsBaseline() {
			continue
		}
		subj, ok := subjectByID[smp.SubjectID]
		if !ok {
			continue
		}
		if !baseline.Matches(subj, smp) {
			continue
		}
		rows = append(rows, cohort.BaselineRow{
			SampleID:               smp.SampleID,
			Project:                smp.Project,
			SubjectID:              smp.SubjectID,
			Response:               smp.Response,
			Sex:                    subj.Sex,
			TimeFromTreatmentStart: smp.TimeFromTreatmentStart,
		})
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].SampleID < rows[j].SampleID })
	return rows
}
