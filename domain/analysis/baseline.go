package analysis

import (
	"cytostat/domain/cohort"
)

// BaselineBreakdown holds the three independent grouped counts over a
// baseline subset. Each map is order-insensitive.
type BaselineBreakdown struct {
	SamplesPerProject  map[string]int `json:"samples_per_project"`
	SubjectsByResponse map[string]int `json:"subjects_by_response"`
	SubjectsBySex      map[string]int `json:"subjects_by_sex"`
}

// SummarizeBaseline produces the baseline breakdown: distinct samples per
// project, and distinct subjects by response and by sex. A subject with
// several baseline samples counts once in the subject groupings, with its
// labels taken from the first-seen row; every one of its samples still counts
// toward samples-per-project.
func SummarizeBaseline(rows []cohort.BaselineRow) BaselineBreakdown {
	breakdown := BaselineBreakdown{
		SamplesPerProject:  make(map[string]int),
		SubjectsByResponse: make(map[string]int),
		SubjectsBySex:      make(map[string]int),
	}

	seenSamples := make(map[string]bool, len(rows))
	seenSubjects := make(map[string]bool)

	for _, row := range rows {
		if !seenSamples[row.SampleID] {
			seenSamples[row.SampleID] = true
			breakdown.SamplesPerProject[row.Project]++
		}

		if seenSubjects[row.SubjectID] {
			continue
		}
		seenSubjects[row.SubjectID] = true
		breakdown.SubjectsByResponse[row.Response]++
		breakdown.SubjectsBySex[row.Sex]++
	}

	return breakdown
}
