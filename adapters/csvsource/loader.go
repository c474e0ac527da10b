package csvsource

import (
	"os"

	"cytostat/domain/cohort"
	"cytostat/internal/errors"

	"github.com/gocarina/gocsv"
)

// Record is one row of the wide cell-count CSV: subject and sample attributes
// plus one column per population.
type Record struct {
	Project                string `csv:"project"`
	Subject                string `csv:"subject"`
	Condition              string `csv:"condition"`
	Age                    int    `csv:"age"`
	Sex                    string `csv:"sex"`
	Treatment              string `csv:"treatment"`
	Response               string `csv:"response"`
	Sample                 string `csv:"sample"`
	SampleType             string `csv:"sample_type"`
	TimeFromTreatmentStart int    `csv:"time_from_treatment_start"`
	BCell                  int    `csv:"b_cell"`
	CD8TCell               int    `csv:"cd8_t_cell"`
	CD4TCell               int    `csv:"cd4_t_cell"`
	NKCell                 int    `csv:"nk_cell"`
	Monocyte               int    `csv:"monocyte"`
}

// Load reads a cell-count CSV and unpivots it into typed subject, sample and
// count records. A subject appearing on several rows is kept once, first row
// wins; samples and counts are emitted per row.
func Load(path string) ([]cohort.Subject, []cohort.Sample, []cohort.PopulationCount, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, nil, errors.Wrapf(err, "failed to open csv %s", path)
	}
	defer f.Close()

	var records []Record
	if err := gocsv.UnmarshalFile(f, &records); err != nil {
		return nil, nil, nil, errors.Wrapf(err, "failed to parse csv %s", path)
	}

	return unpivot(records)
}

func unpivot(records []Record) ([]cohort.Subject, []cohort.Sample, []cohort.PopulationCount, error) {
	seenSubjects := make(map[string]bool, len(records))
	subjects := make([]cohort.Subject, 0, len(records))
	samples := make([]cohort.Sample, 0, len(records))
	counts := make([]cohort.PopulationCount, 0, len(records)*len(cohort.Populations))

	for _, rec := range records {
		if !seenSubjects[rec.Subject] {
			seenSubjects[rec.Subject] = true
			subjects = append(subjects, cohort.Subject{
				SubjectID: rec.Subject,
				Condition: rec.Condition,
				Age:       rec.Age,
				Sex:       rec.Sex,
			})
		}

		samples = append(samples, cohort.Sample{
			SampleID:               rec.Sample,
			Project:                rec.Project,
			SubjectID:              rec.Subject,
			Treatment:              rec.Treatment,
			Response:               rec.Response,
			SampleType:             rec.SampleType,
			TimeFromTreatmentStart: rec.TimeFromTreatmentStart,
		})

		for _, pc := range []struct {
			pop   cohort.Population
			count int
		}{
			{cohort.PopulationBCell, rec.BCell},
			{cohort.PopulationCD8TCell, rec.CD8TCell},
			{cohort.PopulationCD4TCell, rec.CD4TCell},
			{cohort.PopulationNKCell, rec.NKCell},
			{cohort.PopulationMonocyte, rec.Monocyte},
		} {
			counts = append(counts, cohort.PopulationCount{
				SampleID:   rec.Sample,
				Population: pc.pop,
				Count:      pc.count,
			})
		}
	}

	return subjects, samples, counts, nil
}
