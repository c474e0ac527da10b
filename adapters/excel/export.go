package excel

import (
	"fmt"
	"math"
	"sort"

	"cytostat/domain/analysis"
	"cytostat/domain/cohort"
	"cytostat/internal/errors"

	"github.com/xuri/excelize/v2"
)

// WriteReport writes the four derived outputs into a single workbook, one
// sheet per table, mirroring the dashboard views downstream consumers expect.
func WriteReport(path string, summary []cohort.SummaryRow, comparison []cohort.ComparisonRow,
	populationStats []analysis.PopulationStat, baseline []cohort.BaselineRow,
	breakdown analysis.BaselineBreakdown) error {

	f := excelize.NewFile()
	defer f.Close()

	if err := writeSummarySheet(f, summary); err != nil {
		return err
	}
	if err := writeComparisonSheet(f, comparison); err != nil {
		return err
	}
	if err := writeStatsSheet(f, populationStats); err != nil {
		return err
	}
	if err := writeBaselineSheet(f, baseline, breakdown); err != nil {
		return err
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		return errors.Wrap(err, "failed to drop default sheet")
	}
	if err := f.SaveAs(path); err != nil {
		return errors.Wrapf(err, "failed to save workbook %s", path)
	}
	return nil
}

func writeSummarySheet(f *excelize.File, rows []cohort.SummaryRow) error {
	const sheet = "Summary"
	if _, err := f.NewSheet(sheet); err != nil {
		return errors.Wrap(err, "failed to create summary sheet")
	}
	if err := writeRow(f, sheet, 1, "sample", "total_count", "population", "count", "percentage"); err != nil {
		return err
	}
	for i, row := range rows {
		if err := writeRow(f, sheet, i+2, row.Sample, row.TotalCount, string(row.Population), row.Count, row.Percentage); err != nil {
			return err
		}
	}
	return nil
}

func writeComparisonSheet(f *excelize.File, rows []cohort.ComparisonRow) error {
	const sheet = "Comparison"
	if _, err := f.NewSheet(sheet); err != nil {
		return errors.Wrap(err, "failed to create comparison sheet")
	}
	if err := writeRow(f, sheet, 1, "sample", "response", "population", "count", "percentage"); err != nil {
		return err
	}
	for i, row := range rows {
		if err := writeRow(f, sheet, i+2, row.Sample, row.Response, string(row.Population), row.Count, row.Percentage); err != nil {
			return err
		}
	}
	return nil
}

func writeStatsSheet(f *excelize.File, rows []analysis.PopulationStat) error {
	const sheet = "Stats"
	if _, err := f.NewSheet(sheet); err != nil {
		return errors.Wrap(err, "failed to create stats sheet")
	}
	if err := writeRow(f, sheet, 1, "population", "n_yes", "n_no", "median_yes", "median_no",
		"p_value", "p_value_adj", "significant"); err != nil {
		return err
	}
	for i, row := range rows {
		if err := writeRow(f, sheet, i+2, string(row.Population), row.NYes, row.NNo,
			cellValue(row.MedianYes), cellValue(row.MedianNo),
			cellValue(row.PValue), cellValue(row.PValueAdj), row.Significant); err != nil {
			return err
		}
	}
	return nil
}

func writeBaselineSheet(f *excelize.File, rows []cohort.BaselineRow, breakdown analysis.BaselineBreakdown) error {
	const sheet = "Baseline"
	if _, err := f.NewSheet(sheet); err != nil {
		return errors.Wrap(err, "failed to create baseline sheet")
	}
	if err := writeRow(f, sheet, 1, "sample_id", "project", "subject_id", "response", "sex",
		"time_from_treatment_start"); err != nil {
		return err
	}
	line := 2
	for _, row := range rows {
		if err := writeRow(f, sheet, line, row.SampleID, row.Project, row.SubjectID,
			row.Response, row.Sex, row.TimeFromTreatmentStart); err != nil {
			return err
		}
		line++
	}

	line++
	for _, group := range []struct {
		title  string
		counts map[string]int
	}{
		{"samples_per_project", breakdown.SamplesPerProject},
		{"subjects_by_response", breakdown.SubjectsByResponse},
		{"subjects_by_sex", breakdown.SubjectsBySex},
	} {
		if err := writeRow(f, sheet, line, group.title, "count"); err != nil {
			return err
		}
		line++
		for _, key := range sortedKeys(group.counts) {
			if err := writeRow(f, sheet, line, key, group.counts[key]); err != nil {
				return err
			}
			line++
		}
		line++
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values ...interface{}) error {
	for col, value := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return errors.Wrap(err, "failed to compute cell coordinates")
		}
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return errors.Wrapf(err, "failed to write %s!%s", sheet, cell)
		}
	}
	return nil
}

// cellValue maps the NaN sentinel to an empty cell; spreadsheets have no NaN.
func cellValue(v float64) interface{} {
	if math.IsNaN(v) {
		return ""
	}
	return v
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ExportName suggests a file name for a run's workbook.
func ExportName(runID string) string {
	return fmt.Sprintf("cytostat-report-%s.xlsx", runID)
}
