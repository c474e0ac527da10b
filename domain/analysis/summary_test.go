package analysis

import (
	"errors"
	"math"
	"testing"

	"cytostat/domain/cohort"
	"cytostat/domain/core"
)

func countsForSample(id string, b, cd8, cd4, nk, mono int) []cohort.PopulationCount {
	return []cohort.PopulationCount{
		{SampleID: id, Population: cohort.PopulationBCell, Count: b},
		{SampleID: id, Population: cohort.PopulationCD8TCell, Count: cd8},
		{SampleID: id, Population: cohort.PopulationCD4TCell, Count: cd4},
		{SampleID: id, Population: cohort.PopulationNKCell, Count: nk},
		{SampleID: id, Population: cohort.PopulationMonocyte, Count: mono},
	}
}

// TestBuildSummary_ToyDataset pins percentages for three samples with
// hand-computed expected values.
func TestBuildSummary_ToyDataset(t *testing.T) {
	var counts []cohort.PopulationCount
	counts = append(counts, countsForSample("s1", 100, 200, 300, 150, 250)...)
	counts = append(counts, countsForSample("s2", 50, 50, 50, 50, 50)...)
	counts = append(counts, countsForSample("s3", 10, 0, 30, 40, 20)...)

	rows, err := BuildSummary(counts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(rows) != 15 {
		t.Fatalf("expected 15 rows, got %d", len(rows))
	}

	// Rows are ordered by sample, then population identifier
	first := rows[0]
	if first.Sample != "s1" || first.Population != cohort.PopulationBCell {
		t.Errorf("unexpected first row: %+v", first)
	}
	if first.TotalCount != 1000 || first.Percentage != 10.0 {
		t.Errorf("s1 b_cell: expected total 1000 and 10%%, got %+v", first)
	}

	expected := map[string]map[cohort.Population]float64{
		"s1": {
			cohort.PopulationBCell:    10.0,
			cohort.PopulationCD8TCell: 20.0,
			cohort.PopulationCD4TCell: 30.0,
			cohort.PopulationNKCell:   15.0,
			cohort.PopulationMonocyte: 25.0,
		},
		"s2": {
			cohort.PopulationBCell:    20.0,
			cohort.PopulationCD8TCell: 20.0,
			cohort.PopulationCD4TCell: 20.0,
			cohort.PopulationNKCell:   20.0,
			cohort.PopulationMonocyte: 20.0,
		},
		"s3": {
			cohort.PopulationBCell:    10.0,
			cohort.PopulationCD8TCell: 0.0,
			cohort.PopulationCD4TCell: 30.0,
			cohort.PopulationNKCell:   40.0,
			cohort.PopulationMonocyte: 20.0,
		},
	}

	for _, row := range rows {
		want := expected[row.Sample][row.Population]
		if row.Percentage != want {
			t.Errorf("%s/%s: expected %v%%, got %v%%", row.Sample, row.Population, want, row.Percentage)
		}
	}
}

// TestBuildSummary_PercentagesSumTo100 verifies the aggregation invariant
// with totals that force rounding.
func TestBuildSummary_PercentagesSumTo100(t *testing.T) {
	var counts []cohort.PopulationCount
	counts = append(counts, countsForSample("s1", 1, 1, 1, 1, 3)...)
	counts = append(counts, countsForSample("s2", 17, 23, 31, 13, 7)...)

	rows, err := BuildSummary(counts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sums := make(map[string]float64)
	for _, row := range rows {
		sums[row.Sample] += row.Percentage
	}

	for sample, sum := range sums {
		if math.Abs(sum-100.0) > 0.01 {
			t.Errorf("%s: percentages sum to %v, expected 100 within 0.01", sample, sum)
		}
	}
}

func TestBuildSummary_RowOrderDeterministic(t *testing.T) {
	var counts []cohort.PopulationCount
	counts = append(counts, countsForSample("s2", 1, 2, 3, 4, 5)...)
	counts = append(counts, countsForSample("s1", 5, 4, 3, 2, 1)...)

	rows, err := BuildSummary(counts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 1; i < len(rows); i++ {
		prev, cur := rows[i-1], rows[i]
		if prev.Sample > cur.Sample {
			t.Fatalf("rows not ordered by sample: %s before %s", prev.Sample, cur.Sample)
		}
		if prev.Sample == cur.Sample && string(prev.Population) >= string(cur.Population) {
			t.Fatalf("rows not ordered by population within %s: %s before %s",
				cur.Sample, prev.Population, cur.Population)
		}
	}
}

// TestBuildSummary_IntegrityErrors covers the fatal conditions: zero totals,
// missing or duplicated population rows, and unknown populations.
func TestBuildSummary_IntegrityErrors(t *testing.T) {
	t.Run("zero total", func(t *testing.T) {
		_, err := BuildSummary(countsForSample("s1", 0, 0, 0, 0, 0))
		if !errors.Is(err, core.ErrZeroTotal) {
			t.Errorf("expected zero-total error, got %v", err)
		}
		if !core.IsDataIntegrityError(err) {
			t.Errorf("expected a data integrity error, got %v", err)
		}
	})

	t.Run("missing population", func(t *testing.T) {
		counts := countsForSample("s1", 10, 20, 30, 40, 50)
		_, err := BuildSummary(counts[:4])
		if !errors.Is(err, core.ErrMissingPopulation) {
			t.Errorf("expected missing-population error, got %v", err)
		}
	})

	t.Run("duplicate population", func(t *testing.T) {
		counts := countsForSample("s1", 10, 20, 30, 40, 50)
		counts = append(counts, cohort.PopulationCount{
			SampleID: "s1", Population: cohort.PopulationBCell, Count: 5,
		})
		_, err := BuildSummary(counts)
		if !errors.Is(err, core.ErrDuplicateCount) {
			t.Errorf("expected duplicate-count error, got %v", err)
		}
	})

	t.Run("unknown population", func(t *testing.T) {
		counts := countsForSample("s1", 10, 20, 30, 40, 50)
		counts = append(counts, cohort.PopulationCount{
			SampleID: "s1", Population: "t_reg", Count: 5,
		})
		_, err := BuildSummary(counts)
		if !errors.Is(err, core.ErrUnknownPopulation) {
			t.Errorf("expected unknown-population error, got %v", err)
		}
	})
}
