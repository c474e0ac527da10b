package app

import (
	"context"
	"errors"
	"math"
	"testing"

	"cytostat/domain/cohort"
	"cytostat/domain/core"
)

// fakeStore implements ports.CohortStore over in-memory slices.
type fakeStore struct {
	subjects []cohort.Subject
	samples  []cohort.Sample
	counts   []cohort.PopulationCount
	err      error
}

func (f *fakeStore) Subjects(ctx context.Context) ([]cohort.Subject, error) {
	return f.subjects, f.err
}

func (f *fakeStore) Samples(ctx context.Context) ([]cohort.Sample, error) {
	return f.samples, f.err
}

func (f *fakeStore) PopulationCounts(ctx context.Context) ([]cohort.PopulationCount, error) {
	return f.counts, f.err
}

func fakeStoreWithCohort() *fakeStore {
	store := &fakeStore{
		subjects: []cohort.Subject{
			{SubjectID: "sbj1", Condition: "melanoma", Age: 60, Sex: "F"},
			{SubjectID: "sbj2", Condition: "melanoma", Age: 50, Sex: "M"},
		},
		samples: []cohort.Sample{
			{SampleID: "s1", Project: "prj1", SubjectID: "sbj1", Treatment: "miraclib", Response: "yes", SampleType: "PBMC", TimeFromTreatmentStart: 0},
			{SampleID: "s2", Project: "prj1", SubjectID: "sbj2", Treatment: "miraclib", Response: "no", SampleType: "PBMC", TimeFromTreatmentStart: 0},
		},
	}
	for i, pop := range cohort.Populations {
		store.counts = append(store.counts,
			cohort.PopulationCount{SampleID: "s1", Population: pop, Count: (i + 1) * 10},
			cohort.PopulationCount{SampleID: "s2", Population: pop, Count: (i + 2) * 10},
		)
	}
	return store
}

func TestAnalysisService_Run(t *testing.T) {
	service := NewAnalysisService(fakeStoreWithCohort(), 0.05)

	report, err := service.Run(context.Background(), cohort.MelanomaMiraclibPBMC())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(report.Summary) != 10 {
		t.Errorf("expected 10 summary rows, got %d", len(report.Summary))
	}
	if len(report.Comparison) != 10 {
		t.Errorf("expected 10 comparison rows, got %d", len(report.Comparison))
	}
	if len(report.Stats) != len(cohort.Populations) {
		t.Errorf("expected %d stats rows, got %d", len(cohort.Populations), len(report.Stats))
	}
	if len(report.Baseline) != 2 {
		t.Errorf("expected 2 baseline rows, got %d", len(report.Baseline))
	}
	if report.Breakdown.SamplesPerProject["prj1"] != 2 {
		t.Errorf("expected 2 baseline samples in prj1, got %d", report.Breakdown.SamplesPerProject["prj1"])
	}
	if report.RunID.String() == "" {
		t.Error("expected a run identifier")
	}
	if report.Snapshot.String() == "" {
		t.Error("expected a snapshot hash")
	}

	// One sample per group: the test runs but cannot reach significance
	for _, row := range report.Stats {
		if row.NYes != 1 || row.NNo != 1 {
			t.Errorf("%s: expected 1/1 groups, got %d/%d", row.Population, row.NYes, row.NNo)
		}
		if row.Significant {
			t.Errorf("%s: single observations must not be significant", row.Population)
		}
	}
}

func TestAnalysisService_MemoizesByFilterAndSnapshot(t *testing.T) {
	store := fakeStoreWithCohort()
	service := NewAnalysisService(store, 0.05)
	ctx := context.Background()
	filter := cohort.MelanomaMiraclibPBMC()

	first, err := service.Run(ctx, filter)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := service.Run(ctx, filter)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Error("expected the memoized report for an unchanged snapshot")
	}

	// A different filter misses the cache
	other, err := service.Run(ctx, filter.WithoutResponse())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if other == first {
		t.Error("different cohort definitions must not share a report")
	}

	// A changed snapshot misses the cache
	store.counts[0].Count++
	third, err := service.Run(ctx, filter)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if third == first {
		t.Error("a changed input snapshot must not reuse the cached report")
	}
}

func TestAnalysisService_EmptyStore(t *testing.T) {
	service := NewAnalysisService(&fakeStore{}, 0.05)

	report, err := service.Run(context.Background(), cohort.MelanomaMiraclibPBMC())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(report.Summary) != 0 || len(report.Comparison) != 0 || len(report.Baseline) != 0 {
		t.Errorf("expected empty tables, got %d/%d/%d rows",
			len(report.Summary), len(report.Comparison), len(report.Baseline))
	}
	for _, row := range report.Stats {
		if !math.IsNaN(row.PValue) || row.Significant {
			t.Errorf("%s: expected NaN p-value and no significance", row.Population)
		}
	}
}

func TestAnalysisService_StoreErrorSurfaced(t *testing.T) {
	storeErr := core.NewStoreAccessError("query subjects", errors.New("disk gone"))
	service := NewAnalysisService(&fakeStore{err: storeErr}, 0.05)

	_, err := service.Run(context.Background(), cohort.MelanomaMiraclibPBMC())
	if !core.IsStoreAccessError(err) {
		t.Errorf("expected the store error surfaced unchanged, got %v", err)
	}
}

func TestAnalysisService_IntegrityErrorAborts(t *testing.T) {
	store := fakeStoreWithCohort()
	store.counts = store.counts[:9] // drop one population row

	service := NewAnalysisService(store, 0.05)
	_, err := service.Run(context.Background(), cohort.MelanomaMiraclibPBMC())
	if !core.IsDataIntegrityError(err) {
		t.Errorf("expected a data integrity error, got %v", err)
	}
}
