package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"cytostat/domain/analysis"
	"cytostat/domain/cohort"
	"cytostat/domain/core"
	"cytostat/internal"
	"cytostat/ports"

	"golang.org/x/sync/errgroup"
)

// Report bundles the four derived outputs of one analysis run. Reports are
// ephemeral: recomputed per invocation and owned by the caller.
type Report struct {
	RunID       core.RunID                 `json:"run_id"`
	GeneratedAt time.Time                  `json:"generated_at"`
	Snapshot    core.SnapshotHash          `json:"snapshot"`
	Filter      cohort.Filter              `json:"filter"`
	Alpha       float64                    `json:"alpha"`
	Summary     []cohort.SummaryRow        `json:"summary"`
	Comparison  []cohort.ComparisonRow     `json:"comparison"`
	Stats       []analysis.PopulationStat  `json:"stats"`
	Baseline    []cohort.BaselineRow       `json:"baseline"`
	Breakdown   analysis.BaselineBreakdown `json:"baseline_breakdown"`
}

// AnalysisService is the pipeline entry point. It reads typed records through
// the store port, runs the pure computation layer, and memoizes finished
// reports keyed by cohort definition, significance threshold, and input
// snapshot identity - never by ambient process state.
type AnalysisService struct {
	store ports.CohortStore
	alpha float64

	mu   sync.Mutex
	memo map[string]*Report
}

// NewAnalysisService creates the service with a default significance
// threshold applied when callers pass alpha <= 0.
func NewAnalysisService(store ports.CohortStore, alpha float64) *AnalysisService {
	if alpha <= 0 {
		alpha = analysis.DefaultAlpha
	}
	return &AnalysisService{
		store: store,
		alpha: alpha,
		memo:  make(map[string]*Report),
	}
}

// Run computes the full report for the cohort filter using the service's
// configured significance threshold.
func (s *AnalysisService) Run(ctx context.Context, filter cohort.Filter) (*Report, error) {
	return s.RunWithAlpha(ctx, filter, s.alpha)
}

// RunWithAlpha computes the full report with an explicit significance
// threshold. A cached report is returned when the cohort definition, alpha,
// and input snapshot all match a previous run.
func (s *AnalysisService) RunWithAlpha(ctx context.Context, filter cohort.Filter, alpha float64) (*Report, error) {
	if alpha <= 0 {
		alpha = s.alpha
	}

	var (
		subjects []cohort.Subject
		samples  []cohort.Sample
		counts   []cohort.PopulationCount
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		subjects, err = s.store.Subjects(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		samples, err = s.store.Samples(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		counts, err = s.store.PopulationCounts(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	snapshot := snapshotOf(subjects, samples, counts)
	key := fmt.Sprintf("%s|alpha=%g", core.ComputeRunKey(filter.Key(), snapshot), alpha)

	s.mu.Lock()
	if cached, ok := s.memo[key]; ok {
		s.mu.Unlock()
		internal.DefaultLogger.Debug("report cache hit for %s", filter.Key())
		return cached, nil
	}
	s.mu.Unlock()

	report := &Report{
		RunID:       core.NewRunID(),
		GeneratedAt: time.Now().UTC(),
		Snapshot:    snapshot,
		Filter:      filter,
		Alpha:       alpha,
	}

	// The three derived branches are independent of each other
	g, _ = errgroup.WithContext(ctx)
	g.Go(func() error {
		summary, err := analysis.BuildSummary(counts)
		if err != nil {
			return err
		}
		report.Summary = summary
		return nil
	})
	g.Go(func() error {
		comparison, err := analysis.SelectComparison(subjects, samples, counts, filter)
		if err != nil {
			return err
		}
		report.Comparison = comparison
		report.Stats = analysis.ResponderStats(comparison, alpha)
		return nil
	})
	g.Go(func() error {
		baseline := analysis.SelectBaseline(subjects, samples, filter)
		report.Baseline = baseline
		report.Breakdown = analysis.SummarizeBaseline(baseline)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.memo[key] = report
	s.mu.Unlock()

	internal.DefaultLogger.Debug("report %s computed over %d samples", report.RunID, len(samples))
	return report, nil
}

// snapshotOf derives the input snapshot identity from the loaded record set.
// Records arrive from the store in a deterministic order, so equal inputs
// always hash equally.
func snapshotOf(subjects []cohort.Subject, samples []cohort.Sample, counts []cohort.PopulationCount) core.SnapshotHash {
	lines := make([]string, 0, len(subjects)+len(samples)+len(counts))
	for _, s := range subjects {
		lines = append(lines, fmt.Sprintf("subject|%s|%s|%d|%s", s.SubjectID, s.Condition, s.Age, s.Sex))
	}
	for _, s := range samples {
		lines = append(lines, fmt.Sprintf("sample|%s|%s|%s|%s|%s|%s|%d",
			s.SampleID, s.Project, s.SubjectID, s.Treatment, s.Response, s.SampleType, s.TimeFromTreatmentStart))
	}
	for _, c := range counts {
		lines = append(lines, fmt.Sprintf("count|%s|%s|%d", c.SampleID, c.Population, c.Count))
	}
	return core.ComputeSnapshotHash(lines)
}
