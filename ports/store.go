package ports

import (
	"context"

	"cytostat/domain/cohort"
)

// CohortStore is the narrow read interface over the relational store. It
// returns typed records in a deterministic order; all filtering, joining and
// statistics happen in the pure computation layer on top of it. The store is
// never written to by the analytical core.
type CohortStore interface {
	// Subjects returns every subject, ordered by subject identifier.
	Subjects(ctx context.Context) ([]cohort.Subject, error)

	// Samples returns every sample, ordered by sample identifier.
	Samples(ctx context.Context) ([]cohort.Sample, error)

	// PopulationCounts returns every (sample, population) count, ordered by
	// sample identifier then population identifier.
	PopulationCounts(ctx context.Context) ([]cohort.PopulationCount, error)
}
