package sqlite

import (
	"context"

	"cytostat/domain/cohort"
	"cytostat/domain/core"
	"cytostat/ports"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// Store implements ports.CohortStore over a SQLite database.
type Store struct {
	db *sqlx.DB
}

var _ ports.CohortStore = (*Store)(nil)

// Open connects to the SQLite database at path and verifies the connection.
func Open(path string) (*Store, error) {
	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, core.NewStoreAccessError("open database", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, core.NewStoreAccessError("enable foreign keys", err)
	}
	return &Store{db: db}, nil
}

// NewStore wraps an existing connection, for callers that manage their own.
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Subjects returns every subject, ordered by subject identifier.
func (s *Store) Subjects(ctx context.Context) ([]cohort.Subject, error) {
	query := `SELECT subject_id, condition, age, sex
	FROM subjects
	ORDER BY subject_id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, core.NewStoreAccessError("query subjects", err)
	}
	defer rows.Close()

	var subjects []cohort.Subject
	for rows.Next() {
		var subj cohort.Subject
		if err := rows.Scan(&subj.SubjectID, &subj.Condition, &subj.Age, &subj.Sex); err != nil {
			return nil, core.NewStoreAccessError("scan subject", err)
		}
		subjects = append(subjects, subj)
	}
	if err := rows.Err(); err != nil {
		return nil, core.NewStoreAccessError("iterate subjects", err)
	}

	return subjects, nil
}

// Samples returns every sample, ordered by sample identifier.
func (s *Store) Samples(ctx context.Context) ([]cohort.Sample, error) {
	query := `SELECT sample_id, project, subject_id, treatment, response, sample_type, time_from_treatment_start
	FROM samples
	ORDER BY sample_id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, core.NewStoreAccessError("query samples", err)
	}
	defer rows.Close()

	var samples []cohort.Sample
	for rows.Next() {
		var smp cohort.Sample
		if err := rows.Scan(&smp.SampleID, &smp.Project, &smp.SubjectID, &smp.Treatment,
			&smp.Response, &smp.SampleType, &smp.TimeFromTreatmentStart); err != nil {
			return nil, core.NewStoreAccessError("scan sample", err)
		}
		samples = append(samples, smp)
	}
	if err := rows.Err(); err != nil {
		return nil, core.NewStoreAccessError("iterate samples", err)
	}

	return samples, nil
}

// PopulationCounts returns every count row, ordered by sample identifier
// then population identifier.
func (s *Store) PopulationCounts(ctx context.Context) ([]cohort.PopulationCount, error) {
	query := `SELECT sample_id, population, count
	FROM counts
	ORDER BY sample_id, population`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, core.NewStoreAccessError("query counts", err)
	}
	defer rows.Close()

	var counts []cohort.PopulationCount
	for rows.Next() {
		var c cohort.PopulationCount
		if err := rows.Scan(&c.SampleID, &c.Population, &c.Count); err != nil {
			return nil, core.NewStoreAccessError("scan count", err)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, core.NewStoreAccessError("iterate counts", err)
	}

	return counts, nil
}
