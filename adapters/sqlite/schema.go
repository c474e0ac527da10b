package sqlite

import (
	"context"

	"cytostat/domain/cohort"
	"cytostat/domain/core"
)

// schemaSQL mirrors the ingestion collaborator's physical schema. The
// analytical core only ever reads these tables.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS subjects (
    subject_id TEXT PRIMARY KEY,
    condition TEXT NOT NULL,
    age INTEGER NOT NULL,
    sex TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS samples (
    sample_id TEXT PRIMARY KEY,
    project TEXT NOT NULL,
    subject_id TEXT NOT NULL,
    treatment TEXT NOT NULL,
    response TEXT NOT NULL,
    sample_type TEXT NOT NULL,
    time_from_treatment_start INTEGER NOT NULL,
    FOREIGN KEY(subject_id) REFERENCES subjects(subject_id)
);

CREATE TABLE IF NOT EXISTS counts (
    sample_id TEXT NOT NULL,
    population TEXT NOT NULL,
    count INTEGER NOT NULL,
    PRIMARY KEY (sample_id, population),
    FOREIGN KEY(sample_id) REFERENCES samples(sample_id)
);
`

// InitSchema creates the subjects, samples and counts tables if absent.
func (s *Store) InitSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return core.NewStoreAccessError("initialize schema", err)
	}
	return nil
}

// InsertDataset loads one ingested dataset inside a single transaction.
// Existing rows with the same keys are replaced, so re-ingesting the same
// file is idempotent.
func (s *Store) InsertDataset(ctx context.Context, subjects []cohort.Subject, samples []cohort.Sample, counts []cohort.PopulationCount) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return core.NewStoreAccessError("begin transaction", err)
	}
	defer tx.Rollback()

	subjectStmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO subjects (subject_id, condition, age, sex) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return core.NewStoreAccessError("prepare subject insert", err)
	}
	defer subjectStmt.Close()
	for _, subj := range subjects {
		if _, err := subjectStmt.ExecContext(ctx, subj.SubjectID, subj.Condition, subj.Age, subj.Sex); err != nil {
			return core.NewStoreAccessError("insert subject", err)
		}
	}

	sampleStmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO samples
		(sample_id, project, subject_id, treatment, response, sample_type, time_from_treatment_start)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return core.NewStoreAccessError("prepare sample insert", err)
	}
	defer sampleStmt.Close()
	for _, smp := range samples {
		if _, err := sampleStmt.ExecContext(ctx, smp.SampleID, smp.Project, smp.SubjectID,
			smp.Treatment, smp.Response, smp.SampleType, smp.TimeFromTreatmentStart); err != nil {
			return core.NewStoreAccessError("insert sample", err)
		}
	}

	countStmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO counts (sample_id, population, count) VALUES (?, ?, ?)`)
	if err != nil {
		return core.NewStoreAccessError("prepare count insert", err)
	}
	defer countStmt.Close()
	for _, c := range counts {
		if _, err := countStmt.ExecContext(ctx, c.SampleID, string(c.Population), c.Count); err != nil {
			return core.NewStoreAccessError("insert count", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return core.NewStoreAccessError("commit dataset", err)
	}
	return nil
}
