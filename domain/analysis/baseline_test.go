package analysis

import (
	"testing"

	"cytostat/domain/cohort"
)

// TestSummarizeBaseline_SubjectDedup verifies the core dedup rule: a subject
// with two baseline samples in the same project contributes both samples to
// samples-per-project but counts once in the subject groupings.
func TestSummarizeBaseline_SubjectDedup(t *testing.T) {
	rows := []cohort.BaselineRow{
		{SampleID: "s1", Project: "prj1", SubjectID: "sbj1", Response: "yes", Sex: "F"},
		{SampleID: "s2", Project: "prj1", SubjectID: "sbj1", Response: "yes", Sex: "F"},
		{SampleID: "s3", Project: "prj2", SubjectID: "sbj2", Response: "no", Sex: "M"},
	}

	breakdown := SummarizeBaseline(rows)

	if breakdown.SamplesPerProject["prj1"] != 2 {
		t.Errorf("prj1: expected 2 samples, got %d", breakdown.SamplesPerProject["prj1"])
	}
	if breakdown.SamplesPerProject["prj2"] != 1 {
		t.Errorf("prj2: expected 1 sample, got %d", breakdown.SamplesPerProject["prj2"])
	}
	if breakdown.SubjectsByResponse["yes"] != 1 {
		t.Errorf("response=yes: expected 1 subject, got %d", breakdown.SubjectsByResponse["yes"])
	}
	if breakdown.SubjectsByResponse["no"] != 1 {
		t.Errorf("response=no: expected 1 subject, got %d", breakdown.SubjectsByResponse["no"])
	}
	if breakdown.SubjectsBySex["F"] != 1 || breakdown.SubjectsBySex["M"] != 1 {
		t.Errorf("unexpected sex breakdown: %v", breakdown.SubjectsBySex)
	}
}

// TestSummarizeBaseline_HandComputed pins the three groupings for a small
// known row set.
func TestSummarizeBaseline_HandComputed(t *testing.T) {
	rows := []cohort.BaselineRow{
		{SampleID: "s1", Project: "prj1", SubjectID: "sbj1", Response: "yes", Sex: "F"},
		{SampleID: "s2", Project: "prj1", SubjectID: "sbj2", Response: "no", Sex: "M"},
		{SampleID: "s3", Project: "prj2", SubjectID: "sbj3", Response: "", Sex: "F"},
	}

	breakdown := SummarizeBaseline(rows)

	if got := breakdown.SamplesPerProject; got["prj1"] != 2 || got["prj2"] != 1 {
		t.Errorf("unexpected samples per project: %v", got)
	}
	if got := breakdown.SubjectsByResponse; got["yes"] != 1 || got["no"] != 1 || got[""] != 1 {
		t.Errorf("unexpected subjects by response: %v", got)
	}
	if got := breakdown.SubjectsBySex; got["F"] != 2 || got["M"] != 1 {
		t.Errorf("unexpected subjects by sex: %v", got)
	}
}

func TestSummarizeBaseline_Empty(t *testing.T) {
	breakdown := SummarizeBaseline(nil)

	if len(breakdown.SamplesPerProject) != 0 ||
		len(breakdown.SubjectsByResponse) != 0 ||
		len(breakdown.SubjectsBySex) != 0 {
		t.Errorf("expected empty breakdown, got %+v", breakdown)
	}
}
