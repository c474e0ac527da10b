package cohort

// Population identifies one of the fixed immune cell subtypes counted per sample.
type Population string

const (
	PopulationBCell    Population = "b_cell"
	PopulationCD8TCell Population = "cd8_t_cell"
	PopulationCD4TCell Population = "cd4_t_cell"
	PopulationNKCell   Population = "nk_cell"
	PopulationMonocyte Population = "monocyte"
)

// Populations is the closed set of counted populations, in reporting order.
// Stats tables emit one row per entry in this order.
var Populations = []Population{
	PopulationBCell,
	PopulationCD8TCell,
	PopulationCD4TCell,
	PopulationNKCell,
	PopulationMonocyte,
}

// IsKnownPopulation reports whether p belongs to the fixed population set.
func IsKnownPopulation(p Population) bool {
	for _, known := range Populations {
		if p == known {
			return true
		}
	}
	return false
}

// Response labels for treatment outcome.
const (
	ResponseYes = "yes"
	ResponseNo  = "no"
)

// Subject is an enrolled study participant. Immutable once ingested.
type Subject struct {
	SubjectID string `json:"subject_id"`
	Condition string `json:"condition"`
	Age       int    `json:"age"`
	Sex       string `json:"sex"`
}

// Sample is a single specimen drawn from a subject. A subject may have many
// samples. TimeFromTreatmentStart is signed; zero marks a baseline sample.
type Sample struct {
	SampleID               string `json:"sample_id"`
	Project                string `json:"project"`
	SubjectID              string `json:"subject_id"`
	Treatment              string `json:"treatment"`
	Response               string `json:"response"`
	SampleType             string `json:"sample_type"`
	TimeFromTreatmentStart int    `json:"time_from_treatment_start"`
}

// IsBaseline reports whether the sample was taken at treatment start.
func (s Sample) IsBaseline() bool {
	return s.TimeFromTreatmentStart == 0
}

// PopulationCount is one (sample, population) cell count.
type PopulationCount struct {
	SampleID   string     `json:"sample_id"`
	Population Population `json:"population"`
	Count      int        `json:"count"`
}

// SummaryRow is one output row of the frequency aggregator.
type SummaryRow struct {
	Sample     string     `json:"sample"`
	TotalCount int        `json:"total_count"`
	Population Population `json:"population"`
	Count      int        `json:"count"`
	Percentage float64    `json:"percentage"`
}

// ComparisonRow is one cohort-filtered row carrying the unrounded percentage
// and the sample's response label.
type ComparisonRow struct {
	Sample     string     `json:"sample"`
	Response   string     `json:"response"`
	Population Population `json:"population"`
	Count      int        `json:"count"`
	Percentage float64    `json:"percentage"`
}

// BaselineRow is one row of the filtered baseline subset.
type BaselineRow struct {
	SampleID               string `json:"sample_id"`
	Project                string `json:"project"`
	SubjectID              string `json:"subject_id"`
	Response               string `json:"response"`
	Sex                    string `json:"sex"`
	TimeFromTreatmentStart int    `json:"time_from_treatment_start"`
}
