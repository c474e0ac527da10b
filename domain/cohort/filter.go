package cohort

import (
	"fmt"
	"strings"
)

// Filter describes a comparison cohort as equality and set-membership
// predicates over subject and sample attributes. An empty Responses slice
// means the response label is unrestricted.
type Filter struct {
	Condition  string   `json:"condition"`
	Treatment  string   `json:"treatment"`
	SampleType string   `json:"sample_type"`
	Responses  []string `json:"responses,omitempty"`
}

// MelanomaMiraclibPBMC is the canonical responder-comparison cohort:
// melanoma subjects on miraclib, PBMC samples, with a known response label.
func MelanomaMiraclibPBMC() Filter {
	return Filter{
		Condition:  "melanoma",
		Treatment:  "miraclib",
		SampleType: "PBMC",
		Responses:  []string{ResponseYes, ResponseNo},
	}
}

// WithoutResponse returns a copy of the filter with the response restriction
// lifted, as used for baseline breakdowns.
func (f Filter) WithoutResponse() Filter {
	f.Responses = nil
	return f
}

// Matches reports whether the sample and its subject satisfy every predicate.
func (f Filter) Matches(subj Subject, smp Sample) bool {
	if f.Condition != "" && subj.Condition != f.Condition {
		return false
	}
	if f.Treatment != "" && smp.Treatment != f.Treatment {
		return false
	}
	if f.SampleType != "" && smp.SampleType != f.SampleType {
		return false
	}
	if len(f.Responses) > 0 {
		allowed := false
		for _, r := range f.Responses {
			if smp.Response == r {
				allowed = true
				break
			}
		}
		if !allowed {
			return false
		}
	}
	return true
}

// Key returns a stable string identity for the filter, used as part of the
// memoization key for analysis runs.
func (f Filter) Key() string {
	return fmt.Sprintf("condition=%s|treatment=%s|sample_type=%s|responses=%s",
		f.Condition, f.Treatment, f.SampleType, strings.Join(f.Responses, ","))
}
