package models

import "time"

type Outcome string

const (
	OutcomeOK               Outcome = "ok"
	OutcomeEmpty            Outcome = "empty"
	OutcomeTransportFailure Outcome = "transport_failure"
	OutcomeParseFailure     Outcome = "parse_failure"
)

// ObjectResult is everything the report needs for one object. Max and Verdict
// are nil when disabled or not applicable; Detail carries the failure message
// for the failure outcomes.
type ObjectResult struct {
	ObjectID ObjectID  `json:"object_id"`
	Outcome  Outcome   `json:"outcome"`
	Max      *Extremum `json:"max,omitempty"`
	Min      *Extremum `json:"min,omitempty"`
	Verdict  *Verdict  `json:"verdict,omitempty"`
	Detail   string    `json:"detail,omitempty"`
}

func (r *ObjectResult) Failed() bool {
	return r.Outcome == OutcomeTransportFailure || r.Outcome == OutcomeParseFailure
}

// Report is the outcome of one run over an ordered object list
type Report struct {
	RunID       string         `json:"run_id"`
	GeneratedAt time.Time      `json:"generated_at"`
	Results     []ObjectResult `json:"results"`
	Body        string         `json:"body"`
}

// Counts tallies results per outcome.
func (r *Report) Counts() map[Outcome]int {
	counts := make(map[Outcome]int)
	for _, res := range r.Results {
		counts[res.Outcome]++
	}
	return counts
}
