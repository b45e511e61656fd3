package evaluation

import (
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// ReportedResult is a scored test case along with its 0-based position in
// the experiment.
type ReportedResult struct {
	Index int `json:"index"`
	ExperimentResult
}

type CaseFailure struct {
	Index int    `json:"index"`
	Input string `json:"input"`
	Error string `json:"error"`
}

// Report is the presentation form of a finished run.
type Report struct {
	ID           string           `json:"id"`
	SystemPrompt string           `json:"systemPrompt"`
	StartedAt    time.Time        `json:"startedAt"`
	Results      []ReportedResult `json:"results"`
	Failures     []CaseFailure    `json:"failures,omitempty"`
	// AverageScore is nil when no result was scored.
	AverageScore *float64 `json:"averageScore"`
}

func NewReport(systemPrompt string, startedAt time.Time, results []ExperimentResult) *Report {
	return newReport(systemPrompt, startedAt, lo.Map(results, func(r ExperimentResult, i int) ReportedResult {
		return ReportedResult{Index: i, ExperimentResult: r}
	}))
}

// NewPartialReport builds a report from RunEach output. Failed cases are
// listed under Failures and left out of the average. Every entry keeps the
// index of its test case.
func NewPartialReport(systemPrompt string, startedAt time.Time, testCases []TestCase, outcomes []mo.Result[ExperimentResult]) *Report {
	var results []ReportedResult
	var failures []CaseFailure
	for i, outcome := range outcomes {
		if outcome.IsError() {
			failures = append(failures, CaseFailure{
				Index: i,
				Input: testCases[i].Input,
				Error: outcome.Error().Error(),
			})
			continue
		}
		results = append(results, ReportedResult{Index: i, ExperimentResult: outcome.MustGet()})
	}
	report := newReport(systemPrompt, startedAt, results)
	report.Failures = failures
	return report
}

func newReport(systemPrompt string, startedAt time.Time, results []ReportedResult) *Report {
	report := &Report{
		ID:           uuid.New().String(),
		SystemPrompt: systemPrompt,
		StartedAt:    startedAt,
		Results:      lo.Ternary(results == nil, []ReportedResult{}, results),
	}
	if len(results) > 0 {
		avg := AverageScore(lo.Map(results, func(r ReportedResult, _ int) ExperimentResult {
			return r.ExperimentResult
		}))
		report.AverageScore = &avg
	}
	return report
}
