package evaluation

import (
	"github.com/samber/mo"
	log "github.com/sirupsen/logrus"
)

type Options struct {
	// Scorer defaults to ExactMatch.
	Scorer ScoreFunc
}

// Runner executes test cases against a ModelClient, one call at a time.
// It does not guard against overlapping runs on the same client.
type Runner struct {
	options *Options
	client  ModelClient
}

func NewRunner(client ModelClient, options *Options) *Runner {
	opts := Options{}
	if options != nil {
		opts = *options
	}
	if opts.Scorer == nil {
		opts.Scorer = ExactMatch
	}
	return &Runner{
		options: &opts,
		client:  client,
	}
}

// Run sends every test case to the model in order and scores the
// responses. The first failed call aborts the run: its error is returned
// as is, along with no results.
func (r *Runner) Run(systemPrompt string, testCases []TestCase) ([]ExperimentResult, error) {
	results := make([]ExperimentResult, 0, len(testCases))
	for i, testCase := range testCases {
		result, err := r.runCase(systemPrompt, testCase)
		if err != nil {
			log.Debugf("test case %d/%d failed, aborting run: %s", i+1, len(testCases), err)
			return nil, err
		}
		log.Debugf("test case %d/%d scored %v", i+1, len(testCases), result.Score)
		results = append(results, result)
	}
	return results, nil
}

// RunEach is like Run but never aborts. Each test case gets its own
// result, which holds the call error if the model call failed.
func (r *Runner) RunEach(systemPrompt string, testCases []TestCase) []mo.Result[ExperimentResult] {
	results := make([]mo.Result[ExperimentResult], len(testCases))
	for i, testCase := range testCases {
		result, err := r.runCase(systemPrompt, testCase)
		if err != nil {
			log.Debugf("test case %d/%d failed: %s", i+1, len(testCases), err)
			results[i] = mo.Err[ExperimentResult](err)
			continue
		}
		log.Debugf("test case %d/%d scored %v", i+1, len(testCases), result.Score)
		results[i] = mo.Ok(result)
	}
	return results
}

func (r *Runner) runCase(systemPrompt string, testCase TestCase) (ExperimentResult, error) {
	actualOutput, err := r.client.Complete(systemPrompt, testCase.Input)
	if err != nil {
		return ExperimentResult{}, err
	}
	return ExperimentResult{
		Input:          testCase.Input,
		ExpectedOutput: testCase.ExpectedOutput,
		ActualOutput:   actualOutput,
		Score:          r.options.Scorer(testCase.ExpectedOutput, actualOutput),
	}, nil
}
