package evaluation

import (
	"math"
	"strings"

	"github.com/samber/lo"
)

// ScoreFunc grades a single actual output against its expected output.
type ScoreFunc func(expected, actual string) float64

// ExactMatch scores 1 when both outputs are equal after trimming
// surrounding whitespace and lowercasing, and 0 otherwise.
func ExactMatch(expected, actual string) float64 {
	if normalize(expected) == normalize(actual) {
		return 1
	}
	return 0
}

func normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// AverageScore is the mean score of results. It is NaN when results is
// empty.
func AverageScore(results []ExperimentResult) float64 {
	if len(results) == 0 {
		return math.NaN()
	}
	sum := lo.SumBy(results, func(r ExperimentResult) float64 {
		return r.Score
	})
	return sum / float64(len(results))
}
