package evaluation

type TestCase struct {
	Input          string `json:"input"`
	ExpectedOutput string `json:"expectedOutput"`
}

type ExperimentResult struct {
	Input          string  `json:"input"`
	ExpectedOutput string  `json:"expectedOutput"`
	ActualOutput   string  `json:"actualOutput"`
	Score          float64 `json:"score"`
}

//go:generate mockgen -source=types.go -destination=mocks/client.go -package=mocks
type ModelClient interface {
	Complete(systemPrompt, userInput string) (string, error)
}
