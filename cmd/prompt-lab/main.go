package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/joho/godotenv"
	"github.com/natexcvi/prompt-lab/engines"
	"github.com/natexcvi/prompt-lab/evaluation"
	"github.com/natexcvi/prompt-lab/suite"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	envFile      string
	verbose      bool
	gptModel     string
	timeout      time.Duration
	outputFormat string
	keepGoing    bool
)

var rootCmd = &cobra.Command{
	Use:           "prompt-lab",
	Short:         "Score a system prompt against expected model outputs.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			log.SetLevel(log.DebugLevel)
		}
		return loadDotEnv(envFile)
	},
}

var runCmd = &cobra.Command{
	Use:   "run EXPERIMENT_FILE",
	Short: "Run every test case in an experiment file and report the scores.",
	Long: `Run every test case in an experiment file and report the scores.
Example usage:
	prompt-lab run capitals.yaml
Where capitals.yaml looks like:
	system_prompt: Answer with only the capital city.
	test_cases:
	  - input: France
	    expected_output: Paris
The API key is read from OPENAI_API_KEY and the endpoint
from OPENAI_ENDPOINT, either of which may live in a .env file.
`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return validateFormat(outputFormat)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		experiment, err := suite.Load(args[0])
		if err != nil {
			return err
		}
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			return errors.New("OPENAI_API_KEY environment variable not set")
		}
		client := engines.NewModelClient(engines.GPTConfig{
			APIToken:   apiKey,
			Endpoint:   os.Getenv("OPENAI_ENDPOINT"),
			Model:      gptModel,
			HTTPClient: &http.Client{Timeout: timeout},
		})
		runner := evaluation.NewRunner(client, nil)

		s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
		s.Writer = os.Stderr
		s.Suffix = fmt.Sprintf(" Running %d test cases...", len(experiment.TestCases))
		s.Start()
		startedAt := time.Now()
		var report *evaluation.Report
		if keepGoing {
			outcomes := runner.RunEach(experiment.SystemPrompt, experiment.TestCases)
			report = evaluation.NewPartialReport(experiment.SystemPrompt, startedAt, experiment.TestCases, outcomes)
		} else {
			results, err := runner.Run(experiment.SystemPrompt, experiment.TestCases)
			if err != nil {
				s.Stop()
				return fmt.Errorf("experiment failed: %w", err)
			}
			report = evaluation.NewReport(experiment.SystemPrompt, startedAt, results)
		}
		s.Stop()
		log.Debugf("run %s finished in %s", report.ID, time.Since(startedAt))
		return writeReport(cmd.OutOrStdout(), report, outputFormat)
	},
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of experiment files.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		schema, err := suite.Schema()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(schema))
		return err
	},
}

// loadDotEnv loads environment variables from path. A missing file is not
// an error.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "path to a .env file (ignored if missing)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	runCmd.Flags().StringVar(&gptModel, "gpt-model", engines.DefaultModel, "the GPT model to use")
	runCmd.Flags().DurationVar(&timeout, "timeout", 60*time.Second, "timeout for each model call")
	runCmd.Flags().StringVarP(&outputFormat, "format", "o", formatText, "output format: text or json")
	runCmd.Flags().BoolVar(&keepGoing, "keep-going", false, "report failed test cases instead of aborting the run")
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(schemaCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
