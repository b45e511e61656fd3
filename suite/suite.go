// Package suite reads experiment definitions: a system prompt and the
// test cases to run under it.
package suite

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-multierror"
	"github.com/invopop/jsonschema"
	"github.com/natexcvi/prompt-lab/evaluation"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

var ErrEmptyDocument = errors.New("experiment file is empty")

// File is the on-disk layout of an experiment. Test case fields are
// pointers so that a missing key can be told apart from an empty value.
type File struct {
	SystemPrompt string     `yaml:"system_prompt" json:"system_prompt" jsonschema:"description=Instructions sent as the system message for every test case"`
	TestCases    []CaseFile `yaml:"test_cases" json:"test_cases" jsonschema:"description=Inputs to send to the model and the outputs expected back"`
}

type CaseFile struct {
	Input          *string `yaml:"input" json:"input" jsonschema:"description=User message sent to the model"`
	ExpectedOutput *string `yaml:"expected_output" json:"expected_output" jsonschema:"description=Reply that scores 1 when matched ignoring case and surrounding whitespace"`
}

type Experiment struct {
	SystemPrompt string
	TestCases    []evaluation.TestCase
}

func Load(path string) (*Experiment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open experiment file: %w", err)
	}
	defer f.Close()
	experiment, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	log.Debugf("loaded %d test cases from %s", len(experiment.TestCases), path)
	return experiment, nil
}

func Parse(r io.Reader) (*Experiment, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	var file File
	if err := decoder.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyDocument
		}
		return nil, fmt.Errorf("invalid experiment file: %w", err)
	}
	if err := file.validate(); err != nil {
		return nil, fmt.Errorf("invalid experiment file: %w", err)
	}
	return file.experiment(), nil
}

func (file *File) validate() error {
	var validationErr *multierror.Error
	for i, c := range file.TestCases {
		if c.Input == nil {
			validationErr = multierror.Append(validationErr, fmt.Errorf("test case %d: missing input", i+1))
		}
		if c.ExpectedOutput == nil {
			validationErr = multierror.Append(validationErr, fmt.Errorf("test case %d: missing expected_output", i+1))
		}
	}
	return validationErr.ErrorOrNil()
}

func (file *File) experiment() *Experiment {
	testCases := make([]evaluation.TestCase, len(file.TestCases))
	for i, c := range file.TestCases {
		testCases[i] = evaluation.TestCase{
			Input:          *c.Input,
			ExpectedOutput: *c.ExpectedOutput,
		}
	}
	return &Experiment{
		SystemPrompt: file.SystemPrompt,
		TestCases:    testCases,
	}
}

// Schema returns the JSON schema of the experiment file format.
func Schema() ([]byte, error) {
	reflector := &jsonschema.Reflector{
		ExpandedStruct: true,
	}
	return reflector.Reflect(&File{}).MarshalJSON()
}
