package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/natexcvi/prompt-lab/evaluation"
)

const (
	formatText = "text"
	formatJSON = "json"
)

func validateFormat(format string) error {
	switch format {
	case formatText, formatJSON:
		return nil
	default:
		return fmt.Errorf("unknown output format %q (want %q or %q)", format, formatText, formatJSON)
	}
}

func writeReport(w io.Writer, report *evaluation.Report, format string) error {
	switch format {
	case formatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(report)
	case formatText:
		return writeTextReport(w, report)
	default:
		return validateFormat(format)
	}
}

func writeTextReport(w io.Writer, report *evaluation.Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tINPUT\tEXPECTED\tACTUAL\tSCORE")
	for _, result := range report.Results {
		fmt.Fprintf(tw, "%d\t%q\t%q\t%q\t%g\n", result.Index+1, result.Input, result.ExpectedOutput, result.ActualOutput, result.Score)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if len(report.Failures) > 0 {
		fmt.Fprintf(w, "\nFailed test cases:\n")
		for _, failure := range report.Failures {
			fmt.Fprintf(w, "%d\t%q: %s\n", failure.Index+1, failure.Input, failure.Error)
		}
	}
	if report.AverageScore == nil {
		_, err := fmt.Fprintln(w, "\nAverage score: N/A")
		return err
	}
	_, err := fmt.Fprintf(w, "\nAverage score: %.2f\n", *report.AverageScore)
	return err
}
