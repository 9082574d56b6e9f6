// Package main provides an offline batch estimator: it reads an assessment
// CSV, runs the same estimation pipeline the server uses, and writes the
// result as JSON or CSV. Row-level problems are reported on stderr while the
// valid rooms still estimate, so one bad reading never blocks a report.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"

	"github.com/restoration-tools/drycost/internal/estimate"
	"github.com/restoration-tools/drycost/internal/export"
	"github.com/restoration-tools/drycost/internal/ingest"
)

func main() {
	var input string
	var ratesPath string
	var format string
	var output string

	flag.StringVar(&input, "input", "", "assessment CSV to estimate (\"-\" reads stdin)")
	flag.StringVar(&ratesPath, "rates", "", "JSON file with rate overrides applied over the built-in pricing")
	flag.StringVar(&format, "format", "json", "output format: json or csv")
	flag.StringVar(&output, "output", "", "write results to this file instead of stdout")
	flag.Parse()

	if err := run(input, ratesPath, format, output); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(input, ratesPath, format, output string) error {
	if input == "" {
		return fmt.Errorf("-input is required")
	}
	if format != "json" && format != "csv" {
		return fmt.Errorf("unknown format %q: expected json or csv", format)
	}

	records, err := readAssessments(input)
	if err != nil {
		return err
	}

	rates := estimate.DefaultRates()
	if ratesPath != "" {
		if rates, err = loadRates(ratesPath); err != nil {
			return err
		}
	}

	library, err := estimate.DefaultLibrary()
	if err != nil {
		return fmt.Errorf("load material library: %w", err)
	}

	result, err := estimate.Run(records, rates, library)
	if err != nil {
		return err
	}
	result.EstimateID = uuid.NewString()

	reportRowErrors(result)

	out := io.Writer(os.Stdout)
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		out = f
	}

	if format == "csv" {
		return writeCSV(out, result)
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func readAssessments(input string) ([]estimate.RawRoomRecord, error) {
	if input == "-" {
		return ingest.ParseAssessments(os.Stdin)
	}
	f, err := os.Open(input)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()
	return ingest.ParseAssessments(f)
}

// loadRates overlays a JSON override file on the built-in pricing, so an
// office can restate just the rates that differ locally. Range checking
// happens inside the engine run.
func loadRates(path string) (estimate.RateConfiguration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return estimate.RateConfiguration{}, fmt.Errorf("read rates: %w", err)
	}

	rates := estimate.DefaultRates()
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&rates); err != nil {
		return estimate.RateConfiguration{}, fmt.Errorf("parse rates %s: %w", path, err)
	}
	return rates, nil
}

// reportRowErrors prints the skipped-row summary on stderr. Skipped rows do
// not change the exit code; partial results are still results.
func reportRowErrors(result estimate.BatchResult) {
	for _, re := range result.Errors {
		fmt.Fprintf(os.Stderr, "  %s\n", re.Error())
	}
	if result.Skipped > 0 {
		fmt.Fprintf(os.Stderr, "estimated %d room(s), skipped %d\n", len(result.Rooms), result.Skipped)
	}
}

// writeCSV writes the per-room sheet followed by the project summary as one
// document, separated by a blank line.
func writeCSV(w io.Writer, result estimate.BatchResult) error {
	if err := export.WriteRooms(w, result.Rooms); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	return export.WriteSummary(w, result.Summary)
}
