// Command genreport generates an HTML test report from an NDJSON trace.
//
// Usage:
//
//	genreport [--config options.yaml] <trace.jsonl> <output.html>
//
// The trace is one JSON object per line, as emitted by the testlab
// harness. The output is a single self-contained HTML document: test
// timeline with Gantt bars, chaos event overlay, data plane metrics,
// per-test durations, and tier summary statistics.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/pflag"

	"github.com/wgmesh/ci-tools/internal/config"
	"github.com/wgmesh/ci-tools/internal/report"
	"github.com/wgmesh/ci-tools/internal/trace"
)

func main() {
	configPath := pflag.String("config", "", "optional YAML file with report options")
	pflag.Parse()

	args := pflag.Args()
	if len(args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s [--config options.yaml] <trace.jsonl> <output.html>\n", os.Args[0])
		os.Exit(1)
	}
	tracePath, outputPath := args[0], args[1]

	if _, err := os.Stat(tracePath); err != nil {
		fmt.Fprintf(os.Stderr, "Trace file not found: %s\n", tracePath)
		os.Exit(1)
	}

	opts, err := config.LoadReport(*configPath)
	if err != nil {
		log.Fatalf("Failed to load report config: %v", err)
	}

	events, err := trace.Load(tracePath)
	if err != nil {
		log.Fatalf("Failed to load trace: %v", err)
	}
	if len(events) == 0 {
		fmt.Fprintln(os.Stderr, "Warning: no events found in trace file")
	}

	html := report.Render(events, opts)
	if err := os.WriteFile(outputPath, []byte(html), 0o644); err != nil {
		log.Fatalf("Failed to write report: %v", err)
	}

	fmt.Printf("Report generated: %s (%d events)\n", outputPath, len(events))
}
