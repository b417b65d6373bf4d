// Command memsave stores learnings from a Goose implementation run.
//
// Usage:
//
//	memsave <issue_number> <goose_log_file> <success|failure>
//
// It mines the Goose output log for key learnings (errors encountered,
// patterns that worked) and stores them in the memory store for future
// runs to benefit from. All text is sanitized before storage to prevent
// leaking secrets. Saving is best-effort: an unconfigured or unreachable
// store exits zero so a failed save never breaks the pipeline.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/wgmesh/ci-tools/internal/config"
	"github.com/wgmesh/ci-tools/internal/lessons"
	"github.com/wgmesh/ci-tools/internal/llm"
	"github.com/wgmesh/ci-tools/internal/memory"
)

func main() {
	pflag.Parse()
	args := pflag.Args()
	if len(args) < 3 {
		fmt.Fprintf(os.Stderr, "Usage: %s <issue_number> <goose_log_file> <success|failure>\n", os.Args[0])
		os.Exit(1)
	}
	issue, logFile, outcome := args[0], args[1], args[2]

	if outcome != "success" && outcome != "failure" {
		fmt.Fprintf(os.Stderr, "Invalid outcome: %s. Must be 'success' or 'failure'\n", outcome)
		os.Exit(1)
	}

	logContent := readLog(logFile, issue)

	cfg, err := config.LoadMemory()
	if err != nil {
		fmt.Printf("WARNING: invalid memory configuration: %v\n", err)
		return
	}
	if !cfg.Enabled() {
		fmt.Println("memory store not configured, skipping memory save")
		return
	}

	ctx := context.Background()
	svc, err := openService(ctx, cfg)
	if err != nil {
		fmt.Printf("WARNING: failed to initialize memory store: %v\n", err)
		return
	}
	defer svc.Close()

	entries := lessons.BuildEntries(issue, logContent, outcome)
	saved := 0
	for _, entry := range entries {
		if err := svc.Add(ctx, entry.Messages, cfg.UserID, entry.Metadata); err != nil {
			fmt.Printf("Failed to save memory: %v\n", err)
			continue
		}
		saved++
	}

	fmt.Printf("Saved %d/%d memories for issue #%s\n", saved, len(entries), issue)
}

// readLog loads the Goose log; a missing log still produces a run-summary
// memory, so it degrades to a placeholder instead of failing.
func readLog(logFile, issue string) string {
	content, err := os.ReadFile(logFile)
	if err != nil {
		fmt.Printf("Log file not found: %s\n", logFile)
		return fmt.Sprintf("No log available for issue #%s", issue)
	}
	return string(content)
}

func openService(ctx context.Context, cfg config.Memory) (*memory.Service, error) {
	embedder, err := llm.NewGenAIEmbedder(ctx, cfg.GoogleAPIKey)
	if err != nil {
		return nil, err
	}
	var extractor memory.Extractor
	if cfg.AnthropicAPIKey != "" {
		extractor = llm.NewAnthropicExtractor(cfg.AnthropicAPIKey, cfg.AnthropicBaseURL, cfg.Model)
	}
	return memory.Open(ctx, cfg.DBType, cfg.DatabaseURL, embedder, extractor)
}
