// Command memretrieve fetches relevant memories for a Goose
// implementation run.
//
// Usage:
//
//	memretrieve <issue_number> <output_file>
//
// It queries the memory store for past learnings related to the issue,
// common Go build errors, and implementation patterns, and writes a
// formatted context block to output_file. Retrieval is best-effort: an
// unconfigured or unreachable store produces an empty context file and a
// zero exit so the CI pipeline keeps going.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/wgmesh/ci-tools/internal/config"
	"github.com/wgmesh/ci-tools/internal/llm"
	"github.com/wgmesh/ci-tools/internal/memory"
)

// resultsPerQuery caps each search; overlapping queries are deduped after.
const resultsPerQuery = 3

func main() {
	pflag.Parse()
	args := pflag.Args()
	if len(args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <issue_number> <output_file>\n", os.Args[0])
		os.Exit(1)
	}
	issue, outputFile := args[0], args[1]

	memories := retrieveMemories(issue)

	contextText := memory.FormatContext(memories)
	if err := os.WriteFile(outputFile, []byte(contextText), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write context file: %v\n", err)
		os.Exit(1)
	}

	if len(memories) > 0 {
		fmt.Println("Memory context written to", outputFile)
	} else {
		fmt.Println("No memories found, empty context file created")
	}
}

// retrieveMemories queries the store for memories relevant to this run.
// Every failure path returns what was gathered so far; retrieval never
// fails the pipeline.
func retrieveMemories(issue string) []string {
	cfg, err := config.LoadMemory()
	if err != nil {
		fmt.Printf("WARNING: invalid memory configuration: %v\n", err)
		return nil
	}
	if !cfg.Enabled() {
		fmt.Println("memory store not configured, skipping retrieval")
		return nil
	}

	ctx := context.Background()
	svc, err := openService(ctx, cfg)
	if err != nil {
		fmt.Printf("WARNING: failed to initialize memory store: %v\n", err)
		return nil
	}
	defer svc.Close()

	fmt.Printf("Retrieving memories for issue #%s...\n", issue)

	// Issue-specific query first, then broader patterns.
	queries := []string{
		fmt.Sprintf("issue #%s implementation", issue),
		"go build undefined type errors in wgmesh",
		"successful goose implementation patterns for wgmesh",
	}

	var memories []string
	for _, query := range queries {
		results, err := svc.Search(ctx, query, cfg.UserID, resultsPerQuery)
		if err != nil {
			fmt.Printf("memory search failed for %q: %v\n", query, err)
			continue
		}
		for _, r := range results {
			memories = append(memories, r.Memory)
		}
	}

	memories = memory.Dedupe(memories)
	fmt.Printf("Found %d relevant memories\n", len(memories))
	return memories
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
