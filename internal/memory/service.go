package memory

import (
	"context"
	"fmt"
	"strings"
)

// Service is the memory surface the CI tools talk to: text in, text out.
// It owns embedding (required) and learning extraction (optional) and
// delegates persistence and ranking to a Store.
type Service struct {
	store     Store
	embedder  Embedder
	extractor Extractor
}

// NewService creates a memory service. The embedder is required; the
// extractor may be nil, in which case raw transcripts are stored.
func NewService(store Store, embedder Embedder, extractor Extractor) *Service {
	return &Service{store: store, embedder: embedder, extractor: extractor}
}

// Search embeds the query and returns the most similar stored memories
// for the user, at most limit entries.
func (s *Service) Search(ctx context.Context, query, userID string, limit int) ([]Result, error) {
	vec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	results, err := s.store.Search(ctx, vec, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search memories: %w", err)
	}
	return results, nil
}

// Add stores one memory distilled from a message exchange. When an
// extractor is configured it condenses the exchange first; extraction
// failure falls back to the raw transcript rather than losing the memory.
func (s *Service) Add(ctx context.Context, msgs []Message, userID string, metadata map[string]string) error {
	if len(msgs) == 0 {
		return nil
	}

	text := joinMessages(msgs)
	if s.extractor != nil {
		extracted, err := s.extractor.Extract(ctx, msgs)
		if err == nil && strings.TrimSpace(extracted) != "" {
			text = extracted
		}
	}

	vec, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return fmt.Errorf("failed to embed memory: %w", err)
	}

	if err := s.store.Save(ctx, text, userID, metadata, vec); err != nil {
		return fmt.Errorf("failed to save memory: %w", err)
	}
	return nil
}

// Close releases the underlying store.
func (s *Service) Close() error {
	return s.store.Close()
}

func joinMessages(msgs []Message) string {
	parts := make([]string, 0, len(msgs))
	for _, m := range msgs {
		parts = append(parts, m.Role+": "+m.Content)
	}
	return strings.Join(parts, "\n")
}
