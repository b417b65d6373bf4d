// Package llm provides wrapper clients for the model services the memory
// tools depend on: embedding generation and learning extraction.
package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/wgmesh/ci-tools/internal/memory"
)

// embeddingModel must match the dimension the stores were created with.
const embeddingModel = "text-embedding-004"

// GenAIEmbedder generates text embeddings with the Google GenAI API.
type GenAIEmbedder struct {
	client *genai.Client
}

// NewGenAIEmbedder creates an embedder with the given API key.
func NewGenAIEmbedder(ctx context.Context, apiKey string) (*GenAIEmbedder, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &GenAIEmbedder{client: client}, nil
}

// Embed generates an embedding vector for the given text.
func (e *GenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.client.Models.EmbedContent(ctx, embeddingModel, genai.Text(text), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to embed content: %w", err)
	}
	if len(resp.Embeddings) == 0 {
		return nil, fmt.Errorf("no embedding returned")
	}
	return resp.Embeddings[0].Values, nil
}

var _ memory.Embedder = (*GenAIEmbedder)(nil)
