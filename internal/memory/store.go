package memory

import "context"

// Store defines the contract for the vector storage layer. Service sits
// on top and owns embedding and extraction; stores only persist and rank.
type Store interface {
	// Search returns the stored memories for userID most similar to the
	// query vector, best first, at most limit entries.
	Search(ctx context.Context, queryVector []float32, userID string, limit int) ([]Result, error)

	// Save persists one memory text with its embedding and metadata.
	Save(ctx context.Context, memory, userID string, metadata map[string]string, vector []float32) error

	// Close releases any resources held by the store.
	Close() error
}

// Embedder generates text embeddings for storage and search.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Extractor condenses a message exchange into a single memory text.
// It is optional; without one the raw transcript is stored.
type Extractor interface {
	Extract(ctx context.Context, msgs []Message) (string, error)
}
