// Package memory provides long-term memory storage for the Goose CI
// pipeline: lessons from past implementation runs, stored with vector
// embeddings and retrieved by semantic similarity.
package memory

import "time"

// Message is one turn of the exchange a memory is distilled from.
type Message struct {
	Role    string
	Content string
}

// Result is one stored memory returned from a similarity search.
type Result struct {
	ID        int
	Memory    string
	Score     float32
	Metadata  map[string]string
	CreatedAt time.Time
}
