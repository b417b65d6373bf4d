package memory

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using SQLite. Embeddings are stored as
// binary blobs and similarity is computed in application memory with
// cosine similarity, which is fine for the few thousand memories a CI
// pipeline accumulates.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLiteStore at the given database path.
// The path should be a file path (e.g., "/tmp/goose-memory.db") or
// ":memory:" for an in-memory database. It verifies connectivity with a
// ping before returning.
func NewSQLiteStore(ctx context.Context, dbPath string) (*SQLiteStore, error) {
	// WAL mode so concurrent retrieve/save CLI invocations don't block.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// InitSchema creates the memories table if it does not exist. Call this
// after creating a new SQLiteStore; a fresh database file starts empty.
func (s *SQLiteStore) InitSchema(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS memories (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id TEXT NOT NULL,
			memory TEXT NOT NULL,
			metadata TEXT,
			embedding BLOB,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP
		);

		CREATE INDEX IF NOT EXISTS idx_memories_user ON memories(user_id);
	`

	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

// resultWithScore is an internal type for sorting results by similarity.
type resultWithScore struct {
	Result
	score float32
}

// Search loads all embeddings for the user and ranks them by cosine
// similarity in the application layer, returning the top limit results.
func (s *SQLiteStore) Search(ctx context.Context, queryVector []float32, userID string, limit int) ([]Result, error) {
	query := `
		SELECT id, memory, metadata, embedding, created_at
		FROM memories
		WHERE user_id = ? AND embedding IS NOT NULL
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query memories: %w", err)
	}
	defer rows.Close()

	var scored []resultWithScore
	for rows.Next() {
		var res Result
		var metaJSON sql.NullString
		var embeddingBlob []byte
		var createdAtStr string
		err := rows.Scan(&res.ID, &res.Memory, &metaJSON, &embeddingBlob, &createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("failed to scan memory: %w", err)
		}

		if metaJSON.Valid && metaJSON.String != "" {
			if err := json.Unmarshal([]byte(metaJSON.String), &res.Metadata); err != nil {
				return nil, fmt.Errorf("failed to decode metadata: %w", err)
			}
		}
		res.CreatedAt, _ = parseTimestamp(createdAtStr)

		storedVector := decodeVector(embeddingBlob)
		if len(storedVector) > 0 && len(storedVector) == len(queryVector) {
			similarity := cosineSimilarity(queryVector, storedVector)
			res.Score = similarity
			scored = append(scored, resultWithScore{Result: res, score: similarity})
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating memories: %w", err)
	}

	sort.Slice(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	topK := min(limit, len(scored))
	results := make([]Result, topK)
	for i := range topK {
		results[i] = scored[i].Result
	}

	return results, nil
}

// Save stores one memory with its embedding and metadata.
func (s *SQLiteStore) Save(ctx context.Context, memory, userID string, metadata map[string]string, vector []float32) error {
	metaJSON, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}

	query := `
		INSERT INTO memories (user_id, memory, metadata, embedding)
		VALUES (?, ?, ?, ?)
	`

	if _, err := s.db.ExecContext(ctx, query, userID, memory, string(metaJSON), encodeVector(vector)); err != nil {
		return fmt.Errorf("failed to save memory: %w", err)
	}
	return nil
}

// Close releases the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// encodeVector converts a float32 slice to a byte slice for storage.
// Each float32 is encoded as 4 bytes in little-endian format.
func encodeVector(v []float32) []byte {
	if v == nil {
		return nil
	}
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// decodeVector converts a byte slice back to a float32 slice.
func decodeVector(b []byte) []float32 {
	if len(b) == 0 || len(b)%4 != 0 {
		return nil
	}
	v := make([]float32, len(b)/4)
	for i := range v {
		bits := binary.LittleEndian.Uint32(b[i*4:])
		v[i] = math.Float32frombits(bits)
	}
	return v
}

// cosineSimilarity calculates the cosine similarity between two vectors.
// The result is in range [-1, 1]; for normalized embeddings this equals
// the dot product.
func cosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float32
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (float32(math.Sqrt(float64(normA))) * float32(math.Sqrt(float64(normB))))
}

// parseTimestamp parses a SQLite timestamp string to time.Time.
// SQLite stores timestamps as TEXT in ISO8601/RFC3339-like formats.
func parseTimestamp(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05.000",
		"2006-01-02T15:04:05.000",
	}

	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse timestamp: %s", s)
}

var _ Store = (*SQLiteStore)(nil)
