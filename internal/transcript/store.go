// Package transcript archives finished chat turns in Postgres with a pgvector
// embedding per message, so earlier exchanges can be recalled by similarity.
package transcript

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/pgvector/pgvector-go"

	"llmbox/internal/chat"
)

// Entry is one archived message.
type Entry struct {
	ID        string
	SessionID string
	Index     int // position in the session's conversation
	Role      chat.Role
	Text      string
	Provider  string
	Model     string
	Embedding []float32
	CreatedAt time.Time
}

// Hit is a search result with its cosine similarity to the query.
type Hit struct {
	Entry
	Similarity float64
}

// Store handles transcript database operations.
type Store struct {
	db *sql.DB
}

// Open connects to dsn and creates the schema if needed.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &Store{db: db}
	if err := s.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return s, nil
}

func (s *Store) initSchema(ctx context.Context) error {
	queries := []string{
		`CREATE EXTENSION IF NOT EXISTS vector;`,

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS transcripts (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			turn INTEGER NOT NULL,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			provider TEXT NOT NULL DEFAULT '',
			model TEXT NOT NULL DEFAULT '',
			embedding vector(%d),
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);`, Dimensions),

		`CREATE INDEX IF NOT EXISTS transcripts_session_idx ON transcripts (session_id, turn);`,

		`CREATE INDEX IF NOT EXISTS transcripts_embedding_idx ON transcripts
		 USING hnsw (embedding vector_cosine_ops);`,
	}

	for _, q := range queries {
		if _, err := s.db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("execute query: %w", err)
		}
	}
	return nil
}

// Save stores e and returns its id, generating one when e.ID is empty.
func (s *Store) Save(ctx context.Context, e Entry) (string, error) {
	if !e.Role.Valid() {
		return "", fmt.Errorf("save entry: %w: %s", chat.ErrUnsupportedRole, e.Role)
	}
	if e.SessionID == "" {
		return "", errors.New("save entry: session id is required")
	}
	if e.ID == "" {
		e.ID = uuid.New().String()
	}

	vec, err := embeddingArg(e.Embedding)
	if err != nil {
		return "", fmt.Errorf("save entry: %w", err)
	}

	query := `
		INSERT INTO transcripts (id, session_id, turn, role, content, provider, model, embedding)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			content = EXCLUDED.content,
			embedding = EXCLUDED.embedding
	`
	_, err = s.db.ExecContext(ctx, query,
		e.ID, e.SessionID, e.Index, e.Role.Label(), e.Text, e.Provider, e.Model, vec)
	if err != nil {
		return "", fmt.Errorf("store entry: %w", err)
	}
	return e.ID, nil
}

// Search returns up to k entries ordered by cosine similarity to embedding.
func (s *Store) Search(ctx context.Context, embedding []float32, k int) ([]Hit, error) {
	// A zero vector has no cosine distance to anything.
	if k <= 0 || isZero(embedding) {
		return []Hit{}, nil
	}
	vec := pgvector.NewVector(embedding)

	query := `
		SELECT id, session_id, turn, role, content, provider, model, created_at,
		       1 - (embedding <=> $1) AS similarity
		FROM transcripts
		WHERE embedding IS NOT NULL
		ORDER BY embedding <=> $1
		LIMIT $2
	`
	rows, err := s.db.QueryContext(ctx, query, vec, k)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	defer rows.Close()

	hits := []Hit{}
	for rows.Next() {
		var (
			h    Hit
			role string
		)
		if err := rows.Scan(&h.ID, &h.SessionID, &h.Index, &role, &h.Text,
			&h.Provider, &h.Model, &h.CreatedAt, &h.Similarity); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		if h.Role, err = chat.ParseRole(role); err != nil {
			return nil, fmt.Errorf("entry %s: %w", h.ID, err)
		}
		hits = append(hits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	return hits, nil
}

// embeddingArg returns the query argument for an embedding column: NULL for
// an empty or all-zero vector, since cosine distance to it is undefined.
func embeddingArg(v []float32) (any, error) {
	if len(v) == 0 {
		return nil, nil
	}
	if len(v) != Dimensions {
		return nil, fmt.Errorf("embedding has %d dimensions, want %d", len(v), Dimensions)
	}
	if isZero(v) {
		return nil, nil
	}
	return pgvector.NewVector(v), nil
}

func isZero(v []float32) bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}

// Count returns the number of archived entries.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM transcripts").Scan(&n); err != nil {
		return 0, fmt.Errorf("count entries: %w", err)
	}
	return n, nil
}

// DeleteSession removes every entry of a session.
func (s *Store) DeleteSession(ctx context.Context, sessionID string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM transcripts WHERE session_id = $1", sessionID); err != nil {
		return fmt.Errorf("delete session %s: %w", sessionID, err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
