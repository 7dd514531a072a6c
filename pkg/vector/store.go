package vector

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/weftlabs/weft/pkg/llm"
)

// Document is one indexed text with optional metadata.
type Document struct {
	ID       string
	Text     string
	Metadata map[string]string
}

// Result is a search hit. Similarity is 1 - distance/2, clamped at zero;
// for normalized embeddings the L2 distance ranges from 0 to 2.
type Result struct {
	Document
	Distance   float32
	Similarity float32
}

// Store indexes documents with their embeddings and answers similarity
// queries.
type Store struct {
	db       *sql.DB
	embedder llm.Embedder
	logger   *zap.Logger
}

// NewStore creates a store over an Open'd database.
func NewStore(db *sql.DB, embedder llm.Embedder, logger *zap.Logger) *Store {
	return &Store{
		db:       db,
		embedder: embedder,
		logger:   logger,
	}
}

// Add embeds and upserts docs, returning their ids. Documents without an ID
// get a generated one.
func (s *Store) Add(ctx context.Context, docs []Document) ([]string, error) {
	if len(docs) == 0 {
		return nil, nil
	}

	texts := make([]string, len(docs))
	for i, doc := range docs {
		if doc.Text == "" {
			return nil, fmt.Errorf("vector: document %d has empty text", i)
		}
		texts[i] = doc.Text
	}

	vectors, err := s.embedder.Embed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("vector: failed to embed documents: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("vector: failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	docStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO documents (id, text, metadata, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			text = excluded.text,
			metadata = excluded.metadata,
			updated_at = excluded.updated_at
	`)
	if err != nil {
		return nil, fmt.Errorf("vector: failed to prepare documents upsert: %w", err)
	}
	defer docStmt.Close()

	// Virtual tables don't support UPSERT, so delete then insert.
	delVecStmt, err := tx.PrepareContext(ctx, `DELETE FROM vec_documents WHERE document_id = ?`)
	if err != nil {
		return nil, fmt.Errorf("vector: failed to prepare vec_documents delete: %w", err)
	}
	defer delVecStmt.Close()

	insVecStmt, err := tx.PrepareContext(ctx, `INSERT INTO vec_documents (document_id, embedding) VALUES (?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("vector: failed to prepare vec_documents insert: %w", err)
	}
	defer insVecStmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	ids := make([]string, len(docs))
	for i, doc := range docs {
		if doc.ID == "" {
			doc.ID = uuid.New().String()
		}
		ids[i] = doc.ID

		metadata, err := marshalMetadata(doc.Metadata)
		if err != nil {
			return nil, fmt.Errorf("vector: failed to marshal metadata for %s: %w", doc.ID, err)
		}

		if _, err := docStmt.ExecContext(ctx, doc.ID, doc.Text, metadata, now, now); err != nil {
			return nil, fmt.Errorf("vector: failed to upsert document %s: %w", doc.ID, err)
		}

		blob, err := sqlite_vec.SerializeFloat32(vectors[i])
		if err != nil {
			return nil, fmt.Errorf("vector: failed to serialize embedding for %s: %w", doc.ID, err)
		}

		if _, err := delVecStmt.ExecContext(ctx, doc.ID); err != nil {
			return nil, fmt.Errorf("vector: failed to clear embedding for %s: %w", doc.ID, err)
		}
		if _, err := insVecStmt.ExecContext(ctx, doc.ID, blob); err != nil {
			return nil, fmt.Errorf("vector: failed to insert embedding for %s: %w", doc.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("vector: failed to commit add: %w", err)
	}

	s.logger.Debug("added documents",
		zap.Int("count", len(docs)))

	return ids, nil
}

// Search embeds query and returns the closest documents in similarity
// order.
func (s *Store) Search(ctx context.Context, query string, opts ...SearchOption) ([]Result, error) {
	if query == "" {
		return nil, fmt.Errorf("vector: query is empty")
	}
	conf := applySearchOptions(opts)

	vectors, err := s.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("vector: failed to embed query: %w", err)
	}
	blob, err := sqlite_vec.SerializeFloat32(vectors[0])
	if err != nil {
		return nil, fmt.Errorf("vector: failed to serialize query embedding: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT
			v.document_id,
			d.text,
			d.metadata,
			vec_distance_L2(v.embedding, ?) AS distance
		FROM vec_documents v
		JOIN documents d ON v.document_id = d.id
		ORDER BY distance
		LIMIT ?
	`, blob, conf.limit)
	if err != nil {
		return nil, fmt.Errorf("vector: search failed (limit=%d): %w", conf.limit, err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var (
			result   Result
			metadata sql.NullString
		)
		if err := rows.Scan(&result.ID, &result.Text, &metadata, &result.Distance); err != nil {
			return nil, fmt.Errorf("vector: failed to scan search result: %w", err)
		}
		if metadata.Valid && metadata.String != "" {
			if err := json.Unmarshal([]byte(metadata.String), &result.Metadata); err != nil {
				return nil, fmt.Errorf("vector: bad metadata for %s: %w", result.ID, err)
			}
		}

		result.Similarity = similarity(result.Distance)
		if result.Similarity >= conf.threshold {
			results = append(results, result)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("vector: failed to iterate search results: %w", err)
	}

	s.logger.Debug("search completed",
		zap.Int("results", len(results)),
		zap.Int("limit", conf.limit),
		zap.Float32("threshold", conf.threshold))

	return results, nil
}

// Delete removes documents and their embeddings.
func (s *Store) Delete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("vector: failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, id := range ids {
		if _, err := tx.ExecContext(ctx, `DELETE FROM vec_documents WHERE document_id = ?`, id); err != nil {
			return fmt.Errorf("vector: failed to delete embedding %s: %w", id, err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id); err != nil {
			return fmt.Errorf("vector: failed to delete document %s: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("vector: failed to commit delete: %w", err)
	}

	s.logger.Debug("deleted documents",
		zap.Int("count", len(ids)))

	return nil
}

// Count reports the number of indexed documents.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&count); err != nil {
		return 0, fmt.Errorf("vector: failed to count documents: %w", err)
	}
	return count, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func similarity(distance float32) float32 {
	s := 1.0 - distance/2.0
	if s < 0 {
		return 0
	}
	return s
}

func marshalMetadata(metadata map[string]string) (sql.NullString, error) {
	if len(metadata) == 0 {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(metadata)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}
