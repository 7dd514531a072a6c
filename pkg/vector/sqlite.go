// Package vector stores documents with their embeddings in SQLite and
// serves similarity search over them via the sqlite-vec extension.
package vector

import (
	"database/sql"
	"fmt"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// Open opens the document database at path, creating the schema when
// missing. dims is the embedding width and must match the embedder in use.
// If logger is provided, logs database operations; otherwise operates
// silently.
func Open(path string, dims int, logger *zap.SugaredLogger) (*sql.DB, error) {
	// Registers vec0 on every connection opened after this call.
	sqlite_vec.Auto()

	if logger != nil {
		logger.Debugw("Opening vector database", "path", path, "dims", dims)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("vector: failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("vector: failed to enable WAL mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("vector: failed to enable foreign keys: %w", err)
	}

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("vector: failed to set busy timeout: %w", err)
	}

	schema := `
		CREATE TABLE IF NOT EXISTS documents (
			id TEXT PRIMARY KEY,
			text TEXT NOT NULL,
			metadata TEXT,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("vector: failed to create documents table: %w", err)
	}

	vecSchema := fmt.Sprintf(`
		CREATE VIRTUAL TABLE IF NOT EXISTS vec_documents USING vec0(
			document_id TEXT PRIMARY KEY,
			embedding FLOAT[%d]
		)
	`, dims)
	if _, err := db.Exec(vecSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("vector: failed to create vec_documents table: %w", err)
	}

	if logger != nil {
		logger.Infow("Vector database opened",
			"path", path,
			"dims", dims,
			"wal_mode", true,
		)
	}

	return db, nil
}
