package dataset

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"

	_ "modernc.org/sqlite"

	"promptdex/internal/record"
)

// DatabaseFile is the master collection file inside a published dataset.
const DatabaseFile = "dataset.db"

// Store wraps the SQLite database holding the master record collection.
type Store struct {
	db   *sql.DB
	path string
}

const schema = `
CREATE TABLE IF NOT EXISTS prompt_records (
	id INTEGER PRIMARY KEY,
	text TEXT NOT NULL,
	category TEXT NOT NULL,
	model TEXT NOT NULL,
	output_type TEXT NOT NULL,
	tags_json TEXT NOT NULL DEFAULT '[]',
	source TEXT NOT NULL,
	fingerprint TEXT NOT NULL UNIQUE
);
CREATE INDEX IF NOT EXISTS idx_prompt_records_category ON prompt_records(category);
`

func openDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}
	return db, nil
}

// Create initializes a fresh collection database at path.
func Create(path string) (*Store, error) {
	db, err := openDB(path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// Open connects to an existing collection database for reading.
func Open(path string) (*Store, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNoDataset, path)
		}
		return nil, fmt.Errorf("stat database: %w", err)
	}
	db, err := openDB(path)
	if err != nil {
		return nil, err
	}
	return &Store{db: db, path: path}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// InsertRecords writes the full record set in one transaction. Every record
// must already carry a positive identifier and pass validation.
func (s *Store) InsertRecords(ctx context.Context, records []record.PromptRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin insert: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO prompt_records (id, text, category, model, output_type, tags_json, source, fingerprint)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		if rec.ID <= 0 {
			return fmt.Errorf("record %q has no identifier", rec.Fingerprint)
		}
		if err := rec.Validate(); err != nil {
			return fmt.Errorf("record %d: %w", rec.ID, err)
		}
		tags, err := json.Marshal(tagsOrEmpty(rec.Tags))
		if err != nil {
			return fmt.Errorf("encode tags for record %d: %w", rec.ID, err)
		}
		if _, err := stmt.ExecContext(ctx,
			rec.ID, rec.Text, string(rec.Category), rec.Model.String(),
			string(rec.OutputType), string(tags), rec.Source, rec.Fingerprint); err != nil {
			return fmt.Errorf("insert record %d: %w", rec.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit insert: %w", err)
	}
	return nil
}

// LoadAll reads the full collection back in identifier order.
func (s *Store) LoadAll(ctx context.Context) ([]record.PromptRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, text, category, model, output_type, tags_json, source, fingerprint
		FROM prompt_records ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var records []record.PromptRecord
	for rows.Next() {
		var (
			rec      record.PromptRecord
			category string
			model    string
			output   string
			tagsJSON string
		)
		if err := rows.Scan(&rec.ID, &rec.Text, &category, &model, &output, &tagsJSON, &rec.Source, &rec.Fingerprint); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		cat, ok := record.ParseCategory(category)
		if !ok {
			return nil, fmt.Errorf("record %d: unknown category %q", rec.ID, category)
		}
		rec.Category = cat

		ref, ok := record.ParseModel(model)
		if !ok {
			return nil, fmt.Errorf("record %d: unknown model %q", rec.ID, model)
		}
		rec.Model = ref

		out, ok := record.ParseOutputType(output)
		if !ok {
			return nil, fmt.Errorf("record %d: unknown output type %q", rec.ID, output)
		}
		rec.OutputType = out

		if err := json.Unmarshal([]byte(tagsJSON), &rec.Tags); err != nil {
			return nil, fmt.Errorf("record %d: decode tags: %w", rec.ID, err)
		}
		if len(rec.Tags) == 0 {
			rec.Tags = nil
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return records, nil
}

func tagsOrEmpty(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
