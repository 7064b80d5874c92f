// Package history records completed builds in a local SQLite database so
// `convoplay history` can show what was generated, from where, and when.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const timeLayout = "2006-01-02T15:04:05Z07:00"

type Build struct {
	BuildID    string
	SourcePath string
	OutputPath string
	Scenarios  int
	Steps      int
	Bytes      int64
	DurationMS int64
	CreatedTS  time.Time
}

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) EnsureSchema(ctx context.Context) error {
	stmt := `CREATE TABLE IF NOT EXISTS builds (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		build_id TEXT NOT NULL,
		source_path TEXT NOT NULL,
		output_path TEXT NOT NULL,
		scenarios INTEGER NOT NULL,
		steps INTEGER NOT NULL,
		bytes INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		created_ts TEXT NOT NULL
	);`
	if _, err := s.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (s *SQLiteStore) RecordBuild(ctx context.Context, b Build) error {
	created := b.CreatedTS
	if created.IsZero() {
		created = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO builds(build_id, source_path, output_path, scenarios, steps, bytes, duration_ms, created_ts)
		 VALUES(?,?,?,?,?,?,?,?)`,
		b.BuildID, b.SourcePath, b.OutputPath, b.Scenarios, b.Steps, b.Bytes, b.DurationMS,
		created.UTC().Format(timeLayout),
	)
	return err
}

func (s *SQLiteStore) RecentBuilds(ctx context.Context, limit int) ([]Build, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT build_id, source_path, output_path, scenarios, steps, bytes, duration_ms, created_ts
		FROM builds
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]Build, 0, limit)
	for rows.Next() {
		var (
			b          Build
			createdRaw string
		)
		if err := rows.Scan(&b.BuildID, &b.SourcePath, &b.OutputPath, &b.Scenarios, &b.Steps, &b.Bytes, &b.DurationMS, &createdRaw); err != nil {
			return nil, err
		}
		if t, err := time.Parse(timeLayout, createdRaw); err == nil {
			b.CreatedTS = t
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
