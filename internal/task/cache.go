package task

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/iscc/twinspect/internal/dataset"
)

// Cache persists task results, per-file content hashes and DatasetInfo
// records in a SQLite database. All entries are derived artifacts: dropping
// the database is always safe, it only costs recomputation.
type Cache struct {
	db *sql.DB
}

// OpenCache opens (and if necessary initializes) a cache database at path.
// Use ":memory:" for an ephemeral cache.
func OpenCache(path string) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	// SQLite doesn't support concurrent writes
	db.SetMaxOpenConns(1)

	for _, ddl := range []string{
		`CREATE TABLE IF NOT EXISTS tasks (
  fingerprint TEXT PRIMARY KEY,
  algorithm TEXT NOT NULL,
  file TEXT NOT NULL,
  code TEXT NOT NULL,
  size INTEGER NOT NULL,
  time_ms INTEGER NOT NULL
)`,
		`CREATE TABLE IF NOT EXISTS file_hashes (
  rel_path TEXT NOT NULL,
  size INTEGER NOT NULL,
  mtime INTEGER NOT NULL,
  hash TEXT NOT NULL,
  PRIMARY KEY (rel_path, size, mtime)
)`,
		`CREATE TABLE IF NOT EXISTS dataset_info (
  checksum TEXT PRIMARY KEY,
  info TEXT NOT NULL
)`,
	} {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return nil, fmt.Errorf("initializing cache schema: %w", err)
		}
	}

	return &Cache{db: db}, nil
}

// Close releases the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// GetTask returns the cached result for a fingerprint, if present. Only
// successful results are ever cached.
func (c *Cache) GetTask(fingerprint string) (*Task, bool, error) {
	var t Task
	err := c.db.QueryRow(
		`SELECT file, code, size, time_ms FROM tasks WHERE fingerprint = ?`,
		fingerprint,
	).Scan(&t.File, &t.Code, &t.Size, &t.TimeMS)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading task cache: %w", err)
	}
	return &t, true, nil
}

// PutTask stores a successful task result. Writes are idempotent: a
// fingerprint always maps to the same result, so replacing is harmless.
func (c *Cache) PutTask(fingerprint, algorithmLabel string, t *Task) error {
	if t.Failed() {
		return fmt.Errorf("refusing to cache failed task %d (%s)", t.ID, t.File)
	}
	_, err := c.db.Exec(
		`INSERT OR REPLACE INTO tasks (fingerprint, algorithm, file, code, size, time_ms)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		fingerprint, algorithmLabel, t.File, t.Code, t.Size, t.TimeMS,
	)
	if err != nil {
		return fmt.Errorf("writing task cache: %w", err)
	}
	return nil
}

// InvalidateAlgorithm drops all cached task results for an algorithm label.
func (c *Cache) InvalidateAlgorithm(algorithmLabel string) error {
	_, err := c.db.Exec(`DELETE FROM tasks WHERE algorithm = ?`, algorithmLabel)
	if err != nil {
		return fmt.Errorf("invalidating task cache: %w", err)
	}
	return nil
}

// GetFileHash implements dataset.HashCache.
func (c *Cache) GetFileHash(relPath string, size, mtimeUnixNano int64) (string, bool) {
	var hash string
	err := c.db.QueryRow(
		`SELECT hash FROM file_hashes WHERE rel_path = ? AND size = ? AND mtime = ?`,
		relPath, size, mtimeUnixNano,
	).Scan(&hash)
	if err != nil {
		return "", false
	}
	return hash, true
}

// PutFileHash implements dataset.HashCache. Write failures are tolerated,
// they only cost a rehash on the next scan.
func (c *Cache) PutFileHash(relPath string, size, mtimeUnixNano int64, hexHash string) {
	c.db.Exec(
		`INSERT OR REPLACE INTO file_hashes (rel_path, size, mtime, hash) VALUES (?, ?, ?, ?)`,
		relPath, size, mtimeUnixNano, hexHash,
	)
}

// GetDatasetInfo returns a cached DatasetInfo keyed by dataset checksum.
func (c *Cache) GetDatasetInfo(checksum string) (*dataset.DatasetInfo, bool, error) {
	var raw string
	err := c.db.QueryRow(
		`SELECT info FROM dataset_info WHERE checksum = ?`, checksum,
	).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading dataset info cache: %w", err)
	}

	var info dataset.DatasetInfo
	if err := json.Unmarshal([]byte(raw), &info); err != nil {
		return nil, false, fmt.Errorf("decoding cached dataset info: %w", err)
	}
	return &info, true, nil
}

// PutDatasetInfo caches a DatasetInfo keyed by its checksum.
func (c *Cache) PutDatasetInfo(info *dataset.DatasetInfo) error {
	raw, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("encoding dataset info: %w", err)
	}
	if _, err := c.db.Exec(
		`INSERT OR REPLACE INTO dataset_info (checksum, info) VALUES (?, ?)`,
		info.Checksum, string(raw),
	); err != nil {
		return fmt.Errorf("writing dataset info cache: %w", err)
	}
	return nil
}

var _ dataset.HashCache = (*Cache)(nil)
