package store

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

// compressThreshold is the value size from which values are stored zstd
// compressed.
const compressThreshold = 1024

// SQLite is a Store backed by a single sqlite database file.
type SQLite struct {
	db      *sql.DB
	encoder *zstd.Encoder
	decoder *zstd.Decoder
	logger  *zap.Logger
}

var _ Store = (*SQLite)(nil)

// OpenSQLite opens (creating if needed) the database at path and applies
// pending migrations.
func OpenSQLite(ctx context.Context, path string, logger *zap.Logger) (*SQLite, error) {
	if path == "" {
		return nil, errors.New("sqlite path is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// sqlite allows one writer; a single connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := migrate(ctx, db, logger); err != nil {
		db.Close()
		return nil, err
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		db.Close()
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	logger.Info("sqlite store opened", zap.String("path", path))
	return &SQLite{db: db, encoder: enc, decoder: dec, logger: logger}, nil
}

func migrate(ctx context.Context, db *sql.DB, logger *zap.Logger) error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(gooseLogger{logger.Sugar()})
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("configure goose: %w", err)
	}

	runCtx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	if err := goose.UpContext(runCtx, db, "migrations"); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// gooseLogger routes goose output to zap.
type gooseLogger struct {
	s *zap.SugaredLogger
}

func (l gooseLogger) Fatalf(format string, v ...any) { l.s.Fatalf(format, v...) }
func (l gooseLogger) Printf(format string, v ...any) { l.s.Debugf(format, v...) }

func (s *SQLite) encode(value []byte) ([]byte, bool) {
	if len(value) < compressThreshold {
		return value, false
	}
	return s.encoder.EncodeAll(value, make([]byte, 0, len(value)/2)), true
}

func (s *SQLite) decode(raw []byte, compressed bool) ([]byte, error) {
	if !compressed {
		return raw, nil
	}
	out, err := s.decoder.DecodeAll(raw, nil)
	if err != nil {
		return nil, fmt.Errorf("decompress value: %w", err)
	}
	return out, nil
}

func (s *SQLite) Get(ctx context.Context, namespace, key string) ([]byte, bool, error) {
	var (
		raw        []byte
		compressed bool
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT value, compressed FROM kv WHERE namespace = ? AND key = ?`,
		namespace, key,
	).Scan(&raw, &compressed)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %s/%s: %w", namespace, key, err)
	}
	value, err := s.decode(raw, compressed)
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (s *SQLite) Set(ctx context.Context, namespace, key string, value []byte) error {
	stored, compressed := s.encode(value)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv (namespace, key, value, compressed, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (namespace, key) DO UPDATE SET
		   value = excluded.value,
		   compressed = excluded.compressed,
		   updated_at = excluded.updated_at`,
		namespace, key, stored, compressed, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("set %s/%s: %w", namespace, key, err)
	}
	return nil
}

func (s *SQLite) Delete(ctx context.Context, namespace, key string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM kv WHERE namespace = ? AND key = ?`, namespace, key,
	); err != nil {
		return fmt.Errorf("delete %s/%s: %w", namespace, key, err)
	}
	return nil
}

func (s *SQLite) List(ctx context.Context, namespace string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key FROM kv WHERE namespace = ? ORDER BY key`, namespace)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", namespace, err)
	}
	defer rows.Close()

	keys := []string{}
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("list %s: %w", namespace, err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

func (s *SQLite) Snapshot(ctx context.Context) (map[string]map[string]json.RawMessage, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT namespace, key, value, compressed FROM kv`)
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	defer rows.Close()

	out := make(map[string]map[string]json.RawMessage)
	for rows.Next() {
		var (
			namespace, key string
			raw            []byte
			compressed     bool
		)
		if err := rows.Scan(&namespace, &key, &raw, &compressed); err != nil {
			return nil, fmt.Errorf("snapshot: %w", err)
		}
		value, err := s.decode(raw, compressed)
		if err != nil {
			return nil, err
		}
		if out[namespace] == nil {
			out[namespace] = make(map[string]json.RawMessage)
		}
		out[namespace][key] = value
	}
	return out, rows.Err()
}

func (s *SQLite) Reset(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv`); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	return nil
}

func (s *SQLite) Close() error {
	s.decoder.Close()
	if err := s.encoder.Close(); err != nil {
		s.logger.Warn("failed to close zstd encoder", zap.Error(err))
	}
	return s.db.Close()
}
