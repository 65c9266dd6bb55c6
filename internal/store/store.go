// Package store persists raw entity snapshots in sqlite so entities can be
// rebuilt without a bridge round trip.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	apperrors "whatsweb/internal/errors"
	"whatsweb/internal/metrics"
	"whatsweb/internal/security"
)

//go:embed schema.sql
var schema string

// Store is a sqlite-backed snapshot cache keyed by entity kind and id.
type Store struct {
	db        *sql.DB
	encryptor *encryptor
	logger    *logrus.Logger
	metrics   *metrics.Registry
}

type options struct {
	secret  string
	logger  *logrus.Logger
	metrics *metrics.Registry
}

// Option configures a Store.
type Option func(*options)

// WithEncryptionSecret enables field encryption. The secret must be at least
// 32 characters.
func WithEncryptionSecret(secret string) Option {
	return func(o *options) { o.secret = secret }
}

func WithLogger(logger *logrus.Logger) Option {
	return func(o *options) { o.logger = logger }
}

func WithMetrics(registry *metrics.Registry) Option {
	return func(o *options) { o.metrics = registry }
}

// New opens (creating when needed) the database at dbPath and applies the
// schema.
func New(dbPath string, opts ...Option) (*Store, error) {
	o := options{logger: logrus.StandardLogger(), metrics: metrics.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	if err := security.ValidateFilePath(dbPath); err != nil {
		return nil, apperrors.NewConfigError("store.path", err.Error())
	}

	enc, err := newEncryptor(o.secret)
	if err != nil {
		return nil, apperrors.NewConfigError("store.encryption_secret", err.Error())
	}

	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, apperrors.NewStoreError("create directory", err)
		}
	}
	file, err := os.OpenFile(dbPath, os.O_RDWR|os.O_CREATE, 0o600) // #nosec G304 - path validated above
	if err != nil {
		return nil, apperrors.NewStoreError("create file", err)
	}
	if err := file.Close(); err != nil {
		return nil, apperrors.NewStoreError("create file", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_busy_timeout=5000")
	if err != nil {
		return nil, apperrors.NewStoreError("open", err)
	}
	if err := db.Ping(); err != nil {
		return nil, closeOnError(db, apperrors.NewStoreError("ping", err))
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, closeOnError(db, apperrors.NewStoreError("initialize schema", err))
	}

	o.logger.WithFields(logrus.Fields{
		"path":      dbPath,
		"encrypted": enc.enabled(),
	}).Info("Snapshot store opened")

	return &Store{db: db, encryptor: enc, logger: o.logger, metrics: o.metrics}, nil
}

func closeOnError(db *sql.DB, err error) error {
	if closeErr := db.Close(); closeErr != nil {
		return fmt.Errorf("%w (close error: %v)", err, closeErr)
	}
	return err
}

// SaveSnapshot upserts the payload stored under (kind, id).
func (s *Store) SaveSnapshot(ctx context.Context, kind, id string, payload []byte) error {
	if err := validateKey(kind, id); err != nil {
		return err
	}

	sealed, err := s.encryptor.seal(payload)
	if err != nil {
		return apperrors.NewStoreError("encrypt payload", err)
	}
	lookupID := s.encryptor.sealForLookup(id)

	err = s.withRetry(ctx, "save snapshot", func() error {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO snapshots (kind, entity_id, payload, updated_at)
			VALUES (?, ?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT(kind, entity_id) DO UPDATE SET
				payload = excluded.payload,
				updated_at = CURRENT_TIMESTAMP`,
			kind, lookupID, sealed)
		return err
	})
	if err != nil {
		return apperrors.NewStoreError("save snapshot", err).WithContext("kind", kind)
	}

	s.metrics.Inc(metrics.SnapshotsWritten, map[string]string{"kind": kind})
	s.logger.WithField("kind", kind).Debug("Snapshot saved")
	return nil
}

// LoadSnapshot returns the payload stored under (kind, id), or nil when none
// exists.
func (s *Store) LoadSnapshot(ctx context.Context, kind, id string) ([]byte, error) {
	if err := validateKey(kind, id); err != nil {
		return nil, err
	}

	var sealed []byte
	err := s.withRetry(ctx, "load snapshot", func() error {
		return s.db.QueryRowContext(ctx,
			`SELECT payload FROM snapshots WHERE kind = ? AND entity_id = ?`,
			kind, s.encryptor.sealForLookup(id)).Scan(&sealed)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewStoreError("load snapshot", err).WithContext("kind", kind)
	}

	payload, err := s.encryptor.open(sealed)
	if err != nil {
		return nil, apperrors.NewStoreError("decrypt payload", err).WithContext("kind", kind)
	}
	return payload, nil
}

// Count returns the number of stored snapshots of kind, or of every kind
// when kind is empty.
func (s *Store) Count(ctx context.Context, kind string) (int, error) {
	query, args := `SELECT COUNT(*) FROM snapshots`, []any{}
	if kind != "" {
		query += ` WHERE kind = ?`
		args = append(args, kind)
	}

	var n int
	err := s.withRetry(ctx, "count snapshots", func() error {
		return s.db.QueryRowContext(ctx, query, args...).Scan(&n)
	})
	if err != nil {
		return 0, apperrors.NewStoreError("count snapshots", err)
	}
	return n, nil
}

// CleanupOlderThan deletes snapshots not updated within the last days days
// and reports how many were removed.
func (s *Store) CleanupOlderThan(ctx context.Context, days int) (int64, error) {
	if days <= 0 {
		return 0, apperrors.NewValidationError("days", fmt.Sprint(days), "retention must be at least one day")
	}

	var removed int64
	err := s.withRetry(ctx, "cleanup snapshots", func() error {
		res, err := s.db.ExecContext(ctx,
			`DELETE FROM snapshots WHERE updated_at < datetime('now', '-' || ? || ' days')`, days)
		if err != nil {
			return err
		}
		removed, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, apperrors.NewStoreError("cleanup snapshots", err)
	}

	if removed > 0 {
		s.logger.WithFields(logrus.Fields{
			"removed":        removed,
			"retention_days": days,
		}).Info("Removed expired snapshots")
	}
	return removed, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func validateKey(kind, id string) error {
	if kind == "" {
		return apperrors.NewValidationError("kind", kind, "snapshot kind is required")
	}
	if id == "" {
		return apperrors.NewValidationError("id", id, "snapshot id is required")
	}
	return nil
}
