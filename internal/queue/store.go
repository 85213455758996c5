package queue

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"rollcall/internal/config"
)

// ErrDuplicateRecord reports that a record with the same fingerprint is
// already persisted.
var ErrDuplicateRecord = errors.New("duplicate record")

// Store manages session record persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the record database and applies
// migrations. The database lives under the configured state directory.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.StateDir, "records.db")
	db, err := sql.Open("sqlite", dbPath)
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

	store := &Store{db: db, path: dbPath}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

const recordColumns = `id, fingerprint, session_id, coach, student, week, category,
    session_type, confidence, start_time, total_size, file_count, staged_path,
    degraded, processing_version, evidence_json, files_json, created_at`

// AppendRecord inserts a processed session. The UNIQUE constraint on the
// fingerprint column makes concurrent appends of the same session resolve to
// exactly one row; losers get ErrDuplicateRecord.
func (s *Store) AppendRecord(ctx context.Context, record *Record) error {
	if record == nil {
		return errors.New("record is nil")
	}
	if strings.TrimSpace(record.Fingerprint) == "" {
		return errors.New("record fingerprint is empty")
	}

	evidenceJSON, err := json.Marshal(record.Evidence)
	if err != nil {
		return fmt.Errorf("marshal evidence: %w", err)
	}
	filesJSON, err := json.Marshal(record.Files)
	if err != nil {
		return fmt.Errorf("marshal files: %w", err)
	}
	record.CreatedAt = time.Now().UTC()

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO records (
            fingerprint, session_id, coach, student, week, category,
            session_type, confidence, start_time, total_size, file_count,
            staged_path, degraded, processing_version, evidence_json,
            files_json, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.Fingerprint,
		record.SessionID,
		record.Coach,
		record.Student,
		record.Week,
		record.Category,
		record.SessionType,
		record.Confidence,
		formatTime(record.StartTime),
		record.TotalSize,
		record.FileCount,
		record.StagedPath,
		record.Degraded,
		record.ProcessingVersion,
		string(evidenceJSON),
		string(filesJSON),
		record.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: fingerprint %s", ErrDuplicateRecord, record.Fingerprint)
		}
		return fmt.Errorf("insert record: %w", err)
	}

	record.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	return nil
}

// RecordExists reports whether a fingerprint is already persisted.
func (s *Store) RecordExists(ctx context.Context, fingerprint string) (bool, error) {
	var count int
	row := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM records WHERE fingerprint = ?`, fingerprint)
	if err := row.Scan(&count); err != nil {
		return false, fmt.Errorf("count fingerprint: %w", err)
	}
	return count > 0, nil
}

// ExistingKeys returns all persisted fingerprints. Scans use it to preload
// the dedup set before forming sessions.
func (s *Store) ExistingKeys(ctx context.Context) (map[string]struct{}, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT fingerprint FROM records`)
	if err != nil {
		return nil, fmt.Errorf("list fingerprints: %w", err)
	}
	defer rows.Close()

	keys := make(map[string]struct{})
	for rows.Next() {
		var fp string
		if err := rows.Scan(&fp); err != nil {
			return nil, fmt.Errorf("scan fingerprint: %w", err)
		}
		keys[fp] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate fingerprints: %w", err)
	}
	return keys, nil
}

// RecentRecords returns the newest records, most recent first.
func (s *Store) RecentRecords(ctx context.Context, limit int) ([]*Record, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+recordColumns+` FROM records ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return records, nil
}

// FindByFingerprint returns the record with the given fingerprint or nil.
func (s *Store) FindByFingerprint(ctx context.Context, fingerprint string) (*Record, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+recordColumns+` FROM records WHERE fingerprint = ?`,
		fingerprint,
	)
	record, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return record, nil
}

// SaveCheckpoint upserts a session's progress marker.
func (s *Store) SaveCheckpoint(ctx context.Context, cp Checkpoint) error {
	if strings.TrimSpace(cp.Fingerprint) == "" {
		return errors.New("checkpoint fingerprint is empty")
	}
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO checkpoints (fingerprint, session_id, stage, updated_at)
         VALUES (?, ?, ?, ?)
         ON CONFLICT (fingerprint) DO UPDATE SET
             session_id = excluded.session_id,
             stage = excluded.stage,
             updated_at = excluded.updated_at`,
		cp.Fingerprint,
		cp.SessionID,
		cp.Stage,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save checkpoint: %w", err)
	}
	return nil
}

// LoadCheckpoint returns the stored progress for a fingerprint or nil.
func (s *Store) LoadCheckpoint(ctx context.Context, fingerprint string) (*Checkpoint, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT fingerprint, session_id, stage, updated_at FROM checkpoints WHERE fingerprint = ?`,
		fingerprint,
	)
	var cp Checkpoint
	var updatedAt string
	err := row.Scan(&cp.Fingerprint, &cp.SessionID, &cp.Stage, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load checkpoint: %w", err)
	}
	cp.UpdatedAt = parseTime(updatedAt)
	return &cp, nil
}

// ListCheckpoints returns every stored checkpoint, oldest update first.
func (s *Store) ListCheckpoints(ctx context.Context) ([]Checkpoint, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT fingerprint, session_id, stage, updated_at FROM checkpoints ORDER BY updated_at`,
	)
	if err != nil {
		return nil, fmt.Errorf("list checkpoints: %w", err)
	}
	defer rows.Close()

	var checkpoints []Checkpoint
	for rows.Next() {
		var cp Checkpoint
		var updatedAt string
		if err := rows.Scan(&cp.Fingerprint, &cp.SessionID, &cp.Stage, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan checkpoint: %w", err)
		}
		cp.UpdatedAt = parseTime(updatedAt)
		checkpoints = append(checkpoints, cp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate checkpoints: %w", err)
	}
	return checkpoints, nil
}

// ClearCheckpoint removes the progress marker after a session completes.
func (s *Store) ClearCheckpoint(ctx context.Context, fingerprint string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM checkpoints WHERE fingerprint = ?`, fingerprint)
	if err != nil {
		return fmt.Errorf("clear checkpoint: %w", err)
	}
	return nil
}

// ClearCheckpoints removes all progress markers and reports how many.
func (s *Store) ClearCheckpoints(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM checkpoints`)
	if err != nil {
		return 0, fmt.Errorf("clear checkpoints: %w", err)
	}
	return res.RowsAffected()
}

// Health verifies the database answers a trivial query.
func (s *Store) Health(ctx context.Context) error {
	if s == nil || s.db == nil {
		return errors.New("store not open")
	}
	var one int
	if err := s.db.QueryRowContext(ctx, `SELECT 1`).Scan(&one); err != nil {
		return fmt.Errorf("health query: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*Record, error) {
	var record Record
	var startTime, createdAt, evidenceJSON, filesJSON string
	err := row.Scan(
		&record.ID,
		&record.Fingerprint,
		&record.SessionID,
		&record.Coach,
		&record.Student,
		&record.Week,
		&record.Category,
		&record.SessionType,
		&record.Confidence,
		&startTime,
		&record.TotalSize,
		&record.FileCount,
		&record.StagedPath,
		&record.Degraded,
		&record.ProcessingVersion,
		&evidenceJSON,
		&filesJSON,
		&createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan record: %w", err)
	}
	record.StartTime = parseTime(startTime)
	record.CreatedAt = parseTime(createdAt)
	if evidenceJSON != "" {
		if err := json.Unmarshal([]byte(evidenceJSON), &record.Evidence); err != nil {
			return nil, fmt.Errorf("unmarshal evidence: %w", err)
		}
	}
	if filesJSON != "" {
		if err := json.Unmarshal([]byte(filesJSON), &record.Files); err != nil {
			return nil, fmt.Errorf("unmarshal files: %w", err)
		}
	}
	return &record, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return t
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
