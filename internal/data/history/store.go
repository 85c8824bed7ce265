// Package history persists per-run summaries to a local SQLite database so
// unused-code counts can be compared across runs and watch-mode rescans.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"tsreap/internal/engine/detect"
	"tsreap/internal/engine/source"
)

const (
	driverName  = "sqlite"
	maxAttempts = 5
)

// Record is one persisted run summary.
type Record struct {
	RunID         string
	ProjectKey    string
	SchemaVersion int
	Timestamp     time.Time
	FileCount     int
	SkippedCount  int
	Total         int
	Used          int
	Unused        int
	Kinds         map[source.DeclKind]detect.KindStats
}

type Store struct {
	path string
	db   *sql.DB
	mu   sync.Mutex
}

func Open(path string) (*Store, error) {
	cleanPath := strings.TrimSpace(path)
	if cleanPath == "" {
		return nil, fmt.Errorf("history path must not be empty")
	}
	if info, err := os.Stat(cleanPath); err == nil && info.IsDir() {
		return nil, fmt.Errorf("history path %q is a directory, expected file", cleanPath)
	}

	dir := filepath.Dir(cleanPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history directory %q: %w", dir, err)
		}
	}

	// busy_timeout + WAL reduce lock conflicts during watch-mode churn.
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(2000)&_pragma=journal_mode(WAL)", cleanPath)
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite history %q: %w", cleanPath, err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite history %q: %w", cleanPath, err)
	}
	if err := EnsureSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize sqlite schema %q: %w", cleanPath, err)
	}

	return &Store{path: cleanPath, db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// SaveRun persists one report summary and returns the generated run id.
func (s *Store) SaveRun(projectKey string, report *detect.Report) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	projectKey = strings.TrimSpace(projectKey)
	if projectKey == "" {
		projectKey = "default"
	}

	runID := uuid.NewString()
	kind := func(k source.DeclKind) detect.KindStats { return report.Stats[k] }

	query := `
INSERT INTO runs (
  run_id, project_key, schema_version, ts_utc, file_count, skipped_count,
  total_count, used_count, unused_count,
  component_total, component_unused, type_total, type_unused,
  interface_total, interface_unused, function_total, function_unused,
  variable_total, variable_unused, enum_total, enum_unused
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`
	err := s.withRetry("save run", func() error {
		_, err := s.db.Exec(
			query,
			runID,
			projectKey,
			SchemaVersion,
			time.Now().UTC().Format(time.RFC3339Nano),
			report.Files,
			len(report.Skipped),
			report.TotalDeclarations(),
			report.TotalUsed(),
			report.TotalUnused(),
			kind(source.KindComponent).Total, kind(source.KindComponent).Unused,
			kind(source.KindType).Total, kind(source.KindType).Unused,
			kind(source.KindInterface).Total, kind(source.KindInterface).Unused,
			kind(source.KindFunction).Total, kind(source.KindFunction).Unused,
			kind(source.KindVariable).Total, kind(source.KindVariable).Unused,
			kind(source.KindEnum).Total, kind(source.KindEnum).Unused,
		)
		return err
	})
	if err != nil {
		return "", err
	}
	return runID, nil
}

// Recent returns up to limit run records for the project, newest first.
func (s *Store) Recent(projectKey string, limit int) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	projectKey = strings.TrimSpace(projectKey)
	if projectKey == "" {
		projectKey = "default"
	}
	if limit <= 0 {
		limit = 10
	}

	query := `
SELECT
  run_id, project_key, schema_version, ts_utc, file_count, skipped_count,
  total_count, used_count, unused_count,
  component_total, component_unused, type_total, type_unused,
  interface_total, interface_unused, function_total, function_unused,
  variable_total, variable_unused, enum_total, enum_unused
FROM runs
WHERE project_key = ?
ORDER BY ts_utc DESC, run_id DESC
LIMIT ?
`
	var rows *sql.Rows
	err := s.withRetry("load runs", func() error {
		var qErr error
		rows, qErr = s.db.Query(query, projectKey, limit)
		return qErr
	})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]Record, 0, limit)
	for rows.Next() {
		var (
			tsRaw string
			rec   Record
		)
		var comp, typ, iface, fn, vr, enum detect.KindStats
		if err := rows.Scan(
			&rec.RunID,
			&rec.ProjectKey,
			&rec.SchemaVersion,
			&tsRaw,
			&rec.FileCount,
			&rec.SkippedCount,
			&rec.Total,
			&rec.Used,
			&rec.Unused,
			&comp.Total, &comp.Unused,
			&typ.Total, &typ.Unused,
			&iface.Total, &iface.Unused,
			&fn.Total, &fn.Unused,
			&vr.Total, &vr.Unused,
			&enum.Total, &enum.Unused,
		); err != nil {
			return nil, fmt.Errorf("scan run row: %w", err)
		}

		ts, err := time.Parse(time.RFC3339Nano, tsRaw)
		if err != nil {
			return nil, fmt.Errorf("parse run timestamp %q: %w", tsRaw, err)
		}
		rec.Timestamp = ts.UTC()

		comp.Used = comp.Total - comp.Unused
		typ.Used = typ.Total - typ.Unused
		iface.Used = iface.Total - iface.Unused
		fn.Used = fn.Total - fn.Unused
		vr.Used = vr.Total - vr.Unused
		enum.Used = enum.Total - enum.Unused
		rec.Kinds = map[source.DeclKind]detect.KindStats{
			source.KindComponent: comp,
			source.KindType:      typ,
			source.KindInterface: iface,
			source.KindFunction:  fn,
			source.KindVariable:  vr,
			source.KindEnum:      enum,
		}

		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run rows: %w", err)
	}

	return records, nil
}

func (s *Store) withRetry(op string, fn func() error) error {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		if !isLockError(err) || attempt == maxAttempts {
			break
		}
		time.Sleep(time.Duration(attempt*25) * time.Millisecond)
	}
	return fmt.Errorf("%s: %w", op, lastErr)
}

func isLockError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "busy")
}
