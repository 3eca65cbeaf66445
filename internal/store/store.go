// Package store archives rendered scan reports in SQLite. Archived reports
// are exports only and are never read back into recommendation building.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	apperrors "github.com/go-tangra/go-tangra-advisor/internal/errors"
	"github.com/go-tangra/go-tangra-advisor/internal/report"
)

// Record is one archived report row.
type Record struct {
	ID          int64     `json:"-"`
	ReportID    string    `json:"id"`
	Hostname    string    `json:"hostname"`
	ScannedAt   time.Time `json:"scanned_at"`
	StoredAt    time.Time `json:"stored_at"`
	UpdateCount int       `json:"update_count"`
	TopPriority string    `json:"top_priority,omitempty"`
	ReportJSON  string    `json:"-"`
}

// ListFilter holds optional query parameters for listing reports.
type ListFilter struct {
	Hostname      string
	ScannedAfter  *time.Time
	ScannedBefore *time.Time
	PageSize      int
	Page          int
}

// Store provides CRUD operations for archived reports.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// New opens the SQLite database at path and runs migrations.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Archive stores r. It satisfies scan.Archiver.
func (s *Store) Archive(ctx context.Context, r *report.Report) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	rec := &Record{
		ReportID:    r.ID,
		Hostname:    r.Hostname,
		ScannedAt:   r.ScannedAt,
		UpdateCount: len(r.Updates),
		ReportJSON:  string(data),
	}
	if len(r.Updates) > 0 {
		rec.TopPriority = r.Updates[0].Priority.String()
	}
	_, _, err = s.Insert(ctx, rec)
	return err
}

// Insert stores a record and returns the new row ID and stored_at time.
func (s *Store) Insert(ctx context.Context, rec *Record) (int64, time.Time, error) {
	storedAt := s.now().UTC()
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO reports (report_id, hostname, scanned_at, stored_at, update_count, top_priority, report_json)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ReportID,
		rec.Hostname,
		rec.ScannedAt.UTC().Format(time.RFC3339),
		storedAt.Format(time.RFC3339),
		rec.UpdateCount,
		rec.TopPriority,
		rec.ReportJSON,
	)
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("insert report: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("get last insert id: %w", err)
	}

	return id, storedAt, nil
}

// Get retrieves a record by report ID.
func (s *Store) Get(ctx context.Context, reportID string) (*Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, report_id, hostname, scanned_at, stored_at, update_count, top_priority, report_json
		 FROM reports WHERE report_id = ?`, reportID)

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(reportID)
	}
	return rec, err
}

// Report decodes the archived report with the given ID.
func (s *Store) Report(ctx context.Context, reportID string) (*report.Report, error) {
	rec, err := s.Get(ctx, reportID)
	if err != nil {
		return nil, err
	}
	var r report.Report
	if err := json.Unmarshal([]byte(rec.ReportJSON), &r); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "decode archived report", err)
	}
	return &r, nil
}

// Delete removes a record by report ID.
func (s *Store) Delete(ctx context.Context, reportID string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM reports WHERE report_id = ?`, reportID)
	if err != nil {
		return fmt.Errorf("delete report: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return notFound(reportID)
	}
	return nil
}

// List returns record summaries matching the filter, newest first, and the
// total number of matches.
func (s *Store) List(ctx context.Context, f ListFilter) ([]Record, int, error) {
	where, args := buildWhere(f)

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM reports"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count reports: %w", err)
	}

	pageSize := f.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}
	page := f.Page
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * pageSize

	query := `SELECT id, report_id, hostname, scanned_at, stored_at, update_count, top_priority, ''
		FROM reports` + where + ` ORDER BY scanned_at DESC, id DESC LIMIT ? OFFSET ?`
	args = append(args, pageSize, offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, 0, err
		}
		records = append(records, *rec)
	}

	return records, total, rows.Err()
}

// Purge deletes records scanned longer ago than olderThan.
func (s *Store) Purge(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := s.now().UTC().Add(-olderThan).Format(time.RFC3339)
	result, err := s.db.ExecContext(ctx, `DELETE FROM reports WHERE scanned_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge reports: %w", err)
	}
	return result.RowsAffected()
}

func notFound(reportID string) error {
	return apperrors.WrapWithContext(apperrors.ErrCodeNotFound, "report not found", sql.ErrNoRows,
		map[string]any{"id": reportID})
}

func buildWhere(f ListFilter) (string, []any) {
	var (
		conditions []string
		args       []any
	)

	if f.Hostname != "" {
		conditions = append(conditions, "hostname = ?")
		args = append(args, f.Hostname)
	}
	if f.ScannedAfter != nil {
		conditions = append(conditions, "scanned_at >= ?")
		args = append(args, f.ScannedAfter.UTC().Format(time.RFC3339))
	}
	if f.ScannedBefore != nil {
		conditions = append(conditions, "scanned_at <= ?")
		args = append(args, f.ScannedBefore.UTC().Format(time.RFC3339))
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*Record, error) {
	var (
		rec                 Record
		scannedAt, storedAt string
	)
	err := row.Scan(&rec.ID, &rec.ReportID, &rec.Hostname, &scannedAt, &storedAt, &rec.UpdateCount, &rec.TopPriority, &rec.ReportJSON)
	if err != nil {
		return nil, err
	}

	rec.ScannedAt, _ = time.Parse(time.RFC3339, scannedAt)
	rec.StoredAt, _ = time.Parse(time.RFC3339, storedAt)

	return &rec, nil
}
