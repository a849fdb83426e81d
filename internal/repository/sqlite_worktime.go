package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/nippo/internal/db"
	"github.com/alexanderramin/nippo/internal/domain"
)

const workTimeColumns = `id, start_at, end_at, memo, created_at, updated_at`

// SQLiteWorkTimeRepo implements WorkTimeRepo using a SQLite database.
type SQLiteWorkTimeRepo struct {
	db db.DBTX
}

// NewSQLiteWorkTimeRepo creates a new SQLiteWorkTimeRepo.
func NewSQLiteWorkTimeRepo(conn db.DBTX) *SQLiteWorkTimeRepo {
	return &SQLiteWorkTimeRepo{db: conn}
}

func (r *SQLiteWorkTimeRepo) Create(ctx context.Context, e *domain.WorkTimeEntry) error {
	query := `INSERT INTO work_time_entries (` + workTimeColumns + `) VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		e.ID,
		formatTime(e.Start),
		nullableTimeToString(e.End),
		e.Memo,
		formatTime(e.CreatedAt),
		formatTime(e.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting work time entry: %w", err)
	}
	return nil
}

func (r *SQLiteWorkTimeRepo) GetByID(ctx context.Context, id string) (*domain.WorkTimeEntry, error) {
	query := `SELECT ` + workTimeColumns + ` FROM work_time_entries WHERE id = ?`
	return r.scanEntry(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLiteWorkTimeRepo) GetRecording(ctx context.Context) (*domain.WorkTimeEntry, error) {
	query := `SELECT ` + workTimeColumns + ` FROM work_time_entries WHERE end_at IS NULL LIMIT 1`
	return r.scanEntry(r.db.QueryRowContext(ctx, query))
}

func (r *SQLiteWorkTimeRepo) ListBetween(ctx context.Context, since, until time.Time) ([]*domain.WorkTimeEntry, error) {
	query := `SELECT ` + workTimeColumns + ` FROM work_time_entries
		WHERE start_at >= ? AND start_at <= ?
		ORDER BY start_at`
	rows, err := r.db.QueryContext(ctx, query, formatTime(since), formatTime(until))
	if err != nil {
		return nil, fmt.Errorf("listing work time entries: %w", err)
	}
	defer rows.Close()
	return r.scanEntries(rows)
}

func (r *SQLiteWorkTimeRepo) ListAll(ctx context.Context) ([]*domain.WorkTimeEntry, error) {
	query := `SELECT ` + workTimeColumns + ` FROM work_time_entries ORDER BY start_at`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing work time entries: %w", err)
	}
	defer rows.Close()
	return r.scanEntries(rows)
}

func (r *SQLiteWorkTimeRepo) Update(ctx context.Context, e *domain.WorkTimeEntry) error {
	query := `UPDATE work_time_entries SET start_at = ?, end_at = ?, memo = ?, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		formatTime(e.Start),
		nullableTimeToString(e.End),
		e.Memo,
		formatTime(e.UpdatedAt),
		e.ID,
	)
	if err != nil {
		return fmt.Errorf("updating work time entry: %w", err)
	}
	return requireAffected(res, "work time entry")
}

func (r *SQLiteWorkTimeRepo) Upsert(ctx context.Context, e *domain.WorkTimeEntry) error {
	query := `INSERT INTO work_time_entries (` + workTimeColumns + `) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			start_at = excluded.start_at,
			end_at = excluded.end_at,
			memo = excluded.memo,
			updated_at = excluded.updated_at`
	_, err := r.db.ExecContext(ctx, query,
		e.ID,
		formatTime(e.Start),
		nullableTimeToString(e.End),
		e.Memo,
		formatTime(e.CreatedAt),
		formatTime(e.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("upserting work time entry: %w", err)
	}
	return nil
}

func (r *SQLiteWorkTimeRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM work_time_entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting work time entry: %w", err)
	}
	return requireAffected(res, "work time entry")
}

func (r *SQLiteWorkTimeRepo) DeleteAll(ctx context.Context) (int, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM work_time_entries`)
	if err != nil {
		return 0, fmt.Errorf("deleting work time entries: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting deleted work time entries: %w", err)
	}
	return int(n), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *SQLiteWorkTimeRepo) scanEntry(row *sql.Row) (*domain.WorkTimeEntry, error) {
	e, err := scanWorkTime(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("work time entry: %w", ErrNotFound)
		}
		return nil, err
	}
	return e, nil
}

func (r *SQLiteWorkTimeRepo) scanEntries(rows *sql.Rows) ([]*domain.WorkTimeEntry, error) {
	var entries []*domain.WorkTimeEntry
	for rows.Next() {
		e, err := scanWorkTime(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating work time entries: %w", err)
	}
	return entries, nil
}

func scanWorkTime(row rowScanner) (*domain.WorkTimeEntry, error) {
	var (
		e                                domain.WorkTimeEntry
		startStr, createdStr, updatedStr string
		endStr                           sql.NullString
	)
	if err := row.Scan(&e.ID, &startStr, &endStr, &e.Memo, &createdStr, &updatedStr); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning work time entry: %w", err)
	}

	var err error
	if e.Start, err = parseTime("start_at", startStr); err != nil {
		return nil, err
	}
	if e.End, err = parseNullableTime(endStr); err != nil {
		return nil, fmt.Errorf("parsing end_at: %w", err)
	}
	if e.CreatedAt, err = parseTime("created_at", createdStr); err != nil {
		return nil, err
	}
	if e.UpdatedAt, err = parseTime("updated_at", updatedStr); err != nil {
		return nil, err
	}
	return &e, nil
}

func requireAffected(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return nil
}
