package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/nippo/internal/db"
	"github.com/alexanderramin/nippo/internal/domain"
)

const reportColumns = `id, type, owner, repo, branch, start_date, end_date, content, model, commit_count, created_at`

// SQLiteReportRepo keeps the history of generated reports.
type SQLiteReportRepo struct {
	db db.DBTX
}

func NewSQLiteReportRepo(conn db.DBTX) *SQLiteReportRepo {
	return &SQLiteReportRepo{db: conn}
}

func (r *SQLiteReportRepo) Create(ctx context.Context, rep *domain.Report) error {
	query := `INSERT INTO reports (` + reportColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		rep.ID,
		string(rep.Type),
		rep.Owner,
		rep.Repo,
		rep.Branch,
		rep.StartDate,
		rep.EndDate,
		rep.Content,
		rep.Model,
		rep.CommitCount,
		formatTime(rep.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting report: %w", err)
	}
	return nil
}

func (r *SQLiteReportRepo) GetByID(ctx context.Context, id string) (*domain.Report, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+reportColumns+` FROM reports WHERE id = ?`, id)
	return scanOneReport(row)
}

func (r *SQLiteReportRepo) Latest(ctx context.Context, reportType domain.ReportType, owner, repo string) (*domain.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports
		WHERE type = ? AND owner = ? AND repo = ?
		ORDER BY created_at DESC LIMIT 1`
	row := r.db.QueryRowContext(ctx, query, string(reportType), owner, repo)
	return scanOneReport(row)
}

func (r *SQLiteReportRepo) List(ctx context.Context, owner, repo string, limit int) ([]*domain.Report, error) {
	if limit <= 0 {
		limit = 20
	}
	// An empty owner lists reports of every repository.
	query := `SELECT ` + reportColumns + ` FROM reports
		WHERE (? = '' OR (owner = ? AND repo = ?))
		ORDER BY created_at DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, owner, owner, repo, limit)
	if err != nil {
		return nil, fmt.Errorf("listing reports: %w", err)
	}
	defer rows.Close()

	var reports []*domain.Report
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, rep)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating reports: %w", err)
	}
	return reports, nil
}

func scanOneReport(row *sql.Row) (*domain.Report, error) {
	rep, err := scanReport(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("report: %w", ErrNotFound)
	}
	return rep, err
}

func scanReport(row rowScanner) (*domain.Report, error) {
	var (
		rep        domain.Report
		typ        string
		createdStr string
	)
	err := row.Scan(&rep.ID, &typ, &rep.Owner, &rep.Repo, &rep.Branch, &rep.StartDate, &rep.EndDate,
		&rep.Content, &rep.Model, &rep.CommitCount, &createdStr)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning report: %w", err)
	}
	rep.Type = domain.ReportType(typ)
	if rep.CreatedAt, err = parseTime("created_at", createdStr); err != nil {
		return nil, err
	}
	return &rep, nil
}
