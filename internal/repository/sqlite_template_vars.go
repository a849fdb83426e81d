package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/nippo/internal/db"
	"github.com/alexanderramin/nippo/internal/domain"
)

// SQLiteTemplateVarRepo stores saved template variables per report type.
type SQLiteTemplateVarRepo struct {
	db db.DBTX
}

func NewSQLiteTemplateVarRepo(conn db.DBTX) *SQLiteTemplateVarRepo {
	return &SQLiteTemplateVarRepo{db: conn}
}

func (r *SQLiteTemplateVarRepo) List(ctx context.Context, reportType domain.ReportType) (map[string]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT name, value FROM template_variables WHERE report_type = ? ORDER BY name`, string(reportType))
	if err != nil {
		return nil, fmt.Errorf("listing template variables: %w", err)
	}
	defer rows.Close()

	vars := make(map[string]string)
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, fmt.Errorf("scanning template variable: %w", err)
		}
		vars[name] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating template variables: %w", err)
	}
	return vars, nil
}

func (r *SQLiteTemplateVarRepo) Set(ctx context.Context, reportType domain.ReportType, name, value string) error {
	query := `INSERT INTO template_variables (report_type, name, value, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(report_type, name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
	if _, err := r.db.ExecContext(ctx, query, string(reportType), name, value, nowUTC()); err != nil {
		return fmt.Errorf("saving template variable %s: %w", name, err)
	}
	return nil
}

func (r *SQLiteTemplateVarRepo) Delete(ctx context.Context, reportType domain.ReportType, name string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM template_variables WHERE report_type = ? AND name = ?`, string(reportType), name)
	if err != nil {
		return fmt.Errorf("deleting template variable %s: %w", name, err)
	}
	return requireAffected(res, "template variable "+name)
}
