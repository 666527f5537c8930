package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"sitescout-engine/internal/domain"
)

type ListResultsOpts struct {
	Valid  *bool  // nil = no filter
	Source string // "" = no filter
	Sort   string // url | status_code | source
	Order  string // asc | desc
}

// InsertURLResults writes the full batch for one job in a single
// transaction. One row per distinct URL per job, enforced by the unique
// index.
func (d *DB) InsertURLResults(ctx context.Context, jobID string, results []domain.URLResult) error {
	if len(results) == 0 {
		return nil
	}

	tx, err := d.Pool.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("insert results: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO url_results(job_id, url, title, description, status_code, is_valid, source, error_message, created_at)
VALUES(?,?,?,?,?,?,?,?,?);`)
	if err != nil {
		return fmt.Errorf("insert results: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, r := range results {
		if _, err := stmt.ExecContext(ctx,
			jobID,
			r.URL,
			nullIfEmpty(r.Title),
			nullIfEmpty(r.Description),
			nullIfZero(r.StatusCode),
			boolToInt(r.Valid),
			string(r.Source),
			nullIfEmpty(r.ErrorMessage),
			now,
		); err != nil {
			return fmt.Errorf("insert result %s: %w", r.URL, err)
		}
	}

	return tx.Commit()
}

func (d *DB) ListURLResults(ctx context.Context, jobID string, opts ListResultsOpts) ([]domain.URLResult, error) {
	// whitelist sort columns (prevents SQL injection)
	sortCol := map[string]string{
		"url":         "url",
		"status_code": "status_code",
		"source":      "source",
	}[opts.Sort]
	if sortCol == "" {
		sortCol = "url"
	}
	order := "ASC"
	if opts.Order == "desc" {
		order = "DESC"
	}

	query := `
SELECT id, job_id, url, title, description, status_code, is_valid, source, error_message, created_at
FROM url_results
WHERE job_id = ?`
	args := []any{jobID}

	if opts.Valid != nil {
		query += ` AND is_valid = ?`
		args = append(args, boolToInt(*opts.Valid))
	}
	if opts.Source != "" {
		query += ` AND source = ?`
		args = append(args, opts.Source)
	}
	query += fmt.Sprintf(` ORDER BY %s %s;`, sortCol, order)

	rows, err := d.Pool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.URLResult
	for rows.Next() {
		var (
			r          domain.URLResult
			title      sql.NullString
			desc       sql.NullString
			statusCode sql.NullInt64
			isValid    int
			source     string
			errMsg     sql.NullString
			createdStr string
		)
		if err := rows.Scan(
			&r.ID, &r.JobID, &r.URL, &title, &desc,
			&statusCode, &isValid, &source, &errMsg, &createdStr,
		); err != nil {
			return nil, err
		}
		r.Title = title.String
		r.Description = desc.String
		r.StatusCode = int(statusCode.Int64)
		r.Valid = isValid != 0
		r.Source = domain.Source(source)
		r.ErrorMessage = errMsg.String
		r.CreatedAt, _ = time.Parse(time.RFC3339, createdStr)
		out = append(out, r)
	}
	return out, rows.Err()
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullIfZero(n int) any {
	if n == 0 {
		return nil
	}
	return n
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
