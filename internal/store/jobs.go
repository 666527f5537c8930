package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"sitescout-engine/internal/domain"
)

var ErrNotFound = errors.New("job not found")

func (d *DB) CreateJob(ctx context.Context, targetURL string) (domain.Job, error) {
	now := time.Now().UTC()
	j := domain.Job{
		ID:        uuid.New().String(),
		TargetURL: targetURL,
		Status:    domain.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := d.Pool.ExecContext(ctx, `
INSERT INTO jobs(id, target_url, status, progress, created_at, updated_at)
VALUES(?,?,?,?,?,?);`,
		j.ID, j.TargetURL, string(j.Status), j.Progress,
		now.Format(time.RFC3339), now.Format(time.RFC3339),
	)
	if err != nil {
		return domain.Job{}, fmt.Errorf("create job: %w", err)
	}
	return j, nil
}

func (d *DB) GetJob(ctx context.Context, id string) (domain.Job, error) {
	row := d.Pool.QueryRowContext(ctx, `
SELECT id, target_url, status, progress, error_message, total_urls, checked_urls, created_at, updated_at
FROM jobs
WHERE id = ?;`, id)

	j, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Job{}, ErrNotFound
	}
	if err != nil {
		return domain.Job{}, fmt.Errorf("get job: %w", err)
	}
	return j, nil
}

func (d *DB) ListJobs(ctx context.Context, limit int) ([]domain.Job, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := d.Pool.QueryContext(ctx, `
SELECT id, target_url, status, progress, error_message, total_urls, checked_urls, created_at, updated_at
FROM jobs
ORDER BY created_at DESC
LIMIT ?;`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	return out, rows.Err()
}

// TransitionFromPending moves a job out of pending with a single
// conditional UPDATE. It reports false without touching the row when the
// job is in any other status, which is what makes duplicate starts lose
// the race at the storage layer.
func (d *DB) TransitionFromPending(ctx context.Context, id string, status domain.JobStatus, progress int, errMsg string) (bool, error) {
	res, err := d.Pool.ExecContext(ctx, `
UPDATE jobs
SET status = ?, progress = ?, error_message = NULLIF(?, ''), updated_at = ?
WHERE id = ? AND status = 'pending';`,
		string(status), progress, errMsg, time.Now().UTC().Format(time.RFC3339), id,
	)
	if err != nil {
		return false, fmt.Errorf("transition job: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// UpdateStatus persists a stage transition. error_message is left alone
// unless errMsg is non-empty; it is only ever set on failure.
func (d *DB) UpdateStatus(ctx context.Context, id string, status domain.JobStatus, progress int, errMsg string) error {
	var err error
	if errMsg == "" {
		_, err = d.Pool.ExecContext(ctx, `
UPDATE jobs SET status = ?, progress = ?, updated_at = ? WHERE id = ?;`,
			string(status), progress, time.Now().UTC().Format(time.RFC3339), id)
	} else {
		_, err = d.Pool.ExecContext(ctx, `
UPDATE jobs SET status = ?, progress = ?, error_message = ?, updated_at = ? WHERE id = ?;`,
			string(status), progress, errMsg, time.Now().UTC().Format(time.RFC3339), id)
	}
	if err != nil {
		return fmt.Errorf("update job status: %w", err)
	}
	return nil
}

func (d *DB) SetURLCounts(ctx context.Context, id string, total, checked int) error {
	_, err := d.Pool.ExecContext(ctx, `
UPDATE jobs SET total_urls = ?, checked_urls = ?, updated_at = ? WHERE id = ?;`,
		total, checked, time.Now().UTC().Format(time.RFC3339), id)
	return err
}

// CleanupOldJobs removes terminal jobs older than maxAge together with
// their results.
func (d *DB) CleanupOldJobs(ctx context.Context, maxAge time.Duration) (deleted int64, err error) {
	cutoff := time.Now().UTC().Add(-maxAge).Format(time.RFC3339)

	tx, err := d.Pool.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
DELETE FROM url_results
WHERE job_id IN (
  SELECT id FROM jobs
  WHERE status IN ('completed','failed') AND created_at < ?
);`, cutoff); err != nil {
		return 0, fmt.Errorf("cleanup results: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
DELETE FROM jobs
WHERE status IN ('completed','failed') AND created_at < ?;`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("cleanup jobs: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, tx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(r rowScanner) (domain.Job, error) {
	var (
		j          domain.Job
		status     string
		errMsg     sql.NullString
		createdStr string
		updatedStr string
	)
	if err := r.Scan(
		&j.ID, &j.TargetURL, &status, &j.Progress, &errMsg,
		&j.TotalURLs, &j.CheckedURLs, &createdStr, &updatedStr,
	); err != nil {
		return domain.Job{}, err
	}
	j.Status = domain.JobStatus(status)
	j.ErrorMessage = errMsg.String
	j.CreatedAt, _ = time.Parse(time.RFC3339, createdStr)
	j.UpdatedAt, _ = time.Parse(time.RFC3339, updatedStr)
	return j, nil
}
