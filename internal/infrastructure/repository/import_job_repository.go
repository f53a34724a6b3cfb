package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	domain "github.com/mohammadpnp/alumni-sync/internal/domain/alumni"
	"github.com/mohammadpnp/alumni-sync/internal/infrastructure/db/models"
)

type ImportJobRepository struct {
	db *gorm.DB
}

func NewImportJobRepository(db *gorm.DB) *ImportJobRepository {
	return &ImportJobRepository{db: db}
}

func (r *ImportJobRepository) Enqueue(ctx context.Context, job domain.NewImportJob) (string, error) {
	row := models.ImportJob{
		SourcePath:         job.SourcePath,
		ExternalSystemID:   job.ExternalSystemID,
		OverwriteExisting:  job.Options.OverwriteExisting,
		ValidateOnly:       job.Options.ValidateOnly,
		BatchSize:          job.Options.BatchSize,
		SkipInvalidRecords: job.Options.SkipInvalidRecords,
		Status:             domain.JobStatusQueued,
	}

	// Zero-value booleans would otherwise be replaced by column defaults.
	if err := r.db.WithContext(ctx).
		Select("SourcePath", "ExternalSystemID", "OverwriteExisting", "ValidateOnly", "BatchSize", "SkipInvalidRecords", "Status").
		Create(&row).Error; err != nil {
		return "", fmt.Errorf("create import job: %w", err)
	}

	return row.ID, nil
}

func (r *ImportJobRepository) Get(ctx context.Context, jobID string) (*domain.ImportJob, error) {
	var row models.ImportJob
	if err := r.db.WithContext(ctx).First(&row, "id = ?", jobID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrImportJobNotFound
		}
		return nil, fmt.Errorf("get import job: %w", err)
	}
	return toDomainImportJob(row), nil
}

// ClaimNext leases the oldest queued job, or a running job whose lease has
// expired, to the caller. It returns nil when nothing is claimable.
func (r *ImportJobRepository) ClaimNext(ctx context.Context, leaseDuration time.Duration) (*domain.ImportJob, error) {
	var rows []models.ImportJob

	err := r.db.WithContext(ctx).Raw(`
UPDATE import_jobs
SET status = ?,
    attempts = attempts + 1,
    started_at = COALESCE(started_at, NOW()),
    heartbeat_at = NOW(),
    lease_expires_at = NOW() + make_interval(secs => ?),
    updated_at = NOW()
WHERE id = (
    SELECT id
    FROM import_jobs
    WHERE status = ?
       OR (status = ? AND lease_expires_at < NOW() AND attempts < max_attempts)
    ORDER BY created_at
    LIMIT 1
    FOR UPDATE SKIP LOCKED
)
RETURNING *
`, domain.JobStatusRunning, leaseDuration.Seconds(), domain.JobStatusQueued, domain.JobStatusRunning).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("claim import job: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	return toDomainImportJob(rows[0]), nil
}

func (r *ImportJobRepository) Heartbeat(ctx context.Context, jobID string, leaseDuration time.Duration) error {
	return r.updateRunning(ctx, jobID, "heartbeat import job", map[string]any{
		"heartbeat_at":     gorm.Expr("NOW()"),
		"lease_expires_at": gorm.Expr("NOW() + make_interval(secs => ?)", leaseDuration.Seconds()),
	})
}

func (r *ImportJobRepository) UpdateProgress(ctx context.Context, jobID string, progress domain.ImportProgress) error {
	return r.updateRunning(ctx, jobID, "update import progress", map[string]any{
		"progress_processed": progress.ProcessedCount,
		"imported_count":     progress.ImportedCount,
		"updated_count":      progress.UpdatedCount,
		"skipped_count":      progress.SkippedCount,
		"failed_count":       progress.FailedCount,
	})
}

func (r *ImportJobRepository) Complete(ctx context.Context, jobID string, result domain.ImportResult) error {
	progress := result.Progress()

	return r.updateRunning(ctx, jobID, "complete import job", map[string]any{
		"status":             domain.JobStatusSucceeded,
		"batch_id":           result.BatchID,
		"progress_total":     int64(result.TotalRecords),
		"progress_processed": progress.ProcessedCount,
		"imported_count":     progress.ImportedCount,
		"updated_count":      progress.UpdatedCount,
		"skipped_count":      progress.SkippedCount,
		"failed_count":       progress.FailedCount,
		"error_count":        int64(len(result.Errors)),
		"warning_count":      int64(len(result.Warnings)),
		"error_message":      nil,
		"lease_expires_at":   nil,
		"finished_at":        gorm.Expr("NOW()"),
	})
}

func (r *ImportJobRepository) Requeue(ctx context.Context, jobID string, reason string) error {
	return r.updateRunning(ctx, jobID, "requeue import job", map[string]any{
		"status":           domain.JobStatusQueued,
		"error_message":    reason,
		"heartbeat_at":     nil,
		"lease_expires_at": nil,
	})
}

func (r *ImportJobRepository) Fail(ctx context.Context, jobID string, reason string) error {
	return r.updateRunning(ctx, jobID, "fail import job", map[string]any{
		"status":           domain.JobStatusFailed,
		"error_message":    reason,
		"lease_expires_at": nil,
		"finished_at":      gorm.Expr("NOW()"),
	})
}

func (r *ImportJobRepository) updateRunning(ctx context.Context, jobID, action string, values map[string]any) error {
	values["updated_at"] = gorm.Expr("NOW()")

	tx := r.db.WithContext(ctx).
		Model(&models.ImportJob{}).
		Where("id = ? AND status = ?", jobID, domain.JobStatusRunning).
		Updates(values)
	if tx.Error != nil {
		return fmt.Errorf("%s: %w", action, tx.Error)
	}
	if tx.RowsAffected == 0 {
		return fmt.Errorf("%s %s: %w", action, jobID, domain.ErrImportJobNotFound)
	}
	return nil
}

func toDomainImportJob(row models.ImportJob) *domain.ImportJob {
	job := &domain.ImportJob{
		ID:               row.ID,
		SourcePath:       row.SourcePath,
		ExternalSystemID: row.ExternalSystemID,
		Options: domain.ImportOptions{
			OverwriteExisting:  row.OverwriteExisting,
			ValidateOnly:       row.ValidateOnly,
			BatchSize:          row.BatchSize,
			SkipInvalidRecords: row.SkipInvalidRecords,
		},
		Status:       row.Status,
		Attempts:     row.Attempts,
		MaxAttempts:  row.MaxAttempts,
		TotalRecords: row.ProgressTotal,
		Progress: domain.ImportProgress{
			ProcessedCount: row.ProgressProcessed,
			ImportedCount:  row.ImportedCount,
			UpdatedCount:   row.UpdatedCount,
			SkippedCount:   row.SkippedCount,
			FailedCount:    row.FailedCount,
		},
		ErrorCount:   row.ErrorCount,
		WarningCount: row.WarningCount,
		CreatedAt:    row.CreatedAt,
		StartedAt:    row.StartedAt,
		FinishedAt:   row.FinishedAt,
	}
	if row.BatchID != nil {
		job.BatchID = *row.BatchID
	}
	if row.ErrorMessage != nil {
		job.ErrorMessage = *row.ErrorMessage
	}
	return job
}
