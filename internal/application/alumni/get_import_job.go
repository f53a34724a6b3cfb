package alumni

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	domain "github.com/mohammadpnp/alumni-sync/internal/domain/alumni"
)

type GetImportJobInput struct {
	JobID string
}

type GetImportJobOutput struct {
	JobID            string     `json:"job_id"`
	Status           string     `json:"status"`
	SourcePath       string     `json:"source_path"`
	ExternalSystemID string     `json:"external_system_id"`
	BatchID          string     `json:"batch_id,omitempty"`
	Attempts         int        `json:"attempts"`
	TotalRecords     int64      `json:"total_records"`
	ProcessedCount   int64      `json:"processed_count"`
	ImportedCount    int64      `json:"imported_count"`
	UpdatedCount     int64      `json:"updated_count"`
	SkippedCount     int64      `json:"skipped_count"`
	FailedCount      int64      `json:"failed_count"`
	ErrorCount       int64      `json:"error_count"`
	WarningCount     int64      `json:"warning_count"`
	ErrorMessage     string     `json:"error_message,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	StartedAt        *time.Time `json:"started_at,omitempty"`
	FinishedAt       *time.Time `json:"finished_at,omitempty"`
}

type GetImportJob interface {
	Execute(ctx context.Context, in GetImportJobInput) (GetImportJobOutput, error)
}

type importJobReader interface {
	Get(ctx context.Context, jobID string) (*domain.ImportJob, error)
}

type getImportJob struct {
	repo importJobReader
}

func NewGetImportJob(repo importJobReader) GetImportJob {
	return &getImportJob{repo: repo}
}

func (uc *getImportJob) Execute(ctx context.Context, in GetImportJobInput) (GetImportJobOutput, error) {
	if _, err := uuid.Parse(in.JobID); err != nil {
		return GetImportJobOutput{}, ErrInvalidImportJobID
	}

	job, err := uc.repo.Get(ctx, in.JobID)
	if err != nil {
		if errors.Is(err, domain.ErrImportJobNotFound) {
			return GetImportJobOutput{}, ErrImportJobNotFound
		}
		return GetImportJobOutput{}, fmt.Errorf("%w: %v", ErrGetImportJob, err)
	}

	return GetImportJobOutput{
		JobID:            job.ID,
		Status:           job.Status,
		SourcePath:       job.SourcePath,
		ExternalSystemID: job.ExternalSystemID,
		BatchID:          job.BatchID,
		Attempts:         job.Attempts,
		TotalRecords:     job.TotalRecords,
		ProcessedCount:   job.Progress.ProcessedCount,
		ImportedCount:    job.Progress.ImportedCount,
		UpdatedCount:     job.Progress.UpdatedCount,
		SkippedCount:     job.Progress.SkippedCount,
		FailedCount:      job.Progress.FailedCount,
		ErrorCount:       job.ErrorCount,
		WarningCount:     job.WarningCount,
		ErrorMessage:     job.ErrorMessage,
		CreatedAt:        job.CreatedAt,
		StartedAt:        job.StartedAt,
		FinishedAt:       job.FinishedAt,
	}, nil
}
