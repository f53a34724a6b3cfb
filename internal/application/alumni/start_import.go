package alumni

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	domain "github.com/mohammadpnp/alumni-sync/internal/domain/alumni"
)

type StartImportFromFileInput struct {
	SourcePath       string
	ExternalSystemID string
	Options          domain.ImportOptions
}

type StartImportFromFileOutput struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
}

type StartImportFromFile interface {
	Execute(ctx context.Context, in StartImportFromFileInput) (StartImportFromFileOutput, error)
}

type importJobEnqueuer interface {
	Enqueue(ctx context.Context, job domain.NewImportJob) (string, error)
}

type startImportFromFile struct {
	importJobRepo importJobEnqueuer
}

func NewStartImportFromFile(importJobRepo importJobEnqueuer) StartImportFromFile {
	return &startImportFromFile{importJobRepo: importJobRepo}
}

func (uc *startImportFromFile) Execute(ctx context.Context, in StartImportFromFileInput) (StartImportFromFileOutput, error) {
	sourcePath := strings.TrimSpace(in.SourcePath)
	if sourcePath == "" || strings.ToLower(filepath.Ext(sourcePath)) != ".json" {
		return StartImportFromFileOutput{}, ErrInvalidImportSource
	}

	externalSystemID := strings.TrimSpace(in.ExternalSystemID)
	if externalSystemID == "" {
		return StartImportFromFileOutput{}, fmt.Errorf("%w: external system id is required", ErrInvalidImportRequest)
	}

	// A zero batch size is stored as is and resolved by the worker's service.
	options := in.Options
	if options.BatchSize < 0 || options.BatchSize > domain.MaxBatchSize {
		return StartImportFromFileOutput{}, fmt.Errorf("%w: batch size must be between 1 and %d", ErrInvalidImportRequest, domain.MaxBatchSize)
	}

	jobID, err := uc.importJobRepo.Enqueue(ctx, domain.NewImportJob{
		SourcePath:       sourcePath,
		ExternalSystemID: externalSystemID,
		Options:          options,
	})
	if err != nil {
		return StartImportFromFileOutput{}, fmt.Errorf("%w: %v", ErrEnqueueImportJob, err)
	}

	return StartImportFromFileOutput{
		JobID:  jobID,
		Status: domain.JobStatusQueued,
	}, nil
}
