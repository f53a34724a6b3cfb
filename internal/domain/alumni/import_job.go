package alumni

import "time"

const (
	JobStatusQueued    = "queued"
	JobStatusRunning   = "running"
	JobStatusSucceeded = "succeeded"
	JobStatusFailed    = "failed"
)

type NewImportJob struct {
	SourcePath       string
	ExternalSystemID string
	Options          ImportOptions
}

// ImportJob is a queued file import. BatchID is set once the run that
// completed the job has finished.
type ImportJob struct {
	ID               string
	SourcePath       string
	ExternalSystemID string
	Options          ImportOptions
	Status           string
	Attempts         int
	MaxAttempts      int
	BatchID          string
	TotalRecords     int64
	Progress         ImportProgress
	ErrorCount       int64
	WarningCount     int64
	ErrorMessage     string
	CreatedAt        time.Time
	StartedAt        *time.Time
	FinishedAt       *time.Time
}

type ImportProgress struct {
	ProcessedCount int64
	ImportedCount  int64
	UpdatedCount   int64
	SkippedCount   int64
	FailedCount    int64
}
