package alumni

import "time"

type ErrorCode string

const (
	CodeRequiredField      ErrorCode = "REQUIRED_FIELD"
	CodeInvalidFormat      ErrorCode = "INVALID_FORMAT"
	CodeInvalidPhoneFormat ErrorCode = "INVALID_PHONE_FORMAT"
	CodeProcessingError    ErrorCode = "PROCESSING_ERROR"
)

const SeverityError = "Error"

type ImportError struct {
	MemberID      string    `json:"memberID"`
	Field         string    `json:"field"`
	Message       string    `json:"error"`
	ErrorCode     ErrorCode `json:"errorCode"`
	ReceivedValue string    `json:"receivedValue,omitempty"`
	Severity      string    `json:"severity"`
	Timestamp     time.Time `json:"timestamp"`
}

type ImportWarning struct {
	MemberID       string    `json:"memberID"`
	Field          string    `json:"field"`
	Message        string    `json:"warning"`
	ReceivedValue  string    `json:"receivedValue,omitempty"`
	SuggestedValue string    `json:"suggestedValue,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

type ImportResult struct {
	TotalRecords       int             `json:"totalRecords"`
	SuccessfulImports  int             `json:"successfulImports"`
	FailedImports      int             `json:"failedImports"`
	SkippedRecords     int             `json:"skippedRecords"`
	NewRecords         int             `json:"newRecords"`
	UpdatedRecords     int             `json:"updatedRecords"`
	Errors             []ImportError   `json:"errors"`
	Warnings           []ImportWarning `json:"warnings"`
	StartedAt          time.Time       `json:"startedAt"`
	ProcessedAt        time.Time       `json:"processedAt"`
	ProcessingDuration time.Duration   `json:"processingDuration"`
	ExternalSystemID   string          `json:"externalSystemId"`
	BatchID            string          `json:"batchId"`
}

// ImportSummary is derived from an ImportResult and never stored.
type ImportSummary struct {
	SuccessRate       float64 `json:"successRate"`
	ErrorRate         float64 `json:"errorRate"`
	HasErrors         bool    `json:"hasErrors"`
	HasWarnings       bool    `json:"hasWarnings"`
	IsCompleteSuccess bool    `json:"isCompleteSuccess"`
}

// Summary reports rates as percentages of TotalRecords.
func (r ImportResult) Summary() ImportSummary {
	summary := ImportSummary{
		HasErrors:         len(r.Errors) > 0,
		HasWarnings:       len(r.Warnings) > 0,
		IsCompleteSuccess: r.FailedImports == 0 && len(r.Errors) == 0,
	}
	if r.TotalRecords > 0 {
		summary.SuccessRate = float64(r.SuccessfulImports) / float64(r.TotalRecords) * 100
		summary.ErrorRate = float64(r.FailedImports) / float64(r.TotalRecords) * 100
	}
	return summary
}

// Progress snapshots the counters of a run in flight.
func (r ImportResult) Progress() ImportProgress {
	return ImportProgress{
		ProcessedCount: int64(r.SuccessfulImports + r.FailedImports + r.SkippedRecords),
		ImportedCount:  int64(r.NewRecords),
		UpdatedCount:   int64(r.UpdatedRecords),
		SkippedCount:   int64(r.SkippedRecords),
		FailedCount:    int64(r.FailedImports),
	}
}

type ValidationOutcome struct {
	IsValid        bool            `json:"isValid"`
	Errors         []ImportError   `json:"errors"`
	Warnings       []ImportWarning `json:"warnings"`
	ValidRecords   int             `json:"validRecords"`
	InvalidRecords int             `json:"invalidRecords"`
	ValidatedAt    time.Time       `json:"validatedAt"`
}

type ImportStatistics struct {
	ExternalSystemID      string        `json:"externalSystemId,omitempty"`
	TotalImports          int64         `json:"totalImports"`
	TotalRecords          int64         `json:"totalRecords"`
	SuccessfulImports     int64         `json:"successfulImports"`
	FailedImports         int64         `json:"failedImports"`
	SkippedRecords        int64         `json:"skippedRecords"`
	SuccessRate           float64       `json:"successRate"`
	LastImportDate        *time.Time    `json:"lastImportDate,omitempty"`
	AverageProcessingTime time.Duration `json:"averageProcessingTime"`
}
