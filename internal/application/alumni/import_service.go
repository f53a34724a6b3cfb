package alumni

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	domain "github.com/mohammadpnp/alumni-sync/internal/domain/alumni"
)

// AlumniImporter is the inbound surface of the reconciliation pipeline.
type AlumniImporter interface {
	Run(ctx context.Context, req domain.ImportRequest) (domain.ImportResult, error)
	ValidateOnly(ctx context.Context, records []domain.ExternalAlumniRecord, externalSystemID string) domain.ValidationOutcome
	SyncOne(ctx context.Context, record domain.ExternalAlumniRecord, externalSystemID string) bool
	UpdateSingleRecord(ctx context.Context, memberID string, record domain.ExternalAlumniRecord, externalSystemID string) bool
}

// ProgressFunc is called after every processed chunk.
type ProgressFunc func(progress domain.ImportProgress)

type ImportServiceOption func(*ImportService)

func WithClock(now func() time.Time) ImportServiceOption {
	return func(s *ImportService) {
		s.now = now
	}
}

func WithBatchIDGenerator(generate func() (uuid.UUID, error)) ImportServiceOption {
	return func(s *ImportService) {
		s.newBatchID = generate
	}
}

// WithDefaultBatchSize sets the chunk size used when a request leaves it unset.
func WithDefaultBatchSize(size int) ImportServiceOption {
	return func(s *ImportService) {
		if size > 0 {
			s.defaultBatchSize = size
		}
	}
}

// WithResultRecorder stores every finished, non validate-only run.
func WithResultRecorder(recorder domain.ImportResultRecorder) ImportServiceOption {
	return func(s *ImportService) {
		s.recorder = recorder
	}
}

type ImportService struct {
	validator *RecordValidator
	detector  *DuplicateDetector
	resolver  *IdentityResolver
	upserter  *UpsertEngine
	recorder  domain.ImportResultRecorder
	requests  *validator.Validate
	log       zerolog.Logger

	defaultBatchSize int
	now              func() time.Time
	newBatchID       func() (uuid.UUID, error)
}

func NewImportService(store domain.MemberStore, log zerolog.Logger, opts ...ImportServiceOption) *ImportService {
	s := &ImportService{
		requests:         validator.New(),
		log:              log.With().Str("component", "alumni_import").Logger(),
		defaultBatchSize: domain.DefaultBatchSize,
		now:              time.Now,
		newBatchID:       uuid.NewRandom,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.validator = NewRecordValidator(s.now)
	s.detector = NewDuplicateDetector(s.now)
	s.resolver = NewIdentityResolver(store)
	s.upserter = NewUpsertEngine(store, s.now)

	return s
}

func (s *ImportService) Run(ctx context.Context, req domain.ImportRequest) (domain.ImportResult, error) {
	return s.RunWithProgress(ctx, req, nil)
}

// RunWithProgress deduplicates the batch once, then validates, resolves and
// upserts records chunk by chunk. Cancellation is checked between chunks and
// yields a partial result. Only request validation and batch id allocation
// fail the call.
func (s *ImportService) RunWithProgress(ctx context.Context, req domain.ImportRequest, onProgress ProgressFunc) (domain.ImportResult, error) {
	req.ExternalSystemID = strings.TrimSpace(req.ExternalSystemID)
	if req.Options.BatchSize == 0 {
		req.Options.BatchSize = s.defaultBatchSize
	}
	if err := s.requests.Struct(req); err != nil {
		return domain.ImportResult{}, fmt.Errorf("%w: %v", ErrInvalidImportRequest, err)
	}

	batchID, err := s.newBatchID()
	if err != nil {
		return domain.ImportResult{}, fmt.Errorf("%w: %v", ErrAllocateBatchID, err)
	}

	result := domain.ImportResult{
		TotalRecords:     len(req.Alumni),
		Errors:           []domain.ImportError{},
		Warnings:         []domain.ImportWarning{},
		StartedAt:        s.now().UTC(),
		ExternalSystemID: req.ExternalSystemID,
		BatchID:          batchID.String(),
	}

	log := s.log.With().
		Str("external_system_id", req.ExternalSystemID).
		Str("batch_id", result.BatchID).
		Logger()
	log.Info().Int("records", len(req.Alumni)).Bool("validate_only", req.Options.ValidateOnly).Msg("starting bulk import")

	dedup := s.detector.Dedupe(req.Alumni)
	result.Warnings = append(result.Warnings, dedup.Warnings...)
	result.SkippedRecords += dedup.Skipped

	if req.Options.ValidateOnly {
		s.validateRecords(dedup.Records, &result)
	} else {
		s.processChunks(ctx, log, dedup.Records, req, &result, onProgress)
	}

	result.ProcessedAt = s.now().UTC()
	result.ProcessingDuration = result.ProcessedAt.Sub(result.StartedAt)

	log.Info().
		Int("successful", result.SuccessfulImports).
		Int("failed", result.FailedImports).
		Int("skipped", result.SkippedRecords).
		Int("new", result.NewRecords).
		Int("updated", result.UpdatedRecords).
		Dur("duration", result.ProcessingDuration).
		Msg("bulk import finished")

	if s.recorder != nil && !req.Options.ValidateOnly {
		if err := s.recorder.Record(context.WithoutCancel(ctx), result); err != nil {
			log.Error().Err(err).Msg("record import result failed")
		}
	}

	return result, nil
}

// validateRecords classifies every record without touching the store:
// invalid records count as failed, valid ones as skipped.
func (s *ImportService) validateRecords(records []domain.ExternalAlumniRecord, result *domain.ImportResult) {
	for _, record := range records {
		validation := s.validator.Validate(record)
		result.Errors = append(result.Errors, validation.Errors...)
		result.Warnings = append(result.Warnings, validation.Warnings...)
		if validation.Valid() {
			result.SkippedRecords++
		} else {
			result.FailedImports++
		}
	}
}

func (s *ImportService) processChunks(
	ctx context.Context,
	log zerolog.Logger,
	records []domain.ExternalAlumniRecord,
	req domain.ImportRequest,
	result *domain.ImportResult,
	onProgress ProgressFunc,
) {
	chunkIndex := 0
	for chunk := range slices.Chunk(records, req.Options.BatchSize) {
		if ctx.Err() != nil {
			log.Warn().Int("chunk", chunkIndex).Msg("bulk import cancelled")
			return
		}

		// A started chunk is applied in full even if ctx is cancelled meanwhile.
		chunkCtx := context.WithoutCancel(ctx)
		halted := false
		for _, record := range chunk {
			report := s.processRecord(chunkCtx, log, record, req.ExternalSystemID, req.Options.OverwriteExisting)
			report.applyTo(result)
			if report.outcome == recordInvalid && !req.Options.SkipInvalidRecords {
				halted = true
				break
			}
		}

		if onProgress != nil {
			onProgress(result.Progress())
		}
		if halted {
			log.Warn().Int("chunk", chunkIndex).Msg("bulk import halted on invalid record")
			return
		}
		chunkIndex++
	}
}

type recordOutcome int

const (
	recordInvalid recordOutcome = iota + 1
	recordFailed
	recordSkipped
	recordCreated
	recordUpdated
)

type recordReport struct {
	outcome  recordOutcome
	errors   []domain.ImportError
	warnings []domain.ImportWarning
}

func (r recordReport) applyTo(result *domain.ImportResult) {
	result.Errors = append(result.Errors, r.errors...)
	result.Warnings = append(result.Warnings, r.warnings...)

	switch r.outcome {
	case recordInvalid, recordFailed:
		result.FailedImports++
	case recordSkipped:
		result.SkippedRecords++
	case recordCreated:
		result.SuccessfulImports++
		result.NewRecords++
	case recordUpdated:
		result.SuccessfulImports++
		result.UpdatedRecords++
	}
}

// processRecord never returns an error: store failures and panics become a
// PROCESSING_ERROR entry for this record only.
func (s *ImportService) processRecord(
	ctx context.Context,
	log zerolog.Logger,
	record domain.ExternalAlumniRecord,
	externalSystemID string,
	overwriteExisting bool,
) (report recordReport) {
	validation := s.validator.Validate(record)
	report.errors = validation.Errors
	report.warnings = validation.Warnings
	if !validation.Valid() {
		report.outcome = recordInvalid
		return report
	}

	defer func() {
		if r := recover(); r != nil {
			report = s.processingFailure(log, record, report, fmt.Errorf("panic: %v", r))
		}
	}()

	existing, err := s.resolver.FindExisting(ctx, domain.MemberIdentity{
		ExternalMemberID: strings.TrimSpace(record.MemberID),
		MobilePhone:      validation.Phone,
	})
	if err != nil {
		return s.processingFailure(log, record, report, err)
	}

	if existing != nil && !overwriteExisting {
		report.outcome = recordSkipped
		return report
	}

	_, outcome, err := s.upserter.Upsert(ctx, record, externalSystemID, validation.Phone, existing)
	if err != nil {
		return s.processingFailure(log, record, report, err)
	}

	log.Debug().Str("member_id", record.MemberID).Stringer("outcome", outcome).Msg("alumni record synced")
	if outcome == OutcomeCreated {
		report.outcome = recordCreated
	} else {
		report.outcome = recordUpdated
	}
	return report
}

func (s *ImportService) processingFailure(log zerolog.Logger, record domain.ExternalAlumniRecord, report recordReport, err error) recordReport {
	log.Error().Err(err).Str("member_id", record.MemberID).Msg("process alumni record failed")
	report.errors = append(report.errors, newImportError(s.now().UTC(), record.ReportingID(), "General", err.Error(), "", domain.CodeProcessingError))
	report.outcome = recordFailed
	return report
}

// ValidateOnly is a dry run over the records as given, without
// deduplication or persistence.
func (s *ImportService) ValidateOnly(ctx context.Context, records []domain.ExternalAlumniRecord, externalSystemID string) domain.ValidationOutcome {
	s.log.Info().Int("records", len(records)).Str("external_system_id", externalSystemID).Msg("validating alumni records")

	outcome := domain.ValidationOutcome{
		Errors:   []domain.ImportError{},
		Warnings: []domain.ImportWarning{},
	}
	for _, record := range records {
		validation := s.validator.Validate(record)
		outcome.Errors = append(outcome.Errors, validation.Errors...)
		outcome.Warnings = append(outcome.Warnings, validation.Warnings...)
		if validation.Valid() {
			outcome.ValidRecords++
		}
	}

	outcome.InvalidRecords = len(records) - outcome.ValidRecords
	outcome.IsValid = len(outcome.Errors) == 0
	outcome.ValidatedAt = s.now().UTC()
	return outcome
}

// SyncOne validates and upserts a single record, overwriting any existing
// member it resolves to.
func (s *ImportService) SyncOne(ctx context.Context, record domain.ExternalAlumniRecord, externalSystemID string) bool {
	log := s.log.With().Str("external_system_id", externalSystemID).Logger()

	var result domain.ImportResult
	report := s.processRecord(ctx, log, record, externalSystemID, true)
	report.applyTo(&result)

	if report.outcome == recordInvalid {
		messages := make([]string, 0, len(report.errors))
		for _, e := range report.errors {
			messages = append(messages, e.Message)
		}
		log.Warn().Str("member_id", record.ReportingID()).Strs("errors", messages).Msg("invalid alumni record")
	}

	return result.FailedImports == 0
}

// UpdateSingleRecord syncs record under the given member id.
func (s *ImportService) UpdateSingleRecord(ctx context.Context, memberID string, record domain.ExternalAlumniRecord, externalSystemID string) bool {
	record.MemberID = memberID
	return s.SyncOne(ctx, record, externalSystemID)
}
