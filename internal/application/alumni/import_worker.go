package alumni

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	domain "github.com/mohammadpnp/alumni-sync/internal/domain/alumni"
)

type ImportSource interface {
	Open(ctx context.Context, sourcePath string) (io.ReadCloser, error)
}

type importRunner interface {
	RunWithProgress(ctx context.Context, req domain.ImportRequest, onProgress ProgressFunc) (domain.ImportResult, error)
}

type importWorkerJobRepo interface {
	ClaimNext(ctx context.Context, leaseDuration time.Duration) (*domain.ImportJob, error)
	Heartbeat(ctx context.Context, jobID string, leaseDuration time.Duration) error
	UpdateProgress(ctx context.Context, jobID string, progress domain.ImportProgress) error
	Complete(ctx context.Context, jobID string, result domain.ImportResult) error
	Requeue(ctx context.Context, jobID string, reason string) error
	Fail(ctx context.Context, jobID string, reason string) error
}

type ImportWorkerConfig struct {
	Workers           int
	PollInterval      time.Duration
	LeaseDuration     time.Duration
	HeartbeatInterval time.Duration
}

// ImportWorker claims queued file imports and runs them through the
// reconciliation pipeline.
type ImportWorker struct {
	repo   importWorkerJobRepo
	source ImportSource
	runner importRunner
	cfg    ImportWorkerConfig
	log    zerolog.Logger

	once sync.Once
}

func NewImportWorker(repo importWorkerJobRepo, source ImportSource, runner importRunner, log zerolog.Logger, cfg ImportWorkerConfig) *ImportWorker {
	if cfg.Workers <= 0 {
		cfg.Workers = 2
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 500 * time.Millisecond
	}
	if cfg.LeaseDuration <= 0 {
		cfg.LeaseDuration = 60 * time.Second
	}
	if cfg.HeartbeatInterval <= 0 {
		cfg.HeartbeatInterval = cfg.LeaseDuration / 2
	}

	return &ImportWorker{
		repo:   repo,
		source: source,
		runner: runner,
		cfg:    cfg,
		log:    log.With().Str("component", "import_worker").Logger(),
	}
}

func (w *ImportWorker) Start(ctx context.Context) {
	w.once.Do(func() {
		w.log.Info().Int("workers", w.cfg.Workers).Msg("starting import workers")
		for i := 0; i < w.cfg.Workers; i++ {
			go w.workerLoop(ctx, i)
		}
	})
}

func (w *ImportWorker) workerLoop(ctx context.Context, id int) {
	log := w.log.With().Int("worker_id", id).Logger()

	for {
		select {
		case <-ctx.Done():
			log.Debug().Msg("worker stopping")
			return
		default:
		}

		job, err := w.repo.ClaimNext(ctx, w.cfg.LeaseDuration)
		if err != nil {
			log.Error().Err(err).Msg("claim next import job failed")
			if !sleepWithContext(ctx, w.cfg.PollInterval) {
				return
			}
			continue
		}

		if job == nil {
			if !sleepWithContext(ctx, w.cfg.PollInterval) {
				return
			}
			continue
		}

		if err := w.ProcessJob(ctx, *job); err != nil {
			log.Error().Err(err).Str("job_id", job.ID).Msg("process import job failed")
		}
	}
}

func (w *ImportWorker) ProcessJob(ctx context.Context, job domain.ImportJob) error {
	log := w.log.With().Str("job_id", job.ID).Str("external_system_id", job.ExternalSystemID).Logger()

	// Bookkeeping must reach the job row even while ctx is being cancelled.
	bookkeeping := context.WithoutCancel(ctx)

	records, err := w.readRecords(ctx, job)
	if err != nil {
		return w.onProcessingError(bookkeeping, job, err)
	}
	log.Info().Int("records", len(records)).Msg("import source decoded")

	result, err := w.runner.RunWithProgress(ctx, domain.ImportRequest{
		ExternalSystemID: job.ExternalSystemID,
		Alumni:           records,
		Options:          job.Options,
	}, func(progress domain.ImportProgress) {
		if err := w.repo.UpdateProgress(bookkeeping, job.ID, progress); err != nil {
			log.Error().Err(err).Msg("update import progress failed")
		}
		if err := w.repo.Heartbeat(bookkeeping, job.ID, w.cfg.LeaseDuration); err != nil {
			log.Error().Err(err).Msg("import job heartbeat failed")
		}
	})
	if err != nil {
		return w.onProcessingError(bookkeeping, job, fmt.Errorf("run import: %w", err))
	}

	if ctx.Err() != nil {
		return w.onProcessingError(bookkeeping, job, fmt.Errorf("import interrupted after %d of %d records: %w",
			result.Progress().ProcessedCount, result.TotalRecords, ctx.Err()))
	}

	if err := w.repo.UpdateProgress(bookkeeping, job.ID, result.Progress()); err != nil {
		return w.onProcessingError(bookkeeping, job, fmt.Errorf("update final progress: %w", err))
	}

	if err := w.repo.Complete(bookkeeping, job.ID, result); err != nil {
		return w.onProcessingError(bookkeeping, job, fmt.Errorf("complete job: %w", err))
	}

	log.Info().Str("batch_id", result.BatchID).Int("failed", result.FailedImports).Msg("import job completed")
	return nil
}

// readRecords decodes the source as a JSON array of alumni records.
func (w *ImportWorker) readRecords(ctx context.Context, job domain.ImportJob) ([]domain.ExternalAlumniRecord, error) {
	reader, err := w.source.Open(ctx, job.SourcePath)
	if err != nil {
		return nil, fmt.Errorf("open import source: %w", err)
	}
	defer reader.Close()

	dec := json.NewDecoder(reader)

	token, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("read json start token: %w", err)
	}

	delim, ok := token.(json.Delim)
	if !ok || delim != '[' {
		return nil, errors.New("import payload must be a JSON array")
	}

	ticker := time.NewTicker(w.cfg.HeartbeatInterval)
	defer ticker.Stop()

	records := make([]domain.ExternalAlumniRecord, 0)
	for dec.More() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
			if err := w.repo.Heartbeat(ctx, job.ID, w.cfg.LeaseDuration); err != nil {
				return nil, fmt.Errorf("heartbeat: %w", err)
			}
		default:
		}

		var record domain.ExternalAlumniRecord
		if err := dec.Decode(&record); err != nil {
			return nil, fmt.Errorf("decode alumni record at index %d: %w", len(records), err)
		}
		records = append(records, record)
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("read json end token: %w", err)
	}

	return records, nil
}

func (w *ImportWorker) onProcessingError(ctx context.Context, job domain.ImportJob, err error) error {
	reason := truncateReason(err.Error())
	if job.Attempts < job.MaxAttempts && !errors.Is(err, ErrInvalidImportRequest) {
		if requeueErr := w.repo.Requeue(ctx, job.ID, reason); requeueErr != nil {
			return fmt.Errorf("%v; requeue failed: %w", err, requeueErr)
		}
		return err
	}

	if failErr := w.repo.Fail(ctx, job.ID, reason); failErr != nil {
		return fmt.Errorf("%v; fail update failed: %w", err, failErr)
	}
	return err
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func truncateReason(reason string) string {
	const maxLen = 1000
	reason = strings.TrimSpace(reason)
	if len(reason) <= maxLen {
		return reason
	}
	return reason[:maxLen]
}
