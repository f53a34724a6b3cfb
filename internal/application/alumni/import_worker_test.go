package alumni_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	app "github.com/mohammadpnp/alumni-sync/internal/application/alumni"
	domain "github.com/mohammadpnp/alumni-sync/internal/domain/alumni"
)

type fakeWorkerRepo struct {
	mu             sync.Mutex
	claimedJob     *domain.ImportJob
	claimErr       error
	progressCalls  []domain.ImportProgress
	heartbeats     int
	completeResult *domain.ImportResult
	requeueCalled  bool
	failCalled     bool
	failMessage    string
}

func (f *fakeWorkerRepo) ClaimNext(ctx context.Context, leaseDuration time.Duration) (*domain.ImportJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.claimErr != nil {
		return nil, f.claimErr
	}
	job := f.claimedJob
	f.claimedJob = nil
	return job, nil
}

func (f *fakeWorkerRepo) Heartbeat(ctx context.Context, jobID string, leaseDuration time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.heartbeats++
	return nil
}

func (f *fakeWorkerRepo) UpdateProgress(ctx context.Context, jobID string, progress domain.ImportProgress) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.progressCalls = append(f.progressCalls, progress)
	return nil
}

func (f *fakeWorkerRepo) Complete(ctx context.Context, jobID string, result domain.ImportResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.completeResult = &result
	return nil
}

func (f *fakeWorkerRepo) Requeue(ctx context.Context, jobID string, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	f.requeueCalled = true
	f.failMessage = reason
	return nil
}

func (f *fakeWorkerRepo) Fail(ctx context.Context, jobID string, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	f.failCalled = true
	f.failMessage = reason
	return nil
}

func (f *fakeWorkerRepo) completed() *domain.ImportResult {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.completeResult
}

type fakeSource struct {
	data string
	err  error
}

func (f *fakeSource) Open(ctx context.Context, sourcePath string) (io.ReadCloser, error) {
	if f.err != nil {
		return nil, f.err
	}
	return io.NopCloser(strings.NewReader(f.data)), nil
}

type fakeRunner struct {
	err     error
	request domain.ImportRequest
}

func (f *fakeRunner) RunWithProgress(ctx context.Context, req domain.ImportRequest, onProgress app.ProgressFunc) (domain.ImportResult, error) {
	f.request = req
	if f.err != nil {
		return domain.ImportResult{}, f.err
	}
	return domain.ImportResult{TotalRecords: len(req.Alumni)}, nil
}

const workerPayload = `[
  {"memberID":"M-1","nameInYearbook":"Somchai","mobilePhone":"081-234-5678","email":"somchai@example.com"},
  {"memberID":"M-2","nameInYearbook":"","firstname":"","mobilePhone":"0823456789"},
  {"memberID":"M-1","nameInYearbook":"Somchai again"}
]`

func TestImportWorkerProcessJobSuccess(t *testing.T) {
	t.Parallel()

	repo := &fakeWorkerRepo{}
	store := newFakeMemberStore()
	options := domain.DefaultImportOptions()
	options.BatchSize = 1

	worker := app.NewImportWorker(repo, &fakeSource{data: workerPayload}, newService(store), zerolog.Nop(), app.ImportWorkerConfig{LeaseDuration: 30 * time.Second})

	err := worker.ProcessJob(context.Background(), domain.ImportJob{
		ID:               "job-1",
		SourcePath:       "alumni.json",
		ExternalSystemID: "backoffice",
		Options:          options,
		Attempts:         1,
		MaxAttempts:      5,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	result := repo.completed()
	if result == nil {
		t.Fatal("expected complete result")
	}
	if result.TotalRecords != 3 {
		t.Fatalf("expected total=3, got %d", result.TotalRecords)
	}
	if result.NewRecords != 1 {
		t.Fatalf("expected new=1, got %d", result.NewRecords)
	}
	if result.FailedImports != 1 {
		t.Fatalf("expected failed=1, got %d", result.FailedImports)
	}
	if result.SkippedRecords != 1 {
		t.Fatalf("expected skipped=1, got %d", result.SkippedRecords)
	}
	if result.ExternalSystemID != "backoffice" {
		t.Fatalf("unexpected external system id: %s", result.ExternalSystemID)
	}
	// two chunks plus the final snapshot
	if len(repo.progressCalls) != 3 {
		t.Fatalf("expected 3 progress updates, got %d", len(repo.progressCalls))
	}
	if last := repo.progressCalls[len(repo.progressCalls)-1]; last.ProcessedCount != 3 {
		t.Fatalf("expected processed=3, got %d", last.ProcessedCount)
	}
	if repo.heartbeats < 2 {
		t.Fatalf("expected heartbeat per chunk, got %d", repo.heartbeats)
	}
	if store.byMemberID("M-1") == nil {
		t.Fatal("expected member M-1 to be stored")
	}
}

func TestImportWorkerProcessJobRetryableFailure(t *testing.T) {
	t.Parallel()

	repo := &fakeWorkerRepo{}
	runner := &fakeRunner{err: errors.New("connection reset")}

	worker := app.NewImportWorker(repo, &fakeSource{data: workerPayload}, runner, zerolog.Nop(), app.ImportWorkerConfig{LeaseDuration: 30 * time.Second})

	err := worker.ProcessJob(context.Background(), domain.ImportJob{ID: "job-1", SourcePath: "alumni.json", ExternalSystemID: "backoffice", Attempts: 1, MaxAttempts: 3})
	if err == nil {
		t.Fatal("expected error")
	}
	if !repo.requeueCalled {
		t.Fatal("expected requeue to be called")
	}
	if repo.failCalled {
		t.Fatal("did not expect fail to be called")
	}
	if len(runner.request.Alumni) != 3 {
		t.Fatalf("expected 3 decoded records, got %d", len(runner.request.Alumni))
	}
}

func TestImportWorkerProcessJobTerminalFailure(t *testing.T) {
	t.Parallel()

	repo := &fakeWorkerRepo{}
	runner := &fakeRunner{err: errors.New("connection reset")}

	worker := app.NewImportWorker(repo, &fakeSource{data: workerPayload}, runner, zerolog.Nop(), app.ImportWorkerConfig{LeaseDuration: 30 * time.Second})

	err := worker.ProcessJob(context.Background(), domain.ImportJob{ID: "job-1", SourcePath: "alumni.json", ExternalSystemID: "backoffice", Attempts: 3, MaxAttempts: 3})
	if err == nil {
		t.Fatal("expected error")
	}
	if !repo.failCalled {
		t.Fatal("expected fail to be called")
	}
	if repo.requeueCalled {
		t.Fatal("did not expect requeue to be called")
	}
}

func TestImportWorkerInvalidRequestIsNotRetried(t *testing.T) {
	t.Parallel()

	repo := &fakeWorkerRepo{}
	runner := &fakeRunner{err: app.ErrInvalidImportRequest}

	worker := app.NewImportWorker(repo, &fakeSource{data: `[]`}, runner, zerolog.Nop(), app.ImportWorkerConfig{})

	err := worker.ProcessJob(context.Background(), domain.ImportJob{ID: "job-1", SourcePath: "alumni.json", Attempts: 1, MaxAttempts: 5})
	if !errors.Is(err, app.ErrInvalidImportRequest) {
		t.Fatalf("expected ErrInvalidImportRequest, got %v", err)
	}
	if !repo.failCalled || repo.requeueCalled {
		t.Fatalf("expected fail without requeue, fail=%v requeue=%v", repo.failCalled, repo.requeueCalled)
	}
}

func TestImportWorkerRejectsNonArrayPayload(t *testing.T) {
	t.Parallel()

	repo := &fakeWorkerRepo{}
	runner := &fakeRunner{}

	worker := app.NewImportWorker(repo, &fakeSource{data: `{"memberID":"M-1"}`}, runner, zerolog.Nop(), app.ImportWorkerConfig{})

	err := worker.ProcessJob(context.Background(), domain.ImportJob{ID: "job-1", SourcePath: "alumni.json", Attempts: 1, MaxAttempts: 1})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(repo.failMessage, "JSON array") {
		t.Fatalf("unexpected fail message: %s", repo.failMessage)
	}
	if repo.completeResult != nil {
		t.Fatal("did not expect completion")
	}
}

func TestImportWorkerSourceOpenFailureRequeues(t *testing.T) {
	t.Parallel()

	repo := &fakeWorkerRepo{}

	worker := app.NewImportWorker(repo, &fakeSource{err: errors.New("no such file")}, &fakeRunner{}, zerolog.Nop(), app.ImportWorkerConfig{})

	err := worker.ProcessJob(context.Background(), domain.ImportJob{ID: "job-1", SourcePath: "missing.json", Attempts: 1, MaxAttempts: 3})
	if err == nil {
		t.Fatal("expected error")
	}
	if !repo.requeueCalled {
		t.Fatal("expected requeue to be called")
	}
}

func TestImportWorkerStartProcessesClaimedJob(t *testing.T) {
	t.Parallel()

	repo := &fakeWorkerRepo{claimedJob: &domain.ImportJob{
		ID:               "job-9",
		SourcePath:       "alumni.json",
		ExternalSystemID: "backoffice",
		Options:          domain.DefaultImportOptions(),
		Attempts:         1,
		MaxAttempts:      5,
	}}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	worker := app.NewImportWorker(repo, &fakeSource{data: workerPayload}, &fakeRunner{}, zerolog.Nop(), app.ImportWorkerConfig{
		Workers:      1,
		PollInterval: 5 * time.Millisecond,
	})
	worker.Start(ctx)

	deadline := time.After(2 * time.Second)
	for repo.completed() == nil {
		select {
		case <-deadline:
			t.Fatal("timed out waiting for job completion")
		case <-time.After(5 * time.Millisecond):
		}
	}

	if got := repo.completed().TotalRecords; got != 3 {
		t.Fatalf("expected total=3, got %d", got)
	}
}

func TestImportWorkerCancelledDecodeStillRequeues(t *testing.T) {
	t.Parallel()

	repo := &fakeWorkerRepo{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	worker := app.NewImportWorker(repo, &fakeSource{data: workerPayload}, &fakeRunner{}, zerolog.Nop(), app.ImportWorkerConfig{})

	err := worker.ProcessJob(ctx, domain.ImportJob{ID: "job-1", SourcePath: "alumni.json", Attempts: 1, MaxAttempts: 3})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if strings.Contains(err.Error(), "requeue failed") {
		t.Fatalf("requeue should not fail on shutdown: %v", err)
	}
	if !repo.requeueCalled {
		t.Fatal("expected requeue to be called")
	}
}

func TestImportWorkerCancelledDecodeOnLastAttemptFails(t *testing.T) {
	t.Parallel()

	repo := &fakeWorkerRepo{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	worker := app.NewImportWorker(repo, &fakeSource{data: workerPayload}, &fakeRunner{}, zerolog.Nop(), app.ImportWorkerConfig{})

	err := worker.ProcessJob(ctx, domain.ImportJob{ID: "job-1", SourcePath: "alumni.json", Attempts: 3, MaxAttempts: 3})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if !repo.failCalled {
		t.Fatal("expected fail to be called so the job does not stay running")
	}
}
