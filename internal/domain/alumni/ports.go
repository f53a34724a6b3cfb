package alumni

import "context"

// MemberStore is the persistence collaborator of the import pipeline.
// Lookups return ErrMemberNotFound when nothing matches.
type MemberStore interface {
	FindByExternalMemberID(ctx context.Context, memberID string) (*Member, error)
	FindByMobilePhone(ctx context.Context, phone MobilePhone) (*Member, error)
	CreateMemberWithProfile(ctx context.Context, member MemberFields, profile ProfileFields) (*Member, error)
	UpdateMemberWithProfile(ctx context.Context, existing *Member, member MemberFields, profile ProfileFields) (*Member, error)
}

type MemberQueryRepository interface {
	GetByMemberID(ctx context.Context, memberID string) (*Member, error)
}

type ImportJobRepository interface {
	Enqueue(ctx context.Context, job NewImportJob) (string, error)
	Get(ctx context.Context, jobID string) (*ImportJob, error)
}

type ImportResultRecorder interface {
	Record(ctx context.Context, result ImportResult) error
}

type ImportResultReader interface {
	Get(ctx context.Context, batchID string) (ImportResult, error)
	Statistics(ctx context.Context, externalSystemID string) (ImportStatistics, error)
}
