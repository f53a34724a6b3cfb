package alumni

import (
	"context"
	"fmt"
	"strings"
	"time"

	domain "github.com/mohammadpnp/alumni-sync/internal/domain/alumni"
)

type UpsertOutcome int

const (
	OutcomeCreated UpsertOutcome = iota + 1
	OutcomeUpdated
)

func (o UpsertOutcome) String() string {
	switch o {
	case OutcomeCreated:
		return "created"
	case OutcomeUpdated:
		return "updated"
	default:
		return "unknown"
	}
}

type memberWriter interface {
	CreateMemberWithProfile(ctx context.Context, member domain.MemberFields, profile domain.ProfileFields) (*domain.Member, error)
	UpdateMemberWithProfile(ctx context.Context, existing *domain.Member, member domain.MemberFields, profile domain.ProfileFields) (*domain.Member, error)
}

// UpsertEngine persists an already validated record.
type UpsertEngine struct {
	store memberWriter
	now   func() time.Time
}

func NewUpsertEngine(store memberWriter, now func() time.Time) *UpsertEngine {
	if now == nil {
		now = time.Now
	}
	return &UpsertEngine{store: store, now: now}
}

func (e *UpsertEngine) Upsert(
	ctx context.Context,
	record domain.ExternalAlumniRecord,
	externalSystemID string,
	phone domain.MobilePhone,
	existing *domain.Member,
) (*domain.Member, UpsertOutcome, error) {
	profile := profileFieldsFromRecord(record, externalSystemID, e.now().UTC())

	if existing == nil {
		member, err := e.store.CreateMemberWithProfile(ctx, memberFieldsFromRecord(record, phone), profile)
		if err != nil {
			return nil, 0, fmt.Errorf("create member with profile: %w", err)
		}
		return member, OutcomeCreated, nil
	}

	fields := memberFieldsFromRecord(record, existing.MobilePhone)
	if strings.TrimSpace(record.Email) == "" {
		fields.Email = existing.Email
	}

	member, err := e.store.UpdateMemberWithProfile(ctx, existing, fields, profile)
	if err != nil {
		return nil, 0, fmt.Errorf("update member with profile: %w", err)
	}
	return member, OutcomeUpdated, nil
}

func memberFieldsFromRecord(record domain.ExternalAlumniRecord, phone domain.MobilePhone) domain.MemberFields {
	return domain.MemberFields{
		MemberID:       strings.TrimSpace(record.MemberID),
		Firstname:      record.Firstname,
		Lastname:       record.Lastname,
		NameInYearbook: record.DisplayName(),
		Email:          record.Email,
		MobilePhone:    phone,
	}
}

func profileFieldsFromRecord(record domain.ExternalAlumniRecord, externalSystemID string, syncedAt time.Time) domain.ProfileFields {
	return domain.ProfileFields{
		ExternalMemberID: strings.TrimSpace(record.MemberID),
		ExternalSystemID: externalSystemID,
		LastSyncedAt:     syncedAt,
		Details:          record.Details(),
	}
}
