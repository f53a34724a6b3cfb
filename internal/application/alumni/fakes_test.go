package alumni_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	app "github.com/mohammadpnp/alumni-sync/internal/application/alumni"
	domain "github.com/mohammadpnp/alumni-sync/internal/domain/alumni"
)

var fixedNow = time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)

func clock() time.Time {
	return fixedNow
}

type fakeMemberStore struct {
	mu        sync.Mutex
	members   map[string]*domain.Member
	nextID    int
	creates   int
	updates   int
	lookups   []string
	failOn    map[string]error
	panicOn   map[string]bool
	lookupErr error
}

func newFakeMemberStore() *fakeMemberStore {
	return &fakeMemberStore{
		members: make(map[string]*domain.Member),
		failOn:  make(map[string]error),
		panicOn: make(map[string]bool),
	}
}

func (f *fakeMemberStore) seed(memberID string, phone domain.MobilePhone, email string) *domain.Member {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	member := &domain.Member{
		ID:          fmt.Sprintf("seed-%d", f.nextID),
		MemberID:    memberID,
		Email:       email,
		MobilePhone: phone,
	}
	f.members[member.ID] = member
	return member
}

func (f *fakeMemberStore) FindByExternalMemberID(ctx context.Context, memberID string) (*domain.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.lookups = append(f.lookups, "id:"+memberID)
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	for _, m := range f.members {
		if m.MemberID == memberID {
			clone := *m
			return &clone, nil
		}
	}
	return nil, domain.ErrMemberNotFound
}

func (f *fakeMemberStore) FindByMobilePhone(ctx context.Context, phone domain.MobilePhone) (*domain.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.lookups = append(f.lookups, "phone:"+phone.String())
	for _, m := range f.members {
		if m.MobilePhone == phone {
			clone := *m
			return &clone, nil
		}
	}
	return nil, domain.ErrMemberNotFound
}

func (f *fakeMemberStore) CreateMemberWithProfile(ctx context.Context, member domain.MemberFields, profile domain.ProfileFields) (*domain.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.panicOn[member.MemberID] {
		panic("mapping failure")
	}
	if err := f.failOn[member.MemberID]; err != nil {
		return nil, err
	}

	f.creates++
	f.nextID++
	created := &domain.Member{
		ID:             fmt.Sprintf("member-%d", f.nextID),
		MemberID:       member.MemberID,
		Firstname:      member.Firstname,
		Lastname:       member.Lastname,
		NameInYearbook: member.NameInYearbook,
		Email:          member.Email,
		MobilePhone:    member.MobilePhone,
		Profile:        profileFrom(profile),
	}
	f.members[created.ID] = created
	clone := *created
	return &clone, nil
}

func (f *fakeMemberStore) UpdateMemberWithProfile(ctx context.Context, existing *domain.Member, member domain.MemberFields, profile domain.ProfileFields) (*domain.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.failOn[member.MemberID]; err != nil {
		return nil, err
	}

	stored, ok := f.members[existing.ID]
	if !ok {
		return nil, domain.ErrMemberNotFound
	}

	f.updates++
	stored.MemberID = member.MemberID
	stored.Firstname = member.Firstname
	stored.Lastname = member.Lastname
	stored.NameInYearbook = member.NameInYearbook
	stored.Email = member.Email
	stored.MobilePhone = member.MobilePhone
	stored.Profile = profileFrom(profile)
	clone := *stored
	return &clone, nil
}

func (f *fakeMemberStore) byMemberID(memberID string) *domain.Member {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, m := range f.members {
		if m.MemberID == memberID {
			return m
		}
	}
	return nil
}

func profileFrom(fields domain.ProfileFields) *domain.AlumniProfile {
	return &domain.AlumniProfile{
		ExternalMemberID:     fields.ExternalMemberID,
		ExternalSystemID:     fields.ExternalSystemID,
		ExternalDataLastSync: fields.LastSyncedAt,
		ProfileDetails:       fields.Details,
	}
}

type fakeRecorder struct {
	results []domain.ImportResult
	err     error
}

func (f *fakeRecorder) Record(ctx context.Context, result domain.ImportResult) error {
	f.results = append(f.results, result)
	return f.err
}

func newService(store domain.MemberStore, opts ...app.ImportServiceOption) *app.ImportService {
	opts = append([]app.ImportServiceOption{app.WithClock(clock)}, opts...)
	return app.NewImportService(store, zerolog.Nop(), opts...)
}

func record(memberID, name, phone string) domain.ExternalAlumniRecord {
	return domain.ExternalAlumniRecord{MemberID: memberID, NameInYearbook: name, MobilePhone: phone}
}

func request(records ...domain.ExternalAlumniRecord) domain.ImportRequest {
	return domain.ImportRequest{
		ExternalSystemID: "backoffice",
		Alumni:           records,
		Options:          domain.DefaultImportOptions(),
	}
}

func errorCodes(errs []domain.ImportError) []string {
	codes := make([]string, 0, len(errs))
	for _, e := range errs {
		codes = append(codes, e.Field+":"+string(e.ErrorCode))
	}
	return codes
}

func hasLookup(store *fakeMemberStore, prefix string) bool {
	store.mu.Lock()
	defer store.mu.Unlock()

	for _, l := range store.lookups {
		if strings.HasPrefix(l, prefix) {
			return true
		}
	}
	return false
}
