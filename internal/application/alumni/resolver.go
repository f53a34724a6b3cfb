package alumni

import (
	"context"
	"errors"
	"fmt"

	domain "github.com/mohammadpnp/alumni-sync/internal/domain/alumni"
)

type memberFinder interface {
	FindByExternalMemberID(ctx context.Context, memberID string) (*domain.Member, error)
	FindByMobilePhone(ctx context.Context, phone domain.MobilePhone) (*domain.Member, error)
}

// IdentityResolver looks a record up by member id first and falls back to
// the normalized mobile phone. A member id match always wins.
type IdentityResolver struct {
	store memberFinder
}

func NewIdentityResolver(store memberFinder) *IdentityResolver {
	return &IdentityResolver{store: store}
}

// FindExisting returns nil without error when no member matches.
func (r *IdentityResolver) FindExisting(ctx context.Context, identity domain.MemberIdentity) (*domain.Member, error) {
	member, err := r.store.FindByExternalMemberID(ctx, identity.ExternalMemberID)
	switch {
	case err == nil:
		return member, nil
	case !errors.Is(err, domain.ErrMemberNotFound):
		return nil, fmt.Errorf("find member by member id: %w", err)
	}

	if identity.MobilePhone.IsZero() {
		return nil, nil
	}

	member, err = r.store.FindByMobilePhone(ctx, identity.MobilePhone)
	switch {
	case err == nil:
		return member, nil
	case errors.Is(err, domain.ErrMemberNotFound):
		return nil, nil
	default:
		return nil, fmt.Errorf("find member by mobile phone: %w", err)
	}
}
