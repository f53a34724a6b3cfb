package alumni_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	app "github.com/mohammadpnp/alumni-sync/internal/application/alumni"
	domain "github.com/mohammadpnp/alumni-sync/internal/domain/alumni"
)

type fakeMemberQueryRepo struct {
	member    *domain.Member
	returnErr error
	gotID     string
}

func (f *fakeMemberQueryRepo) GetByMemberID(ctx context.Context, memberID string) (*domain.Member, error) {
	f.gotID = memberID
	if f.returnErr != nil {
		return nil, f.returnErr
	}
	return f.member, nil
}

func TestGetMemberSuccess(t *testing.T) {
	t.Parallel()

	year := 2015
	synced := time.Date(2025, 5, 30, 8, 0, 0, 0, time.UTC)
	repo := &fakeMemberQueryRepo{member: &domain.Member{
		ID:             "7b0c5b8e-51f4-4b44-9a43-1e2a0f0f9d11",
		MemberID:       "M-001",
		Firstname:      "Somchai",
		Lastname:       "Jaidee",
		NameInYearbook: "Somchai J.",
		Email:          "somchai@example.com",
		MobilePhone:    "66812345678",
		Profile: &domain.AlumniProfile{
			ExternalSystemID:     "backoffice",
			ExternalDataLastSync: synced,
			ProfileDetails: domain.ProfileDetails{
				CompanyName:    "Siam Logistics",
				Country:        "Thailand",
				GraduationYear: &year,
			},
		},
	}}

	out, err := app.NewGetMember(repo).Execute(context.Background(), app.GetMemberInput{MemberID: " M-001 "})

	require.NoError(t, err)
	assert.Equal(t, "M-001", repo.gotID)
	assert.Equal(t, "Somchai J.", out.DisplayName)
	assert.Equal(t, "08-1234-5678", out.MobilePhone)
	assert.Equal(t, "AIS", out.NetworkOperator)
	require.NotNil(t, out.Profile)
	assert.Equal(t, "Siam Logistics", out.Profile.CompanyName)
	assert.Equal(t, synced, out.Profile.ExternalDataLastSync)
	assert.Equal(t, &year, out.Profile.GraduationYear)
}

func TestGetMemberWithoutPhoneOrProfile(t *testing.T) {
	t.Parallel()

	repo := &fakeMemberQueryRepo{member: &domain.Member{ID: "1", MemberID: "M-002"}}

	out, err := app.NewGetMember(repo).Execute(context.Background(), app.GetMemberInput{MemberID: "M-002"})

	require.NoError(t, err)
	assert.Empty(t, out.MobilePhone)
	assert.Empty(t, out.NetworkOperator)
	assert.Nil(t, out.Profile)
}

func TestGetMemberInvalidID(t *testing.T) {
	t.Parallel()

	for _, id := range []string{"", "has space", "semi;colon"} {
		_, err := app.NewGetMember(&fakeMemberQueryRepo{}).Execute(context.Background(), app.GetMemberInput{MemberID: id})
		assert.ErrorIs(t, err, app.ErrInvalidMemberID, id)
	}
}

func TestGetMemberNotFound(t *testing.T) {
	t.Parallel()

	_, err := app.NewGetMember(&fakeMemberQueryRepo{returnErr: domain.ErrMemberNotFound}).Execute(context.Background(), app.GetMemberInput{MemberID: "M-404"})

	assert.ErrorIs(t, err, app.ErrMemberNotFound)
}

func TestGetMemberRepositoryError(t *testing.T) {
	t.Parallel()

	_, err := app.NewGetMember(&fakeMemberQueryRepo{returnErr: errors.New("db down")}).Execute(context.Background(), app.GetMemberInput{MemberID: "M-500"})

	assert.ErrorIs(t, err, app.ErrGetMember)
}
