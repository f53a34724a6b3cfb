package alumni

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	domain "github.com/mohammadpnp/alumni-sync/internal/domain/alumni"
)

var memberIDPattern = regexp.MustCompile(`^[A-Za-z0-9._-]{1,64}$`)

type GetMemberInput struct {
	MemberID string
}

type GetMemberProfileOutput struct {
	ExternalSystemID     string    `json:"external_system_id"`
	ExternalDataLastSync time.Time `json:"external_data_last_sync"`
	CompanyName          string    `json:"company_name,omitempty"`
	JobTitle             string    `json:"job_title,omitempty"`
	Province             string    `json:"province,omitempty"`
	Country              string    `json:"country,omitempty"`
	GraduationYear       *int      `json:"graduation_year,omitempty"`
	Major                string    `json:"major,omitempty"`
	ClassName            string    `json:"class_name,omitempty"`
}

type GetMemberOutput struct {
	ID              string                  `json:"id"`
	MemberID        string                  `json:"member_id"`
	DisplayName     string                  `json:"display_name"`
	Firstname       string                  `json:"firstname"`
	Lastname        string                  `json:"lastname"`
	Email           string                  `json:"email"`
	MobilePhone     string                  `json:"mobile_phone"`
	NetworkOperator string                  `json:"network_operator,omitempty"`
	Profile         *GetMemberProfileOutput `json:"profile,omitempty"`
}

type GetMember interface {
	Execute(ctx context.Context, in GetMemberInput) (GetMemberOutput, error)
}

type getMember struct {
	repo domain.MemberQueryRepository
}

func NewGetMember(repo domain.MemberQueryRepository) GetMember {
	return &getMember{repo: repo}
}

func (uc *getMember) Execute(ctx context.Context, in GetMemberInput) (GetMemberOutput, error) {
	memberID := strings.TrimSpace(in.MemberID)
	if !memberIDPattern.MatchString(memberID) {
		return GetMemberOutput{}, ErrInvalidMemberID
	}

	member, err := uc.repo.GetByMemberID(ctx, memberID)
	if err != nil {
		if errors.Is(err, domain.ErrMemberNotFound) {
			return GetMemberOutput{}, ErrMemberNotFound
		}
		return GetMemberOutput{}, fmt.Errorf("%w: %v", ErrGetMember, err)
	}

	out := GetMemberOutput{
		ID:          member.ID,
		MemberID:    member.MemberID,
		DisplayName: member.NameInYearbook,
		Firstname:   member.Firstname,
		Lastname:    member.Lastname,
		Email:       member.Email,
	}
	if !member.MobilePhone.IsZero() {
		domestic := member.MobilePhone.Domestic()
		out.MobilePhone = domain.FormatForDisplay(domestic)
		out.NetworkOperator = domain.NetworkOperator(domestic)
	}

	if p := member.Profile; p != nil {
		out.Profile = &GetMemberProfileOutput{
			ExternalSystemID:     p.ExternalSystemID,
			ExternalDataLastSync: p.ExternalDataLastSync,
			CompanyName:          p.CompanyName,
			JobTitle:             p.JobTitle,
			Province:             p.Province,
			Country:              p.Country,
			GraduationYear:       p.GraduationYear,
			Major:                p.Major,
			ClassName:            p.ClassName,
		}
	}

	return out, nil
}
