package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	domain "github.com/mohammadpnp/alumni-sync/internal/domain/alumni"
	"github.com/mohammadpnp/alumni-sync/internal/infrastructure/db/models"
)

type MemberQueryRepository struct {
	db *gorm.DB
}

func NewMemberQueryRepository(db *gorm.DB) *MemberQueryRepository {
	return &MemberQueryRepository{db: db}
}

func (r *MemberQueryRepository) GetByMemberID(ctx context.Context, memberID string) (*domain.Member, error) {
	var row models.Member

	err := r.db.WithContext(ctx).
		Preload("Profile").
		Order("created_at").
		First(&row, "member_id = ?", memberID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrMemberNotFound
		}
		return nil, fmt.Errorf("get member by member id: %w", err)
	}

	member := &domain.Member{
		ID:             row.ID,
		MemberID:       row.MemberID,
		Firstname:      row.Firstname,
		Lastname:       row.Lastname,
		NameInYearbook: row.NameInYearbook,
		Email:          row.Email,
		MobilePhone:    domain.MobilePhone(row.MobilePhone),
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}

	if p := row.Profile; p != nil {
		member.Profile = &domain.AlumniProfile{
			ID:                   p.ID,
			MemberRef:            p.MemberRef,
			ExternalMemberID:     p.ExternalMemberID,
			ExternalSystemID:     p.ExternalSystemID,
			ExternalDataLastSync: p.ExternalDataLastSync,
			ProfileDetails: domain.ProfileDetails{
				NameInYearbook: p.NameInYearbook,
				TitleCode:      p.TitleCode,
				Firstname:      p.Firstname,
				Lastname:       p.Lastname,
				NickName:       p.NickName,
				GroupCode:      p.GroupCode,
				Phone:          p.Phone,
				MobilePhone:    p.MobilePhone,
				LineID:         p.LineID,
				Facebook:       p.Facebook,
				Email:          p.Email,
				Address:        p.Address,
				ZipCode:        p.ZipCode,
				District:       p.District,
				Province:       p.Province,
				Country:        p.Country,
				CompanyName:    p.CompanyName,
				JobTitle:       p.JobTitle,
				WorkAddress:    p.WorkAddress,
				MaritalStatus:  p.MaritalStatus,
				Status:         p.Status,
				SpouseName:     p.SpouseName,
				Comment:        p.Comment,
				DateOfBirth:    p.DateOfBirth,
				GraduationYear: p.GraduationYear,
				Major:          p.Major,
				ClassName:      p.ClassName,
			},
			CreatedAt: p.CreatedAt,
			UpdatedAt: p.UpdatedAt,
		}
	}

	return member, nil
}
