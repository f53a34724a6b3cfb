package repository

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domain "github.com/mohammadpnp/alumni-sync/internal/domain/alumni"
)

var ErrGraduationYearOutOfRange = errors.New("graduation year out of range")

const memberColumns = `
  m.id::text AS id,
  m.member_id,
  m.firstname,
  m.lastname,
  m.name_in_yearbook,
  m.email,
  m.mobile_phone,
  m.created_at,
  m.updated_at`

const profileColumns = `
  p.id,
  p.member_ref::text AS member_ref,
  p.external_member_id,
  p.external_system_id,
  p.external_data_last_sync,
  p.name_in_yearbook,
  p.title_code,
  p.firstname,
  p.lastname,
  p.nick_name,
  p.group_code,
  p.phone,
  p.mobile_phone,
  p.line_id,
  p.facebook,
  p.email,
  p.address,
  p.zip_code,
  p.district,
  p.province,
  p.country,
  p.company_name,
  p.job_title,
  p.work_address,
  p.marital_status,
  p.status,
  p.spouse_name,
  p.comment,
  p.date_of_birth,
  p.graduation_year,
  p.major,
  p.class_name,
  p.created_at,
  p.updated_at`

type memberRow struct {
	ID             string    `db:"id"`
	MemberID       string    `db:"member_id"`
	Firstname      string    `db:"firstname"`
	Lastname       string    `db:"lastname"`
	NameInYearbook string    `db:"name_in_yearbook"`
	Email          string    `db:"email"`
	MobilePhone    string    `db:"mobile_phone"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

func (r memberRow) toDomain() *domain.Member {
	return &domain.Member{
		ID:             r.ID,
		MemberID:       r.MemberID,
		Firstname:      r.Firstname,
		Lastname:       r.Lastname,
		NameInYearbook: r.NameInYearbook,
		Email:          r.Email,
		MobilePhone:    domain.MobilePhone(r.MobilePhone),
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

type profileRow struct {
	ID                   int64      `db:"id"`
	MemberRef            string     `db:"member_ref"`
	ExternalMemberID     string     `db:"external_member_id"`
	ExternalSystemID     string     `db:"external_system_id"`
	ExternalDataLastSync time.Time  `db:"external_data_last_sync"`
	NameInYearbook       string     `db:"name_in_yearbook"`
	TitleCode            string     `db:"title_code"`
	Firstname            string     `db:"firstname"`
	Lastname             string     `db:"lastname"`
	NickName             string     `db:"nick_name"`
	GroupCode            string     `db:"group_code"`
	Phone                string     `db:"phone"`
	MobilePhone          string     `db:"mobile_phone"`
	LineID               string     `db:"line_id"`
	Facebook             string     `db:"facebook"`
	Email                string     `db:"email"`
	Address              string     `db:"address"`
	ZipCode              string     `db:"zip_code"`
	District             string     `db:"district"`
	Province             string     `db:"province"`
	Country              string     `db:"country"`
	CompanyName          string     `db:"company_name"`
	JobTitle             string     `db:"job_title"`
	WorkAddress          string     `db:"work_address"`
	MaritalStatus        string     `db:"marital_status"`
	Status               string     `db:"status"`
	SpouseName           string     `db:"spouse_name"`
	Comment              string     `db:"comment"`
	DateOfBirth          *time.Time `db:"date_of_birth"`
	GraduationYear       *int32     `db:"graduation_year"`
	Major                string     `db:"major"`
	ClassName            string     `db:"class_name"`
	CreatedAt            time.Time  `db:"created_at"`
	UpdatedAt            time.Time  `db:"updated_at"`
}

func (r profileRow) toDomain() *domain.AlumniProfile {
	var graduationYear *int
	if r.GraduationYear != nil {
		year := int(*r.GraduationYear)
		graduationYear = &year
	}

	return &domain.AlumniProfile{
		ID:                   r.ID,
		MemberRef:            r.MemberRef,
		ExternalMemberID:     r.ExternalMemberID,
		ExternalSystemID:     r.ExternalSystemID,
		ExternalDataLastSync: r.ExternalDataLastSync,
		ProfileDetails: domain.ProfileDetails{
			NameInYearbook: r.NameInYearbook,
			TitleCode:      r.TitleCode,
			Firstname:      r.Firstname,
			Lastname:       r.Lastname,
			NickName:       r.NickName,
			GroupCode:      r.GroupCode,
			Phone:          r.Phone,
			MobilePhone:    r.MobilePhone,
			LineID:         r.LineID,
			Facebook:       r.Facebook,
			Email:          r.Email,
			Address:        r.Address,
			ZipCode:        r.ZipCode,
			District:       r.District,
			Province:       r.Province,
			Country:        r.Country,
			CompanyName:    r.CompanyName,
			JobTitle:       r.JobTitle,
			WorkAddress:    r.WorkAddress,
			MaritalStatus:  r.MaritalStatus,
			Status:         r.Status,
			SpouseName:     r.SpouseName,
			Comment:        r.Comment,
			DateOfBirth:    r.DateOfBirth,
			GraduationYear: graduationYear,
			Major:          r.Major,
			ClassName:      r.ClassName,
		},
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// MemberStore is the pgx implementation of domain.MemberStore. Create and
// update write the member row and its profile in one transaction.
type MemberStore struct {
	pool *pgxpool.Pool
}

func NewMemberStore(pool *pgxpool.Pool) *MemberStore {
	return &MemberStore{pool: pool}
}

func (s *MemberStore) FindByExternalMemberID(ctx context.Context, memberID string) (*domain.Member, error) {
	return s.findOne(ctx, "m.member_id = @member_id", pgx.NamedArgs{"member_id": memberID})
}

func (s *MemberStore) FindByMobilePhone(ctx context.Context, phone domain.MobilePhone) (*domain.Member, error) {
	if phone.IsZero() {
		return nil, domain.ErrMemberNotFound
	}
	return s.findOne(ctx, "m.mobile_phone = @mobile_phone", pgx.NamedArgs{"mobile_phone": phone.String()})
}

func (s *MemberStore) findOne(ctx context.Context, where string, args pgx.NamedArgs) (*domain.Member, error) {
	rows, err := s.pool.Query(ctx, `
SELECT `+memberColumns+`
FROM members m
WHERE `+where+`
ORDER BY m.created_at, m.id
LIMIT 1
`, args)
	if err != nil {
		return nil, fmt.Errorf("query member: %w", err)
	}

	row, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[memberRow])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMemberNotFound
		}
		return nil, fmt.Errorf("scan member: %w", err)
	}

	member := row.toDomain()
	profile, err := loadProfile(ctx, s.pool, member.ID)
	if err != nil {
		return nil, err
	}
	member.Profile = profile

	return member, nil
}

func (s *MemberStore) CreateMemberWithProfile(ctx context.Context, member domain.MemberFields, profile domain.ProfileFields) (*domain.Member, error) {
	graduationYear, err := graduationYearParam(profile.Details.GraduationYear)
	if err != nil {
		return nil, err
	}

	memberUUID, err := uuid.NewRandom()
	if err != nil {
		return nil, fmt.Errorf("generate member id: %w", err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, `
INSERT INTO members AS m (id, member_id, firstname, lastname, name_in_yearbook, email, mobile_phone, created_at, updated_at)
VALUES (@id, @member_id, @firstname, @lastname, @name_in_yearbook, @email, @mobile_phone, @now, @now)
RETURNING `+memberColumns, memberArgs(memberUUID.String(), member, profile.LastSyncedAt))
	if err != nil {
		return nil, fmt.Errorf("insert member: %w", err)
	}
	row, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[memberRow])
	if err != nil {
		return nil, fmt.Errorf("insert member: %w", err)
	}

	created := row.toDomain()
	created.Profile, err = upsertProfile(ctx, tx, created.ID, profile, graduationYear)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit create member: %w", err)
	}

	return created, nil
}

// UpdateMemberWithProfile rewrites the member row identified by existing.ID
// and upserts its profile, creating one when the member has none.
func (s *MemberStore) UpdateMemberWithProfile(ctx context.Context, existing *domain.Member, member domain.MemberFields, profile domain.ProfileFields) (*domain.Member, error) {
	if existing == nil || existing.ID == "" {
		return nil, domain.ErrMemberNotFound
	}

	graduationYear, err := graduationYearParam(profile.Details.GraduationYear)
	if err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, `
UPDATE members AS m
SET member_id = @member_id,
    firstname = @firstname,
    lastname = @lastname,
    name_in_yearbook = @name_in_yearbook,
    email = @email,
    mobile_phone = @mobile_phone,
    updated_at = @now
WHERE m.id = @id
RETURNING `+memberColumns, memberArgs(existing.ID, member, profile.LastSyncedAt))
	if err != nil {
		return nil, fmt.Errorf("update member: %w", err)
	}
	row, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[memberRow])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMemberNotFound
		}
		return nil, fmt.Errorf("update member: %w", err)
	}

	updated := row.toDomain()
	updated.Profile, err = upsertProfile(ctx, tx, updated.ID, profile, graduationYear)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit update member: %w", err)
	}

	return updated, nil
}

func memberArgs(id string, member domain.MemberFields, now time.Time) pgx.NamedArgs {
	return pgx.NamedArgs{
		"id":               id,
		"member_id":        member.MemberID,
		"firstname":        member.Firstname,
		"lastname":         member.Lastname,
		"name_in_yearbook": member.NameInYearbook,
		"email":            member.Email,
		"mobile_phone":     member.MobilePhone.String(),
		"now":              now,
	}
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func loadProfile(ctx context.Context, q querier, memberRef string) (*domain.AlumniProfile, error) {
	rows, err := q.Query(ctx, `
SELECT `+profileColumns+`
FROM alumni_profiles p
WHERE p.member_ref = @member_ref
`, pgx.NamedArgs{"member_ref": memberRef})
	if err != nil {
		return nil, fmt.Errorf("query alumni profile: %w", err)
	}

	row, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[profileRow])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan alumni profile: %w", err)
	}
	return row.toDomain(), nil
}

// graduationYearParam converts the year for the INT column, refusing values
// that do not fit instead of letting them wrap.
func graduationYearParam(year *int) (*int32, error) {
	if year == nil {
		return nil, nil
	}
	if *year < math.MinInt32 || *year > math.MaxInt32 {
		return nil, fmt.Errorf("%w: %d", ErrGraduationYearOutOfRange, *year)
	}
	converted := int32(*year)
	return &converted, nil
}

func upsertProfile(ctx context.Context, tx pgx.Tx, memberRef string, profile domain.ProfileFields, graduationYear *int32) (*domain.AlumniProfile, error) {
	d := profile.Details

	rows, err := tx.Query(ctx, `
INSERT INTO alumni_profiles AS p (
  member_ref, external_member_id, external_system_id, external_data_last_sync,
  name_in_yearbook, title_code, firstname, lastname, nick_name, group_code,
  phone, mobile_phone, line_id, facebook, email,
  address, zip_code, district, province, country,
  company_name, job_title, work_address, marital_status, status,
  spouse_name, comment, date_of_birth, graduation_year, major, class_name,
  created_at, updated_at
) VALUES (
  @member_ref, @external_member_id, @external_system_id, @synced_at,
  @name_in_yearbook, @title_code, @firstname, @lastname, @nick_name, @group_code,
  @phone, @mobile_phone, @line_id, @facebook, @email,
  @address, @zip_code, @district, @province, @country,
  @company_name, @job_title, @work_address, @marital_status, @status,
  @spouse_name, @comment, @date_of_birth, @graduation_year, @major, @class_name,
  @synced_at, @synced_at
)
ON CONFLICT (member_ref) DO UPDATE
  SET external_member_id = EXCLUDED.external_member_id,
      external_system_id = EXCLUDED.external_system_id,
      external_data_last_sync = EXCLUDED.external_data_last_sync,
      name_in_yearbook = EXCLUDED.name_in_yearbook,
      title_code = EXCLUDED.title_code,
      firstname = EXCLUDED.firstname,
      lastname = EXCLUDED.lastname,
      nick_name = EXCLUDED.nick_name,
      group_code = EXCLUDED.group_code,
      phone = EXCLUDED.phone,
      mobile_phone = EXCLUDED.mobile_phone,
      line_id = EXCLUDED.line_id,
      facebook = EXCLUDED.facebook,
      email = EXCLUDED.email,
      address = EXCLUDED.address,
      zip_code = EXCLUDED.zip_code,
      district = EXCLUDED.district,
      province = EXCLUDED.province,
      country = EXCLUDED.country,
      company_name = EXCLUDED.company_name,
      job_title = EXCLUDED.job_title,
      work_address = EXCLUDED.work_address,
      marital_status = EXCLUDED.marital_status,
      status = EXCLUDED.status,
      spouse_name = EXCLUDED.spouse_name,
      comment = EXCLUDED.comment,
      date_of_birth = EXCLUDED.date_of_birth,
      graduation_year = EXCLUDED.graduation_year,
      major = EXCLUDED.major,
      class_name = EXCLUDED.class_name,
      updated_at = EXCLUDED.updated_at
RETURNING `+profileColumns, pgx.NamedArgs{
		"member_ref":         memberRef,
		"external_member_id": profile.ExternalMemberID,
		"external_system_id": profile.ExternalSystemID,
		"synced_at":          profile.LastSyncedAt,
		"name_in_yearbook":   d.NameInYearbook,
		"title_code":         d.TitleCode,
		"firstname":          d.Firstname,
		"lastname":           d.Lastname,
		"nick_name":          d.NickName,
		"group_code":         d.GroupCode,
		"phone":              d.Phone,
		"mobile_phone":       d.MobilePhone,
		"line_id":            d.LineID,
		"facebook":           d.Facebook,
		"email":              d.Email,
		"address":            d.Address,
		"zip_code":           d.ZipCode,
		"district":           d.District,
		"province":           d.Province,
		"country":            d.Country,
		"company_name":       d.CompanyName,
		"job_title":          d.JobTitle,
		"work_address":       d.WorkAddress,
		"marital_status":     d.MaritalStatus,
		"status":             d.Status,
		"spouse_name":        d.SpouseName,
		"comment":            d.Comment,
		"date_of_birth":      d.DateOfBirth,
		"graduation_year":    graduationYear,
		"major":              d.Major,
		"class_name":         d.ClassName,
	})
	if err != nil {
		return nil, fmt.Errorf("upsert alumni profile: %w", err)
	}

	row, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[profileRow])
	if err != nil {
		return nil, fmt.Errorf("upsert alumni profile: %w", err)
	}
	return row.toDomain(), nil
}
