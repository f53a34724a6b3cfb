package alumni

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const (
	unknownMemberID = "UNKNOWN"
	defaultCountry  = "Thailand"
)

// ExternalAlumniRecord is one row exported from the backoffice system.
// Only MemberID and one of NameInYearbook/Firstname are required.
type ExternalAlumniRecord struct {
	MemberID       string     `json:"memberID"`
	NameInYearbook string     `json:"nameInYearbook,omitempty"`
	TitleID        string     `json:"titleID,omitempty"`
	Firstname      string     `json:"firstname,omitempty"`
	Lastname       string     `json:"lastname,omitempty"`
	NickName       string     `json:"nickName,omitempty"`
	GroupID        string     `json:"groupID,omitempty"`
	Phone          string     `json:"phone,omitempty"`
	MobilePhone    string     `json:"mobilePhone,omitempty"`
	LineID         string     `json:"lineID,omitempty"`
	Facebook       string     `json:"facebook,omitempty"`
	Email          string     `json:"email,omitempty"`
	Address        string     `json:"address,omitempty"`
	ZipCode        string     `json:"zipCode,omitempty"`
	District       string     `json:"district,omitempty"`
	Province       string     `json:"province,omitempty"`
	Country        string     `json:"country,omitempty"`
	CompanyName    string     `json:"companyName,omitempty"`
	JobTitle       string     `json:"jobTitle,omitempty"`
	WorkAddress    string     `json:"workAddress,omitempty"`
	MaritalStatus  string     `json:"maritalStatus,omitempty"`
	Status         string     `json:"status,omitempty"`
	SpouseName     string     `json:"spouseName,omitempty"`
	Comment        string     `json:"comment,omitempty"`
	DateOfBirth    *time.Time `json:"dateOfBirth,omitempty"`
	GraduationYear *int       `json:"graduationYear,omitempty"`
	Major          string     `json:"major,omitempty"`
	ClassName      string     `json:"className,omitempty"`
}

// UnmarshalJSON accepts dateOfBirth either as RFC 3339 or as a plain
// 2006-01-02 date.
func (r *ExternalAlumniRecord) UnmarshalJSON(data []byte) error {
	type plain ExternalAlumniRecord
	aux := struct {
		*plain
		DateOfBirth *string `json:"dateOfBirth,omitempty"`
	}{plain: (*plain)(r)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	r.DateOfBirth = nil
	if aux.DateOfBirth == nil || strings.TrimSpace(*aux.DateOfBirth) == "" {
		return nil
	}

	raw := strings.TrimSpace(*aux.DateOfBirth)
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			r.DateOfBirth = &parsed
			return nil
		}
	}
	return fmt.Errorf("dateOfBirth %q is not a date", raw)
}

// ReportingID is the member id used in error and warning entries.
func (r ExternalAlumniRecord) ReportingID() string {
	if id := strings.TrimSpace(r.MemberID); id != "" {
		return id
	}
	return unknownMemberID
}

func (r ExternalAlumniRecord) FullName() string {
	return strings.TrimSpace(r.Firstname + " " + r.Lastname)
}

// DisplayName prefers the yearbook name over first + last name.
func (r ExternalAlumniRecord) DisplayName() string {
	if strings.TrimSpace(r.NameInYearbook) != "" {
		return r.NameInYearbook
	}
	return r.FullName()
}

func (r ExternalAlumniRecord) HasMinimumRequiredData() bool {
	return strings.TrimSpace(r.MemberID) != "" &&
		(strings.TrimSpace(r.Firstname) != "" || strings.TrimSpace(r.NameInYearbook) != "")
}

// Details copies every descriptive field onto a profile payload.
func (r ExternalAlumniRecord) Details() ProfileDetails {
	country := r.Country
	if strings.TrimSpace(country) == "" {
		country = defaultCountry
	}

	return ProfileDetails{
		NameInYearbook: r.NameInYearbook,
		TitleCode:      r.TitleID,
		Firstname:      r.Firstname,
		Lastname:       r.Lastname,
		NickName:       r.NickName,
		GroupCode:      r.GroupID,
		Phone:          r.Phone,
		MobilePhone:    r.MobilePhone,
		LineID:         r.LineID,
		Facebook:       r.Facebook,
		Email:          r.Email,
		Address:        r.Address,
		ZipCode:        r.ZipCode,
		District:       r.District,
		Province:       r.Province,
		Country:        country,
		CompanyName:    r.CompanyName,
		JobTitle:       r.JobTitle,
		WorkAddress:    r.WorkAddress,
		MaritalStatus:  r.MaritalStatus,
		Status:         r.Status,
		SpouseName:     r.SpouseName,
		Comment:        r.Comment,
		DateOfBirth:    r.DateOfBirth,
		GraduationYear: r.GraduationYear,
		Major:          r.Major,
		ClassName:      r.ClassName,
	}
}

// MemberIdentity is the lookup key for an existing member.
type MemberIdentity struct {
	ExternalMemberID string
	MobilePhone      MobilePhone
}
