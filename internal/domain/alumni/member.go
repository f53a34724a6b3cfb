package alumni

import "time"

type Member struct {
	ID             string         `json:"id"`
	MemberID       string         `json:"memberID"`
	Firstname      string         `json:"firstname"`
	Lastname       string         `json:"lastname"`
	NameInYearbook string         `json:"nameInYearbook"`
	Email          string         `json:"email"`
	MobilePhone    MobilePhone    `json:"mobilePhone"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
	Profile        *AlumniProfile `json:"profile,omitempty"`
}

type ProfileDetails struct {
	NameInYearbook string     `json:"nameInYearbook"`
	TitleCode      string     `json:"titleCode"`
	Firstname      string     `json:"firstname"`
	Lastname       string     `json:"lastname"`
	NickName       string     `json:"nickName"`
	GroupCode      string     `json:"groupCode"`
	Phone          string     `json:"phone"`
	MobilePhone    string     `json:"mobilePhone"`
	LineID         string     `json:"lineID"`
	Facebook       string     `json:"facebook"`
	Email          string     `json:"email"`
	Address        string     `json:"address"`
	ZipCode        string     `json:"zipCode"`
	District       string     `json:"district"`
	Province       string     `json:"province"`
	Country        string     `json:"country"`
	CompanyName    string     `json:"companyName"`
	JobTitle       string     `json:"jobTitle"`
	WorkAddress    string     `json:"workAddress"`
	MaritalStatus  string     `json:"maritalStatus"`
	Status         string     `json:"status"`
	SpouseName     string     `json:"spouseName"`
	Comment        string     `json:"comment"`
	DateOfBirth    *time.Time `json:"dateOfBirth,omitempty"`
	GraduationYear *int       `json:"graduationYear,omitempty"`
	Major          string     `json:"major"`
	ClassName      string     `json:"className"`
}

type AlumniProfile struct {
	ID                   int64     `json:"id"`
	MemberRef            string    `json:"memberRef"`
	ExternalMemberID     string    `json:"externalMemberID"`
	ExternalSystemID     string    `json:"externalSystemID"`
	ExternalDataLastSync time.Time `json:"externalDataLastSync"`
	ProfileDetails
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// MemberFields is the member half of a create or update.
type MemberFields struct {
	MemberID       string
	Firstname      string
	Lastname       string
	NameInYearbook string
	Email          string
	MobilePhone    MobilePhone
}

// ProfileFields is the profile half of a create or update.
type ProfileFields struct {
	ExternalMemberID string
	ExternalSystemID string
	LastSyncedAt     time.Time
	Details          ProfileDetails
}
