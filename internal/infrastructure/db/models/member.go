package models

import "time"

type Member struct {
	ID             string         `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	MemberID       string         `gorm:"type:text;not null;index"`
	Firstname      string         `gorm:"type:text;not null;default:''"`
	Lastname       string         `gorm:"type:text;not null;default:''"`
	NameInYearbook string         `gorm:"type:text;not null;default:''"`
	Email          string         `gorm:"type:text;not null;default:''"`
	MobilePhone    string         `gorm:"type:text;not null;default:'';index"`
	Profile        *AlumniProfile `gorm:"foreignKey:MemberRef"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (Member) TableName() string {
	return "members"
}

type AlumniProfile struct {
	ID                   int64      `gorm:"primaryKey"`
	MemberRef            string     `gorm:"type:uuid;not null;uniqueIndex"`
	ExternalMemberID     string     `gorm:"type:text;not null;default:''"`
	ExternalSystemID     string     `gorm:"type:text;not null;default:''"`
	ExternalDataLastSync time.Time  `gorm:"not null"`
	NameInYearbook       string     `gorm:"type:text;not null;default:''"`
	TitleCode            string     `gorm:"type:text;not null;default:''"`
	Firstname            string     `gorm:"type:text;not null;default:''"`
	Lastname             string     `gorm:"type:text;not null;default:''"`
	NickName             string     `gorm:"type:text;not null;default:''"`
	GroupCode            string     `gorm:"type:text;not null;default:''"`
	Phone                string     `gorm:"type:text;not null;default:''"`
	MobilePhone          string     `gorm:"type:text;not null;default:''"`
	LineID               string     `gorm:"type:text;not null;default:''"`
	Facebook             string     `gorm:"type:text;not null;default:''"`
	Email                string     `gorm:"type:text;not null;default:''"`
	Address              string     `gorm:"type:text;not null;default:''"`
	ZipCode              string     `gorm:"type:text;not null;default:''"`
	District             string     `gorm:"type:text;not null;default:''"`
	Province             string     `gorm:"type:text;not null;default:''"`
	Country              string     `gorm:"type:text;not null;default:''"`
	CompanyName          string     `gorm:"type:text;not null;default:''"`
	JobTitle             string     `gorm:"type:text;not null;default:''"`
	WorkAddress          string     `gorm:"type:text;not null;default:''"`
	MaritalStatus        string     `gorm:"type:text;not null;default:''"`
	Status               string     `gorm:"type:text;not null;default:''"`
	SpouseName           string     `gorm:"type:text;not null;default:''"`
	Comment              string     `gorm:"type:text;not null;default:''"`
	DateOfBirth          *time.Time `gorm:"type:date"`
	GraduationYear       *int
	Major                string `gorm:"type:text;not null;default:''"`
	ClassName            string `gorm:"type:text;not null;default:''"`
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

func (AlumniProfile) TableName() string {
	return "alumni_profiles"
}
