package models

import "time"

type ImportJob struct {
	ID                 string  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	SourcePath         string  `gorm:"type:text;not null"`
	ExternalSystemID   string  `gorm:"type:text;not null"`
	OverwriteExisting  bool    `gorm:"not null;default:false"`
	ValidateOnly       bool    `gorm:"not null;default:false"`
	BatchSize          int     `gorm:"not null;default:100"`
	SkipInvalidRecords bool    `gorm:"not null;default:true"`
	Status             string  `gorm:"type:text;not null"`
	BatchID            *string `gorm:"type:text"`
	ProgressProcessed  int64   `gorm:"not null;default:0"`
	ProgressTotal      int64   `gorm:"not null;default:0"`
	ImportedCount      int64   `gorm:"not null;default:0"`
	UpdatedCount       int64   `gorm:"not null;default:0"`
	SkippedCount       int64   `gorm:"not null;default:0"`
	FailedCount        int64   `gorm:"not null;default:0"`
	ErrorCount         int64   `gorm:"not null;default:0"`
	WarningCount       int64   `gorm:"not null;default:0"`
	Attempts           int     `gorm:"not null;default:0"`
	MaxAttempts        int     `gorm:"not null;default:5"`
	ErrorMessage       *string `gorm:"type:text"`
	HeartbeatAt        *time.Time
	LeaseExpiresAt     *time.Time
	StartedAt          *time.Time
	FinishedAt         *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (ImportJob) TableName() string {
	return "import_jobs"
}
