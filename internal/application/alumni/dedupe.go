package alumni

import (
	"strings"
	"time"

	domain "github.com/mohammadpnp/alumni-sync/internal/domain/alumni"
)

type Deduplication struct {
	Records  []domain.ExternalAlumniRecord
	Warnings []domain.ImportWarning
	Skipped  int
}

// DuplicateDetector drops records whose member id or normalized mobile
// phone was already seen earlier in the same batch. First occurrence wins.
type DuplicateDetector struct {
	now func() time.Time
}

func NewDuplicateDetector(now func() time.Time) *DuplicateDetector {
	if now == nil {
		now = time.Now
	}
	return &DuplicateDetector{now: now}
}

func (d *DuplicateDetector) Dedupe(records []domain.ExternalAlumniRecord) Deduplication {
	out := Deduplication{Records: make([]domain.ExternalAlumniRecord, 0, len(records))}
	seenMemberIDs := make(map[string]struct{}, len(records))
	seenPhones := make(map[domain.MobilePhone]struct{}, len(records))

	for _, record := range records {
		memberID := strings.TrimSpace(record.MemberID)

		// A phone that fails to normalize is reported by the validator later.
		phone, _ := domain.NormalizeMobilePhone(record.MobilePhone)

		if _, seen := seenMemberIDs[memberID]; memberID != "" && seen {
			out.Warnings = append(out.Warnings, newImportWarning(d.now().UTC(), record.ReportingID(), "MemberID", "Duplicate MemberID found in batch, skipping duplicate", memberID, ""))
			out.Skipped++
			continue
		}
		if _, seen := seenPhones[phone]; !phone.IsZero() && seen {
			out.Warnings = append(out.Warnings, newImportWarning(d.now().UTC(), record.ReportingID(), "MobilePhone", "Duplicate mobile phone found in batch, skipping duplicate", record.MobilePhone, ""))
			out.Skipped++
			continue
		}

		if memberID != "" {
			seenMemberIDs[memberID] = struct{}{}
		}
		if !phone.IsZero() {
			seenPhones[phone] = struct{}{}
		}
		out.Records = append(out.Records, record)
	}

	return out
}
