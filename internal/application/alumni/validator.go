package alumni

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	domain "github.com/mohammadpnp/alumni-sync/internal/domain/alumni"
)

const (
	minGraduationYear      = 1950
	maxGraduationYearAhead = 10
	minGraduationAge       = 18
	maxGraduationAge       = 35
	maxCompanyNameLength   = 200
)

var emailPattern = regexp.MustCompile(`(?i)^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Validation is the outcome of checking one record. Phone holds the
// normalized mobile number when one was supplied and accepted.
type Validation struct {
	Errors   []domain.ImportError
	Warnings []domain.ImportWarning
	Phone    domain.MobilePhone
}

func (v Validation) Valid() bool {
	return len(v.Errors) == 0
}

type RecordValidator struct {
	now func() time.Time
}

func NewRecordValidator(now func() time.Time) *RecordValidator {
	if now == nil {
		now = time.Now
	}
	return &RecordValidator{now: now}
}

// Validate runs every rule independently so one record can report several
// problems at once. Warnings never make a record invalid.
func (v *RecordValidator) Validate(record domain.ExternalAlumniRecord) Validation {
	var out Validation
	now := v.now().UTC()
	memberID := record.ReportingID()

	if strings.TrimSpace(record.MemberID) == "" {
		out.Errors = append(out.Errors, newImportError(now, memberID, "MemberID", "MemberID is required", "", domain.CodeRequiredField))
	}

	if strings.TrimSpace(record.NameInYearbook) == "" && strings.TrimSpace(record.Firstname) == "" {
		out.Errors = append(out.Errors, newImportError(now, memberID, "Name", "Either NameInYearbook or Firstname is required", "", domain.CodeRequiredField))
	}

	if strings.TrimSpace(record.MobilePhone) != "" {
		phone, err := domain.NormalizeMobilePhone(record.MobilePhone)
		if err != nil {
			out.Errors = append(out.Errors, newImportError(now, memberID, "MobilePhone", err.Error(), record.MobilePhone, domain.CodeInvalidPhoneFormat))
		} else {
			out.Phone = phone
		}
	}

	if email := strings.TrimSpace(record.Email); email != "" && !emailPattern.MatchString(email) {
		out.Errors = append(out.Errors, newImportError(now, memberID, "Email", "Invalid email format", record.Email, domain.CodeInvalidFormat))
	}

	if year := record.GraduationYear; year != nil && (*year < minGraduationYear || *year > now.Year()+maxGraduationYearAhead) {
		out.Warnings = append(out.Warnings, newImportWarning(now, memberID, "GraduationYear", "Graduation year seems unusual", strconv.Itoa(*year), ""))
	}

	if record.DateOfBirth != nil && record.GraduationYear != nil {
		age := *record.GraduationYear - record.DateOfBirth.Year()
		if age < minGraduationAge || age > maxGraduationAge {
			out.Warnings = append(out.Warnings, newImportWarning(now, memberID, "AgeValidation", "Age at graduation seems unusual", fmt.Sprintf("%d years old", age), ""))
		}
	}

	if company := []rune(record.CompanyName); strings.TrimSpace(record.CompanyName) != "" && len(company) > maxCompanyNameLength {
		out.Warnings = append(out.Warnings, newImportWarning(now, memberID, "CompanyName", "Company name is very long", record.CompanyName, string(company[:maxCompanyNameLength])))
	}

	return out
}

func newImportError(at time.Time, memberID, field, message, received string, code domain.ErrorCode) domain.ImportError {
	return domain.ImportError{
		MemberID:      memberID,
		Field:         field,
		Message:       message,
		ErrorCode:     code,
		ReceivedValue: received,
		Severity:      domain.SeverityError,
		Timestamp:     at,
	}
}

func newImportWarning(at time.Time, memberID, field, message, received, suggested string) domain.ImportWarning {
	return domain.ImportWarning{
		MemberID:       memberID,
		Field:          field,
		Message:        message,
		ReceivedValue:  received,
		SuggestedValue: suggested,
		Timestamp:      at,
	}
}
