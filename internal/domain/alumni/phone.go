package alumni

import (
	"fmt"
	"strings"
)

const (
	countryCallingCode = "66"
	domesticTrunkDigit = '0'
	domesticLength     = 10
)

// MobilePhone is a mobile number in canonical international form
// (66xxxxxxxxx). The zero value means no number was provided.
type MobilePhone string

func (p MobilePhone) IsZero() bool {
	return p == ""
}

func (p MobilePhone) String() string {
	return string(p)
}

// Domestic re-derives the 0xxxxxxxxx form.
func (p MobilePhone) Domestic() string {
	if p.IsZero() {
		return ""
	}
	return string(domesticTrunkDigit) + strings.TrimPrefix(string(p), countryCallingCode)
}

type InvalidPhoneError struct {
	Input string
}

func (e *InvalidPhoneError) Error() string {
	return fmt.Sprintf("invalid mobile phone number format: %s. expected 06xxxxxxxx, 08xxxxxxxx or 09xxxxxxxx", e.Input)
}

func (e *InvalidPhoneError) Is(target error) bool {
	return target == ErrInvalidPhoneFormat
}

// NormalizeMobilePhone accepts +66, 66, 0-prefixed and 9-digit forms with
// any separators. Blank input yields the zero MobilePhone and no error.
func NormalizeMobilePhone(raw string) (MobilePhone, error) {
	if strings.TrimSpace(raw) == "" {
		return "", nil
	}

	digits := digitsOnly(raw)
	switch {
	case strings.HasPrefix(digits, countryCallingCode):
		digits = string(domesticTrunkDigit) + digits[len(countryCallingCode):]
	case len(digits) == domesticLength-1 && digits[0] != domesticTrunkDigit:
		digits = string(domesticTrunkDigit) + digits
	}

	if len(digits) != domesticLength || digits[0] != domesticTrunkDigit || !validSecondDigit(digits[1]) {
		return "", &InvalidPhoneError{Input: raw}
	}

	return MobilePhone(countryCallingCode + digits[1:]), nil
}

func validSecondDigit(d byte) bool {
	return d == '6' || d == '8' || d == '9'
}

func digitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// FormatForDisplay renders a 10-digit domestic number as 0x-xxxx-xxxx.
// Anything else is returned unchanged.
func FormatForDisplay(domestic string) string {
	if len(domestic) != domesticLength {
		return domestic
	}
	return domestic[:2] + "-" + domestic[2:6] + "-" + domestic[6:]
}

// NetworkOperator maps a 10-digit domestic number to its carrier by prefix.
func NetworkOperator(domestic string) string {
	if len(domestic) != domesticLength {
		return "Unknown"
	}

	switch domestic[:3] {
	case "080", "081", "090", "091", "092", "093", "094", "061", "062", "063":
		return "AIS"
	case "082", "083", "084", "085", "095", "096", "097", "098", "064", "065":
		return "DTAC"
	case "086", "087", "099", "066":
		return "True Move"
	case "089":
		return "CAT Telecom"
	default:
		return "Unknown"
	}
}
