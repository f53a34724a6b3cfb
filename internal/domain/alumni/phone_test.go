package alumni_test

import (
	"errors"
	"testing"

	domain "github.com/mohammadpnp/alumni-sync/internal/domain/alumni"
)

func TestNormalizeMobilePhoneAcceptedFormats(t *testing.T) {
	t.Parallel()

	cases := map[string]domain.MobilePhone{
		"0812345678":       "66812345678",
		"081-234-5678":     "66812345678",
		"+66 81 234 5678":  "66812345678",
		"66912345678":      "66912345678",
		"612345678":        "66612345678",
		"(09) 8765-4321":   "66987654321",
		" 0 6 1234 5678  ": "66612345678",
	}

	for raw, want := range cases {
		got, err := domain.NormalizeMobilePhone(raw)
		if err != nil {
			t.Fatalf("normalize %q: unexpected error %v", raw, err)
		}
		if got != want {
			t.Fatalf("normalize %q: expected %s, got %s", raw, want, got)
		}
	}
}

func TestNormalizeMobilePhoneRejectedFormats(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{
		"0712345678",
		"021234567",
		"08123456",
		"081234567890",
		"not a phone",
		"+1 415 555 0100",
		"66",
	} {
		_, err := domain.NormalizeMobilePhone(raw)
		if err == nil {
			t.Fatalf("normalize %q: expected error", raw)
		}
		if !errors.Is(err, domain.ErrInvalidPhoneFormat) {
			t.Fatalf("normalize %q: expected ErrInvalidPhoneFormat, got %v", raw, err)
		}

		var phoneErr *domain.InvalidPhoneError
		if !errors.As(err, &phoneErr) || phoneErr.Input != raw {
			t.Fatalf("normalize %q: expected input to be carried, got %#v", raw, err)
		}
	}
}

func TestNormalizeMobilePhoneBlankIsNotProvided(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "   ", "\t\n"} {
		got, err := domain.NormalizeMobilePhone(raw)
		if err != nil {
			t.Fatalf("normalize %q: unexpected error %v", raw, err)
		}
		if !got.IsZero() {
			t.Fatalf("normalize %q: expected zero phone, got %s", raw, got)
		}
	}
}

func TestMobilePhoneDomesticRoundTrip(t *testing.T) {
	t.Parallel()

	for _, domestic := range []string{"0612345678", "0812345678", "0898765432", "0900000000", "0999999999"} {
		phone, err := domain.NormalizeMobilePhone(domestic)
		if err != nil {
			t.Fatalf("normalize %q: %v", domestic, err)
		}
		if phone.Domestic() != domestic {
			t.Fatalf("expected round trip to %s, got %s", domestic, phone.Domestic())
		}
	}
}

func TestFormatForDisplay(t *testing.T) {
	t.Parallel()

	if got := domain.FormatForDisplay("0812345678"); got != "08-1234-5678" {
		t.Fatalf("unexpected display format: %s", got)
	}
	if got := domain.FormatForDisplay("12345"); got != "12345" {
		t.Fatalf("expected short input unchanged, got %s", got)
	}
}

func TestNetworkOperator(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"0812345678": "AIS",
		"0852345678": "DTAC",
		"0992345678": "True Move",
		"0892345678": "CAT Telecom",
		"0882345678": "Unknown",
		"081":        "Unknown",
	}
	for phone, want := range cases {
		if got := domain.NetworkOperator(phone); got != want {
			t.Fatalf("operator for %s: expected %s, got %s", phone, want, got)
		}
	}
}
