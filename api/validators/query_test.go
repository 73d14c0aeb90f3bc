package validators

import (
	"net/http/httptest"
	"testing"
	"time"

	pkgerrors "github.com/united17/relief-portal/pkg/errors"
)

func TestParseFilterSourceCountryKey(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/public/v1/donations?source_country=UAE&currency=AED&collected_by=Atheeq", nil)

	f, err := ParseFilter(r)
	if err != nil {
		t.Fatalf("parse filter: %v", err)
	}
	if f.SourceCountry != "UAE" {
		t.Fatalf("source country = %q, want UAE", f.SourceCountry)
	}
	if f.Currency != "AED" || f.CollectedBy != "Atheeq" {
		t.Fatalf("currency/collector = %q/%q", f.Currency, f.CollectedBy)
	}
}

func TestParseFilterCountryAlias(t *testing.T) {
	r := httptest.NewRequest("GET", "/?country=Germany", nil)

	f, err := ParseFilter(r)
	if err != nil {
		t.Fatalf("parse filter: %v", err)
	}
	if f.SourceCountry != "Germany" {
		t.Fatalf("source country = %q, want Germany", f.SourceCountry)
	}

	// documented key wins when both are present
	r = httptest.NewRequest("GET", "/?source_country=UAE&country=Germany", nil)
	f, err = ParseFilter(r)
	if err != nil {
		t.Fatalf("parse filter: %v", err)
	}
	if f.SourceCountry != "UAE" {
		t.Fatalf("source country = %q, want UAE", f.SourceCountry)
	}
}

func TestParseFilterDateRange(t *testing.T) {
	r := httptest.NewRequest("GET", "/?start_date=2025-06-01&end_date=2025-06-30", nil)

	f, err := ParseFilter(r)
	if err != nil {
		t.Fatalf("parse filter: %v", err)
	}
	if f.StartDate == nil || !f.StartDate.Equal(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("start date = %v", f.StartDate)
	}
	if f.EndDate == nil || !f.EndDate.Equal(time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("end date = %v", f.EndDate)
	}
}

func TestParseFilterRejectsBadInput(t *testing.T) {
	cases := []struct {
		name  string
		query string
	}{
		{"malformed date", "/?start_date=06-01-2025"},
		{"inverted range", "/?start_date=2025-06-30&end_date=2025-06-01"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tc.query, nil)
			_, err := ParseFilter(r)
			if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestParseFilterEmptyIsUnconstrained(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)

	f, err := ParseFilter(r)
	if err != nil {
		t.Fatalf("parse filter: %v", err)
	}
	if f.SourceCountry != "" || f.Currency != "" || f.CollectedBy != "" || f.StartDate != nil || f.EndDate != nil {
		t.Fatalf("empty query should produce the identity filter, got %+v", f)
	}
}
