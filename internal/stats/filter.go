package stats

import (
	"strings"
	"time"

	"github.com/united17/relief-portal/pkg/db/models"
)

// FilterAll is the sentinel meaning "no constraint" for string predicates.
const FilterAll = "all"

// Filter is a conjunctive set of donation predicates. Zero-value fields (and
// the "all" sentinel) impose no constraint.
type Filter struct {
	StartDate     *time.Time
	EndDate       *time.Time
	SourceCountry string
	Currency      string
	CollectedBy   string
}

// IsZero reports whether the filter imposes no constraints at all.
func (f Filter) IsZero() bool {
	return f.StartDate == nil && f.EndDate == nil &&
		!constrains(f.SourceCountry) && !constrains(f.Currency) && !constrains(f.CollectedBy)
}

// ApplyFilter returns the subsequence of donations satisfying every set
// predicate, preserving input order. Date bounds are inclusive and compare by
// calendar date only.
func ApplyFilter(donations []models.Donation, f Filter) []models.Donation {
	if f.IsZero() {
		return donations
	}

	out := make([]models.Donation, 0, len(donations))
	for _, d := range donations {
		if f.matches(d) {
			out = append(out, d)
		}
	}
	return out
}

func (f Filter) matches(d models.Donation) bool {
	day := dateOnly(d.DonationDate)
	if f.StartDate != nil && day.Before(dateOnly(*f.StartDate)) {
		return false
	}
	if f.EndDate != nil && day.After(dateOnly(*f.EndDate)) {
		return false
	}
	if constrains(f.SourceCountry) && d.SourceCountry != f.SourceCountry {
		return false
	}
	if constrains(f.Currency) && d.Currency != f.Currency {
		return false
	}
	if constrains(f.CollectedBy) && d.CollectedBy != f.CollectedBy {
		return false
	}
	return true
}

func constrains(value string) bool {
	trimmed := strings.TrimSpace(value)
	return trimmed != "" && !strings.EqualFold(trimmed, FilterAll)
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
