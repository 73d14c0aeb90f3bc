package stats

import (
	"reflect"
	"testing"
	"time"

	"github.com/united17/relief-portal/pkg/db/models"
)

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func filterFixtures() []models.Donation {
	mk := func(day int, country, currency, collector string) models.Donation {
		return models.Donation{
			SourceCountry: country,
			Currency:      currency,
			CollectedBy:   collector,
			DonationDate:  time.Date(2025, 6, day, 0, 0, 0, 0, time.UTC),
		}
	}
	return []models.Donation{
		mk(1, SourceCountrySriLanka, "LKR", "Ayash"),
		mk(5, SourceCountryUAE, "AED", "Atheeq"),
		mk(10, SourceCountryUAE, "AED", "Ayash"),
		mk(15, SourceCountryGermany, "EUR", "Inas"),
		mk(20, SourceCountryOther, "USD", "Atheeq"),
	}
}

func TestApplyFilterEmptyIsIdentity(t *testing.T) {
	in := filterFixtures()
	got := ApplyFilter(in, Filter{})
	if !reflect.DeepEqual(got, in) {
		t.Fatal("empty filter should return input unchanged")
	}
}

func TestApplyFilterAllSentinel(t *testing.T) {
	in := filterFixtures()
	got := ApplyFilter(in, Filter{SourceCountry: "all", Currency: "ALL", CollectedBy: "all"})
	if !reflect.DeepEqual(got, in) {
		t.Fatal("\"all\" sentinel should impose no constraint")
	}
}

func TestApplyFilterSourceCountry(t *testing.T) {
	got := ApplyFilter(filterFixtures(), Filter{SourceCountry: SourceCountryUAE})
	if len(got) != 2 {
		t.Fatalf("expected 2 UAE donations, got %d", len(got))
	}
	for _, d := range got {
		if d.SourceCountry != SourceCountryUAE {
			t.Fatalf("unexpected donation %+v", d)
		}
	}
	// filter, not sort: relative order kept
	if !got[0].DonationDate.Before(got[1].DonationDate) {
		t.Fatal("order not preserved")
	}
}

func TestApplyFilterDateRangeInclusive(t *testing.T) {
	got := ApplyFilter(filterFixtures(), Filter{
		StartDate: datePtr(2025, 6, 5),
		EndDate:   datePtr(2025, 6, 15),
	})
	if len(got) != 3 {
		t.Fatalf("expected 3 donations on [Jun 5, Jun 15], got %d", len(got))
	}
	if got[0].DonationDate.Day() != 5 || got[2].DonationDate.Day() != 15 {
		t.Fatal("inclusive bounds should keep boundary dates")
	}
}

func TestApplyFilterComparesCalendarDateOnly(t *testing.T) {
	in := []models.Donation{{
		SourceCountry: SourceCountrySriLanka,
		Currency:      "LKR",
		DonationDate:  time.Date(2025, 6, 5, 23, 45, 0, 0, time.UTC),
	}}
	got := ApplyFilter(in, Filter{EndDate: datePtr(2025, 6, 5)})
	if len(got) != 1 {
		t.Fatal("time-of-day should not exclude a same-day donation")
	}
}

func TestApplyFilterConjunction(t *testing.T) {
	got := ApplyFilter(filterFixtures(), Filter{
		SourceCountry: SourceCountryUAE,
		CollectedBy:   "Ayash",
	})
	if len(got) != 1 {
		t.Fatalf("expected 1 donation matching both predicates, got %d", len(got))
	}
	if got[0].CollectedBy != "Ayash" || got[0].SourceCountry != SourceCountryUAE {
		t.Fatalf("wrong donation %+v", got[0])
	}
}

func TestApplyFilterNoMatches(t *testing.T) {
	got := ApplyFilter(filterFixtures(), Filter{Currency: "JPY"})
	if len(got) != 0 {
		t.Fatalf("expected empty result, got %d", len(got))
	}
}
