package stats

import (
	"strings"

	"github.com/united17/relief-portal/pkg/db/models"
)

// Canonical source_country values. Anything recorded as Other carries its real
// country in country_name.
const (
	SourceCountrySriLanka = "Sri Lanka"
	SourceCountryUAE      = "UAE"
	SourceCountryGermany  = "Germany"
	SourceCountryPakistan = "Pakistan"
	SourceCountryOther    = "Other"
)

// featuredBuckets are always present in the output, zero-valued when no
// donations match, and always first in this order.
var featuredBuckets = []struct {
	country  string
	currency string
}{
	{SourceCountrySriLanka, "LKR"},
	{SourceCountryUAE, "AED"},
	{SourceCountryGermany, "EUR"},
	{SourceCountryPakistan, "PKR"},
}

// CountryTotal accumulates donations for one (country, currency) pair. The
// same country donating in two currencies produces two entries.
type CountryTotal struct {
	Country   string  `json:"country"`
	Currency  string  `json:"currency"`
	Amount    float64 `json:"amount"`
	AmountLKR float64 `json:"amount_lkr"`
	Featured  bool    `json:"featured"`
}

// Stats is the aggregate view over a donation list. It is derived, never
// persisted, and recomputed on every request.
type Stats struct {
	TotalLKR      float64        `json:"total_lkr"`
	DonationCount int            `json:"donation_count"`
	Countries     []CountryTotal `json:"countries"`
}

// MissionStats summarizes mission records. total_spent is trusted as stored;
// item writes keep it consistent transactionally.
type MissionStats struct {
	TotalMissions int     `json:"total_missions"`
	TotalSpent    float64 `json:"total_spent"`
}

type bucketKey struct {
	country  string
	currency string
}

// Aggregate reduces a donation list into per-(country, currency) totals in a
// single pass. Featured countries appear first in fixed order; every other
// pair is appended in first-seen order. amount_lkr values are summed as-is,
// no conversion or rounding happens here.
func Aggregate(donations []models.Donation) Stats {
	index := make(map[bucketKey]int, len(featuredBuckets))
	countries := make([]CountryTotal, 0, len(featuredBuckets))
	for _, f := range featuredBuckets {
		index[bucketKey{f.country, f.currency}] = len(countries)
		countries = append(countries, CountryTotal{
			Country:  f.country,
			Currency: f.currency,
			Featured: true,
		})
	}

	var totalLKR float64
	for _, d := range donations {
		k := bucketKey{bucketCountry(d), d.Currency}
		i, ok := index[k]
		if !ok {
			i = len(countries)
			index[k] = i
			countries = append(countries, CountryTotal{
				Country:  k.country,
				Currency: k.currency,
			})
		}
		countries[i].Amount += d.Amount
		countries[i].AmountLKR += d.AmountLKR
		totalLKR += d.AmountLKR
	}

	return Stats{
		TotalLKR:      totalLKR,
		DonationCount: len(donations),
		Countries:     countries,
	}
}

// AggregateMissions counts missions and sums their stored total_spent.
func AggregateMissions(missions []models.Mission) MissionStats {
	out := MissionStats{TotalMissions: len(missions)}
	for _, m := range missions {
		out.TotalSpent += m.TotalSpent
	}
	return out
}

// SumCharges totals standalone expenses not tied to a mission.
func SumCharges(charges []models.AdditionalCharge) float64 {
	var total float64
	for _, c := range charges {
		total += c.Amount
	}
	return total
}

// Balance is total donations minus total recorded spend. Negative balances
// are valid and returned unclamped.
func Balance(totalDonationsLKR, totalMissionSpend, totalAdditionalCharges float64) float64 {
	return totalDonationsLKR - totalMissionSpend - totalAdditionalCharges
}

func bucketCountry(d models.Donation) string {
	if d.SourceCountry != SourceCountryOther {
		return d.SourceCountry
	}
	if d.CountryName != nil {
		if name := strings.TrimSpace(*d.CountryName); name != "" {
			return name
		}
	}
	return SourceCountryOther
}
