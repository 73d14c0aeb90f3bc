package validators

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/united17/relief-portal/internal/stats"
	pkgerrors "github.com/united17/relief-portal/pkg/errors"
)

const queryDateLayout = "2006-01-02"

func ParseQueryInt(r *http.Request, key string, defaultVal, min, max int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return defaultVal, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be numeric").WithDetails(map[string]any{"field": key})
	}
	if value < min || value > max {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter out of range").WithDetails(map[string]any{"field": key, "min": min, "max": max})
	}
	return value, nil
}

// ParseFilter reads the shared donation filter from query parameters. Dates
// are calendar days; both ends of the range are inclusive. Omitted parameters
// and the literal "all" leave a dimension unconstrained.
func ParseFilter(r *http.Request) (stats.Filter, error) {
	q := r.URL.Query()
	f := stats.Filter{
		SourceCountry: firstQueryValue(q, "source_country", "country"),
		Currency:      strings.TrimSpace(q.Get("currency")),
		CollectedBy:   strings.TrimSpace(q.Get("collected_by")),
	}

	start, err := parseQueryDate(q.Get("start_date"), "start_date")
	if err != nil {
		return stats.Filter{}, err
	}
	f.StartDate = start

	end, err := parseQueryDate(q.Get("end_date"), "end_date")
	if err != nil {
		return stats.Filter{}, err
	}
	f.EndDate = end

	if f.StartDate != nil && f.EndDate != nil && f.EndDate.Before(*f.StartDate) {
		return stats.Filter{}, pkgerrors.New(pkgerrors.CodeValidation, "end_date must not precede start_date")
	}
	return f, nil
}

// firstQueryValue returns the first non-empty value among the given keys;
// source_country is the documented key and country a shorter accepted alias.
func firstQueryValue(q url.Values, keys ...string) string {
	for _, key := range keys {
		if value := strings.TrimSpace(q.Get(key)); value != "" {
			return value
		}
	}
	return ""
}

func parseQueryDate(raw, field string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(queryDateLayout, raw)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "date must be formatted YYYY-MM-DD").WithDetails(map[string]any{"field": field})
	}
	return &t, nil
}
