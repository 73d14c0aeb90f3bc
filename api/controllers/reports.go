package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/united17/relief-portal/api/responses"
	"github.com/united17/relief-portal/api/validators"
	"github.com/united17/relief-portal/internal/reports"
	pkgerrors "github.com/united17/relief-portal/pkg/errors"
	"github.com/united17/relief-portal/pkg/logger"
)

// DonationReport streams the filtered donation list as a PDF download.
func DonationReport(svc reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := validators.ParseFilter(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		doc, err := svc.DonationReport(r.Context(), reports.Options{
			Title:  validators.SanitizeString(r.URL.Query().Get("title"), 120),
			Filter: filter,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WritePDF(w, reportFilename("donations"), doc)
	}
}

// CollectorReport renders one collector's donations.
func CollectorReport(svc reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		collector := strings.TrimSpace(r.URL.Query().Get("collector"))
		if collector == "" {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "collector query parameter is required"))
			return
		}

		filter, err := validators.ParseFilter(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		doc, err := svc.CollectorReport(r.Context(), collector, reports.Options{Filter: filter})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WritePDF(w, reportFilename("collections-"+strings.ToLower(collector)), doc)
	}
}

func reportFilename(stem string) string {
	return stem + "-" + time.Now().UTC().Format("20060102") + ".pdf"
}
