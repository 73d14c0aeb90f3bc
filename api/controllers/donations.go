package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/united17/relief-portal/api/middleware"
	"github.com/united17/relief-portal/api/responses"
	"github.com/united17/relief-portal/api/validators"
	"github.com/united17/relief-portal/internal/donations"
	pkgerrors "github.com/united17/relief-portal/pkg/errors"
	"github.com/united17/relief-portal/pkg/logger"
	"github.com/united17/relief-portal/pkg/pagination"
)

const bodyDateLayout = "2006-01-02"

type createDonationRequest struct {
	SourceCountry string  `json:"source_country" validate:"required"`
	CountryName   *string `json:"country_name,omitempty"`
	Currency      string  `json:"currency" validate:"required,max=8"`
	Amount        float64 `json:"amount" validate:"gte=0"`
	AmountLKR     float64 `json:"amount_lkr" validate:"gte=0"`
	DonorName     *string `json:"donor_name,omitempty"`
	DonationDate  string  `json:"donation_date" validate:"required"`
}

type updateDonationRequest struct {
	SourceCountry *string  `json:"source_country,omitempty"`
	CountryName   *string  `json:"country_name,omitempty"`
	Currency      *string  `json:"currency,omitempty"`
	Amount        *float64 `json:"amount,omitempty" validate:"omitempty,gte=0"`
	AmountLKR     *float64 `json:"amount_lkr,omitempty" validate:"omitempty,gte=0"`
	DonorName     *string  `json:"donor_name,omitempty"`
	DonationDate  *string  `json:"donation_date,omitempty"`
}

type donationListResponse struct {
	Donations  []donations.DonationDTO `json:"donations"`
	NextCursor string                  `json:"next_cursor,omitempty"`
}

func DonationCreate(svc donations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createDonationRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		date, err := parseBodyDate(req.DonationDate, "donation_date")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Create(r.Context(), middleware.UsernameFromContext(r.Context()), donations.CreateDonationInput{
			SourceCountry: req.SourceCountry,
			CountryName:   req.CountryName,
			Currency:      req.Currency,
			Amount:        req.Amount,
			AmountLKR:     req.AmountLKR,
			DonorName:     req.DonorName,
			DonationDate:  date,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

func DonationUpdate(svc donations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "donationId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req updateDonationRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := donations.UpdateDonationInput{
			SourceCountry: req.SourceCountry,
			CountryName:   req.CountryName,
			Currency:      req.Currency,
			Amount:        req.Amount,
			AmountLKR:     req.AmountLKR,
			DonorName:     req.DonorName,
		}
		if req.DonationDate != nil {
			date, err := parseBodyDate(*req.DonationDate, "donation_date")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input.DonationDate = &date
		}

		dto, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

func DonationDelete(svc donations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "donationId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// DonationList serves both the public ledger and the admin listing; the
// filter dimensions and cursor pagination are shared.
func DonationList(svc donations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := validators.ParseFilter(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dtos, next, err := svc.List(r.Context(), filter, pagination.Params{
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, donationListResponse{Donations: dtos, NextCursor: next})
	}
}

func parseBodyDate(raw, field string) (time.Time, error) {
	t, err := time.Parse(bodyDateLayout, raw)
	if err != nil {
		return time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, "date must be formatted YYYY-MM-DD").
			WithDetails(map[string]any{"field": field})
	}
	return t, nil
}

func pathUUID(r *http.Request, param string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid identifier").
			WithDetails(map[string]any{"field": param})
	}
	return id, nil
}
