package controllers

import (
	"net/http"

	"github.com/united17/relief-portal/api/middleware"
	"github.com/united17/relief-portal/api/responses"
	"github.com/united17/relief-portal/api/validators"
	"github.com/united17/relief-portal/internal/charges"
	"github.com/united17/relief-portal/pkg/logger"
)

type createChargeRequest struct {
	Description string  `json:"description" validate:"required,max=500"`
	Amount      float64 `json:"amount" validate:"gte=0"`
	ChargeDate  string  `json:"charge_date" validate:"required"`
}

func ChargeCreate(svc charges.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createChargeRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		date, err := parseBodyDate(req.ChargeDate, "charge_date")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Create(r.Context(), middleware.UsernameFromContext(r.Context()), charges.CreateChargeInput{
			Description: req.Description,
			Amount:      req.Amount,
			ChargeDate:  date,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

func ChargeDelete(svc charges.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "chargeId")
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

func ChargeList(svc charges.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dtos, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"charges": dtos})
	}
}
