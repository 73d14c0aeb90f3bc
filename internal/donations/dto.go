package donations

import (
	"time"

	"github.com/google/uuid"

	"github.com/united17/relief-portal/pkg/db/models"
)

// DonationDTO is the donation shape returned by the API.
type DonationDTO struct {
	ID            uuid.UUID `json:"id"`
	SourceCountry string    `json:"source_country"`
	CountryName   *string   `json:"country_name,omitempty"`
	Currency      string    `json:"currency"`
	Amount        float64   `json:"amount"`
	AmountLKR     float64   `json:"amount_lkr"`
	DonorName     *string   `json:"donor_name,omitempty"`
	DonationDate  time.Time `json:"donation_date"`
	CollectedBy   string    `json:"collected_by"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CreateDonationInput holds creation-time donation data. collected_by comes
// from the authenticated session, never the request body.
type CreateDonationInput struct {
	SourceCountry string
	CountryName   *string
	Currency      string
	Amount        float64
	AmountLKR     float64
	DonorName     *string
	DonationDate  time.Time
}

// UpdateDonationInput captures the editable donation fields; nil means keep.
type UpdateDonationInput struct {
	SourceCountry *string
	CountryName   *string
	Currency      *string
	Amount        *float64
	AmountLKR     *float64
	DonorName     *string
	DonationDate  *time.Time
}

// FromModel maps a persisted donation into a DTO.
func FromModel(m *models.Donation) *DonationDTO {
	if m == nil {
		return nil
	}
	return &DonationDTO{
		ID:            m.ID,
		SourceCountry: m.SourceCountry,
		CountryName:   cloneStringPtr(m.CountryName),
		Currency:      m.Currency,
		Amount:        m.Amount,
		AmountLKR:     m.AmountLKR,
		DonorName:     cloneStringPtr(m.DonorName),
		DonationDate:  m.DonationDate,
		CollectedBy:   m.CollectedBy,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// FromModels maps a donation slice preserving order.
func FromModels(ms []models.Donation) []DonationDTO {
	out := make([]DonationDTO, 0, len(ms))
	for i := range ms {
		out = append(out, *FromModel(&ms[i]))
	}
	return out
}

func cloneStringPtr(value *string) *string {
	if value == nil {
		return nil
	}
	cpy := *value
	return &cpy
}
