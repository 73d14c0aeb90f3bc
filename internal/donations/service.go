package donations

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/united17/relief-portal/internal/changefeed"
	"github.com/united17/relief-portal/internal/stats"
	"github.com/united17/relief-portal/pkg/db/models"
	pkgerrors "github.com/united17/relief-portal/pkg/errors"
	"github.com/united17/relief-portal/pkg/pagination"
)

var sourceCountries = map[string]struct{}{
	stats.SourceCountrySriLanka: {},
	stats.SourceCountryUAE:      {},
	stats.SourceCountryGermany:  {},
	stats.SourceCountryPakistan: {},
	stats.SourceCountryOther:    {},
}

type donationRepository interface {
	Create(ctx context.Context, donation *models.Donation) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Donation, error)
	Update(ctx context.Context, donation *models.Donation) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListAll(ctx context.Context) ([]models.Donation, error)
	List(ctx context.Context, f stats.Filter, limit int, cursor *pagination.Cursor) ([]models.Donation, error)
}

// Service exposes donation operations.
type Service interface {
	Create(ctx context.Context, actor string, input CreateDonationInput) (*DonationDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateDonationInput) (*DonationDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, f stats.Filter, p pagination.Params) ([]DonationDTO, string, error)
	ListFiltered(ctx context.Context, f stats.Filter) ([]models.Donation, error)
}

type service struct {
	repo     donationRepository
	notifier changefeed.Notifier
}

// NewService builds a donation service. notifier may be nil when change
// notifications are disabled.
func NewService(repo donationRepository, notifier changefeed.Notifier) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("donation repository required")
	}
	return &service{repo: repo, notifier: notifier}, nil
}

func (s *service) Create(ctx context.Context, actor string, input CreateDonationInput) (*DonationDTO, error) {
	actor = strings.TrimSpace(actor)
	if actor == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "collector identity required")
	}

	donation := &models.Donation{
		SourceCountry: strings.TrimSpace(input.SourceCountry),
		CountryName:   cloneStringPtr(input.CountryName),
		Currency:      strings.ToUpper(strings.TrimSpace(input.Currency)),
		Amount:        input.Amount,
		AmountLKR:     input.AmountLKR,
		DonorName:     cloneStringPtr(input.DonorName),
		DonationDate:  input.DonationDate,
		CollectedBy:   actor,
	}

	if err := normalizeDonation(donation); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, donation); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create donation")
	}

	s.notify(ctx, changefeed.ActionCreated)
	return FromModel(donation), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateDonationInput) (*DonationDTO, error) {
	donation, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "donation not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load donation")
	}

	if input.SourceCountry != nil {
		donation.SourceCountry = strings.TrimSpace(*input.SourceCountry)
	}
	if input.CountryName != nil {
		donation.CountryName = cloneStringPtr(input.CountryName)
	}
	if input.Currency != nil {
		donation.Currency = strings.ToUpper(strings.TrimSpace(*input.Currency))
	}
	if input.Amount != nil {
		donation.Amount = *input.Amount
	}
	if input.AmountLKR != nil {
		donation.AmountLKR = *input.AmountLKR
	}
	if input.DonorName != nil {
		donation.DonorName = cloneStringPtr(input.DonorName)
	}
	if input.DonationDate != nil {
		donation.DonationDate = *input.DonationDate
	}

	if err := normalizeDonation(donation); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, donation); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update donation")
	}

	s.notify(ctx, changefeed.ActionUpdated)
	return FromModel(donation), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "donation not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete donation")
	}

	s.notify(ctx, changefeed.ActionDeleted)
	return nil
}

func (s *service) List(ctx context.Context, f stats.Filter, p pagination.Params) ([]DonationDTO, string, error) {
	cursor, err := pagination.ParseCursor(p.Cursor)
	if err != nil {
		return nil, "", pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(p.Limit)
	rows, err := s.repo.List(ctx, f, limit+1, cursor)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list donations")
	}

	var next string
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		next = pagination.EncodeCursor(pagination.Cursor{Date: last.DonationDate, ID: last.ID})
	}

	return FromModels(rows), next, nil
}

// ListFiltered returns all donations matching the filter, applied in memory
// over the full ordered set. Stats and report generation run on this path so
// both share stats.ApplyFilter semantics exactly.
func (s *service) ListFiltered(ctx context.Context, f stats.Filter) ([]models.Donation, error) {
	all, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list donations")
	}
	return stats.ApplyFilter(all, f), nil
}

func (s *service) notify(ctx context.Context, action string) {
	if s.notifier == nil {
		return
	}
	s.notifier.RecordChanged(ctx, changefeed.EntityDonations, action)
}

// normalizeDonation enforces the recording rules: a closed source_country
// enumeration, country_name only for Other, LKR fixed for Sri Lanka, and
// non-negative pre-converted amounts.
func normalizeDonation(d *models.Donation) error {
	if _, ok := sourceCountries[d.SourceCountry]; !ok {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid source country").
			WithDetails(map[string]string{"source_country": d.SourceCountry})
	}

	if d.SourceCountry == stats.SourceCountryOther {
		if d.CountryName == nil || strings.TrimSpace(*d.CountryName) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "country name is required for Other")
		}
		trimmed := strings.TrimSpace(*d.CountryName)
		d.CountryName = &trimmed
	} else {
		d.CountryName = nil
	}

	if d.SourceCountry == stats.SourceCountrySriLanka {
		d.Currency = "LKR"
		d.AmountLKR = d.Amount
	}

	if d.Currency == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "currency is required")
	}
	if d.Amount < 0 || d.AmountLKR < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "amounts must be non-negative")
	}
	if d.DonationDate.IsZero() {
		return pkgerrors.New(pkgerrors.CodeValidation, "donation date is required")
	}

	d.DonationDate = time.Date(
		d.DonationDate.Year(), d.DonationDate.Month(), d.DonationDate.Day(),
		0, 0, 0, 0, time.UTC,
	)
	return nil
}
