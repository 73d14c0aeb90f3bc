package charges

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/united17/relief-portal/internal/changefeed"
	"github.com/united17/relief-portal/pkg/db/models"
	pkgerrors "github.com/united17/relief-portal/pkg/errors"
)

type chargeRepository interface {
	Create(ctx context.Context, charge *models.AdditionalCharge) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListAll(ctx context.Context) ([]models.AdditionalCharge, error)
}

// ChargeDTO is the additional charge shape returned by the API.
type ChargeDTO struct {
	ID          uuid.UUID `json:"id"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	ChargeDate  time.Time `json:"charge_date"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateChargeInput holds creation-time charge data.
type CreateChargeInput struct {
	Description string
	Amount      float64
	ChargeDate  time.Time
}

// Service exposes additional charge operations.
type Service interface {
	Create(ctx context.Context, actor string, input CreateChargeInput) (*ChargeDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]ChargeDTO, error)
	ListModels(ctx context.Context) ([]models.AdditionalCharge, error)
}

type service struct {
	repo     chargeRepository
	notifier changefeed.Notifier
}

// NewService builds a charge service.
func NewService(repo chargeRepository, notifier changefeed.Notifier) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("charge repository required")
	}
	return &service{repo: repo, notifier: notifier}, nil
}

func (s *service) Create(ctx context.Context, actor string, input CreateChargeInput) (*ChargeDTO, error) {
	actor = strings.TrimSpace(actor)
	if actor == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "creator identity required")
	}

	charge := &models.AdditionalCharge{
		Description: strings.TrimSpace(input.Description),
		Amount:      input.Amount,
		ChargeDate:  input.ChargeDate,
		CreatedBy:   actor,
	}
	if charge.Description == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "description is required")
	}
	if charge.Amount < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be non-negative")
	}
	if charge.ChargeDate.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "charge date is required")
	}

	if err := s.repo.Create(ctx, charge); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create charge")
	}

	s.notify(ctx, changefeed.ActionCreated)
	return fromModel(charge), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "charge not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete charge")
	}

	s.notify(ctx, changefeed.ActionDeleted)
	return nil
}

func (s *service) List(ctx context.Context) ([]ChargeDTO, error) {
	charges, err := s.ListModels(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ChargeDTO, 0, len(charges))
	for i := range charges {
		out = append(out, *fromModel(&charges[i]))
	}
	return out, nil
}

// ListModels returns raw charge rows for the aggregation path.
func (s *service) ListModels(ctx context.Context) ([]models.AdditionalCharge, error) {
	charges, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list charges")
	}
	return charges, nil
}

func (s *service) notify(ctx context.Context, action string) {
	if s.notifier == nil {
		return
	}
	s.notifier.RecordChanged(ctx, changefeed.EntityCharges, action)
}

func fromModel(m *models.AdditionalCharge) *ChargeDTO {
	return &ChargeDTO{
		ID:          m.ID,
		Description: m.Description,
		Amount:      m.Amount,
		ChargeDate:  m.ChargeDate,
		CreatedBy:   m.CreatedBy,
		CreatedAt:   m.CreatedAt,
	}
}
