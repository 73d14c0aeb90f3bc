package charges

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/united17/relief-portal/pkg/db/models"
	pkgerrors "github.com/united17/relief-portal/pkg/errors"
)

type stubChargeRepo struct {
	created *models.AdditionalCharge
	saveErr error
	delErr  error
	rows    []models.AdditionalCharge
	listErr error
}

func (s *stubChargeRepo) Create(ctx context.Context, charge *models.AdditionalCharge) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	charge.ID = uuid.New()
	s.created = charge
	return nil
}

func (s *stubChargeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return s.delErr
}

func (s *stubChargeRepo) ListAll(ctx context.Context) ([]models.AdditionalCharge, error) {
	return s.rows, s.listErr
}

type recordingNotifier struct {
	events []string
}

func (r *recordingNotifier) RecordChanged(ctx context.Context, entity, action string) {
	r.events = append(r.events, entity+":"+action)
}

func TestCreateCharge(t *testing.T) {
	repo := &stubChargeRepo{}
	notifier := &recordingNotifier{}
	svc, err := NewService(repo, notifier)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	dto, err := svc.Create(context.Background(), "Inas", CreateChargeInput{
		Description: "  Lorry hire for Ratnapura run ",
		Amount:      18000,
		ChargeDate:  time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if dto.Description != "Lorry hire for Ratnapura run" {
		t.Fatalf("description not trimmed: %q", dto.Description)
	}
	if dto.CreatedBy != "Inas" {
		t.Fatalf("created_by = %s", dto.CreatedBy)
	}
	if len(notifier.events) != 1 || notifier.events[0] != "additional_charges:created" {
		t.Fatalf("unexpected notifications %v", notifier.events)
	}
}

func TestCreateChargeValidation(t *testing.T) {
	svc, _ := NewService(&stubChargeRepo{}, nil)

	valid := CreateChargeInput{
		Description: "Fuel",
		Amount:      5000,
		ChargeDate:  time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC),
	}

	cases := []struct {
		name  string
		actor string
		alter func(*CreateChargeInput)
		code  pkgerrors.Code
	}{
		{"missing actor", "", func(i *CreateChargeInput) {}, pkgerrors.CodeUnauthorized},
		{"blank description", "Inas", func(i *CreateChargeInput) { i.Description = "  " }, pkgerrors.CodeValidation},
		{"negative amount", "Inas", func(i *CreateChargeInput) { i.Amount = -1 }, pkgerrors.CodeValidation},
		{"missing date", "Inas", func(i *CreateChargeInput) { i.ChargeDate = time.Time{} }, pkgerrors.CodeValidation},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := valid
			tc.alter(&input)
			_, err := svc.Create(context.Background(), tc.actor, input)
			if typed := pkgerrors.As(err); typed == nil || typed.Code() != tc.code {
				t.Fatalf("expected %s, got %v", tc.code, err)
			}
		})
	}
}

func TestDeleteCharge(t *testing.T) {
	notifier := &recordingNotifier{}
	svc, _ := NewService(&stubChargeRepo{}, notifier)

	if err := svc.Delete(context.Background(), uuid.New()); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(notifier.events) != 1 || notifier.events[0] != "additional_charges:deleted" {
		t.Fatalf("unexpected notifications %v", notifier.events)
	}
}

func TestDeleteChargeNotFound(t *testing.T) {
	svc, _ := NewService(&stubChargeRepo{delErr: gorm.ErrRecordNotFound}, nil)

	err := svc.Delete(context.Background(), uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListChargesRepoError(t *testing.T) {
	svc, _ := NewService(&stubChargeRepo{listErr: fmt.Errorf("connection reset")}, nil)

	_, err := svc.List(context.Background())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}
