package missions

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/united17/relief-portal/internal/changefeed"
	"github.com/united17/relief-portal/pkg/db/models"
	pkgerrors "github.com/united17/relief-portal/pkg/errors"
)

type missionRepository interface {
	Create(ctx context.Context, mission *models.Mission) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Mission, error)
	Update(ctx context.Context, mission *models.Mission) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListAll(ctx context.Context) ([]models.Mission, error)
	AddItem(ctx context.Context, missionID uuid.UUID, item *models.MissionItem) error
	RemoveItem(ctx context.Context, missionID, itemID uuid.UUID) error
	AddPhoto(ctx context.Context, photo *models.MissionPhoto) error
}

type photoUploader interface {
	UploadObject(ctx context.Context, object, contentType string, payload io.Reader) (string, error)
}

// Service exposes mission operations.
type Service interface {
	Create(ctx context.Context, actor string, input CreateMissionInput) (*MissionDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateMissionInput) (*MissionDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*MissionDTO, error)
	List(ctx context.Context) ([]MissionDTO, error)
	ListModels(ctx context.Context) ([]models.Mission, error)
	AddItem(ctx context.Context, missionID uuid.UUID, input ItemInput) (*MissionDTO, error)
	RemoveItem(ctx context.Context, missionID, itemID uuid.UUID) (*MissionDTO, error)
	AttachPhoto(ctx context.Context, missionID uuid.UUID, input PhotoInput, payload io.Reader) (*MissionPhotoDTO, error)
}

type service struct {
	repo     missionRepository
	uploader photoUploader
	notifier changefeed.Notifier
}

// NewService builds a mission service. uploader may be nil when photo storage
// is disabled; notifier may be nil when change notifications are disabled.
func NewService(repo missionRepository, uploader photoUploader, notifier changefeed.Notifier) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("mission repository required")
	}
	return &service{repo: repo, uploader: uploader, notifier: notifier}, nil
}

func (s *service) Create(ctx context.Context, actor string, input CreateMissionInput) (*MissionDTO, error) {
	actor = strings.TrimSpace(actor)
	if actor == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "creator identity required")
	}

	mission := &models.Mission{
		District:         strings.TrimSpace(input.District),
		Area:             strings.TrimSpace(input.Area),
		TotalSpent:       input.TotalSpent,
		MissionDate:      input.MissionDate,
		Remarks:          cloneStringPtr(input.Remarks),
		VolunteersCount:  input.VolunteersCount,
		VolunteerNames:   input.VolunteerNames,
		DriveLink:        cloneStringPtr(input.DriveLink),
		FeaturedImageURL: cloneStringPtr(input.FeaturedImageURL),
		CreatedBy:        actor,
	}

	if err := validateMission(mission); err != nil {
		return nil, err
	}

	if len(input.Items) > 0 {
		items, total, err := buildItems(input.Items)
		if err != nil {
			return nil, err
		}
		mission.Items = items
		mission.TotalSpent = total
	}

	if err := s.repo.Create(ctx, mission); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create mission")
	}

	s.notify(ctx, changefeed.ActionCreated)
	return FromModel(mission), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateMissionInput) (*MissionDTO, error) {
	mission, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.TotalSpent != nil && len(mission.Items) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeConflict,
			"total_spent is derived from items; edit the items instead")
	}

	if input.District != nil {
		mission.District = strings.TrimSpace(*input.District)
	}
	if input.Area != nil {
		mission.Area = strings.TrimSpace(*input.Area)
	}
	if input.TotalSpent != nil {
		mission.TotalSpent = *input.TotalSpent
	}
	if input.MissionDate != nil {
		mission.MissionDate = *input.MissionDate
	}
	if input.Remarks != nil {
		mission.Remarks = cloneStringPtr(input.Remarks)
	}
	if input.VolunteersCount != nil {
		mission.VolunteersCount = *input.VolunteersCount
	}
	if input.VolunteerNames != nil {
		mission.VolunteerNames = *input.VolunteerNames
	}
	if input.DriveLink != nil {
		mission.DriveLink = cloneStringPtr(input.DriveLink)
	}
	if input.FeaturedImageURL != nil {
		mission.FeaturedImageURL = cloneStringPtr(input.FeaturedImageURL)
	}

	if err := validateMission(mission); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, mission); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update mission")
	}

	s.notify(ctx, changefeed.ActionUpdated)
	return FromModel(mission), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "mission not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete mission")
	}

	s.notify(ctx, changefeed.ActionDeleted)
	return nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*MissionDTO, error) {
	mission, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(mission), nil
}

func (s *service) List(ctx context.Context) ([]MissionDTO, error) {
	missions, err := s.ListModels(ctx)
	if err != nil {
		return nil, err
	}
	return FromModels(missions), nil
}

// ListModels returns raw mission rows for the aggregation path.
func (s *service) ListModels(ctx context.Context) ([]models.Mission, error) {
	missions, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list missions")
	}
	return missions, nil
}

func (s *service) AddItem(ctx context.Context, missionID uuid.UUID, input ItemInput) (*MissionDTO, error) {
	item, err := buildItem(input)
	if err != nil {
		return nil, err
	}

	if err := s.repo.AddItem(ctx, missionID, item); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "mission not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add mission item")
	}

	s.notify(ctx, changefeed.ActionUpdated)
	return s.Get(ctx, missionID)
}

func (s *service) RemoveItem(ctx context.Context, missionID, itemID uuid.UUID) (*MissionDTO, error) {
	if err := s.repo.RemoveItem(ctx, missionID, itemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "mission item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove mission item")
	}

	s.notify(ctx, changefeed.ActionUpdated)
	return s.Get(ctx, missionID)
}

func (s *service) AttachPhoto(ctx context.Context, missionID uuid.UUID, input PhotoInput, payload io.Reader) (*MissionPhotoDTO, error) {
	if s.uploader == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "photo storage is not configured")
	}
	if !input.PhotoType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid photo type")
	}
	if payload == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "photo payload is required")
	}

	// Mission existence check up front; the upload is the expensive part.
	if _, err := s.load(ctx, missionID); err != nil {
		return nil, err
	}

	object := photoObjectName(missionID, input)
	url, err := s.uploader.UploadObject(ctx, object, input.ContentType, payload)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upload mission photo")
	}

	photo := &models.MissionPhoto{
		MissionID:    missionID,
		PhotoType:    input.PhotoType,
		PhotoURL:     url,
		LinkedItemID: input.LinkedItemID,
	}
	if err := s.repo.AddPhoto(ctx, photo); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save mission photo")
	}

	s.notify(ctx, changefeed.ActionUpdated)
	dto := FromPhotoModel(photo)
	return &dto, nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Mission, error) {
	mission, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "mission not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load mission")
	}
	return mission, nil
}

func (s *service) notify(ctx context.Context, action string) {
	if s.notifier == nil {
		return
	}
	s.notifier.RecordChanged(ctx, changefeed.EntityMissions, action)
}

func validateMission(m *models.Mission) error {
	if m.District == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "district is required")
	}
	if m.Area == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "area is required")
	}
	if m.MissionDate.IsZero() {
		return pkgerrors.New(pkgerrors.CodeValidation, "mission date is required")
	}
	if m.TotalSpent < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "total spent must be non-negative")
	}
	if m.VolunteersCount < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "volunteers count must be non-negative")
	}
	return nil
}

func buildItems(inputs []ItemInput) ([]models.MissionItem, float64, error) {
	items := make([]models.MissionItem, 0, len(inputs))
	total := decimal.Zero
	for _, in := range inputs {
		item, err := buildItem(in)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, *item)
		total = total.Add(decimal.NewFromFloat(item.TotalPrice))
	}
	return items, total.Round(2).InexactFloat64(), nil
}

// buildItem computes the line total with decimal arithmetic so 0.1-style
// binary float artifacts never reach the stored numeric column.
func buildItem(in ItemInput) (*models.MissionItem, error) {
	name := strings.TrimSpace(in.ItemName)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item name is required")
	}
	if in.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	if in.UnitPrice < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit price must be non-negative")
	}

	total := decimal.NewFromFloat(in.Quantity).
		Mul(decimal.NewFromFloat(in.UnitPrice)).
		Round(2)

	return &models.MissionItem{
		ItemName:   name,
		Quantity:   in.Quantity,
		UnitPrice:  in.UnitPrice,
		TotalPrice: total.InexactFloat64(),
	}, nil
}

func photoObjectName(missionID uuid.UUID, input PhotoInput) string {
	ext := strings.ToLower(path.Ext(input.Filename))
	return fmt.Sprintf("missions/%s/%s/%d-%s%s",
		missionID, input.PhotoType, time.Now().UTC().Unix(), uuid.NewString()[:8], ext)
}
