package missions

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/united17/relief-portal/pkg/db/models"
	"github.com/united17/relief-portal/pkg/enums"
)

// MissionDTO is the mission shape returned by the API, with its expense
// breakdown and photo evidence inlined.
type MissionDTO struct {
	ID               uuid.UUID         `json:"id"`
	District         string            `json:"district"`
	Area             string            `json:"area"`
	TotalSpent       float64           `json:"total_spent"`
	MissionDate      time.Time         `json:"mission_date"`
	Remarks          *string           `json:"remarks,omitempty"`
	VolunteersCount  int               `json:"volunteers_count"`
	VolunteerNames   []string          `json:"volunteer_names"`
	DriveLink        *string           `json:"drive_link,omitempty"`
	FeaturedImageURL *string           `json:"featured_image_url,omitempty"`
	CreatedBy        string            `json:"created_by"`
	Items            []MissionItemDTO  `json:"items"`
	Photos           []MissionPhotoDTO `json:"photos"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

// MissionItemDTO is a single expense line.
type MissionItemDTO struct {
	ID         uuid.UUID `json:"id"`
	ItemName   string    `json:"item_name"`
	Quantity   float64   `json:"quantity"`
	UnitPrice  float64   `json:"unit_price"`
	TotalPrice float64   `json:"total_price"`
}

// MissionPhotoDTO is one uploaded evidence photo.
type MissionPhotoDTO struct {
	ID           uuid.UUID       `json:"id"`
	PhotoType    enums.PhotoType `json:"photo_type"`
	PhotoURL     string          `json:"photo_url"`
	LinkedItemID *uuid.UUID      `json:"linked_item_id,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// CreateMissionInput holds creation-time mission data. When Items is
// non-empty, total_spent is derived from the line totals and the provided
// TotalSpent is ignored.
type CreateMissionInput struct {
	District         string
	Area             string
	TotalSpent       float64
	MissionDate      time.Time
	Remarks          *string
	VolunteersCount  int
	VolunteerNames   []string
	DriveLink        *string
	FeaturedImageURL *string
	Items            []ItemInput
}

// UpdateMissionInput captures editable mission fields; nil means keep.
// TotalSpent edits are rejected while the mission has line items.
type UpdateMissionInput struct {
	District         *string
	Area             *string
	TotalSpent       *float64
	MissionDate      *time.Time
	Remarks          *string
	VolunteersCount  *int
	VolunteerNames   *[]string
	DriveLink        *string
	FeaturedImageURL *string
}

// ItemInput is one expense line as submitted; total price is computed, never
// accepted from the caller.
type ItemInput struct {
	ItemName  string
	Quantity  float64
	UnitPrice float64
}

// PhotoInput describes an uploaded photo before storage.
type PhotoInput struct {
	PhotoType    enums.PhotoType
	Filename     string
	ContentType  string
	LinkedItemID *uuid.UUID
}

// FromModel maps a persisted mission into a DTO.
func FromModel(m *models.Mission) *MissionDTO {
	if m == nil {
		return nil
	}

	dto := &MissionDTO{
		ID:               m.ID,
		District:         m.District,
		Area:             m.Area,
		TotalSpent:       m.TotalSpent,
		MissionDate:      m.MissionDate,
		Remarks:          cloneStringPtr(m.Remarks),
		VolunteersCount:  m.VolunteersCount,
		VolunteerNames:   cloneNames(m.VolunteerNames),
		DriveLink:        cloneStringPtr(m.DriveLink),
		FeaturedImageURL: cloneStringPtr(m.FeaturedImageURL),
		CreatedBy:        m.CreatedBy,
		Items:            make([]MissionItemDTO, 0, len(m.Items)),
		Photos:           make([]MissionPhotoDTO, 0, len(m.Photos)),
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}

	for _, item := range m.Items {
		dto.Items = append(dto.Items, MissionItemDTO{
			ID:         item.ID,
			ItemName:   item.ItemName,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			TotalPrice: item.TotalPrice,
		})
	}
	for _, photo := range m.Photos {
		dto.Photos = append(dto.Photos, FromPhotoModel(&photo))
	}

	return dto
}

// FromPhotoModel maps a persisted photo into a DTO.
func FromPhotoModel(p *models.MissionPhoto) MissionPhotoDTO {
	return MissionPhotoDTO{
		ID:           p.ID,
		PhotoType:    p.PhotoType,
		PhotoURL:     p.PhotoURL,
		LinkedItemID: p.LinkedItemID,
		CreatedAt:    p.CreatedAt,
	}
}

// FromModels maps a mission slice preserving order.
func FromModels(ms []models.Mission) []MissionDTO {
	out := make([]MissionDTO, 0, len(ms))
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

func cloneNames(value pq.StringArray) []string {
	out := make([]string, len(value))
	copy(out, value)
	return out
}
