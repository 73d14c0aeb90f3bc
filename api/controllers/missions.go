package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/united17/relief-portal/api/middleware"
	"github.com/united17/relief-portal/api/responses"
	"github.com/united17/relief-portal/api/validators"
	"github.com/united17/relief-portal/internal/missions"
	"github.com/united17/relief-portal/pkg/enums"
	pkgerrors "github.com/united17/relief-portal/pkg/errors"
	"github.com/united17/relief-portal/pkg/logger"
)

type missionItemRequest struct {
	ItemName  string  `json:"item_name" validate:"required,max=160"`
	Quantity  float64 `json:"quantity" validate:"gt=0"`
	UnitPrice float64 `json:"unit_price" validate:"gte=0"`
}

type createMissionRequest struct {
	District         string               `json:"district" validate:"required,max=80"`
	Area             string               `json:"area" validate:"required,max=160"`
	TotalSpent       float64              `json:"total_spent" validate:"gte=0"`
	MissionDate      string               `json:"mission_date" validate:"required"`
	Remarks          *string              `json:"remarks,omitempty"`
	VolunteersCount  int                  `json:"volunteers_count" validate:"gte=0"`
	VolunteerNames   []string             `json:"volunteer_names,omitempty"`
	DriveLink        *string              `json:"drive_link,omitempty"`
	FeaturedImageURL *string              `json:"featured_image_url,omitempty" validate:"omitempty,url"`
	Items            []missionItemRequest `json:"items,omitempty" validate:"dive"`
}

type updateMissionRequest struct {
	District         *string   `json:"district,omitempty"`
	Area             *string   `json:"area,omitempty"`
	TotalSpent       *float64  `json:"total_spent,omitempty" validate:"omitempty,gte=0"`
	MissionDate      *string   `json:"mission_date,omitempty"`
	Remarks          *string   `json:"remarks,omitempty"`
	VolunteersCount  *int      `json:"volunteers_count,omitempty" validate:"omitempty,gte=0"`
	VolunteerNames   *[]string `json:"volunteer_names,omitempty"`
	DriveLink        *string   `json:"drive_link,omitempty"`
	FeaturedImageURL *string   `json:"featured_image_url,omitempty" validate:"omitempty,url"`
}

func MissionCreate(svc missions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createMissionRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		date, err := parseBodyDate(req.MissionDate, "mission_date")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]missions.ItemInput, 0, len(req.Items))
		for _, item := range req.Items {
			items = append(items, missions.ItemInput{
				ItemName:  item.ItemName,
				Quantity:  item.Quantity,
				UnitPrice: item.UnitPrice,
			})
		}

		dto, err := svc.Create(r.Context(), middleware.UsernameFromContext(r.Context()), missions.CreateMissionInput{
			District:         req.District,
			Area:             req.Area,
			TotalSpent:       req.TotalSpent,
			MissionDate:      date,
			Remarks:          req.Remarks,
			VolunteersCount:  req.VolunteersCount,
			VolunteerNames:   req.VolunteerNames,
			DriveLink:        req.DriveLink,
			FeaturedImageURL: req.FeaturedImageURL,
			Items:            items,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

func MissionUpdate(svc missions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "missionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req updateMissionRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := missions.UpdateMissionInput{
			District:         req.District,
			Area:             req.Area,
			TotalSpent:       req.TotalSpent,
			Remarks:          req.Remarks,
			VolunteersCount:  req.VolunteersCount,
			VolunteerNames:   req.VolunteerNames,
			DriveLink:        req.DriveLink,
			FeaturedImageURL: req.FeaturedImageURL,
		}
		if req.MissionDate != nil {
			date, err := parseBodyDate(*req.MissionDate, "mission_date")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input.MissionDate = &date
		}

		dto, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

func MissionDelete(svc missions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "missionId")
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

func MissionDetail(svc missions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "missionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

func MissionList(svc missions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dtos, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"missions": dtos})
	}
}

func MissionAddItem(svc missions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "missionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req missionItemRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.AddItem(r.Context(), id, missions.ItemInput{
			ItemName:  req.ItemName,
			Quantity:  req.Quantity,
			UnitPrice: req.UnitPrice,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

func MissionRemoveItem(svc missions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		missionID, err := pathUUID(r, "missionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		itemID, err := pathUUID(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.RemoveItem(r.Context(), missionID, itemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// MissionUploadPhoto accepts a multipart upload and stores the file against
// the mission. The part name must be "photo".
func MissionUploadPhoto(svc missions.Service, maxUploadBytes int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "missionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "photo exceeds the upload size limit"))
			return
		}

		file, header, err := r.FormFile("photo")
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "multipart field 'photo' is required"))
			return
		}
		defer file.Close()

		input := missions.PhotoInput{
			PhotoType:   enums.PhotoType(r.FormValue("photo_type")),
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
		}
		if raw := r.FormValue("linked_item_id"); raw != "" {
			itemID, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeValidation, "invalid linked_item_id"))
				return
			}
			input.LinkedItemID = &itemID
		}

		dto, err := svc.AttachPhoto(r.Context(), id, input, file)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}
