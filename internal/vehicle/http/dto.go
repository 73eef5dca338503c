package http

import (
	"time"

	"github.com/nekogravitycat/wheels-backend/internal/pkg/request"
	"github.com/nekogravitycat/wheels-backend/internal/vehicle"
)

// ListVehiclesRequest defines query parameters for listing vehicles.
type ListVehiclesRequest struct {
	request.ListParams
	Category      string `form:"category" binding:"omitempty,oneof=bicycle car motorcycle"`
	Status        string `form:"status" binding:"omitempty,oneof=available rented maintenance damaged retired"`
	AvailableOnly bool   `form:"available_only"`
}

// Validate performs custom validation for ListVehiclesRequest.
func (r *ListVehiclesRequest) Validate() error {
	return nil
}

type VehicleResponse struct {
	ID              int64      `json:"id"`
	Model           string     `json:"model"`
	Year            int        `json:"year"`
	Category        string     `json:"category"`
	HourlyRateCents int64      `json:"hourly_rate_cents"`
	LicensePlate    string     `json:"license_plate"`
	Description     string     `json:"description"`
	ImageURI        *string    `json:"image_uri"`
	LastMaintenance *time.Time `json:"last_maintenance"`
	Status          string     `json:"status"`
	Available       bool       `json:"available"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func NewVehicleResponse(v *vehicle.Vehicle) VehicleResponse {
	return VehicleResponse{
		ID:              v.ID,
		Model:           v.Model,
		Year:            v.Year,
		Category:        string(v.Category),
		HourlyRateCents: v.HourlyRateCents,
		LicensePlate:    v.LicensePlate,
		Description:     v.Description,
		ImageURI:        v.ImageURI,
		LastMaintenance: v.LastMaintenance,
		Status:          string(v.Status),
		Available:       v.Available,
		CreatedAt:       v.CreatedAt,
		UpdatedAt:       v.UpdatedAt,
	}
}

type CreateVehicleRequest struct {
	Model           string `json:"model" binding:"required"`
	Year            int    `json:"year" binding:"required,min=1900"`
	Category        string `json:"category" binding:"required,oneof=bicycle car motorcycle"`
	HourlyRateCents int64  `json:"hourly_rate_cents" binding:"required,min=1"`
	LicensePlate    string `json:"license_plate" binding:"required"`
	Description     string `json:"description"`
}

// Validate performs custom validation for CreateVehicleRequest.
func (r *CreateVehicleRequest) Validate() error {
	return nil
}

type UpdateVehicleRequest struct {
	Model           *string    `json:"model"`
	Year            *int       `json:"year" binding:"omitempty,min=1900"`
	HourlyRateCents *int64     `json:"hourly_rate_cents" binding:"omitempty,min=1"`
	Description     *string    `json:"description"`
	LastMaintenance *time.Time `json:"last_maintenance"`
}

type UpdateVehicleStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=available rented maintenance damaged retired"`
}
