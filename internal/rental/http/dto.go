package http

import (
	"time"

	"github.com/nekogravitycat/wheels-backend/internal/pkg/request"
	"github.com/nekogravitycat/wheels-backend/internal/rental"
)

// ListRentalsRequest defines query parameters for listing rentals.
type ListRentalsRequest struct {
	request.ListParams
	VehicleID  int64      `form:"vehicle_id" binding:"omitempty,min=1"`
	CustomerID string     `form:"customer_id" binding:"omitempty,uuid"`
	Status     string     `form:"status" binding:"omitempty,oneof=active completed cancelled"`
	StartDate  *time.Time `form:"start_date" time_format:"2006-01-02T15:04:05Z07:00"`
	EndDate    *time.Time `form:"end_date" time_format:"2006-01-02T15:04:05Z07:00"`
}

// Validate performs custom validation for ListRentalsRequest.
func (r *ListRentalsRequest) Validate() error {
	if r.StartDate != nil && r.EndDate != nil {
		if r.StartDate.After(*r.EndDate) {
			return rental.ErrInvalidInterval
		}
	}
	return nil
}

type RentalResponse struct {
	ID             int64     `json:"id"`
	CustomerID     string    `json:"customer_id"`
	VehicleID      int64     `json:"vehicle_id"`
	StartTime      time.Time `json:"start_time"`
	EndTime        time.Time `json:"end_time"`
	TotalCostCents int64     `json:"total_cost_cents"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func NewRentalResponse(r *rental.Rental) RentalResponse {
	return RentalResponse{
		ID:             r.ID,
		CustomerID:     r.CustomerID,
		VehicleID:      r.VehicleID,
		StartTime:      r.StartTime,
		EndTime:        r.EndTime,
		TotalCostCents: r.TotalCostCents,
		Status:         string(r.Status),
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

type CreateRentalRequest struct {
	VehicleID int64     `json:"vehicle_id" binding:"required,min=1"`
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required"`
}

// Validate performs custom validation for CreateRentalRequest.
func (r *CreateRentalRequest) Validate() error {
	if !r.EndTime.After(r.StartTime) {
		return rental.ErrInvalidInterval
	}
	return nil
}

type CompleteRentalRequest struct {
	ActualEndTime *time.Time `json:"actual_end_time"`
}

type ExtendRentalRequest struct {
	NewEndTime time.Time `json:"new_end_time" binding:"required"`
}

// AvailabilityQuery defines query parameters for the availability and
// cost endpoints.
type AvailabilityQuery struct {
	VehicleID int64     `form:"vehicle_id" binding:"required,min=1"`
	StartTime time.Time `form:"start_time" binding:"required" time_format:"2006-01-02T15:04:05Z07:00"`
	EndTime   time.Time `form:"end_time" binding:"required" time_format:"2006-01-02T15:04:05Z07:00"`
}

type AvailabilityResponse struct {
	VehicleID int64     `json:"vehicle_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Available bool      `json:"available"`
}

type CostResponse struct {
	VehicleID      int64     `json:"vehicle_id"`
	StartTime      time.Time `json:"start_time"`
	EndTime        time.Time `json:"end_time"`
	TotalCostCents int64     `json:"total_cost_cents"`
}
