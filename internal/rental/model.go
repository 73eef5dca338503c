package rental

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/wheels-backend/internal/pkg/apperror"
)

var (
	ErrNotFound           = apperror.New(http.StatusNotFound, "rental not found")
	ErrVehicleNotFound    = apperror.New(http.StatusNotFound, "vehicle not found")
	ErrInvalidInterval    = apperror.New(http.StatusBadRequest, "invalid rental interval")
	ErrVehicleUnavailable = apperror.New(http.StatusConflict, "vehicle is not available for the selected period")
	ErrInvalidTransition  = apperror.New(http.StatusConflict, "rental is not active")
	ErrPermissionDenied   = apperror.New(http.StatusForbidden, "permission denied")
)

type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Terminal reports whether no further transition may leave this status.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Rental is a booking of one vehicle for a half-open [StartTime, EndTime)
// interval. Rentals are never deleted; completed and cancelled ones are
// retained as history.
type Rental struct {
	ID             int64
	CustomerID     string
	VehicleID      int64
	StartTime      time.Time
	EndTime        time.Time
	TotalCostCents int64
	Status         Status
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Overlaps reports whether the half-open intervals [s1, e1) and [s2, e2)
// share any instant. Boundary-touching intervals do not overlap.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && s2.Before(e1)
}

// Filter defines parameters for listing rentals.
type Filter struct {
	CustomerID string
	VehicleID  int64
	Status     string
	StartDate  *time.Time // Only rentals starting at or after this time
	EndDate    *time.Time // Only rentals ending at or before this time
	Page       int
	PageSize   int
}
