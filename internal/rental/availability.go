package rental

import (
	"context"
	"errors"
	"time"

	"github.com/nekogravitycat/wheels-backend/internal/vehicle"
)

// VehicleLookup is the slice of the vehicle registry the rental core
// needs. Satisfied by vehicle.Service.
type VehicleLookup interface {
	GetByID(ctx context.Context, id int64) (*vehicle.Vehicle, error)
}

// AvailabilityChecker decides whether a vehicle can be booked for a
// requested interval. Read-only; the scheduler serializes callers that
// intend to act on the answer.
type AvailabilityChecker struct {
	vehicles VehicleLookup
	repo     Repository
}

func NewAvailabilityChecker(vehicles VehicleLookup, repo Repository) *AvailabilityChecker {
	return &AvailabilityChecker{
		vehicles: vehicles,
		repo:     repo,
	}
}

// IsAvailable reports whether the vehicle is free over [start, end).
//
// The vehicle's own status is checked first: a vehicle in maintenance,
// damaged or retired is never available regardless of its booking
// history. A rented vehicle only passes when excludeRentalID is set,
// i.e. when checking an extension of the rental that holds it.
// After the status gate, active rentals are scanned for interval overlap
// with the strict half-open test, so boundary-touching bookings coexist.
func (c *AvailabilityChecker) IsAvailable(ctx context.Context, vehicleID int64, start, end time.Time, excludeRentalID int64) (bool, error) {
	v, err := c.vehicles.GetByID(ctx, vehicleID)
	if err != nil {
		if errors.Is(err, vehicle.ErrNotFound) {
			return false, ErrVehicleNotFound
		}
		return false, err
	}

	switch v.Status {
	case vehicle.StatusAvailable:
	case vehicle.StatusRented:
		if excludeRentalID == 0 {
			return false, nil
		}
	default:
		return false, nil
	}

	overlap, err := c.repo.HasOverlap(ctx, vehicleID, start, end, excludeRentalID)
	if err != nil {
		return false, err
	}
	return !overlap, nil
}
