package rental

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/wheels-backend/internal/vehicle"
)

func TestOverlaps(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	at := func(h int) time.Time { return base.Add(time.Duration(h) * time.Hour) }

	tests := []struct {
		name           string
		s1, e1, s2, e2 time.Time
		want           bool
	}{
		{"identical intervals", at(0), at(2), at(0), at(2), true},
		{"partial overlap at the front", at(0), at(2), at(1), at(3), true},
		{"partial overlap at the back", at(1), at(3), at(0), at(2), true},
		{"contained interval", at(0), at(4), at(1), at(2), true},
		{"containing interval", at(1), at(2), at(0), at(4), true},
		{"disjoint before", at(0), at(1), at(2), at(3), false},
		{"disjoint after", at(2), at(3), at(0), at(1), false},
		{"touching at the boundary", at(0), at(2), at(2), at(4), false},
		{"touching at the boundary reversed", at(2), at(4), at(0), at(2), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(tt.s1, tt.e1, tt.s2, tt.e2))
			// The predicate is symmetric in its two intervals.
			assert.Equal(t, tt.want, Overlaps(tt.s2, tt.e2, tt.s1, tt.e1))
		})
	}
}

func TestAvailabilityCheckerStatusGate(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		status  vehicle.Status
		exclude int64
		want    bool
	}{
		{"available vehicle", vehicle.StatusAvailable, 0, true},
		{"rented vehicle", vehicle.StatusRented, 0, false},
		{"rented vehicle checked for its own extension", vehicle.StatusRented, 42, true},
		{"vehicle in maintenance", vehicle.StatusMaintenance, 0, false},
		{"damaged vehicle", vehicle.StatusDamaged, 0, false},
		{"retired vehicle", vehicle.StatusRetired, 0, false},
		{"maintenance blocks extensions too", vehicle.StatusMaintenance, 42, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, vehicles := newMemStore()
			store.addVehicle(vehicle.Vehicle{
				ID:              1,
				Category:        vehicle.CategoryCar,
				HourlyRateCents: 1000,
				Status:          tt.status,
				Available:       tt.status == vehicle.StatusAvailable,
			})

			checker := NewAvailabilityChecker(vehicles, store)
			ok, err := checker.IsAvailable(context.Background(), 1, base, base.Add(time.Hour), tt.exclude)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestAvailabilityCheckerUnknownVehicle(t *testing.T) {
	store, vehicles := newMemStore()
	checker := NewAvailabilityChecker(vehicles, store)

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	_, err := checker.IsAvailable(context.Background(), 99, base, base.Add(time.Hour), 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrVehicleNotFound))
}

func TestAvailabilityCheckerOverlapScan(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	store, vehicles := newMemStore()
	store.addVehicle(vehicle.Vehicle{
		ID:              1,
		Category:        vehicle.CategoryCar,
		HourlyRateCents: 1000,
		Status:          vehicle.StatusAvailable,
		Available:       true,
	})

	// An active rental occupying [base+2h, base+4h). The vehicle status is
	// deliberately left available so the scan itself is exercised.
	err := store.CreateActive(context.Background(), &Rental{
		CustomerID: "cust-1",
		VehicleID:  1,
		StartTime:  base.Add(2 * time.Hour),
		EndTime:    base.Add(4 * time.Hour),
		Status:     StatusActive,
	})
	require.NoError(t, err)
	store.vehicles[1].Status = vehicle.StatusAvailable
	store.vehicles[1].Available = true

	checker := NewAvailabilityChecker(vehicles, store)
	ctx := context.Background()

	ok, err := checker.IsAvailable(ctx, 1, base.Add(3*time.Hour), base.Add(5*time.Hour), 0)
	require.NoError(t, err)
	assert.False(t, ok, "overlapping window must be rejected")

	ok, err = checker.IsAvailable(ctx, 1, base, base.Add(2*time.Hour), 0)
	require.NoError(t, err)
	assert.True(t, ok, "window ending exactly at the rental start must pass")

	ok, err = checker.IsAvailable(ctx, 1, base.Add(4*time.Hour), base.Add(6*time.Hour), 0)
	require.NoError(t, err)
	assert.True(t, ok, "window starting exactly at the rental end must pass")
}
