package rental

import (
	"time"

	"github.com/nekogravitycat/wheels-backend/internal/vehicle"
)

// categoryMultipliers holds the per-category cost factor in percent,
// applied on top of the base hourly rate.
var categoryMultipliers = map[vehicle.Category]int64{
	vehicle.CategoryBicycle:    100,
	vehicle.CategoryCar:        120,
	vehicle.CategoryMotorcycle: 110,
}

// PricingEngine computes rental costs. All methods are pure: the same
// inputs always produce the same cost, which lets the scheduler recompute
// at completion time.
type PricingEngine struct{}

func NewPricingEngine() *PricingEngine {
	return &PricingEngine{}
}

// Cost returns the price in cents of renting a vehicle of the given
// category and hourly rate over [start, end).
//
// Partial hours are billed as full hours (duration rounds up), then the
// category multiplier is applied. The final division rounds half-up.
func (p *PricingEngine) Cost(category vehicle.Category, hourlyRateCents int64, start, end time.Time) (int64, error) {
	if !end.After(start) {
		return 0, ErrInvalidInterval
	}

	mult, ok := categoryMultipliers[category]
	if !ok {
		return 0, vehicle.ErrInvalidCategory
	}

	hours := billableHours(start, end)
	return (hours*hourlyRateCents*mult + 50) / 100, nil
}

// billableHours returns the interval length in hours, rounded up.
// Computed on the duration directly to avoid float drift.
func billableHours(start, end time.Time) int64 {
	d := end.Sub(start)
	hours := int64(d / time.Hour)
	if d%time.Hour != 0 {
		hours++
	}
	return hours
}
