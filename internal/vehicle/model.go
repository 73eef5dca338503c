package vehicle

import (
	"errors"
	"time"
)

var (
	ErrNotFound          = errors.New("vehicle not found")
	ErrEmptyModel        = errors.New("model cannot be empty")
	ErrEmptyLicensePlate = errors.New("license plate cannot be empty")
	ErrInvalidCategory   = errors.New("invalid vehicle category")
	ErrInvalidStatus     = errors.New("invalid vehicle status")
	ErrInvalidHourlyRate = errors.New("hourly rate must be positive")
	ErrHasActiveRentals  = errors.New("vehicle has active rentals")
)

// Category determines the pricing multiplier applied by the pricing engine.
// Fixed at creation.
type Category string

const (
	CategoryBicycle    Category = "bicycle"
	CategoryCar        Category = "car"
	CategoryMotorcycle Category = "motorcycle"
)

var ValidCategories = []Category{CategoryBicycle, CategoryCar, CategoryMotorcycle}

// Status is the operational state of a vehicle. Only the rental scheduler
// (on create/complete/cancel) and admin maintenance actions mutate it.
type Status string

const (
	StatusAvailable   Status = "available"
	StatusRented      Status = "rented"
	StatusMaintenance Status = "maintenance"
	StatusDamaged     Status = "damaged"
	StatusRetired     Status = "retired"
)

var ValidStatuses = []Status{StatusAvailable, StatusRented, StatusMaintenance, StatusDamaged, StatusRetired}

// Vehicle represents a rentable unit of the fleet.
//
// Available must always equal Status == StatusAvailable; both are kept in
// lockstep by the repositories, never mutated independently.
type Vehicle struct {
	ID              int64
	Model           string
	Year            int
	Category        Category
	HourlyRateCents int64
	LicensePlate    string
	Description     string
	ImageURI        *string
	LastMaintenance *time.Time
	Status          Status
	Available       bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Filter defines parameters for listing vehicles.
type Filter struct {
	Category      Category
	Status        Status
	AvailableOnly bool
	Page          int
	PageSize      int
}
