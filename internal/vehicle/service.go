package vehicle

import (
	"context"
	"strings"
	"time"
)

type CreateRequest struct {
	Model           string
	Year            int
	Category        Category
	HourlyRateCents int64
	LicensePlate    string
	Description     string
}

type UpdateRequest struct {
	Model           *string
	Year            *int
	HourlyRateCents *int64
	Description     *string
	LastMaintenance *time.Time
}

// RentalGuard reports whether a vehicle is referenced by active rentals.
// Implemented by the rental repository; injected to avoid a package cycle.
type RentalGuard interface {
	HasActiveForVehicle(ctx context.Context, vehicleID int64) (bool, error)
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Vehicle, error)
	GetByID(ctx context.Context, id int64) (*Vehicle, error)
	List(ctx context.Context, filter Filter) ([]*Vehicle, int, error)
	Update(ctx context.Context, id int64, req UpdateRequest) (*Vehicle, error)
	Delete(ctx context.Context, id int64) error

	// UpdateStatus is the admin maintenance action. The Available flag is
	// derived from the status inside the repository.
	UpdateStatus(ctx context.Context, id int64, status Status) (*Vehicle, error)
	SetImageURI(ctx context.Context, id int64, uri string) (*Vehicle, error)
}

type service struct {
	repo  Repository
	guard RentalGuard
}

func NewService(repo Repository, guard RentalGuard) Service {
	return &service{
		repo:  repo,
		guard: guard,
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Vehicle, error) {
	if strings.TrimSpace(req.Model) == "" {
		return nil, ErrEmptyModel
	}
	if strings.TrimSpace(req.LicensePlate) == "" {
		return nil, ErrEmptyLicensePlate
	}
	if req.HourlyRateCents <= 0 {
		return nil, ErrInvalidHourlyRate
	}

	validCategory := false
	for _, c := range ValidCategories {
		if req.Category == c {
			validCategory = true
			break
		}
	}
	if !validCategory {
		return nil, ErrInvalidCategory
	}

	v := &Vehicle{
		Model:           req.Model,
		Year:            req.Year,
		Category:        req.Category,
		HourlyRateCents: req.HourlyRateCents,
		LicensePlate:    req.LicensePlate,
		Description:     req.Description,
		Status:          StatusAvailable,
		Available:       true,
	}

	if err := s.repo.Create(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *service) GetByID(ctx context.Context, id int64) (*Vehicle, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Vehicle, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id int64, req UpdateRequest) (*Vehicle, error) {
	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Model != nil {
		if strings.TrimSpace(*req.Model) == "" {
			return nil, ErrEmptyModel
		}
		v.Model = *req.Model
	}
	if req.Year != nil {
		v.Year = *req.Year
	}
	if req.HourlyRateCents != nil {
		if *req.HourlyRateCents <= 0 {
			return nil, ErrInvalidHourlyRate
		}
		v.HourlyRateCents = *req.HourlyRateCents
	}
	if req.Description != nil {
		v.Description = *req.Description
	}
	if req.LastMaintenance != nil {
		v.LastMaintenance = req.LastMaintenance
	}

	if err := s.repo.Update(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

// Delete removes a vehicle from the fleet. Refused while any active rental
// references it, so rental history never points at a missing vehicle.
func (s *service) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}

	active, err := s.guard.HasActiveForVehicle(ctx, id)
	if err != nil {
		return err
	}
	if active {
		return ErrHasActiveRentals
	}

	return s.repo.Delete(ctx, id)
}

func (s *service) UpdateStatus(ctx context.Context, id int64, status Status) (*Vehicle, error) {
	validStatus := false
	for _, st := range ValidStatuses {
		if status == st {
			validStatus = true
			break
		}
	}
	if !validStatus {
		return nil, ErrInvalidStatus
	}

	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Freeing a vehicle is the scheduler's job: while an active rental
	// holds it, the override may pull it out of service but not release it.
	if status == StatusAvailable {
		active, err := s.guard.HasActiveForVehicle(ctx, id)
		if err != nil {
			return nil, err
		}
		if active {
			return nil, ErrHasActiveRentals
		}
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}

	v.Status = status
	v.Available = status == StatusAvailable
	return v, nil
}

func (s *service) SetImageURI(ctx context.Context, id int64, uri string) (*Vehicle, error) {
	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.SetImageURI(ctx, id, uri); err != nil {
		return nil, err
	}

	v.ImageURI = &uri
	return v, nil
}
