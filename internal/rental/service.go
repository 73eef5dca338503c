package rental

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/nekogravitycat/wheels-backend/internal/pkg/keymutex"
	"github.com/nekogravitycat/wheels-backend/internal/vehicle"
)

// startGrace is the backward tolerance on a rental's start time, covering
// request latency between the client picking "now" and the server
// validating it.
const startGrace = 5 * time.Minute

type CreateRequest struct {
	CustomerID string
	VehicleID  int64
	StartTime  time.Time
	EndTime    time.Time
}

// Service is the rental scheduler: it drives every rental through its
// lifecycle and is the single writer of a vehicle's rented state.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Rental, error)
	GetByID(ctx context.Context, id int64) (*Rental, error)

	// Complete finishes an active rental. actualEnd overrides the return
	// time for early or late returns; nil means now. The total cost is
	// recomputed from the actual elapsed duration.
	Complete(ctx context.Context, id int64, actualEnd *time.Time) (*Rental, error)

	Cancel(ctx context.Context, id int64) (*Rental, error)
	Extend(ctx context.Context, id int64, newEnd time.Time) (*Rental, error)

	CheckAvailability(ctx context.Context, vehicleID int64, start, end time.Time) (bool, error)
	CalculateCost(ctx context.Context, vehicleID int64, start, end time.Time) (int64, error)

	ListByCustomer(ctx context.Context, customerID string) ([]*Rental, error)
	List(ctx context.Context, filter Filter) ([]*Rental, int, error)
}

type service struct {
	repo     Repository
	vehicles VehicleLookup
	checker  *AvailabilityChecker
	pricing  *PricingEngine

	// locks serializes check-then-commit sequences per vehicle, so two
	// concurrent creates with overlapping windows cannot both pass the
	// availability check before either commits.
	locks  *keymutex.KeyMutex
	logger *zap.Logger
}

func NewService(repo Repository, vehicles VehicleLookup, logger *zap.Logger) Service {
	return &service{
		repo:     repo,
		vehicles: vehicles,
		checker:  NewAvailabilityChecker(vehicles, repo),
		pricing:  NewPricingEngine(),
		locks:    keymutex.New(),
		logger:   logger,
	}
}

func (s *service) getVehicle(ctx context.Context, id int64) (*vehicle.Vehicle, error) {
	v, err := s.vehicles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, vehicle.ErrNotFound) {
			return nil, ErrVehicleNotFound
		}
		return nil, err
	}
	return v, nil
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Rental, error) {
	if !req.EndTime.After(req.StartTime) {
		return nil, ErrInvalidInterval
	}
	if req.StartTime.Before(time.Now().UTC().Add(-startGrace)) {
		return nil, ErrInvalidInterval
	}

	v, err := s.getVehicle(ctx, req.VehicleID)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(req.VehicleID)
	defer unlock()

	ok, err := s.checker.IsAvailable(ctx, req.VehicleID, req.StartTime, req.EndTime, 0)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrVehicleUnavailable
	}

	cost, err := s.pricing.Cost(v.Category, v.HourlyRateCents, req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	r := &Rental{
		CustomerID:     req.CustomerID,
		VehicleID:      req.VehicleID,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		TotalCostCents: cost,
		Status:         StatusActive,
	}

	if err := s.repo.CreateActive(ctx, r); err != nil {
		return nil, err
	}

	s.logger.Info("rental created",
		zap.Int64("rental_id", r.ID),
		zap.Int64("vehicle_id", r.VehicleID),
		zap.String("customer_id", r.CustomerID),
		zap.Int64("total_cost_cents", r.TotalCostCents),
	)

	return r, nil
}

func (s *service) GetByID(ctx context.Context, id int64) (*Rental, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) Complete(ctx context.Context, id int64, actualEnd *time.Time) (*Rental, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.Status != StatusActive {
		return nil, ErrInvalidTransition
	}

	v, err := s.getVehicle(ctx, r.VehicleID)
	if err != nil {
		return nil, err
	}

	end := time.Now().UTC()
	if actualEnd != nil {
		end = actualEnd.UTC()
	}
	if !end.After(r.StartTime) {
		return nil, ErrInvalidInterval
	}

	// Always recompute from actual usage; the estimate from creation time
	// is wrong for both early and late returns.
	cost, err := s.pricing.Cost(v.Category, v.HourlyRateCents, r.StartTime, end)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(r.VehicleID)
	defer unlock()

	r.Status = StatusCompleted
	r.EndTime = end
	r.TotalCostCents = cost

	ok, err := s.repo.Finish(ctx, r, true)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidTransition
	}

	s.logger.Info("rental completed",
		zap.Int64("rental_id", r.ID),
		zap.Int64("vehicle_id", r.VehicleID),
		zap.Int64("total_cost_cents", r.TotalCostCents),
	)

	return r, nil
}

func (s *service) Cancel(ctx context.Context, id int64) (*Rental, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.Status != StatusActive {
		return nil, ErrInvalidTransition
	}

	unlock := s.locks.Lock(r.VehicleID)
	defer unlock()

	// A cancelled rental that already started leaves the vehicle rented:
	// the keys are out, and getting the vehicle back is an operational
	// step handled via the admin status override.
	release := r.StartTime.After(time.Now().UTC())

	r.Status = StatusCancelled

	ok, err := s.repo.Finish(ctx, r, release)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidTransition
	}

	s.logger.Info("rental cancelled",
		zap.Int64("rental_id", r.ID),
		zap.Int64("vehicle_id", r.VehicleID),
		zap.Bool("vehicle_released", release),
	)

	return r, nil
}

func (s *service) Extend(ctx context.Context, id int64, newEnd time.Time) (*Rental, error) {
	// First read only resolves the vehicle to lock.
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(r.VehicleID)
	defer unlock()

	// Re-read under the lock; a concurrent extend, complete or cancel may
	// have moved the rental since the unguarded read above.
	r, err = s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.Status != StatusActive || !newEnd.After(r.EndTime) {
		return nil, ErrInvalidInterval
	}

	v, err := s.getVehicle(ctx, r.VehicleID)
	if err != nil {
		return nil, err
	}

	ok, err := s.checker.IsAvailable(ctx, r.VehicleID, r.EndTime, newEnd, r.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrVehicleUnavailable
	}

	extra, err := s.pricing.Cost(v.Category, v.HourlyRateCents, r.EndTime, newEnd)
	if err != nil {
		return nil, err
	}

	newTotal := r.TotalCostCents + extra

	// The status guard backstops writers outside this process.
	ok, err = s.repo.ExtendActive(ctx, r.ID, newEnd, newTotal)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidInterval
	}

	r.EndTime = newEnd
	r.TotalCostCents = newTotal

	s.logger.Info("rental extended",
		zap.Int64("rental_id", r.ID),
		zap.Int64("vehicle_id", r.VehicleID),
		zap.Time("new_end", newEnd),
		zap.Int64("additional_cost_cents", extra),
	)

	return r, nil
}

func (s *service) CheckAvailability(ctx context.Context, vehicleID int64, start, end time.Time) (bool, error) {
	if !end.After(start) {
		return false, ErrInvalidInterval
	}
	return s.checker.IsAvailable(ctx, vehicleID, start, end, 0)
}

func (s *service) CalculateCost(ctx context.Context, vehicleID int64, start, end time.Time) (int64, error) {
	v, err := s.getVehicle(ctx, vehicleID)
	if err != nil {
		return 0, err
	}
	return s.pricing.Cost(v.Category, v.HourlyRateCents, start, end)
}

func (s *service) ListByCustomer(ctx context.Context, customerID string) ([]*Rental, error) {
	return s.repo.ListByCustomer(ctx, customerID)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Rental, int, error) {
	return s.repo.List(ctx, filter)
}
