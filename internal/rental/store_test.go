package rental

import (
	"context"
	"sync"
	"time"

	"github.com/nekogravitycat/wheels-backend/internal/vehicle"
)

// memStore is an in-memory Repository used by the scheduler tests. It
// mirrors the transactional behavior of the pgx implementation,
// including the vehicle status flips.
type memStore struct {
	mu           sync.Mutex
	nextRentalID int64
	vehicles     map[int64]*vehicle.Vehicle
	rentals      map[int64]*Rental
}

// memVehicles adapts a memStore to the VehicleLookup interface.
type memVehicles struct {
	store *memStore
}

func newMemStore() (*memStore, *memVehicles) {
	s := &memStore{
		vehicles: make(map[int64]*vehicle.Vehicle),
		rentals:  make(map[int64]*Rental),
	}
	return s, &memVehicles{store: s}
}

func (s *memStore) addVehicle(v vehicle.Vehicle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vehicles[v.ID] = &v
}

func (s *memStore) vehicleStatus(id int64) vehicle.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.vehicles[id].Status
}

func (l *memVehicles) GetByID(ctx context.Context, id int64) (*vehicle.Vehicle, error) {
	l.store.mu.Lock()
	defer l.store.mu.Unlock()
	v, ok := l.store.vehicles[id]
	if !ok {
		return nil, vehicle.ErrNotFound
	}
	cp := *v
	return &cp, nil
}

func (s *memStore) CreateActive(ctx context.Context, r *Rental) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextRentalID++
	r.ID = s.nextRentalID
	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now

	cp := *r
	s.rentals[r.ID] = &cp

	if v, ok := s.vehicles[r.VehicleID]; ok {
		v.Status = vehicle.StatusRented
		v.Available = false
	}
	return nil
}

func (s *memStore) GetByID(ctx context.Context, id int64) (*Rental, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rentals[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (s *memStore) List(ctx context.Context, filter Filter) ([]*Rental, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*Rental
	for _, r := range s.rentals {
		if filter.CustomerID != "" && r.CustomerID != filter.CustomerID {
			continue
		}
		if filter.VehicleID != 0 && r.VehicleID != filter.VehicleID {
			continue
		}
		if filter.Status != "" && string(r.Status) != filter.Status {
			continue
		}
		if filter.StartDate != nil && r.StartTime.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && r.EndTime.After(*filter.EndDate) {
			continue
		}
		cp := *r
		out = append(out, &cp)
	}
	return out, len(out), nil
}

func (s *memStore) ListByCustomer(ctx context.Context, customerID string) ([]*Rental, error) {
	rentals, _, err := s.List(ctx, Filter{CustomerID: customerID})
	return rentals, err
}

func (s *memStore) Finish(ctx context.Context, r *Rental, releaseIfIdle bool) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.rentals[r.ID]
	if !ok || stored.Status != StatusActive {
		return false, nil
	}

	stored.Status = r.Status
	stored.EndTime = r.EndTime
	stored.TotalCostCents = r.TotalCostCents
	stored.UpdatedAt = time.Now().UTC()

	if releaseIfIdle {
		stillBusy := false
		for _, other := range s.rentals {
			if other.VehicleID == r.VehicleID && other.Status == StatusActive {
				stillBusy = true
				break
			}
		}
		if !stillBusy {
			if v, okv := s.vehicles[r.VehicleID]; okv && v.Status == vehicle.StatusRented {
				v.Status = vehicle.StatusAvailable
				v.Available = true
			}
		}
	}
	return true, nil
}

func (s *memStore) ExtendActive(ctx context.Context, id int64, newEnd time.Time, newTotalCents int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rentals[id]
	if !ok || r.Status != StatusActive {
		return false, nil
	}
	r.EndTime = newEnd
	r.TotalCostCents = newTotalCents
	r.UpdatedAt = time.Now().UTC()
	return true, nil
}

func (s *memStore) HasOverlap(ctx context.Context, vehicleID int64, start, end time.Time, excludeRentalID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.rentals {
		if r.VehicleID != vehicleID || r.Status != StatusActive {
			continue
		}
		if excludeRentalID != 0 && r.ID == excludeRentalID {
			continue
		}
		if Overlaps(r.StartTime, r.EndTime, start, end) {
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) HasActiveForVehicle(ctx context.Context, vehicleID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.rentals {
		if r.VehicleID == vehicleID && r.Status == StatusActive {
			return true, nil
		}
	}
	return false, nil
}
