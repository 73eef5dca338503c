package vehicle

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memRepository is an in-memory Repository for service tests.
type memRepository struct {
	nextID   int64
	vehicles map[int64]*Vehicle
}

func newMemRepository() *memRepository {
	return &memRepository{vehicles: make(map[int64]*Vehicle)}
}

func (r *memRepository) Create(ctx context.Context, v *Vehicle) error {
	r.nextID++
	v.ID = r.nextID
	now := time.Now().UTC()
	v.CreatedAt = now
	v.UpdatedAt = now
	cp := *v
	r.vehicles[v.ID] = &cp
	return nil
}

func (r *memRepository) GetByID(ctx context.Context, id int64) (*Vehicle, error) {
	v, ok := r.vehicles[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *v
	return &cp, nil
}

func (r *memRepository) List(ctx context.Context, filter Filter) ([]*Vehicle, int, error) {
	var out []*Vehicle
	for _, v := range r.vehicles {
		if filter.Category != "" && v.Category != filter.Category {
			continue
		}
		if filter.Status != "" && v.Status != filter.Status {
			continue
		}
		if filter.AvailableOnly && !v.Available {
			continue
		}
		cp := *v
		out = append(out, &cp)
	}
	return out, len(out), nil
}

func (r *memRepository) Update(ctx context.Context, v *Vehicle) error {
	if _, ok := r.vehicles[v.ID]; !ok {
		return ErrNotFound
	}
	cp := *v
	r.vehicles[v.ID] = &cp
	return nil
}

func (r *memRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := r.vehicles[id]; !ok {
		return ErrNotFound
	}
	delete(r.vehicles, id)
	return nil
}

func (r *memRepository) UpdateStatus(ctx context.Context, id int64, status Status) error {
	v, ok := r.vehicles[id]
	if !ok {
		return ErrNotFound
	}
	v.Status = status
	v.Available = status == StatusAvailable
	return nil
}

func (r *memRepository) SetImageURI(ctx context.Context, id int64, uri string) error {
	v, ok := r.vehicles[id]
	if !ok {
		return ErrNotFound
	}
	v.ImageURI = &uri
	return nil
}

// stubGuard is a RentalGuard with a fixed answer.
type stubGuard struct {
	active bool
}

func (g *stubGuard) HasActiveForVehicle(ctx context.Context, vehicleID int64) (bool, error) {
	return g.active, nil
}

func validCreateRequest() CreateRequest {
	return CreateRequest{
		Model:           "Honda CB500",
		Year:            2023,
		Category:        CategoryMotorcycle,
		HourlyRateCents: 1500,
		LicensePlate:    "MOTO-42",
		Description:     "Mid-size commuter bike",
	}
}

func TestCreateVehicle(t *testing.T) {
	repo := newMemRepository()
	svc := NewService(repo, &stubGuard{})

	v, err := svc.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)

	assert.NotZero(t, v.ID)
	assert.Equal(t, StatusAvailable, v.Status, "new vehicles start available")
	assert.True(t, v.Available)
}

func TestCreateVehicleValidation(t *testing.T) {
	repo := newMemRepository()
	svc := NewService(repo, &stubGuard{})
	ctx := context.Background()

	tests := []struct {
		name    string
		mutate  func(*CreateRequest)
		wantErr error
	}{
		{"empty model", func(r *CreateRequest) { r.Model = "   " }, ErrEmptyModel},
		{"empty license plate", func(r *CreateRequest) { r.LicensePlate = "" }, ErrEmptyLicensePlate},
		{"zero hourly rate", func(r *CreateRequest) { r.HourlyRateCents = 0 }, ErrInvalidHourlyRate},
		{"negative hourly rate", func(r *CreateRequest) { r.HourlyRateCents = -100 }, ErrInvalidHourlyRate},
		{"unknown category", func(r *CreateRequest) { r.Category = "submarine" }, ErrInvalidCategory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCreateRequest()
			tt.mutate(&req)
			_, err := svc.Create(ctx, req)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v, want %v", err, tt.wantErr)
		})
	}
}

func TestUpdateVehicle(t *testing.T) {
	repo := newMemRepository()
	svc := NewService(repo, &stubGuard{})
	ctx := context.Background()

	v, err := svc.Create(ctx, validCreateRequest())
	require.NoError(t, err)

	newModel := "Honda CB650"
	newRate := int64(1800)
	updated, err := svc.Update(ctx, v.ID, UpdateRequest{
		Model:           &newModel,
		HourlyRateCents: &newRate,
	})
	require.NoError(t, err)
	assert.Equal(t, newModel, updated.Model)
	assert.Equal(t, newRate, updated.HourlyRateCents)
	assert.Equal(t, v.Year, updated.Year, "unsent fields stay untouched")

	t.Run("invalid rate is rejected", func(t *testing.T) {
		badRate := int64(0)
		_, err := svc.Update(ctx, v.ID, UpdateRequest{HourlyRateCents: &badRate})
		assert.True(t, errors.Is(err, ErrInvalidHourlyRate))
	})

	t.Run("unknown vehicle", func(t *testing.T) {
		_, err := svc.Update(ctx, 999, UpdateRequest{Model: &newModel})
		assert.True(t, errors.Is(err, ErrNotFound))
	})
}

func TestDeleteVehicle(t *testing.T) {
	ctx := context.Background()

	t.Run("idle vehicle can be deleted", func(t *testing.T) {
		repo := newMemRepository()
		svc := NewService(repo, &stubGuard{})

		v, err := svc.Create(ctx, validCreateRequest())
		require.NoError(t, err)

		require.NoError(t, svc.Delete(ctx, v.ID))
		_, err = svc.GetByID(ctx, v.ID)
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("vehicle with active rentals is protected", func(t *testing.T) {
		repo := newMemRepository()
		svc := NewService(repo, &stubGuard{active: true})

		v, err := svc.Create(ctx, validCreateRequest())
		require.NoError(t, err)

		err = svc.Delete(ctx, v.ID)
		assert.True(t, errors.Is(err, ErrHasActiveRentals))
	})

	t.Run("unknown vehicle", func(t *testing.T) {
		repo := newMemRepository()
		svc := NewService(repo, &stubGuard{})
		err := svc.Delete(ctx, 999)
		assert.True(t, errors.Is(err, ErrNotFound))
	})
}

func TestUpdateVehicleStatus(t *testing.T) {
	repo := newMemRepository()
	svc := NewService(repo, &stubGuard{})
	ctx := context.Background()

	v, err := svc.Create(ctx, validCreateRequest())
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(ctx, v.ID, StatusMaintenance)
	require.NoError(t, err)
	assert.Equal(t, StatusMaintenance, updated.Status)
	assert.False(t, updated.Available, "available flag follows the status")

	updated, err = svc.UpdateStatus(ctx, v.ID, StatusAvailable)
	require.NoError(t, err)
	assert.True(t, updated.Available)

	t.Run("unknown status", func(t *testing.T) {
		_, err := svc.UpdateStatus(ctx, v.ID, Status("vaporized"))
		assert.True(t, errors.Is(err, ErrInvalidStatus))
	})
}

func TestUpdateVehicleStatusWithActiveRental(t *testing.T) {
	repo := newMemRepository()
	guard := &stubGuard{active: true}
	svc := NewService(repo, guard)
	ctx := context.Background()

	v, err := svc.Create(ctx, validCreateRequest())
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, v.ID, StatusRented)
	require.NoError(t, err)

	t.Run("cannot be released while a rental holds it", func(t *testing.T) {
		_, err := svc.UpdateStatus(ctx, v.ID, StatusAvailable)
		assert.True(t, errors.Is(err, ErrHasActiveRentals))

		got, err := svc.GetByID(ctx, v.ID)
		require.NoError(t, err)
		assert.Equal(t, StatusRented, got.Status)
	})

	t.Run("can still be pulled out of service", func(t *testing.T) {
		updated, err := svc.UpdateStatus(ctx, v.ID, StatusDamaged)
		require.NoError(t, err)
		assert.Equal(t, StatusDamaged, updated.Status)
		assert.False(t, updated.Available)
	})

	t.Run("released once the rental is gone", func(t *testing.T) {
		guard.active = false
		updated, err := svc.UpdateStatus(ctx, v.ID, StatusAvailable)
		require.NoError(t, err)
		assert.True(t, updated.Available)
	})
}
