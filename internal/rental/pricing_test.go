package rental

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/wheels-backend/internal/vehicle"
)

func TestPricingEngineCost(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	engine := NewPricingEngine()

	tests := []struct {
		name            string
		category        vehicle.Category
		hourlyRateCents int64
		duration        time.Duration
		want            int64
		wantErr         error
	}{
		{
			name:            "car two full hours",
			category:        vehicle.CategoryCar,
			hourlyRateCents: 2500,
			duration:        2 * time.Hour,
			want:            6000, // 2 * 25.00 * 1.2
		},
		{
			name:            "partial hour rounds up",
			category:        vehicle.CategoryCar,
			hourlyRateCents: 1000,
			duration:        time.Hour + time.Minute,
			want:            2400, // billed as 2h * 10.00 * 1.2
		},
		{
			name:            "one second still bills a full hour",
			category:        vehicle.CategoryBicycle,
			hourlyRateCents: 500,
			duration:        time.Second,
			want:            500,
		},
		{
			name:            "bicycle has no surcharge",
			category:        vehicle.CategoryBicycle,
			hourlyRateCents: 500,
			duration:        3 * time.Hour,
			want:            1500,
		},
		{
			name:            "motorcycle surcharge",
			category:        vehicle.CategoryMotorcycle,
			hourlyRateCents: 1500,
			duration:        4 * time.Hour,
			want:            6600, // 4 * 15.00 * 1.1
		},
		{
			name:            "odd rate rounds half up",
			category:        vehicle.CategoryMotorcycle,
			hourlyRateCents: 1,
			duration:        time.Hour,
			want:            1, // 1.1 cents rounds to 1
		},
		{
			name:            "zero duration is invalid",
			category:        vehicle.CategoryCar,
			hourlyRateCents: 1000,
			duration:        0,
			wantErr:         ErrInvalidInterval,
		},
		{
			name:            "negative duration is invalid",
			category:        vehicle.CategoryCar,
			hourlyRateCents: 1000,
			duration:        -time.Hour,
			wantErr:         ErrInvalidInterval,
		},
		{
			name:            "unknown category is rejected",
			category:        vehicle.Category("hovercraft"),
			hourlyRateCents: 1000,
			duration:        time.Hour,
			wantErr:         vehicle.ErrInvalidCategory,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := engine.Cost(tt.category, tt.hourlyRateCents, base, base.Add(tt.duration))
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got error %v, want %v", err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPricingEngineCostIsPure(t *testing.T) {
	engine := NewPricingEngine()
	start := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	end := start.Add(90 * time.Minute)

	first, err := engine.Cost(vehicle.CategoryCar, 2000, start, end)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		again, err := engine.Cost(vehicle.CategoryCar, 2000, start, end)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestPricingEngineCostMonotonic(t *testing.T) {
	engine := NewPricingEngine()
	start := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	prev := int64(0)
	for hours := 1; hours <= 48; hours++ {
		cost, err := engine.Cost(vehicle.CategoryMotorcycle, 1234, start, start.Add(time.Duration(hours)*time.Hour))
		require.NoError(t, err)
		assert.Greater(t, cost, prev, "cost must grow with duration")
		prev = cost
	}
}

func TestBillableHours(t *testing.T) {
	start := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		duration time.Duration
		want     int64
	}{
		{time.Second, 1},
		{59 * time.Minute, 1},
		{time.Hour, 1},
		{time.Hour + time.Nanosecond, 2},
		{24 * time.Hour, 24},
		{24*time.Hour + time.Minute, 25},
	}

	for _, tt := range tests {
		got := billableHours(start, start.Add(tt.duration))
		assert.Equal(t, tt.want, got, "duration %s", tt.duration)
	}
}
