package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashukla/ridepool/internal/models"
	"github.com/ashukla/ridepool/internal/mykafka"
	"github.com/ashukla/ridepool/internal/repo"
	"github.com/ashukla/ridepool/internal/token"
)

func newTestRideService(t *testing.T) (*RideService, token.Identity) {
	t.Helper()

	svc := &RideService{
		Repo:     &repo.GormRepo{DB: initTestDB(t)},
		Producer: &mykafka.Producer{},
	}
	driver := token.Identity{UserID: 7, Username: "dan", Role: models.RoleDriver}
	return svc, driver
}

func TestRideService_PostRide(t *testing.T) {
	t.Parallel()

	svc, driver := newTestRideService(t)
	ctx := context.Background()

	ride, err := svc.PostRide(ctx, driver, PostRideInput{
		Source:        "Pune",
		Destination:   "Mumbai",
		DepartureTime: time.Date(2026, 9, 12, 8, 30, 0, 0, time.UTC),
		Seats:         4,
		VehicleType:   "SUV",
		LicensePlate:  "MH12XY9999",
	})
	require.NoError(t, err)
	assert.NotZero(t, ride.ID)
	assert.Equal(t, driver.UserID, ride.DriverID)
	assert.Equal(t, "dan", ride.DriverName)
	assert.Equal(t, uint(4), ride.TotalSeats)
	assert.Equal(t, uint(4), ride.AvailableSeats)
}

func TestRideService_PostRide_Validation(t *testing.T) {
	t.Parallel()

	svc, driver := newTestRideService(t)
	ctx := context.Background()

	valid := PostRideInput{
		Source:        "Pune",
		Destination:   "Mumbai",
		DepartureTime: time.Now().Add(time.Hour),
		Seats:         2,
	}

	tests := []struct {
		name   string
		mutate func(*PostRideInput)
	}{
		{name: "empty source", mutate: func(in *PostRideInput) { in.Source = "" }},
		{name: "empty destination", mutate: func(in *PostRideInput) { in.Destination = "" }},
		{name: "zero seats", mutate: func(in *PostRideInput) { in.Seats = 0 }},
		{name: "no departure", mutate: func(in *PostRideInput) { in.DepartureTime = time.Time{} }},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			in := valid
			tt.mutate(&in)
			_, err := svc.PostRide(ctx, driver, in)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestRideService_SearchByRoute(t *testing.T) {
	t.Parallel()

	svc, driver := newTestRideService(t)
	ctx := context.Background()

	post := func(src, dst string, at time.Time) {
		_, err := svc.PostRide(ctx, driver, PostRideInput{
			Source: src, Destination: dst, DepartureTime: at, Seats: 2,
		})
		require.NoError(t, err)
	}

	post("Pune", "Mumbai", time.Date(2026, 9, 12, 8, 0, 0, 0, time.UTC))
	post("Pune", "Mumbai", time.Date(2026, 9, 12, 18, 0, 0, 0, time.UTC))
	post("Pune", "Mumbai", time.Date(2026, 9, 13, 8, 0, 0, 0, time.UTC))
	post("Pune", "Nashik", time.Date(2026, 9, 12, 8, 0, 0, 0, time.UTC))

	rides, err := svc.SearchByRoute(ctx, "Pune", "Mumbai", "2026-09-12")
	require.NoError(t, err)
	require.Len(t, rides, 2)
	for _, ride := range rides {
		assert.Equal(t, "Pune", ride.Source)
		assert.Equal(t, "Mumbai", ride.Destination)
	}

	rides, err = svc.SearchByRoute(ctx, "Pune", "Mumbai", "2026-09-14")
	require.NoError(t, err)
	assert.Empty(t, rides)
}

func TestRideService_SearchByRoute_Validation(t *testing.T) {
	t.Parallel()

	svc, _ := newTestRideService(t)
	ctx := context.Background()

	_, err := svc.SearchByRoute(ctx, "", "Mumbai", "2026-09-12")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.SearchByRoute(ctx, "Pune", "Mumbai", "12/09/2026")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRideService_ListAndMine(t *testing.T) {
	t.Parallel()

	svc, driver := newTestRideService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.PostRide(ctx, driver, PostRideInput{
			Source: "A", Destination: "B",
			DepartureTime: time.Now().Add(time.Duration(i+1) * time.Hour),
			Seats:         1,
		})
		require.NoError(t, err)
	}

	rides, total, err := svc.ListRides(ctx, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, rides, 3)

	mine, err := svc.RidesByDriver(ctx, driver.UserID)
	require.NoError(t, err)
	assert.Len(t, mine, 3)

	other, err := svc.RidesByDriver(ctx, driver.UserID+1)
	require.NoError(t, err)
	assert.Empty(t, other)
}
