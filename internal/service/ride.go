package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v8"

	"github.com/ashukla/ridepool/internal/es"
	"github.com/ashukla/ridepool/internal/logging"
	"github.com/ashukla/ridepool/internal/models"
	"github.com/ashukla/ridepool/internal/mykafka"
	"github.com/ashukla/ridepool/internal/repo"
	"github.com/ashukla/ridepool/internal/token"
)

type RideService struct {
	Repo     *repo.GormRepo
	Producer *mykafka.Producer
	ES       *elasticsearch.Client
}

type PostRideInput struct {
	Source        string    `json:"source"`
	Destination   string    `json:"destination"`
	DepartureTime time.Time `json:"departure_time"`
	Seats         uint      `json:"seats"`
	VehicleType   string    `json:"vehicle_type"`
	LicensePlate  string    `json:"license_plate"`
}

func (s *RideService) PostRide(ctx context.Context, driver token.Identity, in PostRideInput) (*models.Ride, error) {
	l := logging.FromContext(ctx).With("svc", "ride.post", "driver", driver.Username)

	if in.Source == "" || in.Destination == "" {
		return nil, fmt.Errorf("%w: source and destination are required", ErrValidation)
	}
	if in.Seats == 0 {
		return nil, fmt.Errorf("%w: at least one seat is required", ErrValidation)
	}
	if in.DepartureTime.IsZero() {
		return nil, fmt.Errorf("%w: departure time is required", ErrValidation)
	}

	ride := &models.Ride{
		DriverID:       driver.UserID,
		DriverName:     driver.Username,
		Source:         in.Source,
		Destination:    in.Destination,
		DepartureTime:  in.DepartureTime,
		TotalSeats:     in.Seats,
		AvailableSeats: in.Seats,
		VehicleType:    in.VehicleType,
		LicensePlate:   in.LicensePlate,
	}
	if err := s.Repo.CreateRide(ctx, ride); err != nil {
		l.Error("ride create failed", "error", err)
		return nil, err
	}

	s.indexRide(ctx, ride)

	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.Producer.PublishEvent(pubCtx, mykafka.TopicRideEvents, fmt.Sprint(ride.ID), map[string]any{
		"type":        "ride_posted",
		"ride_id":     ride.ID,
		"driver_id":   ride.DriverID,
		"source":      ride.Source,
		"destination": ride.Destination,
	}); err != nil {
		l.Error("kafka publish failed", "error", err)
	}

	l.Info("ride posted", "ride_id", ride.ID, "seats", ride.TotalSeats)
	return ride, nil
}

// indexRide pushes the ride document into the search index. Indexing is
// best effort; a failure leaves the ride bookable through the relational
// queries and is only logged.
func (s *RideService) indexRide(ctx context.Context, ride *models.Ride) {
	if s.ES == nil {
		return
	}
	l := logging.FromContext(ctx).With("svc", "ride.index", "ride_id", ride.ID)

	doc, err := json.Marshal(ride)
	if err != nil {
		l.Error("ride index failed", "error", err)
		return
	}
	res, err := s.ES.Index(
		es.RideIndex,
		bytes.NewReader(doc),
		s.ES.Index.WithDocumentID(fmt.Sprint(ride.ID)),
		s.ES.Index.WithContext(ctx),
	)
	if err != nil {
		l.Error("ride index failed", "error", err)
		return
	}
	defer res.Body.Close()
	if res.IsError() {
		l.Error("ride index failed", "status", res.Status())
	}
}

func (s *RideService) ListRides(ctx context.Context, offset, limit int) ([]models.Ride, int64, error) {
	return s.Repo.ListRides(ctx, offset, limit)
}

// SearchByRoute finds rides between two places on the given day.
func (s *RideService) SearchByRoute(ctx context.Context, source, destination, date string) ([]models.Ride, error) {
	if source == "" || destination == "" {
		return nil, fmt.Errorf("%w: source and destination are required", ErrValidation)
	}
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrValidation)
	}
	return s.Repo.RidesByRoute(ctx, source, destination, day, day.AddDate(0, 0, 1))
}

func (s *RideService) RidesByDriver(ctx context.Context, driverID uint) ([]models.Ride, error) {
	return s.Repo.RidesByDriver(ctx, driverID)
}
