package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ashukla/ridepool/internal/logging"
	"github.com/ashukla/ridepool/internal/models"
	"github.com/ashukla/ridepool/internal/mykafka"
	"github.com/ashukla/ridepool/internal/repo"
	"github.com/ashukla/ridepool/internal/token"
)

type BookingService struct {
	Repo     *repo.GormRepo
	Producer *mykafka.Producer
}

func (s *BookingService) publish(ctx context.Context, key string, event map[string]any) {
	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.Producer.PublishEvent(pubCtx, mykafka.TopicBookingEvents, key, event); err != nil {
		logging.FromContext(ctx).Error("kafka publish failed", "error", err)
	}
}

func (s *BookingService) notify(ctx context.Context, userID uint, kind, message string) {
	n := &models.Notification{UserID: userID, Type: kind, Message: message}
	if err := s.Repo.CreateNotification(ctx, n); err != nil {
		logging.FromContext(ctx).Error("notification create failed", "user_id", userID, "error", err)
	}
}

// Book reserves one seat on the ride for the passenger. The seat
// decrement happens in the repository transaction; here we attach the
// booking reference and fan out notifications and events.
func (s *BookingService) Book(ctx context.Context, passenger token.Identity, rideID uint) (*models.Booking, error) {
	l := logging.FromContext(ctx).With("svc", "booking.book", "ride_id", rideID, "passenger", passenger.Username)

	ride, err := s.Repo.RideByID(ctx, rideID)
	if err != nil {
		return nil, err
	}

	booking := &models.Booking{
		Reference:   uuid.NewString(),
		RideID:      rideID,
		PassengerID: passenger.UserID,
	}
	if err := s.Repo.BookSeat(ctx, booking); err != nil {
		l.Warn("booking failed", "error", err)
		return nil, err
	}

	s.notify(ctx, ride.DriverID, "booking_received",
		fmt.Sprintf("%s booked a seat on your ride %s -> %s", passenger.Username, ride.Source, ride.Destination))
	s.notify(ctx, passenger.UserID, "booking_confirmed",
		fmt.Sprintf("your seat on ride %s -> %s is confirmed, reference %s", ride.Source, ride.Destination, booking.Reference))

	s.publish(ctx, fmt.Sprint(booking.ID), map[string]any{
		"type":         "ride_booked",
		"booking_id":   booking.ID,
		"reference":    booking.Reference,
		"ride_id":      rideID,
		"passenger_id": passenger.UserID,
	})

	l.Info("booking confirmed", "booking_id", booking.ID, "reference", booking.Reference)
	return booking, nil
}

func (s *BookingService) Cancel(ctx context.Context, passenger token.Identity, bookingID uint) (*models.Booking, error) {
	l := logging.FromContext(ctx).With("svc", "booking.cancel", "booking_id", bookingID, "passenger", passenger.Username)

	booking, err := s.Repo.CancelBooking(ctx, bookingID, passenger.UserID)
	if err != nil {
		l.Warn("cancel failed", "error", err)
		return nil, err
	}

	if ride, err := s.Repo.RideByID(ctx, booking.RideID); err == nil {
		s.notify(ctx, ride.DriverID, "booking_cancelled",
			fmt.Sprintf("%s cancelled their seat on your ride %s -> %s", passenger.Username, ride.Source, ride.Destination))
	}

	s.publish(ctx, fmt.Sprint(booking.ID), map[string]any{
		"type":         "booking_cancelled",
		"booking_id":   booking.ID,
		"ride_id":      booking.RideID,
		"passenger_id": passenger.UserID,
	})

	l.Info("booking cancelled")
	return booking, nil
}

func (s *BookingService) BookingsForPassenger(ctx context.Context, passengerID uint) ([]models.Booking, error) {
	return s.Repo.BookingsByPassenger(ctx, passengerID)
}

func (s *BookingService) BookingsForDriver(ctx context.Context, driverID uint) ([]models.Booking, error) {
	return s.Repo.BookingsByDriver(ctx, driverID)
}
