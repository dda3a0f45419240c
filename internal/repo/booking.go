package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/ashukla/ridepool/internal/models"
)

// BookSeat takes one seat on the ride and records the booking, inside a
// single transaction. The seat decrement is conditional on a seat still
// being free, so concurrent bookings cannot oversell the ride.
func (r *GormRepo) BookSeat(ctx context.Context, booking *models.Booking) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Ride{}).
			Where("id = ? AND available_seats > 0", booking.RideID).
			UpdateColumn("available_seats", gorm.Expr("available_seats - 1"))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&models.Ride{}).Where("id = ?", booking.RideID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return ErrRideNotFound
			}
			return ErrNoSeatsAvailable
		}

		booking.Status = models.BookingConfirmed
		return tx.Create(booking).Error
	})
}

// CancelBooking marks the passenger's booking cancelled and frees the
// seat. Cancelling twice fails with ErrAlreadyCancelled.
func (r *GormRepo) CancelBooking(ctx context.Context, bookingID, passengerID uint) (*models.Booking, error) {
	var booking models.Booking
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND passenger_id = ?", bookingID, passengerID).First(&booking).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}
		if booking.Status == models.BookingCancelled {
			return ErrAlreadyCancelled
		}

		if err := tx.Model(&booking).Update("status", models.BookingCancelled).Error; err != nil {
			return err
		}

		return tx.Model(&models.Ride{}).
			Where("id = ?", booking.RideID).
			UpdateColumn("available_seats", gorm.Expr("available_seats + 1")).Error
	})
	if err != nil {
		return nil, err
	}
	booking.Status = models.BookingCancelled
	return &booking, nil
}

func (r *GormRepo) BookingsByPassenger(ctx context.Context, passengerID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	if err := r.DB.WithContext(ctx).Where("passenger_id = ?", passengerID).Order("created_at DESC").Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// BookingsByDriver returns every booking on rides the driver posted.
func (r *GormRepo) BookingsByDriver(ctx context.Context, driverID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.DB.WithContext(ctx).
		Joins("JOIN rides ON rides.id = bookings.ride_id").
		Where("rides.driver_id = ?", driverID).
		Order("bookings.created_at DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}
