package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/ashukla/ridepool/internal/models"
)

func (r *GormRepo) CreateRide(ctx context.Context, ride *models.Ride) error {
	return r.DB.WithContext(ctx).Create(ride).Error
}

func (r *GormRepo) RideByID(ctx context.Context, id uint) (*models.Ride, error) {
	var ride models.Ride
	if err := r.DB.WithContext(ctx).First(&ride, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRideNotFound
		}
		return nil, err
	}
	return &ride, nil
}

func (r *GormRepo) ListRides(ctx context.Context, offset, limit int) ([]models.Ride, int64, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Ride{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rides []models.Ride
	if err := r.DB.WithContext(ctx).Order("departure_time ASC").Offset(offset).Limit(limit).Find(&rides).Error; err != nil {
		return nil, 0, err
	}
	return rides, total, nil
}

// RidesByRoute returns rides between source and destination departing
// inside the [from, to) window.
func (r *GormRepo) RidesByRoute(ctx context.Context, source, destination string, from, to time.Time) ([]models.Ride, error) {
	var rides []models.Ride
	err := r.DB.WithContext(ctx).
		Where("source = ? AND destination = ? AND departure_time >= ? AND departure_time < ?",
			source, destination, from, to).
		Order("departure_time ASC").
		Find(&rides).Error
	if err != nil {
		return nil, err
	}
	return rides, nil
}

func (r *GormRepo) RidesByDriver(ctx context.Context, driverID uint) ([]models.Ride, error) {
	var rides []models.Ride
	if err := r.DB.WithContext(ctx).Where("driver_id = ?", driverID).Order("departure_time ASC").Find(&rides).Error; err != nil {
		return nil, err
	}
	return rides, nil
}
