package repo

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrUserExists       = errors.New("user already exists")
	ErrUserNotFound     = errors.New("user not found")
	ErrRideNotFound     = errors.New("ride not found")
	ErrNoSeatsAvailable = errors.New("no seats available")
	ErrBookingNotFound  = errors.New("booking not found")
	ErrAlreadyCancelled = errors.New("booking already cancelled")

	ErrNotificationNotFound = errors.New("notification not found")
)

type GormRepo struct {
	DB *gorm.DB
}
