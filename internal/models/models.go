package models

import (
	"time"
)

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string `gorm:"unique;not null"          json:"username"`
	Email        string `gorm:"unique;not null"          json:"email"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	Role         string `gorm:"not null"                 json:"role"`
	Age          int    `json:"age"`
	Phone        string `json:"phone"`
	Verified     bool   `gorm:"default:false"            json:"verified"`
	Active       bool   `gorm:"default:true"             json:"active"`
}

type Ride struct {
	ID             uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	DriverID       uint      `gorm:"index;not null"           json:"driver_id"`
	DriverName     string    `gorm:"not null"                 json:"driver_name"`
	Source         string    `gorm:"index;not null"           json:"source"`
	Destination    string    `gorm:"index;not null"           json:"destination"`
	DepartureTime  time.Time `gorm:"not null"                 json:"departure_time"`
	TotalSeats     uint      `gorm:"not null"                 json:"total_seats"`
	AvailableSeats uint      `gorm:"not null"                 json:"available_seats"`
	VehicleType    string    `json:"vehicle_type"`
	LicensePlate   string    `json:"license_plate"`
}

type Booking struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Reference   string    `gorm:"uniqueIndex;not null"     json:"reference"`
	RideID      uint      `gorm:"index;not null"           json:"ride_id"`
	PassengerID uint      `gorm:"index;not null"           json:"passenger_id"`
	Status      string    `gorm:"not null"                 json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

const (
	BookingConfirmed = "CONFIRMED"
	BookingCancelled = "CANCELLED"
)

type Notification struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint      `gorm:"index;not null"           json:"user_id"`
	Type      string    `gorm:"not null"                 json:"type"`
	Message   string    `gorm:"not null"                 json:"message"`
	Read      bool      `gorm:"default:false"            json:"read"`
	CreatedAt time.Time `json:"created_at"`
}
