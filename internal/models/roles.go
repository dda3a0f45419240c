package models

import "fmt"

// Role is the closed set of permission classes. Stored as its string form
// in the users table and in token claims.
type Role string

const (
	RolePassenger Role = "PASSENGER"
	RoleDriver    Role = "DRIVER"
	RoleBoth      Role = "BOTH"
	RoleAdmin     Role = "ADMIN"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RolePassenger, RoleDriver, RoleBoth, RoleAdmin:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

func (r Role) String() string { return string(r) }

// CanDrive reports whether the role may post rides and view driver bookings.
func (r Role) CanDrive() bool { return r == RoleDriver || r == RoleBoth }

// CanRide reports whether the role may search rides and book seats.
func (r Role) CanRide() bool { return r == RolePassenger || r == RoleBoth }
