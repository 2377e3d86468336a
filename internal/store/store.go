package store

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrEmailTaken is returned when an email address is already registered.
	ErrEmailTaken = errors.New("email is already registered")

	// ErrNotFarmer is returned when a crop is assigned to a principal whose
	// role is not FARMER.
	ErrNotFarmer = errors.New("assigned owner is not a farmer")
)

// Principal roles.
const (
	RoleAdmin  = "ADMIN"
	RoleFarmer = "FARMER"
)

// isUniqueConstraintError checks whether err indicates a unique constraint violation.
// Works across SQLite, PostgreSQL, and MySQL.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || // SQLite & PostgreSQL
		strings.Contains(msg, "duplicate key") || // PostgreSQL
		strings.Contains(msg, "duplicate entry") // MySQL
}
