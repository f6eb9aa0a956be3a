package models

import "strings"

// UserRole defines the roles recognised by the dashboard
type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RoleCustomer UserRole = "customer"
)

// IsAdmin reports whether a stored role string means admin. The backend is
// not consistent about casing, so comparison is case-insensitive.
func IsAdmin(role string) bool {
	return strings.EqualFold(role, string(RoleAdmin))
}
