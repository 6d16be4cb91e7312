package domain

import "time"

// Role enumerates staff operator roles.
type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleCounsellor Role = "COUNSELLOR"
	RoleAccounts   Role = "ACCOUNTS"
	RoleHR         Role = "HR"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleCounsellor, RoleAccounts, RoleHR:
		return true
	}
	return false
}

// User models a staff account operating the enquiry console.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
