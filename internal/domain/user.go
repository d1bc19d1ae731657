package domain

import "time"

// Role distinguishes the two kinds of accounts in the marketplace.
type Role string

const (
	RoleJobSeeker Role = "jobseeker"
	RoleEmployer  Role = "employer"
)

// Valid reports whether the role is one of the known account kinds.
func (r Role) Valid() bool {
	return r == RoleJobSeeker || r == RoleEmployer
}

// User represents a registered account, either a job seeker or an employer.
type User struct {
	ID           int64
	Email        string
	Name         string
	PasswordHash string
	Role         Role
	// Position is the desired position of a job seeker; empty for employers.
	Position  string
	Contact   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
