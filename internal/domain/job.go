package domain

import "time"

// Job represents a posting created by an employer.
type Job struct {
	ID          int64
	Title       string
	Company     string
	Location    string
	Description string
	Contact     string
	Salary      int64
	OwnerID     int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// JobPatch carries the mutable fields of a posting for updates.
// Only the owning employer may apply a patch.
type JobPatch struct {
	Title       string
	Company     string
	Location    string
	Description string
	Contact     string
	Salary      int64
}
