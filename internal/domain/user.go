package domain

import "time"

// User is the domain model for portal accounts. IsAnalyst is the only role
// distinction: analysts triage any ticket, manage roles and see internal
// comments; everyone else only sees their own tickets.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Email        string
	FullName     string
	Department   string
	IsAnalyst    bool
	CreatedAt    time.Time
}
