package domain

import "time"

// AuditRecord is one append-only entry of the protocol log.
type AuditRecord struct {
	ID         string
	Actor      string
	Action     string
	OK         bool
	StatusCode int
	Details    string
	CreatedAt  time.Time
}
