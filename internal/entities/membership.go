// Package entities contains core business entities.
package entities

import "time"

// Membership links a user to a team.
type Membership struct {
	TeamID    string
	UserID    string
	CreatedAt time.Time
}

// Partnership is one row of the append-only pairing history.
type Partnership struct {
	UserID    string
	PartnerID string
	TeamID    string
	CreatedAt time.Time
}
