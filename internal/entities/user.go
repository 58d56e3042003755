// Package entities contains core business entities.
package entities

import "time"

// User is a registered person, optionally attached to a company.
// JoinPosition is the 1-based arrival order inside the company, 0 when unknown.
type User struct {
	ID           string
	Name         string
	Email        string
	Phone        string
	CompanyID    *string
	JoinPosition int
	CreatedAt    time.Time
}
