// Package entities contains core business entities.
package entities

import (
	"fmt"
	"time"
)

// MaxTeamNumber bounds team numbers per company.
const MaxTeamNumber = 1000

// TeamStatus enumerates team lifecycle states.
type TeamStatus string

const (
	// TeamStatusFilling marks the one team per company still accepting members.
	TeamStatusFilling TeamStatus = "filling"
	// TeamStatusComplete marks a team that no longer accepts members.
	TeamStatusComplete TeamStatus = "complete"
	// TeamStatusPending marks a led team whose members have not started arriving.
	TeamStatusPending TeamStatus = "pending"
	// TeamStatusInactive marks a team deactivated by an administrator.
	TeamStatusInactive TeamStatus = "inactive"
)

var validTeamStatuses = []TeamStatus{
	TeamStatusFilling,
	TeamStatusComplete,
	TeamStatusPending,
	TeamStatusInactive,
}

// String implements fmt.Stringer.
func (s TeamStatus) String() string {
	return string(s)
}

// IsValid reports whether the value matches a known TeamStatus.
func (s TeamStatus) IsValid() bool {
	for _, candidate := range validTeamStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseTeamStatus converts raw input into a TeamStatus.
func ParseTeamStatus(value string) (TeamStatus, error) {
	for _, candidate := range validTeamStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid team status %q", value)
}

// Team (partnership) groups users of one company under a leader.
type Team struct {
	ID        string
	GroupID   string
	CompanyID string
	Number    int
	LeaderID  string
	Status    TeamStatus
	Members   []string
	CreatedAt time.Time
}

// UserTeam is a team as seen from one of its members.
type UserTeam struct {
	Team     Team
	IsLeader bool
}
