// Package entities contains core business entities.
package entities

import "time"

const (
	// MinTeamSize is the smallest configurable team size.
	MinTeamSize = 2
	// MaxTeamSize is the largest configurable team size.
	MaxTeamSize = 10
)

// Company owns users and the teams formed from them.
type Company struct {
	ID                string
	Name              string
	TeamSize          int
	IsActive          bool
	TeamSizeChangedAt *time.Time
	CreatedAt         time.Time
}

// ValidTeamSize reports whether size is within MinTeamSize..MaxTeamSize.
func ValidTeamSize(size int) bool {
	return size >= MinTeamSize && size <= MaxTeamSize
}
