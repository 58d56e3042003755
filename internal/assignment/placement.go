// Package assignment places newly joined users into teams of their company.
//
// A user arriving at position p of a company with team size G leads team p
// and, when (p-1)/(G-1)+1 < p, is also a member of that earlier team.
package assignment

import (
	"fmt"
	"strings"
	"unicode"

	"partnership-teams/internal/entities"
)

const prefixLen = 6

// Placement is the team layout computed for one join position.
// MemberOf is zero when the user only leads a team. Filling is the team the
// next joiner will be added to as a member.
type Placement struct {
	Position int
	LeaderOf int
	MemberOf int
	Filling  int
}

// Place computes the teams for a user at the given 1-based position.
func Place(position, teamSize int) (Placement, error) {
	if teamSize < entities.MinTeamSize {
		return Placement{}, fmt.Errorf("%w: %d", entities.ErrInvalidTeamSize, teamSize)
	}
	if position < 1 {
		return Placement{}, fmt.Errorf("%w: position %d", entities.ErrInvalidArgument, position)
	}

	p := Placement{
		Position: position,
		LeaderOf: position,
		Filling:  position/(teamSize-1) + 1,
	}
	if membership := (position-1)/(teamSize-1) + 1; membership < position {
		p.MemberOf = membership
	}
	return p, nil
}

// StatusFor returns the status team number should carry once filling is
// the team accepting members.
func StatusFor(number, filling int) entities.TeamStatus {
	switch {
	case number < filling:
		return entities.TeamStatusComplete
	case number == filling:
		return entities.TeamStatusFilling
	default:
		return entities.TeamStatusPending
	}
}

// GroupID builds the human-readable team identifier, e.g. "ACME-T3".
func GroupID(company entities.Company, number int) string {
	return fmt.Sprintf("%s-T%d", companyPrefix(company), number)
}

func companyPrefix(company entities.Company) string {
	var b strings.Builder
	for _, r := range company.Name {
		if b.Len() == prefixLen {
			break
		}
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	if b.Len() > 0 {
		return b.String()
	}

	id := strings.ToUpper(strings.ReplaceAll(company.ID, "-", ""))
	if len(id) > prefixLen {
		id = id[:prefixLen]
	}
	if id == "" {
		return "TEAM"
	}
	return id
}
