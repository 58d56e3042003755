// Package entities contains core business entities and errors.
package entities

import "errors"

var (
	// ErrInvalidArgument signals failed input validation.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrCompanyNotFound is returned when a company does not exist.
	ErrCompanyNotFound = errors.New("company not found")
	// ErrCompanyExists signals company name conflict.
	ErrCompanyExists = errors.New("company exists")
	// ErrCompanyInactive signals a join attempt into a deactivated company.
	ErrCompanyInactive = errors.New("company inactive")
	// ErrInvalidTeamSize signals a team size outside the allowed range.
	ErrInvalidTeamSize = errors.New("invalid team size")
	// ErrUserNotFound is returned when a user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailTaken signals a duplicate user email.
	ErrEmailTaken = errors.New("email taken")
	// ErrTeamNotFound signals missing team.
	ErrTeamNotFound = errors.New("team not found")
	// ErrTeamNumberTaken signals a (company, team number) conflict.
	ErrTeamNumberTaken = errors.New("team number taken")
	// ErrFillingTeamExists signals a second filling team for a company.
	ErrFillingTeamExists = errors.New("filling team exists")
	// ErrLeaderTaken signals the user already leads an active team of the company.
	ErrLeaderTaken = errors.New("leader taken")
	// ErrMembershipExists signals a duplicate (team, user) membership.
	ErrMembershipExists = errors.New("membership exists")
	// ErrTeamLimitReached signals a team number beyond MaxTeamNumber.
	ErrTeamLimitReached = errors.New("team limit reached")
)
