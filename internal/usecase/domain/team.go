// Package domain contains application Usecases orchestrating domain logic by team.
package domain

import (
	"context"

	"partnership-teams/internal/entities"
)

// CompanyTeams returns the company's teams with members.
func (u *Usecase) CompanyTeams(ctx context.Context, companyID string) ([]entities.Team, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := requireID("company_id", companyID); err != nil {
		return nil, err
	}
	return u.repo.ListTeams(ctx, companyID)
}

// Team returns team by id.
func (u *Usecase) Team(ctx context.Context, teamID string) (*entities.Team, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := requireID("team_id", teamID); err != nil {
		return nil, err
	}
	return u.repo.GetTeam(ctx, teamID)
}

// UserTeams returns the teams a user belongs to.
func (u *Usecase) UserTeams(ctx context.Context, userID string) ([]entities.UserTeam, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := requireID("user_id", userID); err != nil {
		return nil, err
	}
	return u.repo.ListUserTeams(ctx, userID)
}

// DeactivateTeam marks a team inactive.
func (u *Usecase) DeactivateTeam(ctx context.Context, teamID string) (*entities.Team, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := requireID("team_id", teamID); err != nil {
		return nil, err
	}
	team, err := u.repo.DeactivateTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	u.log.Infow("team deactivated", "team_id", team.ID, "company_id", team.CompanyID)
	return team, nil
}
