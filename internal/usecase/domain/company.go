// Package domain contains application Usecases orchestrating domain logic by company.
package domain

import (
	"context"
	"fmt"
	"strings"

	"partnership-teams/internal/entities"
)

// CreateCompany registers a company with its team size.
func (u *Usecase) CreateCompany(ctx context.Context, name string, teamSize int) (*entities.Company, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", entities.ErrInvalidArgument)
	}
	if !entities.ValidTeamSize(teamSize) {
		return nil, fmt.Errorf("%w: must be between %d and %d", entities.ErrInvalidTeamSize, entities.MinTeamSize, entities.MaxTeamSize)
	}
	return u.repo.CreateCompany(ctx, entities.Company{Name: name, TeamSize: teamSize})
}

// Company returns a company by id.
func (u *Usecase) Company(ctx context.Context, companyID string) (*entities.Company, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := requireID("company_id", companyID); err != nil {
		return nil, err
	}
	return u.repo.GetCompany(ctx, companyID)
}

// ListCompanies returns all companies.
func (u *Usecase) ListCompanies(ctx context.Context) ([]entities.Company, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()
	return u.repo.ListCompanies(ctx)
}

// SetTeamSize validates and stores a new team size.
func (u *Usecase) SetTeamSize(ctx context.Context, companyID string, size int) (*entities.Company, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := requireID("company_id", companyID); err != nil {
		return nil, err
	}
	if !entities.ValidTeamSize(size) {
		u.log.Warnw("rejected team size", "company_id", companyID, "team_size", size)
		return nil, fmt.Errorf("%w: must be between %d and %d", entities.ErrInvalidTeamSize, entities.MinTeamSize, entities.MaxTeamSize)
	}
	return u.repo.SetTeamSize(ctx, companyID, size)
}

// SetCompanyActive toggles the company active flag.
func (u *Usecase) SetCompanyActive(ctx context.Context, companyID string, isActive bool) (*entities.Company, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := requireID("company_id", companyID); err != nil {
		return nil, err
	}
	return u.repo.SetCompanyActive(ctx, companyID, isActive)
}
