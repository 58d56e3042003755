// Package repository contains repository interfaces for persistence layers.
package repository

import (
	"context"

	"partnership-teams/internal/assignment"
	"partnership-teams/internal/entities"
)

// LifecycleInterface describes storage startup/shutdown hooks.
type LifecycleInterface interface {
	OnStart(_ context.Context) error
	OnStop(_ context.Context) error
}

// CompanyInterface exposes company-related operations.
type CompanyInterface interface {
	CreateCompany(ctx context.Context, company entities.Company) (*entities.Company, error)
	GetCompany(ctx context.Context, companyID string) (*entities.Company, error)
	ListCompanies(ctx context.Context) ([]entities.Company, error)
	SetTeamSize(ctx context.Context, companyID string, size int) (*entities.Company, error)
	SetCompanyActive(ctx context.Context, companyID string, isActive bool) (*entities.Company, error)
}

// UserInterface exposes user-related operations.
type UserInterface interface {
	GetUser(ctx context.Context, userID string) (*entities.User, error)
	ListUsersByCompany(ctx context.Context, companyID string) ([]entities.User, error)
}

// TeamInterface exposes team-related operations.
type TeamInterface interface {
	ListTeams(ctx context.Context, companyID string) ([]entities.Team, error)
	GetTeam(ctx context.Context, teamID string) (*entities.Team, error)
	ListUserTeams(ctx context.Context, userID string) ([]entities.UserTeam, error)
	DeactivateTeam(ctx context.Context, teamID string) (*entities.Team, error)
}

// HistoryInterface exposes the partnership history.
type HistoryInterface interface {
	ListPartners(ctx context.Context, userID string) ([]entities.Partnership, error)
}

// TxRunner runs fn inside one atomic transaction; any error rolls it back.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(tx assignment.JoinStore) error) error
}
