package usecase

import (
	"context"

	"partnership-teams/internal/entities"
	"partnership-teams/internal/usecase/domain"
)

// CompanyUsecaseInterface abstracts company-related operations for delivery layer.
type CompanyUsecaseInterface interface {
	CreateCompany(ctx context.Context, name string, teamSize int) (*entities.Company, error)
	Company(ctx context.Context, companyID string) (*entities.Company, error)
	ListCompanies(ctx context.Context) ([]entities.Company, error)
	SetTeamSize(ctx context.Context, companyID string, size int) (*entities.Company, error)
	SetCompanyActive(ctx context.Context, companyID string, isActive bool) (*entities.Company, error)
}

// UserUsecaseInterface abstracts user-related operations.
type UserUsecaseInterface interface {
	RegisterUser(ctx context.Context, user entities.User) (*domain.Registration, error)
	User(ctx context.Context, userID string) (*entities.User, error)
	CompanyUsers(ctx context.Context, companyID string) ([]entities.User, error)
	Partners(ctx context.Context, userID string) ([]entities.Partnership, error)
}

// TeamUsecaseInterface abstracts team-related operations.
type TeamUsecaseInterface interface {
	CompanyTeams(ctx context.Context, companyID string) ([]entities.Team, error)
	Team(ctx context.Context, teamID string) (*entities.Team, error)
	UserTeams(ctx context.Context, userID string) ([]entities.UserTeam, error)
	DeactivateTeam(ctx context.Context, teamID string) (*entities.Team, error)
}
