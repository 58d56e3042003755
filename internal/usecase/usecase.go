package usecase

import (
	"context"
	"time"

	"partnership-teams/internal/assignment"
	"partnership-teams/internal/repository"
	"partnership-teams/internal/usecase/domain"

	"go.uber.org/zap"
)

// InterfaceUsecase aggregates all usecase interfaces.
type InterfaceUsecase interface {
	CompanyUsecaseInterface
	UserUsecaseInterface
	TeamUsecaseInterface
}

// New constructs a new usecase layer with its dependencies.
func New(log *zap.SugaredLogger, ctx context.Context, repo repository.Repository, engine *assignment.Engine, timeout time.Duration) InterfaceUsecase {
	return domain.New(log, ctx, repo, engine, timeout)
}
