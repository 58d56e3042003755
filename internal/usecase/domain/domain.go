package domain

import (
	"context"
	"fmt"
	"time"

	"partnership-teams/internal/assignment"
	"partnership-teams/internal/entities"
	"partnership-teams/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Usecase struct implements all usecase interfaces.
type Usecase struct {
	ctx     context.Context
	log     *zap.SugaredLogger
	repo    repository.Repository
	engine  *assignment.Engine
	timeout time.Duration
}

// New constructs a new usecase layer with its dependencies.
func New(
	log *zap.SugaredLogger,
	ctx context.Context,
	repo repository.Repository,
	engine *assignment.Engine,
	timeout time.Duration,
) *Usecase {
	return &Usecase{
		ctx:     ctx,
		log:     log,
		repo:    repo,
		engine:  engine,
		timeout: timeout,
	}
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

func requireID(field, id string) error {
	if id == "" {
		return fmt.Errorf("%w: %s is required", entities.ErrInvalidArgument, field)
	}
	if err := uuid.Validate(id); err != nil {
		return fmt.Errorf("%w: %s is not a valid id", entities.ErrInvalidArgument, field)
	}
	return nil
}
