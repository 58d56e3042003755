// Package repository provides factory for repositories.
package repository

import (
	"context"
	"fmt"

	"partnership-teams/config"
	"partnership-teams/internal/repository/memory"
	"partnership-teams/internal/repository/postgres"

	"go.uber.org/zap"
)

// Repository aggregates all persistence interfaces.
type Repository interface {
	LifecycleInterface
	CompanyInterface
	UserInterface
	TeamInterface
	HistoryInterface
	TxRunner
}

var (
	_ Repository = (*postgres.Postgres)(nil)
	_ Repository = (*memory.Memory)(nil)
)

// New constructs repository backend by name.
func New(ctx context.Context, name string, log *zap.SugaredLogger, cfg *config.Config) (Repository, error) {
	switch name {
	case "postgres":
		return postgres.New(ctx, log, cfg), nil
	case "memory":
		return memory.New(log), nil
	default:
		return nil, fmt.Errorf("unknown repo backend: %s", name)
	}
}
