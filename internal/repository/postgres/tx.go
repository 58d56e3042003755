package postgres

import (
	"context"
	"fmt"

	"partnership-teams/internal/assignment"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

var _ assignment.JoinStore = (*txStore)(nil)

// txStore is the engine's view of one open transaction.
type txStore struct {
	tx  pgx.Tx
	log *zap.SugaredLogger
}

// RunInTx runs fn in a read-committed transaction and commits when fn succeeds.
func (p *Postgres) RunInTx(ctx context.Context, fn func(tx assignment.JoinStore) error) error {
	tx, err := p.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(&txStore{tx: tx, log: p.log}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// savepoint runs fn in a nested transaction. A failing statement rolls back
// to the savepoint instead of aborting the outer transaction.
func (s *txStore) savepoint(ctx context.Context, fn func(tx pgx.Tx) error) error {
	sp, err := s.tx.Begin(ctx)
	if err != nil {
		return fmt.Errorf("savepoint: %w", err)
	}
	if err := fn(sp); err != nil {
		_ = sp.Rollback(ctx)
		return err
	}
	return sp.Commit(ctx)
}
