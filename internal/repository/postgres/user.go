package postgres

import (
	"context"
	"errors"
	"fmt"

	"partnership-teams/internal/entities"

	"github.com/jackc/pgx/v5"
)

const (
	userColumns           = `id::text, name, email, COALESCE(phone, ''), company_id::text, COALESCE(join_position, 0), created_at`
	allocatePositionQuery = `UPDATE companies SET member_seq = member_seq + 1 WHERE id=$1 RETURNING member_seq, is_active`
	insertUserQuery       = `
INSERT INTO users(id, name, email, phone, company_id, join_position)
VALUES ($1, $2, $3, NULLIF($4, ''), $5, NULLIF($6, 0))
RETURNING created_at`
	selectUserQuery         = `SELECT ` + userColumns + ` FROM users WHERE id=$1`
	selectJoinPositionQuery = `SELECT COALESCE(join_position, 0) FROM users WHERE id=$1`
	selectCompanyUsersQuery = `
SELECT ` + userColumns + `
FROM users
WHERE company_id=$1
ORDER BY join_position NULLS LAST, created_at, id`
)

func scanUser(row pgx.Row) (*entities.User, error) {
	var u entities.User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.CompanyID, &u.JoinPosition, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUser fetches a user by id.
func (p *Postgres) GetUser(ctx context.Context, userID string) (*entities.User, error) {
	u, err := scanUser(p.db.QueryRow(ctx, selectUserQuery, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || hasCode(err, codeInvalidTextRepr) {
			return nil, entities.ErrUserNotFound
		}
		p.log.Errorw("failed to get user", "error", err, "user_id", userID)
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// ListUsersByCompany returns company users in join order.
func (p *Postgres) ListUsersByCompany(ctx context.Context, companyID string) ([]entities.User, error) {
	return listUsersByCompany(ctx, p.db, companyID)
}

func listUsersByCompany(ctx context.Context, q querier, companyID string) ([]entities.User, error) {
	rows, err := q.Query(ctx, selectCompanyUsersQuery, companyID)
	if err != nil {
		if hasCode(err, codeInvalidTextRepr) {
			return nil, entities.ErrCompanyNotFound
		}
		return nil, fmt.Errorf("list company users: %w", err)
	}
	defer rows.Close()

	users := make([]entities.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

// CreateUser inserts the user. With a company it first takes the next join
// position from the company's counter; the row lock taken by that update
// orders concurrent joins of one company until commit.
func (s *txStore) CreateUser(ctx context.Context, user entities.User) (*entities.User, error) {
	user.JoinPosition = 0
	if user.CompanyID != nil {
		var active bool
		err := s.tx.QueryRow(ctx, allocatePositionQuery, *user.CompanyID).Scan(&user.JoinPosition, &active)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) || hasCode(err, codeInvalidTextRepr) {
				return nil, entities.ErrCompanyNotFound
			}
			return nil, fmt.Errorf("allocate join position: %w", err)
		}
		if !active {
			return nil, entities.ErrCompanyInactive
		}
	}

	err := s.tx.QueryRow(ctx, insertUserQuery,
		user.ID, user.Name, user.Email, user.Phone, user.CompanyID, user.JoinPosition,
	).Scan(&user.CreatedAt)
	if err != nil {
		if name, ok := uniqueViolation(err); ok && name == constraintUserEmail {
			return nil, entities.ErrEmailTaken
		}
		s.log.Errorw("failed to insert user", "error", err, "user_id", user.ID)
		return nil, fmt.Errorf("insert user: %w", err)
	}

	s.log.Infow("user created", "user_id", user.ID, "join_position", user.JoinPosition)
	return &user, nil
}

// JoinPosition returns the allocated position of the user, 0 when unset.
func (s *txStore) JoinPosition(ctx context.Context, userID string) (int, error) {
	var pos int
	if err := s.tx.QueryRow(ctx, selectJoinPositionQuery, userID).Scan(&pos); err != nil {
		if errors.Is(err, pgx.ErrNoRows) || hasCode(err, codeInvalidTextRepr) {
			return 0, entities.ErrUserNotFound
		}
		return 0, fmt.Errorf("get join position: %w", err)
	}
	return pos, nil
}

// ListUsersByCompany returns company users in join order within the transaction.
func (s *txStore) ListUsersByCompany(ctx context.Context, companyID string) ([]entities.User, error) {
	return listUsersByCompany(ctx, s.tx, companyID)
}

// GetCompany fetches a company within the transaction.
func (s *txStore) GetCompany(ctx context.Context, companyID string) (*entities.Company, error) {
	return getCompany(ctx, s.tx, companyID)
}
