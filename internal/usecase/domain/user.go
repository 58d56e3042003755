// Package domain contains application Usecases orchestrating domain logic by user.
package domain

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"partnership-teams/internal/assignment"
	"partnership-teams/internal/entities"

	"github.com/google/uuid"
)

// Registration is the outcome of RegisterUser.
type Registration struct {
	User       entities.User
	LeaderTeam *entities.Team
	MemberTeam *entities.Team
}

// RegisterUser creates the user and, when a company is given, assigns its
// teams in the same transaction.
func (u *Usecase) RegisterUser(ctx context.Context, user entities.User) (*Registration, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	user.Name = strings.TrimSpace(user.Name)
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	user.Phone = strings.TrimSpace(user.Phone)
	if user.Name == "" || user.Email == "" {
		return nil, fmt.Errorf("%w: name and email are required", entities.ErrInvalidArgument)
	}
	if _, err := mail.ParseAddress(user.Email); err != nil {
		return nil, fmt.Errorf("%w: invalid email", entities.ErrInvalidArgument)
	}
	if user.CompanyID != nil {
		if err := requireID("company_id", *user.CompanyID); err != nil {
			return nil, err
		}
	}
	user.ID = uuid.NewString()

	var reg Registration
	err := u.repo.RunInTx(ctx, func(tx assignment.JoinStore) error {
		created, err := tx.CreateUser(ctx, user)
		if err != nil {
			return err
		}
		reg.User = *created
		if created.CompanyID == nil {
			return nil
		}

		res, err := u.engine.OnUserJoined(ctx, tx, created.ID, *created.CompanyID)
		if err != nil {
			return err
		}
		reg.LeaderTeam = res.LeaderTeam
		reg.MemberTeam = res.MemberTeam
		return nil
	})
	if err != nil {
		u.log.Errorw("failed to register user", "error", err, "email", user.Email)
		return nil, err
	}

	u.log.Infow("user registered", "user_id", reg.User.ID, "join_position", reg.User.JoinPosition)
	return &reg, nil
}

// User returns a user by id.
func (u *Usecase) User(ctx context.Context, userID string) (*entities.User, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := requireID("user_id", userID); err != nil {
		return nil, err
	}
	return u.repo.GetUser(ctx, userID)
}

// CompanyUsers returns the company's users in join order.
func (u *Usecase) CompanyUsers(ctx context.Context, companyID string) ([]entities.User, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := requireID("company_id", companyID); err != nil {
		return nil, err
	}
	if _, err := u.repo.GetCompany(ctx, companyID); err != nil {
		return nil, err
	}
	return u.repo.ListUsersByCompany(ctx, companyID)
}

// Partners returns who the user has been paired with.
func (u *Usecase) Partners(ctx context.Context, userID string) ([]entities.Partnership, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := requireID("user_id", userID); err != nil {
		return nil, err
	}
	return u.repo.ListPartners(ctx, userID)
}
