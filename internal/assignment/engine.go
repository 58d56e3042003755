package assignment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"partnership-teams/internal/entities"
	"partnership-teams/pkg/metrics"

	"go.uber.org/zap"
)

// Store is the record store surface the engine needs. Implementations are
// expected to be bound to the transaction that created the joining user.
type Store interface {
	GetCompany(ctx context.Context, companyID string) (*entities.Company, error)
	JoinPosition(ctx context.Context, userID string) (int, error)
	ListUsersByCompany(ctx context.Context, companyID string) ([]entities.User, error)
	GetTeamByNumber(ctx context.Context, companyID string, number int) (*entities.Team, error)
	CreateTeam(ctx context.Context, team entities.Team) (*entities.Team, error)
	AdvanceFilling(ctx context.Context, companyID string, filling int) error
	AddMembership(ctx context.Context, teamID, userID string) error
	RecordPartnerships(ctx context.Context, teamID, userID string) error
}

// JoinStore is Store plus the user insert that precedes assignment. It is
// what a transaction runner hands to the caller.
type JoinStore interface {
	Store
	CreateUser(ctx context.Context, user entities.User) (*entities.User, error)
}

// Result describes where a joining user ended up.
type Result struct {
	Placement  Placement
	LeaderTeam *entities.Team
	MemberTeam *entities.Team
}

// Engine assigns joining users to teams.
type Engine struct {
	log     *zap.SugaredLogger
	metrics *metrics.AssignmentMetrics
}

// New constructs an Engine.
func New(log *zap.SugaredLogger, m *metrics.AssignmentMetrics) *Engine {
	return &Engine{
		log:     log.Named("assignment"),
		metrics: m,
	}
}

// OnUserJoined places userID into its teams. It must run in the same
// transaction as the user insert so a failure discards both.
func (e *Engine) OnUserJoined(ctx context.Context, store Store, userID, companyID string) (res Result, err error) {
	start := time.Now()
	defer func() {
		outcome := metrics.OutcomeOK
		if err != nil {
			outcome = metrics.OutcomeError
		}
		e.metrics.ObserveRun(outcome, time.Since(start))
	}()

	company, err := store.GetCompany(ctx, companyID)
	if err != nil {
		return res, err
	}
	if !entities.ValidTeamSize(company.TeamSize) {
		e.log.Errorw("company team size misconfigured", "company_id", companyID, "team_size", company.TeamSize)
		return res, fmt.Errorf("%w: company %s has team size %d", entities.ErrInvalidTeamSize, companyID, company.TeamSize)
	}

	position, err := e.position(ctx, store, userID, companyID)
	if err != nil {
		return res, err
	}

	placement, err := Place(position, company.TeamSize)
	if err != nil {
		return res, err
	}
	res.Placement = placement
	e.log.Debugw("placement computed",
		"user_id", userID,
		"company_id", companyID,
		"position", placement.Position,
		"leader_of", placement.LeaderOf,
		"member_of", placement.MemberOf,
	)

	// statuses move before any insert so a new filling team never meets the old one.
	if err := store.AdvanceFilling(ctx, company.ID, placement.Filling); err != nil {
		return res, fmt.Errorf("advance filling team: %w", err)
	}

	if placement.MemberOf != 0 {
		res.MemberTeam, err = e.ensureTeamMembership(ctx, store, *company, placement.MemberOf, placement.Filling, userID)
		if err != nil {
			return res, fmt.Errorf("join team %d: %w", placement.MemberOf, err)
		}
	}

	res.LeaderTeam, err = e.ensureTeamMembership(ctx, store, *company, placement.LeaderOf, placement.Filling, userID)
	if err != nil {
		return res, fmt.Errorf("lead team %d: %w", placement.LeaderOf, err)
	}
	return res, nil
}

// position prefers the allocated join position and falls back to ranking
// the company's users for rows created before positions were allocated.
func (e *Engine) position(ctx context.Context, store Store, userID, companyID string) (int, error) {
	pos, err := store.JoinPosition(ctx, userID)
	if err != nil {
		return 0, err
	}
	if pos > 0 {
		return pos, nil
	}

	users, err := store.ListUsersByCompany(ctx, companyID)
	if err != nil {
		return 0, fmt.Errorf("list company users: %w", err)
	}
	for i, u := range users {
		if u.ID == userID {
			return i + 1, nil
		}
	}
	return 0, fmt.Errorf("%w: %s is not a member of company %s", entities.ErrUserNotFound, userID, companyID)
}

// ensureTeamMembership finds or creates team number for the company and adds
// userID to it. Re-running it for the same pair is a no-op.
func (e *Engine) ensureTeamMembership(ctx context.Context, store Store, company entities.Company, number, filling int, userID string) (*entities.Team, error) {
	team, err := store.GetTeamByNumber(ctx, company.ID, number)
	switch {
	case errors.Is(err, entities.ErrTeamNotFound):
		team, err = e.createTeam(ctx, store, company, number, filling, userID)
		if err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	}

	if err := store.AddMembership(ctx, team.ID, userID); err != nil {
		if errors.Is(err, entities.ErrMembershipExists) {
			e.metrics.IncDuplicate()
			return team, nil
		}
		return nil, err
	}
	if err := store.RecordPartnerships(ctx, team.ID, userID); err != nil {
		return nil, err
	}

	team.Members = append(team.Members, userID)
	return team, nil
}

// createTeam inserts a team led by leaderID with the status its number has
// relative to filling. Losing a race on the team number turns into a lookup
// of the winner's row.
func (e *Engine) createTeam(ctx context.Context, store Store, company entities.Company, number, filling int, leaderID string) (*entities.Team, error) {
	if number > entities.MaxTeamNumber {
		return nil, fmt.Errorf("%w: team %d exceeds %d", entities.ErrTeamLimitReached, number, entities.MaxTeamNumber)
	}

	team := entities.Team{
		GroupID:   GroupID(company, number),
		CompanyID: company.ID,
		Number:    number,
		LeaderID:  leaderID,
		Status:    StatusFor(number, filling),
	}

	var err error
	for attempt := 0; attempt < 2; attempt++ {
		var created *entities.Team
		created, err = store.CreateTeam(ctx, team)
		switch {
		case err == nil:
			e.log.Infow("team created", "company_id", company.ID, "team_number", number, "group_id", created.GroupID, "leader_id", leaderID, "status", created.Status)
			return created, nil
		case errors.Is(err, entities.ErrTeamNumberTaken):
			e.metrics.IncConflict()
			e.log.Infow("team number taken concurrently, reusing", "company_id", company.ID, "team_number", number)
			return store.GetTeamByNumber(ctx, company.ID, number)
		case errors.Is(err, entities.ErrFillingTeamExists):
			// another writer opened a filling team after our advance; move it and retry once.
			if err = store.AdvanceFilling(ctx, company.ID, filling); err != nil {
				return nil, err
			}
			continue
		default:
			return nil, err
		}
	}
	return nil, err
}
