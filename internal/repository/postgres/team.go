package postgres

import (
	"context"
	"errors"
	"fmt"

	"partnership-teams/internal/entities"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	teamColumns          = `t.id::text, t.group_id, t.company_id::text, t.team_number, t.leader_id::text, t.status, t.created_at`
	selectTeamByNumber   = `SELECT ` + teamColumns + ` FROM teams t WHERE t.company_id=$1 AND t.team_number=$2`
	selectTeamQuery      = `SELECT ` + teamColumns + ` FROM teams t WHERE t.id=$1`
	selectCompanyTeams   = `SELECT ` + teamColumns + ` FROM teams t WHERE t.company_id=$1 ORDER BY t.team_number`
	selectTeamMembers    = `SELECT user_id::text FROM team_memberships WHERE team_id=$1 ORDER BY created_at, user_id`
	selectCompanyMembers = `
SELECT m.team_id::text, m.user_id::text
FROM team_memberships m
JOIN teams t ON t.id = m.team_id
WHERE t.company_id=$1
ORDER BY m.created_at, m.user_id`
	selectUserTeamsQuery = `
SELECT ` + teamColumns + `
FROM team_memberships m
JOIN teams t ON t.id = m.team_id
WHERE m.user_id=$1
ORDER BY t.company_id, t.team_number`
	insertTeamQuery = `
INSERT INTO teams(id, group_id, company_id, team_number, leader_id, status)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING created_at`
	settleTeamsQuery = `
UPDATE teams SET status = CASE WHEN team_number < $2 THEN 'complete' ELSE 'pending' END
WHERE company_id=$1 AND team_number <> $2 AND status <> 'inactive'`
	openFillingQuery      = `UPDATE teams SET status='filling' WHERE company_id=$1 AND team_number=$2 AND status <> 'inactive'`
	deactivateTeamQuery   = `UPDATE teams t SET status='inactive' WHERE t.id=$1 RETURNING ` + teamColumns
	insertMembershipQuery = `INSERT INTO team_memberships(team_id, user_id) VALUES ($1, $2)`
)

func scanTeam(row pgx.Row) (*entities.Team, error) {
	var t entities.Team
	var status string
	if err := row.Scan(&t.ID, &t.GroupID, &t.CompanyID, &t.Number, &t.LeaderID, &status, &t.CreatedAt); err != nil {
		return nil, err
	}
	t.Status = entities.TeamStatus(status)
	return &t, nil
}

func readMembers(ctx context.Context, q querier, teamID string) ([]string, error) {
	rows, err := q.Query(ctx, selectTeamMembers, teamID)
	if err != nil {
		return nil, fmt.Errorf("select members: %w", err)
	}
	defer rows.Close()

	members := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate members: %w", err)
	}
	return members, nil
}

// ListTeams returns the company's teams with their members.
func (p *Postgres) ListTeams(ctx context.Context, companyID string) ([]entities.Team, error) {
	if _, err := p.GetCompany(ctx, companyID); err != nil {
		return nil, err
	}

	rows, err := p.db.Query(ctx, selectCompanyTeams, companyID)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	defer rows.Close()

	teams := make([]entities.Team, 0)
	index := make(map[string]int)
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			return nil, fmt.Errorf("scan team: %w", err)
		}
		t.Members = make([]string, 0)
		index[t.ID] = len(teams)
		teams = append(teams, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate teams: %w", err)
	}

	memberRows, err := p.db.Query(ctx, selectCompanyMembers, companyID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer memberRows.Close()
	for memberRows.Next() {
		var teamID, userID string
		if err := memberRows.Scan(&teamID, &userID); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		if i, ok := index[teamID]; ok {
			teams[i].Members = append(teams[i].Members, userID)
		}
	}
	if err := memberRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate members: %w", err)
	}
	return teams, nil
}

// GetTeam fetches a team with members by id.
func (p *Postgres) GetTeam(ctx context.Context, teamID string) (*entities.Team, error) {
	t, err := scanTeam(p.db.QueryRow(ctx, selectTeamQuery, teamID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || hasCode(err, codeInvalidTextRepr) {
			return nil, entities.ErrTeamNotFound
		}
		return nil, fmt.Errorf("get team: %w", err)
	}
	if t.Members, err = readMembers(ctx, p.db, t.ID); err != nil {
		return nil, err
	}
	return t, nil
}

// ListUserTeams returns the teams the user belongs to.
func (p *Postgres) ListUserTeams(ctx context.Context, userID string) ([]entities.UserTeam, error) {
	if _, err := p.GetUser(ctx, userID); err != nil {
		return nil, err
	}

	rows, err := p.db.Query(ctx, selectUserTeamsQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("list user teams: %w", err)
	}
	defer rows.Close()

	res := make([]entities.UserTeam, 0)
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			return nil, fmt.Errorf("scan team: %w", err)
		}
		res = append(res, entities.UserTeam{Team: *t, IsLeader: t.LeaderID == userID})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user teams: %w", err)
	}
	return res, nil
}

// DeactivateTeam marks the team inactive.
func (p *Postgres) DeactivateTeam(ctx context.Context, teamID string) (*entities.Team, error) {
	t, err := scanTeam(p.db.QueryRow(ctx, deactivateTeamQuery, teamID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || hasCode(err, codeInvalidTextRepr) {
			return nil, entities.ErrTeamNotFound
		}
		return nil, fmt.Errorf("deactivate team: %w", err)
	}
	if t.Members, err = readMembers(ctx, p.db, t.ID); err != nil {
		return nil, err
	}
	p.log.Infow("team deactivated", "team_id", teamID, "group_id", t.GroupID)
	return t, nil
}

// GetTeamByNumber looks a team up by (company, number) within the transaction.
func (s *txStore) GetTeamByNumber(ctx context.Context, companyID string, number int) (*entities.Team, error) {
	t, err := scanTeam(s.tx.QueryRow(ctx, selectTeamByNumber, companyID, number))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrTeamNotFound
		}
		return nil, fmt.Errorf("get team by number: %w", err)
	}
	if t.Members, err = readMembers(ctx, s.tx, t.ID); err != nil {
		return nil, err
	}
	return t, nil
}

// CreateTeam inserts a team inside a savepoint so a uniqueness conflict
// leaves the surrounding transaction usable.
func (s *txStore) CreateTeam(ctx context.Context, team entities.Team) (*entities.Team, error) {
	if team.ID == "" {
		team.ID = uuid.NewString()
	}
	err := s.savepoint(ctx, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, insertTeamQuery,
			team.ID, team.GroupID, team.CompanyID, team.Number, team.LeaderID, string(team.Status),
		).Scan(&team.CreatedAt)
	})
	if err != nil {
		if name, ok := uniqueViolation(err); ok {
			switch name {
			case constraintTeamNumber:
				return nil, entities.ErrTeamNumberTaken
			case constraintOneFilling:
				return nil, entities.ErrFillingTeamExists
			case constraintActiveLeader:
				return nil, entities.ErrLeaderTaken
			}
		}
		if hasCode(err, codeCheckViolation) {
			return nil, entities.ErrTeamLimitReached
		}
		s.log.Errorw("failed to insert team", "error", err, "company_id", team.CompanyID, "team_number", team.Number)
		return nil, fmt.Errorf("insert team: %w", err)
	}
	team.Members = make([]string, 0)
	return &team, nil
}

// AdvanceFilling makes team filling the company's filling team. Lower numbers
// become complete and higher ones pending; inactive teams are left alone.
// The old filling team is moved first so the one-filling index never trips.
func (s *txStore) AdvanceFilling(ctx context.Context, companyID string, filling int) error {
	if _, err := s.tx.Exec(ctx, settleTeamsQuery, companyID, filling); err != nil {
		return fmt.Errorf("settle team statuses: %w", err)
	}
	if _, err := s.tx.Exec(ctx, openFillingQuery, companyID, filling); err != nil {
		return fmt.Errorf("open filling team: %w", err)
	}
	return nil
}

// AddMembership inserts a (team, user) row inside a savepoint.
func (s *txStore) AddMembership(ctx context.Context, teamID, userID string) error {
	err := s.savepoint(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, insertMembershipQuery, teamID, userID)
		return err
	})
	if err != nil {
		if name, ok := uniqueViolation(err); ok && name == constraintMembershipKey {
			return entities.ErrMembershipExists
		}
		return fmt.Errorf("insert membership: %w", err)
	}
	return nil
}
