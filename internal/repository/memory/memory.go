// Package memory implements the repository in process memory. It enforces
// the same uniqueness rules as the SQL schema and is meant for local runs
// and tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"partnership-teams/internal/entities"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type membershipKey struct {
	teamID string
	userID string
}

type state struct {
	companies   map[string]entities.Company
	memberSeq   map[string]int
	users       map[string]entities.User
	teams       map[string]entities.Team
	memberships map[membershipKey]time.Time
	history     []entities.Partnership
}

func newState() state {
	return state{
		companies:   make(map[string]entities.Company),
		memberSeq:   make(map[string]int),
		users:       make(map[string]entities.User),
		teams:       make(map[string]entities.Team),
		memberships: make(map[membershipKey]time.Time),
	}
}

func (s state) clone() state {
	c := newState()
	for k, v := range s.companies {
		c.companies[k] = v
	}
	for k, v := range s.memberSeq {
		c.memberSeq[k] = v
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.teams {
		c.teams[k] = v
	}
	for k, v := range s.memberships {
		c.memberships[k] = v
	}
	c.history = append([]entities.Partnership(nil), s.history...)
	return c
}

// Memory is a mutex-guarded in-memory repository.
type Memory struct {
	mu  sync.Mutex
	st  state
	log *zap.SugaredLogger
	now func() time.Time
}

// New creates an empty in-memory repository.
func New(log *zap.SugaredLogger) *Memory {
	return &Memory{
		st:  newState(),
		log: log.Named("repo.memory"),
		now: func() time.Time { return time.Now().UTC() },
	}
}

// OnStart is a no-op.
func (m *Memory) OnStart(_ context.Context) error { return nil }

// OnStop is a no-op.
func (m *Memory) OnStop(_ context.Context) error { return nil }

// CreateCompany inserts a company.
func (m *Memory) CreateCompany(_ context.Context, company entities.Company) (*entities.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !entities.ValidTeamSize(company.TeamSize) {
		return nil, entities.ErrInvalidTeamSize
	}
	for _, c := range m.st.companies {
		if c.Name == company.Name {
			return nil, entities.ErrCompanyExists
		}
	}
	if company.ID == "" {
		company.ID = uuid.NewString()
	}
	company.IsActive = true
	company.CreatedAt = m.now()
	m.st.companies[company.ID] = company
	m.log.Infow("company created", "company_id", company.ID, "team_size", company.TeamSize)
	return &company, nil
}

// GetCompany fetches a company by id.
func (m *Memory) GetCompany(_ context.Context, companyID string) (*entities.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.getCompany(companyID)
}

func (s *state) getCompany(companyID string) (*entities.Company, error) {
	c, ok := s.companies[companyID]
	if !ok {
		return nil, entities.ErrCompanyNotFound
	}
	return &c, nil
}

// ListCompanies returns all companies in creation order.
func (m *Memory) ListCompanies(_ context.Context) ([]entities.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	res := make([]entities.Company, 0, len(m.st.companies))
	for _, c := range m.st.companies {
		res = append(res, c)
	}
	sort.Slice(res, func(i, j int) bool {
		if !res[i].CreatedAt.Equal(res[j].CreatedAt) {
			return res[i].CreatedAt.Before(res[j].CreatedAt)
		}
		return res[i].ID < res[j].ID
	})
	return res, nil
}

// SetTeamSize changes the configured team size and stamps the change time.
func (m *Memory) SetTeamSize(_ context.Context, companyID string, size int) (*entities.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.st.companies[companyID]
	if !ok {
		return nil, entities.ErrCompanyNotFound
	}
	if !entities.ValidTeamSize(size) {
		return nil, entities.ErrInvalidTeamSize
	}
	now := m.now()
	c.TeamSize = size
	c.TeamSizeChangedAt = &now
	m.st.companies[c.ID] = c
	return &c, nil
}

// SetCompanyActive toggles the company active flag.
func (m *Memory) SetCompanyActive(_ context.Context, companyID string, isActive bool) (*entities.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.st.companies[companyID]
	if !ok {
		return nil, entities.ErrCompanyNotFound
	}
	c.IsActive = isActive
	m.st.companies[c.ID] = c
	return &c, nil
}

// GetUser fetches a user by id.
func (m *Memory) GetUser(_ context.Context, userID string) (*entities.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.st.users[userID]
	if !ok {
		return nil, entities.ErrUserNotFound
	}
	return &u, nil
}

// ListUsersByCompany returns company users in join order.
func (m *Memory) ListUsersByCompany(_ context.Context, companyID string) ([]entities.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.listUsersByCompany(companyID), nil
}

func (s *state) listUsersByCompany(companyID string) []entities.User {
	users := make([]entities.User, 0)
	for _, u := range s.users {
		if u.CompanyID != nil && *u.CompanyID == companyID {
			users = append(users, u)
		}
	}
	sort.Slice(users, func(i, j int) bool {
		a, b := users[i], users[j]
		if a.JoinPosition != b.JoinPosition {
			// unset positions sort last
			if a.JoinPosition == 0 || b.JoinPosition == 0 {
				return b.JoinPosition == 0
			}
			return a.JoinPosition < b.JoinPosition
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	return users
}

// ListTeams returns the company's teams with their members.
func (m *Memory) ListTeams(_ context.Context, companyID string) ([]entities.Team, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := m.st.getCompany(companyID); err != nil {
		return nil, err
	}
	teams := make([]entities.Team, 0)
	for _, t := range m.st.teams {
		if t.CompanyID == companyID {
			t.Members = m.st.members(t.ID)
			teams = append(teams, t)
		}
	}
	sort.Slice(teams, func(i, j int) bool { return teams[i].Number < teams[j].Number })
	return teams, nil
}

// GetTeam fetches a team with members by id.
func (m *Memory) GetTeam(_ context.Context, teamID string) (*entities.Team, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.st.teams[teamID]
	if !ok {
		return nil, entities.ErrTeamNotFound
	}
	t.Members = m.st.members(teamID)
	return &t, nil
}

// ListUserTeams returns the teams the user belongs to.
func (m *Memory) ListUserTeams(_ context.Context, userID string) ([]entities.UserTeam, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.st.users[userID]; !ok {
		return nil, entities.ErrUserNotFound
	}
	res := make([]entities.UserTeam, 0)
	for k := range m.st.memberships {
		if k.userID != userID {
			continue
		}
		t := m.st.teams[k.teamID]
		res = append(res, entities.UserTeam{Team: t, IsLeader: t.LeaderID == userID})
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].Team.CompanyID != res[j].Team.CompanyID {
			return res[i].Team.CompanyID < res[j].Team.CompanyID
		}
		return res[i].Team.Number < res[j].Team.Number
	})
	return res, nil
}

// DeactivateTeam marks the team inactive.
func (m *Memory) DeactivateTeam(_ context.Context, teamID string) (*entities.Team, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.st.teams[teamID]
	if !ok {
		return nil, entities.ErrTeamNotFound
	}
	t.Status = entities.TeamStatusInactive
	m.st.teams[t.ID] = t
	t.Members = m.st.members(teamID)
	m.log.Infow("team deactivated", "team_id", teamID, "group_id", t.GroupID)
	return &t, nil
}

// ListPartners returns the history rows involving userID.
func (m *Memory) ListPartners(_ context.Context, userID string) ([]entities.Partnership, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.st.users[userID]; !ok {
		return nil, entities.ErrUserNotFound
	}
	res := make([]entities.Partnership, 0)
	for _, ph := range m.st.history {
		switch userID {
		case ph.UserID:
			res = append(res, ph)
		case ph.PartnerID:
			ph.UserID, ph.PartnerID = ph.PartnerID, ph.UserID
			res = append(res, ph)
		}
	}
	return res, nil
}

func (s *state) members(teamID string) []string {
	type row struct {
		id string
		at time.Time
	}
	rows := make([]row, 0)
	for k, at := range s.memberships {
		if k.teamID == teamID {
			rows = append(rows, row{id: k.userID, at: at})
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].at.Equal(rows[j].at) {
			return rows[i].at.Before(rows[j].at)
		}
		return rows[i].id < rows[j].id
	})
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.id)
	}
	return ids
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
