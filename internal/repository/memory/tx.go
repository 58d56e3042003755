package memory

import (
	"context"

	"partnership-teams/internal/assignment"
	"partnership-teams/internal/entities"

	"github.com/google/uuid"
)

var _ assignment.JoinStore = (*txStore)(nil)

// txStore mutates the live state while the repository lock is held;
// RunInTx restores the snapshot on failure.
type txStore struct {
	m  *Memory
	st *state
}

// RunInTx runs fn with exclusive access and rolls back on error.
func (m *Memory) RunInTx(ctx context.Context, fn func(tx assignment.JoinStore) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := m.st.clone()
	if err := fn(&txStore{m: m, st: &m.st}); err != nil {
		m.st = snapshot
		return err
	}
	if err := ctx.Err(); err != nil {
		m.st = snapshot
		return err
	}
	return nil
}

// CreateUser inserts the user, allocating the next join position of its company.
func (s *txStore) CreateUser(_ context.Context, user entities.User) (*entities.User, error) {
	user.JoinPosition = 0
	user.Email = normalizeEmail(user.Email)
	if user.CompanyID != nil {
		c, err := s.st.getCompany(*user.CompanyID)
		if err != nil {
			return nil, err
		}
		if !c.IsActive {
			return nil, entities.ErrCompanyInactive
		}
		s.st.memberSeq[c.ID]++
		user.JoinPosition = s.st.memberSeq[c.ID]
	}
	for _, u := range s.st.users {
		if u.Email == user.Email {
			return nil, entities.ErrEmailTaken
		}
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.CreatedAt = s.m.now()
	s.st.users[user.ID] = user
	return &user, nil
}

// GetCompany fetches a company.
func (s *txStore) GetCompany(_ context.Context, companyID string) (*entities.Company, error) {
	return s.st.getCompany(companyID)
}

// JoinPosition returns the allocated position of the user, 0 when unset.
func (s *txStore) JoinPosition(_ context.Context, userID string) (int, error) {
	u, ok := s.st.users[userID]
	if !ok {
		return 0, entities.ErrUserNotFound
	}
	return u.JoinPosition, nil
}

// ListUsersByCompany returns company users in join order.
func (s *txStore) ListUsersByCompany(_ context.Context, companyID string) ([]entities.User, error) {
	return s.st.listUsersByCompany(companyID), nil
}

// GetTeamByNumber looks a team up by (company, number).
func (s *txStore) GetTeamByNumber(_ context.Context, companyID string, number int) (*entities.Team, error) {
	for _, t := range s.st.teams {
		if t.CompanyID == companyID && t.Number == number {
			t.Members = s.st.members(t.ID)
			return &t, nil
		}
	}
	return nil, entities.ErrTeamNotFound
}

// CreateTeam inserts a team, enforcing the team uniqueness rules.
func (s *txStore) CreateTeam(_ context.Context, team entities.Team) (*entities.Team, error) {
	if team.Number < 1 || team.Number > entities.MaxTeamNumber {
		return nil, entities.ErrTeamLimitReached
	}
	// the number key is checked before the partial indexes, as in the schema.
	for _, t := range s.st.teams {
		if t.CompanyID == team.CompanyID && t.Number == team.Number {
			return nil, entities.ErrTeamNumberTaken
		}
	}
	for _, t := range s.st.teams {
		if t.CompanyID != team.CompanyID {
			continue
		}
		if t.Status == entities.TeamStatusFilling && team.Status == entities.TeamStatusFilling {
			return nil, entities.ErrFillingTeamExists
		}
		if t.LeaderID == team.LeaderID && t.Status != entities.TeamStatusInactive && team.Status != entities.TeamStatusInactive {
			return nil, entities.ErrLeaderTaken
		}
	}
	if team.ID == "" {
		team.ID = uuid.NewString()
	}
	team.CreatedAt = s.m.now()
	team.Members = nil
	s.st.teams[team.ID] = team
	team.Members = make([]string, 0)
	return &team, nil
}

// AdvanceFilling makes team filling the company's filling team. Lower numbers
// become complete and higher ones pending; inactive teams are left alone.
func (s *txStore) AdvanceFilling(_ context.Context, companyID string, filling int) error {
	for id, t := range s.st.teams {
		if t.CompanyID != companyID || t.Status == entities.TeamStatusInactive {
			continue
		}
		t.Status = assignment.StatusFor(t.Number, filling)
		s.st.teams[id] = t
	}
	return nil
}

// AddMembership inserts a (team, user) row.
func (s *txStore) AddMembership(_ context.Context, teamID, userID string) error {
	key := membershipKey{teamID: teamID, userID: userID}
	if _, ok := s.st.memberships[key]; ok {
		return entities.ErrMembershipExists
	}
	if _, ok := s.st.teams[teamID]; !ok {
		return entities.ErrTeamNotFound
	}
	if _, ok := s.st.users[userID]; !ok {
		return entities.ErrUserNotFound
	}
	s.st.memberships[key] = s.m.now()
	return nil
}

// RecordPartnerships pairs userID with every other member of the team.
func (s *txStore) RecordPartnerships(_ context.Context, teamID, userID string) error {
	now := s.m.now()
	for _, partner := range s.st.members(teamID) {
		if partner == userID {
			continue
		}
		s.st.history = append(s.st.history, entities.Partnership{
			UserID:    userID,
			PartnerID: partner,
			TeamID:    teamID,
			CreatedAt: now,
		})
	}
	return nil
}
