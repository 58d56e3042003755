package assignment_test

import (
	"context"
	"fmt"
	"testing"

	"partnership-teams/internal/assignment"
	"partnership-teams/internal/entities"
	"partnership-teams/internal/repository/memory"
	"partnership-teams/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixture struct {
	repo    *memory.Memory
	engine  *assignment.Engine
	company *entities.Company
}

func newFixture(t *testing.T, teamSize int) *fixture {
	t.Helper()
	log := zap.NewNop().Sugar()
	repo := memory.New(log)
	c, err := repo.CreateCompany(context.Background(), entities.Company{Name: "Acme", TeamSize: teamSize})
	require.NoError(t, err)
	return &fixture{
		repo:    repo,
		engine:  assignment.New(log, metrics.NewAssignmentMetrics(prometheus.NewRegistry())),
		company: c,
	}
}

func (f *fixture) join(t *testing.T, name string) (*entities.User, assignment.Result) {
	t.Helper()
	ctx := context.Background()
	var (
		user *entities.User
		res  assignment.Result
	)
	err := f.repo.RunInTx(ctx, func(tx assignment.JoinStore) error {
		var err error
		user, err = tx.CreateUser(ctx, entities.User{Name: name, Email: name + "@acme.io", CompanyID: &f.company.ID})
		if err != nil {
			return err
		}
		res, err = f.engine.OnUserJoined(ctx, tx, user.ID, f.company.ID)
		return err
	})
	require.NoError(t, err)
	return user, res
}

func (f *fixture) teamByNumber(t *testing.T, number int) entities.Team {
	t.Helper()
	teams, err := f.repo.ListTeams(context.Background(), f.company.ID)
	require.NoError(t, err)
	for _, team := range teams {
		if team.Number == number {
			return team
		}
	}
	t.Fatalf("team %d not found", number)
	return entities.Team{}
}

func TestOnUserJoinedTeamSizeFour(t *testing.T) {
	f := newFixture(t, 4)

	ids := map[string]string{}
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		u, _ := f.join(t, name)
		ids[name] = u.ID
	}

	team1 := f.teamByNumber(t, 1)
	require.Equal(t, ids["a"], team1.LeaderID)
	require.Equal(t, "ACME-T1", team1.GroupID)
	require.ElementsMatch(t, []string{ids["a"], ids["b"], ids["c"]}, team1.Members)

	team2 := f.teamByNumber(t, 2)
	require.Equal(t, ids["b"], team2.LeaderID)
	require.ElementsMatch(t, []string{ids["b"], ids["d"], ids["e"]}, team2.Members)

	team5 := f.teamByNumber(t, 5)
	require.Equal(t, ids["e"], team5.LeaderID)
	require.Equal(t, []string{ids["e"]}, team5.Members)

	teams, err := f.repo.ListTeams(context.Background(), f.company.ID)
	require.NoError(t, err)
	require.Len(t, teams, 5)

	// the next joiner lands in team 2, so it is the filling one
	want := map[int]entities.TeamStatus{
		1: entities.TeamStatusComplete,
		2: entities.TeamStatusFilling,
		3: entities.TeamStatusPending,
		4: entities.TeamStatusPending,
		5: entities.TeamStatusPending,
	}
	for _, team := range teams {
		require.Equal(t, want[team.Number], team.Status, "team %d", team.Number)
	}

	u, res := f.join(t, "f")
	require.Equal(t, 2, res.MemberTeam.Number)
	team2 = f.teamByNumber(t, 2)
	require.Equal(t, entities.TeamStatusComplete, team2.Status)
	require.Len(t, team2.Members, 4)
	require.Contains(t, team2.Members, u.ID)
	require.Equal(t, entities.TeamStatusFilling, f.teamByNumber(t, 3).Status)
	require.Equal(t, entities.TeamStatusPending, f.teamByNumber(t, 6).Status)
}

func TestOnUserJoinedOnlyFillingTeamGainsMembers(t *testing.T) {
	for g := 2; g <= 10; g++ {
		t.Run(fmt.Sprintf("G=%d", g), func(t *testing.T) {
			f := newFixture(t, g)
			ctx := context.Background()
			before := map[string]entities.Team{}
			for i := 1; i <= 40; i++ {
				u, res := f.join(t, fmt.Sprintf("u%d", i))

				teams, err := f.repo.ListTeams(ctx, f.company.ID)
				require.NoError(t, err)
				filling := 0
				for _, team := range teams {
					switch team.Status {
					case entities.TeamStatusFilling:
						filling++
					case entities.TeamStatusComplete:
						require.LessOrEqual(t, len(team.Members), g)
					case entities.TeamStatusPending:
						require.Equal(t, []string{team.LeaderID}, team.Members, "pending team %d has members", team.Number)
					}

					prev, existed := before[team.ID]
					if existed && len(team.Members) > len(prev.Members) {
						require.Equal(t, entities.TeamStatusFilling, prev.Status,
							"team %d gained %s while %s", team.Number, u.ID, prev.Status)
						require.Equal(t, res.Placement.MemberOf, team.Number)
					}
					if prev.Status == entities.TeamStatusComplete {
						require.Equal(t, entities.TeamStatusComplete, team.Status, "team %d reopened", team.Number)
					}
					before[team.ID] = team
				}
				require.LessOrEqual(t, filling, 1)
				if g > 2 {
					require.Equal(t, 1, filling)
				}
			}
		})
	}
}

func TestOnUserJoinedLeaderIsJoinPosition(t *testing.T) {
	for g := 2; g <= 10; g++ {
		t.Run(fmt.Sprintf("G=%d", g), func(t *testing.T) {
			f := newFixture(t, g)
			order := make([]string, 0, 30)
			for i := 1; i <= 30; i++ {
				u, res := f.join(t, fmt.Sprintf("u%d", i))
				require.Equal(t, i, res.Placement.Position)
				order = append(order, u.ID)
			}

			teams, err := f.repo.ListTeams(context.Background(), f.company.ID)
			require.NoError(t, err)
			require.Len(t, teams, 30)
			seen := map[int]bool{}
			leaders := map[string]bool{}
			for _, team := range teams {
				require.False(t, seen[team.Number])
				seen[team.Number] = true
				require.Equal(t, order[team.Number-1], team.LeaderID)
				require.False(t, leaders[team.LeaderID])
				leaders[team.LeaderID] = true
				require.LessOrEqual(t, len(team.Members), g)
			}
		})
	}
}

func TestOnUserJoinedCompanyNotFound(t *testing.T) {
	f := newFixture(t, 3)
	ctx := context.Background()

	var userID string
	err := f.repo.RunInTx(ctx, func(tx assignment.JoinStore) error {
		u, err := tx.CreateUser(ctx, entities.User{Name: "x", Email: "x@acme.io"})
		if err != nil {
			return err
		}
		userID = u.ID
		_, err = f.engine.OnUserJoined(ctx, tx, u.ID, "missing")
		return err
	})
	require.ErrorIs(t, err, entities.ErrCompanyNotFound)

	_, err = f.repo.GetUser(ctx, userID)
	require.ErrorIs(t, err, entities.ErrUserNotFound)
	teams, err := f.repo.ListTeams(ctx, f.company.ID)
	require.NoError(t, err)
	require.Empty(t, teams)
}

// misconfiguredStore reports a company whose team size bypassed validation.
type misconfiguredStore struct {
	assignment.JoinStore
}

func (s misconfiguredStore) GetCompany(ctx context.Context, companyID string) (*entities.Company, error) {
	c, err := s.JoinStore.GetCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	c.TeamSize = 1
	return c, nil
}

func TestOnUserJoinedInvalidTeamSizeIsFatal(t *testing.T) {
	f := newFixture(t, 3)
	ctx := context.Background()

	err := f.repo.RunInTx(ctx, func(tx assignment.JoinStore) error {
		u, err := tx.CreateUser(ctx, entities.User{Name: "x", Email: "x@acme.io", CompanyID: &f.company.ID})
		if err != nil {
			return err
		}
		_, err = f.engine.OnUserJoined(ctx, misconfiguredStore{tx}, u.ID, f.company.ID)
		return err
	})
	require.ErrorIs(t, err, entities.ErrInvalidTeamSize)

	users, err := f.repo.ListUsersByCompany(ctx, f.company.ID)
	require.NoError(t, err)
	require.Empty(t, users)
}

func TestOnUserJoinedIsIdempotent(t *testing.T) {
	f := newFixture(t, 3)
	ctx := context.Background()
	f.join(t, "a")
	b, _ := f.join(t, "b")

	require.NoError(t, f.repo.RunInTx(ctx, func(tx assignment.JoinStore) error {
		_, err := f.engine.OnUserJoined(ctx, tx, b.ID, f.company.ID)
		return err
	}))

	team1 := f.teamByNumber(t, 1)
	require.Len(t, team1.Members, 2)
	team2 := f.teamByNumber(t, 2)
	require.Equal(t, []string{b.ID}, team2.Members)

	partners, err := f.repo.ListPartners(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, partners, 1)
}

// racingStore simulates a concurrent writer creating the same team number
// between the engine's lookup and its insert.
type racingStore struct {
	assignment.JoinStore
	winner  string
	number  int
	tripped bool
}

func (s *racingStore) CreateTeam(ctx context.Context, team entities.Team) (*entities.Team, error) {
	if !s.tripped && team.Number == s.number {
		s.tripped = true
		rival := team
		rival.LeaderID = s.winner
		if _, err := s.JoinStore.CreateTeam(ctx, rival); err != nil {
			return nil, err
		}
	}
	return s.JoinStore.CreateTeam(ctx, team)
}

func TestOnUserJoinedRecoversFromTeamNumberConflict(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()
	for i := 1; i <= 7; i++ {
		f.join(t, fmt.Sprintf("u%d", i))
	}

	reg := prometheus.NewRegistry()
	engine := assignment.New(zap.NewNop().Sugar(), metrics.NewAssignmentMetrics(reg))

	var (
		user   *entities.User
		winner *entities.User
		res    assignment.Result
	)
	require.NoError(t, f.repo.RunInTx(ctx, func(tx assignment.JoinStore) error {
		var err error
		winner, err = tx.CreateUser(ctx, entities.User{Name: "winner", Email: "winner@acme.io"})
		if err != nil {
			return err
		}
		user, err = tx.CreateUser(ctx, entities.User{Name: "late", Email: "late@acme.io", CompanyID: &f.company.ID})
		if err != nil {
			return err
		}
		rs := &racingStore{JoinStore: tx, winner: winner.ID, number: 8}
		res, err = engine.OnUserJoined(ctx, rs, user.ID, f.company.ID)
		return err
	}))

	require.Equal(t, 8, res.Placement.LeaderOf)
	require.Equal(t, winner.ID, res.LeaderTeam.LeaderID, "only the winner is recorded as leader")
	require.Contains(t, res.LeaderTeam.Members, user.ID)

	teams, err := f.repo.ListTeams(ctx, f.company.ID)
	require.NoError(t, err)
	count := 0
	for _, team := range teams {
		if team.Number == 8 {
			count++
		}
	}
	require.Equal(t, 1, count)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	found := false
	for _, mf := range mfs {
		if mf.GetName() == "assignment_team_conflicts_total" {
			found = true
			require.Equal(t, 1.0, mf.GetMetric()[0].GetCounter().GetValue())
		}
	}
	require.True(t, found)
}

func TestOnUserJoinedFallsBackToRank(t *testing.T) {
	f := newFixture(t, 3)
	ctx := context.Background()
	a, _ := f.join(t, "a")

	var res assignment.Result
	require.NoError(t, f.repo.RunInTx(ctx, func(tx assignment.JoinStore) error {
		u, err := tx.CreateUser(ctx, entities.User{Name: "b", Email: "b@acme.io", CompanyID: &f.company.ID})
		if err != nil {
			return err
		}
		res, err = f.engine.OnUserJoined(ctx, unsetPositions{tx}, u.ID, f.company.ID)
		return err
	}))
	require.Equal(t, 2, res.Placement.Position)
	require.Equal(t, a.ID, res.MemberTeam.LeaderID)
}

// unsetPositions hides allocated positions, as for rows created before the counter existed.
type unsetPositions struct {
	assignment.JoinStore
}

func (unsetPositions) JoinPosition(context.Context, string) (int, error) { return 0, nil }

func TestOnUserJoinedTeamLimit(t *testing.T) {
	f := newFixture(t, 3)
	ctx := context.Background()

	err := f.repo.RunInTx(ctx, func(tx assignment.JoinStore) error {
		u, err := tx.CreateUser(ctx, entities.User{Name: "x", Email: "x@acme.io", CompanyID: &f.company.ID})
		if err != nil {
			return err
		}
		_, err = f.engine.OnUserJoined(ctx, fixedPosition{JoinStore: tx, pos: entities.MaxTeamNumber + 1}, u.ID, f.company.ID)
		return err
	})
	require.ErrorIs(t, err, entities.ErrTeamLimitReached)
}

type fixedPosition struct {
	assignment.JoinStore
	pos int
}

func (s fixedPosition) JoinPosition(context.Context, string) (int, error) { return s.pos, nil }
