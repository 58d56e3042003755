package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"testing"
	"time"

	"partnership-teams/config"
	"partnership-teams/internal/assignment"
	"partnership-teams/internal/entities"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func TestRepositoryIntegration(t *testing.T) {
	ctx := context.Background()
	repo := startRepo(t)

	company, err := repo.CreateCompany(ctx, entities.Company{Name: "Acme Corp", TeamSize: 4})
	require.NoError(t, err)
	require.True(t, company.IsActive)

	_, err = repo.CreateCompany(ctx, entities.Company{Name: "Acme Corp", TeamSize: 4})
	require.ErrorIs(t, err, entities.ErrCompanyExists)

	_, err = repo.GetCompany(ctx, "not-a-uuid")
	require.ErrorIs(t, err, entities.ErrCompanyNotFound)

	engine := assignment.New(testLogger(t), nil)
	users := make([]*entities.User, 0, 5)
	for i := 0; i < 5; i++ {
		users = append(users, join(t, repo, engine, company.ID, fmt.Sprintf("u%d@acme.io", i)))
	}
	for i, u := range users {
		require.Equal(t, i+1, u.JoinPosition)
	}

	teams, err := repo.ListTeams(ctx, company.ID)
	require.NoError(t, err)
	require.Len(t, teams, 5)

	filling := 0
	for i, team := range teams {
		require.Equal(t, i+1, team.Number)
		require.Equal(t, users[i].ID, team.LeaderID)
		require.Equal(t, fmt.Sprintf("ACMECO-T%d", i+1), team.GroupID)
		if team.Status == entities.TeamStatusFilling {
			filling++
		}
	}
	require.Equal(t, 1, filling)
	// the sixth joiner would enter team 2
	require.Equal(t, entities.TeamStatusComplete, teams[0].Status)
	require.Equal(t, entities.TeamStatusFilling, teams[1].Status)
	for _, team := range teams[2:] {
		require.Equal(t, entities.TeamStatusPending, team.Status)
		require.Equal(t, []string{team.LeaderID}, team.Members)
	}
	// G=4: positions 2,3 join team 1; 4,5 join team 2.
	require.ElementsMatch(t, []string{users[0].ID, users[1].ID, users[2].ID}, teams[0].Members)
	require.ElementsMatch(t, []string{users[1].ID, users[3].ID, users[4].ID}, teams[1].Members)

	partners, err := repo.ListPartners(ctx, users[1].ID)
	require.NoError(t, err)
	ids := make([]string, 0, len(partners))
	for _, p := range partners {
		require.Equal(t, users[1].ID, p.UserID)
		ids = append(ids, p.PartnerID)
	}
	require.ElementsMatch(t, []string{users[0].ID, users[2].ID, users[3].ID, users[4].ID}, ids)

	userTeams, err := repo.ListUserTeams(ctx, users[1].ID)
	require.NoError(t, err)
	require.Len(t, userTeams, 2)
	require.False(t, userTeams[0].IsLeader)
	require.True(t, userTeams[1].IsLeader)

	updated, err := repo.SetTeamSize(ctx, company.ID, 6)
	require.NoError(t, err)
	require.Equal(t, 6, updated.TeamSize)
	require.NotNil(t, updated.TeamSizeChangedAt)

	_, err = repo.SetTeamSize(ctx, company.ID, 1)
	require.ErrorIs(t, err, entities.ErrInvalidTeamSize)

	deactivated, err := repo.DeactivateTeam(ctx, teams[2].ID)
	require.NoError(t, err)
	require.Equal(t, entities.TeamStatusInactive, deactivated.Status)
}

func TestRegistrationRollsBack(t *testing.T) {
	ctx := context.Background()
	repo := startRepo(t)
	engine := assignment.New(testLogger(t), nil)

	company, err := repo.CreateCompany(ctx, entities.Company{Name: "Rollback", TeamSize: 3})
	require.NoError(t, err)
	first := join(t, repo, engine, company.ID, "first@x.io")

	failing := fmt.Errorf("downstream failure")
	err = repo.RunInTx(ctx, func(tx assignment.JoinStore) error {
		u, err := tx.CreateUser(ctx, entities.User{ID: uuid.NewString(), Name: "ghost", Email: "ghost@x.io", CompanyID: &company.ID})
		if err != nil {
			return err
		}
		if _, err := engine.OnUserJoined(ctx, tx, u.ID, company.ID); err != nil {
			return err
		}
		return failing
	})
	require.ErrorIs(t, err, failing)

	users, err := repo.ListUsersByCompany(ctx, company.ID)
	require.NoError(t, err)
	require.Len(t, users, 1)
	require.Equal(t, first.ID, users[0].ID)

	teams, err := repo.ListTeams(ctx, company.ID)
	require.NoError(t, err)
	require.Len(t, teams, 1)

	// the rolled back position is handed out again
	second := join(t, repo, engine, company.ID, "second@x.io")
	require.Equal(t, 2, second.JoinPosition)

	err = repo.RunInTx(ctx, func(tx assignment.JoinStore) error {
		_, err := tx.CreateUser(ctx, entities.User{ID: uuid.NewString(), Name: "dup", Email: "first@x.io"})
		return err
	})
	require.ErrorIs(t, err, entities.ErrEmailTaken)

	_, err = repo.SetCompanyActive(ctx, company.ID, false)
	require.NoError(t, err)
	err = repo.RunInTx(ctx, func(tx assignment.JoinStore) error {
		_, err := tx.CreateUser(ctx, entities.User{ID: uuid.NewString(), Name: "late", Email: "late@x.io", CompanyID: &company.ID})
		return err
	})
	require.ErrorIs(t, err, entities.ErrCompanyInactive)
}

func TestTeamConstraints(t *testing.T) {
	ctx := context.Background()
	repo := startRepo(t)

	company, err := repo.CreateCompany(ctx, entities.Company{Name: "Constraints", TeamSize: 5})
	require.NoError(t, err)

	err = repo.RunInTx(ctx, func(tx assignment.JoinStore) error {
		a, err := tx.CreateUser(ctx, entities.User{ID: uuid.NewString(), Name: "a", Email: "a@c.io", CompanyID: &company.ID})
		require.NoError(t, err)
		b, err := tx.CreateUser(ctx, entities.User{ID: uuid.NewString(), Name: "b", Email: "b@c.io", CompanyID: &company.ID})
		require.NoError(t, err)

		team, err := tx.CreateTeam(ctx, entities.Team{GroupID: "C-T1", CompanyID: company.ID, Number: 1, LeaderID: a.ID, Status: entities.TeamStatusFilling})
		require.NoError(t, err)

		// each failure is contained in a savepoint, the tx stays usable
		_, err = tx.CreateTeam(ctx, entities.Team{GroupID: "C-T1", CompanyID: company.ID, Number: 1, LeaderID: b.ID, Status: entities.TeamStatusComplete})
		require.ErrorIs(t, err, entities.ErrTeamNumberTaken)
		_, err = tx.CreateTeam(ctx, entities.Team{GroupID: "C-T2", CompanyID: company.ID, Number: 2, LeaderID: b.ID, Status: entities.TeamStatusFilling})
		require.ErrorIs(t, err, entities.ErrFillingTeamExists)
		_, err = tx.CreateTeam(ctx, entities.Team{GroupID: "C-T2", CompanyID: company.ID, Number: 2, LeaderID: a.ID, Status: entities.TeamStatusComplete})
		require.ErrorIs(t, err, entities.ErrLeaderTaken)
		_, err = tx.CreateTeam(ctx, entities.Team{GroupID: "C-T1001", CompanyID: company.ID, Number: entities.MaxTeamNumber + 1, LeaderID: b.ID, Status: entities.TeamStatusComplete})
		require.ErrorIs(t, err, entities.ErrTeamLimitReached)

		require.NoError(t, tx.AddMembership(ctx, team.ID, a.ID))
		require.ErrorIs(t, tx.AddMembership(ctx, team.ID, a.ID), entities.ErrMembershipExists)
		require.NoError(t, tx.AddMembership(ctx, team.ID, b.ID))
		require.NoError(t, tx.RecordPartnerships(ctx, team.ID, b.ID))

		byNumber, err := tx.GetTeamByNumber(ctx, company.ID, 1)
		require.NoError(t, err)
		require.Equal(t, team.ID, byNumber.ID)
		_, err = tx.GetTeamByNumber(ctx, company.ID, 9)
		require.ErrorIs(t, err, entities.ErrTeamNotFound)
		return nil
	})
	require.NoError(t, err)

	team, err := repo.ListTeams(ctx, company.ID)
	require.NoError(t, err)
	require.Len(t, team, 1)
	require.Len(t, team[0].Members, 2)
}

func TestConcurrentJoinsAreGapFree(t *testing.T) {
	ctx := context.Background()
	repo := startRepo(t)
	engine := assignment.New(testLogger(t), nil)

	const joiners = 24
	company, err := repo.CreateCompany(ctx, entities.Company{Name: "Busy", TeamSize: 3})
	require.NoError(t, err)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < joiners; i++ {
		email := fmt.Sprintf("c%d@busy.io", i)
		g.Go(func() error {
			return repo.RunInTx(gctx, func(tx assignment.JoinStore) error {
				u, err := tx.CreateUser(gctx, entities.User{ID: uuid.NewString(), Name: email, Email: email, CompanyID: &company.ID})
				if err != nil {
					return err
				}
				_, err = engine.OnUserJoined(gctx, tx, u.ID, company.ID)
				return err
			})
		})
	}
	require.NoError(t, g.Wait())

	users, err := repo.ListUsersByCompany(ctx, company.ID)
	require.NoError(t, err)
	require.Len(t, users, joiners)
	positions := make([]int, 0, joiners)
	for _, u := range users {
		positions = append(positions, u.JoinPosition)
	}
	sort.Ints(positions)
	for i, p := range positions {
		require.Equal(t, i+1, p)
	}

	teams, err := repo.ListTeams(ctx, company.ID)
	require.NoError(t, err)
	require.Len(t, teams, joiners)
	filling := 0
	for _, team := range teams {
		if team.Status == entities.TeamStatusFilling {
			filling++
		}
	}
	require.Equal(t, 1, filling)
}

func join(t *testing.T, repo *Postgres, engine *assignment.Engine, companyID, email string) *entities.User {
	t.Helper()
	ctx := context.Background()
	var user *entities.User
	err := repo.RunInTx(ctx, func(tx assignment.JoinStore) error {
		var err error
		user, err = tx.CreateUser(ctx, entities.User{ID: uuid.NewString(), Name: email, Email: email, CompanyID: &companyID})
		if err != nil {
			return err
		}
		_, err = engine.OnUserJoined(ctx, tx, user.ID, companyID)
		return err
	})
	require.NoError(t, err)
	return user
}

func startRepo(t *testing.T) *Postgres {
	t.Helper()
	ctx := context.Background()

	cfg, cleanup := setupPostgres(t)
	t.Cleanup(cleanup)

	repo := New(ctx, testLogger(t), cfg)
	require.NoError(t, repo.OnStart(ctx))
	t.Cleanup(func() { _ = repo.OnStop(ctx) })
	return repo
}

func setupPostgres(t *testing.T) (*config.Config, func()) {
	t.Helper()

	pool, err := dockertest.NewPool("")
	require.NoError(t, err)

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_PASSWORD=postgres",
			"POSTGRES_USER=postgres",
			"POSTGRES_DB=partnership_teams_db",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
	})
	require.NoError(t, err)

	hostPort := resource.GetPort("5432/tcp")

	port, err := strconv.Atoi(hostPort)
	require.NoError(t, err)
	migrationsDir, err := filepath.Abs(filepath.Join("..", "..", "..", "db", "migrations"))
	require.NoError(t, err)
	require.DirExists(t, migrationsDir)

	pg := config.PostgresConfig{
		Host:           "localhost",
		Port:           port,
		User:           "postgres",
		Password:       "postgres",
		DBName:         "partnership_teams_db",
		SSLMode:        "disable",
		MigrationsDir:  migrationsDir,
		QueryTimeout:   10 * time.Second,
		MigrateTimeout: 20 * time.Second,
		MaxConns:       8,
		MinConns:       1,
	}
	cfg := &config.Config{
		Server:     config.ServerConfig{Host: "0.0.0.0", Port: 8080, ShutdownTimeout: 5 * time.Second},
		HTTP:       config.HTTPConfig{RequestTimeout: 5 * time.Second},
		Storage:    config.StorageConfig{Backend: "postgres"},
		Postgres:   pg,
		Connection: config.NewConnection(pg.DSN()),
	}

	require.NoError(t, pool.Retry(func() error {
		db, err := sql.Open("postgres", pg.DSN())
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()
		return db.Ping()
	}))

	cleanup := func() {
		_ = pool.Purge(resource)
	}

	return cfg, cleanup
}

func testLogger(t *testing.T) *zap.SugaredLogger {
	t.Helper()

	l, _ := zap.NewDevelopment()
	t.Cleanup(func() { _ = l.Sync() })
	return l.Sugar()
}
