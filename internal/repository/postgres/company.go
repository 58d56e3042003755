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
	companyColumns      = `id::text, name, team_size, is_active, team_size_changed_at, created_at`
	insertCompanyQuery  = `INSERT INTO companies(id, name, team_size) VALUES ($1, $2, $3) RETURNING ` + companyColumns
	selectCompanyQuery  = `SELECT ` + companyColumns + ` FROM companies WHERE id=$1`
	selectCompanies     = `SELECT ` + companyColumns + ` FROM companies ORDER BY created_at, id`
	updateTeamSizeQuery = `UPDATE companies SET team_size=$2, team_size_changed_at=NOW() WHERE id=$1 RETURNING ` + companyColumns
	updateActiveQuery   = `UPDATE companies SET is_active=$2 WHERE id=$1 RETURNING ` + companyColumns
)

func scanCompany(row pgx.Row) (*entities.Company, error) {
	var c entities.Company
	if err := row.Scan(&c.ID, &c.Name, &c.TeamSize, &c.IsActive, &c.TeamSizeChangedAt, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func getCompany(ctx context.Context, q querier, companyID string) (*entities.Company, error) {
	c, err := scanCompany(q.QueryRow(ctx, selectCompanyQuery, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || hasCode(err, codeInvalidTextRepr) {
			return nil, entities.ErrCompanyNotFound
		}
		return nil, fmt.Errorf("get company: %w", err)
	}
	return c, nil
}

// CreateCompany inserts a company.
func (p *Postgres) CreateCompany(ctx context.Context, company entities.Company) (*entities.Company, error) {
	if company.ID == "" {
		company.ID = uuid.NewString()
	}
	c, err := scanCompany(p.db.QueryRow(ctx, insertCompanyQuery, company.ID, company.Name, company.TeamSize))
	if err != nil {
		if name, ok := uniqueViolation(err); ok && name == constraintCompanyName {
			return nil, entities.ErrCompanyExists
		}
		if hasCode(err, codeCheckViolation) {
			return nil, entities.ErrInvalidTeamSize
		}
		p.log.Errorw("failed to insert company", "error", err, "name", company.Name)
		return nil, fmt.Errorf("insert company: %w", err)
	}
	p.log.Infow("company created", "company_id", c.ID, "team_size", c.TeamSize)
	return c, nil
}

// GetCompany fetches a company by id.
func (p *Postgres) GetCompany(ctx context.Context, companyID string) (*entities.Company, error) {
	return getCompany(ctx, p.db, companyID)
}

// ListCompanies returns all companies in creation order.
func (p *Postgres) ListCompanies(ctx context.Context) ([]entities.Company, error) {
	rows, err := p.db.Query(ctx, selectCompanies)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()

	res := make([]entities.Company, 0)
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		res = append(res, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate companies: %w", err)
	}
	return res, nil
}

// SetTeamSize changes the configured team size and stamps the change time.
func (p *Postgres) SetTeamSize(ctx context.Context, companyID string, size int) (*entities.Company, error) {
	c, err := scanCompany(p.db.QueryRow(ctx, updateTeamSizeQuery, companyID, size))
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows), hasCode(err, codeInvalidTextRepr):
			return nil, entities.ErrCompanyNotFound
		case hasCode(err, codeCheckViolation):
			return nil, entities.ErrInvalidTeamSize
		}
		return nil, fmt.Errorf("set team size: %w", err)
	}
	p.log.Infow("team size updated", "company_id", companyID, "team_size", size)
	return c, nil
}

// SetCompanyActive toggles the company active flag.
func (p *Postgres) SetCompanyActive(ctx context.Context, companyID string, isActive bool) (*entities.Company, error) {
	c, err := scanCompany(p.db.QueryRow(ctx, updateActiveQuery, companyID, isActive))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || hasCode(err, codeInvalidTextRepr) {
			return nil, entities.ErrCompanyNotFound
		}
		return nil, fmt.Errorf("set company active: %w", err)
	}
	p.log.Infow("company active flag updated", "company_id", companyID, "is_active", isActive)
	return c, nil
}
