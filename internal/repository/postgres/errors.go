package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	codeUniqueViolation     = "23505"
	codeCheckViolation      = "23514"
	codeInvalidTextRepr     = "22P02"
	constraintCompanyName   = "companies_name_key"
	constraintUserEmail     = "users_email_key"
	constraintTeamNumber    = "teams_company_number_key"
	constraintOneFilling    = "teams_one_filling_idx"
	constraintActiveLeader  = "teams_active_leader_idx"
	constraintMembershipKey = "team_memberships_pkey"
)

// uniqueViolation returns the violated constraint name for a 23505 error.
func uniqueViolation(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation {
		return pgErr.ConstraintName, true
	}
	return "", false
}

func hasCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}
