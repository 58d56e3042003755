package postgres

import (
	"context"
	"fmt"

	"partnership-teams/internal/entities"
)

const (
	recordPartnershipsQuery = `
INSERT INTO partnership_history(user_id, partner_id, team_id)
SELECT $2, m.user_id, $1
FROM team_memberships m
WHERE m.team_id=$1 AND m.user_id <> $2`
	selectPartnersQuery = `
SELECT user_id::text, partner_id::text, team_id::text, created_at
FROM partnership_history
WHERE user_id=$1 OR partner_id=$1
ORDER BY created_at, id`
)

// RecordPartnerships pairs userID with every other member of the team.
func (s *txStore) RecordPartnerships(ctx context.Context, teamID, userID string) error {
	if _, err := s.tx.Exec(ctx, recordPartnershipsQuery, teamID, userID); err != nil {
		return fmt.Errorf("record partnerships: %w", err)
	}
	return nil
}

// ListPartners returns the history rows involving userID, oriented so that
// UserID is always userID.
func (p *Postgres) ListPartners(ctx context.Context, userID string) ([]entities.Partnership, error) {
	if _, err := p.GetUser(ctx, userID); err != nil {
		return nil, err
	}

	rows, err := p.db.Query(ctx, selectPartnersQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("list partners: %w", err)
	}
	defer rows.Close()

	res := make([]entities.Partnership, 0)
	for rows.Next() {
		var ph entities.Partnership
		if err := rows.Scan(&ph.UserID, &ph.PartnerID, &ph.TeamID, &ph.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan partnership: %w", err)
		}
		if ph.PartnerID == userID {
			ph.UserID, ph.PartnerID = ph.PartnerID, ph.UserID
		}
		res = append(res, ph)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate partners: %w", err)
	}
	return res, nil
}
