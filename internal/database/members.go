package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const getActiveMember = `SELECT id, tenant_id, full_name, email, is_active, created_at
FROM members
WHERE id = $1 AND tenant_id = $2 AND is_active`

func (q *Queries) GetActiveMember(ctx context.Context, id, tenantID pgtype.UUID) (Member, error) {
	var i Member
	err := q.db.QueryRow(ctx, getActiveMember, id, tenantID).Scan(
		&i.ID,
		&i.TenantID,
		&i.FullName,
		&i.Email,
		&i.IsActive,
		&i.CreatedAt,
	)
	return i, err
}
