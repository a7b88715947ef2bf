package database

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const leadSelect = `SELECT l.id, l.tenant_id, l.first_name, l.last_name, l.phone, l.email,
	l.telegram, l.whatsapp, l.property_type, l.listing_type, l.budget, l.bedrooms,
	l.districts, l.requirements, l.notes, l.source, l.status, l.priority,
	l.assigned_to, l.assigned_at, l.created_at, l.updated_at, m.full_name`

const leadJoin = ` LEFT JOIN members m ON m.id = l.assigned_to`

func scanLead(row pgx.Row) (Lead, error) {
	var i Lead
	err := row.Scan(
		&i.ID,
		&i.TenantID,
		&i.FirstName,
		&i.LastName,
		&i.Phone,
		&i.Email,
		&i.Telegram,
		&i.Whatsapp,
		&i.PropertyType,
		&i.ListingType,
		&i.Budget,
		&i.Bedrooms,
		&i.Districts,
		&i.Requirements,
		&i.Notes,
		&i.Source,
		&i.Status,
		&i.Priority,
		&i.AssignedTo,
		&i.AssignedAt,
		&i.CreatedAt,
		&i.UpdatedAt,
		&i.AssigneeName,
	)
	return i, err
}

const findLeadByPhone = leadSelect + `
FROM leads l` + leadJoin + `
WHERE l.tenant_id = $1 AND btrim(l.phone, E' \t\r\n') = $2
ORDER BY l.created_at, l.id
LIMIT 1`

// FindLeadByPhone returns the oldest lead of the tenant whose phone, ignoring
// surrounding whitespace, equals phone. The caller passes a trimmed phone.
func (q *Queries) FindLeadByPhone(ctx context.Context, tenantID pgtype.UUID, phone string) (Lead, error) {
	return scanLead(q.db.QueryRow(ctx, findLeadByPhone, tenantID, phone))
}

const getLead = leadSelect + `
FROM leads l` + leadJoin + `
WHERE l.id = $1`

func (q *Queries) GetLead(ctx context.Context, id pgtype.UUID) (Lead, error) {
	return scanLead(q.db.QueryRow(ctx, getLead, id))
}

const createLead = `WITH l AS (
	INSERT INTO leads (
		tenant_id, first_name, last_name, phone, email, telegram, whatsapp,
		property_type, listing_type, budget, bedrooms, districts,
		requirements, notes, source, status, priority, assigned_to, assigned_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	RETURNING *
)
` + leadSelect + `
FROM l` + leadJoin

func (q *Queries) CreateLead(ctx context.Context, tenantID pgtype.UUID, arg LeadParams) (Lead, error) {
	args := append([]interface{}{tenantID}, arg.args()...)
	return scanLead(q.db.QueryRow(ctx, createLead, args...))
}

const updateLead = `WITH l AS (
	UPDATE leads SET
		first_name = $2, last_name = $3, phone = $4, email = $5, telegram = $6,
		whatsapp = $7, property_type = $8, listing_type = $9, budget = $10,
		bedrooms = $11, districts = $12, requirements = $13, notes = $14,
		source = $15, status = $16, priority = $17, assigned_to = $18,
		assigned_at = $19, updated_at = now()
	WHERE id = $1
	RETURNING *
)
` + leadSelect + `
FROM l` + leadJoin

// UpdateLead overwrites every writable column of the lead.
func (q *Queries) UpdateLead(ctx context.Context, id pgtype.UUID, arg LeadParams) (Lead, error) {
	args := append([]interface{}{id}, arg.args()...)
	return scanLead(q.db.QueryRow(ctx, updateLead, args...))
}

const assignLead = `WITH l AS (
	UPDATE leads SET assigned_to = $2, assigned_at = $3, updated_at = now()
	WHERE id = $1
	RETURNING *
)
` + leadSelect + `
FROM l` + leadJoin

func (q *Queries) AssignLead(ctx context.Context, id, assignedTo pgtype.UUID, at pgtype.Timestamptz) (Lead, error) {
	return scanLead(q.db.QueryRow(ctx, assignLead, id, assignedTo, at))
}

const deleteLead = `DELETE FROM leads WHERE id = $1`

// DeleteLead removes the lead and reports how many rows were deleted.
func (q *Queries) DeleteLead(ctx context.Context, id pgtype.UUID) (int64, error) {
	tag, err := q.db.Exec(ctx, deleteLead, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// buildListLeads renders the filtered, newest-first listing query.
func buildListLeads(arg ListLeadsParams) (string, []interface{}) {
	wb := NewWhereBuilder()
	wb.AddArg("l.tenant_id", arg.TenantID)
	wb.Add("l.status", arg.Status)
	wb.Add("l.source", arg.Source)
	wb.Add("l.priority", arg.Priority)
	if arg.AssignedTo.Valid {
		wb.AddArg("l.assigned_to", arg.AssignedTo)
	}
	wb.AddSearch(arg.Search, "l.first_name", "l.last_name", "l.phone", "l.email")

	where, args := wb.Build()
	return leadSelect + "\nFROM leads l" + leadJoin + where + "\nORDER BY l.created_at DESC, l.id", args
}

func (q *Queries) ListLeads(ctx context.Context, arg ListLeadsParams) ([]Lead, error) {
	query, args := buildListLeads(arg)
	rows, err := q.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Lead
	for rows.Next() {
		i, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}
