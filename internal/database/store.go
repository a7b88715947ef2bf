package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/JonMunkholm/estatecrm/internal/core"
)

// Store implements core.LeadStore and core.MemberDirectory on PostgreSQL.
// Ids that are not UUIDs cannot exist in the tables and are reported as
// not found.
type Store struct {
	q *Queries
}

var (
	_ core.LeadStore       = (*Store)(nil)
	_ core.MemberDirectory = (*Store)(nil)
)

// NewStore wraps db, which may be a pool or a transaction.
func NewStore(db DBTX) *Store {
	return &Store{q: New(db)}
}

// FindByPhone returns the oldest lead of the tenant with phone, or nil.
// Whitespace around the stored phone is ignored.
func (s *Store) FindByPhone(ctx context.Context, tenantID, phone string) (*core.Lead, error) {
	tid, err := ParseUUID(tenantID)
	if err != nil {
		return nil, nil
	}
	row, err := s.q.FindLeadByPhone(ctx, tid, strings.TrimSpace(phone))
	return found(row, err, "find lead by phone")
}

// FindByID returns the lead with id regardless of tenant, or nil. The
// caller checks ownership.
func (s *Store) FindByID(ctx context.Context, id string) (*core.Lead, error) {
	lid, err := ParseUUID(id)
	if err != nil {
		return nil, nil
	}
	row, err := s.q.GetLead(ctx, lid)
	return found(row, err, "get lead")
}

// Create inserts a lead for the tenant.
func (s *Store) Create(ctx context.Context, tenantID string, fields core.LeadFields) (*core.Lead, error) {
	tid, err := ParseUUID(tenantID)
	if err != nil {
		return nil, fmt.Errorf("create lead: tenant: %w", err)
	}
	params, err := leadParams(fields)
	if err != nil {
		return nil, fmt.Errorf("create lead: %w", err)
	}
	row, err := s.q.CreateLead(ctx, tid, params)
	if err != nil {
		return nil, fmt.Errorf("create lead: %w", err)
	}
	return toCoreLead(row), nil
}

// Update overwrites every stored field of the lead with fields.
func (s *Store) Update(ctx context.Context, id string, fields core.LeadFields) (*core.Lead, error) {
	lid, err := ParseUUID(id)
	if err != nil {
		return nil, fmt.Errorf("update lead: %w", err)
	}
	params, err := leadParams(fields)
	if err != nil {
		return nil, fmt.Errorf("update lead: %w", err)
	}
	row, err := s.q.UpdateLead(ctx, lid, params)
	if err != nil {
		return nil, fmt.Errorf("update lead %s: %w", id, notFound(err))
	}
	return toCoreLead(row), nil
}

// Assign sets the assignee and assignment time of the lead.
func (s *Store) Assign(ctx context.Context, id, assigneeID string, at time.Time) (*core.Lead, error) {
	lid, err := ParseUUID(id)
	if err != nil {
		return nil, fmt.Errorf("assign lead: %w", err)
	}
	mid, err := ParseUUID(assigneeID)
	if err != nil {
		return nil, fmt.Errorf("assign lead: assignee: %w", err)
	}
	row, err := s.q.AssignLead(ctx, lid, mid, ToPgTimestamptz(&at))
	if err != nil {
		return nil, fmt.Errorf("assign lead %s: %w", id, notFound(err))
	}
	return toCoreLead(row), nil
}

// Delete removes the lead. It fails with core.ErrLeadNotFound when no row
// was deleted.
func (s *Store) Delete(ctx context.Context, id string) error {
	lid, err := ParseUUID(id)
	if err != nil {
		return fmt.Errorf("delete lead: %w", err)
	}
	n, err := s.q.DeleteLead(ctx, lid)
	if err != nil {
		return fmt.Errorf("delete lead %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("delete lead %s: %w", id, core.ErrLeadNotFound)
	}
	return nil
}

// List returns the tenant's leads matching filter, newest first.
func (s *Store) List(ctx context.Context, tenantID string, filter core.ListFilter) ([]core.Lead, error) {
	tid, err := ParseUUID(tenantID)
	if err != nil {
		return nil, nil
	}
	params := ListLeadsParams{
		TenantID: tid,
		Status:   string(filter.Status),
		Source:   string(filter.Source),
		Priority: string(filter.Priority),
		Search:   filter.Search,
	}
	if filter.AssigneeID != "" {
		aid, err := ParseUUID(filter.AssigneeID)
		if err != nil {
			// Nobody can be assigned to a non-UUID member.
			return nil, nil
		}
		params.AssignedTo = aid
	}

	rows, err := s.q.ListLeads(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	leads := make([]core.Lead, len(rows))
	for i, row := range rows {
		leads[i] = *toCoreLead(row)
	}
	return leads, nil
}

// FindActiveMember returns the member if it is active in the tenant, or nil.
func (s *Store) FindActiveMember(ctx context.Context, tenantID, memberID string) (*core.Member, error) {
	tid, err := ParseUUID(tenantID)
	if err != nil {
		return nil, nil
	}
	mid, err := ParseUUID(memberID)
	if err != nil {
		return nil, nil
	}
	row, err := s.q.GetActiveMember(ctx, mid, tid)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get member: %w", err)
	}
	return &core.Member{
		ID:       UUIDString(row.ID),
		TenantID: UUIDString(row.TenantID),
		FullName: row.FullName,
		Email:    row.Email,
		IsActive: row.IsActive,
	}, nil
}

// found maps pgx.ErrNoRows to (nil, nil).
func found(row Lead, err error, op string) (*core.Lead, error) {
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return toCoreLead(row), nil
}

// notFound turns pgx.ErrNoRows from a write into core.ErrLeadNotFound.
func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return core.ErrLeadNotFound
	}
	return err
}

func leadParams(f core.LeadFields) (LeadParams, error) {
	var assignee pgtype.UUID
	if f.AssigneeID != "" {
		id, err := ParseUUID(f.AssigneeID)
		if err != nil {
			return LeadParams{}, fmt.Errorf("assignee: %w", err)
		}
		assignee = id
	}
	bedrooms, err := ToPgInt4(f.Bedrooms)
	if err != nil {
		return LeadParams{}, fmt.Errorf("bedrooms: %w", err)
	}
	return LeadParams{
		FirstName:    f.FirstName,
		LastName:     f.LastName,
		Phone:        f.Phone,
		Email:        f.Email,
		Telegram:     f.Telegram,
		Whatsapp:     f.WhatsApp,
		PropertyType: string(f.PropertyType),
		ListingType:  string(f.ListingType),
		Budget:       ToPgNumeric(f.Budget),
		Bedrooms:     bedrooms,
		Districts:    f.Districts,
		Requirements: f.Requirements,
		Notes:        f.Notes,
		Source:       string(f.Source),
		Status:       string(f.Status),
		Priority:     string(f.Priority),
		AssignedTo:   assignee,
		AssignedAt:   ToPgTimestamptz(f.AssignedAt),
	}, nil
}

func toCoreLead(row Lead) *core.Lead {
	var districts []string
	if len(row.Districts) > 0 {
		districts = row.Districts
	}
	return &core.Lead{
		ID:       UUIDString(row.ID),
		TenantID: UUIDString(row.TenantID),
		LeadFields: core.LeadFields{
			FirstName:    row.FirstName,
			LastName:     row.LastName,
			Phone:        row.Phone,
			Email:        row.Email,
			Telegram:     row.Telegram,
			WhatsApp:     row.Whatsapp,
			PropertyType: core.PropertyType(row.PropertyType),
			ListingType:  core.ListingType(row.ListingType),
			Budget:       NumericPtr(row.Budget),
			Bedrooms:     Int4Ptr(row.Bedrooms),
			Districts:    districts,
			Requirements: row.Requirements,
			Notes:        row.Notes,
			Source:       core.LeadSource(row.Source),
			Status:       core.LeadStatus(row.Status),
			Priority:     core.LeadPriority(row.Priority),
			AssigneeID:   UUIDString(row.AssignedTo),
			AssignedAt:   TimePtr(row.AssignedAt),
		},
		AssigneeName: TextToString(row.AssigneeName),
		CreatedAt:    TimeFromPg(row.CreatedAt),
		UpdatedAt:    TimeFromPg(row.UpdatedAt),
	}
}
