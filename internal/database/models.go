package database

import (
	"github.com/jackc/pgx/v5/pgtype"
)

// Lead is a row of leads joined with the assignee's name.
type Lead struct {
	ID           pgtype.UUID
	TenantID     pgtype.UUID
	FirstName    string
	LastName     string
	Phone        string
	Email        string
	Telegram     string
	Whatsapp     string
	PropertyType string
	ListingType  string
	Budget       pgtype.Numeric
	Bedrooms     pgtype.Int4
	Districts    []string
	Requirements string
	Notes        string
	Source       string
	Status       string
	Priority     string
	AssignedTo   pgtype.UUID
	AssignedAt   pgtype.Timestamptz
	CreatedAt    pgtype.Timestamptz
	UpdatedAt    pgtype.Timestamptz
	AssigneeName pgtype.Text
}

// Member is a row of members.
type Member struct {
	ID        pgtype.UUID
	TenantID  pgtype.UUID
	FullName  string
	Email     string
	IsActive  bool
	CreatedAt pgtype.Timestamptz
}

// LeadParams carries the writable lead columns for inserts and updates.
type LeadParams struct {
	FirstName    string
	LastName     string
	Phone        string
	Email        string
	Telegram     string
	Whatsapp     string
	PropertyType string
	ListingType  string
	Budget       pgtype.Numeric
	Bedrooms     pgtype.Int4
	Districts    []string
	Requirements string
	Notes        string
	Source       string
	Status       string
	Priority     string
	AssignedTo   pgtype.UUID
	AssignedAt   pgtype.Timestamptz
}

func (p LeadParams) args() []interface{} {
	districts := p.Districts
	if districts == nil {
		districts = []string{}
	}
	return []interface{}{
		p.FirstName, p.LastName, p.Phone, p.Email, p.Telegram, p.Whatsapp,
		p.PropertyType, p.ListingType, p.Budget, p.Bedrooms, districts,
		p.Requirements, p.Notes, p.Source, p.Status, p.Priority,
		p.AssignedTo, p.AssignedAt,
	}
}

// ListLeadsParams filters ListLeads. Empty strings do not filter.
type ListLeadsParams struct {
	TenantID   pgtype.UUID
	Status     string
	Source     string
	Priority   string
	AssignedTo pgtype.UUID
	Search     string
}
