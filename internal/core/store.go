package core

import (
	"context"
	"time"
)

// LeadStore is the persistent record store. Callers scope every lookup to
// a tenant; the store does not enforce isolation itself. Find methods
// return (nil, nil) when nothing matches; Update, Assign, and Delete return
// an error wrapping ErrLeadNotFound when the lead no longer exists.
//
// FindByPhone ignores surrounding whitespace in the stored phone.
type LeadStore interface {
	FindByPhone(ctx context.Context, tenantID, phone string) (*Lead, error)
	FindByID(ctx context.Context, id string) (*Lead, error)
	Create(ctx context.Context, tenantID string, fields LeadFields) (*Lead, error)
	Update(ctx context.Context, id string, fields LeadFields) (*Lead, error)
	Assign(ctx context.Context, id, assigneeID string, at time.Time) (*Lead, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, tenantID string, filter ListFilter) ([]Lead, error)
}

// MemberDirectory answers membership questions for bulk assignment and
// default import assignees.
type MemberDirectory interface {
	// FindActiveMember returns (nil, nil) when memberID is unknown, inactive,
	// or belongs to another tenant.
	FindActiveMember(ctx context.Context, tenantID, memberID string) (*Member, error)
}

// TenantLocker serializes bulk operations per tenant.
type TenantLocker interface {
	Lock(ctx context.Context, tenantID string) (unlock func(), err error)
}

type noopLocker struct{}

func (noopLocker) Lock(context.Context, string) (func(), error) { return func() {}, nil }
