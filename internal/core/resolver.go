package core

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Resolution is what the resolver decided for one row.
type Resolution struct {
	Outcome Outcome
	Lead    *Lead  // created or merged lead; the existing lead when skipped
	Reason  string // set when Outcome is OutcomeFailed
}

// Assignment is applied to leads created by an import.
type Assignment struct {
	MemberID string
	At       time.Time
}

// DuplicateResolver looks up an existing lead by phone within the tenant and
// applies the duplicate policy. Phones match ignoring surrounding whitespace
// on both the row and the stored lead. It performs the create or update itself.
type DuplicateResolver struct {
	store LeadStore
}

// NewDuplicateResolver creates a resolver backed by store.
func NewDuplicateResolver(store LeadStore) *DuplicateResolver {
	return &DuplicateResolver{store: store}
}

// Resolve handles one validated row. The returned error is a store failure
// for this row only; the caller records it and moves on.
func (r *DuplicateResolver) Resolve(ctx context.Context, tenantID string, row ImportRow, policy DuplicatePolicy, assign Assignment) (Resolution, error) {
	phone := strings.TrimSpace(row.Get("phone"))

	existing, err := r.store.FindByPhone(ctx, tenantID, phone)
	if err != nil {
		return Resolution{}, fmt.Errorf("find by phone: %w", err)
	}

	if existing == nil {
		fields := newLeadDefaults()
		if err := applyRow(&fields, row); err != nil {
			return Resolution{}, err
		}
		if assign.MemberID != "" {
			at := assign.At
			fields.AssigneeID = assign.MemberID
			fields.AssignedAt = &at
		}
		lead, err := r.store.Create(ctx, tenantID, fields)
		if err != nil {
			return Resolution{}, fmt.Errorf("create lead: %w", err)
		}
		return Resolution{Outcome: OutcomeCreated, Lead: lead}, nil
	}

	switch policy {
	case PolicyReject:
		return Resolution{Outcome: OutcomeFailed, Lead: existing, Reason: duplicatePhoneReason(phone)}, nil

	case PolicyUpdate:
		merged := existing.LeadFields
		if err := applyRow(&merged, row); err != nil {
			return Resolution{}, err
		}
		lead, err := r.store.Update(ctx, existing.ID, merged)
		if err != nil {
			return Resolution{}, fmt.Errorf("update lead: %w", err)
		}
		return Resolution{Outcome: OutcomeUpdated, Lead: lead}, nil

	default:
		return Resolution{Outcome: OutcomeSkipped, Lead: existing}, nil
	}
}
