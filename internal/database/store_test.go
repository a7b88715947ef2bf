package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/estatecrm/internal/core"
)

// stubDB answers every QueryRow with err, every Exec with tag, and counts
// calls.
type stubDB struct {
	err   error
	tag   pgconn.CommandTag
	calls int
}

type errRow struct{ err error }

func (r errRow) Scan(...interface{}) error { return r.err }

func (d *stubDB) Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error) {
	d.calls++
	return d.tag, d.err
}

func (d *stubDB) Query(context.Context, string, ...interface{}) (pgx.Rows, error) {
	d.calls++
	return nil, d.err
}

func (d *stubDB) QueryRow(context.Context, string, ...interface{}) pgx.Row {
	d.calls++
	return errRow{err: d.err}
}

const (
	tenantID = "6f1c1e2a-3b4d-4e5f-8a9b-0c1d2e3f4a5b"
	memberID = "11111111-2222-4333-8444-555555555555"
)

func TestStore_NonUUIDIsNotFound(t *testing.T) {
	db := &stubDB{err: errors.New("must not be called")}
	s := NewStore(db)
	ctx := context.Background()

	lead, err := s.FindByID(ctx, "lead-1")
	assert.NoError(t, err)
	assert.Nil(t, lead)

	lead, err = s.FindByPhone(ctx, "tenant-1", "+998901")
	assert.NoError(t, err)
	assert.Nil(t, lead)

	member, err := s.FindActiveMember(ctx, tenantID, "agent-7")
	assert.NoError(t, err)
	assert.Nil(t, member)

	leads, err := s.List(ctx, tenantID, core.ListFilter{AssigneeID: "agent-7"})
	assert.NoError(t, err)
	assert.Empty(t, leads)

	assert.Zero(t, db.calls)
}

func TestStore_NoRowsIsNotFound(t *testing.T) {
	s := NewStore(&stubDB{err: pgx.ErrNoRows})
	ctx := context.Background()

	lead, err := s.FindByPhone(ctx, tenantID, "+998901")
	assert.NoError(t, err)
	assert.Nil(t, lead)

	member, err := s.FindActiveMember(ctx, tenantID, memberID)
	assert.NoError(t, err)
	assert.Nil(t, member)
}

func TestStore_QueryErrorsAreWrapped(t *testing.T) {
	boom := errors.New("connection reset by peer")
	s := NewStore(&stubDB{err: boom})

	_, err := s.FindByPhone(context.Background(), tenantID, "+998901")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "find lead by phone")

	err = s.Delete(context.Background(), memberID)
	assert.ErrorIs(t, err, boom)
}

func TestStore_DeleteNothingIsNotFound(t *testing.T) {
	s := NewStore(&stubDB{tag: pgconn.NewCommandTag("DELETE 0")})
	err := s.Delete(context.Background(), memberID)
	assert.ErrorIs(t, err, core.ErrLeadNotFound)

	s = NewStore(&stubDB{tag: pgconn.NewCommandTag("DELETE 1")})
	assert.NoError(t, s.Delete(context.Background(), memberID))
}

func TestStore_WriteToMissingLeadIsNotFound(t *testing.T) {
	s := NewStore(&stubDB{err: pgx.ErrNoRows})
	ctx := context.Background()

	_, err := s.Assign(ctx, memberID, memberID, time.Now())
	assert.ErrorIs(t, err, core.ErrLeadNotFound)

	_, err = s.Update(ctx, memberID, core.LeadFields{})
	assert.ErrorIs(t, err, core.ErrLeadNotFound)
}

func TestStore_CreateRejectsOutOfRangeBedrooms(t *testing.T) {
	db := &stubDB{}
	s := NewStore(db)
	beds := 5000000000

	_, err := s.Create(context.Background(), tenantID, core.LeadFields{Bedrooms: &beds})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bedrooms")
	assert.Zero(t, db.calls)
}

func TestStore_CreateRejectsBadAssignee(t *testing.T) {
	db := &stubDB{}
	s := NewStore(db)

	_, err := s.Create(context.Background(), tenantID, core.LeadFields{AssigneeID: "agent-7"})
	require.Error(t, err)
	assert.Zero(t, db.calls)
}

func TestLeadRowRoundTrip(t *testing.T) {
	budget := 120000.0
	beds := 3
	at := time.Date(2025, 4, 2, 12, 0, 0, 0, time.UTC)
	fields := core.LeadFields{
		FirstName:    "Ali",
		LastName:     "Karimov",
		Phone:        "+998901",
		Email:        "ali@example.com",
		Telegram:     "@ali",
		WhatsApp:     "+998901",
		PropertyType: core.PropertyApartment,
		ListingType:  core.ListingSale,
		Budget:       &budget,
		Bedrooms:     &beds,
		Districts:    []string{"Yunusabad", "Chilanzar"},
		Requirements: "balcony",
		Notes:        "call after 6pm",
		Source:       core.SourceImport,
		Status:       core.StatusNew,
		Priority:     core.PriorityHigh,
		AssigneeID:   memberID,
		AssignedAt:   &at,
	}

	p, err := leadParams(fields)
	require.NoError(t, err)

	tid, _ := ParseUUID(tenantID)
	row := Lead{
		TenantID:     tid,
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		Phone:        p.Phone,
		Email:        p.Email,
		Telegram:     p.Telegram,
		Whatsapp:     p.Whatsapp,
		PropertyType: p.PropertyType,
		ListingType:  p.ListingType,
		Budget:       p.Budget,
		Bedrooms:     p.Bedrooms,
		Districts:    p.Districts,
		Requirements: p.Requirements,
		Notes:        p.Notes,
		Source:       p.Source,
		Status:       p.Status,
		Priority:     p.Priority,
		AssignedTo:   p.AssignedTo,
		AssignedAt:   p.AssignedAt,
	}

	lead := toCoreLead(row)
	assert.Equal(t, fields, lead.LeadFields)
	assert.Equal(t, tenantID, lead.TenantID)
}

func TestLeadRow_EmptyDistrictsAreNil(t *testing.T) {
	lead := toCoreLead(Lead{Districts: []string{}})
	assert.Nil(t, lead.Districts)

	p, err := leadParams(core.LeadFields{})
	require.NoError(t, err)
	assert.Equal(t, []string{}, p.args()[10])
}
