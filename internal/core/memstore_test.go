package core

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// memStore is an in-memory LeadStore and MemberDirectory for service tests.
type memStore struct {
	mu      sync.Mutex
	leads   map[string]*Lead
	members map[string]Member
	seq     int
	base    time.Time

	findCalls int
	writes    int

	// failPhone makes Create and Update fail for leads with this phone.
	failPhone string
	// afterWrite runs after every successful write.
	afterWrite func()
	// afterFindByID runs after FindByID, outside the lock.
	afterFindByID func(id string)
}

func newMemStore() *memStore {
	return &memStore{
		leads:   make(map[string]*Lead),
		members: make(map[string]Member),
		base:    time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

var errStoreDown = errors.New("connection reset by peer")

func (m *memStore) addMember(id, tenantID, name string, active bool) {
	m.members[id] = Member{ID: id, TenantID: tenantID, FullName: name, IsActive: active}
}

// seed inserts a lead directly, bypassing write counting.
func (m *memStore) seed(tenantID string, f LeadFields) *Lead {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.insert(tenantID, f)
}

func (m *memStore) insert(tenantID string, f LeadFields) *Lead {
	m.seq++
	at := m.base.Add(time.Duration(m.seq) * time.Minute)
	lead := &Lead{
		ID:         fmt.Sprintf("lead-%03d", m.seq),
		TenantID:   tenantID,
		LeadFields: f,
		CreatedAt:  at,
		UpdatedAt:  at,
	}
	m.leads[lead.ID] = lead
	return m.snapshot(lead)
}

// snapshot copies a stored lead and resolves the assignee name.
func (m *memStore) snapshot(l *Lead) *Lead {
	cp := *l
	if l.Districts != nil {
		cp.Districts = append([]string(nil), l.Districts...)
	}
	cp.AssigneeName = m.members[l.AssigneeID].FullName
	return &cp
}

func (m *memStore) get(id string) *Lead {
	m.mu.Lock()
	defer m.mu.Unlock()
	if l, ok := m.leads[id]; ok {
		return m.snapshot(l)
	}
	return nil
}

func (m *memStore) count(tenantID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, l := range m.leads {
		if l.TenantID == tenantID {
			n++
		}
	}
	return n
}

func (m *memStore) wrote() {
	m.writes++
	if m.afterWrite != nil {
		m.afterWrite()
	}
}

func (m *memStore) FindByPhone(_ context.Context, tenantID, phone string) (*Lead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.findCalls++
	for _, id := range m.sortedIDs() {
		l := m.leads[id]
		if l.TenantID == tenantID && strings.TrimSpace(l.Phone) == strings.TrimSpace(phone) {
			return m.snapshot(l), nil
		}
	}
	return nil, nil
}

func (m *memStore) FindByID(_ context.Context, id string) (*Lead, error) {
	m.mu.Lock()
	var found *Lead
	if l, ok := m.leads[id]; ok {
		found = m.snapshot(l)
	}
	m.mu.Unlock()

	if m.afterFindByID != nil {
		m.afterFindByID(id)
	}
	return found, nil
}

// remove deletes a lead without counting a write.
func (m *memStore) remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.leads, id)
}

func (m *memStore) Create(_ context.Context, tenantID string, f LeadFields) (*Lead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failPhone != "" && f.Phone == m.failPhone {
		return nil, errStoreDown
	}
	lead := m.insert(tenantID, f)
	m.wrote()
	return lead, nil
}

func (m *memStore) Update(_ context.Context, id string, f LeadFields) (*Lead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.leads[id]
	if !ok {
		return nil, fmt.Errorf("lead %s: %w", id, ErrLeadNotFound)
	}
	if m.failPhone != "" && f.Phone == m.failPhone {
		return nil, errStoreDown
	}
	l.LeadFields = f
	l.UpdatedAt = l.UpdatedAt.Add(time.Second)
	m.wrote()
	return m.snapshot(l), nil
}

func (m *memStore) Assign(_ context.Context, id, assigneeID string, at time.Time) (*Lead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.leads[id]
	if !ok {
		return nil, fmt.Errorf("lead %s: %w", id, ErrLeadNotFound)
	}
	l.AssigneeID = assigneeID
	l.AssignedAt = &at
	m.wrote()
	return m.snapshot(l), nil
}

func (m *memStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.leads[id]; !ok {
		return fmt.Errorf("lead %s: %w", id, ErrLeadNotFound)
	}
	delete(m.leads, id)
	m.wrote()
	return nil
}

// List filters like the SQL store and orders newest first.
func (m *memStore) List(_ context.Context, tenantID string, f ListFilter) ([]Lead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	search := strings.ToLower(f.Search)
	var out []Lead
	for _, id := range m.sortedIDs() {
		l := m.leads[id]
		switch {
		case l.TenantID != tenantID,
			f.Status != "" && l.Status != f.Status,
			f.Source != "" && l.Source != f.Source,
			f.Priority != "" && l.Priority != f.Priority,
			f.AssigneeID != "" && l.AssigneeID != f.AssigneeID:
			continue
		}
		if search != "" {
			hay := strings.ToLower(l.FirstName + " " + l.LastName + " " + l.Phone + " " + l.Email)
			if !strings.Contains(hay, search) {
				continue
			}
		}
		out = append(out, *m.snapshot(l))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memStore) sortedIDs() []string {
	ids := make([]string, 0, len(m.leads))
	for id := range m.leads {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (m *memStore) FindActiveMember(_ context.Context, tenantID, memberID string) (*Member, error) {
	mem, ok := m.members[memberID]
	if !ok || !mem.IsActive || mem.TenantID != tenantID {
		return nil, nil
	}
	return &mem, nil
}

// recordingLocker counts lock calls and can refuse them.
type recordingLocker struct {
	mu      sync.Mutex
	locked  []string
	refuse  error
	holding int
}

func (r *recordingLocker) Lock(_ context.Context, tenantID string) (func(), error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.refuse != nil {
		return nil, r.refuse
	}
	r.locked = append(r.locked, tenantID)
	r.holding++
	return func() {
		r.mu.Lock()
		r.holding--
		r.mu.Unlock()
	}, nil
}
