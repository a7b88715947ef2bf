package database

import (
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
)

func TestWhereBuilder_Build_Empty(t *testing.T) {
	wb := NewWhereBuilder()
	whereClause, args := wb.Build()

	if whereClause != "" {
		t.Errorf("expected empty string for no conditions, got %q", whereClause)
	}
	if args != nil {
		t.Errorf("expected nil args for no conditions, got %v", args)
	}
}

func TestWhereBuilder_Add(t *testing.T) {
	tests := []struct {
		name       string
		add        func(*WhereBuilder)
		wantClause string
		wantArgs   []interface{}
	}{
		{
			name:       "single condition",
			add:        func(wb *WhereBuilder) { wb.Add("status", "new") },
			wantClause: " WHERE status = $1",
			wantArgs:   []interface{}{"new"},
		},
		{
			name: "multiple conditions",
			add: func(wb *WhereBuilder) {
				wb.Add("status", "new").Add("source", "import")
			},
			wantClause: " WHERE status = $1 AND source = $2",
			wantArgs:   []interface{}{"new", "import"},
		},
		{
			name: "empty value skipped",
			add: func(wb *WhereBuilder) {
				wb.Add("status", "").Add("source", "import")
			},
			wantClause: " WHERE source = $1",
			wantArgs:   []interface{}{"import"},
		},
		{
			name:       "AddArg keeps zero values",
			add:        func(wb *WhereBuilder) { wb.AddArg("bedrooms", 0) },
			wantClause: " WHERE bedrooms = $1",
			wantArgs:   []interface{}{0},
		},
		{
			name:       "single search column",
			add:        func(wb *WhereBuilder) { wb.AddSearch("ali", "name") },
			wantClause: " WHERE name ILIKE $1",
			wantArgs:   []interface{}{"%ali%"},
		},
		{
			name:       "search across columns",
			add:        func(wb *WhereBuilder) { wb.AddSearch("ali", "first_name", "phone") },
			wantClause: " WHERE concat_ws(' ', first_name, phone) ILIKE $1",
			wantArgs:   []interface{}{"%ali%"},
		},
		{
			name:       "search escapes wildcards",
			add:        func(wb *WhereBuilder) { wb.AddSearch(`50%_off\`, "notes") },
			wantClause: " WHERE notes ILIKE $1",
			wantArgs:   []interface{}{`%50\%\_off\\%`},
		},
		{
			name:       "blank search skipped",
			add:        func(wb *WhereBuilder) { wb.AddSearch("   ", "notes") },
			wantClause: "",
			wantArgs:   nil,
		},
		{
			name: "placeholders keep counting after search",
			add: func(wb *WhereBuilder) {
				wb.Add("status", "new").AddSearch("x", "notes").Add("priority", "high")
			},
			wantClause: " WHERE status = $1 AND notes ILIKE $2 AND priority = $3",
			wantArgs:   []interface{}{"new", "%x%", "high"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wb := NewWhereBuilder()
			tt.add(wb)
			clause, args := wb.Build()

			if clause != tt.wantClause {
				t.Errorf("clause = %q, want %q", clause, tt.wantClause)
			}
			if len(args) != len(tt.wantArgs) {
				t.Fatalf("args = %v, want %v", args, tt.wantArgs)
			}
			for i := range args {
				if args[i] != tt.wantArgs[i] {
					t.Errorf("args[%d] = %v, want %v", i, args[i], tt.wantArgs[i])
				}
			}
		})
	}
}

func TestBuildListLeads(t *testing.T) {
	tenant, _ := ParseUUID("6f1c1e2a-3b4d-4e5f-8a9b-0c1d2e3f4a5b")

	query, args := buildListLeads(ListLeadsParams{TenantID: tenant})
	if !strings.Contains(query, "WHERE l.tenant_id = $1\nORDER BY l.created_at DESC") {
		t.Errorf("tenant-only query missing scope or order:\n%s", query)
	}
	if len(args) != 1 {
		t.Errorf("expected 1 arg, got %d", len(args))
	}

	assignee, _ := ParseUUID("11111111-2222-4333-8444-555555555555")
	query, args = buildListLeads(ListLeadsParams{
		TenantID:   tenant,
		Status:     "new",
		Priority:   "high",
		AssignedTo: assignee,
		Search:     "ali",
	})
	want := "WHERE l.tenant_id = $1 AND l.status = $2 AND l.priority = $3 AND l.assigned_to = $4 AND concat_ws(' ', l.first_name, l.last_name, l.phone, l.email) ILIKE $5"
	if !strings.Contains(query, want) {
		t.Errorf("query missing filters:\n%s", query)
	}
	if len(args) != 5 {
		t.Fatalf("expected 5 args, got %d", len(args))
	}
	if got, ok := args[3].(pgtype.UUID); !ok || got != assignee {
		t.Errorf("assignee arg = %v", args[3])
	}
}
