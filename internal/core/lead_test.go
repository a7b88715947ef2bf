package core

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLead_JSONKeysAreCamelCase(t *testing.T) {
	beds := 2
	at := time.Date(2025, 4, 2, 12, 0, 0, 0, time.UTC)
	lead := Lead{
		ID:       "lead-1",
		TenantID: tenantA,
		LeadFields: LeadFields{
			FirstName:  "Jane",
			LastName:   "Smith",
			Phone:      "+998901",
			WhatsApp:   "+998901",
			Bedrooms:   &beds,
			Source:     SourceImport,
			Status:     StatusNew,
			Priority:   PriorityMedium,
			AssigneeID: "agent-1",
			AssignedAt: &at,
		},
		CreatedAt: at,
	}

	raw, err := json.Marshal(lead)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))

	for _, key := range []string{
		"id", "tenantId", "firstName", "lastName", "phone", "whatsapp",
		"bedrooms", "source", "status", "priority", "assigneeId", "assignedAt", "createdAt",
	} {
		assert.Contains(t, got, key)
	}
	for key := range got {
		assert.NotRegexp(t, `^[A-Z]`, key, "exported Go field name leaked into JSON")
	}
	assert.NotContains(t, got, "budget", "nil budget is omitted")
}
