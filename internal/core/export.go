package core

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/JonMunkholm/estatecrm/internal/csv"
	"github.com/JonMunkholm/estatecrm/internal/logging"
)

// ExportHeader returns the fixed export column labels.
func ExportHeader() []string {
	header := make([]string, len(leadColumns))
	for i, col := range leadColumns {
		header[i] = col.Label
	}
	return header
}

// ExportRecord flattens a lead into export column order.
func ExportRecord(l *Lead) []string {
	rec := make([]string, len(leadColumns))
	for i, col := range leadColumns {
		rec[i] = col.format(l)
	}
	return rec
}

// ExportFileName is the suggested attachment name for an export.
func ExportFileName(tenantID string, at time.Time) string {
	return fmt.Sprintf("leads-%s-%s.csv", tenantID, at.UTC().Format("20060102"))
}

// Export renders the tenant's leads matching filter as CSV, in the store's
// listing order. It either returns the whole document or fails.
func (s *Service) Export(ctx context.Context, tenantID string, filter ListFilter) ([]byte, error) {
	if tenantID == "" {
		return nil, ErrMissingTenant
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	leads, err := s.leads.List(ctx, tenantID, filter)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}

	rows := make([][]string, len(leads))
	for i := range leads {
		rows[i] = ExportRecord(&leads[i])
	}

	var buf bytes.Buffer
	if err := csv.Write(&buf, ExportHeader(), rows); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}

	logging.FromContext(ctx).Info("leads exported", "tenant_id", tenantID, "rows", len(leads))
	return buf.Bytes(), nil
}
