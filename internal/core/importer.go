package core

// importer.go drives a CSV import: parse, then for each data row in file
// order normalize, validate, and resolve against the store. Rows are handled
// one at a time so a later row sees what earlier rows created, and a failed
// row never undoes or blocks the rows around it.

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/estatecrm/internal/csv"
	"github.com/JonMunkholm/estatecrm/internal/logging"
	"github.com/JonMunkholm/estatecrm/internal/metrics"
)

// Import runs one import call. Structural problems (bad policy, empty or
// malformed CSV, limits, unknown default assignee, busy tenant) abort with an
// error and no result. If ctx ends mid-file, the rows processed so far stay
// committed and the partial result is returned with an ErrImportCancelled
// error.
func (s *Service) Import(ctx context.Context, req ImportRequest) (*ImportResult, error) {
	policy, err := ParsePolicy(string(req.Policy))
	if err != nil {
		return nil, err
	}
	if req.TenantID == "" {
		return nil, ErrMissingTenant
	}

	doc, err := s.parseImport(req.CSV)
	if err != nil {
		metrics.ObserveImport(string(policy), "error", 0)
		return nil, err
	}

	if s.opts.ImportTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.ImportTimeout)
		defer cancel()
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()
	metrics.ImportsActive.Inc()
	defer metrics.ImportsActive.Dec()

	unlock, err := s.lockTenant(ctx, req.TenantID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	assign, err := s.defaultAssignment(ctx, req.TenantID, req.DefaultAssigneeID)
	if err != nil {
		return nil, err
	}

	result := newImportResult(uuid.NewString(), policy)
	log := logging.WithFields(ctx,
		"import_id", result.ImportID,
		"tenant_id", req.TenantID,
		"policy", policy,
	)
	log.Info("import started", "rows", len(doc.Records), "file", req.FileName)

	start := s.now()
	for i, rec := range doc.Records {
		if ctxErr := ctx.Err(); ctxErr != nil {
			s.finishImport(result, start, "partial")
			log.Warn("import stopped early",
				"processed", i, "rows", len(doc.Records), "error", ctxErr)
			return result, fmt.Errorf("%w after %d of %d rows: %w", ErrImportCancelled, i, len(doc.Records), ctxErr)
		}

		row := NormalizeRow(doc.Keys, rec)
		if assign.MemberID != "" {
			assign.At = s.now()
		}
		s.importRow(ctx, log, req.TenantID, row, policy, assign, result)
	}

	outcome := "ok"
	if result.Failed > 0 {
		outcome = "partial"
	}
	s.finishImport(result, start, outcome)

	log.Info("import finished",
		"total", result.Total,
		"created", result.Created,
		"updated", result.Updated,
		"skipped", result.Skipped,
		"failed", result.Failed,
		"duration", result.Duration,
	)
	return result, nil
}

// parseImport enforces input limits and parses the payload.
func (s *Service) parseImport(data []byte) (*csv.Document, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyInput
	}
	if s.opts.MaxFileSize > 0 && int64(len(data)) > s.opts.MaxFileSize {
		return nil, fmt.Errorf("%w: %d bytes exceeds %d", ErrFileTooLarge, len(data), s.opts.MaxFileSize)
	}

	doc, err := csv.ParseBytes(data)
	if errors.Is(err, csv.ErrNoHeader) {
		return nil, ErrEmptyInput
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedCSV, err)
	}

	if s.opts.MaxRows > 0 && len(doc.Records) > s.opts.MaxRows {
		return nil, fmt.Errorf("%w: %d rows exceeds %d", ErrTooManyRows, len(doc.Records), s.opts.MaxRows)
	}
	return doc, nil
}

func (s *Service) defaultAssignment(ctx context.Context, tenantID, memberID string) (Assignment, error) {
	if memberID == "" {
		return Assignment{}, nil
	}
	member, err := s.members.FindActiveMember(ctx, tenantID, memberID)
	if err != nil {
		return Assignment{}, fmt.Errorf("check default assignee: %w", err)
	}
	if member == nil {
		return Assignment{}, fmt.Errorf("%w: %s", ErrInvalidAssignee, memberID)
	}
	return Assignment{MemberID: member.ID}, nil
}

// importRow records exactly one outcome for row.
func (s *Service) importRow(ctx context.Context, log *slog.Logger, tenantID string, row ImportRow, policy DuplicatePolicy, assign Assignment, result *ImportResult) {
	if err := ValidateRow(row); err != nil {
		log.Debug("row rejected", "line", row.Line, "reason", err)
		result.failed(row, err.Error())
		metrics.ImportRows.WithLabelValues(string(OutcomeFailed)).Inc()
		return
	}

	res, err := s.resolver.Resolve(ctx, tenantID, row, policy, assign)
	if err != nil {
		log.Warn("row failed", "line", row.Line, "error", err)
		result.failed(row, err.Error())
		metrics.ImportRows.WithLabelValues(string(OutcomeFailed)).Inc()
		return
	}

	switch res.Outcome {
	case OutcomeCreated:
		result.created(row.Line, res.Lead)
	case OutcomeUpdated:
		result.updated(row.Line, res.Lead)
	case OutcomeSkipped:
		result.skipped(row.Line, res.Lead.ID)
	default:
		log.Debug("row rejected", "line", row.Line, "reason", res.Reason)
		result.failed(row, res.Reason)
	}
	metrics.ImportRows.WithLabelValues(string(res.Outcome)).Inc()
}

func (s *Service) finishImport(result *ImportResult, start time.Time, outcome string) {
	result.Duration = s.now().Sub(start)
	result.DurationMS = result.Duration.Milliseconds()
	metrics.ObserveImport(string(result.Policy), outcome, result.Duration)
}

// lockTenant takes the tenant lock, mapping contention to ErrTenantBusy.
func (s *Service) lockTenant(ctx context.Context, tenantID string) (func(), error) {
	unlock, err := s.locker.Lock(ctx, tenantID)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %w", ErrTenantBusy, err)
	}
	return unlock, nil
}
