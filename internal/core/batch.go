package core

// batch.go implements bulk delete and bulk assign. Each id is handled on its
// own: a missing or foreign lead is recorded as a failure and the loop moves
// on. Only the preconditions (id limit, assignee validity, tenant lock) can
// fail the whole call.

import (
	"context"
	"errors"
	"fmt"

	"github.com/JonMunkholm/estatecrm/internal/logging"
	"github.com/JonMunkholm/estatecrm/internal/metrics"
)

// BulkDelete deletes every listed lead owned by tenantID.
func (s *Service) BulkDelete(ctx context.Context, tenantID string, ids []string) (*BatchOperationResult, error) {
	return s.runBatch(ctx, OperationDelete, tenantID, ids, func(lead *Lead) error {
		return s.leads.Delete(ctx, lead.ID)
	})
}

// BulkAssign assigns every listed lead owned by tenantID to assigneeID. The
// assignee must be an active member of the tenant, otherwise nothing is
// touched and ErrInvalidAssignee is returned.
func (s *Service) BulkAssign(ctx context.Context, tenantID string, ids []string, assigneeID string) (*BatchOperationResult, error) {
	if tenantID == "" {
		return nil, ErrMissingTenant
	}
	if assigneeID == "" {
		return nil, fmt.Errorf("%w: no assignee given", ErrInvalidAssignee)
	}
	member, err := s.members.FindActiveMember(ctx, tenantID, assigneeID)
	if err != nil {
		return nil, fmt.Errorf("check assignee: %w", err)
	}
	if member == nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidAssignee, assigneeID)
	}

	return s.runBatch(ctx, OperationAssign, tenantID, ids, func(lead *Lead) error {
		_, err := s.leads.Assign(ctx, lead.ID, member.ID, s.now())
		return err
	})
}

// runBatch checks ownership of each id and applies mutate to owned leads.
func (s *Service) runBatch(ctx context.Context, op, tenantID string, ids []string, mutate func(*Lead) error) (*BatchOperationResult, error) {
	if tenantID == "" {
		return nil, ErrMissingTenant
	}
	if s.opts.MaxBatchIDs > 0 && len(ids) > s.opts.MaxBatchIDs {
		return nil, fmt.Errorf("%w: %d ids exceeds %d", ErrTooManyIDs, len(ids), s.opts.MaxBatchIDs)
	}

	unlock, err := s.lockTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	log := logging.WithFields(ctx, "operation", op, "tenant_id", tenantID)
	result := newBatchResult(op)

	for i, id := range ids {
		if ctxErr := ctx.Err(); ctxErr != nil {
			log.Warn("bulk operation stopped early", "processed", i, "ids", len(ids), "error", ctxErr)
			return result, fmt.Errorf("bulk %s stopped after %d of %d ids: %w", op, i, len(ids), ctxErr)
		}

		reason := s.batchItem(ctx, tenantID, id, mutate)
		if reason != "" {
			result.failed(id, reason)
			metrics.BatchItems.WithLabelValues(op, string(OutcomeFailed)).Inc()
			continue
		}
		result.succeeded()
		metrics.BatchItems.WithLabelValues(op, "success").Inc()
	}

	log.Info("bulk operation finished", "total", result.Total, "success", result.Success, "failed", result.Failed)
	return result, nil
}

// batchItem returns "" on success or the failure reason for id.
func (s *Service) batchItem(ctx context.Context, tenantID, id string, mutate func(*Lead) error) string {
	lead, err := s.leads.FindByID(ctx, id)
	if err != nil {
		return err.Error()
	}
	if lead == nil {
		return reasonNotFound
	}
	if lead.TenantID != tenantID {
		return reasonAccessDenied
	}
	if err := mutate(lead); err != nil {
		if errors.Is(err, ErrLeadNotFound) {
			return reasonNotFound
		}
		return err.Error()
	}
	return ""
}
