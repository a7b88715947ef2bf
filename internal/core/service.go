package core

import (
	"time"

	"github.com/JonMunkholm/estatecrm/internal/config"
)

// Options bounds what a single call may do. Zero values disable a limit.
type Options struct {
	MaxFileSize   int64
	MaxRows       int
	MaxBatchIDs   int
	ImportTimeout time.Duration
	MaxConcurrent int
	SlotWait      time.Duration
}

// OptionsFromConfig maps the Import and Bulk config sections.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		MaxFileSize:   cfg.Import.MaxFileSize,
		MaxRows:       cfg.Import.MaxRows,
		MaxBatchIDs:   cfg.Bulk.MaxIDs,
		ImportTimeout: cfg.Import.Timeout,
		MaxConcurrent: cfg.Import.MaxConcurrent,
		SlotWait:      cfg.Import.SlotWait,
	}
}

// Service is the entry point for lead import, export, and bulk mutation.
// It holds no per-call state; every call builds and returns its own result.
type Service struct {
	leads    LeadStore
	members  MemberDirectory
	locker   TenantLocker
	limiter  *ImportLimiter
	resolver *DuplicateResolver
	opts     Options
	now      func() time.Time
}

// NewService wires the service. A nil locker disables per-tenant
// serialization.
func NewService(leads LeadStore, members MemberDirectory, locker TenantLocker, opts Options) *Service {
	if locker == nil {
		locker = noopLocker{}
	}
	return &Service{
		leads:    leads,
		members:  members,
		locker:   locker,
		limiter:  NewImportLimiter(opts.MaxConcurrent, opts.SlotWait),
		resolver: NewDuplicateResolver(leads),
		opts:     opts,
		now:      time.Now,
	}
}

// Limiter exposes the import slot limiter for health reporting and shutdown.
func (s *Service) Limiter() *ImportLimiter {
	return s.limiter
}
