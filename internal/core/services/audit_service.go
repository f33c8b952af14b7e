package services

import (
	"context"
	"fmt"

	portsrepo "github.com/finbooks-io/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/finbooks-io/ledger_backend/internal/core/ports/services"
	"github.com/finbooks-io/ledger_backend/internal/core/domain"
	"github.com/finbooks-io/ledger_backend/internal/utils/hashing"
)

// auditService reads the hash-linked audit log and verifies its chain.
type auditService struct {
	BaseService
	repos portsrepo.Repositories
}

// NewAuditService creates a new audit read service.
func NewAuditService(repos portsrepo.Repositories) portssvc.AuditSvcFacade {
	return &auditService{repos: repos}
}

var _ portssvc.AuditSvcFacade = (*auditService)(nil)

// ListEntries returns the newest audit entries.
func (s *auditService) ListEntries(ctx context.Context, limit int) ([]domain.AuditLogEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	entries, err := s.repos.Audit.ListOrdered(ctx, limit)
	if err != nil {
		return nil, err
	}
	// newest first for display
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries, nil
}

// VerifyChain walks the whole log oldest-first, recomputing every link.
// Returns false with a description of the first broken link, if any.
func (s *auditService) VerifyChain(ctx context.Context) (bool, string, error) {
	entries, err := s.repos.Audit.ListOrdered(ctx, 0)
	if err != nil {
		return false, "", err
	}

	prev := ""
	for _, e := range entries {
		if e.PrevHash != prev {
			return false, fmt.Sprintf("entry %s links to %q, expected %q", e.EntryID, e.PrevHash, prev), nil
		}
		want, err := hashing.ChainHash(e.PrevHash, e.Payload)
		if err != nil {
			return false, "", err
		}
		if e.Hash != want {
			return false, fmt.Sprintf("entry %s hash mismatch", e.EntryID), nil
		}
		prev = e.Hash
	}
	return true, "", nil
}
