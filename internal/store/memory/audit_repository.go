package memory

import (
	"context"
	"sync"

	"github.com/raystack/guardian/pkg/audit"
)

// AuditRepository keeps the audit trail in memory, append-only.
type AuditRepository struct {
	mu   sync.RWMutex
	logs []*audit.Log
}

func NewAuditRepository() *AuditRepository {
	return &AuditRepository{}
}

func (r *AuditRepository) Insert(ctx context.Context, l *audit.Log) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs = append(r.logs, l)
	return nil
}

func (r *AuditRepository) List(ctx context.Context) ([]*audit.Log, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*audit.Log{}, r.logs...), nil
}
