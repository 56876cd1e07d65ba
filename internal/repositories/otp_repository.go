package repositories

import (
	"context"
	"sync"

	"github.com/bdlove4you1/telygram-bot/internal/models"
)

// OTPRepository — storage for pending OTP challenges, one per user.
// Get returns (nil, nil) when there is no record for the user.
type OTPRepository interface {
	Put(ctx context.Context, rec *models.OTPRecord) error
	Get(ctx context.Context, userID int64) (*models.OTPRecord, error)
	Delete(ctx context.Context, userID int64) error
}

// MemoryOTPRepository — default in-process backend; state does not survive a
// restart. Expired records are removed lazily by the service on the next
// guess, not by a sweeper.
type MemoryOTPRepository struct {
	mu      sync.RWMutex
	records map[int64]*models.OTPRecord
}

func NewMemoryOTPRepository() *MemoryOTPRepository {
	return &MemoryOTPRepository{records: make(map[int64]*models.OTPRecord)}
}

// Put — create or replace the record for rec.UserID.
func (r *MemoryOTPRepository) Put(_ context.Context, rec *models.OTPRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[rec.UserID] = rec
	return nil
}

func (r *MemoryOTPRepository) Get(_ context.Context, userID int64) (*models.OTPRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[userID]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

// Delete — idempotent, deleting a missing record is a no-op.
func (r *MemoryOTPRepository) Delete(_ context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.records, userID)
	return nil
}
