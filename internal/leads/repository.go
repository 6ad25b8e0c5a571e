package leads

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for lead storage. Leads are only ever
// inserted and listed.
type Repository interface {
	Insert(ctx context.Context, rec *Record) (*Lead, error)
	List(ctx context.Context, filter ListFilter) ([]*Lead, error)
}

// InMemoryRepository keeps leads in process memory. Used for local
// development and tests.
type InMemoryRepository struct {
	mu    sync.RWMutex
	leads []*Lead
	now   func() time.Time
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{now: func() time.Time { return time.Now().UTC() }}
}

// Insert stores a copy of rec.
func (r *InMemoryRepository) Insert(ctx context.Context, rec *Record) (*Lead, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	lead := leadFromRecord(uuid.New().String(), r.now(), rec)

	r.mu.Lock()
	r.leads = append(r.leads, lead)
	r.mu.Unlock()

	return lead, nil
}

// List returns matching leads in the requested order.
func (r *InMemoryRepository) List(ctx context.Context, filter ListFilter) ([]*Lead, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return filter.Apply(r.leads), nil
}

// Len returns the number of stored leads.
func (r *InMemoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.leads)
}
