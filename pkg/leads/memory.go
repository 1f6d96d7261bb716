package leads

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vit0-9/breachsignal_api/models"
)

// MemoryStore keeps leads in process memory. It backs local runs without a
// configured store.
type MemoryStore struct {
	mu    sync.RWMutex
	leads []models.LeadRecord
	now   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

func (s *MemoryStore) Append(_ context.Context, lead models.LeadRecord) (models.LeadRecord, error) {
	lead.ID = uuid.NewString()
	if lead.Timestamp.IsZero() {
		lead.Timestamp = s.now().UTC()
	}
	if lead.BreachDetails == nil {
		lead.BreachDetails = []models.BreachRecord{}
	}

	s.mu.Lock()
	s.leads = append(s.leads, lead)
	s.mu.Unlock()
	return lead, nil
}

func (s *MemoryStore) List(_ context.Context) ([]models.LeadRecord, error) {
	s.mu.RLock()
	out := make([]models.LeadRecord, len(s.leads))
	copy(out, s.leads)
	s.mu.RUnlock()

	SortNewestFirst(out)
	return out, nil
}
