package database

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/sandtoninsights/api/internal/entity"
)

// MemoryLeadRepository is a mutex-guarded in-memory store used by tests and
// local development without a database file. Same contract as the SQL stores.
type MemoryLeadRepository struct {
	mu    sync.RWMutex
	leads map[string]entity.Lead
}

func NewMemoryLeadRepository() *MemoryLeadRepository {
	return &MemoryLeadRepository{leads: make(map[string]entity.Lead)}
}

func (r *MemoryLeadRepository) CreateLead(ctx context.Context, lead *entity.Lead) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *lead
	stored.PreferredSuburbs = append([]string(nil), lead.PreferredSuburbs...)
	r.leads[lead.ID] = stored
	return nil
}

func (r *MemoryLeadRepository) GetLead(ctx context.Context, id string) (*entity.Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lead, ok := r.leads[id]
	if !ok {
		return nil, nil
	}
	out := lead
	out.PreferredSuburbs = append([]string(nil), lead.PreferredSuburbs...)
	return &out, nil
}

func (r *MemoryLeadRepository) ListLeads(ctx context.Context, filters entity.LeadFilters) ([]*entity.Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var leads []*entity.Lead
	for _, lead := range r.leads {
		if filters.Status != "" && lead.Status != filters.Status {
			continue
		}
		if filters.AgentID != "" && lead.AssignedAgentID != filters.AgentID {
			continue
		}
		if filters.Suburb != "" && !strings.Contains(strings.Join(lead.PreferredSuburbs, ","), filters.Suburb) {
			continue
		}
		if !filters.CreatedFrom.IsZero() && lead.CreatedAt.Before(filters.CreatedFrom) {
			continue
		}
		if !filters.CreatedTo.IsZero() && lead.CreatedAt.After(filters.CreatedTo) {
			continue
		}
		out := lead
		out.PreferredSuburbs = append([]string(nil), lead.PreferredSuburbs...)
		leads = append(leads, &out)
	}

	sort.SliceStable(leads, func(i, j int) bool {
		return leads[i].CreatedAt.After(leads[j].CreatedAt)
	})
	return leads, nil
}

func (r *MemoryLeadRepository) UpdateLeadStatus(ctx context.Context, id string, status entity.LeadStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	lead, ok := r.leads[id]
	if !ok {
		return false, nil
	}
	lead.Status = status
	r.leads[id] = lead
	return true, nil
}
