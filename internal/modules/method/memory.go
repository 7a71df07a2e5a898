package method

import (
	"context"
	"slices"
	"sync"
	"time"
)

type memoryRepo struct {
	mu      sync.RWMutex
	nextID  int
	methods map[int]ShippingMethod
}

// NewMemoryRepository returns a Repository kept in process memory.
func NewMemoryRepository() Repository {
	return &memoryRepo{nextID: 1, methods: make(map[int]ShippingMethod)}
}

func (r *memoryRepo) Create(_ context.Context, m *ShippingMethod) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m.ID == 0 {
		m.ID = r.nextID
	}
	if m.ID >= r.nextID {
		r.nextID = m.ID + 1
	}
	now := time.Now()
	m.CreatedAt, m.UpdatedAt = now, now
	r.methods[m.ID] = clone(*m)
	return nil
}

func (r *memoryRepo) GetByID(_ context.Context, id int) (*ShippingMethod, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.methods[id]
	if !ok {
		return nil, ErrNotFound
	}
	m = clone(m)
	return &m, nil
}

func (r *memoryRepo) List(_ context.Context, countryID int) ([]ShippingMethod, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []ShippingMethod
	for _, m := range r.methods {
		if m.AvailableFor(countryID) {
			out = append(out, clone(m))
		}
	}
	slices.SortFunc(out, func(a, b ShippingMethod) int {
		if a.DisplayOrder != b.DisplayOrder {
			return a.DisplayOrder - b.DisplayOrder
		}
		return a.ID - b.ID
	})
	return out, nil
}

func (r *memoryRepo) Update(_ context.Context, m *ShippingMethod) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.methods[m.ID]
	if !ok {
		return ErrNotFound
	}
	m.CreatedAt = existing.CreatedAt
	m.UpdatedAt = time.Now()
	r.methods[m.ID] = clone(*m)
	return nil
}

func (r *memoryRepo) Delete(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.methods[id]; !ok {
		return ErrNotFound
	}
	delete(r.methods, id)
	return nil
}

func clone(m ShippingMethod) ShippingMethod {
	m.RestrictedCountryIDs = slices.Clone(m.RestrictedCountryIDs)
	return m
}
