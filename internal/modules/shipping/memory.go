package shipping

import (
	"context"
	"sort"
	"sync"
	"time"
)

type memoryRepo struct {
	mu     sync.RWMutex
	nextID int
	rules  map[int]Rule
}

// NewMemoryRepository returns a RuleRepository kept in process memory.
func NewMemoryRepository() RuleRepository {
	return &memoryRepo{nextID: 1, rules: make(map[int]Rule)}
}

func (r *memoryRepo) GetByID(_ context.Context, id int) (*Rule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rule, ok := r.rules[id]
	if !ok {
		return nil, ErrRuleNotFound
	}
	return &rule, nil
}

func (r *memoryRepo) Insert(_ context.Context, rule *Rule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rule.ID = r.nextID
	r.nextID++
	now := time.Now()
	rule.CreatedAt, rule.UpdatedAt = now, now
	r.rules[rule.ID] = *rule
	return nil
}

func (r *memoryRepo) Update(_ context.Context, rule *Rule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.rules[rule.ID]
	if !ok {
		return ErrRuleNotFound
	}
	rule.CreatedAt = existing.CreatedAt
	rule.UpdatedAt = time.Now()
	r.rules[rule.ID] = *rule
	return nil
}

func (r *memoryRepo) Delete(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rules[id]; !ok {
		return ErrRuleNotFound
	}
	delete(r.rules, id)
	return nil
}

func (r *memoryRepo) Page(ctx context.Context, f RuleFilter, pageIndex, pageSize int) (RulePage, error) {
	all, err := r.All(ctx)
	if err != nil {
		return RulePage{}, err
	}
	return FilterRules(all, f, pageIndex, pageSize), nil
}

func (r *memoryRepo) All(context.Context) ([]Rule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rules := make([]Rule, 0, len(r.rules))
	for _, rule := range r.rules {
		rules = append(rules, rule)
	}
	sort.Slice(rules, func(i, j int) bool { return rules[i].ID < rules[j].ID })
	return rules, nil
}
