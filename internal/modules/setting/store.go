package setting

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
)

// Store reads and writes typed settings. Reads are served from a cache that is
// filled on first use and dropped by ClearCache.
type Store interface {
	// GetDecimal returns the value of key and whether it is set.
	GetDecimal(ctx context.Context, key string) (decimal.Decimal, bool, error)
	// GetInt returns nil when key is not set.
	GetInt(ctx context.Context, key string) (*int, error)
	// GetBool returns false when key is not set.
	GetBool(ctx context.Context, key string) (bool, error)

	SetDecimal(ctx context.Context, key string, v decimal.Decimal) error
	// SetInt stores v, or deletes key when v is nil.
	SetInt(ctx context.Context, key string, v *int) error
	SetBool(ctx context.Context, key string, v bool) error
	Delete(ctx context.Context, key string) error

	// Snapshot returns every setting as of a single cache fill.
	Snapshot(ctx context.Context) (Snapshot, error)
	ClearCache()
}

type store struct {
	repo Repository

	mu     sync.RWMutex
	cached Snapshot
}

func NewStore(repo Repository) Store { return &store{repo: repo} }

// Keys are case-insensitive.
func normalize(key string) string { return strings.ToLower(strings.TrimSpace(key)) }

// Snapshot is a consistent read-only view of every setting at one point in
// time. Keys are looked up case-insensitively.
type Snapshot map[string]string

func (sn Snapshot) lookup(key string) (string, bool) {
	v, ok := sn[normalize(key)]
	return v, ok
}

func (sn Snapshot) Decimal(key string) (decimal.Decimal, bool, error) {
	raw, ok := sn.lookup(key)
	if !ok {
		return decimal.Zero, false, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("setting %q is not a decimal: %w", key, err)
	}
	return d, true, nil
}

func (sn Snapshot) Int(key string) (*int, error) {
	raw, ok := sn.lookup(key)
	if !ok || raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("setting %q is not an integer: %w", key, err)
	}
	return &n, nil
}

func (sn Snapshot) Bool(key string) (bool, error) {
	raw, ok := sn.lookup(key)
	if !ok {
		return false, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("setting %q is not a boolean: %w", key, err)
	}
	return b, nil
}

// Snapshot returns the cached settings, loading them first if needed. The
// cached map is replaced, never modified, so the returned view stays stable.
func (s *store) Snapshot(ctx context.Context) (Snapshot, error) {
	s.mu.RLock()
	cached := s.cached
	s.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cached == nil {
		all, err := s.repo.All(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load settings: %w", err)
		}
		fresh := make(map[string]string, len(all))
		for k, v := range all {
			fresh[normalize(k)] = v
		}
		s.cached = fresh
	}
	return s.cached, nil
}

func (s *store) GetDecimal(ctx context.Context, key string) (decimal.Decimal, bool, error) {
	sn, err := s.Snapshot(ctx)
	if err != nil {
		return decimal.Zero, false, err
	}
	return sn.Decimal(key)
}

func (s *store) GetInt(ctx context.Context, key string) (*int, error) {
	sn, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return sn.Int(key)
}

func (s *store) GetBool(ctx context.Context, key string) (bool, error) {
	sn, err := s.Snapshot(ctx)
	if err != nil {
		return false, err
	}
	return sn.Bool(key)
}

func (s *store) SetDecimal(ctx context.Context, key string, v decimal.Decimal) error {
	return s.set(ctx, key, v.String())
}

func (s *store) SetInt(ctx context.Context, key string, v *int) error {
	if v == nil {
		return s.Delete(ctx, key)
	}
	return s.set(ctx, key, strconv.Itoa(*v))
}

func (s *store) SetBool(ctx context.Context, key string, v bool) error {
	return s.set(ctx, key, strconv.FormatBool(v))
}

func (s *store) set(ctx context.Context, key, value string) error {
	if err := s.repo.Set(ctx, normalize(key), value); err != nil {
		return fmt.Errorf("failed to save setting %q: %w", key, err)
	}
	s.ClearCache()
	return nil
}

func (s *store) Delete(ctx context.Context, key string) error {
	if err := s.repo.Delete(ctx, normalize(key)); err != nil {
		return fmt.Errorf("failed to delete setting %q: %w", key, err)
	}
	s.ClearCache()
	return nil
}

func (s *store) ClearCache() {
	s.mu.Lock()
	s.cached = nil
	s.mu.Unlock()
}

// StartCacheRefresher clears the store's cache on the given cron schedule so
// writes made by other instances become visible. Stop the returned scheduler
// on shutdown.
func StartCacheRefresher(s Store, schedule string) (*cron.Cron, error) {
	c := cron.New()
	if _, err := c.AddFunc(schedule, s.ClearCache); err != nil {
		return nil, fmt.Errorf("invalid settings refresh schedule %q: %w", schedule, err)
	}
	c.Start()
	return c, nil
}
