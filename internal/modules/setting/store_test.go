package setting

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingRepo counts full loads so cache hits can be observed.
type countingRepo struct {
	Repository
	loads atomic.Int32
}

func (r *countingRepo) All(ctx context.Context) (map[string]string, error) {
	r.loads.Add(1)
	return r.Repository.All(ctx)
}

func TestStoreTypedValues(t *testing.T) {
	ctx := context.Background()
	s := NewStore(NewMemoryRepository())

	_, ok, err := s.GetDecimal(ctx, "rate")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.SetDecimal(ctx, "Rate", decimal.RequireFromString("12.50")))
	d, ok, err := s.GetDecimal(ctx, " rate ")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, decimal.RequireFromString("12.5").Equal(d))

	days := 4
	require.NoError(t, s.SetInt(ctx, "days", &days))
	got, err := s.GetInt(ctx, "DAYS")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 4, *got)

	require.NoError(t, s.SetInt(ctx, "days", nil))
	got, err = s.GetInt(ctx, "days")
	require.NoError(t, err)
	assert.Nil(t, got)

	b, err := s.GetBool(ctx, "enabled")
	require.NoError(t, err)
	assert.False(t, b)
	require.NoError(t, s.SetBool(ctx, "enabled", true))
	b, err = s.GetBool(ctx, "enabled")
	require.NoError(t, err)
	assert.True(t, b)
}

func TestStoreRejectsMalformedValues(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	require.NoError(t, repo.Set(ctx, "rate", "abc"))
	s := NewStore(repo)

	_, _, err := s.GetDecimal(ctx, "rate")
	assert.Error(t, err)
	_, err = s.GetInt(ctx, "rate")
	assert.Error(t, err)
	_, err = s.GetBool(ctx, "rate")
	assert.Error(t, err)
}

func TestStoreCache(t *testing.T) {
	ctx := context.Background()
	repo := &countingRepo{Repository: NewMemoryRepository()}
	s := NewStore(repo)

	for i := 0; i < 3; i++ {
		_, err := s.GetBool(ctx, "enabled")
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), repo.loads.Load())

	// Writes made behind the store's back are invisible until the cache is cleared.
	require.NoError(t, repo.Set(ctx, "enabled", "true"))
	b, _ := s.GetBool(ctx, "enabled")
	assert.False(t, b)

	s.ClearCache()
	b, _ = s.GetBool(ctx, "enabled")
	assert.True(t, b)
	assert.Equal(t, int32(2), repo.loads.Load())

	require.NoError(t, s.Delete(ctx, "enabled"))
	b, _ = s.GetBool(ctx, "enabled")
	assert.False(t, b)
}

func TestStartCacheRefresher(t *testing.T) {
	s := NewStore(NewMemoryRepository())

	c, err := StartCacheRefresher(s, "@every 1m")
	require.NoError(t, err)
	assert.Len(t, c.Entries(), 1)
	c.Stop()

	_, err = StartCacheRefresher(s, "not a schedule")
	assert.Error(t, err)
}

func TestSnapshotIsStable(t *testing.T) {
	ctx := context.Background()
	repo := &countingRepo{Repository: NewMemoryRepository()}
	s := NewStore(repo)
	require.NoError(t, s.SetBool(ctx, "a", true))
	require.NoError(t, s.SetBool(ctx, "b", true))

	before, err := s.Snapshot(ctx)
	require.NoError(t, err)

	require.NoError(t, s.SetBool(ctx, "b", false))

	a, err := before.Bool("A")
	require.NoError(t, err)
	b, err := before.Bool("b")
	require.NoError(t, err)
	assert.True(t, a)
	assert.True(t, b, "a snapshot does not see later writes")

	after, err := s.Snapshot(ctx)
	require.NoError(t, err)
	b, err = after.Bool("b")
	require.NoError(t, err)
	assert.False(t, b)
	assert.Equal(t, int32(2), repo.loads.Load())
}
