package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/beka-birhanu/vinom-structures/catalog"
	dmn "github.com/beka-birhanu/vinom-structures/domain"
	"github.com/beka-birhanu/vinom-structures/maze"
	"github.com/beka-birhanu/vinom-structures/service/i"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	mu      sync.Mutex
	batches map[uuid.UUID]*dmn.Batch
	saves   int
	saveErr error
	limit   int64
}

func newMemRepo() *memRepo {
	return &memRepo{batches: make(map[uuid.UUID]*dmn.Batch)}
}

func (r *memRepo) Save(b *dmn.Batch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saves++
	r.batches[b.ID] = b
	return nil
}

func (r *memRepo) ByID(id uuid.UUID) (*dmn.Batch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.batches[id]
	if !ok {
		return nil, dmn.ErrBatchNotFound
	}
	return b, nil
}

func (r *memRepo) Recent(limit int64) ([]*dmn.Batch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.limit = limit
	out := make([]*dmn.Batch, 0, len(r.batches))
	for _, b := range r.batches {
		out = append(out, b)
	}
	slices.SortFunc(out, func(a, b *dmn.Batch) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

type memCache struct {
	mu        sync.Mutex
	ids       map[string]uuid.UUID
	locks     int
	unlockErr error
}

func newMemCache() *memCache {
	return &memCache{ids: make(map[string]uuid.UUID)}
}

func (c *memCache) BatchID(_ context.Context, key string) (uuid.UUID, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id, ok := c.ids[key]
	return id, ok, nil
}

func (c *memCache) SetBatchID(_ context.Context, key string, id uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ids[key] = id
	return nil
}

func (c *memCache) Lock(context.Context, string) (func() error, error) {
	c.mu.Lock()
	c.locks++
	c.mu.Unlock()
	return func() error { return c.unlockErr }, nil
}

type memLogger struct {
	mu       sync.Mutex
	warnings []string
}

func (l *memLogger) Info(string) {}

func (l *memLogger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warnings = append(l.warnings, msg)
}

func (l *memLogger) Error(string) {}

func newTestService(t *testing.T, repo i.LayoutRepo, cache i.LayoutCache) *LayoutService {
	t.Helper()
	c, err := catalog.New(catalog.Reference())
	require.NoError(t, err)

	svc, err := NewLayoutService(&Config{
		Catalog: c,
		Repo:    repo,
		Cache:   cache,
		Now:     func() time.Time { return time.Unix(1700000000, 0) },
	})
	require.NoError(t, err)
	return svc
}

func gridFromLayout(t *testing.T, l dmn.Layout) *maze.Grid {
	t.Helper()
	g, err := l.Grid()
	require.NoError(t, err)
	return g
}

// wallsOf strips identifiers so batches can be compared by content.
func wallsOf(b *dmn.Batch) [][]dmn.Placement {
	out := make([][]dmn.Placement, len(b.Layouts))
	for n, l := range b.Layouts {
		out[n] = l.Placements
	}
	return out
}

func TestNewLayoutService(t *testing.T) {
	_, err := NewLayoutService(&Config{})
	assert.ErrorIs(t, err, ErrNilCatalog)

	_, err = NewLayoutService(nil)
	assert.ErrorIs(t, err, ErrNilCatalog)
}

func TestGenerate_Defaults(t *testing.T) {
	svc := newTestService(t, nil, nil)

	batch, err := svc.Generate(context.Background(), i.GenerateRequest{Seed: 21})
	require.NoError(t, err)

	assert.Equal(t, int64(21), batch.Seed)
	assert.Equal(t, 15, batch.Tries)
	assert.Equal(t, 2, batch.TrialMultiplier)
	require.Len(t, batch.Layouts, 15)

	for try, layout := range batch.Layouts {
		assert.Equal(t, try, layout.Try)
		assert.Equal(t, trySeeds(21, 15)[try], layout.Seed)
		require.Len(t, layout.Placements, 25)

		assert.Equal(t, 0, layout.Placements[0].X)
		assert.Equal(t, 1, layout.Placements[1].Z)

		grid := gridFromLayout(t, layout)
		assert.True(t, grid.IsReachableAll(), "try %d not connected", try)
		assert.False(t, grid.Wall(2, 0, maze.NegZ))
		assert.False(t, grid.Wall(2, 4, maze.PosZ))
		assert.True(t, grid.Wall(0, 0, maze.NegX))

		for _, p := range layout.Placements {
			options := svc.catalog.Lookup(p.Walls)
			ids := make([]string, 0, len(options))
			for _, o := range options {
				ids = append(ids, o.ID)
			}
			assert.Contains(t, ids, p.StructureID)
		}
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	svc := newTestService(t, nil, nil)
	req := i.GenerateRequest{Seed: 8, Tries: 4, Width: 6, Depth: 3}

	first, err := svc.Generate(context.Background(), req)
	require.NoError(t, err)
	second, err := svc.Generate(context.Background(), req)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, wallsOf(first), wallsOf(second))
}

func TestGenerate_TriesAreIndependent(t *testing.T) {
	svc := newTestService(t, nil, nil)

	batch, err := svc.Generate(context.Background(), i.GenerateRequest{Seed: 3, Tries: 5})
	require.NoError(t, err)

	distinct := map[string]struct{}{}
	for _, l := range batch.Layouts {
		distinct[gridFromLayout(t, l).String()] = struct{}{}
	}
	assert.Greater(t, len(distinct), 1)
}

func TestGenerate_NeighborSeedsShareNoLayouts(t *testing.T) {
	svc := newTestService(t, nil, nil)

	seen := map[int64]int64{}
	for base := int64(40); base < 43; base++ {
		batch, err := svc.Generate(context.Background(), i.GenerateRequest{Seed: base})
		require.NoError(t, err)
		for _, l := range batch.Layouts {
			prev, dup := seen[l.Seed]
			assert.False(t, dup, "try seed %d drawn by base %d and %d", l.Seed, prev, base)
			seen[l.Seed] = base
		}
	}
	assert.Len(t, seen, 45)
}

func TestTrySeeds(t *testing.T) {
	assert.Equal(t, trySeeds(9, 6), trySeeds(9, 6))
	assert.Equal(t, trySeeds(9, 6)[:3], trySeeds(9, 3))
	assert.NotEqual(t, trySeeds(9, 2), trySeeds(10, 2))
	assert.Empty(t, trySeeds(9, 0))
}

func TestGenerate_ClockSeed(t *testing.T) {
	svc := newTestService(t, nil, nil)

	batch, err := svc.Generate(context.Background(), i.GenerateRequest{Tries: 1})
	require.NoError(t, err)
	assert.Equal(t, time.Unix(1700000000, 0).UnixNano(), batch.Seed)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), batch.CreatedAt)
}

func TestGenerate_InvalidRequest(t *testing.T) {
	svc := newTestService(t, nil, nil)

	for _, req := range []i.GenerateRequest{
		{Tries: MaxTries + 1},
		{Tries: -1},
		{Width: -2},
		{Depth: maze.MaxDimension + 1},
		{TrialMultiplier: -1},
	} {
		_, err := svc.Generate(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidRequest, "%+v", req)
	}
}

func TestGenerate_CatalogMiss(t *testing.T) {
	c, err := catalog.New([]catalog.Entry{{Walls: [4]bool{}}})
	require.NoError(t, err)
	svc, err := NewLayoutService(&Config{Catalog: c})
	require.NoError(t, err)

	_, err = svc.Generate(context.Background(), i.GenerateRequest{Seed: 1, Tries: 2})
	assert.ErrorIs(t, err, catalog.ErrNoStructure)
}

func TestGenerate_CanceledContext(t *testing.T) {
	svc := newTestService(t, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Generate(ctx, i.GenerateRequest{Seed: 1})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGenerate_Persistence(t *testing.T) {
	t.Run("Explicit seed reuses cached batch", func(t *testing.T) {
		repo, cache := newMemRepo(), newMemCache()
		svc := newTestService(t, repo, cache)
		req := i.GenerateRequest{Seed: 77, Tries: 2}

		first, err := svc.Generate(context.Background(), req)
		require.NoError(t, err)
		second, err := svc.Generate(context.Background(), req)
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, 1, repo.saves)
		assert.Equal(t, 2, cache.locks)
	})

	t.Run("Clock seed bypasses the cache", func(t *testing.T) {
		repo, cache := newMemRepo(), newMemCache()
		svc := newTestService(t, repo, cache)

		_, err := svc.Generate(context.Background(), i.GenerateRequest{Tries: 1})
		require.NoError(t, err)
		assert.Equal(t, 1, repo.saves)
		assert.Zero(t, cache.locks)
	})

	t.Run("Stale cache entry regenerates", func(t *testing.T) {
		repo, cache := newMemRepo(), newMemCache()
		svc := newTestService(t, repo, cache)
		req := i.GenerateRequest{Seed: 5, Tries: 1}
		cache.ids[cacheKey(i.GenerateRequest{Seed: 5, Width: 5, Depth: 5, Tries: 1, TrialMultiplier: 2})] = uuid.New()

		batch, err := svc.Generate(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 1, repo.saves)

		_, ok := repo.batches[batch.ID]
		assert.True(t, ok)
	})

	t.Run("Save failure", func(t *testing.T) {
		repo := newMemRepo()
		repo.saveErr = errors.New("connection refused")
		svc := newTestService(t, repo, nil)

		_, err := svc.Generate(context.Background(), i.GenerateRequest{Seed: 1, Tries: 1})
		assert.Error(t, err)
	})

	t.Run("Batch lookup", func(t *testing.T) {
		repo := newMemRepo()
		svc := newTestService(t, repo, nil)

		batch, err := svc.Generate(context.Background(), i.GenerateRequest{Seed: 1, Tries: 1})
		require.NoError(t, err)

		got, err := svc.Batch(batch.ID)
		require.NoError(t, err)
		assert.Equal(t, batch, got)

		_, err = svc.Batch(uuid.New())
		assert.ErrorIs(t, err, dmn.ErrBatchNotFound)
	})

	t.Run("Batch lookup without repo", func(t *testing.T) {
		svc := newTestService(t, nil, nil)
		_, err := svc.Batch(uuid.New())
		assert.ErrorIs(t, err, ErrNoRepo)
		_, err = svc.Recent(5)
		assert.ErrorIs(t, err, ErrNoRepo)
	})

	t.Run("Failed unlock is logged", func(t *testing.T) {
		repo, cache, log := newMemRepo(), newMemCache(), &memLogger{}
		cache.unlockErr = errors.New("lock expired")
		c, err := catalog.New(catalog.Reference())
		require.NoError(t, err)
		svc, err := NewLayoutService(&Config{Catalog: c, Repo: repo, Cache: cache, Logger: log})
		require.NoError(t, err)

		_, err = svc.Generate(context.Background(), i.GenerateRequest{Seed: 12, Tries: 1})
		require.NoError(t, err)
		require.Len(t, log.warnings, 1)
		assert.Contains(t, log.warnings[0], "lock expired")
	})

	t.Run("Recent", func(t *testing.T) {
		repo := newMemRepo()
		c, err := catalog.New(catalog.Reference())
		require.NoError(t, err)
		tick := time.Unix(1700000000, 0)
		svc, err := NewLayoutService(&Config{
			Catalog: c,
			Repo:    repo,
			Now: func() time.Time {
				tick = tick.Add(time.Second)
				return tick
			},
		})
		require.NoError(t, err)

		for seed := int64(1); seed <= 20; seed++ {
			_, err := svc.Generate(context.Background(), i.GenerateRequest{Seed: seed, Tries: 1})
			require.NoError(t, err)
		}

		seeds := func(bs []*dmn.Batch) []int64 {
			out := make([]int64, len(bs))
			for n, b := range bs {
				out[n] = b.Seed
			}
			return out
		}

		got, err := svc.Recent(2)
		require.NoError(t, err)
		assert.Equal(t, []int64{20, 19}, seeds(got))

		got, err = svc.Recent(0)
		require.NoError(t, err)
		assert.Len(t, got, 10)
		assert.Equal(t, int64(11), got[9].Seed)

		for _, limit := range []int{100, 500} {
			got, err = svc.Recent(limit)
			require.NoError(t, err)
			assert.Len(t, got, 20, fmt.Sprintf("limit %d", limit))
			assert.Equal(t, int64(min(limit, 100)), repo.limit)
			assert.Equal(t, int64(20), got[0].Seed)
			assert.Equal(t, int64(1), got[19].Seed)
		}
	})
}
