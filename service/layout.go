package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/beka-birhanu/vinom-structures/catalog"
	dmn "github.com/beka-birhanu/vinom-structures/domain"
	"github.com/beka-birhanu/vinom-structures/maze"
	"github.com/beka-birhanu/vinom-structures/service/i"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	defaultWidth           = 5
	defaultDepth           = 5
	defaultTries           = 15
	defaultTrialMultiplier = 2

	// MaxTries bounds the number of layouts in one batch.
	MaxTries = 64

	defaultRecent = 10
	maxRecent     = 100

	cacheKeyFmt = "layouts:seed_%d:w_%d:d_%d:tries_%d:mult_%d"
)

var (
	ErrInvalidRequest = errors.New("invalid generate request")
	ErrNilCatalog     = errors.New("catalog is required")
	ErrNoRepo         = errors.New("layout persistence is not configured")
)

// Config holds the dependencies and defaults of a LayoutService.
type Config struct {
	Catalog  *catalog.Catalog
	Repo     i.LayoutRepo  // Optional; nil keeps batches in memory only
	Cache    i.LayoutCache // Optional; only consulted for explicit seeds
	Logger   i.Logger      // Optional
	Defaults i.GenerateRequest
	Now      func() time.Time
}

// LayoutService generates catalog-mapped maze layouts.
type LayoutService struct {
	catalog  *catalog.Catalog
	repo     i.LayoutRepo
	cache    i.LayoutCache
	logger   i.Logger
	defaults i.GenerateRequest
	now      func() time.Time
}

var _ i.LayoutService = &LayoutService{}

// NewLayoutService creates a LayoutService, filling unset defaults.
func NewLayoutService(c *Config) (*LayoutService, error) {
	if c == nil || c.Catalog == nil {
		return nil, ErrNilCatalog
	}

	defaults := c.Defaults
	if defaults.Width <= 0 {
		defaults.Width = defaultWidth
	}
	if defaults.Depth <= 0 {
		defaults.Depth = defaultDepth
	}
	if defaults.Tries <= 0 {
		defaults.Tries = defaultTries
	}
	if defaults.TrialMultiplier <= 0 {
		defaults.TrialMultiplier = defaultTrialMultiplier
	}

	now := c.Now
	if now == nil {
		now = time.Now
	}

	logger := c.Logger
	if logger == nil {
		logger = nopLogger{}
	}

	return &LayoutService{
		catalog:  c.Catalog,
		repo:     c.Repo,
		cache:    c.Cache,
		logger:   logger,
		defaults: defaults,
		now:      now,
	}, nil
}

// Structures returns the catalog the service maps cells onto.
func (s *LayoutService) Structures() []catalog.Structure {
	return s.catalog.Structures()
}

// Batch retrieves a stored batch.
func (s *LayoutService) Batch(id uuid.UUID) (*dmn.Batch, error) {
	if s.repo == nil {
		return nil, ErrNoRepo
	}
	return s.repo.ByID(id)
}

// Recent lists the latest stored batches, newest first. A limit of 0 means 10
// and larger limits are capped at 100.
func (s *LayoutService) Recent(limit int) ([]*dmn.Batch, error) {
	if s.repo == nil {
		return nil, ErrNoRepo
	}
	if limit <= 0 {
		limit = defaultRecent
	} else if limit > maxRecent {
		limit = maxRecent
	}
	return s.repo.Recent(int64(limit))
}

// Generate produces req.Tries independent layouts. A batch generated for an
// explicit seed is cached and returned again for the same request.
func (s *LayoutService) Generate(ctx context.Context, req i.GenerateRequest) (*dmn.Batch, error) {
	req, err := s.resolve(req)
	if err != nil {
		return nil, err
	}

	explicit := req.Seed != 0
	if !explicit {
		req.Seed = s.now().UnixNano()
	}

	if s.cache == nil || s.repo == nil || !explicit {
		return s.generateAndSave(ctx, req)
	}

	key := cacheKey(req)
	unlock, err := s.cache.Lock(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("locking %s: %w", key, err)
	}
	defer func() {
		if err := unlock(); err != nil {
			s.logger.Warning(fmt.Sprintf("Releasing lock %s: %s", key, err))
		}
	}()

	if id, ok, err := s.cache.BatchID(ctx, key); err != nil {
		s.logger.Warning(fmt.Sprintf("Reading layout cache %s: %s", key, err))
	} else if ok {
		batch, err := s.repo.ByID(id)
		if err == nil {
			s.logger.Info(fmt.Sprintf("Reusing cached batch: ID=%s Seed=%d", id, req.Seed))
			return batch, nil
		}
		s.logger.Warning(fmt.Sprintf("Cached batch %s unavailable: %s", id, err))
	}

	batch, err := s.generateAndSave(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetBatchID(ctx, key, batch.ID); err != nil {
		s.logger.Warning(fmt.Sprintf("Caching batch %s: %s", batch.ID, err))
	}

	return batch, nil
}

func (s *LayoutService) generateAndSave(ctx context.Context, req i.GenerateRequest) (*dmn.Batch, error) {
	batch, err := s.generate(ctx, req)
	if err != nil {
		s.logger.Error(fmt.Sprintf("Generating layouts: %s", err))
		return nil, err
	}

	if s.repo != nil {
		if err := s.repo.Save(batch); err != nil {
			s.logger.Error(fmt.Sprintf("Failed to save batch: %s", err))
			return nil, fmt.Errorf("saving batch: %w", err)
		}
	}

	s.logger.Info(fmt.Sprintf("Generated batch: ID=%s Seed=%d Tries=%d Size=%dx%d", batch.ID, batch.Seed, batch.Tries, batch.Width, batch.Depth))
	return batch, nil
}

// generate runs every try concurrently. Each try owns its grid and random
// stream, so nothing is shared between goroutines but the read-only catalog.
func (s *LayoutService) generate(ctx context.Context, req i.GenerateRequest) (*dmn.Batch, error) {
	layouts := make([]dmn.Layout, req.Tries)
	seeds := trySeeds(req.Seed, req.Tries)

	g, gctx := errgroup.WithContext(ctx)
	for try := 0; try < req.Tries; try++ {
		try := try
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			layout, err := s.layout(req, try, seeds[try])
			if err != nil {
				return fmt.Errorf("try %d: %w", try, err)
			}
			layouts[try] = *layout
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &dmn.Batch{
		ID:              uuid.New(),
		Seed:            req.Seed,
		Width:           req.Width,
		Depth:           req.Depth,
		Tries:           req.Tries,
		TrialMultiplier: req.TrialMultiplier,
		Layouts:         layouts,
		CreatedAt:       s.now().UTC(),
	}, nil
}

// layout generates one try and maps every cell onto a catalog structure.
func (s *LayoutService) layout(req i.GenerateRequest, try int, seed int64) (*dmn.Layout, error) {
	rng := rand.New(rand.NewSource(seed))

	gen, err := maze.NewGenerator(maze.GeneratorConfig{
		Width:           req.Width,
		Depth:           req.Depth,
		TrialMultiplier: req.TrialMultiplier,
	}, rng)
	if err != nil {
		return nil, err
	}

	grid, err := gen.Generate()
	if err != nil {
		return nil, err
	}

	cells := grid.Cells()
	placements := make([]dmn.Placement, 0, len(cells))
	for _, cell := range cells {
		structure, err := s.catalog.Choose(cell.Pattern(), rng)
		if err != nil {
			return nil, fmt.Errorf("cell (%d,%d): %w", cell.X, cell.Z, err)
		}
		placements = append(placements, dmn.Placement{
			X:           cell.X,
			Z:           cell.Z,
			Walls:       cell.Walls,
			StructureID: structure.ID,
		})
	}

	return &dmn.Layout{
		ID:         uuid.New(),
		Try:        try,
		Seed:       seed,
		Width:      req.Width,
		Depth:      req.Depth,
		Placements: placements,
	}, nil
}

func (s *LayoutService) resolve(req i.GenerateRequest) (i.GenerateRequest, error) {
	if req.Width == 0 {
		req.Width = s.defaults.Width
	}
	if req.Depth == 0 {
		req.Depth = s.defaults.Depth
	}
	if req.Tries == 0 {
		req.Tries = s.defaults.Tries
	}
	if req.TrialMultiplier == 0 {
		req.TrialMultiplier = s.defaults.TrialMultiplier
	}
	if req.Seed == 0 {
		req.Seed = s.defaults.Seed
	}

	switch {
	case req.Tries < 0 || req.Tries > MaxTries:
		return req, fmt.Errorf("%w: tries must be between 1 and %d", ErrInvalidRequest, MaxTries)
	case req.Width < 0 || req.Depth < 0 || max(req.Width, req.Depth) > maze.MaxDimension:
		return req, fmt.Errorf("%w: size must be between 1 and %d", ErrInvalidRequest, maze.MaxDimension)
	case req.TrialMultiplier < 0:
		return req, fmt.Errorf("%w: trial multiplier must be positive", ErrInvalidRequest)
	}

	return req, nil
}

// trySeeds draws one seed per try from the base seed's stream, so batches for
// neighboring base seeds share no layouts.
func trySeeds(base int64, tries int) []int64 {
	src := rand.New(rand.NewSource(base))
	seeds := make([]int64, tries)
	for n := range seeds {
		seeds[n] = src.Int63()
	}
	return seeds
}

func cacheKey(req i.GenerateRequest) string {
	return fmt.Sprintf(cacheKeyFmt, req.Seed, req.Width, req.Depth, req.Tries, req.TrialMultiplier)
}

type nopLogger struct{}

func (nopLogger) Info(string)    {}
func (nopLogger) Warning(string) {}
func (nopLogger) Error(string)   {}
