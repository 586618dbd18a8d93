// Package catalog is the read and write service the CLI and MCP server use. It puts the
// query cache in front of a product source.
package catalog

import (
	"context"
	"strconv"
	"time"

	"github.com/lukman83/vitrine/internal/analytics"
	"github.com/lukman83/vitrine/internal/models"
	"github.com/lukman83/vitrine/internal/platform"
	"github.com/lukman83/vitrine/internal/querycache"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const DefaultMaxConcurrent = 5

// Service serves products from src through cache.
type Service struct {
	src           platform.Source
	cache         *querycache.Client
	maxConcurrent int
	logger        logrus.FieldLogger
	now           func() time.Time
}

type Option func(*Service)

func WithMaxConcurrent(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxConcurrent = n
		}
	}
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Service) { s.logger = l }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a service. A nil cache gets a fresh in-memory one.
func NewService(src platform.Source, cache *querycache.Client, opts ...Option) *Service {
	if cache == nil {
		cache = querycache.New(nil)
	}
	s := &Service{
		src:           src,
		cache:         cache,
		maxConcurrent: DefaultMaxConcurrent,
		logger:        logrus.StandardLogger(),
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func productsKey(query string) []string {
	if q := platform.NormalizeQuery(query); q != "" {
		return []string{"products", q}
	}
	return []string{"products"}
}

func productKey(id int) []string {
	return []string{"product", strconv.Itoa(id)}
}

// Products lists the catalog, narrowed by query when it is not blank.
func (s *Service) Products(ctx context.Context, query string) ([]models.Product, error) {
	return querycache.Fetch(ctx, s.cache, productsKey(query), func(ctx context.Context) ([]models.Product, error) {
		return s.src.List(ctx, query)
	})
}

func (s *Service) Product(ctx context.Context, id int) (*models.Product, error) {
	return querycache.Fetch(ctx, s.cache, productKey(id), func(ctx context.Context) (*models.Product, error) {
		return s.src.Get(ctx, id)
	})
}

// ProductsByID fetches several products concurrently, at most maxConcurrent at a time.
// The result follows the order of ids; the first error cancels the rest.
func (s *Service) ProductsByID(ctx context.Context, ids []int) ([]models.Product, error) {
	out := make([]models.Product, len(ids))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrent)
	for i, id := range ids {
		g.Go(func() error {
			p, err := s.Product(ctx, id)
			if err != nil {
				return err
			}
			out[i] = *p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Detail is a product with its synthetic analytics.
type Detail struct {
	Product     models.Product       `json:"product"`
	Analytics   analytics.Bundle     `json:"analytics"`
	StockStatus analytics.StockLevel `json:"stockStatus"`
	StockLabel  string               `json:"stockLabel"`
}

func (s *Service) Detail(ctx context.Context, id int) (*Detail, error) {
	p, err := s.Product(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.detail(*p), nil
}

// Details returns the detail view of several products, in the order of ids.
func (s *Service) Details(ctx context.Context, ids []int) ([]Detail, error) {
	ps, err := s.ProductsByID(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]Detail, len(ps))
	for i, p := range ps {
		out[i] = *s.detail(p)
	}
	return out, nil
}

func (s *Service) detail(p models.Product) *Detail {
	b := analytics.Generate(p.ID, s.now())
	level := analytics.StockStatus(b.Stock)
	return &Detail{
		Product:     p,
		Analytics:   b,
		StockStatus: level,
		StockLabel:  level.Describe(b.Stock),
	}
}

func (s *Service) Create(ctx context.Context, in models.ProductInput) (*models.Product, error) {
	p, err := s.src.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, p.ID)
	return p, nil
}

func (s *Service) Update(ctx context.Context, in models.ProductInput) (*models.Product, error) {
	p, err := s.src.Update(ctx, in)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, in.ID)
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id int) error {
	if err := s.src.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *Service) invalidate(ctx context.Context, id int) {
	for _, key := range [][]string{{"products"}, productKey(id)} {
		if err := s.cache.Invalidate(ctx, key...); err != nil {
			s.logger.WithError(err).WithField("key", key).Warn("cache invalidation failed")
		}
	}
}

// Categories returns the category counts over the whole catalog.
func (s *Service) Categories(ctx context.Context) ([]CategoryCount, error) {
	ps, err := s.Products(ctx, "")
	if err != nil {
		return nil, err
	}
	return CategoryCounts(ps), nil
}
