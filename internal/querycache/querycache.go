// Package querycache caches query results by hierarchical key with a stale time, request
// deduplication and prefix invalidation.
package querycache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultStaleTime = 60 * time.Second
	DefaultGCTime    = 5 * time.Minute
)

// Client is an explicit cache handle. Server-side request handlers create one per request;
// the CLI and MCP server keep one for the process lifetime.
type Client struct {
	store     Store
	staleTime time.Duration
	group     singleflight.Group
	now       func() time.Time
	logger    logrus.FieldLogger
}

type Option func(*Client)

func WithStaleTime(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.staleTime = d
		}
	}
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Client) { c.logger = l }
}

func withClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// New creates a client over store. A nil store means an in-memory store with
// DefaultGCTime.
func New(store Store, opts ...Option) *Client {
	if store == nil {
		store = NewMemoryStore(DefaultGCTime)
	}
	c := &Client{
		store:     store,
		staleTime: DefaultStaleTime,
		now:       time.Now,
		logger:    logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch returns the cached value for key while it is fresh, otherwise calls fn once for all
// concurrent callers of the same key and caches its result. Errors are never cached. A
// failing store only costs a refetch. A caller whose ctx ends stops waiting without
// cancelling the fetch for the others.
func Fetch[T any](ctx context.Context, c *Client, key []string, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	k := EncodeKey(key)

	if e, ok, err := c.store.Get(ctx, k); err != nil {
		c.logger.WithError(err).WithField("key", k).Warn("query cache read failed")
	} else if ok && c.now().Sub(e.UpdatedAt) < c.staleTime {
		var v T
		if err := json.Unmarshal(e.Data, &v); err == nil {
			return v, nil
		}
	}

	if err := ctx.Err(); err != nil {
		return zero, err
	}
	// the shared fetch outlives any single caller; each caller only waits on its own ctx
	shared := context.WithoutCancel(ctx)
	ch := c.group.DoChan(k, func() (any, error) {
		v, err := fn(shared)
		if err != nil {
			return nil, err
		}
		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", k, err)
		}
		if err := c.store.Set(shared, k, Entry{Data: data, UpdatedAt: c.now()}); err != nil {
			c.logger.WithError(err).WithField("key", k).Warn("query cache write failed")
		}
		return v, nil
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	}
}

// Invalidate drops every entry whose key starts with prefix, so the next Fetch refetches.
func (c *Client) Invalidate(ctx context.Context, prefix ...string) error {
	return c.store.DeletePrefix(ctx, EncodeKey(prefix))
}
