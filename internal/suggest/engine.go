// Package suggest implements search-as-you-type: a cached suggestion engine, a debouncer
// and the search box state machine built on both.
package suggest

import (
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/lukman83/vitrine/internal/models"
	"github.com/lukman83/vitrine/internal/platform"
)

const (
	DefaultMinSearchLength = 2
	DefaultMaxSuggestions  = 10
)

// Engine turns a query into at most MaxSuggestions matching products. Results are cached
// per normalized query for as long as the product collection stays the same.
type Engine struct {
	minLen int
	max    int

	mu    sync.Mutex
	cache map[string][]models.Product
	first *models.Product
	n     int
	scans int
}

// NewEngine creates an engine. Values below 1 fall back to the defaults.
func NewEngine(minSearchLength, maxSuggestions int) *Engine {
	if minSearchLength < 1 {
		minSearchLength = DefaultMinSearchLength
	}
	if maxSuggestions < 1 {
		maxSuggestions = DefaultMaxSuggestions
	}
	return &Engine{
		minLen: minSearchLength,
		max:    maxSuggestions,
		cache:  make(map[string][]models.Product),
	}
}

func (e *Engine) MinSearchLength() int { return e.minLen }

func (e *Engine) MaxSuggestions() int { return e.max }

// Searchable reports whether query is long enough to produce suggestions.
func (e *Engine) Searchable(query string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(query)) >= e.minLen
}

// Suggest returns the products whose title, category or description contains the trimmed
// query, case-insensitively, in input order. A repeated query over the same collection
// returns the cached slice without scanning.
func (e *Engine) Suggest(products []models.Product, query string) []models.Product {
	if !e.Searchable(query) {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if len(products) == 0 {
		e.resetLocked()
		return nil
	}
	// a new backing array or a different length is a different collection
	if first := &products[0]; first != e.first || len(products) != e.n {
		e.resetLocked()
		e.first, e.n = first, len(products)
	}

	key := platform.NormalizeQuery(query)
	if cached, ok := e.cache[key]; ok {
		return cached
	}

	e.scans++
	out := make([]models.Product, 0, e.max)
	for _, p := range products {
		if platform.Matches(p, key) {
			out = append(out, p)
			if len(out) == e.max {
				break
			}
		}
	}
	e.cache[key] = out
	return out
}

// Cached returns the suggestions already computed for query, if any.
func (e *Engine) Cached(query string) ([]models.Product, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	ps, ok := e.cache[platform.NormalizeQuery(query)]
	return ps, ok
}

// Reset drops every cached result.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.resetLocked()
}

// Scans counts how many times the engine walked a collection.
func (e *Engine) Scans() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.scans
}

func (e *Engine) resetLocked() {
	clear(e.cache)
	e.first, e.n = nil, 0
}
