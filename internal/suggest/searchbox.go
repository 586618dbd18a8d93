package suggest

import (
	"strings"
	"sync"
	"time"

	"github.com/lukman83/vitrine/internal/models"
)

// Navigator is where the search box sends the user. route.Router implements it.
type Navigator interface {
	// CurrentQuery returns the q parameter of the current location.
	CurrentQuery() string
	ProductDetail(id int) string
	SearchResults(q string) string
}

// Config tunes a SearchBox. Zero values take the defaults.
type Config struct {
	MinSearchLength int
	MaxSuggestions  int
	Debounce        time.Duration
}

// State is a snapshot of the search box.
type State struct {
	Raw         string
	Value       string
	Suggestions []models.Product
	Open        bool
	Typing      bool
}

// SearchBox is the search input with its suggestion list. Debounced input is handled on a
// timer goroutine, so every method is safe for concurrent use.
type SearchBox struct {
	engine   *Engine
	nav      Navigator
	debounce *Debouncer[string]

	// OnValueChange is told when the box is cleared.
	OnValueChange func(string)
	// OnSettle receives the state after each debounced update.
	OnSettle func(State)

	mu          sync.Mutex
	products    []models.Product
	raw         string
	value       string
	suggestions []models.Product
	open        bool
	typing      bool
}

// NewSearchBox creates a search box over products. The box owns its engine.
func NewSearchBox(nav Navigator, products []models.Product, cfg Config) *SearchBox {
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	b := &SearchBox{
		engine:   NewEngine(cfg.MinSearchLength, cfg.MaxSuggestions),
		nav:      nav,
		products: products,
	}
	b.debounce = NewDebouncer(cfg.Debounce, b.settle)
	return b
}

// Engine exposes the box's suggestion engine.
func (b *SearchBox) Engine() *Engine { return b.engine }

// Type records user input and schedules a search once typing pauses.
func (b *SearchBox) Type(text string) {
	b.mu.Lock()
	b.raw = text
	b.typing = true
	b.mu.Unlock()
	b.debounce.Trigger(text)
}

// SetValue replaces the text programmatically. It never opens the suggestion list.
func (b *SearchBox) SetValue(text string) {
	b.mu.Lock()
	b.raw = text
	b.typing = false
	b.mu.Unlock()
	b.debounce.Trigger(text)
}

// SetProducts swaps the collection searched, e.g. after a category filter change.
func (b *SearchBox) SetProducts(products []models.Product) {
	b.mu.Lock()
	b.products = products
	b.mu.Unlock()
	b.engine.Reset()
}

// Pending reports whether typed input is still waiting for the debounce.
func (b *SearchBox) Pending() bool { return b.debounce.Pending() }

// Settle applies pending input immediately.
func (b *SearchBox) Settle() { b.debounce.Flush() }

func (b *SearchBox) settle(v string) {
	b.mu.Lock()
	b.value = v
	if !b.engine.Searchable(v) {
		b.suggestions = nil
		b.open = false
	} else {
		b.suggestions = b.engine.Suggest(b.products, v)
		if b.typing && len(b.suggestions) > 0 {
			b.open = true
		}
	}
	b.typing = false
	st := b.stateLocked()
	cb := b.OnSettle
	b.mu.Unlock()

	if cb != nil {
		cb(st)
	}
}

// Focus reopens the list when the current text already has cached suggestions.
func (b *SearchBox) Focus() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.engine.Searchable(b.raw) {
		return
	}
	if cached, ok := b.engine.Cached(b.raw); ok && len(cached) > 0 {
		b.open = true
	}
}

func (b *SearchBox) Blur() {
	b.mu.Lock()
	b.open = false
	b.mu.Unlock()
}

// Clear empties the box and tells OnValueChange.
func (b *SearchBox) Clear() {
	b.debounce.Stop()
	b.mu.Lock()
	b.raw = ""
	b.value = ""
	b.suggestions = nil
	b.open = false
	b.typing = false
	cb := b.OnValueChange
	b.mu.Unlock()

	if cb != nil {
		cb("")
	}
}

// Select closes the list and returns the detail location of p.
func (b *SearchBox) Select(p models.Product) string {
	b.Blur()
	return b.nav.ProductDetail(p.ID)
}

// Submit searches for the current text. It returns the new location, or false when the
// text is too short or equals the active q parameter.
func (b *SearchBox) Submit() (string, bool) {
	b.mu.Lock()
	raw := b.raw
	if !b.engine.Searchable(raw) {
		b.mu.Unlock()
		return "", false
	}
	b.open = false
	b.mu.Unlock()

	q := strings.TrimSpace(raw)
	if q == b.nav.CurrentQuery() {
		return "", false
	}
	return b.nav.SearchResults(q), true
}

func (b *SearchBox) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stateLocked()
}

func (b *SearchBox) stateLocked() State {
	return State{
		Raw:         b.raw,
		Value:       b.value,
		Suggestions: b.suggestions,
		Open:        b.open,
		Typing:      b.typing,
	}
}
