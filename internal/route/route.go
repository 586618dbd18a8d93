// Package route tracks the shareable location of the catalog views: the home listing,
// a product detail page and a search results page.
package route

import (
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/lukman83/vitrine/internal/models"
)

const (
	paramQuery    = "q"
	paramCategory = "category"
)

// Router holds the current location and the locations visited before it.
type Router struct {
	mu      sync.Mutex
	current *url.URL
	history []string
	newID   func() string
}

// New starts a router at start ("/" when empty or unparsable).
func New(start string) *Router {
	u, err := url.Parse(start)
	if err != nil || start == "" {
		u = &url.URL{Path: "/"}
	}
	return &Router{
		current: u,
		history: []string{u.String()},
		newID:   func() string { return uuid.NewString() },
	}
}

// Location returns the current location.
func (r *Router) Location() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current.String()
}

// Push moves to loc and returns it.
func (r *Router) Push(loc string) string {
	u, err := url.Parse(loc)
	if err != nil {
		return r.Location()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pushLocked(u)
}

func (r *Router) pushLocked(u *url.URL) string {
	r.current = u
	s := u.String()
	r.history = append(r.history, s)
	return s
}

// ProductDetail navigates to /product/{id}.
func (r *Router) ProductDetail(id int) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pushLocked(&url.URL{Path: "/product/" + strconv.Itoa(id)})
}

// SearchResults navigates to /search/{searchID}?q=... with a fresh search id, so every
// submitted search gets its own location.
func (r *Router) SearchResults(q string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := &url.URL{
		Path:     "/search/" + r.newID(),
		RawQuery: url.Values{paramQuery: {q}}.Encode(),
	}
	return r.pushLocked(u)
}

// CurrentQuery returns the q parameter of the current location.
func (r *Router) CurrentQuery() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current.Query().Get(paramQuery)
}

// CurrentCategory returns the category filter of the current location.
func (r *Router) CurrentCategory() models.Category {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c := r.current.Query().Get(paramCategory); c != "" {
		return models.Category(c)
	}
	return models.AllCategories
}

// WithCategory sets the category filter on the current location; AllCategories removes it.
func (r *Router) WithCategory(c models.Category) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	u := *r.current
	params := u.Query()
	if c == "" || c == models.AllCategories {
		params.Del(paramCategory)
	} else {
		params.Set(paramCategory, string(c))
	}
	u.RawQuery = params.Encode()
	return r.pushLocked(&u)
}

// SearchID returns the id segment of a /search/{id} location.
func SearchID(loc string) (string, bool) {
	u, err := url.Parse(loc)
	if err != nil {
		return "", false
	}
	id, ok := strings.CutPrefix(u.Path, "/search/")
	if !ok || id == "" || strings.Contains(id, "/") {
		return "", false
	}
	return id, true
}

// History lists the visited locations, oldest first.
func (r *Router) History() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.history...)
}
