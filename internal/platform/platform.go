package platform

import (
	"context"
	"strings"

	"github.com/lukman83/vitrine/internal/models"
)

// Source is a provider of catalog products. Every product it returns has passed schema
// validation, and every error it returns is a *FetchError.
type Source interface {
	List(ctx context.Context, query string) ([]models.Product, error)
	Get(ctx context.Context, id int) (*models.Product, error)
	Create(ctx context.Context, in models.ProductInput) (*models.Product, error)
	Update(ctx context.Context, in models.ProductInput) (*models.Product, error)
	Delete(ctx context.Context, id int) error
}

// Matches reports whether the trimmed, lower-cased term occurs in the product title,
// category or description. An empty term matches everything.
func Matches(p models.Product, term string) bool {
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Title), term) ||
		strings.Contains(strings.ToLower(string(p.Category)), term) ||
		strings.Contains(strings.ToLower(p.Description), term)
}

// NormalizeQuery lower-cases and trims a free-text query.
func NormalizeQuery(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}

// FilterQuery keeps the products matching query, preserving order. A blank query returns
// products unchanged.
func FilterQuery(products []models.Product, query string) []models.Product {
	term := NormalizeQuery(query)
	if term == "" {
		return products
	}
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if Matches(p, term) {
			out = append(out, p)
		}
	}
	return out
}
