package catalog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lukman83/vitrine/internal/models"
	"github.com/lukman83/vitrine/internal/platform"
)

// Filter keeps the products in category (any category for AllCategories or "") that match
// query, preserving order.
func Filter(products []models.Product, category models.Category, query string) []models.Product {
	term := platform.NormalizeQuery(query)
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if category != "" && category != models.AllCategories && p.Category != category {
			continue
		}
		if platform.Matches(p, term) {
			out = append(out, p)
		}
	}
	return out
}

type CategoryCount struct {
	Category models.Category `json:"category"`
	Label    string          `json:"label"`
	Count    int             `json:"count"`
}

// CategoryCounts counts products per category, most populated first and by name on ties.
func CategoryCounts(products []models.Product) []CategoryCount {
	counts := make(map[models.Category]int)
	for _, p := range products {
		counts[p.Category]++
	}
	out := make([]CategoryCount, 0, len(counts))
	for c, n := range counts {
		out = append(out, CategoryCount{Category: c, Label: c.Label(), Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// ParseCategory accepts a category value or its label, case-insensitively. Blank input
// and "all" yield AllCategories.
func ParseCategory(s string) (models.Category, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, string(models.AllCategories)) {
		return models.AllCategories, nil
	}
	for _, c := range models.Categories() {
		if strings.EqualFold(s, string(c)) || strings.EqualFold(s, c.Label()) {
			return c, nil
		}
	}
	names := make([]string, 0, 5)
	for _, c := range models.Categories() {
		names = append(names, string(c))
	}
	return "", fmt.Errorf("unknown category %q (want one of: all, %s)", s, strings.Join(names, ", "))
}
