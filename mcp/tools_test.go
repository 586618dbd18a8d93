package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lukman83/vitrine/internal/catalog"
	"github.com/lukman83/vitrine/internal/models"
	"github.com/lukman83/vitrine/internal/platform"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memSource struct {
	products []models.Product
}

func (s *memSource) List(_ context.Context, query string) ([]models.Product, error) {
	return platform.FilterQuery(append([]models.Product(nil), s.products...), query), nil
}

func (s *memSource) Get(_ context.Context, id int) (*models.Product, error) {
	for _, p := range s.products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, platform.HTTPError(platform.OpGet, id, http.StatusNotFound)
}

func (s *memSource) Create(_ context.Context, in models.ProductInput) (*models.Product, error) {
	p := in.Product(len(s.products) + 1)
	s.products = append(s.products, p)
	return &p, nil
}

func (s *memSource) Update(_ context.Context, in models.ProductInput) (*models.Product, error) {
	for i := range s.products {
		if s.products[i].ID == in.ID {
			s.products[i] = in.Product(in.ID)
			return &s.products[i], nil
		}
	}
	return nil, platform.HTTPError(platform.OpUpdate, in.ID, http.StatusNotFound)
}

func (s *memSource) Delete(_ context.Context, id int) error {
	for i := range s.products {
		if s.products[i].ID == id {
			s.products = append(s.products[:i], s.products[i+1:]...)
			return nil
		}
	}
	return platform.HTTPError(platform.OpDelete, id, http.StatusNotFound)
}

func newTools() *tools {
	src := &memSource{products: []models.Product{
		{ID: 1, Title: "Gold Ring", Price: 168, Description: "Classic created wedding ring.", Category: models.Jewelery, Image: "https://example.com/1.png"},
		{ID: 2, Title: "SSD Drive", Price: 109, Description: "Fast internal solid state drive.", Category: models.Electronics, Image: "https://example.com/2.png"},
		{ID: 3, Title: "Monitor 24in", Price: 599.99, Description: "Full HD monitor with thin bezels.", Category: models.Electronics, Image: "https://example.com/3.png"},
	}}
	return &tools{svc: catalog.NewService(src, nil), opts: Options{}}
}

func call(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return tc.Text
}

func TestListProducts(t *testing.T) {
	tl := newTools()

	res, err := tl.handleListProducts(context.Background(), call(map[string]any{"category": "electronics", "query": "monitor"}))
	require.NoError(t, err)
	require.False(t, res.IsError)

	var ps []models.Product
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &ps))
	require.Len(t, ps, 1)
	assert.Equal(t, 3, ps[0].ID)

	res, err = tl.handleListProducts(context.Background(), call(map[string]any{"category": "toys"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestGetProduct(t *testing.T) {
	tl := newTools()

	res, err := tl.handleGetProduct(context.Background(), call(map[string]any{"id": float64(2)}))
	require.NoError(t, err)
	var d catalog.Detail
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &d))
	assert.Equal(t, "SSD Drive", d.Product.Title)
	assert.Equal(t, 114, d.Analytics.TotalSales)

	res, err = tl.handleGetProduct(context.Background(), call(map[string]any{"ids": "3, 1"}))
	require.NoError(t, err)
	var ds []catalog.Detail
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &ds))
	require.Len(t, ds, 2)
	assert.Equal(t, 3, ds[0].Product.ID)

	res, err = tl.handleGetProduct(context.Background(), call(map[string]any{"id": float64(42)}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Equal(t, "fetch product 42 failed: 404 Not Found", text(t, res))
}

func TestSuggestProducts(t *testing.T) {
	tl := newTools()

	res, err := tl.handleSuggestProducts(context.Background(), call(map[string]any{"text": "dri"}))
	require.NoError(t, err)
	var ps []models.Product
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &ps))
	require.Len(t, ps, 1)
	assert.Equal(t, 2, ps[0].ID)

	res, err = tl.handleSuggestProducts(context.Background(), call(map[string]any{"text": "d"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestMutations(t *testing.T) {
	tl := newTools()
	ctx := context.Background()

	res, err := tl.handleUpdateProduct(ctx, call(map[string]any{"id": float64(2), "price": 89.5}))
	require.NoError(t, err)
	require.False(t, res.IsError, text(t, res))
	var p models.Product
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &p))
	assert.Equal(t, 89.5, p.Price)
	assert.Equal(t, "SSD Drive", p.Title)

	res, err = tl.handleCreateProduct(ctx, call(map[string]any{
		"title":       "Silk Scarf",
		"price":       25.0,
		"description": "Light scarf for every season.",
		"category":    "women's clothing",
		"image":       "https://example.com/4.png",
	}))
	require.NoError(t, err)
	require.False(t, res.IsError, text(t, res))

	res, err = tl.handleDeleteProduct(ctx, call(map[string]any{"id": float64(1)}))
	require.NoError(t, err)
	assert.Equal(t, "product 1 deleted", text(t, res))

	res, err = tl.handleListCategories(ctx, call(nil))
	require.NoError(t, err)
	var counts []catalog.CategoryCount
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &counts))
	require.Len(t, counts, 2)
	assert.Equal(t, models.Electronics, counts[0].Category)
}

func TestHandler_HealthAndAuth(t *testing.T) {
	srv := httptest.NewServer(Handler(newTools().svc, Options{}, "secret"))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Post(srv.URL+"/mcp", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/mcp", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
