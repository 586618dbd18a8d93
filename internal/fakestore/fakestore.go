// Package fakestore implements platform.Source against a FakeStore-compatible REST API.
package fakestore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/lukman83/vitrine/internal/httputil"
	"github.com/lukman83/vitrine/internal/models"
	"github.com/lukman83/vitrine/internal/platform"
	"github.com/lukman83/vitrine/internal/schema"
)

// DefaultBaseURL is the public FakeStore API.
const DefaultBaseURL = "https://fakestoreapi.com"

// Client talks to {BaseURL}/products.
type Client struct {
	client     *http.Client
	baseURL    string
	maxRetries int
}

// NewClient creates a client for baseURL (DefaultBaseURL when empty).
func NewClient(client *http.Client, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if client == nil {
		client = httputil.NewHTTPClient(nil, 0)
	}
	return &Client{
		client:     client,
		baseURL:    strings.TrimRight(baseURL, "/"),
		maxRetries: 2,
	}
}

func (c *Client) productsURL() string {
	return c.baseURL + "/products"
}

func (c *Client) productURL(id int) string {
	return c.productsURL() + "/" + strconv.Itoa(id)
}

// List fetches every product and, for a non-blank query, keeps the ones whose title,
// category or description contains it.
func (c *Client) List(ctx context.Context, query string) ([]models.Product, error) {
	platform.ReportProgress(ctx, "Fetching products from %s...", c.baseURL)

	var products []models.Product
	if err := c.do(ctx, http.MethodGet, c.productsURL(), nil, &products); err != nil {
		return nil, c.fail(ctx, platform.OpList, 0, err)
	}
	products = platform.FilterQuery(products, query)
	if err := schema.ValidateProducts(products); err != nil {
		return nil, platform.ValidationError(platform.OpList, 0, err)
	}

	platform.ReportProgress(ctx, "Found %d products", len(products))
	return products, nil
}

func (c *Client) Get(ctx context.Context, id int) (*models.Product, error) {
	var p *models.Product
	if err := c.do(ctx, http.MethodGet, c.productURL(id), nil, &p); err != nil {
		return nil, c.fail(ctx, platform.OpGet, id, err)
	}
	// FakeStore answers unknown ids with 200 and an empty body
	if p == nil {
		return nil, platform.HTTPError(platform.OpGet, id, http.StatusNotFound)
	}
	if err := schema.ValidateProduct(*p); err != nil {
		return nil, platform.ValidationError(platform.OpGet, id, err)
	}
	return p, nil
}

func (c *Client) Create(ctx context.Context, in models.ProductInput) (*models.Product, error) {
	in.ID = 0
	if err := schema.ValidateInput(in, schema.Create); err != nil {
		return nil, platform.ValidationError(platform.OpCreate, 0, err)
	}
	var p *models.Product
	if err := c.do(ctx, http.MethodPost, c.productsURL(), in, &p); err != nil {
		return nil, c.fail(ctx, platform.OpCreate, 0, err)
	}
	return c.validated(ctx, platform.OpCreate, 0, p)
}

func (c *Client) Update(ctx context.Context, in models.ProductInput) (*models.Product, error) {
	if err := schema.ValidateInput(in, schema.Update); err != nil {
		return nil, platform.ValidationError(platform.OpUpdate, in.ID, err)
	}
	var p *models.Product
	if err := c.do(ctx, http.MethodPut, c.productURL(in.ID), in, &p); err != nil {
		return nil, c.fail(ctx, platform.OpUpdate, in.ID, err)
	}
	return c.validated(ctx, platform.OpUpdate, in.ID, p)
}

func (c *Client) Delete(ctx context.Context, id int) error {
	if err := c.do(ctx, http.MethodDelete, c.productURL(id), nil, nil); err != nil {
		return c.fail(ctx, platform.OpDelete, id, err)
	}
	return nil
}

func (c *Client) validated(ctx context.Context, op string, id int, p *models.Product) (*models.Product, error) {
	if p == nil {
		return nil, platform.Normalize(ctx, op, id, fmt.Errorf("empty response body"))
	}
	if err := schema.ValidateProduct(*p); err != nil {
		return nil, platform.ValidationError(op, id, err)
	}
	return p, nil
}

// statusError carries a non-2xx status out of do so fail can label it.
type statusError struct{ code int }

func (e statusError) Error() string { return "status " + strconv.Itoa(e.code) }

func (c *Client) fail(ctx context.Context, op string, id int, err error) error {
	if ctx.Err() != nil {
		return err
	}
	if se, ok := err.(statusError); ok {
		return platform.HTTPError(op, id, se.code)
	}
	// a payload of the wrong shape is a schema problem, not a transport one
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return platform.ValidationError(op, id, schema.Errors{{
			Path:    typeErr.Field,
			Message: "expected " + typeErr.Type.String(),
		}})
	}
	return platform.Normalize(ctx, op, id, err)
}

// do sends body as JSON (when non-nil) and decodes a non-empty response into out
// (when non-nil).
func (c *Client) do(ctx context.Context, method, url string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	if body == nil {
		req.Body, req.GetBody, req.ContentLength = http.NoBody, nil, 0
	}
	httputil.Apply(req, httputil.JSONHeaders())

	resp, err := httputil.DoWithRetry(c.client, req, c.maxRetries)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError{code: resp.StatusCode}
	}

	data, err := httputil.ReadBody(resp)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
