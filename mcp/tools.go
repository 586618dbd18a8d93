package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lukman83/vitrine/internal/catalog"
	"github.com/lukman83/vitrine/internal/models"
	"github.com/lukman83/vitrine/internal/platform"
	"github.com/lukman83/vitrine/internal/suggest"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Options tunes the tools that are not plain catalog calls.
type Options struct {
	MinSearchLength int
	MaxSuggestions  int
}

type tools struct {
	svc  *catalog.Service
	opts Options
}

func registerTools(s *server.MCPServer, svc *catalog.Service, opts Options) {
	t := &tools{svc: svc, opts: opts}
	categories := make([]string, 0, 5)
	categories = append(categories, string(models.AllCategories))
	for _, c := range models.Categories() {
		categories = append(categories, string(c))
	}

	// list_products
	s.AddTool(mcp.NewTool("list_products",
		mcp.WithDescription("List catalog products, optionally filtered by a search query and a category"),
		mcp.WithString("query",
			mcp.Description("Case-insensitive text matched against title, category and description"),
		),
		mcp.WithString("category",
			mcp.Description("Category filter (default: all)"),
			mcp.Enum(categories...),
		),
	), t.handleListProducts)

	// get_product
	s.AddTool(mcp.NewTool("get_product",
		mcp.WithDescription("Get product details with synthetic sales and stock analytics"),
		mcp.WithNumber("id",
			mcp.Description("Product id"),
		),
		mcp.WithString("ids",
			mcp.Description("Comma separated product ids, fetched concurrently"),
		),
	), t.handleGetProduct)

	// product_analytics
	s.AddTool(mcp.NewTool("product_analytics",
		mcp.WithDescription("Get the synthetic analytics bundle of a product id"),
		mcp.WithNumber("id",
			mcp.Required(),
			mcp.Description("Product id"),
		),
	), t.handleProductAnalytics)

	// suggest_products
	s.AddTool(mcp.NewTool("suggest_products",
		mcp.WithDescription("Search-as-you-type suggestions for a partial query"),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Text typed so far"),
		),
		mcp.WithString("category",
			mcp.Description("Restrict suggestions to a category (default: all)"),
			mcp.Enum(categories...),
		),
	), t.handleSuggestProducts)

	// list_categories
	s.AddTool(mcp.NewTool("list_categories",
		mcp.WithDescription("Count catalog products per category"),
	), t.handleListCategories)

	// create_product
	s.AddTool(mcp.NewTool("create_product",
		append([]mcp.ToolOption{mcp.WithDescription("Create a product")}, productFields(true)...)...,
	), t.handleCreateProduct)

	// update_product
	s.AddTool(mcp.NewTool("update_product",
		append([]mcp.ToolOption{
			mcp.WithDescription("Update a product; omitted fields keep their current value"),
			mcp.WithNumber("id", mcp.Required(), mcp.Description("Product id")),
		}, productFields(false)...)...,
	), t.handleUpdateProduct)

	// delete_product
	s.AddTool(mcp.NewTool("delete_product",
		mcp.WithDescription("Delete a product"),
		mcp.WithNumber("id",
			mcp.Required(),
			mcp.Description("Product id"),
		),
	), t.handleDeleteProduct)
}

func productFields(required bool) []mcp.ToolOption {
	prop := func(desc string) []mcp.PropertyOption {
		opts := []mcp.PropertyOption{mcp.Description(desc)}
		if required {
			opts = append(opts, mcp.Required())
		}
		return opts
	}
	return []mcp.ToolOption{
		mcp.WithString("title", prop("Title, 3 to 200 characters")...),
		mcp.WithNumber("price", prop("Price, positive, at most two decimals")...),
		mcp.WithString("description", prop("Description, 10 to 1000 characters")...),
		mcp.WithString("category", prop("One of: electronics, jewelery, men's clothing, women's clothing")...),
		mcp.WithString("image", prop("Image URL")...),
	}
}

func (t *tools) handleListProducts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	category, err := catalog.ParseCategory(request.GetString("category", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	query := request.GetString("query", "")

	products, err := t.svc.Products(ctx, "")
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(catalog.Filter(products, category, query))
}

func (t *tools) handleGetProduct(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ids, err := parseIDs(request.GetString("ids", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if id := request.GetInt("id", 0); id > 0 {
		ids = append([]int{id}, ids...)
	}
	switch len(ids) {
	case 0:
		return mcp.NewToolResultError("id or ids is required"), nil
	case 1:
		d, err := t.svc.Detail(ctx, ids[0])
		if err != nil {
			return toolError(err), nil
		}
		return jsonResult(d)
	default:
		ds, err := t.svc.Details(ctx, ids)
		if err != nil {
			return toolError(err), nil
		}
		return jsonResult(ds)
	}
}

func (t *tools) handleProductAnalytics(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := request.GetInt("id", 0)
	if id <= 0 {
		return mcp.NewToolResultError("id must be a positive integer"), nil
	}
	d, err := t.svc.Detail(ctx, id)
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(d.Analytics)
}

func (t *tools) handleSuggestProducts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text := request.GetString("text", "")
	category, err := catalog.ParseCategory(request.GetString("category", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	products, err := t.svc.Products(ctx, "")
	if err != nil {
		return toolError(err), nil
	}
	engine := suggest.NewEngine(t.opts.MinSearchLength, t.opts.MaxSuggestions)
	if !engine.Searchable(text) {
		return mcp.NewToolResultError(fmt.Sprintf("type at least %d characters", engine.MinSearchLength())), nil
	}
	return jsonResult(engine.Suggest(catalog.Filter(products, category, ""), text))
}

func (t *tools) handleListCategories(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	counts, err := t.svc.Categories(ctx)
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(counts)
}

func (t *tools) handleCreateProduct(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	in := inputFrom(request, models.ProductInput{})
	p, err := t.svc.Create(ctx, in)
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(p)
}

func (t *tools) handleUpdateProduct(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := request.GetInt("id", 0)
	if id <= 0 {
		return mcp.NewToolResultError("id must be a positive integer"), nil
	}
	current, err := t.svc.Product(ctx, id)
	if err != nil {
		return toolError(err), nil
	}
	p, err := t.svc.Update(ctx, inputFrom(request, current.Input()))
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(p)
}

func (t *tools) handleDeleteProduct(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := request.GetInt("id", 0)
	if id <= 0 {
		return mcp.NewToolResultError("id must be a positive integer"), nil
	}
	if err := t.svc.Delete(ctx, id); err != nil {
		return toolError(err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("product %d deleted", id)), nil
}

// inputFrom overlays the product fields present in request onto base.
func inputFrom(request mcp.CallToolRequest, base models.ProductInput) models.ProductInput {
	base.Title = request.GetString("title", base.Title)
	base.Price = request.GetFloat("price", base.Price)
	base.Description = request.GetString("description", base.Description)
	base.Category = models.Category(request.GetString("category", string(base.Category)))
	base.Image = request.GetString("image", base.Image)
	return base
}

func parseIDs(s string) ([]int, error) {
	var ids []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid product id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// toolError reports a source failure with its display message.
func toolError(err error) *mcp.CallToolResult {
	var fe *platform.FetchError
	if errors.As(err, &fe) {
		return mcp.NewToolResultError(fe.Message)
	}
	return mcp.NewToolResultError(err.Error())
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
