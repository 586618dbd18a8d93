package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/lukman83/vitrine/internal/analytics"
	"github.com/lukman83/vitrine/internal/catalog"
	"github.com/lukman83/vitrine/internal/models"
	"github.com/lukman83/vitrine/internal/money"
	"golang.org/x/net/html"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printProductsTable prints products in a human-friendly card layout.
func printProductsTable(w io.Writer, products []models.Product) {
	if len(products) == 0 {
		fmt.Fprintln(w, "No products found.")
		return
	}
	for i, p := range products {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, " %d. %s\n", i+1, p.Title)
		fmt.Fprintf(w, "    Price: %s  |  Category: %s  |  ID: %d\n", money.FormatUSD(p.Price), p.Category.Label(), p.ID)
		fmt.Fprintf(w, "    %s\n", truncate(plainText(p.Description), 100))
	}
}

// printDetail prints one product with its analytics.
func printDetail(w io.Writer, d catalog.Detail) {
	p := d.Product
	fmt.Fprintf(w, "%s\n", p.Title)
	fmt.Fprintf(w, "  ID: %d  |  %s  |  %s\n", p.ID, p.Category.Label(), money.FormatUSD(p.Price))
	fmt.Fprintf(w, "  %s\n", plainText(p.Description))
	fmt.Fprintf(w, "  Image: %s\n", p.Image)
	fmt.Fprintf(w, "  Stock: %s\n", d.StockLabel)
	printAnalytics(w, d.Analytics)
}

func printAnalytics(w io.Writer, b analytics.Bundle) {
	fmt.Fprintf(w, "  Rating: %.1f (%d reviews)\n", b.Rating, b.ReviewCount)
	fmt.Fprintf(w, "  Sales: %d total, %d this month, %d this week (avg %d/day)\n",
		b.TotalSales, b.MonthlySales, b.WeeklySales, b.AvgDailySales)
	fmt.Fprintf(w, "  Revenue: %s total, %s this month\n", money.FormatUSD(b.Revenue), money.FormatUSD(b.MonthlyRevenue))
	fmt.Fprintf(w, "  Margin: %.1f%% (cost %s)  |  AOV: %s\n",
		b.ProfitMargin, money.FormatUSD(float64(b.CostPrice)), money.FormatUSD(float64(b.AvgOrderValue)))
	fmt.Fprintf(w, "  Stock: %d (%d reserved, min %d), last restock %s\n",
		b.Stock, b.ReservedStock, b.MinStock, b.LastRestock)
	fmt.Fprintf(w, "  Funnel: %d views, %d cart additions, %.1f%% conversion, %.1f%% returns\n",
		b.ViewsCount, b.CartAdditions, b.ConversionRate, b.ReturnRate)
}

// plainText strips any markup from an upstream description and collapses whitespace.
func plainText(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.Join(strings.Fields(s), " ")
	}
	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.Join(strings.Fields(b.String()), " ")
		case html.TextToken:
			b.Write(z.Text())
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			b.WriteByte(' ')
		}
	}
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}
