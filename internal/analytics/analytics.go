// Package analytics derives synthetic business metrics for a product from its id.
//
// Every figure is a pure function of seed = productID * 7, so the same product always shows
// the same numbers. The only exception is LastRestock, which counts back from the supplied
// clock and is therefore stable within one day.
package analytics

import (
	"math"
	"strconv"
	"time"
)

// ISOFormat is the layout used for LastRestock.
const ISOFormat = "2006-01-02T15:04:05.000Z"

type Bundle struct {
	Rating         float64 `json:"rating"`
	ReviewCount    int     `json:"reviewCount"`
	TotalSales     int     `json:"totalSales"`
	MonthlySales   int     `json:"monthlySales"`
	WeeklySales    int     `json:"weeklySales"`
	Stock          int     `json:"stock"`
	ReservedStock  int     `json:"reservedStock"`
	MinStock       int     `json:"minStock"`
	LastRestock    string  `json:"lastRestock"`
	AvgDailySales  int     `json:"avgDailySales"`
	Revenue        float64 `json:"revenue"`
	MonthlyRevenue float64 `json:"monthlyRevenue"`
	CostPrice      int     `json:"costPrice"`
	ProfitMargin   float64 `json:"profitMargin"`
	AvgOrderValue  int     `json:"avgOrderValue"`
	ConversionRate float64 `json:"conversionRate"`
	ReturnRate     float64 `json:"returnRate"`
	ViewsCount     int     `json:"viewsCount"`
	CartAdditions  int     `json:"cartAdditions"`
}

// Seed returns the entropy source for productID.
func Seed(productID int) int {
	return productID * 7
}

// For generates the bundle for productID using the current time.
func For(productID int) Bundle {
	return Generate(productID, time.Now())
}

// Generate computes the bundle for productID. now only affects LastRestock.
func Generate(productID int, now time.Time) Bundle {
	seed := Seed(productID)

	totalSales := 100 + seed%900
	monthlySales := totalSales/12 + seed%50
	weeklySales := monthlySales/4 + seed%15

	stock := 10 + seed%90
	if seed%5 == 0 {
		stock = seed % 5
	}

	unitPrice := 19.99 + float64(seed%80)
	costPrice := 10 + seed%40

	return Bundle{
		Rating:         3.5 + float64(seed%15)/10,
		ReviewCount:    50 + seed%450,
		TotalSales:     totalSales,
		MonthlySales:   monthlySales,
		WeeklySales:    weeklySales,
		Stock:          stock,
		ReservedStock:  int(math.Floor(float64(stock) * (0.1 + float64(seed%20)/100))),
		MinStock:       5 + seed%10,
		LastRestock:    now.Add(-time.Duration(seed%30) * 24 * time.Hour).UTC().Format(ISOFormat),
		AvgDailySales:  monthlySales/30 + 1,
		Revenue:        float64(totalSales) * unitPrice,
		MonthlyRevenue: float64(monthlySales) * unitPrice,
		CostPrice:      costPrice,
		ProfitMargin:   (unitPrice - float64(costPrice)) / unitPrice * 100,
		AvgOrderValue:  25 + seed%75,
		ConversionRate: 2.5 + float64(seed%50)/10,
		ReturnRate:     1 + float64(seed%8)/10,
		ViewsCount:     totalSales * (8 + seed%12),
		CartAdditions:  int(math.Floor(float64(totalSales) * (1.5 + float64(seed%10)/10))),
	}
}

// StockLevel classifies a stock figure for display.
type StockLevel string

const (
	OutOfStock StockLevel = "out_of_stock"
	LowStock   StockLevel = "low"
	InStock    StockLevel = "in_stock"
)

// LowStockThreshold is the count below which stock is reported as running out.
const LowStockThreshold = 5

func StockStatus(stock int) StockLevel {
	switch {
	case stock <= 0:
		return OutOfStock
	case stock < LowStockThreshold:
		return LowStock
	default:
		return InStock
	}
}

// Describe renders the stock level the way the product page shows it.
func (l StockLevel) Describe(stock int) string {
	switch l {
	case OutOfStock:
		return "Out of stock"
	case LowStock:
		if stock == 1 {
			return "Last unit!"
		}
		return "Last " + strconv.Itoa(stock) + " units!"
	default:
		return "In stock (" + strconv.Itoa(stock) + " units)"
	}
}
