// Package reports aggregates stored inventory rows into the dashboard summary.
package reports

import (
	"sort"
	"time"

	"stockdesk/internal/models"
)

const (
	weekDays        = 7
	topCategoryCap  = 5
	recentCap       = 5
	uncategorized   = "Uncategorized"
	kindSale        = "Sale"
	kindPurchase    = "Purchase"
	statusCompleted = "Completed"
	statusPending   = "Pending"
)

type InventoryStatus struct {
	InStock    int `json:"in_stock"`
	LowStock   int `json:"low_stock"`
	OutOfStock int `json:"out_of_stock"`
}

type CategoryTotal struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

type Transaction struct {
	ID       uint      `json:"id"`
	Customer string    `json:"customer"` // vendor name for purchases
	Amount   float64   `json:"amount"`
	Status   string    `json:"status"`
	Type     string    `json:"type"`
	At       time.Time `json:"at"`
}

type LowStockItem struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	Current int    `json:"current"`
	Min     int    `json:"min"`
}

type Summary struct {
	TotalSales         float64         `json:"total_sales"`
	TodaySales         float64         `json:"today_sales"`
	TodayPurchases     float64         `json:"today_purchases"`
	StockValue         float64         `json:"stock_value"`
	StockCount         int             `json:"stock_count"`
	InventoryStatus    InventoryStatus `json:"inventory_status"`
	WeeklySales        []float64       `json:"weekly_sales"` // oldest first, last entry is today
	TopCategories      []CategoryTotal `json:"top_categories"`
	RecentTransactions []Transaction   `json:"recent_transactions"`
	LowStockItems      []LowStockItem  `json:"low_stock_items"`
}

// Input is everything Build needs. Sales and purchases should have
// Product (and Product.Category, Vendor) preloaded for names.
type Input struct {
	Now       time.Time
	Products  []models.Product
	Sales     []models.Sale
	Purchases []models.Purchase
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// IsLowStock: in stock but at or below the minimum.
func IsLowStock(p models.Product) bool {
	return p.Stock > 0 && p.Stock <= p.MinStock
}

func Build(in Input) Summary {
	today := startOfDay(in.Now)
	weekStart := today.AddDate(0, 0, -(weekDays - 1))

	s := Summary{
		WeeklySales:        make([]float64, weekDays),
		TopCategories:      []CategoryTotal{},
		RecentTransactions: []Transaction{},
		LowStockItems:      []LowStockItem{},
	}

	for _, p := range in.Products {
		s.StockValue += p.Price * float64(p.Stock)
		s.StockCount += p.Stock
		switch {
		case p.Stock <= 0:
			s.InventoryStatus.OutOfStock++
		case IsLowStock(p):
			s.InventoryStatus.LowStock++
			s.LowStockItems = append(s.LowStockItems, LowStockItem{
				ID: p.ID, Name: p.Name, Current: p.Stock, Min: p.MinStock,
			})
		default:
			s.InventoryStatus.InStock++
		}
	}
	sort.SliceStable(s.LowStockItems, func(i, j int) bool {
		return s.LowStockItems[i].Current < s.LowStockItems[j].Current
	})

	byCategory := map[string]float64{}
	var recent []Transaction
	for _, sale := range in.Sales {
		s.TotalSales += sale.Total
		day := startOfDay(sale.CreatedAt.In(in.Now.Location()))
		if day.Equal(today) {
			s.TodaySales += sale.Total
		}
		if !day.Before(weekStart) && !day.After(today) {
			idx := int(day.Sub(weekStart).Hours()/24 + 0.5)
			if idx >= 0 && idx < weekDays {
				s.WeeklySales[idx] += sale.Total
			}
		}

		name := uncategorized
		if sale.Product.Category != nil && sale.Product.Category.Name != "" {
			name = sale.Product.Category.Name
		}
		byCategory[name] += sale.Total

		recent = append(recent, Transaction{
			ID: sale.ID, Customer: sale.Customer, Amount: sale.Total,
			Status: statusCompleted, Type: kindSale, At: sale.CreatedAt,
		})
	}

	for _, p := range in.Purchases {
		day := startOfDay(p.CreatedAt.In(in.Now.Location()))
		if day.Equal(today) {
			s.TodayPurchases += p.Total
		}
		status := statusPending
		if p.Status == models.PurchaseReceived {
			status = statusCompleted
		}
		recent = append(recent, Transaction{
			ID: p.ID, Customer: p.Vendor.Name, Amount: p.Total,
			Status: status, Type: kindPurchase, At: p.CreatedAt,
		})
	}

	for name, value := range byCategory {
		s.TopCategories = append(s.TopCategories, CategoryTotal{Name: name, Value: value})
	}
	sort.Slice(s.TopCategories, func(i, j int) bool {
		a, b := s.TopCategories[i], s.TopCategories[j]
		if a.Value != b.Value {
			return a.Value > b.Value
		}
		return a.Name < b.Name
	})
	if len(s.TopCategories) > topCategoryCap {
		s.TopCategories = s.TopCategories[:topCategoryCap]
	}

	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].At.After(recent[j].At)
	})
	if len(recent) > recentCap {
		recent = recent[:recentCap]
	}
	s.RecentTransactions = append(s.RecentTransactions, recent...)

	return s
}
