package reports

import (
	"testing"
	"time"

	"stockdesk/internal/models"

	"gorm.io/gorm"
)

func product(id uint, name string, price float64, stock, min int, cat *models.Category) models.Product {
	return models.Product{
		Model: gorm.Model{ID: id}, Name: name, Price: price,
		Stock: stock, MinStock: min, Category: cat,
	}
}

func sale(id uint, at time.Time, total float64, p models.Product) models.Sale {
	return models.Sale{
		Model: gorm.Model{ID: id, CreatedAt: at}, Customer: "c", Total: total,
		Product: p, Status: models.SaleCompleted,
	}
}

func TestBuild_Aggregates(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	electronics := &models.Category{Name: "Electronics"}
	clothing := &models.Category{Name: "Clothing"}

	earbuds := product(1, "Earbuds", 50, 8, 10, electronics)
	shirt := product(2, "Shirt", 20, 100, 5, clothing)
	mouse := product(3, "Mouse", 30, 0, 5, electronics)
	charger := product(4, "Charger", 10, 3, 10, nil)

	in := Input{
		Now:      now,
		Products: []models.Product{earbuds, shirt, mouse, charger},
		Sales: []models.Sale{
			sale(1, now.Add(-time.Hour), 100, earbuds),
			sale(2, now.AddDate(0, 0, -1), 40, shirt),
			sale(3, now.AddDate(0, 0, -6), 60, mouse),
			sale(4, now.AddDate(0, 0, -30), 500, charger), // outside the week
		},
		Purchases: []models.Purchase{
			{Model: gorm.Model{ID: 9, CreatedAt: now.Add(-2 * time.Hour)}, Total: 75,
				Status: models.PurchasePending, Vendor: models.Vendor{Name: "Acme"}},
			{Model: gorm.Model{ID: 10, CreatedAt: now.AddDate(0, 0, -2)}, Total: 25,
				Status: models.PurchaseReceived, Vendor: models.Vendor{Name: "Bolt"}},
		},
	}

	s := Build(in)

	if s.TotalSales != 700 || s.TodaySales != 100 || s.TodayPurchases != 75 {
		t.Errorf("totals = %v/%v/%v", s.TotalSales, s.TodaySales, s.TodayPurchases)
	}
	if s.StockValue != 50*8+20*100+10*3 || s.StockCount != 111 {
		t.Errorf("stock = %v / %d", s.StockValue, s.StockCount)
	}
	if s.InventoryStatus != (InventoryStatus{InStock: 1, LowStock: 2, OutOfStock: 1}) {
		t.Errorf("inventory status = %+v", s.InventoryStatus)
	}

	wantWeek := []float64{60, 0, 0, 0, 0, 40, 100}
	for i, v := range wantWeek {
		if s.WeeklySales[i] != v {
			t.Errorf("weekly[%d] = %v, want %v (all %v)", i, s.WeeklySales[i], v, s.WeeklySales)
		}
	}

	if len(s.TopCategories) != 3 || s.TopCategories[0].Name != "Uncategorized" ||
		s.TopCategories[1] != (CategoryTotal{Name: "Electronics", Value: 160}) {
		t.Errorf("top categories = %+v", s.TopCategories)
	}

	if len(s.RecentTransactions) != 5 {
		t.Fatalf("recent = %+v", s.RecentTransactions)
	}
	first := s.RecentTransactions[0]
	if first.Type != "Sale" || first.ID != 1 {
		t.Errorf("newest should be sale 1, got %+v", first)
	}
	second := s.RecentTransactions[1]
	if second.Type != "Purchase" || second.Customer != "Acme" || second.Status != "Pending" {
		t.Errorf("second should be pending Acme purchase, got %+v", second)
	}

	if len(s.LowStockItems) != 2 || s.LowStockItems[0].Name != "Charger" || s.LowStockItems[1].Name != "Earbuds" {
		t.Errorf("low stock = %+v", s.LowStockItems)
	}
}

func TestBuild_Empty_NonNilSlices(t *testing.T) {
	s := Build(Input{Now: time.Now()})
	if s.TopCategories == nil || s.RecentTransactions == nil || s.LowStockItems == nil {
		t.Errorf("empty summary must encode lists as []")
	}
	if len(s.WeeklySales) != 7 {
		t.Errorf("weekly sales length = %d", len(s.WeeklySales))
	}
}

func TestBuild_TopCategoriesCapped(t *testing.T) {
	now := time.Now()
	var sales []models.Sale
	for i, name := range []string{"A", "B", "C", "D", "E", "F", "G"} {
		p := product(uint(i+1), name, 1, 1, 0, &models.Category{Name: name})
		sales = append(sales, sale(uint(i+1), now, float64(i+1), p))
	}
	s := Build(Input{Now: now, Sales: sales})
	if len(s.TopCategories) != 5 || s.TopCategories[0].Name != "G" || s.TopCategories[4].Name != "C" {
		t.Errorf("top categories = %+v", s.TopCategories)
	}
}
