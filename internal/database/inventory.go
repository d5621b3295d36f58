package database

import (
	"context"
	"errors"
	"time"

	"stockdesk/internal/models"
	"stockdesk/internal/reports"

	"gorm.io/gorm"
)

var (
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrAlreadyReceived   = errors.New("purchase already received")
)

// RecordSale stores the sale and takes its quantity out of stock atomically.
// UnitPrice defaults to the product price; Total is computed.
func RecordSale(ctx context.Context, db *gorm.DB, sale *models.Sale) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, sale.ProductID).Error; err != nil {
			return err
		}

		// conditional decrement; concurrent sales cannot oversell
		res := tx.Model(&models.Product{}).
			Where("id = ? AND stock >= ?", product.ID, sale.Quantity).
			Update("stock", gorm.Expr("stock - ?", sale.Quantity))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInsufficientStock
		}

		if sale.UnitPrice <= 0 {
			sale.UnitPrice = product.Price
		}
		sale.Total = sale.UnitPrice * float64(sale.Quantity)
		sale.Status = models.SaleCompleted
		return tx.Create(sale).Error
	})
}

// ReceivePurchase marks a pending purchase received and adds it to stock once.
func ReceivePurchase(ctx context.Context, db *gorm.DB, id uint) (*models.Purchase, error) {
	var purchase models.Purchase
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&purchase, id).Error; err != nil {
			return err
		}
		return receive(tx, &purchase)
	})
	if err != nil {
		return nil, err
	}
	return &purchase, nil
}

// CreatePurchase stores a pending purchase and, with receiveNow, receives it
// in the same transaction. Nothing is stored when either step fails.
func CreatePurchase(ctx context.Context, db *gorm.DB, purchase *models.Purchase, receiveNow bool) error {
	purchase.Status = models.PurchasePending
	purchase.Total = purchase.UnitCost * float64(purchase.Quantity)

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(purchase).Error; err != nil {
			return err
		}
		if !receiveNow {
			return nil
		}
		return receive(tx, purchase)
	})
}

func receive(tx *gorm.DB, purchase *models.Purchase) error {
	res := tx.Model(&models.Purchase{}).
		Where("id = ? AND status = ?", purchase.ID, models.PurchasePending).
		Update("status", models.PurchaseReceived)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrAlreadyReceived
	}

	purchase.Status = models.PurchaseReceived
	return tx.Model(&models.Product{}).
		Where("id = ?", purchase.ProductID).
		Update("stock", gorm.Expr("stock + ?", purchase.Quantity)).Error
}

// VoidSale deletes a sale and returns its quantity to stock.
func VoidSale(ctx context.Context, db *gorm.DB, id uint) (*models.Sale, error) {
	var sale models.Sale
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&sale, id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Sale{}, id).Error; err != nil {
			return err
		}
		return tx.Model(&models.Product{}).
			Where("id = ?", sale.ProductID).
			Update("stock", gorm.Expr("stock + ?", sale.Quantity)).Error
	})
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

// DeletePendingPurchase removes a purchase that has not been received yet.
// Received purchases are already in stock and stay on record.
func DeletePendingPurchase(ctx context.Context, db *gorm.DB, id uint) error {
	db = db.WithContext(ctx)
	res := db.Where("id = ? AND status = ?", id, models.PurchasePending).Delete(&models.Purchase{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}
	var purchase models.Purchase
	if err := db.First(&purchase, id).Error; err != nil {
		return err
	}
	return ErrAlreadyReceived
}

// LoadSummary reads the rows behind the dashboard and aggregates them.
func LoadSummary(ctx context.Context, db *gorm.DB, now time.Time) (reports.Summary, error) {
	in := reports.Input{Now: now}
	db = db.WithContext(ctx)

	if err := db.Find(&in.Products).Error; err != nil {
		return reports.Summary{}, err
	}
	if err := db.Preload("Product.Category").Find(&in.Sales).Error; err != nil {
		return reports.Summary{}, err
	}
	if err := db.Preload("Vendor").Find(&in.Purchases).Error; err != nil {
		return reports.Summary{}, err
	}
	return reports.Build(in), nil
}
