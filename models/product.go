package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StockLevel is the tagged stock state of a product. Untracked products
// (Tracked=false) never hit the stock ledger and never reject a sale.
type StockLevel struct {
	Tracked  bool
	Quantity float64
	MinAlert float64
}

type Product struct {
	Id          string `json:"id" gorm:"primaryKey"`
	Code        string `json:"code" gorm:"uniqueIndex"`
	Name        string `json:"name" gorm:"not null"`
	Description string `json:"description"`
	HSNCode     string `json:"hsn_code"`
	Unit        string `json:"unit" gorm:"default:'Pcs'"`

	Price      float64 `json:"price" gorm:"type:numeric(12,2)"`
	GSTPercent float64 `json:"gst_percent"`

	// NULL means stock is untracked; read through Stock().
	CurrentStock  *float64 `json:"current_stock" gorm:"type:numeric(12,2)"`
	MinStockAlert *float64 `json:"min_stock_alert" gorm:"type:numeric(12,2)"`

	Active bool `json:"-" gorm:"default:true"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (product *Product) BeforeCreate(tx *gorm.DB) (err error) {
	// UUID version 4
	if product.Id == "" {
		product.Id = uuid.NewString()
	}
	return
}

// consume moves the in-memory stock snapshot in step with a row decrement and
// returns the balance after it, so successive ledger entries written from one
// invoice chain their balances instead of all reading the pre-invoice value.
// No-op (returns 0) for untracked products.
func (product *Product) consume(qty float64) float64 {
	if product.CurrentStock == nil {
		return 0
	}
	balance := *product.CurrentStock - qty
	product.CurrentStock = &balance
	return balance
}

// Stock returns the product's stock state as a tagged value so callers never
// branch on the nullable column directly.
func (product *Product) Stock() StockLevel {
	if product.CurrentStock == nil {
		return StockLevel{}
	}
	level := StockLevel{Tracked: true, Quantity: *product.CurrentStock}
	if product.MinStockAlert != nil {
		level.MinAlert = *product.MinStockAlert
	}
	return level
}
