package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Stock ledger transaction types.
const (
	TxnSale       = "Sale"
	TxnReturn     = "Return"
	TxnAdjustment = "Adjustment"
)

// StockLedgerEntry is an append-only record of a stock movement. The balance
// snapshot is captured at write time so the entry stays self-describing even
// if the product record later changes.
type StockLedgerEntry struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	ProductID       string    `json:"item_id" gorm:"index"`
	ItemName        string    `json:"item_name"`
	TransactionType string    `json:"transaction_type" gorm:"type:VARCHAR(20)"`
	Quantity        float64   `json:"quantity"` // signed delta
	Unit            string    `json:"unit"`
	Rate            float64   `json:"rate" gorm:"type:numeric(12,2)"`
	TransactionDate time.Time `json:"transaction_date"`
	ReferenceType   string    `json:"reference_type" gorm:"type:VARCHAR(20);index:idx_stock_ledger_reference,priority:1"`
	ReferenceID     uint      `json:"reference_id" gorm:"index:idx_stock_ledger_reference,priority:2"`
	ReferenceNo     string    `json:"reference_no"`
	BalanceQty      float64   `json:"balance_qty"`
	Remarks         string    `json:"remarks"`
	CreatedByID     string    `json:"created_by"`
	CreatedAt       time.Time `json:"created_at"`
}

// RecordSale decrements a tracked product's stock and appends the matching
// ledger entry. The caller has already verified sufficiency; the CHECK
// constraint on current_stock still backstops concurrent decrements.
func RecordSale(tx *gorm.DB, product *Product, item *InvoiceItem, inv *Invoice, actor string) (*StockLedgerEntry, error) {
	level := product.Stock()
	if !level.Tracked {
		return nil, nil
	}

	res := tx.Model(&Product{}).
		Where("id = ? AND current_stock IS NOT NULL", product.Id).
		Update("current_stock", gorm.Expr("current_stock - ?", item.Quantity))
	if res.Error != nil {
		return nil, res.Error
	}

	entry := StockLedgerEntry{
		ProductID:       product.Id,
		ItemName:        item.ItemName,
		TransactionType: TxnSale,
		Quantity:        -item.Quantity,
		Unit:            item.Unit,
		Rate:            item.Rate,
		TransactionDate: time.Now(),
		ReferenceType:   "Invoice",
		ReferenceID:     inv.ID,
		ReferenceNo:     inv.InvoiceNumber,
		BalanceQty:      product.consume(item.Quantity),
		Remarks:         fmt.Sprintf("Invoice %s", inv.InvoiceNumber),
		CreatedByID:     actor,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// RecordAdjustment applies a signed manual stock correction and appends the
// matching ledger entry. The product must be tracked.
func RecordAdjustment(tx *gorm.DB, product *Product, delta float64, remarks, actor string) (*StockLedgerEntry, error) {
	level := product.Stock()
	if !level.Tracked {
		return nil, fmt.Errorf("stock is not tracked for %s", product.Name)
	}

	res := tx.Model(&Product{}).
		Where("id = ? AND current_stock IS NOT NULL", product.Id).
		Update("current_stock", gorm.Expr("current_stock + ?", delta))
	if res.Error != nil {
		return nil, res.Error
	}

	entry := StockLedgerEntry{
		ProductID:       product.Id,
		ItemName:        product.Name,
		TransactionType: TxnAdjustment,
		Quantity:        delta,
		Unit:            product.Unit,
		Rate:            product.Price,
		TransactionDate: time.Now(),
		ReferenceType:   "Adjustment",
		ReferenceNo:     "Manual",
		BalanceQty:      level.Quantity + delta,
		Remarks:         remarks,
		CreatedByID:     actor,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// ReverseInvoice restores stock for every tracked line of the invoice and
// deletes the ledger entries referencing it. Only used while the invoice is
// still a draft (update rework or deletion).
func ReverseInvoice(tx *gorm.DB, inv *Invoice) error {
	for _, item := range inv.Items {
		if item.ProductID == nil {
			continue
		}
		err := tx.Model(&Product{}).
			Where("id = ? AND current_stock IS NOT NULL", *item.ProductID).
			Update("current_stock", gorm.Expr("current_stock + ?", item.Quantity)).Error
		if err != nil {
			return err
		}
	}
	return tx.Where("reference_type = ? AND reference_id = ?", "Invoice", inv.ID).
		Delete(&StockLedgerEntry{}).Error
}
