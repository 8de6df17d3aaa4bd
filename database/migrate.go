package database

import (
	"fmt"

	"gorm.io/gorm"
)

// Harden applies idempotent post-AutoMigrate hardening:
// - Money column types (NUMERIC(12,2))
// - Composite indexes (payment entries, stock ledger references)
// - Basic CHECK constraints (non-negative amounts, stock and sequence floor)
func Harden() error {
	return DB.Transaction(func(tx *gorm.DB) error {
		// --- Enforce money columns as NUMERIC(12,2) (idempotent ALTERs) ---
		alters := []string{
			`ALTER TABLE products            ALTER COLUMN price           TYPE numeric(12,2)`,
			`ALTER TABLE invoices            ALTER COLUMN subtotal        TYPE numeric(12,2)`,
			`ALTER TABLE invoices            ALTER COLUMN total_tax       TYPE numeric(12,2)`,
			`ALTER TABLE invoices            ALTER COLUMN grand_total     TYPE numeric(12,2)`,
			`ALTER TABLE invoices            ALTER COLUMN paid_amount     TYPE numeric(12,2)`,
			`ALTER TABLE invoices            ALTER COLUMN balance_amount  TYPE numeric(12,2)`,
			`ALTER TABLE invoice_items       ALTER COLUMN rate            TYPE numeric(12,2)`,
			`ALTER TABLE invoice_items       ALTER COLUMN total_amount    TYPE numeric(12,2)`,
			`ALTER TABLE payment_entries     ALTER COLUMN amount          TYPE numeric(12,2)`,
			`ALTER TABLE stock_ledger_entries ALTER COLUMN rate           TYPE numeric(12,2)`,
		}
		for _, stmt := range alters {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("money type migration failed on: %s - %w", stmt, err)
			}
		}

		// --- Composite / helpful indexes (idempotent) ---
		indexes := []string{
			`CREATE INDEX IF NOT EXISTS idx_payment_entries_invoice_paid_at ON payment_entries (invoice_id, paid_at)`,
			`CREATE INDEX IF NOT EXISTS idx_invoice_items_invoice ON invoice_items (invoice_id)`,
			`CREATE INDEX IF NOT EXISTS idx_stock_ledger_reference ON stock_ledger_entries (reference_type, reference_id)`,
			`CREATE INDEX IF NOT EXISTS idx_invoices_invoice_date ON invoices (invoice_date)`,
		}
		for _, stmt := range indexes {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("index migration failed on: %s - %w", stmt, err)
			}
		}

		// --- Basic CHECK constraints (idempotent) ---
		checks := []string{
			// Payments are never negative
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'payment_entries'::regclass
					  AND conname  = 'chk_payment_entries_amount_nonneg'
				) THEN
					ALTER TABLE payment_entries
					ADD CONSTRAINT chk_payment_entries_amount_nonneg
					CHECK (amount >= 0);
				END IF;
			END $$;`,
			// Tracked stock can never go negative; NULL (untracked) passes
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'products'::regclass
					  AND conname  = 'chk_products_current_stock_nonneg'
				) THEN
					ALTER TABLE products
					ADD CONSTRAINT chk_products_current_stock_nonneg
					CHECK (current_stock IS NULL OR current_stock >= 0);
				END IF;
			END $$;`,
			// Sequence counters only move forward from 1
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'sequence_counters'::regclass
					  AND conname  = 'chk_sequence_counters_seq_positive'
				) THEN
					ALTER TABLE sequence_counters
					ADD CONSTRAINT chk_sequence_counters_seq_positive
					CHECK (seq >= 1);
				END IF;
			END $$;`,
		}
		for _, stmt := range checks {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("check constraint migration failed on: %s - %w", stmt, err)
			}
		}

		return nil
	})
}
