package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// Migrate creates the two tables on first boot. The ledger keeps no foreign
// key to products on purpose: entries reference a product by id only, and the
// application cascades deletes itself so a restore can insert either table
// first.
func Migrate(ctx context.Context, db *sql.DB) error {

	schema := []string{
		`CREATE TABLE IF NOT EXISTS products (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			sku TEXT UNIQUE NOT NULL,
			category TEXT NOT NULL DEFAULT '',
			quantity INTEGER NOT NULL DEFAULT 0 CHECK (quantity >= 0),
			min_stock INTEGER NOT NULL DEFAULT 0 CHECK (min_stock >= 0),
			price NUMERIC(12,2) NOT NULL DEFAULT 0 CHECK (price >= 0),
			supplier TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS stock_movements (
			id UUID PRIMARY KEY,
			product_id UUID NOT NULL,
			product_name TEXT NOT NULL DEFAULT '',
			type TEXT NOT NULL CHECK (type IN ('in', 'out')),
			quantity INTEGER NOT NULL CHECK (quantity > 0),
			notes TEXT NOT NULL DEFAULT '',
			timestamp TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_stock_movements_product_id ON stock_movements (product_id)`,
		`CREATE INDEX IF NOT EXISTS idx_stock_movements_timestamp ON stock_movements (timestamp DESC)`,
	}

	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("applying schema: %w", err)
		}
	}

	return nil
}
