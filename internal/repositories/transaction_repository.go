package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/inventorypro/inventory-platform/internal/models"
	"github.com/inventorypro/inventory-platform/internal/utils"
)

// TransactionRepository is the append-only ledger store. Entries are never
// edited; the only deletes are the product-delete cascade and the restore
// full-replace.
type TransactionRepository interface {
	Append(ctx context.Context, tx *sql.Tx, movement *models.StockMovement) error
	List(ctx context.Context) ([]*models.StockMovement, error)
	ListForProduct(ctx context.Context, productID uuid.UUID) ([]*models.StockMovement, error)
	DeleteForProduct(ctx context.Context, tx *sql.Tx, productID uuid.UUID) error
	DeleteAll(ctx context.Context, tx *sql.Tx) error
	BulkInsert(ctx context.Context, tx *sql.Tx, movements []*models.StockMovement) error
}

type transactionRepository struct {
	DB *sql.DB
}

func NewTransactionRepo(db *sql.DB) TransactionRepository {
	return &transactionRepository{DB: db}
}

const movementColumns = `id, product_id, product_name, type, quantity, notes, timestamp`

func (r *transactionRepository) Append(ctx context.Context, tx *sql.Tx, movement *models.StockMovement) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `INSERT INTO stock_movements (id, product_id, product_name, type, quantity, notes)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING timestamp
	`

	err := tx.QueryRowContext(dbCtx, query, movement.ID, movement.ProductID, movement.ProductName,
		movement.Type, movement.Quantity, movement.Notes).Scan(&movement.Timestamp)
	if err != nil {
		return mapUniqueViolation(err, ErrDuplicateMovement)
	}

	return nil
}

func (r *transactionRepository) List(ctx context.Context) ([]*models.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements ORDER BY timestamp DESC`

	return r.queryMovements(ctx, query)
}

func (r *transactionRepository) ListForProduct(ctx context.Context, productID uuid.UUID) ([]*models.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements
		WHERE product_id = $1 ORDER BY timestamp DESC`

	return r.queryMovements(ctx, query, productID)
}

func (r *transactionRepository) DeleteForProduct(ctx context.Context, tx *sql.Tx, productID uuid.UUID) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	_, err := tx.ExecContext(dbCtx, `DELETE FROM stock_movements WHERE product_id = $1`, productID)
	if err != nil {
		return fmt.Errorf("deleting product movements: %w", err)
	}

	return nil
}

func (r *transactionRepository) DeleteAll(ctx context.Context, tx *sql.Tx) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	_, err := tx.ExecContext(dbCtx, `DELETE FROM stock_movements`)

	return err
}

func (r *transactionRepository) BulkInsert(ctx context.Context, tx *sql.Tx, movements []*models.StockMovement) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `INSERT INTO stock_movements (` + movementColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`

	for _, m := range movements {
		_, err := tx.ExecContext(dbCtx, query, m.ID, m.ProductID, m.ProductName,
			m.Type, m.Quantity, m.Notes, m.Timestamp)
		if err != nil {
			return mapUniqueViolation(err, ErrDuplicateMovement)
		}
	}

	return nil
}

func (r *transactionRepository) queryMovements(ctx context.Context, query string, args ...any) ([]*models.StockMovement, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	rows, err := r.DB.QueryContext(dbCtx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying stock movements: %w", err)
	}

	defer rows.Close()

	movements := []*models.StockMovement{}

	for rows.Next() {
		movement := &models.StockMovement{}

		err := rows.Scan(&movement.ID, &movement.ProductID, &movement.ProductName,
			&movement.Type, &movement.Quantity, &movement.Notes, &movement.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("scanning stock movement: %w", err)
		}

		movements = append(movements, movement)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return movements, nil
}
