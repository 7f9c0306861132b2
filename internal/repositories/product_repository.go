package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/inventorypro/inventory-platform/internal/models"
	"github.com/inventorypro/inventory-platform/internal/utils"
	"github.com/lib/pq"
)

// ErrDuplicateSKU surfaces the unique constraint on products.sku so the
// service layer can map it without knowing Postgres error codes.
var ErrDuplicateSKU = errors.New("duplicate sku")

// ErrDuplicateMovement surfaces a primary-key collision on the ledger.
var ErrDuplicateMovement = errors.New("duplicate stock movement id")

const pqUniqueViolation = "23505"

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	GetByIDForUpdate(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	UpdateQuantity(ctx context.Context, tx *sql.Tx, id uuid.UUID, quantity int) error
	Delete(ctx context.Context, tx *sql.Tx, id uuid.UUID) error
	List(ctx context.Context) ([]*models.Product, error)
	Search(ctx context.Context, query string) ([]*models.Product, error)
	ListLowStock(ctx context.Context) ([]*models.Product, error)
	Aggregate(ctx context.Context) (*models.InventorySummary, error)
	DeleteAll(ctx context.Context, tx *sql.Tx) error
	BulkInsert(ctx context.Context, tx *sql.Tx, products []*models.Product) error
}

type productRepository struct {
	DB *sql.DB
}

func NewProductRepo(db *sql.DB) ProductRepository {
	return &productRepository{DB: db}
}

const productColumns = `id, name, sku, category, quantity, min_stock, price, supplier, created_at`

func (r *productRepository) Create(ctx context.Context, product *models.Product) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `INSERT INTO products (id, name, sku, category, quantity, min_stock, price, supplier)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			  RETURNING created_at
	`

	err := r.DB.QueryRowContext(dbCtx, query, product.ID, product.Name, product.SKU, product.Category,
		product.Quantity, product.MinStock, product.Price, product.Supplier).Scan(&product.CreatedAt)
	if err != nil {
		return mapUniqueViolation(err, ErrDuplicateSKU)
	}

	return nil
}

func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	product := &models.Product{}

	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	err := r.DB.QueryRowContext(dbCtx, query, id).Scan(&product.ID, &product.Name, &product.SKU,
		&product.Category, &product.Quantity, &product.MinStock, &product.Price, &product.Supplier, &product.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("querying product: %w", err)
	}

	return product, nil
}

// GetByIDForUpdate locks the product row for the rest of the enclosing
// transaction, so concurrent movements on the same product serialize and
// never act on a stale quantity.
func (r *productRepository) GetByIDForUpdate(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*models.Product, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	product := &models.Product{}

	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 FOR UPDATE`

	err := tx.QueryRowContext(dbCtx, query, id).Scan(&product.ID, &product.Name, &product.SKU,
		&product.Category, &product.Quantity, &product.MinStock, &product.Price, &product.Supplier, &product.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("querying product for update: %w", err)
	}

	return product, nil
}

func (r *productRepository) Update(ctx context.Context, product *models.Product) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE products SET name = $1, sku = $2, category = $3, min_stock = $4, price = $5, supplier = $6
		WHERE id = $7
	`

	result, err := r.DB.ExecContext(dbCtx, query, product.Name, product.SKU, product.Category,
		product.MinStock, product.Price, product.Supplier, product.ID)
	if err != nil {
		return mapUniqueViolation(err, ErrDuplicateSKU)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// UpdateQuantity is the only quantity write after creation and always runs
// inside the stock movement transaction.
func (r *productRepository) UpdateQuantity(ctx context.Context, tx *sql.Tx, id uuid.UUID, quantity int) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := tx.ExecContext(dbCtx, `UPDATE products SET quantity = $1 WHERE id = $2`, quantity, id)
	if err != nil {
		return fmt.Errorf("updating quantity: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func (r *productRepository) Delete(ctx context.Context, tx *sql.Tx, id uuid.UUID) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := tx.ExecContext(dbCtx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting product: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func (r *productRepository) List(ctx context.Context) ([]*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY name ASC`

	return r.queryProducts(ctx, query)
}

// Search matches name, sku or category case-insensitively. An empty or
// unmatched query yields an empty slice, never an error.
func (r *productRepository) Search(ctx context.Context, query string) ([]*models.Product, error) {
	sqlQuery := `SELECT ` + productColumns + ` FROM products
		WHERE name ILIKE $1 OR sku ILIKE $1 OR category ILIKE $1
		ORDER BY name ASC`

	return r.queryProducts(ctx, sqlQuery, "%"+query+"%")
}

func (r *productRepository) ListLowStock(ctx context.Context) ([]*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products
		WHERE quantity <= min_stock ORDER BY quantity ASC`

	return r.queryProducts(ctx, query)
}

func (r *productRepository) Aggregate(ctx context.Context) (*models.InventorySummary, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	summary := &models.InventorySummary{}

	query := `SELECT COUNT(*), COALESCE(SUM(quantity), 0), COALESCE(SUM(quantity * price), 0) FROM products`

	err := r.DB.QueryRowContext(dbCtx, query).Scan(&summary.ProductCount, &summary.TotalUnits, &summary.TotalValue)
	if err != nil {
		return nil, fmt.Errorf("aggregating products: %w", err)
	}

	return summary, nil
}

func (r *productRepository) DeleteAll(ctx context.Context, tx *sql.Tx) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	_, err := tx.ExecContext(dbCtx, `DELETE FROM products`)

	return err
}

func (r *productRepository) BulkInsert(ctx context.Context, tx *sql.Tx, products []*models.Product) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `INSERT INTO products (` + productColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	for _, p := range products {
		_, err := tx.ExecContext(dbCtx, query, p.ID, p.Name, p.SKU, p.Category,
			p.Quantity, p.MinStock, p.Price, p.Supplier, p.CreatedAt)
		if err != nil {
			return mapUniqueViolation(err, ErrDuplicateSKU)
		}
	}

	return nil
}

func (r *productRepository) queryProducts(ctx context.Context, query string, args ...any) ([]*models.Product, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	rows, err := r.DB.QueryContext(dbCtx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying products: %w", err)
	}

	defer rows.Close()

	products := []*models.Product{}

	for rows.Next() {
		product := &models.Product{}

		err := rows.Scan(&product.ID, &product.Name, &product.SKU, &product.Category,
			&product.Quantity, &product.MinStock, &product.Price, &product.Supplier, &product.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning product: %w", err)
		}

		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return products, nil
}

func mapUniqueViolation(err error, sentinel error) error {
	var pqErr *pq.Error

	if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
		return fmt.Errorf("%w: %v", sentinel, err)
	}

	return err
}
