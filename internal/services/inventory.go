package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/inventorypro/inventory-platform/internal/cache"
	appErrors "github.com/inventorypro/inventory-platform/internal/errors"
	"github.com/inventorypro/inventory-platform/internal/models"
	repository "github.com/inventorypro/inventory-platform/internal/repositories"
	"github.com/microcosm-cc/bluemonday"
)

type InventoryService interface {
	CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, req *models.UpdateProductRequest) (*models.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	ListProducts(ctx context.Context) ([]*models.Product, error)
	SearchProducts(ctx context.Context, query string) ([]*models.Product, error)
	ListLowStock(ctx context.Context) ([]*models.Product, error)
	Summary(ctx context.Context) (*models.InventorySummary, error)
	ListTransactions(ctx context.Context) ([]*models.StockMovement, error)
	ListProductTransactions(ctx context.Context, productID uuid.UUID) ([]*models.StockMovement, error)
}

type inventoryService struct {
	db        *sql.DB
	products  repository.ProductRepository
	ledger    repository.TransactionRepository
	cache     cache.Cache
	sanitizer *bluemonday.Policy
}

func NewInventoryService(db *sql.DB, products repository.ProductRepository, ledger repository.TransactionRepository, summaryCache cache.Cache) InventoryService {
	return &inventoryService{
		db:        db,
		products:  products,
		ledger:    ledger,
		cache:     summaryCache,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

func (s *inventoryService) CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error) {

	product := &models.Product{
		ID:       uuid.New(),
		Name:     s.sanitizer.Sanitize(req.Name),
		SKU:      s.sanitizer.Sanitize(req.SKU),
		Category: s.sanitizer.Sanitize(req.Category),
		Quantity: req.Quantity,
		MinStock: req.MinStock,
		Price:    req.Price,
		Supplier: s.sanitizer.Sanitize(req.Supplier),
	}

	err := s.products.Create(ctx, product)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateSKU) {
			return nil, appErrors.DuplicateSKUError(product.SKU).WithError(err)
		}

		return nil, appErrors.DatabaseError("Failed to create product").WithError(err)
	}

	s.invalidateSummary(ctx)

	return product, nil
}

func (s *inventoryService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {

	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NotFoundError("Product not found").WithError(err)
		}

		return nil, appErrors.DatabaseError("Failed to get product").WithError(err)
	}

	return product, nil
}

func (s *inventoryService) UpdateProduct(ctx context.Context, id uuid.UUID, req *models.UpdateProductRequest) (*models.Product, error) {

	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		product.Name = s.sanitizer.Sanitize(*req.Name)
	}
	if req.SKU != nil {
		product.SKU = s.sanitizer.Sanitize(*req.SKU)
	}
	if req.Category != nil {
		product.Category = s.sanitizer.Sanitize(*req.Category)
	}
	if req.MinStock != nil {
		product.MinStock = *req.MinStock
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Supplier != nil {
		product.Supplier = s.sanitizer.Sanitize(*req.Supplier)
	}

	err = s.products.Update(ctx, product)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateSKU) {
			return nil, appErrors.DuplicateSKUError(product.SKU).WithError(err)
		}

		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NotFoundError("Product not found").WithError(err)
		}

		return nil, appErrors.DatabaseError("Failed to update product").WithError(err)
	}

	s.invalidateSummary(ctx)

	return product, nil
}

// DeleteProduct removes the product and its whole ledger history in one
// transaction. Losing the history is intentional: no orphaned entries may
// reference a missing product.
func (s *inventoryService) DeleteProduct(ctx context.Context, id uuid.UUID) error {

	err := repository.WithinTx(ctx, s.db, func(tx *sql.Tx) error {

		if err := s.ledger.DeleteForProduct(ctx, tx, id); err != nil {
			return err
		}

		return s.products.Delete(ctx, tx, id)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.NotFoundError("Product not found").WithError(err)
		}

		return appErrors.DatabaseError("Failed to delete product").WithError(err)
	}

	s.invalidateSummary(ctx)

	return nil
}

func (s *inventoryService) ListProducts(ctx context.Context) ([]*models.Product, error) {

	products, err := s.products.List(ctx)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to fetch products").WithError(err)
	}

	return products, nil
}

func (s *inventoryService) SearchProducts(ctx context.Context, query string) ([]*models.Product, error) {

	if query == "" {
		return []*models.Product{}, nil
	}

	products, err := s.products.Search(ctx, query)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to search products").WithError(err)
	}

	return products, nil
}

func (s *inventoryService) ListLowStock(ctx context.Context) ([]*models.Product, error) {

	products, err := s.products.ListLowStock(ctx)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to fetch low stock products").WithError(err)
	}

	return products, nil
}

func (s *inventoryService) Summary(ctx context.Context) (*models.InventorySummary, error) {

	if s.cache != nil {
		cached := &models.InventorySummary{}

		hit, err := s.cache.Get(ctx, cache.SummaryKey, cached)
		if err != nil {
			slog.Warn("Summary cache read failed", slog.String("error", err.Error()))
		} else if hit {
			return cached, nil
		}
	}

	summary, err := s.products.Aggregate(ctx)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to aggregate inventory").WithError(err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cache.SummaryKey, summary, 0); err != nil {
			slog.Warn("Summary cache write failed", slog.String("error", err.Error()))
		}
	}

	return summary, nil
}

func (s *inventoryService) ListTransactions(ctx context.Context) ([]*models.StockMovement, error) {

	movements, err := s.ledger.List(ctx)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to fetch transactions").WithError(err)
	}

	return movements, nil
}

func (s *inventoryService) ListProductTransactions(ctx context.Context, productID uuid.UUID) ([]*models.StockMovement, error) {

	movements, err := s.ledger.ListForProduct(ctx, productID)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to fetch product transactions").WithError(err)
	}

	return movements, nil
}

func (s *inventoryService) invalidateSummary(ctx context.Context) {

	if s.cache == nil {
		return
	}

	if err := s.cache.Delete(ctx, cache.SummaryKey); err != nil {
		slog.Warn("Summary cache invalidation failed", slog.String("error", err.Error()))
	}
}
