package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/inventorypro/inventory-platform/internal/cache"
	appErrors "github.com/inventorypro/inventory-platform/internal/errors"
	"github.com/inventorypro/inventory-platform/internal/metrics"
	"github.com/inventorypro/inventory-platform/internal/models"
	repository "github.com/inventorypro/inventory-platform/internal/repositories"
	"github.com/microcosm-cc/bluemonday"
)

// StockService is the only place a product's quantity changes after creation.
// Every mutation writes the ledger entry and the new quantity as one unit.
type StockService interface {
	RecordMovement(ctx context.Context, req *models.StockMovementRequest) (*models.StockMovement, error)
}

type stockService struct {
	db        *sql.DB
	products  repository.ProductRepository
	ledger    repository.TransactionRepository
	cache     cache.Cache
	notifier  NotificationService
	sanitizer *bluemonday.Policy
}

func NewStockService(db *sql.DB, products repository.ProductRepository, ledger repository.TransactionRepository, summaryCache cache.Cache, notifier NotificationService) StockService {
	return &stockService{
		db:        db,
		products:  products,
		ledger:    ledger,
		cache:     summaryCache,
		notifier:  notifier,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

func (s *stockService) RecordMovement(ctx context.Context, req *models.StockMovementRequest) (movement *models.StockMovement, err error) {

	defer func() { metrics.ObserveStockMovement(req.Type, err) }()

	movementType := models.MovementType(req.Type)
	if movementType != models.MovementIn && movementType != models.MovementOut {
		return nil, appErrors.BadRequestError("Movement type must be 'in' or 'out'")
	}

	var (
		product     *models.Product
		newQuantity int
	)

	// The row lock taken by the load serializes concurrent movements on the
	// same product: the quantity checked is the quantity written against.
	err = repository.WithinTx(ctx, s.db, func(tx *sql.Tx) error {

		var err error

		product, err = s.products.GetByIDForUpdate(ctx, tx, req.ProductID)
		if err != nil {
			return err
		}

		newQuantity = product.Quantity
		switch movementType {
		case models.MovementIn:
			newQuantity += req.Quantity
		case models.MovementOut:
			// Reject before anything is written: no partial application.
			if req.Quantity > product.Quantity {
				return appErrors.InsufficientStockError(req.Quantity, product.Quantity)
			}

			newQuantity -= req.Quantity
		}

		movement = &models.StockMovement{
			ID:        uuid.New(),
			ProductID: product.ID,
			// Snapshot of the name at movement time; survives rename and delete.
			ProductName: product.Name,
			Type:        movementType,
			Quantity:    req.Quantity,
			Notes:       s.sanitizer.Sanitize(req.Notes),
		}

		if err := s.ledger.Append(ctx, tx, movement); err != nil {
			return err
		}

		return s.products.UpdateQuantity(ctx, tx, product.ID, newQuantity)
	})
	if err != nil {
		if appErr, ok := appErrors.IsAppError(err); ok {
			return nil, appErr
		}

		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NotFoundError("Product not found").WithError(err)
		}

		return nil, appErrors.DatabaseError("Failed to record stock movement").WithError(err)
	}

	s.invalidateSummary(ctx)

	if newQuantity <= product.MinStock {
		s.alertLowStock(ctx, product, newQuantity)
	}

	return movement, nil
}

func (s *stockService) invalidateSummary(ctx context.Context) {

	if s.cache == nil {
		return
	}

	if err := s.cache.Delete(ctx, cache.SummaryKey); err != nil {
		slog.Warn("Summary cache invalidation failed", slog.String("error", err.Error()))
	}
}

// alertLowStock fires the email off the write path; a notification failure
// must never fail the movement.
func (s *stockService) alertLowStock(ctx context.Context, product *models.Product, quantity int) {

	if s.notifier == nil {
		return
	}

	alerted := *product
	alerted.Quantity = quantity

	go func(p models.Product) {
		bgCtx := context.WithoutCancel(ctx)

		if err := s.notifier.NotifyLowStock(bgCtx, &p); err != nil {
			slog.Warn("Low stock alert failed",
				slog.String("productId", p.ID.String()),
				slog.String("error", err.Error()))
		}
	}(alerted)
}
