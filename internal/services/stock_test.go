package service_test

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	cacheMocks "github.com/inventorypro/inventory-platform/internal/cache/mocks"
	appErrors "github.com/inventorypro/inventory-platform/internal/errors"
	"github.com/inventorypro/inventory-platform/internal/models"
	"github.com/inventorypro/inventory-platform/internal/repositories/mocks"
	service "github.com/inventorypro/inventory-platform/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func stockedProduct() *models.Product {
	return &models.Product{
		ID:       uuid.New(),
		Name:     "Wireless Mouse",
		SKU:      "WM-001",
		Quantity: 10,
		MinStock: 2,
		Price:    29.99,
	}
}

func TestRecordMovement(t *testing.T) {
	ctx := t.Context()

	setup := func(t *testing.T) (service.StockService, *mocks.ProductRepository, *mocks.TransactionRepository, sqlmock.Sqlmock) {
		t.Helper()

		db, dbMock, err := sqlmock.New()
		require.NoError(t, err)

		t.Cleanup(func() {
			db.Close()
		})

		mockProducts := new(mocks.ProductRepository)
		mockLedger := new(mocks.TransactionRepository)
		stockService := service.NewStockService(db, mockProducts, mockLedger, nil, nil)

		return stockService, mockProducts, mockLedger, dbMock
	}

	t.Run("Success - Stock In Raises Quantity", func(t *testing.T) {
		// Arrange
		stockService, mockProducts, mockLedger, dbMock := setup(t)
		product := stockedProduct()

		req := &models.StockMovementRequest{
			ProductID: product.ID,
			Type:      "in",
			Quantity:  5,
			Notes:     "Restock",
		}

		dbMock.ExpectBegin()
		dbMock.ExpectCommit()

		mockProducts.On("GetByIDForUpdate", mock.Anything, mock.AnythingOfType("*sql.Tx"), product.ID).
			Return(product, nil).Once()
		mockLedger.On("Append", mock.Anything, mock.AnythingOfType("*sql.Tx"), mock.MatchedBy(func(m *models.StockMovement) bool {
			return m.ProductID == product.ID && m.Type == models.MovementIn &&
				m.Quantity == 5 && m.ProductName == product.Name && m.ID != uuid.Nil
		})).Return(nil).Once()
		mockProducts.On("UpdateQuantity", mock.Anything, mock.AnythingOfType("*sql.Tx"), product.ID, 15).Return(nil).Once()

		// Act
		movement, err := stockService.RecordMovement(ctx, req)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, models.MovementIn, movement.Type)
		assert.Equal(t, 5, movement.Quantity)
		assert.Equal(t, product.Name, movement.ProductName)
		assert.NoError(t, dbMock.ExpectationsWereMet())
		mockProducts.AssertExpectations(t)
		mockLedger.AssertExpectations(t)
	})

	t.Run("Success - Stock Out Lowers Quantity", func(t *testing.T) {
		// Arrange
		stockService, mockProducts, mockLedger, dbMock := setup(t)
		product := stockedProduct()

		req := &models.StockMovementRequest{
			ProductID: product.ID,
			Type:      "out",
			Quantity:  4,
		}

		dbMock.ExpectBegin()
		dbMock.ExpectCommit()

		mockProducts.On("GetByIDForUpdate", mock.Anything, mock.AnythingOfType("*sql.Tx"), product.ID).
			Return(product, nil).Once()
		mockLedger.On("Append", mock.Anything, mock.AnythingOfType("*sql.Tx"), mock.AnythingOfType("*models.StockMovement")).Return(nil).Once()
		mockProducts.On("UpdateQuantity", mock.Anything, mock.AnythingOfType("*sql.Tx"), product.ID, 6).Return(nil).Once()

		// Act
		movement, err := stockService.RecordMovement(ctx, req)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, models.MovementOut, movement.Type)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("Success - Withdrawing Exactly The Available Stock", func(t *testing.T) {
		// Arrange
		stockService, mockProducts, mockLedger, dbMock := setup(t)
		product := stockedProduct()

		req := &models.StockMovementRequest{
			ProductID: product.ID,
			Type:      "out",
			Quantity:  product.Quantity,
		}

		dbMock.ExpectBegin()
		dbMock.ExpectCommit()

		mockProducts.On("GetByIDForUpdate", mock.Anything, mock.AnythingOfType("*sql.Tx"), product.ID).
			Return(product, nil).Once()
		mockLedger.On("Append", mock.Anything, mock.AnythingOfType("*sql.Tx"), mock.AnythingOfType("*models.StockMovement")).Return(nil).Once()
		mockProducts.On("UpdateQuantity", mock.Anything, mock.AnythingOfType("*sql.Tx"), product.ID, 0).Return(nil).Once()

		// Act
		_, err := stockService.RecordMovement(ctx, req)

		// Assert
		require.NoError(t, err)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("Failure - Insufficient Stock Rolls Back Without Writes", func(t *testing.T) {
		// Arrange
		stockService, mockProducts, mockLedger, dbMock := setup(t)
		product := stockedProduct()

		req := &models.StockMovementRequest{
			ProductID: product.ID,
			Type:      "out",
			Quantity:  product.Quantity + 1,
		}

		dbMock.ExpectBegin()
		dbMock.ExpectRollback()

		mockProducts.On("GetByIDForUpdate", mock.Anything, mock.AnythingOfType("*sql.Tx"), product.ID).
			Return(product, nil).Once()

		// Act
		movement, err := stockService.RecordMovement(ctx, req)

		// Assert
		require.Error(t, err)
		assert.Nil(t, movement)
		assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeInsufficientStock))
		assert.Contains(t, err.Error(), "requested 11, available 10")
		mockLedger.AssertNotCalled(t, "Append")
		mockProducts.AssertNotCalled(t, "UpdateQuantity")
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("Failure - Sequential Withdrawals Check The Locked Quantity", func(t *testing.T) {
		// Two out-8 movements against stock of 10: the row lock means the
		// second load sees the first write's result, so it must be rejected
		// rather than silently overdrawing.

		// Arrange
		stockService, mockProducts, mockLedger, dbMock := setup(t)
		product := stockedProduct()

		afterFirst := *product
		afterFirst.Quantity = 2

		req := &models.StockMovementRequest{
			ProductID: product.ID,
			Type:      "out",
			Quantity:  8,
		}

		dbMock.ExpectBegin()
		dbMock.ExpectCommit()
		dbMock.ExpectBegin()
		dbMock.ExpectRollback()

		mockProducts.On("GetByIDForUpdate", mock.Anything, mock.AnythingOfType("*sql.Tx"), product.ID).
			Return(product, nil).Once()
		mockProducts.On("GetByIDForUpdate", mock.Anything, mock.AnythingOfType("*sql.Tx"), product.ID).
			Return(&afterFirst, nil).Once()
		mockLedger.On("Append", mock.Anything, mock.AnythingOfType("*sql.Tx"), mock.AnythingOfType("*models.StockMovement")).Return(nil).Once()
		mockProducts.On("UpdateQuantity", mock.Anything, mock.AnythingOfType("*sql.Tx"), product.ID, 2).Return(nil).Once()

		// Act
		_, firstErr := stockService.RecordMovement(ctx, req)
		second, secondErr := stockService.RecordMovement(ctx, req)

		// Assert
		require.NoError(t, firstErr)
		require.Error(t, secondErr)
		assert.Nil(t, second)
		assert.True(t, appErrors.HasCode(secondErr, appErrors.ErrCodeInsufficientStock))
		assert.Contains(t, secondErr.Error(), "requested 8, available 2")
		mockLedger.AssertNumberOfCalls(t, "Append", 1)
		mockProducts.AssertNumberOfCalls(t, "UpdateQuantity", 1)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("Failure - Product Not Found", func(t *testing.T) {
		// Arrange
		stockService, mockProducts, mockLedger, dbMock := setup(t)
		unknownID := uuid.New()

		req := &models.StockMovementRequest{
			ProductID: unknownID,
			Type:      "in",
			Quantity:  1,
		}

		dbMock.ExpectBegin()
		dbMock.ExpectRollback()

		mockProducts.On("GetByIDForUpdate", mock.Anything, mock.AnythingOfType("*sql.Tx"), unknownID).
			Return(nil, fmt.Errorf("querying product for update: %w", sql.ErrNoRows)).Once()

		// Act
		_, err := stockService.RecordMovement(ctx, req)

		// Assert
		require.Error(t, err)
		assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeNotFound))
		mockLedger.AssertNotCalled(t, "Append")
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("Failure - Invalid Type Opens No Transaction", func(t *testing.T) {
		// Arrange
		stockService, mockProducts, mockLedger, dbMock := setup(t)

		req := &models.StockMovementRequest{
			ProductID: uuid.New(),
			Type:      "adjust",
			Quantity:  1,
		}

		// Act
		_, err := stockService.RecordMovement(ctx, req)

		// Assert
		require.Error(t, err)
		assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeBadRequest))
		mockProducts.AssertNotCalled(t, "GetByIDForUpdate")
		mockLedger.AssertNotCalled(t, "Append")
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("Failure - Ledger Append Error Rolls Back Quantity", func(t *testing.T) {
		// Arrange
		stockService, mockProducts, mockLedger, dbMock := setup(t)
		product := stockedProduct()

		req := &models.StockMovementRequest{
			ProductID: product.ID,
			Type:      "in",
			Quantity:  5,
		}

		dbMock.ExpectBegin()
		dbMock.ExpectRollback()

		mockProducts.On("GetByIDForUpdate", mock.Anything, mock.AnythingOfType("*sql.Tx"), product.ID).
			Return(product, nil).Once()
		mockLedger.On("Append", mock.Anything, mock.AnythingOfType("*sql.Tx"), mock.AnythingOfType("*models.StockMovement")).
			Return(errors.New("insert failed")).Once()

		// Act
		_, err := stockService.RecordMovement(ctx, req)

		// Assert
		require.Error(t, err)
		assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeDatabaseError))
		mockProducts.AssertNotCalled(t, "UpdateQuantity")
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("Success - Summary Cache Is Invalidated After The Write", func(t *testing.T) {
		// Arrange
		db, dbMock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mockProducts := new(mocks.ProductRepository)
		mockLedger := new(mocks.TransactionRepository)
		mockCache := new(cacheMocks.Cache)
		stockService := service.NewStockService(db, mockProducts, mockLedger, mockCache, nil)

		product := stockedProduct()

		req := &models.StockMovementRequest{
			ProductID: product.ID,
			Type:      "in",
			Quantity:  1,
		}

		dbMock.ExpectBegin()
		dbMock.ExpectCommit()

		mockProducts.On("GetByIDForUpdate", mock.Anything, mock.AnythingOfType("*sql.Tx"), product.ID).
			Return(product, nil).Once()
		mockLedger.On("Append", mock.Anything, mock.AnythingOfType("*sql.Tx"), mock.AnythingOfType("*models.StockMovement")).Return(nil).Once()
		mockProducts.On("UpdateQuantity", mock.Anything, mock.AnythingOfType("*sql.Tx"), product.ID, 11).Return(nil).Once()
		mockCache.On("Delete", mock.Anything, "summary:inventory").Return(nil).Once()

		// Act
		_, err = stockService.RecordMovement(ctx, req)

		// Assert
		require.NoError(t, err)
		mockCache.AssertExpectations(t)
	})

	t.Run("Success - Notes Are Sanitized", func(t *testing.T) {
		// Arrange
		stockService, mockProducts, mockLedger, dbMock := setup(t)
		product := stockedProduct()

		req := &models.StockMovementRequest{
			ProductID: product.ID,
			Type:      "in",
			Quantity:  2,
			Notes:     `<img src=x onerror=alert(1)>damaged box`,
		}

		dbMock.ExpectBegin()
		dbMock.ExpectCommit()

		mockProducts.On("GetByIDForUpdate", mock.Anything, mock.AnythingOfType("*sql.Tx"), product.ID).
			Return(product, nil).Once()
		mockLedger.On("Append", mock.Anything, mock.AnythingOfType("*sql.Tx"), mock.MatchedBy(func(m *models.StockMovement) bool {
			return m.Notes == "damaged box"
		})).Return(nil).Once()
		mockProducts.On("UpdateQuantity", mock.Anything, mock.AnythingOfType("*sql.Tx"), product.ID, 12).Return(nil).Once()

		// Act
		movement, err := stockService.RecordMovement(ctx, req)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "damaged box", movement.Notes)
		mockLedger.AssertExpectations(t)
	})
}
