package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/inventorypro/inventory-platform/internal/api/handlers"
	appErrors "github.com/inventorypro/inventory-platform/internal/errors"
	"github.com/inventorypro/inventory-platform/internal/models"
	"github.com/inventorypro/inventory-platform/internal/services/mocks"
	"github.com/inventorypro/inventory-platform/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRecordMovementHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		// Arrange
		mockStockService := new(mocks.StockService)
		mockInventoryService := new(mocks.InventoryService)
		stockHandler := handlers.NewStockHandler(mockStockService, mockInventoryService)

		productID := uuid.New()
		reqBody := models.StockMovementRequest{ProductID: productID, Type: "in", Quantity: 5}
		recorded := &models.StockMovement{
			ID:          uuid.New(),
			ProductID:   productID,
			ProductName: "Wireless Mouse",
			Type:        models.MovementIn,
			Quantity:    5,
		}

		mockStockService.On("RecordMovement", mock.Anything, mock.MatchedBy(func(req *models.StockMovementRequest) bool {
			return req.ProductID == productID && req.Type == "in" && req.Quantity == 5
		})).Return(recorded, nil).Once()

		reqBodyBytes, _ := json.Marshal(reqBody)
		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/stock/movements",
			bytes.NewReader(reqBodyBytes), testAdminEmail, nil)
		rr := httptest.NewRecorder()

		// Act
		stockHandler.RecordMovement().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusCreated, rr.Code)

		var respMovement models.StockMovement
		decodeData(t, decodeAPIResponse(t, rr), &respMovement)
		assert.Equal(t, recorded.ID, respMovement.ID)
		assert.Equal(t, "Wireless Mouse", respMovement.ProductName)
		mockStockService.AssertExpectations(t)
	})

	t.Run("Failure - Insufficient Stock", func(t *testing.T) {
		// Arrange
		mockStockService := new(mocks.StockService)
		stockHandler := handlers.NewStockHandler(mockStockService, new(mocks.InventoryService))

		reqBody := models.StockMovementRequest{ProductID: uuid.New(), Type: "out", Quantity: 11}

		mockStockService.On("RecordMovement", mock.Anything, mock.Anything).
			Return(nil, appErrors.InsufficientStockError(11, 10)).Once()

		reqBodyBytes, _ := json.Marshal(reqBody)
		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/stock/movements",
			bytes.NewReader(reqBodyBytes), testAdminEmail, nil)
		rr := httptest.NewRecorder()

		// Act
		stockHandler.RecordMovement().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusConflict, rr.Code)

		resp := decodeAPIResponse(t, rr)
		require.NotNil(t, resp.Error)
		assert.Equal(t, appErrors.ErrCodeInsufficientStock, resp.Error.Code)
	})

	t.Run("Failure - Invalid Movement Type", func(t *testing.T) {
		// Arrange
		mockStockService := new(mocks.StockService)
		stockHandler := handlers.NewStockHandler(mockStockService, new(mocks.InventoryService))

		reqBody := `{"product_id": "` + uuid.NewString() + `", "type": "adjust", "quantity": 5}`
		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/stock/movements",
			bytes.NewReader([]byte(reqBody)), testAdminEmail, nil)
		rr := httptest.NewRecorder()

		// Act
		stockHandler.RecordMovement().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockStockService.AssertNotCalled(t, "RecordMovement", mock.Anything, mock.Anything)
	})
}

func TestListMovementsHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		// Arrange
		mockInventoryService := new(mocks.InventoryService)
		stockHandler := handlers.NewStockHandler(new(mocks.StockService), mockInventoryService)

		movements := []*models.StockMovement{
			{ID: uuid.New(), ProductID: uuid.New(), Type: models.MovementOut, Quantity: 2},
			{ID: uuid.New(), ProductID: uuid.New(), Type: models.MovementIn, Quantity: 7},
		}

		mockInventoryService.On("ListTransactions", mock.Anything).Return(movements, nil).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodGet, "/api/v1/stock/movements", nil, testAdminEmail, nil)
		rr := httptest.NewRecorder()

		// Act
		stockHandler.ListMovements().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)

		var respMovements []*models.StockMovement
		decodeData(t, decodeAPIResponse(t, rr), &respMovements)
		assert.Len(t, respMovements, 2)
	})
}
