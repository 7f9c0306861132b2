package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/inventorypro/inventory-platform/internal/models"
	service "github.com/inventorypro/inventory-platform/internal/services"
	"github.com/inventorypro/inventory-platform/internal/utils"
	"github.com/inventorypro/inventory-platform/internal/utils/response"
)

type StockHandler struct {
	stockService     service.StockService
	inventoryService service.InventoryService
	validator        *validator.Validate
}

func NewStockHandler(stockService service.StockService, inventoryService service.InventoryService) *StockHandler {
	return &StockHandler{stockService: stockService, inventoryService: inventoryService, validator: validator.New()}
}

func (h *StockHandler) RecordMovement() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		var req models.StockMovementRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		movement, err := h.stockService.RecordMovement(r.Context(), &req)
		if err != nil {
			slog.Error("Failed to record stock movement",
				slog.String("productId", req.ProductID.String()),
				slog.String("type", req.Type),
				slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		slog.Info("Stock movement recorded",
			slog.String("movementId", movement.ID.String()),
			slog.String("productId", movement.ProductID.String()),
			slog.String("type", string(movement.Type)))
		response.Success(w, http.StatusCreated, movement)
	}
}

func (h *StockHandler) ListMovements() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		movements, err := h.inventoryService.ListTransactions(r.Context())
		if err != nil {
			slog.Error("Failed to list stock movements", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, movements)
	}
}
