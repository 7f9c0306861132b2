package handlers

import (
	"log/slog"
	"net/http"

	service "github.com/inventorypro/inventory-platform/internal/services"
	"github.com/inventorypro/inventory-platform/internal/utils/response"
)

type DashboardHandler struct {
	inventoryService service.InventoryService
}

func NewDashboardHandler(inventoryService service.InventoryService) *DashboardHandler {
	return &DashboardHandler{inventoryService: inventoryService}
}

func (h *DashboardHandler) Summary() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		summary, err := h.inventoryService.Summary(r.Context())
		if err != nil {
			slog.Error("Failed to compute inventory summary", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, summary)
	}
}
