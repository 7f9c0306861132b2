package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/inventorypro/inventory-platform/internal/errors"
	"github.com/inventorypro/inventory-platform/internal/models"
	service "github.com/inventorypro/inventory-platform/internal/services"
	"github.com/inventorypro/inventory-platform/internal/utils"
	"github.com/inventorypro/inventory-platform/internal/utils/response"
)

type ProductHandler struct {
	inventoryService service.InventoryService
	validator        *validator.Validate
}

func NewProductHandler(inventoryService service.InventoryService) *ProductHandler {
	return &ProductHandler{inventoryService: inventoryService, validator: validator.New()}
}

func (h *ProductHandler) CreateProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		var req models.CreateProductRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		product, err := h.inventoryService.CreateProduct(r.Context(), &req)
		if err != nil {
			slog.Error("Failed to create product",
				slog.String("sku", req.SKU),
				slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		slog.Info("Product created",
			slog.String("productId", product.ID.String()),
			slog.String("sku", product.SKU))
		response.Success(w, http.StatusCreated, product)
	}
}

func (h *ProductHandler) GetProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		id, ok := parseProductID(w, r)
		if !ok {
			return
		}

		product, err := h.inventoryService.GetProduct(r.Context(), id)
		if err != nil {
			slog.Warn("Failed to get product",
				slog.String("productId", id.String()),
				slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, product)
	}
}

func (h *ProductHandler) UpdateProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		id, ok := parseProductID(w, r)
		if !ok {
			return
		}

		var req models.UpdateProductRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		product, err := h.inventoryService.UpdateProduct(r.Context(), id, &req)
		if err != nil {
			slog.Error("Failed to update product",
				slog.String("productId", id.String()),
				slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		slog.Info("Product updated", slog.String("productId", product.ID.String()))
		response.Success(w, http.StatusOK, product)
	}
}

func (h *ProductHandler) DeleteProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		id, ok := parseProductID(w, r)
		if !ok {
			return
		}

		if err := h.inventoryService.DeleteProduct(r.Context(), id); err != nil {
			slog.Error("Failed to delete product",
				slog.String("productId", id.String()),
				slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		slog.Info("Product deleted", slog.String("productId", id.String()))
		response.Success(w, http.StatusNoContent, nil)
	}
}

// ListProducts serves the full catalog, or search results when ?q= is set.
func (h *ProductHandler) ListProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		var (
			products []*models.Product
			err      error
		)

		if query := r.URL.Query().Get("q"); query != "" {
			products, err = h.inventoryService.SearchProducts(r.Context(), query)
		} else {
			products, err = h.inventoryService.ListProducts(r.Context())
		}

		if err != nil {
			slog.Error("Failed to list products", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, products)
	}
}

func (h *ProductHandler) ListLowStock() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		products, err := h.inventoryService.ListLowStock(r.Context())
		if err != nil {
			slog.Error("Failed to list low stock products", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, products)
	}
}

func (h *ProductHandler) ListProductTransactions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		id, ok := parseProductID(w, r)
		if !ok {
			return
		}

		movements, err := h.inventoryService.ListProductTransactions(r.Context(), id)
		if err != nil {
			slog.Error("Failed to list product transactions",
				slog.String("productId", id.String()),
				slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, movements)
	}
}

func parseProductID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	idStr := r.PathValue("id")

	id, err := uuid.Parse(idStr)
	if err != nil {
		response.Error(w, errors.BadRequestError("Invalid product ID"))

		return uuid.Nil, false
	}

	return id, true
}
