package inventory

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/go5u/foodflow-inventory/internal/platform/httpx"
)

// Handler wires HTTP endpoints for the inventory module.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs inventory handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers product and ingredient-stock routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/products", func(r chi.Router) {
		r.Post("/", h.handleCreateProduct)
		r.Get("/", h.handleListProducts)
		r.Get("/{productID}", h.handleGetProduct)
		r.Put("/{productID}", h.handleUpdateProduct)
		r.Delete("/{productID}", h.handleDeleteProduct)
	})
	r.Route("/inventory/ingredients/{ingredientName}", func(r chi.Router) {
		r.Get("/stock", h.handleGetStock)
		r.Post("/decrease", h.handleDecreaseStock)
	})
}

func (h *Handler) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Payload", "request body must be valid JSON")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	product, err := h.service.CreateProduct(r.Context(), CreateProductInput{
		Name:           req.Name,
		Quantity:       req.Quantity,
		Price:          req.Price,
		ExpirationDate: parseExpiration(req.ExpirationDate),
		UserID:         req.UserID,
	})
	if err != nil {
		h.respondError(w, "create product", err)
		return
	}
	h.logger.Info("product created", slog.Int64("product_id", product.ID), slog.String("name", product.Name))
	httpx.JSON(w, http.StatusCreated, toProductResponse(product))
}

func (h *Handler) handleListProducts(w http.ResponseWriter, r *http.Request) {
	userID, _ := strconv.ParseInt(r.URL.Query().Get("user_id"), 10, 64)
	products, err := h.service.ListProducts(r.Context(), userID)
	if err != nil {
		h.respondError(w, "list products", err)
		return
	}
	responses := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		responses = append(responses, toProductResponse(p))
	}
	httpx.JSON(w, http.StatusOK, responses)
}

func (h *Handler) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Product ID", "product id must be an integer")
		return
	}
	product, err := h.service.GetProduct(r.Context(), id)
	if err != nil {
		h.respondError(w, "get product", err)
		return
	}
	httpx.JSON(w, http.StatusOK, toProductResponse(product))
}

func (h *Handler) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Product ID", "product id must be an integer")
		return
	}
	var req UpdateProductRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Payload", "request body must be valid JSON")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	product, err := h.service.UpdateProduct(r.Context(), Product{
		ID:             id,
		Price:          req.Price,
		ExpirationDate: parseExpiration(req.ExpirationDate),
	})
	if err != nil {
		h.respondError(w, "update product", err)
		return
	}
	httpx.JSON(w, http.StatusOK, toProductResponse(product))
}

func (h *Handler) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Product ID", "product id must be an integer")
		return
	}
	if err := h.service.DeleteProduct(r.Context(), id); err != nil {
		h.respondError(w, "delete product", err)
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) handleGetStock(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "ingredientName")
	product, err := h.service.GetProductByName(r.Context(), name)
	if err != nil {
		h.respondError(w, "get stock", err)
		return
	}
	httpx.JSON(w, http.StatusOK, StockResponse{
		ProductID:         product.ID,
		IngredientName:    product.Name,
		AvailableQuantity: product.Quantity,
	})
}

func (h *Handler) handleDecreaseStock(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "ingredientName")
	var req DecreaseStockRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Payload", "request body must be valid JSON")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "quantity must be positive")
		return
	}
	product, err := h.service.GetProductByName(r.Context(), name)
	if err != nil {
		h.respondError(w, "decrease stock", err)
		return
	}
	remaining, err := h.service.DecreaseStock(r.Context(), product.ID, int(req.Quantity))
	if err != nil {
		h.respondError(w, "decrease stock", err)
		return
	}
	h.logger.Info("stock decreased",
		slog.String("ingredient", name),
		slog.Int("amount", int(req.Quantity)),
		slog.Int("remaining", remaining))
	httpx.JSON(w, http.StatusOK, StockResponse{
		ProductID:         product.ID,
		IngredientName:    product.Name,
		AvailableQuantity: remaining,
	})
}

// respondError maps domain errors onto client/server statuses without leaking
// internals: invariant violations become 4xx, absence 404, the rest 500.
func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrDuplicateName):
		httpx.Problem(w, http.StatusConflict, "Duplicate", err.Error())
	case errors.Is(err, ErrInsufficientStock), errors.Is(err, ErrNegativeAmount), errors.Is(err, ErrValidation):
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", err.Error())
	default:
		h.logger.Error(op, slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
