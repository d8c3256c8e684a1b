package handler

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/capitalize-ai/sales-assistant/internal/service"
	"github.com/capitalize-ai/sales-assistant/pkg/logger"
)

// ProductHandler handles catalog endpoints.
type ProductHandler struct {
	service *service.CatalogService
	logger  *logger.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(svc *service.CatalogService, log *logger.Logger) *ProductHandler {
	return &ProductHandler{service: svc, logger: log}
}

// List handles GET /api/v1/products?categoria=&modelo_carro=&ano=
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	products, err := h.service.List(r.Context(), service.ProductQuery{
		Category:     q.Get("categoria"),
		VehicleModel: q.Get("modelo_carro"),
		Year:         q.Get("ano"),
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidYear) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("failed to list products", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list products")
		return
	}

	writeJSON(w, http.StatusOK, products)
}
