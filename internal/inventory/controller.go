package inventory

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"petshop/internal/dto"
	apperrors "petshop/internal/errors"
)

// Controller exposes the administrative stock surface: reading a record and
// seeding it with an unconditional set. Commit never creates records, so
// this is the only way a (product, stockroom) pair becomes configured.
type Controller struct {
	store  StockStore
	logger *zap.Logger
}

func NewController(store StockStore, logger *zap.Logger) *Controller {
	return &Controller{
		store:  store,
		logger: logger,
	}
}

func (c *Controller) HandleGetStock(w http.ResponseWriter, r *http.Request) {
	stockroomID, productID, ok := c.pathIDs(w, r)
	if !ok {
		return
	}

	quantity, err := c.store.Get(r.Context(), productID, stockroomID)
	if err != nil {
		if nfe, found := apperrors.IsNotFoundError(err); found {
			c.writeJSON(w, http.StatusNotFound, map[string]string{
				"error":   "NOT_FOUND",
				"message": nfe.Message,
			})
			return
		}
		c.logger.Error("reading stock record failed", zap.Error(err))
		c.writeInternalError(w)
		return
	}

	c.writeJSON(w, http.StatusOK, map[string]int{
		"productId":   productID,
		"stockroomId": stockroomID,
		"quantity":    quantity,
	})
}

func (c *Controller) HandleSetStock(w http.ResponseWriter, r *http.Request) {
	stockroomID, productID, ok := c.pathIDs(w, r)
	if !ok {
		return
	}

	var req dto.SetStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.writeValidationError(w, "request body must be valid JSON")
		return
	}
	if req.Quantity < 0 {
		c.writeValidationError(w, "quantity must not be negative")
		return
	}

	if err := c.store.Set(r.Context(), productID, stockroomID, req.Quantity); err != nil {
		c.logger.Error("seeding stock record failed",
			zap.Int("stockroomId", stockroomID),
			zap.Int("productId", productID),
			zap.Error(err),
		)
		c.writeInternalError(w)
		return
	}

	c.logger.Info("stock record set",
		zap.Int("stockroomId", stockroomID),
		zap.Int("productId", productID),
		zap.Int("quantity", req.Quantity),
	)

	c.writeJSON(w, http.StatusOK, map[string]int{
		"productId":   productID,
		"stockroomId": stockroomID,
		"quantity":    req.Quantity,
	})
}

func (c *Controller) pathIDs(w http.ResponseWriter, r *http.Request) (stockroomID, productID int, ok bool) {
	stockroomID, err := strconv.Atoi(chi.URLParam(r, "stockroomId"))
	if err != nil || stockroomID <= 0 {
		c.writeValidationError(w, "stockroomId must be a positive integer")
		return 0, 0, false
	}

	productID, err = strconv.Atoi(chi.URLParam(r, "productId"))
	if err != nil || productID <= 0 {
		c.writeValidationError(w, "productId must be a positive integer")
		return 0, 0, false
	}

	return stockroomID, productID, true
}

func (c *Controller) writeValidationError(w http.ResponseWriter, message string) {
	c.writeJSON(w, http.StatusBadRequest, map[string]string{
		"error":   "VALIDATION_ERROR",
		"message": message,
	})
}

func (c *Controller) writeInternalError(w http.ResponseWriter) {
	c.writeJSON(w, http.StatusInternalServerError, map[string]string{
		"error":   "INTERNAL_ERROR",
		"message": "an unexpected error occurred",
	})
}

func (c *Controller) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		c.logger.Error("encoding response failed", zap.Error(err))
	}
}
