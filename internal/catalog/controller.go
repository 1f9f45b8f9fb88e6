package catalog

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"petshop/internal/domain"
)

type Repository interface {
	FindProducts(ctx context.Context) ([]domain.Product, error)
	FindProductsByIDs(ctx context.Context, ids []int) ([]domain.Product, error)
	FindStockrooms(ctx context.Context) ([]domain.Stockroom, error)
	FindStockroomByID(ctx context.Context, id int) (*domain.Stockroom, error)
}

type Controller struct {
	repo   Repository
	logger *zap.Logger
}

func NewController(repo Repository, logger *zap.Logger) *Controller {
	return &Controller{
		repo:   repo,
		logger: logger,
	}
}

func (c *Controller) HandleListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := c.repo.FindProducts(r.Context())
	if err != nil {
		c.logger.Error("listing products failed", zap.Error(err))
		c.writeInternalError(w)
		return
	}

	c.writeJSON(w, http.StatusOK, map[string]any{"products": products})
}

func (c *Controller) HandleListStockrooms(w http.ResponseWriter, r *http.Request) {
	stockrooms, err := c.repo.FindStockrooms(r.Context())
	if err != nil {
		c.logger.Error("listing stockrooms failed", zap.Error(err))
		c.writeInternalError(w)
		return
	}

	c.writeJSON(w, http.StatusOK, map[string]any{"stockrooms": stockrooms})
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
