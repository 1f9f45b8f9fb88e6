package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"petshop/internal/dto"
	apperrors "petshop/internal/errors"
)

type SaleLifecycleUseCase interface {
	CreateSale(ctx context.Context, req dto.CreateSaleRequest) (*dto.SaleResponse, error)
	UpdateSale(ctx context.Context, saleID uint, req dto.UpdateSaleRequest) (*dto.SaleResponse, error)
	DeleteSale(ctx context.Context, saleID uint) (*dto.SaleResponse, error)
}

type SaleController struct {
	useCase SaleLifecycleUseCase
	logger  *zap.Logger
}

func NewSaleController(useCase SaleLifecycleUseCase, logger *zap.Logger) *SaleController {
	return &SaleController{
		useCase: useCase,
		logger:  logger,
	}
}

func (c *SaleController) HandleCreateSale(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	var req dto.CreateSaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.writeError(w, traceID, http.StatusBadRequest, "VALIDATION_ERROR", "request body must be valid JSON")
		return
	}

	response, err := c.useCase.CreateSale(r.Context(), req)
	if err != nil {
		c.writeFromError(w, logger, traceID, err)
		return
	}

	c.writeResponse(w, traceID, response, http.StatusCreated)
}

func (c *SaleController) HandleUpdateSale(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	saleID, ok := c.saleIDFromPath(w, r, logger, traceID)
	if !ok {
		return
	}

	var req dto.UpdateSaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.writeError(w, traceID, http.StatusBadRequest, "VALIDATION_ERROR", "request body must be valid JSON")
		return
	}

	response, err := c.useCase.UpdateSale(r.Context(), saleID, req)
	if err != nil {
		c.writeFromError(w, logger, traceID, err)
		return
	}

	c.writeResponse(w, traceID, response, http.StatusOK)
}

func (c *SaleController) HandleDeleteSale(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	saleID, ok := c.saleIDFromPath(w, r, logger, traceID)
	if !ok {
		return
	}

	response, err := c.useCase.DeleteSale(r.Context(), saleID)
	if err != nil {
		c.writeFromError(w, logger, traceID, err)
		return
	}

	c.writeResponse(w, traceID, response, http.StatusOK)
}

func (c *SaleController) saleIDFromPath(w http.ResponseWriter, r *http.Request, logger *zap.Logger, traceID string) (uint, bool) {
	saleIDStr := chi.URLParam(r, "saleId")
	saleID, err := strconv.ParseUint(saleIDStr, 10, 64)
	if err != nil || saleID == 0 {
		logger.Warn("invalid saleId in path", zap.String("saleId", saleIDStr))
		c.writeError(w, traceID, http.StatusBadRequest, "VALIDATION_ERROR", "saleId must be a positive integer")
		return 0, false
	}
	return uint(saleID), true
}

// writeResponse maps an engine refusal (success=false) to 409: the request
// was understood but stock could not support it.
func (c *SaleController) writeResponse(w http.ResponseWriter, traceID string, response *dto.SaleResponse, successStatus int) {
	response.TraceID = traceID
	response.Timestamp = time.Now().UTC()

	status := successStatus
	if !response.Success {
		status = http.StatusConflict
	}
	c.writeJSON(w, status, response)
}

func (c *SaleController) writeFromError(w http.ResponseWriter, logger *zap.Logger, traceID string, err error) {
	if ve, ok := apperrors.IsValidationError(err); ok {
		c.writeError(w, traceID, http.StatusBadRequest, "VALIDATION_ERROR", ve.Message)
		return
	}
	if nfe, ok := apperrors.IsNotFoundError(err); ok {
		c.writeError(w, traceID, http.StatusNotFound, "NOT_FOUND", nfe.Message)
		return
	}
	if ce, ok := apperrors.IsConflictError(err); ok {
		c.writeError(w, traceID, http.StatusConflict, "CONFLICT", ce.Message)
		return
	}
	if de, ok := apperrors.IsDivergenceError(err); ok {
		// A divergence is never folded into an ordinary failure response:
		// somebody has to go fix the named records.
		logger.Error("stock divergence surfaced to caller", zap.String("message", de.Message))
		c.writeJSON(w, http.StatusBadGateway, map[string]any{
			"traceId":   traceID,
			"status":    http.StatusBadGateway,
			"code":      "STOCK_DIVERGENCE",
			"message":   de.Message,
			"details":   de.Details,
			"timestamp": time.Now().UTC(),
		})
		return
	}

	logger.Error("sale operation failed", zap.Error(err))
	c.writeError(w, traceID, http.StatusInternalServerError, "INTERNAL_ERROR", "an unexpected error occurred")
}

func (c *SaleController) writeError(w http.ResponseWriter, traceID string, status int, code, message string) {
	c.writeJSON(w, status, dto.SaleErrorResponse{
		TraceID:   traceID,
		Status:    status,
		Message:   message,
		Code:      code,
		Timestamp: time.Now().UTC(),
	})
}

func (c *SaleController) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		c.logger.Error("encoding response failed", zap.Error(err))
	}
}
