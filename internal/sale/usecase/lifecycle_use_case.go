package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"petshop/internal/domain"
	"petshop/internal/dto"
	apperrors "petshop/internal/errors"
)

type InventoryEngine interface {
	Commit(ctx context.Context, items []domain.SaleLineItem, stockroomID int) dto.OperationResult
	Release(ctx context.Context, items []domain.SaleLineItem, stockroomID int) dto.OperationResult
	DeltaReconcile(ctx context.Context, oldItems, newItems []domain.SaleLineItem, stockroomID int) dto.OperationResult
	Move(ctx context.Context, oldItems []domain.SaleLineItem, oldStockroomID int, newItems []domain.SaleLineItem, newStockroomID int) dto.MoveResult
}

type SaleRepository interface {
	Insert(ctx context.Context, sale domain.Sale) (uint, error)
	FindByID(ctx context.Context, id uint) (*domain.Sale, error)
	UpdateStockroom(ctx context.Context, id uint, stockroomID int) error
	UpdateStatus(ctx context.Context, id uint, status string) error
	UpdateTotalPrice(ctx context.Context, id uint, totalPrice float64) error
}

type SaleItemRepository interface {
	Insert(ctx context.Context, item domain.SaleLineItem) (uint, error)
	FindBySaleID(ctx context.Context, saleID uint) ([]domain.SaleLineItem, error)
	DeleteBySaleID(ctx context.Context, saleID uint) error
}

type CatalogRepository interface {
	FindProductsByIDs(ctx context.Context, ids []int) ([]domain.Product, error)
	FindStockroomByID(ctx context.Context, id int) (*domain.Stockroom, error)
}

// LifecycleUseCase drives the stock engine around sale mutations. The rule
// throughout: the engine runs first, and the sale record is only persisted
// when the engine accepted the change, so the ledger and the sale never
// diverge. Engine business failures come back in the response body, not as
// Go errors.
type LifecycleUseCase struct {
	saleRepo    SaleRepository
	itemRepo    SaleItemRepository
	catalogRepo CatalogRepository
	engine      InventoryEngine
	logger      *zap.Logger
}

func NewLifecycleUseCase(
	saleRepo SaleRepository,
	itemRepo SaleItemRepository,
	catalogRepo CatalogRepository,
	engine InventoryEngine,
	logger *zap.Logger,
) *LifecycleUseCase {
	return &LifecycleUseCase{
		saleRepo:    saleRepo,
		itemRepo:    itemRepo,
		catalogRepo: catalogRepo,
		engine:      engine,
		logger:      logger,
	}
}

func (uc *LifecycleUseCase) CreateSale(ctx context.Context, req dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if err := uc.validateItems(ctx, req.StockroomID, req.Items); err != nil {
		return nil, err
	}

	items := toLineItems(req.Items)

	result := uc.engine.Commit(ctx, items, req.StockroomID)
	if !result.Success {
		uc.logger.Warn("sale creation refused by stock commit",
			zap.Int("stockroomId", req.StockroomID),
			zap.Int("errorCount", len(result.Errors)),
		)
		return &dto.SaleResponse{
			StockroomID: req.StockroomID,
			Success:     false,
			Errors:      result.Errors,
			Adjustments: result.Adjustments,
		}, nil
	}

	sale := domain.Sale{
		PublicID:    uuid.New().String(),
		StockroomID: req.StockroomID,
		Status:      domain.SaleStatusPending,
		TotalPrice:  domain.TotalPrice(items),
	}

	saleID, err := uc.saleRepo.Insert(ctx, sale)
	if err != nil {
		uc.rollbackCommit(ctx, items, req.StockroomID)
		return nil, apperrors.NewInternalError("persisting sale", err)
	}

	for _, item := range items {
		item.SaleID = saleID
		if _, err := uc.itemRepo.Insert(ctx, item); err != nil {
			uc.rollbackCommit(ctx, items, req.StockroomID)
			return nil, apperrors.NewInternalError("persisting sale items", err)
		}
	}

	uc.logger.Info("sale created",
		zap.Uint("saleId", saleID),
		zap.Int("stockroomId", req.StockroomID),
		zap.Int("itemCount", len(items)),
		zap.Float64("totalPrice", sale.TotalPrice),
	)

	return &dto.SaleResponse{
		SaleID:      saleID,
		PublicID:    sale.PublicID,
		StockroomID: sale.StockroomID,
		Status:      sale.Status,
		TotalPrice:  sale.TotalPrice,
		Success:     true,
		Adjustments: result.Adjustments,
	}, nil
}

func (uc *LifecycleUseCase) UpdateSale(ctx context.Context, saleID uint, req dto.UpdateSaleRequest) (*dto.SaleResponse, error) {
	if err := uc.validateItems(ctx, req.StockroomID, req.Items); err != nil {
		return nil, err
	}

	sale, err := uc.saleRepo.FindByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if sale.Status == domain.SaleStatusCancelled {
		return nil, apperrors.NewConflictError("sale is cancelled")
	}

	oldItems, err := uc.itemRepo.FindBySaleID(ctx, saleID)
	if err != nil {
		return nil, apperrors.NewInternalError("loading sale items", err)
	}

	newItems := toLineItems(req.Items)

	if req.StockroomID == sale.StockroomID {
		return uc.reconcileSameStockroom(ctx, sale, oldItems, newItems)
	}
	return uc.moveStockroom(ctx, sale, oldItems, newItems, req.StockroomID)
}

func (uc *LifecycleUseCase) reconcileSameStockroom(ctx context.Context, sale *domain.Sale, oldItems, newItems []domain.SaleLineItem) (*dto.SaleResponse, error) {
	result := uc.engine.DeltaReconcile(ctx, oldItems, newItems, sale.StockroomID)
	if !result.Success {
		uc.logger.Warn("sale update refused by stock reconcile",
			zap.Uint("saleId", sale.ID),
			zap.Int("stockroomId", sale.StockroomID),
			zap.Int("errorCount", len(result.Errors)),
		)
		return &dto.SaleResponse{
			SaleID:      sale.ID,
			PublicID:    sale.PublicID,
			StockroomID: sale.StockroomID,
			Status:      sale.Status,
			Success:     false,
			Errors:      result.Errors,
			Adjustments: result.Adjustments,
		}, nil
	}

	if err := uc.replaceItems(ctx, sale.ID, newItems); err != nil {
		// Put the ledger back before reporting the persistence failure.
		reverse := uc.engine.DeltaReconcile(ctx, newItems, oldItems, sale.StockroomID)
		if !reverse.Success {
			uc.logger.Error("ledger rollback after persistence failure also failed",
				zap.Uint("saleId", sale.ID),
				zap.Strings("errors", reverse.Errors),
			)
		}
		return nil, apperrors.NewInternalError("persisting sale items", err)
	}

	totalPrice := domain.TotalPrice(newItems)
	if err := uc.saleRepo.UpdateTotalPrice(ctx, sale.ID, totalPrice); err != nil {
		return nil, apperrors.NewInternalError("updating sale total", err)
	}

	uc.logger.Info("sale updated",
		zap.Uint("saleId", sale.ID),
		zap.Int("stockroomId", sale.StockroomID),
		zap.Int("adjustmentCount", len(result.Adjustments)),
	)

	return &dto.SaleResponse{
		SaleID:      sale.ID,
		PublicID:    sale.PublicID,
		StockroomID: sale.StockroomID,
		Status:      sale.Status,
		TotalPrice:  totalPrice,
		Success:     true,
		Adjustments: result.Adjustments,
	}, nil
}

func (uc *LifecycleUseCase) moveStockroom(ctx context.Context, sale *domain.Sale, oldItems, newItems []domain.SaleLineItem, newStockroomID int) (*dto.SaleResponse, error) {
	move := uc.engine.Move(ctx, oldItems, sale.StockroomID, newItems, newStockroomID)

	switch move.Outcome {
	case dto.MoveMoved:
		if err := uc.replaceItems(ctx, sale.ID, newItems); err != nil {
			return nil, apperrors.NewInternalError("persisting sale items", err)
		}
		if err := uc.saleRepo.UpdateStockroom(ctx, sale.ID, newStockroomID); err != nil {
			return nil, apperrors.NewInternalError("updating sale stockroom", err)
		}
		totalPrice := domain.TotalPrice(newItems)
		if err := uc.saleRepo.UpdateTotalPrice(ctx, sale.ID, totalPrice); err != nil {
			return nil, apperrors.NewInternalError("updating sale total", err)
		}

		uc.logger.Info("sale moved",
			zap.Uint("saleId", sale.ID),
			zap.Int("oldStockroomId", sale.StockroomID),
			zap.Int("newStockroomId", newStockroomID),
		)

		return &dto.SaleResponse{
			SaleID:      sale.ID,
			PublicID:    sale.PublicID,
			StockroomID: newStockroomID,
			Status:      sale.Status,
			TotalPrice:  totalPrice,
			Success:     true,
			Adjustments: append(move.Release.Adjustments, move.Commit.Adjustments...),
			MoveOutcome: move.Outcome,
		}, nil

	case dto.MoveDiverged:
		details := divergenceDetails(move)
		uc.logger.Error("sale move diverged, manual correction required",
			zap.Uint("saleId", sale.ID),
			zap.Strings("errors", move.Errors),
		)
		return nil, apperrors.NewDivergenceError(strings.Join(move.Errors, "; "), details...)

	default:
		// RELEASE_FAILED and COMPENSATED both leave the sale unchanged; the
		// compensated outcome is still reported so the caller can log it.
		uc.logger.Warn("sale move refused",
			zap.Uint("saleId", sale.ID),
			zap.String("outcome", string(move.Outcome)),
			zap.Int("errorCount", len(move.Errors)),
		)
		response := &dto.SaleResponse{
			SaleID:      sale.ID,
			PublicID:    sale.PublicID,
			StockroomID: sale.StockroomID,
			Status:      sale.Status,
			Success:     false,
			Errors:      move.Errors,
			MoveOutcome: move.Outcome,
		}
		if move.Compensation != nil {
			response.Adjustments = move.Compensation.Adjustments
		}
		return response, nil
	}
}

// DeleteSale credits the sale's items back and marks the sale cancelled.
// Crediting proceeds for every item that can succeed; per-item errors are
// reported but never block the cancellation. A second delete is refused, so
// the engine is never asked to double-credit.
func (uc *LifecycleUseCase) DeleteSale(ctx context.Context, saleID uint) (*dto.SaleResponse, error) {
	sale, err := uc.saleRepo.FindByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if sale.Status == domain.SaleStatusCancelled {
		return nil, apperrors.NewConflictError("sale is already cancelled")
	}

	items, err := uc.itemRepo.FindBySaleID(ctx, saleID)
	if err != nil {
		return nil, apperrors.NewInternalError("loading sale items", err)
	}

	result := uc.engine.Release(ctx, items, sale.StockroomID)

	if err := uc.saleRepo.UpdateStatus(ctx, saleID, domain.SaleStatusCancelled); err != nil {
		return nil, apperrors.NewInternalError("cancelling sale", err)
	}

	uc.logger.Info("sale cancelled",
		zap.Uint("saleId", saleID),
		zap.Int("stockroomId", sale.StockroomID),
		zap.Bool("releaseClean", result.Success),
	)

	return &dto.SaleResponse{
		SaleID:      saleID,
		PublicID:    sale.PublicID,
		StockroomID: sale.StockroomID,
		Status:      domain.SaleStatusCancelled,
		Success:     result.Success,
		Errors:      result.Errors,
		Adjustments: result.Adjustments,
	}, nil
}

func (uc *LifecycleUseCase) validateItems(ctx context.Context, stockroomID int, items []dto.SaleItemRequest) error {
	if stockroomID <= 0 {
		return apperrors.NewValidationError("stockroomId must be a positive integer", apperrors.ValidationDetail{
			Field:   "stockroomId",
			Message: "stockroomId must be a positive integer",
		})
	}
	if len(items) == 0 {
		return apperrors.NewValidationError("items is required", apperrors.ValidationDetail{
			Field:   "items",
			Message: "items must not be empty",
		})
	}
	for i, item := range items {
		if item.ProductID <= 0 {
			return apperrors.NewValidationError("productId must be a positive integer", apperrors.ValidationDetail{
				Field:   fmt.Sprintf("items[%d].productId", i),
				Message: "productId must be a positive integer",
			})
		}
		if item.Quantity <= 0 {
			return apperrors.NewValidationError("quantity must be greater than zero", apperrors.ValidationDetail{
				Field:   fmt.Sprintf("items[%d].quantity", i),
				Message: "quantity must be greater than zero",
			})
		}
		if item.UnitPrice < 0 {
			return apperrors.NewValidationError("unitPrice must not be negative", apperrors.ValidationDetail{
				Field:   fmt.Sprintf("items[%d].unitPrice", i),
				Message: "unitPrice must not be negative",
			})
		}
	}

	stockroom, err := uc.catalogRepo.FindStockroomByID(ctx, stockroomID)
	if err != nil {
		return err
	}
	if !stockroom.IsActive {
		return apperrors.NewConflictError(fmt.Sprintf("stockroom %d is not active", stockroomID))
	}

	return uc.checkProductsExist(ctx, items)
}

func (uc *LifecycleUseCase) checkProductsExist(ctx context.Context, items []dto.SaleItemRequest) error {
	ids := make([]int, 0, len(items))
	seen := make(map[int]struct{}, len(items))
	for _, item := range items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}

	products, err := uc.catalogRepo.FindProductsByIDs(ctx, ids)
	if err != nil {
		return apperrors.NewInternalError("loading products", err)
	}

	found := make(map[int]struct{}, len(products))
	for _, product := range products {
		found[product.ID] = struct{}{}
	}

	var missing []string
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			missing = append(missing, fmt.Sprintf("%d", id))
		}
	}
	if len(missing) > 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("products not found: %s", strings.Join(missing, ", ")))
	}

	return nil
}

func (uc *LifecycleUseCase) replaceItems(ctx context.Context, saleID uint, items []domain.SaleLineItem) error {
	if err := uc.itemRepo.DeleteBySaleID(ctx, saleID); err != nil {
		return err
	}
	for _, item := range items {
		item.SaleID = saleID
		if _, err := uc.itemRepo.Insert(ctx, item); err != nil {
			return err
		}
	}
	return nil
}

// rollbackCommit is best-effort: a committed debit must not leak when the
// sale row itself failed to persist.
func (uc *LifecycleUseCase) rollbackCommit(ctx context.Context, items []domain.SaleLineItem, stockroomID int) {
	release := uc.engine.Release(ctx, items, stockroomID)
	if !release.Success {
		uc.logger.Error("releasing stock after persistence failure also failed",
			zap.Int("stockroomId", stockroomID),
			zap.Strings("errors", release.Errors),
		)
	}
}

func divergenceDetails(move dto.MoveResult) []apperrors.DivergenceDetail {
	var details []apperrors.DivergenceDetail
	if move.Compensation == nil {
		return details
	}
	for _, adjustment := range move.Compensation.Adjustments {
		if adjustment.Outcome != dto.AdjustmentFailed {
			continue
		}
		details = append(details, apperrors.DivergenceDetail{
			StockroomID: adjustment.StockroomID,
			ProductID:   adjustment.ProductID,
			Quantity:    adjustment.Delta,
		})
	}
	return details
}

func toLineItems(items []dto.SaleItemRequest) []domain.SaleLineItem {
	lineItems := make([]domain.SaleLineItem, 0, len(items))
	for _, item := range items {
		lineItems = append(lineItems, domain.SaleLineItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	return lineItems
}
