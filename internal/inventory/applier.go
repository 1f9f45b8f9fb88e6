package inventory

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"petshop/internal/dto"
	apperrors "petshop/internal/errors"
)

const DefaultMaxWriteAttempts = 3

// Applier executes signed adjustments against one stockroom, one record at a
// time. Every item gets a verdict: a debit that would drive a record below
// zero, a missing record, or a store failure is recorded against that item
// only and processing continues with the rest.
type Applier struct {
	store            StockStore
	logger           *zap.Logger
	maxWriteAttempts int
}

func NewApplier(store StockStore, logger *zap.Logger, maxWriteAttempts int) *Applier {
	if maxWriteAttempts <= 0 {
		maxWriteAttempts = DefaultMaxWriteAttempts
	}
	return &Applier{
		store:            store,
		logger:           logger,
		maxWriteAttempts: maxWriteAttempts,
	}
}

func (a *Applier) Apply(ctx context.Context, adjustments []dto.SignedAdjustment, stockroomID int) dto.OperationResult {
	result := dto.OperationResult{Success: true}

	for _, adjustment := range adjustments {
		applied := a.applyOne(ctx, adjustment, stockroomID)
		result.Adjustments = append(result.Adjustments, applied)

		if applied.Outcome == dto.AdjustmentFailed {
			result.Success = false
			result.Errors = append(result.Errors, applied.Error)
			a.logger.Warn("stock adjustment failed",
				zap.Int("stockroomId", stockroomID),
				zap.Int("productId", adjustment.ProductID),
				zap.Int("delta", adjustment.Delta),
				zap.String("reason", applied.Error),
			)
			continue
		}

		a.logger.Debug("stock adjustment applied",
			zap.Int("stockroomId", stockroomID),
			zap.Int("productId", adjustment.ProductID),
			zap.Int("delta", adjustment.Delta),
			zap.Int("resultingQty", applied.ResultingQty),
		)
	}

	return result
}

// applyOne performs the read/compute/conditional-write cycle for a single
// record. A conditional write that loses to a concurrent adjustment re-reads
// and retries, so the delta is always relative to the value at the moment of
// write, never a stale read.
func (a *Applier) applyOne(ctx context.Context, adjustment dto.SignedAdjustment, stockroomID int) dto.StockAdjustment {
	failed := func(message string) dto.StockAdjustment {
		return dto.StockAdjustment{
			ProductID:   adjustment.ProductID,
			StockroomID: stockroomID,
			Delta:       adjustment.Delta,
			Outcome:     dto.AdjustmentFailed,
			Error:       message,
		}
	}

	for attempt := 1; attempt <= a.maxWriteAttempts; attempt++ {
		current, err := a.store.Get(ctx, adjustment.ProductID, stockroomID)
		if err != nil {
			if _, ok := apperrors.IsNotFoundError(err); ok {
				return failed(fmt.Sprintf("stock not configured for product %d in stockroom %d", adjustment.ProductID, stockroomID))
			}
			return failed(fmt.Sprintf("reading stock for product %d: %v", adjustment.ProductID, err))
		}

		newQty := current + adjustment.Delta
		if adjustment.Delta < 0 && newQty < 0 {
			return failed(fmt.Sprintf("insufficient stock for product %d: available %d, requested %d", adjustment.ProductID, current, -adjustment.Delta))
		}

		ok, err := a.store.CompareAndSet(ctx, adjustment.ProductID, stockroomID, current, newQty)
		if err != nil {
			return failed(fmt.Sprintf("writing stock for product %d: %v", adjustment.ProductID, err))
		}
		if ok {
			return dto.StockAdjustment{
				ProductID:    adjustment.ProductID,
				StockroomID:  stockroomID,
				Delta:        adjustment.Delta,
				ResultingQty: newQty,
				Outcome:      dto.AdjustmentApplied,
			}
		}

		a.logger.Debug("stock write conflict, retrying",
			zap.Int("stockroomId", stockroomID),
			zap.Int("productId", adjustment.ProductID),
			zap.Int("attempt", attempt),
		)
	}

	return failed(fmt.Sprintf("stock write conflict for product %d after %d attempts", adjustment.ProductID, a.maxWriteAttempts))
}
