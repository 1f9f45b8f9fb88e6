package inventory

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"petshop/internal/domain"
	"petshop/internal/dto"
	apperrors "petshop/internal/errors"
)

// Engine keeps per-stockroom quantities consistent with the sale ledger.
// Each operation is a sequence of single-record writes; the engine never
// retries a whole operation and never hides a partial outcome from the
// caller.
type Engine struct {
	store   StockStore
	applier *Applier
	logger  *zap.Logger
}

func NewEngine(store StockStore, logger *zap.Logger, maxWriteAttempts int) *Engine {
	return &Engine{
		store:   store,
		applier: NewApplier(store, logger, maxWriteAttempts),
		logger:  logger,
	}
}

// Commit debits a stockroom for the full item set of a new sale. The
// pre-check collects every deficiency before anything is written; it is
// advisory only, so a concurrent commit can still fail individual items in
// the apply pass. A partial commit is returned as-is: the caller reverses it
// via Release or deletes the sale.
func (e *Engine) Commit(ctx context.Context, items []domain.SaleLineItem, stockroomID int) dto.OperationResult {
	debits := Debits(items)

	deficiencies := e.precheck(ctx, debits, stockroomID)
	if len(deficiencies) > 0 {
		e.logger.Warn("commit rejected by pre-check",
			zap.Int("stockroomId", stockroomID),
			zap.Int("deficiencyCount", len(deficiencies)),
		)
		return dto.OperationResult{Success: false, Errors: deficiencies}
	}

	result := e.applier.Apply(ctx, debits, stockroomID)
	e.logResult("commit", stockroomID, result)
	return result
}

// Release credits a stockroom for the full item set of a deleted sale.
// Per-item errors are surfaced but never block the remaining items; crediting
// back proceeds for every item that can succeed.
func (e *Engine) Release(ctx context.Context, items []domain.SaleLineItem, stockroomID int) dto.OperationResult {
	result := e.applier.Apply(ctx, Credits(items), stockroomID)
	e.logResult("release", stockroomID, result)
	return result
}

// DeltaReconcile applies the net difference between a sale's old and new
// items within one stockroom. An empty delta is a successful no-op.
func (e *Engine) DeltaReconcile(ctx context.Context, oldItems, newItems []domain.SaleLineItem, stockroomID int) dto.OperationResult {
	adjustments := ComputeDelta(oldItems, newItems)
	if len(adjustments) == 0 {
		return dto.OperationResult{Success: true}
	}

	result := e.applier.Apply(ctx, adjustments, stockroomID)
	e.logResult("delta-reconcile", stockroomID, result)
	return result
}

// Move transfers a sale's items between stockrooms: release at the source,
// commit at the target, and on commit failure a compensating pass that
// restores the source (and reverses any partially committed items at the
// target). Compensation failure is the one outcome the engine cannot repair;
// it is reported as a divergence naming every record needing manual
// correction.
func (e *Engine) Move(ctx context.Context, oldItems []domain.SaleLineItem, oldStockroomID int, newItems []domain.SaleLineItem, newStockroomID int) dto.MoveResult {
	release := e.Release(ctx, oldItems, oldStockroomID)
	if !release.Success {
		e.logger.Warn("move aborted, source release failed",
			zap.Int("oldStockroomId", oldStockroomID),
			zap.Int("newStockroomId", newStockroomID),
		)
		return dto.MoveResult{
			Outcome: dto.MoveReleaseFailed,
			Release: release,
			Errors:  release.Errors,
		}
	}

	commit := e.Commit(ctx, newItems, newStockroomID)
	if commit.Success {
		return dto.MoveResult{
			Outcome: dto.MoveMoved,
			Release: release,
			Commit:  commit,
		}
	}

	compensation := e.compensate(ctx, oldItems, oldStockroomID, commit.Adjustments, newStockroomID)

	result := dto.MoveResult{
		Release:      release,
		Commit:       commit,
		Compensation: &compensation,
		Errors:       commit.Errors,
	}

	if compensation.Success {
		result.Outcome = dto.MoveCompensated
		e.logger.Warn("move failed, source stockroom restored",
			zap.Int("oldStockroomId", oldStockroomID),
			zap.Int("newStockroomId", newStockroomID),
		)
		return result
	}

	result.Outcome = dto.MoveDiverged
	for _, adjustment := range compensation.Adjustments {
		if adjustment.Outcome != dto.AdjustmentFailed {
			continue
		}
		result.Errors = append(result.Errors, fmt.Sprintf(
			"stock divergence: stockroom %d product %d requires manual adjustment of %d (%s)",
			adjustment.StockroomID, adjustment.ProductID, adjustment.Delta, adjustment.Error,
		))
	}
	e.logger.Error("move failed and compensation failed, stock diverged",
		zap.Int("oldStockroomId", oldStockroomID),
		zap.Int("newStockroomId", newStockroomID),
		zap.Strings("errors", result.Errors),
	)
	return result
}

// compensate re-debits the source stockroom to its pre-release state and
// credits back any items the failed commit already debited at the target.
func (e *Engine) compensate(ctx context.Context, oldItems []domain.SaleLineItem, oldStockroomID int, commitAdjustments []dto.StockAdjustment, newStockroomID int) dto.OperationResult {
	var reversals []dto.SignedAdjustment
	for _, adjustment := range commitAdjustments {
		if adjustment.Outcome == dto.AdjustmentApplied {
			reversals = append(reversals, dto.SignedAdjustment{
				ProductID: adjustment.ProductID,
				Delta:     -adjustment.Delta,
			})
		}
	}

	combined := dto.OperationResult{Success: true}
	if len(reversals) > 0 {
		combined = merge(combined, e.applier.Apply(ctx, reversals, newStockroomID))
	}
	combined = merge(combined, e.applier.Apply(ctx, Debits(oldItems), oldStockroomID))
	return combined
}

// precheck reads every record a commit will touch and collects the full
// deficiency list, never failing fast on the first item. Debits arrive
// sorted by product id, so the list order is deterministic.
func (e *Engine) precheck(ctx context.Context, debits []dto.SignedAdjustment, stockroomID int) []string {
	var deficiencies []string
	for _, debit := range debits {
		requested := -debit.Delta
		available, err := e.store.Get(ctx, debit.ProductID, stockroomID)
		if err != nil {
			if _, ok := apperrors.IsNotFoundError(err); ok {
				deficiencies = append(deficiencies, fmt.Sprintf("stock not configured for product %d in stockroom %d", debit.ProductID, stockroomID))
				continue
			}
			deficiencies = append(deficiencies, fmt.Sprintf("reading stock for product %d: %v", debit.ProductID, err))
			continue
		}
		if requested > available {
			deficiencies = append(deficiencies, fmt.Sprintf("insufficient stock for product %d: available %d, requested %d", debit.ProductID, available, requested))
		}
	}
	return deficiencies
}

func (e *Engine) logResult(operation string, stockroomID int, result dto.OperationResult) {
	if result.Success {
		e.logger.Info("stock operation applied",
			zap.String("operation", operation),
			zap.Int("stockroomId", stockroomID),
			zap.Int("adjustmentCount", len(result.Adjustments)),
		)
		return
	}
	e.logger.Warn("stock operation reported failures",
		zap.String("operation", operation),
		zap.Int("stockroomId", stockroomID),
		zap.Int("errorCount", len(result.Errors)),
	)
}

func merge(a, b dto.OperationResult) dto.OperationResult {
	return dto.OperationResult{
		Success:     a.Success && b.Success,
		Errors:      append(a.Errors, b.Errors...),
		Adjustments: append(a.Adjustments, b.Adjustments...),
	}
}
