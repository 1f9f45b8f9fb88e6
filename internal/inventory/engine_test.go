package inventory

import (
	"context"
	"strings"
	"testing"

	"go.uber.org/zap"

	"petshop/internal/dto"
)

func newTestEngine(store StockStore) *Engine {
	return NewEngine(store, zap.NewNop(), DefaultMaxWriteAttempts)
}

func TestCommit_DebitsStock(t *testing.T) {
	store := newMemStore(map[recordKey]int{{1, 1}: 10})
	engine := newTestEngine(store)

	result := engine.Commit(context.Background(), items([2]int{1, 4}), 1)

	if !result.Success {
		t.Fatalf("expected success, got errors %v", result.Errors)
	}
	if got := store.quantity(1, 1); got != 6 {
		t.Errorf("expected quantity 6, got %d", got)
	}
}

func TestCommit_PrecheckRejectsWithoutMutation(t *testing.T) {
	store := newMemStore(map[recordKey]int{{1, 1}: 3})
	engine := newTestEngine(store)

	result := engine.Commit(context.Background(), items([2]int{1, 5}), 1)

	if result.Success {
		t.Fatal("expected failure")
	}
	if len(result.Adjustments) != 0 {
		t.Errorf("expected nothing applied, got %v", result.Adjustments)
	}
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "available 3, requested 5") {
		t.Errorf("expected deficiency naming quantities, got %v", result.Errors)
	}
	if got := store.quantity(1, 1); got != 3 {
		t.Errorf("expected quantity unchanged at 3, got %d", got)
	}
}

func TestCommit_PrecheckCollectsAllDeficiencies(t *testing.T) {
	store := newMemStore(map[recordKey]int{{1, 1}: 2})
	engine := newTestEngine(store)

	result := engine.Commit(context.Background(), items([2]int{1, 5}, [2]int{2, 1}), 1)

	if result.Success {
		t.Fatal("expected failure")
	}
	if len(result.Errors) != 2 {
		t.Fatalf("expected both deficiencies reported, got %v", result.Errors)
	}
	if !strings.Contains(result.Errors[0], "insufficient stock for product 1") {
		t.Errorf("unexpected first deficiency: %s", result.Errors[0])
	}
	if !strings.Contains(result.Errors[1], "stock not configured for product 2") {
		t.Errorf("unexpected second deficiency: %s", result.Errors[1])
	}
}

func TestCommit_DuplicateItemsAreSummed(t *testing.T) {
	store := newMemStore(map[recordKey]int{{1, 1}: 10})
	engine := newTestEngine(store)

	result := engine.Commit(context.Background(), items([2]int{1, 3}, [2]int{1, 4}), 1)

	if !result.Success {
		t.Fatalf("expected success, got errors %v", result.Errors)
	}
	if got := store.quantity(1, 1); got != 3 {
		t.Errorf("expected one summed debit of 7, quantity %d", got)
	}
}

func TestRelease_CreditsStockAndNeverBlocks(t *testing.T) {
	store := newMemStore(map[recordKey]int{{1, 1}: 6})
	engine := newTestEngine(store)

	result := engine.Release(context.Background(), items([2]int{1, 4}, [2]int{9, 2}), 1)

	if result.Success {
		t.Fatal("expected reported failure for the unconfigured product")
	}
	if got := store.quantity(1, 1); got != 10 {
		t.Errorf("expected configured item credited to 10, got %d", got)
	}
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "stock not configured for product 9") {
		t.Errorf("expected not-configured error surfaced, got %v", result.Errors)
	}
}

func TestDeltaReconcile_NetChangeOnly(t *testing.T) {
	store := newMemStore(map[recordKey]int{{1, 1}: 6})
	engine := newTestEngine(store)

	result := engine.DeltaReconcile(context.Background(), items([2]int{1, 4}), items([2]int{1, 6}), 1)

	if !result.Success {
		t.Fatalf("expected success, got errors %v", result.Errors)
	}
	// Delta is +2... the sale asked for two more units, so stock goes down.
	if got := store.quantity(1, 1); got != 8 {
		t.Errorf("expected quantity 8, got %d", got)
	}
}

func TestDeltaReconcile_EmptyDeltaIsNoOp(t *testing.T) {
	store := newMemStore(map[recordKey]int{{1, 1}: 6})
	engine := newTestEngine(store)

	same := items([2]int{1, 4})
	result := engine.DeltaReconcile(context.Background(), same, same, 1)

	if !result.Success {
		t.Fatalf("expected success, got errors %v", result.Errors)
	}
	if len(result.Adjustments) != 0 {
		t.Errorf("expected no adjustments, got %v", result.Adjustments)
	}
	if got := store.quantity(1, 1); got != 6 {
		t.Errorf("expected quantity unchanged at 6, got %d", got)
	}
}

func TestMove_Success(t *testing.T) {
	store := newMemStore(map[recordKey]int{{1, 1}: 10, {1, 2}: 5})
	engine := newTestEngine(store)

	saleItems := items([2]int{1, 4})
	result := engine.Move(context.Background(), saleItems, 1, saleItems, 2)

	if result.Outcome != dto.MoveMoved {
		t.Fatalf("expected MOVED, got %s with errors %v", result.Outcome, result.Errors)
	}
	if got := store.quantity(1, 1); got != 14 {
		t.Errorf("expected source credited to 14, got %d", got)
	}
	if got := store.quantity(1, 2); got != 1 {
		t.Errorf("expected target debited to 1, got %d", got)
	}
}

func TestMove_ReleaseFailureAbortsBeforeTarget(t *testing.T) {
	store := newMemStore(map[recordKey]int{{1, 2}: 5})
	engine := newTestEngine(store)

	saleItems := items([2]int{1, 4})
	result := engine.Move(context.Background(), saleItems, 1, saleItems, 2)

	if result.Outcome != dto.MoveReleaseFailed {
		t.Fatalf("expected RELEASE_FAILED, got %s", result.Outcome)
	}
	if got := store.quantity(1, 2); got != 5 {
		t.Errorf("expected target untouched at 5, got %d", got)
	}
}

func TestMove_CommitFailureIsCompensated(t *testing.T) {
	store := newMemStore(map[recordKey]int{{1, 1}: 10, {1, 2}: 1})
	engine := newTestEngine(store)

	saleItems := items([2]int{1, 4})
	result := engine.Move(context.Background(), saleItems, 1, saleItems, 2)

	if result.Outcome != dto.MoveCompensated {
		t.Fatalf("expected COMPENSATED, got %s with errors %v", result.Outcome, result.Errors)
	}
	if got := store.quantity(1, 1); got != 10 {
		t.Errorf("expected source restored to 10, got %d", got)
	}
	if got := store.quantity(1, 2); got != 1 {
		t.Errorf("expected target untouched at 1, got %d", got)
	}
	if len(result.Errors) == 0 {
		t.Error("expected the commit failure to stay visible on a compensated move")
	}
}

func TestMove_CompensationFailureIsDivergence(t *testing.T) {
	store := newMemStore(map[recordKey]int{{1, 1}: 10, {1, 2}: 1})
	// One successful write on the source (the release), then the store goes
	// unreachable for that record, so the compensating re-debit fails.
	store.casErrAfter = map[recordKey]int{{1, 1}: 1}
	engine := newTestEngine(store)

	saleItems := items([2]int{1, 4})
	result := engine.Move(context.Background(), saleItems, 1, saleItems, 2)

	if result.Outcome != dto.MoveDiverged {
		t.Fatalf("expected DIVERGED, got %s", result.Outcome)
	}

	found := false
	for _, message := range result.Errors {
		if strings.Contains(message, "stock divergence: stockroom 1 product 1") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected divergence naming stockroom and product, got %v", result.Errors)
	}
}

func TestCompensate_ReversesPartialTargetCommit(t *testing.T) {
	store := newMemStore(map[recordKey]int{{1, 1}: 14, {1, 2}: 2, {2, 2}: 5})
	engine := newTestEngine(store)

	// A commit that got product 2 debited at the target before product 1
	// failed; compensation must credit it back and re-debit the source.
	partial := []dto.StockAdjustment{
		{ProductID: 2, StockroomID: 2, Delta: -3, ResultingQty: 5, Outcome: dto.AdjustmentApplied},
		{ProductID: 1, StockroomID: 2, Delta: -4, Outcome: dto.AdjustmentFailed, Error: "insufficient stock"},
	}
	oldItems := items([2]int{1, 4})

	result := engine.compensate(context.Background(), oldItems, 1, partial, 2)

	if !result.Success {
		t.Fatalf("expected compensation to succeed, got errors %v", result.Errors)
	}
	if got := store.quantity(2, 2); got != 8 {
		t.Errorf("expected target credit back to 8, got %d", got)
	}
	if got := store.quantity(1, 1); got != 10 {
		t.Errorf("expected source re-debited to 10, got %d", got)
	}
}

// For a fixed record the sum of applied deltas equals finalQty-initialQty,
// and no operation ever leaves it negative.
func TestEngine_ConservationAcrossOperations(t *testing.T) {
	store := newMemStore(map[recordKey]int{{1, 1}: 20})
	engine := newTestEngine(store)
	ctx := context.Background()

	appliedSum := 0
	record := func(result dto.OperationResult) {
		for _, adjustment := range result.Adjustments {
			if adjustment.Outcome == dto.AdjustmentApplied {
				appliedSum += adjustment.Delta
			}
			if adjustment.Outcome == dto.AdjustmentApplied && adjustment.ResultingQty < 0 {
				t.Fatalf("observed negative quantity: %+v", adjustment)
			}
		}
	}

	record(engine.Commit(ctx, items([2]int{1, 5}), 1))
	record(engine.DeltaReconcile(ctx, items([2]int{1, 5}), items([2]int{1, 8}), 1))
	record(engine.Commit(ctx, items([2]int{1, 30}), 1)) // rejected, no mutation
	record(engine.Release(ctx, items([2]int{1, 8}), 1))
	record(engine.Commit(ctx, items([2]int{1, 2}), 1))

	final := store.quantity(1, 1)
	if final < 0 {
		t.Fatalf("final quantity negative: %d", final)
	}
	if got := 20 + appliedSum; got != final {
		t.Errorf("conservation violated: initial 20 + applied %d = %d, store has %d", appliedSum, got, final)
	}
}
