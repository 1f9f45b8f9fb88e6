package dto

type AdjustmentOutcome string

const (
	AdjustmentApplied AdjustmentOutcome = "APPLIED"
	AdjustmentFailed  AdjustmentOutcome = "FAILED"
)

// SignedAdjustment is one computed quantity change for a single product,
// negative for debits and positive for credits.
type SignedAdjustment struct {
	ProductID int
	Delta     int
}

// StockAdjustment is the per-item verdict of an apply pass. Failed items
// carry an error message and leave ResultingQty at the last observed value.
type StockAdjustment struct {
	ProductID    int               `json:"productId"`
	StockroomID  int               `json:"stockroomId"`
	Delta        int               `json:"delta"`
	ResultingQty int               `json:"resultingQty"`
	Outcome      AdjustmentOutcome `json:"outcome"`
	Error        string            `json:"error,omitempty"`
}

// OperationResult is returned by every engine operation. Business failures
// (insufficient stock, unconfigured records) live in Errors and the per-item
// outcomes; they are never raised as Go errors.
type OperationResult struct {
	Success     bool              `json:"success"`
	Errors      []string          `json:"errors,omitempty"`
	Adjustments []StockAdjustment `json:"adjustments,omitempty"`
}

type MoveOutcome string

const (
	// MoveMoved: release and commit both succeeded.
	MoveMoved MoveOutcome = "MOVED"
	// MoveReleaseFailed: the source release failed, nothing was committed.
	MoveReleaseFailed MoveOutcome = "RELEASE_FAILED"
	// MoveCompensated: the commit failed and the source stockroom was
	// restored to its pre-move state.
	MoveCompensated MoveOutcome = "COMPENSATED"
	// MoveDiverged: the commit failed and compensation also failed; stock
	// no longer matches the sale ledger and needs manual correction.
	MoveDiverged MoveOutcome = "DIVERGED"
)

// MoveResult reports a cross-stockroom move. Compensation is nil unless the
// commit step failed.
type MoveResult struct {
	Outcome      MoveOutcome      `json:"outcome"`
	Release      OperationResult  `json:"release"`
	Commit       OperationResult  `json:"commit"`
	Compensation *OperationResult `json:"compensation,omitempty"`
	Errors       []string         `json:"errors,omitempty"`
}
