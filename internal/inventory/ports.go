package inventory

import "context"

// StockStore is the persistence contract for stock records. The backing
// store offers no multi-row transactions; every method touches exactly one
// (product, stockroom) record.
type StockStore interface {
	// Get returns the current quantity, or a NotFoundError when no record
	// exists for the pair.
	Get(ctx context.Context, productID, stockroomID int) (int, error)

	// Set writes a quantity unconditionally, creating the record if needed.
	// Used for seeding and administrative correction, never by the engine's
	// adjustment path.
	Set(ctx context.Context, productID, stockroomID, quantity int) error

	// CompareAndSet writes newQty only if the stored quantity still equals
	// oldQty. Returns false when the record changed underneath the caller.
	CompareAndSet(ctx context.Context, productID, stockroomID, oldQty, newQty int) (bool, error)
}
