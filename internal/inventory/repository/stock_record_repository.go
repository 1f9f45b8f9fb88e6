package repository

import (
	"context"
	"database/sql"
	"fmt"

	apperrors "petshop/internal/errors"
)

type MySQLStockRecordRepository struct {
	db *sql.DB
}

func NewMySQLStockRecordRepository(db *sql.DB) *MySQLStockRecordRepository {
	return &MySQLStockRecordRepository{db: db}
}

func (r *MySQLStockRecordRepository) Get(ctx context.Context, productID, stockroomID int) (int, error) {
	query := `SELECT quantity FROM StockRecords WHERE productId = ? AND stockroomId = ?`

	var quantity int
	err := r.db.QueryRowContext(ctx, query, productID, stockroomID).Scan(&quantity)

	if err == sql.ErrNoRows {
		return 0, apperrors.NewNotFoundError(fmt.Sprintf("no stock record for product %d in stockroom %d", productID, stockroomID))
	}
	if err != nil {
		return 0, fmt.Errorf("querying stock record: %w", err)
	}

	return quantity, nil
}

func (r *MySQLStockRecordRepository) Set(ctx context.Context, productID, stockroomID, quantity int) error {
	query := `
		INSERT INTO StockRecords (productId, stockroomId, quantity)
		VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE quantity = VALUES(quantity)
	`

	if _, err := r.db.ExecContext(ctx, query, productID, stockroomID, quantity); err != nil {
		return fmt.Errorf("writing stock record: %w", err)
	}

	return nil
}

// CompareAndSet only lands when the stored quantity still equals oldQty.
// Zero rows affected means either a concurrent write changed the quantity or
// the record is gone; both are reported as a conflict and the caller
// re-reads.
func (r *MySQLStockRecordRepository) CompareAndSet(ctx context.Context, productID, stockroomID, oldQty, newQty int) (bool, error) {
	query := `
		UPDATE StockRecords
		SET quantity = ?
		WHERE productId = ? AND stockroomId = ? AND quantity = ?
	`

	result, err := r.db.ExecContext(ctx, query, newQty, productID, stockroomID, oldQty)
	if err != nil {
		return false, fmt.Errorf("updating stock record: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("getting rows affected: %w", err)
	}

	return rowsAffected == 1, nil
}
