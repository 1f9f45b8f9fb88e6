package repository

import (
	"context"
	"database/sql"
	"fmt"

	"petshop/internal/domain"
)

type MySQLSaleItemRepository struct {
	db *sql.DB
}

func NewMySQLSaleItemRepository(db *sql.DB) *MySQLSaleItemRepository {
	return &MySQLSaleItemRepository{db: db}
}

func (r *MySQLSaleItemRepository) Insert(ctx context.Context, item domain.SaleLineItem) (uint, error) {
	query := `INSERT INTO SaleItems (saleId, productId, quantity, unitPrice) VALUES (?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query, item.SaleID, item.ProductID, item.Quantity, item.UnitPrice)
	if err != nil {
		return 0, fmt.Errorf("inserting sale item: %w", err)
	}

	lastInsertID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}

	return uint(lastInsertID), nil
}

func (r *MySQLSaleItemRepository) FindBySaleID(ctx context.Context, saleID uint) ([]domain.SaleLineItem, error) {
	query := `
		SELECT id, saleId, productId, quantity, unitPrice
		FROM SaleItems
		WHERE saleId = ?
		ORDER BY productId
	`

	rows, err := r.db.QueryContext(ctx, query, saleID)
	if err != nil {
		return nil, fmt.Errorf("querying sale items: %w", err)
	}
	defer rows.Close()

	var items []domain.SaleLineItem
	for rows.Next() {
		var item domain.SaleLineItem
		err := rows.Scan(&item.ID, &item.SaleID, &item.ProductID, &item.Quantity, &item.UnitPrice)
		if err != nil {
			return nil, fmt.Errorf("scanning sale item row: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sale item rows: %w", err)
	}

	return items, nil
}

func (r *MySQLSaleItemRepository) DeleteBySaleID(ctx context.Context, saleID uint) error {
	query := `DELETE FROM SaleItems WHERE saleId = ?`

	if _, err := r.db.ExecContext(ctx, query, saleID); err != nil {
		return fmt.Errorf("deleting sale items: %w", err)
	}

	return nil
}
