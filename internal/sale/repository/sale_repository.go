package repository

import (
	"context"
	"database/sql"
	"fmt"

	"petshop/internal/domain"
	apperrors "petshop/internal/errors"
)

type MySQLSaleRepository struct {
	db *sql.DB
}

func NewMySQLSaleRepository(db *sql.DB) *MySQLSaleRepository {
	return &MySQLSaleRepository{db: db}
}

func (r *MySQLSaleRepository) Insert(ctx context.Context, sale domain.Sale) (uint, error) {
	query := `INSERT INTO Sales (publicId, stockroomId, status, totalPrice) VALUES (?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query, sale.PublicID, sale.StockroomID, sale.Status, sale.TotalPrice)
	if err != nil {
		return 0, fmt.Errorf("inserting sale: %w", err)
	}

	lastInsertID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}

	return uint(lastInsertID), nil
}

func (r *MySQLSaleRepository) FindByID(ctx context.Context, id uint) (*domain.Sale, error) {
	query := `
		SELECT id, publicId, stockroomId, status, totalPrice, createdAt, updatedAt
		FROM Sales
		WHERE id = ?
	`

	var sale domain.Sale
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&sale.ID, &sale.PublicID, &sale.StockroomID, &sale.Status,
		&sale.TotalPrice, &sale.CreatedAt, &sale.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("sale with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying sale by id: %w", err)
	}

	return &sale, nil
}

func (r *MySQLSaleRepository) UpdateStockroom(ctx context.Context, id uint, stockroomID int) error {
	return r.update(ctx, id, `UPDATE Sales SET stockroomId = ? WHERE id = ?`, stockroomID)
}

func (r *MySQLSaleRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	return r.update(ctx, id, `UPDATE Sales SET status = ? WHERE id = ?`, status)
}

func (r *MySQLSaleRepository) UpdateTotalPrice(ctx context.Context, id uint, totalPrice float64) error {
	return r.update(ctx, id, `UPDATE Sales SET totalPrice = ? WHERE id = ?`, totalPrice)
}

func (r *MySQLSaleRepository) update(ctx context.Context, id uint, query string, value interface{}) error {
	result, err := r.db.ExecContext(ctx, query, value, id)
	if err != nil {
		return fmt.Errorf("updating sale: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("sale with id %d not found", id))
	}

	return nil
}
