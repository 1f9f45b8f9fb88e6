package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"petshop/internal/domain"
	apperrors "petshop/internal/errors"
)

type MySQLRepository struct {
	db *sql.DB
}

func NewMySQLRepository(db *sql.DB) *MySQLRepository {
	return &MySQLRepository{db: db}
}

func (r *MySQLRepository) FindProducts(ctx context.Context) ([]domain.Product, error) {
	query := `
		SELECT id, name, salePrice, costPrice, isActive, createdAt, updatedAt
		FROM Products
		WHERE isActive = 1
		ORDER BY name
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying products: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

func (r *MySQLRepository) FindProductsByIDs(ctx context.Context, ids []int) ([]domain.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]interface{}, 0, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args = append(args, id)
	}

	query := fmt.Sprintf(`
		SELECT id, name, salePrice, costPrice, isActive, createdAt, updatedAt
		FROM Products
		WHERE id IN (%s)`,
		strings.Join(placeholders, ", "),
	)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying products by ids: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

func (r *MySQLRepository) FindStockrooms(ctx context.Context) ([]domain.Stockroom, error) {
	query := `
		SELECT id, name, isActive, createdAt, updatedAt
		FROM Stockrooms
		ORDER BY name
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying stockrooms: %w", err)
	}
	defer rows.Close()

	var stockrooms []domain.Stockroom
	for rows.Next() {
		var s domain.Stockroom
		if err := rows.Scan(&s.ID, &s.Name, &s.IsActive, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning stockroom row: %w", err)
		}
		stockrooms = append(stockrooms, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating stockroom rows: %w", err)
	}

	return stockrooms, nil
}

func (r *MySQLRepository) FindStockroomByID(ctx context.Context, id int) (*domain.Stockroom, error) {
	query := `
		SELECT id, name, isActive, createdAt, updatedAt
		FROM Stockrooms
		WHERE id = ?
	`

	var s domain.Stockroom
	err := r.db.QueryRowContext(ctx, query, id).Scan(&s.ID, &s.Name, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("stockroom with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying stockroom by id: %w", err)
	}

	return &s, nil
}

func scanProducts(rows *sql.Rows) ([]domain.Product, error) {
	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		err := rows.Scan(&p.ID, &p.Name, &p.SalePrice, &p.CostPrice, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning product row: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating product rows: %w", err)
	}

	return products, nil
}
