package testutil

import (
	"database/sql"
	"fmt"
	"testing"

	_ "github.com/go-sql-driver/mysql"
)

// SetupTestDB opens the test database. Integration tests expect a MySQL
// instance on localhost:3306 with a 'petshop_test' schema and skip when it
// is not available.
func SetupTestDB(t *testing.T) *sql.DB {
	dsn := "root:@tcp(localhost:3306)/petshop_test?parseTime=true"
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.Ping(); err != nil {
		t.Skipf("test database not available: %v", err)
	}

	return db
}

func CleanupTestDB(t *testing.T, db *sql.DB) {
	if db == nil {
		return
	}

	tables := []string{"SaleItems", "Sales", "StockRecords", "Stockrooms", "Products"}
	for _, table := range tables {
		if _, err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)); err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}

	db.Close()
}

func SetupTestTables(t *testing.T, db *sql.DB) {
	createProductsTable := `
	CREATE TABLE IF NOT EXISTS Products (
		id INT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		salePrice DECIMAL(10,2) NOT NULL DEFAULT 0.00,
		costPrice DECIMAL(10,2) NOT NULL DEFAULT 0.00,
		isActive TINYINT(1) NOT NULL DEFAULT 1,
		createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updatedAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`

	createStockroomsTable := `
	CREATE TABLE IF NOT EXISTS Stockrooms (
		id INT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		isActive TINYINT(1) NOT NULL DEFAULT 1,
		createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updatedAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`

	createStockRecordsTable := `
	CREATE TABLE IF NOT EXISTS StockRecords (
		productId INT NOT NULL,
		stockroomId INT NOT NULL,
		quantity INT NOT NULL DEFAULT 0,
		updatedAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (productId, stockroomId),
		INDEX idx_stockroom (stockroomId)
	)`

	createSalesTable := `
	CREATE TABLE IF NOT EXISTS Sales (
		id INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		publicId CHAR(36) NOT NULL,
		stockroomId INT NOT NULL,
		status VARCHAR(50) NOT NULL DEFAULT 'PENDING',
		totalPrice DECIMAL(10,2) NOT NULL DEFAULT 0.00,
		createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updatedAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		INDEX idx_stockroom (stockroomId)
	)`

	createSaleItemsTable := `
	CREATE TABLE IF NOT EXISTS SaleItems (
		id INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		saleId INT UNSIGNED NOT NULL,
		productId INT NOT NULL,
		quantity INT NOT NULL DEFAULT 1,
		unitPrice DECIMAL(10,2) NOT NULL,
		FOREIGN KEY (saleId) REFERENCES Sales(id) ON DELETE CASCADE,
		INDEX idx_sale (saleId),
		INDEX idx_product (productId)
	)`

	tables := []struct {
		name  string
		query string
	}{
		{"Products", createProductsTable},
		{"Stockrooms", createStockroomsTable},
		{"StockRecords", createStockRecordsTable},
		{"Sales", createSalesTable},
		{"SaleItems", createSaleItemsTable},
	}

	for _, tbl := range tables {
		if _, err := db.Exec(tbl.query); err != nil {
			t.Logf("failed to create table %s: %v", tbl.name, err)
		}
	}
}
