package sale

import (
	"database/sql"

	"go.uber.org/zap"

	"petshop/internal/catalog"
	"petshop/internal/sale/controller"
	"petshop/internal/sale/repository"
	"petshop/internal/sale/usecase"
)

func NewModule(db *sql.DB, engine usecase.InventoryEngine, logger *zap.Logger) *controller.SaleController {
	saleRepo := repository.NewMySQLSaleRepository(db)
	itemRepo := repository.NewMySQLSaleItemRepository(db)
	catalogRepo := catalog.NewMySQLRepository(db)

	uc := usecase.NewLifecycleUseCase(saleRepo, itemRepo, catalogRepo, engine, logger)

	return controller.NewSaleController(uc, logger)
}
