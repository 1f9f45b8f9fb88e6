package inventory

import (
	"database/sql"

	"go.uber.org/zap"

	"petshop/internal/config"
	"petshop/internal/inventory/repository"
)

type Module struct {
	Engine     *Engine
	Store      StockStore
	Controller *Controller
}

func NewModule(db *sql.DB, cfg *config.Config, logger *zap.Logger) *Module {
	store := repository.NewMySQLStockRecordRepository(db)
	engine := NewEngine(store, logger, cfg.Inventory.MaxWriteAttempts)

	return &Module{
		Engine:     engine,
		Store:      store,
		Controller: NewController(store, logger),
	}
}
