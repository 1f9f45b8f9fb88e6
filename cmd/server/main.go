package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"petshop/internal/catalog"
	"petshop/internal/commons"
	"petshop/internal/config"
	"petshop/internal/infrastructure/logger"
	"petshop/internal/infrastructure/mysql"
	"petshop/internal/inventory"
	"petshop/internal/sale"
	"petshop/internal/server"
)

func main() {
	_ = godotenv.Load()

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	db, err := mysql.NewConnection(cfg.Database)
	if err != nil {
		zapLogger.Fatal("connecting to database", zap.Error(err))
	}
	defer db.Close()
	zapLogger.Info("database connected")

	inventoryModule := inventory.NewModule(db, cfg, zapLogger)
	saleCtrl := sale.NewModule(db, inventoryModule.Engine, zapLogger)
	catalogCtrl := catalog.NewController(catalog.NewMySQLRepository(db), zapLogger)

	router := server.NewRouter(saleCtrl, catalogCtrl, inventoryModule.Controller, zapLogger)

	srv := server.New(cfg.Server.Port, router, zapLogger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil {
			zapLogger.Fatal("server error", zap.Error(err))
		}
	}()

	<-quit
	zapLogger.Info("received shutdown signal")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Fatal("server shutdown failed", zap.Error(err))
	}

	zapLogger.Info("server stopped gracefully")
}

func loadConfig() (*config.Config, error) {
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		return commons.LoadConfigFile(path)
	}
	return config.Load()
}
