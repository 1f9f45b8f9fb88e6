package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"petshop/internal/catalog"
	"petshop/internal/inventory"
	salecontroller "petshop/internal/sale/controller"
)

func NewRouter(
	saleCtrl *salecontroller.SaleController,
	catalogCtrl *catalog.Controller,
	stockCtrl *inventory.Controller,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("ok")); err != nil {
			logger.Error("writing health response", zap.Error(err))
		}
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/sales", saleCtrl.HandleCreateSale)
		r.Put("/sales/{saleId}", saleCtrl.HandleUpdateSale)
		r.Delete("/sales/{saleId}", saleCtrl.HandleDeleteSale)

		r.Get("/products", catalogCtrl.HandleListProducts)
		r.Get("/stockrooms", catalogCtrl.HandleListStockrooms)

		r.Get("/stockrooms/{stockroomId}/stock/{productId}", stockCtrl.HandleGetStock)
		r.Put("/stockrooms/{stockroomId}/stock/{productId}", stockCtrl.HandleSetStock)
	})

	return r
}
