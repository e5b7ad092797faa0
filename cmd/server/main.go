package main

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/sanikapatil01/chakali-store/internal/admin"
	"github.com/sanikapatil01/chakali-store/internal/cart"
	"github.com/sanikapatil01/chakali-store/internal/catalog"
	"github.com/sanikapatil01/chakali-store/internal/config"
	"github.com/sanikapatil01/chakali-store/internal/db"
	"github.com/sanikapatil01/chakali-store/internal/httpapi"
	"github.com/sanikapatil01/chakali-store/internal/logger"
	"github.com/sanikapatil01/chakali-store/internal/order"
	"github.com/sanikapatil01/chakali-store/internal/pdfslip"
	"github.com/sanikapatil01/chakali-store/internal/pricing"
	"github.com/sanikapatil01/chakali-store/internal/stats"
	"github.com/sanikapatil01/chakali-store/internal/store"
	"github.com/sanikapatil01/chakali-store/internal/whatsapp"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database, err := db.New(cfg)
	if err != nil {
		logger.L().Fatal("database connection failed", zap.Error(err))
	}
	defer database.Close()

	catalogRepo := catalog.NewRepository(database)
	catalogSvc := catalog.NewService(catalogRepo)

	storeRepo := store.NewRepository(database)
	storeSvc := store.NewService(storeRepo)

	cartSvc := cart.NewService(catalogRepo, storeSvc)

	dispatcher := whatsapp.NewDispatcher(
		cfg.AdminWhatsAppNumber, cfg.WAPhoneNumberID, cfg.WAAccessToken)
	slips := pdfslip.NewGenerator(cfg.OrderPDFDir, cfg.PublicBaseURL)

	orderRepo := order.NewRepository(database)
	orderSvc := order.NewService(orderRepo,
		pricing.NewResolver(catalogRepo), storeSvc, slips, dispatcher)

	statsSvc := stats.NewService(stats.NewRepository(database))
	adminSvc := admin.NewService(admin.NewRepository(database), cfg.JWTSecret)

	router := httpapi.NewRouter(&httpapi.API{
		Catalog:  catalogSvc,
		Cart:     cartSvc,
		Orders:   orderSvc,
		Store:    storeSvc,
		Stats:    statsSvc,
		Admin:    adminSvc,
		WhatsApp: dispatcher,
		PDFDir:   cfg.OrderPDFDir,
	})

	logger.L().Info("server running",
		zap.String("port", cfg.AppPort),
		zap.String("baseURL", cfg.PublicBaseURL),
		zap.Bool("whatsappConfigured", dispatcher.Configured()))

	srv := &http.Server{Addr: ":" + cfg.AppPort, Handler: router}
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.L().Fatal("server stopped", zap.Error(err))
	}
}
