package main

import (
	"context"
	"log"

	"github.com/Edwin43-star/solicitudes-almacen-xylem/cmd"
	"github.com/Edwin43-star/solicitudes-almacen-xylem/internal/catalog"
	"github.com/Edwin43-star/solicitudes-almacen-xylem/internal/config"
	"github.com/Edwin43-star/solicitudes-almacen-xylem/internal/database"
	"github.com/Edwin43-star/solicitudes-almacen-xylem/internal/logger"
	"github.com/Edwin43-star/solicitudes-almacen-xylem/internal/notifications"
	"github.com/Edwin43-star/solicitudes-almacen-xylem/internal/repository"
	"github.com/Edwin43-star/solicitudes-almacen-xylem/internal/requests"
	"github.com/Edwin43-star/solicitudes-almacen-xylem/internal/routes"
	"github.com/Edwin43-star/solicitudes-almacen-xylem/internal/sheetstore"
	"github.com/Edwin43-star/solicitudes-almacen-xylem/internal/users"
	"github.com/Edwin43-star/solicitudes-almacen-xylem/internal/voucher"
	"github.com/Edwin43-star/solicitudes-almacen-xylem/pkg/auditlog"
	"github.com/Edwin43-star/solicitudes-almacen-xylem/pkg/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Subcommands (migrate, create-user) run and exit here.
	cmd.Execute()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	zapLogger := logger.NewLogger()
	defer zapLogger.Sync()

	security.SetSecret(cfg.JWTSecret)

	db, err := database.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		zapLogger.Fatal("database connection failed", zap.Error(err))
	}
	defer db.Close()
	zapLogger.Info("connected to the database")

	ctx := context.Background()
	sheetsService, err := sheetstore.NewSheetsService(ctx, []byte(cfg.GoogleCredentials))
	if err != nil {
		zapLogger.Fatal("sheets client failed", zap.Error(err))
	}
	store := sheetstore.NewSheetsStore(sheetsService, cfg.SpreadsheetID)

	voucherLayout := voucher.DefaultLayout()
	if cfg.VoucherLayoutJSON != "" {
		voucherLayout, err = voucher.ParseLayout([]byte(cfg.VoucherLayoutJSON))
		if err != nil {
			zapLogger.Fatal("invalid voucher layout", zap.Error(err))
		}
	}
	zapLogger.Info("voucher layout loaded", zap.String("version", voucherLayout.Version))

	var notifier notifications.Notifier = notifications.NoopNotifier{}
	if cfg.NotifierEnabled() {
		notifier = notifications.NewWhatsAppNotifier(cfg.WhatsAppToken, cfg.WhatsAppPhoneID, zapLogger)
		zapLogger.Info("whatsapp notifier enabled", zap.Int("recipients", len(cfg.WhatsAppRecipients)))
	}

	repo := repository.NewRepository(db)
	auditLog := auditlog.NewAuditLog(repo, zapLogger)

	catalogService := catalog.NewService(store, cfg.CatalogTable)
	voucherWriter := voucher.NewWriter(store, cfg.VoucherTable, voucherLayout, zapLogger)
	requestsService := requests.NewService(
		requests.NewRepository(store, cfg.RequestsTable),
		catalogService,
		voucherWriter,
		notifier,
		cfg.WhatsAppRecipients,
		auditLog,
		zapLogger,
	)

	router := gin.Default()
	routes.RegisterPublicRoutes(router, repo)
	routes.RegisterProtectedRoutes(router,
		requests.NewHandler(requestsService, voucherLayout, zapLogger),
		catalog.NewHandler(catalogService, zapLogger),
		users.NewHandler(users.NewUserRepository(repo)),
	)
	routes.RegisterUtilityRoutes(router)

	zapLogger.Info("starting server", zap.String("addr", cfg.AppHost))
	if err := router.Run(cfg.AppHost); err != nil {
		zapLogger.Fatal("server stopped", zap.Error(err))
	}
}
