package main

import (
	"log"

	"github.com/fasthttp/router"
	"github.com/joho/godotenv"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"mfginsight/internal/config"
	"mfginsight/internal/db"
	"mfginsight/internal/http/handlers"
	"mfginsight/internal/period"
	"mfginsight/internal/warehouse"
	ui "mfginsight/web"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	logger := newLogger(cfg.LogLevel)
	defer func() { _ = logger.Sync() }()

	gdb, err := db.Connect(cfg)
	if err != nil {
		log.Fatalf("failed to connect warehouse: %v", err)
	}

	gateway := warehouse.NewGateway(gdb, logger)
	catalog := warehouse.NewCatalog(gateway, logger)
	catalog.Start(cfg.CatalogRefresh)

	resolver := period.NewResolver(cfg.DefaultMonth, catalog)

	r := router.New()

	r.GET("/healthz", func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(fasthttp.StatusOK)
		ctx.SetBodyString("ok")
	})

	r.ServeFS("/static/{filepath:*}", ui.StaticFS())

	r.GET("/", handlers.DashboardPage(gateway, catalog, resolver, cfg, logger))
	r.GET("/quality", handlers.QualityPage(gateway, logger))
	r.GET("/materials", handlers.MaterialsPage(gateway, logger))

	r.GET("/api/days", handlers.AvailableDays(catalog, logger))
	r.GET("/api/weeks", handlers.AvailableWeeks(catalog, logger))

	r.GET("/metrics", handlers.MetricsExport())

	handler := handlers.RequestLogger(logger)(r.Handler)

	logger.Info("mfginsight listening", zap.String("addr", cfg.ListenAddr))
	if err := fasthttp.ListenAndServe(cfg.ListenAddr, handler); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func newLogger(level string) *zap.Logger {
	zcfg := zap.NewProductionConfig()
	if lvl, err := zapcore.ParseLevel(level); err == nil {
		zcfg.Level = zap.NewAtomicLevelAt(lvl)
	}
	logger, err := zcfg.Build()
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	return logger
}
