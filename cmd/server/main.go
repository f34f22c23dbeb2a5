package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"loanrisk/internal/alertfeed"
	"loanrisk/internal/config"
	cronrunner "loanrisk/internal/cron"
	"loanrisk/internal/db"
	"loanrisk/internal/decision"
	"loanrisk/internal/handler"
	"loanrisk/internal/logger"
	"loanrisk/internal/predictor"
	gormrepository "loanrisk/internal/repository/gorm"
	"loanrisk/internal/risk"
	"loanrisk/internal/scorer"
	"loanrisk/internal/service"

	_ "loanrisk/docs"
)

func main() {
	cfgPath := os.Getenv("LD_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}

	envOnly := false
	if envOnlyRaw := os.Getenv("LD_ENV_ONLY"); envOnlyRaw != "" {
		envOnly = strings.EqualFold(envOnlyRaw, "true") || envOnlyRaw == "1"
	}

	cfg, err := config.Load(cfgPath, envOnly)
	if err != nil {
		panic(err)
	}

	logger, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	dbConn, err := db.Open(cfg.DB)
	if err != nil {
		logger.Fatal("db open failed", zap.Error(err))
	}
	defer dbConn.Close()

	if err := dbConn.SetTimezone(cfg.DB.Timezone); err != nil {
		logger.Warn("failed to set timezone", zap.Error(err))
	}
	if err := dbConn.AutoMigrate(); err != nil {
		logger.Fatal("auto-migrate failed", zap.Error(err))
	}

	store := gormrepository.New(dbConn.Gorm, cfg.Ledger.DefaultLimit, cfg.Ledger.MaxLimit)

	loader := scorer.NewLoader(cfg.Model.Path, logger)
	if _, err := loader.Get(); err != nil {
		// Not fatal: the service starts degraded and an admin reload
		// brings scoring online once the artifact is in place.
		logger.Warn("initial model load failed, predictions disabled until reload", zap.Error(err))
	}

	var feed *alertfeed.Hub
	if cfg.Feed.Enabled {
		feed = alertfeed.NewHub(cfg.Feed.Buffer, logger)
	}

	thresholds := risk.Thresholds{
		Low:    cfg.Model.Thresholds.Low,
		Medium: cfg.Model.Thresholds.Medium,
	}
	rules := decision.Rules{
		RiskThreshold: cfg.Decision.RiskThreshold,
		DTIThreshold:  cfg.Decision.DTIThreshold,
	}
	predictService, err := predictor.New(loader, store, logger, thresholds, rules, feed)
	if err != nil {
		logger.Fatal("predictor init failed", zap.Error(err))
	}

	if strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(corsMiddleware())
	engine.Use(handler.RequestID())
	engine.Use(handler.RequestLogger(logger))

	healthHandler := &handler.HealthHandler{DB: dbConn.Gorm, Loader: loader}
	healthHandler.Register(engine)
	predictHandler := &handler.PredictHandler{Service: predictService, Logger: logger}
	predictHandler.Register(engine)
	ledgerHandler := &handler.LedgerHandler{Repo: store}
	ledgerHandler.Register(engine)
	statsHandler := &handler.StatsHandler{Repo: store}
	statsHandler.Register(engine)
	adminHandler := &handler.AdminHandler{Loader: loader, Logger: logger}
	adminHandler.Register(engine)
	if feed != nil {
		feedHandler := &handler.FeedHandler{Hub: feed, Logger: logger}
		feedHandler.Register(engine)
	}

	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: engine,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	statsSvc := &service.DailyStatsService{Repo: store, Logger: logger}

	if cfg.Cron.Enabled {
		cronRunner := cronrunner.New(logger, ctx)
		_, err = cronRunner.Add(cfg.Cron.StatsSnapshot, func(ctx context.Context) {
			if err := statsSvc.RunOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Warn("stats snapshot failed", zap.Error(err))
			}
		})
		if err != nil {
			logger.Warn("cron register stats snapshot failed", zap.Error(err))
		}
		cronRunner.Start()
		defer cronRunner.Stop()
	}

	errCh := make(chan error, 1)

	go func() {
		logger.Info("http server starting", zap.String("addr", cfg.Server.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown requested")
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
