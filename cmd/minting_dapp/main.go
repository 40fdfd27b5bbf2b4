package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"

	"minting_dapp/internal/app/port"
	"minting_dapp/internal/app/service"
	"minting_dapp/internal/app/store"
	"minting_dapp/internal/client"
	"minting_dapp/internal/infrastructure/configloader"
	clientprovider "minting_dapp/internal/infrastructure/network/client"
	"minting_dapp/internal/infrastructure/restapi"
	"minting_dapp/internal/pkg/logger"
	"minting_dapp/internal/pkg/metrics"
	"minting_dapp/internal/pkg/utils"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfgPath := utils.GetEnv("CONFIG_PATH", "config/config.yml")
	cfg, err := configloader.Load(cfgPath)
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	zapLogger, err := logger.NewZap(cfg.Logging.Level, cfg.Logging.Development)
	if err != nil {
		logrus.Fatalf("Failed to initialize zap logger: %v", err)
	}
	defer zapLogger.Sync() //nolint:errcheck
	logger.InitSlog(zapLogger)
	appLogger := logger.NewSlogAdapter()

	zapLogger.Info("Configuration loaded", zap.String("path", cfgPath))

	metricsRegistry := metrics.NewRegistry()

	st := store.New()
	st.Subscribe(func(s store.State) {
		metricsRegistry.SetState(store.SelectIsConnected(s), store.SelectTotalSupply(s))
	})

	configClient := client.NewRemoteConfigClient(cfg, zapLogger)
	detector := clientprovider.NewRPCDetector(cfg, nil, zapLogger)
	defer detector.Close()
	binder := clientprovider.NewContractBinder()

	dataSvc := service.NewDataService(st, cfg.ContractCallTimeout(), metricsRegistry, appLogger)

	// A network change drops the cached configuration along with the session.
	var connSvc *service.ConnectionService
	reloader := port.ReloaderFunc(func() {
		configClient.Invalidate()
		connSvc.Reset()
	})
	connSvc = service.NewConnectionService(service.ConnectionServiceDeps{
		Store:          st,
		ConfigSource:   configClient,
		Detector:       detector,
		Binder:         binder,
		Data:           dataSvc,
		Reloader:       reloader,
		Metrics:        metricsRegistry,
		Logger:         appLogger,
		RequestTimeout: cfg.WalletRequestTimeout(),
	})
	defer connSvc.Close()

	go detector.Watch(ctx)

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	handler := restapi.NewDappHandler(st, connSvc, dataSvc, configClient, zapLogger)
	router := restapi.SetupRouter(handler, cfg.Server.AllowOrigins, metricsRegistry.Handler(), zapLogger)
	zapLogger.Info("Prometheus metrics endpoint enabled", zap.String("path", "/metrics"))

	addr := cfg.Server.Port
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		zapLogger.Info(fmt.Sprintf("Server starting on %s", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", "addr", addr, "error", err)
		}
	}()

	<-ctx.Done()
	zapLogger.Info("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exiting")
}
