package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"codeduel/internal/catalog"
	"codeduel/internal/duel"
	"codeduel/internal/sandbox"
	"codeduel/internal/sandbox/engine"
	"codeduel/internal/server"
	"codeduel/internal/transport/ws"
	"codeduel/pkg/utils/logger"

	"go.uber.org/zap"
)

const defaultConfigPath = "configs/duel_server.yaml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "Path to config file")
	flag.Parse()

	appCfg, err := loadAppConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load app config failed: %v\n", err)
		return
	}

	if err := logger.Init(appCfg.Logger); err != nil {
		fmt.Fprintf(os.Stderr, "init logger failed: %v\n", err)
		return
	}
	defer func() { _ = logger.Sync() }()

	eng, err := engine.NewEngine(appCfg.Sandbox.toEngineConfig())
	if err != nil {
		logger.Error(context.Background(), "init sandbox engine failed", zap.Error(err))
		return
	}

	runner, err := sandbox.NewRunner(appCfg.Sandbox.toRunnerConfig(), eng)
	if err != nil {
		logger.Error(context.Background(), "init sandbox runner failed", zap.Error(err))
		return
	}

	library := catalog.BuiltIn()
	hub := ws.NewHub(appCfg.toWSConfig())
	coord := duel.New(library, runner, hub)

	srv := server.New(appCfg.toServerConfig(), coord, library, hub.Endpoint(coord))

	httpServer := &http.Server{
		Addr:           appCfg.Server.Addr,
		Handler:        srv.Router(),
		ReadTimeout:    appCfg.Server.ReadTimeout,
		WriteTimeout:   appCfg.Server.WriteTimeout,
		IdleTimeout:    appCfg.Server.IdleTimeout,
		MaxHeaderBytes: appCfg.Server.MaxHeaderBytes,
	}

	listener, err := net.Listen("tcp", appCfg.Server.Addr)
	if err != nil {
		logger.Error(context.Background(), "init http listener failed", zap.Error(err))
		return
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info(context.Background(), "duel server started",
			zap.String("addr", appCfg.Server.Addr),
			zap.Int("challenges", library.Len()),
		)
		errCh <- httpServer.Serve(listener)
	}()

	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(context.Background(), "http server stopped", zap.Error(err))
		}
	case <-shutdownCtx.Done():
		logger.Info(context.Background(), "shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error(context.Background(), "http server shutdown failed", zap.Error(err))
	}
}
