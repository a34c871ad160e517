package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/d60-Lab/friend-graph/config"
	"github.com/d60-Lab/friend-graph/internal/api/handler"
	"github.com/d60-Lab/friend-graph/internal/api/router"
	"github.com/d60-Lab/friend-graph/internal/cache"
	"github.com/d60-Lab/friend-graph/internal/repository"
	"github.com/d60-Lab/friend-graph/internal/service"
	"github.com/d60-Lab/friend-graph/pkg/database"
	"github.com/d60-Lab/friend-graph/pkg/logger"
	"github.com/d60-Lab/friend-graph/pkg/telemetry"
)

// @title Friend Graph API
// @version 1.0
// @description 用户、好友关系与人气分
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Log.Level, cfg.IsProduction()); err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg); err != nil {
		logger.Error("server exited", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stopSentry, err := telemetry.InitSentry(cfg)
	if err != nil {
		return err
	}
	defer stopSentry(context.Background())

	stopTracer, err := telemetry.InitTracer(ctx, cfg)
	if err != nil {
		return err
	}
	defer stopTracer(context.Background())

	db, err := database.InitDB(cfg)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	rdb, err := database.InitRedis(ctx, cfg)
	if err != nil {
		return err
	}
	if rdb != nil {
		defer rdb.Close()
		logger.Info("user cache enabled", zap.String("redis", cfg.Redis.Addr), zap.Duration("ttl", cfg.Redis.TTL))
	}

	// repositories & services
	userRepo := cache.NewUserCache(repository.NewUserRepository(db), rdb, cfg.Redis.TTL)
	friendRepo := repository.NewFriendshipRepository(db)
	userSvc := service.NewUserService(userRepo, friendRepo)

	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: router.Setup(cfg, handler.NewHandler(userSvc)),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr), zap.String("prefix", cfg.Server.APIPrefix))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
