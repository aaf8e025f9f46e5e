package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"orderdesk/configs"
	"orderdesk/events"
	"orderdesk/pkg/cache"
	"orderdesk/pkg/i18n"
	"orderdesk/pkg/logger"
	"orderdesk/repository"
	"orderdesk/routes"
	"orderdesk/services"
	"orderdesk/ws"

	"github.com/gin-gonic/gin"
)

const serviceName = "orderdesk"

func main() {
	cfg := configs.LoadConfig()
	log := logger.New(serviceName, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("startup", "", "server stopped", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *configs.Config, log *logger.Logger) error {
	// DB
	db, err := configs.ConnectionDB(cfg)
	if err != nil {
		return err
	}
	if err := configs.SetupDatabase(db); err != nil {
		return err
	}
	if err := configs.SeedStaff(db, cfg, log); err != nil {
		return err
	}
	if cfg.SeedMenu {
		if err := configs.SeedMenu(db, log); err != nil {
			return err
		}
	}

	// revenue cache: redis when configured and reachable, else in-process
	var c cache.Cache
	if cfg.RedisAddr != "" {
		c = cache.NewRedisCache(cfg.RedisAddr, serviceName)
		if err := cache.Ping(ctx, c); err != nil {
			log.Warn("startup", "", "redis unavailable, using memory cache", slog.String("error", err.Error()))
			c = nil
		}
	}
	if c == nil {
		c = cache.NewMemoryCache(serviceName)
	}

	orderRepo := repository.NewOrderRepository(db)
	itemRepo := repository.NewItemRepository(db)
	revenue := services.NewRevenueService(db, orderRepo, c, cfg.RevenueCacheTTL, log)

	// order events: live board, kitchen queue, revenue cache
	hub := ws.NewOrderHub(log)
	go hub.Run(ctx)
	fanout := events.Fanout{hub, revenue}
	if cfg.RabbitMQURL != "" {
		pub, err := events.DialAMQP(cfg.RabbitMQURL, log)
		if err != nil {
			log.Warn("startup", "", "rabbitmq unavailable, kitchen events disabled", slog.String("error", err.Error()))
		} else {
			defer pub.Close()
			fanout = append(fanout, pub)
		}
	}

	orders := services.NewOrderService(db, orderRepo, itemRepo, fanout)
	items := services.NewItemService(db, itemRepo, orders)
	auth := services.NewAuthService(db, cfg.JWTSecret, cfg.JWTTTL)

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	r, err := routes.NewRouter(routes.Deps{
		Config:  cfg,
		L:       i18n.New(cfg.Lang),
		Log:     log,
		Orders:  orders,
		Items:   items,
		Revenue: revenue,
		Auth:    auth,
		Hub:     hub,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		log.Info("startup", "", "server running", slog.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log.Info("shutdown", "", "stopping server")
	return srv.Shutdown(shutdownCtx)
}
