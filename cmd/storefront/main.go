package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/umerjamal2011-design/leominster-fish-bar/internal/admin"
	"github.com/umerjamal2011-design/leominster-fish-bar/internal/auth"
	"github.com/umerjamal2011-design/leominster-fish-bar/internal/cart"
	"github.com/umerjamal2011-design/leominster-fish-bar/internal/cart/cache"
	"github.com/umerjamal2011-design/leominster-fish-bar/internal/cart/repository"
	"github.com/umerjamal2011-design/leominster-fish-bar/internal/catalog"
	"github.com/umerjamal2011-design/leominster-fish-bar/internal/checkout"
	"github.com/umerjamal2011-design/leominster-fish-bar/internal/config"
	h "github.com/umerjamal2011-design/leominster-fish-bar/internal/http"
	"github.com/umerjamal2011-design/leominster-fish-bar/internal/logger"
	"github.com/umerjamal2011-design/leominster-fish-bar/internal/orderboard"
	"github.com/umerjamal2011-design/leominster-fish-bar/internal/store"
)

const serviceName = "storefront"

func main() {
	if err := run(); err != nil {
		slog.Error("storefront exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	slog.SetDefault(logger.New(os.Stdout, serviceName, cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Postgres
	st, err := store.NewStore(&cfg.Postgres)
	if err != nil {
		return err
	}
	defer st.Close()
	if err := st.RunMigrations(&cfg.Postgres); err != nil {
		return err
	}

	// MongoDB
	mongoDB, err := repository.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		return fmt.Errorf("connect to mongodb: %w", err)
	}
	defer mongoDB.Client().Disconnect(context.Background())
	cartRepo := repository.NewMongoRepository(mongoDB)
	if err := cartRepo.CreateIndexes(ctx); err != nil {
		return fmt.Errorf("create cart indexes: %w", err)
	}
	slog.Info("connected to mongodb", "db", cfg.MongoDBName)

	// Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis connection failed: %w", err)
	}
	slog.Info("redis ping succeeded", "addr", cfg.RedisAddr)

	feed, err := openChangeFeed(cfg)
	if err != nil {
		return err
	}
	defer feed.Close()

	menu := catalog.New(st, redisClient, cfg.CatalogCacheTTL)
	carts := cart.NewService(cartRepo, cache.NewRedisCache(redisClient), menu)
	board := orderboard.New(st, feed.board, cfg.OrdersPollInterval)
	cleaner := cart.NewCleaner(carts, feed.cleaner, cfg.CartClearDelay)
	orchestrator := checkout.NewOrchestrator(st, feed.publisher, board, cleaner)
	adminSvc := admin.NewService(st, menu, feed.publisher, board)
	authClient := auth.NewClient(auth.Config{
		BaseURL: cfg.AuthURL,
		APIKey:  cfg.AuthAPIKey,
		Timeout: cfg.AuthTimeout,
	})

	router := h.NewRouter(h.Handlers{
		Menu:     h.NewMenuHandler(menu, cfg.RequestTimeout),
		Cart:     h.NewCartHandler(carts, cfg.RequestTimeout),
		Checkout: h.NewCheckoutHandler(carts, orchestrator, cfg.RequestTimeout),
		Auth:     h.NewAuthHandler(authClient, cfg.RequestTimeout),
		Admin:    h.NewAdminHandler(adminSvc, board, cfg.RequestTimeout),
		Verifier: authClient,
		Health: map[string]h.HealthCheck{
			"postgres": st.Ping,
			"redis":    func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
			"mongodb":  func(ctx context.Context) error { return mongoDB.Client().Ping(ctx, nil) },
		},
	}, cfg.RequestTimeout)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	grpcServer := grpc.NewServer(grpc.StatsHandler(otelgrpc.NewServerHandler()))
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	reflection.Register(grpcServer)

	lis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error { return board.Run(gctx) })
	g.Go(func() error { return cleaner.Run(gctx) })

	g.Go(func() error {
		slog.Info("grpc health listening", "port", cfg.GRPCPort)
		healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
		healthServer.SetServingStatus(serviceName, healthpb.HealthCheckResponse_SERVING)
		return grpcServer.Serve(lis)
	})

	g.Go(func() error {
		slog.Info("storefront starting", "port", cfg.HTTPPort, "broker", cfg.NotifyBroker)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down server...")
		healthServer.Shutdown()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		grpcServer.GracefulStop()
		return err
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	slog.Info("server exited")
	return nil
}
