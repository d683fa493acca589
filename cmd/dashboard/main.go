package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	grpc_prometheus "github.com/grpc-ecosystem/go-grpc-prometheus"
	"github.com/joho/godotenv"

	"github.com/pribylovaa/fittrack-dashboard/internal/clients/authapi"
	"github.com/pribylovaa/fittrack-dashboard/internal/config"
	dashhttp "github.com/pribylovaa/fittrack-dashboard/internal/http"
	"github.com/pribylovaa/fittrack-dashboard/internal/http/handlers"
	"github.com/pribylovaa/fittrack-dashboard/internal/interceptors"
	"github.com/pribylovaa/fittrack-dashboard/internal/preview"
	"github.com/pribylovaa/fittrack-dashboard/internal/service"
	"github.com/pribylovaa/fittrack-dashboard/internal/storage"
	"github.com/pribylovaa/fittrack-dashboard/internal/storage/minio"

	"google.golang.org/grpc"
	health "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// Константы для определения окружения.
const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "path to config file (overrides CONFIG_PATH env)")
	flag.Parse()

	// .env не обязателен.
	_ = godotenv.Load()

	cfg := config.MustLoad(configPath)

	log := setupLogger(cfg.Env)
	slog.SetDefault(log)
	log.Info("starting fittrack-dashboard", "env", cfg.Env, "storage", cfg.Storage.Driver)

	rootCtx, rootCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer rootCancel()

	records, closeRecords, err := openRecords(rootCtx, cfg, log)
	if err != nil {
		log.Error("storage_connect_failed", slog.String("driver", cfg.Storage.Driver), slog.String("err", err.Error()))
		os.Exit(1)
	}
	defer closeRecords()
	log.Info("storage_connected", slog.String("driver", cfg.Storage.Driver))

	var photos storage.Photos
	if cfg.S3.Enabled() {
		s3Ctx, s3Cancel := context.WithTimeout(rootCtx, 10*time.Second)
		ps, err := minio.New(s3Ctx, cfg.S3, cfg.Photo)
		s3Cancel()
		if err != nil {
			log.Error("minio_connect_failed", slog.String("err", err.Error()))
			closeRecords()
			os.Exit(1)
		}
		photos = ps
		log.Info("minio_connected", slog.String("bucket", cfg.S3.Bucket))
	} else {
		log.Info("durable_uploads_disabled")
	}

	previews := preview.New(cfg.Preview.TTL, cfg.Preview.MaxSizeBytes, cfg.Preview.MaxEntries,
		preview.WithAllowedTypes(cfg.Photo.AllowedContentTypes...))
	svc := service.New(cfg, previews, photos)
	log.Info("service_initialized")

	h := handlers.New(handlers.Deps{
		Service:        svc,
		Auth:           authapi.New(cfg.Upstream.BaseURL, cfg.Upstream.Timeout),
		Previews:       previews,
		Records:        records,
		Session:        cfg.Session,
		MaxUploadBytes: cfg.Preview.MaxSizeBytes,
	})

	var ready int32 // 0 — not ready; 1 — ready

	apiHandler := dashhttp.NewRouter(h, dashhttp.Options{
		Logger:         log,
		Timeout:        cfg.Timeouts.Service,
		ClientCookie:   cfg.Profile.ClientCookieName,
		SecureCookies:  cfg.Session.Secure,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Ready:          func() bool { return atomic.LoadInt32(&ready) == 1 },
	})

	httpAddr := cfg.HTTP.Addr()
	httpSrv := &http.Server{
		Addr:              httpAddr,
		Handler:           apiHandler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ln, err := net.Listen("tcp", httpAddr)
	if err != nil {
		log.Error("http_listen_failed", slog.String("addr", httpAddr), slog.String("err", err.Error()))
		closeRecords()
		os.Exit(1)
	}
	log.Info("http_listen_start", slog.String("addr", httpAddr))

	serveErrCh := make(chan error, 2)
	go func() {
		if err := httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErrCh <- err
		}
	}()

	var (
		grpcServer *grpc.Server
		hs         *health.Server
	)
	if cfg.GRPC.Port != "" {
		grpcServer, hs = newGRPCServer(cfg, log)

		addr := cfg.GRPC.Addr()
		lis, err := net.Listen("tcp", addr)
		if err != nil {
			log.Error("grpc_listen_failed", slog.String("addr", addr), slog.String("err", err.Error()))
			_ = httpSrv.Close()
			closeRecords()
			os.Exit(1)
		}
		log.Info("grpc_listen_start", slog.String("addr", addr))

		go func() {
			if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
				serveErrCh <- err
			}
		}()

		hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	}

	atomic.StoreInt32(&ready, 1)
	log.Info("dashboard_ready")

	select {
	case <-rootCtx.Done():
		log.Info("shutdown_requested")
	case err := <-serveErrCh:
		log.Error("serve_failed", slog.String("err", err.Error()))
	}

	atomic.StoreInt32(&ready, 0)
	if hs != nil {
		hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Timeouts.Shutdown)
	defer shutdownCancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http_shutdown_incomplete", slog.String("err", err.Error()))
	} else {
		log.Info("http_stopped")
	}

	if grpcServer != nil {
		done := make(chan struct{})
		go func() {
			grpcServer.GracefulStop()
			close(done)
		}()

		select {
		case <-done:
			log.Info("grpc_stopped")
		case <-shutdownCtx.Done():
			log.Warn("grpc_force_stop")
			grpcServer.Stop()
		}
	}

	log.Info("service_stopped")
}

// newGRPCServer — gRPC-сервер со стандартным сервисом здоровья.
func newGRPCServer(cfg *config.Config, log *slog.Logger) (*grpc.Server, *health.Server) {
	grpc_prometheus.EnableHandlingTimeHistogram()

	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			interceptors.Recover(log),
			interceptors.UnaryLoggingInterceptor(log),
			interceptors.WithTimeout(cfg.Timeouts.Service),
			grpc_prometheus.UnaryServerInterceptor,
		),
		grpc.ChainStreamInterceptor(
			grpc_prometheus.StreamServerInterceptor,
		),
	)

	hs := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, hs)

	// Рефлексия — только в local/dev.
	if cfg.Env == envLocal || cfg.Env == envDev {
		reflection.Register(grpcServer)
	}

	grpc_prometheus.Register(grpcServer)

	return grpcServer, hs
}

// setupLogger настраивает slog по окружению.
func setupLogger(env string) *slog.Logger {
	switch env {
	case envLocal:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envDev:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}
