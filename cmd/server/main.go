package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pose-pipeline/internal/api"
	"pose-pipeline/internal/platform/config"
	"pose-pipeline/internal/platform/logger"
	"pose-pipeline/internal/platform/metrics"
	"pose-pipeline/internal/storage"

	"github.com/go-chi/chi/v5"
)

const shutdownTimeout = 10 * time.Second

func main() {
	_ = config.Load()

	port := config.GetEnv("PORT", "8000")
	logLevel := config.GetEnv("LOG_LEVEL", "info")
	logFormat := config.GetEnv("LOG_FORMAT", "json")
	presignTTL := time.Duration(config.GetEnvInt("PRESIGN_TTL_SECONDS", 300)) * time.Second

	log := logger.New(logLevel, logFormat)

	store, err := storage.NewMinioStore(storage.MinioConfig{
		Endpoint:  config.GetEnv("MINIO_ENDPOINT", "127.0.0.1:9000"),
		AccessKey: config.GetEnv("MINIO_ACCESS_KEY", "minio_admin"),
		SecretKey: config.GetEnv("MINIO_SECRET_KEY", ""),
		Bucket:    config.GetEnv("MINIO_BUCKET", "data"),
		UseSSL:    config.GetEnvBool("MINIO_USE_SSL", false),
	})
	if err != nil {
		log.Error("storage client init failed", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := store.EnsureBucket(ctx); err != nil {
		cancel()
		log.Error("bucket setup failed", "error", err)
		os.Exit(1)
	}
	cancel()

	pipeline := api.NewPipeline(store, presignTTL)
	svc := api.NewService(store, pipeline, presignTTL)
	met := metrics.New()
	h := api.NewHandler(svc, log, met)

	r := chi.NewRouter()
	r.Use(logger.RequestLogger(log))
	r.Use(metrics.RequestMiddleware(met))
	r.Get("/metrics", met.Handler().ServeHTTP)
	r.Mount("/", h.Routes())

	addr := ":" + port
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	log.Info("server starting",
		"port", port,
		"presign_ttl", presignTTL.String(),
		"log_level", logLevel,
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Info("shutdown signal received, draining connections")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}
