package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/medspa-scheduler/internal/audit"
	"github.com/BruksfildServices01/medspa-scheduler/internal/cache"
	"github.com/BruksfildServices01/medspa-scheduler/internal/config"
	dbpkg "github.com/BruksfildServices01/medspa-scheduler/internal/db"
	"github.com/BruksfildServices01/medspa-scheduler/internal/logging"
	"github.com/BruksfildServices01/medspa-scheduler/internal/media"
	"github.com/BruksfildServices01/medspa-scheduler/internal/ratelimit"
	"github.com/BruksfildServices01/medspa-scheduler/internal/routes"
	"github.com/BruksfildServices01/medspa-scheduler/internal/timezone"
	"github.com/BruksfildServices01/medspa-scheduler/internal/tracing"
)

func main() {

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.IsProduction())
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loc := timezone.SetBusiness(cfg.BusinessTimezone)
	logger.Info("business timezone", zap.String("tz", loc.String()))

	// ======================================================
	// TRACING
	// ======================================================
	shutdownTracing, err := tracing.Setup(ctx, tracing.Config{
		Enabled:     cfg.OTelEnabled,
		Endpoint:    cfg.OTelEndpoint,
		SampleRatio: cfg.OTelSamplingRate,
	})
	if err != nil {
		logger.Fatal("failed to set up tracing", zap.Error(err))
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(sctx)
	}()

	// ======================================================
	// DATABASE
	// ======================================================
	db, err := dbpkg.NewDB(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}

	// ======================================================
	// REDIS (optional)
	// ======================================================
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Fatal("invalid REDIS_URL", zap.Error(err))
		}
		rdb = redis.NewClient(opts)
		defer func() { _ = rdb.Close() }()

		pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := rdb.Ping(pctx).Err(); err != nil {
			logger.Warn("redis unreachable at startup", zap.Error(err))
		}
		cancel()
		logger.Info("redis enabled", zap.String("addr", opts.Addr))
	}

	store := cache.New(rdb, logger)
	limiter := ratelimit.New(rdb, cfg.AvailabilityRateLimit, cfg.AvailabilityRateWindow, "rl:availability")

	// ======================================================
	// AUDIT
	// ======================================================
	sinks := []audit.Sink{audit.New(db)}
	if brokers := cfg.Brokers(); len(brokers) > 0 {
		pub := audit.NewKafkaPublisher(brokers, cfg.KafkaAuditTopic)
		defer func() { _ = pub.Close() }()
		sinks = append(sinks, pub)
		logger.Info("audit events published to kafka", zap.Strings("brokers", brokers), zap.String("topic", cfg.KafkaAuditTopic))
	}
	dispatcher := audit.NewDispatcher(logger, sinks...)
	defer dispatcher.Close()

	// ======================================================
	// MEDIA (optional)
	// ======================================================
	var storage media.Storage
	s3, err := media.NewS3Storage(media.S3Config{
		Bucket:        cfg.S3Bucket,
		Region:        cfg.S3Region,
		Endpoint:      cfg.S3Endpoint,
		PublicBaseURL: cfg.S3PublicBaseURL,
		AccessKeyID:   cfg.AWSAccessKeyID,
		SecretKey:     cfg.AWSSecretKey,
	})
	switch {
	case err == nil:
		storage = s3
	case errors.Is(err, media.ErrNotConfigured):
		logger.Info("image storage disabled")
	default:
		logger.Fatal("failed to configure image storage", zap.Error(err))
	}

	// ======================================================
	// HTTP
	// ======================================================
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	routes.RegisterRoutes(r, routes.Deps{
		DB:      db,
		Config:  cfg,
		Log:     logger,
		Audit:   dispatcher,
		Cache:   store,
		Limiter: limiter,
		Storage: storage,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           otelhttp.NewHandler(r, tracing.ServiceName),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("server running", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", zap.Error(err))
	}
	logger.Info("server stopped")
}
