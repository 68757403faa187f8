// Command server runs the iReporter API: citizen reports with attached
// media, admin status transitions, and the notification pipeline behind
// them. main only wires dependencies; business logic lives in the internal
// services.
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

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	identityhandler "ireporter/internal/identity/handler"
	identityservice "ireporter/internal/identity/service"
	"ireporter/internal/identity/store/user"
	mediahandler "ireporter/internal/media/handler"
	mediaservice "ireporter/internal/media/service"
	mediastore "ireporter/internal/media/store/media"
	"ireporter/internal/media/uploader"
	"ireporter/internal/notify/consumer"
	"ireporter/internal/notify/mailer"
	"ireporter/internal/notify/outbox"
	"ireporter/internal/notify/publisher"
	"ireporter/internal/notify/worker"
	"ireporter/internal/platform/config"
	"ireporter/internal/platform/httpserver"
	"ireporter/internal/platform/logger"
	"ireporter/internal/platform/metrics"
	"ireporter/internal/platform/postgres"
	"ireporter/internal/platform/redis"
	recordhandler "ireporter/internal/record/handler"
	recordservice "ireporter/internal/record/service"
	recordstore "ireporter/internal/record/store/record"
	"ireporter/internal/token"
	"ireporter/internal/token/revocation"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	m := metrics.New()
	tokens := token.NewService(cfg.JWTSigningKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	var (
		userStore    identityservice.UserStore
		userDir      recordservice.UserDirectory
		recordStore  recordservice.RecordStore
		recordFinder mediaservice.RecordFinder
		mediaStore   mediaservice.MediaStore
		outboxStore  outbox.Store
	)
	if cfg.PostgresDSN != "" {
		db, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := postgres.Migrate(db, cfg.MigrationsDir); err != nil {
			return err
		}
		us := user.NewPostgresStore(db)
		rs := recordstore.NewPostgresStore(db)
		userStore, userDir = us, us
		recordStore, recordFinder = rs, rs
		mediaStore = mediastore.NewPostgresStore(db)
		outboxStore = outbox.NewPostgresStore(db)
	} else {
		log.Warn("POSTGRES_DSN not set, using in-memory stores")
		us := user.NewMemoryStore()
		rs := recordstore.NewMemoryStore()
		userStore, userDir = us, us
		recordStore, recordFinder = rs, rs
		mediaStore = mediastore.NewMemoryStore()
		outboxStore = outbox.NewMemoryStore()
	}

	var revocations revocation.Store
	redisClient, err := redis.New(cfg.Redis)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
		revocations = revocation.NewRedisStore(redisClient.Client)
	} else {
		log.Warn("REDIS_URL not set, using in-memory revocation list")
		revocations = revocation.NewMemoryStore()
	}

	var files mediaservice.Uploader
	if cfg.Media.Endpoint != "" {
		minioUploader, err := uploader.NewMinIO(cfg.Media)
		if err != nil {
			return err
		}
		if err := minioUploader.EnsureBucket(ctx); err != nil {
			return err
		}
		files = minioUploader
	} else {
		log.Warn("MINIO_ENDPOINT not set, storing uploads in memory")
		files = uploader.NewMemory()
	}

	identitySvc := identityservice.New(userStore, outboxStore, tokens,
		identityservice.AdminPolicy{
			EmailDomain: cfg.AdminEmailDomain,
			WorkerIDs:   cfg.AdminWorkerIDs,
		},
		identityservice.WithLogger(log),
		identityservice.WithMetrics(m),
		identityservice.WithRevocationList(revocations),
	)
	mediaSvc := mediaservice.New(mediaStore, recordFinder, files,
		mediaservice.WithLogger(log),
		mediaservice.WithMetrics(m),
	)
	recordSvc := recordservice.New(recordStore, userDir, outboxStore,
		recordservice.WithLogger(log),
		recordservice.WithMetrics(m),
		recordservice.WithAttachments(mediaSvc),
	)

	router := chi.NewRouter()
	identityhandler.New(identitySvc, log, m, tokens, revocations).Register(router)
	recordhandler.New(recordSvc, identitySvc, log, m, tokens, revocations).Register(router)
	mediahandler.New(mediaSvc, identitySvc, log, m, tokens, revocations).Register(router)
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Handle("/metrics", promhttp.Handler())

	srv := httpserver.New(cfg.Addr, router)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("starting ireporter", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if len(cfg.Kafka.Brokers) > 0 {
		kafkaPublisher, err := publisher.NewKafka(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			return err
		}
		defer kafkaPublisher.Close()
		if err := kafkaPublisher.EnsureTopic(ctx, 3, 1); err != nil {
			return err
		}
		outboxWorker := worker.New(outboxStore, kafkaPublisher,
			worker.WithLogger(log),
			worker.WithMetrics(m),
		)
		g.Go(func() error {
			return outboxWorker.Run(ctx)
		})

		mail, err := mailer.NewSMTP(cfg.SMTP, cfg.PublicBaseURL)
		if err != nil {
			return err
		}
		mailConsumer, err := consumer.New(cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.ConsumerGroup, mail, log)
		if err != nil {
			return err
		}
		defer mailConsumer.Close()
		g.Go(func() error {
			return mailConsumer.Run(ctx)
		})
	} else {
		log.Warn("KAFKA_BROKERS not set, notification events stay queued in the outbox")
	}

	return g.Wait()
}
