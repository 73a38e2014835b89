package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/samandr77/microservices/bills/internal/api"
	"github.com/samandr77/microservices/bills/internal/api/events"
	"github.com/samandr77/microservices/bills/internal/gateway"
	"github.com/samandr77/microservices/bills/internal/httpclients/s3"
	"github.com/samandr77/microservices/bills/internal/httpclients/store"
	"github.com/samandr77/microservices/bills/internal/navigation"
	"github.com/samandr77/microservices/bills/internal/repository"
	"github.com/samandr77/microservices/bills/internal/service"
	"github.com/samandr77/microservices/bills/internal/session"
	"github.com/samandr77/microservices/bills/pkg/broker"
	"github.com/samandr77/microservices/bills/pkg/config"
	"github.com/samandr77/microservices/bills/pkg/job"
	"github.com/samandr77/microservices/bills/pkg/logger"
	"github.com/samandr77/microservices/bills/pkg/postgres"
)

const (
	ReadTimeout  = 20 * time.Second
	WriteTimeout = 20 * time.Second
)

//nolint:funlen
func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.New(".env")
	panicOnErr("load config", err)

	l, err := logger.New(cfg.Logger.Level)
	panicOnErr("init logger", err)

	sessions, err := session.Open(cfg.Session.Path)
	panicOnErr("open session store", err)

	defer sessions.Close()

	history := navigation.NewHistory(sessions)
	s3Client := s3.NewClient(cfg.S3.BucketURL, cfg.HTTP.MaxUploadBytes)
	jobs := job.NewService()

	var storeGateway service.StoreGateway

	switch cfg.Store.Driver {
	case config.StoreDriverHTTP:
		storeGateway = store.NewClient(cfg.Store)
	case config.StoreDriverPostgres:
		pool, err := postgres.Connect(ctx, cfg.Postgres.DSN, cfg.Postgres.MaxConns)
		panicOnErr("connect to postgres", err)

		defer pool.Close()

		err = postgres.UpMigrations(ctx, cfg.Postgres.DSN)
		panicOnErr("up migrations", err)

		repo := repository.New(pool)
		storeGateway = gateway.NewLocal(repo, s3Client)

		jobs.RegisterJob("draft_cleanup", cfg.Jobs.DraftCleanupInterval, service.NewDraftCleaner(repo, cfg.Jobs.DraftTTL).Run)

		// Kafka consumers
		if cfg.KafkaEnabled() {
			consumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.ConsumerID, cfg.Kafka.BillReviewedTopic)
			defer consumer.Close()

			eventHandler := events.NewEventHandler(service.NewReviews(repo))

			consumer.Handle(cfg.Kafka.BillReviewedTopic, eventHandler.OnBillReviewed)
			consumer.Consume(ctx)
		}
	case config.StoreDriverNone:
		slog.WarnContext(ctx, "store is not configured, bills are not persisted")
	}

	var notifier service.Notifier

	if cfg.KafkaEnabled() {
		producer := broker.NewProducer(l, cfg.Kafka.Brokers, cfg.Kafka.BillSubmittedTopic)
		defer producer.Close()

		notifier = producer
	}

	deps := service.Deps{
		Store:     storeGateway,
		Session:   sessions,
		Navigator: history,
		Notifier:  notifier,
	}

	handler := api.NewHandler(
		service.NewBillList(deps),
		service.NewForms(deps),
		sessions,
		history,
		s3Client,
		cfg.HTTP.MaxUploadBytes,
	)
	mw := api.NewMiddleware(cfg, sessions)

	router := api.NewRouter(handler, mw)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      router,
		ReadTimeout:  ReadTimeout,
		WriteTimeout: WriteTimeout,
	}

	var wg sync.WaitGroup

	wg.Add(1)

	go func() {
		defer wg.Done()

		slog.InfoContext(ctx, "http server started", "port", cfg.HTTP.Port, "store_driver", cfg.Store.Driver)

		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Panicf("listen and serve: %s", err)
		}

		slog.DebugContext(ctx, "http server stopped")
	}()

	jobs.Start(ctx)

	waitSignal(cancel, server)

	jobs.Stop()
	wg.Wait()
}

func waitSignal(cancel context.CancelFunc, server *http.Server) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	sig := <-ch

	slog.Info("got OS signal", "signal", sig.String())

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Second)
	defer shutdownCancel()

	err := server.Shutdown(shutdownCtx)
	if err != nil {
		slog.ErrorContext(shutdownCtx, "server shutdown", "error", err)
	}
}

func panicOnErr(msg string, err error) {
	if err != nil {
		log.Panicf("%s: %s", msg, err)
	}
}
