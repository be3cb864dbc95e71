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

	"github.com/samandr77/microservices/swish/internal/api"
	"github.com/samandr77/microservices/swish/internal/clients/swish"
	"github.com/samandr77/microservices/swish/internal/repository"
	"github.com/samandr77/microservices/swish/internal/service"
	"github.com/samandr77/microservices/swish/pkg/broker"
	"github.com/samandr77/microservices/swish/pkg/config"
	"github.com/samandr77/microservices/swish/pkg/job"
	"github.com/samandr77/microservices/swish/pkg/logger"
	"github.com/samandr77/microservices/swish/pkg/postgres"
	"github.com/samandr77/microservices/swish/pkg/security"
)

const (
	ReadTimeout     = 3 * time.Second
	ShutdownTimeout = 10 * time.Second
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.New(".env")
	panicOnErr("load config", err)

	l, err := logger.New(cfg.Logger.Level, cfg.Logger.Format)
	panicOnErr("create logger", err)

	creds, err := security.LoadCredentials(cfg.Swish)
	panicOnErr("load swish credentials", err)

	tlsCfg, err := creds.TLSConfig()
	panicOnErr("build swish tls config", err)

	err = postgres.UpMigrations(cfg.Postgres.DSN)
	panicOnErr("up migrations", err)

	pool, err := postgres.Connect(ctx, cfg.Postgres.DSN, cfg.Postgres.MaxConn)
	panicOnErr("connect to postgres", err)
	defer pool.Close()

	repo := repository.New(pool)

	producer := broker.NewProducer(l, cfg.Kafka.Brokers, cfg.Kafka.StatusTopic)
	defer producer.Close()

	swishClient := swish.NewClient(cfg.Swish.BaseURL, tlsCfg)

	s := service.New(repo, swishClient, producer, cfg.Swish, cfg.Poller)

	scheduler := job.NewScheduler().
		Register(cfg.Poller.Enabled, "update pending payment requests",
			cfg.Poller.Interval, cfg.Poller.Interval, s.UpdatePendingPaymentRequests)
	scheduler.Start(ctx)

	handler := api.NewHandler(s)
	mw := api.NewMiddleware(cfg.HTTP.JWTSecret)

	router := api.NewRouter(handler, mw)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      router,
		ReadTimeout:  ReadTimeout,
		WriteTimeout: 2*cfg.Swish.RequestTimeout + time.Second,
	}

	var wg sync.WaitGroup

	wg.Add(1)

	go func() {
		defer wg.Done()

		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Panicf("listen and serve: %s", err)
		}
	}()

	slog.InfoContext(ctx, "service started", "port", cfg.HTTP.Port, "swish", cfg.Swish.BaseURL)

	wg.Add(1)

	go func() {
		defer wg.Done()

		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
		sig := <-ch

		slog.InfoContext(ctx, "got OS signal", "signal", sig.String())

		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer shutdownCancel()

		err := server.Shutdown(shutdownCtx)
		if err != nil {
			slog.ErrorContext(shutdownCtx, "server shutdown", "error", err)
		}
	}()

	wg.Wait()
	scheduler.Wait()
}

func panicOnErr(msg string, err error) {
	if err != nil {
		log.Panicf("%s: %s", msg, err)
	}
}
