package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/iliyamo/fyyur/internal/config"
	"github.com/iliyamo/fyyur/internal/database"
	"github.com/iliyamo/fyyur/internal/handler"
	"github.com/iliyamo/fyyur/internal/logging"
	"github.com/iliyamo/fyyur/internal/queue"
	"github.com/iliyamo/fyyur/internal/router"
	"github.com/iliyamo/fyyur/internal/service"
)

func main() {
	if err := run(); err != nil {
		logrus.WithError(err).Fatal("server stopped")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := logging.Setup(cfg.LogLevel, cfg.LogFormat); err != nil {
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	db, err := database.Open(cfg.DB.Options())
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logrus.WithError(err).Error("closing database")
		}
	}()
	if err := database.Migrate(ctx, db); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}

	rdb := config.NewRedisClient(ctx, cfg.Redis)
	if rdb == nil {
		logrus.Info("redis unavailable, rate limiting disabled")
	} else {
		defer func() { _ = rdb.Close() }()
	}

	opts := []service.Option{
		service.WithLocation(loc),
		service.WithLogger(logrus.StandardLogger()),
	}
	if cfg.AMQPURL != "" {
		opts = append(opts, service.WithPublisher(queue.NewPublisher(cfg.AMQPURL)))
	} else {
		logrus.Info("AMQP_URL not set, directory events disabled")
	}
	dir := service.NewDirectory(db, opts...)

	e, err := router.New(handler.New(dir), cfg.RateLimit, rdb)
	if err != nil {
		return fmt.Errorf("building router: %w", err)
	}

	g, runCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		addr := ":" + cfg.Port
		logrus.WithFields(logrus.Fields{"addr": addr, "env": cfg.Env, "db": cfg.DB.Driver}).Info("starting HTTP server")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("starting http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-runCtx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		logrus.Info("shutting down HTTP server")
		if err := e.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down http server: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logrus.Info("shutdown complete")
	return nil
}
