package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "expense_tracker/docs"
	"expense_tracker/internal/config"
	"expense_tracker/internal/events"
	"expense_tracker/internal/handlers"
	"expense_tracker/internal/logger"
	"expense_tracker/internal/repository"
	"expense_tracker/internal/server"
	"expense_tracker/internal/service"

	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

// @title                       Expense Tracker API
// @version                     1.0
// @description                 Personal expense tracking with per-user analytics.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	config.LoadDotEnv()

	cfg, err := config.Load("configs")
	if err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}

	log := logger.Init(cfg.Log.Level, cfg.IsProduction())
	if err := cfg.Validate(); err != nil {
		log.Fatalw("invalid config", "err", err)
	}
	cfg.Watch(func(next *config.Config) {
		log.SetLevel(next.Log.Level)
		log.Infow("config_reloaded", "log_level", log.LevelString())
	})

	loc, _ := cfg.Location() // checked by Validate

	repos, closeDB, err := repository.Open(cfg.DB)
	if err != nil {
		log.Fatalw("failed to open database", "driver", cfg.DB.Driver, "err", err)
	}
	defer func() {
		if cerr := closeDB(); cerr != nil {
			log.Errorw("failed to close database", "err", cerr)
		}
	}()

	publisher := openPublisher(cfg.AMQP, log)
	defer func() { _ = publisher.Close() }()

	services := service.NewService(repos, service.Deps{
		Tokens:    service.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		Publisher: publisher,
		Location:  loc,
		PageSize:  cfg.Analytics.PageSize,
		Log:       log,
	})
	apiHandler := handlers.NewHandler(services, log,
		handlers.WithLocation(loc),
		handlers.WithProduction(cfg.IsProduction()),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg.Port, apiHandler.InitRoutes())
	if err := serve(ctx, srv, log); err != nil {
		log.Errorw("server stopped with error", "err", err)
		os.Exit(1)
	}
	log.Infow("server stopped")
}

// openPublisher connects to the broker when one is configured. A broker that
// cannot be reached only disables publishing.
func openPublisher(cfg config.AMQPConfig, log *logger.Logger) events.Publisher {
	if cfg.URL == "" {
		return events.NopPublisher{}
	}
	p, err := events.NewAMQPPublisher(cfg.URL, cfg.Exchange)
	if err != nil {
		log.Warnw("amqp_unavailable", "err", err, "exchange", cfg.Exchange)
		return events.NopPublisher{}
	}
	log.Infow("amqp_connected", "exchange", cfg.Exchange)
	return p
}

// serve runs srv until ctx is cancelled, then drains in-flight requests.
func serve(ctx context.Context, srv *server.Server, log *logger.Logger) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Infow("http_server_started", "addr", srv.Addr())
		return srv.Run()
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Infow("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
