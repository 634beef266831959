package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/ecosortapp/ecosort-backend/api/routes"
	"github.com/ecosortapp/ecosort-backend/internal/accounts"
	"github.com/ecosortapp/ecosort-backend/internal/companies"
	"github.com/ecosortapp/ecosort-backend/internal/leaderboard"
	"github.com/ecosortapp/ecosort-backend/internal/profiles"
	"github.com/ecosortapp/ecosort-backend/internal/quiz"
	"github.com/ecosortapp/ecosort-backend/internal/schedules"
	"github.com/ecosortapp/ecosort-backend/internal/waste"
	"github.com/ecosortapp/ecosort-backend/pkg/config"
	"github.com/ecosortapp/ecosort-backend/pkg/db"
	"github.com/ecosortapp/ecosort-backend/pkg/geocode"
	"github.com/ecosortapp/ecosort-backend/pkg/logger"
	"github.com/ecosortapp/ecosort-backend/pkg/metrics"
	"github.com/ecosortapp/ecosort-backend/pkg/migrate"
	"github.com/ecosortapp/ecosort-backend/pkg/redis"
	"github.com/ecosortapp/ecosort-backend/pkg/vision"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)
	adapterMetrics := metrics.NewAdapterMetrics(registry)

	geocoder := geocode.NewClient(
		geocode.WithBaseURL(cfg.Geocoder.BaseURL),
		geocode.WithUserAgent(cfg.Geocoder.UserAgent),
		geocode.WithHTTPClient(&http.Client{Timeout: cfg.Geocoder.Timeout}),
		geocode.WithMetrics(adapterMetrics),
	)

	binCounter, err := vision.NewBinCounter(cfg.Vision.BinCounterURL, cfg.Vision.Timeout,
		vision.WithBinCounterAPIKey(cfg.Vision.BinCounterKey),
		vision.WithBinCounterMetrics(adapterMetrics),
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create bin counter client", err)
		os.Exit(1)
	}

	classifier, err := vision.NewClassifier(cfg.Vision.ClassifierURL, cfg.Vision.Timeout,
		vision.WithClassifierAPIKey(cfg.Vision.ClassifierKey),
		vision.WithMinConfidence(cfg.Vision.MinConfidence),
		vision.WithClassifierMetrics(adapterMetrics),
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create classifier client", err)
		os.Exit(1)
	}

	accountsService, err := accounts.NewService(accounts.ServiceParams{
		Repo:           accounts.NewRepository(dbClient.DB()),
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create accounts service", err)
		os.Exit(1)
	}

	profilesService, err := profiles.NewService(profiles.ServiceParams{
		Repo:     profiles.NewRepository(dbClient.DB()),
		Geocoder: geocoder,
		Logger:   logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create profiles service", err)
		os.Exit(1)
	}

	companiesService, err := companies.NewService(companies.ServiceParams{
		Repo:     companies.NewRepository(dbClient.DB()),
		Geocoder: geocoder,
		Logger:   logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create companies service", err)
		os.Exit(1)
	}

	quizService, err := quiz.NewService(quiz.ServiceParams{TxRunner: dbClient})
	if err != nil {
		logg.Error(context.Background(), "failed to create quiz service", err)
		os.Exit(1)
	}

	wasteService, err := waste.NewService(waste.ServiceParams{
		Repo:       waste.NewRepository(dbClient.DB()),
		BinCounter: binCounter,
		Classifier: classifier,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create waste service", err)
		os.Exit(1)
	}

	schedulesService, err := schedules.NewService(schedules.ServiceParams{TxRunner: dbClient})
	if err != nil {
		logg.Error(context.Background(), "failed to create schedules service", err)
		os.Exit(1)
	}

	leaderboardService, err := leaderboard.NewService(leaderboard.ServiceParams{
		Repo:   leaderboard.NewRepository(dbClient.DB()),
		Config: cfg.Leaderboard,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create leaderboard service", err)
		os.Exit(1)
	}

	router := routes.NewRouter(routes.Deps{
		Config:      cfg,
		Logger:      logg,
		DB:          dbClient,
		Redis:       redisClient,
		HTTPMetrics: httpMetrics,
		Registry:    registry,

		Accounts:    accountsService,
		Profiles:    profilesService,
		Companies:   companiesService,
		Quiz:        quizService,
		Waste:       wasteService,
		Schedules:   schedulesService,
		Leaderboard: leaderboardService,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	stop, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	select {
	case err, ok := <-errCh:
		if ok && err != nil {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			closeClients(ctx, logg, dbClient, redisClient)
			os.Exit(1)
		}
	case <-stop.Done():
		logg.Info(ctx, "shutdown signal received")
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.Error(ctx, "error shutting down server", err)
	}

	closeClients(ctx, logg, dbClient, redisClient)
	logg.Info(ctx, "api server stopped")
}

func closeClients(ctx context.Context, logg *logger.Logger, dbClient *db.Client, redisClient *redis.Client) {
	var err error
	if dbClient != nil {
		err = multierr.Append(err, dbClient.Close())
	}
	if redisClient != nil {
		err = multierr.Append(err, redisClient.Close())
	}
	if err != nil {
		logg.Error(ctx, "error closing clients", err)
	}
}
