package app

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/user/listings-service/internal/adapter/browserfetch"
	"github.com/user/listings-service/internal/adapter/filestore"
	"github.com/user/listings-service/internal/adapter/httpfetch"
	"github.com/user/listings-service/internal/adapter/memory"
	"github.com/user/listings-service/internal/adapter/postgres"
	redisadapter "github.com/user/listings-service/internal/adapter/redis"
	"github.com/user/listings-service/internal/adapter/smtpmail"
	"github.com/user/listings-service/internal/delivery/http/handler"
	"github.com/user/listings-service/internal/extractor"
	"github.com/user/listings-service/internal/repository"
	"github.com/user/listings-service/internal/usecase"
	"github.com/user/listings-service/pkg/config"
	"github.com/user/listings-service/pkg/metrics"
)

// App holds the wired services shared by the server and the CLI.
type App struct {
	Orchestrator *extractor.Orchestrator
	Fetcher      repository.Fetcher
	Listings     usecase.ListingsService
	Cars         usecase.CarService
	Contact      usecase.ContactService
	Runs         repository.RunRepository
	HealthChecks map[string]handler.HealthCheck

	closers []func()
}

// Close releases connections in reverse order of creation.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// New connects the optional backing stores and wires the services. Redis
// and PostgreSQL are used only when configured.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	metrics.Init()
	a := &App{HealthChecks: map[string]handler.HealthCheck{}}

	var cache repository.ResultCache
	if cfg.RedisAddr != "" {
		rdb := goredis.NewClient(&goredis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		a.closers = append(a.closers, func() { _ = rdb.Close() })
		redisCache := redisadapter.NewResultCache(rdb)
		a.HealthChecks["redis"] = redisCache.Ping
		cache = redisCache
		logger.Info("redis connection established", zap.String("addr", cfg.RedisAddr))
	} else {
		cache = memory.NewResultCache(0, cfg.CacheTTL())
	}

	var cars repository.CarRepository
	if cfg.PostgresURL != "" {
		pool, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		a.closers = append(a.closers, pool.Close)
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			a.Close()
			return nil, fmt.Errorf("ensure schema: %w", err)
		}
		a.HealthChecks["postgres"] = pool.Ping
		cars = postgres.NewCarRepo(pool)
		a.Runs = postgres.NewRunRepo(pool)
		logger.Info("postgresql connection pool established")
	} else {
		cars = filestore.NewCarRepo(cfg.CarsFile)
	}

	src := extractor.DefaultSource().WithOrigin(cfg.FinnOrigin)
	a.Orchestrator = extractor.NewOrchestrator(src, logger.Named("extractor"))
	a.Fetcher = httpfetch.NewFetcher(httpfetch.Options{
		Timeout: cfg.FetchTimeout(),
		Proxy:   cfg.FetchProxy,
	}, logger.Named("fetch"))

	var opts []usecase.ListingsOption
	if cfg.FetchBrowser {
		browser := browserfetch.NewFetcher(2, cfg.FetchTimeout(), cfg.FetchProxy, logger.Named("browser"))
		a.closers = append(a.closers, browser.Close)
		opts = append(opts, usecase.WithHTMLFetcher(browser))
	}

	a.Listings = usecase.NewListingsService(usecase.ListingsConfig{
		Mode:         cfg.FinnMode,
		DefaultOrgID: cfg.DefaultOrgID,
		APIKey:       cfg.FinnAPIKey,
		SearchURL:    cfg.FinnSearchURL,
		APIURL:       cfg.FinnAPIURL,
		FeedURL:      cfg.FinnFeedURL,
		CacheTTL:     cfg.CacheTTL(),
	}, a.Orchestrator, a.Fetcher, cache, a.Runs, logger.Named("listings"), opts...)

	a.Cars = usecase.NewCarService(cars, logger.Named("cars"))

	var mailer repository.Mailer
	if cfg.MailConfigured() {
		mailer = smtpmail.NewMailer(smtpmail.Settings{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPass,
			From:     cfg.MailFrom,
		})
	}
	a.Contact = usecase.NewContactService(mailer, cfg.MailTo, "", logger.Named("contact"))

	return a, nil
}
