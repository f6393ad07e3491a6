package main // Entry point package

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/venue-seating-map/internal/config"
	"github.com/iliyamo/venue-seating-map/internal/database"
	"github.com/iliyamo/venue-seating-map/internal/handler"
	"github.com/iliyamo/venue-seating-map/internal/logger"
	"github.com/iliyamo/venue-seating-map/internal/middleware"
	"github.com/iliyamo/venue-seating-map/internal/queue"
	"github.com/iliyamo/venue-seating-map/internal/repository"
	"github.com/iliyamo/venue-seating-map/internal/router"
	"github.com/iliyamo/venue-seating-map/internal/selection"
	"github.com/iliyamo/venue-seating-map/internal/service"
	"github.com/iliyamo/venue-seating-map/internal/session"
	"github.com/iliyamo/venue-seating-map/internal/storage"
	"github.com/iliyamo/venue-seating-map/internal/venuesource"
)

func main() {
	envLoaded := godotenv.Load() == nil // .env is optional

	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	log.Info("starting", "env", cfg.Env, "dotenv", envLoaded, "venue_source", cfg.VenueSource)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rdb := config.NewRedisClient(config.LoadRedisConfig())
	if rdb == nil {
		log.Warn("redis unavailable: selections kept in memory, cache and rate limit disabled")
	} else {
		defer rdb.Close()
	}

	source, closeSource, err := venueSource(cfg, log)
	if err != nil {
		log.WithError(err).Error("venue source setup failed")
		os.Exit(1)
	}
	defer closeSource()
	source = venuesource.NewCached(source, rdb, cfg.StoragePrefix+":venue", cfg.VenueCacheTTL, log)

	sessions := session.NewRegistry(source, persisterFactory(cfg, rdb), cfg.SessionTTL, log)
	go sessions.Run(ctx, time.Minute)

	h := &handler.SeatingHandler{Sessions: sessions, Source: source, Log: log.WithComponent("http")}
	if cfg.AMQPURL != "" {
		h.Publisher = service.NewPublisher(cfg.AMQPURL, log)
		go queue.StartCheckoutConsumer(ctx, cfg.AMQPURL, "logs", log)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomw.Recover())
	e.Use(requestLogger(log))

	router.RegisterRoutes(e)
	router.RegisterSeating(e, h, router.Middlewares{
		Session:   middleware.Session(cfg.SessionSecret, cfg.SessionTTL, cfg.SecureCookies()),
		RateLimit: middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb, log),
		Cache:     middleware.NewRedisCache(config.LoadCacheConfig(), rdb),
	})

	addr := ":" + cfg.Port
	go func() {
		log.Info("listening", "addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("server failed")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("forced shutdown")
	}
}

// venueSource builds the configured fetcher and a cleanup func.
func venueSource(cfg config.Config, log *logger.Logger) (venuesource.Fetcher, func(), error) {
	if cfg.VenueSource != config.SourceMySQL {
		return venuesource.NewHTTPFetcher(cfg.VenueURL), func() {}, nil
	}
	db, err := database.Open(database.Options{
		User: cfg.DBUser, Pass: cfg.DBPass, Host: cfg.DBHost, Port: cfg.DBPort, Name: cfg.DBName,
	})
	if err != nil {
		return nil, nil, err
	}
	log.Info("mysql connected", "host", cfg.DBHost, "db", cfg.DBName)
	return venuesource.NewDBFetcher(repository.NewVenueRepo(db), cfg.VenueID), func() { _ = db.Close() }, nil
}

// persisterFactory keeps each session's selection under its own Redis key,
// or in memory without Redis.
func persisterFactory(cfg config.Config, rdb *redis.Client) session.PersisterFactory {
	return func(id string) selection.Persister {
		if rdb == nil {
			return storage.NewMemoryEntry()
		}
		return storage.NewRedisEntry(rdb, storage.SessionKey(cfg.StoragePrefix, id, cfg.SelectionKey), cfg.SessionTTL)
	}
}

func requestLogger(log *logger.Logger) echo.MiddlewareFunc {
	access := log.WithComponent("access")
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			l := access.WithSession(middleware.SessionID(c))
			if v.Error != nil {
				l = l.WithError(v.Error)
			}
			l.Info("request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency.String(),
				"remote_ip", v.RemoteIP,
			)
			return nil
		},
	})
}
