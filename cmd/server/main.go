package main // Entry point package

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/movie-ticket-booking/internal/catalog"
	"github.com/iliyamo/movie-ticket-booking/internal/config"
	"github.com/iliyamo/movie-ticket-booking/internal/database"
	"github.com/iliyamo/movie-ticket-booking/internal/handler"
	"github.com/iliyamo/movie-ticket-booking/internal/middleware"
	"github.com/iliyamo/movie-ticket-booking/internal/queue"
	"github.com/iliyamo/movie-ticket-booking/internal/repository"
	"github.com/iliyamo/movie-ticket-booking/internal/router"
	queue_publisher "github.com/iliyamo/movie-ticket-booking/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("env: .env not loaded: %v", err)
	}
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := repository.StoreOptions{EnforceSeats: cfg.EnforceSeats}
	deps := map[string]handler.Pinger{}

	// Redis backs the catalog cache and the rate limiter, and optionally
	// the booking store.  Outside the redis backend it is best effort.
	cacheCfg := config.LoadCacheConfig()
	rlCfg := config.LoadRateLimitConfig()
	var rdb *redis.Client
	if cfg.StoreBackend == config.BackendRedis || cacheCfg.Enabled || rlCfg.Enabled {
		c, err := config.NewRedisClient(config.LoadRedis())
		switch {
		case err == nil:
			rdb = c
			defer rdb.Close()
			deps["redis"] = handler.PingFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
		case cfg.StoreBackend == config.BackendRedis:
			log.Fatalf("redis: %v", err)
		default:
			log.Printf("redis: unavailable, cache and rate limit disabled: %v", err)
		}
	}

	var store repository.BookingStore
	switch cfg.StoreBackend {
	case config.BackendMySQL:
		db := openMySQL(ctx)
		defer db.Close()
		deps["mysql"] = handler.PingFunc(db.PingContext)
		store = repository.NewMySQLBookingRepo(db, opts)
	case config.BackendRedis:
		store = repository.NewRedisBookingRepo(rdb, cfg.RedisPrefix, opts)
	default:
		store = repository.NewMemoryStore(opts)
	}

	cat := catalog.Default()
	bookings := handler.NewBookingHandler(store, cat)
	bookings.Envelope = cfg.GatewayEnvelope
	if cfg.EventsEnabled {
		pub := queue_publisher.NewAMQPPublisher(cfg.RabbitURL)
		defer pub.Close()
		bookings.Events = pub
		consumer := &queue.Consumer{URL: cfg.RabbitURL, LogDir: cfg.LogDir}
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("queue: consumer stopped: %v", err)
			}
		}()
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(middleware.RequestID())
	e.Use(echomw.Logger())
	e.Use(router.CORS())

	var ready echo.HandlerFunc
	if len(deps) > 0 {
		ready = handler.Ready(deps)
	}
	router.RegisterRoutes(e, ready)
	router.RegisterBooking(e, bookings, middleware.NewTokenBucket(rlCfg, rdb))
	router.RegisterPublic(e, handler.NewPublicHandler(cat, store), middleware.NewRedisCache(cacheCfg, rdb))

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s, store=%s)", addr, cfg.Env, cfg.StoreBackend)

	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

// openMySQL connects with the DB_* settings and creates the booking tables.
func openMySQL(ctx context.Context) *sql.DB {
	db, err := database.Open(ctx, config.LoadDB())
	if err != nil {
		log.Fatalf("mysql: %v", err)
	}
	if err := database.Migrate(ctx, db); err != nil {
		log.Fatalf("mysql: migrate: %v", err)
	}
	return db
}
