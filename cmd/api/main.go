package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"sharespot/internal/config"
	"sharespot/internal/database"
	"sharespot/internal/middleware"
	"sharespot/internal/modules/booking"
	"sharespot/internal/modules/notification"
	"sharespot/internal/pkg/itemlock"
	jwtsvc "sharespot/internal/pkg/jwt"
	"sharespot/internal/pkg/metrics"
	"sharespot/internal/pkg/tracing"
	"sharespot/internal/repository"
	"sharespot/internal/seeddata"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config: ", err)
	}
	if cfg.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, cfg.ServiceName, cfg.OTLPEndpoint)
	if err != nil {
		log.Fatal("tracing: ", err)
	}
	defer shutdownTracing()

	st, err := openStores(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}

	locker, rdb := newLocker(ctx, cfg)
	if rdb != nil {
		defer rdb.Close()
	}

	hub := notification.NewHub()
	defer hub.Close()
	notifService := notification.NewService(st.notifications, hub)
	notifHandler := notification.NewHandler(notifService, hub, cfg.CORSAllowedOrigins...)

	opts := []booking.Option{booking.WithLocker(locker)}
	if cfg.EnforceAvailabilityWindows {
		opts = append(opts, booking.WithWindowEnforcement(st.items))
	}
	bookingService := booking.NewService(st.bookings, notifService, opts...)
	bookingHandler := booking.NewHandler(bookingService, st.items)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.ErrorLogger(),
		middleware.AccessLog(),
		middleware.CORS(cfg.CORSAllowedOrigins...),
		metrics.Middleware(),
		tracing.Middleware(),
	)

	r.GET("/health", healthHandler(st.db, rdb))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	v1.Use(middleware.JWTAuth(j))
	{
		bookingHandler.RegisterRoutes(v1)
		notifHandler.RegisterRoutes(v1)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("server listening addr=%s store=%s", srv.Addr, cfg.StoreKind())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}

type stores struct {
	db            *gorm.DB
	bookings      booking.BookingStore
	items         booking.ItemCatalog
	notifications *notification.Repository
}

// openStores keeps bookings and items in memory, seeded with the demo catalog, when no
// DATABASE_URL is set. Notifications always live in gorm, on sqlite :memory: in that case.
func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	dsn := cfg.DatabaseURL
	if dsn == "" {
		dsn = ":memory:"
	}
	db, err := database.Connect(dsn)
	if err != nil {
		return nil, err
	}

	st := &stores{db: db, notifications: notification.NewRepository(db)}
	if err := st.notifications.Migrate(); err != nil {
		return nil, err
	}

	if cfg.StoreKind() == "memory" {
		st.bookings = repository.NewMemoryBookingRepository(seeddata.Bookings()...)
		st.items = repository.NewMemoryItemRepository(seeddata.Items()...)
		log.Printf("using in-memory booking store with %d demo bookings", len(seeddata.Bookings()))
		return st, nil
	}

	bookingRepo := repository.NewBookingRepository(db)
	if err := bookingRepo.Migrate(); err != nil {
		return nil, err
	}
	itemRepo := repository.NewItemRepository(db)
	if err := itemRepo.Migrate(); err != nil {
		return nil, err
	}
	st.bookings = bookingRepo
	st.items = itemRepo
	return st, nil
}

// newLocker uses redis when REDIS_URL is set and reachable, in-process locks otherwise.
func newLocker(ctx context.Context, cfg *config.Config) (booking.ItemLocker, *redis.Client) {
	if cfg.RedisURL == "" {
		log.Println("item locks: in-process (set REDIS_URL for redis)")
		return itemlock.NewLocal(), nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatal("invalid REDIS_URL: ", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		if cfg.IsProd() {
			log.Fatal("redis ping failed: ", err)
		}
		log.Printf("redis ping failed, using in-process item locks: %v", err)
		_ = rdb.Close()
		return itemlock.NewLocal(), nil
	}
	log.Printf("item locks: redis ttl=%s", cfg.ItemLockTTL)
	return itemlock.NewRedis(rdb, cfg.ItemLockTTL), rdb
}

func healthHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := http.StatusOK
		checks := gin.H{"database": "up", "redis": "n/a"}

		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			status = http.StatusServiceUnavailable
			checks["database"] = "down"
		}
		if rdb != nil {
			checks["redis"] = "up"
			if err := rdb.Ping(c.Request.Context()).Err(); err != nil {
				status = http.StatusServiceUnavailable
				checks["redis"] = "down"
			}
		}

		state := "healthy"
		if status != http.StatusOK {
			state = "degraded"
		}
		c.JSON(status, gin.H{"status": state, "checks": checks})
	}
}
