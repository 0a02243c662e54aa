package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/georgemunganga/akistapp-admin/internal/config"
	"github.com/georgemunganga/akistapp-admin/internal/httpx"
	"github.com/georgemunganga/akistapp-admin/internal/kafka"
	"github.com/georgemunganga/akistapp-admin/internal/live"
	"github.com/georgemunganga/akistapp-admin/internal/modules/auth"
	"github.com/georgemunganga/akistapp-admin/internal/modules/catalog"
	"github.com/georgemunganga/akistapp-admin/internal/modules/dashboard"
	"github.com/georgemunganga/akistapp-admin/internal/modules/inventory"
	"github.com/georgemunganga/akistapp-admin/internal/modules/media"
	"github.com/georgemunganga/akistapp-admin/internal/modules/order"
	"github.com/georgemunganga/akistapp-admin/internal/modules/promotion"
	"github.com/georgemunganga/akistapp-admin/internal/modules/session"
	"github.com/georgemunganga/akistapp-admin/internal/modules/store"
	"github.com/georgemunganga/akistapp-admin/internal/modules/user"
	"github.com/georgemunganga/akistapp-admin/internal/postgres"
	"github.com/georgemunganga/akistapp-admin/internal/redisx"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using the process environment")
	}
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()
	if err := postgres.Migrate(ctx, db); err != nil {
		log.Fatal(err)
	}
	log.Println("connected to the database")

	rdb, err := redisx.New(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		log.Fatal(err)
	}
	defer rdb.Close()
	authEvents := redisx.NewAuthEventBus(rdb)

	// ── Live change feed ────────────────────────────────────
	hub := live.NewHub()
	go func() {
		if err := live.NewListener(cfg.DatabaseURL, hub).Run(ctx); err != nil {
			log.Printf("live listener stopped: %v", err)
		}
	}()

	var producer *kafka.Producer
	relayDone := make(chan struct{})
	if len(cfg.KafkaBrokers) > 0 {
		producer = kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic, 1024)
		producer.Start()
		go func() {
			defer close(relayDone)
			live.NewKafkaRelay(hub, producer).Run(ctx)
		}()
		log.Printf("relaying changes to kafka topic %s", cfg.KafkaTopic)
	} else {
		close(relayDone)
	}

	// ── Identity ────────────────────────────────────────────
	userRepo := user.NewPostgresRepository(db)
	userService := user.NewService(userRepo, authEvents)
	authService := auth.NewService(userRepo, redisx.NewDenylist(rdb), authEvents, cfg.JWTSecret, cfg.JWTTTL)

	authenticate := auth.Authenticate(authService)
	principal := chi.Chain(authenticate, auth.LoadPrincipal(userRepo)).Handler
	admin := auth.RequireRole(user.RoleAdmin)
	storeAccess := auth.RequireStoreAccess("store_id")

	// ── Stores, catalog and inventory ───────────────────────
	storeRepo := store.NewPostgresRepository(db)
	storeService := store.NewService(storeRepo)
	catalogService := catalog.NewService(catalog.NewPostgresRepository(db))
	inventoryService := inventory.NewService(inventory.NewPostgresRepository(db), storeRepo)
	orderService := order.NewService(order.NewPostgresRepository(db))
	promotionService := promotion.NewService(promotion.NewPostgresRepository(db), storeRepo)
	dashboardService := dashboard.NewService(storeService.CountStores, catalogService.CountProducts, userRepo.CountUsers)

	// ── Router ──────────────────────────────────────────────
	router := httpx.NewRouter()

	router.Group(func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))
		auth.NewHandler(authService).RegisterRoutes(api, principal)

		api.Group(func(p chi.Router) {
			p.Use(principal)
			user.NewHandler(userService).RegisterRoutes(p, admin)
			store.NewHandler(storeService).RegisterRoutes(p, admin, storeAccess)
			catalog.NewHandler(catalogService).RegisterRoutes(p, admin)
			inventory.NewHandler(inventoryService).RegisterRoutes(p, storeAccess)
			order.NewHandler(orderService).RegisterRoutes(p, storeAccess)
			promotion.NewHandler(promotionService).RegisterRoutes(p, admin, storeAccess)
			dashboard.NewHandler(dashboardService).RegisterRoutes(p, admin)

			if cfg.CloudinaryURL != "" {
				images, err := media.NewCloudinaryStore(cfg.CloudinaryURL, cfg.MediaFolder)
				if err != nil {
					log.Fatal(err)
				}
				media.NewHandler(images).RegisterRoutes(p, auth.RequireRole(user.RoleAdmin, user.RoleStoreManager))
			}
		})
	})

	// Streams stay outside the request timeout.
	session.NewHandler(userRepo, authEvents, cfg.WSAllowedOrigins).
		RegisterRoutes(router, auth.OptionalAuthenticate(authService), authenticate)
	live.NewHandler(hub, cfg.WSAllowedOrigins).RegisterRoutes(router, principal)

	// ── Start Server ────────────────────────────────────────
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Printf("%s listening on %s", cfg.ServiceName, cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown: %v", err)
	}
	<-relayDone
	if producer != nil {
		producer.Close()
	}
	log.Println("bye")
}
