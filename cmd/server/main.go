package main // Entry point package

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/rawaz/digital-menu/internal/auth"
	"github.com/rawaz/digital-menu/internal/config"
	"github.com/rawaz/digital-menu/internal/database"
	"github.com/rawaz/digital-menu/internal/handler"
	"github.com/rawaz/digital-menu/internal/queue"
	"github.com/rawaz/digital-menu/internal/repository"
	"github.com/rawaz/digital-menu/internal/router"
	"github.com/rawaz/digital-menu/internal/service"
	"github.com/rawaz/digital-menu/internal/storage"
)

func main() {
	// A local .env is convenient in dev; absence is fine in prod.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient() // nil means degrade: no cache, no limiter, in-memory snapshots

	storageCfg := config.LoadStorageConfig()
	assets, err := storage.New(storageCfg)
	if err != nil {
		log.Fatalf("object store: %v", err)
	}

	// Repositories
	accounts := repository.NewAccountRepo(db)
	sessions := repository.NewSessionRepo(db)
	categories := repository.NewCategoryRepo(db)
	subcategories := repository.NewSubCategoryRepo(db)
	settings := repository.NewSettingsRepo(db)
	feedback := repository.NewFeedbackRepo(db)

	// Session manager with its background inactivity sweep
	var snapshots auth.SnapshotCache = auth.NewMemorySnapshotCache()
	if rdb != nil {
		snapshots = auth.NewRedisSnapshotCache(rdb, cfg.Auth.SessionTTL)
	}
	accountStore := auth.NewAccountStore(accounts, cfg.Auth.JWTSecret, cfg.Auth.SessionTTL)
	manager := auth.NewManager(cfg.Auth, accountStore, sessions, snapshots)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	manager.StartMonitor(ctx)
	defer manager.Stop()

	// Cascade delete coordinator
	catalog := service.NewCatalog(categories, subcategories, assets)

	// Feedback consumer drains the queue for the local feedback log.
	go queue.StartFeedbackConsumer()

	// HTTP surface
	e := echo.New()
	e.HideBanner = true
	router.RegisterRoutes(e)
	router.RegisterPublic(e,
		handler.NewPublicHandler(categories, subcategories, settings, cfg.RestaurantID),
		handler.NewFeedbackHandler(feedback, cfg.RestaurantID),
		rdb)
	router.RegisterAdmin(e,
		handler.NewAuthHandler(manager),
		handler.NewAdminHandler(categories, subcategories, settings, feedback, catalog, assets, storageCfg.Bucket, cfg.RestaurantID),
		manager, rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	go func() {
		<-ctx.Done()
		_ = e.Shutdown(context.Background())
	}()
	if err := e.Start(addr); err != nil {
		log.Println(err)
	}
}
