package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/dormfix/internal/config"
	"github.com/iliyamo/dormfix/internal/database"
	"github.com/iliyamo/dormfix/internal/handler"
	"github.com/iliyamo/dormfix/internal/queue"
	"github.com/iliyamo/dormfix/internal/repository"
	"github.com/iliyamo/dormfix/internal/router"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments use env vars

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional: rate limiting and response caching degrade to
	// no-ops when the client is nil.
	rdb := config.NewRedisClient()

	// Background consumer appends maintenance events to logs/maintenance.log.
	// It runs its own reconnect loop and never takes the server down.
	go func() {
		if err := queue.StartMaintenanceConsumer(); err != nil {
			log.Printf("maintenance consumer stopped: %v", err)
		}
	}()

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	rooms := repository.NewRoomRepo(db)
	assignments := repository.NewAssignmentRepo(db)
	requests := repository.NewMaintenanceRepo(db)

	e := echo.New()
	e.HideBanner = true

	router.RegisterRoutes(e, router.Deps{
		Cfg:         cfg,
		Auth:        handler.NewAuthHandler(cfg, users, tokens, assignments),
		Tenants:     handler.NewLandlordTenantHandler(users, assignments, tokens),
		Rooms:       handler.NewLandlordRoomHandler(rooms, assignments),
		Maintenance: handler.NewMaintenanceHandler(cfg, requests, users, assignments),
		Upload:      handler.NewUploadHandler(cfg),
		Users:       users,
		Redis:       rdb,
	})

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
