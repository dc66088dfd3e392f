package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/Akshaychdev/RESTapi-app-series/internal/config"
	"github.com/Akshaychdev/RESTapi-app-series/internal/database"
	"github.com/Akshaychdev/RESTapi-app-series/internal/handler"
	"github.com/Akshaychdev/RESTapi-app-series/internal/repository"
	"github.com/Akshaychdev/RESTapi-app-series/internal/router"
	queue_publisher "github.com/Akshaychdev/RESTapi-app-series/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// nil redis disables caching and rate limiting.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; cache and rate limiting disabled")
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	tags := repository.NewTagRepo(db)
	characters := repository.NewCharacterRepo(db)
	series := repository.NewSeriesRepo(db)

	authH := handler.NewAuthHandler(cfg, users, tokens)
	seriesH := handler.NewSeriesHandler(series, tags, characters, queue_publisher.New())
	tagH := handler.NewTagHandler(tags)
	charH := handler.NewCharacterHandler(characters)

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH)
	router.RegisterAPI(e, cfg, rdb, authH, seriesH, tagH, charH)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
