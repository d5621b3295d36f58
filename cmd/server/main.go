package main

import (
	"context"
	"fmt"
	"log"

	"stockdesk/internal/auth"
	"stockdesk/internal/config"
	"stockdesk/internal/database"
	"stockdesk/internal/metrics"
	"stockdesk/internal/server"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	gin.SetMode(cfg.GinMode)

	db, err := database.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	database.EnsureAdmin(db, cfg.AdminUsername, cfg.AdminPassword)
	if cfg.SeedDemoUsers {
		database.SeedUsers(db, database.DemoUsers)
	}

	registry := sessionRegistry(cfg)

	m := metrics.New()
	store := auth.NewStore(
		database.NewUserRepository(db),
		registry,
		auth.WithTTL(cfg.SessionTTL),
		auth.WithRegistrationRoles(auth.ParseRoleSet(cfg.RegistrationRoles)),
	)
	store.Subscribe(database.AuditObserver{DB: db})
	store.Subscribe(m)

	r := server.NewRouter(server.Deps{
		Config:   cfg,
		DB:       db,
		Sessions: store,
		Tokens:   auth.NewTokenIssuer([]byte(cfg.JWTSecret)),
		Metrics:  m,
	})

	addr := fmt.Sprintf(":%s", cfg.ServerPort)
	log.Printf("starting server on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

// sessionRegistry uses Redis when configured, else an in-process map.
func sessionRegistry(cfg *config.Config) auth.Registry {
	if cfg.RedisAddr == "" {
		log.Printf("REDIS_ADDR not set, keeping sessions in memory")
		return auth.NewMemoryRegistry()
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("failed to connect to redis at %s: %v", cfg.RedisAddr, err)
	}
	return auth.NewRedisRegistry(rdb, "stockdesk")
}
