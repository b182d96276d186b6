/**
 * @description
 * This is the main entry point for Silver Bank. It is responsible for
 * initializing all components of the service, including configuration,
 * database connection, the session revocation store, the event producer,
 * the repository, the core application service, and the HTTP server. It
 * wires everything together and starts the service.
 *
 * @dependencies
 * - log, net/http: Standard Go libraries for logging and HTTP server functionality.
 * - github.com/jackc/pgx/v5: PostgreSQL driver.
 * - github.com/joho/godotenv: Loads a local .env file in development.
 * - github.com/redis/go-redis/v9: Session revocation store.
 * - internal/api, internal/app, internal/auth, internal/config, internal/store:
 *   Internal packages for the service.
 * - pkg/rabbitmq: Client for RabbitMQ.
 */

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/sumin-dev/Silver-Bank/internal/api"
	"github.com/sumin-dev/Silver-Bank/internal/app"
	"github.com/sumin-dev/Silver-Bank/internal/auth"
	"github.com/sumin-dev/Silver-Bank/internal/config"
	"github.com/sumin-dev/Silver-Bank/internal/store"
	"github.com/sumin-dev/Silver-Bank/pkg/rabbitmq"
)

func main() {
	// Load a local .env file if present. Environment variables win.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("level=fatal component=bootstrap msg=\"config load failed\" err=%v", err)
	}
	if strings.TrimSpace(cfg.JWTSecret) == "" {
		log.Fatalf("level=fatal component=bootstrap msg=\"jwt secret must be configured\" env=JWT_SECRET")
	}
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		log.Fatalf("level=fatal component=bootstrap msg=\"database url must be configured\" env=DATABASE_URL")
	}

	log.Printf("level=info component=bootstrap msg=\"starting silver-bank\" port=%s", cfg.ServerPort)

	// Establish a connection pool to the PostgreSQL database.
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("level=fatal component=bootstrap msg=\"database url parse failed\" err=%v", err)
	}
	poolConfig.MaxConns = 25
	poolConfig.MinConns = 5
	poolConfig.MaxConnLifetime = 30 * time.Minute
	poolConfig.MaxConnIdleTime = 5 * time.Minute

	// Disable prepared statement caching to prevent conflicts
	poolConfig.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol

	dbpool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		log.Fatalf("level=fatal component=bootstrap msg=\"database connection failed\" err=%v", err)
	}
	defer dbpool.Close()
	log.Println("level=info component=bootstrap msg=\"database connected\"")

	// Session revocation store. Without Redis, logout still succeeds but
	// revoked tokens stay valid until expiry.
	var revoker auth.Revoker = auth.NopRevoker{}
	if cfg.RedisURL != "" {
		redisOptions, parseErr := redis.ParseURL(cfg.RedisURL)
		if parseErr != nil {
			log.Printf("level=warn component=bootstrap msg=\"redis url parse failed; token revocation disabled\" err=%v", parseErr)
		} else {
			redisClient := redis.NewClient(redisOptions)
			pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancelPing()
			if pingErr := redisClient.Ping(pingCtx).Err(); pingErr != nil {
				log.Printf("level=warn component=bootstrap msg=\"redis ping failed; token revocation disabled\" err=%v", pingErr)
				redisClient.Close()
			} else {
				defer redisClient.Close()
				revoker = auth.NewRedisRevoker(redisClient, cfg.RedisRevokedPrefix)
				log.Println("level=info component=bootstrap msg=\"redis connected\"")
			}
		}
	} else {
		log.Println("level=warn component=bootstrap msg=\"redis url missing; token revocation disabled\" env=REDIS_URL")
	}

	// Initialize the RabbitMQ producer to publish transfer events.
	var producer rabbitmq.Publisher
	eventProducer, err := rabbitmq.NewEventProducer(cfg.RabbitMQURL)
	if err != nil {
		log.Printf("level=warn component=bootstrap msg=\"rabbitmq producer unavailable; using fallback\" err=%v", err)
		producer = &rabbitmq.EventProducerFallback{}
	} else {
		defer eventProducer.Close()
		producer = eventProducer
		log.Println("level=info component=bootstrap msg=\"rabbitmq producer connected\"")
	}

	// Initialize the data access layer (repository).
	repository := store.NewPostgresRepository(dbpool)

	// Ensure required tables exist (idempotent)
	if err := repository.EnsureSchema(context.Background()); err != nil {
		log.Fatalf("level=fatal component=bootstrap msg=\"schema bootstrap failed\" err=%v", err)
	}

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.SessionTTL(), revoker)

	// Initialize the core application service with its dependencies.
	bankService := app.NewService(repository, producer)

	// Initialize the API handlers and router.
	handlers := api.NewHandlers(bankService, tokens)
	router := api.Routes(handlers, tokens, cfg.AllowedOrigins())

	serverAddr := fmt.Sprintf(":%s", cfg.ServerPort)
	log.Printf("level=info component=http msg=\"server listening\" addr=%s", serverAddr)

	server := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("level=fatal component=http msg=\"server stopped unexpectedly\" err=%v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Println("level=info component=http msg=\"shutdown started\"")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("level=error component=http msg=\"shutdown failed\" err=%v", err)
	}

	log.Println("level=info component=http msg=\"shutdown complete\"")
}
