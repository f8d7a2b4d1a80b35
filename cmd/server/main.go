package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/simaogato/banktrack-backend/internal/adapter/customer/randomuser"
	httpadapter "github.com/simaogato/banktrack-backend/internal/adapter/http"
	"github.com/simaogato/banktrack-backend/internal/adapter/storage/file"
	"github.com/simaogato/banktrack-backend/internal/adapter/storage/memory"
	"github.com/simaogato/banktrack-backend/internal/adapter/storage/postgres"
	"github.com/simaogato/banktrack-backend/internal/domain"
	"github.com/simaogato/banktrack-backend/internal/usecase/customer"
	"github.com/simaogato/banktrack-backend/internal/usecase/ledger"
)

const (
	defaultHTTPAddr     = ":8080"
	defaultSnapshotPath = "data/snapshot.json"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	// A missing .env is fine: plain environment variables still apply.
	_ = godotenv.Load()

	ctx := context.Background()

	// 1. Setup snapshot storage
	store, err := newSnapshotStore(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up snapshot storage")
	}

	// 2. Initialize Services (Use Cases)
	ledgerService := ledger.NewService(ctx, store)

	customerClient := randomuser.NewClient(os.Getenv("CUSTOMER_API_URL"))
	customerService := customer.NewService(customerClient, ledgerService)

	// 3. Start HTTP Server
	handler := httpadapter.NewHandler(ledgerService, customerService)
	authMiddleware := httpadapter.AuthMiddleware(os.Getenv("API_TOKEN"))

	addr := env("HTTP_ADDR", defaultHTTPAddr)
	server := &http.Server{
		Addr:    addr,
		Handler: authMiddleware(handler.Routes()),
	}

	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	waitForShutdown(server)
}

// newSnapshotStore picks the storage driver from STORAGE_DRIVER:
// "file" (default), "postgres" or "memory".
func newSnapshotStore(ctx context.Context) (domain.SnapshotStore, error) {
	driver := env("STORAGE_DRIVER", "file")

	switch driver {
	case "file":
		path := env("SNAPSHOT_PATH", defaultSnapshotPath)
		return file.NewSnapshotStore(path), nil

	case "postgres":
		db, err := postgres.NewDB(connString())
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := postgres.Init(ctx, db); err != nil {
			return nil, err
		}
		return postgres.NewSnapshotStore(db), nil

	case "memory":
		return memory.NewSnapshotStore(), nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}

// connString builds the postgres connection string from DB_CONN_STR, or
// from the individual DB_* variables (Docker friendly).
func connString() string {
	if connStr := os.Getenv("DB_CONN_STR"); connStr != "" {
		return connStr
	}

	host := env("DB_HOST", "localhost")
	port := env("DB_PORT", "5432")
	user := env("DB_USER", "postgres")
	password := env("DB_PASSWORD", "postgres")
	dbname := env("DB_NAME", "banktrack")

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully shuts down the server
func waitForShutdown(server *http.Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("shutting down gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown failed")
	}
	log.Info().Msg("HTTP server stopped")
}

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
