package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/acornlabs/storyroom/internal/api"
	"github.com/acornlabs/storyroom/internal/config"
	"github.com/acornlabs/storyroom/internal/database"
	"github.com/acornlabs/storyroom/internal/provider"
	"github.com/acornlabs/storyroom/internal/rooms"
	"github.com/acornlabs/storyroom/internal/stats"
)

const defaultSigningKey = "wT0phFUusHZIrDhL9bUKPUhwaxKhpi/SaI6PtgB+MgU="

type stringSliceFlag []string

func (s *stringSliceFlag) String() string {
	return strings.Join(*s, ",")
}

func (s *stringSliceFlag) Set(value string) error {
	*s = append(*s, strings.Split(value, ",")...)
	return nil
}

var (
	addr              string
	dsn               string
	signingKey        string
	providerUrl       string
	providerSecret    string
	reconcileInterval time.Duration
	allowedOrigins    stringSliceFlag
)

func main() {
	flag.StringVar(&addr, "addr", "localhost:8000", "server address")
	flag.StringVar(&dsn, "dsn", "host=localhost user=postgres password=postgres dbname=postgres sslmode=disable", "database connection string")
	flag.StringVar(&signingKey, "signing-key", defaultSigningKey, "base64 encoded signing key")
	flag.StringVar(&providerUrl, "provider-url", "http://localhost:4443", "base URL of the media session provider")
	flag.StringVar(&providerSecret, "provider-secret", "MY_SECRET", "shared secret for the media session provider")
	flag.DurationVar(&reconcileInterval, "reconcile-interval", time.Minute, "how often expired rooms are reconciled")
	flag.Var(&allowedOrigins, "allowed-origins", "comma-separated list of allowed origins for CORS")
	flag.Parse()

	logger := log.New(os.Stderr, "[storyroom] ", log.LstdFlags)

	cfg, err := config.NewConfig(addr, dsn, signingKey, providerUrl, providerSecret, allowedOrigins, reconcileInterval)
	if err != nil {
		logger.Fatal("config:", err)
	}

	dbConn, err := database.NewPgStoryRoomRepository(cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal("db open:", err)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Fatal("db close:", err)
		}
	}()

	if err := dbConn.Migrate(); err != nil {
		logger.Fatal("db migrate:", err)
	}

	mux := http.NewServeMux()

	statsUpdater := stats.NewStatsUpdater(mux)

	gateway := provider.NewOpenViduClient(cfg.ProviderUrl, cfg.ProviderSecret)

	coordinator := rooms.NewCoordinator(logger, dbConn, gateway, statsUpdater)

	reconciler := rooms.NewReconciler(logger, coordinator, cfg.ReconcileInterval)

	srv := api.NewStoryRoomApp(mux, logger, coordinator, dbConn, cfg)

	statsUpdater.Run()
	defer statsUpdater.Stop()

	reconciler.Run()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigs:
		logger.Printf("received signal: %s\n", sig)
	case err := <-errCh:
		logger.Println("server:", err)
	}

	shutDownCtx, cancel := context.WithTimeout(
		context.Background(),
		10*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutDownCtx); err != nil {
		logger.Fatalln("HTTP server shutdown:", err)
	}

	logger.Println("stopping reconciler...")
	reconciler.Stop()

	logger.Println("shutdown complete")
}
