package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"foodcart-service/internal/adapters/cache"
	"foodcart-service/internal/adapters/geocode"
	"foodcart-service/internal/adapters/repositories"
	"foodcart-service/internal/api"
	"foodcart-service/internal/config"
	"foodcart-service/internal/platform/db"
	"foodcart-service/internal/platform/obs"
	"foodcart-service/internal/ports"
	"foodcart-service/internal/services"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// main is the application composition root.
// It wires concrete adapters (Postgres, Valkey, Yandex) behind ports and starts the HTTP server.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}
	obs.SetupLogging(cfg.Log.Level, cfg.Log.Format)
	gin.SetMode(gin.ReleaseMode)

	conn, err := db.Open(cfg.Database.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot connect to db")
	}
	defer conn.Close()

	ctx := context.Background()
	if err := repositories.InitSchema(ctx, conn); err != nil {
		log.Fatal().Err(err).Msg("schema initialization failed")
	}

	store, closeStore, err := openAddressStore(cfg, conn)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot open address store")
	}
	defer closeStore()

	geocoder, err := geocode.NewYandexClient(cfg.Geocoder.BaseURL, cfg.Geocoder.APIKey, cfg.Geocoder.Timeout)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot create geocoder")
	}

	catalog := repositories.NewSQLCatalogRepository(conn)
	orders := repositories.NewSQLOrderRepository(conn)
	resolver := services.NewFulfillmentResolver(catalog, services.NewAddressCache(store, geocoder))
	svc := services.NewOrderService(orders, catalog, resolver)

	// Write timeout leaves room for a cold manager view (one geocode per unseen address).
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           api.NewRouter(svc, cfg.Manager.MaxCandidates),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("address_store", cfg.Cache.Backend).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info().Str("signal", sig.String()).Msg("shutdown signal received, draining connections")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server stopped")
}

func openAddressStore(cfg *config.Config, conn *sql.DB) (ports.AddressStore, func(), error) {
	switch cfg.Cache.Backend {
	case config.BackendValkey:
		s, err := cache.NewValkeyAddressStore(cfg.Valkey.Addr)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case config.BackendMemory:
		return cache.NewMemoryAddressStore(), func() {}, nil
	default:
		return cache.NewSQLAddressStore(conn), func() {}, nil
	}
}
