package main

import (
	"context"
	"fmt"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/skybi/identity-server/internal/api"
	"github.com/skybi/identity-server/internal/config"
	"github.com/skybi/identity-server/internal/storage"
	"github.com/skybi/identity-server/internal/storage/cache"
	"github.com/skybi/identity-server/internal/storage/inmem"
	"github.com/skybi/identity-server/internal/storage/postgres"
	"os"
	"os/signal"
)

func main() {
	// Set up zerolog to use pretty printing
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out: os.Stderr,
	})
	log.Info().Msg("starting up...")

	// Load the application configuration
	log.Info().Msg("loading configuration...")
	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("could not load the configuration")
	}
	if cfg.IsEnvProduction() {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Debug().Str("config", fmt.Sprintf("%+v", cfg)).Msg("")

	// Initialize the configured storage driver
	log.Info().Str("driver", cfg.StorageDriver).Msg("initializing storage driver...")
	var driver storage.Driver
	switch cfg.StorageDriver {
	case config.StorageDriverInmem:
		log.Warn().Msg("the in-memory storage driver does not persist any data")
		driver = inmem.New()
	default:
		driver = postgres.New(cfg.PostgresDSN)
	}
	if cfg.CacheLifetime > 0 {
		log.Info().Dur("lifetime", cfg.CacheLifetime).Msg("enabling account cache...")
		driver = cache.New(driver, cfg.CacheLifetime)
	}
	if err := driver.Initialize(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("could not initialize the storage driver")
	}
	defer driver.Close()

	// Start up the account API
	log.Info().Str("address", cfg.ListenAddress).Msg("starting up the account API...")
	apis := &api.Service{
		Config:  cfg,
		Storage: driver,
	}
	apiErrs := make(chan error, 1)
	apis.Startup(apiErrs)
	go func() {
		err := <-apiErrs
		log.Fatal().Err(err).Msg("the API service raised an unexpected error")
	}()
	defer func() {
		log.Info().Msg("shutting down the account API...")
		apis.Shutdown()
	}()

	log.Info().Msg("done!")
	defer log.Info().Msg("shutting down...")

	// Wait for the application to be terminated
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt)
	<-shutdown
}
