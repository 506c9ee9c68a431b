package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/alriefqyd/gemba-api/api"
	"github.com/alriefqyd/gemba-api/config"
	"github.com/alriefqyd/gemba-api/database"
	"github.com/alriefqyd/gemba-api/storage"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	log.Info().Msg("Initializing app...")

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("no .env file loaded")
	}

	c := config.New()

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  config.DatabaseDSN(c),
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	if err != nil {
		log.Error().Err(err).Msg("error connecting to database")
		os.Exit(1)
	}

	// Test database connection
	var result int
	if err := db.Raw("SELECT 1").Scan(&result).Error; err != nil {
		log.Error().Err(err).Msg("error testing database connection")
		os.Exit(1)
	}

	currentDB := database.New(db)

	if config.GetBool(c, "AUTO_MIGRATE", true) {
		if err := currentDB.Migrate(); err != nil {
			log.Error().Err(err).Msg("error running migrations")
			os.Exit(1)
		}
	}

	store, err := storage.NewStorage(config.StorageConfig(c))
	if err != nil {
		log.Error().Err(err).Msg("error initializing attachment store")
		os.Exit(1)
	}

	errChannel := make(chan error)
	defer close(errChannel)

	server, err := api.NewServer(currentDB, store)
	if err != nil {
		log.Error().Err(err).Msg("error initializing server")
		os.Exit(1)
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	log.Info().Msgf("Closing server: %v", fatalErr)

	server.ShutdownGracefully(30 * time.Second)
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
