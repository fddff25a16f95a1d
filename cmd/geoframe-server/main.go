package main

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"geoframe/pkg/api"
	"geoframe/pkg/flight"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg(".env file not found")
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if os.Getenv("GEOFRAME_DEBUG") != "" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	restPort := envPort("GEOFRAME_PORT", 8080)
	flightPort := envPort("GEOFRAME_FLIGHT_PORT", 50051)

	// Start REST API server in goroutine
	apiServer := api.NewAPIServer(restPort)
	go func() {
		if err := apiServer.Start(); err != nil {
			log.Error().Err(err).Msg("REST API server error")
		}
	}()

	// Start Flight server
	if err := flight.StartFlightServer(flightPort); err != nil {
		log.Fatal().Err(err).Msg("flight server failed")
	}
}

func envPort(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	port, err := strconv.Atoi(v)
	if err != nil {
		log.Fatal().Str("key", key).Str("value", v).Msg("invalid port")
	}
	return port
}
